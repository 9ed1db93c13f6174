package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rationcart/backend/internal/domain"
	"github.com/rationcart/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	listService       *usecase.ListService
	comparisonService *usecase.ComparisonService
	cartService       *usecase.CartService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	listService *usecase.ListService,
	comparisonService *usecase.ComparisonService,
	cartService *usecase.CartService,
) *Handler {
	return &Handler{
		listService:       listService,
		comparisonService: comparisonService,
		cartService:       cartService,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "rationcart-backend",
		"version": "1.0.0",
	})
}

type createListRequest struct {
	Title string `json:"title" binding:"required"`
}

// CreateList creates a new ration list
func (h *Handler) CreateList(c *gin.Context) {
	var req createListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "title is required"})
		return
	}

	list, err := h.listService.CreateList(c.Request.Context(), userID(c), req.Title)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "list": list})
}

// ListLists returns all of the user's ration lists
func (h *Handler) ListLists(c *gin.Context) {
	lists, err := h.listService.ListLists(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "lists": lists})
}

// GetList returns one ration list
func (h *Handler) GetList(c *gin.Context) {
	list, err := h.listService.GetList(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "list": list})
}

type processOCRRequest struct {
	ListID    string `json:"list_id" binding:"required"`
	ImageData string `json:"image_data" binding:"required"`
}

// ProcessOCR runs text detection over the uploaded list photo and returns
// the extracted items
func (h *Handler) ProcessOCR(c *gin.Context) {
	var req processOCRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "list_id and image_data are required"})
		return
	}

	list, err := h.listService.ProcessOCR(c.Request.Context(), userID(c), req.ListID, req.ImageData)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"extracted_text":  list.RawOCRText,
		"extracted_items": list.ExtractedItems,
	})
}

type comparePricesRequest struct {
	ListID string                 `json:"list_id" binding:"required"`
	Items  []domain.ExtractedItem `json:"items" binding:"required"`
}

// ComparePrices looks up each item across the configured platforms and
// returns the arbitrated comparisons
func (h *Handler) ComparePrices(c *gin.Context) {
	var req comparePricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "list_id and items are required"})
		return
	}

	comparisons := h.comparisonService.CompareAndStore(c.Request.Context(), req.ListID, req.Items)

	c.JSON(http.StatusOK, gin.H{"success": true, "comparisons": comparisons})
}

// GetComparisons returns the stored comparisons for a list
func (h *Handler) GetComparisons(c *gin.Context) {
	comparisons, err := h.comparisonService.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "comparisons": comparisons})
}

type automateCartRequest struct {
	ListID   string                 `json:"list_id" binding:"required"`
	Platform domain.Platform        `json:"platform" binding:"required"`
	Items    []domain.ExtractedItem `json:"items" binding:"required"`
}

// AutomateCart runs the simulated add-to-cart automation
func (h *Handler) AutomateCart(c *gin.Context) {
	var req automateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "list_id, platform and items are required"})
		return
	}

	result, err := h.cartService.Automate(c.Request.Context(), userID(c), req.ListID, req.Platform, req.Items)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"cart_session_id": result.Session.ID,
		"automation_log":  result.Session.AutomationLog,
		"platform_url":    result.PlatformURL,
		"message":         "Cart prepared. Visit the platform to complete checkout.",
	})
}

// respondError maps domain errors onto HTTP status codes. Only auth and
// not-found conditions surface with their own codes; everything else is a
// generic 500 since recoverable conditions never reach here.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, domain.ErrListNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
	}
}
