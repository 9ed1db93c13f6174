package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/rationcart/backend/internal/domain"
)

// ListService manages ration lists and runs the OCR pipeline over them
type ListService struct {
	lists     domain.ListRepository
	ocrClient domain.OCRClient
	extractor *TextExtractor
}

// NewListService creates a list service with its dependencies
func NewListService(lists domain.ListRepository, ocrClient domain.OCRClient, extractor *TextExtractor) *ListService {
	return &ListService{
		lists:     lists,
		ocrClient: ocrClient,
		extractor: extractor,
	}
}

// CreateList creates a new pending ration list for the user
func (s *ListService) CreateList(ctx context.Context, userID, title string) (*domain.RationList, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	if title == "" {
		return nil, domain.ErrInvalidRequest
	}

	now := time.Now()
	list := &domain.RationList{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Status:    domain.ListStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.lists.Create(ctx, list); err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}

	return list, nil
}

// GetList fetches one list scoped to the user
func (s *ListService) GetList(ctx context.Context, userID, listID string) (*domain.RationList, error) {
	return s.lists.GetByID(ctx, userID, listID)
}

// ListLists returns the user's lists, newest first
func (s *ListService) ListLists(ctx context.Context, userID string) ([]*domain.RationList, error) {
	return s.lists.ListByUser(ctx, userID)
}

// ProcessOCR runs text detection on the uploaded image and stores the
// extracted items on the list. The list moves pending -> processing ->
// completed; an OCR provider failure parks it at failed and surfaces the
// error, since there is no meaningful fallback for a dead OCR provider.
func (s *ListService) ProcessOCR(ctx context.Context, userID, listID, imageBase64 string) (*domain.RationList, error) {
	if err := s.lists.UpdateStatus(ctx, userID, listID, domain.ListStatusProcessing); err != nil {
		return nil, err
	}

	text, err := s.ocrClient.ExtractText(ctx, imageBase64)
	if err != nil {
		if statusErr := s.lists.UpdateStatus(ctx, userID, listID, domain.ListStatusFailed); statusErr != nil {
			log.Printf("[OCR] failed to mark list %s failed: %v", listID, statusErr)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrOCRFailure, err)
	}

	items := s.extractor.ExtractItems(text)
	log.Printf("[OCR] list %s: extracted %d items from %d bytes of text", listID, len(items), len(text))

	if err := s.lists.SaveOCRResult(ctx, userID, listID, text, items); err != nil {
		return nil, fmt.Errorf("failed to save OCR result: %w", err)
	}

	return s.lists.GetByID(ctx, userID, listID)
}
