package domain

import "time"

// ListStatus tracks a ration list through the OCR pipeline
type ListStatus string

const (
	ListStatusPending    ListStatus = "pending"
	ListStatusProcessing ListStatus = "processing"
	ListStatusCompleted  ListStatus = "completed"
	ListStatusFailed     ListStatus = "failed"
)

// ExtractedItem is one grocery item recognized from a line of OCR text.
// Quantity is kept as text ("5", "1.5") since handwritten lists are loose
// about numerals; Unit is normalized to one of kg/g/ltr/pack/bottle.
type ExtractedItem struct {
	RawText        string `json:"rawText"`
	Quantity       string `json:"quantity"`
	Unit           string `json:"unit"`
	NormalizedName string `json:"normalizedName"`
}

// RationList is one uploaded handwritten list and its OCR results
type RationList struct {
	ID             string          `json:"id"`
	UserID         string          `json:"userId"`
	Title          string          `json:"title"`
	ImageURL       string          `json:"imageUrl,omitempty"`
	RawOCRText     string          `json:"rawOcrText,omitempty"`
	ExtractedItems []ExtractedItem `json:"extractedItems,omitempty"`
	Status         ListStatus      `json:"status"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}
