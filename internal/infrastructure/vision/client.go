package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/rationcart/backend/internal/domain"
	"golang.org/x/time/rate"
)

// Client talks to a Google-Vision-style image annotation API and pulls the
// full text annotation out of the response
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new OCR client
func NewClient(apiKey, baseURL string) *Client {
	// The provider allows 1800 requests per minute on the free tier; stay
	// well under it
	limiter := rate.NewLimiter(rate.Limit(5), 10)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		rateLimiter: limiter,
	}
}

// SetDebug enables request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

type annotateRequest struct {
	Requests []annotateEntry `json:"requests"`
}

type annotateEntry struct {
	Image    annotateImage     `json:"image"`
	Features []annotateFeature `json:"features"`
}

type annotateImage struct {
	Content string `json:"content"`
}

type annotateFeature struct {
	Type       string `json:"type"`
	MaxResults int    `json:"maxResults"`
}

type annotateResponse struct {
	Responses []struct {
		TextAnnotations []struct {
			Description string `json:"description"`
		} `json:"textAnnotations"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	} `json:"responses"`
}

// ExtractText submits a base64-encoded image for text detection and returns
// the detected text block. Data-URL prefixes ("data:image/jpeg;base64,")
// are stripped before submission.
func (c *Client) ExtractText(ctx context.Context, imageBase64 string) (string, error) {
	if imageBase64 == "" {
		return "", domain.ErrInvalidRequest
	}

	// Strip data URL prefix if the frontend sent one
	if idx := strings.Index(imageBase64, ","); idx > 0 && strings.HasPrefix(imageBase64, "data:") {
		imageBase64 = imageBase64[idx+1:]
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter error: %w", err)
	}

	payload := annotateRequest{
		Requests: []annotateEntry{{
			Image:    annotateImage{Content: imageBase64},
			Features: []annotateFeature{{Type: "TEXT_DETECTION", MaxResults: 1}},
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/v1/images:annotate?key=%s", c.baseURL, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", reqURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrOCRFailure, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if c.debug {
			log.Printf("[OCR] API error - status: %d, body: %s", resp.StatusCode, string(respBody))
		}
		return "", fmt.Errorf("%w: status %d", domain.ErrOCRFailure, resp.StatusCode)
	}

	var annotated annotateResponse
	if err := json.Unmarshal(respBody, &annotated); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(annotated.Responses) == 0 {
		return "", nil
	}
	if apiErr := annotated.Responses[0].Error; apiErr != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrOCRFailure, apiErr.Message)
	}
	if len(annotated.Responses[0].TextAnnotations) == 0 {
		if c.debug {
			log.Printf("[OCR] no text detected in image")
		}
		return "", nil
	}

	text := annotated.Responses[0].TextAnnotations[0].Description
	if c.debug {
		log.Printf("[OCR] extracted %d bytes of text", len(text))
	}
	return text, nil
}
