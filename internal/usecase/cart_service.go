package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rationcart/backend/internal/domain"
)

// CartService simulates add-to-cart automation against a retail platform.
// Real browser automation is out of scope; the service produces the same
// session record and step-by-step log the automation would, then hands the
// user the platform's cart URL for checkout.
type CartService struct {
	sessions  domain.CartSessionRepository
	rng       *rand.Rand
	stepDelay time.Duration
}

// NewCartService creates a cart service. Pass a seeded *rand.Rand for
// deterministic simulation outcomes in tests, or nil for production.
func NewCartService(sessions domain.CartSessionRepository, rng *rand.Rand, stepDelay time.Duration) *CartService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &CartService{
		sessions:  sessions,
		rng:       rng,
		stepDelay: stepDelay,
	}
}

// AutomationResult is the outcome of one simulated cart run
type AutomationResult struct {
	Session     *domain.CartSession
	PlatformURL string
}

// Automate records a cart session and walks the items through the simulated
// automation. Auxiliary platforms collapse to their actionable counterpart
// before any work happens, so the session always targets a real checkout.
func (s *CartService) Automate(
	ctx context.Context,
	userID, listID string,
	platform domain.Platform,
	items []domain.ExtractedItem,
) (*AutomationResult, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	if len(items) == 0 {
		return nil, domain.ErrInvalidRequest
	}

	target := platform.Actionable()

	session := &domain.CartSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		ListID:    listID,
		Platform:  target,
		Items:     items,
		Status:    domain.CartStatusProcessing,
		CreatedAt: time.Now(),
	}

	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create cart session: %w", err)
	}

	session.AutomationLog = s.runSimulation(ctx, target, items)
	session.Status = domain.CartStatusCompleted

	if err := s.sessions.UpdateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update cart session: %w", err)
	}

	return &AutomationResult{
		Session:     session,
		PlatformURL: target.CartURL(),
	}, nil
}

// GetSession fetches a cart session scoped to the user
func (s *CartService) GetSession(ctx context.Context, userID, sessionID string) (*domain.CartSession, error) {
	return s.sessions.GetSession(ctx, userID, sessionID)
}

// runSimulation produces the textual automation log. Each item add succeeds
// ~90% of the time, mirroring real automation flakiness against retail
// frontends.
func (s *CartService) runSimulation(ctx context.Context, platform domain.Platform, items []domain.ExtractedItem) string {
	var logs []string
	logs = append(logs,
		fmt.Sprintf("Starting cart automation for %s", platform),
		fmt.Sprintf("Processing %d items", len(items)),
	)

	for i, item := range items {
		logs = append(logs, fmt.Sprintf("[%d/%d] Processing: %s", i+1, len(items), item.RawText))

		if s.stepDelay > 0 {
			select {
			case <-ctx.Done():
				logs = append(logs, "Cart automation cancelled")
				return strings.Join(logs, "\n")
			case <-time.After(s.stepDelay):
			}
		}

		if s.rng.Float64() > 0.1 {
			logs = append(logs, fmt.Sprintf("✓ Added %s to cart successfully", item.RawText))
		} else {
			logs = append(logs, fmt.Sprintf("✗ Failed to add %s - product not found or out of stock", item.RawText))
		}
	}

	logs = append(logs,
		"Cart automation completed",
		fmt.Sprintf("Next step: Visit %s to review cart and complete checkout", platform),
		"Please verify quantities and review total before payment",
	)

	return strings.Join(logs, "\n")
}
