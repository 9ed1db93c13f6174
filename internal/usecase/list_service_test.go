package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rationcart/backend/internal/domain"
)

type fakeListRepo struct {
	mu    sync.Mutex
	lists map[string]*domain.RationList
}

func newFakeListRepo() *fakeListRepo {
	return &fakeListRepo{lists: make(map[string]*domain.RationList)}
}

func (f *fakeListRepo) Create(ctx context.Context, list *domain.RationList) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *list
	f.lists[list.ID] = &copied
	return nil
}

func (f *fakeListRepo) GetByID(ctx context.Context, userID, listID string) (*domain.RationList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list, ok := f.lists[listID]
	if !ok || list.UserID != userID {
		return nil, domain.ErrListNotFound
	}
	copied := *list
	return &copied, nil
}

func (f *fakeListRepo) ListByUser(ctx context.Context, userID string) ([]*domain.RationList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.RationList
	for _, list := range f.lists {
		if list.UserID == userID {
			copied := *list
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeListRepo) UpdateStatus(ctx context.Context, userID, listID string, status domain.ListStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	list, ok := f.lists[listID]
	if !ok || list.UserID != userID {
		return domain.ErrListNotFound
	}
	list.Status = status
	return nil
}

func (f *fakeListRepo) SaveOCRResult(ctx context.Context, userID, listID, rawText string, items []domain.ExtractedItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	list, ok := f.lists[listID]
	if !ok || list.UserID != userID {
		return domain.ErrListNotFound
	}
	list.RawOCRText = rawText
	list.ExtractedItems = items
	list.Status = domain.ListStatusCompleted
	return nil
}

type fakeOCRClient struct {
	text string
	err  error
}

func (f *fakeOCRClient) ExtractText(ctx context.Context, imageBase64 string) (string, error) {
	return f.text, f.err
}

func TestProcessOCR(t *testing.T) {
	ctx := context.Background()

	setup := func(ocr domain.OCRClient) (*ListService, *domain.RationList) {
		repo := newFakeListRepo()
		svc := NewListService(repo, ocr, NewTextExtractor(false))
		list, err := svc.CreateList(ctx, "user-1", "weekly ration")
		if err != nil {
			t.Fatalf("CreateList() error = %v", err)
		}
		return svc, list
	}

	t.Run("extracts items and completes the list", func(t *testing.T) {
		svc, list := setup(&fakeOCRClient{text: "आटा 5 किलो\nदूध 1 लीटर"})

		updated, err := svc.ProcessOCR(ctx, "user-1", list.ID, "data:image/jpeg;base64,xxxx")
		if err != nil {
			t.Fatalf("ProcessOCR() error = %v", err)
		}

		if updated.Status != domain.ListStatusCompleted {
			t.Errorf("Status = %s, want completed", updated.Status)
		}
		if len(updated.ExtractedItems) != 2 {
			t.Fatalf("len(ExtractedItems) = %d, want 2", len(updated.ExtractedItems))
		}
		if updated.ExtractedItems[0].NormalizedName != "wheat flour" {
			t.Errorf("first item = %q, want wheat flour", updated.ExtractedItems[0].NormalizedName)
		}
		if updated.ExtractedItems[1].NormalizedName != "milk" {
			t.Errorf("second item = %q, want milk", updated.ExtractedItems[1].NormalizedName)
		}
	})

	t.Run("OCR failure marks the list failed and surfaces the error", func(t *testing.T) {
		svc, list := setup(&fakeOCRClient{err: errors.New("provider down")})

		_, err := svc.ProcessOCR(ctx, "user-1", list.ID, "xxxx")
		if !errors.Is(err, domain.ErrOCRFailure) {
			t.Errorf("error = %v, want ErrOCRFailure", err)
		}

		stored, err := svc.GetList(ctx, "user-1", list.ID)
		if err != nil {
			t.Fatalf("GetList() error = %v", err)
		}
		if stored.Status != domain.ListStatusFailed {
			t.Errorf("Status = %s, want failed", stored.Status)
		}
	})

	t.Run("unreadable image yields empty items, not an error", func(t *testing.T) {
		svc, list := setup(&fakeOCRClient{text: "1\n7\n"})

		updated, err := svc.ProcessOCR(ctx, "user-1", list.ID, "xxxx")
		if err != nil {
			t.Fatalf("ProcessOCR() error = %v", err)
		}
		if len(updated.ExtractedItems) != 0 {
			t.Errorf("len(ExtractedItems) = %d, want 0", len(updated.ExtractedItems))
		}
	})

	t.Run("wrong user cannot process another user's list", func(t *testing.T) {
		svc, list := setup(&fakeOCRClient{text: "milk"})

		_, err := svc.ProcessOCR(ctx, "user-2", list.ID, "xxxx")
		if !errors.Is(err, domain.ErrListNotFound) {
			t.Errorf("error = %v, want ErrListNotFound", err)
		}
	})
}

func TestCreateList(t *testing.T) {
	ctx := context.Background()
	svc := NewListService(newFakeListRepo(), &fakeOCRClient{}, NewTextExtractor(false))

	t.Run("rejects empty title", func(t *testing.T) {
		_, err := svc.CreateList(ctx, "user-1", "")
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("rejects missing user", func(t *testing.T) {
		_, err := svc.CreateList(ctx, "", "weekly")
		if !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("error = %v, want ErrUnauthorized", err)
		}
	})
}
