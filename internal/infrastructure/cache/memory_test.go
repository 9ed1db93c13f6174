package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rationcart/backend/internal/domain"
)

func TestMemoryCache_SetAndGet(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	t.Run("store and retrieve string", func(t *testing.T) {
		if err := cache.Set(ctx, "price:milk:jiomart", "cached", 1*time.Minute); err != nil {
			t.Fatalf("Set() error = %v", err)
		}

		got, err := cache.Get(ctx, "price:milk:jiomart")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got != "cached" {
			t.Errorf("Get() = %v, want cached", got)
		}
	})

	t.Run("store and retrieve listing without copying", func(t *testing.T) {
		price := 240.0
		listing := &domain.SourceListing{
			Platform:    domain.PlatformJioMart,
			ProductName: "Aashirvaad Atta",
			Price:       &price,
		}

		if err := cache.Set(ctx, "price:wheat flour:jiomart", listing, 1*time.Minute); err != nil {
			t.Fatalf("Set() error = %v", err)
		}

		got, err := cache.Get(ctx, "price:wheat flour:jiomart")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got != listing {
			t.Errorf("Get() = %v, want the stored pointer back", got)
		}
	})

	t.Run("expired value is a miss", func(t *testing.T) {
		if err := cache.Set(ctx, "short-ttl", "expires-soon", 1*time.Millisecond); err != nil {
			t.Fatalf("Set() error = %v", err)
		}

		time.Sleep(10 * time.Millisecond)

		if _, err := cache.Get(ctx, "short-ttl"); err != domain.ErrCacheMiss {
			t.Errorf("Get() error = %v, want ErrCacheMiss after expiration", err)
		}
	})
}

func TestMemoryCache_Get_CacheMiss(t *testing.T) {
	cache := NewMemoryCache()

	_, err := cache.Get(context.Background(), "non-existent-key")
	if err != domain.ErrCacheMiss {
		t.Errorf("Get() error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	key := "delete-test"
	if err := cache.Set(ctx, key, "value", 1*time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if err := cache.Delete(ctx, key); err != nil {
		t.Errorf("Delete() error = %v", err)
	}

	if _, err := cache.Get(ctx, key); err != domain.ErrCacheMiss {
		t.Errorf("Get() after delete error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryCache_Exists(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	key := "exists-test"

	exists, err := cache.Exists(ctx, key)
	if err != nil {
		t.Errorf("Exists() error = %v", err)
	}
	if exists {
		t.Errorf("Exists() = true, want false for non-existent key")
	}

	if err := cache.Set(ctx, key, "value", 1*time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	exists, err = cache.Exists(ctx, key)
	if err != nil {
		t.Errorf("Exists() error = %v", err)
	}
	if !exists {
		t.Errorf("Exists() = false, want true after setting value")
	}

	if err := cache.Set(ctx, "short-ttl", "value", 1*time.Millisecond); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	exists, err = cache.Exists(ctx, "short-ttl")
	if err != nil {
		t.Errorf("Exists() error = %v", err)
	}
	if exists {
		t.Errorf("Exists() = true, want false after expiration")
	}
}

func TestMemoryCache_SizeAndClear(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	if size := cache.Size(); size != 0 {
		t.Errorf("Size() = %d, want 0 for empty cache", size)
	}

	for i := 0; i < 5; i++ {
		key := fmt.Sprintf("key-%d", i)
		if err := cache.Set(ctx, key, i, 1*time.Minute); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
	}

	if size := cache.Size(); size != 5 {
		t.Errorf("Size() = %d, want 5", size)
	}

	if err := cache.Delete(ctx, "key-0"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if size := cache.Size(); size != 4 {
		t.Errorf("Size() = %d, want 4 after delete", size)
	}

	cache.Clear()
	if size := cache.Size(); size != 0 {
		t.Errorf("Size() = %d, want 0 after clear", size)
	}
	if _, err := cache.Get(ctx, "key-1"); err != domain.ErrCacheMiss {
		t.Errorf("Get() after clear error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryCache_Concurrent(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(id int) {
			key := fmt.Sprintf("key-%d", id)
			if err := cache.Set(ctx, key, id, 1*time.Minute); err != nil {
				t.Errorf("concurrent Set() error = %v", err)
			}
			if _, err := cache.Get(ctx, key); err != nil {
				t.Errorf("concurrent Get() error = %v", err)
			}
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}
