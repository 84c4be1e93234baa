package memory

import (
	"context"
	"sync"
	"testing"
)

func TestStore_GetSetDelete(t *testing.T) {
	store := New()
	ctx := context.Background()

	value, err := store.Get(ctx, "/api/v1/projects")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != "" {
		t.Errorf("expected empty validator, got %q", value)
	}

	if err := store.Set(ctx, "/api/v1/projects", `"v1"`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	value, _ = store.Get(ctx, "/api/v1/projects")
	if value != `"v1"` {
		t.Errorf("expected stored validator, got %q", value)
	}

	// Overwrite
	if err := store.Set(ctx, "/api/v1/projects", `"v2"`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	value, _ = store.Get(ctx, "/api/v1/projects")
	if value != `"v2"` {
		t.Errorf("expected overwritten validator, got %q", value)
	}

	if err := store.Delete(ctx, "/api/v1/projects"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	value, _ = store.Get(ctx, "/api/v1/projects")
	if value != "" {
		t.Errorf("expected deleted validator, got %q", value)
	}
}

func TestStore_Clear(t *testing.T) {
	store := New()
	ctx := context.Background()

	_ = store.Set(ctx, "/api/v1/projects", `"a"`)
	_ = store.Set(ctx, "/api/v1/sprints", `"b"`)

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("expected empty store, got %d entries", store.Len())
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := New()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set(ctx, "/api/v1/projects", `"v"`)
		}()
		go func() {
			defer wg.Done()
			_, _ = store.Get(ctx, "/api/v1/projects")
		}()
	}
	wg.Wait()
}
