package apiclient

import (
	"context"
	"errors"
	"testing"
)

type failingStore struct{}

func (failingStore) Get(ctx context.Context, endpoint string) (string, error) {
	return "", errors.New("store down")
}

func (failingStore) Set(ctx context.Context, endpoint, validator string) error {
	return errors.New("store down")
}

func (failingStore) Delete(ctx context.Context, endpoint string) error {
	return errors.New("store down")
}

func (failingStore) Clear(ctx context.Context) error {
	return errors.New("store down")
}

func TestConditionalCache_StoreFailureDegradesToFullFetch(t *testing.T) {
	cache := conditionalCache{store: failingStore{}, logger: &NoopLogger{}}
	ctx := context.Background()

	if got := cache.validator(ctx, "/api/v1/projects"); got != "" {
		t.Errorf("expected no validator on store failure, got %q", got)
	}

	// None of these may panic or surface the store error to the request.
	cache.remember(ctx, "/api/v1/projects", `"v1"`)
	cache.evict(ctx, "/api/v1/projects")
	cache.clear(ctx)
}

func TestConditionalCache_Disabled(t *testing.T) {
	cache := conditionalCache{logger: &NoopLogger{}}
	ctx := context.Background()

	if cache.enabled() {
		t.Error("nil store must report disabled")
	}
	if got := cache.validator(ctx, "/api/v1/projects"); got != "" {
		t.Errorf("expected no validator when disabled, got %q", got)
	}
	cache.remember(ctx, "/api/v1/projects", `"v1"`)
	cache.evict(ctx, "/api/v1/projects")
	cache.clear(ctx)
}

func TestConditionalCache_EmptyValidatorNotStored(t *testing.T) {
	store := &recordingStore{}
	cache := conditionalCache{store: store, logger: &NoopLogger{}}

	cache.remember(context.Background(), "/api/v1/projects", "")
	if store.sets != 0 {
		t.Error("empty validator must not be written to the store")
	}
}

type recordingStore struct {
	failingStore
	sets int
}

func (s *recordingStore) Set(ctx context.Context, endpoint, validator string) error {
	s.sets++
	return nil
}
