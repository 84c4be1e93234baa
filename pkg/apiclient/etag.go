package apiclient

import "context"

// conditionalCache wraps a ValidatorStore for use by the request pipeline.
// Store failures degrade to a full fetch rather than failing the request:
// a broken cache must never break the call it was meant to cheapen.
type conditionalCache struct {
	store  ValidatorStore
	logger Logger
}

func (c *conditionalCache) enabled() bool {
	return c.store != nil
}

// validator returns the cached validator for an endpoint, or "" if none is
// cached or the store is unavailable.
func (c *conditionalCache) validator(ctx context.Context, endpoint string) string {
	if c.store == nil {
		return ""
	}
	value, err := c.store.Get(ctx, endpoint)
	if err != nil {
		c.logger.Warn("validator store read failed",
			Field{Key: "endpoint", Value: endpoint},
			Field{Key: "error", Value: err.Error()})
		return ""
	}
	return value
}

// remember stores the validator for an endpoint, overwriting any previous one.
func (c *conditionalCache) remember(ctx context.Context, endpoint, validator string) {
	if c.store == nil || validator == "" {
		return
	}
	if err := c.store.Set(ctx, endpoint, validator); err != nil {
		c.logger.Warn("validator store write failed",
			Field{Key: "endpoint", Value: endpoint},
			Field{Key: "error", Value: err.Error()})
	}
}

// evict removes the validator for an endpoint, guaranteeing the next GET is
// a full fetch.
func (c *conditionalCache) evict(ctx context.Context, endpoint string) {
	if c.store == nil {
		return
	}
	if err := c.store.Delete(ctx, endpoint); err != nil {
		c.logger.Warn("validator store delete failed",
			Field{Key: "endpoint", Value: endpoint},
			Field{Key: "error", Value: err.Error()})
	}
}

// clear removes all validators.
func (c *conditionalCache) clear(ctx context.Context) {
	if c.store == nil {
		return
	}
	if err := c.store.Clear(ctx); err != nil {
		c.logger.Warn("validator store clear failed",
			Field{Key: "error", Value: err.Error()})
	}
}
