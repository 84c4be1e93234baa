package apiclient

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// refreshKey keys the single refresh episode; all concurrent observers of
// an expired session share it.
const refreshKey = "session-refresh"

// refreshCoordinator ensures at most one session-refresh call is in flight
// process-wide. Callers that observe an expired session while a refresh is
// already running await the same attempt instead of starting a second one.
//
// On failure the coordinator emits the session-expired event and navigates
// to the login route exactly once per episode; both side effects run inside
// the deduplicated call, so the guarantee holds no matter how many requests
// observed the expiry. Episode state resets when the shared call settles,
// with no timer involved.
type refreshCoordinator struct {
	group     singleflight.Group
	refresher SessionRefresher
	navigator Navigator
	events    AuthEvents
	loginPath string
	logger    Logger
	metrics   Metrics
}

// await joins the in-flight refresh episode, starting one if none is
// running. It returns nil once the session has been re-established.
func (c *refreshCoordinator) await(ctx context.Context) error {
	_, err, shared := c.group.Do(refreshKey, func() (interface{}, error) {
		c.logger.Info("refreshing session")

		// The episode outlives any single caller; a canceled first caller
		// must not fail the refresh for everyone awaiting it.
		if err := c.refresher.RefreshSession(context.WithoutCancel(ctx)); err != nil {
			c.logger.Warn("session refresh failed", Field{Key: "error", Value: err.Error()})
			c.metrics.RecordRefresh(false)
			c.events.SessionExpired()
			c.navigator.Navigate(c.loginPath)
			return nil, err
		}

		c.logger.Debug("session refreshed")
		c.metrics.RecordRefresh(true)
		return nil, nil
	})

	if shared {
		c.logger.Debug("joined in-flight session refresh")
	}
	return err
}
