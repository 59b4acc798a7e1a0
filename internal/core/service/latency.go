package service

import (
	"context"
	"time"
)

// pause blocks for d or until ctx is done, whichever comes first. It stands
// in for a remote round trip and is cancelled with the request.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
