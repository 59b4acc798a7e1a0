package ports

import (
	"context"

	"github.com/assetintel/asset-intelligence/internal/core/domain"
)

// ActivityService records visitor activity events.
type ActivityService interface {
	Process(ctx context.Context, event domain.ActivityEvent) error
}

// ActivityPublisher hands activity events off for asynchronous processing.
// Publish must not block the caller.
type ActivityPublisher interface {
	Publish(event domain.ActivityEvent)
}
