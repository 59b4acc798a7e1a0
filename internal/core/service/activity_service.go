package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/assetintel/asset-intelligence/internal/core/domain"
	"github.com/assetintel/asset-intelligence/internal/core/ports"
	"github.com/assetintel/asset-intelligence/internal/pkg/metrics"
)

// IdentifyDedup remembers which visitor identities were already announced so
// repeated page loads do not re-identify the same visitor.
type IdentifyDedup interface {
	// FirstSeen atomically marks key and reports whether it was unmarked.
	FirstSeen(ctx context.Context, key string) (bool, error)
}

type activityService struct {
	dedup IdentifyDedup
	log   zerolog.Logger
}

// NewActivityService returns an ActivityService that logs events and counts
// them. dedup may be nil, in which case every identify event is recorded.
func NewActivityService(dedup IdentifyDedup, log zerolog.Logger) ports.ActivityService {
	return &activityService{dedup: dedup, log: log}
}

const anonymousPrefix = "anonymous-"

// NewAnonymousVisitorID returns a fresh id for a visitor without a session.
func NewAnonymousVisitorID() string {
	return anonymousPrefix + uuid.NewString()
}

// IsAnonymousVisitorID reports whether id was made by NewAnonymousVisitorID.
func IsAnonymousVisitorID(id string) bool {
	rest, ok := strings.CutPrefix(id, anonymousPrefix)
	if !ok {
		return false
	}
	_, err := uuid.Parse(rest)
	return err == nil
}

// NewActivityEvent builds an event for identity. A nil identity yields an
// anonymous visitor with a fresh random id.
func NewActivityEvent(kind domain.ActivityKind, identity *domain.Identity, path string, at time.Time) domain.ActivityEvent {
	ev := domain.ActivityEvent{
		Kind:    kind,
		Account: domain.ActivityAccount,
		Path:    path,
		At:      at,
	}
	if identity == nil {
		ev.VisitorID = NewAnonymousVisitorID()
		return ev
	}
	ev.VisitorID = identity.ID
	ev.Email = identity.Email
	ev.Role = identity.Role
	return ev
}

// Process records a single activity event.
func (s *activityService) Process(ctx context.Context, ev domain.ActivityEvent) error {
	if ev.Kind == domain.ActivityIdentify && s.dedup != nil {
		first, err := s.dedup.FirstSeen(ctx, identifyKey(ev))
		if err != nil {
			s.log.Warn().Err(err).Str("visitor_id", ev.VisitorID).Msg("identify dedup failed, recording anyway")
		} else if !first {
			return nil
		}
	}

	visitor := "known"
	if ev.Anonymous() {
		visitor = "anonymous"
	}
	metrics.ActivityEventsTotal.WithLabelValues(string(ev.Kind), visitor).Inc()

	s.log.Info().
		Str("kind", string(ev.Kind)).
		Str("visitor_id", ev.VisitorID).
		Str("email", ev.Email).
		Str("role", string(ev.Role)).
		Str("account", ev.Account).
		Str("path", ev.Path).
		Time("at", ev.At).
		Msg("activity recorded")
	return nil
}

// identifyKey changes whenever any announced visitor attribute changes.
func identifyKey(ev domain.ActivityEvent) string {
	return ev.Account + ":" + ev.VisitorID + ":" + ev.Email + ":" + string(ev.Role)
}
