package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/assetintel/asset-intelligence/internal/core/domain"
	"github.com/assetintel/asset-intelligence/internal/core/ports"
	"github.com/assetintel/asset-intelligence/internal/pkg/metrics"
)

const (
	defaultAuthLatency    = 500 * time.Millisecond
	defaultResolveTimeout = 2 * time.Second
)

// AuthOptions tunes the session store.
type AuthOptions struct {
	// Latency is the simulated round trip applied to login and signup.
	// Zero disables it; negative selects the 500ms default.
	Latency time.Duration
	// HashCost is the bcrypt cost. Zero selects bcrypt.DefaultCost.
	HashCost int
	// ResolveTimeout bounds the session read performed on every request.
	ResolveTimeout time.Duration
}

// AuthService authenticates against the seeded demo identities plus the
// runtime registry and owns the active-session record of every client.
type AuthService struct {
	registry ports.IdentityRegistry
	sessions ports.SessionRepository
	activity ports.ActivityPublisher
	log      zerolog.Logger

	seeded         []*domain.Credential
	dummyHash      []byte
	latency        time.Duration
	hashCost       int
	resolveTimeout time.Duration

	now   func() time.Time
	newID func() string
}

func NewAuthService(
	registry ports.IdentityRegistry,
	sessions ports.SessionRepository,
	activity ports.ActivityPublisher,
	opts AuthOptions,
	log zerolog.Logger,
) (*AuthService, error) {
	if opts.Latency < 0 {
		opts.Latency = defaultAuthLatency
	}
	if opts.HashCost == 0 {
		opts.HashCost = bcrypt.DefaultCost
	}
	if opts.ResolveTimeout <= 0 {
		opts.ResolveTimeout = defaultResolveTimeout
	}

	now := time.Now().UTC()
	seeded, err := hashSeeds(opts.HashCost, now)
	if err != nil {
		return nil, err
	}
	dummy, err := hashSecret(uuid.NewString(), opts.HashCost)
	if err != nil {
		return nil, fmt.Errorf("hash dummy secret: %w", err)
	}

	return &AuthService{
		registry:       registry,
		sessions:       sessions,
		activity:       activity,
		log:            log,
		seeded:         seeded,
		dummyHash:      dummy,
		latency:        opts.Latency,
		hashCost:       opts.HashCost,
		resolveTimeout: opts.ResolveTimeout,
		now:            func() time.Time { return time.Now().UTC() },
		newID:          uuid.NewString,
	}, nil
}

// Login establishes a session for the identity whose email matches
// case-insensitively and whose secret matches exactly. Unknown emails and
// wrong secrets fail identically with domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, secret string) (*domain.Session, error) {
	if err := pause(ctx, s.latency); err != nil {
		recordAttempt("login", err)
		return nil, err
	}

	cred, err := s.lookup(ctx, domain.EmailKey(email))
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		recordAttempt("login", err)
		return nil, fmt.Errorf("login: %w", err)
	}

	// Compare against a throwaway hash for unknown emails so both failure
	// paths cost one bcrypt round.
	hash := s.dummyHash
	if cred != nil {
		hash = []byte(cred.SecretHash)
	}
	if !secretMatches(hash, secret) || cred == nil {
		s.log.Info().Str("email", domain.EmailKey(email)).Msg("login rejected")
		recordAttempt("login", domain.ErrInvalidCredentials)
		return nil, domain.ErrInvalidCredentials
	}

	sess, err := s.establish(ctx, cred.Identity, domain.ActivityLogin)
	recordAttempt("login", err)
	return sess, err
}

// Signup registers a new USER identity and logs it in. Nothing is written
// unless every check passes.
func (s *AuthService) Signup(ctx context.Context, email, secret, displayName string) (*domain.Session, error) {
	sess, err := s.signup(ctx, email, secret, displayName)
	recordAttempt("signup", err)
	return sess, err
}

func (s *AuthService) signup(ctx context.Context, email, secret, displayName string) (*domain.Session, error) {
	if err := pause(ctx, s.latency); err != nil {
		return nil, err
	}

	if utf8.RuneCountInString(secret) < domain.MinSecretLength {
		return nil, domain.ErrWeakSecret
	}

	key := domain.EmailKey(email)
	_, err := s.lookup(ctx, key)
	switch {
	case err == nil:
		return nil, domain.ErrEmailTaken
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("signup: %w", err)
	}

	hash, err := hashSecret(secret, s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("signup: hash secret: %w", err)
	}

	cred := &domain.Credential{
		Identity: domain.Identity{
			ID:          s.newID(),
			Email:       strings.TrimSpace(email),
			DisplayName: strings.TrimSpace(displayName),
			Role:        domain.RoleUser,
		},
		SecretHash: string(hash),
		CreatedAt:  s.now(),
	}
	if err := s.registry.Create(ctx, cred); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("signup: register identity: %w", err)
	}

	s.log.Info().Str("user_id", cred.ID).Str("email", key).Msg("identity registered")
	return s.establish(ctx, cred.Identity, domain.ActivitySignup)
}

// Logout removes the persisted session record. It cannot fail; storage
// errors are logged.
func (s *AuthService) Logout(ctx context.Context, session *domain.Session) {
	if session == nil || session.ID == "" {
		return
	}
	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		s.log.Warn().Err(err).Str("session_id", session.ID).Msg("failed to delete session record")
	}
	s.publish(domain.ActivityLogout, session.Identity, "")
}

// Resolve rehydrates the session stored under sessionID. Missing, expired
// and undecodable records all resolve to an anonymous session; undecodable
// ones are deleted on the way.
func (s *AuthService) Resolve(ctx context.Context, sessionID string) (*domain.Session, domain.GuardState) {
	anonymous := &domain.Session{}
	if sessionID == "" {
		return anonymous, domain.GuardUnauthenticated
	}

	ctx, cancel := context.WithTimeout(ctx, s.resolveTimeout)
	defer cancel()

	identity, err := s.sessions.Load(ctx, sessionID)
	switch {
	case err == nil:
		sess := &domain.Session{ID: sessionID, Identity: identity}
		return sess, domain.GuardStateOf(sess)
	case errors.Is(err, domain.ErrSessionNotFound):
	case errors.Is(err, domain.ErrCorruptSession):
		metrics.SessionRepairsTotal.Inc()
		s.log.Warn().Str("session_id", sessionID).Msg("discarding corrupt session record")
		if delErr := s.sessions.Delete(ctx, sessionID); delErr != nil {
			s.log.Warn().Err(delErr).Str("session_id", sessionID).Msg("failed to delete corrupt session record")
		}
	default:
		s.log.Error().Err(err).Str("session_id", sessionID).Msg("session lookup failed")
	}
	return anonymous, domain.GuardUnauthenticated
}

// HasRole reports whether session holds one of allowed.
func (s *AuthService) HasRole(session *domain.Session, allowed ...domain.Role) bool {
	return session.HasRole(allowed...)
}

// Identities lists the seeded and runtime identities without secrets.
func (s *AuthService) Identities(ctx context.Context) ([]domain.Identity, error) {
	registered, err := s.registry.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}
	out := make([]domain.Identity, 0, len(s.seeded)+len(registered))
	for _, c := range s.seeded {
		out = append(out, c.Identity)
	}
	for _, c := range registered {
		out = append(out, c.Identity)
	}
	return out, nil
}

// lookup searches the seeded identities first, then the registry.
func (s *AuthService) lookup(ctx context.Context, emailKey string) (*domain.Credential, error) {
	for _, c := range s.seeded {
		if domain.EmailKey(c.Email) == emailKey {
			return c, nil
		}
	}
	return s.registry.FindByEmail(ctx, emailKey)
}

func (s *AuthService) establish(ctx context.Context, identity domain.Identity, kind domain.ActivityKind) (*domain.Session, error) {
	sess := &domain.Session{ID: s.newID(), Identity: &identity}
	if err := s.sessions.Save(ctx, sess.ID, identity); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	s.log.Info().
		Str("user_id", identity.ID).
		Str("role", string(identity.Role)).
		Str("event", string(kind)).
		Msg("session established")
	s.publish(kind, &identity, "")
	return sess, nil
}

func (s *AuthService) publish(kind domain.ActivityKind, identity *domain.Identity, path string) {
	if s.activity == nil {
		return
	}
	s.activity.Publish(NewActivityEvent(kind, identity, path, s.now()))
}

func recordAttempt(operation string, err error) {
	result := "success"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInvalidCredentials):
		result = "invalid_credentials"
	case errors.Is(err, domain.ErrWeakSecret):
		result = "weak_secret"
	case errors.Is(err, domain.ErrEmailTaken):
		result = "email_taken"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		result = "cancelled"
	default:
		result = "error"
	}
	metrics.AuthAttemptsTotal.WithLabelValues(operation, result).Inc()
}
