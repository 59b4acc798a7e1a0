package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/assetintel/asset-intelligence/internal/core/domain"
	"github.com/assetintel/asset-intelligence/internal/core/ports"
	"github.com/assetintel/asset-intelligence/internal/core/service"
)

const (
	sessionKey    = "session"
	guardStateKey = "guard_state"
)

// SessionResolver rehydrates a stored session by id.
type SessionResolver interface {
	Resolve(ctx context.Context, sessionID string) (*domain.Session, domain.GuardState)
}

// SessionConfig wires the Session middleware.
type SessionConfig struct {
	Tokens     ports.TokenIssuer
	Resolver   SessionResolver
	CookieName string
	// Activity, when set, receives an identify event for every request that
	// carries a live session.
	Activity ports.ActivityPublisher
}

// Session resolves the caller's session from a bearer token or the session
// cookie and stores it on the context. It never rejects a request: missing,
// invalid or expired tokens resolve to an anonymous session.
func Session(cfg SessionConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, state := &domain.Session{}, domain.GuardUnauthenticated

			if token := sessionToken(c, cfg.CookieName); token != "" {
				if sid, err := cfg.Tokens.Verify(token); err == nil {
					sess, state = cfg.Resolver.Resolve(c.Request().Context(), sid)
				}
				// A request never waits on an unresolved session.
				if !state.Terminal() || sess == nil {
					sess, state = &domain.Session{}, domain.GuardUnauthenticated
				}
			}
			setSession(c, sess, state)

			if cfg.Activity != nil && sess.Authenticated() {
				cfg.Activity.Publish(service.NewActivityEvent(domain.ActivityIdentify, sess.Identity, c.Request().URL.Path, time.Now().UTC()))
			}
			return next(c)
		}
	}
}

// sessionToken prefers the Authorization header over the cookie.
func sessionToken(c echo.Context, cookieName string) string {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookieName == "" {
		return ""
	}
	ck, err := c.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return ck.Value
}

func setSession(c echo.Context, sess *domain.Session, state domain.GuardState) {
	c.Set(sessionKey, sess)
	c.Set(guardStateKey, state)
}

// CurrentSession returns the session resolved by Session, or an anonymous
// session when the middleware did not run.
func CurrentSession(c echo.Context) *domain.Session {
	if sess, ok := c.Get(sessionKey).(*domain.Session); ok && sess != nil {
		return sess
	}
	return &domain.Session{}
}

// CurrentGuardState returns the guard state resolved by Session.
func CurrentGuardState(c echo.Context) domain.GuardState {
	if st, ok := c.Get(guardStateKey).(domain.GuardState); ok {
		return st
	}
	return domain.GuardUnresolved
}

// SetSession replaces the session on the context, e.g. right after login or
// logout within the same request.
func SetSession(c echo.Context, sess *domain.Session) {
	if sess == nil {
		sess = &domain.Session{}
	}
	setSession(c, sess, domain.GuardStateOf(sess))
}
