package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/assetintel/asset-intelligence/internal/core/domain"
	"github.com/assetintel/asset-intelligence/internal/pkg/metrics"
)

const (
	// LoginPath is the login entry point guarded pages redirect to.
	LoginPath = "/auth"
	// DefaultDestination is where a login lands without a remembered page.
	DefaultDestination = "/asset-intelligence/predictive-risk"
	// NextParam carries the remembered destination through the login page.
	NextParam = "next"
)

// Guard gates page routes on an authenticated session. Anonymous visitors
// are redirected to the login page with the requested URI remembered in the
// next query parameter. Roles are not checked.
func Guard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentGuardState(c) != domain.GuardAuthenticated {
				metrics.GuardRedirectsTotal.Inc()
				return c.Redirect(http.StatusFound, LoginRedirect(c.Request().RequestURI))
			}
			return next(c)
		}
	}
}

// RequireSession rejects API calls without an authenticated session.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !CurrentSession(c).Authenticated() {
				return domain.ErrUnauthenticated
			}
			return next(c)
		}
	}
}

// LoginRedirect builds the login URL that remembers dest.
func LoginRedirect(dest string) string {
	dest = SafeNext(dest)
	if dest == DefaultDestination {
		return LoginPath
	}
	return LoginPath + "?" + NextParam + "=" + url.QueryEscape(dest)
}

// SafeNext returns raw when it is a local absolute path outside the login
// page, and DefaultDestination otherwise. It blocks open redirects such as
// "//evil.example" or "https://evil.example".
func SafeNext(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.Contains(raw, `\`) {
		return DefaultDestination
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return DefaultDestination
	}
	if u.Path == LoginPath || strings.HasPrefix(u.Path, LoginPath+"/") {
		return DefaultDestination
	}
	return raw
}
