package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/assetintel/asset-intelligence/internal/core/domain"
	"github.com/assetintel/asset-intelligence/internal/core/ports"
	"github.com/assetintel/asset-intelligence/internal/core/service"
)

const visitorCookieMaxAge = 365 * 24 * time.Hour

// VisitorConfig wires the Visitor middleware.
type VisitorConfig struct {
	CookieName string
	Secure     bool
	Activity   ports.ActivityPublisher
}

// Visitor identifies anonymous visitors of public pages. The anonymous id is
// kept in a cookie so repeat visits announce the same visitor. Requests with
// a live session pass through untouched; Session already identified them.
func Visitor(cfg VisitorConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.Activity == nil || CurrentSession(c).Authenticated() {
				return next(c)
			}

			ev := service.NewActivityEvent(domain.ActivityIdentify, nil, c.Request().URL.Path, time.Now().UTC())
			if ck, err := c.Cookie(cfg.CookieName); err == nil && service.IsAnonymousVisitorID(ck.Value) {
				ev.VisitorID = ck.Value
			} else {
				c.SetCookie(&http.Cookie{
					Name:     cfg.CookieName,
					Value:    ev.VisitorID,
					Path:     "/",
					MaxAge:   int(visitorCookieMaxAge / time.Second),
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}
			cfg.Activity.Publish(ev)
			return next(c)
		}
	}
}
