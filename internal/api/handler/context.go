package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/assetintel/asset-intelligence/internal/api/middleware"
	"github.com/assetintel/asset-intelligence/internal/core/domain"
)

// ctxSession returns the authenticated session resolved by the Session
// middleware, failing fast with domain.ErrUnauthenticated otherwise.
func ctxSession(c echo.Context) (*domain.Session, error) {
	sess := middleware.CurrentSession(c)
	if !sess.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	return sess, nil
}
