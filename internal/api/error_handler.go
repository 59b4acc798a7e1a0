package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/assetintel/asset-intelligence/internal/api/handler"
	"github.com/assetintel/asset-intelligence/internal/api/middleware"
	"github.com/assetintel/asset-intelligence/internal/api/view"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders {"error": "<message>"} under /api and an HTML page elsewhere.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		if isAPIRequest(c) {
			_ = c.JSON(code, errorResponse{Error: msg})
			return
		}

		page := view.Page{Title: msg, Error: msg, Status: code, User: middleware.CurrentSession(c).Identity}
		name := "error"
		switch code {
		case http.StatusNotFound:
			name, page.Title = "notfound", "Page not found"
		case http.StatusForbidden:
			name, page.Title = "unauthorized", "Access Denied"
		}
		if rerr := c.Render(code, name, page); rerr != nil {
			log.Error().Err(rerr).Str("page", name).Msg("render error page")
			_ = c.String(code, msg)
		}
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			log.Debug().Err(he.Internal).Int("status", he.Code).Msg("http error")
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	status, msg, ok := handler.ResolveError(err)
	if ok {
		if status == handler.StatusClientClosedRequest {
			log.Debug().Str("path", c.Request().URL.Path).Msg("client closed request")
		}
		return status, msg
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return status, msg
}

func isAPIRequest(c echo.Context) bool {
	p := c.Request().URL.Path
	return p == "/api" || strings.HasPrefix(p, "/api/")
}
