package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/assetintel/asset-intelligence/internal/api/middleware"
	"github.com/assetintel/asset-intelligence/internal/core/domain"
	"github.com/assetintel/asset-intelligence/internal/core/ports"
)

// AuthHandler serves the JSON session API.
type AuthHandler struct {
	authService ports.AuthService
	tokens      ports.TokenIssuer
	cookie      CookieConfig
}

func NewAuthHandler(authService ports.AuthService, tokens ports.TokenIssuer, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, tokens: tokens, cookie: cookie}
}

// Login authenticates credentials and opens a session.
//
// @Summary      Login
// @Description  Matches the email case-insensitively and the password exactly against the demo and registered identities.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	sess, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return h.respond(c, http.StatusOK, sess)
}

// Signup registers a new identity with role USER and opens a session.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "New account"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/v1/auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sess, err := h.authService.Signup(c.Request().Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		return err
	}
	return h.respond(c, http.StatusCreated, sess)
}

// Logout ends the current session. It succeeds without a session.
//
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Router       /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.authService.Logout(c.Request().Context(), middleware.CurrentSession(c))
	h.cookie.clear(c)
	middleware.SetSession(c, nil)
	return c.NoContent(http.StatusNoContent)
}

// Me returns the identity behind the current session.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  meResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/v1/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meResponse{User: toUserResponse(sess.Identity)})
}

func (h *AuthHandler) respond(c echo.Context, status int, sess *domain.Session) error {
	token, err := h.tokens.Issue(sess)
	if err != nil {
		return err
	}
	h.cookie.set(c, token)
	middleware.SetSession(c, sess)
	return c.JSON(status, authResponse{Token: token, User: toUserResponse(sess.Identity)})
}
