package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/assetintel/asset-intelligence/internal/api/middleware"
	"github.com/assetintel/asset-intelligence/internal/api/view"
	"github.com/assetintel/asset-intelligence/internal/core/domain"
	"github.com/assetintel/asset-intelligence/internal/core/ports"
	"github.com/assetintel/asset-intelligence/internal/core/service"
)

// PageHandler serves the server-rendered pages.
type PageHandler struct {
	authService ports.AuthService
	copilot     ports.CopilotService
	tokens      ports.TokenIssuer
	cookie      CookieConfig
	activity    ports.ActivityPublisher
}

// NewPageHandler wires the page routes. activity may be nil.
func NewPageHandler(authService ports.AuthService, copilot ports.CopilotService, tokens ports.TokenIssuer, cookie CookieConfig, activity ports.ActivityPublisher) *PageHandler {
	return &PageHandler{
		authService: authService,
		copilot:     copilot,
		tokens:      tokens,
		cookie:      cookie,
		activity:    activity,
	}
}

// authForm is the urlencoded body of both the login and signup forms.
type authForm struct {
	Email       string `form:"email"`
	Password    string `form:"password"`
	DisplayName string `form:"display_name"`
	Next        string `form:"next"`
}

func (h *PageHandler) Landing(c echo.Context) error {
	return c.Render(http.StatusOK, "landing", view.Page{User: middleware.CurrentSession(c).Identity})
}

// AuthPage shows the login/signup form, or sends an already authenticated
// visitor on to the remembered destination.
func (h *PageHandler) AuthPage(c echo.Context) error {
	next := c.QueryParam(middleware.NextParam)
	if middleware.CurrentSession(c).Authenticated() {
		return c.Redirect(http.StatusFound, middleware.SafeNext(next))
	}
	return h.renderAuth(c, http.StatusOK, &view.AuthForm{Tab: c.QueryParam("tab"), Next: next}, "")
}

func (h *PageHandler) LoginForm(c echo.Context) error {
	var form authForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	sess, err := h.authService.Login(c.Request().Context(), form.Email, form.Password)
	if err != nil {
		return h.authFailed(c, err, &view.AuthForm{Tab: "login", Next: form.Next, Email: form.Email})
	}
	return h.enter(c, sess, form.Next)
}

func (h *PageHandler) SignupForm(c echo.Context) error {
	var form authForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	state := &view.AuthForm{Tab: "signup", Next: form.Next, Email: form.Email, DisplayName: form.DisplayName}

	req := signupRequest{Email: form.Email, Password: form.Password, DisplayName: form.DisplayName}
	if err := c.Validate(&req); err != nil {
		return h.authFailed(c, err, state)
	}
	sess, err := h.authService.Signup(c.Request().Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		return h.authFailed(c, err, state)
	}
	return h.enter(c, sess, form.Next)
}

func (h *PageHandler) LogoutForm(c echo.Context) error {
	h.authService.Logout(c.Request().Context(), middleware.CurrentSession(c))
	h.cookie.clear(c)
	middleware.SetSession(c, nil)
	return c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}

func (h *PageHandler) Unauthorized(c echo.Context) error {
	return c.Render(http.StatusOK, "unauthorized", view.Page{Title: "Access Denied", User: middleware.CurrentSession(c).Identity})
}

// DashboardIndex redirects the bare subtree to the default view.
func (h *PageHandler) DashboardIndex(c echo.Context) error {
	return c.Redirect(http.StatusFound, middleware.DefaultDestination)
}

// View renders one of the guarded dashboard views.
func (h *PageHandler) View(c echo.Context) error {
	item, ok := view.LookupView(c.Param("view"))
	if !ok {
		return echo.ErrNotFound
	}
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	h.publish(domain.ActivityPageView, sess, c.Request().URL.Path)

	page := view.Shell(item, sess.Identity)
	if item.Slug != view.SlugCopilot {
		return c.Render(http.StatusOK, "dashboard", page)
	}

	persona, err := domain.ParsePersona(c.QueryParam("persona"))
	if err != nil {
		return err
	}
	if page.Copilot, err = h.copilotView(c.Request().Context(), sess, persona); err != nil {
		return err
	}
	return c.Render(http.StatusOK, "copilot", page)
}

// CopilotForm posts a chat message from the HTML composer and redirects back
// to the conversation. Rejected input re-renders the page with the draft kept.
func (h *PageHandler) CopilotForm(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	persona, err := domain.ParsePersona(req.Persona)
	if err != nil {
		return err
	}

	err = c.Validate(&req)
	if err == nil {
		_, err = h.copilot.Send(c.Request().Context(), sess, req.Message, persona)
	}
	if err == nil {
		return c.Redirect(http.StatusSeeOther, view.BasePath+"/"+view.SlugCopilot+"?persona="+string(persona))
	}

	status, msg, ok := ResolveError(err)
	if !ok || status == StatusClientClosedRequest {
		return err
	}
	item, _ := view.LookupView(view.SlugCopilot)
	page := view.Shell(item, sess.Identity)
	page.Error = msg
	if page.Copilot, err = h.copilotView(c.Request().Context(), sess, persona); err != nil {
		return err
	}
	page.Copilot.Draft = req.Message
	return c.Render(status, "copilot", page)
}

func (h *PageHandler) copilotView(ctx context.Context, sess *domain.Session, persona domain.Persona) (*view.CopilotView, error) {
	conv, err := h.copilot.Conversation(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	return view.NewCopilotView(conv, persona, h.copilot.QuickActions(persona)), nil
}

// enter finishes a successful login or signup.
func (h *PageHandler) enter(c echo.Context, sess *domain.Session, next string) error {
	token, err := h.tokens.Issue(sess)
	if err != nil {
		return err
	}
	h.cookie.set(c, token)
	middleware.SetSession(c, sess)
	return c.Redirect(http.StatusSeeOther, middleware.SafeNext(next))
}

// authFailed re-renders the form with the user-facing message. Errors
// outside the domain taxonomy go to the central error handler.
func (h *PageHandler) authFailed(c echo.Context, err error, form *view.AuthForm) error {
	status, msg, ok := ResolveError(err)
	if !ok || status == StatusClientClosedRequest {
		return err
	}
	return h.renderAuth(c, status, form, msg)
}

func (h *PageHandler) renderAuth(c echo.Context, status int, form *view.AuthForm, errMsg string) error {
	form.DemoAccounts = service.DemoAccounts()
	title := "Sign in"
	if form.Signup() {
		title = "Sign up"
	}
	return c.Render(status, "auth", view.Page{Title: title, Error: errMsg, Auth: form})
}

func (h *PageHandler) publish(kind domain.ActivityKind, sess *domain.Session, path string) {
	if h.activity == nil {
		return
	}
	h.activity.Publish(service.NewActivityEvent(kind, sess.Identity, path, time.Now().UTC()))
}
