package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/assetintel/asset-intelligence/internal/api/middleware"
	"github.com/assetintel/asset-intelligence/internal/api/view"
	"github.com/assetintel/asset-intelligence/internal/core/domain"
	"github.com/assetintel/asset-intelligence/internal/core/ports"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []domain.ActivityEvent
}

func (p *capturePublisher) Publish(ev domain.ActivityEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func newPageContext(t *testing.T, method, target string, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	renderer, err := view.NewRenderer()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	e := echo.New()
	e.Validator = NewValidator()
	e.Renderer = renderer

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestPageHandler_AuthPage(t *testing.T) {
	h := NewPageHandler(&stubAuthService{}, &stubCopilot{}, stubTokens{}, testCookie, nil)

	c, rec := newPageContext(t, http.MethodGet, "/auth?next=%2Fasset-intelligence%2Fcopilot", nil)
	if err := h.AuthPage(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `value="/asset-intelligence/copilot"`) {
		t.Fatalf("expected login form remembering next, got %d", rec.Code)
	}

	c, rec = newPageContext(t, http.MethodGet, "/auth?next=%2Fasset-intelligence%2Fcopilot", nil)
	middleware.SetSession(c, sessionFor("1", domain.RoleAdmin))
	if err := h.AuthPage(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != "/asset-intelligence/copilot" {
		t.Fatalf("expected authenticated visitor to be sent on, got %d %s", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
}

func TestPageHandler_LoginForm(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, secret string) (*domain.Session, error) {
			if secret != "admin123" {
				return nil, domain.ErrInvalidCredentials
			}
			return sessionFor("1", domain.RoleAdmin), nil
		},
	}
	h := NewPageHandler(stub, &stubCopilot{}, stubTokens{}, testCookie, nil)

	cases := []struct {
		name     string
		next     string
		location string
	}{
		{"remembered page", "/asset-intelligence/copilot", "/asset-intelligence/copilot"},
		{"no next", "", middleware.DefaultDestination},
		{"open redirect", "https://evil.example/", middleware.DefaultDestination},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := url.Values{"email": {"admin@demo.com"}, "password": {"admin123"}, "next": {tc.next}}
			c, rec := newPageContext(t, http.MethodPost, "/auth/login", form)
			if err := h.LoginForm(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != tc.location {
				t.Fatalf("expected redirect to %s, got %d %s", tc.location, rec.Code, rec.Header().Get(echo.HeaderLocation))
			}
			if ck := findCookie(rec, "ai_session"); ck == nil || ck.Value != "tok-sid-1" {
				t.Fatalf("expected session cookie")
			}
		})
	}
}

func TestPageHandler_LoginForm_InlineError(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*domain.Session, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewPageHandler(stub, &stubCopilot{}, stubTokens{}, testCookie, nil)

	form := url.Values{"email": {"admin@demo.com"}, "password": {"wrong"}, "next": {"/asset-intelligence/benchmarking"}}
	c, rec := newPageContext(t, http.MethodPost, "/auth/login", form)
	if err := h.LoginForm(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	body := rec.Body.String()
	if rec.Code != http.StatusUnauthorized || !strings.Contains(body, "Invalid email or password") {
		t.Fatalf("expected inline error, got %d", rec.Code)
	}
	if !strings.Contains(body, `value="admin@demo.com"`) || !strings.Contains(body, `value="/asset-intelligence/benchmarking"`) {
		t.Fatalf("expected email and next to survive the failed submit")
	}
	if findCookie(rec, "ai_session") != nil {
		t.Fatalf("no cookie expected on failure")
	}
}

func TestPageHandler_LoginForm_UnknownFailure(t *testing.T) {
	boom := errors.New("registry down")
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*domain.Session, error) { return nil, boom },
	}
	h := NewPageHandler(stub, &stubCopilot{}, stubTokens{}, testCookie, nil)

	c, _ := newPageContext(t, http.MethodPost, "/auth/login", url.Values{"email": {"a@b.c"}, "password": {"xxxxxx"}})
	if err := h.LoginForm(c); !errors.Is(err, boom) {
		t.Fatalf("expected internal error to reach the error handler, got %v", err)
	}
}

func TestPageHandler_SignupForm(t *testing.T) {
	stub := &stubAuthService{
		signupFn: func(_ context.Context, email, secret, name string) (*domain.Session, error) {
			if len(secret) < domain.MinSecretLength {
				return nil, domain.ErrWeakSecret
			}
			return &domain.Session{ID: "sid-u1", Identity: &domain.Identity{ID: "u1", Email: email, DisplayName: name, Role: domain.RoleUser}}, nil
		},
	}
	h := NewPageHandler(stub, &stubCopilot{}, stubTokens{}, testCookie, nil)

	form := url.Values{"email": {"new@x.io"}, "password": {"abc"}, "display_name": {"New Person"}}
	c, rec := newPageContext(t, http.MethodPost, "/auth/signup", form)
	if err := h.SignupForm(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity || !strings.Contains(rec.Body.String(), "Password must be at least 6 characters") {
		t.Fatalf("expected weak secret error, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `action="/auth/signup"`) {
		t.Fatalf("expected the signup tab to stay open")
	}

	form.Set("password", "abcdef")
	c, rec = newPageContext(t, http.MethodPost, "/auth/signup", form)
	if err := h.SignupForm(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != middleware.DefaultDestination {
		t.Fatalf("expected redirect to default destination, got %d", rec.Code)
	}
}

func TestPageHandler_LogoutForm(t *testing.T) {
	stub := &stubAuthService{}
	h := NewPageHandler(stub, &stubCopilot{}, stubTokens{}, testCookie, nil)

	c, rec := newPageContext(t, http.MethodPost, "/auth/logout", url.Values{})
	middleware.SetSession(c, sessionFor("1", domain.RoleAdmin))
	if err := h.LogoutForm(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/auth" {
		t.Fatalf("expected redirect to login, got %d", rec.Code)
	}
	if len(stub.loggedOut) != 1 {
		t.Fatalf("expected logout call")
	}
}

func TestPageHandler_View(t *testing.T) {
	activity := &capturePublisher{}
	h := NewPageHandler(&stubAuthService{}, &stubCopilot{}, stubTokens{}, testCookie, activity)

	c, rec := newPageContext(t, http.MethodGet, "/asset-intelligence/repair-replace", nil)
	c.SetParamNames("view")
	c.SetParamValues("repair-replace")
	middleware.SetSession(c, sessionFor("3", domain.RoleUser))
	if err := h.View(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Repair vs Replace") {
		t.Fatalf("expected repair-replace view, got %d", rec.Code)
	}
	if len(activity.events) != 1 || activity.events[0].Kind != domain.ActivityPageView || activity.events[0].Path != "/asset-intelligence/repair-replace" {
		t.Fatalf("expected page_view event, got %+v", activity.events)
	}

	c, _ = newPageContext(t, http.MethodGet, "/asset-intelligence/settings", nil)
	c.SetParamNames("view")
	c.SetParamValues("settings")
	middleware.SetSession(c, sessionFor("3", domain.RoleUser))
	if err := h.View(c); !errors.Is(err, echo.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPageHandler_CopilotView(t *testing.T) {
	copilot := &stubCopilot{conv: &domain.Conversation{ID: "conv-1", Messages: []domain.ChatMessage{{ID: 1, Role: domain.MessageFromAssistant, Content: "Seeded greeting"}}}}
	h := NewPageHandler(&stubAuthService{}, copilot, stubTokens{}, testCookie, nil)

	c, rec := newPageContext(t, http.MethodGet, "/asset-intelligence/copilot?persona=Engineer", nil)
	c.SetParamNames("view")
	c.SetParamValues("copilot")
	middleware.SetSession(c, sessionFor("1", domain.RoleAdmin))
	if err := h.View(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Seeded greeting") || !strings.Contains(body, `<option value="Engineer" selected>`) {
		t.Fatalf("expected copilot transcript for the engineer persona")
	}
}

func TestPageHandler_CopilotForm(t *testing.T) {
	var sent []string
	copilot := &stubCopilot{
		conv: &domain.Conversation{ID: "conv-1"},
		sendFn: func(_ context.Context, _ *domain.Session, text string, _ domain.Persona) (*ports.SendResult, error) {
			if strings.TrimSpace(text) == "" {
				return nil, domain.ErrEmptyMessage
			}
			sent = append(sent, text)
			return &ports.SendResult{ConversationID: "conv-1"}, nil
		},
	}
	h := NewPageHandler(&stubAuthService{}, copilot, stubTokens{}, testCookie, nil)

	c, rec := newPageContext(t, http.MethodPost, "/asset-intelligence/copilot", url.Values{"message": {"KPI report"}, "persona": {"Manager"}})
	middleware.SetSession(c, sessionFor("2", domain.RoleManager))
	if err := h.CopilotForm(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/asset-intelligence/copilot?persona=Manager" {
		t.Fatalf("expected redirect back to the chat, got %d %s", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
	if len(sent) != 1 {
		t.Fatalf("expected one message sent")
	}

	c, rec = newPageContext(t, http.MethodPost, "/asset-intelligence/copilot", url.Values{"message": {"  "}})
	middleware.SetSession(c, sessionFor("2", domain.RoleManager))
	if err := h.CopilotForm(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity || !strings.Contains(rec.Body.String(), "Message cannot be empty") {
		t.Fatalf("expected inline error, got %d", rec.Code)
	}
}
