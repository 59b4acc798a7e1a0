package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/assetintel/asset-intelligence/internal/core/domain"
	"github.com/assetintel/asset-intelligence/internal/core/service"
)

func runVisitor(t *testing.T, cfg VisitorConfig, sess *domain.Session, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/auth", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	setSession(c, sess, domain.GuardStateOf(sess))

	called := false
	if err := Visitor(cfg)(func(c echo.Context) error {
		called = true
		return nil
	})(c); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	return rec
}

func visitorCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestVisitor_IssuesAndReusesAnonymousID(t *testing.T) {
	activity := &capturePublisher{}
	cfg := VisitorConfig{CookieName: "ai_visitor", Activity: activity}

	rec := runVisitor(t, cfg, &domain.Session{}, nil)
	issued := visitorCookie(rec, "ai_visitor")
	if issued == nil || !service.IsAnonymousVisitorID(issued.Value) || !issued.HttpOnly {
		t.Fatalf("expected an anonymous visitor cookie, got %+v", issued)
	}

	rec = runVisitor(t, cfg, &domain.Session{}, &http.Cookie{Name: "ai_visitor", Value: issued.Value})
	if visitorCookie(rec, "ai_visitor") != nil {
		t.Fatalf("known visitor must keep its cookie")
	}

	if len(activity.events) != 2 {
		t.Fatalf("expected two identify events, got %d", len(activity.events))
	}
	for _, ev := range activity.events {
		if ev.Kind != domain.ActivityIdentify || !ev.Anonymous() || ev.VisitorID != issued.Value || ev.Path != "/auth" {
			t.Fatalf("unexpected event %+v", ev)
		}
	}
}

func TestVisitor_ReplacesForgedCookie(t *testing.T) {
	activity := &capturePublisher{}
	cfg := VisitorConfig{CookieName: "ai_visitor", Activity: activity}

	rec := runVisitor(t, cfg, &domain.Session{}, &http.Cookie{Name: "ai_visitor", Value: "1"})
	issued := visitorCookie(rec, "ai_visitor")
	if issued == nil || issued.Value == "1" {
		t.Fatalf("expected a fresh visitor id, got %+v", issued)
	}
	if activity.events[0].VisitorID != issued.Value {
		t.Fatalf("event must carry the fresh id")
	}
}

func TestVisitor_SkipsSessions(t *testing.T) {
	activity := &capturePublisher{}
	rec := runVisitor(t, VisitorConfig{CookieName: "ai_visitor", Activity: activity}, sessionWithRole(domain.RoleUser), nil)

	if len(activity.events) != 0 || visitorCookie(rec, "ai_visitor") != nil {
		t.Fatalf("authenticated requests must not be tracked as anonymous")
	}
	runVisitor(t, VisitorConfig{CookieName: "ai_visitor"}, &domain.Session{}, nil)
}
