package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/assetintel/asset-intelligence/internal/api/middleware"
	"github.com/assetintel/asset-intelligence/internal/core/domain"
	"github.com/assetintel/asset-intelligence/internal/core/ports"
	"github.com/assetintel/asset-intelligence/internal/core/service"
)

type stubCopilot struct {
	conv     *domain.Conversation
	sendFn   func(ctx context.Context, s *domain.Session, text string, p domain.Persona) (*ports.SendResult, error)
	exportFn func(ctx context.Context, sid, format string) ([]byte, string, error)
}

func (s *stubCopilot) Conversation(_ context.Context, sid string) (*domain.Conversation, error) {
	if s.conv == nil {
		return nil, errors.New("no conversation")
	}
	return s.conv, nil
}

func (s *stubCopilot) Send(ctx context.Context, sess *domain.Session, text string, p domain.Persona) (*ports.SendResult, error) {
	return s.sendFn(ctx, sess, text, p)
}

func (s *stubCopilot) Export(ctx context.Context, sid, format string) ([]byte, string, error) {
	return s.exportFn(ctx, sid, format)
}

func (s *stubCopilot) QuickActions(p domain.Persona) []domain.QuickAction {
	return service.QuickActionsFor(p)
}

func TestCopilotHandler_QuickActions(t *testing.T) {
	h := NewCopilotHandler(&stubCopilot{})

	c, rec := newJSONContext(http.MethodGet, "/api/v1/copilot/quick-actions?persona=planner", "")
	if err := h.QuickActions(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp quickActionsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Persona != domain.PersonaPlanner || resp.Tagline != domain.PersonaPlanner.Tagline() {
		t.Fatalf("unexpected persona payload: %+v", resp)
	}
	if len(resp.Actions) != len(service.QuickActionsFor(domain.PersonaPlanner)) {
		t.Fatalf("expected planner actions, got %d", len(resp.Actions))
	}
	for _, a := range resp.Actions {
		if a.Expanded != service.ExpandQuickAction(a.Query) {
			t.Fatalf("action %q not expanded", a.Label)
		}
	}

	c, _ = newJSONContext(http.MethodGet, "/api/v1/copilot/quick-actions?persona=pilot", "")
	if err := h.QuickActions(c); !errors.Is(err, domain.ErrUnknownPersona) {
		t.Fatalf("expected ErrUnknownPersona, got %v", err)
	}
}

func TestCopilotHandler_SendMessage(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	stub := &stubCopilot{
		sendFn: func(_ context.Context, s *domain.Session, text string, p domain.Persona) (*ports.SendResult, error) {
			if s.ID != "sid-3" || text != "pump P-101 vibration" || p != domain.PersonaTechnician {
				t.Fatalf("unexpected args: %s %q %s", s.ID, text, p)
			}
			return &ports.SendResult{
				ConversationID: "conv-1",
				UserMessage:    domain.ChatMessage{ID: 5, Role: domain.MessageFromUser, Content: text, Timestamp: now},
				Reply:          domain.ChatMessage{ID: 6, Role: domain.MessageFromAssistant, Content: "reply", Timestamp: now, Type: domain.ResponseRecommendation},
			}, nil
		},
	}
	h := NewCopilotHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/api/v1/copilot/messages", `{"message":"pump P-101 vibration"}`)
	middleware.SetSession(c, sessionFor("3", domain.RoleUser))
	if err := h.SendMessage(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp sendMessageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.UserMessage.ID != 5 || resp.AssistantMessage.ID != 6 || resp.AssistantMessage.Type != domain.ResponseRecommendation {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestCopilotHandler_SendMessage_Errors(t *testing.T) {
	stub := &stubCopilot{
		sendFn: func(context.Context, *domain.Session, string, domain.Persona) (*ports.SendResult, error) {
			return nil, domain.ErrEmptyMessage
		},
	}
	h := NewCopilotHandler(stub)

	c, _ := newJSONContext(http.MethodPost, "/api/v1/copilot/messages", `{"message":"hi"}`)
	if err := h.SendMessage(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}

	c, _ = newJSONContext(http.MethodPost, "/api/v1/copilot/messages", `{"message":"   "}`)
	middleware.SetSession(c, sessionFor("3", domain.RoleUser))
	if err := h.SendMessage(c); !errors.Is(err, domain.ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}

	c, _ = newJSONContext(http.MethodPost, "/api/v1/copilot/messages", `{"message":"`+strings.Repeat("x", 4001)+`"}`)
	middleware.SetSession(c, sessionFor("3", domain.RoleUser))
	if err := h.SendMessage(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCopilotHandler_Conversation(t *testing.T) {
	stub := &stubCopilot{conv: &domain.Conversation{ID: "conv-9", Messages: []domain.ChatMessage{{ID: 1, Role: domain.MessageFromAssistant, Content: "hello"}}}}
	h := NewCopilotHandler(stub)

	c, rec := newJSONContext(http.MethodGet, "/api/v1/copilot/conversation", "")
	middleware.SetSession(c, sessionFor("1", domain.RoleAdmin))
	if err := h.Conversation(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"id":"conv-9"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestCopilotHandler_Export(t *testing.T) {
	var gotFormat string
	stub := &stubCopilot{
		exportFn: func(_ context.Context, sid, format string) ([]byte, string, error) {
			gotFormat = format
			if format == "xml" {
				return nil, "", domain.ErrUnsupportedExportFormat
			}
			return []byte("id,role\n"), "text/csv", nil
		},
	}
	h := NewCopilotHandler(stub)

	c, rec := newJSONContext(http.MethodGet, "/api/v1/copilot/conversation/export", "")
	middleware.SetSession(c, sessionFor("1", domain.RoleAdmin))
	if err := h.Export(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if gotFormat != "csv" {
		t.Fatalf("expected csv default, got %q", gotFormat)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="copilot-conversation.csv"` {
		t.Fatalf("unexpected disposition %q", cd)
	}
	if rec.Body.String() != "id,role\n" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}

	c, _ = newJSONContext(http.MethodGet, "/api/v1/copilot/conversation/export?format=xml", "")
	middleware.SetSession(c, sessionFor("1", domain.RoleAdmin))
	if err := h.Export(c); !errors.Is(err, domain.ErrUnsupportedExportFormat) {
		t.Fatalf("expected ErrUnsupportedExportFormat, got %v", err)
	}
}

func TestAdminHandler_Identities(t *testing.T) {
	stub := &stubAuthService{
		identitiesFn: func(context.Context) ([]domain.Identity, error) {
			return []domain.Identity{
				{ID: "1", Email: "admin@demo.com", DisplayName: "Admin User", Role: domain.RoleAdmin},
				{ID: "u1", Email: "new@x.io", DisplayName: "New Person", Role: domain.RoleUser},
			}, nil
		},
	}
	h := NewAdminHandler(stub)

	c, rec := newJSONContext(http.MethodGet, "/api/v1/admin/identities", "")
	if err := h.Identities(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp identitiesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Total != 2 || resp.Identities[1].Initials != "NP" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if strings.Contains(rec.Body.String(), "secret") {
		t.Fatalf("identities must not expose secrets")
	}
}
