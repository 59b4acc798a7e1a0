package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/assetintel/asset-intelligence/internal/core/domain"
	"github.com/assetintel/asset-intelligence/internal/core/ports"
	"github.com/assetintel/asset-intelligence/internal/pkg/metrics"
)

const defaultCopilotLatency = 2 * time.Second

// CopilotService runs the simulated maintenance assistant on top of a
// conversation store. Each session owns at most one conversation.
type CopilotService struct {
	repo     ports.ConversationRepository
	activity ports.ActivityPublisher
	latency  time.Duration
	log      zerolog.Logger
	now      func() time.Time
}

// NewCopilotService builds the assistant. A negative latency selects the 2s
// default; zero disables the simulated think time.
func NewCopilotService(repo ports.ConversationRepository, activity ports.ActivityPublisher, latency time.Duration, log zerolog.Logger) *CopilotService {
	if latency < 0 {
		latency = defaultCopilotLatency
	}
	return &CopilotService{
		repo:     repo,
		activity: activity,
		latency:  latency,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Conversation loads the transcript bound to sessionID, starting one seeded
// with the sample history when none exists yet.
func (s *CopilotService) Conversation(ctx context.Context, sessionID string) (*domain.Conversation, error) {
	if sessionID == "" {
		return nil, domain.ErrUnauthenticated
	}

	conv, err := s.repo.FindBySession(ctx, sessionID)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, domain.ErrConversationNotFound) {
		return nil, fmt.Errorf("load conversation: %w", err)
	}

	now := s.now()
	conv = &domain.Conversation{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		StartedAt: now,
		Messages:  seedHistory(now),
	}
	if err := s.repo.Create(ctx, conv); err != nil {
		return nil, fmt.Errorf("start conversation: %w", err)
	}
	s.log.Debug().Str("conversation_id", conv.ID).Str("session_id", sessionID).Msg("conversation started")
	return conv, nil
}

// Send stores the user's message, waits the simulated think time and stores
// the assistant's reply. When ctx ends during the wait the user message is
// kept and no reply is written.
func (s *CopilotService) Send(ctx context.Context, session *domain.Session, text string, persona domain.Persona) (*ports.SendResult, error) {
	if !session.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyMessage
	}
	if persona == "" {
		persona = domain.DefaultPersona
	}

	conv, err := s.Conversation(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	userMsg, err := s.append(ctx, conv.ID, domain.ChatMessage{
		Role:    domain.MessageFromUser,
		Content: text,
		Type:    domain.ResponseQuery,
	})
	if err != nil {
		return nil, err
	}
	s.publish(session.Identity)

	if err := pause(ctx, s.latency); err != nil {
		s.log.Debug().Str("conversation_id", conv.ID).Msg("reply abandoned, request ended")
		return nil, err
	}

	reply, err := s.append(ctx, conv.ID, domain.ChatMessage{
		Role:    domain.MessageFromAssistant,
		Content: Respond(text, persona),
		Type:    Classify(text),
	})
	if err != nil {
		return nil, err
	}
	metrics.CopilotMessagesTotal.WithLabelValues(string(persona), string(reply.Type)).Inc()

	return &ports.SendResult{ConversationID: conv.ID, UserMessage: userMsg, Reply: reply}, nil
}

// Export renders the session's transcript as "csv" or "json".
func (s *CopilotService) Export(ctx context.Context, sessionID, format string) ([]byte, string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format != "csv" && format != "json" {
		return nil, "", fmt.Errorf("%w: %q", domain.ErrUnsupportedExportFormat, format)
	}

	conv, err := s.Conversation(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}

	if format == "json" {
		data, err := json.MarshalIndent(conv, "", "  ")
		if err != nil {
			return nil, "", fmt.Errorf("export conversation: %w", err)
		}
		return data, "application/json", nil
	}

	data, err := conversationCSV(conv)
	if err != nil {
		return nil, "", fmt.Errorf("export conversation: %w", err)
	}
	return data, "text/csv", nil
}

func (s *CopilotService) QuickActions(persona domain.Persona) []domain.QuickAction {
	return QuickActionsFor(persona)
}

func (s *CopilotService) append(ctx context.Context, conversationID string, msg domain.ChatMessage) (domain.ChatMessage, error) {
	id, err := s.repo.NextMessageID(ctx, conversationID)
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("allocate message id: %w", err)
	}
	msg.ID = id
	msg.Timestamp = s.now()
	if err := s.repo.Append(ctx, conversationID, msg); err != nil {
		return domain.ChatMessage{}, fmt.Errorf("append message: %w", err)
	}
	return msg, nil
}

func (s *CopilotService) publish(identity *domain.Identity) {
	if s.activity == nil {
		return
	}
	s.activity.Publish(NewActivityEvent(domain.ActivityChat, identity, "/asset-intelligence/copilot", s.now()))
}

var csvHeader = []string{"id", "role", "type", "timestamp", "content", "attachments"}

func conversationCSV(conv *domain.Conversation) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, m := range conv.Messages {
		row := []string{
			strconv.FormatInt(m.ID, 10),
			string(m.Role),
			string(m.Type),
			m.Timestamp.UTC().Format(time.RFC3339),
			m.Content,
			strings.Join(m.Attachments, ";"),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
