package ports

import (
	"context"

	"github.com/assetintel/asset-intelligence/internal/core/domain"
)

// ConversationRepository stores copilot transcripts, one per session.
type ConversationRepository interface {
	// FindBySession returns domain.ErrConversationNotFound when the session
	// has not started a conversation.
	FindBySession(ctx context.Context, sessionID string) (*domain.Conversation, error)
	// Create stores conv with its seed messages and binds it to conv.SessionID.
	Create(ctx context.Context, conv *domain.Conversation) error
	// NextMessageID returns the next id of a strictly increasing sequence.
	NextMessageID(ctx context.Context, conversationID string) (int64, error)
	Append(ctx context.Context, conversationID string, msg domain.ChatMessage) error
}

// SendResult pairs the stored user message with the assistant's reply.
type SendResult struct {
	ConversationID string
	UserMessage    domain.ChatMessage
	Reply          domain.ChatMessage
}

// CopilotService is the simulated maintenance assistant.
type CopilotService interface {
	Conversation(ctx context.Context, sessionID string) (*domain.Conversation, error)
	Send(ctx context.Context, session *domain.Session, text string, persona domain.Persona) (*SendResult, error)
	Export(ctx context.Context, sessionID, format string) (data []byte, contentType string, err error)
	QuickActions(persona domain.Persona) []domain.QuickAction
}
