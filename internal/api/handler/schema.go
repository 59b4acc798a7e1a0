package handler

import (
	"time"

	"github.com/assetintel/asset-intelligence/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"    form:"email"`
	Password string `json:"password" form:"password"`
}

type signupRequest struct {
	Email       string `json:"email"        form:"email"        validate:"required,email,max=254"`
	Password    string `json:"password"     form:"password"`
	DisplayName string `json:"display_name" form:"display_name" validate:"required,max=100"`
}

type userResponse struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	DisplayName string      `json:"display_name"`
	Role        domain.Role `json:"role"`
	Initials    string      `json:"initials"`
}

type authResponse struct {
	Token string        `json:"token,omitempty"`
	User  *userResponse `json:"user"`
}

type meResponse struct {
	User *userResponse `json:"user"`
}

func toUserResponse(i *domain.Identity) *userResponse {
	if i == nil {
		return nil
	}
	return &userResponse{
		ID:          i.ID,
		Email:       i.Email,
		DisplayName: i.DisplayName,
		Role:        i.Role,
		Initials:    i.Initials(),
	}
}

// --- Copilot ---

type sendMessageRequest struct {
	Message string `json:"message" form:"message" validate:"max=4000"`
	Persona string `json:"persona" form:"persona"`
}

type messageResponse struct {
	ID          int64               `json:"id"`
	Role        domain.MessageRole  `json:"role"`
	Content     string              `json:"content"`
	Timestamp   time.Time           `json:"timestamp"`
	Type        domain.ResponseType `json:"type,omitempty"`
	Attachments []string            `json:"attachments,omitempty"`
}

type sendMessageResponse struct {
	ConversationID   string          `json:"conversation_id"`
	UserMessage      messageResponse `json:"user_message"`
	AssistantMessage messageResponse `json:"assistant_message"`
}

type conversationResponse struct {
	ID        string            `json:"id"`
	StartedAt time.Time         `json:"started_at"`
	Messages  []messageResponse `json:"messages"`
}

type quickActionResponse struct {
	Label    string `json:"label"`
	Query    string `json:"query"`
	Expanded string `json:"expanded"`
}

type quickActionsResponse struct {
	Persona     domain.Persona        `json:"persona"`
	Tagline     string                `json:"tagline"`
	Placeholder string                `json:"placeholder"`
	Actions     []quickActionResponse `json:"actions"`
}

func toMessageResponse(m domain.ChatMessage) messageResponse {
	return messageResponse{
		ID:          m.ID,
		Role:        m.Role,
		Content:     m.Content,
		Timestamp:   m.Timestamp,
		Type:        m.Type,
		Attachments: m.Attachments,
	}
}

func toConversationResponse(c *domain.Conversation) conversationResponse {
	msgs := make([]messageResponse, len(c.Messages))
	for i, m := range c.Messages {
		msgs[i] = toMessageResponse(m)
	}
	return conversationResponse{ID: c.ID, StartedAt: c.StartedAt, Messages: msgs}
}

// --- Admin ---

type identitiesResponse struct {
	Identities []userResponse `json:"identities"`
	Total      int            `json:"total"`
}
