package domain

import (
	"fmt"
	"strings"
	"time"
)

// Persona selects which canned answers the copilot gives.
type Persona string

const (
	PersonaTechnician Persona = "Technician"
	PersonaManager    Persona = "Manager"
	PersonaPlanner    Persona = "Planner"
	PersonaEngineer   Persona = "Engineer"
)

// DefaultPersona is used when a request does not name one.
const DefaultPersona = PersonaTechnician

// AllPersonas lists every persona in display order.
func AllPersonas() []Persona {
	return []Persona{PersonaTechnician, PersonaManager, PersonaPlanner, PersonaEngineer}
}

// ParsePersona accepts a persona name case-insensitively. An empty string
// yields DefaultPersona.
func ParsePersona(s string) (Persona, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultPersona, nil
	}
	for _, p := range AllPersonas() {
		if strings.EqualFold(string(p), s) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPersona, s)
}

// Tagline is the one-line description shown under the copilot title.
func (p Persona) Tagline() string {
	switch p {
	case PersonaTechnician:
		return "Real-time troubleshooting and step-by-step maintenance guidance"
	case PersonaManager:
		return "Strategic insights, performance analysis, and decision support"
	case PersonaPlanner:
		return "Scheduling optimization, resource planning, and workflow management"
	case PersonaEngineer:
		return "GenAI assistant for maintenance operations"
	default:
		panic(fmt.Sprintf("domain: no tagline for persona %q", string(p)))
	}
}

// Placeholder is the input hint shown in the copilot composer.
func (p Persona) Placeholder() string {
	switch p {
	case PersonaTechnician:
		return "Ask me about error codes, repair procedures, SOPs, or maintenance tasks..."
	case PersonaManager:
		return "Ask me about KPIs, performance trends, resource planning, or strategic recommendations..."
	case PersonaPlanner:
		return "Ask me about scheduling, resource optimization, workload planning, or cost analysis..."
	case PersonaEngineer:
		return "Ask me about asset risks, maintenance schedules, SOPs, or anything else..."
	default:
		panic(fmt.Sprintf("domain: no placeholder for persona %q", string(p)))
	}
}

// MessageRole tells who authored a chat message.
type MessageRole string

const (
	MessageFromUser      MessageRole = "user"
	MessageFromAssistant MessageRole = "assistant"
)

// ResponseType labels a message for display and export.
type ResponseType string

const (
	ResponseQuery          ResponseType = "query"
	ResponseRecommendation ResponseType = "recommendation"
	ResponseAnalysis       ResponseType = "analysis"
	ResponseReport         ResponseType = "report"
	ResponseInsight        ResponseType = "insight"
)

// ChatMessage is one entry of a copilot conversation.
type ChatMessage struct {
	ID          int64        `json:"id"`
	Role        MessageRole  `json:"role"`
	Content     string       `json:"content"`
	Timestamp   time.Time    `json:"timestamp"`
	Type        ResponseType `json:"type,omitempty"`
	Attachments []string     `json:"attachments,omitempty"`
}

// Conversation is the copilot transcript bound to one session.
type Conversation struct {
	ID        string        `json:"id"`
	SessionID string        `json:"session_id"`
	StartedAt time.Time     `json:"started_at"`
	Messages  []ChatMessage `json:"messages"`
}

// LastMessageID returns the highest message id, or 0 for an empty transcript.
func (c *Conversation) LastMessageID() int64 {
	var last int64
	for _, m := range c.Messages {
		if m.ID > last {
			last = m.ID
		}
	}
	return last
}

// QuickAction is a canned prompt offered to a persona.
type QuickAction struct {
	Label string `json:"label"`
	Query string `json:"query"`
}
