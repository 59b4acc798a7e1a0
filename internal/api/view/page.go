package view

import (
	"github.com/assetintel/asset-intelligence/internal/core/domain"
	"github.com/assetintel/asset-intelligence/internal/core/service"
)

// Page is the data every template receives.
type Page struct {
	Title       string
	Description string
	// User is nil for anonymous visitors; the layout hides the user menu.
	User *domain.Identity
	// Nav is set for dashboard pages only.
	Nav    []NavSection
	Active string
	Error  string
	Status int

	Auth    *AuthForm
	Copilot *CopilotView
}

// AuthForm carries the login/signup form state across a failed submit.
type AuthForm struct {
	Tab          string
	Next         string
	Email        string
	DisplayName  string
	DemoAccounts []service.DemoAccount
}

// Signup reports whether the signup tab is active.
func (f *AuthForm) Signup() bool {
	return f.Tab == "signup"
}

// QuickAction is a persona shortcut; Expanded is what gets sent.
type QuickAction struct {
	Label    string
	Query    string
	Expanded string
}

// CopilotView is the chat page state.
type CopilotView struct {
	ConversationID string
	Persona        domain.Persona
	Personas       []domain.Persona
	Tagline        string
	Placeholder    string
	QuickActions   []QuickAction
	Messages       []domain.ChatMessage
	Draft          string
}

// Shell returns a dashboard page with the navigation sidebar.
func Shell(item NavItem, user *domain.Identity) Page {
	return Page{
		Title:       item.Name,
		Description: item.Description,
		User:        user,
		Nav:         Navigation(),
		Active:      item.Slug,
	}
}

// NewCopilotView assembles the chat page for persona.
func NewCopilotView(conv *domain.Conversation, persona domain.Persona, actions []domain.QuickAction) *CopilotView {
	cv := &CopilotView{
		ConversationID: conv.ID,
		Persona:        persona,
		Personas:       domain.AllPersonas(),
		Tagline:        persona.Tagline(),
		Placeholder:    persona.Placeholder(),
		Messages:       conv.Messages,
		QuickActions:   make([]QuickAction, len(actions)),
	}
	for i, a := range actions {
		cv.QuickActions[i] = QuickAction{Label: a.Label, Query: a.Query, Expanded: service.ExpandQuickAction(a.Query)}
	}
	return cv
}
