package service

import (
	"fmt"
	"strings"

	"github.com/assetintel/asset-intelligence/internal/core/domain"
)

// Respond picks a canned reply by persona and keywords in text. Matching is
// a case-insensitive substring test; the first matching rule wins.
func Respond(text string, persona domain.Persona) string {
	q := strings.ToLower(text)

	switch persona {
	case domain.PersonaTechnician:
		if containsAny(q, "error", "fault") {
			return replyTroubleshooting
		}
		if containsAny(q, "pm", "maintenance") {
			return replyPMSchedule
		}
	case domain.PersonaManager:
		if containsAny(q, "performance", "kpi") {
			return replyKPIDashboard
		}
		if containsAny(q, "predict", "fail") {
			return replyRiskForecast
		}
	case domain.PersonaPlanner:
		if containsAny(q, "schedule", "plan") {
			return replySchedulingPlan
		}
	}

	return fmt.Sprintf(replyGeneric, text, persona)
}

// Classify labels a reply by keywords in the query that prompted it.
func Classify(text string) domain.ResponseType {
	q := strings.ToLower(text)
	switch {
	case containsAny(q, "show", "report"):
		return domain.ResponseReport
	case containsAny(q, "why", "analyze"):
		return domain.ResponseAnalysis
	case containsAny(q, "recommend", "should"):
		return domain.ResponseRecommendation
	default:
		return domain.ResponseInsight
	}
}

// QuickActionsFor returns the canned prompts for persona. Personas without
// their own set get the Technician prompts.
func QuickActionsFor(persona domain.Persona) []domain.QuickAction {
	actions, ok := quickActionsByPersona[persona]
	if !ok {
		actions = quickActionsByPersona[domain.PersonaTechnician]
	}
	out := make([]domain.QuickAction, len(actions))
	copy(out, actions)
	return out
}

var quickActionFill = strings.NewReplacer(
	"[ASSET]", "Chiller-001",
	"[CODE]", "E17",
	"[COMPONENT]", "pump impeller",
	"[TASK]", "bearing replacement",
	"[TIMEFRAME]", "last 6 months",
)

// ExpandQuickAction fills the placeholders of a quick action query with the
// demo values.
func ExpandQuickAction(query string) string {
	return quickActionFill.Replace(query)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
