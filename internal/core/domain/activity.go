package domain

import "time"

// ActivityAccount is the analytics account every visitor is attributed to.
const ActivityAccount = "asset-intelligence"

// ActivityKind names a tracked visitor action.
type ActivityKind string

const (
	ActivityIdentify ActivityKind = "identify"
	ActivityLogin    ActivityKind = "login"
	ActivitySignup   ActivityKind = "signup"
	ActivityLogout   ActivityKind = "logout"
	ActivityChat     ActivityKind = "chat"
	ActivityPageView ActivityKind = "page_view"
)

// ActivityEvent is a visitor identification or action record.
type ActivityEvent struct {
	Kind      ActivityKind
	VisitorID string
	Email     string
	Role      Role
	Account   string
	Path      string
	At        time.Time
}

// Anonymous reports whether the event has no authenticated visitor.
func (e ActivityEvent) Anonymous() bool {
	return e.Email == "" && e.Role == ""
}
