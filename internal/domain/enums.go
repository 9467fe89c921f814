package domain

// UserRole represents the authorization level of an RTCC operator.
type UserRole string

const (
	UserRoleAdmin      UserRole = "admin"
	UserRoleSupervisor UserRole = "supervisor"
	UserRoleDetective  UserRole = "detective"
	UserRoleAnalyst    UserRole = "analyst"
	UserRoleOfficer    UserRole = "officer"
)

func (r UserRole) String() string { return string(r) }

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleAdmin, UserRoleSupervisor, UserRoleDetective, UserRoleAnalyst, UserRoleOfficer:
		return true
	}
	return false
}

func (r UserRole) IsAdmin() bool {
	return r == UserRoleAdmin
}

// EventType classifies a real-time event.
type EventType string

const (
	EventTypeGunshot        EventType = "gunshot"
	EventTypeLPRHit         EventType = "lpr_hit"
	EventTypeCameraAlert    EventType = "camera_alert"
	EventTypeCallForService EventType = "call_for_service"
	EventTypeOfficerAlert   EventType = "officer_alert"
	EventTypeBOLO           EventType = "bolo"
	EventTypeSystem         EventType = "system"
)

func (t EventType) String() string { return string(t) }

func (t EventType) IsValid() bool {
	switch t {
	case EventTypeGunshot, EventTypeLPRHit, EventTypeCameraAlert, EventTypeCallForService,
		EventTypeOfficerAlert, EventTypeBOLO, EventTypeSystem:
		return true
	}
	return false
}

// EventSource identifies the upstream system that produced an event.
type EventSource string

const (
	EventSourceShotSpotter EventSource = "shotspotter"
	EventSourceLPR         EventSource = "lpr"
	EventSourceCCTV        EventSource = "cctv"
	EventSourceCAD         EventSource = "cad"
	EventSourceFieldUnit   EventSource = "field_unit"
	EventSourceSystem      EventSource = "system"
)

func (s EventSource) String() string { return string(s) }

func (s EventSource) IsValid() bool {
	switch s {
	case EventSourceShotSpotter, EventSourceLPR, EventSourceCCTV, EventSourceCAD,
		EventSourceFieldUnit, EventSourceSystem:
		return true
	}
	return false
}

// EventPriority is the urgency of an event.
type EventPriority string

const (
	PriorityCritical EventPriority = "critical"
	PriorityHigh     EventPriority = "high"
	PriorityMedium   EventPriority = "medium"
	PriorityLow      EventPriority = "low"
	PriorityInfo     EventPriority = "info"
)

// Priorities lists every priority from most to least urgent.
var Priorities = []EventPriority{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow, PriorityInfo}

func (p EventPriority) String() string { return string(p) }

func (p EventPriority) IsValid() bool {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow, PriorityInfo:
		return true
	}
	return false
}

// SessionStatus is the state of the client credential lifecycle.
type SessionStatus string

const (
	SessionUnauthenticated SessionStatus = "unauthenticated"
	SessionAuthenticating  SessionStatus = "authenticating"
	SessionAuthenticated   SessionStatus = "authenticated"
	SessionRefreshing      SessionStatus = "refreshing"
)

func (s SessionStatus) String() string { return string(s) }
