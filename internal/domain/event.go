package domain

import (
	"maps"
	"slices"
	"time"
)

// Location is where an event happened.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

// Event is a real-time occurrence delivered by the push channel.
// It is mutated only by acknowledgment and evicted only by capacity.
type Event struct {
	ID             string         `json:"id"`
	EventType      EventType      `json:"event_type"`
	Source         EventSource    `json:"source"`
	Priority       EventPriority  `json:"priority"`
	Title          string         `json:"title"`
	Description    string         `json:"description,omitempty"`
	Location       *Location      `json:"location,omitempty"`
	Timestamp      time.Time      `json:"timestamp"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	Tags           []string       `json:"tags,omitempty"`
	Acknowledged   bool           `json:"acknowledged"`
	AcknowledgedBy string         `json:"acknowledged_by,omitempty"`
	AcknowledgedAt *time.Time     `json:"acknowledged_at,omitempty"`
}

// Validate checks the closed enums and required identity fields.
func (e *Event) Validate() error {
	var errs []FieldError

	if e.ID == "" {
		errs = append(errs, FieldError{Field: "id", Message: "required"})
	}
	if !e.EventType.IsValid() {
		errs = append(errs, FieldError{Field: "event_type", Message: "unknown value"})
	}
	if !e.Source.IsValid() {
		errs = append(errs, FieldError{Field: "source", Message: "unknown value"})
	}
	if !e.Priority.IsValid() {
		errs = append(errs, FieldError{Field: "priority", Message: "unknown value"})
	}
	if e.Title == "" {
		errs = append(errs, FieldError{Field: "title", Message: "required"})
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// Clone returns a deep copy of the event.
func (e Event) Clone() Event {
	if e.Location != nil {
		loc := *e.Location
		e.Location = &loc
	}
	if e.AcknowledgedAt != nil {
		t := *e.AcknowledgedAt
		e.AcknowledgedAt = &t
	}
	e.Metadata = maps.Clone(e.Metadata)
	e.Tags = slices.Clone(e.Tags)
	return e
}

// EventPatch is a partial update. Nil fields are left untouched.
type EventPatch struct {
	Priority       *EventPriority
	Title          *string
	Description    *string
	Location       *Location
	Metadata       map[string]any
	Tags           []string
	Acknowledged   *bool
	AcknowledgedBy *string
	AcknowledgedAt *time.Time
}

// Apply writes the non-nil patch fields onto e.
func (p EventPatch) Apply(e *Event) {
	if p.Priority != nil && p.Priority.IsValid() {
		e.Priority = *p.Priority
	}
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Location != nil {
		loc := *p.Location
		e.Location = &loc
	}
	if p.Metadata != nil {
		e.Metadata = maps.Clone(p.Metadata)
	}
	if p.Tags != nil {
		e.Tags = slices.Clone(p.Tags)
	}
	if p.Acknowledged != nil {
		e.Acknowledged = *p.Acknowledged
	}
	if p.AcknowledgedBy != nil {
		e.AcknowledgedBy = *p.AcknowledgedBy
	}
	if p.AcknowledgedAt != nil {
		t := *p.AcknowledgedAt
		e.AcknowledgedAt = &t
	}
}
