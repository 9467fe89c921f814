package domain

import (
	"slices"
	"strings"
)

// EventFilter is a conjunctive predicate over cached events.
// An empty slice places no restriction on its dimension and a nil
// Acknowledged matches both states.
type EventFilter struct {
	EventTypes   []EventType
	Sources      []EventSource
	Priorities   []EventPriority
	Acknowledged *bool
	Search       string
}

// Clone returns a copy that shares no backing arrays with f.
func (f EventFilter) Clone() EventFilter {
	f.EventTypes = slices.Clone(f.EventTypes)
	f.Sources = slices.Clone(f.Sources)
	f.Priorities = slices.Clone(f.Priorities)
	if f.Acknowledged != nil {
		v := *f.Acknowledged
		f.Acknowledged = &v
	}
	return f
}

// IsZero reports whether the filter matches every event.
func (f EventFilter) IsZero() bool {
	return len(f.EventTypes) == 0 && len(f.Sources) == 0 && len(f.Priorities) == 0 &&
		f.Acknowledged == nil && strings.TrimSpace(f.Search) == ""
}

// Match reports whether e satisfies every dimension of the filter.
func (f EventFilter) Match(e *Event) bool {
	if len(f.EventTypes) > 0 && !slices.Contains(f.EventTypes, e.EventType) {
		return false
	}
	if len(f.Sources) > 0 && !slices.Contains(f.Sources, e.Source) {
		return false
	}
	if len(f.Priorities) > 0 && !slices.Contains(f.Priorities, e.Priority) {
		return false
	}
	if f.Acknowledged != nil && *f.Acknowledged != e.Acknowledged {
		return false
	}

	search := strings.ToLower(strings.TrimSpace(f.Search))
	if search == "" {
		return true
	}

	var address string
	if e.Location != nil {
		address = e.Location.Address
	}
	haystack := strings.ToLower(e.Title + " " + e.Description + " " + address)
	return strings.Contains(haystack, search)
}
