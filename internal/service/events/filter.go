package events

import (
	"slices"

	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/domain"
)

// FilterOption replaces one dimension of the event filter.
type FilterOption func(*domain.EventFilter)

// WithEventTypes restricts to the given types. No arguments lifts the restriction.
func WithEventTypes(types ...domain.EventType) FilterOption {
	return func(f *domain.EventFilter) { f.EventTypes = slices.Clone(types) }
}

// WithSources restricts to the given sources. No arguments lifts the restriction.
func WithSources(sources ...domain.EventSource) FilterOption {
	return func(f *domain.EventFilter) { f.Sources = slices.Clone(sources) }
}

// WithPriorities restricts to the given priorities. No arguments lifts the restriction.
func WithPriorities(priorities ...domain.EventPriority) FilterOption {
	return func(f *domain.EventFilter) { f.Priorities = slices.Clone(priorities) }
}

// WithAcknowledged restricts to acknowledged (true) or unacknowledged (false) events.
func WithAcknowledged(acked bool) FilterOption {
	return func(f *domain.EventFilter) { f.Acknowledged = &acked }
}

// WithAnyAcknowledged matches events regardless of acknowledgment.
func WithAnyAcknowledged() FilterOption {
	return func(f *domain.EventFilter) { f.Acknowledged = nil }
}

// WithSearch sets the free-text query.
func WithSearch(query string) FilterOption {
	return func(f *domain.EventFilter) { f.Search = query }
}

// SetFilter applies opts on top of the current filter.
func (s *Store) SetFilter(opts ...FilterOption) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, opt := range opts {
		opt(&s.filter)
	}
}

// ResetFilter removes every restriction.
func (s *Store) ResetFilter() {
	s.mu.Lock()
	s.filter = domain.EventFilter{}
	s.mu.Unlock()
}

// Filter returns the current filter.
func (s *Store) Filter() domain.EventFilter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter.Clone()
}

// Filtered returns the cached events matching the current filter, newest first.
func (s *Store) Filtered() []domain.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Event, 0, len(s.events))
	for i := range s.events {
		if s.filter.Match(&s.events[i]) {
			out = append(out, s.events[i].Clone())
		}
	}
	return out
}
