package events

import "github.com/aldric144/g3ti-rtcc-platform-sub008/internal/domain"

// Events returns every cached event, newest first.
func (s *Store) Events() []domain.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Event, len(s.events))
	for i := range s.events {
		out[i] = s.events[i].Clone()
	}
	return out
}

// Event returns the cached event with id.
func (s *Store) Event(id string) (domain.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexLocked(id)
	if i < 0 {
		return domain.Event{}, false
	}
	return s.events[i].Clone(), true
}

// Len returns the number of cached events.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// UnreadCount returns the number of cached unacknowledged events. It is not an
// arrival counter: evicted and removed events no longer count.
func (s *Store) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unread
}

// CountByPriority returns the number of cached unacknowledged events per priority.
// Every priority is present in the result.
func (s *Store) CountByPriority() map[domain.EventPriority]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[domain.EventPriority]int, len(domain.Priorities))
	for _, p := range domain.Priorities {
		counts[p] = 0
	}
	for i := range s.events {
		if !s.events[i].Acknowledged {
			counts[s.events[i].Priority]++
		}
	}
	return counts
}
