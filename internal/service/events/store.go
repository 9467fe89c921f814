package events

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/clock"
	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/config"
	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/domain"
)

// DefaultCapacity is the number of events kept when the config gives none.
const DefaultCapacity = 500

// Store is the bounded cache of real-time events, newest first in arrival
// order, together with the operator's filter, selection and unread counter.
// All methods are safe for concurrent use and return copies.
type Store struct {
	log      *slog.Logger
	clock    clock.Clock
	capacity int

	mu       sync.RWMutex
	events   []domain.Event
	unread   int
	filter   domain.EventFilter
	selected string
}

// NewStore creates an empty event store.
func NewStore(logger *slog.Logger, clk clock.Clock, cfg config.EventsConfig) *Store {
	if clk == nil {
		clk = clock.System()
	}
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		log:      logger.With("service", "events"),
		clock:    clk,
		capacity: capacity,
	}
}

// AddEvent puts e at the head of the list, evicting the oldest events beyond
// capacity. An event whose ID is already cached is ignored and false returned.
// Unread always equals the number of cached unacknowledged events, so evicting
// an unacknowledged event lowers it.
func (s *Store) AddEvent(e domain.Event) bool {
	if e.ID == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexLocked(e.ID) >= 0 {
		return false
	}

	s.events = slices.Insert(s.events, 0, e.Clone())
	if !e.Acknowledged {
		s.unread++
	}

	if len(s.events) > s.capacity {
		s.log.Debug("events evicted", slog.Int("count", len(s.events)-s.capacity))
		for _, old := range s.events[s.capacity:] {
			if !old.Acknowledged {
				s.decUnreadLocked()
			}
			if old.ID == s.selected {
				s.selected = ""
			}
		}
		clear(s.events[s.capacity:])
		s.events = s.events[:s.capacity]
	}
	return true
}

// UpdateEvent applies patch to the event with id. Unknown ids are a no-op.
func (s *Store) UpdateEvent(id string, patch domain.EventPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return false
	}

	e := &s.events[i]
	wasAcked := e.Acknowledged
	patch.Apply(e)
	switch {
	case !wasAcked && e.Acknowledged:
		s.decUnreadLocked()
	case wasAcked && !e.Acknowledged:
		s.unread++
	}
	return true
}

// RemoveEvent drops the event with id, clearing the selection if it pointed
// at it. Unknown ids are a no-op.
func (s *Store) RemoveEvent(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return false
	}
	if !s.events[i].Acknowledged {
		s.decUnreadLocked()
	}
	s.events = slices.Delete(s.events, i, i+1)
	if s.selected == id {
		s.selected = ""
	}
	return true
}

// AcknowledgeEvent marks the event handled by operator. Acknowledging an
// unknown or already acknowledged event is a no-op that returns false.
func (s *Store) AcknowledgeEvent(id, by string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 || s.events[i].Acknowledged {
		return false
	}

	now := s.clock.Now()
	e := &s.events[i]
	e.Acknowledged = true
	e.AcknowledgedAt = &now
	e.AcknowledgedBy = by
	s.decUnreadLocked()
	return true
}

// MarkAllRead acknowledges every cached event and zeroes the unread counter.
// Per-event AcknowledgedAt and AcknowledgedBy are left as they were.
func (s *Store) MarkAllRead() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.events {
		s.events[i].Acknowledged = true
	}
	s.unread = 0
}

// ClearEvents empties the cache, the unread counter and the selection.
// The filter is kept.
func (s *Store) ClearEvents() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = nil
	s.unread = 0
	s.selected = ""
}

// SelectEvent makes the event with id the current selection.
func (s *Store) SelectEvent(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexLocked(id) < 0 {
		return false
	}
	s.selected = id
	return true
}

// ClearSelection drops the current selection.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	s.selected = ""
	s.mu.Unlock()
}

// Selected returns the currently selected event, as it is now.
func (s *Store) Selected() (domain.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.selected == "" {
		return domain.Event{}, false
	}
	i := s.indexLocked(s.selected)
	if i < 0 {
		return domain.Event{}, false
	}
	return s.events[i].Clone(), true
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.events, func(e domain.Event) bool { return e.ID == id })
}

func (s *Store) decUnreadLocked() {
	if s.unread > 0 {
		s.unread--
	}
}
