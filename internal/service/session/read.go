package session

import (
	"slices"

	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/domain"
)

// Snapshot returns a copy of the current session.
func (s *Service) Snapshot() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// AccessToken returns the current bearer token, or "" when there is none.
func (s *Service) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.AccessToken
}

// User returns the authenticated operator's profile.
func (s *Service) User() (*domain.UserProfile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.IsAuthenticated || s.state.User == nil {
		return nil, false
	}
	return s.state.User.Clone(), true
}

// HasRole reports whether the authenticated operator holds one of roles.
func (s *Service) HasRole(roles ...domain.UserRole) bool {
	u, ok := s.User()
	if !ok {
		return false
	}
	return slices.Contains(roles, u.Role)
}
