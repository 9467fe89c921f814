package session

import (
	"context"
	"log/slog"

	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/domain"
)

// Logout ends the session. Local state and the persisted record are always
// cleared; the server is notified on a best-effort basis.
func (s *Service) Logout(ctx context.Context) {
	s.persistMu.Lock()
	s.mu.Lock()
	token := s.state.AccessToken
	s.epoch++
	s.check = 0
	s.state = domain.Session{Status: domain.SessionUnauthenticated}
	s.mu.Unlock()

	if err := s.store.Clear(context.WithoutCancel(ctx)); err != nil {
		s.log.WarnContext(ctx, "clear persisted session failed", slog.String("error", err.Error()))
	}
	s.persistMu.Unlock()

	if token != "" {
		if err := s.api.Logout(ctx, token); err != nil {
			s.log.WarnContext(ctx, "server logout failed", slog.String("error", err.Error()))
		}
	}

	s.log.InfoContext(ctx, "operator logged out")
}
