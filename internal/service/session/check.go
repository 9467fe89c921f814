package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/auth"
	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/domain"
)

// CheckSession decides whether the stored credentials still form a valid
// session, refreshing an expired access token when the refresh token allows.
// The persisted record is loaded on the first call. If the decision does not
// resolve within the safety timeout, the session is reported as not loading
// and not authenticated.
func (s *Service) CheckSession(ctx context.Context) {
	s.hydrateOnce.Do(func() { s.hydrate(ctx) })

	s.mu.Lock()
	s.checkSeq++
	id := s.checkSeq
	s.check = id
	s.state.IsLoading = true
	epoch := s.epoch
	access, refresh := s.state.AccessToken, s.state.RefreshToken
	s.mu.Unlock()

	if s.cfg.SafetyTimeout > 0 {
		timer := s.clock.AfterFunc(s.cfg.SafetyTimeout, func() { s.expireCheck(id) })
		defer timer.Stop()
	}

	now := s.clock.Now()
	switch {
	case access == "":
	case !auth.IsExpired(access, now):
		s.mu.Lock()
		if s.epoch == epoch && s.state.AccessToken == access {
			s.state.IsAuthenticated = true
			s.state.Status = domain.SessionAuthenticated
		}
		s.mu.Unlock()
	case refreshUsable(refresh, now):
		s.RefreshSession(ctx)
	default:
		s.log.InfoContext(ctx, "stored session expired")
		s.reset(ctx, epoch, "")
	}

	s.finishCheck(id)
}

// refreshUsable reports whether a refresh attempt is worth making. Opaque
// refresh tokens cannot be inspected and are left to the server to judge.
func refreshUsable(token string, now time.Time) bool {
	if token == "" {
		return false
	}
	if !auth.LooksLikeJWT(token) {
		return true
	}
	return !auth.IsExpired(token, now)
}

func (s *Service) finishCheck(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.check != id {
		return
	}
	s.check = 0
	s.state.IsLoading = false
}

func (s *Service) expireCheck(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.check != id {
		return
	}
	s.check = 0
	s.state.IsLoading = false
	s.state.IsAuthenticated = false
	s.log.Warn("session check timed out", slog.Duration("timeout", s.cfg.SafetyTimeout))
}

func (s *Service) hydrate(ctx context.Context) {
	s.mu.Lock()
	epoch := s.epoch
	s.mu.Unlock()

	rec, err := s.store.Load(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "load persisted session failed", slog.String("error", err.Error()))
		return
	}
	if rec.IsEmpty() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch || s.state.AccessToken != "" {
		return
	}
	s.state.User = rec.User
	s.state.AccessToken = rec.AccessToken
	s.state.RefreshToken = rec.RefreshToken
}
