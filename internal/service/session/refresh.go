package session

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/auth"
	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/domain"
)

// RefreshSession exchanges the refresh token for a new token pair and a fresh
// profile. Concurrent callers share one network exchange and its outcome.
// On failure the session is cleared.
// A caller whose ctx ends first gets false while the exchange continues.
func (s *Service) RefreshSession(ctx context.Context) bool {
	ok, _ := s.refreshUnless(ctx, "")
	return ok
}

// RefreshIfStale refreshes after a request was rejected with failedToken.
// If the session already holds a different access token, a concurrent refresh
// has already replaced the rejected one and no exchange is made.
//
// A non-nil error means ctx ended before the outcome was known; the shared
// exchange keeps running and the session may still be valid afterwards.
func (s *Service) RefreshIfStale(ctx context.Context, failedToken string) (bool, error) {
	return s.refreshUnless(ctx, failedToken)
}

// refreshUnless joins or starts a refresh unless the session has already moved
// past failedToken. The token pair is read under one lock so that a caller
// arriving after an exchange finished never replays the rotated refresh token.
func (s *Service) refreshUnless(ctx context.Context, failedToken string) (bool, error) {
	s.mu.Lock()
	if failedToken != "" && s.state.IsAuthenticated &&
		s.state.AccessToken != "" && s.state.AccessToken != failedToken {
		s.mu.Unlock()
		return true, nil
	}
	epoch := s.epoch
	refreshToken := s.state.RefreshToken
	hasSession := s.state.AccessToken != "" || s.state.User != nil
	s.mu.Unlock()

	if refreshToken == "" {
		if hasSession {
			s.reset(ctx, epoch, "")
		}
		return false, nil
	}

	ch := s.refreshes.DoChan(strconv.FormatUint(epoch, 10), func() (any, error) {
		return s.refresh(context.WithoutCancel(ctx), epoch, refreshToken), nil
	})

	select {
	case res := <-ch:
		ok, _ := res.Val.(bool)
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func (s *Service) refresh(ctx context.Context, epoch uint64, refreshToken string) bool {
	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return false
	}
	if s.state.RefreshToken != refreshToken {
		// Rotated by an exchange that finished after this caller read the token.
		ok := s.state.IsAuthenticated
		s.mu.Unlock()
		return ok
	}
	s.state.Status = domain.SessionRefreshing
	s.mu.Unlock()

	pair, err := s.api.Refresh(ctx, refreshToken)
	if err != nil {
		return s.refreshFailed(ctx, epoch, fmt.Errorf("session.Refresh: %w", err))
	}

	if _, err := auth.ParseClaims(pair.AccessToken); err != nil {
		return s.refreshFailed(ctx, epoch, fmt.Errorf("session.Refresh decode token: %w", err))
	}

	profile, err := s.api.Me(ctx, pair.AccessToken)
	if err != nil {
		return s.refreshFailed(ctx, epoch, fmt.Errorf("session.Refresh fetch profile: %w", err))
	}

	if pair.RefreshToken == "" {
		pair.RefreshToken = refreshToken
	}

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		s.log.InfoContext(ctx, "discarding refresh for ended session")
		return false
	}
	s.state = domain.Session{
		User:            profile,
		AccessToken:     pair.AccessToken,
		RefreshToken:    pair.RefreshToken,
		IsAuthenticated: true,
		IsLoading:       s.state.IsLoading,
		Status:          domain.SessionAuthenticated,
	}
	s.mu.Unlock()

	s.persist(ctx, epoch)

	s.log.DebugContext(ctx, "session refreshed", slog.String("username", profile.Username))
	return true
}

func (s *Service) refreshFailed(ctx context.Context, epoch uint64, err error) bool {
	s.log.WarnContext(ctx, "session refresh failed", slog.String("error", err.Error()))
	s.reset(ctx, epoch, "")
	return false
}
