package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/auth"
	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/domain"
)

// Login authenticates the operator and installs a new session.
// The session is either fully installed or left logged out with Error set.
func (s *Service) Login(ctx context.Context, username, password string) error {
	input := LoginInput{Username: username, Password: password}
	if err := input.Validate(); err != nil {
		s.mu.Lock()
		s.state.Error = domain.UserMessage(err, loginFailedMessage)
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.epoch++
	epoch := s.epoch
	s.state = domain.Session{IsLoading: true, Status: domain.SessionAuthenticating}
	s.mu.Unlock()

	pair, err := s.api.Login(ctx, username, password)
	if err != nil {
		return s.loginFailed(ctx, epoch, fmt.Errorf("session.Login: %w", err))
	}

	if _, err := auth.ParseClaims(pair.AccessToken); err != nil {
		return s.loginFailed(ctx, epoch, fmt.Errorf("session.Login decode token: %w", err))
	}

	profile, err := s.api.Me(ctx, pair.AccessToken)
	if err != nil {
		return s.loginFailed(ctx, epoch, fmt.Errorf("session.Login fetch profile: %w", err))
	}

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return fmt.Errorf("session.Login: %w", domain.ErrSessionExpired)
	}
	s.state = domain.Session{
		User:            profile,
		AccessToken:     pair.AccessToken,
		RefreshToken:    pair.RefreshToken,
		IsAuthenticated: true,
		Status:          domain.SessionAuthenticated,
	}
	s.mu.Unlock()

	s.persist(ctx, epoch)

	s.log.InfoContext(ctx, "operator logged in",
		slog.String("username", profile.Username),
		slog.String("role", profile.Role.String()))
	return nil
}

func (s *Service) loginFailed(ctx context.Context, epoch uint64, err error) error {
	s.log.WarnContext(ctx, "login failed", slog.String("error", err.Error()))

	s.mu.Lock()
	if s.epoch == epoch {
		s.state.IsLoading = false
	}
	s.mu.Unlock()

	s.reset(ctx, epoch, domain.UserMessage(err, loginFailedMessage))
	return err
}
