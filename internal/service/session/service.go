package session

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/adapter/authapi"
	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/clock"
	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/config"
	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/domain"
)

// loginFailedMessage is shown when the server gives no usable reason.
const loginFailedMessage = "Login failed. Please check your credentials."

// authAPI defines the identity endpoints needed by the session service.
type authAPI interface {
	Login(ctx context.Context, username, password string) (*authapi.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*authapi.TokenPair, error)
	Me(ctx context.Context, accessToken string) (*domain.UserProfile, error)
	Logout(ctx context.Context, accessToken string) error
}

// sessionStore defines the durable storage needed by the session service.
type sessionStore interface {
	Load(ctx context.Context) (*domain.PersistedSession, error)
	Save(ctx context.Context, rec *domain.PersistedSession) error
	Clear(ctx context.Context) error
}

// Service owns the client session and its credential lifecycle.
// All exported methods are safe for concurrent use.
type Service struct {
	log   *slog.Logger
	api   authAPI
	store sessionStore
	clock clock.Clock
	cfg   config.SessionConfig

	mu    sync.Mutex
	state domain.Session
	// epoch changes whenever the session is replaced or cleared. Work started
	// under an older epoch must not install or persist its result.
	epoch    uint64
	check    uint64 // id of the unresolved CheckSession, 0 when none
	checkSeq uint64

	hydrateOnce sync.Once

	// persistMu serializes writes to the store.
	persistMu sync.Mutex

	refreshes singleflight.Group
}

// NewService creates a new session service instance.
func NewService(
	logger *slog.Logger,
	api authAPI,
	store sessionStore,
	clk clock.Clock,
	cfg config.SessionConfig,
) *Service {
	if clk == nil {
		clk = clock.System()
	}
	return &Service{
		log:   logger.With("service", "session"),
		api:   api,
		store: store,
		clock: clk,
		cfg:   cfg,
		state: domain.Session{Status: domain.SessionUnauthenticated},
	}
}

// persist writes the current session to the store, or clears the store when
// the session holds no credentials. Nothing is written if the session moved on
// to another epoch.
func (s *Service) persist(ctx context.Context, epoch uint64) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return
	}
	rec := &domain.PersistedSession{
		AccessToken:  s.state.AccessToken,
		RefreshToken: s.state.RefreshToken,
		User:         s.state.User.Clone(),
	}
	s.mu.Unlock()

	var err error
	if rec.IsEmpty() {
		err = s.store.Clear(ctx)
	} else {
		err = s.store.Save(ctx, rec)
	}
	if err != nil {
		s.log.WarnContext(ctx, "persist session failed", slog.String("error", err.Error()))
	}
}

// reset clears the session if it is still at epoch and wipes the persisted
// record. It reports whether anything was cleared.
func (s *Service) reset(ctx context.Context, epoch uint64, message string) bool {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return false
	}
	s.epoch++
	s.state = domain.Session{
		IsLoading: s.state.IsLoading,
		Error:     message,
		Status:    domain.SessionUnauthenticated,
	}
	s.mu.Unlock()

	if err := s.store.Clear(context.WithoutCancel(ctx)); err != nil {
		s.log.WarnContext(ctx, "clear persisted session failed", slog.String("error", err.Error()))
	}
	return true
}
