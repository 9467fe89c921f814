package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/adapter/authapi"
	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/adapter/channel"
	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/adapter/sessionstore"
	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/clock"
	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/config"
	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/domain"
	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/service/events"
	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/service/session"
	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/transport/middleware"
)

// ErrChannelDisabled is returned by Watch when no push channel is configured.
var ErrChannelDisabled = errors.New("push channel not configured")

// App holds the wired client components.
type App struct {
	Session  *session.Service
	Events   *events.Store
	Ingestor *events.Ingestor
	// Channel is nil when no push channel URL is configured.
	Channel *channel.Client
	// API is the HTTP client for RTCC API calls. It attaches the session
	// token and refreshes it on 401.
	API *http.Client

	log    *slog.Logger
	store  sessionstore.Store
	prompt *loginPrompt
}

type settings struct {
	logger    *slog.Logger
	clock     clock.Clock
	transport http.RoundTripper
	notify    func(domain.Event)
}

// Option customizes New.
type Option func(*settings)

// WithLogger replaces the logger built from the log config.
func WithLogger(l *slog.Logger) Option { return func(s *settings) { s.logger = l } }

// WithClock replaces the system clock.
func WithClock(c clock.Clock) Option { return func(s *settings) { s.clock = c } }

// WithTransport sets the base transport under every HTTP client.
func WithTransport(rt http.RoundTripper) Option { return func(s *settings) { s.transport = rt } }

// WithEventNotify registers fn for every event the push channel delivers.
func WithEventNotify(fn func(domain.Event)) Option { return func(s *settings) { s.notify = fn } }

// New builds the client from cfg. Close releases the session store.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = NewLogger(cfg.Log)
	}
	if s.clock == nil {
		s.clock = clock.System()
	}
	if s.transport == nil {
		s.transport = http.DefaultTransport
	}
	logger := s.logger

	store, err := sessionstore.Open(ctx, cfg.Storage, cfg.Session.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("app.New open session store: %w", err)
	}

	identityHTTP := middleware.Client(s.transport,
		middleware.RequestID(),
		middleware.UserAgent(cfg.API.UserAgent),
		middleware.Logger(logger),
	)
	identityHTTP.Timeout = cfg.API.Timeout
	identity := authapi.New(cfg.API.BaseURL, identityHTTP, logger)

	sess := session.NewService(logger, identity, store, s.clock, cfg.Session)
	prompt := newLoginPrompt(logger)

	api := middleware.Client(s.transport,
		middleware.RequestID(),
		middleware.UserAgent(cfg.API.UserAgent),
		middleware.Auth(sess, prompt),
		middleware.RateLimit(cfg.API.RateLimit, cfg.API.RateBurst),
		middleware.Logger(logger),
	)
	api.Timeout = cfg.API.Timeout

	eventStore := events.NewStore(logger, s.clock, cfg.Events)
	var ingestOpts []events.IngestorOption
	if s.notify != nil {
		ingestOpts = append(ingestOpts, events.WithNotify(s.notify))
	}
	ingestor := events.NewIngestor(logger, eventStore, s.clock, ingestOpts...)

	a := &App{
		Session:  sess,
		Events:   eventStore,
		Ingestor: ingestor,
		API:      api,
		log:      logger,
		store:    store,
		prompt:   prompt,
	}
	if cfg.Channel.Enabled() {
		a.Channel = channel.New(logger, cfg.Channel, sess, ingestor.Handle,
			channel.WithHTTPClient(&http.Client{Transport: s.transport}))
	}

	logger.DebugContext(ctx, "client initialized",
		slog.String("version", BuildVersion()),
		slog.String("storage", cfg.Storage.Driver),
		slog.Bool("channel", cfg.Channel.Enabled()))
	return a, nil
}

// Login signs the operator in and, on success, re-arms LoginRequired.
func (a *App) Login(ctx context.Context, username, password string) error {
	if err := a.Session.Login(ctx, username, password); err != nil {
		return err
	}
	a.prompt.rearm()
	return nil
}

// LoginRequired is closed once a silent refresh has failed and the operator
// has to sign in again. A successful Login replaces it with a fresh channel,
// so read it again after signing in.
func (a *App) LoginRequired() <-chan struct{} { return a.prompt.wait() }

// Watch restores the session, then streams push channel events into the
// event store until ctx is done or the session ends.
func (a *App) Watch(ctx context.Context) error {
	if a.Channel == nil {
		return fmt.Errorf("app.Watch: %w", ErrChannelDisabled)
	}

	a.Session.CheckSession(ctx)
	if _, ok := a.Session.User(); !ok {
		return fmt.Errorf("app.Watch: %w", domain.ErrNoSession)
	}

	expired := a.prompt.wait()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.Channel.Run(ctx)
	})
	g.Go(func() error {
		select {
		case <-ctx.Done():
			return nil
		case <-expired:
			return fmt.Errorf("app.Watch: %w", domain.ErrSessionExpired)
		}
	})
	return g.Wait()
}

// Close releases the session store.
func (a *App) Close() error {
	if err := a.store.Close(); err != nil {
		return fmt.Errorf("app.Close: %w", err)
	}
	return nil
}

// loginPrompt turns a failed silent refresh into a sign-in notice that fires
// once per login.
type loginPrompt struct {
	log *slog.Logger

	mu    sync.Mutex
	done  chan struct{}
	fired bool
}

func newLoginPrompt(logger *slog.Logger) *loginPrompt {
	return &loginPrompt{log: logger, done: make(chan struct{})}
}

func (p *loginPrompt) RedirectToLogin(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fired {
		return
	}
	p.fired = true
	p.log.WarnContext(ctx, "session expired, sign in again")
	close(p.done)
}

func (p *loginPrompt) wait() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

func (p *loginPrompt) rearm() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fired {
		p.done = make(chan struct{})
		p.fired = false
	}
}
