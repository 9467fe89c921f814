// Package channel keeps a WebSocket connection to the RTCC push channel open
// and hands every frame to a handler.
package channel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/coder/websocket"

	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/config"
	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/domain"
)

// errRejected marks a handshake or connection refused for its credentials.
var errRejected = errors.New("channel rejected credentials")

// tokenSource supplies the bearer token for the handshake.
type tokenSource interface {
	AccessToken() string
	RefreshIfStale(ctx context.Context, failedToken string) (bool, error)
}

// FrameHandler processes one frame. Returned errors are logged and the
// connection keeps reading.
type FrameHandler func(ctx context.Context, raw []byte) error

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the client used for the handshake.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// Client is a reconnecting push channel subscriber.
type Client struct {
	log        *slog.Logger
	cfg        config.ChannelConfig
	tokens     tokenSource
	handle     FrameHandler
	httpClient *http.Client
}

// New creates a push channel client.
func New(logger *slog.Logger, cfg config.ChannelConfig, tokens tokenSource, handle FrameHandler, opts ...Option) *Client {
	c := &Client{
		log:    logger.With("adapter", "channel"),
		cfg:    cfg,
		tokens: tokens,
		handle: handle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run connects and reads frames until ctx is done, reconnecting with
// exponential backoff. A rejected handshake triggers one token refresh; if the
// refresh fails Run returns domain.ErrNoSession. Run returns nil once ctx is done.
func (c *Client) Run(ctx context.Context) error {
	b := c.newBackOff()

	for {
		token := c.tokens.AccessToken()
		connected, err := c.session(ctx, token)
		if ctx.Err() != nil {
			return nil
		}
		if connected {
			b.Reset()
		}

		if errors.Is(err, errRejected) {
			ok, rerr := c.tokens.RefreshIfStale(ctx, token)
			if rerr != nil {
				return nil
			}
			if !ok {
				c.log.WarnContext(ctx, "channel closed, session ended")
				return fmt.Errorf("channel.Run: %w", domain.ErrNoSession)
			}
		}

		wait := b.NextBackOff()
		c.log.WarnContext(ctx, "channel disconnected",
			slog.String("error", err.Error()),
			slog.Duration("retry_in", wait))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

func (c *Client) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if c.cfg.ReconnectMin > 0 {
		b.InitialInterval = c.cfg.ReconnectMin
	}
	if c.cfg.ReconnectMax > 0 {
		b.MaxInterval = c.cfg.ReconnectMax
	}
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// session runs one connection. connected reports whether the handshake
// succeeded before the returned error ended it.
func (c *Client) session(ctx context.Context, token string) (connected bool, err error) {
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	conn, resp, err := websocket.Dial(ctx, c.cfg.URL, &websocket.DialOptions{
		HTTPClient: c.httpClient,
		HTTPHeader: header,
	})
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			return false, fmt.Errorf("channel.Dial: %w", errRejected)
		}
		return false, fmt.Errorf("channel.Dial: %w", err)
	}
	defer conn.CloseNow()

	if c.cfg.ReadLimit > 0 {
		conn.SetReadLimit(c.cfg.ReadLimit)
	}
	c.log.InfoContext(ctx, "channel connected")

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusPolicyViolation {
				return true, fmt.Errorf("channel.Read: %w", errRejected)
			}
			return true, fmt.Errorf("channel.Read: %w", err)
		}
		if err := c.handle(ctx, data); err != nil {
			c.log.DebugContext(ctx, "frame dropped", slog.String("error", err.Error()))
		}
	}
}
