package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/clock"
	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/domain"
)

// Envelope types consumed from the push channel.
const (
	MessageEvent       = "event"
	MessageEventUpdate = "event_update"
	MessageEventAck    = "event_ack"
)

// ErrMalformedMessage is returned for frames that are dropped because they
// cannot be decoded into a valid event message.
var ErrMalformedMessage = errors.New("malformed message")

// Envelope is a push channel frame.
type Envelope struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
	MessageID string          `json:"messageId,omitempty"`
}

// eventSink is the part of Store the ingestor writes to.
type eventSink interface {
	AddEvent(e domain.Event) bool
	UpdateEvent(id string, patch domain.EventPatch) bool
	AcknowledgeEvent(id, by string) bool
}

type updatePayload struct {
	ID             string                `json:"id"`
	Priority       *domain.EventPriority `json:"priority"`
	Title          *string               `json:"title"`
	Description    *string               `json:"description"`
	Location       *domain.Location      `json:"location"`
	Metadata       map[string]any        `json:"metadata"`
	Tags           []string              `json:"tags"`
	Acknowledged   *bool                 `json:"acknowledged"`
	AcknowledgedBy *string               `json:"acknowledged_by"`
	AcknowledgedAt *time.Time            `json:"acknowledged_at"`
}

type ackPayload struct {
	ID             string `json:"id"`
	EventID        string `json:"event_id"`
	AcknowledgedBy string `json:"acknowledged_by"`
}

// IngestorOption configures an Ingestor.
type IngestorOption func(*Ingestor)

// WithNotify registers fn to be called with every newly cached event.
func WithNotify(fn func(domain.Event)) IngestorOption {
	return func(i *Ingestor) { i.notify = fn }
}

// Ingestor maps push channel frames onto Store operations.
type Ingestor struct {
	log    *slog.Logger
	sink   eventSink
	clock  clock.Clock
	notify func(domain.Event)
}

// NewIngestor creates an Ingestor writing to sink.
func NewIngestor(logger *slog.Logger, sink eventSink, clk clock.Clock, opts ...IngestorOption) *Ingestor {
	if clk == nil {
		clk = clock.System()
	}
	i := &Ingestor{
		log:   logger.With("service", "ingest"),
		sink:  sink,
		clock: clk,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Handle decodes one frame and applies it. Frames of other types are ignored.
// Undecodable frames are dropped and reported with ErrMalformedMessage; the
// caller is expected to keep reading.
func (i *Ingestor) Handle(ctx context.Context, raw []byte) error {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return i.drop(ctx, "", fmt.Errorf("%w: envelope: %v", ErrMalformedMessage, err))
	}

	switch env.Type {
	case MessageEvent:
		return i.handleEvent(ctx, env)
	case MessageEventUpdate:
		return i.handleUpdate(ctx, env)
	case MessageEventAck:
		return i.handleAck(ctx, env)
	default:
		i.log.DebugContext(ctx, "ignoring message", slog.String("type", env.Type))
		return nil
	}
}

func (i *Ingestor) handleEvent(ctx context.Context, env Envelope) error {
	var e domain.Event
	if err := json.Unmarshal(env.Payload, &e); err != nil {
		return i.drop(ctx, env.Type, fmt.Errorf("%w: payload: %v", ErrMalformedMessage, err))
	}

	if e.ID == "" {
		e.ID = env.MessageID
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = env.Timestamp
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = i.clock.Now()
	}

	if err := e.Validate(); err != nil {
		return i.drop(ctx, env.Type, fmt.Errorf("%w: %w", ErrMalformedMessage, err))
	}

	if !i.sink.AddEvent(e) {
		i.log.DebugContext(ctx, "duplicate event ignored", slog.String("event_id", e.ID))
		return nil
	}
	i.log.InfoContext(ctx, "event received",
		slog.String("event_id", e.ID),
		slog.String("event_type", e.EventType.String()),
		slog.String("priority", e.Priority.String()))
	if i.notify != nil {
		i.notify(e)
	}
	return nil
}

func (i *Ingestor) handleUpdate(ctx context.Context, env Envelope) error {
	var p updatePayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		return i.drop(ctx, env.Type, fmt.Errorf("%w: payload: %v", ErrMalformedMessage, err))
	}
	if p.ID == "" {
		return i.drop(ctx, env.Type, fmt.Errorf("%w: %w", ErrMalformedMessage, domain.NewValidationError("id", "required")))
	}
	if p.Priority != nil && !p.Priority.IsValid() {
		return i.drop(ctx, env.Type, fmt.Errorf("%w: %w", ErrMalformedMessage, domain.NewValidationError("priority", "unknown value")))
	}

	i.sink.UpdateEvent(p.ID, domain.EventPatch{
		Priority:       p.Priority,
		Title:          p.Title,
		Description:    p.Description,
		Location:       p.Location,
		Metadata:       p.Metadata,
		Tags:           p.Tags,
		Acknowledged:   p.Acknowledged,
		AcknowledgedBy: p.AcknowledgedBy,
		AcknowledgedAt: p.AcknowledgedAt,
	})
	return nil
}

func (i *Ingestor) handleAck(ctx context.Context, env Envelope) error {
	var p ackPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		return i.drop(ctx, env.Type, fmt.Errorf("%w: payload: %v", ErrMalformedMessage, err))
	}
	id := p.ID
	if id == "" {
		id = p.EventID
	}
	if id == "" {
		return i.drop(ctx, env.Type, fmt.Errorf("%w: %w", ErrMalformedMessage, domain.NewValidationError("id", "required")))
	}

	i.sink.AcknowledgeEvent(id, p.AcknowledgedBy)
	return nil
}

func (i *Ingestor) drop(ctx context.Context, msgType string, err error) error {
	i.log.DebugContext(ctx, "dropping message",
		slog.String("type", msgType),
		slog.String("error", err.Error()))
	return err
}
