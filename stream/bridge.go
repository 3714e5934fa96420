package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/motamman/signalk-units-preference-sub000/convert"
	"github.com/motamman/signalk-units-preference-sub000/errors"
	"github.com/motamman/signalk-units-preference-sub000/types"
)

// Config holds the NATS bridge settings.
type Config struct {
	// URL is the NATS server address, e.g. nats://localhost:4222.
	URL string `json:"url"`
	// InputSubject carries raw telemetry deltas.
	InputSubject string `json:"inputSubject"`
	// OutputSubject receives converted deltas.
	OutputSubject string `json:"outputSubject"`
	// ClientName identifies this connection on the server.
	ClientName string `json:"clientName,omitempty"`
	// MaxReconnects bounds reconnection attempts; -1 retries forever.
	MaxReconnects int `json:"maxReconnects,omitempty"`
	// ReconnectWait is the delay between reconnection attempts.
	ReconnectWait time.Duration `json:"reconnectWait,omitempty"`
}

// Validate checks the bridge configuration.
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("stream: url is required")
	}
	if c.InputSubject == "" {
		return fmt.Errorf("stream: input subject is required")
	}
	if c.OutputSubject == "" {
		return fmt.Errorf("stream: output subject is required")
	}
	if c.InputSubject == c.OutputSubject {
		return fmt.Errorf("stream: input and output subjects must differ")
	}
	return nil
}

// withDefaults fills unset tuning fields.
func (c Config) withDefaults() Config {
	if c.MaxReconnects == 0 {
		c.MaxReconnects = -1
	}
	if c.ReconnectWait == 0 {
		c.ReconnectWait = 2 * time.Second
	}
	if c.ClientName == "" {
		c.ClientName = "units-preference-bridge"
	}
	return c
}

// Bridge consumes raw deltas from NATS and republishes converted ones.
type Bridge struct {
	cfg    Config
	engine *convert.Engine
	logger *slog.Logger
	sink   func(*types.Delta)

	conn *nats.Conn
	sub  *nats.Subscription
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bridge) { b.logger = l }
}

// WithDeltaSink registers an in-process consumer invoked with every raw
// delta, in subscription order.
func WithDeltaSink(fn func(*types.Delta)) Option {
	return func(b *Bridge) { b.sink = fn }
}

// New creates a bridge over a conversion engine.
func New(cfg Config, engine *convert.Engine, opts ...Option) (*Bridge, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "stream", "New", "validate config")
	}
	b := &Bridge{
		cfg:    cfg.withDefaults(),
		engine: engine,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Start connects and subscribes. Returns once the subscription is active;
// delivery happens on NATS callback goroutines.
func (b *Bridge) Start(ctx context.Context) error {
	conn, err := nats.Connect(b.cfg.URL,
		nats.Name(b.cfg.ClientName),
		nats.MaxReconnects(b.cfg.MaxReconnects),
		nats.ReconnectWait(b.cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			b.logger.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			b.logger.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(*nats.Conn) {
			b.logger.Info("nats connection closed")
		}),
	)
	if err != nil {
		return errors.Wrap(err, "stream", "Start", "connect to nats")
	}
	b.conn = conn

	sub, err := conn.Subscribe(b.cfg.InputSubject, b.handleMessage)
	if err != nil {
		conn.Close()
		return errors.Wrap(err, "stream", "Start", "subscribe "+b.cfg.InputSubject)
	}
	b.sub = sub

	b.logger.Info("stream bridge started",
		"input", b.cfg.InputSubject, "output", b.cfg.OutputSubject)

	context.AfterFunc(ctx, func() { b.Close() })
	return nil
}

// handleMessage converts one raw delta message and republishes it. Malformed
// payloads are logged and skipped; the stream never stops.
func (b *Bridge) handleMessage(msg *nats.Msg) {
	data, ok := b.convertPayload(msg.Data)
	if !ok {
		return
	}
	if err := b.conn.Publish(b.cfg.OutputSubject, data); err != nil {
		b.logger.Warn("converted delta publish failed", "error", err)
	}
}

// convertPayload decodes one raw delta payload, feeds the sink, and returns
// the encoded converted delta.
func (b *Bridge) convertPayload(raw []byte) ([]byte, bool) {
	var delta types.Delta
	if err := json.Unmarshal(raw, &delta); err != nil {
		b.logger.Warn("malformed delta on input subject", "error", err)
		return nil, false
	}

	if b.sink != nil {
		b.sink(&delta)
	}

	converted := b.engine.ConvertDelta(&delta)
	data, err := json.Marshal(converted)
	if err != nil {
		b.logger.Error("converted delta marshal failed", "error", err)
		return nil, false
	}
	return data, true
}

// Close drains the subscription and closes the connection.
func (b *Bridge) Close() {
	if b.sub != nil {
		if err := b.sub.Drain(); err != nil {
			b.logger.Warn("subscription drain failed", "error", err)
		}
		b.sub = nil
	}
	if b.conn != nil {
		b.conn.Close()
		b.conn = nil
	}
}
