// Package notify publishes build results to NATS.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"git.home.luguber.info/inful/pagebuilder/internal/build"
	ferrors "git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/pagebuilder/internal/logfields"
)

// DefaultSubject is used when no subject is configured.
const DefaultSubject = "pagebuilder.builds"

const defaultTimeout = 5 * time.Second

// Config selects the NATS server and subject.
type Config struct {
	URL     string
	Subject string
	// JetStream publishes through JetStream and waits for the stream ack.
	JetStream bool
	Timeout   time.Duration
}

// Publisher sends one message.
type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// Notifier publishes build events.
type Notifier struct {
	pub     Publisher
	subject string
	timeout time.Duration
	logger  *slog.Logger
	closeFn func()
}

// New creates a Notifier on top of an existing Publisher.
func New(pub Publisher, subject string, logger *slog.Logger) *Notifier {
	if subject == "" {
		subject = DefaultSubject
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{pub: pub, subject: subject, timeout: defaultTimeout, logger: logger}
}

// Connect dials the NATS server in cfg.
func Connect(cfg Config, logger *slog.Logger) (*Notifier, error) {
	if cfg.URL == "" {
		cfg.URL = nats.DefaultURL
	}
	conn, err := nats.Connect(cfg.URL, nats.Name("pagebuilder"))
	if err != nil {
		return nil, ferrors.NotifyError("failed to connect to NATS").WithCause(err).
			WithContext("url", cfg.URL).
			Build()
	}

	var pub Publisher = &corePublisher{conn: conn}
	if cfg.JetStream {
		js, err := jetstream.New(conn)
		if err != nil {
			conn.Close()
			return nil, ferrors.NotifyError("failed to create JetStream context").WithCause(err).Build()
		}
		pub = &streamPublisher{js: js}
	}

	n := New(pub, cfg.Subject, logger)
	if cfg.Timeout > 0 {
		n.timeout = cfg.Timeout
	}
	n.closeFn = conn.Close
	n.logger.Info("NATS notifier connected",
		logfields.URL(cfg.URL), slog.String("subject", n.subject), slog.Bool("jetstream", cfg.JetStream))
	return n, nil
}

// Subject returns the subject events are published on.
func (n *Notifier) Subject() string {
	return n.subject
}

// Notify publishes the event for report.
func (n *Notifier) Notify(ctx context.Context, report *build.Report) error {
	data, err := json.Marshal(EventFromReport(report))
	if err != nil {
		return ferrors.InternalError("failed to marshal build event").WithCause(err).Build()
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	if err := n.pub.Publish(ctx, n.subject, data); err != nil {
		return ferrors.NotifyError("failed to publish build event").WithCause(err).
			WithContext("subject", n.subject).
			WithContext("build_id", report.ID).
			Build()
	}

	n.logger.Debug("Published build event", logfields.BuildID(report.ID), slog.String("subject", n.subject))
	return nil
}

// Close closes the connection opened by Connect.
func (n *Notifier) Close() {
	if n.closeFn != nil {
		n.closeFn()
	}
}

type corePublisher struct {
	conn *nats.Conn
}

func (p *corePublisher) Publish(ctx context.Context, subject string, data []byte) error {
	if err := p.conn.Publish(subject, data); err != nil {
		return err
	}
	return p.conn.FlushWithContext(ctx)
}

type streamPublisher struct {
	js jetstream.JetStream
}

func (p *streamPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	_, err := p.js.Publish(ctx, subject, data)
	return err
}
