// Package events publishes rating activity to NATS JetStream so other
// consumers (feeds, analytics) can react without coupling to the store.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/example/genrelog/internal/platform/natsconn"
)

const (
	SubjectRatingUpdated = "genrelog.rating.updated"
	SubjectFlagToggled   = "genrelog.flag.toggled"
	streamName           = "GENRELOG"
)

// Event is the envelope sent on every genrelog.* subject.
type Event struct {
	EventID    string    `json:"event_id"`
	UserID     int64     `json:"user_id"`
	GenreID    int       `json:"genre_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher publishes events to NATS JetStream.
// A nil pointer and the zero value are both safe no-op stubs.
type Publisher struct {
	nc  *nats.Conn
	js  nats.JetStreamContext
	log *zap.Logger
}

// New connects to NATS and ensures the GENRELOG stream exists.
// If natsURL is empty, returns a no-op publisher (stub).
func New(natsURL string, log *zap.Logger) (*Publisher, error) {
	if natsURL == "" {
		log.Warn("nats_url not set, rating events will not be published (stub mode)")
		return &Publisher{log: log}, nil
	}

	nc, err := natsconn.Connect(natsconn.Options{URL: natsURL})
	if err != nil {
		return nil, err
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, err
	}

	_, err = js.AddStream(&nats.StreamConfig{
		Name:     streamName,
		Subjects: []string{"genrelog.>"},
		Storage:  nats.FileStorage,
	})
	if err != nil {
		log.Warn("failed to create NATS stream (may already exist)", zap.Error(err))
	}

	log.Info("NATS publisher initialised", zap.String("stream", streamName))
	return &Publisher{nc: nc, js: js, log: log}, nil
}

// Close drains the NATS connection. Safe on a nil receiver or stub.
func (p *Publisher) Close() {
	if p == nil || p.nc == nil {
		return
	}
	if err := p.nc.Drain(); err != nil {
		p.log.Warn("events: drain failed", zap.Error(err))
	}
}

// Publish sends an event asynchronously (fire-and-forget). Failures are
// logged and never surface to the caller: a rating write must not fail
// because the event bus is down. Safe on a nil receiver.
func (p *Publisher) Publish(subject string, userID int64, genreID int) {
	if p == nil || p.js == nil {
		return
	}
	ev := Event{
		EventID:    uuid.NewString(),
		UserID:     userID,
		GenreID:    genreID,
		OccurredAt: time.Now().UTC(),
	}
	data, err := json.Marshal(ev)
	if err != nil {
		p.log.Warn("events: marshal failed", zap.String("subject", subject), zap.Error(err))
		return
	}
	if _, err := p.js.PublishAsync(subject, data); err != nil {
		p.log.Warn("events: publish failed", zap.String("subject", subject), zap.Error(err))
	}
}
