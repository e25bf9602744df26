// Package events publishes issuance events to a message broker.
package events

import (
	"context"
	"sync"

	"github.com/vesselflow/ppe-engine/ppe"
)

// TypeIssued is the event type published after a record is stored.
const TypeIssued = "ppe.issued"

// DefaultTopic is the topic issuance events go to.
const DefaultTopic = "ppe.issued"

// Issued is the payload of a TypeIssued event.
type Issued struct {
	Type   string     `json:"type"`
	Record ppe.Record `json:"record"`
}

// NewIssued wraps r in an event.
func NewIssued(r ppe.Record) Issued {
	return Issued{Type: TypeIssued, Record: r}
}

// Publisher publishes events to a topic.
type Publisher interface {
	PublishEvent(ctx context.Context, topic string, key string, event any) error
	Close() error
}

// Noop drops every event. Used when no broker is configured.
type Noop struct{}

func (Noop) PublishEvent(context.Context, string, string, any) error { return nil }
func (Noop) Close() error { return nil }

// Recorder keeps published events in memory (tests).
type Recorder struct {
	mu     sync.Mutex
	events []Published
	err    error
}

// Published is one event seen by a Recorder.
type Published struct {
	Topic string
	Key   string
	Event any
}

// FailWith makes later publishes return err.
func (r *Recorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *Recorder) PublishEvent(_ context.Context, topic string, key string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, Published{Topic: topic, Key: key, Event: event})
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of what was published.
func (r *Recorder) Events() []Published {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Published(nil), r.events...)
}
