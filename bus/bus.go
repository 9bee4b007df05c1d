// Package bus bridges record lifecycle events onto a message bus. Attach
// registers hooks on a type that publish an envelope for every lifecycle
// event, so other processes can follow writes as they happen.
package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ledgelabs/restrec"
)

// Publisher is the interface for emitting lifecycle envelopes.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// WildcardAll matches every lifecycle event on every type.
const WildcardAll = "restrec.>"

// Topic returns the subject for one type and lifecycle event, e.g.
// "restrec.person.created".
func Topic(typeName string, e restrec.Event) string {
	return fmt.Sprintf("restrec.%s.%s", typeName, e)
}

// Wildcard returns a subject filter matching every event for one type.
func Wildcard(typeName string) string {
	return fmt.Sprintf("restrec.%s.>", typeName)
}

// Envelope is the published form of a lifecycle event. The record marshals
// in wire shape, with date fields as epoch milliseconds.
type Envelope struct {
	Type   string          `json:"type"`
	Event  string          `json:"event"`
	Key    any             `json:"key,omitempty"`
	Record *restrec.Record `json:"record"`
}

// Message is a decoded envelope as received from the bus.
type Message struct {
	Type   string         `json:"type"`
	Event  string         `json:"event"`
	Key    any            `json:"key"`
	Record map[string]any `json:"record"`
}

// Decode parses a raw envelope payload.
func Decode(data []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding envelope: %w", err)
	}
	return &m, nil
}

// Attach registers a publishing hook on typ for every lifecycle event.
// Publishing is best-effort: failures are logged and never interrupt the
// record operation, and no attached hook vetoes. A nil logger falls back to
// slog.Default().
func Attach(typ *restrec.Type, pub Publisher, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, e := range restrec.Events() {
		topic := Topic(typ.Name(), e)
		typ.On(e, func(ctx context.Context, r *restrec.Record) bool {
			env := Envelope{
				Type:   typ.Name(),
				Event:  e.String(),
				Key:    r.Key(),
				Record: r,
			}
			if err := pub.Publish(ctx, topic, env); err != nil {
				logger.Warn("failed to publish lifecycle event", "topic", topic, "error", err)
			}
			return true
		})
	}
}
