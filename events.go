package restrec

import (
	"context"
	"slices"
)

// Event names a lifecycle moment in a record's persistence flow.
type Event string

const (
	EventCreating Event = "creating"
	EventCreated  Event = "created"
	EventUpdating Event = "updating"
	EventUpdated  Event = "updated"
	EventSaving   Event = "saving"
	EventSaved    Event = "saved"
	EventDeleting Event = "deleting"
	EventDeleted  Event = "deleted"
)

var allEvents = []Event{
	EventCreating, EventCreated,
	EventUpdating, EventUpdated,
	EventSaving, EventSaved,
	EventDeleting, EventDeleted,
}

// Events returns every lifecycle event.
func Events() []Event {
	return slices.Clone(allEvents)
}

func (e Event) String() string { return string(e) }

// Vetoable reports whether a handler returning false cancels the operation.
// Only creating is a veto point; return values are ignored everywhere else.
func (e Event) Vetoable() bool { return e == EventCreating }

// IsValid returns true if the event is a known lifecycle event.
func (e Event) IsValid() bool {
	switch e {
	case EventCreating, EventCreated, EventUpdating, EventUpdated,
		EventSaving, EventSaved, EventDeleting, EventDeleted:
		return true
	}
	return false
}

// Hook observes a lifecycle event on a record. Returning false vetoes the
// operation when the event is vetoable.
type Hook func(ctx context.Context, r *Record) bool

// On registers h for e. Handlers run in registration order.
func (t *Type) On(e Event, h Hook) {
	t.boot()
	t.mu.Lock()
	t.events[e] = append(t.events[e], h)
	t.mu.Unlock()
}

// Creating registers h to run before a record is first persisted. A handler
// returning false vetoes the create.
func (t *Type) Creating(h Hook) { t.On(EventCreating, h) }

// Created registers h to run after a record is first persisted.
func (t *Type) Created(h Hook) { t.On(EventCreated, h) }

// Updating registers h to run before an existing record is written.
func (t *Type) Updating(h Hook) { t.On(EventUpdating, h) }

// Updated registers h to run after an existing record is written.
func (t *Type) Updated(h Hook) { t.On(EventUpdated, h) }

// Saving registers h to run before any write, create or update.
func (t *Type) Saving(h Hook) { t.On(EventSaving, h) }

// Saved registers h to run after any write, create or update.
func (t *Type) Saved(h Hook) { t.On(EventSaved, h) }

// Deleting registers h to run before a record is deleted.
func (t *Type) Deleting(h Hook) { t.On(EventDeleting, h) }

// Deleted registers h to run after a record is deleted.
func (t *Type) Deleted(h Hook) { t.On(EventDeleted, h) }

// fire dispatches e to registered handlers in order. The handler slice is
// copied first so registrations never mutate an in-flight dispatch. The
// return value is false only when a vetoable event was vetoed.
func (t *Type) fire(ctx context.Context, e Event, r *Record) bool {
	t.boot()
	t.mu.RLock()
	hooks := slices.Clone(t.events[e])
	t.mu.RUnlock()
	for _, h := range hooks {
		if proceed := h(ctx, r); !proceed && e.Vetoable() {
			return false
		}
	}
	return true
}
