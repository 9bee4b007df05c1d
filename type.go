package restrec

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/ledgelabs/restrec/timestamp"
)

// Definition describes a record type.
type Definition struct {
	// Name identifies the type in its registry and in relation targets.
	Name string

	// Key names the primary identifier attribute. Defaults to "id".
	Key string

	// Dates lists attributes cast to time.Time on the way in and encoded as
	// epoch milliseconds on the way out.
	Dates []string

	// Relations maps a relation name to the target type name.
	Relations map[string]string

	// Scopes maps a scope name to the builder mutation it applies.
	Scopes map[string]ScopeFunc
}

// ScopeFunc mutates a query when its named scope is invoked.
type ScopeFunc func(q *Query, args ...any) *Query

// Type is the runtime descriptor for one record type. Its tables are
// materialized once by boot on first use: construction, hydration, query
// creation, or handler registration.
type Type struct {
	name     string
	key      string
	def      Definition
	registry *Registry

	bootOnce  sync.Once
	bootCount atomic.Int32
	dates     map[string]struct{}
	relations map[string]string

	mu     sync.RWMutex
	conn   Conn
	events map[Event][]Hook
	scopes map[string]ScopeFunc
}

func newType(def Definition, reg *Registry) *Type {
	key := def.Key
	if key == "" {
		key = "id"
	}
	return &Type{name: def.Name, key: key, def: def, registry: reg}
}

// boot materializes the date set, relation table, scope dispatch table, and
// the per-event handler lists. It runs exactly once per type, no matter how
// many goroutines race to trigger it.
func (t *Type) boot() {
	t.bootOnce.Do(func() {
		t.bootCount.Add(1)

		t.dates = make(map[string]struct{}, len(t.def.Dates))
		for _, name := range t.def.Dates {
			t.dates[name] = struct{}{}
		}
		t.relations = make(map[string]string, len(t.def.Relations))
		for name, target := range t.def.Relations {
			t.relations[name] = target
		}

		t.mu.Lock()
		t.events = make(map[Event][]Hook, len(allEvents))
		for _, e := range allEvents {
			t.events[e] = []Hook{}
		}
		t.scopes = make(map[string]ScopeFunc, len(t.def.Scopes))
		for name, fn := range t.def.Scopes {
			t.scopes[name] = fn
		}
		t.mu.Unlock()
	})
}

// Name returns the type name.
func (t *Type) Name() string { return t.name }

// Bind sets the connection used by records and queries of this type. It
// returns the type for chained setup.
func (t *Type) Bind(c Conn) *Type {
	t.mu.Lock()
	t.conn = c
	t.mu.Unlock()
	return t
}

func (t *Type) connection() (Conn, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.conn == nil {
		return nil, ErrNoConnection
	}
	return t.conn, nil
}

// cast converts v for the named attribute: declared date fields become
// time.Time when the value parses, everything else passes through untouched.
func (t *Type) cast(name string, v any) any {
	if v == nil {
		return nil
	}
	if _, isDate := t.dates[name]; !isDate {
		return v
	}
	if ts, ok := timestamp.Cast(v); ok {
		return ts
	}
	return v
}

func (t *Type) scope(name string) (ScopeFunc, bool) {
	t.boot()
	t.mu.RLock()
	defer t.mu.RUnlock()
	fn, ok := t.scopes[name]
	return fn, ok
}

func (t *Type) relationTarget(name string) (string, bool) {
	t.boot()
	target, ok := t.relations[name]
	return target, ok
}

// New constructs an unsaved record. Declared date fields are cast
// immediately and a pristine snapshot is captured for dirty tracking.
func (t *Type) New(attrs Values) *Record {
	t.boot()
	r := &Record{typ: t, attrs: Values{}, relations: map[string]any{}}
	r.Fill(attrs)
	r.syncOriginal()
	return r
}

// Hydrate builds records from server rows. Hydrated records exist, carry
// cast date fields, and start with an empty dirty set.
func (t *Type) Hydrate(rows []Values) []*Record {
	records := make([]*Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, t.HydrateOne(row))
	}
	return records
}

// HydrateOne builds a single existing record from a server row.
func (t *Type) HydrateOne(attrs Values) *Record {
	r := t.New(attrs)
	r.exists = true
	return r
}

// Query starts a deferred query bound to this type.
func (t *Type) Query() *Query {
	t.boot()
	return &Query{typ: t}
}

// Where starts a query with one filter clause.
func (t *Type) Where(field string, value any) *Query {
	return t.Query().Where(field, value)
}

// Scope starts a query with a named scope applied.
func (t *Type) Scope(name string, args ...any) *Query {
	return t.Query().Scope(name, args...)
}

// All fetches every record in the collection.
func (t *Type) All(ctx context.Context) ([]*Record, error) {
	return t.Query().Get(ctx)
}

// Find fetches a single record by key.
func (t *Type) Find(ctx context.Context, id any) (*Record, error) {
	return t.Query().Find(ctx, id)
}

// Create constructs a record from attrs and saves it.
func (t *Type) Create(ctx context.Context, attrs Values) (*Record, error) {
	r := t.New(attrs)
	if err := r.Save(ctx); err != nil {
		return nil, err
	}
	return r, nil
}
