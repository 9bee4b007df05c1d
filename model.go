package restrec

import (
	"context"
	"encoding/json"
)

// Record is one resource instance: an attribute map with dirty tracking, a
// persistence state, and loaded relation data. Records are not safe for
// concurrent mutation; share them the way you would share any map.
type Record struct {
	typ       *Type
	attrs     Values
	original  Values
	relations map[string]any
	exists    bool
	deleted   bool
	conn      Conn
}

// Type returns the record's type descriptor.
func (r *Record) Type() *Type { return r.typ }

// WithConn overrides the connection for this record only, leaving the type
// binding untouched. Useful for tests and per-request routing.
func (r *Record) WithConn(c Conn) *Record {
	r.conn = c
	return r
}

func (r *Record) connection() (Conn, error) {
	if r.conn != nil {
		return r.conn, nil
	}
	return r.typ.connection()
}

// Get returns the named attribute, or nil when absent.
func (r *Record) Get(name string) any { return r.attrs[name] }

// Set writes one attribute, casting declared date fields. Only the live
// attributes change; the pristine snapshot is untouched, so the field shows
// up as dirty until the next successful save.
func (r *Record) Set(name string, value any) *Record {
	r.attrs[name] = r.typ.cast(name, value)
	return r
}

// Fill merges attrs into the record via Set.
func (r *Record) Fill(attrs Values) *Record {
	for k, v := range attrs {
		r.Set(k, v)
	}
	return r
}

// Attributes returns a point-in-time copy of the record's attributes.
// Relation data lives separately and is never included. Mutating the
// returned map does not affect the record.
func (r *Record) Attributes() Values {
	return cloneValues(r.attrs)
}

// Dirty returns the attributes that differ from the pristine snapshot taken
// at construction, hydration, or the last successful save.
func (r *Record) Dirty() Values {
	d := Values{}
	for k, v := range r.attrs {
		if ov, ok := r.original[k]; !ok || !valueEqual(v, ov) {
			d[k] = v
		}
	}
	return d
}

// Key returns the record's primary identifier attribute.
func (r *Record) Key() any { return r.attrs[r.typ.key] }

// Exists reports whether the record is known to be persisted.
func (r *Record) Exists() bool { return r.exists }

// Relation returns previously loaded relation data: a []*Record for
// collection relations or a *Record for single ones.
func (r *Record) Relation(name string) (any, bool) {
	v, ok := r.relations[name]
	return v, ok
}

// Save persists the record. New records fire creating (any handler
// returning false vetoes the save before any network call), then saving,
// then insert the full attribute set. Existing records fire updating and
// saving, then write only the dirty attributes addressed by key. Either way
// the server response is merged back, the pristine snapshot is reset, and
// the trailing events fire.
func (r *Record) Save(ctx context.Context) error {
	if !r.exists {
		if !r.typ.fire(ctx, EventCreating, r) {
			return &CancelledError{Type: r.typ.name, Event: EventCreating}
		}
		r.typ.fire(ctx, EventSaving, r)
		resp, err := r.NewQuery().Insert(ctx, r.attrs)
		if err != nil {
			return err
		}
		r.merge(resp)
		r.exists = true
		r.deleted = false
		r.syncOriginal()
		r.typ.fire(ctx, EventCreated, r)
		r.typ.fire(ctx, EventSaved, r)
		return nil
	}

	r.typ.fire(ctx, EventUpdating, r)
	r.typ.fire(ctx, EventSaving, r)
	resp, err := r.NewQuery().Update(ctx, r.Dirty())
	if err != nil {
		return err
	}
	r.merge(resp)
	r.syncOriginal()
	r.typ.fire(ctx, EventUpdated, r)
	r.typ.fire(ctx, EventSaved, r)
	return nil
}

// Update fills attrs into the record and saves it.
func (r *Record) Update(ctx context.Context, attrs Values) error {
	r.Fill(attrs)
	return r.Save(ctx)
}

// Delete removes the record, addressed by key. On success the record
// reverts to the unsaved state, so a later Save re-creates it.
func (r *Record) Delete(ctx context.Context) (bool, error) {
	r.typ.fire(ctx, EventDeleting, r)
	ok, err := r.NewQuery().Delete(ctx)
	if err != nil {
		return false, err
	}
	if ok {
		r.exists = false
		r.deleted = true
		r.typ.fire(ctx, EventDeleted, r)
	}
	return ok, nil
}

// merge applies a server response over the current attributes, casting
// declared date fields.
func (r *Record) merge(resp Values) {
	for k, v := range resp {
		r.attrs[k] = r.typ.cast(k, v)
	}
}

// syncOriginal resets the pristine snapshot to the current attributes.
func (r *Record) syncOriginal() {
	r.original = cloneValues(r.attrs)
}

// MarshalJSON serializes the record's attributes in wire form, with date
// fields as epoch milliseconds. Relation data is excluded.
func (r *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(encodeValues(r.attrs))
}
