package restrec

import (
	"context"
	"fmt"
)

// Query accumulates filter clauses for one type and defers all network I/O
// to its terminal methods. Clauses serialize to a JSON array carried in the
// connection's "query" parameter: a bare string for a scope, [name, args...]
// for a scope with arguments, and {field: value} objects for filters.
//
// A query bound to a record instance (NewQuery) addresses writes by that
// record's key and uses its connection override.
type Query struct {
	typ     *Type
	rec     *Record
	clauses []any
	err     error
}

// NewQuery starts a query bound to this record instance.
func (r *Record) NewQuery() *Query {
	q := r.typ.Query()
	q.rec = r
	return q
}

// Where appends a {field: value} filter clause.
func (q *Query) Where(field string, value any) *Query {
	if q.err != nil {
		return q
	}
	q.clauses = append(q.clauses, map[string]any{field: value})
	return q
}

// Scope appends the named scope to the clause list and applies its
// registered builder mutation. An unknown name poisons the query; the error
// surfaces at the next terminal call.
func (q *Query) Scope(name string, args ...any) *Query {
	if q.err != nil {
		return q
	}
	fn, ok := q.typ.scope(name)
	if !ok {
		q.err = fmt.Errorf("restrec: unknown scope %q on type %q", name, q.typ.name)
		return q
	}
	if len(args) == 0 {
		q.clauses = append(q.clauses, name)
	} else {
		q.clauses = append(q.clauses, append([]any{name}, args...))
	}
	return fn(q, args...)
}

// Clauses returns a copy of the accumulated clause list.
func (q *Query) Clauses() []any {
	out := make([]any, len(q.clauses))
	copy(out, q.clauses)
	return out
}

// Err returns the first error recorded while building the query.
func (q *Query) Err() error { return q.err }

// wireSpec returns the clause list for the connection, or nil when no
// clauses were added so reads address the whole collection.
func (q *Query) wireSpec() any {
	if len(q.clauses) == 0 {
		return nil
	}
	return q.clauses
}

func (q *Query) connection() (Conn, error) {
	if q.rec != nil {
		return q.rec.connection()
	}
	return q.typ.connection()
}

// Get runs the read and hydrates the resulting rows.
func (q *Query) Get(ctx context.Context) ([]*Record, error) {
	if q.err != nil {
		return nil, q.err
	}
	c, err := q.connection()
	if err != nil {
		return nil, err
	}
	var rows []map[string]any
	if err := c.Read(ctx, q.wireSpec(), &rows); err != nil {
		return nil, err
	}
	records := make([]*Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, q.typ.HydrateOne(Values(row)))
	}
	return records, nil
}

// Find fetches one record by key. Accumulated clauses do not apply; the key
// alone addresses the read.
func (q *Query) Find(ctx context.Context, id any) (*Record, error) {
	if q.err != nil {
		return nil, q.err
	}
	c, err := q.connection()
	if err != nil {
		return nil, err
	}
	var row map[string]any
	if err := c.Read(ctx, id, &row); err != nil {
		return nil, err
	}
	return q.typ.HydrateOne(Values(row)), nil
}

// Insert creates a record from attrs and returns the server response
// verbatim. No hydration happens here; Record.Save merges the response
// itself.
func (q *Query) Insert(ctx context.Context, attrs Values) (Values, error) {
	if q.err != nil {
		return nil, q.err
	}
	c, err := q.connection()
	if err != nil {
		return nil, err
	}
	resp, err := c.Create(ctx, encodeValues(attrs))
	if err != nil {
		return nil, err
	}
	return Values(resp), nil
}

// Update writes attrs addressed by the bound record's key, or by the
// accumulated clause spec for bulk updates. The server response is returned
// verbatim.
func (q *Query) Update(ctx context.Context, attrs Values) (Values, error) {
	if q.err != nil {
		return nil, q.err
	}
	c, err := q.connection()
	if err != nil {
		return nil, err
	}
	target := q.wireSpec()
	if q.rec != nil {
		target = q.rec.Key()
	}
	resp, err := c.Update(ctx, target, encodeValues(attrs))
	if err != nil {
		return nil, err
	}
	return Values(resp), nil
}

// Delete removes the bound record by key, or the records matching the
// accumulated clause spec.
func (q *Query) Delete(ctx context.Context) (bool, error) {
	if q.err != nil {
		return false, q.err
	}
	c, err := q.connection()
	if err != nil {
		return false, err
	}
	target := q.wireSpec()
	if q.rec != nil {
		target = q.rec.Key()
	}
	return c.Delete(ctx, target)
}
