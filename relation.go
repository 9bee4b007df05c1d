package restrec

import (
	"context"
	"fmt"
)

// Load eagerly fetches the named relations and attaches the hydrated data
// under each name. Every name is resolved against the type's relation table
// and the registry before any network call, so an unknown relation or an
// undefined target type fails fast with nothing attached.
//
// For each relation, Load re-reads this record by key and picks the
// relation's data out of the embedded response: an array hydrates to
// []*Record of the target type, an object to a single *Record. A response
// without the relation key leaves that relation unset. Attributes are never
// touched, so edits made while a load is in flight survive.
//
// Load returns the receiver for chaining.
func (r *Record) Load(ctx context.Context, names ...string) (*Record, error) {
	c, err := r.connection()
	if err != nil {
		return nil, err
	}

	targets := make([]*Type, len(names))
	for i, name := range names {
		targetName, ok := r.typ.relationTarget(name)
		if !ok {
			return nil, &UnknownRelationError{Type: r.typ.name, Relation: name}
		}
		target, err := r.typ.registry.Resolve(targetName)
		if err != nil {
			return nil, err
		}
		targets[i] = target
	}

	for i, name := range names {
		var row map[string]any
		if err := c.Read(ctx, r.Key(), &row); err != nil {
			return nil, fmt.Errorf("loading relation %q: %w", name, err)
		}
		raw, ok := row[name]
		if !ok || raw == nil {
			continue
		}
		switch data := raw.(type) {
		case []any:
			related := make([]*Record, 0, len(data))
			for _, item := range data {
				attrs, ok := item.(map[string]any)
				if !ok {
					continue
				}
				related = append(related, targets[i].HydrateOne(Values(attrs)))
			}
			r.relations[name] = related
		case map[string]any:
			r.relations[name] = targets[i].HydrateOne(Values(data))
		}
	}
	return r, nil
}
