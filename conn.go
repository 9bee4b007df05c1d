package restrec

import "context"

// Conn is the transport a type persists through. *rest.Connection implements
// it over HTTP/JSON; tests substitute in-memory fakes.
//
// idOrQuery follows one addressing rule everywhere: nil or an empty string
// addresses the whole collection, a scalar addresses a single record by key,
// and any other value is a structured query specification.
type Conn interface {
	// Read fetches the collection, one record, or a filtered collection and
	// decodes the response into result.
	Read(ctx context.Context, idOrQuery any, result any) error

	// Create persists a new record and returns the server's canonical
	// attribute map.
	Create(ctx context.Context, attrs map[string]any) (map[string]any, error)

	// Update writes attrs addressed by id or query and returns the server's
	// response object.
	Update(ctx context.Context, idOrQuery any, attrs map[string]any) (map[string]any, error)

	// Delete removes the addressed records, reporting true on success.
	Delete(ctx context.Context, idOrQuery any) (bool, error)
}
