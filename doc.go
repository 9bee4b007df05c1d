// Package restrec maps REST resources onto active-record style values.
//
// A Type describes one resource collection (its key attribute, date fields,
// relations, and named scopes); a Record carries one resource's attributes
// with dirty tracking and lifecycle events; a Query accumulates filter
// clauses and runs deferred reads and writes through a Conn such as
// *rest.Connection.
//
//	people := restrec.MustDefine(restrec.Definition{
//		Name:  "person",
//		Dates: []string{"createdAt"},
//	}).Bind(conn)
//
//	p := people.New(restrec.Values{"name": "Cat"})
//	if err := p.Save(ctx); err != nil {
//		// ...
//	}
//
// Records keep a snapshot of their last-known server state, so updates send
// only changed attributes. Declared date fields are cast to time.Time on the
// way in and serialized as epoch milliseconds on the way out.
package restrec
