// Package export writes record snapshots as JSONL, to a local writer or an
// S3-compatible bucket.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/ledgelabs/restrec"
)

// header is the first JSONL line written by JSONL.
type header struct {
	Version   string    `json:"version"`
	Type      string    `json:"type"`
	Resource  string    `json:"resource"`
	Timestamp time.Time `json:"timestamp"`
	Count     int       `json:"count"`
}

// line wraps a single JSONL record with a type discriminator.
type line struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// JSONL fetches every record of typ and writes the snapshot to w: a header
// line first, then one "record" line per record, in server order. Records
// serialize in wire shape, with date fields as epoch milliseconds.
func JSONL(ctx context.Context, typ *restrec.Type, w io.Writer) error {
	records, err := typ.All(ctx)
	if err != nil {
		return fmt.Errorf("list %s: %w", typ.Name(), err)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:   "1",
		Type:      "header",
		Resource:  typ.Name(),
		Timestamp: time.Now().UTC(),
		Count:     len(records),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, r := range records {
		if err := enc.Encode(line{Type: "record", Data: r}); err != nil {
			return fmt.Errorf("encode record %v: %w", r.Key(), err)
		}
	}

	return nil
}
