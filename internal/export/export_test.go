package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ledgelabs/restrec"
)

// listConn serves a canned collection read.
type listConn struct {
	rows []map[string]any
	err  error
}

func (c *listConn) Read(ctx context.Context, idOrQuery any, result any) error {
	if c.err != nil {
		return c.err
	}
	if out, ok := result.(*[]map[string]any); ok {
		*out = c.rows
	}
	return nil
}

func (c *listConn) Create(ctx context.Context, attrs map[string]any) (map[string]any, error) {
	return nil, errors.New("not implemented")
}

func (c *listConn) Update(ctx context.Context, idOrQuery any, attrs map[string]any) (map[string]any, error) {
	return nil, errors.New("not implemented")
}

func (c *listConn) Delete(ctx context.Context, idOrQuery any) (bool, error) {
	return false, errors.New("not implemented")
}

func personType(c restrec.Conn) *restrec.Type {
	reg := restrec.NewRegistry()
	return reg.MustDefine(restrec.Definition{
		Name:  "person",
		Dates: []string{"born_at"},
	}).Bind(c)
}

func nonEmptyLines(s string) []string {
	var result []string
	for _, l := range strings.Split(s, "\n") {
		if strings.TrimSpace(l) != "" {
			result = append(result, l)
		}
	}
	return result
}

func TestJSONL_Empty(t *testing.T) {
	typ := personType(&listConn{})
	var buf bytes.Buffer
	if err := JSONL(context.Background(), typ, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := nonEmptyLines(buf.String())
	if len(lines) != 1 {
		t.Fatalf("expected 1 line (header only), got %d", len(lines))
	}

	var h header
	if err := json.Unmarshal([]byte(lines[0]), &h); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	if h.Version != "1" || h.Type != "header" || h.Resource != "person" || h.Count != 0 {
		t.Fatalf("unexpected header: %+v", h)
	}
}

func TestJSONL_WithRecords(t *testing.T) {
	typ := personType(&listConn{rows: []map[string]any{
		{"id": float64(1), "name": "Cat", "born_at": "2020-05-01T00:00:00Z"},
		{"id": float64(2), "name": "Dog"},
	}})

	var buf bytes.Buffer
	if err := JSONL(context.Background(), typ, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := nonEmptyLines(buf.String())
	// 1 header + 2 records = 3 lines
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d:\n%s", len(lines), buf.String())
	}

	var h header
	if err := json.Unmarshal([]byte(lines[0]), &h); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	if h.Count != 2 {
		t.Fatalf("header count = %d, want 2", h.Count)
	}

	var rec struct {
		Type string         `json:"type"`
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal([]byte(lines[1]), &rec); err != nil {
		t.Fatalf("unmarshal line 1: %v", err)
	}
	if rec.Type != "record" {
		t.Fatalf("line type = %q, want record", rec.Type)
	}
	if rec.Data["name"] != "Cat" {
		t.Errorf("data name = %v, want Cat", rec.Data["name"])
	}
	// Date fields serialize as epoch milliseconds.
	if rec.Data["born_at"] != float64(1588291200000) {
		t.Errorf("data born_at = %v, want 1588291200000", rec.Data["born_at"])
	}
}

func TestJSONL_ListError(t *testing.T) {
	cause := errors.New("boom")
	typ := personType(&listConn{err: cause})

	var buf bytes.Buffer
	err := JSONL(context.Background(), typ, &buf)
	if !errors.Is(err, cause) {
		t.Fatalf("error = %v, want the wrapped list error", err)
	}
	if !strings.Contains(err.Error(), "list person") {
		t.Errorf("error = %q, want the resource name", err)
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %d bytes, want none on error", buf.Len())
	}
}
