package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ledgelabs/restrec"
	"github.com/ledgelabs/restrec/internal/ui"
)

func printRecordJSON(r *restrec.Record) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

// printRecordJSONWithRelations grafts loaded relations onto the record's wire
// shape under their relation names, matching the server's nested layout.
func printRecordJSONWithRelations(r *restrec.Record, names []string) {
	data, err := json.Marshal(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	for _, name := range names {
		if rel, ok := r.Relation(name); ok {
			obj[name] = rel
		}
	}
	out, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(out))
}

func printRecordListJSON(records []*restrec.Record) {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

// printRecordTable prints one attribute per line, key field first. Labels are
// padded before coloring so escape codes do not skew the alignment.
func printRecordTable(r *restrec.Record) {
	names := collectColumns([]*restrec.Record{r})
	width := 0
	for _, n := range names {
		if len(n) > width {
			width = len(n)
		}
	}
	for _, n := range names {
		label := fmt.Sprintf("%-*s", width+1, n+":")
		fmt.Printf("%s %s\n", ui.RenderAccent(label), formatValue(r.Get(n)))
	}
}

func printRecordListTable(records []*restrec.Record) {
	if len(records) == 0 {
		fmt.Println("no records")
		return
	}
	cols := collectColumns(records)
	limit := cellLimit(len(cols))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = strings.ToUpper(c)
	}
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, r := range records {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = truncate(formatValue(r.Get(c)), limit)
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	w.Flush()
	fmt.Printf("\n%d records\n", len(records))
}

// recordLine renders a record as a single "key field=value ..." line capped
// to the terminal width.
func recordLine(r *restrec.Record) string {
	var sb strings.Builder
	sb.WriteString(formatValue(r.Key()))
	limit := ui.Width(100)
	for _, name := range collectColumns([]*restrec.Record{r}) {
		if name == keyField {
			continue
		}
		part := " " + name + "=" + formatValue(r.Get(name))
		if sb.Len()+len(part) > limit {
			sb.WriteString(" ...")
			break
		}
		sb.WriteString(part)
	}
	return sb.String()
}

// collectColumns returns the union of attribute names across records, sorted,
// with the key field first.
func collectColumns(records []*restrec.Record) []string {
	set := map[string]bool{}
	for _, r := range records {
		for name := range r.Attributes() {
			set[name] = true
		}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, n := range names {
		if n == keyField {
			copy(names[1:i+1], names[:i])
			names[0] = n
			break
		}
	}
	return names
}

// cellLimit spreads the terminal width across columns, clamped to keep cells
// readable.
func cellLimit(cols int) int {
	if cols == 0 {
		return 40
	}
	limit := ui.Width(120)/cols - 2
	if limit < 12 {
		limit = 12
	}
	if limit > 60 {
		limit = 60
	}
	return limit
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

// formatValue renders an attribute value for table output. Dates use a fixed
// layout, numbers drop the float exponent, and nested structures collapse to
// compact JSON.
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case time.Time:
		return t.Format("2006-01-02 15:04:05")
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02 15:04:05")
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case string:
		return t
	case map[string]any, []any:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(data)
	default:
		return fmt.Sprint(t)
	}
}
