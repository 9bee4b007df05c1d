package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"time"

	"github.com/ledgelabs/restrec"
	"github.com/ledgelabs/restrec/bus"
	"github.com/ledgelabs/restrec/internal/ui"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <resource>",
	Short: "Watch a resource for new, changed, and deleted records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")
		once, _ := cmd.Flags().GetBool("once")

		typ, err := bindType(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		seen := make(map[string]string)

		if err := queryAndPrint(ctx, typ, seen); err != nil {
			return err
		}
		if once {
			return nil
		}

		if natsURL := resolvedNATSURL(); natsURL != "" {
			return watchNATS(ctx, natsURL, typ, seen)
		}
		return watchPoll(ctx, interval, typ, seen)
	},
}

// watchNATS re-queries on lifecycle events for the watched type, debounced so
// a burst of events costs one query.
func watchNATS(ctx context.Context, natsURL string, typ *restrec.Type, seen map[string]string) error {
	// reconnectCh receives a signal when the NATS client reconnects after
	// a disconnect, so we can immediately re-query for missed events.
	reconnectCh := make(chan struct{}, 1)

	sub, err := bus.NewNATSSubscriber(natsURL,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("nats: disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Printf("nats: reconnected")
			select {
			case reconnectCh <- struct{}{}:
			default:
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("connecting to NATS: %w", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe(bus.Wildcard(typ.Name()))
	if err != nil {
		return fmt.Errorf("subscribing to events: %w", err)
	}
	defer cancel()

	debounce := time.NewTimer(0)
	debounce.Stop()
	// Drain the timer channel in case it fired between NewTimer and Stop.
	select {
	case <-debounce.C:
	default:
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			debounce.Reset(200 * time.Millisecond)
		case <-reconnectCh:
			debounce.Reset(0) // immediate re-query
		case <-debounce.C:
			if err := queryAndPrint(ctx, typ, seen); err != nil {
				return err
			}
		}
	}
}

// watchPoll re-queries at the given interval.
func watchPoll(ctx context.Context, interval time.Duration, typ *restrec.Type, seen map[string]string) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
		if err := queryAndPrint(ctx, typ, seen); err != nil {
			return err
		}
	}
}

// queryAndPrint lists the resource, diffs against the seen map, and prints
// any changes.
func queryAndPrint(ctx context.Context, typ *restrec.Type, seen map[string]string) error {
	records, err := typ.All(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	changes, removed := diffRecords(records, seen)
	if len(changes) == 0 && len(removed) == 0 {
		return nil
	}

	if jsonOutput {
		recs := make([]*restrec.Record, len(changes))
		for i, c := range changes {
			recs[i] = c.rec
		}
		printRecordListJSON(recs)
		return nil
	}
	for _, c := range changes {
		marker := ui.RenderAccent("~")
		if c.added {
			marker = ui.RenderAdded("+")
		}
		fmt.Printf("%s %s\n", marker, recordLine(c.rec))
	}
	for _, k := range removed {
		fmt.Printf("%s %s\n", ui.RenderRemoved("-"), k)
	}
	return nil
}

// change is a record that is new or differs from its last seen state.
type change struct {
	rec   *restrec.Record
	added bool
}

// diffRecords compares records against the seen map and returns those that
// are new or changed, plus the keys that disappeared. It updates seen in
// place.
func diffRecords(records []*restrec.Record, seen map[string]string) ([]change, []string) {
	var changes []change
	present := make(map[string]bool, len(records))
	for _, r := range records {
		k := formatValue(r.Key())
		present[k] = true
		fp := fingerprint(r)
		prev, ok := seen[k]
		if !ok || prev != fp {
			changes = append(changes, change{rec: r, added: !ok})
		}
		seen[k] = fp
	}

	var removed []string
	for k := range seen {
		if !present[k] {
			removed = append(removed, k)
			delete(seen, k)
		}
	}
	sort.Strings(removed)
	return changes, removed
}

// fingerprint is the record's wire encoding. encoding/json sorts map keys, so
// equal attribute sets produce equal fingerprints.
func fingerprint(r *restrec.Record) string {
	data, err := json.Marshal(r)
	if err != nil {
		return ""
	}
	return string(data)
}

func init() {
	watchCmd.Flags().Duration("interval", 5*time.Second, "polling interval")
	watchCmd.Flags().Bool("once", false, "exit after first query")
}
