package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ledgelabs/restrec"
	"github.com/ledgelabs/restrec/internal/ui"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <resource> <id>",
	Short: "Show a single record",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		relations, _ := cmd.Flags().GetStringSlice("load")

		typ, err := bindTypeWith(args[0], relations)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		ctx := context.Background()
		r, err := typ.Find(ctx, args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if len(relations) > 0 {
			if _, err := r.Load(ctx, relations...); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}

		if jsonOutput {
			printRecordJSONWithRelations(r, relations)
			return nil
		}
		printRecordTable(r)
		for _, name := range relations {
			rel, ok := r.Relation(name)
			if !ok {
				continue
			}
			fmt.Printf("\n%s\n", ui.RenderMuted(name+":"))
			switch v := rel.(type) {
			case []*restrec.Record:
				printRecordListTable(v)
			case *restrec.Record:
				printRecordTable(v)
			}
		}
		return nil
	},
}

func init() {
	showCmd.Flags().StringSlice("load", nil, "relations to load alongside the record (repeatable)")
}
