package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <resource>",
	Short: "List records of a resource",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wherePairs, _ := cmd.Flags().GetStringArray("where")

		typ, err := bindType(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		q := typ.Query()
		for _, p := range wherePairs {
			k, v, ok := splitField(p)
			if !ok {
				fmt.Fprintf(os.Stderr, "Error: invalid filter %q: expected key=value\n", p)
				os.Exit(1)
			}
			q = q.Where(k, parseValue(v))
		}

		records, err := q.Get(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printRecordListJSON(records)
		} else {
			printRecordListTable(records)
		}
		return nil
	},
}

func init() {
	getCmd.Flags().StringArrayP("where", "w", nil, "filter clause key=value (repeatable)")
}
