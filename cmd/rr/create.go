package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create <resource>",
	Short: "Create a record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fieldPairs, _ := cmd.Flags().GetStringArray("field")
		attrs, err := parseFields(fieldPairs)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if len(attrs) == 0 {
			fmt.Fprintln(os.Stderr, "Error: at least one -f key=value is required")
			os.Exit(1)
		}

		typ, err := bindType(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		r, err := typ.Create(context.Background(), attrs)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printRecordJSON(r)
		} else {
			printRecordTable(r)
		}
		return nil
	},
}

func init() {
	createCmd.Flags().StringArrayP("field", "f", nil, "attribute as key=value (repeatable)")
}
