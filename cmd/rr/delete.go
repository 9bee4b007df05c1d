package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ledgelabs/restrec"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <resource> <id>...",
	Short: "Delete one or more records",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, err := bindType(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		ctx := context.Background()
		for _, id := range args[1:] {
			r := typ.HydrateOne(restrec.Values{keyField: id})
			ok, err := r.Delete(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error deleting %s: %v\n", id, err)
				os.Exit(1)
			}
			if !ok {
				fmt.Fprintf(os.Stderr, "Delete of %s refused\n", id)
				continue
			}
			fmt.Printf("Deleted %s\n", id)
		}
		return nil
	},
}
