package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/ledgelabs/restrec/internal/export"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <resource>",
	Short: "Export all records of a resource as JSONL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath, _ := cmd.Flags().GetString("output")
		toS3, _ := cmd.Flags().GetBool("s3")

		typ, err := bindType(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		ctx := context.Background()
		var buf bytes.Buffer
		if err := export.JSONL(ctx, typ, &buf); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if toS3 {
			if cfg.ExportS3Bucket == "" {
				return fmt.Errorf("RESTREC_EXPORT_S3_BUCKET is required for --s3")
			}
			sink, err := export.NewS3Sink(ctx, cfg.ExportS3Bucket, cfg.ExportS3Key, cfg.ExportS3Region, cfg.ExportS3Endpoint)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			if err := sink.Write(ctx, buf.Bytes()); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("exported %s to s3://%s/%s\n", args[0], cfg.ExportS3Bucket, cfg.ExportS3Key)
			return nil
		}

		if outPath != "" {
			if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
				return err
			}
			fmt.Printf("exported %s to %s\n", args[0], outPath)
			return nil
		}

		_, err = os.Stdout.Write(buf.Bytes())
		return err
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")
	exportCmd.Flags().Bool("s3", false, "upload to the configured S3 bucket")
}
