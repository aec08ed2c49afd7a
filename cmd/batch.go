package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/bizhealth/internal/ingest"
	"github.com/sells-group/bizhealth/internal/model"
	"github.com/sells-group/bizhealth/internal/store"
)

var (
	batchCategory    string
	batchLimit       int
	batchConcurrency int
	batchSave        bool
	batchOutput      string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Score every stored business concurrently",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		svc, closeFn, err := newService(ctx, "batch", true)
		if err != nil {
			return err
		}
		defer closeFn()

		filter := store.BusinessFilter{Limit: cfg.Batch.Limit}
		if batchLimit > 0 {
			filter.Limit = batchLimit
		}
		if batchCategory != "" {
			c, ok := model.ParseCategory(batchCategory)
			if !ok {
				return eris.Errorf("unknown category %q", batchCategory)
			}
			filter.Category = c
		}
		concurrency := cfg.Batch.MaxConcurrent
		if batchConcurrency > 0 {
			concurrency = batchConcurrency
		}

		results, failures, err := svc.ScoreAll(ctx, filter, concurrency, batchSave)
		if err != nil {
			return err
		}
		for _, f := range failures {
			zap.L().Warn("business not scored",
				zap.String("business_id", f.BusinessID),
				zap.String("error", f.Error),
			)
		}

		switch ext := strings.ToLower(filepath.Ext(batchOutput)); {
		case batchOutput == "":
			return printJSON(cmd.OutOrStdout(), results)
		case ext == ".xlsx":
			return ingest.WriteXLSX(batchOutput, results)
		case ext == ".csv":
			f, err := os.Create(batchOutput)
			if err != nil {
				return eris.Wrapf(err, "create %s", batchOutput)
			}
			if err := ingest.WriteCSV(f, results); err != nil {
				f.Close() //nolint:errcheck
				return err
			}
			return eris.Wrap(f.Close(), "close output")
		default:
			return eris.Errorf("unsupported output type %q", ext)
		}
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchCategory, "category", "", "only score businesses in this category")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max businesses to score (default from config)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "parallel workers (default from config)")
	batchCmd.Flags().BoolVar(&batchSave, "save", false, "store a metric record per business")
	batchCmd.Flags().StringVar(&batchOutput, "output", "", "write summaries to a .csv or .xlsx file instead of JSON on stdout")
	rootCmd.AddCommand(batchCmd)
}
