package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/bizhealth/internal/ingest"
)

var importFile string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import business snapshots into the store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		businesses, err := ingest.ReadFile(ctx, importFile)
		if err != nil {
			return err
		}

		st, err := openStore(ctx, "store")
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		n, err := st.UpsertBusinesses(ctx, businesses)
		if err != nil {
			return eris.Wrap(err, "import businesses")
		}

		zap.L().Info("import complete",
			zap.Int("imported", n),
			zap.String("file", importFile),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importFile, "file", "", "path to .json, .yaml, .csv or .xlsx file (required)")
	_ = importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(importCmd)
}
