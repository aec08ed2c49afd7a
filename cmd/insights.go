package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/bizhealth/internal/health"
)

var insightsFile string

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Generate insights from a saved health result",
	RunE: func(cmd *cobra.Command, _ []string) error {
		data, err := os.ReadFile(insightsFile)
		if err != nil {
			return eris.Wrapf(err, "read %s", insightsFile)
		}
		var res health.Result
		if err := json.Unmarshal(data, &res); err != nil {
			return eris.Wrap(err, "decode result")
		}
		return printJSON(cmd.OutOrStdout(), health.GenerateInsightsWith(&res, weightsFromConfig(cfg.Health)))
	},
}

func init() {
	insightsCmd.Flags().StringVar(&insightsFile, "file", "", "path to a result JSON document (required)")
	_ = insightsCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(insightsCmd)
}
