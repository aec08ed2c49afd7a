package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/bizhealth/internal/assess"
	"github.com/sells-group/bizhealth/internal/ingest"
)

var (
	scoreFile   string
	scoreID     string
	scoreSave   bool
	scoreFormat string
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score business snapshots from a file or the store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if (scoreFile == "") == (scoreID == "") {
			return eris.New("exactly one of --file or --id is required")
		}
		if scoreFormat != "json" && scoreFormat != "text" {
			return eris.Errorf("unknown format %q", scoreFormat)
		}

		svc, closeFn, err := newService(ctx, "store", scoreID != "")
		if err != nil {
			return err
		}
		defer closeFn()

		var out []assess.Assessment
		if scoreID != "" {
			a, err := svc.ScoreOne(ctx, scoreID, scoreSave)
			if err != nil {
				return eris.Wrapf(err, "score %s", scoreID)
			}
			out = append(out, *a)
		} else {
			businesses, err := ingest.ReadFile(ctx, scoreFile)
			if err != nil {
				return err
			}
			for i := range businesses {
				a, err := svc.Evaluate(&businesses[i])
				if err != nil {
					return eris.Wrapf(err, "score %q", businesses[i].Title)
				}
				out = append(out, *a)
			}
		}

		if scoreFormat == "text" {
			return printSummaries(cmd.OutOrStdout(), out)
		}
		if len(out) == 1 {
			return printJSON(cmd.OutOrStdout(), out[0])
		}
		return printJSON(cmd.OutOrStdout(), out)
	},
}

func printSummaries(w io.Writer, assessments []assess.Assessment) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tOVERALL\tFIN\tGROWTH\tOPS\tSALE\tCONF\tTRAJECTORY")
	for _, a := range assessments {
		s := a.Result.Scores
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%s\n",
			a.Title, s.Overall, s.Financial, s.Growth, s.Operational, s.SaleReadiness, s.Confidence, s.Trajectory)
	}
	return eris.Wrap(tw.Flush(), "write summary")
}

func init() {
	scoreCmd.Flags().StringVar(&scoreFile, "file", "", "snapshot file (.json, .yaml, .csv, .xlsx)")
	scoreCmd.Flags().StringVar(&scoreID, "id", "", "score a stored business by id")
	scoreCmd.Flags().BoolVar(&scoreSave, "save", false, "store the metric record (with --id)")
	scoreCmd.Flags().StringVar(&scoreFormat, "format", "json", "output format: json or text")
	rootCmd.AddCommand(scoreCmd)
}
