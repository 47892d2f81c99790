package commands

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/workshop-financial-engine/internal/domain/ledger"
	"github.com/workshop-financial-engine/internal/domain/report"
)

func newReportCommand(backend Backend) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:       "report {profit-loss|balance-sheet|cash-flow}",
		Short:     "Compute a financial statement and print its document",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"profit-loss", "balance-sheet", "cash-flow"},
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := report.ParseType(args[0])
			if err != nil {
				return err
			}

			period, err := periodFromFlags(from, to)
			if err != nil {
				return err
			}

			svc, closeFn, err := backend.Reports(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			doc, err := svc.Generate(cmd.Context(), t, period)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), doc)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "period start (YYYY-MM-DD); omit for since inception")
	cmd.Flags().StringVar(&to, "to", "", "period end (YYYY-MM-DD); defaults to today")

	return cmd
}

func periodFromFlags(from, to string) (report.Period, error) {
	start, err := parseDateFlag("from", from)
	if err != nil {
		return report.Period{}, err
	}
	end, err := parseDateFlag("to", to)
	if err != nil {
		return report.Period{}, err
	}
	if end.IsZero() {
		end = ledger.DateOnly(time.Now())
	}
	return report.Period{Start: start, End: end}, nil
}
