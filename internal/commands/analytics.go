package commands

import (
	"github.com/spf13/cobra"
)

func newAnalyticsCommand(backend Backend) *cobra.Command {
	var months, horizon int

	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Run time-series analytics over recorded sales",
	}
	cmd.PersistentFlags().IntVar(&months, "months", 0, "analysis window in months; 0 uses the configured default")

	seasonality := &cobra.Command{
		Use:   "seasonality",
		Short: "Monthly, quarterly and yearly roll-ups with pattern analysis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeFn, err := backend.Analytics(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := svc.Seasonality(cmd.Context(), months)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}

	forecast := &cobra.Command{
		Use:   "forecast",
		Short: "Least-squares revenue forecast",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeFn, err := backend.Analytics(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			points, err := svc.Forecast(cmd.Context(), months, horizon)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), points)
		},
	}
	forecast.Flags().IntVar(&horizon, "horizon", 1, "number of months to project")

	recommendations := &cobra.Command{
		Use:   "recommendations",
		Short: "Evaluate the recommendation rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeFn, err := backend.Analytics(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			recs, err := svc.Recommendations(cmd.Context(), months)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), recs)
		},
	}

	cmd.AddCommand(seasonality, forecast, recommendations)
	return cmd
}
