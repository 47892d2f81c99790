// Package commands implements finctl, the operator CLI for migrations,
// statements and analytics. Documents go to stdout as JSON; logs go to stderr.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/workshop-financial-engine/internal/api_gateway/service"
)

// Migrator applies and inspects schema migrations
type Migrator interface {
	Up() error
	Down(steps int) error
	Version() (version uint, dirty bool, err error)
}

// Backend opens the services a command needs. The returned close function
// releases every connection opened for the call.
type Backend interface {
	Migrator() Migrator
	Reports(ctx context.Context) (service.ReportService, func(), error)
	Analytics(ctx context.Context) (service.AnalyticsService, func(), error)
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand(backend Backend) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "finctl",
		Short: "Workshop financial engine operator tool",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newMigrateCommand(backend),
		newReportCommand(backend),
		newAnalyticsCommand(backend),
	)

	return rootCmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

func parseDateFlag(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s must be a date formatted as %s", name, time.DateOnly)
	}
	return t, nil
}
