// Package httpd runs the API server and the scrape scheduler as a daemon.
package httpd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/gotrack/cmd/common"
	"github.com/jonesrussell/gotrack/internal/scheduler"
)

// Command returns the httpd command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "httpd",
		Short: "Run the HTTP API server with the scrape scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.Build()
			if err != nil {
				return err
			}
			defer deps.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			sched := scheduler.New(deps.Orchestrator, deps.Logger, deps.Config.Scheduler.CronSpec)
			if startErr := sched.Start(ctx); startErr != nil {
				return startErr
			}
			defer sched.Stop()

			return deps.APIServer.Run(ctx)
		},
	}
}
