// Package scrape implements the one-shot scrape commands.
package scrape

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/gotrack/cmd/common"
	"github.com/jonesrussell/gotrack/internal/domain"
)

// Command returns the scrape command.
func Command() *cobra.Command {
	var (
		due bool
		all string
	)

	cmd := &cobra.Command{
		Use:   "scrape [website-id]",
		Short: "Scrape one website, all due websites, or an explicit list",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.Build()
			if err != nil {
				return err
			}
			defer deps.Close()

			ctx := cmd.Context()

			switch {
			case due:
				results, dueErr := deps.Orchestrator.ScrapeDue(ctx)
				if dueErr != nil {
					return dueErr
				}
				printResults(cmd, results)
				return nil
			case all != "":
				ids := strings.Split(all, ",")
				results := deps.Orchestrator.ScrapeAll(ctx, ids)
				printResults(cmd, results)
				return nil
			case len(args) == 1:
				result, oneErr := deps.Orchestrator.ScrapeOne(ctx, args[0])
				if oneErr != nil {
					return oneErr
				}
				printResults(cmd, []*domain.ScrapeResult{result})
				return nil
			default:
				return errors.New("provide a website id, --due, or --all")
			}
		},
	}

	cmd.Flags().BoolVar(&due, "due", false, "scrape all websites whose check interval has elapsed")
	cmd.Flags().StringVar(&all, "all", "", "comma-separated website ids to scrape")

	return cmd
}

func printResults(cmd *cobra.Command, results []*domain.ScrapeResult) {
	for _, result := range results {
		line := fmt.Sprintf(
			"%s  status=%s found=%d new=%d changed=%d removed=%d duration=%dms",
			result.WebsiteID,
			result.Status,
			result.ItemsFound,
			result.NewItems,
			result.ChangedItems,
			result.RemovedItems,
			result.DurationMs,
		)
		if result.ErrorMessage != nil {
			line += "  error=" + *result.ErrorMessage
		}
		cmd.Println(line)
	}
	cmd.Printf("%d scrape(s) completed\n", len(results))
}
