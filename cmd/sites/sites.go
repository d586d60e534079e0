// Package sites implements CRUD commands for tracked websites.
package sites

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/gotrack/cmd/common"
	"github.com/jonesrussell/gotrack/internal/domain"
	"github.com/jonesrussell/gotrack/internal/registry"
)

// Command returns the sites command with its subcommands.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sites",
		Short: "Manage tracked websites",
	}

	cmd.AddCommand(listCommand())
	cmd.AddCommand(addCommand())
	cmd.AddCommand(removeCommand())

	return cmd
}

func listCommand() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a user's tracked websites",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.Build()
			if err != nil {
				return err
			}
			defer deps.Close()

			websites, err := deps.Registry.List(cmd.Context(), userID)
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"ID", "Name", "URL", "Category", "Frequency", "Active", "Last Status"})
			for _, website := range websites {
				t.AppendRow(table.Row{
					website.ID,
					website.Name,
					website.URL,
					website.Category,
					website.CheckFrequency,
					website.IsActive,
					website.LastStatus,
				})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "owner user id")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func addCommand() *cobra.Command {
	var (
		userID    string
		name      string
		url       string
		category  string
		frequency string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new tracked website",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.Build()
			if err != nil {
				return err
			}
			defer deps.Close()

			website, err := deps.Registry.Add(cmd.Context(), registry.AddInput{
				UserID:    userID,
				Name:      name,
				URL:       url,
				Category:  domain.Category(category),
				Frequency: domain.CheckFrequency(frequency),
			})
			if err != nil {
				return err
			}

			cmd.Printf("added %s (%s)\n", website.ID, website.URL)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "owner user id")
	cmd.Flags().StringVar(&name, "name", "", "display name (defaults to host)")
	cmd.Flags().StringVar(&url, "url", "", "website URL")
	cmd.Flags().StringVar(&category, "category", string(domain.CategoryOther), "website category")
	cmd.Flags().StringVar(&frequency, "frequency", string(domain.FrequencyDaily), "check frequency")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}

func removeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <website-id>",
		Short: "Delete a tracked website and its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.Build()
			if err != nil {
				return err
			}
			defer deps.Close()

			if err := deps.Registry.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}

			cmd.Printf("removed %s\n", args[0])
			return nil
		},
	}
}
