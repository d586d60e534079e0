// Package cmd implements the command-line interface for gotrack.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonesrussell/gotrack/cmd/httpd"
	cmdscrape "github.com/jonesrussell/gotrack/cmd/scrape"
	"github.com/jonesrussell/gotrack/cmd/sites"
	"github.com/jonesrussell/gotrack/internal/config"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// debug enables debug logging for all commands.
	debug bool

	rootCmd = &cobra.Command{
		Use:   "gotrack",
		Short: "Website tracking and change detection",
		Long:  `Tracks external websites, extracts listings and records what changed between scrapes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	_ = godotenv.Load()

	if err := initConfig(); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(httpd.Command())
	rootCmd.AddCommand(cmdscrape.Command())
	rootCmd.AddCommand(sites.Command())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	config.SetDefaults(viper.GetViper())

	// Config file is optional; environment variables and defaults cover
	// everything it would provide.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: config file not found: %v\n", err)
	}

	// Parse flags early so --debug influences the logger level.
	_ = rootCmd.ParseFlags(os.Args[1:])
	if debug || viper.GetBool("app.debug") {
		viper.Set("logger.level", "debug")
	}

	return nil
}
