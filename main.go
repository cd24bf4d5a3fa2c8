// main.go
package main

import (
	"fmt"
	"os"

	"founders-fest/config"
	"founders-fest/logger"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return rootCmd().Execute()
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "foundersfest",
		Short: "Founders Fest admin and submission service",
		Long: `foundersfest serves the Founders Fest public API and admin dashboard.

Run "foundersfest serve" to start the HTTP server. The other commands
manage the database and the admin allow-list from the command line.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(
		serveCmd(),
		migrateCmd(),
		adminCmd(),
		seedCmd(),
		versionCmd(),
	)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "foundersfest %s\n", Version)
		},
	}
}

// loadConfig reads the environment and applies the logging settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger.SetLogLevel(cfg.Env)
	return cfg, nil
}
