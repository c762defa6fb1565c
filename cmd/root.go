package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Persistent flags shared by every subcommand.
var (
	configPath string
	logLevel   string
	logFormat  string
)

// rootCmd represents the base command for the inboxmeet application
var rootCmd = &cobra.Command{
	Use:   "inboxmeet",
	Short: "Schedules meetings requested by email against your Google Calendar",
	Long: `inboxmeet turns meeting requests found in email into calendar events.

It resolves free-text dates and times ("Friday", "3 PM IST"), checks the
requested slot against your Google Calendar, books it when free and
otherwise proposes alternatives inside working hours, saving a reply draft
to the organizer.

It can run as:
  - A set of CLI commands (schedule, resolve, slots, watch)
  - An MCP (Model Context Protocol) server for AI assistants (serve)`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "inboxmeet version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/inboxmeet/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text or json (overrides config)")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newScheduleCmd())
	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newSlotsCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newVersionCmd())
}
