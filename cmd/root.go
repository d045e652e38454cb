package cmd

import (
	"github.com/spf13/cobra"

	"github.com/testcontainers/talks-explorer/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "talks-explorer",
	Short: "Browse the talks of a conference",
	Long: `Talks Explorer lists the talks served by the talks API, filtered by
category or by title. It runs as a web front end with live updates, or
prints the talks to the terminal.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
