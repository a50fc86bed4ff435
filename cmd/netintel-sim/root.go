package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"netintel-sim/internal/logging"
)

var (
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "netintel-sim",
	Short: "Network intelligence mock server",
	Long:  "netintel-sim serves a simulated telecom network intelligence and self-healing API backed by an evolving in-memory network.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log, err := logging.New(os.Stderr, logLevel, logFormat)
		if err != nil {
			return err
		}
		slog.SetDefault(log)
		return nil
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text or json)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(scenariosCmd)
	rootCmd.AddCommand(dashboardCmd)
}
