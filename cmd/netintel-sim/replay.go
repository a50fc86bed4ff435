package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"netintel-sim/internal/config"
	"netintel-sim/internal/scenario"
	"netintel-sim/internal/sim"
)

var (
	replayInput     string
	replaySpeed     float64
	replayPrintOnly bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a snapshot log file",
	Long:  "replay feeds snapshots recorded with serve --log-file back into GreptimeDB or STDOUT.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fmt.Errorf("input file required")
		}
		cfg := config.Default()
		if err := cfg.ApplyEnv(); err != nil {
			return err
		}
		writer, cleanup, err := newWriters(cfg, scenario.BuiltIn(), replayPrintOnly, false, "")
		if err != nil {
			return err
		}
		defer cleanup()
		return sim.ReplayLogFile(replayInput, writer, replaySpeed)
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to snapshot log file")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1.0, "Playback speed multiplier")
	replayCmd.Flags().BoolVar(&replayPrintOnly, "print-only", false, "Print snapshots to STDOUT instead of writing to DB")
	replayCmd.MarkFlagRequired("input")
}
