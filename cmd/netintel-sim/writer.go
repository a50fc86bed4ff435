package main

import (
	"netintel-sim/internal/config"
	"netintel-sim/internal/scenario"
	"netintel-sim/internal/sim"
)

// newWriters sets up the per-tick state writer from flags and config. The
// returned cleanup closes any resources.
func newWriters(cfg *config.Config, catalog *scenario.Catalog, printOnly, tui bool, logFile string) (sim.StateWriter, func(), error) {
	base, err := baseWriter(cfg, catalog, printOnly, tui)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if c, ok := base.(sim.Closer); ok {
			_ = c.Close()
		}
	}
	if logFile == "" {
		return base, cleanup, nil
	}
	fw, err := sim.NewFileWriter(logFile, logFile+".events")
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	mw := sim.NewMultiWriter(base, fw)
	return mw, func() { _ = mw.Close() }, nil
}

// baseWriter picks the TUI, STDOUT or GreptimeDB sink. GreptimeDB is used
// only when an endpoint is configured and printOnly is unset.
func baseWriter(cfg *config.Config, catalog *scenario.Catalog, printOnly, tui bool) (sim.StateWriter, error) {
	if !printOnly && cfg.Greptime.Endpoint != "" {
		return sim.NewGreptimeDBWriter(cfg.Greptime.Endpoint, cfg.Greptime.Database)
	}
	if tui {
		return sim.NewTUIWriter(catalog), nil
	}
	return sim.NewJSONStdoutWriter(), nil
}
