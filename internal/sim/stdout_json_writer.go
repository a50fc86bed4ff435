package sim

import (
	"encoding/json"
	"io"
	"os"

	"netintel-sim/internal/telemetry"
)

// JSONStdoutWriter prints one JSON line per region and tick.
type JSONStdoutWriter struct {
	out io.Writer
}

// NewJSONStdoutWriter creates a JSONStdoutWriter writing to os.Stdout.
func NewJSONStdoutWriter() *JSONStdoutWriter {
	return &JSONStdoutWriter{out: os.Stdout}
}

type regionLine struct {
	Tick uint64 `json:"tick"`
	telemetry.Region
	ActiveEvents int `json:"active_events"`
}

// WriteSnapshot outputs the region records of snap.
func (w *JSONStdoutWriter) WriteSnapshot(snap telemetry.Snapshot) error {
	events := make(map[string]int)
	for _, e := range snap.ActiveEvents {
		events[e.RegionID]++
	}
	enc := json.NewEncoder(w.out)
	for _, r := range snap.Regions {
		r.ComponentIDs = nil
		if err := enc.Encode(regionLine{Tick: snap.Tick, Region: r, ActiveEvents: events[r.ID]}); err != nil {
			return err
		}
	}
	return nil
}
