package sim

import "netintel-sim/internal/telemetry"

// StateWriter receives a snapshot of the network after every tick.
type StateWriter interface {
	WriteSnapshot(telemetry.Snapshot) error
}

// Closer is implemented by writers holding resources.
type Closer interface {
	Close() error
}
