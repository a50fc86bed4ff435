package sim

import (
	"errors"

	"netintel-sim/internal/telemetry"
)

// MultiWriter fans snapshots out to multiple writers.
type MultiWriter struct {
	writers []StateWriter
}

// NewMultiWriter creates a new MultiWriter. Nil writers are skipped.
func NewMultiWriter(ws ...StateWriter) *MultiWriter {
	mw := &MultiWriter{}
	for _, w := range ws {
		if w != nil {
			mw.writers = append(mw.writers, w)
		}
	}
	return mw
}

// WriteSnapshot sends snap to every writer. A failing writer does not stop the others.
func (mw *MultiWriter) WriteSnapshot(snap telemetry.Snapshot) error {
	var errs []error
	for _, w := range mw.writers {
		if err := w.WriteSnapshot(snap); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every writer that holds resources.
func (mw *MultiWriter) Close() error {
	var errs []error
	for _, w := range mw.writers {
		if c, ok := w.(Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}
