package sim

import (
	"encoding/json"
	"errors"
	"os"

	"netintel-sim/internal/telemetry"
)

// FileWriter writes tick snapshots and network events to JSONL files.
type FileWriter struct {
	stateFile *os.File
	eventFile *os.File
	stateEnc  *json.Encoder
	eventEnc  *json.Encoder
	seen      map[string]bool
}

// NewFileWriter creates a FileWriter. eventPath may be empty to skip the event log.
func NewFileWriter(statePath, eventPath string) (*FileWriter, error) {
	sf, err := os.Create(statePath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{stateFile: sf, stateEnc: json.NewEncoder(sf), seen: make(map[string]bool)}
	if eventPath != "" {
		ef, err := os.Create(eventPath)
		if err != nil {
			sf.Close()
			return nil, err
		}
		fw.eventFile = ef
		fw.eventEnc = json.NewEncoder(ef)
	}
	return fw, nil
}

// WriteSnapshot logs one snapshot line and every event not logged before.
func (f *FileWriter) WriteSnapshot(snap telemetry.Snapshot) error {
	if err := f.stateEnc.Encode(snap); err != nil {
		return err
	}
	if f.eventEnc == nil {
		return nil
	}
	for _, e := range snap.ActiveEvents {
		if f.seen[e.ID] {
			continue
		}
		f.seen[e.ID] = true
		if err := f.eventEnc.Encode(e); err != nil {
			return err
		}
	}
	return nil
}

// Close closes any underlying files.
func (f *FileWriter) Close() error {
	var errs []error
	if f.stateFile != nil {
		errs = append(errs, f.stateFile.Close())
	}
	if f.eventFile != nil {
		errs = append(errs, f.eventFile.Close())
	}
	return errors.Join(errs...)
}
