package sim

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"netintel-sim/internal/telemetry"
)

func sampleSnapshot(tick uint64, events ...telemetry.Event) telemetry.Snapshot {
	ts := time.Unix(int64(tick), 0).UTC()
	return telemetry.Snapshot{
		Tick:         tick,
		At:           ts,
		Regions:      []telemetry.Region{{ID: "region-west-06", Name: "West Coast", Health: 88.5, Scenario: "good", Load: 0.7}},
		Components:   []telemetry.Component{{ID: "core-node-06-01", RegionID: "region-west-06", Type: telemetry.Core, Health: 91}},
		ActiveEvents: events,
	}
}

func TestFileWriter(t *testing.T) {
	dir := t.TempDir()
	statePath := filepath.Join(dir, "state.jsonl")
	eventPath := filepath.Join(dir, "events.jsonl")
	fw, err := NewFileWriter(statePath, eventPath)
	if err != nil {
		t.Fatalf("NewFileWriter: %v", err)
	}
	ev := telemetry.Event{ID: "evt-1", Type: telemetry.EventTrafficSpike, RegionID: "region-west-06"}
	if err := fw.WriteSnapshot(sampleSnapshot(1, ev)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := fw.WriteSnapshot(sampleSnapshot(2, ev)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	f, err := os.Open(statePath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	var ticks []uint64
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var got telemetry.Snapshot
		if err := json.Unmarshal(sc.Bytes(), &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.Regions[0].Health != 88.5 {
			t.Fatalf("unexpected region: %+v", got.Regions[0])
		}
		ticks = append(ticks, got.Tick)
	}
	if len(ticks) != 2 || ticks[0] != 1 || ticks[1] != 2 {
		t.Fatalf("ticks = %v", ticks)
	}

	data, err := os.ReadFile(eventPath)
	if err != nil {
		t.Fatalf("read events: %v", err)
	}
	var got telemetry.Event
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("event log should hold exactly one event: %v", err)
	}
	if got.ID != "evt-1" {
		t.Fatalf("event = %+v", got)
	}
}

func TestFileWriterBadPath(t *testing.T) {
	if _, err := NewFileWriter(filepath.Join(t.TempDir(), "missing", "state.jsonl"), ""); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
