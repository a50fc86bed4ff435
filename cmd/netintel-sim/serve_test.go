package main

import (
	"math/rand"
	"testing"
	"time"

	"netintel-sim/internal/config"
	"netintel-sim/internal/jobs"
)

func TestJobTimestampsAreUTC(t *testing.T) {
	tracker := jobs.NewTracker(config.Default().Jobs, rand.New(rand.NewSource(1)), utcNow)
	j := tracker.Create(jobs.Spec{Kind: jobs.HealingAction})
	if j.CreatedAt.Location() != time.UTC {
		t.Fatalf("created_at location = %s, want UTC", j.CreatedAt.Location())
	}
	if j.StartedAt == nil || j.StartedAt.Location() != time.UTC {
		t.Fatalf("started_at = %v, want UTC", j.StartedAt)
	}
}
