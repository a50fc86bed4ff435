package main

import (
	"io"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"netintel-sim/internal/config"
	"netintel-sim/internal/jobs"
	"netintel-sim/internal/sim"
)

var healNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newHealingFixture(t *testing.T, failureRate float64) (*sim.Simulator, *jobs.Tracker) {
	t.Helper()
	cfg := config.Default()
	now := func() time.Time { return healNow }
	s := sim.NewSimulator(cfg, nil, sim.WithRand(rand.New(rand.NewSource(1))), sim.WithClock(now))
	tracker := jobs.NewTracker(config.JobsConfig{MinRunTicks: 1, MaxRunTicks: 1, FailureRate: failureRate}, rand.New(rand.NewSource(2)), now)
	wireHealing(s, tracker, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return s, tracker
}

func TestWireHealingRestoresTargets(t *testing.T) {
	s, tracker := newHealingFixture(t, 0)
	const id = "core-node-01-01"
	if err := s.PinComponentHealth(id, 20); err != nil {
		t.Fatal(err)
	}
	before, _ := s.Store().Component(id)

	j := tracker.Create(jobs.Spec{Kind: jobs.HealingAction, Targets: []string{id}})
	tracker.Advance(2)
	if got, _ := tracker.Get(j.ID); got.Status != jobs.Completed {
		t.Fatalf("job status = %s, want completed", got.Status)
	}

	after, _ := s.Store().Component(id)
	if after.Health <= before.Health {
		t.Fatalf("health %.2f did not rise from %.2f", after.Health, before.Health)
	}
	if !after.LastMaintenance.After(before.LastMaintenance) || !after.LastMaintenance.Equal(healNow) {
		t.Fatalf("last maintenance = %s, was %s", after.LastMaintenance, before.LastMaintenance)
	}
}

func TestWireHealingSkipsFailedAndRollback(t *testing.T) {
	s, tracker := newHealingFixture(t, 1)
	const id = "core-node-01-01"
	_ = s.PinComponentHealth(id, 20)

	tracker.Create(jobs.Spec{Kind: jobs.HealingAction, Targets: []string{id}})
	tracker.Create(jobs.Spec{Kind: jobs.Rollback, Targets: []string{id}, NeverFail: true})
	tracker.Advance(2)

	c, _ := s.Store().Component(id)
	if c.Health != 20 {
		t.Fatalf("health = %.2f, want untouched 20", c.Health)
	}
}
