package sim

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"netintel-sim/internal/config"
	"netintel-sim/internal/scenario"
	"netintel-sim/internal/telemetry"
)

type stepClock struct {
	mu  sync.Mutex
	t   time.Time
	inc time.Duration
}

func (c *stepClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(c.inc)
	return c.t
}

func newTestSimulator(t *testing.T, seed int64, w StateWriter) *Simulator {
	t.Helper()
	cfg := config.Default()
	cfg.Simulation.TickInterval = time.Second
	clk := &stepClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), inc: time.Second}
	return NewSimulator(cfg, w, WithRand(rand.New(rand.NewSource(seed))), WithClock(clk.now))
}

type collectWriter struct {
	mu    sync.Mutex
	snaps []telemetry.Snapshot
	err   error
}

func (c *collectWriter) WriteSnapshot(s telemetry.Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snaps = append(c.snaps, s)
	return c.err
}

func TestNewSimulatorSeedsRegions(t *testing.T) {
	s := newTestSimulator(t, 1, nil)
	st := s.Store()
	if got := len(st.RegionIDs()); got != 6 {
		t.Fatalf("regions = %d, want 6", got)
	}
	if got := len(st.ComponentIDs()); got != 6*7 {
		t.Fatalf("components = %d, want 42", got)
	}
	r, err := st.Region("region-northwest-01")
	if err != nil {
		t.Fatalf("Region: %v", err)
	}
	if r.Name != "Pacific Northwest" || r.BaseStations != 127 {
		t.Errorf("unexpected region: %+v", r)
	}
	if r.ComponentIDs[0] != "base-station-01-001" {
		t.Errorf("first component = %s", r.ComponentIDs[0])
	}
}

func TestAdvanceKeepsScoresInRange(t *testing.T) {
	s := newTestSimulator(t, 42, nil)
	s.ToggleChaos()
	ctx := context.Background()
	var last telemetry.Snapshot
	for i := 0; i < 2000; i++ {
		last = s.Advance(ctx)
		for _, r := range last.Regions {
			if r.Health < 0 || r.Health > 100 {
				t.Fatalf("tick %d: region %s health %f", last.Tick, r.ID, r.Health)
			}
			if want := scenario.Classify(r.Health, s.Store().Thresholds().Scenario); r.Scenario != want {
				t.Fatalf("tick %d: region %s tag %s, want %s", last.Tick, r.ID, r.Scenario, want)
			}
			if r.Load < 0.1 || r.Load > 0.99 {
				t.Fatalf("tick %d: load %f", last.Tick, r.Load)
			}
		}
		for _, c := range last.Components {
			if c.Health < 0 || c.Health > 100 {
				t.Fatalf("tick %d: component %s health %f", last.Tick, c.ID, c.Health)
			}
		}
	}
	if last.Tick != 2000 {
		t.Fatalf("tick = %d, want 2000", last.Tick)
	}
	if len(s.Store().EventHistory()) == 0 {
		t.Fatal("expected resolved events after 2000 chaotic ticks")
	}
}

func TestAdvanceIsDeterministic(t *testing.T) {
	a := newTestSimulator(t, 9, nil)
	b := newTestSimulator(t, 9, nil)
	for i := 0; i < 50; i++ {
		a.Advance(context.Background())
		b.Advance(context.Background())
	}
	ra, rb := a.Store().Regions(), b.Store().Regions()
	for i := range ra {
		if ra[i].Health != rb[i].Health || ra[i].Weather != rb[i].Weather {
			t.Fatalf("region %s diverged: %+v vs %+v", ra[i].ID, ra[i], rb[i])
		}
	}
}

func TestSnapshotIsolation(t *testing.T) {
	s := newTestSimulator(t, 1, nil)
	snap, err := s.Store().Snapshot(Scope{RegionIDs: []string{"region-west-06"}})
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	snap.Regions[0].Health = -1
	snap.Regions[0].ComponentIDs[0] = "mutated"
	r, _ := s.Store().Region("region-west-06")
	if r.Health < 0 || r.ComponentIDs[0] == "mutated" {
		t.Fatal("snapshot mutation leaked into the store")
	}
}

func TestSnapshotUnknownRegion(t *testing.T) {
	s := newTestSimulator(t, 1, nil)
	_, err := s.Store().Snapshot(Scope{RegionIDs: []string{"region-does-not-exist"}})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := s.Store().Component("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("component err = %v", err)
	}
}

func TestSetRegionHealthClassifies(t *testing.T) {
	s := newTestSimulator(t, 1, nil)
	st := s.Store()
	cases := map[float64]scenario.Tag{95: scenario.Excellent, 80: scenario.Good, 65: scenario.Maintenance, 40: scenario.Degraded, 15: scenario.Critical}
	for h, want := range cases {
		if err := st.SetRegionHealth("region-central-05", h); err != nil {
			t.Fatal(err)
		}
		r, _ := st.Region("region-central-05")
		if r.Scenario != want {
			t.Errorf("health %v: tag %s, want %s", h, r.Scenario, want)
		}
	}
}

func TestSetThresholdsReclassifies(t *testing.T) {
	s := newTestSimulator(t, 1, nil)
	st := s.Store()
	_ = st.SetRegionHealth("region-west-06", 85)
	th := st.Thresholds()
	th.Scenario.Excellent = 80
	if err := st.SetThresholds(th); err != nil {
		t.Fatal(err)
	}
	r, _ := st.Region("region-west-06")
	if r.Scenario != scenario.Excellent {
		t.Fatalf("tag = %s, want excellent", r.Scenario)
	}
	th.Scenario.Good = 95
	if err := st.SetThresholds(th); err == nil {
		t.Fatal("expected error for non-descending thresholds")
	}
}

func TestRestore(t *testing.T) {
	s := newTestSimulator(t, 1, nil)
	st := s.Store()
	_ = st.SetComponentHealth("core-node-01-01", 30)
	if err := s.Restore([]string{"core-node-01-01"}); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	c, _ := st.Component("core-node-01-01")
	if c.Health < 50 || c.Health > 70 {
		t.Fatalf("restored health = %f, want 50..70", c.Health)
	}
	if err := s.Restore([]string{"core-node-01-01", "ghost"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPinRegionHealthWaitsForTick(t *testing.T) {
	cfg := config.Default()
	cfg.Simulation.TickInterval = time.Second
	var (
		armed atomic.Bool
		wg    sync.WaitGroup
		s     *Simulator
	)
	const id = "region-central-05"
	clock := func() time.Time {
		if armed.CompareAndSwap(true, false) {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := s.PinRegionHealth(id, 10); err != nil {
					t.Errorf("pin: %v", err)
				}
			}()
			// Give the pin a chance to land mid-tick if it is not serialized.
			time.Sleep(20 * time.Millisecond)
		}
		return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	}
	s = NewSimulator(cfg, nil, WithRand(rand.New(rand.NewSource(1))), WithClock(clock))
	armed.Store(true)
	s.Advance(context.Background())
	wg.Wait()

	r, err := s.Store().Region(id)
	if err != nil {
		t.Fatal(err)
	}
	if r.Health != 10 || r.Scenario != scenario.Critical {
		t.Fatalf("region = %.2f/%s, want pinned 10/critical", r.Health, r.Scenario)
	}
	if err := s.PinRegionHealth("ghost", 10); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := s.PinComponentHealth("core-node-01-01", 12); err != nil {
		t.Fatal(err)
	}
	if c, _ := s.Store().Component("core-node-01-01"); c.Health != 12 {
		t.Fatalf("component health = %.2f, want 12", c.Health)
	}
}

func TestListenersAndWriter(t *testing.T) {
	cw := &collectWriter{err: errors.New("disk full")}
	s := newTestSimulator(t, 1, cw)
	var ticks []uint64
	s.AddListener(func(_ context.Context, snap telemetry.Snapshot) { panic("boom") })
	s.AddListener(func(_ context.Context, snap telemetry.Snapshot) { ticks = append(ticks, snap.Tick) })
	s.Advance(context.Background())
	s.Advance(context.Background())
	if len(ticks) != 2 || ticks[1] != 2 {
		t.Fatalf("listener ticks = %v", ticks)
	}
	if len(cw.snaps) != 2 {
		t.Fatalf("writer got %d snapshots, want 2", len(cw.snaps))
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.Simulation.TickInterval = 5 * time.Millisecond
	s := NewSimulator(cfg, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	time.Sleep(30 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if s.Store().Clock().Tick == 0 {
		t.Fatal("expected at least one tick")
	}
}

func TestToggleChaos(t *testing.T) {
	s := newTestSimulator(t, 1, nil)
	if !s.ToggleChaos() || !s.Chaos() {
		t.Fatal("chaos should be on")
	}
	if s.ToggleChaos() || s.Chaos() {
		t.Fatal("chaos should be off")
	}
}
