package sim

import (
	"errors"
	"fmt"
	"maps"
	"math/rand"
	"slices"
	"sync/atomic"
	"time"

	"netintel-sim/internal/config"
	"netintel-sim/internal/scenario"
	"netintel-sim/internal/telemetry"
)

// ErrNotFound is returned for unknown region or component ids.
var ErrNotFound = errors.New("not found")

// Scope selects records for a snapshot. An empty scope selects everything.
type Scope struct {
	RegionIDs    []string
	ComponentIDs []string
}

func (s Scope) empty() bool {
	return len(s.RegionIDs) == 0 && len(s.ComponentIDs) == 0
}

type eventLog struct {
	active  []telemetry.Event
	history []telemetry.Event
}

// Store holds the simulated network. Each record sits behind its own atomic
// pointer; the index maps are built once and never written afterwards.
type Store struct {
	regionIDs    []string
	regions      map[string]*atomic.Pointer[telemetry.Region]
	componentIDs []string
	components   map[string]*atomic.Pointer[telemetry.Component]

	thresholds atomic.Pointer[scenario.Thresholds]
	clock      atomic.Pointer[telemetry.Clock]
	events     atomic.Pointer[eventLog]
}

// NewStore seeds regions and their components.
func NewStore(seeds []config.Region, rng *rand.Rand, th scenario.Thresholds, now time.Time) *Store {
	gen := telemetry.NewGenerator(rng)
	st := &Store{
		regions:    make(map[string]*atomic.Pointer[telemetry.Region], len(seeds)),
		components: make(map[string]*atomic.Pointer[telemetry.Component]),
	}
	for i, seed := range seeds {
		counts := map[telemetry.ComponentType]int{
			telemetry.RadioAccess: seed.Components.RadioAccess,
			telemetry.Core:        seed.Components.Core,
			telemetry.Edge:        seed.Components.Edge,
			telemetry.Transport:   seed.Components.Transport,
		}
		var ids []string
		var sum float64
		for _, ct := range telemetry.ComponentTypes {
			for n := 0; n < counts[ct]; n++ {
				c := gen.SeedComponent(telemetry.ComponentID(ct, i, n), seed.ID, ct, now)
				p := &atomic.Pointer[telemetry.Component]{}
				p.Store(&c)
				st.components[c.ID] = p
				st.componentIDs = append(st.componentIDs, c.ID)
				ids = append(ids, c.ID)
				sum += c.Health
			}
		}
		health := 100.0
		if len(ids) > 0 {
			health = sum / float64(len(ids))
		}
		pattern, _, _ := telemetry.TrafficPattern(now.Hour())
		r := telemetry.Region{
			ID:               seed.ID,
			Name:             seed.Name,
			BaseStations:     seed.BaseStations,
			ConnectedDevices: seed.ConnectedDevices,
			ComponentIDs:     ids,
			Health:           health,
			Scenario:         scenario.Classify(health, th.Scenario),
			Load:             seed.Load,
			TrafficPattern:   pattern,
			Weather:          seed.Weather,
			TemperatureC:     seed.TemperatureC,
			LastUpdated:      now,
		}
		p := &atomic.Pointer[telemetry.Region]{}
		p.Store(&r)
		st.regions[r.ID] = p
		st.regionIDs = append(st.regionIDs, r.ID)
	}
	st.thresholds.Store(&th)
	st.clock.Store(&telemetry.Clock{At: now})
	st.events.Store(&eventLog{})
	return st
}

// Thresholds returns the current process-wide thresholds.
func (st *Store) Thresholds() scenario.Thresholds {
	return *st.thresholds.Load()
}

// SetThresholds replaces the thresholds. Region tags are recomputed lazily on read.
func (st *Store) SetThresholds(th scenario.Thresholds) error {
	if err := th.Scenario.Check(); err != nil {
		return err
	}
	st.thresholds.Store(&th)
	return nil
}

// Clock returns the simulation clock.
func (st *Store) Clock() telemetry.Clock {
	return *st.clock.Load()
}

// RegionIDs returns region ids in seed order.
func (st *Store) RegionIDs() []string {
	return slices.Clone(st.regionIDs)
}

// ComponentIDs returns component ids in seed order.
func (st *Store) ComponentIDs() []string {
	return slices.Clone(st.componentIDs)
}

// Region returns a copy of one region with its tag classified under the
// current thresholds.
func (st *Store) Region(id string) (telemetry.Region, error) {
	p, ok := st.regions[id]
	if !ok {
		return telemetry.Region{}, fmt.Errorf("region %q: %w", id, ErrNotFound)
	}
	r := p.Load().Clone()
	r.Scenario = scenario.Classify(r.Health, st.Thresholds().Scenario)
	return r, nil
}

// Component returns a copy of one component.
func (st *Store) Component(id string) (telemetry.Component, error) {
	p, ok := st.components[id]
	if !ok {
		return telemetry.Component{}, fmt.Errorf("component %q: %w", id, ErrNotFound)
	}
	return p.Load().Clone(), nil
}

// Regions returns copies of every region in seed order.
func (st *Store) Regions() []telemetry.Region {
	out := make([]telemetry.Region, 0, len(st.regionIDs))
	for _, id := range st.regionIDs {
		r, _ := st.Region(id)
		out = append(out, r)
	}
	return out
}

// Components returns copies of every component in seed order.
func (st *Store) Components() []telemetry.Component {
	out := make([]telemetry.Component, 0, len(st.componentIDs))
	for _, id := range st.componentIDs {
		out = append(out, st.components[id].Load().Clone())
	}
	return out
}

// ActiveEvents returns copies of the unresolved network events.
func (st *Store) ActiveEvents() []telemetry.Event {
	return cloneEvents(st.events.Load().active)
}

// EventHistory returns copies of resolved events, most recent last.
func (st *Store) EventHistory() []telemetry.Event {
	return cloneEvents(st.events.Load().history)
}

// Snapshot returns deep copies of the records selected by scope. Unknown ids
// yield ErrNotFound.
func (st *Store) Snapshot(scope Scope) (telemetry.Snapshot, error) {
	clk := st.Clock()
	snap := telemetry.Snapshot{Tick: clk.Tick, At: clk.At}
	if scope.empty() {
		snap.Regions = st.Regions()
		snap.Components = st.Components()
		snap.ActiveEvents = st.ActiveEvents()
		return snap, nil
	}
	for _, id := range scope.RegionIDs {
		r, err := st.Region(id)
		if err != nil {
			return telemetry.Snapshot{}, err
		}
		snap.Regions = append(snap.Regions, r)
	}
	for _, id := range scope.ComponentIDs {
		c, err := st.Component(id)
		if err != nil {
			return telemetry.Snapshot{}, err
		}
		snap.Components = append(snap.Components, c)
	}
	for _, e := range st.ActiveEvents() {
		if slices.Contains(scope.RegionIDs, e.RegionID) {
			snap.ActiveEvents = append(snap.ActiveEvents, e)
		}
	}
	return snap, nil
}

// SetRegionHealth overrides a region score. It does not serialize with a
// running Simulator; use Simulator.PinRegionHealth there.
func (st *Store) SetRegionHealth(id string, health float64) error {
	p, ok := st.regions[id]
	if !ok {
		return fmt.Errorf("region %q: %w", id, ErrNotFound)
	}
	r := p.Load().Clone()
	r.Health = telemetry.Clamp(health, 0, 100)
	r.Scenario = scenario.Classify(r.Health, st.Thresholds().Scenario)
	p.Store(&r)
	return nil
}

// SetComponentHealth overrides a component score. See SetRegionHealth.
func (st *Store) SetComponentHealth(id string, health float64) error {
	p, ok := st.components[id]
	if !ok {
		return fmt.Errorf("component %q: %w", id, ErrNotFound)
	}
	c := p.Load().Clone()
	c.Health = telemetry.Clamp(health, 0, 100)
	p.Store(&c)
	return nil
}

// NetworkHealth is the mean region score.
func (st *Store) NetworkHealth() float64 {
	if len(st.regionIDs) == 0 {
		return 100
	}
	var sum float64
	for _, id := range st.regionIDs {
		sum += st.regions[id].Load().Health
	}
	return sum / float64(len(st.regionIDs))
}

func cloneEvents(in []telemetry.Event) []telemetry.Event {
	out := make([]telemetry.Event, len(in))
	for i, e := range in {
		e.Affected = slices.Clone(e.Affected)
		e.Impact = maps.Clone(e.Impact)
		out[i] = e
	}
	return out
}
