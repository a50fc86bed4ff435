// Simulator advancing the network state on a fixed tick
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"netintel-sim/internal/config"
	"netintel-sim/internal/logging"
	"netintel-sim/internal/telemetry"
)

// Listener is notified after every tick with a snapshot of the new state.
type Listener func(ctx context.Context, snap telemetry.Snapshot)

// Option configures a Simulator.
type Option func(*Simulator)

// WithRand injects the random source. The simulator owns it afterwards.
func WithRand(rng *rand.Rand) Option {
	return func(s *Simulator) { s.rng = rng }
}

// WithClock injects the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Simulator) { s.now = now }
}

// Simulator walks health scores, load, weather and network events.
type Simulator struct {
	store        *Store
	gen          *telemetry.Generator
	rng          *rand.Rand
	now          func() time.Time
	writer       StateWriter
	tickInterval time.Duration
	settings     config.SimulationConfig
	chaosMode    bool
	listeners    []Listener
	mu           sync.Mutex
}

// NewSimulator seeds the store from cfg. writer may be nil.
func NewSimulator(cfg *config.Config, writer StateWriter, opts ...Option) *Simulator {
	s := &Simulator{
		writer:       writer,
		tickInterval: cfg.Simulation.TickInterval,
		settings:     cfg.Simulation,
		now:          func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(cfg.Simulation.Seed))
	}
	s.gen = telemetry.NewGenerator(s.rng)
	s.store = NewStore(cfg.Regions, s.rng, cfg.Thresholds, s.now())
	return s
}

// Store exposes the read side of the simulated network.
func (s *Simulator) Store() *Store {
	return s.store
}

// TickInterval returns the configured tick period.
func (s *Simulator) TickInterval() time.Duration {
	return s.tickInterval
}

// AddListener registers fn to run after every tick, outside the simulator lock.
func (s *Simulator) AddListener(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// ToggleChaos flips chaos mode on or off and returns the new state. In chaos
// mode events are five times as likely and components degrade faster.
func (s *Simulator) ToggleChaos() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chaosMode = !s.chaosMode
	return s.chaosMode
}

// Chaos returns whether chaos mode is active.
func (s *Simulator) Chaos() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chaosMode
}

// Restore performs maintenance on the given components. All ids are checked
// before any record changes.
func (s *Simulator) Restore(ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if _, ok := s.store.components[id]; !ok {
			return fmt.Errorf("restore component %q: %w", id, ErrNotFound)
		}
	}
	now := s.now()
	for _, id := range ids {
		p := s.store.components[id]
		c := s.gen.Restore(p.Load().Clone(), now)
		c.LastUpdated = now
		p.Store(&c)
	}
	return nil
}

// PinRegionHealth overrides a region score between ticks. The next Advance
// walks the score back toward the region's component mean.
func (s *Simulator) PinRegionHealth(id string, health float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.SetRegionHealth(id, health)
}

// PinComponentHealth overrides a component score between ticks.
func (s *Simulator) PinComponentHealth(id string, health float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.SetComponentHealth(id, health)
}

func (s *Simulator) notify(ctx context.Context, snap telemetry.Snapshot) {
	s.mu.Lock()
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()
	log := logging.FromContext(ctx)
	for _, fn := range listeners {
		callListener(ctx, log, fn, snap)
	}
}

func callListener(ctx context.Context, log *slog.Logger, fn Listener, snap telemetry.Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("tick listener panicked", "tick", snap.Tick, "panic", r)
		}
	}()
	fn(ctx, snap)
}
