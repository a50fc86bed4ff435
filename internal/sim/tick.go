package sim

import (
	"context"
	"time"

	"netintel-sim/internal/logging"
	"netintel-sim/internal/scenario"
	"netintel-sim/internal/telemetry"
)

// Run starts the simulation loop and stops when the context is done.
func (s *Simulator) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	log.Info("starting simulator", "tick_interval", s.tickInterval, "regions", len(s.store.regionIDs), "components", len(s.store.componentIDs))
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Advance(ctx)
		case <-ctx.Done():
			log.Info("stopping simulator")
			return
		}
	}
}

// Advance moves the simulation forward one tick and returns the resulting
// snapshot. Listeners and the state writer run after the lock is released.
func (s *Simulator) Advance(ctx context.Context) telemetry.Snapshot {
	s.mu.Lock()
	now := s.now()
	prev := s.store.Clock()
	tick := prev.Tick + 1
	elapsed := s.tickInterval
	if !prev.At.IsZero() && now.After(prev.At) {
		elapsed = now.Sub(prev.At)
	}
	th := s.store.Thresholds()

	walk := telemetry.WalkParams{Step: s.settings.WalkStep, Reversion: s.settings.MeanReversion, Elapsed: elapsed}
	eventChance := s.settings.EventProbability
	if s.chaosMode {
		walk.Step *= 2
		eventChance = min(1, eventChance*5)
	}

	for _, id := range s.store.componentIDs {
		p := s.store.components[id]
		c := s.gen.WalkComponent(p.Load().Clone(), walk)
		if s.chaosMode {
			c.Health = telemetry.Clamp(c.Health-c.DegradationRate*10, 0, 100)
		}
		c.Tick, c.LastUpdated = tick, now
		p.Store(&c)
	}

	s.stepEvents(tick, now, eventChance)

	for _, id := range s.store.regionIDs {
		p := s.store.regions[id]
		r := p.Load().Clone()
		var sum float64
		for _, cid := range r.ComponentIDs {
			sum += s.store.components[cid].Load().Health
		}
		mean := r.Health
		if len(r.ComponentIDs) > 0 {
			mean = sum / float64(len(r.ComponentIDs))
		}
		r = s.gen.WalkRegion(r, mean, walk)
		r.Scenario = scenario.Classify(r.Health, th.Scenario)
		r.Load, r.TrafficPattern = s.gen.RegionLoad(now.Hour())
		r.Weather, r.TemperatureC = s.gen.DriftWeather(r.Weather, r.TemperatureC, s.settings.WeatherChangeProbability)
		r.Tick, r.LastUpdated = tick, now
		p.Store(&r)
	}

	s.store.clock.Store(&telemetry.Clock{Tick: tick, At: now})
	s.mu.Unlock()

	snap, _ := s.store.Snapshot(Scope{})
	s.notify(ctx, snap)
	if s.writer != nil {
		if err := s.writer.WriteSnapshot(snap); err != nil {
			logging.FromContext(ctx).Error("state write failed", "tick", tick, "err", err)
		}
	}
	return snap
}
