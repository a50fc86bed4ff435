package sim

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"netintel-sim/internal/telemetry"
)

var severities = []string{"low", "medium", "high", "critical"}

func severityFactor(sev string) float64 {
	switch sev {
	case "critical":
		return 0.7
	case "high":
		return 0.85
	case "medium":
		return 0.95
	}
	return 1
}

// stepEvents resolves expired events and maybe starts a new one. Callers hold s.mu.
func (s *Simulator) stepEvents(tick uint64, now time.Time, chance float64) {
	cur := s.store.events.Load()
	next := &eventLog{history: slices.Clone(cur.history)}
	for _, e := range cur.active {
		if !e.Expired(tick) {
			next.active = append(next.active, e)
			continue
		}
		resolved := now
		e.Status = telemetry.EventResolved
		e.ResolvedAt = &resolved
		next.history = append(next.history, e)
		s.detachEvent(e)
	}
	if len(s.store.regionIDs) > 0 && s.rng.Float64() < chance {
		e := s.newEvent(tick, now)
		next.active = append(next.active, e)
	}
	if limit := s.settings.EventHistory; limit > 0 && len(next.history) > limit {
		next.history = next.history[len(next.history)-limit:]
	}
	s.store.events.Store(next)
}

func (s *Simulator) newEvent(tick uint64, now time.Time) telemetry.Event {
	regionID := s.store.regionIDs[s.rng.Intn(len(s.store.regionIDs))]
	region := s.store.regions[regionID].Load()
	typ := telemetry.EventTypes[s.rng.Intn(len(telemetry.EventTypes))]
	sev := severities[s.rng.Intn(len(severities))]

	var affected []string
	if n := len(region.ComponentIDs); n > 0 {
		k := 1 + s.rng.Intn(min(3, n))
		for _, i := range s.rng.Perm(n)[:k] {
			affected = append(affected, region.ComponentIDs[i])
		}
	}

	id, err := uuid.NewRandomFromReader(s.rng)
	if err != nil {
		id = uuid.New()
	}
	e := telemetry.Event{
		ID:            "evt-" + id.String()[:8],
		Type:          typ,
		Severity:      sev,
		RegionID:      regionID,
		Affected:      affected,
		Description:   fmt.Sprintf("%s in %s", typ.Description(), region.Name),
		Status:        telemetry.EventActive,
		StartTick:     tick,
		DurationTicks: uint64(3 + s.rng.Intn(30)),
		StartedAt:     now,
		Impact: map[string]float64{
			"health_factor":       severityFactor(sev),
			"affected_components": float64(len(affected)),
		},
	}
	factor := severityFactor(sev)
	for _, cid := range affected {
		p := s.store.components[cid]
		c := p.Load().Clone()
		c.Health = telemetry.Clamp(c.Health*factor, 0, 100)
		c.ActiveEvents = append(c.ActiveEvents, e.ID)
		c.LastUpdated = now
		p.Store(&c)
	}
	return e
}

func (s *Simulator) detachEvent(e telemetry.Event) {
	for _, cid := range e.Affected {
		p, ok := s.store.components[cid]
		if !ok {
			continue
		}
		c := p.Load().Clone()
		c.ActiveEvents = slices.DeleteFunc(c.ActiveEvents, func(id string) bool { return id == e.ID })
		p.Store(&c)
	}
}
