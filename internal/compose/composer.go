// Package compose turns simulator state into API response payloads.
package compose

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"netintel-sim/internal/jobs"
	"netintel-sim/internal/scenario"
	"netintel-sim/internal/sim"
	"netintel-sim/internal/telemetry"
)

var (
	// ErrNotFound marks an unknown region, component, workflow or job id.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRequest marks malformed scope or parameters.
	ErrInvalidRequest = errors.New("invalid request")
)

// Composer builds responses from simulator snapshots and scenario ranges.
// All randomness comes from one injected source, so output is reproducible
// for a given state, seed and clock.
type Composer struct {
	store   *sim.Store
	catalog *scenario.Catalog
	tracker *jobs.Tracker
	tick    time.Duration
	now     func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Composer.
type Option func(*Composer)

// WithClock injects the wall clock.
func WithClock(now func() time.Time) Option {
	return func(c *Composer) { c.now = now }
}

// WithTickInterval sets the period used to turn job ticks into completion estimates.
func WithTickInterval(d time.Duration) Option {
	return func(c *Composer) { c.tick = d }
}

// New returns a Composer reading from store and tracker.
func New(store *sim.Store, catalog *scenario.Catalog, tracker *jobs.Tracker, rng *rand.Rand, opts ...Option) *Composer {
	c := &Composer{
		store:   store,
		catalog: catalog,
		tracker: tracker,
		rng:     rng,
		tick:    5 * time.Second,
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// networkTag classifies the mean region score.
func (c *Composer) networkTag() scenario.Tag {
	return scenario.Classify(c.store.NetworkHealth(), c.store.Thresholds().Scenario)
}

// scopeTag classifies the mean score of the given regions.
func (c *Composer) scopeTag(regions []telemetry.Region) scenario.Tag {
	if len(regions) == 0 {
		return c.networkTag()
	}
	var sum float64
	for _, r := range regions {
		sum += r.Health
	}
	return scenario.Classify(sum/float64(len(regions)), c.store.Thresholds().Scenario)
}

func (c *Composer) region(id string) (telemetry.Region, error) {
	r, err := c.store.Region(id)
	if err != nil {
		return r, notFound(err)
	}
	return r, nil
}

func (c *Composer) component(id string) (telemetry.Component, error) {
	comp, err := c.store.Component(id)
	if err != nil {
		return comp, notFound(err)
	}
	return comp, nil
}

func (c *Composer) job(id string) (jobs.Job, error) {
	j, err := c.tracker.Get(id)
	if err != nil {
		return j, notFound(err)
	}
	return j, nil
}

// lookupError keeps the lower-layer message while matching ErrNotFound.
type lookupError struct{ err error }

func (e lookupError) Error() string        { return e.err.Error() }
func (e lookupError) Unwrap() error        { return e.err }
func (e lookupError) Is(target error) bool { return target == ErrNotFound }

func notFound(err error) error {
	if errors.Is(err, sim.ErrNotFound) || errors.Is(err, jobs.ErrNotFound) {
		return lookupError{err}
	}
	return err
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// The helpers below draw from c.rng; callers hold c.mu.

func (c *Composer) newID(prefix string, n int) string {
	u, err := uuid.NewRandomFromReader(c.rng)
	if err != nil {
		u = uuid.New()
	}
	s := strings.ReplaceAll(u.String(), "-", "")
	return prefix + "-" + s[:n]
}

func (c *Composer) draw(r scenario.Range, places int) float64 {
	return round(r.Draw(c.rng), places)
}

func (c *Composer) between(lo, hi float64) float64 {
	return lo + c.rng.Float64()*(hi-lo)
}

func (c *Composer) pick(list []string) string {
	return list[c.rng.Intn(len(list))]
}

// sample returns n distinct entries of list in random order.
func (c *Composer) sample(list []string, n int) []string {
	if n > len(list) {
		n = len(list)
	}
	idx := c.rng.Perm(len(list))[:n]
	out := make([]string, n)
	for i, k := range idx {
		out[i] = list[k]
	}
	return out
}

// estimate converts a job's finish tick into a wall-clock estimate.
func (c *Composer) estimate(j jobs.Job) time.Time {
	if j.FinishedAt != nil {
		return *j.FinishedAt
	}
	cur := c.tracker.Tick()
	var left uint64
	if j.FinishTick > cur {
		left = j.FinishTick - cur
	}
	return c.now().Add(time.Duration(left) * c.tick)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// splitList parses a comma separated query value.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
