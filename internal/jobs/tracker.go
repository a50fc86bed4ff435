// Package jobs tracks ephemeral asynchronous work on the simulation tick.
package jobs

import (
	"errors"
	"fmt"
	"maps"
	"math/rand"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"netintel-sim/internal/config"
)

// ErrNotFound is returned for unknown job ids.
var ErrNotFound = errors.New("job not found")

// Kind names the sort of work a job performs.
type Kind string

const (
	HealingAction  Kind = "healing_action"
	Rollback       Kind = "rollback"
	HealthForecast Kind = "health_forecast"
)

func (k Kind) prefix() string {
	switch k {
	case HealingAction:
		return "heal"
	case Rollback:
		return "rollback"
	case HealthForecast:
		return "forecast"
	}
	return "job"
}

// Status is the lifecycle state of a job.
type Status string

const (
	Pending   Status = "pending"
	Running   Status = "running"
	Completed Status = "completed"
	Failed    Status = "failed"
)

// Terminal reports whether no further transition can happen.
func (s Status) Terminal() bool {
	return s == Completed || s == Failed
}

// StepStatus is the state of one workflow step.
type StepStatus string

const (
	StepPending   StepStatus = "pending"
	StepRunning   StepStatus = "running"
	StepCompleted StepStatus = "completed"
	StepFailed    StepStatus = "failed"
	StepSkipped   StepStatus = "skipped"
)

// Step is one stage of a healing workflow.
type Step struct {
	ID          string     `json:"step_id"`
	Number      int        `json:"-"`
	Description string     `json:"description"`
	Status      StepStatus `json:"status"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Spec describes a job to create.
type Spec struct {
	Kind      Kind
	Targets   []string
	Steps     []string
	Params    map[string]any
	RelatedID string
	// Result is revealed once the job completes.
	Result map[string]any
	// FailureMessage is reported if the drawn outcome is a failure.
	FailureMessage string
	// NeverFail pins the outcome to completed.
	NeverFail bool
}

// Job is an immutable view of a tracked job.
type Job struct {
	ID          string         `json:"job_id"`
	Kind        Kind           `json:"kind"`
	Status      Status         `json:"status"`
	Progress    float64        `json:"progress"` // 0..1
	Targets     []string       `json:"target_components,omitempty"`
	Params      map[string]any `json:"parameters,omitempty"`
	RelatedID   string         `json:"related_id,omitempty"`
	Steps       []Step         `json:"steps,omitempty"`
	CreatedTick uint64         `json:"created_tick"`
	StartTick   uint64         `json:"start_tick"`
	FinishTick  uint64         `json:"finish_tick"`
	CreatedAt   time.Time      `json:"created_at"`
	StartedAt   *time.Time     `json:"started_at,omitempty"`
	FinishedAt  *time.Time     `json:"completed_at,omitempty"`
	Result      map[string]any `json:"result,omitempty"`
	Error       string         `json:"error,omitempty"`

	outcome        Status
	pendingResult  map[string]any
	failureMessage string
}

// Clone returns a deep copy.
func (j Job) Clone() Job {
	j.Targets = slices.Clone(j.Targets)
	j.Params = maps.Clone(j.Params)
	j.Steps = slices.Clone(j.Steps)
	j.Result = maps.Clone(j.Result)
	return j
}

// Hook runs once when a job reaches a terminal state.
type Hook func(Job)

// Tracker schedules jobs against the simulation tick. Records are immutable
// values behind atomic pointers; the id index only ever grows.
type Tracker struct {
	jobs  sync.Map // id -> *atomic.Pointer[Job]
	tick  atomic.Uint64
	now   func() time.Time
	cfg   config.JobsConfig
	mu    sync.Mutex
	rng   *rand.Rand
	order []string
	hooks []Hook
}

// NewTracker returns a tracker drawing schedules and outcomes from rng.
func NewTracker(cfg config.JobsConfig, rng *rand.Rand, now func() time.Time) *Tracker {
	if cfg.MinRunTicks == 0 {
		cfg.MinRunTicks = 1
	}
	if cfg.MaxRunTicks < cfg.MinRunTicks {
		cfg.MaxRunTicks = cfg.MinRunTicks
	}
	return &Tracker{cfg: cfg, rng: rng, now: now}
}

// OnFinish registers fn to run once per job when it completes or fails.
func (t *Tracker) OnFinish(fn Hook) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hooks = append(t.hooks, fn)
}

// Create schedules a new job at the current tick.
func (t *Tracker) Create(spec Spec) Job {
	t.mu.Lock()
	tick := t.tick.Load()
	start := tick + t.cfg.StartDelay
	run := t.cfg.MinRunTicks + uint64(t.rng.Int63n(int64(t.cfg.MaxRunTicks-t.cfg.MinRunTicks+1)))
	outcome := Completed
	if !spec.NeverFail && t.rng.Float64() < t.cfg.FailureRate {
		outcome = Failed
	}
	u, err := uuid.NewRandomFromReader(t.rng)
	if err != nil {
		u = uuid.New()
	}
	steps := make([]Step, len(spec.Steps))
	for i, d := range spec.Steps {
		steps[i] = Step{ID: fmt.Sprintf("step-%d", i+1), Number: i + 1, Description: d, Status: StepPending}
	}
	j := Job{
		ID:             fmt.Sprintf("%s-%s", spec.Kind.prefix(), u.String()[:12]),
		Kind:           spec.Kind,
		Status:         Pending,
		Targets:        slices.Clone(spec.Targets),
		Params:         maps.Clone(spec.Params),
		RelatedID:      spec.RelatedID,
		Steps:          steps,
		CreatedTick:    tick,
		StartTick:      start,
		FinishTick:     start + run,
		CreatedAt:      t.now(),
		outcome:        outcome,
		pendingResult:  maps.Clone(spec.Result),
		failureMessage: spec.FailureMessage,
	}
	if start <= tick {
		started := j.CreatedAt
		j.Status = Running
		j.StartedAt = &started
		advanceSteps(j.Steps, 0, started)
	}
	if j.failureMessage == "" {
		j.failureMessage = "execution failed"
	}
	p := &atomic.Pointer[Job]{}
	p.Store(&j)
	t.jobs.Store(j.ID, p)
	t.order = append(t.order, j.ID)
	t.mu.Unlock()
	return j.Clone()
}

// Get returns a copy of the job.
func (t *Tracker) Get(id string) (Job, error) {
	v, ok := t.jobs.Load(id)
	if !ok {
		return Job{}, fmt.Errorf("%q: %w", id, ErrNotFound)
	}
	return v.(*atomic.Pointer[Job]).Load().Clone(), nil
}

// List returns copies of jobs of kind, newest first. An empty kind lists all jobs.
func (t *Tracker) List(kind Kind) []Job {
	t.mu.Lock()
	ids := slices.Clone(t.order)
	t.mu.Unlock()
	out := make([]Job, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		j, err := t.Get(ids[i])
		if err != nil {
			continue
		}
		if kind == "" || j.Kind == kind {
			out = append(out, j)
		}
	}
	return out
}

// Tick returns the last tick seen by Advance.
func (t *Tracker) Tick() uint64 {
	return t.tick.Load()
}

// Advance moves every job forward to tick. Terminal jobs are left untouched;
// finish hooks run after all records are updated.
func (t *Tracker) Advance(tick uint64) {
	t.mu.Lock()
	if tick < t.tick.Load() {
		t.mu.Unlock()
		return
	}
	t.tick.Store(tick)
	ids := slices.Clone(t.order)
	hooks := slices.Clone(t.hooks)
	now := t.now()
	var finished []Job
	for _, id := range ids {
		v, _ := t.jobs.Load(id)
		p := v.(*atomic.Pointer[Job])
		cur := p.Load()
		if cur.Status.Terminal() {
			continue
		}
		next := step(cur.Clone(), tick, now)
		p.Store(&next)
		if next.Status.Terminal() {
			finished = append(finished, next.Clone())
		}
	}
	t.mu.Unlock()
	for _, j := range finished {
		for _, h := range hooks {
			h(j)
		}
	}
}

// step derives the job state at tick from its fixed schedule.
func step(j Job, tick uint64, now time.Time) Job {
	if tick < j.StartTick {
		return j
	}
	if j.Status == Pending {
		j.Status = Running
		started := now
		j.StartedAt = &started
	}
	total := j.FinishTick - j.StartTick
	elapsed := tick - j.StartTick
	if elapsed >= total {
		finished := now
		j.FinishedAt = &finished
		j.Status = j.outcome
		if j.outcome == Completed {
			j.Progress = 1
			j.Result = maps.Clone(j.pendingResult)
		} else {
			j.Error = j.failureMessage
		}
		finishSteps(j.Steps, j.outcome, now)
		return j
	}
	j.Progress = float64(elapsed) / float64(total)
	advanceSteps(j.Steps, int(float64(len(j.Steps))*float64(elapsed)/float64(total)), now)
	return j
}

func advanceSteps(steps []Step, done int, now time.Time) {
	for i := range steps {
		switch {
		case i < done && steps[i].Status != StepCompleted:
			if steps[i].StartedAt == nil {
				steps[i].StartedAt = &now
			}
			steps[i].Status = StepCompleted
			steps[i].CompletedAt = &now
		case i == done && steps[i].Status == StepPending:
			steps[i].Status = StepRunning
			steps[i].StartedAt = &now
		}
	}
}

func finishSteps(steps []Step, outcome Status, now time.Time) {
	if outcome == Completed {
		advanceSteps(steps, len(steps), now)
		return
	}
	failedAt := -1
	for i := range steps {
		if steps[i].Status == StepRunning || steps[i].Status == StepPending {
			failedAt = i
			break
		}
	}
	for i := range steps {
		switch {
		case i == failedAt:
			steps[i].Status = StepFailed
			steps[i].CompletedAt = &now
		case i > failedAt && failedAt >= 0:
			steps[i].Status = StepSkipped
		}
	}
}
