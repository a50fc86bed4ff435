package main

import (
	"log/slog"

	"netintel-sim/internal/jobs"
	"netintel-sim/internal/sim"
)

// wireHealing restores the target components of every healing action that
// completes. Failed healing and rollbacks leave the network untouched.
func wireHealing(s *sim.Simulator, tracker *jobs.Tracker, log *slog.Logger) {
	tracker.OnFinish(func(j jobs.Job) {
		if j.Kind != jobs.HealingAction || j.Status != jobs.Completed {
			return
		}
		if err := s.Restore(j.Targets); err != nil {
			log.Warn("restore after healing failed", "job_id", j.ID, "error", err)
			return
		}
		log.Info("healing applied", "job_id", j.ID, "targets", len(j.Targets))
	})
}
