package compose

import (
	"fmt"
	"maps"
	"slices"

	"netintel-sim/internal/jobs"
	"netintel-sim/internal/scenario"
)

var (
	approvalLevels   = []string{"automatic", "supervised", "manual_approval"}
	rollbackPolicies = []string{"automatic", "manual", "time_based"}
)

// HealingCatalog lists the supported healing actions.
func (c *Composer) HealingCatalog() HealingActions {
	return HealingActions{Actions: slices.Clone(healingCatalog)}
}

// ExecuteHealing starts a healing workflow over existing components.
func (c *Composer) ExecuteHealing(req HealingRequest) (HealingResponse, error) {
	action, ok := healingAction(req.ActionType)
	if !ok {
		return HealingResponse{}, invalid("unknown action_type %q", req.ActionType)
	}
	if len(req.TargetComponents) == 0 {
		return HealingResponse{}, invalid("target_components must not be empty")
	}
	if req.ApprovalLevel == "" {
		req.ApprovalLevel = "supervised"
	}
	if !slices.Contains(approvalLevels, req.ApprovalLevel) {
		return HealingResponse{}, invalid("approval_level %q must be one of %v", req.ApprovalLevel, approvalLevels)
	}
	if req.RollbackPolicy == "" {
		req.RollbackPolicy = "time_based"
	}
	if !slices.Contains(rollbackPolicies, req.RollbackPolicy) {
		return HealingResponse{}, invalid("rollback_policy %q must be one of %v", req.RollbackPolicy, rollbackPolicies)
	}
	for _, id := range req.TargetComponents {
		if _, err := c.component(id); err != nil {
			return HealingResponse{}, err
		}
	}

	j := c.tracker.Create(jobs.Spec{
		Kind:    jobs.HealingAction,
		Targets: req.TargetComponents,
		Steps:   healingSteps[action.ActionType],
		Params: map[string]any{
			"action_type":     action.ActionType,
			"approval_level":  req.ApprovalLevel,
			"rollback_policy": req.RollbackPolicy,
			"risk_level":      action.RiskLevel,
			"parameters":      maps.Clone(req.Parameters),
		},
	})
	return HealingResponse{
		ActionID:            j.ID,
		WorkflowID:          j.ID,
		Status:              j.Status,
		ApprovalRequired:    req.ApprovalLevel == "manual_approval" || c.networkTag() == scenario.Critical,
		EstimatedCompletion: c.estimate(j),
		Steps:               j.Steps,
	}, nil
}

// Workflows lists healing and rollback workflows, newest first.
func (c *Composer) Workflows() Workflows {
	out := Workflows{Workflows: []WorkflowSummary{}}
	for _, j := range c.tracker.List("") {
		if !isWorkflow(j) {
			continue
		}
		out.Workflows = append(out.Workflows, WorkflowSummary{
			WorkflowID:          j.ID,
			ActionType:          actionType(j),
			Status:              j.Status,
			Progress:            j.Progress,
			StartedAt:           j.StartedAt,
			EstimatedCompletion: c.estimate(j),
		})
	}
	out.TotalCount = len(out.Workflows)
	return out
}

// Workflow returns the step-level state of one workflow.
func (c *Composer) Workflow(id string) (WorkflowDetails, error) {
	j, err := c.job(id)
	if err != nil {
		return WorkflowDetails{}, err
	}
	if !isWorkflow(j) {
		return WorkflowDetails{}, fmt.Errorf("%w: workflow %q", ErrNotFound, id)
	}
	meta := map[string]any{
		"action_type":          actionType(j),
		"target_components":    j.Targets,
		"created_by":           "self-healing-engine",
		"created_at":           j.CreatedAt,
		"estimated_completion": c.estimate(j),
	}
	for _, k := range []string{"approval_level", "rollback_policy"} {
		if v, ok := j.Params[k]; ok {
			meta[k] = v
		}
	}
	if v, ok := j.Params["risk_level"]; ok {
		meta["priority"] = v
	}
	if j.RelatedID != "" {
		meta["original_action_id"] = j.RelatedID
	}
	return WorkflowDetails{
		WorkflowID: j.ID,
		Status:     j.Status,
		Progress:   j.Progress,
		Steps:      j.Steps,
		Metadata:   meta,
		Error:      j.Error,
	}, nil
}

// Rollback starts a rollback workflow for a previously started healing action.
func (c *Composer) Rollback(actionID string) (RollbackResponse, error) {
	orig, err := c.job(actionID)
	if err != nil {
		return RollbackResponse{}, err
	}
	if orig.Kind != jobs.HealingAction {
		return RollbackResponse{}, fmt.Errorf("%w: healing action %q", ErrNotFound, actionID)
	}
	j := c.tracker.Create(jobs.Spec{
		Kind:      jobs.Rollback,
		Targets:   orig.Targets,
		Steps:     rollbackSteps,
		RelatedID: orig.ID,
		Params:    map[string]any{"action_type": "rollback"},
		NeverFail: true,
	})
	return RollbackResponse{
		RollbackID:          j.ID,
		OriginalActionID:    orig.ID,
		Status:              j.Status,
		EstimatedCompletion: c.estimate(j),
	}, nil
}

func isWorkflow(j jobs.Job) bool {
	return j.Kind == jobs.HealingAction || j.Kind == jobs.Rollback
}

func actionType(j jobs.Job) string {
	if s, ok := j.Params["action_type"].(string); ok {
		return s
	}
	return string(j.Kind)
}
