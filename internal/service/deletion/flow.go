package deletion

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/devtogether/platform-api/internal/model"
	apperrors "github.com/devtogether/platform-api/pkg/errors"
)

// FlowState is one step of the confirmation wizard. The flow is owned here so
// a UI can only render the current state and dispatch events; it cannot skip
// the reason-entry step before a destructive action.
type FlowState string

const (
	FlowAnalysis     FlowState = "analysis"
	FlowConfirmation FlowState = "confirmation"
	FlowReasonEntry  FlowState = "reason_entry"
	FlowProcessing   FlowState = "processing"
	FlowResult       FlowState = "result"
)

// Flow drives one deletion from analysis through result.
type Flow struct {
	analyzer *Analyzer
	executor *Executor

	state      FlowState
	targetType model.DeletionTarget
	targetID   uuid.UUID
	analysis   *model.DeletionAnalysis
	reason     string
	result     *model.DeletionResult
}

// NewFlow builds a wizard for one candidate deletion. Interactive surfaces
// embed it to drive the step sequence; the stateless HTTP endpoints call the
// analyzer and executor directly, and the executor independently re-validates
// the reason and the admin role, so skipping the wizard never weakens the
// guarantees.
func NewFlow(analyzer *Analyzer, executor *Executor, targetType model.DeletionTarget, targetID uuid.UUID) *Flow {
	return &Flow{
		analyzer:   analyzer,
		executor:   executor,
		state:      FlowAnalysis,
		targetType: targetType,
		targetID:   targetID,
	}
}

// State returns the current wizard state.
func (f *Flow) State() FlowState { return f.state }

// Analysis returns the impact report once computed.
func (f *Flow) Analysis() *model.DeletionAnalysis { return f.analysis }

// Result returns the execution outcome once available.
func (f *Flow) Result() *model.DeletionResult { return f.result }

func (f *Flow) illegalEvent(event string) error {
	return apperrors.Validationf("cannot %s while in the %s step", event, f.state)
}

// Analyze computes the impact report and advances to confirmation. A blocked
// analysis (missing target, failed query) keeps the flow in the analysis
// state: the operator must not be allowed to delete blind.
func (f *Flow) Analyze(ctx context.Context) (*model.DeletionAnalysis, error) {
	if f.state != FlowAnalysis {
		return nil, f.illegalEvent("analyze")
	}
	analysis, err := f.analyzer.Analyze(ctx, f.targetType, f.targetID)
	if err != nil {
		return nil, err
	}
	f.analysis = analysis
	f.state = FlowConfirmation
	return analysis, nil
}

// Confirm acknowledges the impact report and advances to reason entry.
func (f *Flow) Confirm() error {
	if f.state != FlowConfirmation {
		return f.illegalEvent("confirm")
	}
	f.state = FlowReasonEntry
	return nil
}

// SubmitReason records the operator-supplied reason. A blank reason is a
// validation error and the flow stays in reason entry.
func (f *Flow) SubmitReason(reason string) error {
	if f.state != FlowReasonEntry {
		return f.illegalEvent("submit a reason")
	}
	if strings.TrimSpace(reason) == "" {
		return apperrors.Validation("a deletion reason is required")
	}
	f.reason = reason
	f.state = FlowProcessing
	return nil
}

// Execute runs the deletion and advances to result. The executor recomputes
// its own fresh analysis; the one shown to the operator is display-only.
func (f *Flow) Execute(ctx context.Context, actingAdminID uuid.UUID) (*model.DeletionResult, error) {
	if f.state != FlowProcessing {
		return nil, f.illegalEvent("execute")
	}
	result, err := f.executor.Execute(ctx, actingAdminID, f.targetType, f.targetID, f.reason)
	if err != nil {
		return nil, err
	}
	f.result = result
	f.state = FlowResult
	return result, nil
}
