package investigation

import (
	"github.com/google/uuid"

	"github.com/roach88/noir/internal/deduction"
	"github.com/roach88/noir/internal/presentation"
)

// ActionOutcome is the immediate result of an action.
type ActionOutcome string

const (
	OutcomeSuccess  ActionOutcome = "success"
	OutcomeFailure  ActionOutcome = "failure"
	OutcomeNoEffect ActionOutcome = "no_effect"
)

// ActionResult reports what an action did.
// A refused action has OutcomeFailure, a reason in Summary and zero costs.
type ActionResult struct {
	Action            ActionType          `json:"action"`
	Outcome           ActionOutcome       `json:"outcome"`
	Summary           string              `json:"summary"`
	TimeCost          int                 `json:"time_cost"`
	PressureCost      int                 `json:"pressure_cost"`
	CooperationChange float64             `json:"cooperation_change"`
	EventID           uuid.UUID           `json:"event_id,omitzero"`
	Revealed          []presentation.Item `json:"revealed,omitempty"`
	Notes             []string            `json:"notes,omitempty"`

	// Response is what an interview subject said.
	Response  string                      `json:"response,omitempty"`
	Interview *Interview                  `json:"interview,omitempty"`
	Operation *deduction.OperationOutcome `json:"operation,omitempty"`

	Validation *deduction.Validation `json:"validation,omitempty"`
	Arrest     *deduction.Outcome    `json:"arrest,omitempty"`
}

func refused(action ActionType, reason string) ActionResult {
	return ActionResult{Action: action, Outcome: OutcomeFailure, Summary: reason}
}

// Request is a serializable action invocation.
// Target is the person for interview, the item for submit_forensics
// (optional), the suspect for set_hypothesis and the optional target person
// of an operation. Evidence is cited by set_hypothesis and operation.
type Request struct {
	Action    ActionType              `json:"action"`
	Target    uuid.UUID               `json:"target,omitzero"`
	Claims    []deduction.ClaimType   `json:"claims,omitempty"`
	Evidence  []uuid.UUID             `json:"evidence,omitempty"`
	Approach  InterviewApproach       `json:"approach,omitempty"`
	Theme     InterviewTheme          `json:"theme,omitempty"`
	Operation deduction.OperationType `json:"operation,omitempty"`
	Warrant   deduction.WarrantType   `json:"warrant,omitempty"`
}
