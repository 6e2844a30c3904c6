package harness

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/roach88/noir/internal/deduction"
	"github.com/roach88/noir/internal/investigation"
	"github.com/roach88/noir/internal/profiling"
	"github.com/roach88/noir/internal/world"
)

// StepResult records what one step did.
type StepResult struct {
	Index    int                         `json:"index"`
	Action   investigation.ActionType    `json:"action"`
	Outcome  investigation.ActionOutcome `json:"outcome"`
	Summary  string                      `json:"summary"`
	Revealed int                         `json:"revealed"`
	Notes    []string                    `json:"notes,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expect check holds.
	Pass bool `json:"pass"`

	Scenario    string `json:"scenario"`
	CaseID      string `json:"case_id"`
	Seed        int64  `json:"seed"`
	Fingerprint string `json:"fingerprint"`

	Steps         []StepResult          `json:"steps"`
	Known         []uuid.UUID           `json:"known"`
	EvidenceTypes []string              `json:"evidence_types"`
	State         investigation.State   `json:"state"`
	Limits        investigation.Limits  `json:"limits"`
	Validation    *deduction.Validation `json:"validation,omitempty"`
	Arrest        *deduction.Outcome    `json:"arrest,omitempty"`

	// Profile reads the evidence collected by the end of the run.
	Profile profiling.Summary `json:"profile"`
	// Briefing holds the campaign context lines the case opened with.
	Briefing []string `json:"briefing,omitempty"`
	// WorldNotes report district and location shifts after a campaign case.
	WorldNotes []string `json:"world_notes,omitempty"`

	// Errors contains failed expect checks. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(scenario, caseID string, seed int64) *Result {
	return &Result{
		Pass:     true,
		Scenario: scenario,
		CaseID:   caseID,
		Seed:     seed,
		Steps:    []StepResult{},
		Errors:   []string{},
	}
}

// CampaignResult is the outcome of consecutive cases sharing one world.
type CampaignResult struct {
	// Pass is true when every case passed.
	Pass  bool         `json:"pass"`
	Cases []*Result    `json:"cases"`
	World *world.State `json:"world"`
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

func (r *Result) addStep(index int, res investigation.ActionResult) {
	r.Steps = append(r.Steps, StepResult{
		Index:    index,
		Action:   res.Action,
		Outcome:  res.Outcome,
		Summary:  res.Summary,
		Revealed: len(res.Revealed),
		Notes:    res.Notes,
	})
}

// AssertionError is returned when an expect check fails.
// It includes the step log to help debug the failure.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Steps    []StepResult
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	fmt.Fprintf(&buf, "\nSteps:\n")
	for _, s := range e.Steps {
		fmt.Fprintf(&buf, "  [%d] %s %s: %s\n", s.Index+1, s.Action, s.Outcome, s.Summary)
	}
	return buf.String()
}
