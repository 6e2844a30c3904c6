package harness

import (
	"bytes"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roach88/noir/internal/deduction"
	"github.com/roach88/noir/internal/investigation"
	"github.com/roach88/noir/internal/validate"
)

// Scenario defines a scripted investigation.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name" validate:"required"`

	// Description explains what this scenario demonstrates.
	Description string `yaml:"description,omitempty"`

	// Seed generates the case.
	Seed int64 `yaml:"seed"`

	// CaseID overrides the default case id derived from the seed.
	CaseID string `yaml:"case_id,omitempty"`

	// DeadlineDelta shortens every lead deadline.
	DeadlineDelta int `yaml:"deadline_delta,omitempty" validate:"gte=0"`

	// Limits overrides the default budget when set.
	Limits *investigation.Limits `yaml:"limits,omitempty"`

	// Standing opens the case with carried-over trust and pressure.
	// Campaign runs replace it with the world standing.
	Standing *Standing `yaml:"standing,omitempty"`

	// Steps are the actions to take, in order.
	Steps []Step `yaml:"steps" validate:"required,min=1,dive"`

	// Expect is checked after the last step.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Standing is the detective's position when the case opens.
type Standing struct {
	Trust       int     `yaml:"trust" validate:"gte=0,lte=6"`
	Pressure    int     `yaml:"pressure" validate:"gte=0"`
	Cooperation float64 `yaml:"cooperation" validate:"gte=0,lte=1"`
}

// State converts the standing into a session state.
func (s Standing) State() investigation.State {
	return investigation.State{Trust: s.Trust, Pressure: s.Pressure, Cooperation: s.Cooperation}
}

// Step is one investigation action.
type Step struct {
	Action    string   `yaml:"action" validate:"required,action"`
	Target    string   `yaml:"target,omitempty" validate:"required_if=Action interview,required_if=Action set_hypothesis,required_if=Action operation"`
	Claims    []string `yaml:"claims,omitempty" validate:"required_if=Action set_hypothesis,max=3,unique,dive,claim"`
	Evidence  []string `yaml:"evidence,omitempty" validate:"required_if=Action set_hypothesis"`
	Approach  string   `yaml:"approach,omitempty" validate:"approach"`
	Theme     string   `yaml:"theme,omitempty" validate:"required_if=Approach theme,theme"`
	Operation string   `yaml:"operation,omitempty" validate:"required_if=Action operation,operation"`
	Warrant   string   `yaml:"warrant,omitempty" validate:"required_if=Operation warrant,warrant"`
}

// Expect lists what must hold once the scenario finishes.
// Empty fields are not checked.
type Expect struct {
	Tier          string   `yaml:"tier,omitempty" validate:"omitempty,oneof=clean shaky failed"`
	Outcome       string   `yaml:"outcome,omitempty" validate:"omitempty,oneof=success partial failed"`
	EvidenceTypes []string `yaml:"evidence_types,omitempty" validate:"dive,oneof=testimonial forensics cctv"`
	// Reading is the profiling reading after the last step.
	Reading string `yaml:"reading,omitempty" validate:"omitempty,oneof=conflict pressure testimonial weak_trace commit open"`
}

// Target names.
const (
	TargetWitness  = "witness"
	TargetOffender = "offender"
	TargetVictim   = "victim"
	TargetWeapon   = "weapon"
)

// ClaimsSupported selects every claim the cited evidence supports.
const ClaimsSupported = "supported"

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or fails validation.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

var scenarioValidate = validate.New("yaml")

func init() {
	validate.Enum(scenarioValidate, "action", investigation.ParseAction)
	validate.Enum(scenarioValidate, "claim", func(c string) (deduction.ClaimType, error) {
		if c == ClaimsSupported {
			return "", nil
		}
		return deduction.ParseClaim(c)
	})
	validate.Enum(scenarioValidate, "approach", investigation.ParseApproach)
	validate.Enum(scenarioValidate, "theme", investigation.ParseTheme)
	validate.Enum(scenarioValidate, "operation", deduction.ParseOperation)
	validate.Enum(scenarioValidate, "warrant", deduction.ParseWarrant)
}

// validateScenario checks field rules through struct tags, then the rules
// that tie a step's fields to its action.
func validateScenario(s *Scenario) error {
	if err := scenarioValidate.Struct(s); err != nil {
		return validate.Describe(err)
	}
	for i, step := range s.Steps {
		action := investigation.ActionType(step.Action)
		if action != investigation.ActionSetHypothesis && len(step.Claims) > 0 {
			return fmt.Errorf("steps[%d]: claims only apply to set_hypothesis", i)
		}
		if action != investigation.ActionSetHypothesis && action != investigation.ActionOperation && len(step.Evidence) > 0 {
			return fmt.Errorf("steps[%d]: evidence only applies to set_hypothesis and operation", i)
		}
		if len(step.Claims) > 1 && slices.Contains(step.Claims, ClaimsSupported) {
			return fmt.Errorf("steps[%d]: %q cannot be combined with other claims", i, ClaimsSupported)
		}
		if action != investigation.ActionInterview && (step.Approach != "" || step.Theme != "") {
			return fmt.Errorf("steps[%d]: approach and theme only apply to interview", i)
		}
		if action != investigation.ActionOperation && (step.Operation != "" || step.Warrant != "") {
			return fmt.Errorf("steps[%d]: operation and warrant only apply to operation", i)
		}
	}
	return nil
}
