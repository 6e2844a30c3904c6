package investigation

import "fmt"

// ActionType names an investigation action.
type ActionType string

const (
	ActionVisitScene      ActionType = "visit_scene"
	ActionInterview       ActionType = "interview"
	ActionRequestCCTV     ActionType = "request_cctv"
	ActionSubmitForensics ActionType = "submit_forensics"
	ActionSetHypothesis   ActionType = "set_hypothesis"
	ActionArrest          ActionType = "arrest"
	ActionOperation       ActionType = "operation"
)

// ActionTypes lists every action type.
var ActionTypes = []ActionType{
	ActionVisitScene,
	ActionInterview,
	ActionRequestCCTV,
	ActionSubmitForensics,
	ActionSetHypothesis,
	ActionArrest,
	ActionOperation,
}

// ParseAction converts a name into an ActionType.
func ParseAction(s string) (ActionType, error) {
	for _, a := range ActionTypes {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown action %q", s)
}

// Cost is what an action spends.
type Cost struct {
	Time              int
	Pressure          int
	CooperationChange float64
}

// Costs per action.
var Costs = map[ActionType]Cost{
	ActionVisitScene:      {Time: 1},
	ActionInterview:       {Time: 1, CooperationChange: -0.05},
	ActionRequestCCTV:     {Time: 1, Pressure: 1},
	ActionSubmitForensics: {Time: 2},
	ActionSetHypothesis:   {Time: 1},
	ActionArrest:          {Time: 1, Pressure: 2},
	ActionOperation:       {Time: 1},
}

// Default limits.
const (
	DefaultTimeLimit     = 8
	DefaultPressureLimit = 6
)

// Limits bounds the detective's budget.
type Limits struct {
	Time     int `json:"time" yaml:"time" mapstructure:"time" validate:"gt=0"`
	Pressure int `json:"pressure" yaml:"pressure" mapstructure:"pressure" validate:"gt=0"`
}

// DefaultLimits returns the standard budget.
func DefaultLimits() Limits {
	return Limits{Time: DefaultTimeLimit, Pressure: DefaultPressureLimit}
}

// Refusal reasons.
const (
	ReasonNoTime       = "No time left for that action."
	ReasonTooMuchHeat  = "Public heat is too high for that action."
	ReasonNoHypothesis = "No hypothesis submitted."
	ReasonCaseClosed   = "The case is already closed."
)

// exceeds reports whether spending c from st would break the limits, and why.
func (l Limits) exceeds(st State, c Cost) (bool, string) {
	if st.Time+c.Time > l.Time {
		return true, ReasonNoTime
	}
	if st.Pressure+c.Pressure > l.Pressure {
		return true, ReasonTooMuchHeat
	}
	return false, ""
}
