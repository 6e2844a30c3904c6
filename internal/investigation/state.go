package investigation

import "github.com/roach88/noir/internal/deduction"

// Initial standing of a fresh investigation.
const (
	InitialTrust       = 3
	InitialCooperation = 1.0
)

// State is the detective's budget and standing.
type State struct {
	Time        int     `json:"time"`
	Pressure    int     `json:"pressure"`
	Trust       int     `json:"trust"`
	Cooperation float64 `json:"cooperation"`
	// Spook is how alerted the offender is by visible operations.
	Spook int `json:"spook"`
}

// NewState returns the standing at the start of a case.
func NewState() State {
	return State{Trust: InitialTrust, Cooperation: InitialCooperation}
}

func (st *State) spend(c Cost) {
	st.Time += c.Time
	st.Pressure += c.Pressure
	st.Cooperation = max(0, min(1, st.Cooperation+c.CooperationChange))
}

// applyOutcome adjusts trust and pressure after an arrest and starts the
// clock over for the next case.
func (st *State) applyOutcome(o deduction.Outcome, limits Limits) {
	next := o.Apply(deduction.Standing{Trust: st.Trust, Pressure: st.Pressure}, limits.Pressure)
	st.Trust = next.Trust
	st.Pressure = next.Pressure
	st.Time = 0
}

// applyOperation adjusts standing after an operation. Trust stays within
// [0, deduction.TrustLimit] and pressure within [0, limits.Pressure].
func (st *State) applyOperation(o deduction.OperationOutcome, limits Limits) {
	st.Trust = max(0, min(deduction.TrustLimit, st.Trust+o.TrustDelta))
	st.Pressure = max(0, min(limits.Pressure, st.Pressure+o.PressureDelta))
	st.Spook += o.SpookDelta
}
