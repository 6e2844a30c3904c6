package deduction

// ArrestResult is the institutional verdict on an arrest.
type ArrestResult string

const (
	ArrestSuccess ArrestResult = "success"
	ArrestPartial ArrestResult = "partial"
	ArrestFailed  ArrestResult = "failed"
)

// TrustLimit caps institutional trust.
const TrustLimit = 6

// Outcome is the consequence of an arrest for the detective's standing.
type Outcome struct {
	Result        ArrestResult `json:"result"`
	TrustDelta    int          `json:"trust_delta"`
	PressureDelta int          `json:"pressure_delta"`
	Notes         []string     `json:"notes"`
}

// ResolveOutcome maps a validation to its outcome.
func ResolveOutcome(v Validation) Outcome {
	switch {
	case v.CorrectSuspect && v.Tier == TierClean:
		return Outcome{
			Result:        ArrestSuccess,
			TrustDelta:    1,
			PressureDelta: -1,
			Notes:         []string{"Command is satisfied with the charge."},
		}
	case v.CorrectSuspect && v.Tier == TierShaky:
		return Outcome{
			Result:        ArrestPartial,
			TrustDelta:    0,
			PressureDelta: 1,
			Notes:         []string{"The case is right, but the support is thin."},
		}
	}
	return Outcome{
		Result:        ArrestFailed,
		TrustDelta:    -1,
		PressureDelta: 2,
		Notes:         []string{"Command sees this as a weak or misdirected arrest."},
	}
}

// Standing is the institutional position an outcome adjusts.
type Standing struct {
	Trust    int `json:"trust"`
	Pressure int `json:"pressure"`
}

// Apply returns s adjusted by o, with trust clamped to [0, TrustLimit] and
// pressure clamped to [0, pressureLimit].
func (o Outcome) Apply(s Standing, pressureLimit int) Standing {
	return Standing{
		Trust:    clampInt(s.Trust+o.TrustDelta, 0, TrustLimit),
		Pressure: clampInt(s.Pressure+o.PressureDelta, 0, pressureLimit),
	}
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
