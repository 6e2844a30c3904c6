package presentation

import (
	"math"

	"github.com/roach88/noir/internal/domain"
	"github.com/roach88/noir/internal/rng"
)

// FuzzTime widens an exact time t into a window whose half-width is the
// integer magnitude of a gaussian draw with deviation sigma. The window
// never starts before 0.
func FuzzTime(t int, sigma float64, r *rng.Source) domain.TimeWindow {
	spread := int(math.Abs(r.Gauss(0, sigma)))
	return domain.TimeWindow{Start: max(0, t-spread), End: t + spread}
}

// MaybeOmit reports whether an item should be dropped, with probability p.
func MaybeOmit(p float64, r *rng.Source) bool {
	return r.Chance(p)
}

// ConfidenceFromWindow grades a window by its spread: up to 1 tick is
// strong, up to 3 is medium, anything wider is weak.
func ConfidenceFromWindow(w domain.TimeWindow) domain.ConfidenceBand {
	switch spread := w.Spread(); {
	case spread <= 1:
		return domain.ConfidenceStrong
	case spread <= 3:
		return domain.ConfidenceMedium
	}
	return domain.ConfidenceWeak
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Decayed returns the degraded form an item takes once the lead that would
// have surfaced it goes cold. Sightings are lost and confidence drops to weak.
func (it Item) Decayed() Item {
	out := it.Clone()
	out.Confidence = domain.ConfidenceWeak
	switch {
	case out.Witness != nil:
		out.Witness.ObservedPersonIDs = nil
		out.Witness.Statement = "I remember someone near the scene, but the details are gone now."
	case out.CCTV != nil:
		out.CCTV.ObservedPersonIDs = nil
		out.Summary = "CCTV report (partial)"
	case out.Forensics != nil:
		out.Summary = "Forensics result (inconclusive)"
		out.Forensics.MethodCategory = string(domain.MethodUnknown)
		out.Forensics.Finding = "The lab could not reach a firm conclusion."
	case out.Observation != nil:
		out.Summary = "Forensic observation (inconclusive)"
		out.Observation.Observation = "The observation is too degraded to support a clear conclusion."
	}
	return out
}
