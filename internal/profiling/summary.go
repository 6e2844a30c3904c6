// Package profiling reads the shape of what the detective has collected and
// turns it into a short advisory: the working frame, where to shift focus
// and what the current position risks.
//
// The summary never names a suspect. It describes the evidence mix, the
// timeline and the budget, so it can be shown at any point of a case.
package profiling

import (
	"github.com/roach88/noir/internal/deduction"
	"github.com/roach88/noir/internal/domain"
	"github.com/roach88/noir/internal/investigation"
	"github.com/roach88/noir/internal/presentation"
)

// Reading names which situation a summary describes.
type Reading string

const (
	ReadingConflict    Reading = "conflict"
	ReadingPressure    Reading = "pressure"
	ReadingTestimonial Reading = "testimonial"
	ReadingWeakTrace   Reading = "weak_trace"
	ReadingCommit      Reading = "commit"
	ReadingOpen        Reading = "open"
)

// Summary is a profiling advisory.
type Summary struct {
	Reading      Reading  `json:"reading"`
	WorkingFrame []string `json:"working_frame"`
	FocusShifts  []string `json:"focus_shifts"`
	RiskNotes    []string `json:"risk_notes"`
}

// Input is what a summary is built from.
type Input struct {
	Known      []presentation.Item
	State      investigation.State
	Limits     investigation.Limits
	Hypothesis *deduction.Hypothesis
	// Context lines lead the working frame, such as a campaign briefing.
	Context []string
}

// Build selects the first reading that applies, in order: a timeline
// conflict under a hypothesis, budget pressure, a testimony-only file,
// weak physical traces, a pending arrest, and finally the open case.
func Build(in Input) Summary {
	testimonial, physical, weakPhysical := mix(in.Known)
	conflict := in.Hypothesis != nil && temporalConflict(in.Known)
	underPressure := in.State.Pressure >= max(1, in.Limits.Pressure-1)
	lowTime := in.State.Time >= max(1, in.Limits.Time-2)

	var s Summary
	switch {
	case conflict:
		s = Summary{
			Reading: ReadingConflict,
			WorkingFrame: []string{
				"Current supports do not cohere; contradictions increase interpretive risk.",
				"The case contains competing readings that cannot be collapsed yet.",
			},
			FocusShifts: []string{
				"Prioritise resolving the contradiction before expanding scope.",
				"Check whether the conflict is source failure rather than event failure.",
				"Prefer constraints that do not share the same failure mode.",
			},
			RiskNotes: []string{
				"Additional evidence of the same kind will not resolve the split.",
				"An arrest under contradiction will almost always degrade outcomes.",
			},
		}
	case underPressure || lowTime:
		s = Summary{
			Reading: ReadingPressure,
			WorkingFrame: []string{
				"Pressure is shaping what you can still learn, not what is true.",
				"Time limits are beginning to function as evidence erosion.",
			},
			FocusShifts: []string{
				"Front-load the most perishable leads.",
				"Choose one corroboration pillar and pursue it fully.",
				"Avoid actions that spike pressure unless you are prepared to commit early.",
			},
			RiskNotes: []string{
				"Waiting may reduce clarity rather than increase it.",
				"A faster commitment is viable, but consequences will carry.",
			},
		}
	case testimonial > 0 && physical == 0:
		s = Summary{
			Reading: ReadingTestimonial,
			WorkingFrame: []string{
				"Current reads are constrained by testimony and memory-dependent detail.",
				"Most supports currently describe proximity, not linkage.",
			},
			FocusShifts: []string{
				"Prioritise non-testimonial corroboration of presence.",
				"Seek a constraint that survives cross-checking: access, movement, or artifacts.",
				"Treat additional interviews as diminishing returns unless they add contradiction.",
			},
			RiskNotes: []string{
				"Without independent support, any commitment remains vulnerable to reversal.",
				"More statements may add volume, not certainty.",
			},
		}
	case physical > 0 && weakPhysical:
		s = Summary{
			Reading: ReadingWeakTrace,
			WorkingFrame: []string{
				"Physical traces are present, but they do not yet anchor to a person or route.",
				"Artifacts suggest contact, but attribution remains open.",
			},
			FocusShifts: []string{
				"Convert trace into linkage: ownership, access, opportunity, or transfer path.",
				"Use timeline constraints to test feasibility rather than searching for more traces.",
				"Avoid over-committing to a single interpretation of weak physical evidence.",
			},
			RiskNotes: []string{
				"A clean narrative cannot be built from weak artifacts alone.",
				"This line can strengthen quickly with one corroborating constraint.",
			},
		}
	case in.Hypothesis != nil:
		s = Summary{
			Reading: ReadingCommit,
			WorkingFrame: []string{
				"Your working hypothesis has supports, but relies on one pillar more than corroboration.",
				"The current case shape allows commitment, but not closure.",
			},
			FocusShifts: []string{
				"If committing now, choose the narrowest claim you can defend.",
				"If delaying, prioritise a single corroboration action rather than broad searching.",
				"Avoid taking one more action unless it adds a different evidence class.",
			},
			RiskNotes: []string{
				"This arrest will be judged on coherence, not quantity.",
				"A clean outcome typically requires at least two independent pillars.",
			},
		}
	default:
		s = Summary{
			Reading: ReadingOpen,
			WorkingFrame: []string{
				"Available information reduces the space of possibilities, but does not settle attribution.",
			},
			FocusShifts: []string{
				"Prioritise corroboration from a different evidence class.",
				"Resolve the time window before committing to an arrest.",
				"Look for contradictions rather than additional detail from the same source.",
			},
			RiskNotes: []string{
				"This approach remains sensitive to missing corroboration.",
			},
		}
	}
	if len(in.Context) > 0 {
		s.WorkingFrame = append(append([]string{}, in.Context...), s.WorkingFrame...)
	}
	return s
}

// FromSession builds a summary of the session's current position.
func FromSession(s *investigation.Session, context []string) Summary {
	in := Input{
		Known:   s.Known(),
		State:   s.State(),
		Limits:  s.Limits(),
		Context: context,
	}
	if h, ok := s.Hypothesis(); ok {
		in.Hypothesis = &h
	}
	return Build(in)
}

// mix counts testimonial and physical items. CCTV counts as testimony
// because it reports sightings, not traces.
func mix(items []presentation.Item) (testimonial, physical int, weakPhysical bool) {
	for _, it := range items {
		switch it.Type {
		case domain.EvidenceTestimonial, domain.EvidenceCCTV:
			testimonial++
		case domain.EvidenceForensics:
			physical++
			if it.Forensics != nil && it.Confidence == domain.ConfidenceWeak {
				weakPhysical = true
			}
		}
	}
	return testimonial, physical, weakPhysical
}

// temporalConflict reports whether the reported witness and camera windows
// cannot all be true at once.
func temporalConflict(items []presentation.Item) bool {
	var windows []domain.TimeWindow
	for _, it := range items {
		switch {
		case it.Witness != nil:
			windows = append(windows, it.Witness.ReportedWindow)
		case it.CCTV != nil:
			windows = append(windows, it.CCTV.Window)
		}
	}
	if len(windows) < 2 {
		return false
	}
	start, end := windows[0].Start, windows[0].End
	for _, w := range windows[1:] {
		start = max(start, w.Start)
		end = min(end, w.End)
	}
	return start > end
}
