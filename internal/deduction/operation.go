package deduction

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/noir/internal/domain"
	"github.com/roach88/noir/internal/presentation"
)

// OperationType names an endgame operation.
type OperationType string

const (
	OperationWarrant  OperationType = "warrant"
	OperationStakeout OperationType = "stakeout"
	OperationBait     OperationType = "bait"
	OperationRaid     OperationType = "raid"
)

// OperationTypes lists every operation type.
var OperationTypes = []OperationType{OperationWarrant, OperationStakeout, OperationBait, OperationRaid}

// ParseOperation converts a name into an OperationType.
func ParseOperation(s string) (OperationType, error) {
	for _, o := range OperationTypes {
		if string(o) == s {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown operation %q", s)
}

// WarrantType is the scope a warrant asks for.
type WarrantType string

const (
	WarrantSearch       WarrantType = "search"
	WarrantArrest       WarrantType = "arrest"
	WarrantDigital      WarrantType = "digital"
	WarrantSurveillance WarrantType = "surveillance"
)

// WarrantTypes lists every warrant type.
var WarrantTypes = []WarrantType{WarrantSearch, WarrantArrest, WarrantDigital, WarrantSurveillance}

// ParseWarrant converts a name into a WarrantType.
func ParseWarrant(s string) (WarrantType, error) {
	for _, w := range WarrantTypes {
		if string(w) == s {
			return w, nil
		}
	}
	return "", fmt.Errorf("unknown warrant %q", s)
}

// OperationTier grades how an operation went.
type OperationTier string

const (
	OperationClean   OperationTier = "clean"
	OperationPartial OperationTier = "partial"
	OperationFailed  OperationTier = "failed"
	// OperationBurn means the operation tipped off the target.
	OperationBurn OperationTier = "burn"
)

// maxTimelineSpread is the widest corroborated window an operation accepts.
const maxTimelineSpread = 2

// OperationPlan is what the detective commits to an operation.
type OperationPlan struct {
	Type     OperationType `json:"type"`
	Warrant  WarrantType   `json:"warrant,omitempty"`
	TargetID uuid.UUID     `json:"target_id,omitzero"`
	// Evidence is the packet the operation rests on.
	Evidence []presentation.Item `json:"-"`
}

// OperationOutcome is the result of an operation and its cost to standing.
// Spook is how much the offender has been alerted.
type OperationOutcome struct {
	Tier          OperationTier `json:"tier"`
	Summary       string        `json:"summary"`
	Notes         []string      `json:"notes"`
	PressureDelta int           `json:"pressure_delta"`
	TrustDelta    int           `json:"trust_delta"`
	SpookDelta    int           `json:"spook_delta"`
}

// ResolveOperation judges plan against its evidence packet. suspect is the
// current hypothesis suspect, or uuid.Nil without one.
func ResolveOperation(plan OperationPlan, suspect uuid.UUID) OperationOutcome {
	mix := mixOf(plan.Evidence, suspect)
	switch plan.Type {
	case OperationWarrant:
		return resolveWarrant(mix)
	case OperationStakeout:
		return resolveStakeout(mix)
	case OperationBait:
		return resolveBait(mix)
	case OperationRaid:
		return resolveRaid(mix)
	}
	return OperationOutcome{
		Tier:    OperationFailed,
		Summary: "Operation not available.",
		Notes:   []string{fmt.Sprintf("No procedure exists for %q.", plan.Type)},
	}
}

// evidenceMix summarizes an operation packet.
type evidenceMix struct {
	total        int
	testimonial  int
	physical     int
	weak         bool
	timelineOK   bool
	timelineNote string
}

func mixOf(items []presentation.Item, suspect uuid.UUID) evidenceMix {
	m := evidenceMix{total: len(items)}
	var windows []domain.TimeWindow
	for _, it := range items {
		switch {
		case it.Witness != nil || it.CCTV != nil:
			m.testimonial++
			if suspect != uuid.Nil && it.Observes(suspect) {
				if w, ok := it.Window(); ok {
					windows = append(windows, w)
				}
			}
		case it.Forensics != nil || it.Observation != nil:
			m.physical++
		}
		if it.Confidence == domain.ConfidenceWeak {
			m.weak = true
		}
	}
	m.timelineOK, m.timelineNote = timelineCoherent(windows, suspect)
	return m
}

// timelineCoherent checks that at least two sources place the suspect in a
// shared narrow window.
func timelineCoherent(windows []domain.TimeWindow, suspect uuid.UUID) (bool, string) {
	if suspect == uuid.Nil {
		return false, "No suspect anchored to the timeline."
	}
	if len(windows) < 2 {
		return false, "Timeline needs two independent sources."
	}
	shared, ok := domain.IntersectAll(windows)
	if !ok {
		return false, "Temporal sources conflict."
	}
	if shared.Spread() > maxTimelineSpread {
		return false, "Timeline window is too broad."
	}
	return true, ""
}

func withNote(notes []string, note string) []string {
	if note == "" {
		return notes
	}
	return append(notes, note)
}

func resolveWarrant(m evidenceMix) OperationOutcome {
	if m.total < MinProbableCauseEvidence {
		return OperationOutcome{
			Tier:          OperationFailed,
			Summary:       "Warrant denied. The packet is too thin.",
			Notes:         []string{"Provide at least two corroborating supports."},
			PressureDelta: 1,
			TrustDelta:    -1,
		}
	}
	if m.physical > 0 {
		if m.weak {
			return OperationOutcome{
				Tier:          OperationPartial,
				Summary:       "Warrant granted with limits.",
				Notes:         []string{"Support is mixed; scope is narrowed."},
				PressureDelta: 1,
			}
		}
		return OperationOutcome{
			Tier:    OperationClean,
			Summary: "Warrant granted.",
			Notes:   []string{"Support meets probable cause standards."},
		}
	}
	if m.testimonial >= 2 && m.timelineOK {
		return OperationOutcome{
			Tier:    OperationPartial,
			Summary: "Warrant granted with limits.",
			Notes: []string{
				"Support relies on testimony and a coherent timeline.",
				"Scope is likely to be limited.",
			},
			PressureDelta: 1,
		}
	}
	return OperationOutcome{
		Tier:          OperationFailed,
		Summary:       "Warrant denied. Support is insufficient.",
		Notes:         withNote([]string{"Testimonial support is not sufficiently corroborated."}, m.timelineNote),
		PressureDelta: 1,
		TrustDelta:    -1,
	}
}

func resolveStakeout(m evidenceMix) OperationOutcome {
	switch {
	case m.total == 0:
		return OperationOutcome{
			Tier:          OperationFailed,
			Summary:       "Stakeout yields no contact.",
			Notes:         []string{"No actionable lead anchored the surveillance."},
			PressureDelta: 1,
		}
	case m.physical > 0 && m.timelineOK:
		return OperationOutcome{
			Tier:    OperationClean,
			Summary: "Stakeout yields a clear contact.",
			Notes:   []string{"Observation confirms the suspected window."},
		}
	case m.physical > 0 || m.timelineOK:
		return OperationOutcome{
			Tier:          OperationPartial,
			Summary:       "Stakeout yields partial confirmation.",
			Notes:         withNote([]string{"Observation confirms partial activity near the window."}, m.timelineNote),
			PressureDelta: 1,
		}
	}
	notes := []string{"No corroboration beyond testimonial cues."}
	if m.weak {
		notes = append(notes, "Support is weak; surveillance windows drift.")
	}
	return OperationOutcome{
		Tier:          OperationFailed,
		Summary:       "Stakeout produces no useful contact.",
		Notes:         notes,
		PressureDelta: 1,
	}
}

func resolveBait(m evidenceMix) OperationOutcome {
	switch {
	case m.total == 0:
		return OperationOutcome{
			Tier:          OperationFailed,
			Summary:       "Bait fails to draw a response.",
			Notes:         []string{"The bait lacked a credible hook."},
			PressureDelta: 2,
			TrustDelta:    -1,
			SpookDelta:    1,
		}
	case m.physical > 0 && m.timelineOK && !m.weak:
		return OperationOutcome{
			Tier:          OperationClean,
			Summary:       "Bait draws a clean contact.",
			Notes:         []string{"The response aligns with the working profile."},
			PressureDelta: 1,
			SpookDelta:    1,
		}
	case m.physical > 0 || m.timelineOK:
		notes := withNote([]string{"The bait draws a near miss, not a commitment."}, m.timelineNote)
		if m.weak {
			notes = append(notes, "Support is thin; expect pushback.")
		}
		return OperationOutcome{
			Tier:          OperationPartial,
			Summary:       "Bait draws a near miss.",
			Notes:         notes,
			PressureDelta: 1,
			SpookDelta:    1,
		}
	}
	return OperationOutcome{
		Tier:          OperationBurn,
		Summary:       "Bait backfires; the target withdraws.",
		Notes:         []string{"The setup was too visible; the trail cools."},
		PressureDelta: 2,
		TrustDelta:    -1,
		SpookDelta:    2,
	}
}

func resolveRaid(m evidenceMix) OperationOutcome {
	switch {
	case m.total == 0:
		return OperationOutcome{
			Tier:          OperationFailed,
			Summary:       "Raid falls flat.",
			Notes:         []string{"No corroboration anchored the target."},
			PressureDelta: 2,
			TrustDelta:    -1,
		}
	case m.physical > 0 && !m.weak:
		return OperationOutcome{
			Tier:    OperationClean,
			Summary: "Raid hits clean.",
			Notes:   []string{"Evidence and access align with the plan."},
		}
	case m.physical > 0:
		return OperationOutcome{
			Tier:          OperationPartial,
			Summary:       "Raid hits with thin support.",
			Notes:         []string{"Raid hits, but the proof is thin.", "Key supports are weak."},
			PressureDelta: 1,
		}
	case m.timelineOK && m.testimonial > 0:
		return OperationOutcome{
			Tier:          OperationPartial,
			Summary:       "Raid hits on a narrow read.",
			Notes:         []string{"Timeline holds, but physical proof is missing."},
			PressureDelta: 1,
			TrustDelta:    -1,
		}
	}
	return OperationOutcome{
		Tier:          OperationBurn,
		Summary:       "Raid hits the wrong target.",
		Notes:         []string{"Insufficient corroboration; fallout is immediate."},
		PressureDelta: 2,
		TrustDelta:    -2,
		SpookDelta:    2,
	}
}
