package deduction

import (
	"github.com/google/uuid"

	"github.com/roach88/noir/internal/domain"
	"github.com/roach88/noir/internal/presentation"
	"github.com/roach88/noir/internal/truth"
)

// MinProbableCauseEvidence is the evidence count an arrest needs.
const MinProbableCauseEvidence = 2

// Summaries per tier.
const (
	SummaryClean  = "Arrest holds. The case is likely to stick."
	SummaryShaky  = "Arrest is shaky. The case may not hold."
	SummaryFailed = "Arrest collapses. The case is not supported."
)

// Validation is the judgement on an arrest made under a hypothesis.
type Validation struct {
	Tier           Tier        `json:"tier"`
	CorrectSuspect bool        `json:"correct_suspect"`
	ProbableCause  bool        `json:"probable_cause"`
	Composition    Composition `json:"composition"`
	Summary        string      `json:"summary"`
	Supports       []string    `json:"supports"`
	Missing        []string    `json:"missing"`
	Notes          []string    `json:"notes"`
}

// ProbableCause decides whether an arrest is justified at all.
// It returns the decision and the explanation.
func ProbableCause(evidenceCount, pressure, pressureLimit int) (bool, string) {
	if evidenceCount < MinProbableCauseEvidence {
		return false, "Not enough evidence for probable cause."
	}
	if pressure > pressureLimit {
		return false, "Institutional pressure is too high to justify an arrest."
	}
	return true, "Probable cause established."
}

// Validate judges h against the hidden truth. items are the evidence the
// hypothesis cites, as the player holds them.
func Validate(st *truth.State, h Hypothesis, items []presentation.Item, pressure, pressureLimit int) Validation {
	probable, explanation := ProbableCause(len(items), pressure, pressureLimit)
	correct := isOffender(st, h.SuspectID)
	comp := Compose(items)

	v := Validation{
		Tier:           comp.Tier,
		CorrectSuspect: correct,
		ProbableCause:  probable,
		Composition:    comp,
		Notes:          []string{explanation},
	}
	if !correct || !probable {
		v.Tier = TierFailed
	}

	claims := ClaimSupport(items, h.SuspectID, h.Claims)
	v.Supports = claims.Supports
	v.Missing = claims.Missing

	hasTestimonial := comp.Has(ClassTestimonial)
	hasPhysical := comp.Has(ClassPhysical)
	switch {
	case hasTestimonial && !hasPhysical:
		v.Missing = append(v.Missing, "No physical corroboration supports the arrest.")
	case hasPhysical && !hasTestimonial:
		v.Missing = append(v.Missing, "No testimonial evidence anchors the narrative.")
	}
	if comp.HasWeak() {
		v.Notes = append(v.Notes, "One or more evidence classes are weak.")
	}
	if !correct {
		v.Notes = append(v.Notes, "The suspect does not match the case truth.")
	}

	switch v.Tier {
	case TierClean:
		v.Summary = SummaryClean
	case TierShaky:
		v.Summary = SummaryShaky
	default:
		v.Summary = SummaryFailed
	}
	return v
}

func isOffender(st *truth.State, id uuid.UUID) bool {
	for _, p := range st.PeopleWithRole(domain.RoleOffender) {
		if p.ID == id {
			return true
		}
	}
	return false
}
