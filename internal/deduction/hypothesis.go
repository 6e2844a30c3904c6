package deduction

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/roach88/noir/internal/validate"
)

// Hypothesis bounds.
const (
	MinClaims   = 1
	MaxClaims   = 3
	MinEvidence = 1
	MaxEvidence = 3
)

// Hypothesis is the player's theory of the case.
type Hypothesis struct {
	SuspectID   uuid.UUID   `json:"suspect_id" validate:"required"`
	Claims      []ClaimType `json:"claims" validate:"min=1,max=3,unique,dive,claim"`
	EvidenceIDs []uuid.UUID `json:"evidence_ids" validate:"min=1,max=3,unique"`
}

var hypothesisValidate = validate.New("json")

func init() {
	validate.Enum(hypothesisValidate, "claim", ParseClaim)
}

// Check validates the hypothesis shape: a suspect, 1 to 3 distinct claims
// and 1 to 3 distinct evidence references.
func (h Hypothesis) Check() error {
	if err := hypothesisValidate.Struct(h); err != nil {
		return fmt.Errorf("hypothesis: %w", validate.Describe(err))
	}
	return nil
}

// Clone returns a copy that shares no slices with h.
func (h Hypothesis) Clone() Hypothesis {
	return Hypothesis{
		SuspectID:   h.SuspectID,
		Claims:      slices.Clone(h.Claims),
		EvidenceIDs: slices.Clone(h.EvidenceIDs),
	}
}
