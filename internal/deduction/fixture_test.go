package deduction

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/roach88/noir/internal/domain"
	"github.com/roach88/noir/internal/presentation"
	"github.com/roach88/noir/internal/testutil"
	"github.com/roach88/noir/internal/truth"
)

var (
	offender  = testutil.ID(1)
	bystander = testutil.ID(2)
	scene     = testutil.ID(10)
)

func witness(id int, start, end int, observed ...uuid.UUID) presentation.Item {
	return presentation.Item{
		ID:         testutil.ID(100 + id),
		Type:       domain.EvidenceTestimonial,
		Kind:       presentation.DetailWitnessStatement,
		Confidence: domain.ConfidenceMedium,
		Origin:     domain.OriginTestimony,
		Witness: &presentation.WitnessStatement{
			WitnessID:         bystander,
			ReportedWindow:    domain.TimeWindow{Start: start, End: end},
			LocationID:        scene,
			ObservedPersonIDs: observed,
		},
	}
}

func cctv(id int, start, end int, observed ...uuid.UUID) presentation.Item {
	return presentation.Item{
		ID:         testutil.ID(200 + id),
		Type:       domain.EvidenceCCTV,
		Kind:       presentation.DetailCCTVReport,
		Confidence: domain.ConfidenceStrong,
		Origin:     domain.OriginObserved,
		CCTV: &presentation.CCTVReport{
			LocationID:        scene,
			ObservedPersonIDs: observed,
			Window:            domain.TimeWindow{Start: start, End: end},
		},
	}
}

func forensics(id int) presentation.Item {
	return presentation.Item{
		ID:         testutil.ID(300 + id),
		Type:       domain.EvidenceForensics,
		Kind:       presentation.DetailForensicsResult,
		Confidence: domain.ConfidenceStrong,
		Origin:     domain.OriginObserved,
		Forensics: &presentation.ForensicsResult{
			ItemID:         testutil.ID(20),
			Finding:        "Blood trace detected on the blade.",
			Method:         "Kitchen Knife",
			MethodCategory: "sharp",
		},
	}
}

// newCase builds a minimal truth with one offender and one bystander.
func newCase(t *testing.T) *truth.State {
	t.Helper()
	st := truth.New("case_deduction", 1, truth.WithClock(testutil.NewDeterministicClock()))
	require.NoError(t, st.AddPerson(domain.Person{
		ID:    offender,
		Name:  "Nora Vance",
		Roles: []domain.RoleTag{domain.RoleOffender, domain.RoleSuspect},
	}))
	require.NoError(t, st.AddPerson(domain.Person{
		ID:    bystander,
		Name:  "Eli Marsh",
		Roles: []domain.RoleTag{domain.RoleWitness},
	}))
	return st
}
