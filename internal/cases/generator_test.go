package cases

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/noir/internal/catalog"
	"github.com/roach88/noir/internal/domain"
)

func TestGenerateIsDeterministic(t *testing.T) {
	cat := catalog.MustDefault()

	for _, seed := range []int64{0, 1, 7, 42, 1234} {
		a, fa, err := Generate(cat, seed, "")
		require.NoError(t, err)
		b, fb, err := Generate(cat, seed, "")
		require.NoError(t, err)

		fpA, err := a.Fingerprint()
		require.NoError(t, err)
		fpB, err := b.Fingerprint()
		require.NoError(t, err)

		assert.Equal(t, fpA, fpB, "seed %d", seed)
		assert.Equal(t, fa, fb, "seed %d", seed)
		assert.Equal(t, a.Dump(), b.Dump(), "seed %d", seed)
	}
}

func TestGenerateDefaultsCaseID(t *testing.T) {
	st, facts, err := Generate(catalog.MustDefault(), 9, "")
	require.NoError(t, err)
	assert.Equal(t, "case_9", st.CaseID())
	assert.Equal(t, "case_9", facts.CaseID)
	assert.Equal(t, int64(9), facts.Seed)

	st, _, err = Generate(catalog.MustDefault(), 9, "custom")
	require.NoError(t, err)
	assert.Equal(t, "custom", st.CaseID())
}

func TestGenerateShape(t *testing.T) {
	cat := catalog.MustDefault()

	for seed := int64(0); seed < 40; seed++ {
		st, facts, err := Generate(cat, seed, "")
		require.NoError(t, err)

		assert.GreaterOrEqual(t, facts.CrimeTime, 20)
		assert.LessOrEqual(t, facts.CrimeTime, 22)

		kill, ok := st.FirstEvent(domain.EventKill)
		require.True(t, ok)
		assert.Equal(t, facts.CrimeTime, kill.Timestamp)
		assert.True(t, kill.Involves(facts.OffenderID))
		assert.True(t, st.HasPrecondition(kill.ID))
		assert.Equal(t, facts.WeaponID.String(), kill.Metadata["weapon_id"])

		approach, ok := st.FirstEvent(domain.EventApproach)
		require.True(t, ok)
		assert.Equal(t, facts.CrimeTime-1, approach.Timestamp)

		discovery, ok := st.FirstEvent(domain.EventDiscovery)
		require.True(t, ok)
		assert.Equal(t, facts.CrimeTime+2, discovery.Timestamp)

		offender, ok := st.Person(facts.OffenderID)
		require.True(t, ok)
		assert.True(t, offender.HasRole(domain.RoleSuspect))

		scene, ok := st.Location(facts.CrimeSceneID)
		require.True(t, ok)
		risk, err := strconv.Atoi(offender.Traits["risk_tolerance"])
		require.NoError(t, err)
		assert.Equal(t, risk >= publicRiskThreshold, scene.HasTag("cctv"), "seed %d", seed)

		_, ok = st.RelationshipBetween(facts.WitnessID, facts.OffenderID)
		assert.True(t, ok)

		archetype, _ := st.Meta("location_archetype")
		assert.NotEmpty(t, archetype)
	}
}

func TestGenerateAccessPathFollowsDistance(t *testing.T) {
	cat := catalog.MustDefault()

	for seed := int64(0); seed < 60; seed++ {
		st, _, err := Generate(cat, seed, "")
		require.NoError(t, err)

		distance, _ := st.Meta("relationship_distance")
		access, _ := st.Meta("access_path")
		motive, _ := st.Meta("motive_category")
		switch distance {
		case "intimate":
			assert.Equal(t, "trusted_contact", access)
			assert.Contains(t, cat.IntimateMotives, motive)
		case "stranger":
			assert.Equal(t, "forced_entry", access)
			assert.Contains(t, cat.StrangerMotives, motive)
		}
	}
}

func TestBuildProfile(t *testing.T) {
	st, _, err := Generate(catalog.MustDefault(), 3, "")
	require.NoError(t, err)

	p := BuildProfile(st)
	assert.Equal(t, "case_3", p.CaseID)
	assert.Contains(t, p.Traits, "competence")
	assert.Equal(t, "competence,risk_tolerance,relationship_distance", p.Meta["active_modulators"])

	text := p.Text()
	assert.Contains(t, text, "Case: case_3 (seed 3)\n")
	assert.Contains(t, text, "Offender traits:\n")
}
