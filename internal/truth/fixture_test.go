package truth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/roach88/noir/internal/domain"
	"github.com/roach88/noir/internal/testutil"
)

var (
	sceneID    = testutil.ID(1)
	victimID   = testutil.ID(10)
	offenderID = testutil.ID(11)
	witnessID  = testutil.ID(12)
	knifeID    = testutil.ID(20)
)

// buildFixture writes a small, fully known case: a diner stabbing at t21.
func buildFixture(t *testing.T) *State {
	t.Helper()
	s := New("case_fixture", 7, WithClock(testutil.NewDeterministicClock()))

	require.NoError(t, s.AddLocation(domain.Location{
		ID: sceneID, Name: "Marlowe Diner", District: "harbor", AccessLevel: "public",
		Tags: []string{"crime_scene", "cctv", "public"},
	}))
	require.NoError(t, s.AddPerson(domain.Person{
		ID: victimID, Name: "Alex Hale", Roles: []domain.RoleTag{domain.RoleVictim},
	}))
	require.NoError(t, s.AddPerson(domain.Person{
		ID: offenderID, Name: "Blake Kerr",
		Roles: []domain.RoleTag{domain.RoleSuspect, domain.RoleOffender},
		Traits: map[string]string{
			"competence":            "40",
			"risk_tolerance":        "70",
			"relationship_distance": "acquaintance",
		},
	}))
	require.NoError(t, s.AddPerson(domain.Person{
		ID: witnessID, Name: "Casey Lane", Roles: []domain.RoleTag{domain.RoleWitness},
	}))
	require.NoError(t, s.AddItem(domain.Item{ID: knifeID, Name: "Kitchen Knife", Type: domain.ItemWeapon}))

	require.NoError(t, s.SetLocation(victimID, sceneID, 20, domain.IntPtr(22)))
	require.NoError(t, s.SetLocation(offenderID, sceneID, 20, domain.IntPtr(22)))
	require.NoError(t, s.SetLocation(witnessID, sceneID, 19, domain.IntPtr(21)))
	require.NoError(t, s.Possess(offenderID, knifeID, 19, domain.IntPtr(21)))
	require.NoError(t, s.Relate(witnessID, offenderID, "acquaintance", 0))

	_, err := s.RecordEvent(EventSpec{
		Kind: domain.EventApproach, Timestamp: 20, LocationID: sceneID,
		Participants: []uuid.UUID{offenderID, victimID},
	})
	require.NoError(t, err)
	kill, err := s.RecordEvent(EventSpec{
		Kind: domain.EventKill, Timestamp: 21, LocationID: sceneID,
		Participants: []uuid.UUID{offenderID, victimID},
		Metadata:     map[string]string{"method_category": "sharp", "weapon_id": knifeID.String()},
	})
	require.NoError(t, err)
	_, err = s.RecordEvent(EventSpec{
		Kind: domain.EventDiscovery, Timestamp: 23, LocationID: sceneID,
		Participants: []uuid.UUID{witnessID},
	})
	require.NoError(t, err)
	require.NoError(t, s.LinkCausal(kill.ID, knifeID))

	require.NoError(t, s.SetMeta("access_path", "social_entry"))
	require.NoError(t, s.SetMeta("motive_category", "money"))
	return s
}
