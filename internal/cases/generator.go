// Package cases turns a seed into a complete hidden case: the truth graph
// plus the handful of facts the rest of the game keys on.
package cases

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/roach88/noir/internal/catalog"
	"github.com/roach88/noir/internal/domain"
	"github.com/roach88/noir/internal/rng"
	"github.com/roach88/noir/internal/truth"
)

// Risk tolerance at or above this percent puts the crime somewhere public
// and on camera.
const publicRiskThreshold = 60

// Modulators are the offender traits that shape a generated case.
var Modulators = []string{"competence", "risk_tolerance", "relationship_distance"}

// Facts are the generated anchors of a case.
type Facts struct {
	CaseID       string    `json:"case_id"`
	Seed         int64     `json:"seed"`
	CrimeTime    int       `json:"crime_time"`
	CrimeSceneID uuid.UUID `json:"crime_scene_id"`
	VictimID     uuid.UUID `json:"victim_id"`
	OffenderID   uuid.UUID `json:"offender_id"`
	WitnessID    uuid.UUID `json:"witness_id"`
	WeaponID     uuid.UUID `json:"weapon_id"`
}

// DefaultCaseID is the case id used when none is given.
func DefaultCaseID(seed int64) string {
	return fmt.Sprintf("case_%d", seed)
}

// Generate builds the truth of a case from seed. An empty caseID defaults
// to DefaultCaseID(seed). The same catalog, seed and caseID always produce
// the same truth fingerprint.
func Generate(cat *catalog.Catalog, seed int64, caseID string, opts ...truth.Option) (*truth.State, Facts, error) {
	if caseID == "" {
		caseID = DefaultCaseID(seed)
	}
	r := rng.New(uint64(seed))
	st := truth.New(caseID, seed, opts...)
	g := &generator{cat: cat, r: r, st: st}

	facts, err := g.run()
	if err != nil {
		return nil, Facts{}, fmt.Errorf("generate %s: %w", caseID, err)
	}
	facts.CaseID = caseID
	facts.Seed = seed
	return st, facts, nil
}

type generator struct {
	cat *catalog.Catalog
	r   *rng.Source
	st  *truth.State
}

func (g *generator) run() (Facts, error) {
	cat, r, st := g.cat, g.r, g.st

	competence := r.IntRange(0, 100)
	riskTolerance := r.IntRange(0, 100)
	distance := rng.Choice(r, cat.RelationshipDistances)

	var (
		place catalog.Location
		tags  []string
		level string
	)
	if riskTolerance >= publicRiskThreshold {
		place = rng.Choice(r, cat.PublicLocations)
		tags = []string{"crime_scene", "cctv", "public"}
		level = "public"
	} else {
		place = rng.Choice(r, cat.PrivateLocations)
		tags = []string{"crime_scene", "private"}
		level = "private"
	}
	scene := domain.Location{
		ID:          st.NewID("location", "crime_scene"),
		Name:        place.Name,
		District:    rng.Choice(r, cat.Districts),
		AccessLevel: level,
		Tags:        tags,
	}
	if err := st.AddLocation(scene); err != nil {
		return Facts{}, err
	}

	victim := domain.Person{
		ID:       st.NewID("person", "victim"),
		Name:     g.fullName(),
		AgeRange: rng.Choice(r, cat.AgeRanges),
		Roles:    []domain.RoleTag{domain.RoleVictim},
	}
	offender := domain.Person{
		ID:       st.NewID("person", "offender"),
		Name:     g.fullName(),
		AgeRange: rng.Choice(r, cat.AgeRanges),
		Roles:    []domain.RoleTag{domain.RoleSuspect, domain.RoleOffender},
		Traits: map[string]string{
			"competence":            strconv.Itoa(competence),
			"risk_tolerance":        strconv.Itoa(riskTolerance),
			"relationship_distance": distance,
		},
	}
	witness := domain.Person{
		ID:       st.NewID("person", "witness"),
		Name:     g.fullName(),
		AgeRange: rng.Choice(r, cat.AgeRanges),
		Roles:    []domain.RoleTag{domain.RoleWitness},
	}
	for _, p := range []domain.Person{victim, offender, witness} {
		if err := st.AddPerson(p); err != nil {
			return Facts{}, err
		}
	}

	w := rng.Choice(r, cat.Weapons)
	weapon := domain.Item{
		ID:         st.NewID("item", "weapon"),
		Name:       w.Name,
		Type:       domain.ItemWeapon,
		Properties: map[string]string{"method_category": w.Method},
	}
	if err := st.AddItem(weapon); err != nil {
		return Facts{}, err
	}

	crimeTime := r.IntRange(20, 22)
	approachTime := crimeTime - 1
	discoveryTime := crimeTime + 2

	stays := []struct {
		who         uuid.UUID
		entry, exit int
	}{
		{victim.ID, crimeTime - 1, crimeTime + 1},
		{offender.ID, crimeTime - 1, crimeTime + 1},
		{witness.ID, crimeTime - 2, crimeTime},
	}
	for _, s := range stays {
		if err := st.SetLocation(s.who, scene.ID, s.entry, domain.IntPtr(s.exit)); err != nil {
			return Facts{}, err
		}
	}
	if err := st.Possess(offender.ID, weapon.ID, crimeTime-2, domain.IntPtr(crimeTime)); err != nil {
		return Facts{}, err
	}

	accessPath := rng.Choice(r, cat.AccessPaths)
	motive := rng.Choice(r, cat.Motives)
	switch distance {
	case "intimate":
		motive = rng.Choice(r, cat.IntimateMotives)
		accessPath = "trusted_contact"
	case "stranger":
		motive = rng.Choice(r, cat.StrangerMotives)
		accessPath = "forced_entry"
	}

	// Forked stream: does not advance r.
	closeness := rng.Choice(r.Fork("witness-relation"), cat.RelationshipDistances)
	if err := st.Relate(witness.ID, offender.ID, closeness, 0); err != nil {
		return Facts{}, err
	}

	if _, err := st.RecordEvent(truth.EventSpec{
		Kind:         domain.EventApproach,
		Timestamp:    approachTime,
		LocationID:   scene.ID,
		Participants: []uuid.UUID{offender.ID, victim.ID},
		Metadata: map[string]string{
			"method":          weapon.Name,
			"method_category": w.Method,
			"access_path":     accessPath,
		},
	}); err != nil {
		return Facts{}, err
	}
	kill, err := st.RecordEvent(truth.EventSpec{
		Kind:         domain.EventKill,
		Timestamp:    crimeTime,
		LocationID:   scene.ID,
		Participants: []uuid.UUID{offender.ID, victim.ID},
		Metadata: map[string]string{
			"method":          weapon.Name,
			"method_category": w.Method,
			"weapon_id":       weapon.ID.String(),
			"motive_category": motive,
		},
	})
	if err != nil {
		return Facts{}, err
	}
	if _, err := st.RecordEvent(truth.EventSpec{
		Kind:         domain.EventDiscovery,
		Timestamp:    discoveryTime,
		LocationID:   scene.ID,
		Participants: []uuid.UUID{witness.ID},
		Metadata:     map[string]string{"found_victim_id": victim.ID.String()},
	}); err != nil {
		return Facts{}, err
	}
	if err := st.LinkCausal(kill.ID, weapon.ID); err != nil {
		return Facts{}, err
	}

	archetypeName, _, _ := cat.ArchetypeFor(scene.Name)
	meta := map[string]string{
		"active_modulators":     strings.Join(Modulators, ","),
		"competence":            strconv.Itoa(competence),
		"risk_tolerance":        strconv.Itoa(riskTolerance),
		"relationship_distance": distance,
		"access_path":           accessPath,
		"motive_category":       motive,
		"location_name":         scene.Name,
		"location_archetype":    archetypeName,
		"method_category":       w.Method,
	}
	for k, v := range meta {
		if err := st.SetMeta(k, v); err != nil {
			return Facts{}, err
		}
	}

	return Facts{
		CrimeTime:    crimeTime,
		CrimeSceneID: scene.ID,
		VictimID:     victim.ID,
		OffenderID:   offender.ID,
		WitnessID:    witness.ID,
		WeaponID:     weapon.ID,
	}, nil
}

func (g *generator) fullName() string {
	return rng.Choice(g.r, g.cat.FirstNames) + " " + rng.Choice(g.r, g.cat.LastNames)
}
