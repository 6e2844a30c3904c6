package world

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/noir/internal/deduction"
	"github.com/roach88/noir/internal/investigation"
)

var harbor = Place{District: "harbor", Location: "Marlowe Diner"}

func TestNewWorldIsCalm(t *testing.T) {
	w := New()
	assert.Equal(t, investigation.InitialTrust, w.Trust)
	assert.Equal(t, StatusCalm, w.DistrictStatus("harbor"))
	assert.Equal(t, StatusCalm, w.LocationStatus("Marlowe Diner"))
}

func TestBaselineFollowsPressure(t *testing.T) {
	tests := []struct {
		pressure int
		want     Status
	}{
		{0, StatusCalm},
		{2, StatusTense},
		{4, StatusVolatile},
	}
	for _, tt := range tests {
		w := New()
		w.Pressure = tt.pressure
		assert.Equal(t, tt.want, w.DistrictStatus("harbor"), "pressure %d", tt.pressure)
	}
}

func TestStatusIsFixedOnceSeen(t *testing.T) {
	w := New()
	require.Equal(t, StatusCalm, w.DistrictStatus("harbor"))
	w.Pressure = 5
	assert.Equal(t, StatusCalm, w.DistrictStatus("harbor"))
	assert.Equal(t, StatusVolatile, w.DistrictStatus("uptown"))
}

func TestStartModifiers(t *testing.T) {
	tests := []struct {
		name     string
		trust    int
		pressure int
		location Status
		coop     float64
		delta    int
	}{
		{"fresh", 3, 0, StatusCalm, 0.7, 0},
		{"no trust", 0, 0, StatusCalm, 0.4, 0},
		{"full trust", 6, 0, StatusCalm, 1.0, 0},
		{"steady pressure", 3, 3, StatusCalm, 0.7, 1},
		{"high pressure", 3, 5, StatusCalm, 0.7, 2},
		{"tense location", 3, 0, StatusTense, 0.7, 1},
		{"volatile location", 3, 3, StatusVolatile, 0.7, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New()
			w.Trust = tt.trust
			w.Pressure = tt.pressure
			w.Locations[harbor.Location] = tt.location
			m := w.StartModifiers(harbor)
			assert.InDelta(t, tt.coop, m.Cooperation, 1e-9)
			assert.Equal(t, tt.delta, m.DeadlineDelta)
			assert.NotEmpty(t, m.Briefing)
		})
	}
}

func TestOpeningState(t *testing.T) {
	w := New()
	w.Trust = 6
	w.Pressure = 1
	st := w.OpeningState(harbor)
	assert.Equal(t, investigation.State{Trust: 6, Pressure: 1, Cooperation: 1.0}, st)
}

func TestContextLines(t *testing.T) {
	w := New()
	w.Trust = 1
	w.Pressure = 4
	w.Districts["harbor"] = StatusTense
	w.Locations["Marlowe Diner"] = StatusVolatile
	assert.Equal(t, []string{
		"Pressure is high; the department expects quick movement.",
		"Trust is thin; witnesses are guarded.",
		"District status: tense. Expect slower cooperation.",
		"Location status: volatile. The scene feels unstable.",
	}, w.ContextLines(harbor))
}

func TestApplyCaseOutcome(t *testing.T) {
	w := New()
	notes := w.ApplyCaseOutcome(Closing{
		CaseID:        "case_1",
		Seed:          1,
		Place:         harbor,
		Result:        deduction.ArrestFailed,
		TrustDelta:    -1,
		PressureDelta: 2,
		Elapsed:       5,
		Notes:         []string{"Command sees this as a weak or misdirected arrest."},
	}, 6)
	assert.Equal(t, []string{
		"District status shifted to tense.",
		"Location status shifted to tense.",
	}, notes)
	assert.Equal(t, 2, w.Trust)
	assert.Equal(t, 2, w.Pressure)
	assert.Equal(t, 5, w.Tick)
	require.Len(t, w.History, 1)
	assert.Equal(t, CaseRecord{
		CaseID:        "case_1",
		Seed:          1,
		District:      "harbor",
		Location:      "Marlowe Diner",
		StartedTick:   0,
		EndedTick:     5,
		Outcome:       "failed",
		TrustDelta:    -1,
		PressureDelta: 2,
		Notes:         []string{"Command sees this as a weak or misdirected arrest."},
	}, w.History[0])

	notes = w.ApplyCaseOutcome(Closing{CaseID: "case_2", Place: harbor, Result: deduction.ArrestSuccess, TrustDelta: 9, PressureDelta: -9, Elapsed: 3}, 6)
	assert.Len(t, notes, 2)
	assert.Equal(t, deduction.TrustLimit, w.Trust)
	assert.Equal(t, 0, w.Pressure)
	assert.Equal(t, StatusCalm, w.Districts["harbor"])
	assert.Equal(t, 5, w.History[1].StartedTick)
	assert.Equal(t, 8, w.History[1].EndedTick)
}

func TestApplyCaseOutcomeWithoutArrest(t *testing.T) {
	w := New()
	notes := w.ApplyCaseOutcome(Closing{CaseID: "case_3", Place: harbor, Elapsed: 2}, 6)
	assert.Empty(t, notes)
	assert.Equal(t, OutcomeOpen, w.History[0].Outcome)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.yaml")
	body := `trust: 2
pressure: 3
tick: 9
districts: {harbor: tense}
history:
  - {case_id: case_1, seed: 1, district: harbor, location: Marlowe Diner, started_tick: 0, ended_tick: 9, outcome: failed, trust_delta: -1, pressure_delta: 2}
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Trust)
	assert.Equal(t, 9, got.Tick)
	assert.Equal(t, StatusTense, got.DistrictStatus("harbor"))
	assert.NotNil(t, got.Locations)
	require.Len(t, got.History, 1)
	assert.Equal(t, "failed", got.History[0].Outcome)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	assert.ErrorContains(t, err, "read world")
}

func TestLoadRejectsInvalidWorld(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"trust above limit", "trust: 9\n", "trust must not exceed 6, got 9"},
		{"negative pressure", "pressure: -1\n", "pressure must not be below 0"},
		{"unknown status", "districts: {harbor: stormy}\n", `districts[harbor] must be one of [calm tense volatile], got "stormy"`},
		{"ticks out of order", "history: [{case_id: c, started_tick: 4, ended_tick: 2, outcome: open}]\n", "history[0].ended_tick must not be below StartedTick"},
		{"unknown outcome", "history: [{case_id: c, outcome: medal}]\n", "history[0].outcome must be one of"},
		{"unknown field", "trsut: 3\n", "parse world"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "world.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
