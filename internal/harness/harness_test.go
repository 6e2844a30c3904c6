package harness

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/noir/internal/catalog"
	"github.com/roach88/noir/internal/deduction"
	"github.com/roach88/noir/internal/domain"
	"github.com/roach88/noir/internal/investigation"
	"github.com/roach88/noir/internal/ir"
	"github.com/roach88/noir/internal/journal"
	"github.com/roach88/noir/internal/presentation"
	"github.com/roach88/noir/internal/profiling"
	"github.com/roach88/noir/internal/testutil"
	"github.com/roach88/noir/internal/world"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHarness(opts ...Option) *Harness {
	return New(append([]Option{WithLogger(discardLogger())}, opts...)...)
}

func TestRunWrongSuspectScenario(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "wrong_suspect.yaml"))
	require.NoError(t, err)

	result, err := newHarness().Run(context.Background(), s)
	require.NoError(t, err)

	assert.True(t, result.Pass, result.Errors)
	assert.Empty(t, result.Errors)
	assert.Equal(t, "case_12", result.CaseID)
	require.Len(t, result.Steps, 4)
	assert.Equal(t, investigation.OutcomeSuccess, result.Steps[2].Outcome, result.Steps[2].Summary)
	require.NotNil(t, result.Validation)
	assert.False(t, result.Validation.CorrectSuspect)
	assert.Equal(t, deduction.TierFailed, result.Validation.Tier)
	assert.Equal(t, deduction.ArrestFailed, result.Arrest.Result)
	assert.Len(t, result.Fingerprint, 64)
}

func TestRunIsDeterministic(t *testing.T) {
	p, ok := PathNamed("cautious")
	require.True(t, ok)

	first, err := newHarness().Run(context.Background(), p.Scenario(11))
	require.NoError(t, err)
	second, err := newHarness().Run(context.Background(), p.Scenario(11))
	require.NoError(t, err)

	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.Equal(t, first.Known, second.Known)
	assert.Equal(t, first.Snapshot(), second.Snapshot())
}

func TestRunReportsExpectMismatch(t *testing.T) {
	s := &Scenario{
		Name:  "no_arrest",
		Seed:  5,
		Steps: []Step{{Action: "visit_scene"}},
		Expect: &Expect{
			Tier:    "clean",
			Outcome: "success",
		},
	}

	result, err := newHarness().Run(context.Background(), s)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "Assertion failed: tier")
	assert.Contains(t, result.Errors[0], "Actual: no arrest")
	assert.Contains(t, result.Errors[1], "Assertion failed: outcome")
	assert.Nil(t, result.Validation)
}

func TestRunChecksEvidenceTypes(t *testing.T) {
	s := &Scenario{
		Name:   "interview_only",
		Seed:   3,
		Steps:  []Step{{Action: "interview", Target: TargetWitness}},
		Expect: &Expect{EvidenceTypes: []string{"testimonial"}},
	}

	result, err := newHarness().Run(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
	assert.Equal(t, []string{"testimonial"}, result.EvidenceTypes)
}

func TestRunUnknownTarget(t *testing.T) {
	s := &Scenario{
		Name:  "bad_target",
		Seed:  1,
		Steps: []Step{{Action: "interview", Target: "butler"}},
	}
	_, err := newHarness().Run(context.Background(), s)
	assert.ErrorContains(t, err, `unknown target "butler"`)
}

func TestRunUnknownPersonIsAnError(t *testing.T) {
	s := &Scenario{
		Name:  "stranger",
		Seed:  1,
		Steps: []Step{{Action: "interview", Target: testutil.ID(999).String()}},
	}
	_, err := newHarness().Run(context.Background(), s)
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrCodeUnknownEntity))
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newHarness().Run(ctx, &Scenario{Name: "x", Seed: 1, Steps: []Step{{Action: "visit_scene"}}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunJournaledReplays(t *testing.T) {
	j, err := journal.Open(filepath.Join(t.TempDir(), "noir.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })

	p, ok := PathNamed("witness_cctv")
	require.True(t, ok)
	result, err := newHarness(WithJournal(j)).Run(context.Background(), p.Scenario(11))
	require.NoError(t, err)

	actions, err := j.ReadActions(context.Background(), result.CaseID)
	require.NoError(t, err)
	assert.Len(t, actions, len(result.Steps))

	replay, err := journal.Replay(context.Background(), j, catalog.MustDefault(), result.CaseID, discardLogger())
	require.NoError(t, err)
	assert.True(t, replay.Match, "divergence: %+v", replay.Divergence)
	assert.Equal(t, result.Fingerprint, replay.Fingerprint)
}

func TestSelectEvidence(t *testing.T) {
	known := []presentation.Item{
		{ID: testutil.ID(1), Type: domain.EvidenceTestimonial, Kind: presentation.DetailWitnessStatement},
		{ID: testutil.ID(2), Type: domain.EvidenceCCTV, Kind: presentation.DetailCCTVReport},
		{ID: testutil.ID(3), Type: domain.EvidenceCCTV, Kind: presentation.DetailAccessLog},
		{ID: testutil.ID(4), Type: domain.EvidenceForensics, Kind: presentation.DetailForensicsResult},
		{ID: testutil.ID(5), Type: domain.EvidenceTestimonial, Kind: presentation.DetailWitnessStatement},
	}
	ids := func(items []presentation.Item) []uuid.UUID {
		var out []uuid.UUID
		for _, it := range items {
			out = append(out, it.ID)
		}
		return out
	}

	tests := []struct {
		name      string
		selectors []string
		want      []uuid.UUID
	}{
		{"by kind", []string{"access_log"}, []uuid.UUID{testutil.ID(3)}},
		{"by type", []string{"cctv"}, []uuid.UUID{testutil.ID(2), testutil.ID(3)}},
		{"in selector order", []string{"forensics", "witness_statement"}, []uuid.UUID{testutil.ID(4), testutil.ID(1), testutil.ID(5)}},
		{"no duplicates", []string{"cctv_report", "cctv"}, []uuid.UUID{testutil.ID(2), testutil.ID(3)}},
		{"cut to maximum", []string{"testimonial", "cctv"}, []uuid.UUID{testutil.ID(1), testutil.ID(5), testutil.ID(2)}},
		{"by id", []string{testutil.ID(4).String()}, []uuid.UUID{testutil.ID(4)}},
		{"no match", []string{"forensic_observation"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := selectEvidence(known, tt.selectors)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}

	_, err := selectEvidence(known, []string{"fingerprints"})
	assert.ErrorContains(t, err, `unknown evidence selector "fingerprints"`)
}

func TestSupportedClaimsFallsBackToPresence(t *testing.T) {
	claims := supportedClaims(nil, testutil.ID(1))
	assert.Equal(t, []deduction.ClaimType{deduction.ClaimPresence}, claims)
}

func TestAssertGoldenHandBuilt(t *testing.T) {
	result := NewResult("witness_cctv", "case_11", 11)
	result.Fingerprint = "abc123"
	result.Steps = []StepResult{
		{Index: 0, Action: investigation.ActionInterview, Outcome: investigation.OutcomeSuccess,
			Summary: "The interview yields a usable statement.", Revealed: 1},
		{Index: 1, Action: investigation.ActionRequestCCTV, Outcome: investigation.OutcomeNoEffect,
			Summary: "The footage shows nothing new."},
	}
	result.EvidenceTypes = []string{"testimonial"}
	result.State = investigation.State{Time: 0, Pressure: 2, Trust: 2, Cooperation: 0.9}
	result.Validation = &deduction.Validation{Tier: deduction.TierFailed}
	result.Arrest = &deduction.Outcome{Result: deduction.ArrestFailed}
	result.AddError("expected clean")

	require.NoError(t, AssertGolden(t, "hand_built", result))
}

func TestRunReportsProfile(t *testing.T) {
	s := &Scenario{
		Name:   "interview_only",
		Seed:   3,
		Steps:  []Step{{Action: "interview", Target: TargetWitness}},
		Expect: &Expect{Reading: string(profiling.ReadingTestimonial)},
	}

	result, err := newHarness().Run(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
	assert.Equal(t, profiling.ReadingTestimonial, result.Profile.Reading)
	assert.NotEmpty(t, result.Profile.FocusShifts)
	assert.Equal(t, ir.String("testimonial"), result.Snapshot()["reading"])
}

func TestRunStartsFromScenarioStanding(t *testing.T) {
	s := &Scenario{
		Name:     "carried",
		Seed:     5,
		Standing: &Standing{Trust: 1, Pressure: 2, Cooperation: 0.5},
		Steps:    []Step{{Action: "visit_scene"}},
	}

	result, err := newHarness().Run(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, 1, result.State.Trust)
	assert.GreaterOrEqual(t, result.State.Pressure, 2)
	assert.LessOrEqual(t, result.State.Cooperation, 0.5)
}

func TestRunOperationStep(t *testing.T) {
	s := &Scenario{
		Name: "warrant",
		Seed: 11,
		Steps: []Step{
			{Action: "interview", Target: TargetWitness},
			{Action: "request_cctv"},
			{Action: "operation", Target: TargetOffender, Operation: "warrant", Warrant: "search", Evidence: []string{"testimonial", "cctv"}},
		},
	}
	require.NoError(t, validateScenario(s))

	result, err := newHarness().Run(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, result.Steps, 3)
	assert.Equal(t, investigation.ActionOperation, result.Steps[2].Action)
	assert.NotEmpty(t, result.Steps[2].Summary)
}

func TestRunCampaignCarriesStanding(t *testing.T) {
	failed, err := LoadScenario(filepath.Join("testdata", "scenarios", "wrong_suspect.yaml"))
	require.NoError(t, err)
	next := &Scenario{Name: "next_case", Seed: 5, Steps: []Step{{Action: "visit_scene"}}}

	w := world.New()
	out, err := newHarness().RunCampaign(context.Background(), w, []*Scenario{failed, next})
	require.NoError(t, err)
	assert.True(t, out.Pass)
	require.Len(t, out.Cases, 2)
	assert.Same(t, w, out.World)

	// a failed arrest costs one trust and adds two pressure
	require.Len(t, w.History, 2)
	assert.Equal(t, "failed", w.History[0].Outcome)
	assert.Equal(t, world.OutcomeOpen, w.History[1].Outcome)
	assert.Equal(t, investigation.InitialTrust-1, w.Trust)
	assert.Equal(t, 2, w.Pressure)
	assert.Contains(t, out.Cases[0].WorldNotes, "District status shifted to tense.")
	assert.Equal(t, w.History[0].EndedTick, w.History[1].StartedTick)

	second := out.Cases[1]
	assert.Contains(t, second.Briefing, "Trust is thin; witnesses are guarded.")
	assert.Contains(t, second.Briefing, "Pressure is steady; expect scrutiny to build.")
	assert.Equal(t, investigation.InitialTrust-1, second.State.Trust)
	assert.LessOrEqual(t, second.State.Cooperation, 0.6+1e-9)
	assert.Equal(t, second.Briefing, second.Profile.WorkingFrame[:len(second.Briefing)])
}

func TestProjectorOptionsShareHarnessLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	h := New(WithLogger(logger), WithProjectorOptions(presentation.WithCacheTTL(time.Minute)))

	s := &Scenario{Name: "x", Seed: 1, Steps: []Step{{Action: "visit_scene"}}}
	_, err := h.Run(context.Background(), s)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "projection cache hit")

	// the second run opens on the same truth and hits the shared cache
	_, err = h.Run(context.Background(), s)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "projection derived")
	assert.Contains(t, buf.String(), "projection cache hit")
	assert.Contains(t, buf.String(), "truth: event recorded")
}
