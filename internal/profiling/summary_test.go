package profiling

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/noir/internal/cases"
	"github.com/roach88/noir/internal/catalog"
	"github.com/roach88/noir/internal/deduction"
	"github.com/roach88/noir/internal/domain"
	"github.com/roach88/noir/internal/investigation"
	"github.com/roach88/noir/internal/presentation"
	"github.com/roach88/noir/internal/testutil"
)

func witness(n, start, end int) presentation.Item {
	return presentation.Item{
		ID:      testutil.ID(n),
		Type:    domain.EvidenceTestimonial,
		Kind:    presentation.DetailWitnessStatement,
		Witness: &presentation.WitnessStatement{ReportedWindow: domain.TimeWindow{Start: start, End: end}},
	}
}

func cctv(n, start, end int) presentation.Item {
	return presentation.Item{
		ID:   testutil.ID(n),
		Type: domain.EvidenceCCTV,
		Kind: presentation.DetailCCTVReport,
		CCTV: &presentation.CCTVReport{Window: domain.TimeWindow{Start: start, End: end}},
	}
}

func forensics(n int, band domain.ConfidenceBand) presentation.Item {
	return presentation.Item{
		ID:         testutil.ID(n),
		Type:       domain.EvidenceForensics,
		Kind:       presentation.DetailForensicsResult,
		Confidence: band,
		Forensics:  &presentation.ForensicsResult{Finding: "trace"},
	}
}

func TestBuildReadings(t *testing.T) {
	limits := investigation.DefaultLimits()
	fresh := investigation.NewState()
	hyp := &deduction.Hypothesis{SuspectID: testutil.ID(1)}

	tests := []struct {
		name string
		in   Input
		want Reading
	}{
		{
			name: "nothing collected",
			in:   Input{State: fresh, Limits: limits},
			want: ReadingOpen,
		},
		{
			name: "disjoint windows under a hypothesis",
			in:   Input{Known: []presentation.Item{witness(2, 20, 21), cctv(3, 23, 24)}, State: fresh, Limits: limits, Hypothesis: hyp},
			want: ReadingConflict,
		},
		{
			name: "disjoint windows without a hypothesis",
			in:   Input{Known: []presentation.Item{witness(2, 20, 21), cctv(3, 23, 24)}, State: fresh, Limits: limits},
			want: ReadingTestimonial,
		},
		{
			name: "pressure near the limit",
			in:   Input{State: investigation.State{Pressure: limits.Pressure - 1}, Limits: limits},
			want: ReadingPressure,
		},
		{
			name: "clock near the limit",
			in:   Input{State: investigation.State{Time: limits.Time - 2}, Limits: limits},
			want: ReadingPressure,
		},
		{
			name: "weak lab result",
			in:   Input{Known: []presentation.Item{witness(2, 20, 22), forensics(4, domain.ConfidenceWeak)}, State: fresh, Limits: limits},
			want: ReadingWeakTrace,
		},
		{
			name: "strong lab result with a hypothesis",
			in:   Input{Known: []presentation.Item{witness(2, 20, 22), forensics(4, domain.ConfidenceStrong)}, State: fresh, Limits: limits, Hypothesis: hyp},
			want: ReadingCommit,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Build(tt.in)
			assert.Equal(t, tt.want, s.Reading)
			assert.NotEmpty(t, s.WorkingFrame)
			assert.NotEmpty(t, s.FocusShifts)
			assert.NotEmpty(t, s.RiskNotes)
		})
	}
}

func TestBuildLeadsWithContext(t *testing.T) {
	s := Build(Input{
		Limits:  investigation.DefaultLimits(),
		State:   investigation.NewState(),
		Context: []string{"Trust is thin; witnesses are guarded."},
	})
	require.Len(t, s.WorkingFrame, 2)
	assert.Equal(t, "Trust is thin; witnesses are guarded.", s.WorkingFrame[0])
}

func TestFromSession(t *testing.T) {
	cat := catalog.MustDefault()
	st, facts, err := cases.Generate(cat, 11, "")
	require.NoError(t, err)
	s, err := investigation.NewSession(st, presentation.NewProjector(cat), 0)
	require.NoError(t, err)

	assert.Equal(t, ReadingOpen, FromSession(s, nil).Reading)

	_, err = s.Interview(facts.WitnessID)
	require.NoError(t, err)
	if len(s.Known()) > 0 {
		assert.Equal(t, ReadingTestimonial, FromSession(s, nil).Reading)
	}
}

func TestLinesGolden(t *testing.T) {
	s := Build(Input{
		Known:      []presentation.Item{witness(2, 20, 21), cctv(3, 23, 24)},
		State:      investigation.NewState(),
		Limits:     investigation.DefaultLimits(),
		Hypothesis: &deduction.Hypothesis{SuspectID: uuid.Nil},
		Context:    []string{"  pressure is low;   you have a little room."},
	})
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "conflict_summary", []byte(strings.Join(s.Lines(true), "\n")+"\n"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "- Already fine", normalize("-   already   fine "))
	assert.Equal(t, "", normalize("   "))
}
