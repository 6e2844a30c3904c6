package investigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterviewStep(t *testing.T) {
	tests := []struct {
		name   string
		steps  []InterviewApproach
		fits   bool
		guilty bool
		phase  InterviewPhase
	}{
		{"baseline stays open", []InterviewApproach{ApproachBaseline, ApproachBaseline}, false, true, PhaseBaseline},
		{"pressure then fitting theme breaks the offender", []InterviewApproach{ApproachPressure, ApproachTheme}, true, true, PhaseConfession},
		{"two fitting themes break the offender", []InterviewApproach{ApproachTheme, ApproachTheme}, true, true, PhaseConfession},
		{"innocent never confesses", []InterviewApproach{ApproachTheme, ApproachTheme}, true, false, PhaseTheme},
		{"missed themes harden the subject", []InterviewApproach{ApproachTheme, ApproachTheme}, false, true, PhaseTheme},
		{"two rounds of pressure hold", []InterviewApproach{ApproachPressure, ApproachPressure}, false, false, PhasePressure},
		{"three rounds of pressure shut the subject down", []InterviewApproach{ApproachPressure, ApproachPressure, ApproachPressure}, false, false, PhaseShutdown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv := NewInterview()
			for _, a := range tt.steps {
				require.False(t, iv.Closed())
				iv = iv.Step(a, tt.fits, tt.guilty)
			}
			assert.Equal(t, tt.phase, iv.Phase)
			assert.GreaterOrEqual(t, iv.Rapport, 0.0)
			assert.LessOrEqual(t, iv.Fatigue, 1.0)
		})
	}
}

func TestInterviewStepDoesNotMutate(t *testing.T) {
	iv := NewInterview()
	next := iv.Step(ApproachPressure, false, false)
	assert.Equal(t, NewInterview(), iv)
	assert.Equal(t, 0.35, next.Rapport)
	assert.Equal(t, 0.4, next.Resistance)
	assert.Equal(t, 0.25, next.Fatigue)
}

func TestThemeFits(t *testing.T) {
	assert.True(t, ThemeFits("money", ThemeCircumstance))
	assert.True(t, ThemeFits("revenge", ThemeBlameVictim))
	assert.True(t, ThemeFits("obsession", ThemeAltruistic))
	assert.True(t, ThemeFits("concealment", ThemeAccidental))
	assert.False(t, ThemeFits("money", ThemeBlameVictim))
	assert.True(t, ThemeFits("unheard_of", ThemeCircumstance))
}

func TestBuildBaselineProfile(t *testing.T) {
	p := BuildBaselineProfile(Response(PhaseBaseline, false))
	assert.Equal(t, 9.0, p.AvgSentenceLen)
	assert.InDelta(t, 3.0/18.0, p.PronounRatio, 1e-9)
	assert.Equal(t, "past", p.TensePref)

	empty := BuildBaselineProfile("")
	assert.Zero(t, empty.AvgSentenceLen)
	assert.Zero(t, empty.PronounRatio)
	assert.Equal(t, "past", empty.TensePref)
}

func TestBaselineHooks(t *testing.T) {
	baseline := BuildBaselineProfile(Response(PhaseBaseline, false))

	tests := []struct {
		name  string
		text  string
		hooks []string
	}{
		{"same register", Response(PhaseBaseline, false), nil},
		{
			"clipped denial",
			Response(PhasePressure, false),
			[]string{"Pronoun use drops from the baseline.", "Statements are shorter than baseline."},
		},
		{
			"present tense refusal",
			Response(PhaseShutdown, false),
			[]string{"Verb tense shifts from the baseline.", "Statements are shorter than baseline."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.hooks, BaselineHooks(&baseline, tt.text))
		})
	}
	assert.Nil(t, BaselineHooks(nil, "Anything."))
}

func TestParseApproachAndTheme(t *testing.T) {
	a, err := ParseApproach("pressure")
	require.NoError(t, err)
	assert.Equal(t, ApproachPressure, a)
	_, err = ParseApproach("charm")
	assert.ErrorContains(t, err, "unknown approach")

	th, err := ParseTheme("accidental")
	require.NoError(t, err)
	assert.Equal(t, ThemeAccidental, th)
	_, err = ParseTheme("destiny")
	assert.ErrorContains(t, err, "unknown theme")
}
