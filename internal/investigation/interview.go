package investigation

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// InterviewPhase is where an interview subject stands.
type InterviewPhase string

const (
	PhaseBaseline InterviewPhase = "baseline"
	PhasePressure InterviewPhase = "pressure"
	PhaseTheme    InterviewPhase = "theme"
	// PhaseShutdown subjects refuse further questions.
	PhaseShutdown InterviewPhase = "shutdown"
	// PhaseConfession subjects have admitted the crime.
	PhaseConfession InterviewPhase = "confession"
)

// InterviewApproach is how the detective runs an interview.
type InterviewApproach string

const (
	ApproachBaseline InterviewApproach = "baseline"
	ApproachPressure InterviewApproach = "pressure"
	ApproachTheme    InterviewApproach = "theme"
)

// InterviewApproaches lists every approach.
var InterviewApproaches = []InterviewApproach{ApproachBaseline, ApproachPressure, ApproachTheme}

// ParseApproach converts a name into an InterviewApproach.
func ParseApproach(s string) (InterviewApproach, error) {
	for _, a := range InterviewApproaches {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown approach %q", s)
}

// InterviewTheme is the story offered to a subject under a theme approach.
type InterviewTheme string

const (
	ThemeBlameVictim  InterviewTheme = "blame_victim"
	ThemeCircumstance InterviewTheme = "circumstance"
	ThemeAltruistic   InterviewTheme = "altruistic"
	ThemeAccidental   InterviewTheme = "accidental"
)

// InterviewThemes lists every theme.
var InterviewThemes = []InterviewTheme{ThemeBlameVictim, ThemeCircumstance, ThemeAltruistic, ThemeAccidental}

// ParseTheme converts a name into an InterviewTheme.
func ParseTheme(s string) (InterviewTheme, error) {
	for _, t := range InterviewThemes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown theme %q", s)
}

// motiveThemes is the theme each motive category responds to.
var motiveThemes = map[string]InterviewTheme{
	"money":       ThemeCircumstance,
	"revenge":     ThemeBlameVictim,
	"obsession":   ThemeAltruistic,
	"concealment": ThemeAccidental,
	"thrill":      ThemeAccidental,
}

// ThemeFits reports whether theme matches a motive category. Unknown
// motives respond to circumstance.
func ThemeFits(motive string, theme InterviewTheme) bool {
	want, ok := motiveThemes[motive]
	if !ok {
		want = ThemeCircumstance
	}
	return theme == want
}

// Interview dynamics, in [0, 1] units.
const (
	initialRapport    = 0.5
	initialResistance = 0.5

	baselineRapport     = 0.1
	baselineFatigue     = 0.05
	pressureRapport     = 0.15
	pressureResistance  = 0.1
	pressureFatigue     = 0.25
	themeFatigue        = 0.1
	themeFitResistance  = 0.2
	themeFitRapport     = 0.05
	themeMissResistance = 0.1
	themeMissRapport    = 0.1

	shutdownRapport      = 0.2
	shutdownFatigue      = 0.75
	confessionResistance = 0.25
)

// Interview tracks one subject across repeated interviews.
type Interview struct {
	Phase      InterviewPhase   `json:"phase"`
	Rapport    float64          `json:"rapport"`
	Resistance float64          `json:"resistance"`
	Fatigue    float64          `json:"fatigue"`
	Baseline   *BaselineProfile `json:"baseline,omitempty"`
}

// NewInterview returns a subject who has not been questioned yet.
func NewInterview() Interview {
	return Interview{Phase: PhaseBaseline, Rapport: initialRapport, Resistance: initialResistance}
}

// Closed reports whether the subject will answer no more questions.
func (iv Interview) Closed() bool {
	return iv.Phase == PhaseShutdown || iv.Phase == PhaseConfession
}

// Step returns the interview after one round under approach. fits tells
// whether a theme matches the subject's motive; guilty whether the subject
// is the offender. Only a guilty subject can confess.
func (iv Interview) Step(approach InterviewApproach, fits, guilty bool) Interview {
	next := iv
	switch approach {
	case ApproachPressure:
		next.Rapport -= pressureRapport
		next.Resistance -= pressureResistance
		next.Fatigue += pressureFatigue
		next.Phase = PhasePressure
	case ApproachTheme:
		next.Fatigue += themeFatigue
		if fits {
			next.Resistance -= themeFitResistance
			next.Rapport += themeFitRapport
		} else {
			next.Resistance += themeMissResistance
			next.Rapport -= themeMissRapport
		}
		next.Phase = PhaseTheme
	default:
		next.Rapport += baselineRapport
		next.Fatigue += baselineFatigue
		next.Phase = PhaseBaseline
	}
	next.Rapport = unit(next.Rapport)
	next.Resistance = unit(next.Resistance)
	next.Fatigue = unit(next.Fatigue)

	switch {
	case guilty && approach == ApproachTheme && fits && next.Resistance <= confessionResistance:
		next.Phase = PhaseConfession
	case next.Rapport < shutdownRapport || next.Fatigue >= shutdownFatigue:
		next.Phase = PhaseShutdown
	}
	return next
}

// Response is what the subject says in phase. A fitting theme that has not
// broken the subject yet draws a softer answer.
func Response(phase InterviewPhase, fits bool) string {
	switch phase {
	case PhasePressure:
		return "Home. All night. Nobody came by."
	case PhaseTheme:
		if fits {
			return "Maybe it was not like that. Maybe."
		}
		return "That is not how it went. You have it wrong."
	case PhaseShutdown:
		return "I am done talking. Get me a lawyer."
	case PhaseConfession:
		return "I was there. I did it."
	}
	return "I was at home that evening. I went to bed early and I heard nothing until the morning."
}

// unit rounds to hundredths and clamps to [0, 1] so repeated steps land on
// exact thresholds.
func unit(v float64) float64 {
	return max(0, min(1, math.Round(v*100)/100))
}

// BaselineProfile is how a subject talks when not under strain.
type BaselineProfile struct {
	AvgSentenceLen float64 `json:"avg_sentence_len"`
	PronounRatio   float64 `json:"pronoun_ratio"`
	TensePref      string  `json:"tense_pref"`
}

var (
	sentenceSplit = regexp.MustCompile(`[.!?]+`)
	pronouns      = map[string]bool{"i": true, "me": true, "my": true, "mine": true, "myself": true}
	pastHints     = map[string]bool{"was": true, "were": true, "did": true, "saw": true, "heard": true, "went": true, "left": true}
	presentHints  = map[string]bool{"am": true, "is": true, "are": true, "see": true, "hear": true, "go": true, "leave": true}
)

// Baseline hook thresholds.
const (
	minBaselinePronouns = 0.08
	dropFactor          = 0.6
)

// BuildBaselineProfile measures sentence length, first-person pronoun use
// and tense preference in text.
func BuildBaselineProfile(text string) BaselineProfile {
	var lengths []int
	for _, s := range sentenceSplit.Split(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			lengths = append(lengths, len(strings.Fields(s)))
		}
	}
	total := 0
	for _, n := range lengths {
		total += n
	}
	avg := 0.0
	if len(lengths) > 0 {
		avg = float64(total) / float64(len(lengths))
	}

	var tokens []string
	for _, f := range strings.Fields(text) {
		if t := strings.ToLower(strings.Trim(f, ".,!?\"'")); t != "" {
			tokens = append(tokens, t)
		}
	}
	var nPronoun, past, present int
	for _, t := range tokens {
		switch {
		case pronouns[t]:
			nPronoun++
		case pastHints[t]:
			past++
		case presentHints[t]:
			present++
		}
	}
	ratio := 0.0
	if len(tokens) > 0 {
		ratio = float64(nPronoun) / float64(len(tokens))
	}
	tense := "past"
	if present > past {
		tense = "present"
	}
	return BaselineProfile{AvgSentenceLen: avg, PronounRatio: ratio, TensePref: tense}
}

// BaselineHooks lists how text departs from baseline. A nil baseline yields
// no hooks.
func BaselineHooks(baseline *BaselineProfile, text string) []string {
	if baseline == nil {
		return nil
	}
	cur := BuildBaselineProfile(text)
	var hooks []string
	if baseline.PronounRatio >= minBaselinePronouns && cur.PronounRatio < baseline.PronounRatio*dropFactor {
		hooks = append(hooks, "Pronoun use drops from the baseline.")
	}
	if baseline.TensePref != cur.TensePref {
		hooks = append(hooks, "Verb tense shifts from the baseline.")
	}
	if cur.AvgSentenceLen < baseline.AvgSentenceLen*dropFactor {
		hooks = append(hooks, "Statements are shorter than baseline.")
	}
	return hooks
}
