package investigation

import (
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/noir/internal/cases"
	"github.com/roach88/noir/internal/catalog"
	"github.com/roach88/noir/internal/deduction"
	"github.com/roach88/noir/internal/domain"
	"github.com/roach88/noir/internal/presentation"
	"github.com/roach88/noir/internal/testutil"
	"github.com/roach88/noir/internal/truth"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openSession(t *testing.T, seed int64, deadlineDelta int, opts ...SessionOption) (*Session, cases.Facts) {
	t.Helper()
	cat := catalog.MustDefault()
	st, facts, err := cases.Generate(cat, seed, "")
	require.NoError(t, err)
	opts = append([]SessionOption{WithLogger(discardLogger())}, opts...)
	s, err := NewSession(st, presentation.NewProjector(cat), deadlineDelta, opts...)
	require.NoError(t, err)
	return s, facts
}

func TestNewSessionInitialState(t *testing.T) {
	s, facts := openSession(t, 1, 0)

	assert.Equal(t, State{Time: 0, Pressure: 0, Trust: 3, Cooperation: 1.0}, s.State())
	assert.Equal(t, DefaultLimits(), s.Limits())
	assert.Equal(t, facts.CrimeSceneID, s.SceneID())
	assert.Empty(t, s.Known())
	assert.False(t, s.Closed())

	leads := s.Leads()
	require.NotEmpty(t, leads)
	assert.Equal(t, domain.EvidenceTestimonial, leads[0].Type)
	for _, l := range leads {
		assert.Equal(t, LeadActive, l.Status)
	}
}

func TestNewSessionRequiresCrimeScene(t *testing.T) {
	st := truth.New("empty", 1, truth.WithClock(testutil.NewDeterministicClock()))
	_, err := NewSession(st, presentation.NewProjector(catalog.MustDefault()), 0, WithLogger(discardLogger()))
	assert.ErrorIs(t, err, ErrNoCrimeScene)
}

func TestInterviewRevealsTestimony(t *testing.T) {
	s, facts := openSession(t, 3, 0)
	before := s.Truth().EventCount()

	res, err := s.Interview(facts.WitnessID)
	require.NoError(t, err)

	assert.Equal(t, OutcomeSuccess, res.Outcome)
	assert.Equal(t, "The interview yields a usable statement.", res.Summary)
	assert.Equal(t, 1, res.TimeCost)
	assert.InDelta(t, -0.05, res.CooperationChange, 1e-9)
	require.NotEmpty(t, res.Revealed)
	for _, it := range res.Revealed {
		assert.Equal(t, domain.EvidenceTestimonial, it.Type)
	}

	assert.Equal(t, before+1, s.Truth().EventCount())
	ev, ok := s.Truth().Event(res.EventID)
	require.True(t, ok)
	assert.Equal(t, domain.EventInterview, ev.Kind)
	assert.Equal(t, []uuid.UUID{facts.WitnessID}, ev.Participants)
	assert.Equal(t, 1, ev.Timestamp)
	assert.Equal(t, facts.CrimeSceneID, ev.LocationID)

	assert.Equal(t, LeadResolved, leadFor(s.leads, domain.EvidenceTestimonial).Status)
	assert.InDelta(t, 0.95, s.State().Cooperation, 1e-9)

	again, err := s.Interview(facts.WitnessID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoEffect, again.Outcome)
	assert.Equal(t, "The interview adds nothing new.", again.Summary)
	assert.Empty(t, again.Revealed)
}

func TestInterviewUnknownPerson(t *testing.T) {
	s, _ := openSession(t, 3, 0)
	before := s.Truth().EventCount()

	_, err := s.Interview(testutil.ID(999))
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrCodeUnknownEntity))
	assert.Equal(t, before, s.Truth().EventCount())
	assert.Equal(t, 0, s.State().Time)
}

func TestTimeLimitRefusesWithZeroCost(t *testing.T) {
	s, _ := openSession(t, 5, 0)

	for range 4 {
		res, err := s.SubmitForensics(uuid.Nil)
		require.NoError(t, err)
		assert.NotEqual(t, OutcomeFailure, res.Outcome)
	}
	assert.Equal(t, 8, s.State().Time)
	events := s.Truth().EventCount()

	res, err := s.VisitScene()
	require.NoError(t, err)
	assert.Equal(t, OutcomeFailure, res.Outcome)
	assert.Equal(t, ReasonNoTime, res.Summary)
	assert.Zero(t, res.TimeCost)
	assert.Zero(t, res.PressureCost)
	assert.Zero(t, res.CooperationChange)
	assert.Equal(t, 8, s.State().Time)
	assert.Equal(t, events, s.Truth().EventCount())
}

func TestPressureLimitRefuses(t *testing.T) {
	s, _ := openSession(t, 5, 0, WithLimits(Limits{Time: 20, Pressure: 1}))

	res, err := s.RequestCCTV()
	require.NoError(t, err)
	assert.Equal(t, 1, res.PressureCost)

	res, err = s.RequestCCTV()
	require.NoError(t, err)
	assert.Equal(t, OutcomeFailure, res.Outcome)
	assert.Equal(t, ReasonTooMuchHeat, res.Summary)
	assert.Equal(t, 1, s.State().Pressure)
}

func TestSubmitForensicsRecordsItem(t *testing.T) {
	s, facts := openSession(t, 8, 0)

	res, err := s.SubmitForensics(facts.WeaponID)
	require.NoError(t, err)
	ev, ok := s.Truth().Event(res.EventID)
	require.True(t, ok)
	assert.Equal(t, domain.EventSubmitForensics, ev.Kind)
	assert.Equal(t, facts.WeaponID.String(), ev.Metadata["item_id"])
	assert.Equal(t, 2, s.State().Time)

	_, err = s.SubmitForensics(testutil.ID(999))
	assert.True(t, domain.IsCode(err, domain.ErrCodeUnknownEntity))
}

func TestSetHypothesisRefusals(t *testing.T) {
	s, facts := openSession(t, 4, 0)

	res, err := s.SetHypothesis(deduction.Hypothesis{
		SuspectID: facts.OffenderID,
		Claims:    []deduction.ClaimType{deduction.ClaimPresence},
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeFailure, res.Outcome)
	assert.Equal(t, ReasonEvidenceCount, res.Summary)

	res, err = s.SetHypothesis(deduction.Hypothesis{
		SuspectID:   facts.OffenderID,
		Claims:      []deduction.ClaimType{deduction.ClaimPresence},
		EvidenceIDs: []uuid.UUID{testutil.ID(500)},
	})
	require.NoError(t, err)
	assert.Equal(t, ReasonUnknownEvidence, res.Summary)

	_, err = s.SetHypothesis(deduction.Hypothesis{
		SuspectID:   testutil.ID(999),
		Claims:      []deduction.ClaimType{deduction.ClaimPresence},
		EvidenceIDs: []uuid.UUID{testutil.ID(500)},
	})
	assert.True(t, domain.IsCode(err, domain.ErrCodeUnknownEntity))

	_, ok := s.Hypothesis()
	assert.False(t, ok)
	assert.Equal(t, 0, s.State().Time)
}

func TestArrestWithoutHypothesis(t *testing.T) {
	s, _ := openSession(t, 4, 0)

	res, err := s.Arrest()
	require.NoError(t, err)
	assert.Equal(t, OutcomeFailure, res.Outcome)
	assert.Equal(t, ReasonNoHypothesis, res.Summary)
	assert.Empty(t, s.Truth().EventsOfKind(domain.EventArrest))
}

func TestFullInvestigation(t *testing.T) {
	s, facts := openSession(t, 11, 0)

	for _, req := range []Request{
		{Action: ActionInterview, Target: facts.WitnessID},
		{Action: ActionRequestCCTV},
		{Action: ActionVisitScene},
	} {
		_, err := s.Do(req)
		require.NoError(t, err)
	}

	known := s.Known()
	require.GreaterOrEqual(t, len(known), 2)
	var cited []uuid.UUID
	for _, it := range known[:min(3, len(known))] {
		cited = append(cited, it.ID)
	}

	res, err := s.Do(Request{
		Action:   ActionSetHypothesis,
		Target:   facts.OffenderID,
		Claims:   []deduction.ClaimType{deduction.ClaimPresence, deduction.ClaimOpportunity},
		Evidence: cited,
	})
	require.NoError(t, err)
	require.Equal(t, OutcomeSuccess, res.Outcome, res.Summary)
	h, ok := s.Hypothesis()
	require.True(t, ok)
	assert.Equal(t, facts.OffenderID, h.SuspectID)

	pressureBefore := s.State().Pressure
	res, err = s.Do(Request{Action: ActionArrest})
	require.NoError(t, err)
	require.NotNil(t, res.Validation)
	require.NotNil(t, res.Arrest)

	assert.True(t, res.Validation.CorrectSuspect)
	assert.True(t, res.Validation.ProbableCause)
	assert.Equal(t, res.Validation.Summary, res.Summary)
	assert.Equal(t, deduction.ResolveOutcome(*res.Validation), *res.Arrest)

	arrests := s.Truth().EventsOfKind(domain.EventArrest)
	require.Len(t, arrests, 1)
	assert.Equal(t, facts.OffenderID.String(), arrests[0].Metadata["person_id"])

	st := s.State()
	assert.Equal(t, 0, st.Time)
	want := deduction.Outcome.Apply(*res.Arrest, deduction.Standing{Trust: 3, Pressure: pressureBefore + 2}, s.Limits().Pressure)
	assert.Equal(t, want.Trust, st.Trust)
	assert.Equal(t, want.Pressure, st.Pressure)
	assert.True(t, s.Closed())

	after, err := s.Do(Request{Action: ActionVisitScene})
	require.NoError(t, err)
	assert.Equal(t, ReasonCaseClosed, after.Summary)
	assert.Len(t, s.History(), 6)
}

func TestWrongSuspectFails(t *testing.T) {
	s, facts := openSession(t, 12, 0)

	_, err := s.Interview(facts.WitnessID)
	require.NoError(t, err)
	_, err = s.VisitScene()
	require.NoError(t, err)

	known := s.Known()
	require.GreaterOrEqual(t, len(known), 2)
	_, err = s.SetHypothesis(deduction.Hypothesis{
		SuspectID:   facts.WitnessID,
		Claims:      []deduction.ClaimType{deduction.ClaimPresence},
		EvidenceIDs: []uuid.UUID{known[0].ID, known[1].ID},
	})
	require.NoError(t, err)

	res, err := s.Arrest()
	require.NoError(t, err)
	assert.Equal(t, deduction.TierFailed, res.Validation.Tier)
	assert.Equal(t, deduction.ArrestFailed, res.Arrest.Result)
	assert.Equal(t, 2, s.State().Trust)
}

func TestExpiredLeadDecaysEvidence(t *testing.T) {
	s, facts := openSession(t, 6, 10)
	for _, l := range s.Leads() {
		assert.Equal(t, 0, l.Deadline)
	}

	res, err := s.Interview(facts.WitnessID)
	require.NoError(t, err)
	require.NotEmpty(t, res.Revealed)

	assert.Contains(t, res.Notes, "Lead went cold: Witness lead.")
	assert.Contains(t, res.Notes, "Witness lead expired; the statement is less certain.")
	for _, it := range res.Revealed {
		assert.Equal(t, domain.ConfidenceWeak, it.Confidence)
		assert.Empty(t, it.Witness.ObservedPersonIDs)
	}
	assert.Equal(t, LeadExpired, leadFor(s.leads, domain.EvidenceTestimonial).Status)
}

func TestSessionIsDeterministic(t *testing.T) {
	run := func() (string, []uuid.UUID) {
		s, facts := openSession(t, 21, 0)
		for _, req := range []Request{
			{Action: ActionVisitScene},
			{Action: ActionInterview, Target: facts.WitnessID},
			{Action: ActionRequestCCTV},
		} {
			_, err := s.Do(req)
			require.NoError(t, err)
		}
		fp, err := s.Truth().Fingerprint()
		require.NoError(t, err)
		var ids []uuid.UUID
		for _, it := range s.Known() {
			ids = append(ids, it.ID)
		}
		return fp, ids
	}

	fp1, ids1 := run()
	fp2, ids2 := run()
	assert.Equal(t, fp1, fp2)
	assert.Equal(t, ids1, ids2)
}

func TestDoRejectsUnknownAction(t *testing.T) {
	s, _ := openSession(t, 2, 0)
	_, err := s.Do(Request{Action: "bribe"})
	assert.Error(t, err)
	assert.Empty(t, s.History())
}

func TestWithStateCarriesStanding(t *testing.T) {
	start := State{Pressure: 2, Trust: 5, Cooperation: 0.8}
	s, _ := openSession(t, 4, 0, WithState(start))
	assert.Equal(t, start, s.State())

	res, err := s.RequestCCTV()
	require.NoError(t, err)
	require.NotEqual(t, OutcomeFailure, res.Outcome)
	assert.Equal(t, 3, s.State().Pressure)
	assert.Equal(t, 5, s.State().Trust)
}

func TestFailedRecordLeavesLeadsUntouched(t *testing.T) {
	// Deadline delta 10 puts every lead deadline at t0.
	s, facts := openSession(t, 6, 10)
	for _, l := range s.Leads() {
		require.Equal(t, 0, l.Deadline, l.Key)
	}
	s.sceneID = testutil.ID(999)

	_, err := s.VisitScene()
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrCodeUnknownEntity))

	_, err = s.InterviewWith(facts.WitnessID, ApproachPressure, "")
	require.Error(t, err)

	for _, l := range s.Leads() {
		assert.Equal(t, LeadActive, l.Status, l.Key)
	}
	assert.Equal(t, 0, s.State().Time)
	assert.Empty(t, s.Known())
	_, ok := s.InterviewState(facts.WitnessID)
	assert.False(t, ok)
}

func TestInterviewBaselineHooks(t *testing.T) {
	s, facts := openSession(t, 3, 0)

	res, err := s.Do(Request{Action: ActionInterview, Target: facts.WitnessID, Approach: ApproachBaseline})
	require.NoError(t, err)
	require.NotNil(t, res.Interview)
	assert.Equal(t, PhaseBaseline, res.Interview.Phase)
	assert.Equal(t, Response(PhaseBaseline, false), res.Response)
	iv, ok := s.InterviewState(facts.WitnessID)
	require.True(t, ok)
	require.NotNil(t, iv.Baseline)

	res, err = s.Do(Request{Action: ActionInterview, Target: facts.WitnessID, Approach: ApproachPressure})
	require.NoError(t, err)
	assert.Equal(t, PhasePressure, res.Interview.Phase)
	assert.Contains(t, res.Notes, "Pronoun use drops from the baseline.")
	assert.Contains(t, res.Notes, "Statements are shorter than baseline.")

	ev, ok := s.Truth().Event(res.EventID)
	require.True(t, ok)
	assert.Equal(t, "pressure", ev.Metadata["approach"])
	assert.Equal(t, "pressure", ev.Metadata[presentation.MetaInterviewPhase])
}

func TestInterviewShutdownRefuses(t *testing.T) {
	s, facts := openSession(t, 3, 0)

	for range 3 {
		_, err := s.InterviewWith(facts.WitnessID, ApproachPressure, "")
		require.NoError(t, err)
	}
	iv, _ := s.InterviewState(facts.WitnessID)
	assert.Equal(t, PhaseShutdown, iv.Phase)

	events, spent := s.Truth().EventCount(), s.State().Time
	res, err := s.InterviewWith(facts.WitnessID, ApproachBaseline, "")
	require.NoError(t, err)
	assert.Equal(t, OutcomeFailure, res.Outcome)
	assert.Equal(t, ReasonShutdown, res.Summary)
	assert.Equal(t, events, s.Truth().EventCount())
	assert.Equal(t, spent, s.State().Time)
}

func TestOffenderConfesses(t *testing.T) {
	s, facts := openSession(t, 4, 0)
	motive, ok := s.Truth().Meta("motive_category")
	require.True(t, ok)
	theme := motiveThemes[motive]

	_, err := s.InterviewWith(facts.OffenderID, ApproachPressure, "")
	require.NoError(t, err)
	res, err := s.InterviewWith(facts.OffenderID, ApproachTheme, theme)
	require.NoError(t, err)

	assert.Equal(t, PhaseConfession, res.Interview.Phase)
	assert.Equal(t, Response(PhaseConfession, true), res.Response)
	var confession *presentation.Item
	for i := range res.Revealed {
		if res.Revealed[i].Summary == "Confession" {
			confession = &res.Revealed[i]
		}
	}
	require.NotNil(t, confession)
	assert.True(t, confession.Observes(facts.OffenderID))
	_, known := s.KnownByID(confession.ID)
	assert.True(t, known)

	res, err = s.InterviewWith(facts.OffenderID, ApproachBaseline, "")
	require.NoError(t, err)
	assert.Equal(t, ReasonConfessed, res.Summary)
}

func TestInterviewRejectsBadApproach(t *testing.T) {
	s, facts := openSession(t, 3, 0)

	_, err := s.InterviewWith(facts.WitnessID, ApproachTheme, "")
	assert.ErrorContains(t, err, "unknown theme")
	_, err = s.InterviewWith(facts.WitnessID, ApproachPressure, ThemeAccidental)
	assert.ErrorContains(t, err, "needs the theme approach")
	_, err = s.InterviewWith(facts.WitnessID, "charm", "")
	assert.ErrorContains(t, err, "unknown approach")
	assert.Empty(t, s.Truth().EventsOfKind(domain.EventInterview))
}

func TestOperationMovesStanding(t *testing.T) {
	s, facts := openSession(t, 11, 0)
	for _, req := range []Request{
		{Action: ActionInterview, Target: facts.WitnessID},
		{Action: ActionVisitScene},
	} {
		_, err := s.Do(req)
		require.NoError(t, err)
	}
	var packet []uuid.UUID
	for _, it := range s.Known() {
		packet = append(packet, it.ID)
	}
	before := s.State()

	res, err := s.Do(Request{
		Action:    ActionOperation,
		Operation: deduction.OperationWarrant,
		Warrant:   deduction.WarrantSearch,
		Target:    facts.OffenderID,
		Evidence:  packet,
	})
	require.NoError(t, err)
	require.NotNil(t, res.Operation)
	assert.Equal(t, res.Operation.Summary, res.Summary)
	assert.Equal(t, 1, res.TimeCost)

	after := s.State()
	assert.Equal(t, before.Time+1, after.Time)
	assert.Equal(t, max(0, min(deduction.TrustLimit, before.Trust+res.Operation.TrustDelta)), after.Trust)
	assert.Equal(t, max(0, min(s.Limits().Pressure, before.Pressure+res.Operation.PressureDelta)), after.Pressure)
	assert.Equal(t, before.Spook+res.Operation.SpookDelta, after.Spook)

	ops := s.Truth().EventsOfKind(domain.EventOperation)
	require.Len(t, ops, 1)
	assert.Equal(t, "warrant", ops[0].Metadata["operation"])
	assert.Equal(t, "search", ops[0].Metadata["warrant"])
	assert.Equal(t, string(res.Operation.Tier), ops[0].Metadata["tier"])
	assert.Equal(t, []uuid.UUID{facts.OffenderID}, ops[0].Participants)
}

func TestOperationRefusalsAndErrors(t *testing.T) {
	s, _ := openSession(t, 11, 0)

	res, err := s.Operate(deduction.OperationPlan{Type: deduction.OperationRaid}, []uuid.UUID{testutil.ID(500)})
	require.NoError(t, err)
	assert.Equal(t, ReasonUnknownOpPacket, res.Summary)

	_, err = s.Operate(deduction.OperationPlan{Type: "ambush"}, nil)
	assert.ErrorContains(t, err, "unknown operation")
	_, err = s.Operate(deduction.OperationPlan{Type: deduction.OperationWarrant}, nil)
	assert.ErrorContains(t, err, "unknown warrant")
	_, err = s.Operate(deduction.OperationPlan{Type: deduction.OperationBait, Warrant: deduction.WarrantSearch}, nil)
	assert.ErrorContains(t, err, "only applies to warrant")
	_, err = s.Operate(deduction.OperationPlan{Type: deduction.OperationRaid, TargetID: testutil.ID(999)}, nil)
	assert.True(t, domain.IsCode(err, domain.ErrCodeUnknownEntity))

	assert.Empty(t, s.Truth().EventsOfKind(domain.EventOperation))
	assert.Equal(t, 0, s.State().Time)

	res, err = s.Operate(deduction.OperationPlan{Type: deduction.OperationBait}, nil)
	require.NoError(t, err)
	assert.Equal(t, OutcomeFailure, res.Outcome)
	assert.Equal(t, deduction.OperationFailed, res.Operation.Tier)
	assert.Equal(t, 1, s.State().Spook)
	assert.Equal(t, 2, s.State().Trust)
}
