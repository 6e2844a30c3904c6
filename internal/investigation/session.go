package investigation

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/roach88/noir/internal/deduction"
	"github.com/roach88/noir/internal/domain"
	"github.com/roach88/noir/internal/presentation"
	"github.com/roach88/noir/internal/truth"
)

// Hypothesis refusal reasons.
const (
	ReasonEvidenceCount   = "Hypothesis not set. At least 1 supporting evidence is required."
	ReasonUnknownEvidence = "Hypothesis uses evidence you have not collected."
)

// Interview and operation refusal reasons.
const (
	ReasonShutdown        = "The subject has stopped talking."
	ReasonConfessed       = "The subject has already confessed."
	ReasonUnknownOpPacket = "The operation cites evidence you have not collected."
)

// ErrNoCrimeScene is returned when the truth has no kill event to anchor
// the investigation.
var ErrNoCrimeScene = errors.New("case has no crime scene")

// Session is one investigation of one case.
type Session struct {
	truth     *truth.State
	projector *presentation.Projector
	logger    *slog.Logger
	limits    Limits

	sceneID       uuid.UUID
	deadlineDelta int
	state         State
	known         []presentation.Item
	leads         []Lead
	hypothesis    *deduction.Hypothesis
	interviews    map[uuid.UUID]Interview
	closed        bool
	history       []Request
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLimits overrides the default budget.
func WithLimits(l Limits) SessionOption {
	return func(s *Session) { s.limits = l }
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) SessionOption {
	return func(s *Session) { s.logger = l }
}

// WithState starts the session from a carried-over standing, such as the
// trust and pressure left by a previous case.
func WithState(st State) SessionOption {
	return func(s *Session) { s.state = st }
}

// NewSession opens an investigation of st. Leads open at the session's
// starting time; deadlineDelta shortens them.
func NewSession(st *truth.State, projector *presentation.Projector, deadlineDelta int, opts ...SessionOption) (*Session, error) {
	kill, ok := st.FirstEvent(domain.EventKill)
	if !ok {
		return nil, fmt.Errorf("open session for %s: %w", st.CaseID(), ErrNoCrimeScene)
	}
	s := &Session{
		truth:         st,
		projector:     projector,
		logger:        slog.Default(),
		limits:        DefaultLimits(),
		sceneID:       kill.LocationID,
		deadlineDelta: deadlineDelta,
		state:         NewState(),
		interviews:    make(map[uuid.UUID]Interview),
	}
	for _, opt := range opts {
		opt(s)
	}

	c, err := projector.Project(st)
	if err != nil {
		return nil, fmt.Errorf("open session for %s: %w", st.CaseID(), err)
	}
	s.leads = BuildLeads(c, s.state.Time, deadlineDelta)

	s.logger.Info("investigation opened",
		"case", st.CaseID(),
		"scene", s.sceneID,
		"evidence_available", len(c.Evidence),
		"leads", len(s.leads))
	return s, nil
}

// Truth returns the case truth the session writes to.
func (s *Session) Truth() *truth.State { return s.truth }

// SceneID returns the crime scene location.
func (s *Session) SceneID() uuid.UUID { return s.sceneID }

// DeadlineDelta returns how much the lead deadlines were shortened.
func (s *Session) DeadlineDelta() int { return s.deadlineDelta }

// State returns the current budget and standing.
func (s *Session) State() State { return s.state }

// Limits returns the session budget.
func (s *Session) Limits() Limits { return s.limits }

// Closed reports whether an arrest has ended the case.
func (s *Session) Closed() bool { return s.closed }

// Leads returns a copy of the lead list.
func (s *Session) Leads() []Lead { return slices.Clone(s.leads) }

// Known returns the collected evidence in collection order.
func (s *Session) Known() []presentation.Item {
	out := make([]presentation.Item, len(s.known))
	for i, it := range s.known {
		out[i] = it.Clone()
	}
	return out
}

// KnownByID returns a collected evidence item.
func (s *Session) KnownByID(id uuid.UUID) (presentation.Item, bool) {
	for _, it := range s.known {
		if it.ID == id {
			return it.Clone(), true
		}
	}
	return presentation.Item{}, false
}

// InterviewState returns the interview state of a person questioned so far.
func (s *Session) InterviewState(personID uuid.UUID) (Interview, bool) {
	iv, ok := s.interviews[personID]
	return iv, ok
}

// Hypothesis returns the current hypothesis, if one is set.
func (s *Session) Hypothesis() (deduction.Hypothesis, bool) {
	if s.hypothesis == nil {
		return deduction.Hypothesis{}, false
	}
	return s.hypothesis.Clone(), true
}

// History returns the requests Do has processed without error, in order.
// Refused actions are included.
func (s *Session) History() []Request { return slices.Clone(s.history) }

// Do dispatches a request to its action.
func (s *Session) Do(req Request) (ActionResult, error) {
	var (
		res ActionResult
		err error
	)
	switch req.Action {
	case ActionVisitScene:
		res, err = s.VisitScene()
	case ActionInterview:
		res, err = s.InterviewWith(req.Target, req.Approach, req.Theme)
	case ActionRequestCCTV:
		res, err = s.RequestCCTV()
	case ActionSubmitForensics:
		res, err = s.SubmitForensics(req.Target)
	case ActionSetHypothesis:
		res, err = s.SetHypothesis(deduction.Hypothesis{
			SuspectID:   req.Target,
			Claims:      req.Claims,
			EvidenceIDs: req.Evidence,
		})
	case ActionArrest:
		res, err = s.Arrest()
	case ActionOperation:
		res, err = s.Operate(deduction.OperationPlan{
			Type:     req.Operation,
			Warrant:  req.Warrant,
			TargetID: req.Target,
		}, req.Evidence)
	default:
		return ActionResult{}, fmt.Errorf("unknown action %q", req.Action)
	}
	if err != nil {
		return ActionResult{}, err
	}
	s.history = append(s.history, req)
	return res, nil
}

// VisitScene documents the crime scene and collects trace evidence.
func (s *Session) VisitScene() (ActionResult, error) {
	return s.gather(ActionVisitScene, domain.EvidenceForensics, truth.EventSpec{
		Kind:     domain.EventInvestigateScene,
		Metadata: map[string]string{"action": string(ActionVisitScene)},
	}, "You document the scene and collect trace evidence.", "The scene yields no new trace evidence.")
}

// Interview questions a person with the baseline approach.
func (s *Session) Interview(personID uuid.UUID) (ActionResult, error) {
	return s.InterviewWith(personID, ApproachBaseline, "")
}

// InterviewWith questions a person about the case. theme is required for
// the theme approach and rejected otherwise. A subject who has shut down or
// confessed refuses further interviews.
func (s *Session) InterviewWith(personID uuid.UUID, approach InterviewApproach, theme InterviewTheme) (ActionResult, error) {
	p, ok := s.truth.Person(personID)
	if !ok {
		return ActionResult{}, fmt.Errorf("interview: %w", domain.NewUnknownEntityError("person", personID.String()))
	}
	if approach == "" {
		approach = ApproachBaseline
	}
	if _, err := ParseApproach(string(approach)); err != nil {
		return ActionResult{}, fmt.Errorf("interview: %w", err)
	}
	if approach == ApproachTheme {
		if _, err := ParseTheme(string(theme)); err != nil {
			return ActionResult{}, fmt.Errorf("interview: %w", err)
		}
	} else if theme != "" {
		return ActionResult{}, fmt.Errorf("interview: theme %q needs the theme approach", theme)
	}
	if s.closed {
		return refused(ActionInterview, ReasonCaseClosed), nil
	}

	iv, ok := s.interviews[personID]
	if !ok {
		iv = NewInterview()
	}
	switch iv.Phase {
	case PhaseShutdown:
		return refused(ActionInterview, ReasonShutdown), nil
	case PhaseConfession:
		return refused(ActionInterview, ReasonConfessed), nil
	}

	motive, _ := s.truth.Meta("motive_category")
	fits := approach == ApproachTheme && ThemeFits(motive, theme)
	next := iv.Step(approach, fits, p.HasRole(domain.RoleOffender))

	meta := map[string]string{
		"action":                        string(ActionInterview),
		"approach":                      string(approach),
		presentation.MetaInterviewPhase: string(next.Phase),
	}
	if theme != "" {
		meta["theme"] = string(theme)
	}
	res, err := s.gather(ActionInterview, domain.EvidenceTestimonial, truth.EventSpec{
		Kind:         domain.EventInterview,
		Participants: []uuid.UUID{personID},
		Metadata:     meta,
	}, "The interview yields a usable statement.", "The interview adds nothing new.")
	if err != nil || res.EventID == uuid.Nil {
		return res, err
	}

	response := Response(next.Phase, fits)
	var hooks []string
	if next.Baseline == nil && approach == ApproachBaseline {
		b := BuildBaselineProfile(response)
		next.Baseline = &b
	} else {
		hooks = BaselineHooks(next.Baseline, response)
	}
	s.interviews[personID] = next

	res.Response = response
	res.Interview = &next
	if len(hooks) > 0 {
		res.Revealed = s.annotate(res.Revealed, hooks)
		res.Notes = append(res.Notes, hooks...)
	}
	s.logger.Debug("interview step",
		"case", s.truth.CaseID(),
		"person", personID,
		"approach", approach,
		"phase", next.Phase,
		"hooks", len(hooks))
	return res, nil
}

// RequestCCTV asks for footage and logs covering the scene.
func (s *Session) RequestCCTV() (ActionResult, error) {
	return s.gather(ActionRequestCCTV, domain.EvidenceCCTV, truth.EventSpec{
		Kind:     domain.EventRequestCCTV,
		Metadata: map[string]string{"action": string(ActionRequestCCTV)},
	}, "CCTV footage arrives.", "No usable CCTV footage is available.")
}

// SubmitForensics sends evidence to the lab. itemID may be uuid.Nil to
// submit the scene collection as a whole.
func (s *Session) SubmitForensics(itemID uuid.UUID) (ActionResult, error) {
	meta := map[string]string{"action": string(ActionSubmitForensics)}
	if itemID != uuid.Nil {
		if _, ok := s.truth.Item(itemID); !ok {
			return ActionResult{}, fmt.Errorf("submit forensics: %w", domain.NewUnknownEntityError("item", itemID.String()))
		}
		meta["item_id"] = itemID.String()
	}
	return s.gather(ActionSubmitForensics, domain.EvidenceForensics, truth.EventSpec{
		Kind:     domain.EventSubmitForensics,
		Metadata: meta,
	}, "Forensics returns a report.", "Forensics finds nothing conclusive.")
}

// SetHypothesis records the player's theory. Every cited evidence item must
// already be collected.
func (s *Session) SetHypothesis(h deduction.Hypothesis) (ActionResult, error) {
	if s.closed {
		return refused(ActionSetHypothesis, ReasonCaseClosed), nil
	}
	if h.SuspectID != uuid.Nil {
		if _, ok := s.truth.Person(h.SuspectID); !ok {
			return ActionResult{}, fmt.Errorf("set hypothesis: %w", domain.NewUnknownEntityError("person", h.SuspectID.String()))
		}
	}
	if n := len(h.EvidenceIDs); n < deduction.MinEvidence || n > deduction.MaxEvidence {
		return refused(ActionSetHypothesis, ReasonEvidenceCount), nil
	}
	for _, id := range h.EvidenceIDs {
		if _, ok := s.KnownByID(id); !ok {
			return refused(ActionSetHypothesis, ReasonUnknownEvidence), nil
		}
	}
	if err := h.Check(); err != nil {
		return refused(ActionSetHypothesis, fmt.Sprintf("Hypothesis not set: %v.", err)), nil
	}

	cost := Costs[ActionSetHypothesis]
	if blocked, reason := s.limits.exceeds(s.state, cost); blocked {
		return refused(ActionSetHypothesis, reason), nil
	}
	s.state.spend(cost)

	h = h.Clone()
	s.hypothesis = &h
	s.logger.Debug("hypothesis set",
		"case", s.truth.CaseID(),
		"suspect", h.SuspectID,
		"claims", len(h.Claims),
		"evidence", len(h.EvidenceIDs))

	res := s.spent(ActionSetHypothesis, cost, "Hypothesis submitted.")
	res.Notes = expireLeads(s.leads, s.state.Time)
	return res, nil
}

// Operate runs an endgame operation on the cited evidence, which must
// already be collected. The operation is judged against the hypothesis
// suspect, or the plan target without a hypothesis, and its outcome moves
// trust, pressure and how alerted the offender is.
func (s *Session) Operate(plan deduction.OperationPlan, evidence []uuid.UUID) (ActionResult, error) {
	if _, err := deduction.ParseOperation(string(plan.Type)); err != nil {
		return ActionResult{}, fmt.Errorf("operation: %w", err)
	}
	if plan.Type == deduction.OperationWarrant {
		if _, err := deduction.ParseWarrant(string(plan.Warrant)); err != nil {
			return ActionResult{}, fmt.Errorf("operation: %w", err)
		}
	} else if plan.Warrant != "" {
		return ActionResult{}, fmt.Errorf("operation: warrant %q only applies to warrant operations", plan.Warrant)
	}
	if plan.TargetID != uuid.Nil {
		if _, ok := s.truth.Person(plan.TargetID); !ok {
			return ActionResult{}, fmt.Errorf("operation: %w", domain.NewUnknownEntityError("person", plan.TargetID.String()))
		}
	}
	if s.closed {
		return refused(ActionOperation, ReasonCaseClosed), nil
	}
	plan.Evidence = make([]presentation.Item, 0, len(evidence))
	for _, id := range evidence {
		it, ok := s.KnownByID(id)
		if !ok {
			return refused(ActionOperation, ReasonUnknownOpPacket), nil
		}
		plan.Evidence = append(plan.Evidence, it)
	}
	cost := Costs[ActionOperation]
	if blocked, reason := s.limits.exceeds(s.state, cost); blocked {
		return refused(ActionOperation, reason), nil
	}

	suspect := plan.TargetID
	if s.hypothesis != nil {
		suspect = s.hypothesis.SuspectID
	}
	o := deduction.ResolveOperation(plan, suspect)

	meta := map[string]string{
		"action":    string(ActionOperation),
		"operation": string(plan.Type),
		"tier":      string(o.Tier),
	}
	if plan.Warrant != "" {
		meta["warrant"] = string(plan.Warrant)
	}
	var participants []uuid.UUID
	if plan.TargetID != uuid.Nil {
		participants = []uuid.UUID{plan.TargetID}
	}
	ev, err := s.truth.RecordEvent(truth.EventSpec{
		Kind:         domain.EventOperation,
		Timestamp:    s.state.Time + cost.Time,
		LocationID:   s.sceneID,
		Participants: participants,
		Metadata:     meta,
	})
	if err != nil {
		return ActionResult{}, fmt.Errorf("operation: %w", err)
	}
	s.state.spend(cost)
	s.state.applyOperation(o, s.limits)

	res := s.spent(ActionOperation, cost, o.Summary)
	res.EventID = ev.ID
	res.Operation = &o
	if o.Tier == deduction.OperationFailed || o.Tier == deduction.OperationBurn {
		res.Outcome = OutcomeFailure
	}
	res.Notes = append(slices.Clone(o.Notes), expireLeads(s.leads, s.state.Time)...)

	s.logger.Info("operation run",
		"case", s.truth.CaseID(),
		"operation", plan.Type,
		"tier", o.Tier,
		"trust", s.state.Trust,
		"pressure", s.state.Pressure,
		"spook", s.state.Spook)
	return res, nil
}

// Arrest arrests the hypothesis suspect, validates the case against the
// truth and applies the outcome to the detective's standing. The session is
// closed afterwards.
func (s *Session) Arrest() (ActionResult, error) {
	if s.closed {
		return refused(ActionArrest, ReasonCaseClosed), nil
	}
	if s.hypothesis == nil {
		return refused(ActionArrest, ReasonNoHypothesis), nil
	}
	cost := Costs[ActionArrest]
	if blocked, reason := s.limits.exceeds(s.state, cost); blocked {
		return refused(ActionArrest, reason), nil
	}

	suspect := s.hypothesis.SuspectID
	ev, err := s.truth.RecordEvent(truth.EventSpec{
		Kind:         domain.EventArrest,
		Timestamp:    s.state.Time + cost.Time,
		LocationID:   s.sceneID,
		Participants: []uuid.UUID{suspect},
		Metadata:     map[string]string{"action": string(ActionArrest), "person_id": suspect.String()},
	})
	if err != nil {
		return ActionResult{}, fmt.Errorf("arrest: %w", err)
	}
	s.state.spend(cost)
	res := s.spent(ActionArrest, cost, "Arrest attempted.")
	res.EventID = ev.ID

	cited := make([]presentation.Item, 0, len(s.hypothesis.EvidenceIDs))
	for _, id := range s.hypothesis.EvidenceIDs {
		if it, ok := s.KnownByID(id); ok {
			cited = append(cited, it)
		}
	}
	v := deduction.Validate(s.truth, *s.hypothesis, cited, s.state.Pressure, s.limits.Pressure)
	o := deduction.ResolveOutcome(v)
	s.state.applyOutcome(o, s.limits)
	s.closed = true

	res.Validation = &v
	res.Arrest = &o
	res.Summary = v.Summary
	res.Notes = slices.Concat(v.Notes, o.Notes)

	s.logger.Info("arrest made",
		"case", s.truth.CaseID(),
		"tier", v.Tier,
		"composition_tier", v.Composition.Tier,
		"correct", v.CorrectSuspect,
		"probable_cause", v.ProbableCause,
		"result", o.Result,
		"trust", s.state.Trust,
		"pressure", s.state.Pressure)
	return res, nil
}

// gather runs an evidence-collecting action: record the truth event, spend,
// re-project and reveal unseen items of evidence type t. Leads expire only
// once the event is recorded, so a failed write leaves the session as it was.
func (s *Session) gather(action ActionType, t domain.EvidenceType, spec truth.EventSpec, found, nothing string) (ActionResult, error) {
	if s.closed {
		return refused(action, ReasonCaseClosed), nil
	}
	cost := Costs[action]
	if blocked, reason := s.limits.exceeds(s.state, cost); blocked {
		s.logger.Debug("action refused", "action", action, "reason", reason)
		return refused(action, reason), nil
	}

	spec.Timestamp = s.state.Time + cost.Time
	spec.LocationID = s.sceneID
	ev, err := s.truth.RecordEvent(spec)
	if err != nil {
		return ActionResult{}, fmt.Errorf("%s: %w", action, err)
	}
	notes := expireLeads(s.leads, s.state.Time)
	s.state.spend(cost)

	c, err := s.projector.Project(s.truth)
	if err != nil {
		return ActionResult{}, fmt.Errorf("%s: %w", action, err)
	}
	revealed, decayed := s.reveal(c, t)
	if decayed {
		notes = append(notes, decayNotes[t])
	}

	res := s.spent(action, cost, found)
	res.EventID = ev.ID
	res.Revealed = revealed
	if len(revealed) == 0 {
		res.Summary = nothing
		res.Outcome = OutcomeNoEffect
	} else {
		resolveLead(s.leads, t)
	}
	res.Notes = append(notes, expireLeads(s.leads, s.state.Time)...)

	s.logger.Debug("action taken",
		"case", s.truth.CaseID(),
		"action", action,
		"t", s.state.Time,
		"revealed", len(revealed))
	return res, nil
}

// reveal moves unseen items of type t from the projection into the
// collection. Items behind an expired lead arrive decayed.
func (s *Session) reveal(c *presentation.Case, t domain.EvidenceType) ([]presentation.Item, bool) {
	cold := expired(s.leads, t)
	var out []presentation.Item
	for _, it := range c.OfType(t) {
		if _, ok := s.KnownByID(it.ID); ok {
			continue
		}
		if cold {
			it = it.Decayed()
		}
		s.known = append(s.known, it)
		out = append(out, it.Clone())
	}
	return out, cold && len(out) > 0
}

// annotate attaches hooks to collected items and returns the annotated copies.
func (s *Session) annotate(items []presentation.Item, hooks []string) []presentation.Item {
	out := make([]presentation.Item, len(items))
	for i, it := range items {
		for j := range s.known {
			if s.known[j].ID == it.ID {
				s.known[j].Hooks = append(s.known[j].Hooks, hooks...)
				out[i] = s.known[j].Clone()
			}
		}
	}
	return out
}

func (s *Session) spent(action ActionType, cost Cost, summary string) ActionResult {
	return ActionResult{
		Action:            action,
		Outcome:           OutcomeSuccess,
		Summary:           summary,
		TimeCost:          cost.Time,
		PressureCost:      cost.Pressure,
		CooperationChange: cost.CooperationChange,
	}
}
