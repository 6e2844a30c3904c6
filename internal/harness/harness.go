package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/roach88/noir/internal/cases"
	"github.com/roach88/noir/internal/catalog"
	"github.com/roach88/noir/internal/deduction"
	"github.com/roach88/noir/internal/domain"
	"github.com/roach88/noir/internal/investigation"
	"github.com/roach88/noir/internal/journal"
	"github.com/roach88/noir/internal/presentation"
	"github.com/roach88/noir/internal/profiling"
	"github.com/roach88/noir/internal/truth"
	"github.com/roach88/noir/internal/world"
)

// Harness runs scenarios against a catalog, optionally journaling them.
type Harness struct {
	cat           *catalog.Catalog
	projector     *presentation.Projector
	projectorOpts []presentation.ProjectorOption
	journal       *journal.Journal
	logger        *slog.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithCatalog sets the content catalog. Defaults to catalog.MustDefault().
func WithCatalog(cat *catalog.Catalog) Option {
	return func(h *Harness) { h.cat = cat }
}

// WithJournal journals every run.
func WithJournal(j *journal.Journal) Option {
	return func(h *Harness) { h.journal = j }
}

// WithLogger sets the logger. Defaults to discarding output.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) { h.logger = l }
}

// WithProjectorOptions configures the evidence projector shared by runs,
// such as its cache TTL.
func WithProjectorOptions(opts ...presentation.ProjectorOption) Option {
	return func(h *Harness) { h.projectorOpts = append(h.projectorOpts, opts...) }
}

// New creates a Harness.
func New(opts ...Option) *Harness {
	h := &Harness{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(h)
	}
	if h.cat == nil {
		h.cat = catalog.MustDefault()
	}
	h.projector = presentation.NewProjector(h.cat,
		append([]presentation.ProjectorOption{presentation.WithLogger(h.logger)}, h.projectorOpts...)...)
	return h
}

// Run executes a scenario with a default Harness.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	return New().Run(ctx, scenario)
}

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Generate the case from the scenario seed
//  2. Open a session (and a journal recorder when configured)
//  3. Resolve and execute each step
//  4. Summarize the collected evidence and check the expect clause
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	result, _, err := h.run(ctx, scenario, nil)
	return result, err
}

// run executes a scenario. A non-nil w opens the case with the world
// standing instead of the scenario's own.
func (h *Harness) run(ctx context.Context, scenario *Scenario, w *world.State) (*Result, world.Closing, error) {
	st, facts, err := cases.Generate(h.cat, scenario.Seed, scenario.CaseID, truth.WithLogger(h.logger))
	if err != nil {
		return nil, world.Closing{}, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	place := placeOf(st, facts)

	opts := []investigation.SessionOption{investigation.WithLogger(h.logger)}
	if scenario.Limits != nil {
		opts = append(opts, investigation.WithLimits(*scenario.Limits))
	}
	deadlineDelta := scenario.DeadlineDelta
	var briefing []string
	switch {
	case w != nil:
		mods := w.StartModifiers(place)
		deadlineDelta += mods.DeadlineDelta
		briefing = mods.Briefing
		opts = append(opts, investigation.WithState(w.OpeningState(place)))
	case scenario.Standing != nil:
		opts = append(opts, investigation.WithState(scenario.Standing.State()))
	}
	session, err := investigation.NewSession(st, h.projector, deadlineDelta, opts...)
	if err != nil {
		return nil, world.Closing{}, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	do := func(req investigation.Request) (investigation.ActionResult, error) {
		return session.Do(req)
	}
	if h.journal != nil {
		rec, err := h.journal.Begin(ctx, session)
		if err != nil {
			return nil, world.Closing{}, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		do = func(req investigation.Request) (investigation.ActionResult, error) {
			return rec.Do(ctx, req)
		}
	}

	elapsed, trustDelta, pressureDelta := 0, 0, 0
	result := NewResult(scenario.Name, st.CaseID(), scenario.Seed)
	result.Limits = session.Limits()
	result.Briefing = briefing
	for i, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return nil, world.Closing{}, err
		}
		req, err := h.resolve(session, facts, step)
		if err != nil {
			return nil, world.Closing{}, fmt.Errorf("scenario %s: steps[%d]: %w", scenario.Name, i, err)
		}
		res, err := do(req)
		if err != nil {
			return nil, world.Closing{}, fmt.Errorf("scenario %s: steps[%d]: %w", scenario.Name, i, err)
		}
		result.addStep(i, res)
		if res.Validation != nil {
			result.Validation = res.Validation
			result.Arrest = res.Arrest
		}
		if res.Arrest != nil {
			trustDelta += res.Arrest.TrustDelta
			pressureDelta += res.Arrest.PressureDelta
		}
		if res.Operation != nil {
			trustDelta += res.Operation.TrustDelta
			pressureDelta += res.Operation.PressureDelta
		}
		// an arrest starts the clock over
		elapsed = max(elapsed, session.State().Time)
	}

	for _, it := range session.Known() {
		result.Known = append(result.Known, it.ID)
	}
	result.EvidenceTypes = knownTypes(session.Known())
	result.State = session.State()
	result.Profile = profiling.FromSession(session, briefing)
	if result.Fingerprint, err = st.Fingerprint(); err != nil {
		return nil, world.Closing{}, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	if scenario.Expect != nil {
		for _, err := range checkExpect(scenario.Expect, result) {
			result.AddError(err.Error())
		}
	}

	closing := world.Closing{
		CaseID:        st.CaseID(),
		Seed:          scenario.Seed,
		Place:         place,
		TrustDelta:    trustDelta,
		PressureDelta: pressureDelta,
		Elapsed:       elapsed,
	}
	if result.Arrest != nil {
		closing.Result = result.Arrest.Result
		closing.Notes = result.Arrest.Notes
	}

	h.logger.Info("scenario finished",
		"scenario", scenario.Name,
		"case", result.CaseID,
		"steps", len(result.Steps),
		"reading", result.Profile.Reading,
		"pass", result.Pass)
	return result, closing, nil
}

// RunCampaign runs scenarios in order as consecutive cases of one career.
// Each case opens with the standing w carries and folds its outcome back
// into w before the next case starts.
func (h *Harness) RunCampaign(ctx context.Context, w *world.State, scenarios []*Scenario) (*CampaignResult, error) {
	out := &CampaignResult{Pass: true, Cases: []*Result{}, World: w}
	for _, sc := range scenarios {
		res, closing, err := h.run(ctx, sc, w)
		if err != nil {
			return nil, err
		}
		res.WorldNotes = w.ApplyCaseOutcome(closing, res.Limits.Pressure)
		out.Cases = append(out.Cases, res)
		out.Pass = out.Pass && res.Pass
		h.logger.Info("campaign case closed",
			"case", res.CaseID,
			"trust", w.Trust,
			"pressure", w.Pressure,
			"tick", w.Tick)
	}
	return out, nil
}

// placeOf names the district and location of the crime scene.
func placeOf(st *truth.State, facts cases.Facts) world.Place {
	var p world.Place
	if loc, ok := st.Location(facts.CrimeSceneID); ok {
		p.District = loc.District
		p.Location = loc.Name
	}
	return p
}

// resolve turns a scenario step into a session request.
func (h *Harness) resolve(s *investigation.Session, facts cases.Facts, step Step) (investigation.Request, error) {
	action, err := investigation.ParseAction(step.Action)
	if err != nil {
		return investigation.Request{}, err
	}
	req := investigation.Request{Action: action}

	if step.Target != "" {
		if req.Target, err = resolveTarget(facts, step.Target); err != nil {
			return req, err
		}
	}
	req.Approach = investigation.InterviewApproach(step.Approach)
	req.Theme = investigation.InterviewTheme(step.Theme)
	req.Operation = deduction.OperationType(step.Operation)
	req.Warrant = deduction.WarrantType(step.Warrant)
	if action != investigation.ActionSetHypothesis && action != investigation.ActionOperation {
		return req, nil
	}

	cited, err := selectEvidence(s.Known(), step.Evidence)
	if err != nil {
		return req, err
	}
	for _, it := range cited {
		req.Evidence = append(req.Evidence, it.ID)
	}
	if action == investigation.ActionOperation {
		return req, nil
	}

	if len(step.Claims) == 1 && step.Claims[0] == ClaimsSupported {
		req.Claims = supportedClaims(cited, req.Target)
		return req, nil
	}
	for _, c := range step.Claims {
		claim, err := deduction.ParseClaim(c)
		if err != nil {
			return req, err
		}
		req.Claims = append(req.Claims, claim)
	}
	return req, nil
}

func resolveTarget(facts cases.Facts, target string) (uuid.UUID, error) {
	switch target {
	case TargetWitness:
		return facts.WitnessID, nil
	case TargetOffender:
		return facts.OffenderID, nil
	case TargetVictim:
		return facts.VictimID, nil
	case TargetWeapon:
		return facts.WeaponID, nil
	}
	id, err := uuid.Parse(target)
	if err != nil {
		return uuid.Nil, fmt.Errorf("unknown target %q", target)
	}
	return id, nil
}

// selectEvidence applies selectors to the collected items in order and cuts
// the selection to the hypothesis maximum.
func selectEvidence(known []presentation.Item, selectors []string) ([]presentation.Item, error) {
	var out []presentation.Item
	cited := map[uuid.UUID]bool{}
	for _, sel := range selectors {
		match, err := selector(sel)
		if err != nil {
			return nil, err
		}
		for _, it := range known {
			if !cited[it.ID] && match(it) {
				cited[it.ID] = true
				out = append(out, it)
			}
		}
	}
	if len(out) > deduction.MaxEvidence {
		out = out[:deduction.MaxEvidence]
	}
	return out, nil
}

func selector(sel string) (func(presentation.Item) bool, error) {
	for _, t := range domain.EvidenceTypes {
		if string(t) == sel {
			return func(it presentation.Item) bool { return it.Type == t }, nil
		}
	}
	switch kind := presentation.DetailKind(sel); kind {
	case presentation.DetailWitnessStatement,
		presentation.DetailCCTVReport,
		presentation.DetailAccessLog,
		presentation.DetailForensicsResult,
		presentation.DetailForensicObservation:
		return func(it presentation.Item) bool { return it.Kind == kind }, nil
	}
	id, err := uuid.Parse(sel)
	if err != nil {
		return nil, fmt.Errorf("unknown evidence selector %q", sel)
	}
	return func(it presentation.Item) bool { return it.ID == id }, nil
}

// supportedClaims returns every claim the items support on their own,
// falling back to presence.
func supportedClaims(items []presentation.Item, suspect uuid.UUID) []deduction.ClaimType {
	var claims []deduction.ClaimType
	for _, c := range deduction.ClaimTypes {
		if len(deduction.ClaimSupport(items, suspect, []deduction.ClaimType{c}).Supports) > 0 {
			claims = append(claims, c)
		}
	}
	if len(claims) == 0 {
		claims = []deduction.ClaimType{deduction.ClaimPresence}
	}
	if len(claims) > deduction.MaxClaims {
		claims = claims[:deduction.MaxClaims]
	}
	return claims
}

func knownTypes(items []presentation.Item) []string {
	var out []string
	for _, t := range domain.EvidenceTypes {
		for _, it := range items {
			if it.Type == t {
				out = append(out, string(t))
				break
			}
		}
	}
	return out
}

// checkExpect compares the result with the expect clause.
func checkExpect(e *Expect, r *Result) []error {
	var errs []error
	if e.Tier != "" {
		actual := "no arrest"
		if r.Validation != nil {
			actual = string(r.Validation.Tier)
		}
		if actual != e.Tier {
			errs = append(errs, &AssertionError{Type: "tier", Expected: e.Tier, Actual: actual, Steps: r.Steps})
		}
	}
	if e.Outcome != "" {
		actual := "no arrest"
		if r.Arrest != nil {
			actual = string(r.Arrest.Result)
		}
		if actual != e.Outcome {
			errs = append(errs, &AssertionError{Type: "outcome", Expected: e.Outcome, Actual: actual, Steps: r.Steps})
		}
	}
	if e.Reading != "" && string(r.Profile.Reading) != e.Reading {
		errs = append(errs, &AssertionError{Type: "reading", Expected: e.Reading, Actual: string(r.Profile.Reading), Steps: r.Steps})
	}
	if len(e.EvidenceTypes) > 0 {
		want := slices.Clone(e.EvidenceTypes)
		slices.Sort(want)
		got := slices.Clone(r.EvidenceTypes)
		slices.Sort(got)
		if !slices.Equal(want, got) {
			errs = append(errs, &AssertionError{
				Type:     "evidence_types",
				Expected: strings.Join(want, ", "),
				Actual:   strings.Join(got, ", "),
				Steps:    r.Steps,
			})
		}
	}
	return errs
}
