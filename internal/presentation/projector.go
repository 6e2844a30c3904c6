package presentation

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/roach88/noir/internal/catalog"
	"github.com/roach88/noir/internal/domain"
	"github.com/roach88/noir/internal/rng"
	"github.com/roach88/noir/internal/truth"
)

// Interview event metadata read by the projector.
const (
	MetaInterviewPhase = "phase"
	PhaseConfession    = "confession"
)

// DefaultCacheTTL is how long a projection stays cached.
const DefaultCacheTTL = 10 * time.Minute

// Projector derives evidence from truth.
//
// Projection is a pure function of the truth state and its seed, so results
// are cached by truth fingerprint. Callers always receive their own copy.
type Projector struct {
	cat    *catalog.Catalog
	cache  *gocache.Cache
	logger *slog.Logger
}

// ProjectorOption configures a Projector.
type ProjectorOption func(*Projector)

// WithCacheTTL sets the projection cache lifetime. Zero keeps projections
// until Flush.
func WithCacheTTL(ttl time.Duration) ProjectorOption {
	return func(p *Projector) {
		p.cache = gocache.New(ttl, 2*ttl)
	}
}

// WithLogger sets the projector logger.
func WithLogger(l *slog.Logger) ProjectorOption {
	return func(p *Projector) {
		p.logger = l
	}
}

// NewProjector creates a Projector reading archetypes from cat.
func NewProjector(cat *catalog.Catalog, opts ...ProjectorOption) *Projector {
	p := &Projector{
		cat:    cat,
		cache:  gocache.New(DefaultCacheTTL, 2*DefaultCacheTTL),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Project returns the evidence set for the current truth.
func (p *Projector) Project(st *truth.State) (*Case, error) {
	fp, err := st.Fingerprint()
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", st.CaseID(), err)
	}
	if v, ok := p.cache.Get(fp); ok {
		p.logger.Debug("projection cache hit", "case", st.CaseID())
		return v.(*Case).Clone(), nil
	}

	c := p.derive(st)
	c.TruthFingerprint = fp
	p.cache.Set(fp, c, gocache.DefaultExpiration)
	p.logger.Debug("projection derived", "case", st.CaseID(), "items", len(c.Evidence))
	return c.Clone(), nil
}

// CachedCount returns the number of cached projections.
func (p *Projector) CachedCount() int {
	return p.cache.ItemCount()
}

// Flush drops all cached projections.
func (p *Projector) Flush() {
	p.cache.Flush()
}

// projection holds the per-derivation working state.
type projection struct {
	st       *truth.State
	r        *rng.Source
	kill     domain.Event
	scene    domain.Location
	hasScene bool
	arch     catalog.Archetype
	hasArch  bool
	offender *domain.Person
	evidence []Item
}

func (p *Projector) derive(st *truth.State) *Case {
	c := &Case{CaseID: st.CaseID(), Seed: st.Seed()}

	kill, ok := st.FirstEvent(domain.EventKill)
	if !ok {
		return c
	}
	pr := &projection{
		st:   st,
		r:    rng.New(uint64(st.Seed())).Fork("projection"),
		kill: kill,
	}
	pr.scene, pr.hasScene = st.Location(kill.LocationID)
	if name, ok := st.Meta("location_archetype"); ok {
		pr.arch, pr.hasArch = p.cat.Archetypes[name]
	}
	if offenders := st.PeopleWithRole(domain.RoleOffender); len(offenders) > 0 {
		pr.offender = &offenders[0]
	}

	pr.witnesses()
	cctvAdded := pr.cctv()
	if pr.accessLog() {
		cctvAdded = true
	}
	forensicsAdded := pr.forensics()
	pr.sceneObservations()
	if !cctvAdded && !forensicsAdded {
		pr.fallback()
	}
	pr.confession()

	c.Evidence = pr.evidence
	return c
}

func (pr *projection) newID(key string) uuid.UUID {
	return uuid.NewSHA1(pr.st.Namespace(), []byte("evidence:"+key))
}

func (pr *projection) trait(key string, def int) float64 {
	if pr.offender == nil {
		return float64(def) / 100
	}
	return float64(pr.offender.TraitPercent(key, def)) / 100
}

func (pr *projection) cctvAvailable() bool {
	return pr.hasScene && pr.scene.HasTag("cctv")
}

func (pr *projection) sceneName() string {
	if pr.hasScene {
		return pr.scene.Name
	}
	return "building"
}

func (pr *projection) witnesses() {
	witnesses := pr.st.PeopleWithRole(domain.RoleWitness)
	if len(witnesses) == 0 {
		return
	}

	presence, visibility := 0.5, 0.5
	if pr.hasArch {
		presence = pr.arch.PresenceAt(string(domain.BucketForHour(pr.kill.Timestamp)))
		visibility = pr.arch.Visibility.Score()
	}
	risk := pr.trait("risk_tolerance", 50)

	for _, w := range witnesses {
		wr := pr.r.Fork("witness:" + w.ID.String())

		closeness := "stranger"
		if pr.offender != nil {
			if rel, ok := pr.st.RelationshipBetween(w.ID, pr.offender.ID); ok {
				if c, ok := rel.Attrs["closeness"]; ok {
					closeness = c
				}
			}
		}
		sigma := 1.5
		switch closeness {
		case "intimate":
			sigma = 3.0
		case "acquaintance":
			sigma = 2.0
		}

		window := FuzzTime(pr.kill.Timestamp, sigma, wr)
		confidence := ConfidenceFromWindow(window)
		if presence < 0.25 || visibility < 0.35 {
			confidence = confidence.Downgrade()
		}

		var observed []uuid.UUID
		if pr.offender != nil && presence >= 0.25 {
			see := presence * visibility
			if closeness == "intimate" || closeness == "acquaintance" {
				see += 0.1
			}
			if risk >= 0.6 {
				see += 0.1
			}
			if pr.cctvAvailable() {
				see -= 0.1
			}
			if wr.Chance(clamp(see, 0.1, 0.85)) {
				observed = append(observed, pr.offender.ID)
			}
		}

		place := placeWithArticle(pr.sceneName())
		heard, saw := "I heard", "I saw"
		if confidence == domain.ConfidenceWeak {
			heard, saw = "I think I heard", "I think I saw"
		}
		statement := fmt.Sprintf("%s a struggle near %s.", heard, place)
		if len(observed) > 0 {
			statement = fmt.Sprintf("%s %s outside %s.", saw, pr.offender.Name, place)
		}

		pr.evidence = append(pr.evidence, Item{
			ID:            pr.newID("witness:" + w.ID.String()),
			Type:          domain.EvidenceTestimonial,
			Kind:          DetailWitnessStatement,
			Summary:       "Witness statement",
			Source:        w.Name,
			TimeCollected: pr.kill.Timestamp + 1,
			Confidence:    confidence,
			Origin:        domain.OriginTestimony,
			Witness: &WitnessStatement{
				WitnessID:         w.ID,
				Statement:         statement,
				ReportedWindow:    window,
				LocationID:        pr.kill.LocationID,
				ObservedPersonIDs: observed,
			},
		})
	}
}

// confession adds the offender's own statement once an interview has broken
// them. It reads interview events only, so earlier items keep their ids.
func (pr *projection) confession() {
	if pr.offender == nil {
		return
	}
	for _, ev := range pr.st.EventsOfKind(domain.EventInterview) {
		if ev.Metadata[MetaInterviewPhase] != PhaseConfession || !slices.Contains(ev.Participants, pr.offender.ID) {
			continue
		}
		pr.evidence = append(pr.evidence, Item{
			ID:            pr.newID("confession:" + pr.offender.ID.String()),
			Type:          domain.EvidenceTestimonial,
			Kind:          DetailWitnessStatement,
			Summary:       "Confession",
			Source:        pr.offender.Name,
			TimeCollected: ev.Timestamp,
			Confidence:    domain.ConfidenceMedium,
			Origin:        domain.OriginTestimony,
			Witness: &WitnessStatement{
				WitnessID:         pr.offender.ID,
				Statement:         fmt.Sprintf("I was at %s. It went further than I meant it to.", placeWithArticle(pr.sceneName())),
				ReportedWindow:    domain.TimeWindow{Start: pr.kill.Timestamp, End: pr.kill.Timestamp},
				LocationID:        pr.kill.LocationID,
				ObservedPersonIDs: []uuid.UUID{pr.offender.ID},
			},
		})
		return
	}
}

func (pr *projection) cctv() bool {
	if !pr.cctvAvailable() {
		return false
	}
	omit := clamp(0.6-pr.trait("risk_tolerance", 50)*0.4, 0.1, 0.7)
	if MaybeOmit(omit, pr.r) {
		return false
	}
	pr.evidence = append(pr.evidence, Item{
		ID:            pr.newID("cctv"),
		Type:          domain.EvidenceCCTV,
		Kind:          DetailCCTVReport,
		Summary:       "CCTV report",
		Source:        "Traffic Control",
		TimeCollected: pr.kill.Timestamp + 1,
		Confidence:    domain.ConfidenceStrong,
		Origin:        domain.OriginObserved,
		CCTV: &CCTVReport{
			LocationID:        pr.kill.LocationID,
			ObservedPersonIDs: slices.Clone(pr.kill.Participants),
			Window:            domain.TimeWindow{Start: pr.kill.Timestamp - 1, End: pr.kill.Timestamp + 1},
		},
	})
	return true
}

func (pr *projection) accessLog() bool {
	if !pr.hasArch {
		return false
	}
	ids := pr.arch.POIIDs()
	var logPOIs, cctvPOIs []string
	for i, id := range ids {
		tags := pr.arch.POIs[i].Tags
		if isLogPOI(id, tags) {
			logPOIs = append(logPOIs, id)
		}
		if isCCTVPOI(id, tags) {
			cctvPOIs = append(cctvPOIs, id)
		}
	}
	sources := pr.arch.Logs
	if len(logPOIs) == 0 || (len(sources) == 0 && len(cctvPOIs) == 0) {
		return false
	}

	lr := pr.r.Fork("scene-logs")
	chance := min(0.85, 0.15*float64(len(sources))+pr.arch.Surveillance.CCTV)
	if MaybeOmit(clamp(0.5-chance, 0.05, 0.8), lr) {
		return false
	}

	poi := rng.Choice(lr, logPOIs)
	summary, source, confidence := "CCTV console still", "Security Desk", domain.ConfidenceWeak
	if len(sources) > 0 {
		summary = fmt.Sprintf("Access log (%s)", labelText(rng.Choice(lr, sources)))
		source, confidence = "Facility Log", domain.ConfidenceMedium
	}
	pr.evidence = append(pr.evidence, Item{
		ID:            pr.newID("log"),
		Type:          domain.EvidenceCCTV,
		Kind:          DetailAccessLog,
		Summary:       summary,
		Source:        source,
		TimeCollected: pr.kill.Timestamp + 1,
		Confidence:    confidence,
		Origin:        domain.OriginObserved,
		CCTV: &CCTVReport{
			LocationID: pr.kill.LocationID,
			POIID:      poi,
			Window:     FuzzTime(pr.kill.Timestamp, 2.0, lr.Fork("window")),
		},
	})
	return true
}

func (pr *projection) weapons() []domain.Item {
	var out []domain.Item
	for _, it := range pr.st.Items() {
		if it.Type == domain.ItemWeapon {
			out = append(out, it)
		}
	}
	return out
}

func methodCategory(it domain.Item) string {
	if m, ok := it.Properties["method_category"]; ok {
		return m
	}
	return string(domain.MethodSharp)
}

func (pr *projection) forensics() bool {
	omit := clamp(0.1+pr.trait("competence", 50)*0.6, 0.1, 0.8)
	for _, it := range pr.weapons() {
		if MaybeOmit(omit, pr.r) {
			continue
		}
		pr.evidence = append(pr.evidence, Item{
			ID:            pr.newID("forensics:" + it.ID.String()),
			Type:          domain.EvidenceForensics,
			Kind:          DetailForensicsResult,
			Summary:       "Forensics result",
			Source:        "Forensics Lab",
			TimeCollected: pr.kill.Timestamp + 2,
			Confidence:    domain.ConfidenceMedium,
			Origin:        domain.OriginObserved,
			Forensics: &ForensicsResult{
				ItemID:         it.ID,
				Finding:        fmt.Sprintf("Trace evidence consistent with %s.", it.Name),
				Method:         "trace",
				MethodCategory: methodCategory(it),
			},
		})
		return true
	}
	return false
}

func (pr *projection) sceneObservations() {
	if !pr.hasArch || len(pr.arch.POIs) == 0 {
		return
	}
	ids := pr.arch.POIIDs()
	body := ids[0]

	shuffled := slices.Clone(ids)
	sr := pr.r.Fork("scene-observations")
	sr.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	var nonBody []string
	for _, id := range shuffled {
		if id != body {
			nonBody = append(nonBody, id)
		}
	}
	entry := body
	if len(nonBody) > 0 {
		entry = nonBody[0]
	}

	bodyTags := slices.Clone(pr.arch.POIs[0].Tags)
	for _, t := range append(slices.Clone(pr.arch.Tags), pr.scene.Tags...) {
		if !slices.Contains(bodyTags, t) {
			bodyTags = append(bodyTags, t)
		}
	}

	discovery := pr.kill.Timestamp + 2
	if ev, ok := pr.st.FirstEvent(domain.EventDiscovery); ok {
		discovery = ev.Timestamp
	}
	tod := FuzzTime(pr.kill.Timestamp, todSigma(bodyTags), pr.r)
	t := pr.kill.Timestamp + 1

	observe := func(key, summary string, confidence domain.ConfidenceBand, obs ForensicObservation) {
		pr.evidence = append(pr.evidence, Item{
			ID:            pr.newID("observation:" + key),
			Type:          domain.EvidenceForensics,
			Kind:          DetailForensicObservation,
			Summary:       summary,
			Source:        "Scene Unit",
			TimeCollected: t,
			Confidence:    confidence,
			Origin:        domain.OriginObserved,
			Observation:   &obs,
		})
	}

	observe("tod", "Forensic observation (TOD)", domain.ConfidenceMedium, ForensicObservation{
		POIID:       body,
		Observation: fmt.Sprintf("Body cooling suggests death %s.", formatTimePhrase(tod.Start, tod.End)),
		TODWindow:   &tod,
		StageHint:   rigorStage(max(1, discovery-pr.kill.Timestamp)),
	})

	method := pr.kill.Metadata["method_category"]
	if method == "" {
		method = string(domain.MethodSharp)
	}
	wound := woundClass(method)
	observe("wound", "Forensic observation (wound)", domain.ConfidenceMedium, ForensicObservation{
		POIID:       body,
		Observation: woundObservation(wound),
		WoundClass:  wound,
	})

	entryConfidence := domain.ConfidenceMedium
	if pr.trait("competence", 50) >= 0.7 {
		entryConfidence = domain.ConfidenceWeak
	}
	accessPath, _ := pr.st.Meta("access_path")
	observe("entry", "Forensic observation (entry)", entryConfidence, ForensicObservation{
		POIID:       entry,
		Observation: entryObservation(accessPath),
	})

	var extra []string
	for _, id := range nonBody {
		if id != entry {
			extra = append(extra, id)
		}
	}
	tr := pr.r.Fork("poi-trace")
	tr.Shuffle(len(extra), func(i, j int) { extra[i], extra[j] = extra[j], extra[i] })
	for _, id := range extra {
		observe("trace:"+id, "Forensic observation (trace)", domain.ConfidenceWeak, ForensicObservation{
			POIID:       id,
			Observation: rng.Choice(tr, traceNotes),
		})
	}
}

// fallback guarantees at least one non-testimonial lead when both the
// recording and the lab came up empty.
func (pr *projection) fallback() {
	if pr.cctvAvailable() {
		pr.evidence = append(pr.evidence, Item{
			ID:            pr.newID("cctv:partial"),
			Type:          domain.EvidenceCCTV,
			Kind:          DetailCCTVReport,
			Summary:       "CCTV report (partial)",
			Source:        "Traffic Control",
			TimeCollected: pr.kill.Timestamp + 1,
			Confidence:    domain.ConfidenceWeak,
			Origin:        domain.OriginObserved,
			CCTV: &CCTVReport{
				LocationID:        pr.kill.LocationID,
				ObservedPersonIDs: slices.Clone(pr.kill.Participants),
				Window:            domain.TimeWindow{Start: pr.kill.Timestamp - 2, End: pr.kill.Timestamp + 2},
			},
		})
		return
	}
	weapons := pr.weapons()
	if len(weapons) == 0 {
		return
	}
	it := weapons[0]
	pr.evidence = append(pr.evidence, Item{
		ID:            pr.newID("forensics:partial:" + it.ID.String()),
		Type:          domain.EvidenceForensics,
		Kind:          DetailForensicsResult,
		Summary:       "Forensics result (partial)",
		Source:        "Forensics Lab",
		TimeCollected: pr.kill.Timestamp + 2,
		Confidence:    domain.ConfidenceWeak,
		Origin:        domain.OriginObserved,
		Forensics: &ForensicsResult{
			ItemID:         it.ID,
			Finding:        fmt.Sprintf("Partial trace evidence consistent with %s.", it.Name),
			Method:         "trace",
			MethodCategory: methodCategory(it),
		},
	})
}
