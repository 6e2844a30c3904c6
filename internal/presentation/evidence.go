// Package presentation derives the player-visible evidence of a case from
// its hidden truth.
//
// Evidence is noisy and partial by construction: time windows are fuzzed,
// sightings are probabilistic, recordings and lab results may be missing.
// An evidence item reports what a source saw, heard, recorded or measured.
// It never states a conclusion such as who did it.
package presentation

import (
	"slices"

	"github.com/google/uuid"

	"github.com/roach88/noir/internal/domain"
)

// DetailKind names which detail an evidence item carries.
type DetailKind string

const (
	DetailWitnessStatement    DetailKind = "witness_statement"
	DetailCCTVReport          DetailKind = "cctv_report"
	DetailAccessLog           DetailKind = "access_log"
	DetailForensicsResult     DetailKind = "forensics_result"
	DetailForensicObservation DetailKind = "forensic_observation"
)

// Item is one piece of evidence. Exactly one of the detail pointers is set,
// matching Kind.
type Item struct {
	ID            uuid.UUID             `json:"id"`
	Type          domain.EvidenceType   `json:"type"`
	Kind          DetailKind            `json:"kind"`
	Summary       string                `json:"summary"`
	Source        string                `json:"source"`
	TimeCollected int                   `json:"time_collected"`
	Confidence    domain.ConfidenceBand `json:"confidence"`
	Origin        domain.Origin         `json:"origin"`
	// Hooks are cues about how the source behaved while giving the item,
	// such as a statement drifting from the speaker's baseline.
	Hooks []string `json:"hooks,omitempty"`

	Witness     *WitnessStatement    `json:"witness,omitempty"`
	CCTV        *CCTVReport          `json:"cctv,omitempty"`
	Forensics   *ForensicsResult     `json:"forensics,omitempty"`
	Observation *ForensicObservation `json:"observation,omitempty"`
}

// WitnessStatement is what a person says they saw or heard.
type WitnessStatement struct {
	WitnessID         uuid.UUID         `json:"witness_id"`
	Statement         string            `json:"statement"`
	ReportedWindow    domain.TimeWindow `json:"reported_window"`
	LocationID        uuid.UUID         `json:"location_id"`
	ObservedPersonIDs []uuid.UUID       `json:"observed_person_ids,omitempty"`
}

// CCTVReport is recorded footage or a facility log covering a window.
// POIID is set for logs tied to a point of interest.
type CCTVReport struct {
	LocationID        uuid.UUID         `json:"location_id"`
	POIID             string            `json:"poi_id,omitempty"`
	ObservedPersonIDs []uuid.UUID       `json:"observed_person_ids,omitempty"`
	Window            domain.TimeWindow `json:"window"`
}

// ForensicsResult is a lab finding about an item.
type ForensicsResult struct {
	ItemID         uuid.UUID `json:"item_id"`
	Finding        string    `json:"finding"`
	Method         string    `json:"method"`
	MethodCategory string    `json:"method_category"`
}

// ForensicObservation is a scene unit note about a point of interest.
type ForensicObservation struct {
	POIID       string             `json:"poi_id,omitempty"`
	Observation string             `json:"observation"`
	TODWindow   *domain.TimeWindow `json:"tod_window,omitempty"`
	StageHint   string             `json:"stage_hint,omitempty"`
	WoundClass  string             `json:"wound_class,omitempty"`
}

// Window returns the time window the item speaks to, if any.
func (it Item) Window() (domain.TimeWindow, bool) {
	switch {
	case it.Witness != nil:
		return it.Witness.ReportedWindow, true
	case it.CCTV != nil:
		return it.CCTV.Window, true
	case it.Observation != nil && it.Observation.TODWindow != nil:
		return *it.Observation.TODWindow, true
	}
	return domain.TimeWindow{}, false
}

// ObservedPersons returns the people the item places at the scene.
func (it Item) ObservedPersons() []uuid.UUID {
	switch {
	case it.Witness != nil:
		return it.Witness.ObservedPersonIDs
	case it.CCTV != nil:
		return it.CCTV.ObservedPersonIDs
	}
	return nil
}

// Observes reports whether the item places person at the scene.
func (it Item) Observes(person uuid.UUID) bool {
	return slices.Contains(it.ObservedPersons(), person)
}

// Clone returns a deep copy of the item.
func (it Item) Clone() Item {
	out := it
	out.Hooks = slices.Clone(it.Hooks)
	if it.Witness != nil {
		w := *it.Witness
		w.ObservedPersonIDs = slices.Clone(w.ObservedPersonIDs)
		out.Witness = &w
	}
	if it.CCTV != nil {
		c := *it.CCTV
		c.ObservedPersonIDs = slices.Clone(c.ObservedPersonIDs)
		out.CCTV = &c
	}
	if it.Forensics != nil {
		f := *it.Forensics
		out.Forensics = &f
	}
	if it.Observation != nil {
		o := *it.Observation
		if o.TODWindow != nil {
			w := *o.TODWindow
			o.TODWindow = &w
		}
		out.Observation = &o
	}
	return out
}

// Case is the full projected evidence set of a case.
type Case struct {
	CaseID           string `json:"case_id"`
	Seed             int64  `json:"seed"`
	TruthFingerprint string `json:"truth_fingerprint"`
	Evidence         []Item `json:"evidence"`
}

// ByID finds an evidence item.
func (c *Case) ByID(id uuid.UUID) (Item, bool) {
	for _, it := range c.Evidence {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// OfType returns the items of an evidence type, in projection order.
func (c *Case) OfType(t domain.EvidenceType) []Item {
	var out []Item
	for _, it := range c.Evidence {
		if it.Type == t {
			out = append(out, it)
		}
	}
	return out
}

// Types returns the distinct evidence types present, in domain.EvidenceTypes order.
func (c *Case) Types() []domain.EvidenceType {
	var out []domain.EvidenceType
	for _, t := range domain.EvidenceTypes {
		if len(c.OfType(t)) > 0 {
			out = append(out, t)
		}
	}
	return out
}

// Clone returns a deep copy of the case.
func (c *Case) Clone() *Case {
	out := *c
	out.Evidence = make([]Item, len(c.Evidence))
	for i, it := range c.Evidence {
		out.Evidence[i] = it.Clone()
	}
	return &out
}
