package deduction

import (
	"fmt"
	"slices"

	"github.com/roach88/noir/internal/domain"
	"github.com/roach88/noir/internal/presentation"
)

// Class is an evidence composition class.
type Class string

const (
	ClassTestimonial Class = "testimonial"
	ClassPhysical    Class = "physical"
	ClassTemporal    Class = "temporal"
)

// Tier grades how well a body of evidence holds up.
type Tier string

const (
	TierClean  Tier = "clean"
	TierShaky  Tier = "shaky"
	TierFailed Tier = "failed"
)

// Classifier maps evidence detail kinds to composition classes.
type Classifier struct {
	kinds map[presentation.DetailKind]Class
}

// NewClassifier returns the standard classification: witness statements are
// testimonial, lab results and scene observations are physical, recordings
// and access logs are temporal.
func NewClassifier() *Classifier {
	return &Classifier{kinds: map[presentation.DetailKind]Class{
		presentation.DetailWitnessStatement:    ClassTestimonial,
		presentation.DetailForensicsResult:     ClassPhysical,
		presentation.DetailForensicObservation: ClassPhysical,
		presentation.DetailCCTVReport:          ClassTemporal,
		presentation.DetailAccessLog:           ClassTemporal,
	}}
}

// Register maps a new detail kind to a non-testimonial class. Existing kinds
// cannot be remapped, and nothing can be registered as testimonial.
// A registered class other than physical or temporal is structural whenever
// an item of it is present.
func (c *Classifier) Register(kind presentation.DetailKind, class Class) error {
	if class == ClassTestimonial {
		return fmt.Errorf("register %s: testimonial is not a registrable class", kind)
	}
	if existing, ok := c.kinds[kind]; ok {
		return fmt.Errorf("register %s: already classified as %s", kind, existing)
	}
	c.kinds[kind] = class
	return nil
}

// ClassOf returns the class of an item. Testimony-derived items are always
// testimonial. An unknown kind falls back to its evidence type.
func (c *Classifier) ClassOf(it presentation.Item) Class {
	if it.Origin == domain.OriginTestimony {
		return ClassTestimonial
	}
	if class, ok := c.kinds[it.Kind]; ok {
		return class
	}
	switch it.Type {
	case domain.EvidenceForensics:
		return ClassPhysical
	case domain.EvidenceCCTV:
		return ClassTemporal
	}
	return ClassTestimonial
}

// ClassReport describes one class present in an evidence set.
type ClassReport struct {
	Class      Class                 `json:"class"`
	Count      int                   `json:"count"`
	Structural bool                  `json:"structural"`
	Confidence domain.ConfidenceBand `json:"confidence"`
	Reason     string                `json:"reason,omitempty"`
}

// Composition is the result of classifying an evidence set.
type Composition struct {
	Tier    Tier          `json:"tier"`
	Classes []ClassReport `json:"classes"`
}

// Structural returns the structural classes in report order.
func (c Composition) Structural() []Class {
	var out []Class
	for _, r := range c.Classes {
		if r.Structural {
			out = append(out, r.Class)
		}
	}
	return out
}

// Has reports whether class is present at all.
func (c Composition) Has(class Class) bool {
	_, ok := c.report(class)
	return ok
}

// HasWeak reports whether any present class peaks at weak confidence.
func (c Composition) HasWeak() bool {
	for _, r := range c.Classes {
		if r.Confidence == domain.ConfidenceWeak {
			return true
		}
	}
	return false
}

func (c Composition) report(class Class) (ClassReport, bool) {
	for _, r := range c.Classes {
		if r.Class == class {
			return r, true
		}
	}
	return ClassReport{}, false
}

// Compose classifies items and grades the set with the standard classifier.
func Compose(items []presentation.Item) Composition {
	return NewClassifier().Compose(items)
}

// Compose classifies items and grades the set.
func (c *Classifier) Compose(items []presentation.Item) Composition {
	byClass := make(map[Class][]presentation.Item)
	var order []Class
	for _, it := range items {
		class := c.ClassOf(it)
		if _, seen := byClass[class]; !seen {
			order = append(order, class)
		}
		byClass[class] = append(byClass[class], it)
	}
	slices.SortStableFunc(order, func(a, b Class) int { return classRank(a) - classRank(b) })

	hasPhysical := len(byClass[ClassPhysical]) > 0
	nonTestimonial := len(items) - len(byClass[ClassTestimonial])

	comp := Composition{}
	structural, structuralNonTestimonial := 0, 0
	for _, class := range order {
		members := byClass[class]
		r := ClassReport{Class: class, Count: len(members), Confidence: strongest(members)}

		switch class {
		case ClassTestimonial:
			r.Structural = nonTestimonial > 0
			if !r.Structural {
				r.Reason = "testimony is uncorroborated"
			}
		case ClassPhysical:
			r.Structural = true
		case ClassTemporal:
			coherent := timeCoherent(members)
			r.Structural = hasPhysical && coherent
			switch {
			case !hasPhysical:
				r.Reason = "no physical evidence anchors the timeline"
			case !coherent:
				r.Reason = "time windows do not agree"
			}
		default:
			r.Structural = true
		}

		if r.Structural {
			structural++
			if class != ClassTestimonial {
				structuralNonTestimonial++
			}
		}
		comp.Classes = append(comp.Classes, r)
	}

	switch {
	case structural >= 2 && structuralNonTestimonial >= 1:
		comp.Tier = TierClean
	case structural >= 1:
		comp.Tier = TierShaky
	default:
		comp.Tier = TierFailed
	}
	return comp
}

// timeCoherent reports whether the windows of all items share a tick.
// Items without a window do not constrain it.
func timeCoherent(items []presentation.Item) bool {
	var windows []domain.TimeWindow
	for _, it := range items {
		if w, ok := it.Window(); ok {
			windows = append(windows, w)
		}
	}
	if len(windows) == 0 {
		return true
	}
	_, ok := domain.IntersectAll(windows)
	return ok
}

func strongest(items []presentation.Item) domain.ConfidenceBand {
	var best domain.ConfidenceBand
	for _, it := range items {
		if it.Confidence.Rank() > best.Rank() {
			best = it.Confidence
		}
	}
	return best
}

func classRank(c Class) int {
	switch c {
	case ClassTestimonial:
		return 0
	case ClassPhysical:
		return 1
	case ClassTemporal:
		return 2
	}
	return 3
}
