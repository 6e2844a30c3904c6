package deduction

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/noir/internal/domain"
	"github.com/roach88/noir/internal/presentation"
)

// ClaimType is a kind of assertion a hypothesis makes about its suspect.
type ClaimType string

const (
	ClaimPresence    ClaimType = "presence"
	ClaimOpportunity ClaimType = "opportunity"
	ClaimMotive      ClaimType = "motive"
	ClaimBehavior    ClaimType = "behavior"
)

// ClaimTypes lists every claim type.
var ClaimTypes = []ClaimType{ClaimPresence, ClaimOpportunity, ClaimMotive, ClaimBehavior}

// ParseClaim converts a name into a ClaimType.
func ParseClaim(s string) (ClaimType, error) {
	for _, c := range ClaimTypes {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown claim %q", s)
}

// maxOpportunitySpread is the widest intersected window, in ticks, that
// still counts as a tight opportunity.
const maxOpportunitySpread = 2

// opportunity grades how well evidence pins the suspect to a window.
type opportunity string

const (
	opportunityNone   opportunity = "none"
	opportunityNoLink opportunity = "no_link"
	opportunityBroad  opportunity = "broad"
	opportunityTight  opportunity = "tight"
)

// Support lists which claims the evidence backs and which it leaves open.
type Support struct {
	Supports []string `json:"supports"`
	Missing  []string `json:"missing"`
}

func (s *Support) support(msg string) { s.Supports = append(s.Supports, msg) }
func (s *Support) miss(msg string)    { s.Missing = append(s.Missing, msg) }

// ClaimSupport checks each claim against the evidence items.
func ClaimSupport(items []presentation.Item, suspect uuid.UUID, claims []ClaimType) Support {
	var s Support
	if suspect == uuid.Nil {
		s.miss("No suspect selected.")
		return s
	}
	for _, claim := range claims {
		switch claim {
		case ClaimPresence:
			if placesSuspect(items, suspect) {
				s.support("Evidence suggests the suspect was near the location.")
			} else {
				s.miss("No evidence suggests proximity to the location.")
			}
		case ClaimOpportunity:
			switch opportunityFor(items, suspect) {
			case opportunityTight:
				s.support("Evidence narrows the opportunity window.")
			case opportunityBroad:
				s.miss("Timeline is too broad to close opportunity.")
			case opportunityNoLink:
				s.miss("No evidence ties the suspect to the opportunity window.")
			default:
				s.miss("No evidence constrains an opportunity window.")
			}
		case ClaimMotive:
			s.miss("No evidence suggests a motive linked to the victim.")
		case ClaimBehavior:
			s.miss("No evidence suggests behavioral alignment.")
		}
	}
	return s
}

// placesSuspect reports whether any sighting item observes the suspect.
func placesSuspect(items []presentation.Item, suspect uuid.UUID) bool {
	for _, it := range items {
		if (it.Witness != nil || it.CCTV != nil) && it.Observes(suspect) {
			return true
		}
	}
	return false
}

func opportunityFor(items []presentation.Item, suspect uuid.UUID) opportunity {
	var windows []domain.TimeWindow
	for _, it := range items {
		if it.Witness == nil && it.CCTV == nil {
			continue
		}
		if w, ok := it.Window(); ok {
			windows = append(windows, w)
		}
	}
	if len(windows) == 0 {
		return opportunityNone
	}
	if !placesSuspect(items, suspect) {
		return opportunityNoLink
	}
	common, ok := domain.IntersectAll(windows)
	if !ok {
		return opportunityNone
	}
	if common.Spread() > maxOpportunitySpread {
		return opportunityBroad
	}
	return opportunityTight
}
