package investigation

import (
	"fmt"

	"github.com/roach88/noir/internal/domain"
	"github.com/roach88/noir/internal/presentation"
)

// LeadStatus is the state of a lead clock.
type LeadStatus string

const (
	LeadActive   LeadStatus = "active"
	LeadExpired  LeadStatus = "expired"
	LeadResolved LeadStatus = "resolved"
)

// Lead is a time-limited opportunity to collect one type of evidence.
type Lead struct {
	Key        string              `json:"key"`
	Label      string              `json:"label"`
	Type       domain.EvidenceType `json:"evidence_type"`
	Deadline   int                 `json:"deadline"`
	ActionHint string              `json:"action_hint"`
	Status     LeadStatus          `json:"status"`
}

// maxLeads caps the number of leads a case opens.
const maxLeads = 3

var leadDeadlines = map[domain.EvidenceType]int{
	domain.EvidenceTestimonial: 2,
	domain.EvidenceCCTV:        3,
	domain.EvidenceForensics:   4,
}

var leadLabels = map[domain.EvidenceType]string{
	domain.EvidenceTestimonial: "Witness lead",
	domain.EvidenceCCTV:        "CCTV lead",
	domain.EvidenceForensics:   "Forensics lead",
}

var leadHints = map[domain.EvidenceType]string{
	domain.EvidenceTestimonial: "Interview witness",
	domain.EvidenceCCTV:        "Request CCTV",
	domain.EvidenceForensics:   "Submit forensics",
}

var decayNotes = map[domain.EvidenceType]string{
	domain.EvidenceTestimonial: "Witness lead expired; the statement is less certain.",
	domain.EvidenceCCTV:        "CCTV lead expired; only partial footage remains.",
	domain.EvidenceForensics:   "Forensics lead expired; the lab report is inconclusive.",
}

// BuildLeads opens one lead per evidence type present in the case.
// deadlineDelta shortens every deadline; negative values are ignored.
func BuildLeads(c *presentation.Case, start, deadlineDelta int) []Lead {
	var leads []Lead
	for _, t := range c.Types() {
		leads = append(leads, Lead{
			Key:        string(t),
			Label:      leadLabels[t],
			Type:       t,
			Deadline:   start + max(0, leadDeadlines[t]-max(0, deadlineDelta)),
			ActionHint: leadHints[t],
			Status:     LeadActive,
		})
	}
	if len(leads) > maxLeads {
		leads = leads[:maxLeads]
	}
	return leads
}

// Describe renders a lead for a status listing.
func (l Lead) Describe() string {
	var status string
	switch l.Status {
	case LeadActive:
		status = fmt.Sprintf("active until t%d", l.Deadline)
	case LeadResolved:
		status = "resolved"
	default:
		status = "expired"
	}
	return fmt.Sprintf("%s - %s (%s)", l.Label, status, l.ActionHint)
}

// expireLeads marks active leads past their deadline as expired and returns
// a note for each.
func expireLeads(leads []Lead, now int) []string {
	var notes []string
	for i := range leads {
		if leads[i].Status == LeadActive && now >= leads[i].Deadline {
			leads[i].Status = LeadExpired
			notes = append(notes, fmt.Sprintf("Lead went cold: %s.", leads[i].Label))
		}
	}
	return notes
}

func leadFor(leads []Lead, t domain.EvidenceType) *Lead {
	for i := range leads {
		if leads[i].Type == t {
			return &leads[i]
		}
	}
	return nil
}

func resolveLead(leads []Lead, t domain.EvidenceType) {
	if l := leadFor(leads, t); l != nil && l.Status == LeadActive {
		l.Status = LeadResolved
	}
}

// expired reports whether the lead for t has gone cold.
func expired(leads []Lead, t domain.EvidenceType) bool {
	l := leadFor(leads, t)
	return l != nil && l.Status == LeadExpired
}
