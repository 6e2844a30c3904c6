package truth

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/roach88/noir/internal/domain"
)

// Dump renders the full truth graph as plain text for debugging.
// The output is deterministic for a given State.
func (s *State) Dump() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Case: %s (seed %d)\n", s.caseID, s.seed)
	if len(s.meta) > 0 {
		b.WriteString("Case meta:\n")
		for _, k := range s.MetaKeys() {
			fmt.Fprintf(&b, "- %s: %s\n", k, s.meta[k])
		}
	}

	b.WriteString("\nPeople:\n")
	for _, p := range s.People() {
		roles := make([]string, len(p.Roles))
		for i, r := range p.Roles {
			roles[i] = string(r)
		}
		fmt.Fprintf(&b, "- %s [%s] roles(%s)", p.Name, p.ID, strings.Join(roles, ", "))
		if len(p.Traits) > 0 {
			parts := make([]string, 0, len(p.Traits))
			for _, k := range sortedTraitKeys(p.Traits) {
				parts = append(parts, k+"="+p.Traits[k])
			}
			fmt.Fprintf(&b, " traits(%s)", strings.Join(parts, ", "))
		}
		b.WriteString("\n")
	}

	b.WriteString("\nLocations:\n")
	for _, l := range s.Locations() {
		fmt.Fprintf(&b, "- %s [%s] district=%s tags(%s)\n", l.Name, l.ID, l.District, strings.Join(l.Tags, ", "))
	}

	b.WriteString("\nItems:\n")
	for _, it := range s.Items() {
		fmt.Fprintf(&b, "- %s [%s] type=%s\n", it.Name, it.ID, it.Type)
	}

	b.WriteString("\nEvents:\n")
	for _, ev := range s.Events() {
		fmt.Fprintf(&b, "- t%d #%d %s loc=%s participants=[%s]",
			ev.Timestamp, ev.Seq, ev.Kind, ev.LocationID, strings.Join(uuidStrings(ev.Participants), ", "))
		if ev.Supersedes != uuid.Nil {
			fmt.Fprintf(&b, " supersedes=%s", ev.Supersedes)
		}
		b.WriteString("\n")
	}

	b.WriteString("\nEdges:\n")
	for _, e := range s.edges {
		fmt.Fprintf(&b, "- %s %s -> %s%s\n", e.Type, e.From, e.To, edgeTimeText(e))
	}
	return b.String()
}

func edgeTimeText(e domain.Edge) string {
	switch e.Type.Category() {
	case domain.CategoryCausal:
		return ""
	case domain.CategoryTransient:
		return fmt.Sprintf(" @t%d", e.Start)
	}
	end := "open"
	if e.End != nil {
		end = fmt.Sprintf("t%d", *e.End)
	}
	text := fmt.Sprintf(" [t%d..%s]", e.Start, end)
	if c, ok := e.Attrs["closeness"]; ok {
		text += " closeness=" + c
	}
	return text
}

func sortedTraitKeys(traits map[string]string) []string {
	keys := make([]string, 0, len(traits))
	for k := range traits {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
