package truth

import (
	"slices"
	"sort"

	"github.com/google/uuid"

	"github.com/roach88/noir/internal/domain"
)

// Person looks up a person by id.
func (s *State) Person(id uuid.UUID) (domain.Person, bool) {
	p, ok := s.people[id]
	return p, ok
}

// Location looks up a location by id.
func (s *State) Location(id uuid.UUID) (domain.Location, bool) {
	l, ok := s.locations[id]
	return l, ok
}

// Item looks up an item by id.
func (s *State) Item(id uuid.UUID) (domain.Item, bool) {
	it, ok := s.items[id]
	return it, ok
}

// Event looks up an event by id.
func (s *State) Event(id uuid.UUID) (domain.Event, bool) {
	ev, ok := s.events[id]
	return ev, ok
}

// People returns all people in insertion order.
func (s *State) People() []domain.Person {
	out := make([]domain.Person, 0, len(s.personOrder))
	for _, id := range s.personOrder {
		out = append(out, s.people[id])
	}
	return out
}

// Locations returns all locations in insertion order.
func (s *State) Locations() []domain.Location {
	out := make([]domain.Location, 0, len(s.locationOrder))
	for _, id := range s.locationOrder {
		out = append(out, s.locations[id])
	}
	return out
}

// Items returns all items in insertion order.
func (s *State) Items() []domain.Item {
	out := make([]domain.Item, 0, len(s.itemOrder))
	for _, id := range s.itemOrder {
		out = append(out, s.items[id])
	}
	return out
}

// Events returns all events ordered by (Timestamp, Seq).
func (s *State) Events() []domain.Event {
	out := make([]domain.Event, 0, len(s.eventOrder))
	for _, id := range s.eventOrder {
		out = append(out, s.events[id])
	}
	sortEvents(out)
	return out
}

// Edges returns a copy of all edges in record order.
func (s *State) Edges() []domain.Edge {
	return slices.Clone(s.edges)
}

// EventCount returns the number of recorded events.
func (s *State) EventCount() int {
	return len(s.eventOrder)
}

// LastSeq returns the sequence number of the most recent event, 0 if none.
func (s *State) LastSeq() int64 {
	return s.clock.Current()
}

// Meta returns a case-level fact.
func (s *State) Meta(key string) (string, bool) {
	v, ok := s.meta[key]
	return v, ok
}

// MetaKeys returns meta keys in sorted order.
func (s *State) MetaKeys() []string {
	keys := make([]string, 0, len(s.meta))
	for k := range s.meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// PeopleWithRole returns people carrying role, in insertion order.
func (s *State) PeopleWithRole(role domain.RoleTag) []domain.Person {
	var out []domain.Person
	for _, id := range s.personOrder {
		if p := s.people[id]; p.HasRole(role) {
			out = append(out, p)
		}
	}
	return out
}

// WhereWas returns the locations a person occupied at any point in window.
// An open stay counts as a point presence at its entry.
func (s *State) WhereWas(personID uuid.UUID, window domain.TimeWindow) []uuid.UUID {
	var out []uuid.UUID
	for _, e := range s.edges {
		if e.Type != domain.EdgeLocatedAt || e.From != personID {
			continue
		}
		if e.Window().Overlaps(window) && !slices.Contains(out, e.To) {
			out = append(out, e.To)
		}
	}
	return out
}

// EventsOfKind returns events of kind ordered by (Timestamp, Seq).
func (s *State) EventsOfKind(kind domain.EventKind) []domain.Event {
	var out []domain.Event
	for _, id := range s.eventOrder {
		if ev := s.events[id]; ev.Kind == kind {
			out = append(out, ev)
		}
	}
	sortEvents(out)
	return out
}

// EventsInWindow returns events of kind with start <= Timestamp <= end.
func (s *State) EventsInWindow(kind domain.EventKind, start, end int) []domain.Event {
	w := domain.TimeWindow{Start: start, End: end}
	var out []domain.Event
	for _, ev := range s.EventsOfKind(kind) {
		if w.Contains(ev.Timestamp) {
			out = append(out, ev)
		}
	}
	return out
}

// FirstEvent returns the earliest event of kind.
func (s *State) FirstEvent(kind domain.EventKind) (domain.Event, bool) {
	evs := s.EventsOfKind(kind)
	if len(evs) == 0 {
		return domain.Event{}, false
	}
	return evs[0], true
}

// HasPrecondition reports whether an event has at least one enabled_by edge.
func (s *State) HasPrecondition(eventID uuid.UUID) bool {
	for _, e := range s.edges {
		if e.Type == domain.EdgeEnabledBy && e.From == eventID {
			return true
		}
	}
	return false
}

// Preconditions returns the nodes an event was enabled by.
func (s *State) Preconditions(eventID uuid.UUID) []uuid.UUID {
	var out []uuid.UUID
	for _, e := range s.edges {
		if e.Type == domain.EdgeEnabledBy && e.From == eventID {
			out = append(out, e.To)
		}
	}
	return out
}

// RelationshipBetween returns the first relationship edge linking a and b
// in either direction.
func (s *State) RelationshipBetween(a, b uuid.UUID) (domain.Edge, bool) {
	for _, e := range s.edges {
		if e.Type != domain.EdgeRelationship {
			continue
		}
		if (e.From == a && e.To == b) || (e.From == b && e.To == a) {
			return e, true
		}
	}
	return domain.Edge{}, false
}

// Corrections returns the correction events that supersede eventID, oldest first.
func (s *State) Corrections(eventID uuid.UUID) []domain.Event {
	var out []domain.Event
	for _, ev := range s.EventsOfKind(domain.EventCorrection) {
		if ev.Supersedes == eventID {
			out = append(out, ev)
		}
	}
	return out
}

func sortEvents(evs []domain.Event) {
	sort.SliceStable(evs, func(i, j int) bool {
		if evs[i].Timestamp != evs[j].Timestamp {
			return evs[i].Timestamp < evs[j].Timestamp
		}
		return evs[i].Seq < evs[j].Seq
	})
}
