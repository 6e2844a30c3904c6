package domain

import (
	"strconv"

	"github.com/google/uuid"
)

// Person is a truth graph node for a human participant.
type Person struct {
	ID       uuid.UUID         `json:"id"`
	Name     string            `json:"name"`
	AgeRange string            `json:"age_range"`
	Roles    []RoleTag         `json:"roles"`
	Traits   map[string]string `json:"traits,omitempty"`
}

// HasRole reports whether the person carries the given role tag.
func (p Person) HasRole(role RoleTag) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// TraitPercent reads an integer-percent trait, falling back to def when the
// trait is absent or not an integer.
func (p Person) TraitPercent(key string, def int) int {
	raw, ok := p.Traits[key]
	if !ok {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// Location is a truth graph node for a place.
type Location struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	District    string    `json:"district"`
	AccessLevel string    `json:"access_level"`
	Tags        []string  `json:"tags,omitempty"`
}

// HasTag reports whether the location carries tag.
func (l Location) HasTag(tag string) bool {
	for _, t := range l.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Item is a truth graph node for a physical object.
type Item struct {
	ID         uuid.UUID         `json:"id"`
	Name       string            `json:"name"`
	Type       ItemType          `json:"type"`
	Properties map[string]string `json:"properties,omitempty"`
}

// Event is an immutable timestamped occurrence.
// Seq is the logical record order; Timestamp is the in-world hour tick.
type Event struct {
	ID           uuid.UUID         `json:"id"`
	Seq          int64             `json:"seq"`
	Kind         EventKind         `json:"kind"`
	Timestamp    int               `json:"timestamp"`
	LocationID   uuid.UUID         `json:"location_id"`
	Participants []uuid.UUID       `json:"participants,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`

	// Supersedes is set on correction events and names the corrected event.
	Supersedes uuid.UUID `json:"supersedes,omitempty"`
}

// Involves reports whether id is a participant of the event.
func (e Event) Involves(id uuid.UUID) bool {
	for _, p := range e.Participants {
		if p == id {
			return true
		}
	}
	return false
}

// Edge is a typed, directed link between two graph nodes.
//
// Time fields depend on the edge category:
//   - state: Start..End (End nil means still holding)
//   - spatial: Start is entry, End is exit (nil means still present)
//   - transient: Start is the instant; End is always nil
//   - causal: no time fields
type Edge struct {
	Type  EdgeType          `json:"type"`
	From  uuid.UUID         `json:"from"`
	To    uuid.UUID         `json:"to"`
	Start int               `json:"start,omitempty"`
	End   *int              `json:"end,omitempty"`
	Attrs map[string]string `json:"attrs,omitempty"`
}

// Window returns the edge's time extent. Open edges extend to Start when
// no End is known, matching a point-in-time presence.
func (e Edge) Window() TimeWindow {
	if e.End == nil {
		return TimeWindow{Start: e.Start, End: e.Start}
	}
	return TimeWindow{Start: e.Start, End: *e.End}
}

// IntPtr returns a pointer to v. Convenience for optional edge ends.
func IntPtr(v int) *int {
	return &v
}
