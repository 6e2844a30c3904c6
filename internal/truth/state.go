package truth

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/google/uuid"

	"github.com/roach88/noir/internal/domain"
)

// State is the append-only truth graph for one case.
type State struct {
	caseID    string
	seed      int64
	namespace uuid.UUID
	clock     Sequencer
	logger    *slog.Logger

	people    map[uuid.UUID]domain.Person
	locations map[uuid.UUID]domain.Location
	items     map[uuid.UUID]domain.Item
	events    map[uuid.UUID]domain.Event

	// Insertion order, for deterministic iteration and dumps.
	personOrder   []uuid.UUID
	locationOrder []uuid.UUID
	itemOrder     []uuid.UUID
	eventOrder    []uuid.UUID

	edges []domain.Edge
	meta  map[string]string
}

// Option configures a State.
type Option func(*State)

// WithClock replaces the default Clock. Tests pass a
// testutil.DeterministicClock; journal replay passes NewClockAt.
func WithClock(c Sequencer) Option {
	return func(s *State) {
		s.clock = c
	}
}

// WithLogger sets the logger that traces graph writes at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(s *State) {
		s.logger = l
	}
}

// New creates an empty State for a case.
func New(caseID string, seed int64, opts ...Option) *State {
	s := &State{
		caseID:    caseID,
		seed:      seed,
		namespace: CaseNamespace(caseID),
		clock:     NewClock(),
		logger:    slog.Default(),
		people:    make(map[uuid.UUID]domain.Person),
		locations: make(map[uuid.UUID]domain.Location),
		items:     make(map[uuid.UUID]domain.Item),
		events:    make(map[uuid.UUID]domain.Event),
		meta:      make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CaseNamespace is the UUIDv5 namespace all ids of a case are derived in.
func CaseNamespace(caseID string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("noir:case:"+caseID))
}

// CaseID returns the case identifier.
func (s *State) CaseID() string { return s.caseID }

// Seed returns the generation seed.
func (s *State) Seed() int64 { return s.seed }

// Namespace returns the case id namespace.
func (s *State) Namespace() uuid.UUID { return s.namespace }

// NewID derives a deterministic id for a node of the given kind.
// The same (case, kind, key) always yields the same id.
func (s *State) NewID(kind, key string) uuid.UUID {
	return uuid.NewSHA1(s.namespace, []byte(kind+":"+key))
}

// AddPerson adds a person node.
func (s *State) AddPerson(p domain.Person) error {
	if err := s.checkNewNode("person", p.ID); err != nil {
		return err
	}
	p.Roles = slices.Clone(p.Roles)
	p.Traits = maps.Clone(p.Traits)
	s.people[p.ID] = p
	s.personOrder = append(s.personOrder, p.ID)
	s.logger.Debug("truth: person added", "case", s.caseID, "id", p.ID, "name", p.Name)
	return nil
}

// AddLocation adds a location node.
func (s *State) AddLocation(l domain.Location) error {
	if err := s.checkNewNode("location", l.ID); err != nil {
		return err
	}
	l.Tags = slices.Clone(l.Tags)
	s.locations[l.ID] = l
	s.locationOrder = append(s.locationOrder, l.ID)
	s.logger.Debug("truth: location added", "case", s.caseID, "id", l.ID, "name", l.Name)
	return nil
}

// AddItem adds an item node.
func (s *State) AddItem(it domain.Item) error {
	if err := s.checkNewNode("item", it.ID); err != nil {
		return err
	}
	it.Properties = maps.Clone(it.Properties)
	s.items[it.ID] = it
	s.itemOrder = append(s.itemOrder, it.ID)
	s.logger.Debug("truth: item added", "case", s.caseID, "id", it.ID, "name", it.Name)
	return nil
}

// EventSpec describes an event to record. ID and Seq are assigned by the State.
type EventSpec struct {
	Kind         domain.EventKind
	Timestamp    int
	LocationID   uuid.UUID
	Participants []uuid.UUID
	Metadata     map[string]string
}

// RecordEvent appends an event along with its event_at and involves edges.
func (s *State) RecordEvent(spec EventSpec) (domain.Event, error) {
	if spec.Kind == domain.EventCorrection {
		return domain.Event{}, &domain.InvariantError{
			Code:    domain.ErrCodeUnknownEvent,
			Message: "a correction must name the event it supersedes",
		}
	}
	return s.appendEvent(spec, uuid.Nil)
}

// RecordCorrection appends a correction event that supersedes target.
// The corrected event itself is left untouched.
func (s *State) RecordCorrection(target uuid.UUID, timestamp int, metadata map[string]string) (domain.Event, error) {
	orig, ok := s.events[target]
	if !ok {
		return domain.Event{}, domain.NewUnknownEventError(target.String())
	}
	return s.appendEvent(EventSpec{
		Kind:         domain.EventCorrection,
		Timestamp:    timestamp,
		LocationID:   orig.LocationID,
		Participants: orig.Participants,
		Metadata:     metadata,
	}, target)
}

func (s *State) appendEvent(spec EventSpec, supersedes uuid.UUID) (domain.Event, error) {
	if _, ok := s.locations[spec.LocationID]; !ok {
		return domain.Event{}, domain.NewUnknownEntityError("location", spec.LocationID.String())
	}
	for _, pid := range spec.Participants {
		if _, ok := s.people[pid]; !ok {
			return domain.Event{}, domain.NewUnknownEntityError("person", pid.String())
		}
	}

	seq := s.clock.Next()
	ev := domain.Event{
		ID:           s.NewID("event", fmt.Sprintf("%d", seq)),
		Seq:          seq,
		Kind:         spec.Kind,
		Timestamp:    spec.Timestamp,
		LocationID:   spec.LocationID,
		Participants: slices.Clone(spec.Participants),
		Metadata:     maps.Clone(spec.Metadata),
		Supersedes:   supersedes,
	}
	s.events[ev.ID] = ev
	s.eventOrder = append(s.eventOrder, ev.ID)

	s.edges = append(s.edges, domain.Edge{
		Type: domain.EdgeEventAt, From: ev.ID, To: ev.LocationID, Start: ev.Timestamp,
	})
	for _, pid := range ev.Participants {
		s.edges = append(s.edges, domain.Edge{
			Type: domain.EdgeInvolves, From: ev.ID, To: pid, Start: ev.Timestamp,
		})
	}

	s.logger.Debug("truth: event recorded",
		"case", s.caseID,
		"kind", ev.Kind,
		"t", ev.Timestamp,
		"seq", ev.Seq,
	)
	return ev, nil
}

// SetLocation records that a person was at a location from entry to exit.
// A nil exit means the person is still there.
func (s *State) SetLocation(personID, locationID uuid.UUID, entry int, exit *int) error {
	if _, ok := s.people[personID]; !ok {
		return domain.NewUnknownEntityError("person", personID.String())
	}
	if _, ok := s.locations[locationID]; !ok {
		return domain.NewUnknownEntityError("location", locationID.String())
	}
	if err := domain.ValidateInterval(entry, exit); err != nil {
		return err
	}
	s.edges = append(s.edges, domain.Edge{
		Type: domain.EdgeLocatedAt, From: personID, To: locationID, Start: entry, End: copyInt(exit),
	})
	return nil
}

// Possess records that a person held an item from start to end.
func (s *State) Possess(personID, itemID uuid.UUID, start int, end *int) error {
	if _, ok := s.people[personID]; !ok {
		return domain.NewUnknownEntityError("person", personID.String())
	}
	if _, ok := s.items[itemID]; !ok {
		return domain.NewUnknownEntityError("item", itemID.String())
	}
	if err := domain.ValidateInterval(start, end); err != nil {
		return err
	}
	s.edges = append(s.edges, domain.Edge{
		Type: domain.EdgePossesses, From: personID, To: itemID, Start: start, End: copyInt(end),
	})
	return nil
}

// Relate records a relationship from one person to another, starting at
// start and still holding. closeness is one of intimate, acquaintance or
// stranger.
func (s *State) Relate(from, to uuid.UUID, closeness string, start int) error {
	if _, ok := s.people[from]; !ok {
		return domain.NewUnknownEntityError("person", from.String())
	}
	if _, ok := s.people[to]; !ok {
		return domain.NewUnknownEntityError("person", to.String())
	}
	s.edges = append(s.edges, domain.Edge{
		Type:  domain.EdgeRelationship,
		From:  from,
		To:    to,
		Start: start,
		Attrs: map[string]string{"closeness": closeness},
	})
	return nil
}

// LinkCausal records that an event was enabled by a precondition node.
// The precondition may be any person, location, item or event.
func (s *State) LinkCausal(eventID, preconditionID uuid.UUID) error {
	if _, ok := s.events[eventID]; !ok {
		return domain.NewUnknownEventError(eventID.String())
	}
	if !s.hasNode(preconditionID) {
		return domain.NewUnknownEntityError("node", preconditionID.String())
	}
	s.edges = append(s.edges, domain.Edge{
		Type: domain.EdgeEnabledBy, From: eventID, To: preconditionID,
	})
	return nil
}

// SetMeta records a case-level fact. A key may be written once; writing the
// same value again is a no-op.
func (s *State) SetMeta(key, value string) error {
	if prev, ok := s.meta[key]; ok {
		if prev == value {
			return nil
		}
		return &domain.InvariantError{
			Code:    domain.ErrCodeDuplicateEntity,
			Message: fmt.Sprintf("case meta %q already recorded", key),
			Details: map[string]string{"key": key, "existing": prev, "rejected": value},
		}
	}
	s.meta[key] = value
	return nil
}

func (s *State) checkNewNode(label string, id uuid.UUID) error {
	if id == uuid.Nil {
		return domain.NewUnknownEntityError(label, id.String())
	}
	if s.hasNode(id) {
		return domain.NewDuplicateEntityError(label, id.String())
	}
	return nil
}

func (s *State) hasNode(id uuid.UUID) bool {
	if _, ok := s.people[id]; ok {
		return true
	}
	if _, ok := s.locations[id]; ok {
		return true
	}
	if _, ok := s.items[id]; ok {
		return true
	}
	_, ok := s.events[id]
	return ok
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
