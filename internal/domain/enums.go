package domain

// RoleTag marks the part a person plays in a case.
type RoleTag string

const (
	RoleVictim   RoleTag = "victim"
	RoleSuspect  RoleTag = "suspect"
	RoleWitness  RoleTag = "witness"
	RoleOffender RoleTag = "offender"
)

// ItemType classifies items.
type ItemType string

const (
	ItemWeapon   ItemType = "weapon"
	ItemDocument ItemType = "document"
	ItemPersonal ItemType = "personal"
)

// EventKind classifies truth events.
type EventKind string

const (
	EventApproach         EventKind = "approach"
	EventConfrontation    EventKind = "confrontation"
	EventKill             EventKind = "kill"
	EventDiscovery        EventKind = "discovery"
	EventInterview        EventKind = "interview"
	EventInvestigateScene EventKind = "investigate_scene"
	EventRequestCCTV      EventKind = "request_cctv"
	EventSubmitForensics  EventKind = "submit_forensics"
	EventArrest           EventKind = "arrest"
	EventOperation        EventKind = "operation"
	EventCorrection       EventKind = "correction"
)

// EdgeType names a relationship in the truth graph.
type EdgeType string

const (
	EdgeLocatedAt    EdgeType = "located_at"
	EdgePossesses    EdgeType = "possesses"
	EdgeRelationship EdgeType = "relationship"
	EdgeInvolves     EdgeType = "involves"
	EdgeEventAt      EdgeType = "event_at"
	EdgeEnabledBy    EdgeType = "enabled_by"
)

// EdgeCategory groups edge types by their time-field semantics.
type EdgeCategory string

const (
	// CategoryState edges hold over an interval [Start, End].
	CategoryState EdgeCategory = "state"
	// CategorySpatial edges hold over a stay [Entry, Exit].
	CategorySpatial EdgeCategory = "spatial"
	// CategoryTransient edges happen at a single instant.
	CategoryTransient EdgeCategory = "transient"
	// CategoryCausal edges carry no time fields.
	CategoryCausal EdgeCategory = "causal"
)

// Category returns the time-semantics category for an edge type.
func (t EdgeType) Category() EdgeCategory {
	switch t {
	case EdgePossesses, EdgeRelationship:
		return CategoryState
	case EdgeLocatedAt:
		return CategorySpatial
	case EdgeInvolves, EdgeEventAt:
		return CategoryTransient
	default:
		return CategoryCausal
	}
}

// EvidenceType is the player-facing kind of an evidence item.
type EvidenceType string

const (
	EvidenceTestimonial EvidenceType = "testimonial"
	EvidenceForensics   EvidenceType = "forensics"
	EvidenceCCTV        EvidenceType = "cctv"
)

// EvidenceTypes lists evidence types in lead order.
var EvidenceTypes = []EvidenceType{EvidenceTestimonial, EvidenceCCTV, EvidenceForensics}

// Origin records where an evidence item's content came from.
type Origin string

const (
	// OriginObserved content was captured directly (a recording, a lab result).
	OriginObserved Origin = "observed"
	// OriginTestimony content was derived from what someone said.
	OriginTestimony Origin = "testimony"
)

// ConfidenceBand is a coarse reliability grade.
type ConfidenceBand string

const (
	ConfidenceStrong ConfidenceBand = "strong"
	ConfidenceMedium ConfidenceBand = "medium"
	ConfidenceWeak   ConfidenceBand = "weak"
)

// Rank orders bands: weak < medium < strong. Unknown bands rank 0.
func (c ConfidenceBand) Rank() int {
	switch c {
	case ConfidenceStrong:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceWeak:
		return 1
	}
	return 0
}

// Downgrade returns the next weaker band. Weak stays weak.
func (c ConfidenceBand) Downgrade() ConfidenceBand {
	switch c {
	case ConfidenceStrong:
		return ConfidenceMedium
	case ConfidenceMedium:
		return ConfidenceWeak
	}
	return c
}

// MethodCategory is the coarse class of a killing method.
type MethodCategory string

const (
	MethodSharp   MethodCategory = "sharp"
	MethodBlunt   MethodCategory = "blunt"
	MethodPoison  MethodCategory = "poison"
	MethodUnknown MethodCategory = "unknown"
)

// TimeBucket is a coarse period of day.
type TimeBucket string

const (
	BucketMorning   TimeBucket = "morning"
	BucketAfternoon TimeBucket = "afternoon"
	BucketEvening   TimeBucket = "evening"
	BucketMidnight  TimeBucket = "midnight"
)

// BucketForHour maps an hour tick to its time bucket.
func BucketForHour(hour int) TimeBucket {
	h := ((hour % 24) + 24) % 24
	switch {
	case h >= 5 && h < 12:
		return BucketMorning
	case h >= 12 && h < 17:
		return BucketAfternoon
	case h >= 17 && h < 21:
		return BucketEvening
	}
	return BucketMidnight
}
