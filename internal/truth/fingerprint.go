package truth

import (
	"github.com/google/uuid"

	"github.com/roach88/noir/internal/domain"
	"github.com/roach88/noir/internal/ir"
)

// Fingerprint returns a content hash of the whole truth graph.
//
// Nodes are keyed by id and events ordered by (Timestamp, Seq), so two
// states built by the same sequence of writes hash identically. Edges keep
// record order.
func (s *State) Fingerprint() (string, error) {
	return ir.Fingerprint(ir.DomainTruth, s.canonical())
}

func (s *State) canonical() ir.Object {
	people := ir.Object{}
	for id, p := range s.people {
		roles := make([]string, len(p.Roles))
		for i, r := range p.Roles {
			roles[i] = string(r)
		}
		people[id.String()] = ir.Object{
			"name":      ir.String(p.Name),
			"age_range": ir.String(p.AgeRange),
			"roles":     ir.Strings(roles),
			"traits":    ir.StringMap(p.Traits),
		}
	}

	locations := ir.Object{}
	for id, l := range s.locations {
		locations[id.String()] = ir.Object{
			"name":         ir.String(l.Name),
			"district":     ir.String(l.District),
			"access_level": ir.String(l.AccessLevel),
			"tags":         ir.Strings(l.Tags),
		}
	}

	items := ir.Object{}
	for id, it := range s.items {
		items[id.String()] = ir.Object{
			"name":       ir.String(it.Name),
			"type":       ir.String(string(it.Type)),
			"properties": ir.StringMap(it.Properties),
		}
	}

	events := ir.Array{}
	for _, ev := range s.Events() {
		events = append(events, eventValue(ev))
	}

	edges := ir.Array{}
	for _, e := range s.edges {
		edges = append(edges, edgeValue(e))
	}

	return ir.Object{
		"case_id":   ir.String(s.caseID),
		"seed":      ir.Int(s.seed),
		"people":    people,
		"locations": locations,
		"items":     items,
		"events":    events,
		"edges":     edges,
		"meta":      ir.StringMap(s.meta),
	}
}

func eventValue(ev domain.Event) ir.Object {
	obj := ir.Object{
		"id":           ir.String(ev.ID.String()),
		"seq":          ir.Int(ev.Seq),
		"kind":         ir.String(string(ev.Kind)),
		"timestamp":    ir.Int(int64(ev.Timestamp)),
		"location_id":  ir.String(ev.LocationID.String()),
		"participants": ir.Strings(uuidStrings(ev.Participants)),
		"metadata":     ir.StringMap(ev.Metadata),
	}
	if ev.Supersedes != uuid.Nil {
		obj["supersedes"] = ir.String(ev.Supersedes.String())
	}
	return obj
}

func edgeValue(e domain.Edge) ir.Object {
	obj := ir.Object{
		"type": ir.String(string(e.Type)),
		"from": ir.String(e.From.String()),
		"to":   ir.String(e.To.String()),
	}
	if e.Type.Category() != domain.CategoryCausal {
		obj["start"] = ir.Int(int64(e.Start))
	}
	if e.End != nil {
		obj["end"] = ir.Int(int64(*e.End))
	}
	if len(e.Attrs) > 0 {
		obj["attrs"] = ir.StringMap(e.Attrs)
	}
	return obj
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
