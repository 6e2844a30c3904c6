// Package truth holds the canonical, hidden world graph of a case.
//
// A State is append-only. People, locations, items and events are added,
// never edited or removed; edges record who was where, who held what, who
// knew whom, and what enabled an event. A mistaken fact is fixed by
// recording a correction event that supersedes it.
//
// Every write validates its references and time intervals before touching
// the graph and returns a *domain.InvariantError on violation. A failed
// write leaves the State, and therefore its Fingerprint, unchanged.
//
// State is not safe for concurrent use. The investigation loop is
// turn-based and owns one State per case.
package truth
