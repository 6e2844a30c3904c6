package world

import (
	"fmt"

	"github.com/roach88/noir/internal/deduction"
	"github.com/roach88/noir/internal/investigation"
)

// Place identifies where a case happens.
type Place struct {
	District string
	Location string
}

// StartModifiers shape how a case opens.
type StartModifiers struct {
	Cooperation   float64  `json:"cooperation"`
	DeadlineDelta int      `json:"deadline_delta"`
	Briefing      []string `json:"briefing"`
}

// StartModifiers derives the opening conditions of a case at p. Trust sets
// how readily people cooperate. Pressure and a restless location both cut
// lead deadlines.
func (w *State) StartModifiers(p Place) StartModifiers {
	loc := w.LocationStatus(p.Location)
	coop := 0.4 + float64(w.Trust)/float64(deduction.TrustLimit)*0.6
	m := StartModifiers{
		Cooperation: max(0.2, min(1.0, coop)),
		Briefing:    w.ContextLines(p),
	}
	switch {
	case w.Pressure >= 5:
		m.DeadlineDelta = 2
	case w.Pressure >= 3:
		m.DeadlineDelta = 1
	}
	switch loc {
	case StatusVolatile:
		m.DeadlineDelta = max(m.DeadlineDelta, 2)
	case StatusTense:
		m.DeadlineDelta = max(m.DeadlineDelta, 1)
	}
	return m
}

// OpeningState is the session standing for a case at p.
func (w *State) OpeningState(p Place) investigation.State {
	return investigation.State{
		Trust:       w.Trust,
		Pressure:    w.Pressure,
		Cooperation: w.StartModifiers(p).Cooperation,
	}
}

// ContextLines are the briefing lines describing the standing at p.
func (w *State) ContextLines(p Place) []string {
	lines := []string{w.pressureLine(), w.trustLine()}
	switch w.DistrictStatus(p.District) {
	case StatusVolatile:
		lines = append(lines, "District status: volatile. Leads may collapse quickly.")
	case StatusTense:
		lines = append(lines, "District status: tense. Expect slower cooperation.")
	}
	switch w.LocationStatus(p.Location) {
	case StatusVolatile:
		lines = append(lines, "Location status: volatile. The scene feels unstable.")
	case StatusTense:
		lines = append(lines, "Location status: tense. Expect tightened access.")
	}
	return lines
}

func (w *State) pressureLine() string {
	switch {
	case w.Pressure >= 4:
		return "Pressure is high; the department expects quick movement."
	case w.Pressure <= 1:
		return "Pressure is low; you have a little room."
	}
	return "Pressure is steady; expect scrutiny to build."
}

func (w *State) trustLine() string {
	switch {
	case w.Trust <= 2:
		return "Trust is thin; witnesses are guarded."
	case w.Trust >= 5:
		return "Trust holds; cooperation is steady."
	}
	return "Trust is mixed; cooperation may vary."
}

// Closing is how a case ended.
type Closing struct {
	CaseID string
	Seed   int64
	Place  Place
	// Result is empty when the case closed without an arrest.
	Result        deduction.ArrestResult
	TrustDelta    int
	PressureDelta int
	// Elapsed is the time the case took.
	Elapsed int
	Notes   []string
}

// ApplyCaseOutcome folds a closed case into the world and returns notes on
// any status that shifted. Pressure is clamped to pressureLimit.
func (w *State) ApplyCaseOutcome(c Closing, pressureLimit int) []string {
	w.Trust = max(0, min(deduction.TrustLimit, w.Trust+c.TrustDelta))
	w.Pressure = max(0, min(pressureLimit, w.Pressure+c.PressureDelta))
	started := w.Tick
	w.Tick += c.Elapsed

	var notes []string
	district := w.DistrictStatus(c.Place.District)
	if next := shift(district, c.Result); next != district {
		w.Districts[c.Place.District] = next
		notes = append(notes, fmt.Sprintf("District status shifted to %s.", next))
	}
	loc := w.LocationStatus(c.Place.Location)
	if next := shift(loc, c.Result); next != loc {
		w.Locations[c.Place.Location] = next
		notes = append(notes, fmt.Sprintf("Location status shifted to %s.", next))
	}

	outcome := string(c.Result)
	if outcome == "" {
		outcome = OutcomeOpen
	}
	w.History = append(w.History, CaseRecord{
		CaseID:        c.CaseID,
		Seed:          c.Seed,
		District:      c.Place.District,
		Location:      c.Place.Location,
		StartedTick:   started,
		EndedTick:     w.Tick,
		Outcome:       outcome,
		TrustDelta:    c.TrustDelta,
		PressureDelta: c.PressureDelta,
		Notes:         append([]string(nil), c.Notes...),
	})
	return notes
}
