// Package world carries the detective's standing from one case to the next:
// trust and pressure, the mood of districts and locations, and a history of
// closed cases. It shapes how the next case opens.
package world

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/noir/internal/deduction"
	"github.com/roach88/noir/internal/investigation"
	"github.com/roach88/noir/internal/validate"
)

// Status is how settled a district or location is.
type Status string

const (
	StatusCalm     Status = "calm"
	StatusTense    Status = "tense"
	StatusVolatile Status = "volatile"
)

var statusOrder = []Status{StatusCalm, StatusTense, StatusVolatile}

// OutcomeOpen is recorded for a case closed without an arrest.
const OutcomeOpen = "open"

// CaseRecord is a closed case in the world history.
type CaseRecord struct {
	CaseID        string   `yaml:"case_id" json:"case_id" validate:"required"`
	Seed          int64    `yaml:"seed" json:"seed"`
	District      string   `yaml:"district" json:"district"`
	Location      string   `yaml:"location" json:"location"`
	StartedTick   int      `yaml:"started_tick" json:"started_tick" validate:"gte=0"`
	EndedTick     int      `yaml:"ended_tick" json:"ended_tick" validate:"gtefield=StartedTick"`
	Outcome       string   `yaml:"outcome" json:"outcome" validate:"oneof=success partial failed open"`
	TrustDelta    int      `yaml:"trust_delta" json:"trust_delta"`
	PressureDelta int      `yaml:"pressure_delta" json:"pressure_delta"`
	Notes         []string `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// State is the standing carried across cases.
type State struct {
	Trust     int               `yaml:"trust" json:"trust" validate:"gte=0,lte=6"`
	Pressure  int               `yaml:"pressure" json:"pressure" validate:"gte=0"`
	Tick      int               `yaml:"tick" json:"tick" validate:"gte=0"`
	Districts map[string]Status `yaml:"districts,omitempty" json:"districts,omitempty" validate:"dive,keys,required,endkeys,oneof=calm tense volatile"`
	Locations map[string]Status `yaml:"locations,omitempty" json:"locations,omitempty" validate:"dive,keys,required,endkeys,oneof=calm tense volatile"`
	History   []CaseRecord      `yaml:"history,omitempty" json:"history,omitempty" validate:"dive"`
}

var worldValidate = validate.New("yaml")

// New returns the standing of a detective with no cases behind them.
func New() *State {
	return &State{
		Trust:     investigation.InitialTrust,
		Districts: map[string]Status{},
		Locations: map[string]Status{},
	}
}

// Validate checks the bounds of a loaded state.
func (w *State) Validate() error {
	if err := worldValidate.Struct(w); err != nil {
		return fmt.Errorf("invalid world: %w", validate.Describe(err))
	}
	return nil
}

// Load reads an opening world state from a YAML file.
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read world: %w", err)
	}
	w := New()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(w); err != nil {
		return nil, fmt.Errorf("parse world: %w", err)
	}
	if w.Districts == nil {
		w.Districts = map[string]Status{}
	}
	if w.Locations == nil {
		w.Locations = map[string]Status{}
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// baseline is the status a place starts at when first seen.
func (w *State) baseline() Status {
	switch {
	case w.Pressure >= 4:
		return StatusVolatile
	case w.Pressure >= 2:
		return StatusTense
	}
	return StatusCalm
}

// DistrictStatus returns the status of district, fixing it at the current
// baseline the first time the district is seen.
func (w *State) DistrictStatus(district string) Status {
	if s, ok := w.Districts[district]; ok {
		return s
	}
	s := w.baseline()
	w.Districts[district] = s
	return s
}

// LocationStatus is DistrictStatus for a named location.
func (w *State) LocationStatus(location string) Status {
	if s, ok := w.Locations[location]; ok {
		return s
	}
	s := w.baseline()
	w.Locations[location] = s
	return s
}

// shift moves a status one step toward calm after a clean arrest and one
// step toward volatile after a failed one.
func shift(current Status, result deduction.ArrestResult) Status {
	i := 0
	for j, s := range statusOrder {
		if s == current {
			i = j
		}
	}
	switch result {
	case deduction.ArrestSuccess:
		i--
	case deduction.ArrestFailed:
		i++
	}
	return statusOrder[max(0, min(i, len(statusOrder)-1))]
}
