// Package catalog loads the content catalog that case generation and
// projection draw from: names, districts, locations, weapons and location
// archetypes.
//
// The catalog is written in CUE. The schema definitions at the top of
// catalog.cue constrain the data (non-empty lists, fractions in [0, 1],
// known weapon methods), so a malformed catalog fails at load time rather
// than midway through generating a case.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

//go:embed catalog.cue
var defaultSource []byte

// Catalog is the decoded content catalog.
type Catalog struct {
	FirstNames            []string             `json:"first_names"`
	LastNames             []string             `json:"last_names"`
	Districts             []string             `json:"districts"`
	AgeRanges             []string             `json:"age_ranges"`
	PublicLocations       []Location           `json:"public_locations"`
	PrivateLocations      []Location           `json:"private_locations"`
	Weapons               []Weapon             `json:"weapons"`
	AccessPaths           []string             `json:"access_paths"`
	Motives               []string             `json:"motives"`
	IntimateMotives       []string             `json:"intimate_motives"`
	StrangerMotives       []string             `json:"stranger_motives"`
	RelationshipDistances []string             `json:"relationship_distances"`
	Archetypes            map[string]Archetype `json:"archetypes"`
}

// Location is a named place and the archetype that describes it.
type Location struct {
	Name      string `json:"name"`
	Archetype string `json:"archetype"`
}

// Weapon is a named weapon and its method category.
type Weapon struct {
	Name   string `json:"name"`
	Method string `json:"method"`
}

// Archetype describes how a kind of place behaves for witnesses, cameras
// and logs.
type Archetype struct {
	Description  string             `json:"description"`
	Tags         []string           `json:"tags"`
	Presence     map[string]float64 `json:"presence"`
	Visibility   Visibility         `json:"visibility"`
	Surveillance Surveillance       `json:"surveillance"`
	Logs         []string           `json:"logs"`
	POIs         []POI              `json:"pois"`
}

// Visibility grades how well a witness can see at a place.
type Visibility struct {
	Lighting  float64 `json:"lighting"`
	Occlusion float64 `json:"occlusion"`
	Noise     float64 `json:"noise"`
}

// Surveillance grades recording coverage at a place.
type Surveillance struct {
	CCTV float64 `json:"cctv"`
}

// POI is a point of interest inside a scene.
type POI struct {
	Zone string   `json:"zone"`
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

// Score is the mean of lighting, clear line of sight and quiet.
func (v Visibility) Score() float64 {
	return (v.Lighting + (1 - v.Occlusion) + (1 - v.Noise)) / 3
}

// PresenceAt returns the chance someone is around in bucket, 0.5 if unknown.
func (a Archetype) PresenceAt(bucket string) float64 {
	if p, ok := a.Presence[bucket]; ok {
		return p
	}
	return 0.5
}

// POIIDs returns stable ids of the form zone:name:index.
func (a Archetype) POIIDs() []string {
	ids := make([]string, len(a.POIs))
	for i, p := range a.POIs {
		ids[i] = fmt.Sprintf("%s:%s:%d", p.Zone, p.Name, i+1)
	}
	return ids
}

// LoadError reports a catalog that failed to parse, validate or decode.
type LoadError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return Parse(defaultSource, "catalog.cue")
}

// MustDefault is like Default but panics on error.
// The built-in catalog is covered by tests, so this only fails on a bad edit.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// LoadFile reads a catalog from a CUE file. The file must provide the same
// top-level catalog value as the built-in one.
func LoadFile(path string) (*Catalog, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(src, path)
}

// Parse compiles, validates and decodes CUE source into a Catalog.
func Parse(src []byte, filename string) (*Catalog, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError("cue", err)
	}

	root := v.LookupPath(cue.ParsePath("catalog"))
	if !root.Exists() {
		return nil, &LoadError{Field: "catalog", Message: "catalog value is required", Pos: v.Pos()}
	}
	if err := root.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError("catalog", err)
	}

	var c Catalog
	if err := root.Decode(&c); err != nil {
		return nil, formatCUEError("catalog", err)
	}
	if err := c.checkReferences(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) checkReferences() error {
	for _, loc := range append(append([]Location{}, c.PublicLocations...), c.PrivateLocations...) {
		if _, ok := c.Archetypes[loc.Archetype]; !ok {
			return &LoadError{
				Field:   "catalog.locations",
				Message: fmt.Sprintf("location %q names unknown archetype %q", loc.Name, loc.Archetype),
			}
		}
	}
	return nil
}

// ArchetypeFor returns the archetype of a named location.
func (c *Catalog) ArchetypeFor(locationName string) (string, Archetype, bool) {
	for _, loc := range append(append([]Location{}, c.PublicLocations...), c.PrivateLocations...) {
		if loc.Name == locationName {
			a, ok := c.Archetypes[loc.Archetype]
			return loc.Archetype, a, ok
		}
	}
	return "", Archetype{}, false
}

// WeaponNamed looks up a weapon by name.
func (c *Catalog) WeaponNamed(name string) (Weapon, bool) {
	for _, w := range c.Weapons {
		if w.Name == name {
			return w, true
		}
	}
	return Weapon{}, false
}

// formatCUEError keeps the first CUE error with its source position.
func formatCUEError(field string, err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Field: field, Message: err.Error()}
	}
	first := errs[0]
	le := &LoadError{Field: field, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}
