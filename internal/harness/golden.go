package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/noir/internal/ir"
)

// Snapshot returns the canonical form of a result for golden comparison.
// Evidence ids are left out; the fingerprint already pins the case.
func (r *Result) Snapshot() ir.Object {
	steps := make(ir.Array, len(r.Steps))
	for i, s := range r.Steps {
		steps[i] = ir.Object{
			"action":   ir.String(s.Action),
			"outcome":  ir.String(s.Outcome),
			"summary":  ir.String(s.Summary),
			"revealed": ir.Int(s.Revealed),
		}
	}

	obj := ir.Object{
		"scenario":       ir.String(r.Scenario),
		"case_id":        ir.String(r.CaseID),
		"seed":           ir.Int(r.Seed),
		"fingerprint":    ir.String(r.Fingerprint),
		"pass":           ir.Bool(r.Pass),
		"steps":          steps,
		"evidence_types": ir.Strings(r.EvidenceTypes),
		"state": ir.Object{
			"time":     ir.Int(r.State.Time),
			"pressure": ir.Int(r.State.Pressure),
			"trust":    ir.Int(r.State.Trust),
			// percent, canonical form has no floats
			"cooperation": ir.Int(int64(r.State.Cooperation*100 + 0.5)),
		},
	}
	if r.Validation != nil {
		obj["tier"] = ir.String(r.Validation.Tier)
	}
	if r.Arrest != nil {
		obj["arrest"] = ir.String(r.Arrest.Result)
	}
	if r.Profile.Reading != "" {
		obj["reading"] = ir.String(r.Profile.Reading)
	}
	if len(r.Errors) > 0 {
		obj["errors"] = ir.Strings(r.Errors)
	}
	return obj
}

// AssertGolden compares the result's snapshot against
// testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := ir.MarshalCanonical(result.Snapshot())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
