package harness

import (
	"fmt"
	"slices"

	"github.com/roach88/noir/internal/cases"
	"github.com/roach88/noir/internal/catalog"
	"github.com/roach88/noir/internal/domain"
	"github.com/roach88/noir/internal/presentation"
)

// DefaultSeedTries bounds FindSeed.
const DefaultSeedTries = 50

// Path is a builtin investigation strategy.
type Path struct {
	Name     string
	Steps    []Step
	Claims   []string
	Evidence []string
}

var (
	interviewWitness = Step{Action: "interview", Target: TargetWitness}
	requestCCTV      = Step{Action: "request_cctv"}
	submitForensics  = Step{Action: "submit_forensics", Target: TargetWeapon}
)

// Paths are the builtin strategies, from single-source cases to the
// cautious path that gathers every evidence type.
var Paths = []Path{
	{
		Name:     "witness_only",
		Steps:    []Step{interviewWitness},
		Claims:   []string{"presence", "opportunity"},
		Evidence: []string{"witness_statement"},
	},
	{
		Name:     "cctv_only",
		Steps:    []Step{requestCCTV},
		Claims:   []string{"presence", "opportunity"},
		Evidence: []string{"cctv_report"},
	},
	{
		Name:     "forensics_only",
		Steps:    []Step{submitForensics},
		Claims:   []string{"behavior"},
		Evidence: []string{"forensics_result"},
	},
	{
		Name:     "witness_cctv",
		Steps:    []Step{interviewWitness, requestCCTV},
		Claims:   []string{"presence", "opportunity"},
		Evidence: []string{"witness_statement", "cctv_report"},
	},
	{
		Name:     "witness_forensics",
		Steps:    []Step{interviewWitness, submitForensics},
		Claims:   []string{"presence", "opportunity"},
		Evidence: []string{"witness_statement", "forensics_result"},
	},
	{
		Name:     "cctv_forensics",
		Steps:    []Step{requestCCTV, submitForensics},
		Claims:   []string{"presence", "opportunity"},
		Evidence: []string{"cctv_report", "forensics_result"},
	},
	{
		Name:     "aggressive",
		Steps:    []Step{interviewWitness},
		Claims:   []string{ClaimsSupported},
		Evidence: []string{"witness_statement"},
	},
	{
		Name:     "cautious",
		Steps:    []Step{interviewWitness, requestCCTV, submitForensics},
		Claims:   []string{ClaimsSupported},
		Evidence: []string{"forensics_result", "cctv_report", "witness_statement"},
	},
}

// PathNamed returns the builtin path with the given name.
func PathNamed(name string) (Path, bool) {
	i := slices.IndexFunc(Paths, func(p Path) bool { return p.Name == name })
	if i < 0 {
		return Path{}, false
	}
	return Paths[i], true
}

// Scenario builds the scenario that runs the path against seed: the path's
// steps, a hypothesis naming the offender, then an arrest.
func (p Path) Scenario(seed int64) *Scenario {
	steps := slices.Clone(p.Steps)
	steps = append(steps,
		Step{
			Action:   "set_hypothesis",
			Target:   TargetOffender,
			Claims:   slices.Clone(p.Claims),
			Evidence: slices.Clone(p.Evidence),
		},
		Step{Action: "arrest"},
	)
	return &Scenario{
		Name:  fmt.Sprintf("%s_%d", p.Name, seed),
		Seed:  seed,
		Steps: steps,
	}
}

// FindSeed returns the first seed from start whose projected case holds
// every evidence type.
func FindSeed(cat *catalog.Catalog, start int64, tries int) (int64, bool, error) {
	projector := presentation.NewProjector(cat)
	for seed := start; seed < start+int64(tries); seed++ {
		st, _, err := cases.Generate(cat, seed, "")
		if err != nil {
			return 0, false, err
		}
		c, err := projector.Project(st)
		if err != nil {
			return 0, false, err
		}
		types := c.Types()
		complete := true
		for _, t := range domain.EvidenceTypes {
			if !slices.Contains(types, t) {
				complete = false
				break
			}
		}
		if complete {
			return seed, true, nil
		}
	}
	return 0, false, nil
}
