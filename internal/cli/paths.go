package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/noir/internal/harness"
)

// PathsOptions holds flags for the paths command.
type PathsOptions struct {
	*RootOptions
	Seed     int64
	MaxTries int
	Force    bool
	Path     string
}

// PathReport is one path's outcome.
type PathReport struct {
	Path     string   `json:"path"`
	Evidence int      `json:"evidence"`
	Summary  string   `json:"summary"`
	Tier     string   `json:"tier"`
	Supports []string `json:"supports,omitempty"`
	Missing  []string `json:"missing,omitempty"`
	Arrest   string   `json:"arrest"`
}

// PathsResult is the JSON form of the paths command.
type PathsResult struct {
	Seed  int64        `json:"seed"`
	Paths []PathReport `json:"paths"`
}

// NewPathsCommand creates the paths command.
func NewPathsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PathsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Compare the builtin investigation paths on one case",
		Long: `Run every builtin investigation path against the same case and report
what each one proves.

Unless --force is given, the first seed from --seed whose case holds
testimony, footage and forensics is used.

Examples:
  noir paths
  noir paths --seed 40 --force --path cautious`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPaths(opts, cmd)
		},
	}

	cmd.Flags().Int64Var(&opts.Seed, "seed", 1, "first seed to try")
	cmd.Flags().IntVar(&opts.MaxTries, "max-tries", harness.DefaultSeedTries, "seeds to try")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "use --seed even if it lacks an evidence type")
	cmd.Flags().StringVar(&opts.Path, "path", "", "run a single path")

	return cmd
}

func runPaths(opts *PathsOptions, cmd *cobra.Command) error {
	paths := harness.Paths
	if opts.Path != "" {
		p, ok := harness.PathNamed(opts.Path)
		if !ok {
			return NewExitError(ExitCommandError, fmt.Sprintf("unknown path %q", opts.Path))
		}
		paths = []harness.Path{p}
	}

	e, err := opts.load(cmd)
	if err != nil {
		return err
	}
	cat, err := e.catalog()
	if err != nil {
		return err
	}

	seed := opts.Seed
	if !opts.Force {
		found, ok, err := harness.FindSeed(cat, opts.Seed, opts.MaxTries)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to search seeds", err)
		}
		if !ok {
			return NewExitError(ExitFailure,
				fmt.Sprintf("no seed in %d..%d has every evidence type; use --force", opts.Seed, opts.Seed+int64(opts.MaxTries)-1))
		}
		seed = found
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	h := e.harness(cat)
	res := PathsResult{Seed: seed}
	for _, p := range paths {
		r, err := h.Run(ctx, p.Scenario(seed))
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("path %s", p.Name), err)
		}
		res.Paths = append(res.Paths, pathReport(p.Name, r))
	}
	return e.out.Emit(res, pathsText(res))
}

func pathReport(name string, r *harness.Result) PathReport {
	rep := PathReport{Path: name, Tier: noArrest, Arrest: noArrest, Summary: "No evidence collected for this path."}
	if v := r.Validation; v != nil {
		for _, c := range v.Composition.Classes {
			rep.Evidence += c.Count
		}
		rep.Summary = v.Summary
		rep.Tier = string(v.Tier)
		rep.Supports = v.Supports
		rep.Missing = v.Missing
	}
	if r.Arrest != nil {
		rep.Arrest = string(r.Arrest.Result)
	}
	return rep
}

func pathsText(res PathsResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Seed %d\n", res.Seed)
	for _, p := range res.Paths {
		fmt.Fprintf(&b, "\n[%s]\n", p.Path)
		fmt.Fprintf(&b, "Evidence used: %d\n", p.Evidence)
		fmt.Fprintf(&b, "Validation: %s\n", p.Summary)
		if len(p.Supports) > 0 {
			b.WriteString("- Supports:\n")
			for _, line := range p.Supports {
				fmt.Fprintf(&b, "  - %s\n", line)
			}
		}
		if len(p.Missing) > 0 {
			b.WriteString("- Missing:\n")
			for _, line := range p.Missing {
				fmt.Fprintf(&b, "  - %s\n", line)
			}
		}
		fmt.Fprintf(&b, "Outcome: %s\n", p.Arrest)
	}
	return b.String()
}
