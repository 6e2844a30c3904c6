package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/noir/internal/harness"
)

// SweepOptions holds flags for the sweep command.
type SweepOptions struct {
	*RootOptions
	From  int64
	Count int
	Path  string
}

// SweepCase is the outcome of one seed.
type SweepCase struct {
	Seed   int64  `json:"seed"`
	CaseID string `json:"case_id"`
	Tier   string `json:"tier"`
	Arrest string `json:"arrest"`
}

// SweepResult is the tier distribution across a seed range.
type SweepResult struct {
	Path    string         `json:"path"`
	From    int64          `json:"from"`
	Count   int            `json:"count"`
	Tiers   map[string]int `json:"tiers"`
	Arrests map[string]int `json:"arrests"`
	Cases   []SweepCase    `json:"cases"`
}

const noArrest = "none"

// NewSweepCommand creates the sweep command.
func NewSweepCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SweepOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run a builtin path across a range of seeds",
		Long: `Run one builtin investigation path against every seed in a range and
report how often each tier and arrest result comes up. Seeds run in
parallel, bounded by --concurrency.

Examples:
  noir sweep --from 1 --count 100
  noir sweep --path witness_cctv --count 50 --concurrency 8 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(opts, cmd)
		},
	}

	cmd.Flags().Int64Var(&opts.From, "from", 1, "first seed")
	cmd.Flags().IntVar(&opts.Count, "count", 20, "number of seeds")
	cmd.Flags().StringVar(&opts.Path, "path", "cautious", "builtin path to run")
	cmd.Flags().Int("concurrency", 0, "seeds run in parallel (default from config)")

	return cmd
}

func runSweep(opts *SweepOptions, cmd *cobra.Command) error {
	if opts.Count < 1 {
		return NewExitError(ExitCommandError, "--count must be at least 1")
	}
	path, ok := harness.PathNamed(opts.Path)
	if !ok {
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown path %q", opts.Path))
	}
	e, err := opts.load(cmd)
	if err != nil {
		return err
	}
	cat, err := e.catalog()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out := make([]SweepCase, opts.Count)
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Sweep.Concurrency)
	for i := range opts.Count {
		seed := opts.From + int64(i)
		g.Go(func() error {
			s := path.Scenario(seed)
			s.DeadlineDelta = e.cfg.DeadlineDelta
			limits := e.cfg.Limits
			s.Limits = &limits

			h := e.harness(cat)
			r, err := h.Run(gCtx, s)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			c := SweepCase{Seed: seed, CaseID: r.CaseID, Tier: noArrest, Arrest: noArrest}
			if r.Validation != nil {
				c.Tier = string(r.Validation.Tier)
			}
			if r.Arrest != nil {
				c.Arrest = string(r.Arrest.Result)
			}
			out[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return WrapExitError(ExitCommandError, "sweep failed", err)
	}

	res := SweepResult{
		Path:    path.Name,
		From:    opts.From,
		Count:   opts.Count,
		Tiers:   map[string]int{},
		Arrests: map[string]int{},
		Cases:   out,
	}
	for _, c := range out {
		res.Tiers[c.Tier]++
		res.Arrests[c.Arrest]++
	}
	e.logger.Debug("sweep finished", "path", path.Name, "from", opts.From, "count", opts.Count)
	return e.out.Emit(res, sweepText(res))
}

func sweepText(r SweepResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Path %s, seeds %d..%d\n", r.Path, r.From, r.From+int64(r.Count)-1)
	b.WriteString("Tiers:\n")
	writeCounts(&b, r.Tiers, r.Count)
	b.WriteString("Arrests:\n")
	writeCounts(&b, r.Arrests, r.Count)
	return b.String()
}

func writeCounts(b *strings.Builder, counts map[string]int, total int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "  %-8s %4d  (%.0f%%)\n", k, counts[k], 100*float64(counts[k])/float64(total))
	}
}
