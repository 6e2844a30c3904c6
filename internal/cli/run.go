package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/noir/internal/cases"
	"github.com/roach88/noir/internal/harness"
	"github.com/roach88/noir/internal/journal"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database  string
	NoJournal bool
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>...",
		Short: "Run scripted investigations",
		Long: `Run one or more scenario files and check their expectations.

Each scenario generates its case, runs its steps and journals the
investigation to the SQLite database so it can be replayed later. Scenario
limits and deadline shifts override the configured ones.

Exit codes:
  0 - All scenarios passed
  1 - One or more expectations failed
  2 - Command error (unreadable scenario, database error, etc.)

Examples:
  noir run --db ./noir.db scenarios/witness_cctv.yaml
  noir run --no-journal scenarios/*.yaml --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the journal database (default from config)")
	cmd.Flags().BoolVar(&opts.NoJournal, "no-journal", false, "do not journal the runs")
	cmd.Flags().Int("deadline-delta", 0, "shorten every lead deadline")
	cmd.Flags().Int("time-limit", 0, "time budget per case")
	cmd.Flags().Int("pressure-limit", 0, "pressure limit per case")

	return cmd
}

func runScenarios(opts *RunOptions, files []string, cmd *cobra.Command) error {
	e, err := opts.load(cmd)
	if err != nil {
		return err
	}
	cat, err := e.catalog()
	if err != nil {
		return err
	}
	scenarios, err := loadScenarios(e, files)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var hopts []harness.Option
	if !opts.NoJournal {
		j, err := openJournal(ctx, e, scenarios)
		if err != nil {
			return err
		}
		defer closeJournal(e, j)
		hopts = append(hopts, harness.WithJournal(j))
	}
	h := e.harness(cat, hopts...)

	results := make([]*harness.Result, 0, len(scenarios))
	failed := 0
	for _, s := range scenarios {
		r, err := h.Run(ctx, s)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("scenario %s", s.Name), err)
		}
		if !r.Pass {
			failed++
		}
		results = append(results, r)
	}

	text := runText(results)
	if failed > 0 {
		return e.out.Fail("E_EXPECT", fmt.Sprintf("%d of %d scenario(s) failed", failed, len(results)), results, text)
	}
	return e.out.Emit(results, text)
}

// loadScenarios reads scenario files and fills unset deadline shifts and
// limits from the config.
func loadScenarios(e *env, files []string) ([]*harness.Scenario, error) {
	scenarios := make([]*harness.Scenario, 0, len(files))
	for _, f := range files {
		s, err := harness.LoadScenario(f)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to load %s", f), err)
		}
		if s.DeadlineDelta == 0 {
			s.DeadlineDelta = e.cfg.DeadlineDelta
		}
		if s.Limits == nil {
			limits := e.cfg.Limits
			s.Limits = &limits
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// openJournal opens the configured journal and checks that none of the
// scenarios' cases are in it yet.
func openJournal(ctx context.Context, e *env, scenarios []*harness.Scenario) (*journal.Journal, error) {
	j, err := journal.Open(e.cfg.DB)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	for _, s := range scenarios {
		if err := checkUnjournaled(ctx, j, s); err != nil {
			closeJournal(e, j)
			return nil, err
		}
	}
	e.out.VerboseLog("Journaling to %s", e.cfg.DB)
	return j, nil
}

func closeJournal(e *env, j *journal.Journal) {
	if err := j.Close(); err != nil {
		e.logger.Error("error closing journal", "error", err)
	}
}

// checkUnjournaled refuses to journal a case id twice.
func checkUnjournaled(ctx context.Context, j *journal.Journal, s *harness.Scenario) error {
	caseID := s.CaseID
	if caseID == "" {
		caseID = cases.DefaultCaseID(s.Seed)
	}
	_, err := j.ReadCase(ctx, caseID)
	switch {
	case err == nil:
		return NewExitError(ExitCommandError,
			fmt.Sprintf("case %s is already journaled; use another --db or case_id", caseID))
	case errors.Is(err, journal.ErrCaseNotFound):
		return nil
	default:
		return WrapExitError(ExitCommandError, "failed to read journal", err)
	}
}

func runText(results []*harness.Result) string {
	var b strings.Builder
	for _, r := range results {
		status := "PASS"
		if !r.Pass {
			status = "FAIL"
		}
		fmt.Fprintf(&b, "%s %s (%s, seed %d)\n", status, r.Scenario, r.CaseID, r.Seed)
		for _, s := range r.Steps {
			fmt.Fprintf(&b, "  [%d] %s %s: %s\n", s.Index+1, s.Action, s.Outcome, s.Summary)
		}
		if r.Validation != nil {
			fmt.Fprintf(&b, "  Tier: %s\n", r.Validation.Tier)
		}
		if r.Arrest != nil {
			fmt.Fprintf(&b, "  Arrest: %s\n", r.Arrest.Result)
		}
		fmt.Fprintf(&b, "  Fingerprint: %s\n", r.Fingerprint)
		if r.Profile.Reading != "" {
			for _, line := range r.Profile.Lines(true) {
				if line == "" {
					b.WriteString("\n")
					continue
				}
				fmt.Fprintf(&b, "    %s\n", line)
			}
		}
		for _, err := range r.Errors {
			for _, line := range strings.Split(strings.TrimRight(err, "\n"), "\n") {
				fmt.Fprintf(&b, "  %s\n", line)
			}
		}
	}
	return b.String()
}
