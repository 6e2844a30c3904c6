package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/noir/internal/journal"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	CaseID   string // optional - specific case only
}

// ReplaySummary holds the overall replay result.
type ReplaySummary struct {
	Cases      []journal.ReplayResult `json:"cases"`
	TotalCases int                    `json:"total_cases"`
	AllMatch   bool                   `json:"all_match"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay journaled cases and verify determinism",
		Long: `Regenerate each journaled case from its seed, re-run its actions and
compare every truth fingerprint and outcome with the journal.

Exit codes:
  0 - Every case reproduced its journal
  1 - A replay diverged
  2 - Command error (database not found, unknown case, etc.)

Examples:
  noir replay --db ./noir.db
  noir replay --db ./noir.db --case case_7
  noir replay --db ./noir.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the journal database (default from config)")
	cmd.Flags().StringVar(&opts.CaseID, "case", "", "replay specific case only")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
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

	// Replay never creates a database.
	if _, err := os.Stat(e.cfg.DB); err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	j, err := journal.Open(e.cfg.DB)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer j.Close()

	var caseIDs []string
	if opts.CaseID != "" {
		caseIDs = []string{opts.CaseID}
	} else {
		caseIDs, err = j.ListCases(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list cases", err)
		}
	}

	summary := ReplaySummary{
		Cases:      make([]journal.ReplayResult, 0, len(caseIDs)),
		TotalCases: len(caseIDs),
		AllMatch:   true,
	}
	if len(caseIDs) == 0 {
		return e.out.Emit(summary, "No cases found in journal.\n")
	}

	for _, id := range caseIDs {
		res, err := journal.Replay(ctx, j, cat, id, e.logger)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay case %s", id), err)
		}
		summary.Cases = append(summary.Cases, res)
		if !res.Match {
			summary.AllMatch = false
		}
	}

	text := replayText(summary, e.cfg.Verbose)
	if !summary.AllMatch {
		return e.out.Fail("E_DIVERGED", "replay diverged from the journal", summary, text)
	}
	return e.out.Emit(summary, text)
}

func replayText(summary ReplaySummary, verbose bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Replay Summary: %d case(s)\n\n", summary.TotalCases)
	for _, c := range summary.Cases {
		status := "OK  "
		if !c.Match {
			status = "DIFF"
		}
		fmt.Fprintf(&b, "%s %s (seed %d)\n", status, c.CaseID, c.Seed)
		fmt.Fprintf(&b, "  Actions: %d, events: %d\n", c.Actions, c.Events)
		if verbose || !c.Match {
			fmt.Fprintf(&b, "  Fingerprint: %s\n", c.Fingerprint)
		}
		if d := c.Divergence; d != nil {
			fmt.Fprintf(&b, "  Diverged at seq %d %s\n", d.Seq, d.Action)
			fmt.Fprintf(&b, "    expected: %s\n", d.Expected)
			fmt.Fprintf(&b, "    actual:   %s\n", d.Actual)
		}
	}
	if summary.AllMatch {
		b.WriteString("\nAll cases reproduced their journal.\n")
	}
	return b.String()
}
