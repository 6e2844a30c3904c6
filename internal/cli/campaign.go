package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/noir/internal/harness"
	"github.com/roach88/noir/internal/world"
)

// CampaignOptions holds flags for the campaign command.
type CampaignOptions struct {
	*RootOptions
	World     string
	NoJournal bool
}

// NewCampaignCommand creates the campaign command.
func NewCampaignCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CampaignOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "campaign <scenario.yaml>...",
		Short: "Run scenarios as consecutive cases of one career",
		Long: `Run scenario files in order, carrying trust, pressure and district
mood from each case into the next.

With --world the campaign opens from the standing in that YAML file
instead of a fresh career. The file is only read; the final world is part
of the output. Scenario standing blocks are ignored; the world decides how
each case opens.

Exit codes:
  0 - All scenarios passed
  1 - One or more expectations failed
  2 - Command error (unreadable scenario or world file, database error, etc.)

Examples:
  noir campaign --world ./standing.yaml week1/*.yaml
  noir campaign --no-journal a.yaml b.yaml --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCampaign(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.World, "world", "", "world state file to open the campaign from")
	cmd.Flags().BoolVar(&opts.NoJournal, "no-journal", false, "do not journal the cases")
	cmd.Flags().String("db", "", "path to the journal database (default from config)")
	cmd.Flags().Int("deadline-delta", 0, "shorten every lead deadline")
	cmd.Flags().Int("time-limit", 0, "time budget per case")
	cmd.Flags().Int("pressure-limit", 0, "pressure limit per case")

	return cmd
}

func runCampaign(opts *CampaignOptions, files []string, cmd *cobra.Command) error {
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

	w := world.New()
	if opts.World != "" {
		if w, err = world.Load(opts.World); err != nil {
			return WrapExitError(ExitCommandError, "failed to load world", err)
		}
		e.out.VerboseLog("Opening from %s (%d case(s) closed)", opts.World, len(w.History))
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

	out, err := e.harness(cat, hopts...).RunCampaign(ctx, w, scenarios)
	if err != nil {
		return WrapExitError(ExitCommandError, "campaign", err)
	}
	text := campaignText(out)
	if !out.Pass {
		failed := 0
		for _, r := range out.Cases {
			if !r.Pass {
				failed++
			}
		}
		return e.out.Fail("E_EXPECT", fmt.Sprintf("%d of %d case(s) failed", failed, len(out.Cases)), out, text)
	}
	return e.out.Emit(out, text)
}

func campaignText(out *harness.CampaignResult) string {
	var b strings.Builder
	for _, r := range out.Cases {
		for _, line := range r.Briefing {
			fmt.Fprintf(&b, "> %s\n", line)
		}
		b.WriteString(runText([]*harness.Result{r}))
		for _, note := range r.WorldNotes {
			fmt.Fprintf(&b, "  %s\n", note)
		}
	}
	w := out.World
	fmt.Fprintf(&b, "World: trust %d, pressure %d, tick %d, %d case(s) closed\n",
		w.Trust, w.Pressure, w.Tick, len(w.History))
	return b.String()
}
