package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/noir/internal/cases"
	"github.com/roach88/noir/internal/catalog"
	"github.com/roach88/noir/internal/presentation"
	"github.com/roach88/noir/internal/truth"
)

// CaseOptions holds flags shared by the case, dump and profile commands.
type CaseOptions struct {
	*RootOptions
	Seed   int64
	CaseID string
}

func (o *CaseOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&o.Seed, "seed", 1, "case seed")
	cmd.Flags().StringVar(&o.CaseID, "case-id", "", "case id (default: case_<seed>)")
}

// generate loads config and the catalog and generates the case.
func (o *CaseOptions) generate(cmd *cobra.Command) (*env, *catalog.Catalog, *truth.State, error) {
	e, err := o.load(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	cat, err := e.catalog()
	if err != nil {
		return nil, nil, nil, err
	}
	st, _, err := cases.Generate(cat, o.Seed, o.CaseID, truth.WithLogger(e.logger))
	if err != nil {
		return nil, nil, nil, WrapExitError(ExitCommandError, "failed to generate case", err)
	}
	e.logger.Debug("case generated", "case", st.CaseID(), "seed", o.Seed, "events", st.EventCount())
	return e, cat, st, nil
}

// NewCaseCommand creates the case command.
func NewCaseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CaseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "case",
		Short: "Generate a case and list its evidence",
		Long: `Generate a case from a seed and list every piece of evidence the
projection derives from it, collected or not.

Examples:
  noir case --seed 7
  noir case --seed 7 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, cat, st, err := opts.generate(cmd)
			if err != nil {
				return err
			}
			c, err := presentation.NewProjector(cat, e.projectorOptions()...).Project(st)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to project case", err)
			}
			return e.out.Emit(c, caseText(c))
		},
	}
	opts.addFlags(cmd)
	return cmd
}

func caseText(c *presentation.Case) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Case %s (seed %d)\n", c.CaseID, c.Seed)
	fmt.Fprintf(&b, "Evidence: %d item(s)\n", len(c.Evidence))
	for _, it := range c.Evidence {
		fmt.Fprintf(&b, "  [%s] %s\n", it.Type, it.Summary)
		fmt.Fprintf(&b, "      %s, %s confidence, %s\n", it.Kind, it.Confidence, it.Source)
	}
	return b.String()
}

// DumpResult is the JSON form of the dump command.
type DumpResult struct {
	CaseID      string `json:"case_id"`
	Seed        int64  `json:"seed"`
	Fingerprint string `json:"fingerprint"`
	Dump        string `json:"dump"`
}

// NewDumpCommand creates the dump command.
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CaseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the hidden truth graph of a case",
		Long: `Print every person, location, item, event and edge of a generated case.
The dump reveals the answer; it is a debugging aid.

Example:
  noir dump --seed 7`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, st, err := opts.generate(cmd)
			if err != nil {
				return err
			}
			fp, err := st.Fingerprint()
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to fingerprint case", err)
			}
			dump := st.Dump()
			return e.out.Emit(DumpResult{
				CaseID:      st.CaseID(),
				Seed:        st.Seed(),
				Fingerprint: fp,
				Dump:        dump,
			}, dump)
		},
	}
	opts.addFlags(cmd)
	return cmd
}

// NewProfileCommand creates the profile command.
func NewProfileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CaseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Print case meta and offender traits",
		Long: `Print the generation meta of a case and the offender's traits.

Example:
  noir profile --seed 7 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, st, err := opts.generate(cmd)
			if err != nil {
				return err
			}
			p := cases.BuildProfile(st)
			return e.out.Emit(p, p.Text())
		},
	}
	opts.addFlags(cmd)
	return cmd
}
