package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// ConfigResult is the JSON form of config show.
type ConfigResult struct {
	File   string `json:"file,omitempty"`
	Config any    `json:"config"`
}

// NewConfigCommand creates the config command.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect noir configuration",
		Long: `Inspect the resolved configuration.

Configuration hierarchy (highest to lowest priority):
  1. CLI flags
  2. Environment variables (NOIR_*, e.g. NOIR_LIMITS_TIME)
  3. Config file ($XDG_CONFIG_HOME/noir/config.yaml or --config)
  4. Defaults`,
	}
	cmd.AddCommand(newConfigShowCommand(rootOpts))
	return cmd
}

func newConfigShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show",
		Short:         "Show the resolved configuration",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := rootOpts.load(cmd)
			if err != nil {
				return err
			}
			data, err := e.cfg.YAML()
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to render config", err)
			}

			file := e.viper.ConfigFileUsed()
			var b strings.Builder
			if file != "" {
				fmt.Fprintf(&b, "# config file: %s\n", file)
			} else {
				b.WriteString("# no config file, using defaults\n")
			}
			b.Write(data)
			return e.out.Emit(ConfigResult{File: file, Config: e.cfg}, b.String())
		},
	}
}
