package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/roach88/noir/internal/catalog"
	"github.com/roach88/noir/internal/config"
	"github.com/roach88/noir/internal/harness"
	"github.com/roach88/noir/internal/presentation"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string

	// SearchPaths overrides where config.yaml is looked up.
	// Nil uses config.DefaultSearchPaths.
	SearchPaths []string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = config.Formats

// flagKeys maps command flags to config keys.
var flagKeys = map[string]string{
	"db":             config.KeyDB,
	"catalog":        config.KeyCatalog,
	"format":         config.KeyFormat,
	"verbose":        config.KeyVerbose,
	"deadline-delta": config.KeyDeadlineDelta,
	"time-limit":     config.KeyTimeLimit,
	"pressure-limit": config.KeyPressureLimit,
	"concurrency":    config.KeySweepConcurrency,
}

// NewRootCommand creates the root command for the noir CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "noir",
		Short: "noir - procedural detective cases",
		Long: `Generate murder cases from a seed, investigate them with costed actions
and test deductions against the hidden truth.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default: $XDG_CONFIG_HOME/noir/config.yaml)")
	cmd.PersistentFlags().String("catalog", "", "CUE content catalog (default: embedded)")

	cmd.AddCommand(NewCaseCommand(opts))
	cmd.AddCommand(NewDumpCommand(opts))
	cmd.AddCommand(NewProfileCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewCampaignCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))
	cmd.AddCommand(NewSweepCommand(opts))
	cmd.AddCommand(NewPathsCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// env is what a command needs once flags and config are resolved.
type env struct {
	cfg    config.Config
	viper  *viper.Viper
	logger *slog.Logger
	out    *OutputFormatter
}

// load resolves the configuration for cmd. Flags the user set win over the
// environment and the config file; unset flags only supply defaults.
func (o *RootOptions) load(cmd *cobra.Command) (*env, error) {
	paths := o.SearchPaths
	if paths == nil {
		paths = config.DefaultSearchPaths()
	}
	v, err := config.New(o.ConfigFile, paths...)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, WrapExitError(ExitCommandError, "failed to bind flag", err)
			}
		}
	}
	// Commands built without the root still honor the options they were given.
	if cmd.Flags().Lookup("format") == nil && o.Format != "" {
		v.Set(config.KeyFormat, o.Format)
	}
	if cmd.Flags().Lookup("verbose") == nil && o.Verbose {
		v.Set(config.KeyVerbose, true)
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid config", err)
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	return &env{
		cfg:    cfg,
		viper:  v,
		logger: logger,
		out: &OutputFormatter{
			Format:    cfg.Format,
			Writer:    cmd.OutOrStdout(),
			ErrWriter: cmd.ErrOrStderr(),
			Verbose:   cfg.Verbose,
		},
	}, nil
}

// catalog loads the configured catalog, or the embedded one.
func (e *env) catalog() (*catalog.Catalog, error) {
	if e.cfg.Catalog == "" {
		cat, err := catalog.Default()
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load catalog", err)
		}
		return cat, nil
	}
	cat, err := catalog.LoadFile(e.cfg.Catalog)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load catalog", err)
	}
	return cat, nil
}

// projectorOptions configures evidence projectors from the config.
func (e *env) projectorOptions() []presentation.ProjectorOption {
	return []presentation.ProjectorOption{
		presentation.WithCacheTTL(e.cfg.Projector.CacheTTL),
		presentation.WithLogger(e.logger),
	}
}

// harness builds a scenario harness over cat with the configured logger
// and projector.
func (e *env) harness(cat *catalog.Catalog, opts ...harness.Option) *harness.Harness {
	return harness.New(append([]harness.Option{
		harness.WithCatalog(cat),
		harness.WithLogger(e.logger),
		harness.WithProjectorOptions(e.projectorOptions()...),
	}, opts...)...)
}
