package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/REC17/cadnano2/internal/config"
	"github.com/REC17/cadnano2/internal/vhelix"
)

// RootOptions holds global flags and the settings resolved from them.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string
	LogLevel   string

	// Set by the root command before any subcommand runs.
	Config config.Config
	Logger *slog.Logger
}

// NewRootCommand creates the root command for the cadnano CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "cadnano",
		Short: "cadnano - DNA origami base connectivity",
		Long: `Edit and check the base-level connectivity of DNA origami designs.

Designs are parts holding virtual helices; every helix has a scaffold and a
staple strand, and every base links to at most one 5' and one 3' neighbor.
Edits are journaled to SQLite and can be undone, redone and replayed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output and debug logging")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default ./cadnano.yaml or ~/.config/cadnano/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug|info|warn|error)")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewRenderCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))
	cmd.AddCommand(NewDocsCommand(opts))

	return cmd
}

// load resolves the configuration for the running command. Flags bound in
// config.Load win over the environment and the config file.
func (o *RootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.ConfigFile, cmd.Flags())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if o.Verbose {
		cfg.Log.Level = "debug"
	}
	o.Config = cfg
	o.Format = cfg.Output.Format
	o.Logger = cfg.Logger(cmd.ErrOrStderr())
	if cfg.File != "" {
		o.Logger.Debug("config loaded", "file", cfg.File)
	}
	return nil
}

// formatter returns the output formatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// newDesign creates an empty design with the configured invariant checking.
func (o *RootOptions) newDesign() *vhelix.Design {
	return vhelix.NewDesign(
		vhelix.WithInvariantChecks(o.Config.Design.InvariantChecks),
		vhelix.WithLogger(o.Logger),
	)
}
