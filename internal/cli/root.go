package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"routemap/internal/config"
	"routemap/internal/dataset"
	"routemap/internal/render"
)

var version = "dev"

// SetVersion sets the string printed by --version.
func SetVersion(v string) { version = v }

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	verbose      bool
	configPath   string
	highContrast bool
	straight     bool
}

func (o *rootOptions) level() log.Level {
	if o.verbose {
		return log.DebugLevel
	}
	return log.InfoLevel
}

// settings loads --config over the defaults and applies the flag overrides
// that were set explicitly.
func (o *rootOptions) settings(cmd *cobra.Command) (config.Settings, error) {
	s := config.Default()
	if o.configPath != "" {
		var err error
		if s, err = config.Load(o.configPath); err != nil {
			return config.Settings{}, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("high-contrast") {
		s.Palette.HighContrast.Enabled = o.highContrast
	}
	if flags.Changed("straight") {
		s.Route.UseStraightLines = o.straight
	}
	return s, s.Validate()
}

// pipeline is a loaded route file with the renderer that draws it.
type pipeline struct {
	update   render.Update
	renderer *render.Renderer
}

func (o *rootOptions) load(cmd *cobra.Command, path string) (pipeline, error) {
	s, err := o.settings(cmd)
	if err != nil {
		return pipeline{}, err
	}
	logger := loggerFromContext(cmd.Context())
	dv, err := dataset.Load(path, s.Binding())
	if err != nil {
		return pipeline{}, fmt.Errorf("loading %s: %w", path, err)
	}
	r, err := render.NewRenderer(s, render.WithLogger(logger))
	if err != nil {
		return pipeline{}, err
	}
	return pipeline{update: render.Update{View: dv, Settings: s}, renderer: r}, nil
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{}
	root := &cobra.Command{
		Use:          "routemap",
		Short:        "routemap draws origin-destination routes as arcs on a map",
		Long:         `routemap reads a table of routes, each with an origin and a destination coordinate, and draws them as curved lines with sized endpoint markers, a category legend and interactive selection.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), o.level())))
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVarP(&o.verbose, "verbose", "v", false, "enable verbose logging")
	pf.StringVarP(&o.configPath, "config", "c", "", "settings file (.yaml, .yml or .toml)")
	pf.BoolVar(&o.highContrast, "high-contrast", false, "use the high-contrast palette")
	pf.BoolVar(&o.straight, "straight", false, "draw straight lines instead of arcs")

	root.AddCommand(newViewCmd(o))
	root.AddCommand(newRenderCmd(o))
	root.AddCommand(newServeCmd(o))
	return root
}

// Execute runs the routemap CLI.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}
