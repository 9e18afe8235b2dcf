package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"routemap/internal/dataset"
	"routemap/internal/export"
	"routemap/internal/render"
	"routemap/internal/selection"
)

type renderOptions struct {
	format   string
	selects  []string
	additive bool
	output   string
	simplify float64
}

func newRenderCmd(o *rootOptions) *cobra.Command {
	opts := renderOptions{}
	names := make([]string, len(export.Formats))
	for i, f := range export.Formats {
		names[i] = string(f)
	}

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Render one frame and write it out",
		Long:  `Render one frame of a CSV or GeoJSON route file and write it as ` + strings.Join(names, ", ") + `. Routes named with --select are committed before rendering.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := export.ParseFormat(opts.format)
			if err != nil {
				return err
			}
			p, err := o.load(cmd, args[0])
			if err != nil {
				return err
			}
			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)
			frame, err := renderSelection(cmd.Context(), p, opts.selects, opts.additive)
			if err != nil {
				return err
			}
			prog.done("rendered", "rows", frame.Rows, "routes", len(frame.Routes))

			var w io.Writer = cmd.OutOrStdout()
			if opts.output != "" {
				f, err := os.Create(opts.output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return export.Write(w, frame, format, export.Options{Simplify: opts.simplify})
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "json", "output format: "+strings.Join(names, ", "))
	cmd.Flags().StringSliceVarP(&opts.selects, "select", "s", nil, "select route keys (row/N) before rendering")
	cmd.Flags().BoolVar(&opts.additive, "additive", false, "toggle the selected keys instead of replacing")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write to this file instead of stdout")
	cmd.Flags().Float64Var(&opts.simplify, "simplify", 0, "Douglas-Peucker tolerance in degrees for route paths")
	return cmd
}

// renderSelection renders p, commits keys through an in-process manager
// and renders again under the resulting selection.
func renderSelection(ctx context.Context, p pipeline, raw []string, additive bool) (render.Frame, error) {
	state := selection.NewState()
	frame, err := p.renderer.Render(p.update, state)
	if err != nil || len(raw) == 0 {
		return frame, err
	}
	keys := make([]dataset.Key, 0, len(raw))
	for _, s := range raw {
		k, err := dataset.ParseKey(s)
		if err != nil {
			return render.Frame{}, err
		}
		keys = append(keys, k)
	}
	m := selection.NewLocalManager(frame.Known)
	req := selection.Request{Op: selection.OpSelect, Keys: keys, Additive: additive}
	if err := selection.Apply(ctx, m, state, req); err != nil {
		return render.Frame{}, err
	}
	return p.renderer.Render(p.update, state)
}
