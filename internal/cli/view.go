package cli

import (
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"routemap/internal/render"
	"routemap/internal/tui"
)

func newViewCmd(o *rootOptions) *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "view [FILE]",
		Short: "Browse routes in an interactive terminal map",
		Long:  `Open the terminal map. FILE is loaded at start; otherwise pick a file from the sidebar (Tab) or paste CSV text (p).`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.settings(cmd)
			if err != nil {
				return err
			}

			// The program owns the terminal, so logs only go to --log-file.
			var w io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			logger := newLogger(w, o.level())

			r, err := render.NewRenderer(s, render.WithLogger(logger))
			if err != nil {
				return err
			}
			cfg := tui.Config{
				Settings: s,
				Renderer: r,
				Logger:   logger,
				Context:  cmd.Context(),
			}
			var m tui.Model
			if len(args) == 1 {
				m = tui.NewWithPath(cfg, args[0])
			} else {
				m = tui.New(cfg)
			}
			_, err = tea.NewProgram(m,
				tea.WithAltScreen(),
				tea.WithMouseAllMotion(),
				tea.WithContext(cmd.Context()),
			).Run()
			return err
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "append logs to this file")
	return cmd
}
