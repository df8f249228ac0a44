package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/outliner/internal/dispatcher"
	"github.com/dshills/outliner/internal/outline"
)

// editFlags are shared by commands that change a file.
type editFlags struct {
	write  bool
	marked bool
}

func (f *editFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.write, "write", "w", false, "Write the result back to the file")
	cmd.Flags().BoolVar(&f.marked, "marked", false, "Print the result with | at the cursor and ^ at the selection anchor")
}

// finish saves the session or prints its buffer.
func (f *editFlags) finish(cmd *cobra.Command, app *App, s *Session, updated bool) error {
	defer s.logMetrics()
	if f.write {
		if !updated {
			newPrinter(cmd.ErrOrStderr(), app.NoColor).Warn("%s unchanged", s.Path)
			return nil
		}
		if err := s.Save(); err != nil {
			return err
		}
		newPrinter(cmd.ErrOrStderr(), app.NoColor).OK("wrote %s", s.Path)
		return nil
	}

	out := cmd.OutOrStdout()
	if f.marked {
		fmt.Fprintln(out, s.Buffer.Marked())
		return nil
	}
	_, err := s.Buffer.WriteTo(out)
	return err
}

func newApplyCmd(app *App) *cobra.Command {
	var (
		cursor string
		anchor string
		zoom   string
		edit   editFlags
	)

	cmd := &cobra.Command{
		Use:   "apply <action> <file>",
		Short: "Run one outliner action at a cursor position",
		Long: `Run one outliner action at a cursor position.

Positions are 1-based "line:column" pairs; without a column the position is
the end of the line. --anchor turns the cursor into a selection.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			action, path := args[0], args[1]
			s, err := app.openSession(path, false)
			if err != nil {
				return err
			}

			head, err := parsePosition("--cursor", cursor, s.Buffer)
			if err != nil {
				return err
			}
			tail := head
			if anchor != "" {
				if tail, err = parsePosition("--anchor", anchor, s.Buffer); err != nil {
					return err
				}
			}
			s.Buffer.SetSelections([]outline.Selection{outline.NewSelection(tail, head)})
			if zoom != "" {
				line, err := parseLine("--zoom", zoom, s.Buffer)
				if err != nil {
					return err
				}
				s.Dispatcher.SetZoomLine(line)
			}

			res, err := s.Dispatcher.Dispatch(action, s.Buffer)
			if err != nil {
				return err
			}
			if !res.Handled {
				return fmt.Errorf("%w: %s at %s", ErrNotHandled, action, formatPosition(head))
			}
			s.logger.Debug("%s: update=%t stop=%t cursor=%s", action, res.ShouldUpdate, res.ShouldStopPropagation, formatPosition(s.Buffer.GetCursor()))
			return edit.finish(cmd, app, s, res.ShouldUpdate)
		},
	}

	cmd.Flags().StringVarP(&cursor, "cursor", "c", "1", "Cursor position (line:column)")
	cmd.Flags().StringVar(&anchor, "anchor", "", "Selection anchor (line:column)")
	cmd.Flags().StringVar(&zoom, "zoom", "", "Line of the zoomed item; Enter on it creates a child")
	edit.register(cmd)
	return cmd
}

func newActionsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "actions",
		Short: "List the available actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := dispatcher.New(app.Config().Outliner)
			for _, name := range d.Actions() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
