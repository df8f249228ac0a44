package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/outliner/internal/outline"
)

func newShowCmd(app *App) *cobra.Command {
	var (
		from, to string
		plain    bool
	)

	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Print the outlines of a file",
		Long: `Print every outline region of a file with its line range and item count.

Lines outside outlines are skipped. A region with inconsistent indentation
is reported as a warning and left out.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openSession(args[0], false)
			if err != nil {
				return err
			}

			first, last := 0, s.Buffer.LastLine()
			if from != "" {
				if first, err = parseLine("--from", from, s.Buffer); err != nil {
					return err
				}
			}
			if to != "" {
				if last, err = parseLine("--to", to, s.Buffer); err != nil {
					return err
				}
			}

			parser := outline.NewParser(app.Config().Outliner.KeepCursorWithinContent)
			roots, perr := parser.ParseRange(s.Buffer, first, last)

			p := newPrinter(cmd.OutOrStdout(), app.NoColor || plain)
			for i, root := range roots {
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				start, end := root.ContentStart().Line, root.ContentEnd().Line
				p.Header("lines %d-%d (%d items)", start+1, end+1, len(root.Lists()))
				for line := start; line <= end; line++ {
					p.Line(s.Buffer.GetLine(line))
				}
			}
			if perr != nil {
				s.logger.Warn("%v", perr)
				newPrinter(cmd.ErrOrStderr(), app.NoColor || plain).Warn("%v", perr)
			}
			if len(roots) == 0 && perr == nil {
				newPrinter(cmd.ErrOrStderr(), app.NoColor || plain).Warn("no outlines in %s", args[0])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First line to scan (1-based)")
	cmd.Flags().StringVar(&to, "to", "", "Last line to scan (1-based)")
	cmd.Flags().BoolVar(&plain, "plain", false, "Print without colors")
	return cmd
}
