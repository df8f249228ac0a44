package cli

import (
	"github.com/spf13/cobra"

	"github.com/dshills/outliner/internal/plugin/lua"
)

func newScriptCmd(app *App) *cobra.Command {
	var (
		cursor  string
		timeout = lua.DefaultExecutionTimeout
		edit    editFlags
	)

	cmd := &cobra.Command{
		Use:   "script <file> <script.lua>",
		Short: "Run a Lua script of outliner actions against a file",
		Long: `Run a Lua script of outliner actions against a file.

The script sees an "outliner" table with perform, cursor, select, move, text,
line, lines, actions and zoom. Lines and columns are 1-based. A failing script
leaves the file untouched.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openSession(args[0], false)
			if err != nil {
				return err
			}
			if cursor != "" {
				p, err := parsePosition("--cursor", cursor, s.Buffer)
				if err != nil {
					return err
				}
				s.Buffer.SetCursor(p)
			}

			runner := lua.NewRunner(s.Dispatcher,
				lua.WithHistory(s.History),
				lua.WithLogger(s.logger),
				lua.WithTimeout(timeout),
			)
			report, err := runner.RunFile(cmd.Context(), s.Buffer, args[1])
			if err != nil {
				return err
			}
			s.logger.Info("%s: %d actions", args[1], report.Performed)
			return edit.finish(cmd, app, s, report.Updated)
		},
	}

	cmd.Flags().StringVarP(&cursor, "cursor", "c", "", "Initial cursor position (line:column)")
	cmd.Flags().DurationVar(&timeout, "timeout", timeout, "Maximum run time of the script")
	edit.register(cmd)
	return cmd
}
