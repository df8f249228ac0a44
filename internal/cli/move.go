package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/outliner/internal/dispatcher"
	"github.com/dshills/outliner/internal/outline/ops"
)

func newMoveCmd(app *App) *cobra.Command {
	var (
		from, to string
		where    string
		edit     editFlags
	)

	cmd := &cobra.Command{
		Use:   "move <file>",
		Short: "Move an item and its children next to or into another item",
		Long: `Move the item owning line --from, with its notes and children, before,
after or inside the item owning line --to. This is the drag and drop move and
is refused when dragAndDrop is disabled.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			placement := ops.Placement(where)
			if !placement.Valid() {
				return fmt.Errorf("%w: --where %q (before|after|inside)", dispatcher.ErrInvalidPlacement, where)
			}

			s, err := app.openSession(args[0], false)
			if err != nil {
				return err
			}
			source, err := parseLine("--from", from, s.Buffer)
			if err != nil {
				return err
			}
			target, err := parseLine("--to", to, s.Buffer)
			if err != nil {
				return err
			}

			id, err := s.Dispatcher.BeginMove(s.Buffer, source)
			if err != nil {
				return err
			}
			res, err := s.Dispatcher.CommitMove(s.Buffer, id, target, placement)
			if err != nil {
				return err
			}
			return edit.finish(cmd, app, s, res.ShouldUpdate)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Line of the item to move (1-based)")
	cmd.Flags().StringVar(&to, "to", "", "Line of the target item (1-based)")
	cmd.Flags().StringVar(&where, "where", string(ops.After), "Placement relative to the target (before|after|inside)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	edit.register(cmd)
	return cmd
}
