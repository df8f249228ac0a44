package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/outliner/internal/config/notify"
	"github.com/dshills/outliner/internal/config/watcher"
	"github.com/dshills/outliner/internal/engine/buffer"
	"github.com/dshills/outliner/internal/renderer"
)

func newEditCmd(app *App) *cobra.Command {
	var (
		lineNumbers bool
		tabWidth    int
		noWatch     bool
		logFile     string
	)

	cmd := &cobra.Command{
		Use:   "edit <file>",
		Short: "Edit a file interactively",
		Long: `Edit a file in the terminal with outliner key bindings.

Tab/Shift-Tab indent and outdent, Enter creates items, Shift-Enter adds a
note line, Alt-Up/Alt-Down move items, Ctrl-F folds, Ctrl-Z/Ctrl-Y undo and
redo, Ctrl-S saves and Ctrl-Q quits. Configuration files are watched and
reloaded while editing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// The terminal belongs to the host; logs go to --log-file or nowhere.
			var logOut io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
				if err != nil {
					return err
				}
				defer f.Close()
				logOut = f
			}
			app.logger.SetOutput(logOut)
			app.store.SetLogger(app.logger)

			s, err := app.openSession(args[0], true)
			if err != nil {
				return err
			}
			screen, err := app.newScreen()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			host := renderer.NewHost(screen, s.Buffer, s.Dispatcher,
				renderer.WithHistory(s.History),
				renderer.WithLogger(s.logger),
				renderer.WithName(filepath.Base(s.Path)),
				renderer.WithSaver(func(*buffer.Buffer) error { return s.Save() }),
				renderer.WithLineNumbers(lineNumbers),
				renderer.WithTabWidth(tabWidth),
			)

			sub := app.store.Subscribe("", func(c notify.Change) {
				if c.Type != notify.ChangeReload {
					return
				}
				s.Dispatcher.SetConfig(app.Config().Outliner)
				host.Notify("configuration reloaded")
			})
			defer app.store.Unsubscribe(sub)

			if !noWatch {
				watchCtx, cancel := context.WithCancel(ctx)
				defer cancel()
				go func() {
					if err := app.store.Watch(watchCtx, watcher.DefaultDebounce); err != nil && !errors.Is(err, context.Canceled) {
						s.logger.Warn("config watch: %v", err)
					}
				}()
			}

			err = host.Run(ctx)
			s.logMetrics()
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().BoolVarP(&lineNumbers, "line-numbers", "n", false, "Show line numbers")
	cmd.Flags().IntVar(&tabWidth, "tab-width", renderer.DefaultTabWidth, "Display width of a tab")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not reload configuration files while editing")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Append logs to this file while editing")
	return cmd
}
