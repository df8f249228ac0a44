// Package cli implements the outliner command line.
package cli

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/dshills/outliner/internal/config"
	"github.com/dshills/outliner/internal/logging"
)

// App holds state shared by all commands.
type App struct {
	ConfigPath string
	LogLevel   string
	NoColor    bool

	store  *config.Store
	logger *logging.Logger

	// loaderOpts are applied before the flag-derived loader options.
	loaderOpts []config.LoaderOption
	newScreen  func() (tcell.Screen, error)
}

// NewRootCmd returns the outliner root command.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{newScreen: tcell.NewScreen})
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "outliner",
		Short:        "Structural editing for Markdown outlines",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Indent the item on line 3
  outliner apply outliner.indent notes.md --cursor 3:5 --write

  # Print the outlines of a file
  outliner show notes.md

  # Edit interactively
  outliner edit notes.md

  # Move the item on line 2 below the item on line 7
  outliner move notes.md --from 2 --to 7 --where after --write
`),
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.init(cmd)
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Path to a configuration file (replaces the project file)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&app.NoColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(newApplyCmd(app))
	cmd.AddCommand(newActionsCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newScriptCmd(app))
	cmd.AddCommand(newMoveCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

// init loads the configuration and sets up logging.
func (app *App) init(cmd *cobra.Command) error {
	opts := append([]config.LoaderOption{}, app.loaderOpts...)
	if app.ConfigPath != "" {
		opts = append(opts, config.WithConfigPath(app.ConfigPath))
	}
	if app.LogLevel != "" {
		if !logging.ValidLevel(app.LogLevel) {
			return fmt.Errorf("%w: --log-level %q", config.ErrInvalidValue, app.LogLevel)
		}
		opts = append(opts, config.WithOverride(config.PathLoggingLevel, app.LogLevel))
	}

	store, err := config.NewStore(config.NewLoader(opts...))
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(store.Config().Logging.Level)
	logCfg.Output = cmd.ErrOrStderr()
	app.logger = logging.New(logCfg)
	store.SetLogger(app.logger)
	app.store = store

	for _, src := range store.Sources() {
		app.logger.Debug("config layer %s %s", src.Layer, src.Path)
	}
	return nil
}

// Config returns the loaded configuration.
func (app *App) Config() config.Config {
	return app.store.Config()
}
