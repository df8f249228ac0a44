package cli

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dshills/outliner/internal/config"
)

func newConfigCmd(app *App) *cobra.Command {
	var (
		format  string
		sources bool
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the effective configuration after merging defaults, the user file,
the project file (or --config), OUTLINER_ environment variables and flags.
The output can be saved as a configuration file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if sources {
				writeSources(out, app.store.Sources())
			}
			return writeConfig(out, app.Config(), format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "toml", "Output format (toml|yaml)")
	cmd.Flags().BoolVar(&sources, "sources", false, "List the layers that contributed as comments")
	return cmd
}

func writeSources(w io.Writer, sources []config.Source) {
	for _, src := range sources {
		if src.Path == "" {
			fmt.Fprintf(w, "# %s\n", src.Layer)
			continue
		}
		fmt.Fprintf(w, "# %s: %s\n", src.Layer, src.Path)
	}
}

func writeConfig(w io.Writer, cfg config.Config, format string) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case "toml":
		data, err = toml.Marshal(cfg.ToMap())
	case "yaml", "yml":
		data, err = yaml.Marshal(cfg.ToMap())
	default:
		return fmt.Errorf("%w: --format %q", config.ErrUnknownFormat, format)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
