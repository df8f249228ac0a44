package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/outliner/internal/config/loader"
)

// Layer names reported in Sources.
const (
	LayerDefaults = "defaults"
	LayerUser     = "user"
	LayerProject  = "project"
	LayerEnv      = "env"
	LayerFlags    = "flags"
)

// configExtensions are tried in order when looking for a file.
var configExtensions = []string{".toml", ".yaml", ".yml"}

// Source records one layer that contributed to the configuration.
type Source struct {
	Layer string
	Path  string
}

// Loader resolves the configuration layers.
type Loader struct {
	fs         loader.FileSystem
	userDir    string
	workDir    string
	configPath string
	env        *loader.EnvLoader
	overrides  map[string]any
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFileSystem sets the file system used to read configuration files.
func WithFileSystem(fsys loader.FileSystem) LoaderOption {
	return func(l *Loader) { l.fs = fsys }
}

// WithUserDir sets the directory holding the user file
// (config.toml, config.yaml or config.yml). An empty dir disables the layer.
func WithUserDir(dir string) LoaderOption {
	return func(l *Loader) { l.userDir = dir }
}

// WithWorkDir sets the directory searched for .outliner.{toml,yaml,yml}.
func WithWorkDir(dir string) LoaderOption {
	return func(l *Loader) { l.workDir = dir }
}

// WithConfigPath replaces the project file search with an explicit file.
func WithConfigPath(path string) LoaderOption {
	return func(l *Loader) { l.configPath = path }
}

// WithEnvLoader sets the environment loader. Nil disables the layer.
func WithEnvLoader(env *loader.EnvLoader) LoaderOption {
	return func(l *Loader) { l.env = env }
}

// WithOverride sets a setting at the highest precedence.
func WithOverride(path string, value any) LoaderOption {
	return func(l *Loader) {
		loader.SetByPath(l.overrides, path, value)
	}
}

// NewLoader creates a Loader reading the user config directory, the
// current directory and OUTLINER_ environment variables.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		fs:        loader.DefaultFS(),
		env:       loader.NewEnvLoader(loader.DefaultEnvPrefix),
		overrides: make(map[string]any),
	}
	if dir, err := os.UserConfigDir(); err == nil {
		l.userDir = filepath.Join(dir, "outliner")
	}
	if wd, err := os.Getwd(); err == nil {
		l.workDir = wd
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load merges every layer and returns the validated configuration along
// with the layers that contributed to it.
func (l *Loader) Load() (Config, []Source, error) {
	merged := Default().ToMap()
	sources := []Source{{Layer: LayerDefaults}}

	merge := func(layer, path string, data map[string]any) {
		if data == nil && path == "" {
			return
		}
		loader.DeepMerge(merged, data)
		sources = append(sources, Source{Layer: layer, Path: path})
	}

	path, data, err := l.loadFirst(l.userCandidates())
	if err != nil {
		return Default(), nil, err
	}
	merge(LayerUser, path, data)

	if l.configPath != "" {
		path = l.configPath
		if _, err := l.fs.Stat(path); err != nil {
			return Default(), nil, fmt.Errorf("config file %s: %w", path, err)
		}
		data, err = l.loadFile(path)
	} else {
		path, data, err = l.loadFirst(l.projectCandidates())
	}
	if err != nil {
		return Default(), nil, err
	}
	merge(LayerProject, path, data)

	if l.env != nil {
		data, err := l.env.Load()
		if err != nil {
			return Default(), nil, err
		}
		if len(data) > 0 {
			merge(LayerEnv, "", data)
		}
	}

	if len(l.overrides) > 0 {
		merge(LayerFlags, "", loader.Clone(l.overrides))
	}

	cfg, err := FromMap(merged)
	if err != nil {
		return Default(), sources, err
	}
	return cfg, sources, nil
}

// Files returns every configuration file path Load may read. Paths that do
// not exist yet are included so that creating them can be observed.
func (l *Loader) Files() []string {
	files := l.userCandidates()
	if l.configPath != "" {
		return append(files, l.configPath)
	}
	return append(files, l.projectCandidates()...)
}

func (l *Loader) userCandidates() []string {
	if l.userDir == "" {
		return nil
	}
	return candidates(l.userDir, "config")
}

func (l *Loader) projectCandidates() []string {
	if l.workDir == "" {
		return nil
	}
	return candidates(l.workDir, ".outliner")
}

func candidates(dir, base string) []string {
	out := make([]string, 0, len(configExtensions))
	for _, ext := range configExtensions {
		out = append(out, filepath.Join(dir, base+ext))
	}
	return out
}

// loadFirst loads the first existing file among paths.
func (l *Loader) loadFirst(paths []string) (string, map[string]any, error) {
	for _, path := range paths {
		if _, err := l.fs.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return "", nil, err
		}
		data, err := l.loadFile(path)
		return path, data, err
	}
	return "", nil, nil
}

func (l *Loader) loadFile(path string) (map[string]any, error) {
	ld, err := loader.ForPath(l.fs, path)
	if err != nil {
		return nil, err
	}
	return ld.Load()
}

// Load resolves the configuration with the given options.
func Load(opts ...LoaderOption) (Config, error) {
	cfg, _, err := NewLoader(opts...).Load()
	return cfg, err
}
