// Package config provides layered configuration for the outliner.
//
// Settings are merged from, lowest to highest precedence: built-in
// defaults, the user file, the project file, OUTLINER_ environment
// variables and command-line overrides. Files may be TOML or YAML.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/outliner/internal/config/loader"
	"github.com/dshills/outliner/internal/logging"
	"github.com/dshills/outliner/internal/outline"
)

// Errors returned by the config package.
var (
	// ErrUnknownFormat indicates a configuration file with an unsupported
	// extension.
	ErrUnknownFormat = loader.ErrUnknownFormat

	// ErrInvalidValue indicates a setting with a wrong type or value.
	ErrInvalidValue = errors.New("invalid configuration value")
)

// ValidationError describes a rejected setting.
type ValidationError struct {
	Path    string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config %s = %#v: %s", e.Path, e.Value, e.Message)
}

// Unwrap returns ErrInvalidValue.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidValue
}

// Config is the resolved outliner configuration.
type Config struct {
	Outliner OutlinerConfig
	Logging  LoggingConfig
}

// OutlinerConfig holds the editing behaviour settings.
type OutlinerConfig struct {
	KeepCursorWithinContent    outline.CursorMode
	DefaultIndentChars         string
	OverrideTabBehaviour       bool
	OverrideEnterBehaviour     bool
	OverrideSelectAllBehaviour bool
	OverrideVimOBehaviour      bool
	DragAndDrop                bool
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Outliner: OutlinerConfig{
			KeepCursorWithinContent:    outline.KeepCursorBulletAndCheckbox,
			DefaultIndentChars:         "\t",
			OverrideTabBehaviour:       true,
			OverrideEnterBehaviour:     true,
			OverrideSelectAllBehaviour: true,
			OverrideVimOBehaviour:      true,
			DragAndDrop:                true,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Setting paths.
const (
	PathKeepCursorWithinContent    = "outliner.keepCursorWithinContent"
	PathDefaultIndentChars         = "outliner.defaultIndentChars"
	PathOverrideTabBehaviour       = "outliner.overrideTabBehaviour"
	PathOverrideEnterBehaviour     = "outliner.overrideEnterBehaviour"
	PathOverrideSelectAllBehaviour = "outliner.overrideSelectAllBehaviour"
	PathOverrideVimOBehaviour      = "outliner.overrideVimOBehaviour"
	PathDragAndDrop                = "outliner.dragAndDrop"
	PathLoggingLevel               = "logging.level"
)

var settingPaths = []string{
	PathKeepCursorWithinContent,
	PathDefaultIndentChars,
	PathOverrideTabBehaviour,
	PathOverrideEnterBehaviour,
	PathOverrideSelectAllBehaviour,
	PathOverrideVimOBehaviour,
	PathDragAndDrop,
	PathLoggingLevel,
}

// ToMap returns c as a nested map keyed by setting path segments.
func (c Config) ToMap() map[string]any {
	m := make(map[string]any)
	loader.SetByPath(m, PathKeepCursorWithinContent, string(c.Outliner.KeepCursorWithinContent))
	loader.SetByPath(m, PathDefaultIndentChars, c.Outliner.DefaultIndentChars)
	loader.SetByPath(m, PathOverrideTabBehaviour, c.Outliner.OverrideTabBehaviour)
	loader.SetByPath(m, PathOverrideEnterBehaviour, c.Outliner.OverrideEnterBehaviour)
	loader.SetByPath(m, PathOverrideSelectAllBehaviour, c.Outliner.OverrideSelectAllBehaviour)
	loader.SetByPath(m, PathOverrideVimOBehaviour, c.Outliner.OverrideVimOBehaviour)
	loader.SetByPath(m, PathDragAndDrop, c.Outliner.DragAndDrop)
	loader.SetByPath(m, PathLoggingLevel, c.Logging.Level)
	return m
}

// FromMap decodes a merged settings map on top of the defaults and
// validates the result. Unknown keys are ignored.
func FromMap(m map[string]any) (Config, error) {
	c := Default()
	d := decoder{data: m}
	d.string(PathKeepCursorWithinContent, func(s string) { c.Outliner.KeepCursorWithinContent = outline.CursorMode(s) })
	d.string(PathDefaultIndentChars, func(s string) { c.Outliner.DefaultIndentChars = s })
	d.bool(PathOverrideTabBehaviour, &c.Outliner.OverrideTabBehaviour)
	d.bool(PathOverrideEnterBehaviour, &c.Outliner.OverrideEnterBehaviour)
	d.bool(PathOverrideSelectAllBehaviour, &c.Outliner.OverrideSelectAllBehaviour)
	d.bool(PathOverrideVimOBehaviour, &c.Outliner.OverrideVimOBehaviour)
	d.bool(PathDragAndDrop, &c.Outliner.DragAndDrop)
	d.string(PathLoggingLevel, func(s string) { c.Logging.Level = strings.ToLower(s) })
	if d.err != nil {
		return Default(), d.err
	}
	if err := c.Validate(); err != nil {
		return Default(), err
	}
	return c, nil
}

// Validate checks enum values and the indent string.
func (c Config) Validate() error {
	if !c.Outliner.KeepCursorWithinContent.Valid() {
		return &ValidationError{
			Path:    PathKeepCursorWithinContent,
			Value:   string(c.Outliner.KeepCursorWithinContent),
			Message: "must be one of never, bullet-only, bullet-and-checkbox",
		}
	}
	indent := c.Outliner.DefaultIndentChars
	if indent == "" || strings.Trim(indent, " \t") != "" {
		return &ValidationError{
			Path:    PathDefaultIndentChars,
			Value:   indent,
			Message: "must be non-empty spaces or tabs",
		}
	}
	if !logging.ValidLevel(c.Logging.Level) {
		return &ValidationError{
			Path:    PathLoggingLevel,
			Value:   c.Logging.Level,
			Message: "must be one of debug, info, warn, error",
		}
	}
	return nil
}

// decoder reads typed values from a nested map, keeping the first error.
type decoder struct {
	data map[string]any
	err  error
}

func (d *decoder) lookup(path string) (any, bool) {
	if d.err != nil {
		return nil, false
	}
	return loader.GetByPath(d.data, path)
}

func (d *decoder) string(path string, set func(string)) {
	v, ok := d.lookup(path)
	if !ok {
		return
	}
	s, ok := v.(string)
	if !ok {
		d.err = &ValidationError{Path: path, Value: v, Message: "expected a string"}
		return
	}
	set(s)
}

func (d *decoder) bool(path string, dst *bool) {
	v, ok := d.lookup(path)
	if !ok {
		return
	}
	switch b := v.(type) {
	case bool:
		*dst = b
	case int:
		*dst = b != 0
	case int64:
		*dst = b != 0
	default:
		d.err = &ValidationError{Path: path, Value: v, Message: "expected a boolean"}
	}
}
