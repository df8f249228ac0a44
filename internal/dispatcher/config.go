package dispatcher

import (
	"github.com/dshills/outliner/internal/config"
	"github.com/dshills/outliner/internal/outline"
)

// Gate reports whether a feature is enabled in cfg.
type Gate func(cfg config.OutlinerConfig) bool

// Always enables an action regardless of configuration.
func Always(config.OutlinerConfig) bool { return true }

func tabEnabled(cfg config.OutlinerConfig) bool       { return cfg.OverrideTabBehaviour }
func enterEnabled(cfg config.OutlinerConfig) bool     { return cfg.OverrideEnterBehaviour }
func selectAllEnabled(cfg config.OutlinerConfig) bool { return cfg.OverrideSelectAllBehaviour }
func vimOEnabled(cfg config.OutlinerConfig) bool      { return cfg.OverrideVimOBehaviour }
func dragEnabled(cfg config.OutlinerConfig) bool      { return cfg.DragAndDrop }

// clampEnabled reports whether the cursor clamps run at all.
func clampEnabled(cfg config.OutlinerConfig) bool {
	return cfg.KeepCursorWithinContent != outline.KeepCursorNever
}
