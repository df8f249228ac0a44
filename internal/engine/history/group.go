package history

// GroupScope groups commands until End is called.
// Usage:
//
//	defer h.GroupScope("outliner.indent").End()
type GroupScope struct {
	history *History
	active  bool
}

// GroupScope starts a new group scope.
func (h *History) GroupScope(name string) *GroupScope {
	h.BeginGroup(name)
	return &GroupScope{
		history: h,
		active:  true,
	}
}

// End ends the group scope.
// Safe to call multiple times; only the first call has effect.
func (g *GroupScope) End() {
	if g.active {
		g.history.EndGroup()
		g.active = false
	}
}

// Transaction executes fn within a grouped undo context.
// If fn returns an error the group is still recorded, so the edits fn made
// before failing can be undone in one step.
func (h *History) Transaction(name string, fn func() error) error {
	h.BeginGroup(name)
	defer h.EndGroup()
	return fn()
}
