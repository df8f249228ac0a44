package renderer

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/outliner/internal/dispatcher"
)

// Builtin is a host command run when no action handles a key.
type Builtin uint8

// Host commands.
const (
	BuiltinNone Builtin = iota
	BuiltinInsertTab
	BuiltinNewline
	BuiltinBackspace
	BuiltinDelete
	BuiltinDeleteToLineStart
	BuiltinSelectAll
	BuiltinLeft
	BuiltinRight
	BuiltinUp
	BuiltinDown
	BuiltinHome
	BuiltinEnd
	BuiltinPageUp
	BuiltinPageDown
	BuiltinUndo
	BuiltinRedo
	BuiltinSave
	BuiltinQuit
)

// movesCursor reports whether b only moves the cursor.
func (b Builtin) movesCursor() bool {
	switch b {
	case BuiltinLeft, BuiltinRight, BuiltinUp, BuiltinDown,
		BuiltinHome, BuiltinEnd, BuiltinPageUp, BuiltinPageDown:
		return true
	}
	return false
}

// Command is what a key is bound to. Action runs first; Builtin runs when
// the action is empty or does not stop propagation.
type Command struct {
	Action  string
	Builtin Builtin
}

// Key identifies a key press.
type Key struct {
	Key  tcell.Key
	Rune rune
	Mod  tcell.ModMask
}

// String returns a readable name such as "Alt+Up" or "Ctrl+Z".
func (k Key) String() string {
	var b strings.Builder
	if k.Mod&tcell.ModCtrl != 0 {
		b.WriteString("Ctrl+")
	}
	if k.Mod&tcell.ModAlt != 0 {
		b.WriteString("Alt+")
	}
	if k.Mod&tcell.ModShift != 0 {
		b.WriteString("Shift+")
	}
	if k.Key == tcell.KeyRune {
		b.WriteRune(k.Rune)
		return b.String()
	}
	if k.Key >= tcell.KeyCtrlA && k.Key <= tcell.KeyCtrlZ && k.Key != tcell.KeyTab &&
		k.Key != tcell.KeyEnter && k.Key != tcell.KeyBackspace {
		b.WriteString("Ctrl+")
		b.WriteRune(rune('A' + k.Key - tcell.KeyCtrlA))
		return b.String()
	}
	if name, ok := tcell.KeyNames[k.Key]; ok {
		b.WriteString(name)
	}
	return b.String()
}

// KeyOf normalizes a key event. Ctrl+letter is reported as the control key
// code, and the two backspace codes are merged.
func KeyOf(ev *tcell.EventKey) Key {
	k := Key{Key: ev.Key(), Mod: ev.Modifiers()}
	switch {
	case k.Key == tcell.KeyRune:
		k.Rune = ev.Rune()
		if k.Mod&tcell.ModCtrl != 0 {
			r := k.Rune | 0x20
			if r >= 'a' && r <= 'z' {
				k.Key = tcell.KeyCtrlA + tcell.Key(r-'a')
				k.Rune = 0
			}
		}
	case k.Key == tcell.KeyBackspace2:
		k.Key = tcell.KeyBackspace
	}
	if k.Key != tcell.KeyRune {
		k.Mod &^= tcell.ModCtrl
	}
	if k.Key == tcell.KeyRune {
		// Shift is carried by the rune itself.
		k.Mod &^= tcell.ModShift
	}
	return k
}

// Keymap maps keys to commands.
type Keymap struct {
	bindings map[Key]Command
}

// NewKeymap creates an empty keymap.
func NewKeymap() *Keymap {
	return &Keymap{bindings: make(map[Key]Command)}
}

// DefaultKeymap returns the standard outliner bindings.
func DefaultKeymap() *Keymap {
	km := NewKeymap()
	special := func(k tcell.Key, mod tcell.ModMask, action string, b Builtin) {
		km.Bind(Key{Key: k, Mod: mod}, Command{Action: action, Builtin: b})
	}

	special(tcell.KeyTab, 0, dispatcher.ActionIndent, BuiltinInsertTab)
	special(tcell.KeyBacktab, 0, dispatcher.ActionOutdent, BuiltinNone)
	special(tcell.KeyBacktab, tcell.ModShift, dispatcher.ActionOutdent, BuiltinNone)
	special(tcell.KeyEnter, 0, dispatcher.ActionEnter, BuiltinNewline)
	special(tcell.KeyEnter, tcell.ModShift, dispatcher.ActionNoteLine, BuiltinNewline)
	special(tcell.KeyEnter, tcell.ModAlt, dispatcher.ActionNoteLine, BuiltinNewline)
	special(tcell.KeyBackspace, 0, dispatcher.ActionBackspace, BuiltinBackspace)
	special(tcell.KeyDelete, 0, dispatcher.ActionDelete, BuiltinDelete)
	special(tcell.KeyCtrlU, 0, dispatcher.ActionDeleteToLineStart, BuiltinDeleteToLineStart)
	special(tcell.KeyCtrlA, 0, dispatcher.ActionSelectAll, BuiltinSelectAll)
	special(tcell.KeyLeft, 0, dispatcher.ActionArrowLeft, BuiltinLeft)
	special(tcell.KeyUp, tcell.ModAlt, dispatcher.ActionMoveUp, BuiltinNone)
	special(tcell.KeyDown, tcell.ModAlt, dispatcher.ActionMoveDown, BuiltinNone)
	special(tcell.KeyCtrlF, 0, dispatcher.ActionToggleFold, BuiltinNone)

	special(tcell.KeyRight, 0, "", BuiltinRight)
	special(tcell.KeyUp, 0, "", BuiltinUp)
	special(tcell.KeyDown, 0, "", BuiltinDown)
	special(tcell.KeyHome, 0, "", BuiltinHome)
	special(tcell.KeyEnd, 0, "", BuiltinEnd)
	special(tcell.KeyPgUp, 0, "", BuiltinPageUp)
	special(tcell.KeyPgDn, 0, "", BuiltinPageDown)
	special(tcell.KeyCtrlZ, 0, "", BuiltinUndo)
	special(tcell.KeyCtrlY, 0, "", BuiltinRedo)
	special(tcell.KeyCtrlS, 0, "", BuiltinSave)
	special(tcell.KeyCtrlQ, 0, "", BuiltinQuit)

	km.Bind(Key{Key: tcell.KeyRune, Rune: 'o', Mod: tcell.ModAlt}, Command{Action: dispatcher.ActionInsertBelow})
	km.Bind(Key{Key: tcell.KeyRune, Rune: 'O', Mod: tcell.ModAlt}, Command{Action: dispatcher.ActionInsertAbove})
	return km
}

// Bind binds k to cmd, replacing any earlier binding.
func (km *Keymap) Bind(k Key, cmd Command) {
	km.bindings[k] = cmd
}

// Unbind removes the binding of k.
func (km *Keymap) Unbind(k Key) {
	delete(km.bindings, k)
}

// Lookup returns the command bound to ev.
func (km *Keymap) Lookup(ev *tcell.EventKey) (Command, bool) {
	cmd, ok := km.bindings[KeyOf(ev)]
	return cmd, ok
}

// Len returns the number of bindings.
func (km *Keymap) Len() int {
	return len(km.bindings)
}
