package history

import (
	"fmt"

	"github.com/dshills/outliner/internal/engine/buffer"
)

// Command represents an edit that can be executed and undone.
type Command interface {
	// Execute performs the command and returns an error if it fails.
	Execute(buf *buffer.Buffer) error

	// Undo reverses the command and returns an error if it fails.
	Undo(buf *buffer.Buffer) error

	// Description returns a human-readable description of the command.
	Description() string
}

// ChangeCommand replays a recorded buffer change.
type ChangeCommand struct {
	Change buffer.Change
}

// NewChangeCommand creates a command for an already applied change.
func NewChangeCommand(change buffer.Change) *ChangeCommand {
	return &ChangeCommand{Change: change}
}

// Execute applies the change again and puts the cursor after the new text.
func (c *ChangeCommand) Execute(buf *buffer.Buffer) error {
	if err := buf.Apply(c.Change); err != nil {
		return fmt.Errorf("redo %s: %w", c.Change, err)
	}
	buf.SetCursor(c.Change.NewEnd())
	return nil
}

// Undo reverts the change and restores the selections it was made with.
func (c *ChangeCommand) Undo(buf *buffer.Buffer) error {
	if err := buf.Apply(c.Change.Invert()); err != nil {
		return fmt.Errorf("undo %s: %w", c.Change, err)
	}
	if len(c.Change.SelectionsBefore) > 0 {
		buf.SetSelections(c.Change.SelectionsBefore)
	} else {
		buf.SetCursor(c.Change.From)
	}
	return nil
}

// Description describes the change.
func (c *ChangeCommand) Description() string {
	return c.Change.String()
}

// CompoundCommand groups multiple commands as one undo unit.
type CompoundCommand struct {
	Name     string
	Commands []Command
}

// NewCompoundCommand creates a new compound command.
func NewCompoundCommand(name string, commands ...Command) *CompoundCommand {
	return &CompoundCommand{
		Name:     name,
		Commands: commands,
	}
}

// Execute runs all commands in order.
func (c *CompoundCommand) Execute(buf *buffer.Buffer) error {
	for i, cmd := range c.Commands {
		if err := cmd.Execute(buf); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = c.Commands[j].Undo(buf)
			}
			return fmt.Errorf("compound command '%s' step %d: %w", c.Name, i, err)
		}
	}
	return nil
}

// Undo reverses all commands in reverse order.
func (c *CompoundCommand) Undo(buf *buffer.Buffer) error {
	for i := len(c.Commands) - 1; i >= 0; i-- {
		if err := c.Commands[i].Undo(buf); err != nil {
			return fmt.Errorf("undo compound command '%s' step %d: %w", c.Name, i, err)
		}
	}
	return nil
}

// Description returns the compound command's name.
func (c *CompoundCommand) Description() string {
	if c.Name != "" {
		return c.Name
	}
	if len(c.Commands) == 1 {
		return c.Commands[0].Description()
	}
	return fmt.Sprintf("%d operations", len(c.Commands))
}

// Add adds a command to the compound command.
func (c *CompoundCommand) Add(cmd Command) {
	c.Commands = append(c.Commands, cmd)
}

// IsEmpty returns true if the compound command has no commands.
func (c *CompoundCommand) IsEmpty() bool {
	return len(c.Commands) == 0
}
