package cli

import (
	"strconv"
	"strings"

	"github.com/dshills/outliner/internal/outline"
)

// lineSource is the part of a buffer positions are checked against.
type lineSource interface {
	LineCount() int
	GetLine(n int) string
}

// parseLine parses a 1-based line number and returns the 0-based index.
func parseLine(flag, value string, src lineSource) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, &positionError{flag: flag, value: value, reason: "not a number"}
	}
	if n < 1 || n > src.LineCount() {
		return 0, &positionError{flag: flag, value: value, reason: "line out of range"}
	}
	return n - 1, nil
}

// parsePosition parses a 1-based "line:column" pair. Without a column the
// position is the end of the line.
func parsePosition(flag, value string, src lineSource) (outline.Position, error) {
	linePart, colPart, hasCol := strings.Cut(value, ":")
	line, err := parseLine(flag, linePart, src)
	if err != nil {
		return outline.Position{}, err
	}
	text := src.GetLine(line)
	if !hasCol {
		return outline.Pos(line, len(text)), nil
	}

	col, err := strconv.Atoi(strings.TrimSpace(colPart))
	if err != nil {
		return outline.Position{}, &positionError{flag: flag, value: value, reason: "column is not a number"}
	}
	if col < 1 || col > len(text)+1 {
		return outline.Position{}, &positionError{flag: flag, value: value, reason: "column out of range"}
	}
	return outline.Pos(line, col-1), nil
}

// formatPosition returns p as a 1-based "line:column" pair.
func formatPosition(p outline.Position) string {
	return strconv.Itoa(p.Line+1) + ":" + strconv.Itoa(p.Column+1)
}
