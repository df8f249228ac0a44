package outline

import "strings"

// textReader is a Reader over a fixed text. A single "|" in the text marks
// the cursor and is removed.
type textReader struct {
	lines  []string
	sels   []Selection
	folded []int
}

func newTextReader(text string) *textReader {
	r := &textReader{}
	cursor := Position{}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if idx := strings.Index(line, "|"); idx >= 0 {
			cursor = Position{Line: i, Column: idx}
			lines[i] = line[:idx] + line[idx+1:]
		}
	}
	r.lines = lines
	r.sels = []Selection{NewCursorSelection(cursor)}
	return r
}

func (r *textReader) GetLine(n int) string { return r.lines[n] }
func (r *textReader) LastLine() int { return len(r.lines) - 1 }
func (r *textReader) ListSelections() []Selection { return r.sels }
func (r *textReader) GetAllFoldedLines() []int { return r.folded }
func (r *textReader) cursor() Position { return r.sels[len(r.sels)-1].Head }
func (r *textReader) text() string { return strings.Join(r.lines, "\n") }
func (r *textReader) fold(lines ...int) *textReader { r.folded = lines; return r }
