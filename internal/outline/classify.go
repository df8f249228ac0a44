package outline

import (
	"strings"
	"unicode/utf8"
)

// LineKind tags a raw document line.
type LineKind uint8

const (
	// KindOther is any line that is neither a bullet item nor indented.
	KindOther LineKind = iota
	// KindBlank is a zero-length line.
	KindBlank
	// KindBulletItem is indent + bullet + separator [+ checkbox] + content.
	KindBulletItem
	// KindContinuation is a line starting with a space or tab that is not a bullet item.
	KindContinuation
)

// String returns the kind name.
func (k LineKind) String() string {
	switch k {
	case KindOther:
		return "other"
	case KindBlank:
		return "blank"
	case KindBulletItem:
		return "bullet"
	case KindContinuation:
		return "continuation"
	default:
		return "unknown"
	}
}

// Line is a classified document line. The decomposed fields are only
// populated for KindBulletItem; Indent is populated for continuations too.
type Line struct {
	Kind LineKind
	Text string

	Indent    string
	Bullet    string
	Separator string
	Checkbox  string
	Content   string
}

// IsItem returns true for bullet item lines.
func (l Line) IsItem() bool {
	return l.Kind == KindBulletItem
}

// IsOutlineLine returns true for lines that can be part of an outline region.
func (l Line) IsOutlineLine() bool {
	return l.Kind == KindBulletItem || l.Kind == KindContinuation
}

// IsTopLevelItem returns true for bullet items without leading whitespace.
func (l Line) IsTopLevelItem() bool {
	return l.Kind == KindBulletItem && l.Indent == ""
}

// IsWhitespaceOnly returns true for non-empty lines made only of spaces and tabs.
func (l Line) IsWhitespaceOnly() bool {
	return l.Text != "" && strings.Trim(l.Text, " \t") == ""
}

// Classify tags a raw line and, for bullet items, splits it into its parts.
func Classify(text string) Line {
	if text == "" {
		return Line{Kind: KindBlank}
	}

	indentEnd := leadingWhitespace(text)
	indent := text[:indentEnd]

	if bulletEnd := scanBullet(text, indentEnd); bulletEnd > 0 && bulletEnd < len(text) && isIndentChar(text[bulletEnd]) {
		rest := text[bulletEnd+1:]
		checkbox := ""
		if n := scanCheckbox(rest); n > 0 {
			checkbox = rest[:n]
		}
		return Line{
			Kind:      KindBulletItem,
			Text:      text,
			Indent:    indent,
			Bullet:    text[indentEnd:bulletEnd],
			Separator: text[bulletEnd : bulletEnd+1],
			Checkbox:  checkbox,
			Content:   rest[len(checkbox):],
		}
	}

	if indentEnd > 0 {
		return Line{Kind: KindContinuation, Text: text, Indent: indent}
	}
	return Line{Kind: KindOther, Text: text}
}

// scanBullet returns the end offset of a bullet starting at pos, or -1.
// A bullet is one of - * + or a run of digits followed by a dot.
func scanBullet(text string, pos int) int {
	if pos >= len(text) {
		return -1
	}
	switch text[pos] {
	case '-', '*', '+':
		return pos + 1
	}
	i := pos
	for i < len(text) && text[i] >= '0' && text[i] <= '9' {
		i++
	}
	if i == pos || i >= len(text) || text[i] != '.' {
		return -1
	}
	return i + 1
}

// scanCheckbox returns the length of a leading "[x] " style token, or 0.
// The mark may be any single character other than a bracket.
func scanCheckbox(s string) int {
	if len(s) < 4 || s[0] != '[' {
		return 0
	}
	mark, size := utf8.DecodeRuneInString(s[1:])
	if mark == utf8.RuneError || mark == '[' || mark == ']' || mark == '\n' {
		return 0
	}
	end := 1 + size
	if len(s) < end+2 || s[end] != ']' || !isIndentChar(s[end+1]) {
		return 0
	}
	return end + 2
}

// IsEmptyContent reports whether first-line content is empty or an unchecked checkbox only.
func IsEmptyContent(content string) bool {
	return content == "" || content == "[ ] "
}

// HasCheckbox reports whether content begins with a checkbox token.
func HasCheckbox(content string) bool {
	return scanCheckbox(content) > 0
}

func leadingWhitespace(s string) int {
	i := 0
	for i < len(s) && isIndentChar(s[i]) {
		i++
	}
	return i
}

func isIndentChar(c byte) bool {
	return c == ' ' || c == '\t'
}

// isOrdinalBullet reports whether a bullet is digits followed by a dot.
func isOrdinalBullet(b string) bool {
	return len(b) >= 2 && scanBullet(b, 0) == len(b) && b[len(b)-1] == '.'
}
