package renderer

import "github.com/gdamore/tcell/v2"

// Theme holds the styles used to draw an outline.
type Theme struct {
	Text      tcell.Style
	Bullet    tcell.Style
	Checkbox  tcell.Style
	Notes     tcell.Style
	Fold      tcell.Style
	Gutter    tcell.Style
	Selection tcell.Style
	Status    tcell.Style
	Error     tcell.Style
}

// DefaultTheme returns the default theme.
func DefaultTheme() Theme {
	base := tcell.StyleDefault
	return Theme{
		Text:      base,
		Bullet:    base.Foreground(tcell.ColorTeal).Bold(true),
		Checkbox:  base.Foreground(tcell.ColorOlive),
		Notes:     base.Foreground(tcell.ColorGray),
		Fold:      base.Foreground(tcell.ColorGray).Dim(true),
		Gutter:    base.Dim(true),
		Selection: base.Reverse(true),
		Status:    base.Reverse(true),
		Error:     base.Foreground(tcell.ColorWhite).Background(tcell.ColorMaroon),
	}
}

// MonochromeTheme returns a theme without colors.
func MonochromeTheme() Theme {
	base := tcell.StyleDefault
	return Theme{
		Text:      base,
		Bullet:    base.Bold(true),
		Checkbox:  base,
		Notes:     base,
		Fold:      base.Dim(true),
		Gutter:    base.Dim(true),
		Selection: base.Reverse(true),
		Status:    base.Reverse(true),
		Error:     base.Reverse(true).Bold(true),
	}
}
