package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/dshills/outliner/internal/outline"
)

// printer writes outline text with colored bullets, checkboxes and notes.
type printer struct {
	w io.Writer

	header   *color.Color
	bullet   *color.Color
	checkbox *color.Color
	done     *color.Color
	notes    *color.Color
	warn     *color.Color
	ok       *color.Color
}

func newPrinter(w io.Writer, noColor bool) *printer {
	p := &printer{
		w:        w,
		header:   color.New(color.Bold, color.Underline),
		bullet:   color.New(color.FgCyan, color.Bold),
		checkbox: color.New(color.FgYellow),
		done:     color.New(color.Faint, color.CrossedOut),
		notes:    color.New(color.Faint, color.Italic),
		warn:     color.New(color.FgHiYellow),
		ok:       color.New(color.FgGreen),
	}
	if noColor {
		for _, c := range []*color.Color{p.header, p.bullet, p.checkbox, p.done, p.notes, p.warn, p.ok} {
			c.DisableColor()
		}
	}
	return p
}

// Line prints one document line styled by its outline role.
func (p *printer) Line(text string) {
	l := outline.Classify(text)
	switch l.Kind {
	case outline.KindBulletItem:
		fmt.Fprint(p.w, l.Indent)
		p.bullet.Fprint(p.w, l.Bullet)
		fmt.Fprint(p.w, l.Separator)
		if l.Checkbox != "" {
			p.checkbox.Fprint(p.w, l.Checkbox)
			if l.Checkbox != "[ ] " {
				p.done.Fprint(p.w, l.Content)
				fmt.Fprintln(p.w)
				return
			}
		}
		fmt.Fprintln(p.w, l.Content)
	case outline.KindContinuation:
		fmt.Fprint(p.w, l.Indent)
		p.notes.Fprintln(p.w, text[len(l.Indent):])
	default:
		fmt.Fprintln(p.w, text)
	}
}

// Header prints a section heading.
func (p *printer) Header(format string, args ...any) {
	p.header.Fprintf(p.w, format, args...)
	fmt.Fprintln(p.w)
}

// Warn prints a warning line.
func (p *printer) Warn(format string, args ...any) {
	p.warn.Fprintf(p.w, "warning: "+format, args...)
	fmt.Fprintln(p.w)
}

// OK prints a success line.
func (p *printer) OK(format string, args ...any) {
	p.ok.Fprintf(p.w, format, args...)
	fmt.Fprintln(p.w)
}
