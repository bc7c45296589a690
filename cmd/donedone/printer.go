package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

type printer struct {
	w io.Writer

	ok     *color.Color
	notice *color.Color
	bad    *color.Color
	bold   *color.Color
	dim    *color.Color
}

// newPrinter colors output only when f is a terminal.
func newPrinter(f *os.File) *printer {
	p := &printer{
		w:      f,
		ok:     color.New(color.FgGreen),
		notice: color.New(color.FgYellow),
		bad:    color.New(color.FgRed, color.Bold),
		bold:   color.New(color.Bold),
		dim:    color.New(color.FgHiBlack),
	}
	if !isatty.IsTerminal(f.Fd()) {
		for _, c := range []*color.Color{p.ok, p.notice, p.bad, p.bold, p.dim} {
			c.DisableColor()
		}
	}
	return p
}

func (p *printer) success(format string, args ...any) {
	p.ok.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) info(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) warn(format string, args ...any) {
	p.notice.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) failure(format string, args ...any) {
	p.bad.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) heading(format string, args ...any) {
	p.bold.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) item(id int, name string) {
	fmt.Fprintf(p.w, "  %s %s\n", p.dim.Sprintf("%6d", id), name)
}
