package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	goschema "github.com/reoring/goschema"
)

type printer struct {
	w    io.Writer
	kind *color.Color
	path *color.Color
}

// newPrinter colors output only when w is a terminal.
func newPrinter(w io.Writer, noColor bool) *printer {
	p := &printer{
		w:    w,
		kind: color.New(color.FgRed, color.Bold),
		path: color.New(color.FgCyan),
	}
	if noColor || !isTerminal(w) {
		p.kind.DisableColor()
		p.path.DisableColor()
	} else {
		p.kind.EnableColor()
		p.path.EnableColor()
	}
	return p
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// failure renders err as "<kind> <path>: <detail>".
func (p *printer) failure(err error) {
	e, ok := goschema.AsError(err)
	if !ok {
		fmt.Fprintf(p.w, "%s %v\n", p.kind.Sprint("error"), err)
		return
	}
	detail := e.Detail
	if detail == "" {
		detail = e.Error()
	}
	if len(e.Path) == 0 {
		fmt.Fprintf(p.w, "%s %s\n", p.kind.Sprint(e.Kind), detail)
		return
	}
	fmt.Fprintf(p.w, "%s %s: %s\n", p.kind.Sprint(e.Kind), p.path.Sprint(e.Path.String()), detail)
}
