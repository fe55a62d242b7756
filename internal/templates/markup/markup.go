// Package markup writes HTML for templ components without generated code.
package markup

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// HTML is trusted markup; Printf does not escape it.
type HTML string

// Writer accumulates the first write error so views can write without
// checking every call.
type Writer struct {
	ctx context.Context
	w   io.Writer
	err error
}

// Func adapts fn into a templ.Component.
func Func(fn func(w *Writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &Writer{ctx: ctx, w: out}
		fn(w)
		return w.err
	})
}

func (w *Writer) Context() context.Context { return w.ctx }

func (w *Writer) Raw(s string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.w, s)
}

func (w *Writer) Text(s string) {
	w.Raw(templ.EscapeString(s))
}

// Printf formats with every string argument escaped. HTML arguments and
// non-string values are written as formatted.
func (w *Writer) Printf(format string, args ...any) {
	safe := make([]any, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case HTML:
			safe[i] = string(v)
		case string:
			safe[i] = templ.EscapeString(v)
		default:
			safe[i] = arg
		}
	}
	w.Raw(fmt.Sprintf(format, safe...))
}

// Component renders c in place. Nil components are skipped.
func (w *Writer) Component(c templ.Component) {
	if w.err != nil || c == nil {
		return
	}
	w.err = c.Render(w.ctx, w.w)
}

// Fail records err if no earlier error was recorded.
func (w *Writer) Fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

// If returns s when cond holds.
func If(cond bool, s string) string {
	if cond {
		return s
	}
	return ""
}
