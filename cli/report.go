package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/lipgloss"

	"github.com/Omarmeks89/edl-src/lang/diag"
	"github.com/Omarmeks89/edl-src/log"
)

// Report prints err to w. A compiler diagnostic carrying a source trace is
// rendered with the offending line and a caret, colored when w is a
// terminal; any other error is logged.
func Report(w io.Writer, err error) {
	e, ok := diag.As(err)
	if !ok || e.Trace() == nil {
		log.Error("run failed", slog.Any("error", err))

		return
	}

	r := lipgloss.NewRenderer(w)
	kind := r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	faint := r.NewStyle().Faint(true)
	caret := r.NewStyle().Foreground(lipgloss.Color("1"))

	msg := e.Message()
	if cause := e.Unwrap(); cause != nil {
		msg += ": " + cause.Error()
	}

	tr := e.Trace()
	src, mark := tr.Lines()

	fmt.Fprintf(w, "%s %s\n", kind.Render(e.Kind().String()+" error:"), msg)
	fmt.Fprintln(w, faint.Render("  --> "+tr.Position()))
	fmt.Fprintln(w, src)
	fmt.Fprintln(w, caret.Render(mark))

	for _, a := range e.Attrs() {
		fmt.Fprintln(w, faint.Render("  = "+a.String()))
	}
}
