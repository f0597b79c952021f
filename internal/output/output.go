// Package output prints the progress and diagnostic lines of a run.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Writer prints progress lines, styled when writing to a terminal.
// Errors from writing are ignored for console output.
type Writer struct {
	out    io.Writer
	styles Styles
}

// New creates a Writer. Color is used only when out is a terminal and
// noColor is false.
func New(out io.Writer, noColor bool) *Writer {
	return &Writer{
		out:    out,
		styles: GetStyles(!noColor && IsTerminal(out)),
	}
}

// IsTerminal reports whether out is a terminal.
func IsTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Line prints msg unstyled.
func (w *Writer) Line(msg string) {
	_, _ = fmt.Fprintln(w.out, msg)
}

// Linef prints a formatted unstyled line.
func (w *Writer) Linef(format string, args ...any) {
	w.Line(fmt.Sprintf(format, args...))
}

// Header prints a per-file heading such as "Parsed: name".
func (w *Writer) Header(msg string) {
	w.Line(w.styles.Header.Render(msg))
}

// Detail prints an indented "  > label: value" line.
func (w *Writer) Detail(label, value string) {
	w.Line("  " + w.styles.Detail.Render("> "+label+":") + " " + value)
}

// Notice prints a skipped-entry message.
func (w *Writer) Notice(msg string) {
	w.Line(w.styles.Notice.Render(msg))
}

// Noticef prints a formatted notice.
func (w *Writer) Noticef(format string, args ...any) {
	w.Notice(fmt.Sprintf(format, args...))
}

// Failure prints a per-file failure the run survives.
func (w *Writer) Failure(msg string) {
	w.Line(w.styles.Error.Render(msg))
}

// Failuref prints a formatted failure.
func (w *Writer) Failuref(format string, args ...any) {
	w.Failure(fmt.Sprintf(format, args...))
}

// Success prints the final result line.
func (w *Writer) Success(msg string) {
	w.Line(w.styles.Success.Render(msg))
}

// Successf prints a formatted success line.
func (w *Writer) Successf(format string, args ...any) {
	w.Success(fmt.Sprintf(format, args...))
}
