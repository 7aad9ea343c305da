package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

const separatorWidth = 60

// Printer writes the human readable report. Colour is only applied when
// colorize is set, so tests and pipes get plain text.
type Printer struct {
	w        io.Writer
	colorize bool
	title    *color.Color
	errLabel *color.Color
}

func NewPrinter(w io.Writer, colorize bool) *Printer {
	p := &Printer{
		w:        w,
		colorize: colorize,
		title:    color.New(color.FgCyan, color.Bold),
		errLabel: color.New(color.FgRed, color.Bold),
	}
	if colorize {
		p.title.EnableColor()
		p.errLabel.EnableColor()
	}

	return p
}

// Section prints the banner shown before every step.
func (p *Printer) Section(title string) {
	sep := strings.Repeat("=", separatorWidth)
	if p.colorize {
		title = p.title.Sprint(title)
	}
	fmt.Fprintf(p.w, "\n%s\n%s\n%s\n", sep, title, sep)
}

func (p *Printer) Println(s string) {
	fmt.Fprintln(p.w, s)
}

func (p *Printer) Printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, format, args...)
}

// Fatal prints an aborting diagnostic, preceded by a blank line.
func (p *Printer) Fatal(msg string) {
	fmt.Fprintf(p.w, "\n%s %s\n", p.label("Error:"), msg)
}

func (p *Printer) label(s string) string {
	if p.colorize {
		return p.errLabel.Sprint(s)
	}

	return s
}

// PrettyJSON re-indents a JSON document with two spaces, keeping key order.
func PrettyJSON(body []byte) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(body), "", "  "); err != nil {
		return "", fmt.Errorf("could not parse response body as JSON: %w", err)
	}

	return buf.String(), nil
}

// StatusError is the inline report for a non-200 response.
func StatusError(res *Response) string {
	return fmt.Sprintf("Error: %d - %s", res.StatusCode, string(res.Body))
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}

	return string(runes[:n])
}
