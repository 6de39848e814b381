// Package ui renders almanac output. Printer writes status lines to stderr;
// the table renderers build schedule and critical path reports for stdout.
package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/papapumpkin/almanac/internal/ansi"
	"github.com/papapumpkin/almanac/internal/project"
	"github.com/papapumpkin/almanac/internal/schedule"
)

// Printer writes human-oriented status lines. It never writes to stdout, so
// machine-readable output on stdout stays clean.
type Printer struct {
	w       io.Writer
	color   bool
	verbose bool
}

// New returns a Printer writing colored output to stderr.
func New() *Printer {
	return &Printer{w: os.Stderr, color: true}
}

// NewWithWriter returns a Printer writing to w.
func NewWithWriter(w io.Writer, color, verbose bool) *Printer {
	return &Printer{w: w, color: color, verbose: verbose}
}

// SetColor enables or disables ANSI escapes.
func (p *Printer) SetColor(on bool) { p.color = on }

// SetVerbose enables or disables per-item detail lines.
func (p *Printer) SetVerbose(on bool) { p.verbose = on }

func (p *Printer) paint(code, s string) string {
	if !p.color {
		return s
	}
	return code + s + ansi.Reset
}

// Error prints an error line.
func (p *Printer) Error(msg string) {
	fmt.Fprintf(p.w, "%s%s\n", p.paint(ansi.Red+ansi.Bold, "error: "), msg)
}

// Warn prints a warning line.
func (p *Printer) Warn(msg string) {
	fmt.Fprintf(p.w, "%s%s\n", p.paint(ansi.Yellow+ansi.Bold, "⚠ "), msg)
}

// Info prints a dimmed informational line.
func (p *Printer) Info(msg string) {
	fmt.Fprintln(p.w, p.paint(ansi.Dim, msg))
}

// Verbose prints msg only in verbose mode.
func (p *Printer) Verbose(msg string) {
	if p.verbose {
		p.Info(msg)
	}
}

// ValidateResult prints the validation outcome for a project file.
func (p *Printer) ValidateResult(name string, taskCount int, errs []project.ValidationError) {
	if len(errs) == 0 {
		fmt.Fprintf(p.w, "%s — %s task(s), no errors\n",
			p.paint(ansi.Green+ansi.Bold, fmt.Sprintf("✓ project %q", name)), humanize.Comma(int64(taskCount)))
		return
	}
	fmt.Fprintf(p.w, "%s — %d error(s):\n", p.paint(ansi.Red+ansi.Bold, fmt.Sprintf("✗ project %q", name)), len(errs))
	for _, e := range errs {
		fmt.Fprintf(p.w, "  %s%s %s\n", p.paint(ansi.Red, "• "), p.paint(ansi.Dim, "["+string(e.Category)+"]"), e.Error())
	}
}

// RemovedLinks reports links dropped before scheduling. Individual links
// are listed in verbose mode only.
func (p *Printer) RemovedLinks(removed []project.RemovedLink) {
	if len(removed) == 0 {
		return
	}
	p.Warn(fmt.Sprintf("%d link(s) ignored", len(removed)))
	if !p.verbose {
		return
	}
	for _, r := range removed {
		fmt.Fprintf(p.w, "  %s %s %s\n", p.paint(ansi.Dim, "-"), r.Link, p.paint(ansi.Dim, "("+string(r.Reason)+")"))
	}
}

// Conflicts prints scheduling conflicts.
func (p *Printer) Conflicts(conflicts []schedule.Conflict) {
	for _, c := range conflicts {
		fmt.Fprintf(p.w, "%s %s\n", p.paint(ansi.Yellow+ansi.Bold, "⚠ "+string(c.Kind)), c.Message)
	}
}

// ScheduleDone prints a one-line summary of a scheduling run.
func (p *Printer) ScheduleDone(name string, r schedule.Result, elapsed time.Duration) {
	mark := p.paint(ansi.Green+ansi.Bold, "✓ scheduled")
	if len(r.Conflicts) > 0 {
		mark = p.paint(ansi.Yellow+ansi.Bold, "⚠ scheduled")
	}
	fmt.Fprintf(p.w, "%s %s — %s task(s), %d conflict(s) %s\n",
		mark, name, humanize.Comma(int64(len(r.Tasks))), len(r.Conflicts),
		p.paint(ansi.Dim, fmt.Sprintf("(%s)", elapsed.Round(time.Microsecond))))
}

// RescheduleDone prints which tasks an incremental run recomputed.
func (p *Printer) RescheduleDone(id project.ID, affected []project.ID) {
	fmt.Fprintf(p.w, "%s from %s — %d task(s) recomputed\n", p.paint(ansi.Cyan+ansi.Bold, "↻ rescheduled"), id, len(affected))
	if !p.verbose {
		return
	}
	for _, a := range affected {
		fmt.Fprintf(p.w, "  %s %s\n", p.paint(ansi.Dim, "·"), a)
	}
}

// WatchStarted announces watch mode.
func (p *Printer) WatchStarted(path string) {
	fmt.Fprintf(p.w, "%s %s %s\n", p.paint(ansi.Cyan+ansi.Bold, "◎ watching"), path, p.paint(ansi.Dim, "(ctrl-c to stop)"))
}

// ClearScreen clears the terminal between watch mode redraws. It does
// nothing when color is off, since plain output is usually piped.
func (p *Printer) ClearScreen() {
	if p.color {
		fmt.Fprint(p.w, ansi.ClearScreen)
	}
}

// WatchRemoved reports that the watched file disappeared.
func (p *Printer) WatchRemoved(path string) {
	p.Warn(path + " was removed; waiting for it to come back")
}
