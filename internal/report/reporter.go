// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Color-coded per-project status lines

package report

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/sony-level/npm-batch/internal/exec"
)

// Reporter prints status lines. Lines from concurrently finishing projects
// are serialised so they never interleave.
type Reporter struct {
	mu     sync.Mutex
	out    io.Writer
	styles *Styles
	// EchoAll echoes raw output for every command, not just those that ask for it.
	EchoAll bool
}

// New creates a reporter writing to out
func New(out io.Writer) *Reporter {
	return &Reporter{
		out:    out,
		styles: NewStyles(out),
	}
}

// Projects prints the registry listing in load order
func (r *Reporter) Projects(names []string) {
	r.println(fmt.Sprintf("All projects: %s", r.styles.Names.Render(strings.Join(names, ","))))
}

// Project prints the status line of one finished (project, command) pair.
// reportFile, when set, is appended as "<path>/<reportFile>".
func (r *Reporter) Project(outcome exec.Outcome, name, path, reportFile string, echo bool) {
	style, glyph := r.styles.Success, GlyphSuccess
	if outcome.Failed() {
		style, glyph = r.styles.Failure, GlyphFailure
	}

	// each segment is rendered on its own, a nested style's reset would
	// drop the outer color for the rest of the line
	line := style.Render(glyph+" on ") + r.styles.Project.Render(name)
	if reportFile != "" {
		line += style.Render(" and report can be found at ") + r.styles.Path.Render(path+"/"+reportFile)
	}
	lines := []string{line}

	if echo || r.EchoAll {
		if raw := rawOutput(outcome); raw != "" {
			// styled line by line, lipgloss pads multi-line blocks to equal width
			for _, l := range strings.Split(raw, "\n") {
				lines = append(lines, style.Render(l))
			}
		}
	}

	r.println(lines...)
}

// Line prints a free-form success or failure line
func (r *Reporter) Line(ok bool, msg string) {
	if ok {
		r.println(r.styles.Success.Render(GlyphSuccess + " " + msg))
		return
	}
	r.println(r.styles.Failure.Render(GlyphFailure + " " + msg))
}

// Failure prints a single top-level failure message
func (r *Reporter) Failure(err error) {
	r.println(r.styles.Failure.Render(fmt.Sprintf("%s Something went wrong: %v", GlyphFailure, err)))
}

// Warn prints a muted warning line
func (r *Reporter) Warn(msg string) {
	r.println(r.styles.Muted.Render("! " + msg))
}

// rawOutput picks the text echoed after a status line: the error and error
// stream for failures, the standard output otherwise
func rawOutput(o exec.Outcome) string {
	if !o.Failed() {
		return strings.TrimRight(o.Stdout, "\n")
	}
	var parts []string
	if o.Err != nil {
		parts = append(parts, o.Err.Error())
	}
	if s := strings.TrimRight(o.Stderr, "\n"); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n")
}

func (r *Reporter) println(lines ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range lines {
		fmt.Fprintln(r.out, l)
	}
}
