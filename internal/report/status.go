// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Per-invocation progress aggregation

package report

import (
	"sync"

	"github.com/sony-level/npm-batch/internal/exec"
)

// Status tracks one command invocation across all projects. It prints a
// pending line when created and resolves exactly once, after the last
// project reports, to a success or failure line.
type Status struct {
	r     *Reporter
	label string

	mu       sync.Mutex
	total    int
	done     int
	failed   int
	resolved bool
}

// Begin starts a status for label covering total projects
func (r *Reporter) Begin(label string, total int) *Status {
	s := &Status{r: r, label: label, total: total}
	r.println(r.styles.Muted.Render(GlyphPending+" Running ") + r.styles.Command.Render(label))
	if total == 0 {
		s.resolve()
	}
	return s
}

// Observe records one finished project
func (s *Status) Observe(ok bool) {
	s.mu.Lock()
	if s.resolved {
		s.mu.Unlock()
		return
	}
	s.done++
	if !ok {
		s.failed++
	}
	last := s.done >= s.total
	s.mu.Unlock()

	if last {
		s.resolve()
	}
}

// Failed reports whether any observed project failed
func (s *Status) Failed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failed > 0
}

// Resolved reports whether the final line has been printed
func (s *Status) Resolved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolved
}

func (s *Status) resolve() {
	s.mu.Lock()
	if s.resolved {
		s.mu.Unlock()
		return
	}
	s.resolved = true
	failed := s.failed > 0
	s.mu.Unlock()

	st := s.r.styles
	if failed {
		s.r.println(st.Failure.Render(GlyphFailure+" ") + st.Command.Render(s.label) + st.Failure.Render(" has finished with issues"))
		return
	}
	s.r.println(st.Success.Render(GlyphSuccess+" ") + st.Command.Render(s.label) + st.Success.Render(" has finished without issues"))
}

// Follow consumes inv's completions, printing one line per project and
// resolving a Status for the whole invocation. The returned channel is
// closed once every completion has been reported.
func (r *Reporter) Follow(inv *exec.Invocation) (*Status, <-chan struct{}) {
	status := r.Begin(inv.Command.Line, len(inv.Tasks()))
	done := make(chan struct{})

	go func() {
		defer close(done)
		for c := range inv.Completed() {
			r.Project(c.Outcome, c.Project.Name, c.Project.Path, inv.Command.ReportFile, inv.Command.Echo)
			status.Observe(!c.Outcome.Failed())
		}
	}()

	return status, done
}
