// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Tests for report

package report

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sony-level/npm-batch/internal/exec"
	"github.com/sony-level/npm-batch/internal/registry"
)

func lines(buf *bytes.Buffer) []string {
	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
}

func TestProjectsListing(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Projects([]string{"web", "api", "lib"})
	assert.Equal(t, "All projects: web,api,lib\n", buf.String())
}

func TestProjectLines(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)

	r.Project(exec.Outcome{Kind: exec.Success, Stdout: "all good\n"}, "api", "services/api", "audit.txt", false)
	r.Project(exec.Outcome{Kind: exec.ExecutionError, Err: errors.New("command exited with code 1")}, "web", "services/web", "audit.txt", false)
	r.Project(exec.Outcome{Kind: exec.Success}, "lib", "packages/lib", "", false)

	got := lines(&buf)
	require.Len(t, got, 3)
	assert.Equal(t, GlyphSuccess+" on api and report can be found at services/api/audit.txt", got[0])
	assert.Equal(t, GlyphFailure+" on web and report can be found at services/web/audit.txt", got[1])
	assert.Equal(t, GlyphSuccess+" on lib", got[2])
}

func TestProjectLineKeepsColorAfterProjectName(t *testing.T) {
	var buf bytes.Buffer
	rd := lipgloss.NewRenderer(&buf)
	rd.SetColorProfile(termenv.ANSI)
	r := &Reporter{out: &buf, styles: newStyles(rd)}

	r.Project(exec.Outcome{Kind: exec.ExecutionError}, "web", "services/web", "audit.txt", false)
	r.Project(exec.Outcome{Kind: exec.Success}, "api", "services/api", "audit.txt", false)

	got := lines(&buf)
	require.Len(t, got, 2)
	assert.Contains(t, got[0], "\x1b[31m and report can be found at ")
	assert.Contains(t, got[1], "\x1b[32m and report can be found at ")
	assert.Contains(t, got[0], "\x1b[3mweb\x1b[0m")
}

func TestProjectEcho(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)

	r.Project(exec.Outcome{Kind: exec.Success, Stdout: "added 3 packages\n"}, "api", "services/api", "", true)
	r.Project(exec.Outcome{Kind: exec.Failure, Stderr: "npm WARN deprecated\n"}, "web", "services/web", "", true)
	r.Project(exec.Outcome{Kind: exec.ExecutionError, Err: errors.New("boom"), Stderr: "npm ERR! code E404\n"}, "lib", "packages/lib", "", true)

	assert.Equal(t, []string{
		GlyphSuccess + " on api",
		"added 3 packages",
		GlyphFailure + " on web",
		"npm WARN deprecated",
		GlyphFailure + " on lib",
		"boom",
		"npm ERR! code E404",
	}, lines(&buf))
}

func TestEchoAllOverridesCommand(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)
	r.EchoAll = true

	r.Project(exec.Outcome{Kind: exec.Success, Stdout: "found 0 vulnerabilities\n"}, "api", "services/api", "audit.txt", false)
	assert.Contains(t, buf.String(), "found 0 vulnerabilities")
}

func TestStatusResolvesOnceAfterLastProject(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)

	s := r.Begin("npm install", 3)
	s.Observe(true)
	s.Observe(false)
	assert.False(t, s.Resolved())
	s.Observe(true)
	assert.True(t, s.Resolved())
	assert.True(t, s.Failed())

	// late observations are ignored
	s.Observe(true)

	got := lines(&buf)
	require.Len(t, got, 2)
	assert.Equal(t, GlyphPending+" Running npm install", got[0])
	assert.Equal(t, GlyphFailure+" npm install has finished with issues", got[1])
}

func TestStatusAllSucceeded(t *testing.T) {
	var buf bytes.Buffer
	s := New(&buf).Begin("npm audit > audit.txt", 1)
	s.Observe(true)

	assert.False(t, s.Failed())
	assert.Contains(t, buf.String(), GlyphSuccess+" npm audit > audit.txt has finished without issues")
}

type fixedRunner map[string]exec.Outcome

func (f fixedRunner) Run(_ context.Context, dir, _ string) exec.Outcome {
	for suffix, o := range f {
		if strings.HasSuffix(dir, suffix) {
			return o
		}
	}
	return exec.Outcome{Kind: exec.Success}
}

func TestFollowReportsEveryProject(t *testing.T) {
	reg := registry.New("/base", []registry.Project{
		{Name: "api", Path: "services/api"},
		{Name: "web", Path: "services/web"},
		{Name: "lib", Path: "packages/lib"},
	})

	d := exec.NewDispatcher(nil, nil)
	d.SetRunner(fixedRunner{
		"services/web": {Kind: exec.ExecutionError, Err: errors.New("exit status 1")},
	})

	var buf bytes.Buffer
	r := New(&buf)

	inv := d.Dispatch(context.Background(), exec.Command{Line: "npm outdated > outdated.txt", ReportFile: "outdated.txt"}, reg)
	status, done := r.Follow(inv)
	<-done

	out := buf.String()
	assert.Contains(t, out, GlyphFailure+" on web and report can be found at services/web/outdated.txt")
	assert.Contains(t, out, GlyphSuccess+" on api and report can be found at services/api/outdated.txt")
	assert.Contains(t, out, GlyphSuccess+" on lib and report can be found at packages/lib/outdated.txt")
	assert.True(t, status.Resolved())
	assert.True(t, status.Failed())
	assert.True(t, strings.HasSuffix(out, "npm outdated > outdated.txt has finished with issues\n"))
}

func TestFailureLine(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Failure(errors.New("stdin closed"))
	assert.Equal(t, GlyphFailure+" Something went wrong: stdin closed\n", buf.String())
}
