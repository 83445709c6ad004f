// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Tests for exec

package exec

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sony-level/npm-batch/internal/registry"
)

// newTestRegistry creates one directory per name under a temp base
func newTestRegistry(t *testing.T, names ...string) *registry.Registry {
	t.Helper()
	base := t.TempDir()
	var projects []registry.Project
	for _, name := range names {
		rel := filepath.Join("projects", name)
		require.NoError(t, os.MkdirAll(filepath.Join(base, rel), 0755))
		projects = append(projects, registry.Project{Name: name, Path: rel})
	}
	return registry.New(base, projects)
}

func collect(inv *Invocation) map[string]Completion {
	got := make(map[string]Completion)
	for c := range inv.Completed() {
		got[c.Project.Name] = c
	}
	return got
}

func TestShellRunnerClassifiesOutcomes(t *testing.T) {
	dir := t.TempDir()
	r := &ShellRunner{}

	ok := r.Run(context.Background(), dir, "echo hello")
	assert.Equal(t, Success, ok.Kind)
	assert.Equal(t, "hello\n", ok.Stdout)
	assert.NoError(t, ok.Err)
	assert.False(t, ok.Failed())

	warned := r.Run(context.Background(), dir, "echo careful >&2")
	assert.Equal(t, Failure, warned.Kind)
	assert.Equal(t, "careful\n", warned.Stderr)
	assert.NoError(t, warned.Err)
	assert.True(t, warned.Failed())

	exited := r.Run(context.Background(), dir, "echo partial; exit 3")
	assert.Equal(t, ExecutionError, exited.Kind)
	assert.Equal(t, 3, exited.ExitCode)
	assert.Equal(t, "partial\n", exited.Stdout)
	require.Error(t, exited.Err)
	assert.Contains(t, exited.Err.Error(), "code 3")

	missingDir := r.Run(context.Background(), filepath.Join(dir, "missing"), "true")
	assert.Equal(t, ExecutionError, missingDir.Kind)
	assert.Error(t, missingDir.Err)
}

func TestShellRunnerEnv(t *testing.T) {
	r := &ShellRunner{Env: []string{"NB_TEST_VALUE=42"}}
	out := r.Run(context.Background(), t.TempDir(), "printf %s \"$NB_TEST_VALUE\"")
	assert.Equal(t, "42\n", out.Stdout)
}

func TestDispatchRunsInEveryProjectDirectory(t *testing.T) {
	reg := newTestRegistry(t, "api", "web")
	d := NewDispatcher(nil, nil)

	inv := d.Dispatch(context.Background(), Command{Line: "echo report > audit.txt", ReportFile: "audit.txt"}, reg)
	got := collect(inv)

	require.Len(t, got, 2)
	for _, p := range reg.Projects() {
		c := got[p.Name]
		assert.Equal(t, Success, c.Outcome.Kind, "project %s", p.Name)
		assert.Equal(t, reg.Dir(p), c.Dir)

		data, err := os.ReadFile(filepath.Join(reg.Dir(p), "audit.txt"))
		require.NoError(t, err)
		assert.Equal(t, "report\n", string(data))
	}
}

func TestDispatchIsolatesFailures(t *testing.T) {
	reg := newTestRegistry(t, "good", "bad")
	d := NewDispatcher(nil, nil)

	// only the "bad" directory contains a marker file making the command fail
	require.NoError(t, os.WriteFile(filepath.Join(reg.Dir(reg.Projects()[1]), "fail"), nil, 0644))

	inv := d.Dispatch(context.Background(), Command{Line: "if [ -f fail ]; then exit 1; fi; echo fine"}, reg)
	inv.Wait()

	tasks := inv.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "good", tasks[0].Project.Name)
	assert.Equal(t, Success, tasks[0].Outcome().Kind)
	assert.Equal(t, ExecutionError, tasks[1].Outcome().Kind)
}

func TestDispatchDoesNotBlock(t *testing.T) {
	reg := newTestRegistry(t, "a", "b", "c")
	d := NewDispatcher(nil, nil)

	start := time.Now()
	inv := d.Dispatch(context.Background(), Command{Line: "sleep 1"}, reg)
	assert.Less(t, time.Since(start), 500*time.Millisecond)

	for _, task := range inv.Tasks() {
		select {
		case <-task.Done():
			t.Fatalf("task %s finished before its command could", task.Project.Name)
		default:
		}
	}

	inv.Wait()
	// sequential execution would take at least 3s
	assert.Less(t, time.Since(start), 2500*time.Millisecond)
}

func TestDispatchDryRunSpawnsNothing(t *testing.T) {
	reg := newTestRegistry(t, "api")
	d := NewDispatcher(&DispatcherConfig{Mode: ModeDryRun}, nil)

	inv := d.Dispatch(context.Background(), Command{Line: "touch created"}, reg)
	got := collect(inv)

	assert.Equal(t, Success, got["api"].Outcome.Kind)
	_, err := os.Stat(filepath.Join(reg.Dir(reg.Projects()[0]), "created"))
	assert.True(t, os.IsNotExist(err))
}

type recordingRunner struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingRunner) Run(_ context.Context, dir, line string) Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, filepath.Base(dir)+":"+line)
	return Outcome{Kind: Success}
}

func TestDispatchUsesInjectedRunner(t *testing.T) {
	reg := newTestRegistry(t, "api", "web")
	rec := &recordingRunner{}
	d := NewDispatcher(nil, nil)
	d.SetRunner(rec)

	d.Dispatch(context.Background(), Command{Line: "npm install"}, reg).Wait()

	sort.Strings(rec.calls)
	assert.Equal(t, []string{"api:npm install", "web:npm install"}, rec.calls)
}

func TestOutcomeKindString(t *testing.T) {
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "failure", Failure.String())
	assert.Equal(t, "execution-error", ExecutionError.String())
}
