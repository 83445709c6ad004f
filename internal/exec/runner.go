// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Per-project command dispatch with one task handle per spawned process

package exec

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/sony-level/npm-batch/internal/registry"
)

// ProcessRunner runs one command line inside one directory
type ProcessRunner interface {
	Run(ctx context.Context, dir, line string) Outcome
}

// ShellRunner runs command lines through a shell
type ShellRunner struct {
	Shell string
	Env   []string
}

// Run executes line with "<shell> -c" in dir and captures both streams
func (s *ShellRunner) Run(ctx context.Context, dir, line string) (result Outcome) {
	startTime := time.Now()
	defer func() { result.Duration = time.Since(startTime) }()

	shell := s.Shell
	if shell == "" {
		shell = DefaultShell
	}

	cmd := exec.CommandContext(ctx, shell, "-c", line)
	cmd.Dir = dir
	if len(s.Env) > 0 {
		cmd.Env = append(os.Environ(), s.Env...)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		result.Kind = ExecutionError
		result.Err = fmt.Errorf("failed to create stdout pipe: %w", err)
		return result
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		result.Kind = ExecutionError
		result.Err = fmt.Errorf("failed to create stderr pipe: %w", err)
		return result
	}

	if err := cmd.Start(); err != nil {
		result.Kind = ExecutionError
		result.Err = fmt.Errorf("failed to start command: %w", err)
		return result
	}

	// Read output concurrently
	var stdoutBuf, stderrBuf strings.Builder
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		collectOutput(stdout, &stdoutBuf)
	}()

	go func() {
		defer wg.Done()
		collectOutput(stderr, &stderrBuf)
	}()

	wg.Wait()
	err = cmd.Wait()

	result.Stdout = stdoutBuf.String()
	result.Stderr = stderrBuf.String()

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			result.Err = fmt.Errorf("command exited with code %d", result.ExitCode)
		} else {
			result.Err = err
		}
	}
	result.Kind = classify(result.Err, result.Stderr)
	return result
}

// collectOutput reads a pipe line by line into buf
func collectOutput(pipe io.Reader, buf *strings.Builder) {
	scanner := bufio.NewScanner(pipe)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		buf.WriteString(scanner.Text())
		buf.WriteString("\n")
	}
	// drain whatever the scanner refused (over-long line) so the child never blocks
	_, _ = io.Copy(io.Discard, pipe)
}

// Task is the handle of one spawned process
type Task struct {
	Project registry.Project
	Dir     string

	done    chan struct{}
	outcome Outcome
}

// Done is closed once the process has finished
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Outcome blocks until the process has finished and returns its outcome
func (t *Task) Outcome() Outcome {
	<-t.done
	return t.outcome
}

// Invocation groups the tasks of one command across every project
type Invocation struct {
	Command   Command
	tasks     []*Task
	completed chan Completion
	wg        sync.WaitGroup
}

// Tasks returns the task handles in registry order
func (i *Invocation) Tasks() []*Task {
	return i.tasks
}

// Completed yields one Completion per task in arrival order and is closed
// after the last one
func (i *Invocation) Completed() <-chan Completion {
	return i.completed
}

// Wait blocks until every task has finished
func (i *Invocation) Wait() {
	i.wg.Wait()
}

// Dispatcher spawns a command in every project directory
type Dispatcher struct {
	config *DispatcherConfig
	runner ProcessRunner
	logger *slog.Logger
}

// NewDispatcher creates a dispatcher running commands through a shell
func NewDispatcher(config *DispatcherConfig, logger *slog.Logger) *Dispatcher {
	if config == nil {
		config = &DispatcherConfig{Mode: ModeExecute}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Dispatcher{
		config: config,
		runner: &ShellRunner{Shell: config.Shell, Env: config.Env},
		logger: logger,
	}
}

// SetRunner replaces the process runner
func (d *Dispatcher) SetRunner(r ProcessRunner) {
	d.runner = r
}

// Dispatch starts cmd in every project of reg and returns immediately.
// Projects never wait for one another.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command, reg *registry.Registry) *Invocation {
	projects := reg.Projects()
	inv := &Invocation{
		Command:   cmd,
		tasks:     make([]*Task, 0, len(projects)),
		completed: make(chan Completion, len(projects)),
	}

	for _, p := range projects {
		task := &Task{
			Project: p,
			Dir:     reg.Dir(p),
			done:    make(chan struct{}),
		}
		inv.tasks = append(inv.tasks, task)
	}

	inv.wg.Add(len(inv.tasks))
	for _, task := range inv.tasks {
		go d.spawn(ctx, inv, task)
	}

	go func() {
		inv.wg.Wait()
		close(inv.completed)
	}()

	return inv
}

func (d *Dispatcher) spawn(ctx context.Context, inv *Invocation, task *Task) {
	defer inv.wg.Done()

	log := d.logger.With("project", task.Project.Name, "command", inv.Command.Line)
	log.Debug("spawning", "dir", task.Dir)

	if d.config.Mode == ModeDryRun {
		task.outcome = Outcome{Kind: Success}
	} else {
		task.outcome = d.runner.Run(ctx, task.Dir, inv.Command.Line)
	}

	log.Debug("finished", "outcome", task.outcome.Kind, "duration", task.outcome.Duration.Round(time.Millisecond))

	close(task.done)
	inv.completed <- Completion{Project: task.Project, Dir: task.Dir, Outcome: task.outcome}
}
