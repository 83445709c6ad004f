// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Dispatch types: commands, outcomes and per-project tasks

package exec

import (
	"time"

	"github.com/sony-level/npm-batch/internal/registry"
)

// DefaultShell runs every command line
const DefaultShell = "sh"

// ExecutionMode determines how the dispatcher behaves
type ExecutionMode int

const (
	// ModeExecute actually runs the commands
	ModeExecute ExecutionMode = iota
	// ModeDryRun completes every task successfully without spawning
	ModeDryRun
)

// Command is a shell line dispatched to every project
type Command struct {
	Line       string // e.g. "npm audit > audit.txt"
	ReportFile string // file the command writes inside each project, if any
	Echo       bool   // echo raw stdout/stderr after the status line
}

// OutcomeKind tags an Outcome
type OutcomeKind int

const (
	// Success means the process exited cleanly with an empty error stream
	Success OutcomeKind = iota
	// Failure means the process exited cleanly but wrote to its error stream
	Failure
	// ExecutionError means the process could not start or exited non-zero
	ExecutionError
)

func (k OutcomeKind) String() string {
	switch k {
	case Success:
		return "success"
	case Failure:
		return "failure"
	case ExecutionError:
		return "execution-error"
	default:
		return "unknown"
	}
}

// Outcome is the result of one (project, command) pair
type Outcome struct {
	Kind     OutcomeKind
	Stdout   string
	Stderr   string
	Err      error
	ExitCode int
	Duration time.Duration
}

// Failed reports whether the outcome is rendered as a failure
func (o Outcome) Failed() bool {
	return o.Kind != Success
}

// Completion pairs a finished task with its project
type Completion struct {
	Project registry.Project
	Dir     string
	Outcome Outcome
}

// DispatcherConfig configures the dispatcher
type DispatcherConfig struct {
	Mode  ExecutionMode
	Shell string   // defaults to DefaultShell
	Env   []string // extra environment, appended to os.Environ()
}

// classify maps a finished process to an Outcome kind. A non-empty error
// stream counts as a failure even when the process exits cleanly.
func classify(err error, stderr string) OutcomeKind {
	switch {
	case err != nil:
		return ExecutionError
	case stderr != "":
		return Failure
	default:
		return Success
	}
}
