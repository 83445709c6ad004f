// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Batch operations and the question → operation table

package batch

import (
	"github.com/sony-level/npm-batch/internal/exec"
	"github.com/sony-level/npm-batch/internal/prompt"
)

// Operation is one batch maintenance operation
type Operation int

const (
	Audit Operation = iota
	Outdated
	Update
	UpdateEngines
	Install
)

func (o Operation) String() string {
	switch o {
	case Audit:
		return "audit"
	case Outdated:
		return "outdated"
	case Update:
		return "update"
	case UpdateEngines:
		return "update-engines"
	case Install:
		return "install"
	default:
		return "unknown"
	}
}

// Report files written by the package manager inside each project
const (
	AuditReport    = "audit.txt"
	OutdatedReport = "outdated.txt"
)

// operations maps each question to the operation it controls
var operations = map[prompt.Key]Operation{
	prompt.KeyAudit:         Audit,
	prompt.KeyOutdated:      Outdated,
	prompt.KeyUpdate:        Update,
	prompt.KeyUpdateEngines: UpdateEngines,
	prompt.KeyInstall:       Install,
}

// commands holds the shell command of every dispatched operation.
// UpdateEngines edits manifests directly and has no entry.
var commands = map[Operation]exec.Command{
	Audit:    {Line: "npm audit > " + AuditReport, ReportFile: AuditReport},
	Outdated: {Line: "npm outdated > " + OutdatedReport, ReportFile: OutdatedReport},
	Update:   {Line: "npm update --save", Echo: true},
	Install:  {Line: "npm install", Echo: true},
}

// OperationFor returns the operation controlled by a question key
func OperationFor(key prompt.Key) (Operation, bool) {
	op, ok := operations[key]
	return op, ok
}

// CommandFor returns the shell command of a dispatched operation
func CommandFor(op Operation) (exec.Command, bool) {
	cmd, ok := commands[op]
	return cmd, ok
}
