// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Prerequisite checker for tool existence and versions

package prereq

import (
	"os/exec"
	"strings"
)

// Checker verifies tool existence
type Checker struct {
	tools    map[string]*Tool
	lookPath func(file string) (string, error)
}

// NewChecker creates a new prerequisite checker
func NewChecker() *Checker {
	return &Checker{
		tools:    DefaultTools(),
		lookPath: exec.LookPath,
	}
}

// NewCheckerWithLookPath creates a checker resolving commands with fn
func NewCheckerWithLookPath(fn func(file string) (string, error)) *Checker {
	return &Checker{
		tools:    DefaultTools(),
		lookPath: fn,
	}
}

// CheckRequired verifies every tool in RequiredTools
func (c *Checker) CheckRequired() *CheckSummary {
	summary := NewCheckSummary()
	for _, name := range RequiredTools {
		summary.AddResult(c.CheckTool(name))
	}
	return summary
}

// CheckTool checks if a specific tool exists
func (c *Checker) CheckTool(name string) CheckResult {
	result := CheckResult{Name: name}

	tool, ok := c.tools[strings.ToLower(name)]
	if !ok {
		// Unknown tool - try direct command check
		result.Path, result.Found = c.whichCommand(name)
		return result
	}

	if path, found := c.whichCommand(tool.Command); found {
		result.Found = true
		result.Path = path
		result.Version = c.getVersion(path, tool.VersionCmd)
		return result
	}

	for _, alt := range tool.Alternatives {
		if path, found := c.whichCommand(alt); found {
			result.Found = true
			result.Path = path
			return result
		}
	}

	return result
}

// GetInstallGuide returns installation instructions for a tool
func (c *Checker) GetInstallGuide(name string) string {
	tool, ok := c.tools[strings.ToLower(name)]
	if !ok {
		return "No installation guide available for " + name
	}
	return tool.InstallGuide
}

// whichCommand returns the full path to a command
func (c *Checker) whichCommand(cmd string) (string, bool) {
	path, err := c.lookPath(cmd)
	if err != nil {
		return "", false
	}
	return path, true
}

// getVersion runs the version command against the resolved binary and
// returns the first line of its output
func (c *Checker) getVersion(path, versionCmd string) string {
	parts := strings.Fields(versionCmd)
	if len(parts) == 0 {
		return ""
	}

	out, err := exec.Command(path, parts[1:]...).Output()
	if err != nil {
		return ""
	}

	output := strings.TrimSpace(string(out))
	if idx := strings.Index(output, "\n"); idx > 0 {
		output = output[:idx]
	}
	return output
}

// FormatMissing returns a formatted string of missing tools with install guides
func (c *Checker) FormatMissing(summary *CheckSummary) string {
	if summary.AllFound {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Missing prerequisites:\n\n")

	for _, name := range summary.MissingTools {
		sb.WriteString("─────────────────────────────────\n")
		sb.WriteString(name + "\n")
		sb.WriteString("─────────────────────────────────\n")
		sb.WriteString(c.GetInstallGuide(name))
		sb.WriteString("\n\n")
	}

	return sb.String()
}
