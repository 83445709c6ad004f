// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Prerequisite types and tool definitions

package prereq

// Tool represents a prerequisite tool
type Tool struct {
	Name         string   // Tool name
	Command      string   // Command to check existence
	VersionCmd   string   // Command to get version
	Alternatives []string // Alternative command names
	InstallGuide string   // Installation instructions
}

// RequiredTools are the tools every batch operation shells out to
var RequiredTools = []string{"node", "npm"}

// DefaultTools returns the list of supported tools
func DefaultTools() map[string]*Tool {
	return map[string]*Tool{
		"node": {
			Name:         "node",
			Command:      "node",
			VersionCmd:   "node --version",
			Alternatives: []string{"nodejs"},
			InstallGuide: `Install Node.js:
  macOS:   brew install node
  Ubuntu:  sudo apt install nodejs npm
  Fedora:  sudo dnf install nodejs npm
  All:     https://nodejs.org/en/download/`,
		},
		"npm": {
			Name:       "npm",
			Command:    "npm",
			VersionCmd: "npm --version",
			InstallGuide: `npm is included with Node.js.
Install Node.js to get npm.`,
		},
	}
}

// CheckResult contains the result of checking a tool
type CheckResult struct {
	Name    string // Tool name
	Found   bool   // Whether tool was found
	Version string // Detected version (if found)
	Path    string // Path to tool (if found)
}

// CheckSummary contains results for all checks
type CheckSummary struct {
	Results      []CheckResult // Individual results
	AllFound     bool          // Whether all tools were found
	MissingTools []string      // List of missing tool names
}

// NewCheckSummary creates a new check summary
func NewCheckSummary() *CheckSummary {
	return &CheckSummary{
		Results:      []CheckResult{},
		AllFound:     true,
		MissingTools: []string{},
	}
}

// AddResult adds a check result to the summary
func (s *CheckSummary) AddResult(result CheckResult) {
	s.Results = append(s.Results, result)
	if !result.Found {
		s.AllFound = false
		s.MissingTools = append(s.MissingTools, result.Name)
	}
}
