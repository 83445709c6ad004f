// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Project registry types and errors

package registry

import (
	"fmt"
	"path/filepath"
)

// ProjectsField is the configuration key holding the name → path mapping
const ProjectsField = "projects"

// Project is one configured sub-directory
type Project struct {
	Name string
	Path string // relative to the registry base directory
}

// Registry is the ordered, read-only set of configured projects
type Registry struct {
	BaseDir  string
	projects []Project
}

// New builds a registry from already validated projects
func New(baseDir string, projects []Project) *Registry {
	cp := make([]Project, len(projects))
	copy(cp, projects)
	return &Registry{BaseDir: baseDir, projects: cp}
}

// Projects returns a copy of the projects in load order
func (r *Registry) Projects() []Project {
	cp := make([]Project, len(r.projects))
	copy(cp, r.projects)
	return cp
}

// Names returns the project names in load order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.projects))
	for _, p := range r.projects {
		names = append(names, p.Name)
	}
	return names
}

// Len returns the number of projects
func (r *Registry) Len() int {
	return len(r.projects)
}

// Dir resolves a project's directory against the base directory
func (r *Registry) Dir(p Project) string {
	if filepath.IsAbs(p.Path) {
		return p.Path
	}
	return filepath.Join(r.BaseDir, p.Path)
}

// ConfigError reports a missing or malformed configuration source
type ConfigError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("config %s: %s", e.Path, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
