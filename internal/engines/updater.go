// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Engine block updates across every project

package engines

import (
	"io"
	"log/slog"
	"path/filepath"

	"github.com/sony-level/npm-batch/internal/registry"
	"github.com/sony-level/npm-batch/internal/report"
)

// Summary counts the projects touched by one update
type Summary struct {
	Updated int
	Failed  int
	Errors  map[string]error // keyed by project name
}

// Updater rewrites the engine block of every project manifest
type Updater struct {
	reporter *report.Reporter
	logger   *slog.Logger
	DryRun   bool
}

// NewUpdater creates an updater reporting through r
func NewUpdater(r *report.Reporter, logger *slog.Logger) *Updater {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Updater{reporter: r, logger: logger}
}

// Update applies raw ("<node>,<npm>") to each project in turn. A failing
// project is reported and skipped; it never stops the others.
func (u *Updater) Update(raw string, reg *registry.Registry) Summary {
	versions := ParseVersions(raw)
	summary := Summary{Errors: make(map[string]error)}

	status := u.reporter.Begin("Updating node engines", reg.Len())
	for _, p := range reg.Projects() {
		path := filepath.Join(reg.Dir(p), ManifestFile)
		log := u.logger.With("project", p.Name, "manifest", path)

		var err error
		if !u.DryRun {
			err = UpdateManifest(path, versions)
		}

		if err != nil {
			log.Debug("engine update failed", "error", err)
			summary.Failed++
			summary.Errors[p.Name] = err
			u.reporter.Line(false, "Error during updating node engines "+err.Error()+" !")
			status.Observe(false)
			continue
		}

		log.Debug("engine block rewritten", "node", versions.Node, "npm", versions.NPM)
		summary.Updated++
		u.reporter.Line(true, "Updating node engines at "+path+" has been finished!")
		status.Observe(true)
	}

	return summary
}
