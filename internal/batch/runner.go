// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Orchestration: list projects, ask, run the selected operations

package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/sony-level/npm-batch/internal/engines"
	"github.com/sony-level/npm-batch/internal/exec"
	"github.com/sony-level/npm-batch/internal/prereq"
	"github.com/sony-level/npm-batch/internal/prompt"
	"github.com/sony-level/npm-batch/internal/registry"
	"github.com/sony-level/npm-batch/internal/report"
)

// Asker collects the operator's answers
type Asker interface {
	Ask(questions []prompt.Question) (prompt.Answers, error)
}

// Dispatcher starts a command in every project
type Dispatcher interface {
	Dispatch(ctx context.Context, cmd exec.Command, reg *registry.Registry) *exec.Invocation
}

// EngineUpdater rewrites the engine block of every project manifest
type EngineUpdater interface {
	Update(raw string, reg *registry.Registry) engines.Summary
}

// PrereqChecker verifies the package manager is installed
type PrereqChecker interface {
	CheckRequired() *prereq.CheckSummary
	FormatMissing(summary *prereq.CheckSummary) string
}

// Config wires a Runner
type Config struct {
	Registry   *registry.Registry
	Asker      Asker
	Questions  []prompt.Question // defaults to prompt.DefaultQuestions
	Dispatcher Dispatcher
	Engines    EngineUpdater
	Reporter   *report.Reporter
	Prereq     PrereqChecker // optional
	Logger     *slog.Logger
}

// Runner sequences one interactive batch run
type Runner struct {
	config *Config
	logger *slog.Logger
}

// NewRunner creates a runner
func NewRunner(config *Config) *Runner {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if config.Questions == nil {
		config.Questions = prompt.DefaultQuestions
	}
	return &Runner{config: config, logger: logger}
}

// Run lists the projects, asks every question, then starts each selected
// operation. Dispatched operations run concurrently with each other; the
// engine update waits for operations already in flight, since npm may be
// rewriting the same manifests. Run returns once everything has finished.
// Only prompting errors are returned; per-project failures are reported.
func (r *Runner) Run(ctx context.Context) error {
	cfg := r.config
	cfg.Reporter.Projects(cfg.Registry.Names())

	if cfg.Prereq != nil {
		summary := cfg.Prereq.CheckRequired()
		for _, res := range summary.Results {
			if res.Found {
				r.logger.Debug("prerequisite found", "tool", res.Name, "path", res.Path, "version", res.Version)
			}
		}
		if !summary.AllFound {
			cfg.Reporter.Warn(strings.TrimSpace(cfg.Prereq.FormatMissing(summary)))
		}
	}

	answers, err := cfg.Asker.Ask(cfg.Questions)
	if err != nil {
		return fmt.Errorf("failed to collect answers: %w", err)
	}
	if answers.Truncated {
		r.logger.Warn("input ended before every question was answered; remaining operations skipped")
	}

	var inflight []<-chan struct{}
	for _, key := range answers.Keys {
		answer := answers.Get(key)
		if !prompt.Proceed(answer) {
			r.logger.Debug("skipping", "question", key)
			continue
		}

		op, ok := OperationFor(key)
		if !ok {
			r.logger.Warn("no operation for question", "question", key)
			continue
		}

		r.logger.Info("starting operation", "operation", op)
		if op == UpdateEngines {
			waitAll(inflight)
			inflight = nil
			summary := cfg.Engines.Update(answer, cfg.Registry)
			r.logger.Debug("engine update finished", "updated", summary.Updated, "failed", summary.Failed)
			continue
		}

		cmd, _ := CommandFor(op)
		inv := cfg.Dispatcher.Dispatch(ctx, cmd, cfg.Registry)
		_, done := cfg.Reporter.Follow(inv)
		inflight = append(inflight, done)
	}

	waitAll(inflight)
	return nil
}

func waitAll(chans []<-chan struct{}) {
	for _, c := range chans {
		<-c
	}
}
