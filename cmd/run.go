/*
Copyright © 2026 ソニーレベル <C7kali3@gmail.com>

*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sony-level/npm-batch/internal/batch"
	"github.com/sony-level/npm-batch/internal/engines"
	"github.com/sony-level/npm-batch/internal/exec"
	"github.com/sony-level/npm-batch/internal/prereq"
	"github.com/sony-level/npm-batch/internal/prompt"
	"github.com/sony-level/npm-batch/internal/registry"
	"github.com/sony-level/npm-batch/internal/report"
	"github.com/spf13/cobra"
)

func executeRun(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	logger := newLogger(verbose, cmd.ErrOrStderr())

	base := baseDir
	if base == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		base = cwd
	}

	path := registry.ConfigPath(configPath)
	reg, err := registry.Load(path, base)
	if err != nil {
		return err
	}
	logger.Debug("registry loaded", "config", path, "projects", reg.Len(), "base", base)

	mode := exec.ModeExecute
	if dryRun {
		mode = exec.ModeDryRun
		fmt.Fprintln(out, "[DRY-RUN MODE] No commands will be executed.")
	}

	reporter := report.New(out)
	reporter.EchoAll = verbose

	dispatcher := exec.NewDispatcher(&exec.DispatcherConfig{Mode: mode}, logger)

	updater := engines.NewUpdater(reporter, logger)
	updater.DryRun = dryRun

	runner := batch.NewRunner(&batch.Config{
		Registry:   reg,
		Asker:      prompt.New(cmd.InOrStdin(), out),
		Dispatcher: dispatcher,
		Engines:    updater,
		Reporter:   reporter,
		Prereq:     prereq.NewChecker(),
		Logger:     logger,
	})

	return runner.Run(context.Background())
}

// reportFailure prints the single top-level failure line
func reportFailure(w io.Writer, err error) {
	report.New(w).Failure(err)
}
