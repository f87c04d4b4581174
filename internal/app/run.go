package app

import (
	"context"
	"io"

	"github.com/vk/bbmc/internal/ctxlog"
	"github.com/vk/bbmc/internal/runner"
)

// RunOptions configures App.Run.
type RunOptions struct {
	InstallDeps bool
	Stdin       io.Reader
	Stdout      io.Writer
	Stderr      io.Writer
}

// Run compiles path and executes the program with the project interpreter.
func (a *App) Run(ctx context.Context, path string, opts RunOptions) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	program, err := a.Compile(ctx, path)
	if err != nil {
		return err
	}

	r := &runner.Runner{
		Interpreter: a.project.Run.Interpreter,
		Args:        a.project.Run.Args,
		Env:         a.project.Run.Env,
		Stdin:       opts.Stdin,
		Stdout:      opts.Stdout,
		Stderr:      opts.Stderr,
	}
	if opts.InstallDeps {
		if err := r.InstallDeps(ctx, a.requirements()); err != nil {
			return err
		}
	}
	a.logger.Info("Running program.", "file", path, "interpreter", r.Interpreter)
	return r.Run(ctx, program)
}

// requirements lists the packages to install before running. The built-in
// template needs requests.
func (a *App) requirements() []string {
	if len(a.project.Run.Requirements) == 0 && a.project.Template == "" {
		return []string{"requests"}
	}
	return a.project.Run.Requirements
}
