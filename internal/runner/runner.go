// Package runner executes compiled programs with an external interpreter.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"time"

	"github.com/vk/bbmc/internal/ctxlog"
)

// Grace period between the interrupt sent on cancellation and a kill.
const stopGrace = 5 * time.Second

// Runner runs programs with Interpreter. Zero-valued streams are discarded.
type Runner struct {
	Interpreter string
	Args        []string
	Env         map[string]string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// InstallDeps installs requirements with the interpreter's pip module. It
// does nothing when requirements is empty.
func (r *Runner) InstallDeps(ctx context.Context, requirements []string) error {
	if len(requirements) == 0 {
		return nil
	}
	args := append([]string{"-m", "pip", "install", "--quiet"}, requirements...)
	ctxlog.FromContext(ctx).Info("Installing requirements.", "requirements", requirements)
	if err := r.command(ctx, args...).Run(); err != nil {
		return fmt.Errorf("failed to install requirements: %w", err)
	}
	return nil
}

// Run writes program to a temporary file and executes it. Cancelling ctx
// interrupts the program. A non-zero exit is returned as *exec.ExitError.
func (r *Runner) Run(ctx context.Context, program string) error {
	logger := ctxlog.FromContext(ctx)

	f, err := os.CreateTemp("", "bbmc-*.py")
	if err != nil {
		return fmt.Errorf("failed to create program file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := io.WriteString(f, program); err != nil {
		f.Close()
		return fmt.Errorf("failed to write program file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write program file: %w", err)
	}

	args := append(append([]string(nil), r.Args...), path)
	logger.Debug("Starting program.", "interpreter", r.Interpreter, "file", path)
	err = r.command(ctx, args...).Run()
	logger.Debug("Program exited.", "error", err)
	return err
}

func (r *Runner) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, r.Interpreter, args...)
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	cmd.Cancel = func() error { return cmd.Process.Signal(os.Interrupt) }
	cmd.WaitDelay = stopGrace

	if len(r.Env) > 0 {
		keys := make([]string, 0, len(r.Env))
		for k := range r.Env {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		cmd.Env = os.Environ()
		for _, k := range keys {
			cmd.Env = append(cmd.Env, k+"="+r.Env[k])
		}
	}
	return cmd
}
