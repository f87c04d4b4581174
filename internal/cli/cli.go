package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"

	"github.com/vk/bbmc/internal/config"
	"golang.org/x/term"
)

// Version is the bbmc release, set at link time.
var Version = "dev"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) *ExitError {
	return &ExitError{Code: 2, Message: err.Error()}
}

// Streams are the standard streams commands read from and write to. Logs go
// to Err.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Execute runs the command selected by args. Every failure is returned as an
// *ExitError: code 2 for usage errors, the program's own code when a run
// exits non-zero, and 1 for anything else.
func Execute(ctx context.Context, args []string, streams Streams, loaders map[string]config.Loader) error {
	slog.Debug("CLI parser started.", "args", args)
	root := newRootCommand(&runtime{streams: streams, loaders: loaders})
	root.SetArgs(args)
	root.SetIn(streams.In)
	root.SetOut(streams.Out)
	root.SetErr(streams.Err)
	return exitError(root.ExecuteContext(ctx))
}

func exitError(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	var procErr *exec.ExitError
	if errors.As(err, &procErr) && procErr.ExitCode() > 0 {
		return &ExitError{Code: procErr.ExitCode(), Message: "program " + procErr.Error()}
	}
	return &ExitError{Code: 1, Message: err.Error()}
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
