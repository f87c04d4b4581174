package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/vk/bbmc/internal/ctxlog"
)

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("12")).
	BorderStyle(lipgloss.NormalBorder()).
	BorderBottom(true).
	BorderForeground(lipgloss.Color("8"))

// Compile compiles the source file at path. Every call is logged under its
// own compile_id.
func (a *App) Compile(ctx context.Context, path string) (string, error) {
	ctx = ctxlog.With(ctxlog.WithLogger(ctx, a.logger), "compile_id", uuid.NewString(), "file", path)
	logger := ctxlog.FromContext(ctx)

	start := time.Now()
	out, err := a.compiler.CompileFile(ctx, path)
	if err != nil {
		logger.Debug("Compile failed.", "error", err)
		return "", fmt.Errorf("compile %s: %w", path, err)
	}
	logger.Debug("Compiled.", "duration", time.Since(start), "bytes", len(out))
	return out, nil
}

// Print compiles path and writes the program to w. With styled set a header
// naming the source precedes it.
func (a *App) Print(ctx context.Context, path string, w io.Writer, styled bool) error {
	out, err := a.Compile(ctx, path)
	if err != nil {
		return err
	}
	if styled {
		if _, err := fmt.Fprintln(w, headerStyle.Render("# compiled from "+path)); err != nil {
			return err
		}
	}
	_, err = io.WriteString(w, out)
	return err
}
