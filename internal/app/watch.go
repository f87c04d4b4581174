package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/bbmc/internal/ctxlog"
	"github.com/vk/bbmc/internal/watch"
)

// Watch builds path, a file or a directory, and rebuilds it whenever a source
// under its directory or the include paths changes. Build failures are logged
// and watching continues. It returns when ctx is done.
func (a *App) Watch(ctx context.Context, path, outDir string) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	build := func(ctx context.Context) error {
		_, err := a.Build(ctx, path, outDir, "")
		return err
	}
	if info.IsDir() {
		dir = path
		build = func(ctx context.Context) error {
			_, err := a.BuildDir(ctx, path, outDir)
			return err
		}
	}

	rebuild := func(ctx context.Context, changed []string) {
		if err := build(ctx); err != nil {
			a.logger.Error("Build failed.", "error", err)
			return
		}
		a.logger.Info("Rebuilt.", "path", path, "changed", changed)
	}
	rebuild(ctx, nil)

	dirs := append([]string{dir}, a.project.IncludePaths...)
	w := watch.New(dirs, a.project.Extension, 0)
	if err := w.Run(ctx, rebuild); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	return nil
}
