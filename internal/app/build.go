package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/vk/bbmc/internal/compiler"
	"github.com/vk/bbmc/internal/ctxlog"
	"github.com/vk/bbmc/internal/fsutil"
	"golang.org/x/sync/errgroup"
)

// Build compiles path and writes <name>.py into outDir. An empty outDir
// selects the project output directory, or the source's own directory; an
// empty name is the source's base name. It returns the written path.
func (a *App) Build(ctx context.Context, path, outDir, name string) (string, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	out, err := a.Compile(ctx, path)
	if err != nil {
		return "", err
	}

	if outDir == "" {
		outDir = a.project.Output.Dir
	}
	if outDir == "" {
		outDir = filepath.Dir(path)
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	dest := filepath.Join(outDir, name+".py")

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(dest, []byte(out), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", dest, err)
	}
	ctxlog.FromContext(ctx).Debug("Program written.", "source", path, "output", dest)
	return dest, nil
}

// BuildDir builds every runnable source under dir concurrently, mirroring the
// directory layout under outDir. Sources starting with #exclude are libraries
// and are skipped. It returns the written paths in lexical order.
func (a *App) BuildDir(ctx context.Context, dir, outDir string) ([]string, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	logger := ctxlog.FromContext(ctx)

	if outDir == "" {
		outDir = a.project.Output.Dir
	}
	if outDir == "" {
		outDir = dir
	}

	files, err := fsutil.FindFilesByExtension(dir, a.project.Extension)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources in %s: %w", dir, err)
	}
	logger.Debug("Discovered sources.", "dir", dir, "count", len(files))

	var (
		mu      sync.Mutex
		written []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.project.Output.Workers)
	for _, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			src, err := a.reader.ReadSource(file)
			if err != nil {
				return err
			}
			library, err := compiler.Importable(src)
			if err != nil {
				return fmt.Errorf("compile %s: %w", file, err)
			}
			if library {
				logger.Debug("Skipping library.", "file", file)
				return nil
			}

			rel, err := filepath.Rel(dir, file)
			if err != nil {
				return err
			}
			dest, err := a.Build(gctx, file, filepath.Join(outDir, filepath.Dir(rel)), "")
			if err != nil {
				return err
			}
			mu.Lock()
			written = append(written, dest)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Strings(written)
	logger.Info("Build finished.", "dir", dir, "programs", len(written), "skipped", len(files)-len(written))
	return written, nil
}
