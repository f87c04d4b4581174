package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vk/bbmc/internal/compiler"
	"github.com/vk/bbmc/internal/config"
	"github.com/vk/bbmc/internal/ctxlog"
	"github.com/vk/bbmc/internal/source"
	"github.com/vk/bbmc/internal/template"
)

// ProjectFiles are the names searched for in the working directory when no
// project file is given.
var ProjectFiles = []string{"bbmc.hcl", "bbmc.yaml", "bbmc.yml"}

// App holds a configured compiler and the project it was built from.
type App struct {
	logger   *slog.Logger
	project  *config.Project
	template string
	reader   *source.Reader
	compiler *compiler.Compiler
}

// NewApp loads the project, applies cfg on top of it and builds the compiler.
// loaders maps project file extensions to the loader for that format. Logs
// are written to logW.
func NewApp(logW io.Writer, cfg *Config, loaders map[string]config.Loader) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	project, err := loadProject(ctx, cfg, loaders)
	if err != nil {
		return nil, err
	}
	if cfg.Template != "" {
		project.Template = cfg.Template
	}
	if cfg.Encoding != "" {
		project.Encoding = cfg.Encoding
	}
	if cfg.Workers > 0 {
		project.Output.Workers = cfg.Workers
	}
	project.IncludePaths = append(project.IncludePaths, cfg.IncludePaths...)

	tmpl, err := template.Load(project.Template)
	if err != nil {
		return nil, err
	}
	reader, err := source.NewReader(project.Encoding)
	if err != nil {
		return nil, err
	}
	defines, err := compilerDefines(project.Defines)
	if err != nil {
		return nil, err
	}

	comp := compiler.New(tmpl,
		compiler.WithReader(reader),
		compiler.WithIncludePaths(project.IncludePaths...),
		compiler.WithExtension(project.Extension),
		compiler.WithDefines(defines...),
	)
	logger.Debug("Compiler configured.",
		"template", templateName(project.Template),
		"include_paths", project.IncludePaths,
		"defines", len(defines),
	)

	return &App{
		logger:   logger,
		project:  project,
		template: tmpl,
		reader:   reader,
		compiler: comp,
	}, nil
}

// Project returns the effective project settings.
func (a *App) Project() *config.Project { return a.project }

// Template returns the template text sources are woven into.
func (a *App) Template() string { return a.template }

// loadProject reads the explicit project file, or the first of ProjectFiles
// present in the working directory. No file at all yields the defaults.
func loadProject(ctx context.Context, cfg *Config, loaders map[string]config.Loader) (*config.Project, error) {
	logger := ctxlog.FromContext(ctx)

	path := cfg.ProjectPath
	if path == "" {
		for _, name := range ProjectFiles {
			candidate := filepath.Join(cfg.WorkDir, name)
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			} else if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("error accessing %s: %w", candidate, err)
			}
		}
	}
	if path == "" {
		logger.Debug("No project file found, using defaults.", "dir", cfg.WorkDir)
		return config.NewProject(), nil
	}

	loader, ok := loaders[filepath.Ext(path)]
	if !ok {
		return nil, fmt.Errorf("no loader for project file %s", path)
	}
	project, err := loader.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	logger.Debug("Project loaded.", "path", path)
	return project, nil
}

func compilerDefines(defs []*config.Define) ([]compiler.Define, error) {
	out := make([]compiler.Define, 0, len(defs))
	for _, d := range defs {
		lit, err := config.PythonLiteral(d.Value)
		if err != nil {
			return nil, fmt.Errorf("define %q: %w", d.Name, err)
		}
		out = append(out, compiler.Define{Block: d.Block, Name: d.Name, Value: lit})
	}
	return out, nil
}

func templateName(path string) string {
	if path == "" {
		return "built-in"
	}
	return path
}
