package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/bbmc/internal/config"
	"github.com/vk/bbmc/internal/ctxlog"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	lookupEnv func(string) (string, bool)
}

// Option configures a Loader.
type Option func(*Loader)

// WithLookupEnv replaces the environment lookup behind the env() function.
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(l *Loader) { l.lookupEnv = fn }
}

// NewLoader creates a new HCL project loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{lookupEnv: os.LookupEnv}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// fileRoot is the top-level schema of a project file.
type fileRoot struct {
	Template     string         `hcl:"template,optional"`
	IncludePaths []string       `hcl:"include_paths,optional"`
	Extension    string         `hcl:"extension,optional"`
	Encoding     string         `hcl:"encoding,optional"`
	Output       *outputBlock   `hcl:"output,block"`
	Run          *runBlock      `hcl:"run,block"`
	Defines      []*defineBlock `hcl:"define,block"`
}

type outputBlock struct {
	Dir     string `hcl:"dir,optional"`
	Workers int    `hcl:"workers,optional"`
}

type runBlock struct {
	Interpreter  string            `hcl:"interpreter,optional"`
	Args         []string          `hcl:"args,optional"`
	Requirements []string          `hcl:"requirements,optional"`
	Env          map[string]string `hcl:"env,optional"`
}

type defineBlock struct {
	Name  string         `hcl:"name,label"`
	Value hcl.Expression `hcl:"value"`
	Type  hcl.Expression `hcl:"type,optional"`
	Block string         `hcl:"block,optional"`
}

// Load parses and decodes the project file at path.
func (l *Loader) Load(ctx context.Context, path string) (*config.Project, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	evalCtx := l.evalContext()
	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, evalCtx, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	project, err := l.translate(ctx, &root, evalCtx)
	if err != nil {
		return nil, fmt.Errorf("in %s: %w", path, err)
	}
	project.ResolvePaths(path)
	project.ApplyDefaults()

	logger.Debug("HCL loading complete.", "defines", len(project.Defines), "include_paths", len(project.IncludePaths))
	return project, nil
}
