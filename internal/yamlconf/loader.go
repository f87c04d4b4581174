// Package yamlconf provides the YAML implementation of config.Loader for
// bbmc.yaml project files.
package yamlconf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vk/bbmc/internal/config"
	"github.com/vk/bbmc/internal/ctxlog"
	"gopkg.in/yaml.v3"
)

// Loader reads YAML project files.
type Loader struct{}

// NewLoader creates a new YAML project loader.
func NewLoader() *Loader {
	return &Loader{}
}

type fileRoot struct {
	Template     string         `yaml:"template"`
	IncludePaths []string       `yaml:"include_paths"`
	Extension    string         `yaml:"extension"`
	Encoding     string         `yaml:"encoding"`
	Output       *outputSection `yaml:"output"`
	Run          *runSection    `yaml:"run"`
	Defines      []defineEntry  `yaml:"defines"`
}

type outputSection struct {
	Dir     string `yaml:"dir"`
	Workers int    `yaml:"workers"`
}

type runSection struct {
	Interpreter  string            `yaml:"interpreter"`
	Args         []string          `yaml:"args"`
	Requirements []string          `yaml:"requirements"`
	Env          map[string]string `yaml:"env"`
}

type defineEntry struct {
	Name  string    `yaml:"name"`
	Block string    `yaml:"block"`
	Value yaml.Node `yaml:"value"`
}

// Load parses the project file at path. Unknown keys are rejected.
func (l *Loader) Load(ctx context.Context, path string) (*config.Project, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML loader started.", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML file %s: %w", path, err)
	}

	var root fileRoot
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&root); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", path, err)
	}

	p := &config.Project{
		Template:     root.Template,
		IncludePaths: root.IncludePaths,
		Extension:    root.Extension,
		Encoding:     root.Encoding,
	}
	if root.Output != nil {
		p.Output = &config.Output{Dir: root.Output.Dir, Workers: root.Output.Workers}
	}
	if root.Run != nil {
		p.Run = &config.Run{
			Interpreter:  root.Run.Interpreter,
			Args:         root.Run.Args,
			Requirements: root.Run.Requirements,
			Env:          root.Run.Env,
		}
	}

	seen := make(map[string]struct{}, len(root.Defines))
	for i := range root.Defines {
		d := &root.Defines[i]
		if d.Name == "" {
			return nil, fmt.Errorf("in %s: define #%d has no name", path, i+1)
		}
		if _, dup := seen[d.Name]; dup {
			return nil, fmt.Errorf("in %s: define %q declared more than once", path, d.Name)
		}
		seen[d.Name] = struct{}{}

		val, err := nodeToCty(&d.Value)
		if err != nil {
			return nil, fmt.Errorf("in %s: define %q: %w", path, d.Name, err)
		}
		p.Defines = append(p.Defines, &config.Define{Name: d.Name, Block: d.Block, Value: val})
	}

	p.ResolvePaths(path)
	p.ApplyDefaults()
	logger.Debug("YAML loading complete.", "defines", len(p.Defines))
	return p, nil
}
