package config

import (
	"path/filepath"

	"github.com/zclconf/go-cty/cty"
)

// Default values for fields a project file leaves out.
const (
	DefaultExtension   = ".bbm"
	DefaultInterpreter = "python3"
	DefaultWorkers     = 4
)

// Project is the unified representation of a project file.
type Project struct {
	// Template is a path to the template file. Empty selects the built-in one.
	Template     string
	IncludePaths []string
	Extension    string
	// Encoding names the source encoding. Empty means detect per file.
	Encoding string
	Output   *Output
	Run      *Run
	Defines  []*Define
}

// Output controls where build writes compiled programs.
type Output struct {
	Dir     string
	Workers int
}

// Run controls how compiled programs are executed.
type Run struct {
	Interpreter  string
	Args         []string
	Requirements []string
	Env          map[string]string
}

// Define is a project-level assignment emitted ahead of every source.
type Define struct {
	Name  string
	Block string
	Value cty.Value
}

// NewProject returns a project with every default applied.
func NewProject() *Project {
	p := &Project{}
	p.ApplyDefaults()
	return p
}

// ApplyDefaults fills unset fields in place.
func (p *Project) ApplyDefaults() {
	if p.Extension == "" {
		p.Extension = DefaultExtension
	}
	if p.Output == nil {
		p.Output = &Output{}
	}
	if p.Output.Workers <= 0 {
		p.Output.Workers = DefaultWorkers
	}
	if p.Run == nil {
		p.Run = &Run{}
	}
	if p.Run.Interpreter == "" {
		p.Run.Interpreter = DefaultInterpreter
	}
}

// ResolvePaths makes relative file paths in p relative to the directory of
// the project file at projectPath.
func (p *Project) ResolvePaths(projectPath string) {
	base := filepath.Dir(projectPath)
	p.Template = resolve(base, p.Template)
	for i, dir := range p.IncludePaths {
		p.IncludePaths[i] = resolve(base, dir)
	}
	if p.Output != nil {
		p.Output.Dir = resolve(base, p.Output.Dir)
	}
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
