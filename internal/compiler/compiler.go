package compiler

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/vk/bbmc/internal/ctxlog"
)

// DefaultExtension is appended to #include paths.
const DefaultExtension = ".bbm"

// SourceReader supplies the text of .bbm files. Implementations resolve the
// file's encoding.
type SourceReader interface {
	ReadSource(path string) (string, error)
}

type osReader struct{}

func (osReader) ReadSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Define is an assignment emitted before any directive is evaluated.
type Define struct {
	Block string
	Name  string
	Value string
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithReader sets the reader used for top-level files and includes.
func WithReader(r SourceReader) Option {
	return func(c *Compiler) { c.reader = r }
}

// WithIncludePaths adds directories searched for #include targets after the
// including file's own directory.
func WithIncludePaths(dirs ...string) Option {
	return func(c *Compiler) { c.includePaths = append(c.includePaths, dirs...) }
}

// WithExtension overrides the extension appended to #include paths.
func WithExtension(ext string) Option {
	return func(c *Compiler) { c.ext = ext }
}

// WithDefines queues assignments ahead of the source's own directives.
func WithDefines(defs ...Define) Option {
	return func(c *Compiler) { c.defines = append(c.defines, defs...) }
}

// Compiler compiles .bbm sources against one template.
type Compiler struct {
	template     string
	reader       SourceReader
	includePaths []string
	ext          string
	defines      []Define
}

// New returns a Compiler for the given template text. CRLF line endings are
// normalized to LF.
func New(template string, opts ...Option) *Compiler {
	c := &Compiler{
		template: strings.ReplaceAll(template, "\r\n", "\n"),
		reader:   osReader{},
		ext:      DefaultExtension,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Template returns the template text the compiler weaves into.
func (c *Compiler) Template() string { return c.template }

// Compile compiles in-memory source. Includes resolve against the include
// paths and the working directory.
func (c *Compiler) Compile(ctx context.Context, src string) (string, error) {
	return c.compile(ctx, "", src)
}

// CompileFile reads and compiles the file at path. Includes resolve against
// the file's directory first.
func (c *Compiler) CompileFile(ctx context.Context, path string) (string, error) {
	src, err := c.reader.ReadSource(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return c.compile(ctx, path, src)
}

func (c *Compiler) compile(ctx context.Context, path, src string) (string, error) {
	acc, err := c.Accumulate(ctx, path, src)
	if err != nil {
		return "", err
	}
	out, err := Weave(c.template, acc)
	if err != nil {
		return "", err
	}
	ctxlog.FromContext(ctx).Debug("Template woven.", "file", path, "blocks", acc.Len())
	return out, nil
}

// Accumulate evaluates src without weaving and returns the block emissions.
// path may be empty for in-memory sources.
func (c *Compiler) Accumulate(ctx context.Context, path, src string) (*Accumulator, error) {
	s := &session{c: c}
	acc := NewAccumulator()
	for _, d := range c.defines {
		acc.Insert(blockOr(d.Block, BlockVariables), Tail, d.Name+" = "+d.Value)
	}

	p := &pass{file: path, out: acc, local: acc}
	if path != "" {
		s.stack = append(s.stack, includeKey(path))
	}
	if err := s.run(ctx, p, src); err != nil {
		return nil, err
	}
	return acc, nil
}

// Importable reports whether src starts with #exclude and so may be included
// by other files but not compiled on its own.
func Importable(src string) (bool, error) {
	var (
		frags  fragmentTable
		status statusSection
	)
	text, err := frags.extract(src)
	if err != nil {
		return false, err
	}
	if text, err = status.extract(text); err != nil {
		return false, err
	}
	directives, err := Parse(text)
	if err != nil {
		return false, err
	}
	return len(directives) > 0 && directives[0].Kind() == KindExclude, nil
}

// session is the private state of one compile.
type session struct {
	c      *Compiler
	frags  fragmentTable
	status statusSection
	stack  []string // files being evaluated, outermost first
}

// pass is one evaluation of a source text: the top-level file, an included
// file, or the body of a status branch.
type pass struct {
	file     string // file being evaluated, "" for in-memory text
	depth    int    // status branch nesting
	branch   bool
	include  bool
	excluded bool
	checked  bool // status_checker already used

	out   *Accumulator // blocks shared with the enclosing pass
	local *Accumulator // variables and on_statements of this scope
}

func (p *pass) target(block string) *Accumulator {
	if block == BlockVariables || block == BlockOnStatements {
		return p.local
	}
	return p.out
}

// emit inserts text into block. Text for branch-scoped blocks is indented to
// the pass's nesting depth.
func (p *pass) emit(block string, pos Position, text string) {
	acc := p.target(block)
	if acc == p.local && p.depth > 0 {
		text = indentLines(text, strings.Repeat(indentUnit, p.depth))
	}
	acc.Insert(block, pos, text)
}

func (s *session) run(ctx context.Context, p *pass, src string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Pass started.", "file", p.file, "depth", p.depth, "include", p.include)

	text, err := s.frags.extract(src)
	if err != nil {
		return err
	}
	if text, err = s.status.extract(text); err != nil {
		return err
	}
	directives, err := Parse(text)
	if err != nil {
		return err
	}

	if p.include && (len(directives) == 0 || directives[0].Kind() != KindExclude) {
		return fmt.Errorf("%w: %s must start with #exclude", ErrNotImportable, p.file)
	}

	for _, d := range directives {
		if err := s.eval(ctx, p, d); err != nil {
			return err
		}
	}
	logger.Debug("Pass finished.", "file", p.file, "directives", len(directives))
	return nil
}

func (s *session) eval(ctx context.Context, p *pass, d Directive) error {
	switch d := d.(type) {
	case On:
		return s.evalOn(p, d)
	case Let:
		p.emit(d.Block, Tail, d.Name+" = "+d.Expr)
	case Exec:
		text, err := s.frags.lookup(d.Fragment)
		if err != nil {
			return fmt.Errorf("%w in: %s", err, d.Source())
		}
		p.emit(d.Block, d.Position, trimBlankLines(text))
	case Import:
		if d.From == "" {
			p.emit(BlockImports, Tail, "import "+d.Names)
		} else {
			p.emit(BlockImports, Tail, "from "+d.From+" import "+d.Names)
		}
	case Include:
		return s.include(ctx, p, d)
	case Exclude:
		p.excluded = true
	case Comment:
	case StatusChecker:
		return s.statusChecker(ctx, p, d)
	case Series:
		if p.branch {
			return fmt.Errorf("%w: %s", ErrNotInBranch, d.Source())
		}
		e := expandSeries(d.Name)
		p.emit(BlockVariables, Tail, e.Declaration)
		p.emit(BlockVariables, Tail, e.Default)
		p.emit(BlockSeriesSetter, Tail, e.Setter)
		p.emit(BlockSeries, Tail, e.Getter)
	default:
		return fmt.Errorf("unhandled directive %T", d)
	}
	return nil
}

func (s *session) evalOn(p *pass, d On) error {
	body, err := s.frags.lookup(d.Fragment)
	if err != nil {
		return fmt.Errorf("%w in: %s", err, d.Source())
	}

	keyword := "if"
	if d.Else {
		keyword = "elif"
	}
	cond := d.Cond
	if !d.Raw {
		cond = textVar + " == " + cond
	}
	p.emit(BlockOnStatements, Tail, keyword+" "+cond+":\n"+indentLines(fragmentBody(body), indentUnit))
	return nil
}

// fragmentBody is the text a fragment contributes as the body of a
// conditional. An empty fragment becomes pass.
func fragmentBody(text string) string {
	if body := trimBlankLines(text); body != "" {
		return body
	}
	return "pass"
}

func blockOr(block, fallback string) string {
	if block == "" {
		return fallback
	}
	return block
}
