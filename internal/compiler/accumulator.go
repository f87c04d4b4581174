package compiler

// Conventional block names written by the built-in directives.
const (
	BlockOnStatements   = "on_statements"
	BlockVariables      = "variables"
	BlockImports        = "imports"
	BlockSeries         = "series"
	BlockSeriesSetter   = "series_setter"
	BlockStatusRedirect = "status_checker_redirect"
)

// Block is one named insertion point and the text queued for it.
type Block struct {
	Name string
	Head []string
	Tail []string
}

// Accumulator collects block emissions in first-reference order.
type Accumulator struct {
	order  []string
	blocks map[string]*Block
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{blocks: make(map[string]*Block)}
}

// Insert appends text to the head or tail list of the named block, creating
// the block on first use.
func (a *Accumulator) Insert(name string, pos Position, text string) {
	b, ok := a.blocks[name]
	if !ok {
		b = &Block{Name: name}
		a.blocks[name] = b
		a.order = append(a.order, name)
	}
	if pos == Head {
		b.Head = append(b.Head, text)
	} else {
		b.Tail = append(b.Tail, text)
	}
}

// Block returns the named block if anything was emitted into it.
func (a *Accumulator) Block(name string) (*Block, bool) {
	b, ok := a.blocks[name]
	return b, ok
}

// Names returns block names in the order they were first referenced.
func (a *Accumulator) Names() []string {
	return append([]string(nil), a.order...)
}

// Len returns the number of blocks.
func (a *Accumulator) Len() int { return len(a.order) }
