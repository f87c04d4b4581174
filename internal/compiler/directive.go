package compiler

// Kind classifies a directive.
type Kind int

const (
	KindOn Kind = iota
	KindLet
	KindExec
	KindImport
	KindInclude
	KindExclude
	KindComment
	KindStatusChecker
	KindSeries
)

var kindNames = [...]string{
	KindOn:            "on",
	KindLet:           "let",
	KindExec:          "exec",
	KindImport:        "import",
	KindInclude:       "include",
	KindExclude:       "exclude",
	KindComment:       "comment",
	KindStatusChecker: "status_checker",
	KindSeries:        "series",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Position selects the head or tail list of a block.
type Position int

const (
	Tail Position = iota
	Head
)

func (p Position) String() string {
	if p == Head {
		return "start"
	}
	return "end"
}

// Directive is one parsed statement. The concrete types below are the only
// implementations.
type Directive interface {
	Kind() Kind
	// Source returns the statement text the directive was parsed from.
	Source() string
}

type stmt string

func (s stmt) Source() string { return string(s) }

// On emits a conditional around a fragment into on_statements.
type On struct {
	stmt
	Cond     string
	Raw      bool // condition used as-is instead of text == Cond
	Else     bool // chained as elif
	Fragment FragmentID
}

// Let emits an assignment into Block.
type Let struct {
	stmt
	Block string
	Name  string
	Expr  string
}

// Exec inserts a fragment's text into Block.
type Exec struct {
	stmt
	Fragment FragmentID
	Block    string
	Position Position
}

// Import emits an import statement into the imports block.
type Import struct {
	stmt
	Names string
	From  string
}

// Include pulls the directives of another .bbm file into the current pass.
type Include struct {
	stmt
	Path string
}

// Exclude marks the current pass as a library that cannot run on its own.
type Exclude struct{ stmt }

// Comment is a // statement.
type Comment struct{ stmt }

// StatusChecker expands the status section into a dispatch table.
type StatusChecker struct{ stmt }

// Series declares per-conversation storage for a variable.
type Series struct {
	stmt
	Name string
}

func (On) Kind() Kind            { return KindOn }
func (Let) Kind() Kind           { return KindLet }
func (Exec) Kind() Kind          { return KindExec }
func (Import) Kind() Kind        { return KindImport }
func (Include) Kind() Kind       { return KindInclude }
func (Exclude) Kind() Kind       { return KindExclude }
func (Comment) Kind() Kind       { return KindComment }
func (StatusChecker) Kind() Kind { return KindStatusChecker }
func (Series) Kind() Kind        { return KindSeries }
