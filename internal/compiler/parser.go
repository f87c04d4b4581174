package compiler

import (
	"fmt"
	"strings"
	"unicode"
)

const statementSeparator = ";"

// Parse splits token-substituted source into statements and parses each one.
// Empty statements and bare status section tokens are dropped.
func Parse(src string) ([]Directive, error) {
	var directives []Directive
	for _, raw := range strings.Split(src, statementSeparator) {
		s := strings.TrimSpace(raw)
		if s == "" || s == StatusToken {
			continue
		}
		d, err := ParseStatement(s)
		if err != nil {
			return nil, err
		}
		directives = append(directives, d)
	}
	return directives, nil
}

// ParseStatement classifies one trimmed statement by its leading keyword and
// parses it with that kind's grammar.
func ParseStatement(s string) (Directive, error) {
	switch {
	case strings.HasPrefix(s, "//"):
		return Comment{stmt(s)}, nil
	case hasKeyword(s, "#include", `"`):
		return parseInclude(s)
	case hasKeyword(s, "#exclude", ""):
		return parseExclude(s)
	case hasKeyword(s, "status_checker", ""):
		return parseStatusChecker(s)
	case hasKeyword(s, "series", ""):
		return parseSeries(s)
	case hasKeyword(s, "on", "("):
		return parseOn(s)
	case hasKeyword(s, "let", "{"):
		return parseLet(s)
	case hasKeyword(s, "exec", ""):
		return parseExec(s)
	case hasKeyword(s, "import", "{"):
		return parseImport(s)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownStatement, s)
}

// hasKeyword reports whether s starts with kw followed by the end of the
// statement, whitespace, or one of the bytes in punct.
func hasKeyword(s, kw, punct string) bool {
	rest, ok := strings.CutPrefix(s, kw)
	if !ok {
		return false
	}
	if rest == "" {
		return true
	}
	return isSpace(rest[0]) || strings.IndexByte(punct, rest[0]) >= 0
}

// on (<cond>) : code_id_N
func parseOn(s string) (Directive, error) {
	rest := strings.TrimSpace(s[len("on"):])

	colon := strings.LastIndexByte(rest, ':')
	if colon < 0 {
		return nil, syntaxErr(KindOn, s)
	}
	id, ok := ParseFragmentID(strings.TrimSpace(rest[colon+1:]))
	if !ok {
		return nil, syntaxErr(KindOn, s)
	}

	head := strings.TrimSpace(rest[:colon])
	if len(head) < 2 || head[0] != '(' || head[len(head)-1] != ')' {
		return nil, syntaxErr(KindOn, s)
	}

	d := On{stmt: stmt(s), Fragment: id}
	cond := strings.TrimSpace(head[1 : len(head)-1])
	if c, ok := strings.CutPrefix(cond, "!"); ok {
		d.Raw = true
		cond = strings.TrimSpace(c)
	}
	if c, ok := strings.CutSuffix(cond, "?"); ok {
		d.Else = true
		cond = strings.TrimSpace(c)
	}
	if cond == "" {
		return nil, syntaxErr(KindOn, s)
	}
	d.Cond = cond
	return d, nil
}

// let{<block>}? <name> = <expr>
func parseLet(s string) (Directive, error) {
	rest := s[len("let"):]
	d := Let{stmt: stmt(s), Block: BlockVariables}

	if strings.HasPrefix(rest, "{") {
		end := strings.IndexByte(rest, '}')
		if end < 0 || !isIdent(rest[1:end]) {
			return nil, syntaxErr(KindLet, s)
		}
		d.Block = rest[1:end]
		rest = rest[end+1:]
	}

	name, expr, ok := strings.Cut(rest, "=")
	if !ok {
		return nil, syntaxErr(KindLet, s)
	}
	d.Name = strings.TrimSpace(name)
	d.Expr = strings.TrimSpace(expr)
	if !isIdent(d.Name) || d.Expr == "" {
		return nil, syntaxErr(KindLet, s)
	}
	return d, nil
}

// exec code_id_N <block> (start|end)?
func parseExec(s string) (Directive, error) {
	fields := strings.Fields(s)
	if len(fields) != 3 && len(fields) != 4 {
		return nil, syntaxErr(KindExec, s)
	}
	id, ok := ParseFragmentID(fields[1])
	if !ok || !isIdent(fields[2]) {
		return nil, syntaxErr(KindExec, s)
	}

	d := Exec{stmt: stmt(s), Fragment: id, Block: fields[2], Position: Tail}
	if len(fields) == 4 {
		switch fields[3] {
		case "start":
			d.Position = Head
		case "end":
		default:
			return nil, syntaxErr(KindExec, s)
		}
	}
	return d, nil
}

// import {<names>} (from {<module>})?
func parseImport(s string) (Directive, error) {
	rest := strings.TrimSpace(s[len("import"):])
	names, rest, ok := braced(rest)
	if !ok || names == "" || strings.ContainsAny(names, "\r\n") {
		return nil, syntaxErr(KindImport, s)
	}

	d := Import{stmt: stmt(s), Names: names}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return d, nil
	}
	if !hasKeyword(rest, "from", "{") {
		return nil, syntaxErr(KindImport, s)
	}
	module, rest, ok := braced(strings.TrimSpace(rest[len("from"):]))
	if !ok || strings.TrimSpace(rest) != "" || !isModulePath(module) {
		return nil, syntaxErr(KindImport, s)
	}
	d.From = module
	return d, nil
}

// #include "<path>"
func parseInclude(s string) (Directive, error) {
	rest := strings.TrimSpace(s[len("#include"):])
	if len(rest) < 3 || rest[0] != '"' || rest[len(rest)-1] != '"' {
		return nil, syntaxErr(KindInclude, s)
	}
	path := rest[1 : len(rest)-1]
	if strings.ContainsAny(path, "\"\r\n") || strings.TrimSpace(path) == "" {
		return nil, syntaxErr(KindInclude, s)
	}
	return Include{stmt: stmt(s), Path: path}, nil
}

func parseExclude(s string) (Directive, error) {
	if s != "#exclude" {
		return nil, syntaxErr(KindExclude, s)
	}
	return Exclude{stmt(s)}, nil
}

// status_checker, optionally followed by the status section it consumes.
func parseStatusChecker(s string) (Directive, error) {
	fields := strings.Fields(s)
	if len(fields) > 2 || (len(fields) == 2 && fields[1] != StatusToken) {
		return nil, syntaxErr(KindStatusChecker, s)
	}
	return StatusChecker{stmt(s)}, nil
}

// series <name>
func parseSeries(s string) (Directive, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 || !isIdent(fields[1]) {
		return nil, syntaxErr(KindSeries, s)
	}
	return Series{stmt: stmt(s), Name: fields[1]}, nil
}

// braced splits "{inner} rest" into its trimmed inner text and the rest.
func braced(s string) (inner, rest string, ok bool) {
	if !strings.HasPrefix(s, "{") {
		return "", "", false
	}
	end := strings.IndexByte(s, '}')
	if end < 0 {
		return "", "", false
	}
	return strings.TrimSpace(s[1:end]), s[end+1:], true
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func isModulePath(s string) bool {
	for _, part := range strings.Split(s, ".") {
		if !isIdent(part) {
			return false
		}
	}
	return true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}
