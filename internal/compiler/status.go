package compiler

import (
	"context"
	"fmt"
	"strings"
)

const branchSeparator = "::"

type branchKind int

const (
	valueBranch branchKind = iota // [value]: compiled DSL
	uiBranch                      // {value}: verbatim code
)

type branch struct {
	kind  branchKind
	value string
	code  string
}

// statusChecker expands the status section into an if/elif chain over the
// status variable plus independent redirects over the persisted status table.
func (s *session) statusChecker(ctx context.Context, p *pass, d StatusChecker) error {
	if p.branch {
		return fmt.Errorf("%w: %s", ErrNotInBranch, d.Source())
	}
	if p.excluded {
		return fmt.Errorf("%w: %s", ErrStatusCheckerExcluded, p.file)
	}
	if p.checked {
		return ErrDuplicateStatusChecker
	}
	p.checked = true

	section, err := s.status.consume()
	if err != nil {
		return err
	}
	branches, err := parseBranches(section)
	if err != nil {
		return err
	}

	keyword := "if"
	for _, br := range branches {
		switch br.kind {
		case valueBranch:
			body, err := s.compileBranch(ctx, p, br)
			if err != nil {
				return err
			}
			header := fmt.Sprintf("%s %s == %s:", keyword, statusVar, br.value)
			p.local.Insert(BlockOnStatements, Tail, indentLines(header, strings.Repeat(indentUnit, p.depth))+"\n"+body)
			keyword = "elif"
		case uiBranch:
			code := trimBlankLines(s.frags.expand(br.code, false))
			if code == "" {
				code = "pass"
			}
			header := fmt.Sprintf("if %s.get(%s) == %s:", statusTableVar, chatIDVar, br.value)
			p.out.Insert(BlockStatusRedirect, Tail, header+"\n"+indentLines(code, indentUnit))
		}
	}
	return nil
}

// compileBranch evaluates a value branch as an excluded source one level
// deeper. Its variables and on_statements form the branch body; every other
// block goes to the enclosing accumulator.
func (s *session) compileBranch(ctx context.Context, p *pass, br branch) (string, error) {
	sub := &pass{
		file:   p.file,
		depth:  p.depth + 1,
		branch: true,
		out:    p.out,
		local:  NewAccumulator(),
	}
	if err := s.run(ctx, sub, "#exclude"+statementSeparator+br.code); err != nil {
		return "", fmt.Errorf("status branch [%s]: %w", br.value, err)
	}

	var lines []string
	for _, name := range []string{BlockVariables, BlockOnStatements} {
		if b, ok := sub.local.Block(name); ok {
			lines = append(lines, b.Head...)
			lines = append(lines, b.Tail...)
		}
	}
	if len(lines) == 0 {
		return strings.Repeat(indentUnit, sub.depth) + "pass", nil
	}
	return strings.Join(lines, "\n"), nil
}

// parseBranches splits a status section into branches. Branches are
// separated by "::"; a statement that opens with a branch header also starts
// a new branch.
func parseBranches(section string) ([]branch, error) {
	if strings.TrimSpace(section) == "" {
		return nil, ErrEmptyStatusSection
	}

	var branches []branch
	for _, part := range strings.Split(section, branchSeparator) {
		for _, spec := range splitAtHeaders(part) {
			spec = strings.TrimSpace(spec)
			if spec == "" {
				return nil, syntaxErr(KindStatusChecker, "empty branch in: "+section)
			}
			kind, value, code, ok := parseBranchHeader(spec)
			if !ok {
				return nil, syntaxErr(KindStatusChecker, spec)
			}
			branches = append(branches, branch{kind: kind, value: value, code: strings.TrimSpace(code)})
		}
	}
	return branches, nil
}

func splitAtHeaders(part string) []string {
	pieces := strings.Split(part, statementSeparator)
	var specs []string
	start := 0
	for i := 1; i < len(pieces); i++ {
		if _, _, _, ok := parseBranchHeader(strings.TrimSpace(pieces[i])); ok {
			specs = append(specs, strings.Join(pieces[start:i], statementSeparator))
			start = i
		}
	}
	return append(specs, strings.Join(pieces[start:], statementSeparator))
}

// parseBranchHeader splits "[value]: code" or "{value}: code".
func parseBranchHeader(spec string) (branchKind, string, string, bool) {
	if spec == "" {
		return 0, "", "", false
	}
	var kind branchKind
	var closer byte
	switch spec[0] {
	case '[':
		kind, closer = valueBranch, ']'
	case '{':
		kind, closer = uiBranch, '}'
	default:
		return 0, "", "", false
	}

	end := strings.IndexByte(spec, closer)
	if end < 0 {
		return 0, "", "", false
	}
	value := strings.TrimSpace(spec[1:end])
	code, ok := strings.CutPrefix(strings.TrimLeft(spec[end+1:], " \t\r\n"), ":")
	if value == "" || !ok {
		return 0, "", "", false
	}
	return kind, value, code, true
}
