package compiler

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	fragmentFence  = '`'
	fragmentPrefix = "code_id_"
)

// FragmentID identifies one extracted fragment within a compile.
type FragmentID int

// String returns the token that stands in for the fragment in the source.
func (id FragmentID) String() string {
	return fragmentPrefix + strconv.Itoa(int(id))
}

// ParseFragmentID parses a code_id_N token.
func ParseFragmentID(tok string) (FragmentID, bool) {
	digits, ok := strings.CutPrefix(tok, fragmentPrefix)
	if !ok || digits == "" {
		return 0, false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return FragmentID(n), true
}

// fragmentTable holds the fragments of one compile. IDs are indexes.
type fragmentTable struct {
	texts []string
}

func (t *fragmentTable) add(text string) FragmentID {
	t.texts = append(t.texts, text)
	return FragmentID(len(t.texts) - 1)
}

func (t *fragmentTable) lookup(id FragmentID) (string, error) {
	if id < 0 || int(id) >= len(t.texts) {
		return "", fmt.Errorf("%w: %s", ErrUnknownFragment, id)
	}
	return t.texts[id], nil
}

// extract replaces every backtick-fenced block in src with a fresh token and
// stores the de-indented block text. The first backtick after an opening one
// always closes the block.
func (t *fragmentTable) extract(src string) (string, error) {
	var b strings.Builder
	b.Grow(len(src))

	rest := src
	for {
		open := strings.IndexByte(rest, fragmentFence)
		if open < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[open+1:], fragmentFence)
		if end < 0 {
			offset := len(src) - len(rest) + open
			return "", fmt.Errorf("%w: fragment opened on line %d", ErrUnterminatedFence, lineAt(src, offset))
		}

		text, err := Dedent(rest[open+1 : open+1+end])
		if err != nil {
			offset := len(src) - len(rest) + open
			return "", fmt.Errorf("fragment on line %d: %w", lineAt(src, offset), err)
		}

		b.WriteString(rest[:open])
		b.WriteString(t.add(text).String())
		rest = rest[open+1+end+1:]
	}
	return b.String(), nil
}

// expand replaces every known fragment token in s with the fragment text.
// With fenced set the text is wrapped in backticks again.
func (t *fragmentTable) expand(s string, fenced bool) string {
	var b strings.Builder
	for {
		i := strings.Index(s, fragmentPrefix)
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		j := i + len(fragmentPrefix)
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		id, ok := ParseFragmentID(s[i:j])
		text, err := t.lookup(id)
		if !ok || err != nil {
			b.WriteString(s[:j])
			s = s[j:]
			continue
		}
		b.WriteString(s[:i])
		if fenced {
			b.WriteByte(fragmentFence)
			b.WriteString(text)
			b.WriteByte(fragmentFence)
		} else {
			b.WriteString(text)
		}
		s = s[j:]
	}
}

// Dedent strips the margin shared by every non-blank line of text, one
// character at a time, until some non-blank line is flush left.
func Dedent(text string) (string, error) {
	bound := 0
	for _, line := range strings.Split(text, "\n") {
		if n := leadingSpace(line); n > bound {
			bound = n
		}
	}
	return dedent(text, bound)
}

// dedent strips the shared margin in at most bound passes.
func dedent(text string, bound int) (string, error) {
	lines := strings.Split(text, "\n")
	for i := 0; hasSharedMargin(lines); i++ {
		if i >= bound {
			return "", fmt.Errorf("%w after %d passes", ErrDedentBound, bound)
		}
		for j, line := range lines {
			if !isBlank(line) {
				lines[j] = line[1:]
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}

func hasSharedMargin(lines []string) bool {
	seen := false
	for _, line := range lines {
		if isBlank(line) {
			continue
		}
		if !isIndentChar(line[0]) {
			return false
		}
		seen = true
	}
	return seen
}

func leadingSpace(line string) int {
	n := 0
	for n < len(line) && isIndentChar(line[n]) {
		n++
	}
	return n
}

func isIndentChar(c byte) bool { return c == ' ' || c == '\t' }

func isBlank(line string) bool { return strings.TrimSpace(line) == "" }

// trimBlankLines drops blank lines from both ends of s, keeping the
// indentation of the first non-blank line.
func trimBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	start, end := 0, len(lines)
	for start < end && isBlank(lines[start]) {
		start++
	}
	for end > start && isBlank(lines[end-1]) {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}

// lineAt returns the 1-based line number of offset in s.
func lineAt(s string, offset int) int {
	return strings.Count(s[:offset], "\n") + 1
}
