package compiler

import (
	"fmt"
	"strings"
)

const (
	statusOpen  = "<<<"
	statusClose = ">>>"

	// StatusToken replaces the status section in the source.
	StatusToken = "status_section"
)

// statusSection is the single status table of a compile. Included files
// share it with the file that includes them.
type statusSection struct {
	text     string
	present  bool
	consumed bool
}

// extract lifts the <<< >>> section out of src and leaves the token behind as
// a statement of its own. A second section anywhere in the same compile is an
// error.
func (s *statusSection) extract(src string) (string, error) {
	var b strings.Builder
	rest := src
	for {
		open := strings.Index(rest, statusOpen)
		if open < 0 {
			b.WriteString(rest)
			return b.String(), nil
		}
		line := lineAt(src, len(src)-len(rest)+open)

		body := rest[open+len(statusOpen):]
		end := strings.Index(body, statusClose)
		if end < 0 {
			return "", fmt.Errorf("%w: status section opened on line %d", ErrUnterminatedFence, line)
		}
		if s.present {
			return "", fmt.Errorf("%w on line %d", ErrDuplicateStatusSection, line)
		}
		s.text = strings.TrimSpace(body[:end])
		s.present = true

		b.WriteString(rest[:open])
		b.WriteString(statementSeparator + StatusToken + statementSeparator)
		rest = body[end+len(statusClose):]
	}
}

// consume hands out the section text exactly once.
func (s *statusSection) consume() (string, error) {
	if !s.present {
		return "", ErrMissingStatusSection
	}
	if s.consumed {
		return "", ErrDuplicateStatusChecker
	}
	s.consumed = true
	return s.text, nil
}
