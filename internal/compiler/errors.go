package compiler

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownStatement       = errors.New("unknown statement")
	ErrUnknownFragment        = errors.New("unknown fragment")
	ErrUnterminatedFence      = errors.New("unterminated fence")
	ErrDedentBound            = errors.New("fragment de-indentation did not converge")
	ErrDuplicateStatusSection = errors.New("duplicate status section")
	ErrMissingStatusSection   = errors.New("status_checker without a status section")
	ErrDuplicateStatusChecker = errors.New("duplicate status_checker")
	ErrStatusCheckerExcluded  = errors.New("status_checker in an excluded file")
	ErrEmptyStatusSection     = errors.New("status section has no branches")
	ErrNotInBranch            = errors.New("directive not allowed inside a status branch")
	ErrNotImportable          = errors.New("not importable")
	ErrIncludeNotFound        = errors.New("include not found")
	ErrIncludeCycle           = errors.New("include cycle")
	ErrBlockNotFound          = errors.New("block not found")
	ErrOverlappingBlocks      = errors.New("overlapping blocks")
)

// SyntaxError reports a statement that does not match its directive grammar.
type SyntaxError struct {
	Kind      Kind
	Statement string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid %s syntax: %s", e.Kind, e.Statement)
}

func syntaxErr(kind Kind, stmt string) error {
	return &SyntaxError{Kind: kind, Statement: stmt}
}

// BlockError names the template block a weave failed on.
type BlockError struct {
	Block string
	Err   error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("block %q: %v", e.Block, e.Err)
}

func (e *BlockError) Unwrap() error { return e.Err }
