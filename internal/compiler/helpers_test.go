package compiler

import (
	"context"
	"io/fs"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

// testTemplate carries every conventional block plus a custom "before" block.
const testTemplate = `import os
# imports
# end_imports

# variables
# end_variables

# before
# end_before

def handle(chat_id, text, status):
    # series
    # end_series
    # status_checker_redirect
    # end_status_checker_redirect
    # on_statements
    # end_on_statements
    # series_setter
    # end_series_setter
`

// mapReader serves sources from an in-memory file system.
type mapReader struct {
	fsys fs.FS
}

func (r mapReader) ReadSource(path string) (string, error) {
	data, err := fs.ReadFile(r.fsys, filepath.ToSlash(path))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func newMapReader(files map[string]string) mapReader {
	fsys := fstest.MapFS{}
	for name, src := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(src)}
	}
	return mapReader{fsys: fsys}
}

// accumulate runs src through every stage but the weave.
func accumulate(t *testing.T, src string, opts ...Option) *Accumulator {
	t.Helper()
	acc, err := New(testTemplate, opts...).Accumulate(context.Background(), "", src)
	require.NoError(t, err)
	return acc
}

// tail returns the tail list of block, or nil if nothing was emitted.
func tail(acc *Accumulator, block string) []string {
	b, ok := acc.Block(block)
	if !ok {
		return nil
	}
	return b.Tail
}
