package yamlconf

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/bbmc/internal/config"
)

func writeProject(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bbmc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

func TestLoader_Load(t *testing.T) {
	// --- Arrange ---
	path := writeProject(t, `
template: bot.py
include_paths: [lib]
output:
  dir: out
run:
  requirements: [requests]
defines:
  - name: ADMINS
    value: [1, 2.5, "x", true, null]
  - name: LIMITS
    block: before
    value:
      max: 3
      names: {first: a}
`)
	dir := filepath.Dir(path)

	// --- Act ---
	p, err := NewLoader().Load(context.Background(), path)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "bot.py"), p.Template)
	assert.Equal(t, []string{filepath.Join(dir, "lib")}, p.IncludePaths)
	assert.Equal(t, filepath.Join(dir, "out"), p.Output.Dir)
	assert.Equal(t, config.DefaultWorkers, p.Output.Workers)
	assert.Equal(t, config.DefaultInterpreter, p.Run.Interpreter)
	assert.Equal(t, []string{"requests"}, p.Run.Requirements)

	require.Len(t, p.Defines, 2)
	admins, err := config.PythonLiteral(p.Defines[0].Value)
	require.NoError(t, err)
	assert.Equal(t, `[1, 2.5, "x", True, None]`, admins)

	limits, err := config.PythonLiteral(p.Defines[1].Value)
	require.NoError(t, err)
	assert.Equal(t, `{"max": 3, "names": {"first": "a"}}`, limits)
	assert.Equal(t, "before", p.Defines[1].Block)
}

func TestLoader_EmptyFile(t *testing.T) {
	p, err := NewLoader().Load(context.Background(), writeProject(t, ""))
	require.NoError(t, err)
	assert.Equal(t, config.NewProject(), p)
}

func TestLoader_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		src     string
		wantErr string
	}{
		{name: "unknown key", src: "templates: x\n", wantErr: "field templates not found"},
		{name: "missing name", src: "defines:\n  - value: 1\n", wantErr: "define #1 has no name"},
		{name: "duplicate", src: "defines:\n  - {name: A, value: 1}\n  - {name: A, value: 2}\n", wantErr: `define "A" declared more than once`},
		{name: "binary", src: "defines:\n  - name: A\n    value: !!binary aGk=\n", wantErr: "unsupported tag !!binary"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLoader().Load(context.Background(), writeProject(t, tc.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
