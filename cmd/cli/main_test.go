package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/bbmc/internal/cli"
)

func TestRun_PrintsProgram(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	tempDir := t.TempDir()
	tmpl := filepath.Join(tempDir, "template.py")
	require.NoError(t, os.WriteFile(tmpl, []byte("# variables\n# end_variables\n"), 0o600))
	src := filepath.Join(tempDir, "main.bbm")
	require.NoError(t, os.WriteFile(src, []byte("let greeting = 'salam';"), 0o600))

	out := &bytes.Buffer{}

	// --- Act ---
	err := run(strings.NewReader(""), out, &bytes.Buffer{}, []string{"--template", tmpl, "print", src})

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, "# variables\ngreeting = 'salam'\n# end_variables\n", out.String())
}

func TestRun_InvalidProjectFile(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// An HCL project file with a syntax error.
	invalidHCL := `
		define "TOKEN" {
			value = "abc"
		// Missing closing brace here
	`
	tempDir := t.TempDir()
	projectPath := filepath.Join(tempDir, "bbmc.hcl")
	require.NoError(t, os.WriteFile(projectPath, []byte(invalidHCL), 0o600), "failed to set up test file")

	args := []string{"--config", projectPath, "template"}
	out := &bytes.Buffer{}

	// --- Act ---
	runErr := run(strings.NewReader(""), out, &bytes.Buffer{}, args)

	// --- Assert ---
	require.Error(t, runErr)
	exitErr, ok := runErr.(*cli.ExitError)
	require.True(t, ok, "run() should report failures as *cli.ExitError")
	require.Equal(t, 1, exitErr.Code)
	require.Contains(t, exitErr.Message, "failed to parse")
	require.Empty(t, out.String())
}

func TestRun_Help(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"-h"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(strings.NewReader(""), out, &bytes.Buffer{}, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error for help")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"--this-is-not-a-valid-flag"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(strings.NewReader(""), out, &bytes.Buffer{}, args)

	// --- Assert ---
	require.Error(t, err, "run() should return an error when argument parsing fails")
	exitErr, ok := err.(*cli.ExitError)
	require.True(t, ok)
	require.Equal(t, 2, exitErr.Code)
	require.Contains(t, err.Error(), "unknown flag: --this-is-not-a-valid-flag")
}
