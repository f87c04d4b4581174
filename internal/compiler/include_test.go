package compiler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInclude_MergesAsIfInlined(t *testing.T) {
	// --- Arrange ---
	reader := newMapReader(map[string]string{
		"bot/main.bbm":   "let a = 1; #include \"common\"; let c = 3; on (z): `last()`;",
		"bot/common.bbm": "#exclude;\nlet b = 2;\nexec `setup()` before;\non (y): `mid()`;",
	})
	c := New(testTemplate, WithReader(reader))

	// --- Act ---
	acc, err := c.Accumulate(context.Background(), "bot/main.bbm", mustRead(t, reader, "bot/main.bbm"))

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{"a = 1", "b = 2", "c = 3"}, tail(acc, BlockVariables))
	assert.Equal(t, []string{"setup()"}, tail(acc, "before"))
	assert.Equal(t, []string{"if text == y:\n    mid()", "if text == z:\n    last()"}, tail(acc, BlockOnStatements))
}

func TestInclude_ResolutionOrder(t *testing.T) {
	reader := newMapReader(map[string]string{
		"bot/main.bbm":      `#include "shared";`,
		"bot/shared.bbm":    "#exclude; let origin = \"local\";",
		"lib/shared.bbm":    "#exclude; let origin = \"lib\";",
		"lib/only_lib.bbm":  "#exclude; let origin = \"only lib\";",
		"bot/uses_lib.bbm":  `#include "only_lib";`,
		"bot/sub/deep.bbm":  `#include "../shared";`,
		"bot/nested.bbm":    `#include "sub/inner";`,
		"bot/sub/inner.bbm": `#exclude; #include "../shared";`,
	})
	c := New(testTemplate, WithReader(reader), WithIncludePaths("lib"))

	testCases := []struct {
		file string
		want string
	}{
		{file: "bot/main.bbm", want: `origin = "local"`},
		{file: "bot/uses_lib.bbm", want: `origin = "only lib"`},
		{file: "bot/sub/deep.bbm", want: `origin = "local"`},
		{file: "bot/nested.bbm", want: `origin = "local"`},
	}
	for _, tc := range testCases {
		t.Run(tc.file, func(t *testing.T) {
			acc, err := c.Accumulate(context.Background(), tc.file, mustRead(t, reader, tc.file))
			require.NoError(t, err)
			assert.Equal(t, []string{tc.want}, tail(acc, BlockVariables))
		})
	}
}

func TestInclude_NotImportable(t *testing.T) {
	reader := newMapReader(map[string]string{
		"main.bbm":  `#include "plain";`,
		"plain.bbm": "let a = 1; #exclude;",
	})
	_, err := New(testTemplate, WithReader(reader)).CompileFile(context.Background(), "main.bbm")
	require.ErrorIs(t, err, ErrNotImportable)
	assert.Contains(t, err.Error(), "plain.bbm")
}

func TestInclude_NotFound(t *testing.T) {
	reader := newMapReader(map[string]string{"main.bbm": `#include "missing";`})
	_, err := New(testTemplate, WithReader(reader)).CompileFile(context.Background(), "main.bbm")
	require.ErrorIs(t, err, ErrIncludeNotFound)
	assert.Contains(t, err.Error(), "missing.bbm")
}

func TestInclude_Cycles(t *testing.T) {
	reader := newMapReader(map[string]string{
		"main.bbm": `#include "a";`,
		"a.bbm":    `#exclude; #include "b";`,
		"b.bbm":    `#exclude; #include "a";`,
		"self.bbm": `#exclude; #include "self";`,
	})
	c := New(testTemplate, WithReader(reader))

	for _, file := range []string{"main.bbm", "self.bbm"} {
		t.Run(file, func(t *testing.T) {
			_, err := c.CompileFile(context.Background(), file)
			require.ErrorIs(t, err, ErrIncludeCycle)
		})
	}
}

func TestInclude_DiamondIsNotACycle(t *testing.T) {
	reader := newMapReader(map[string]string{
		"main.bbm":  `#include "left"; #include "right";`,
		"left.bbm":  `#exclude; #include "base";`,
		"right.bbm": `#exclude; #include "base";`,
		"base.bbm":  "#exclude; import {re};",
	})
	acc, err := New(testTemplate, WithReader(reader)).Accumulate(context.Background(), "main.bbm", mustRead(t, reader, "main.bbm"))
	require.NoError(t, err)
	assert.Equal(t, []string{"import re", "import re"}, tail(acc, BlockImports))
}

func TestInclude_SharesStatusSection(t *testing.T) {
	reader := newMapReader(map[string]string{
		"main.bbm":   `#include "states"; status_checker;`,
		"states.bbm": "#exclude; <<< [1]: let x = 1 >>>",
	})
	acc, err := New(testTemplate, WithReader(reader)).Accumulate(context.Background(), "main.bbm", mustRead(t, reader, "main.bbm"))
	require.NoError(t, err)
	assert.Equal(t, []string{"if status == 1:\n    x = 1"}, tail(acc, BlockOnStatements))
}

func TestInclude_CustomExtension(t *testing.T) {
	reader := newMapReader(map[string]string{
		"main.bot": `#include "lib";`,
		"lib.bot":  "#exclude; let a = 1;",
	})
	acc, err := New(testTemplate, WithReader(reader), WithExtension(".bot")).Accumulate(context.Background(), "main.bot", mustRead(t, reader, "main.bot"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a = 1"}, tail(acc, BlockVariables))
}

func mustRead(t *testing.T, r SourceReader, path string) string {
	t.Helper()
	src, err := r.ReadSource(path)
	require.NoError(t, err)
	return src
}
