package compiler

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_Program(t *testing.T) {
	// --- Arrange ---
	src := "import {json};\n" +
		"let greeting = \"hello\";\n" +
		"series city;\n" +
		"exec `print(\"booting\")` before;\n" +
		"on (\"/start\"): `\n    send(chat_id, greeting)\n`;\n" +
		"on (\"/start\"?): `pass`;\n" +
		"on (!text.startswith(\"/\")): `echo(text)`;\n"

	want := `import os
# imports
import json
# end_imports

# variables
greeting = "hello"
CONST_CITY_SERIES = {}
default_city = ""
# end_variables

# before
print("booting")
# end_before

def handle(chat_id, text, status):
    # series
    city = CONST_CITY_SERIES.get(chat_id)
    if city is None:
        CONST_CITY_SERIES[chat_id] = default_city
        city = default_city
    # end_series
    # status_checker_redirect
    # end_status_checker_redirect
    # on_statements
    if text == "/start":
        send(chat_id, greeting)
    elif text == "/start":
        pass
    if text.startswith("/"):
        echo(text)
    # end_on_statements
    # series_setter
    CONST_CITY_SERIES[chat_id] = city
    # end_series_setter
`

	// --- Act ---
	got, err := New(testTemplate).Compile(context.Background(), src)

	// --- Assert ---
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("compiled output mismatch (-want +got):\n%s", diff)
	}
}

func TestCompile_OnChain(t *testing.T) {
	acc := accumulate(t, "on (X): `f()`; on (X?): `g()`;")
	assert.Equal(t, []string{"if text == X:\n    f()", "elif text == X:\n    g()"}, tail(acc, BlockOnStatements))
}

func TestCompile_OnRaw(t *testing.T) {
	acc := accumulate(t, "on (!cond): `f()`;")
	assert.Equal(t, []string{"if cond:\n    f()"}, tail(acc, BlockOnStatements))
}

func TestCompile_OnEmptyFragmentIsPass(t *testing.T) {
	acc := accumulate(t, "on (X): `\n\n`;")
	assert.Equal(t, []string{"if text == X:\n    pass"}, tail(acc, BlockOnStatements))
}

func TestCompile_ExecHeadAndTail(t *testing.T) {
	acc := accumulate(t, "exec `b()` before; exec `a()` before start; exec `c()` before end;")
	b, ok := acc.Block("before")
	require.True(t, ok)
	assert.Equal(t, []string{"a()"}, b.Head)
	assert.Equal(t, []string{"b()", "c()"}, b.Tail)
}

func TestCompile_Series(t *testing.T) {
	acc := accumulate(t, "series foo;")

	assert.Equal(t, []string{"CONST_FOO_SERIES = {}", `default_foo = ""`}, tail(acc, BlockVariables))
	assert.Equal(t, []string{"CONST_FOO_SERIES[chat_id] = foo"}, tail(acc, BlockSeriesSetter))
	assert.Equal(t, []string{
		"foo = CONST_FOO_SERIES.get(chat_id)\n" +
			"if foo is None:\n" +
			"    CONST_FOO_SERIES[chat_id] = default_foo\n" +
			"    foo = default_foo",
	}, tail(acc, BlockSeries))
}

func TestCompile_Imports(t *testing.T) {
	acc := accumulate(t, "import {os, re}; import {dumps, loads} from {json};")
	assert.Equal(t, []string{"import os, re", "from json import dumps, loads"}, tail(acc, BlockImports))
}

func TestCompile_ExecTrimsSurroundingBlankLines(t *testing.T) {
	// --- Arrange ---
	c := New("# before\n# end_before\n")
	src := "exec `\n    def helper():\n        return 1\n` before;"

	// --- Act ---
	got, err := c.Compile(context.Background(), src)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "# before\ndef helper():\n    return 1\n# end_before\n", got)
}

func TestCompile_CRLFTemplate(t *testing.T) {
	c := New(strings.ReplaceAll(testTemplate, "\n", "\r\n"))

	got, err := c.Compile(context.Background(), "let a = 1;")

	require.NoError(t, err)
	assert.Contains(t, got, "# variables\na = 1\n# end_variables\n")
	assert.NotContains(t, got, "\r")
}

func TestCompile_Defines(t *testing.T) {
	acc := accumulate(t, "let b = 2;", WithDefines(
		Define{Name: "TOKEN", Value: `"abc"`},
		Define{Block: "before", Name: "DEBUG", Value: "True"},
	))
	assert.Equal(t, []string{`TOKEN = "abc"`, "b = 2"}, tail(acc, BlockVariables))
	assert.Equal(t, []string{"DEBUG = True"}, tail(acc, "before"))
}

func TestCompile_BlockNotFound(t *testing.T) {
	_, err := New(testTemplate).Compile(context.Background(), "let{mainloop} x = 1;")

	var blockErr *BlockError
	require.ErrorAs(t, err, &blockErr)
	assert.Equal(t, "mainloop", blockErr.Block)
	assert.ErrorIs(t, err, ErrBlockNotFound)
}

func TestCompile_Errors(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		want error
	}{
		{name: "unknown statement", src: "let a = 1; print(a);", want: ErrUnknownStatement},
		{name: "unknown fragment", src: "on (a): code_id_7;", want: ErrUnknownFragment},
		{name: "unterminated fragment", src: "on (a): `f();", want: ErrUnterminatedFence},
		{name: "unterminated status section", src: "<<< [a]: let x = 1; status_checker;", want: ErrUnterminatedFence},
		{name: "missing status section", src: "status_checker;", want: ErrMissingStatusSection},
		{name: "duplicate status section", src: "<<< [a]: let x = 1 >>> <<< [b]: let x = 2 >>> status_checker;", want: ErrDuplicateStatusSection},
		{name: "duplicate status checker", src: "<<< [a]: let x = 1 >>>; status_checker; status_checker;", want: ErrDuplicateStatusChecker},
		{name: "status checker in excluded", src: "#exclude; <<< [a]: let x = 1 >>>; status_checker;", want: ErrStatusCheckerExcluded},
		{name: "empty status section", src: "<<<   >>>; status_checker;", want: ErrEmptyStatusSection},
		{name: "series in branch", src: "<<< [a]: series city >>>; status_checker;", want: ErrNotInBranch},
		{name: "error inside branch", src: "<<< [a]: oops >>>; status_checker;", want: ErrUnknownStatement},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := New(testTemplate).Compile(context.Background(), tc.src)
			require.ErrorIs(t, err, tc.want)
			assert.Empty(t, out)
		})
	}
}

func TestCompile_FragmentIDsResetPerCompile(t *testing.T) {
	// --- Arrange ---
	c := New(testTemplate)
	ctx := context.Background()
	src := "exec `first()` before;"

	// --- Act ---
	_, err := c.Compile(ctx, "exec `zero()` before; exec `one()` before;")
	require.NoError(t, err)
	acc, err := c.Accumulate(ctx, "", src)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{"first()"}, tail(acc, "before"))
}

func TestCompile_ConcurrentUse(t *testing.T) {
	c := New(testTemplate)
	want, err := c.Compile(context.Background(), "on (a): `f()`; series s;")
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]string, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.Compile(context.Background(), "on (a): `f()`; series s;")
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, want, results[i])
	}
}

func TestImportable(t *testing.T) {
	ok, err := Importable("// lib\n;#exclude; let a = 1;")
	require.NoError(t, err)
	assert.False(t, ok, "a comment before #exclude makes the file runnable")

	ok, err = Importable("\n#exclude;\nexec `x = 1` before;")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Importable("")
	require.NoError(t, err)
	assert.False(t, ok)
}
