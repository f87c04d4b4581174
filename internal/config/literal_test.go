package config

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestPythonLiteral(t *testing.T) {
	testCases := []struct {
		name string
		in   cty.Value
		want string
	}{
		{name: "string", in: cty.StringVal(`say "hi"`), want: `"say \"hi\""`},
		{name: "int", in: cty.NumberIntVal(42), want: "42"},
		{name: "negative int", in: cty.NumberIntVal(-7), want: "-7"},
		{name: "float", in: cty.NumberFloatVal(1.5), want: "1.5"},
		{name: "true", in: cty.True, want: "True"},
		{name: "false", in: cty.False, want: "False"},
		{name: "null", in: cty.NullVal(cty.String), want: "None"},
		{name: "list", in: cty.ListVal([]cty.Value{cty.StringVal("a"), cty.StringVal("b")}), want: `["a", "b"]`},
		{name: "empty tuple", in: cty.EmptyTupleVal, want: "[]"},
		{name: "tuple", in: cty.TupleVal([]cty.Value{cty.NumberIntVal(1), cty.True}), want: "[1, True]"},
		{
			name: "object sorted",
			in: cty.ObjectVal(map[string]cty.Value{
				"b": cty.NumberIntVal(2),
				"a": cty.ListVal([]cty.Value{cty.NumberIntVal(1)}),
			}),
			want: `{"a": [1], "b": 2}`,
		},
		{name: "empty object", in: cty.EmptyObjectVal, want: "{}"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := PythonLiteral(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPythonLiteral_Unsupported(t *testing.T) {
	_, err := PythonLiteral(cty.UnknownVal(cty.String))
	assert.ErrorIs(t, err, ErrUnsupportedValue)

	_, err = PythonLiteral(cty.CapsuleVal(cty.Capsule("thing", reflect.TypeOf(struct{}{})), &struct{}{}))
	assert.ErrorIs(t, err, ErrUnsupportedValue)
}

func TestNewProject_Defaults(t *testing.T) {
	p := NewProject()
	assert.Equal(t, DefaultExtension, p.Extension)
	assert.Equal(t, DefaultWorkers, p.Output.Workers)
	assert.Equal(t, DefaultInterpreter, p.Run.Interpreter)
	assert.Empty(t, p.Template)
}
