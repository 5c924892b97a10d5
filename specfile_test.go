package cleye_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deathbeds/cleye"
)

const greetDocument = `
name: greet
usage: Print a greeting
params:
  - name: name
    usage: Who to greet
  - name: count
    type: range(1, 10)
    default: 1
  - name: shout
    type: bool
    default: false
`

func TestLoadSpec_Document(t *testing.T) {
	spec, err := cleye.LoadSpec(strings.NewReader(greetDocument))
	require.NoError(t, err)

	assert.Equal(t, "greet", spec.Name)
	assert.Equal(t, "Print a greeting", spec.Usage)
	require.Len(t, spec.Params, 3)

	assert.Equal(t, "name", spec.Params[0].Name)
	assert.False(t, spec.Params[0].HasDefault)

	assert.Equal(t, cleye.KindIntRange, spec.Params[1].Type.Kind)
	assert.True(t, spec.Params[1].HasDefault)
	assert.Equal(t, 1, spec.Params[1].Default)

	assert.Equal(t, cleye.KindBool, spec.Params[2].Type.Kind)
	assert.Equal(t, false, spec.Params[2].Default)
}

func TestLoadSpec_AttachedHandlerRuns(t *testing.T) {
	spec, err := cleye.LoadSpec(strings.NewReader(greetDocument))
	require.NoError(t, err)

	var got greeting
	spec.Run = func(name string, count int64, shout bool) error {
		got = greeting{name: name, count: count, shout: shout}
		return nil
	}

	cmd, err := cleye.Build(*spec)
	require.NoError(t, err)

	require.NoError(t, cmd.Run(context.Background(), []string{"greet", "--count", "4", "Ada"}))
	assert.Equal(t, greeting{name: "Ada", count: 4}, got)
}

func TestLoadSpec_RequiresName(t *testing.T) {
	_, err := cleye.LoadSpec(strings.NewReader("usage: no name here"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no name")
}

func TestLoadSpec_BadTypeSpelling(t *testing.T) {
	doc := `
name: bad
params:
  - name: x
    type: decimalish
`
	_, err := cleye.LoadSpec(strings.NewReader(doc))
	require.Error(t, err)
	assert.ErrorIs(t, err, cleye.ErrUnsupportedKind)
}

func TestLoadSpec_DefaultCheckedAtBuild(t *testing.T) {
	doc := `
name: bad
params:
  - name: count
    type: int
    default: three
`
	spec, err := cleye.LoadSpec(strings.NewReader(doc))
	require.NoError(t, err)

	_, err = cleye.Build(*spec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an integer")
}

func TestLoadSpecFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "greet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(greetDocument), 0o600))

	spec, err := cleye.LoadSpecFile(path)
	require.NoError(t, err)
	assert.Equal(t, "greet", spec.Name)

	_, err = cleye.LoadSpecFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestParseType_Spellings(t *testing.T) {
	tests := []struct {
		spelling string
		kind     cleye.Kind
	}{
		{"string", cleye.KindString},
		{"text", cleye.KindString},
		{"bool", cleye.KindBool},
		{"int", cleye.KindInt},
		{"float", cleye.KindFloat},
		{"duration", cleye.KindDuration},
		{"timestamp", cleye.KindTimestamp},
		{"datetime", cleye.KindTimestamp},
		{"uuid", cleye.KindUUID},
		{"path", cleye.KindPath},
		{"any", cleye.KindAny},
		{"list", cleye.KindList},
		{"list[int]", cleye.KindList},
		{"choice(a,b)", cleye.KindChoice},
		{"range(1, 5)", cleye.KindIntRange},
		{"frange(0.5, 1.5)", cleye.KindFloatRange},
		{"tuple(string, int)", cleye.KindTuple},
	}
	for _, tt := range tests {
		t.Run(tt.spelling, func(t *testing.T) {
			typ, err := cleye.ParseType(tt.spelling)
			require.NoError(t, err)
			require.NotNil(t, typ)
			assert.Equal(t, tt.kind, typ.Kind)
		})
	}
}

func TestParseType_EmptyMeansPlainText(t *testing.T) {
	typ, err := cleye.ParseType("")
	require.NoError(t, err)
	assert.Nil(t, typ)
}

func TestParseType_Composites(t *testing.T) {
	typ, err := cleye.ParseType("list[int]")
	require.NoError(t, err)
	require.NotNil(t, typ.Elem)
	assert.Equal(t, cleye.KindInt, typ.Elem.Kind)

	typ, err = cleye.ParseType("choice(red, green, blue)")
	require.NoError(t, err)
	assert.Equal(t, []string{"red", "green", "blue"}, typ.Choices)

	typ, err = cleye.ParseType("range(-5, 5)")
	require.NoError(t, err)
	assert.Equal(t, int64(-5), typ.IntMin)
	assert.Equal(t, int64(5), typ.IntMax)

	typ, err = cleye.ParseType("tuple(string, int, float)")
	require.NoError(t, err)
	require.Len(t, typ.Members, 3)
	assert.Equal(t, cleye.KindFloat, typ.Members[2].Kind)
}

func TestParseType_Errors(t *testing.T) {
	for _, spelling := range []string{
		"number",
		"choice()",
		"range(1)",
		"range(a, b)",
		"tuple()",
	} {
		t.Run(spelling, func(t *testing.T) {
			_, err := cleye.ParseType(spelling)
			require.Error(t, err)
		})
	}
}
