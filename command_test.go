package cleye_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/deathbeds/cleye"
)

// greeting records one handler invocation for assertions.
type greeting struct {
	name  string
	count int64
	shout bool
}

func greetSpec(got *greeting) cleye.Spec {
	return cleye.Spec{
		Name:  "greet",
		Usage: "Print a greeting",
		Params: []cleye.Param{
			{Name: cleye.ContextParam},
			{Name: "name", Usage: "Who to greet"},
			cleye.Param{Name: "count", Type: cleye.Integer()}.WithDefault(1),
			cleye.Param{Name: "shout", Type: cleye.Boolean()}.WithDefault(false),
		},
		Run: func(_ context.Context, name string, count int64, shout bool) error {
			*got = greeting{name: name, count: count, shout: shout}
			return nil
		},
	}
}

func TestBuild_ArgumentWithOptionDefaults(t *testing.T) {
	var got greeting
	cmd, err := cleye.Build(greetSpec(&got))
	require.NoError(t, err)

	require.NoError(t, cmd.Run(context.Background(), []string{"greet", "Alice"}))

	assert.Equal(t, "Alice", got.name)
	assert.Equal(t, int64(1), got.count, "undeclared option should keep its default")
	assert.False(t, got.shout)
}

func TestBuild_OptionsOverrideDefaults(t *testing.T) {
	var got greeting
	cmd, err := cleye.Build(greetSpec(&got))
	require.NoError(t, err)

	require.NoError(t, cmd.Run(context.Background(), []string{"greet", "--count", "3", "--shout", "Bob"}))

	assert.Equal(t, greeting{name: "Bob", count: 3, shout: true}, got)
}

func TestBuild_NoInputShowsHelp(t *testing.T) {
	var got greeting
	cmd, err := cleye.Build(greetSpec(&got))
	require.NoError(t, err)

	var buf bytes.Buffer
	cmd.Writer = &buf

	require.NoError(t, cmd.Run(context.Background(), []string{"greet"}))

	assert.Contains(t, buf.String(), "USAGE")
	assert.Equal(t, greeting{}, got, "handler should not run on a bare invocation")
}

func TestBuild_MissingRequiredArgument(t *testing.T) {
	var got greeting
	cmd, err := cleye.Build(greetSpec(&got))
	require.NoError(t, err)

	// An option was given, so this is not the bare help invocation.
	err = cmd.Run(context.Background(), []string{"greet", "--count", "2"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required argument")
}

func TestBuild_IntRangeRejectsOutOfBounds(t *testing.T) {
	// Parsed state lives on the command, so each invocation builds afresh.
	build := func() *cli.Command {
		cmd, err := cleye.Build(cleye.Spec{
			Name: "greet",
			Params: []cleye.Param{
				{Name: "name"},
				cleye.Param{Name: "count", Type: cleye.IntRangeOf(1, 10)}.WithDefault(1),
			},
			Run: func(string, int64) error { return nil },
		})
		require.NoError(t, err)
		return cmd
	}

	err := build().Run(context.Background(), []string{"greet", "--count", "11", "Al"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not in the range")

	require.NoError(t, build().Run(context.Background(), []string{"greet", "--count", "10", "Al"}))
}

func TestBuild_ChoiceRejectsUnknownValue(t *testing.T) {
	var mode string
	build := func() *cli.Command {
		cmd, err := cleye.Build(cleye.Spec{
			Name: "render",
			Params: []cleye.Param{
				{Name: "input"},
				cleye.Param{Name: "mode", Type: cleye.ChoiceOf("fast", "slow")}.WithDefault("fast"),
			},
			Run: func(_ string, m string) error {
				mode = m
				return nil
			},
		})
		require.NoError(t, err)
		return cmd
	}

	err := build().Run(context.Background(), []string{"render", "--mode", "medium", "in.txt"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not one of")

	require.NoError(t, build().Run(context.Background(), []string{"render", "--mode", "slow", "in.txt"}))
	assert.Equal(t, "slow", mode)
}

func TestBuild_VariadicPositional(t *testing.T) {
	var src string
	var dests []string
	build := func() *cli.Command {
		cmd, err := cleye.Build(cleye.Spec{
			Name: "copy",
			Params: []cleye.Param{
				{Name: "src"},
				{Name: "dests", Variadic: true},
			},
			Run: func(s string, d ...string) error {
				src = s
				dests = d
				return nil
			},
		})
		require.NoError(t, err)
		return cmd
	}

	require.NoError(t, build().Run(context.Background(), []string{"copy", "a.txt", "b", "c"}))
	assert.Equal(t, "a.txt", src)
	assert.Equal(t, []string{"b", "c"}, dests)

	// The variadic tail may also be empty.
	dests = nil
	require.NoError(t, build().Run(context.Background(), []string{"copy", "a.txt"}))
	assert.Equal(t, "a.txt", src)
	assert.Empty(t, dests)
}

func TestBuild_TypedListCollectsElements(t *testing.T) {
	var ports []int64
	build := func() *cli.Command {
		cmd, err := cleye.Build(cleye.Spec{
			Name: "listen",
			Params: []cleye.Param{
				{Name: "ports", Type: cleye.ListOf(cleye.Integer())},
			},
			Run: func(p []int64) error {
				ports = p
				return nil
			},
		})
		require.NoError(t, err)
		return cmd
	}

	require.NoError(t, build().Run(context.Background(), []string{"listen", "80", "443"}))
	assert.Equal(t, []int64{80, 443}, ports)

	err := build().Run(context.Background(), []string{"listen", "80", "not-a-port"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an integer")
}

func TestBuild_DurationOption(t *testing.T) {
	var timeout time.Duration
	build := func() *cli.Command {
		cmd, err := cleye.Build(cleye.Spec{
			Name: "wait",
			Params: []cleye.Param{
				{Name: "target"},
				cleye.Param{Name: "timeout", Type: cleye.DurationOf()}.WithDefault("1s"),
			},
			Run: func(_ string, d time.Duration) error {
				timeout = d
				return nil
			},
		})
		require.NoError(t, err)
		return cmd
	}

	require.NoError(t, build().Run(context.Background(), []string{"wait", "host"}))
	assert.Equal(t, time.Second, timeout)

	require.NoError(t, build().Run(context.Background(), []string{"wait", "--timeout", "250ms", "host"}))
	assert.Equal(t, 250*time.Millisecond, timeout)
}

func TestBuild_TimestampArgument(t *testing.T) {
	var since time.Time
	build := func() *cli.Command {
		cmd, err := cleye.Build(cleye.Spec{
			Name: "logs",
			Params: []cleye.Param{
				{Name: "since", Type: cleye.DateTime()},
			},
			Run: func(ts time.Time) error {
				since = ts
				return nil
			},
		})
		require.NoError(t, err)
		return cmd
	}

	require.NoError(t, build().Run(context.Background(), []string{"logs", "2026-01-02"}))
	assert.Equal(t, 2026, since.Year())
	assert.Equal(t, time.January, since.Month())

	err := build().Run(context.Background(), []string{"logs", "yesterday"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match")
}

func TestBuild_UUIDOption(t *testing.T) {
	want := uuid.MustParse("a2aa2a70-8504-4566-ad52-a22bd82b4b4a")

	var id uuid.UUID
	build := func() *cli.Command {
		cmd, err := cleye.Build(cleye.Spec{
			Name: "lookup",
			Params: []cleye.Param{
				{Name: "table"},
				cleye.Param{Name: "id", Type: cleye.UUIDv4()}.WithDefault(want),
			},
			Run: func(_ string, u uuid.UUID) error {
				id = u
				return nil
			},
		})
		require.NoError(t, err)
		return cmd
	}

	require.NoError(t, build().Run(context.Background(), []string{"lookup", "users"}))
	assert.Equal(t, want, id)

	err := build().Run(context.Background(), []string{"lookup", "--id", "not-a-uuid", "users"})
	require.Error(t, err)
}

func TestBuild_DeclarationOrderPreserved(t *testing.T) {
	spec := cleye.Spec{
		Name: "order",
		Params: []cleye.Param{
			{Name: cleye.ContextParam},
			{Name: "first"},
			{Name: "second"},
			cleye.Param{Name: "thirdOption", Type: cleye.Integer()}.WithDefault(0),
		},
		Run: func(_ context.Context, _, _ string, _ int64) error { return nil },
	}
	cmd, err := cleye.Build(spec)
	require.NoError(t, err)

	var argNames []string
	for _, arg := range cmd.Arguments {
		argNames = append(argNames, arg.(*cli.StringArgs).Name)
	}
	assert.Equal(t, []string{"first", "second"}, argNames)

	var flagNames []string
	for _, f := range cmd.Flags {
		flagNames = append(flagNames, f.Names()[0])
	}
	assert.Equal(t, []string{"third-option"}, flagNames)
	assert.NotContains(t, flagNames, "ctx", "the context marker never becomes a CLI binding")
}

func TestBuild_KebabCaseNames(t *testing.T) {
	spec := cleye.Spec{
		Name: "CheckStatus",
		Params: []cleye.Param{
			{Name: "hostName"},
			cleye.Param{Name: "retry_count", Type: cleye.Integer()}.WithDefault(0),
		},
		Run: func(string, int64) error { return nil },
	}
	cmd, err := cleye.Build(spec)
	require.NoError(t, err)

	assert.Equal(t, "check-status", cmd.Name)
	assert.Equal(t, "host-name", cmd.Arguments[0].(*cli.StringArgs).Name)
	assert.Equal(t, "retry-count", cmd.Flags[0].Names()[0])
}

func TestBuild_BodylessSpecReportsNoHandler(t *testing.T) {
	spec := cleye.Spec{
		Name:   "stub",
		Params: []cleye.Param{{Name: "value"}},
	}
	cmd, err := cleye.Build(spec)
	require.NoError(t, err)

	err = cmd.Run(context.Background(), []string{"stub", "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, cleye.ErrNoHandler)
}

func TestBuild_DuplicateParamRejected(t *testing.T) {
	spec := cleye.Spec{
		Name: "dup",
		Params: []cleye.Param{
			{Name: "value"},
			{Name: "value"},
		},
	}
	_, err := cleye.Build(spec)
	require.Error(t, err)
	assert.ErrorIs(t, err, cleye.ErrDuplicateParam)
}

func TestBuild_VariadicWithDefaultRejected(t *testing.T) {
	spec := cleye.Spec{
		Name: "bad",
		Params: []cleye.Param{
			cleye.Param{Name: "rest", Variadic: true}.WithDefault([]string{"a"}),
		},
	}
	_, err := cleye.Build(spec)
	require.Error(t, err)
	assert.ErrorIs(t, err, cleye.ErrBadParam)
}

func TestBuild_BadDefaultRejected(t *testing.T) {
	spec := cleye.Spec{
		Name: "bad",
		Params: []cleye.Param{
			cleye.Param{Name: "count", Type: cleye.Integer()}.WithDefault("three"),
		},
		Run: func(int64) error { return nil },
	}
	_, err := cleye.Build(spec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an integer")
}

func TestBuild_ChoiceDefaultOutsideSetRejected(t *testing.T) {
	spec := cleye.Spec{
		Name: "render",
		Params: []cleye.Param{
			cleye.Param{Name: "mode", Type: cleye.ChoiceOf("fast", "slow")}.WithDefault("medium"),
		},
		Run: func(string) error { return nil },
	}
	_, err := cleye.Build(spec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not one of")
}

func TestBuild_TuplePositionalConsumesEachMember(t *testing.T) {
	var coords []any
	build := func() *cli.Command {
		cmd, err := cleye.Build(cleye.Spec{
			Name: "point",
			Params: []cleye.Param{
				{Name: "coords", Type: cleye.TupleOf(cleye.Text(), cleye.Integer())},
			},
			Run: func(c []any) error {
				coords = c
				return nil
			},
		})
		require.NoError(t, err)
		return cmd
	}

	require.NoError(t, build().Run(context.Background(), []string{"point", "x", "3"}))
	assert.Equal(t, []any{"x", int64(3)}, coords)

	err := build().Run(context.Background(), []string{"point", "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 2 values")
}

func TestBuild_UsageFallsBackToDescription(t *testing.T) {
	spec := cleye.Spec{
		Name:        "doc",
		Description: "First line.\nMore detail on later lines.",
		Params:      []cleye.Param{{Name: "value"}},
		Run:         func(string) error { return nil },
	}
	cmd, err := cleye.Build(spec)
	require.NoError(t, err)
	assert.Equal(t, "First line.", cmd.Usage)
}

func TestBuild_BeforeAndAfterHooks(t *testing.T) {
	var order []string
	spec := cleye.Spec{
		Name:   "hooked",
		Params: []cleye.Param{{Name: "value"}},
		Run: func(string) error {
			order = append(order, "run")
			return nil
		},
	}
	cmd, err := cleye.Build(spec,
		cleye.WithBefore(func(context.Context, *cli.Command) error {
			order = append(order, "before")
			return nil
		}),
		cleye.WithAfter(func(context.Context, *cli.Command) error {
			order = append(order, "after")
			return nil
		}),
	)
	require.NoError(t, err)

	require.NoError(t, cmd.Run(context.Background(), []string{"hooked", "x"}))
	assert.Equal(t, []string{"before", "run", "after"}, order)
}
