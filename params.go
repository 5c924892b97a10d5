package cleye

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"
)

// ContextParam is the reserved parameter name that never becomes a CLI
// binding. Declaring it marks that the handler receives the command's
// context.Context as its first argument.
const ContextParam = "ctx"

// Param describes one parameter of a command: its identifier, its
// validation type, and its optional default. HasDefault distinguishes "no
// default" from "default is the zero value".
type Param struct {
	Name       string
	Type       *Type // nil means plain text
	Default    any
	HasDefault bool
	Usage      string
	Variadic   bool // collects the remaining positionals, like a Go ...T parameter
}

// WithDefault returns a copy of the parameter with the default set.
func (p Param) WithDefault(v any) Param {
	p.Default = v
	p.HasDefault = true
	return p
}

// bindingKind classifies the CLI element generated for one parameter.
type bindingKind int

const (
	bindFlag     bindingKind = iota // boolean switch, no value slot
	bindOption                      // named option with a default
	bindArgument                    // required positional, exactly one value
	bindVariadic                    // positional accepting zero or more values
)

// binding is the framework-specific configuration produced for one
// parameter: it emits the cli.Flag or cli.Argument and reads the parsed
// value back out of the command.
type binding struct {
	param   Param
	kind    bindingKind
	cliName string
	typ     *Type // mapped validation type; nil means text
}

// toKebabCase converts identifier spellings (camelCase, snake_case) to the
// hyphenated lowercase form used for CLI names.
// Examples: StartTime -> start-time, max_count -> max-count.
func toKebabCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		switch {
		case r == '_':
			result.WriteRune('-')
		case i > 0 && unicode.IsUpper(r):
			result.WriteRune('-')
			result.WriteRune(unicode.ToLower(r))
		default:
			result.WriteRune(unicode.ToLower(r))
		}
	}
	return result.String()
}

// synthesizeBindings turns an ordered parameter list into CLI bindings,
// one per parameter, preserving declaration order. The returned flag
// reports whether a context-passing marker was emitted.
func synthesizeBindings(params []Param) ([]binding, bool, error) {
	seen := make(map[string]struct{}, len(params))
	bindings := make([]binding, 0, len(params))
	wantsContext := false

	for _, p := range params {
		if p.Name == "" {
			return nil, false, fmt.Errorf("%w: empty name", ErrBadParam)
		}
		if _, dup := seen[p.Name]; dup {
			return nil, false, fmt.Errorf("%w: %q", ErrDuplicateParam, p.Name)
		}
		seen[p.Name] = struct{}{}

		if p.Name == ContextParam {
			wantsContext = true
			continue
		}

		t := p.Type
		if !t.supported() {
			return nil, false, fmt.Errorf("parameter %q: %w: %s", p.Name, ErrUnsupportedKind, t.Kind)
		}
		// A variadic parameter is a list of its annotated element type.
		if p.Variadic && (t == nil || t.Kind != KindList) {
			t = ListOf(t)
		}

		b := binding{param: p, cliName: toKebabCase(p.Name), typ: t}
		switch {
		case p.HasDefault:
			if p.Variadic {
				return nil, false, fmt.Errorf("%w: %q is variadic and has a default", ErrBadParam, p.Name)
			}
			if t != nil && t.Kind == KindBool {
				b.kind = bindFlag
			} else {
				b.kind = bindOption
			}
		case t != nil && t.Kind == KindList:
			b.kind = bindVariadic
			b.typ = t.element()
		default:
			b.kind = bindArgument
		}
		if err := b.checkDefault(); err != nil {
			return nil, false, fmt.Errorf("parameter %q: %w", p.Name, err)
		}
		bindings = append(bindings, b)
	}
	return bindings, wantsContext, nil
}

// checkDefault verifies at construction time that the declared default can
// be carried by the flag that will be generated.
func (b *binding) checkDefault() error {
	if b.kind != bindFlag && b.kind != bindOption {
		return nil
	}
	t := b.typ
	if t == nil {
		t = Text()
	}
	switch t.Kind {
	case KindBool:
		_, err := asBool(b.param.Default)
		return err
	case KindInt:
		_, err := asInt64(b.param.Default)
		return err
	case KindIntRange:
		v, err := asInt64(b.param.Default)
		if err != nil {
			return err
		}
		return t.checkIntBounds(v)
	case KindFloat:
		_, err := asFloat64(b.param.Default)
		return err
	case KindFloatRange:
		v, err := asFloat64(b.param.Default)
		if err != nil {
			return err
		}
		return t.checkFloatBounds(v)
	case KindDuration:
		_, err := asDuration(b.param.Default)
		return err
	case KindTimestamp:
		_, err := asTime(b.param.Default, t)
		return err
	case KindTuple:
		tokens, err := asStringSlice(b.param.Default)
		if err != nil {
			return err
		}
		if len(tokens) > 0 && len(tokens) != len(t.Members) {
			return fmt.Errorf("tuple default has %d values, want %d", len(tokens), len(t.Members))
		}
		return nil
	case KindList:
		_, err := asStringSlice(b.param.Default)
		return err
	case KindUUID:
		_, err := asUUIDString(b.param.Default)
		return err
	case KindChoice:
		s, err := asString(b.param.Default)
		if err != nil || b.param.Default == nil {
			return err
		}
		_, err = t.parse(s)
		return err
	default:
		_, err := asString(b.param.Default)
		return err
	}
}

// flag emits the urfave/cli flag for an option or boolean-flag binding.
// Defaults are always rendered in help output.
func (b *binding) flag() (cli.Flag, error) {
	t := b.typ
	if t == nil {
		t = Text()
	}
	usage := b.param.Usage

	switch t.Kind {
	case KindBool:
		v, err := asBool(b.param.Default)
		if err != nil {
			return nil, err
		}
		return &cli.BoolFlag{Name: b.cliName, Usage: usage, Value: v}, nil
	case KindInt:
		v, err := asInt64(b.param.Default)
		if err != nil {
			return nil, err
		}
		return &cli.Int64Flag{Name: b.cliName, Usage: usage, Value: v}, nil
	case KindIntRange:
		v, err := asInt64(b.param.Default)
		if err != nil {
			return nil, err
		}
		return &cli.Int64Flag{
			Name:      b.cliName,
			Usage:     usage,
			Value:     v,
			Validator: t.checkIntBounds,
		}, nil
	case KindFloat:
		v, err := asFloat64(b.param.Default)
		if err != nil {
			return nil, err
		}
		return &cli.FloatFlag{Name: b.cliName, Usage: usage, Value: v}, nil
	case KindFloatRange:
		v, err := asFloat64(b.param.Default)
		if err != nil {
			return nil, err
		}
		return &cli.FloatFlag{
			Name:      b.cliName,
			Usage:     usage,
			Value:     v,
			Validator: t.checkFloatBounds,
		}, nil
	case KindDuration:
		v, err := asDuration(b.param.Default)
		if err != nil {
			return nil, err
		}
		return &cli.DurationFlag{Name: b.cliName, Usage: usage, Value: v}, nil
	case KindTimestamp:
		v, err := asTime(b.param.Default, t)
		if err != nil {
			return nil, err
		}
		layouts := t.Layouts
		if len(layouts) == 0 {
			layouts = defaultTimestampLayouts
		}
		return &cli.TimestampFlag{
			Name:   b.cliName,
			Usage:  usage,
			Value:  v,
			Config: cli.TimestampConfig{Layouts: layouts},
		}, nil
	case KindList:
		vs, err := asStringSlice(b.param.Default)
		if err != nil {
			return nil, err
		}
		elem := t.element()
		return &cli.StringSliceFlag{
			Name:  b.cliName,
			Usage: usage,
			Value: vs,
			Validator: func(tokens []string) error {
				for _, token := range tokens {
					if _, err := elem.parse(token); err != nil {
						return err
					}
				}
				return nil
			},
		}, nil
	case KindTuple:
		vs, err := asStringSlice(b.param.Default)
		if err != nil {
			return nil, err
		}
		return &cli.StringSliceFlag{
			Name:  b.cliName,
			Usage: usage,
			Value: vs,
			Validator: func(tokens []string) error {
				_, err := t.parseTuple(tokens)
				return err
			},
		}, nil
	default:
		// String-carried kinds: text, path, choice, UUID, any.
		var v string
		var err error
		if t.Kind == KindUUID {
			v, err = asUUIDString(b.param.Default)
		} else {
			v, err = asString(b.param.Default)
		}
		if err != nil {
			return nil, err
		}
		f := &cli.StringFlag{Name: b.cliName, Usage: usage, Value: v}
		if t.Kind == KindChoice || t.Kind == KindUUID {
			f.Validator = t.validator()
		}
		if t.Kind == KindChoice {
			f.Usage = strings.TrimSpace(usage + " " + t.metavar())
		}
		return f, nil
	}
}

// argument emits the urfave/cli positional for an argument binding.
// Required singulars use Min 0 so that zero-argument invocations reach the
// help-by-default path; presence is enforced in the action prelude.
func (b *binding) argument() cli.Argument {
	switch {
	case b.kind == bindVariadic:
		return &cli.StringArgs{Name: b.cliName, Min: 0, Max: -1, UsageText: b.typ.metavar()}
	case b.typ != nil && b.typ.Kind == KindTuple:
		// A tuple positional consumes one token per member.
		return &cli.StringArgs{Name: b.cliName, Min: 0, Max: len(b.typ.Members), UsageText: b.typ.metavar()}
	default:
		return &cli.StringArgs{Name: b.cliName, Min: 0, Max: 1, UsageText: b.typ.metavar()}
	}
}

// read extracts the parsed, coerced Go value for this binding from the
// command after the framework has parsed argv.
func (b *binding) read(cmd *cli.Command) (any, error) {
	t := b.typ
	if t == nil {
		t = Text()
	}
	switch b.kind {
	case bindFlag:
		return cmd.Bool(b.cliName), nil
	case bindOption:
		return b.readOption(cmd, t)
	case bindArgument:
		tokens := cmd.StringArgs(b.cliName)
		if len(tokens) == 0 {
			return nil, fmt.Errorf("missing required argument %q", strings.ToUpper(b.cliName))
		}
		if t.Kind == KindTuple {
			vs, err := t.parseTuple(tokens)
			if err != nil {
				return nil, fmt.Errorf("argument %q: %w", b.cliName, err)
			}
			return vs, nil
		}
		v, err := t.parse(tokens[0])
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", b.cliName, err)
		}
		return v, nil
	case bindVariadic:
		vs, err := coerceSlice(t, cmd.StringArgs(b.cliName))
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", b.cliName, err)
		}
		return vs, nil
	}
	return nil, fmt.Errorf("%w: unknown binding", ErrBadParam)
}

func (b *binding) readOption(cmd *cli.Command, t *Type) (any, error) {
	switch t.Kind {
	case KindBool:
		return cmd.Bool(b.cliName), nil
	case KindInt, KindIntRange:
		return cmd.Int64(b.cliName), nil
	case KindFloat, KindFloatRange:
		return cmd.Float(b.cliName), nil
	case KindDuration:
		return cmd.Duration(b.cliName), nil
	case KindTimestamp:
		return cmd.Timestamp(b.cliName), nil
	case KindUUID:
		s := cmd.String(b.cliName)
		if s == "" {
			return uuid.UUID{}, nil
		}
		v, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("option %q: %w", b.cliName, err)
		}
		return v, nil
	case KindList:
		vs, err := coerceSlice(t.element(), cmd.StringSlice(b.cliName))
		if err != nil {
			return nil, fmt.Errorf("option %q: %w", b.cliName, err)
		}
		return vs, nil
	case KindTuple:
		vs, err := t.parseTuple(cmd.StringSlice(b.cliName))
		if err != nil {
			return nil, fmt.Errorf("option %q: %w", b.cliName, err)
		}
		return vs, nil
	default:
		return cmd.String(b.cliName), nil
	}
}

// coerceSlice parses tokens element-wise into a concretely-typed slice.
func coerceSlice(elem *Type, tokens []string) (any, error) {
	if elem == nil {
		elem = Text()
	}
	switch elem.Kind {
	case KindBool:
		out := make([]bool, 0, len(tokens))
		for _, token := range tokens {
			v, err := elem.parse(token)
			if err != nil {
				return nil, err
			}
			out = append(out, v.(bool))
		}
		return out, nil
	case KindInt, KindIntRange:
		out := make([]int64, 0, len(tokens))
		for _, token := range tokens {
			v, err := elem.parse(token)
			if err != nil {
				return nil, err
			}
			out = append(out, v.(int64))
		}
		return out, nil
	case KindFloat, KindFloatRange:
		out := make([]float64, 0, len(tokens))
		for _, token := range tokens {
			v, err := elem.parse(token)
			if err != nil {
				return nil, err
			}
			out = append(out, v.(float64))
		}
		return out, nil
	case KindDuration:
		out := make([]time.Duration, 0, len(tokens))
		for _, token := range tokens {
			v, err := elem.parse(token)
			if err != nil {
				return nil, err
			}
			out = append(out, v.(time.Duration))
		}
		return out, nil
	case KindTimestamp:
		out := make([]time.Time, 0, len(tokens))
		for _, token := range tokens {
			v, err := elem.parse(token)
			if err != nil {
				return nil, err
			}
			out = append(out, v.(time.Time))
		}
		return out, nil
	case KindUUID:
		out := make([]uuid.UUID, 0, len(tokens))
		for _, token := range tokens {
			v, err := elem.parse(token)
			if err != nil {
				return nil, err
			}
			out = append(out, v.(uuid.UUID))
		}
		return out, nil
	default:
		out := make([]string, 0, len(tokens))
		for _, token := range tokens {
			if _, err := elem.parse(token); err != nil {
				return nil, err
			}
			out = append(out, token)
		}
		return out, nil
	}
}
