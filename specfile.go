package cleye

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// The YAML spec document: a declarative, bodyless command definition.
//
//	name: greet
//	usage: Print a greeting
//	params:
//	  - name: name
//	    type: string
//	  - name: shout
//	    type: bool
//	    default: false
//	  - name: count
//	    type: range(1, 10)
//	    default: 1
type specDocument struct {
	Name        string          `yaml:"name"`
	Usage       string          `yaml:"usage"`
	Description string          `yaml:"description"`
	Params      []paramDocument `yaml:"params"`
}

type paramDocument struct {
	Name     string    `yaml:"name"`
	Type     string    `yaml:"type"`
	Default  yaml.Node `yaml:"default"`
	Usage    string    `yaml:"usage"`
	Variadic bool      `yaml:"variadic"`
}

// LoadSpec parses a YAML spec document into a Spec. The result has no
// handler; attach one to Run before handing it to App, or leave it bodyless
// for a declaration-only command.
func LoadSpec(r io.Reader) (*Spec, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read spec: %w", err)
	}
	var doc specDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid spec YAML: %w", err)
	}
	if doc.Name == "" {
		return nil, fmt.Errorf("spec document has no name")
	}

	spec := &Spec{Name: doc.Name, Usage: doc.Usage, Description: doc.Description}
	for _, p := range doc.Params {
		t, err := ParseType(p.Type)
		if err != nil {
			return nil, fmt.Errorf("param %q: %w", p.Name, err)
		}
		param := Param{Name: p.Name, Type: t, Usage: p.Usage, Variadic: p.Variadic}
		if !p.Default.IsZero() {
			var def any
			if err := p.Default.Decode(&def); err != nil {
				return nil, fmt.Errorf("param %q: invalid default: %w", p.Name, err)
			}
			param = param.WithDefault(def)
		}
		spec.Params = append(spec.Params, param)
	}
	return spec, nil
}

// LoadSpecFile parses the YAML spec document at path.
func LoadSpecFile(path string) (*Spec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spec file: %w", err)
	}
	defer f.Close()
	spec, err := LoadSpec(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return spec, nil
}

// ParseType resolves a type spelling from a spec document into a Type.
// Supported spellings: string/text, bool, int, float, duration,
// timestamp/datetime, uuid, path, any, list[ELEM], choice(a,b,c),
// range(lo,hi), frange(lo,hi), tuple(T1,T2,...). An empty spelling means
// plain text (nil Type).
func ParseType(s string) (*Type, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return nil, nil
	case "string", "text":
		return Text(), nil
	case "bool":
		return Boolean(), nil
	case "int":
		return Integer(), nil
	case "float":
		return Decimal(), nil
	case "duration":
		return DurationOf(), nil
	case "timestamp", "datetime":
		return DateTime(), nil
	case "uuid":
		return UUIDv4(), nil
	case "path":
		return FilePath(), nil
	case "any":
		return AnyType(), nil
	case "list":
		return ListOf(nil), nil
	}

	if inner, ok := bracketed(s, "list[", "]"); ok {
		elem, err := ParseType(inner)
		if err != nil {
			return nil, err
		}
		return ListOf(elem), nil
	}
	if inner, ok := bracketed(s, "choice(", ")"); ok {
		values := splitArgs(inner)
		if len(values) == 0 {
			return nil, fmt.Errorf("choice needs at least one value")
		}
		return ChoiceOf(values...), nil
	}
	if inner, ok := bracketed(s, "range(", ")"); ok {
		lo, hi, err := parseBounds(inner)
		if err != nil {
			return nil, fmt.Errorf("range: %w", err)
		}
		return IntRangeOf(lo, hi), nil
	}
	if inner, ok := bracketed(s, "frange(", ")"); ok {
		lo, hi, err := parseFloatBounds(inner)
		if err != nil {
			return nil, fmt.Errorf("frange: %w", err)
		}
		return FloatRangeOf(lo, hi), nil
	}
	if inner, ok := bracketed(s, "tuple(", ")"); ok {
		var members []*Type
		for _, arg := range splitArgs(inner) {
			member, err := ParseType(arg)
			if err != nil {
				return nil, err
			}
			if member == nil {
				member = Text()
			}
			members = append(members, member)
		}
		if len(members) == 0 {
			return nil, fmt.Errorf("tuple needs at least one member")
		}
		return TupleOf(members...), nil
	}

	return nil, fmt.Errorf("%w: unknown type spelling %q", ErrUnsupportedKind, s)
}

func bracketed(s, prefix, suffix string) (string, bool) {
	if strings.HasPrefix(s, prefix) && strings.HasSuffix(s, suffix) {
		return s[len(prefix) : len(s)-len(suffix)], true
	}
	return "", false
}

func splitArgs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		out = append(out, strings.TrimSpace(part))
	}
	return out
}

func parseBounds(s string) (int64, int64, error) {
	args := splitArgs(s)
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("want two bounds, got %d", len(args))
	}
	lo, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%q is not an integer", args[0])
	}
	hi, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%q is not an integer", args[1])
	}
	return lo, hi, nil
}

func parseFloatBounds(s string) (float64, float64, error) {
	args := splitArgs(s)
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("want two bounds, got %d", len(args))
	}
	lo, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%q is not a number", args[0])
	}
	hi, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%q is not a number", args[1])
	}
	return lo, hi, nil
}
