package cleye

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind enumerates the closed set of input-validation types a parameter can
// declare. Anything outside this set is rejected at construction time rather
// than silently treated as text.
type Kind int

const (
	// KindString is plain text with no validation.
	KindString Kind = iota
	// KindBool parses "true"/"false" style tokens; with a default it renders
	// as a boolean flag with no value slot.
	KindBool
	// KindInt parses base-10 integers.
	KindInt
	// KindFloat parses decimal numbers.
	KindFloat
	// KindDuration parses Go duration strings such as "250ms" or "1h30m".
	KindDuration
	// KindTimestamp parses date/time tokens against a set of layouts.
	KindTimestamp
	// KindUUID parses RFC 4122 identifiers.
	KindUUID
	// KindPath is a filesystem path; validated as text, kept distinct so
	// shells and generated docs can treat it as a file.
	KindPath
	// KindChoice restricts the token to an enumerated set of values.
	KindChoice
	// KindIntRange parses an integer and checks it against inclusive bounds.
	KindIntRange
	// KindFloatRange parses a decimal and checks it against inclusive bounds.
	KindFloatRange
	// KindTuple is a fixed-arity sequence of member types, supplied as one
	// value per member.
	KindTuple
	// KindList is a homogeneous sequence of its element type. Without a
	// default it becomes a variadic positional.
	KindList
	// KindAny is the unconstrained marker: no validation, treated as text.
	KindAny
)

var kindNames = map[Kind]string{
	KindString:     "string",
	KindBool:       "bool",
	KindInt:        "int",
	KindFloat:      "float",
	KindDuration:   "duration",
	KindTimestamp:  "timestamp",
	KindUUID:       "uuid",
	KindPath:       "path",
	KindChoice:     "choice",
	KindIntRange:   "range",
	KindFloatRange: "frange",
	KindTuple:      "tuple",
	KindList:       "list",
	KindAny:        "any",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// defaultTimestampLayouts are tried in order when parsing timestamp tokens.
var defaultTimestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Type is the validation descriptor attached to one parameter. The zero
// value is plain text.
type Type struct {
	Kind     Kind
	Elem     *Type    // element type for KindList
	Members  []*Type  // member types for KindTuple
	Choices  []string // allowed values for KindChoice
	IntMin   int64    // inclusive bounds for KindIntRange
	IntMax   int64
	FloatMin float64 // inclusive bounds for KindFloatRange
	FloatMax float64
	Layouts  []string // timestamp layouts for KindTimestamp
}

// Text returns the plain-text type.
func Text() *Type { return &Type{Kind: KindString} }

// Boolean returns the boolean type.
func Boolean() *Type { return &Type{Kind: KindBool} }

// Integer returns the base-10 integer type.
func Integer() *Type { return &Type{Kind: KindInt} }

// Decimal returns the floating-point type.
func Decimal() *Type { return &Type{Kind: KindFloat} }

// DurationOf returns the Go duration type.
func DurationOf() *Type { return &Type{Kind: KindDuration} }

// DateTime returns the timestamp type. With no layouts the defaults
// (RFC 3339 plus common date and date-time spellings) are used.
func DateTime(layouts ...string) *Type {
	if len(layouts) == 0 {
		layouts = defaultTimestampLayouts
	}
	return &Type{Kind: KindTimestamp, Layouts: layouts}
}

// UUIDv4 returns the UUID type.
func UUIDv4() *Type { return &Type{Kind: KindUUID} }

// FilePath returns the filesystem-path type.
func FilePath() *Type { return &Type{Kind: KindPath} }

// ChoiceOf returns an enumerated-choice type over the given values.
func ChoiceOf(values ...string) *Type {
	return &Type{Kind: KindChoice, Choices: values}
}

// IntRangeOf returns a bounded-integer type with inclusive bounds.
func IntRangeOf(min, max int64) *Type {
	return &Type{Kind: KindIntRange, IntMin: min, IntMax: max}
}

// FloatRangeOf returns a bounded-decimal type with inclusive bounds.
func FloatRangeOf(min, max float64) *Type {
	return &Type{Kind: KindFloatRange, FloatMin: min, FloatMax: max}
}

// TupleOf returns a fixed-arity tuple type over the given member types.
func TupleOf(members ...*Type) *Type {
	return &Type{Kind: KindTuple, Members: members}
}

// ListOf returns a list type over the given element type. A nil element
// means text.
func ListOf(elem *Type) *Type {
	return &Type{Kind: KindList, Elem: elem}
}

// AnyType returns the unconstrained marker type.
func AnyType() *Type { return &Type{Kind: KindAny} }

// element returns the list's element type, defaulting to text. Mirrors the
// upstream rule that a bare list is a list of text.
func (t *Type) element() *Type {
	if t == nil || t.Elem == nil {
		return Text()
	}
	return t.Elem
}

// metavar is the placeholder shown in usage text for one value of this type.
func (t *Type) metavar() string {
	if t == nil {
		return "TEXT"
	}
	switch t.Kind {
	case KindString, KindAny:
		return "TEXT"
	case KindChoice:
		return "[" + strings.Join(t.Choices, "|") + "]"
	case KindIntRange:
		return fmt.Sprintf("[%d..%d]", t.IntMin, t.IntMax)
	case KindFloatRange:
		return fmt.Sprintf("[%g..%g]", t.FloatMin, t.FloatMax)
	default:
		return strings.ToUpper(t.Kind.String())
	}
}

// parse coerces one string token into the Go value for this type. First
// match over the closed kind set wins; an unknown kind is a construction
// bug and reports ErrUnsupportedKind.
//
// Go value mapping: string/path/choice/any -> string, bool -> bool,
// int/range -> int64, float/frange -> float64, duration -> time.Duration,
// timestamp -> time.Time, uuid -> uuid.UUID.
func (t *Type) parse(token string) (any, error) {
	if t == nil {
		return token, nil
	}
	switch t.Kind {
	case KindString, KindPath, KindAny:
		return token, nil
	case KindBool:
		v, err := strconv.ParseBool(token)
		if err != nil {
			return nil, fmt.Errorf("%q is not a boolean", token)
		}
		return v, nil
	case KindInt:
		v, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", token)
		}
		return v, nil
	case KindIntRange:
		v, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", token)
		}
		if err := t.checkIntBounds(v); err != nil {
			return nil, err
		}
		return v, nil
	case KindFloat:
		v, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", token)
		}
		return v, nil
	case KindFloatRange:
		v, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", token)
		}
		if err := t.checkFloatBounds(v); err != nil {
			return nil, err
		}
		return v, nil
	case KindDuration:
		v, err := time.ParseDuration(token)
		if err != nil {
			return nil, fmt.Errorf("%q is not a duration", token)
		}
		return v, nil
	case KindTimestamp:
		layouts := t.Layouts
		if len(layouts) == 0 {
			layouts = defaultTimestampLayouts
		}
		for _, layout := range layouts {
			if v, err := time.Parse(layout, token); err == nil {
				return v, nil
			}
		}
		return nil, fmt.Errorf("%q does not match any of the layouts %v", token, layouts)
	case KindUUID:
		v, err := uuid.Parse(token)
		if err != nil {
			return nil, fmt.Errorf("%q is not a UUID", token)
		}
		return v, nil
	case KindChoice:
		for _, choice := range t.Choices {
			if token == choice {
				return token, nil
			}
		}
		return nil, fmt.Errorf("%q is not one of %s", token, strings.Join(t.Choices, ", "))
	case KindList:
		// Lists are consumed element-wise by their binding; parsing a single
		// token parses one element.
		return t.element().parse(token)
	case KindTuple:
		return nil, fmt.Errorf("tuple values are supplied one member at a time")
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, t.Kind)
	}
}

// parseTuple coerces a fixed-arity slice of tokens against the tuple's
// member types.
func (t *Type) parseTuple(tokens []string) ([]any, error) {
	if len(tokens) != len(t.Members) {
		return nil, fmt.Errorf("expected %d values, got %d", len(t.Members), len(tokens))
	}
	out := make([]any, len(tokens))
	for i, token := range tokens {
		v, err := t.Members[i].parse(token)
		if err != nil {
			return nil, fmt.Errorf("member %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// validator returns the token validation function handed to urfave/cli for
// string-carried values. Typed flags (int, float, bool, duration,
// timestamp) parse natively and only need the bounds checks below.
func (t *Type) validator() func(string) error {
	return func(token string) error {
		_, err := t.parse(token)
		return err
	}
}

func (t *Type) checkIntBounds(v int64) error {
	if v < t.IntMin || v > t.IntMax {
		return fmt.Errorf("%d is not in the range %d..%d", v, t.IntMin, t.IntMax)
	}
	return nil
}

func (t *Type) checkFloatBounds(v float64) error {
	if v < t.FloatMin || v > t.FloatMax {
		return fmt.Errorf("%g is not in the range %g..%g", v, t.FloatMin, t.FloatMax)
	}
	return nil
}

// supported reports whether the kind, and every nested element and member
// kind, belongs to the closed dispatch set.
func (t *Type) supported() bool {
	if t == nil {
		return true
	}
	if _, ok := kindNames[t.Kind]; !ok {
		return false
	}
	if !t.Elem.supported() {
		return false
	}
	for _, m := range t.Members {
		if !m.supported() {
			return false
		}
	}
	return true
}
