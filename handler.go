package cleye

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"
)

var (
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
)

// handler adapts a user function to the bindings synthesized from the
// declared parameters. The adaptation is checked once, at construction,
// so a mismatched signature fails before the program starts taking input.
type handler struct {
	fn       reflect.Value
	wantsCtx bool
	variadic bool
}

// newHandler validates fn against the bindings. fn takes an optional
// leading context.Context (required when a "ctx" parameter was declared),
// then one argument per binding in declaration order, and returns error or
// nothing. The final argument may be variadic when the final binding is a
// variadic positional.
func newHandler(fn any, bindings []binding, wantsContext bool) (*handler, error) {
	if fn == nil {
		return nil, nil
	}
	fv := reflect.ValueOf(fn)
	ft := fv.Type()
	if ft.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: %T is not a function", ErrHandlerSignature, fn)
	}

	switch ft.NumOut() {
	case 0:
	case 1:
		if !ft.Out(0).Implements(errorType) {
			return nil, fmt.Errorf("%w: return type %s is not error", ErrHandlerSignature, ft.Out(0))
		}
	default:
		return nil, fmt.Errorf("%w: at most one return value allowed", ErrHandlerSignature)
	}

	offset := 0
	takesCtx := ft.NumIn() > 0 && ft.In(0) == contextType
	if wantsContext && !takesCtx {
		return nil, fmt.Errorf("%w: a ctx parameter was declared but the first argument is not context.Context", ErrHandlerSignature)
	}
	if takesCtx {
		offset = 1
	}

	if ft.NumIn()-offset != len(bindings) {
		return nil, fmt.Errorf("%w: function takes %d value arguments, %d parameters declared",
			ErrHandlerSignature, ft.NumIn()-offset, len(bindings))
	}

	for i, b := range bindings {
		in := ft.In(offset + i)
		if ft.IsVariadic() && offset+i == ft.NumIn()-1 {
			if b.kind != bindVariadic {
				return nil, fmt.Errorf("%w: argument %q is variadic but parameter %q is not a list",
					ErrHandlerSignature, in, b.param.Name)
			}
			// The variadic tail is typed as a slice of its element type.
		}
		if !compatible(b.staticType(), in) {
			return nil, fmt.Errorf("%w: parameter %q yields %s, function wants %s",
				ErrHandlerSignature, b.param.Name, b.staticType(), in)
		}
	}

	return &handler{fn: fv, wantsCtx: takesCtx, variadic: ft.IsVariadic()}, nil
}

// invoke reads every binding's parsed value, coerces it to the function's
// argument type, and calls the function.
func (h *handler) invoke(ctx context.Context, cmd *cli.Command, bindings []binding) error {
	ft := h.fn.Type()
	args := make([]reflect.Value, 0, ft.NumIn())
	offset := 0
	if h.wantsCtx {
		args = append(args, reflect.ValueOf(ctx))
		offset = 1
	}

	for i, b := range bindings {
		v, err := b.read(cmd)
		if err != nil {
			return err
		}
		target := ft.In(offset + i)
		if h.variadic && offset+i == ft.NumIn()-1 {
			// Flatten the variadic tail into individual arguments.
			elem := target.Elem()
			sv := reflect.ValueOf(v)
			for j := 0; j < sv.Len(); j++ {
				cv, err := coerceValue(sv.Index(j).Interface(), elem)
				if err != nil {
					return fmt.Errorf("argument %q: %w", b.param.Name, err)
				}
				args = append(args, cv)
			}
			continue
		}
		cv, err := coerceValue(v, target)
		if err != nil {
			return fmt.Errorf("argument %q: %w", b.param.Name, err)
		}
		args = append(args, cv)
	}

	results := h.fn.Call(args)
	if len(results) == 1 {
		if err, _ := results[0].Interface().(error); err != nil {
			return err
		}
	}
	return nil
}

// staticType is the dynamic Go type a binding's read produces.
func (b *binding) staticType() reflect.Type {
	t := b.typ
	if t == nil {
		t = Text()
	}
	if b.kind == bindVariadic {
		return reflect.SliceOf(scalarType(t))
	}
	if b.kind == bindFlag {
		return reflect.TypeOf(false)
	}
	switch t.Kind {
	case KindList:
		return reflect.SliceOf(scalarType(t.element()))
	case KindTuple:
		return reflect.TypeOf([]any(nil))
	default:
		return scalarType(t)
	}
}

func scalarType(t *Type) reflect.Type {
	switch t.Kind {
	case KindBool:
		return reflect.TypeOf(false)
	case KindInt, KindIntRange:
		return reflect.TypeOf(int64(0))
	case KindFloat, KindFloatRange:
		return reflect.TypeOf(float64(0))
	case KindDuration:
		return reflect.TypeOf(time.Duration(0))
	case KindTimestamp:
		return reflect.TypeOf(time.Time{})
	case KindUUID:
		return reflect.TypeOf(uuid.UUID{})
	default:
		return reflect.TypeOf("")
	}
}

// compatible reports whether a produced type can be handed to a function
// argument of the target type: assignable, numeric widening/narrowing
// within the same genre, or element-wise the same for slices. String and
// numeric types never cross-convert.
func compatible(from, to reflect.Type) bool {
	if from.AssignableTo(to) {
		return true
	}
	if from.Kind() == reflect.Slice && to.Kind() == reflect.Slice {
		return compatible(from.Elem(), to.Elem())
	}
	return numericGenre(from.Kind()) != genreNone && numericGenre(from.Kind()) == numericGenre(to.Kind())
}

type genre int

const (
	genreNone genre = iota
	genreInt
	genreFloat
)

func numericGenre(k reflect.Kind) genre {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return genreInt
	case reflect.Float32, reflect.Float64:
		return genreFloat
	}
	return genreNone
}

// coerceValue converts a parsed value to the target argument type under
// the rules compatible allows.
func coerceValue(v any, target reflect.Type) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return reflect.Zero(target), nil
	}
	if rv.Type().AssignableTo(target) {
		return rv, nil
	}
	if rv.Kind() == reflect.Slice && target.Kind() == reflect.Slice {
		out := reflect.MakeSlice(target, rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			ev, err := coerceValue(rv.Index(i).Interface(), target.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			out.Index(i).Set(ev)
		}
		return out, nil
	}
	if compatible(rv.Type(), target) {
		return rv.Convert(target), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use %T as %s", v, target)
}
