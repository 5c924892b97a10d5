package cleye

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Coercions for declared default values. Defaults arrive as whatever the
// caller (or a YAML document) supplied, so each flag kind accepts the
// reasonable spellings of its value and rejects the rest at construction
// time.

func asBool(v any) (bool, error) {
	if v == nil {
		return false, nil
	}
	if b, ok := v.(bool); ok {
		return b, nil
	}
	return false, fmt.Errorf("default %v (%T) is not a bool", v, v)
}

func asInt64(v any) (int64, error) {
	if v == nil {
		return 0, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint()), nil
	}
	return 0, fmt.Errorf("default %v (%T) is not an integer", v, v)
}

func asFloat64(v any) (float64, error) {
	if v == nil {
		return 0, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	}
	return 0, fmt.Errorf("default %v (%T) is not a number", v, v)
}

func asString(v any) (string, error) {
	switch s := v.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	case fmt.Stringer:
		return s.String(), nil
	}
	return "", fmt.Errorf("default %v (%T) is not a string", v, v)
}

func asDuration(v any) (time.Duration, error) {
	switch d := v.(type) {
	case nil:
		return 0, nil
	case time.Duration:
		return d, nil
	case string:
		parsed, err := time.ParseDuration(d)
		if err != nil {
			return 0, fmt.Errorf("default %q is not a duration", d)
		}
		return parsed, nil
	}
	return 0, fmt.Errorf("default %v (%T) is not a duration", v, v)
}

func asTime(v any, t *Type) (time.Time, error) {
	switch ts := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return ts, nil
	case string:
		parsed, err := t.parse(ts)
		if err != nil {
			return time.Time{}, err
		}
		return parsed.(time.Time), nil
	}
	return time.Time{}, fmt.Errorf("default %v (%T) is not a timestamp", v, v)
}

func asUUIDString(v any) (string, error) {
	switch id := v.(type) {
	case nil:
		return "", nil
	case uuid.UUID:
		return id.String(), nil
	case string:
		if _, err := uuid.Parse(id); err != nil {
			return "", fmt.Errorf("default %q is not a UUID", id)
		}
		return id, nil
	}
	return "", fmt.Errorf("default %v (%T) is not a UUID", v, v)
}

func asStringSlice(v any) ([]string, error) {
	switch vs := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return vs, nil
	case []any:
		out := make([]string, len(vs))
		for i, item := range vs {
			out[i] = fmt.Sprint(item)
		}
		return out, nil
	}
	return nil, fmt.Errorf("default %v (%T) is not a value list", v, v)
}
