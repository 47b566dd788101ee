package graphql

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/heartmarshall/contracthub-backend/internal/domain"
)

// force dereferences optional scalars such as the *string descriptions
// introspection hands out.
func force(v any) any {
	switch p := v.(type) {
	case *string:
		if p != nil {
			return *p
		}
	case *bool:
		if p != nil {
			return *p
		}
	}
	return v
}

func isNull(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map:
		return rv.IsNil()
	}
	return false
}

func asMap(v any) (map[string]any, bool) {
	switch x := v.(type) {
	case domain.Document:
		return x, true
	case map[string]any:
		return x, true
	}
	return nil, false
}

// asList accepts any slice; documents come back as []domain.Document from
// services and as []any after a cache round trip.
func asList(v any) ([]any, bool) {
	if l, ok := v.([]any); ok {
		return l, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func serializeScalar(name string, v any) (any, error) {
	switch name {
	case "String", "ID":
		switch x := v.(type) {
		case string:
			return x, nil
		case fmt.Stringer:
			return x.String(), nil
		}
		return fmt.Sprint(v), nil

	case "Int":
		n, ok := intValue(v)
		if !ok || n < math.MinInt32 || n > math.MaxInt32 {
			return nil, fmt.Errorf("cannot represent %v as Int", v)
		}
		return n, nil

	case "Float":
		switch x := v.(type) {
		case float64:
			return x, nil
		case json.Number:
			return x.Float64()
		}
		if n, ok := intValue(v); ok {
			return float64(n), nil
		}
		return nil, fmt.Errorf("cannot represent %v as Float", v)

	case "Boolean":
		if b, ok := v.(bool); ok {
			return b, nil
		}
		return nil, fmt.Errorf("cannot represent %v as Boolean", v)

	case "Timestamp":
		switch x := v.(type) {
		case time.Time:
			return x.UTC().Format(time.RFC3339Nano), nil
		case *time.Time:
			return x.UTC().Format(time.RFC3339Nano), nil
		case string:
			return x, nil
		}
		return nil, fmt.Errorf("cannot represent %v as Timestamp", v)
	}
	return v, nil
}

func intValue(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return int64(x), true
	case json.Number:
		n, err := x.Int64()
		return n, err == nil
	}
	rv := reflect.ValueOf(v)
	if rv.IsValid() && rv.CanInt() {
		// Named integer types such as domain.RenewalPeriod.
		return rv.Int(), true
	}
	return 0, false
}
