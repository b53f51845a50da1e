package parse

import (
	"github.com/dwoolworth/sqlpipe/errkind"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// asDocument coerces arg into a bson.D, accepting the map forms too so
// a stage/expression parser never has to type-switch more than once.
func asDocument(op string, arg any) (bson.D, error) {
	switch v := arg.(type) {
	case bson.D:
		return v, nil
	case bson.M:
		out := make(bson.D, 0, len(v))
		for k, val := range v {
			out = append(out, bson.E{Key: k, Value: val})
		}
		return out, nil
	case map[string]any:
		out := make(bson.D, 0, len(v))
		for k, val := range v {
			out = append(out, bson.E{Key: k, Value: val})
		}
		return out, nil
	default:
		return nil, &errkind.InvalidArgument{Operator: op, Message: "expected a document argument"}
	}
}

// asArray coerces arg into a []any.
func asArray(op string, arg any) ([]any, error) {
	switch v := arg.(type) {
	case bson.A:
		return []any(v), nil
	case []any:
		return v, nil
	default:
		return nil, &errkind.InvalidArgument{Operator: op, Message: "expected an array argument"}
	}
}

// asString coerces arg into a string.
func asString(op string, arg any) (string, error) {
	s, ok := arg.(string)
	if !ok {
		return "", &errkind.InvalidArgument{Operator: op, Message: "expected a string argument"}
	}
	return s, nil
}

// asInt64 coerces arg into an int64, accepting every BSON numeric width.
func asInt64(op string, arg any) (int64, error) {
	switch v := arg.(type) {
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	case float32:
		return int64(v), nil
	default:
		return 0, &errkind.InvalidArgument{Operator: op, Message: "expected a numeric argument"}
	}
}

// asBool coerces arg into a bool.
func asBool(op string, arg any) (bool, error) {
	b, ok := arg.(bool)
	if !ok {
		return false, &errkind.InvalidArgument{Operator: op, Message: "expected a boolean argument"}
	}
	return b, nil
}

// field looks up key in doc, reporting ok=false when absent.
func field(doc bson.D, key string) (any, bool) {
	for _, e := range doc {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// requireField looks up a required key, erroring for op when absent.
func requireField(op string, doc bson.D, key string) (any, error) {
	v, ok := field(doc, key)
	if !ok {
		return nil, &errkind.InvalidArgument{Operator: op, Message: "missing required field " + key}
	}
	return v, nil
}
