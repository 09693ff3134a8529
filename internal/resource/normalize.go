package resource

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	errx "github.com/ecommerce-admin/server/internal/core/error"
)

// Normalize converts json.Number values produced by a UseNumber decoder
// into int64 when integral and float64 otherwise, recursing into objects
// and arrays. Free-form update payloads go through it before storage.
// Numbers outside the float64 range are reported as validation issues.
func Normalize(value any) (any, error) {
	var issues []errx.Issue
	out := normalizeAt(value, "#", &issues)
	if len(issues) > 0 {
		return nil, errx.Validation(issues...)
	}
	return out, nil
}

func normalizeAt(value any, location string, issues *[]errx.Issue) any {
	switch typed := value.(type) {
	case json.Number:
		if n, err := typed.Int64(); err == nil {
			return n
		}
		if f, err := typed.Float64(); err == nil {
			return f
		}
		*issues = append(*issues, errx.Issue{Location: location, Message: fmt.Sprintf("number %s is out of range", typed)})
		return nil
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, v := range typed {
			out[k] = normalizeAt(v, location+"/"+k, issues)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, v := range typed {
			out[i] = normalizeAt(v, location+"/"+strconv.Itoa(i), issues)
		}
		return out
	default:
		return value
	}
}

func toInt64(value any) (int64, bool) {
	switch n := value.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil || f != math.Trunc(f) {
			return 0, false
		}
		return int64(f), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	}
	return 0, false
}

func toFloat64(value any) (float64, bool) {
	switch n := value.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
