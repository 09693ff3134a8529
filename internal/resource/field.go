package resource

import (
	"strings"
	"unicode"
)

// FieldType is the semantic type of a field as exposed in JSON Schema.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInteger FieldType = "integer"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
	// TypeNumberMap is an object mapping arbitrary string keys to numbers.
	TypeNumberMap FieldType = "number_map"
)

// Field describes one attribute of a resource kind. Required fields have no
// default; Nullable fields accept null and default to it.
type Field struct {
	Name        string
	Description string
	Type        FieldType
	Required    bool
	Nullable    bool
	Default     any
	Minimum     *float64
	Maximum     *float64
}

// Title is the human label derived from the field name ("image_url" -> "Image Url").
func (f Field) Title() string {
	parts := strings.Split(f.Name, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		r := []rune(p)
		r[0] = unicode.ToUpper(r[0])
		parts[i] = string(r)
	}
	return strings.Join(parts, " ")
}

// defaultValue returns a fresh copy of the field default.
func (f Field) defaultValue() any {
	if f.Nullable {
		return nil
	}
	switch d := f.Default.(type) {
	case map[string]any:
		out := make(map[string]any, len(d))
		for k, v := range d {
			out[k] = v
		}
		return out
	default:
		return d
	}
}

func bound(v float64) *float64 { return &v }
