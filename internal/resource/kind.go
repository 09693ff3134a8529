package resource

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	errx "github.com/ecommerce-admin/server/internal/core/error"
	"github.com/ecommerce-admin/server/internal/model"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// Kind is a resource stored in its own collection and described by a static
// field table. The table drives validation, defaults and the published schema.
type Kind struct {
	Name        string
	Title       string
	Description string
	Fields      []Field

	once     sync.Once
	compiled *jsonschema.Schema
	err      error
}

// Collection is the name of the collection holding this kind.
func (k *Kind) Collection() string { return k.Name }

// JSONSchema describes the kind for consumers building generic editors.
func (k *Kind) JSONSchema() map[string]any {
	properties := make(map[string]any, len(k.Fields))
	required := make([]any, 0)
	for _, f := range k.Fields {
		properties[f.Name] = fieldSchema(f)
		if f.Required {
			required = append(required, f.Name)
		}
	}
	schema := map[string]any{
		"title":      k.Title,
		"type":       "object",
		"properties": properties,
	}
	if k.Description != "" {
		schema["description"] = k.Description
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func fieldSchema(f Field) map[string]any {
	typed := map[string]any{}
	switch f.Type {
	case TypeNumberMap:
		typed["type"] = "object"
		typed["additionalProperties"] = map[string]any{"type": "number"}
	default:
		typed["type"] = string(f.Type)
	}
	if f.Minimum != nil {
		typed["minimum"] = *f.Minimum
	}
	if f.Maximum != nil {
		typed["maximum"] = *f.Maximum
	}

	var out map[string]any
	if f.Nullable {
		out = map[string]any{
			"anyOf":   []any{typed, map[string]any{"type": "null"}},
			"default": nil,
		}
	} else {
		out = typed
		if !f.Required {
			out["default"] = f.defaultValue()
		}
	}
	out["title"] = f.Title()
	if f.Description != "" {
		out["description"] = f.Description
	}
	return out
}

func (k *Kind) schema() (*jsonschema.Schema, error) {
	k.once.Do(func() {
		encoded, err := json.Marshal(k.JSONSchema())
		if err != nil {
			k.err = err
			return
		}
		url := k.Name + ".json"
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(url, bytes.NewReader(encoded)); err != nil {
			k.err = err
			return
		}
		k.compiled, k.err = compiler.Compile(url)
	})
	return k.compiled, k.err
}

// Validate checks a decoded JSON payload against the kind and returns the
// document to store: every declared field present, defaults applied,
// numbers converted and undeclared fields dropped.
func (k *Kind) Validate(payload any) (model.Document, error) {
	compiled, err := k.schema()
	if err != nil {
		return nil, fmt.Errorf("compile %s schema: %w", k.Name, err)
	}
	if err := compiled.Validate(payload); err != nil {
		return nil, errx.Validation(issues(err)...)
	}

	in, _ := payload.(map[string]any)
	doc := make(model.Document, len(k.Fields))
	var problems []errx.Issue
	for _, f := range k.Fields {
		value, ok := in[f.Name]
		if !ok {
			doc[f.Name] = f.defaultValue()
			continue
		}
		converted, issue := convert(f, value)
		if issue != nil {
			problems = append(problems, *issue)
			continue
		}
		doc[f.Name] = converted
	}
	if len(problems) > 0 {
		return nil, errx.Validation(problems...)
	}
	return doc, nil
}

// convert maps decoded JSON numbers onto the field's Go type. Numbers the
// schema accepted but float64 cannot hold come back as an issue.
func convert(f Field, value any) (any, *errx.Issue) {
	if value == nil {
		return nil, nil
	}
	location := "#/" + f.Name
	switch f.Type {
	case TypeInteger:
		n, ok := toInt64(value)
		if !ok {
			return nil, rangeIssue(location, value)
		}
		return n, nil
	case TypeNumber:
		n, ok := toFloat64(value)
		if !ok {
			return nil, rangeIssue(location, value)
		}
		return n, nil
	case TypeNumberMap:
		m, ok := value.(map[string]any)
		if !ok {
			return value, nil
		}
		out := make(map[string]any, len(m))
		for key, v := range m {
			n, ok := toFloat64(v)
			if !ok {
				return nil, rangeIssue(location+"/"+key, v)
			}
			out[key] = n
		}
		return out, nil
	}
	return value, nil
}

func rangeIssue(location string, value any) *errx.Issue {
	return &errx.Issue{Location: location, Message: fmt.Sprintf("number %v is out of range", value)}
}

func issues(err error) []errx.Issue {
	var out []errx.Issue
	validationErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []errx.Issue{{Location: "#", Message: err.Error()}}
	}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			location := strings.TrimSpace(node.InstanceLocation)
			if location == "" {
				location = "#"
			} else if !strings.HasPrefix(location, "#") {
				location = "#" + location
			}
			out = append(out, errx.Issue{Location: location, Message: strings.TrimSpace(node.Message)})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(validationErr)
	return out
}
