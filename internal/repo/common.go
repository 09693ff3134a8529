package repo

import (
	"fmt"
	"reflect"
	"sort"
	"time"

	errx "github.com/ecommerce-admin/server/internal/core/error"
	"github.com/ecommerce-admin/server/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Clock returns the current time; repositories store it in UTC at
// millisecond precision so every backend round-trips the same value.
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// ParseID converts a client supplied identifier into an ObjectID.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, errx.InvalidArgument(err)
	}
	return oid, nil
}

func idString(v any) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return fmt.Sprint(v)
	}
}

// prepareCreate copies data and stamps missing timestamps with the same instant.
func prepareCreate(data model.Document, now time.Time) model.Document {
	doc := cloneDocument(data)
	delete(doc, model.FieldID)
	if isZeroValue(doc[model.FieldCreatedAt]) {
		doc[model.FieldCreatedAt] = now
	}
	if isZeroValue(doc[model.FieldUpdatedAt]) {
		doc[model.FieldUpdatedAt] = now
	}
	return doc
}

// prepareUpdate copies data, drops the immutable identifier and refreshes updated_at.
func prepareUpdate(data model.Document, now time.Time) model.Document {
	doc := cloneDocument(data)
	delete(doc, model.FieldID)
	doc[model.FieldUpdatedAt] = now
	return doc
}

func isZeroValue(v any) bool {
	if v == nil {
		return true
	}
	switch typed := v.(type) {
	case string:
		return typed == ""
	case time.Time:
		return typed.IsZero()
	}
	return false
}

// merge applies $set semantics: fields in patch overwrite those in doc.
func merge(doc, patch model.Document) model.Document {
	out := cloneDocument(doc)
	if out == nil {
		out = model.Document{}
	}
	for key, value := range patch {
		out[key] = cloneValue(value)
	}
	return out
}

func matches(doc model.Document, filter model.Filter) bool {
	for key, want := range filter {
		got, ok := doc[key]
		if !ok {
			if want == nil {
				continue
			}
			return false
		}
		if !equalValues(got, want) {
			return false
		}
	}
	return true
}

func equalValues(a, b any) bool {
	if fa, ok := asFloat(a); ok {
		if fb, ok := asFloat(b); ok {
			return fa == fb
		}
	}
	if oa, ok := a.(primitive.ObjectID); ok {
		if s, ok := b.(string); ok {
			return oa.Hex() == s
		}
	}
	return reflect.DeepEqual(a, b)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// sortNewestFirst orders documents by descending ObjectID; ObjectIDs lead
// with their creation second and a monotonic counter.
func sortNewestFirst(docs []model.Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		a, _ := docs[i][model.FieldID].(primitive.ObjectID)
		b, _ := docs[j][model.FieldID].(primitive.ObjectID)
		return a.Hex() > b.Hex()
	})
}

func cloneDocument(doc model.Document) model.Document {
	if doc == nil {
		return nil
	}
	out := make(model.Document, len(doc))
	for key, value := range doc {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case model.Document:
		return cloneDocument(typed)
	case map[string]any:
		return map[string]any(cloneDocument(model.Document(typed)))
	case []any:
		out := make([]any, len(typed))
		for i, v := range typed {
			out[i] = cloneValue(v)
		}
		return out
	default:
		return value
	}
}

// fromBSON converts a decoded BSON document into plain Go values, keeping
// the ObjectID under FieldID.
func fromBSON(raw bson.M) model.Document {
	doc := make(model.Document, len(raw))
	for key, value := range raw {
		doc[key] = normalizeBSON(value)
	}
	return doc
}

func normalizeBSON(value any) any {
	switch typed := value.(type) {
	case primitive.DateTime:
		return typed.Time().UTC()
	case primitive.M:
		out := make(map[string]any, len(typed))
		for k, v := range typed {
			out[k] = normalizeBSON(v)
		}
		return out
	case primitive.D:
		out := make(map[string]any, len(typed))
		for _, elem := range typed {
			out[elem.Key] = normalizeBSON(elem.Value)
		}
		return out
	case primitive.A:
		out := make([]any, len(typed))
		for i, v := range typed {
			out[i] = normalizeBSON(v)
		}
		return out
	case int32:
		return int64(typed)
	default:
		return value
	}
}

// toBSON prepares a document for encoding.
func toBSON(doc model.Document) bson.M {
	out := make(bson.M, len(doc))
	for key, value := range doc {
		out[key] = value
	}
	return out
}
