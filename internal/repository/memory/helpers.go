package memory

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/caresync/hospital-api/internal/model"
	"github.com/caresync/hospital-api/internal/repository"
)

func applyUpdate(data map[string]map[string]model.Document, collection, id string, fields model.Document) error {
	doc, ok := data[collection][id]
	if !ok {
		return repository.ErrNotFound
	}
	for k, v := range fields {
		doc[k] = copyValue(v)
	}
	return nil
}

func applyAddToSet(data map[string]map[string]model.Document, collection, id, field string, values []string) {
	doc, ok := data[collection][id]
	if !ok {
		return
	}
	members := asStrings(doc[field])
	for _, v := range values {
		if !contains(members, v) {
			members = append(members, v)
		}
	}
	doc[field] = members
}

func applyPull(data map[string]map[string]model.Document, collection, id, field string, values []string) {
	doc, ok := data[collection][id]
	if !ok {
		return
	}
	members := asStrings(doc[field])
	kept := members[:0]
	for _, m := range members {
		if !contains(values, m) {
			kept = append(kept, m)
		}
	}
	doc[field] = append([]string(nil), kept...)
}

// asStrings reads an array-valued field regardless of whether it was stored
// as []string, []interface{} or a bson array.
func asStrings(v interface{}) []string {
	switch vv := v.(type) {
	case []string:
		return append([]string(nil), vv...)
	case []interface{}:
		return interfaceStrings(vv)
	case primitive.A:
		return interfaceStrings(vv)
	default:
		return nil
	}
}

func interfaceStrings(vv []interface{}) []string {
	out := make([]string, 0, len(vv))
	for _, item := range vv {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func overlaps(a, b []string) bool {
	for _, v := range b {
		if contains(a, v) {
			return true
		}
	}
	return false
}

func copyDoc(doc model.Document) model.Document {
	out := make(model.Document, len(doc))
	for k, v := range doc {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v interface{}) interface{} {
	switch vv := v.(type) {
	case model.Document:
		return copyDoc(vv)
	case primitive.M:
		return copyDoc(model.Document(vv))
	case []string:
		return append([]string(nil), vv...)
	case []interface{}:
		out := make([]interface{}, len(vv))
		for i, item := range vv {
			out[i] = copyValue(item)
		}
		return out
	case primitive.A:
		out := make([]interface{}, len(vv))
		for i, item := range vv {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}

func copyData(data map[string]map[string]model.Document) map[string]map[string]model.Document {
	out := make(map[string]map[string]model.Document, len(data))
	for name, coll := range data {
		c := make(map[string]model.Document, len(coll))
		for id, doc := range coll {
			c[id] = copyDoc(doc)
		}
		out[name] = c
	}
	return out
}
