package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Accessors for schemaless documents. They tolerate the different shapes a
// value can take depending on whether it came from the driver, the memory
// store or a JSON body.

func DocString(doc Document, key string) string {
	s, _ := doc[key].(string)
	return s
}

func DocBool(doc Document, key string) bool {
	b, _ := doc[key].(bool)
	return b
}

func DocStrings(doc Document, key string) []string {
	switch v := doc[key].(type) {
	case []string:
		return v
	case []interface{}:
		return stringItems(v)
	case primitive.A:
		return stringItems(v)
	default:
		return nil
	}
}

func DocTime(doc Document, key string) time.Time {
	switch v := doc[key].(type) {
	case time.Time:
		return v
	case primitive.DateTime:
		return v.Time()
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t
		}
		return time.Time{}
	default:
		return time.Time{}
	}
}

func stringItems(items []interface{}) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
