// Package jsonread reads JSON documents on a best-effort basis.
//
// Read never reports why it failed. A missing file, an unreadable file,
// malformed JSON and an extractor that rejects (or panics on) the decoded
// value all collapse into the same absent result.
package jsonread

import (
	"encoding/json"
	"os"
)

// Extractor maps a decoded JSON value to a result. Returning false marks
// the result as absent.
//
// The value has the shape produced by encoding/json for an interface{}
// target: map[string]any, []any, string, float64, bool or nil.
type Extractor[T any] func(value any) (T, bool)

// Read reads the file at path, parses its contents as JSON and applies
// extract to the decoded value. On any failure it returns the zero value
// of T and false.
func Read[T any](path string, extract Extractor[T]) (result T, ok bool) {
	defer func() {
		if recover() != nil {
			var zero T
			result, ok = zero, false
		}
	}()

	// #nosec G304 - path is supplied by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return result, false
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return result, false
	}

	if v, ok := extract(value); ok {
		return v, true
	}
	return result, false
}

// StringField returns an extractor that accepts a non-null JSON object
// holding a string-typed property named key.
func StringField(key string) Extractor[string] {
	return func(value any) (string, bool) {
		obj, ok := value.(map[string]any)
		if !ok {
			return "", false
		}
		s, ok := obj[key].(string)
		return s, ok
	}
}
