package stream

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
)

type present struct{}

// Present matches any value as long as the key exists.
var Present = present{}

// Pattern is a partial JSON object. Values may be nested Patterns (or
// map[string]any), *regexp.Regexp, Present, or anything that marshals to JSON.
type Pattern map[string]any

// Match reports whether the JSON object in data contains every key of p with
// a matching value.
func Match(data []byte, p Pattern) bool {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return false
	}
	return matchObject(obj, p)
}

func matchObject(obj map[string]any, p Pattern) bool {
	for key, want := range p {
		got, ok := obj[key]
		if !ok || !matchValue(got, want) {
			return false
		}
	}
	return true
}

func matchValue(got, want any) bool {
	switch w := want.(type) {
	case present:
		return true
	case *regexp.Regexp:
		if s, ok := got.(string); ok {
			return w.MatchString(s)
		}
		return w.MatchString(fmt.Sprint(got))
	case Pattern:
		obj, ok := got.(map[string]any)
		return ok && matchObject(obj, w)
	case map[string]any:
		obj, ok := got.(map[string]any)
		return ok && matchObject(obj, w)
	}
	return reflect.DeepEqual(got, normalize(want))
}

// normalize round-trips v through JSON so numbers and structs compare the
// way they decode.
func normalize(v any) any {
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}
