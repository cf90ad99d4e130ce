// Package jsonpath extracts single values from JSON documents using
// JSONPath-style expressions. The CLI uses it for --query against the JSON
// summary of a run.
package jsonpath

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Extract returns the value at the given JSONPath expression as a string.
//
// Supported syntax is the common subset: $.a.b, $.a[0].b, plain dotted
// paths. The expression is translated to gjson form, so gjson paths work
// too.
func Extract(doc, path string) (string, error) {
	if doc == "" {
		return "", fmt.Errorf("empty JSON document")
	}
	if path == "" {
		return "", fmt.Errorf("empty query expression")
	}

	result := gjson.Get(doc, toGjsonPath(path))
	if !result.Exists() {
		return "", fmt.Errorf("path not found: %s", path)
	}
	if result.Type == gjson.Null {
		return "null", nil
	}
	return result.String(), nil
}

// toGjsonPath converts a JSONPath expression ($.users[0].name) to gjson
// form (users.0.name). Expressions already in gjson form pass through
// unchanged.
func toGjsonPath(path string) string {
	p := strings.TrimPrefix(path, "$.")
	p = strings.TrimPrefix(p, "$")
	p = strings.ReplaceAll(p, "[", ".")
	p = strings.ReplaceAll(p, "]", "")
	return strings.Trim(p, ".")
}
