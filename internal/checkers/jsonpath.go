// Package checkers provides quicktest checkers shared by the test suites.
package checkers

import (
	"encoding/json"
	"fmt"
	"reflect"

	qt "github.com/frankban/quicktest"
	"github.com/yalp/jsonpath"
)

type jsonPathChecker struct {
	path string
}

// JSONPathEquals returns a checker that decodes the got value (a JSON string
// or []byte), evaluates path against it and compares the result with the
// single expected argument using reflect.DeepEqual. Numbers decode as
// float64.
//
//	c.Assert(text, checkers.JSONPathEquals("$.path"), "/tmp/proj/rmnd.toml")
func JSONPathEquals(path string) qt.Checker {
	return &jsonPathChecker{path: path}
}

// ArgNames implements qt.Checker.
func (c *jsonPathChecker) ArgNames() []string {
	return []string{"got", "want"}
}

// Check implements qt.Checker.
func (c *jsonPathChecker) Check(got any, args []any, note func(key string, value any)) error {
	var raw []byte
	switch v := got.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return qt.BadCheckf("expected string or []byte, got %T", got)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("cannot decode JSON: %w", err)
	}

	value, err := jsonpath.Read(doc, c.path)
	if err != nil {
		note("path", c.path)
		return fmt.Errorf("cannot evaluate JSON path: %w", err)
	}

	if !reflect.DeepEqual(value, args[0]) {
		note("path", c.path)
		note("value", value)
		return fmt.Errorf("value at JSON path does not match")
	}
	return nil
}
