// Package matcher compiles take patterns into boolean predicates over
// actions. Supported patterns: nil or "*" (every action), an action type
// string or expression ("FETCH", "USER_*", "A | B"), a registered type
// name, a predicate func, or a slice of patterns (disjunction).
package matcher

import (
	"fmt"
	"strings"

	"github.com/viant/saga/extension"
)

// Predicate reports whether an action matches a compiled pattern.
type Predicate func(input interface{}) bool

type options struct {
	types *extension.Types
}

// Option customises pattern compilation.
type Option func(*options)

// WithTypes resolves string patterns against registered action types in
// addition to type-string equality.
func WithTypes(types *extension.Types) Option {
	return func(o *options) {
		o.types = types
	}
}

// Wildcard matches every action.
func Wildcard(interface{}) bool { return true }

// Compile returns a predicate for pattern. An unsupported pattern is a
// programmer error reported by the returned error.
func Compile(pattern interface{}, opts ...Option) (Predicate, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return compile(pattern, o)
}

func compile(pattern interface{}, o *options) (Predicate, error) {
	switch actual := pattern.(type) {
	case nil:
		return Wildcard, nil
	case string:
		return compileString(actual, o)
	case func(interface{}) bool:
		return actual, nil
	case Predicate:
		return actual, nil
	case []interface{}:
		return compileList(actual, o)
	case []string:
		patterns := make([]interface{}, len(actual))
		for i := range actual {
			patterns[i] = actual[i]
		}
		return compileList(patterns, o)
	}
	return nil, fmt.Errorf("invalid pattern %T; expected string, predicate or a slice of patterns", pattern)
}

func compileString(pattern string, o *options) (Predicate, error) {
	if pattern == "*" {
		return Wildcard, nil
	}
	if o.types != nil && o.types.Lookup(pattern) != nil {
		types := o.types
		return func(input interface{}) bool {
			return types.Matches(pattern, input)
		}, nil
	}
	if !strings.ContainsAny(pattern, "|*") {
		return func(input interface{}) bool {
			return TypeOf(input) == pattern
		}, nil
	}
	terms, err := parseExpression([]byte(pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return func(input interface{}) bool {
		actionType := TypeOf(input)
		for _, one := range terms {
			if one.Prefix {
				if strings.HasPrefix(actionType, one.Text) {
					return true
				}
				continue
			}
			if actionType == one.Text {
				return true
			}
		}
		return false
	}, nil
}

func compileList(patterns []interface{}, o *options) (Predicate, error) {
	predicates := make([]Predicate, 0, len(patterns))
	for _, pattern := range patterns {
		predicate, err := compile(pattern, o)
		if err != nil {
			return nil, err
		}
		predicates = append(predicates, predicate)
	}
	return func(input interface{}) bool {
		for _, predicate := range predicates {
			if predicate(input) {
				return true
			}
		}
		return false
	}, nil
}
