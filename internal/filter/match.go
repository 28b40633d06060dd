// Package filter provides generic predicate matching used by catalog queries.
package filter

import (
	"strconv"
	"strings"
)

// Predicate defines a function that returns true if the given item matches a
// filter value.
type Predicate[T any] func(item T, filterValue string) bool

// NormalizeString can be used to normalize a string value for
// filtering/comparison. The value is made lowercase and has any leading
// and/or trailing whitespace removed.
func NormalizeString(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Equals returns a Predicate that checks if the value extracted by the
// provider exactly matches the filter value (case-insensitive, normalized).
func Equals[T any](provider func(T) string) Predicate[T] {
	return func(item T, val string) bool {
		return NormalizeString(provider(item)) == NormalizeString(val)
	}
}

// Partial returns a Predicate that checks if the value extracted by the
// provider contains the filter value as a substring (case-insensitive,
// normalized).
func Partial[T any](provider func(T) string) Predicate[T] {
	return func(item T, val string) bool {
		return strings.Contains(NormalizeString(provider(item)), NormalizeString(val))
	}
}

// PartialAny returns a Predicate that checks if the filter value is found as
// a substring within any of the provided values.
func PartialAny[T any](providers ...func(T) string) Predicate[T] {
	return func(item T, val string) bool {
		q := NormalizeString(val)
		for _, p := range providers {
			if strings.Contains(NormalizeString(p(item)), q) {
				return true
			}
		}
		return false
	}
}

// EqualsBool returns a Predicate that checks if the value extracted by the
// provider matches the parsed boolean representation of the filter value.
func EqualsBool[T any](provider func(T) bool) Predicate[T] {
	return func(item T, val string) bool {
		parsed, err := strconv.ParseBool(NormalizeString(val))
		if err != nil {
			return false
		}
		return provider(item) == parsed
	}
}

// Match applies the provided filters to an item using the supplied matchers.
// Filter keys without a registered matcher are ignored. A nil filter map
// matches everything.
func Match[T any](item T, filters map[string]string, matchers map[string]Predicate[T]) bool {
	for key, val := range filters {
		k := NormalizeString(key)
		if k == "" {
			continue
		}
		matcher, ok := matchers[k]
		if !ok {
			continue
		}
		if !matcher(item, val) {
			return false
		}
	}
	return true
}
