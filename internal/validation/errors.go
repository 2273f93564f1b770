package validation

import (
	"sort"
	"strings"
)

// Errors maps field names to the messages that field violated. A nil or
// empty map means the input passed.
type Errors map[string][]string

// Add records a violation against a field.
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Merge folds another error set into this one.
func (e Errors) Merge(other Errors) {
	for field, messages := range other {
		e[field] = append(e[field], messages...)
	}
}

// Any reports whether any violation was recorded.
func (e Errors) Any() bool {
	return len(e) > 0
}

// Error implements the error interface so an Errors value can travel
// through error returns.
func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(e[field], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
