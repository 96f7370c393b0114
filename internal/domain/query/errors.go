package query

import "strings"

// Error reports listing parameters that cannot be compiled.
type Error struct {
	Errors []string
}

func newError(msg string) *Error {
	return &Error{Errors: []string{msg}}
}

func (e *Error) Error() string {
	return "invalid query: " + strings.Join(e.Errors, "; ")
}
