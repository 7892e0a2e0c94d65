package framework

import "strings"

// ErrorList collects errors from multiple sources into one error.
type ErrorList struct {
	Errors []error
}

// Append adds non-nil errors to the list.
func (e *ErrorList) Append(errs ...error) *ErrorList {
	for _, err := range errs {
		if err != nil {
			e.Errors = append(e.Errors, err)
		}
	}
	return e
}

// Error implements error.
func (e *ErrorList) Error() string {
	switch len(e.Errors) {
	case 0:
		return ""
	case 1:
		return e.Errors[0].Error()
	}
	msgs := make([]string, len(e.Errors))
	for n, err := range e.Errors {
		msgs[n] = err.Error()
	}
	return "multiple errors: " + strings.Join(msgs, "; ")
}

// Err returns the list as an error, or nil if no error was collected.
func (e *ErrorList) Err() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}
