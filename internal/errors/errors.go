package errors

import (
	stderrors "errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

type ErrorType string

const (
	// ErrTypeSourceUnavailable marks a failure to read the input dataset.
	// Callers absorb it: the table stays empty and queries return empty
	// results.
	ErrTypeSourceUnavailable ErrorType = "SOURCE_UNAVAILABLE"
	// ErrTypeParseFailure marks a single row or field that could not be
	// parsed. Always resolved locally, never aborts a load.
	ErrTypeParseFailure ErrorType = "PARSE_FAILURE"
	// ErrTypeNotReady marks queries against a table that was never built.
	ErrTypeNotReady ErrorType = "NOT_READY"
	ErrTypeInternal ErrorType = "INTERNAL"
)

type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Stack   []byte
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func (e *DomainError) StackTrace() []byte {
	return e.Stack
}

func New(errType ErrorType, message string, err error) *DomainError {
	var stack []byte
	if err != nil {
		if stackErr, ok := err.(*goerrors.Error); ok {
			stack = stackErr.Stack()
		} else {
			stack = goerrors.Wrap(err, 2).Stack()
		}
	} else {
		stack = goerrors.New(message).Stack()
	}

	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Stack:   stack,
	}
}

func SourceUnavailable(message string, err error) *DomainError {
	return New(ErrTypeSourceUnavailable, message, err)
}

func ParseFailure(message string, err error) *DomainError {
	return New(ErrTypeParseFailure, message, err)
}

func NotReady(message string) *DomainError {
	return New(ErrTypeNotReady, message, nil)
}

func Internal(message string, err error) *DomainError {
	return New(ErrTypeInternal, message, err)
}

// IsType reports whether err is (or wraps) a DomainError of the given type.
func IsType(err error, t ErrorType) bool {
	var derr *DomainError
	if stderrors.As(err, &derr) {
		return derr.Type == t
	}
	return false
}
