package errors

import (
	"errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

type ErrorType string

const (
	ErrTypeTransient ErrorType = "TRANSIENT"
	ErrTypeProvider  ErrorType = "PROVIDER"
	ErrTypeFatal     ErrorType = "FATAL"
	ErrTypeConfig    ErrorType = "CONFIG"
	ErrTypeIO        ErrorType = "IO"
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

func Transient(message string, err error) *DomainError {
	return New(ErrTypeTransient, message, err)
}

func Provider(message string, err error) *DomainError {
	return New(ErrTypeProvider, message, err)
}

func Fatal(message string, err error) *DomainError {
	return New(ErrTypeFatal, message, err)
}

func Config(message string, err error) *DomainError {
	return New(ErrTypeConfig, message, err)
}

func IO(message string, err error) *DomainError {
	return New(ErrTypeIO, message, err)
}

// IsType reports whether any DomainError in err's chain has the given type.
func IsType(err error, errType ErrorType) bool {
	var de *DomainError
	for err != nil {
		if !errors.As(err, &de) {
			return false
		}
		if de.Type == errType {
			return true
		}
		err = de.Err
	}
	return false
}
