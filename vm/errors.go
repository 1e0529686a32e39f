package vm

import (
	"errors"
	"fmt"
)

// ErrorKind classifies script-visible errors.
type ErrorKind uint8

const (
	KindError ErrorKind = iota
	KindTypeError
	KindRangeError
)

func (k ErrorKind) String() string {
	switch k {
	case KindTypeError:
		return "TypeError"
	case KindRangeError:
		return "RangeError"
	}
	return "Error"
}

// Error is a semantic error that the embedding host should surface to the
// script as a catchable exception.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Message
}

// IsTypeError reports whether err wraps a TypeError.
func IsTypeError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindTypeError
}

// IsRangeError reports whether err wraps a RangeError.
func IsRangeError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindRangeError
}

// raise builds an error, lets the host observe it, and returns it.
func (s *State) raise(kind ErrorKind, format string, args ...any) error {
	err := &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
	s.log.Debugf("raise %s", err)
	if s.OnError != nil {
		s.OnError(err)
	}
	return err
}

// TypeErrorf raises a TypeError.
func (s *State) TypeErrorf(format string, args ...any) error {
	return s.raise(KindTypeError, format, args...)
}

// RangeErrorf raises a RangeError.
func (s *State) RangeErrorf(format string, args ...any) error {
	return s.raise(KindRangeError, format, args...)
}

// Errorf raises a generic Error.
func (s *State) Errorf(format string, args ...any) error {
	return s.raise(KindError, format, args...)
}
