package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure raised by the domain and its ports.
type ErrorKind string

const (
	KindValidation     ErrorKind = "validation"
	KindNotFound       ErrorKind = "not_found"
	KindConflict       ErrorKind = "conflict"
	KindBusinessRule   ErrorKind = "business_rule"
	KindInfrastructure ErrorKind = "infrastructure"
)

// Sentinels for errors.Is matching by kind.
var (
	ErrValidation     = errors.New("validation error")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrBusinessRule   = errors.New("business rule violation")
	ErrInfrastructure = errors.New("infrastructure error")
)

var kindSentinels = map[ErrorKind]error{
	KindValidation:     ErrValidation,
	KindNotFound:       ErrNotFound,
	KindConflict:       ErrConflict,
	KindBusinessRule:   ErrBusinessRule,
	KindInfrastructure: ErrInfrastructure,
}

// Error is the single error type crossing the domain boundary.
type Error struct {
	Kind    ErrorKind
	Message string
	// Entity and ID are only set for KindNotFound.
	Entity string
	ID     string
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNotFound:
		return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
	case KindInfrastructure:
		if e.Message != "" && e.Err != nil {
			return fmt.Sprintf("infrastructure error: %s: %v", e.Message, e.Err)
		}
		if e.Err != nil {
			return fmt.Sprintf("infrastructure error: %v", e.Err)
		}
		return "infrastructure error: " + e.Message
	case KindValidation:
		return "validation error: " + e.Message
	case KindBusinessRule:
		return "business rule violation: " + e.Message
	default:
		return string(e.Kind) + ": " + e.Message
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(entity, id string) error {
	return &Error{Kind: KindNotFound, Entity: entity, ID: id}
}

func Conflict(format string, args ...any) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func BusinessRule(format string, args ...any) error {
	return &Error{Kind: KindBusinessRule, Message: fmt.Sprintf(format, args...)}
}

// Infrastructure wraps a backend failure. The cause stays reachable through errors.Is/As.
func Infrastructure(msg string, cause error) error {
	return &Error{Kind: KindInfrastructure, Message: msg, Err: cause}
}

// KindOf returns the kind of the first *Error in err's chain.
// Foreign errors are reported as infrastructure failures.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInfrastructure
}
