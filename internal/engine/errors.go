package engine

import (
	"errors"
	"fmt"
)

// Code is a machine-readable rejection reason.
type Code string

const (
	// CodeInvalidAction rejects an action that references something that does not
	// exist or is not allowed for the acting hero right now.
	CodeInvalidAction Code = "invalid-action"
	// CodeIllegalTransition rejects an action the current phase or mode does not accept.
	CodeIllegalTransition Code = "illegal-state-transition"
	// CodeDecisionMismatch rejects a decision resolution that does not match the
	// pending decision or picks an option that was not offered.
	CodeDecisionMismatch Code = "decision-mismatch"
)

// Error is returned by Dispatch when an action is rejected. The state passed to
// Dispatch is returned unchanged alongside it.
type Error struct {
	Code    Code
	Action  ActionType
	Message string
}

func (e *Error) Error() string {
	if e.Action == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Action, e.Message)
}

// Is matches any *Error with the same code, so errors.Is(err, ErrDecisionMismatch) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Sentinels for errors.Is.
var (
	ErrInvalidAction     = &Error{Code: CodeInvalidAction, Message: "invalid action"}
	ErrIllegalTransition = &Error{Code: CodeIllegalTransition, Message: "illegal state transition"}
	ErrDecisionMismatch  = &Error{Code: CodeDecisionMismatch, Message: "decision mismatch"}
)

// CodeOf returns the code of an engine error, or "" for other errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func (r *reducer) invalid(format string, args ...any) error {
	return &Error{Code: CodeInvalidAction, Action: r.action.Type, Message: fmt.Sprintf(format, args...)}
}

func (r *reducer) illegal(format string, args ...any) error {
	return &Error{Code: CodeIllegalTransition, Action: r.action.Type, Message: fmt.Sprintf(format, args...)}
}

func (r *reducer) mismatch(format string, args ...any) error {
	return &Error{Code: CodeDecisionMismatch, Action: r.action.Type, Message: fmt.Sprintf(format, args...)}
}
