package collection

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyTitle     = errors.New("title cannot be empty")
	ErrDuplicateTitle = errors.New("title already exists")
	ErrMissingScope   = errors.New("scope is missing")
	ErrNoRenameTarget = errors.New("no record selected for rename")
	ErrNoDeleteTarget = errors.New("no record selected for delete")
	ErrNotFound       = errors.New("record not found")
	ErrBusy           = errors.New("operation already in progress")
	ErrScopeMismatch  = errors.New("record belongs to another scope")
)

type Op string

const (
	OpLoad   Op = "load"
	OpCreate Op = "create"
	OpRename Op = "rename"
	OpDelete Op = "delete"
)

// ValidationError is returned when input is rejected before any remote call.
// Nothing changed locally or remotely.
type ValidationError struct {
	Op    Op
	Kind  string
	Title string
	Err   error
}

func (e *ValidationError) Error() string {
	switch {
	case errors.Is(e.Err, ErrDuplicateTitle):
		return fmt.Sprintf("%s %q already exists", e.Kind, e.Title)
	case errors.Is(e.Err, ErrEmptyTitle):
		return fmt.Sprintf("%s title cannot be empty", e.Kind)
	default:
		return fmt.Sprintf("%s %s: %v", string(e.Op), e.Kind, e.Err)
	}
}

func (e *ValidationError) Unwrap() error { return e.Err }

// RemoteError wraps a failed call to the remote API. The draft or dialog that
// triggered it is left as it was so the user can retry or cancel.
type RemoteError struct {
	Op   Op
	Kind string
	Err  error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s %s: %v", string(e.Op), e.Kind, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsRemote(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}
