package store

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyTitle     = errors.New("title is empty")
	ErrDuplicateTitle = errors.New("title already exists")
	ErrEmptyScope     = errors.New("scope id is empty")
)

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}
