package cli

import "fmt"

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

// confirmRequiredError is the CLI's delete confirmation: without --yes the
// delete dialog is opened and cancelled, never confirmed.
type confirmRequiredError struct {
	kind string
	id   string
}

func (e confirmRequiredError) Error() string {
	return fmt.Sprintf("refusing to delete %s %s without --yes", e.kind, e.id)
}
