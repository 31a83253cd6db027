package collaborator

import (
	"errors"
	"fmt"
)

// ErrCollaboratorUnavailable is wrapped when the record store cannot be reached
// or does not answer in time
var ErrCollaboratorUnavailable = errors.New("collaborator: service unavailable")

// ErrMalformedResponse is wrapped when the record store answers with something unusable
var ErrMalformedResponse = errors.New("collaborator: malformed response")

// CollaboratorError reports a failed call to the record store
type CollaboratorError struct {
	Op         string // e.g. "GET /invoices/42"
	StatusCode int    // zero when no response was received
	Message    string // server-reported message, if any
	Err        error
}

func (e *CollaboratorError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("collaborator %s: HTTP %d: %s", e.Op, e.StatusCode, msg)
	}
	return fmt.Sprintf("collaborator %s: %s", e.Op, msg)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}
