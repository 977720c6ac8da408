package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database. A scanned credential with no
// matching registration also resolves to this error.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. a completion event missing required metadata).
// Handlers should map this to HTTP 400.
var ErrValidation = errors.New("validation error")

// ErrDuplicateSession is returned by the registration repo when an insert
// loses the race on the payment_session_id unique constraint. The webhook
// path treats this as a duplicate delivery (a success), never as a failure.
var ErrDuplicateSession = errors.New("payment session already registered")
