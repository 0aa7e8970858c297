package appstate

import "errors"

// ErrNotFound is returned when an update targets an id that is not in the
// state.
var ErrNotFound = errors.New("not found")
