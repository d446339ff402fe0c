package gesture

import "errors"

// ErrInvalidConfig is returned by New when the tolerances cannot be used.
var ErrInvalidConfig = errors.New("gesture: invalid config")

// ErrAlreadyRunning is returned by Run when called a second time.
var ErrAlreadyRunning = errors.New("gesture: recognizer already running")
