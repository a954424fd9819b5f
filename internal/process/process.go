// Package process terminates browser process trees left behind by a launcher.
package process

import "errors"

// ErrInvalidPID is returned for zero or negative process IDs, which would
// otherwise address the caller's own process group.
var ErrInvalidPID = errors.New("invalid process id")
