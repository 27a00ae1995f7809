package slider

import "errors"

// Sentinel errors for library operations.
var (
	ErrUnknownSyntax = errors.New("unknown directive syntax")
	ErrNoInput       = errors.New("no input sources given")
	ErrBadDocument   = errors.New("malformed pandoc document")
)
