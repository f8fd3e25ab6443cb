package board

import "errors"

// ErrNotFound is matched by errors for missing footprint references.
var ErrNotFound = errors.New("board: not found")
