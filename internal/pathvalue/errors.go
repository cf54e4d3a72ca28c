package pathvalue

import "errors"

// Domain errors for path operations.
//
// Operations wrap these with the offending path:
//
//	if errors.Is(err, pathvalue.ErrPathNotFound) {
//	    // key or index missing
//	}
var (
	// ErrPathNotFound is returned when a key or index along the path does not exist.
	ErrPathNotFound = errors.New("pathvalue: path not found")

	// ErrNotContainer is returned when a path segment descends into a scalar,
	// or when a key segment meets a sequence (and an index segment a mapping).
	ErrNotContainer = errors.New("pathvalue: not a container")

	// ErrIndexOutOfRange is returned when a sequence index is outside the sequence.
	ErrIndexOutOfRange = errors.New("pathvalue: index out of range")

	// ErrEmptyPath is returned by Set and Delete when given the root path.
	ErrEmptyPath = errors.New("pathvalue: empty path")

	// ErrUnsupportedNode is returned when a YAML node cannot be represented.
	ErrUnsupportedNode = errors.New("pathvalue: unsupported node")
)
