package store

import "errors"

var (
	// ErrClosed is returned by reads issued after Close
	ErrClosed = errors.New("store: closed")

	// ErrTaskFailed is returned by reads whose worker panicked
	ErrTaskFailed = errors.New("store: task failed")
)
