package monitor

import "errors"

// Sentinel errors for monitor configuration and polling.
var (
	// ErrInvalidConfig indicates the app document cannot drive a monitor.
	ErrInvalidConfig = errors.New("monitor: invalid app configuration")

	// ErrStoreFailed indicates the poll's readings could not be stored.
	ErrStoreFailed = errors.New("monitor: storing readings failed")
)
