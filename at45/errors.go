package at45

import "errors"

var (
	// ErrDeviceNotFound is returned by Initialize when the probe budget
	// is exhausted without a status response carrying the expected
	// density code. The device stays unusable until Initialize is run
	// again successfully.
	ErrDeviceNotFound = errors.New("at45: device not found")

	// ErrNotReady is returned by any operation attempted before a
	// successful Initialize.
	ErrNotReady = errors.New("at45: device not initialized")
)
