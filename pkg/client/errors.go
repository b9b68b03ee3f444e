package client

import "errors"

var (
	// ErrDaemonNotRunning means the daemon socket does not exist.
	ErrDaemonNotRunning = errors.New("numwiz daemon not running")

	// ErrPermissionDenied means the socket exists but the current user may
	// not connect to it.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound is returned for 404 answers, usually from an older daemon.
	ErrNotFound = errors.New("404 not found")

	// ErrRejected is returned when the daemon refuses an input with 400.
	ErrRejected = errors.New("rejected by daemon")
)
