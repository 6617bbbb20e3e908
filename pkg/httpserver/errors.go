package httpserver

import "errors"

var (
	ErrStart    = errors.New("httpserver.start_failed")
	ErrShutdown = errors.New("httpserver.shutdown_failed")
	// ErrAlreadyRunning is joined with ErrStart when Serve is called twice
	ErrAlreadyRunning = errors.New("httpserver.already_running")
)
