package domain

import "github.com/pkg/errors"

var (
	ErrInvalidJob            = errors.New("invalid job")
	ErrInvalidExecutionMode  = errors.New("invalid execution mode")
	ErrInvalidConflictPolicy = errors.New("invalid file conflict policy")
	ErrSourceUnavailable     = errors.New("source directory is unavailable")
	ErrWatchFailed           = errors.New("unable to watch source directory")
	ErrWatchLost             = errors.New("source directory watch is lost")
)
