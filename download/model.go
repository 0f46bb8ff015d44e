package download

import (
	"errors"
	"fmt"
)

var (
	// ErrContentLengthMismatch indicates the byte count did not match Content-Length.
	ErrContentLengthMismatch = errors.New("content length mismatch")
	// ErrChecksumMismatch indicates the file checksum did not match the expected value.
	ErrChecksumMismatch = errors.New("checksum mismatch")
	// ErrSaveCancelled indicates the save was cancelled via context.
	ErrSaveCancelled = errors.New("save cancelled")
	// ErrQueueShutdown indicates the save queue was shut down.
	ErrQueueShutdown = errors.New("queue shut down")
)

// Error wraps a sentinel error with additional detail.
type Error struct {
	Detail string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}
