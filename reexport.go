package respkit

import (
	"hash"

	"github.com/adamwoolhether/respkit/download"
	"github.com/adamwoolhether/respkit/transfer"
)

// ————————————————————————————————————————————————————————————————————
// Type aliases – re-export user-facing types from the subpackages.
// ————————————————————————————————————————————————————————————————————

type (
	// DownloadError wraps a sentinel error with additional detail.
	DownloadError = download.Error

	// SaveResult represents an in-flight or completed async save.
	SaveResult = download.Result

	// SaveQueue manages a batch of concurrent async saves.
	SaveQueue = download.Queue

	// TransferMetrics is a live view of a transfer's progress and timings.
	TransferMetrics = transfer.Metrics
)

// ————————————————————————————————————————————————————————————————————
// Sentinel errors
// ————————————————————————————————————————————————————————————————————

var (
	// ErrContentLengthMismatch indicates the byte count did not match Content-Length.
	ErrContentLengthMismatch = download.ErrContentLengthMismatch

	// ErrChecksumMismatch indicates the file checksum did not match the expected value.
	ErrChecksumMismatch = download.ErrChecksumMismatch

	// ErrSaveCancelled indicates the save was cancelled via context.
	ErrSaveCancelled = download.ErrSaveCancelled

	// ErrQueueShutdown indicates the save queue was shut down.
	ErrQueueShutdown = download.ErrQueueShutdown
)

// ————————————————————————————————————————————————————————————————————
// Option forwarding functions
// ————————————————————————————————————————————————————————————————————

// WithChecksum verifies the saved file against expected, the
// hex-encoded digest of h (e.g. sha256.New()).
func WithChecksum(h hash.Hash, expected string) download.Option {
	return download.WithChecksum(h, expected)
}

// WithProgress enables periodic save progress logging.
func WithProgress() download.Option { return download.WithProgress() }

// WithSkipExisting causes a save to return nil immediately when the
// destination file already exists.
func WithSkipExisting() download.Option { return download.WithSkipExisting() }
