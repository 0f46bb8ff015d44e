// Package textbody converts an HTTP response body into a string one
// bounded chunk at a time, using the character encoding the response
// declared.
//
// The body is pulled in 8KB chunks and fed through an incremental
// decoder from [golang.org/x/text/encoding], so a multi-byte character
// split across chunk boundaries decodes correctly and the whole body
// never has to be buffered twice.
//
// # Blocking and context-aware decoding
//
// [Decode] occupies the calling goroutine for the duration of each read:
//
//	enc := charset.Resolve(resp.Header, logger)
//	text, err := textbody.Decode(resp.Body, enc)
//
// [DecodeContext] is byte-for-byte equivalent but observes cancellation
// wherever the operation would otherwise wait for more data:
//
//	text, err := textbody.DecodeContext(ctx, resp.Body, enc)
//
// Both run the same decode loop; only the way a chunk is obtained
// differs.
//
// # Replacement, not failure
//
// Byte sequences that are invalid under the selected encoding are
// replaced with U+FFFD and decoding continues. Re-encoding the result
// reproduces the original bytes except at those replacement positions.
// Read failures other than a transparent retry on EINTR abort the
// operation; the partially decoded text is discarded and only the error
// is returned.
package textbody
