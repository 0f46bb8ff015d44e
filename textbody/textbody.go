package textbody

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"syscall"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// chunkSize is the amount of body data pulled per read. Multi-byte
// sequences straddling a chunk boundary are carried over as residual
// bytes, so the size only affects throughput, never correctness.
const chunkSize = 8 << 10 // 8KB

// ErrDecode is the sentinel error wrapped around failures of the
// underlying character decoder. Malformed byte sequences never trigger
// it; they are replaced with U+FFFD and decoding continues.
var ErrDecode = errors.New("decoding response body")

// Decode drains body and converts it to a string using enc. The read
// blocks the calling goroutine until data arrives. Bytes that are invalid
// under enc become U+FFFD, including a trailing incomplete sequence cut
// off by end of stream. On a read failure nothing is returned: callers
// see either the complete text or an error, never both.
func Decode(body io.Reader, enc encoding.Encoding) (string, error) {
	return decode(body.Read, enc)
}

// DecodeContext behaves exactly like [Decode] but checks ctx at every
// point where the operation waits for more bytes, so an abandoned decode
// stops promptly and leaves the body safely droppable. The decoded text
// for a given byte sequence is identical to what Decode produces.
func DecodeContext(ctx context.Context, body io.Reader, enc encoding.Encoding) (string, error) {
	cr := &contextReader{ctx: ctx, r: body}
	return decode(cr.Read, enc)
}

// nextFunc obtains the next chunk of body bytes. It follows io.Reader
// semantics: n > 0 with io.EOF is valid, and a zero-count io.EOF marks
// end of stream.
type nextFunc func(p []byte) (n int, err error)

// decode is the single conversion loop behind both variants,
// parameterized only by how a chunk is obtained. buf retains the
// undecodable tail of each chunk at its front so sequences split across
// reads survive intact, and the final Transform call runs with atEOF set
// so the decoder flushes and finalizes.
func decode(next nextFunc, enc encoding.Encoding) (string, error) {
	var (
		dec  = enc.NewDecoder()
		buf  = make([]byte, chunkSize)
		dst  = make([]byte, chunkSize)
		out  strings.Builder
		rest int // bytes of buf occupied by the previous chunk's tail
	)

	for {
		n, err := next(buf[rest:])

		atEOF := false
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			atEOF = true
		case errors.Is(err, syscall.EINTR):
			// Transient interruption. Nothing was consumed, retry.
			continue
		default:
			return "", fmt.Errorf("reading response body: %w", err)
		}

		src := buf[:rest+n]
		for {
			nDst, nSrc, err := dec.Transform(dst, src, atEOF)
			out.Write(dst[:nDst])
			src = src[nSrc:]

			if err == transform.ErrShortDst {
				// dst was drained into out above, go around.
				continue
			}
			if err == transform.ErrShortSrc && !atEOF {
				break
			}
			if err != nil {
				return "", fmt.Errorf("%w: %w", ErrDecode, err)
			}

			break
		}

		if atEOF {
			return out.String(), nil
		}

		rest = copy(buf, src)
	}
}

// contextReader gates each read on ctx so that cancellation is observed
// at the suspension points of [DecodeContext].
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}

	return cr.r.Read(p)
}
