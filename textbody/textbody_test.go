package textbody_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"syscall"
	"testing"
	"testing/iotest"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"

	"github.com/adamwoolhether/respkit/textbody"
)

// chunkReader yields its chunks one Read at a time, regardless of how
// much buffer space the caller offers, then io.EOF.
type chunkReader struct {
	chunks [][]byte
}

func (cr *chunkReader) Read(p []byte) (int, error) {
	if len(cr.chunks) == 0 {
		return 0, io.EOF
	}

	n := copy(p, cr.chunks[0])
	if n < len(cr.chunks[0]) {
		cr.chunks[0] = cr.chunks[0][n:]
	} else {
		cr.chunks = cr.chunks[1:]
	}

	return n, nil
}

// interruptFirst fails the first Read with EINTR, then defers to r.
type interruptFirst struct {
	r     io.Reader
	fired bool
}

func (ir *interruptFirst) Read(p []byte) (int, error) {
	if !ir.fired {
		ir.fired = true
		return 0, fmt.Errorf("read body: %w", syscall.EINTR)
	}

	return ir.r.Read(p)
}

// failAfter drains r, then fails with err instead of reporting EOF.
type failAfter struct {
	r   io.Reader
	err error
}

func (fa *failAfter) Read(p []byte) (int, error) {
	n, err := fa.r.Read(p)
	if errors.Is(err, io.EOF) {
		return n, fa.err
	}

	return n, err
}

// ---- Decode ----

func TestDecode_Empty(t *testing.T) {
	got, err := textbody.Decode(strings.NewReader(""), unicode.UTF8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Fatalf("got = %q, want empty string", got)
	}
}

func TestDecode_SplitMultiByte(t *testing.T) {
	// "héllo" with the two bytes of 'é' split across the chunk boundary.
	r := &chunkReader{chunks: [][]byte{
		[]byte("h\xc3"),
		[]byte("\xa9llo"),
	}}

	got, err := textbody.Decode(r, unicode.UTF8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "héllo" {
		t.Fatalf("got = %q, want %q", got, "héllo")
	}
}

func TestDecode_OneByteChunks(t *testing.T) {
	const want = "héllo, 世界"

	got, err := textbody.Decode(iotest.OneByteReader(strings.NewReader(want)), unicode.UTF8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Fatalf("got = %q, want %q", got, want)
	}
}

func TestDecode_ShiftJISAcrossChunks(t *testing.T) {
	// "こんにちは" in Shift JIS, two bytes per character, delivered one
	// byte at a time so every character straddles a read boundary.
	sjis := []byte{0x82, 0xb1, 0x82, 0xf1, 0x82, 0xc9, 0x82, 0xbf, 0x82, 0xcd}

	got, err := textbody.Decode(iotest.OneByteReader(bytes.NewReader(sjis)), japanese.ShiftJIS)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "こんにちは" {
		t.Fatalf("got = %q, want %q", got, "こんにちは")
	}
}

func TestDecode_Windows1252(t *testing.T) {
	got, err := textbody.Decode(bytes.NewReader([]byte{'h', 0xe9, 'l', 'l', 'o'}), charmap.Windows1252)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "héllo" {
		t.Fatalf("got = %q, want %q", got, "héllo")
	}
}

func TestDecode_TruncatedFinalSequence(t *testing.T) {
	// Body ends mid-'é'. The dangling byte must become U+FFFD rather
	// than being dropped or raising an error.
	got, err := textbody.Decode(bytes.NewReader([]byte("h\xc3")), unicode.UTF8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "h�" {
		t.Fatalf("got = %q, want %q", got, "h�")
	}
}

func TestDecode_MalformedBytesReplaced(t *testing.T) {
	got, err := textbody.Decode(bytes.NewReader([]byte("a\xffb")), unicode.UTF8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "a�b" {
		t.Fatalf("got = %q, want %q", got, "a�b")
	}
}

func TestDecode_TransientInterrupt(t *testing.T) {
	r := &interruptFirst{r: strings.NewReader("héllo")}

	got, err := textbody.Decode(r, unicode.UTF8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "héllo" {
		t.Fatalf("got = %q, want %q", got, "héllo")
	}
}

func TestDecode_FatalReadError(t *testing.T) {
	readErr := errors.New("connection reset")
	r := &failAfter{r: strings.NewReader("partial text"), err: readErr}

	got, err := textbody.Decode(r, unicode.UTF8)
	if !errors.Is(err, readErr) {
		t.Fatalf("err = %v, want wrapped %v", err, readErr)
	}
	if got != "" {
		t.Fatalf("got = %q, want partial text discarded", got)
	}
}

func TestDecode_LargeBody(t *testing.T) {
	// Bigger than one 8KB chunk, with multi-byte characters throughout.
	want := strings.Repeat("héllo, 世界! ", 4096)

	got, err := textbody.Decode(strings.NewReader(want), unicode.UTF8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Fatalf("decoded text differs from input (len %d vs %d)", len(got), len(want))
	}
}

// ---- DecodeContext ----

func TestDecodeContext_MatchesDecode(t *testing.T) {
	bodies := []struct {
		name string
		data []byte
		enc  encoding.Encoding
	}{
		{"utf8", []byte("héllo, 世界"), unicode.UTF8},
		{"latin1", []byte{'c', 0xe9, 'l', 0xe8, 'b', 'r', 'e'}, charmap.ISO8859_1},
		{"malformed", []byte("tr\xffuncated\xc3"), unicode.UTF8},
		{"empty", nil, unicode.UTF8},
	}

	for _, tc := range bodies {
		blocking, err := textbody.Decode(bytes.NewReader(tc.data), tc.enc)
		if err != nil {
			t.Fatalf("[%s] Decode: %v", tc.name, err)
		}

		ctxBased, err := textbody.DecodeContext(context.Background(), bytes.NewReader(tc.data), tc.enc)
		if err != nil {
			t.Fatalf("[%s] DecodeContext: %v", tc.name, err)
		}

		if diff := cmp.Diff(blocking, ctxBased); diff != "" {
			t.Fatalf("[%s] decode variants diverge (-blocking +context):\n%s", tc.name, diff)
		}
	}
}

func TestDecodeContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := textbody.DecodeContext(ctx, strings.NewReader("héllo"), unicode.UTF8)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if got != "" {
		t.Fatalf("got = %q, want empty on cancellation", got)
	}
}

func TestDecodeContext_TransientInterrupt(t *testing.T) {
	r := &interruptFirst{r: strings.NewReader("héllo")}

	got, err := textbody.DecodeContext(context.Background(), r, unicode.UTF8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "héllo" {
		t.Fatalf("got = %q, want %q", got, "héllo")
	}
}
