// Package respkit exposes helpers for consuming HTTP response bodies:
// charset-aware text decoding, JSON decoding with optional validation,
// and streaming a body to a writer or file. The metadata accessors pair
// with the transfer subpackage, whose RoundTripper records effective
// URIs and transfer metrics.
package respkit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/adamwoolhether/respkit/charset"
	"github.com/adamwoolhether/respkit/download"
	"github.com/adamwoolhether/respkit/textbody"
	"github.com/adamwoolhether/respkit/transfer"
)

// Text consumes the entire response body and returns it decoded as
// text. The character encoding is taken from the Content-Type charset
// parameter, defaulting to UTF-8 when missing or unrecognized. Bytes
// invalid under that encoding decode to U+FFFD. The body stream can
// only be consumed once.
func Text(resp *http.Response) (string, error) {
	enc := charset.Resolve(resp.Header, slog.Default())
	return textbody.Decode(resp.Body, enc)
}

// TextContext is [Text] with cooperative cancellation: the decode
// observes ctx wherever it waits on the body for more bytes. For a
// given body the two produce identical text.
func TextContext(ctx context.Context, resp *http.Response) (string, error) {
	enc := charset.Resolve(resp.Header, slog.Default())
	return textbody.DecodeContext(ctx, resp.Body, enc)
}

// Copy streams the response body into w and returns the number of
// bytes written.
func Copy(resp *http.Response, w io.Writer) (int64, error) {
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("copying response body: %w", err)
	}

	return n, nil
}

// CopyFile streams the response body to destPath. The data lands in a
// temp file in the same directory first and is renamed into place on
// success, so destPath never holds a partial body.
func CopyFile(resp *http.Response, destPath string, opts ...download.Option) error {
	ctx := context.Background()
	if resp.Request != nil {
		ctx = resp.Request.Context()
	}

	if err := download.Save(ctx, resp.Body, resp.ContentLength, destPath, slog.Default(), opts...); err != nil {
		return fmt.Errorf("saving response body: %w", err)
	}

	return nil
}

// EffectiveURI returns the URI this response was ultimately fetched
// from, differing from the request URI when redirects were followed.
// It is only available when the transport chain includes a
// [transfer.RoundTripper]; otherwise ok is false.
func EffectiveURI(resp *http.Response) (uri *url.URL, ok bool) {
	return transfer.EffectiveURI(resp)
}

// Metrics returns a live view of the transfer metrics collected for
// this response, when metrics were enabled on the
// [transfer.RoundTripper] that produced it.
func Metrics(resp *http.Response) (m *transfer.Metrics, ok bool) {
	return transfer.MetricsFrom(resp)
}
