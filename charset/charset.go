// Package charset resolves the character encoding declared by an HTTP
// response's Content-Type header.
package charset

import (
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// Resolve inspects the Content-Type header and returns the encoding named
// by its charset parameter. Resolution always succeeds: a missing header,
// an unparseable value, or an unrecognized charset label all resolve to
// UTF-8. A malformed header value emits a warn-level diagnostic through
// logger; passing a nil logger suppresses it.
func Resolve(header http.Header, logger *slog.Logger) encoding.Encoding {
	contentType := header.Get("Content-Type")
	if contentType == "" {
		return unicode.UTF8
	}

	var label string
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		if logger != nil {
			logger.Warn("could not parse Content-Type header", "value", contentType, "error", err)
		}

		// The strict parser rejects values such as duplicated charset
		// parameters outright. A charset may still be extractable; the
		// first occurrence wins.
		label = scanCharset(contentType)
	} else {
		label = params["charset"]
	}

	if label == "" {
		return unicode.UTF8
	}

	enc, err := htmlindex.Get(label)
	if err != nil {
		return unicode.UTF8
	}

	return enc
}

// scanCharset walks the parameter list of a Content-Type value that failed
// strict parsing and returns the first charset parameter value, unquoted,
// or "" when none is found.
func scanCharset(contentType string) string {
	segments := strings.Split(contentType, ";")
	for _, segment := range segments[1:] {
		key, value, found := strings.Cut(segment, "=")
		if !found {
			continue
		}

		if !strings.EqualFold(strings.TrimSpace(key), "charset") {
			continue
		}

		return strings.Trim(strings.TrimSpace(value), `"`)
	}

	return ""
}
