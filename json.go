package respkit

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// JSONOption is a functional option for [JSON].
type JSONOption func(*jsonOpts) error

type jsonOpts struct {
	useJSONNum bool
	validate   bool
}

// WithJSONNum tells the decoder to use [json.Decoder.UseNumber],
// preserving number precision as [json.Number] instead of float64.
func WithJSONNum() JSONOption {
	return func(opts *jsonOpts) error {
		opts.useJSONNum = true

		return nil
	}
}

// WithValidation runs [Validate] over the decoded value, returning
// [FieldErrors] when any `validate` struct tag is not satisfied.
func WithValidation() JSONOption {
	return func(opts *jsonOpts) error {
		opts.validate = true

		return nil
	}
}

// JSON decodes the response body as JSON into dest. The decoder reads
// the body stream directly, so the body can only be consumed once.
func JSON[T any](resp *http.Response, dest *T, opts ...JSONOption) error {
	var settings jsonOpts
	for _, opt := range opts {
		if err := opt(&settings); err != nil {
			return err
		}
	}

	d := json.NewDecoder(resp.Body)
	if settings.useJSONNum {
		d.UseNumber()
	}

	if err := d.Decode(dest); err != nil {
		return fmt.Errorf("decoding body: %w", err)
	}

	if settings.validate {
		if err := Validate(dest); err != nil {
			return fmt.Errorf("validating decoded body: %w", err)
		}
	}

	return nil
}
