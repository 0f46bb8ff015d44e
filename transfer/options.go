package transfer

import (
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/trace"
)

// Option is a functional option for configuring a [RoundTripper] via
// [NewRoundTripper].
type Option func(*options) error

type rateLimit struct {
	rps   int
	burst int
}

type options struct {
	tracer          trace.Tracer
	metrics         bool
	requestIDHeader string
	rateLimit       *rateLimit
}

// WithTracer records an otel client span per round trip and injects the
// active propagation headers into outgoing requests.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) error {
		if tracer == nil {
			return errors.New("tracer must not be nil")
		}
		o.tracer = tracer
		return nil
	}
}

// WithMetrics enables per-transfer metrics collection, retrievable from
// the response with [MetricsFrom].
func WithMetrics() Option {
	return func(o *options) error {
		o.metrics = true
		return nil
	}
}

// WithRequestID stamps outgoing requests with a generated UUID under
// the given header name when the caller didn't set one.
func WithRequestID(header string) Option {
	return func(o *options) error {
		if header == "" {
			return errors.New("request id header must not be empty")
		}
		o.requestIDHeader = header
		return nil
	}
}

// WithRateLimit restricts outbound round trips with a token bucket of
// the given requests per second and burst capacity.
func WithRateLimit(rps, burst int) Option {
	return func(o *options) error {
		if rps <= 0 || burst <= 0 {
			return fmt.Errorf("rps[%d] and burst[%d] %w", rps, burst, ErrMustNotBeZero)
		}
		o.rateLimit = &rateLimit{rps: rps, burst: burst}
		return nil
	}
}
