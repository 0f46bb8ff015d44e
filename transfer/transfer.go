package transfer

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptrace"
	"sync/atomic"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"golang.org/x/time/rate"
)

var (
	// ErrMustNotBeZero is returned for non-positive rate-limit settings.
	ErrMustNotBeZero = errors.New("must be greater than zero")
	// ErrWaitingFailed is returned when the rate limiter wait is cut short.
	ErrWaitingFailed = errors.New("limiter waiting failed")
)

// RoundTripper is an http.RoundTripper that populates the per-transfer
// metadata bag read back by [EffectiveURI] and [MetricsFrom]. It can
// additionally trace each round trip, stamp a request ID, and apply
// token-bucket rate limiting, all configured via options.
type RoundTripper struct {
	next      http.RoundTripper
	tracer    trace.Tracer
	limiter   *rate.Limiter
	metrics   bool
	requestID string
}

// NewRoundTripper builds a RoundTripper wrapping next. A nil next falls
// back to http.DefaultTransport.
func NewRoundTripper(next http.RoundTripper, optFns ...Option) (*RoundTripper, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying transfer option: %w", err)
		}
	}

	if next == nil {
		next = http.DefaultTransport
	}

	t := &RoundTripper{
		next:      next,
		tracer:    opts.tracer,
		metrics:   opts.metrics,
		requestID: opts.requestIDHeader,
	}
	if t.tracer == nil {
		t.tracer = noop.NewTracerProvider().Tracer("no-op tracer")
	}
	if opts.rateLimit != nil {
		t.limiter = rate.NewLimiter(rate.Limit(opts.rateLimit.rps), opts.rateLimit.burst)
	}

	return t, nil
}

func (t *RoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	ctx := r.Context()

	b, ok := bagFrom(ctx)
	if !ok {
		// Caller didn't Attach up front; seed per hop. The final hop's
		// bag is the one the accessors see via resp.Request.
		b = &bag{}
		ctx = withBag(ctx, b)
	}

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrWaitingFailed, err)
		}
	}

	ctx, span := t.tracer.Start(ctx, "transfer.roundtrip", trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String("http.method", r.Method),
		attribute.String("http.url", r.URL.String()),
	)

	var m *Metrics
	if t.metrics {
		m = b.liveMetrics()
		ctx = httptrace.WithClientTrace(ctx, m.clientTrace())
	}

	cpy := r.Clone(ctx)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(cpy.Header))

	if t.requestID != "" && cpy.Header.Get(t.requestID) == "" {
		cpy.Header.Set(t.requestID, uuid.New().String())
	}

	if m != nil && cpy.Body != nil {
		cpy.Body = &countingBody{rc: cpy.Body, counter: &m.uploaded, done: func() {}}
	}

	resp, err := t.next.RoundTrip(cpy)
	if err != nil {
		span.RecordError(err)
		span.End()
		return nil, err
	}

	b.setEffectiveURI(cpy.URL)
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	// The span and the metrics clock stay open until the caller drains
	// or closes the body; the transfer isn't over at header time.
	finish := func() {
		if m != nil {
			m.finish()
		}
		span.End()
	}

	counter := &atomic.Int64{}
	if m != nil {
		counter = &m.downloaded
	}
	resp.Body = &countingBody{rc: resp.Body, counter: counter, done: finish}

	return resp, nil
}
