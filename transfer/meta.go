package transfer

import (
	"context"
	"net/http"
	"net/url"
	"sync"
)

// ctxKey is the private context key type for the metadata bag.
type ctxKey int

const bagKey ctxKey = 1

// bag is the extensible per-transfer metadata store. The RoundTripper
// populates it; the accessors below read it back off the response.
type bag struct {
	mu           sync.Mutex
	effectiveURI *url.URL
	metrics      *Metrics
}

func withBag(ctx context.Context, b *bag) context.Context {
	return context.WithValue(ctx, bagKey, b)
}

func bagFrom(ctx context.Context) (*bag, bool) {
	b, ok := ctx.Value(bagKey).(*bag)
	return b, ok
}

func (b *bag) setEffectiveURI(u *url.URL) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.effectiveURI = u
}

// liveMetrics returns the bag's Metrics, creating it on first use so
// that all hops of a redirected transfer share one instance.
func (b *bag) liveMetrics() *Metrics {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.metrics == nil {
		b.metrics = newMetrics()
	}

	return b.metrics
}

// Attach seeds an empty metadata bag into the request's context before
// the request is executed. Without it the [RoundTripper] seeds a bag per
// hop, which is enough for [EffectiveURI] but makes [MetricsFrom] report
// only the final hop of a redirected transfer. Attach once up front and
// every hop accumulates into the same bag.
func Attach(r *http.Request) *http.Request {
	if _, ok := bagFrom(r.Context()); ok {
		return r
	}

	return r.WithContext(withBag(r.Context(), &bag{}))
}

// EffectiveURI returns the URI the response was ultimately fetched from,
// which differs from the request URI when redirects were followed. The
// boolean reports whether the transport populated the value; absence is
// not an error.
func EffectiveURI(resp *http.Response) (*url.URL, bool) {
	if resp.Request == nil {
		return nil, false
	}

	b, ok := bagFrom(resp.Request.Context())
	if !ok {
		return nil, false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.effectiveURI == nil {
		return nil, false
	}

	return b.effectiveURI, true
}

// MetricsFrom returns a live view of the transfer metrics collected for
// resp. Metrics are only collected when the [RoundTripper] was built
// with [WithMetrics]; otherwise the boolean is false.
func MetricsFrom(resp *http.Response) (*Metrics, bool) {
	if resp.Request == nil {
		return nil, false
	}

	b, ok := bagFrom(resp.Request.Context())
	if !ok {
		return nil, false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.metrics == nil {
		return nil, false
	}

	return b.metrics, true
}
