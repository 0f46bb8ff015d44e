// Package transfer is the transport-side collaborator for the response
// metadata accessors. Its [RoundTripper] records, per transfer, the
// effective (post-redirect) URI and optionally a live [Metrics] view
// into a metadata bag carried on the request context, where
// [EffectiveURI] and [MetricsFrom] find them again on the response.
//
//	rt, err := transfer.NewRoundTripper(nil,
//		transfer.WithMetrics(),
//		transfer.WithRequestID("X-Request-ID"),
//	)
//	c := &http.Client{Transport: rt}
//
//	resp, err := c.Do(transfer.Attach(req))
//	// ... stream the body ...
//	if m, ok := transfer.MetricsFrom(resp); ok {
//		log.Printf("downloaded %d bytes in %s", m.DownloadedBytes(), m.TotalTime())
//	}
//
// [Attach] is optional: without it each redirect hop gets its own bag,
// which is sufficient for EffectiveURI but limits metrics to the final
// hop. Absent metadata is reported through the accessors' boolean, never
// as an error.
package transfer
