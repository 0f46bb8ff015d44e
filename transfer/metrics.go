package transfer

import (
	"crypto/tls"
	"io"
	"net/http/httptrace"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics is a live view of a transfer's progress and timings. Byte
// counters tick while the body streams, so reading them mid-transfer is
// valid and expected.
type Metrics struct {
	start time.Time

	uploaded   atomic.Int64
	downloaded atomic.Int64

	dnsStart  atomic.Int64 // unix nanos, for in-flight bookkeeping
	connStart atomic.Int64
	tlsStart  atomic.Int64

	dnsLookup    atomic.Int64 // completed durations, in nanos
	connect      atomic.Int64
	tlsHandshake atomic.Int64
	firstByte    atomic.Int64
	total        atomic.Int64
}

func newMetrics() *Metrics {
	return &Metrics{start: time.Now()}
}

// UploadedBytes reports how many request body bytes have been sent so far.
func (m *Metrics) UploadedBytes() int64 { return m.uploaded.Load() }

// DownloadedBytes reports how many response body bytes have been read so far.
func (m *Metrics) DownloadedBytes() int64 { return m.downloaded.Load() }

// DNSLookup reports the time spent resolving the host, zero if the
// connection was reused or resolution hasn't finished.
func (m *Metrics) DNSLookup() time.Duration { return time.Duration(m.dnsLookup.Load()) }

// ConnectTime reports the time spent establishing the TCP connection.
func (m *Metrics) ConnectTime() time.Duration { return time.Duration(m.connect.Load()) }

// TLSHandshake reports the time spent on the TLS handshake, zero for
// plain connections.
func (m *Metrics) TLSHandshake() time.Duration { return time.Duration(m.tlsHandshake.Load()) }

// TimeToFirstByte reports the delay between starting the transfer and
// the first response byte arriving.
func (m *Metrics) TimeToFirstByte() time.Duration { return time.Duration(m.firstByte.Load()) }

// TotalTime reports the full duration of the transfer, or the elapsed
// time so far while the body is still streaming.
func (m *Metrics) TotalTime() time.Duration {
	if total := m.total.Load(); total > 0 {
		return time.Duration(total)
	}

	return time.Since(m.start)
}

// clientTrace wires the metrics into net/http's transport hooks.
func (m *Metrics) clientTrace() *httptrace.ClientTrace {
	return &httptrace.ClientTrace{
		DNSStart: func(httptrace.DNSStartInfo) {
			m.dnsStart.Store(time.Now().UnixNano())
		},
		DNSDone: func(httptrace.DNSDoneInfo) {
			if start := m.dnsStart.Load(); start > 0 {
				m.dnsLookup.Add(time.Now().UnixNano() - start)
			}
		},
		ConnectStart: func(string, string) {
			m.connStart.Store(time.Now().UnixNano())
		},
		ConnectDone: func(string, string, error) {
			if start := m.connStart.Load(); start > 0 {
				m.connect.Add(time.Now().UnixNano() - start)
			}
		},
		TLSHandshakeStart: func() {
			m.tlsStart.Store(time.Now().UnixNano())
		},
		TLSHandshakeDone: func(tls.ConnectionState, error) {
			if start := m.tlsStart.Load(); start > 0 {
				m.tlsHandshake.Add(time.Now().UnixNano() - start)
			}
		},
		GotFirstResponseByte: func() {
			m.firstByte.CompareAndSwap(0, int64(time.Since(m.start)))
		},
	}
}

func (m *Metrics) finish() {
	m.total.CompareAndSwap(0, int64(time.Since(m.start)))
}

// countingBody wraps a request or response body, adding every byte read
// to counter and running done exactly once when the stream ends.
type countingBody struct {
	rc      io.ReadCloser
	counter *atomic.Int64
	done    func()
	once    sync.Once
}

func (cb *countingBody) Read(p []byte) (int, error) {
	n, err := cb.rc.Read(p)
	cb.counter.Add(int64(n))

	if err == io.EOF {
		cb.once.Do(cb.done)
	}

	return n, err
}

func (cb *countingBody) Close() error {
	err := cb.rc.Close()
	cb.once.Do(cb.done)
	return err
}
