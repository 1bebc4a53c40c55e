package capture

import (
	"context"
	"net"
	"strconv"
	"time"
)

// DefaultTimeout bounds a single TCP connect attempt
const DefaultTimeout = 350 * time.Millisecond

// Prober decides whether a single host:port accepts TCP connections.
// Implementations must not block longer than their own timeout and must
// report every failure as false.
type Prober interface {
	Probe(ctx context.Context, host string, port int) bool
}

// ProberFunc adapts a plain function to the Prober interface
type ProberFunc func(ctx context.Context, host string, port int) bool

// Probe calls f
func (f ProberFunc) Probe(ctx context.Context, host string, port int) bool {
	return f(ctx, host, port)
}

// TCPProber performs one connect attempt per port with a hard timeout.
// Refused, timed out, unreachable and unresolvable all read as closed.
type TCPProber struct {
	Timeout time.Duration
}

// NewTCPProber returns a TCPProber, falling back to DefaultTimeout when
// timeout is not positive.
func NewTCPProber(timeout time.Duration) *TCPProber {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &TCPProber{Timeout: timeout}
}

// Probe implements Prober
func (p *TCPProber) Probe(ctx context.Context, host string, port int) bool {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	d := net.Dialer{Timeout: p.Timeout}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
