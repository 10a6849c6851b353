package transport

import (
	"context"
	"fmt"
	"net"
)

// DialFunc establishes a network connection; overridable for testing so a
// resolver's upstream exchanges never need a real socket in unit tests.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// UDPDialTransport implements resolver.UpstreamTransport by dialing a
// fresh UDP socket for every exchange, grounded on the pattern of issuing
// one ephemeral connection per upstream attempt rather than holding one
// open across the resolver's lifetime.
type UDPDialTransport struct {
	dial DialFunc
}

// NewUDPDialTransport returns a transport using the default UDP dialer.
func NewUDPDialTransport() *UDPDialTransport {
	return &UDPDialTransport{dial: (&net.Dialer{}).DialContext}
}

// NewUDPDialTransportWithDialer returns a transport using dial in place of
// the default net.Dialer, for injecting a fake in tests.
func NewUDPDialTransportWithDialer(dial DialFunc) *UDPDialTransport {
	return &UDPDialTransport{dial: dial}
}

// Exchange dials server, writes query, and returns the single datagram
// received in reply. The connection is closed before Exchange returns.
func (t *UDPDialTransport) Exchange(ctx context.Context, server string, query []byte) ([]byte, error) {
	conn, err := t.dial(ctx, "udp", server)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", server, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	type result struct {
		data []byte
		err  error
	}
	resultCh := make(chan result, 1)

	go func() {
		if _, err := conn.Write(query); err != nil {
			resultCh <- result{err: fmt.Errorf("writing query: %w", err)}
			return
		}
		buf := make([]byte, maxDatagramSize)
		n, err := conn.Read(buf)
		if err != nil {
			resultCh <- result{err: fmt.Errorf("reading response: %w", err)}
			return
		}
		resultCh <- result{data: buf[:n]}
	}()

	select {
	case res := <-resultCh:
		return res.data, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
