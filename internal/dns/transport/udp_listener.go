// Package transport implements the UDP collaborators the wire codec and
// resolver are deliberately decoupled from: the client-facing listen
// socket and the per-lookup upstream dialer.
package transport

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/haukened/rr-dns/internal/dns/common/log"
	"github.com/haukened/rr-dns/internal/dns/domain"
	"github.com/haukened/rr-dns/internal/dns/wire"
)

// maxDatagramSize is the classic UDP DNS payload ceiling.
const maxDatagramSize = 512

// Handler answers one client question, returning a complete reply packet.
// *resolver.Resolver satisfies this.
type Handler interface {
	Resolve(ctx context.Context, clientID uint16, question wire.Question) wire.Packet
}

// UDPListener accepts client queries on a UDP socket and dispatches each
// to a Handler, one goroutine per datagram. The listen socket is the only
// state shared across those goroutines; both ReadFromUDP and WriteToUDP
// are safe for concurrent use on the same *net.UDPConn.
type UDPListener struct {
	addr    string
	handler Handler
	logger  log.Logger

	mu      sync.Mutex
	conn    *net.UDPConn
	running bool
}

// NewUDPListener returns a listener bound to addr (e.g. "0.0.0.0:53") once
// Serve is called.
func NewUDPListener(addr string, handler Handler, logger log.Logger) *UDPListener {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &UDPListener{addr: addr, handler: handler, logger: logger}
}

// Serve binds the UDP socket and processes datagrams until ctx is
// cancelled or an unrecoverable socket error occurs.
func (l *UDPListener) Serve(ctx context.Context) error {
	udpAddr, err := net.ResolveUDPAddr("udp", l.addr)
	if err != nil {
		return fmt.Errorf("resolving listen address %s: %w", l.addr, err)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return fmt.Errorf("binding UDP socket on %s: %w", l.addr, err)
	}
	defer conn.Close()

	l.mu.Lock()
	l.conn = conn
	l.running = true
	l.mu.Unlock()

	l.logger.Info(map[string]any{"address": l.addr}, "listener started")

	go func() {
		<-ctx.Done()
		l.mu.Lock()
		l.running = false
		l.mu.Unlock()
		conn.Close()
	}()

	buf := make([]byte, maxDatagramSize)
	for {
		n, peer, err := conn.ReadFromUDP(buf)
		if err != nil {
			l.mu.Lock()
			running := l.running
			l.mu.Unlock()
			if !running {
				return nil
			}
			l.logger.Warn(map[string]any{"error": err.Error()}, "read failed")
			continue
		}

		datagram := make([]byte, n)
		copy(datagram, buf[:n])
		go l.handleDatagram(ctx, conn, datagram, peer)
	}
}

func (l *UDPListener) handleDatagram(ctx context.Context, conn *net.UDPConn, data []byte, peer *net.UDPAddr) {
	reply, ok := l.buildReply(ctx, data, peer)
	if !ok {
		return
	}

	respBuf, err := reply.Encode()
	if err != nil {
		l.logger.Error(map[string]any{"client": peer.String(), "error": err.Error()}, "failed to encode reply")
		return
	}
	if _, err := conn.WriteToUDP(respBuf.Bytes(), peer); err != nil {
		l.logger.Error(map[string]any{"client": peer.String(), "error": err.Error()}, "failed to send reply")
	}
}

func (l *UDPListener) buildReply(ctx context.Context, data []byte, peer *net.UDPAddr) (wire.Packet, bool) {
	buf, err := wire.FromBytes(data)
	if err != nil {
		l.logger.Warn(map[string]any{"client": peer.String(), "error": err.Error()}, "datagram too large")
		return wire.Packet{}, false
	}

	pkt, err := wire.DecodePacket(buf)
	if err != nil {
		hdr, herr := headerOnly(data)
		if herr != nil {
			l.logger.Warn(map[string]any{"client": peer.String(), "error": err.Error()}, "failed to decode query")
			return wire.Packet{}, false
		}
		l.logger.Warn(map[string]any{"client": peer.String(), "error": err.Error()}, "malformed query")
		return formatErrReply(hdr.ID), true
	}

	if len(pkt.Questions) != 1 {
		l.logger.Warn(map[string]any{"client": peer.String(), "qdcount": len(pkt.Questions)}, "malformed query")
		return formatErrReply(pkt.Header.ID), true
	}

	return l.handler.Resolve(ctx, pkt.Header.ID, pkt.Questions[0]), true
}

// headerOnly decodes just the fixed 12-byte header, used to recover the
// client's query id when the rest of the message fails to parse.
func headerOnly(data []byte) (wire.Header, error) {
	buf, err := wire.FromBytes(data)
	if err != nil {
		return wire.Header{}, err
	}
	return wire.DecodeHeader(buf)
}

func formatErrReply(clientID uint16) wire.Packet {
	return wire.Packet{
		Header: wire.Header{ID: clientID, QR: true, RCode: domain.RCodeFormErr},
	}
}
