package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/haukened/rr-dns/internal/dns/common/log"
	"github.com/haukened/rr-dns/internal/dns/config"
	"github.com/haukened/rr-dns/internal/dns/domain"
	"github.com/haukened/rr-dns/internal/dns/resolver"
	"github.com/haukened/rr-dns/internal/dns/transport"
	"github.com/haukened/rr-dns/internal/dns/wire"
)

// BenchmarkBuildApplication measures the time to construct the full
// application from a loaded config.
func BenchmarkBuildApplication(b *testing.B) {
	originalLogger := log.GetLogger()
	log.SetLogger(log.NewNoopLogger())
	defer log.SetLogger(originalLogger)

	clearDNSBenchEnv(b)
	defer clearDNSBenchEnv(b)

	cfg, err := config.Load()
	require.NoError(b, err)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		app, err := buildApplication(cfg)
		require.NoError(b, err)
		_ = app
	}
}

func clearDNSBenchEnv(b *testing.B) {
	b.Helper()
	for _, k := range []string{
		"DNS_ENV", "DNS_LOG_LEVEL", "DNS_LISTEN_PORT", "DNS_LISTEN_ROOTS",
		"DNS_LISTEN_HOP_TIMEOUT_SECONDS", "DNS_LISTEN_QUERY_BUDGET_SECONDS",
		"DNS_LISTEN_MAX_REFERRALS",
	} {
		_ = os.Unsetenv(k)
	}
}

// BenchmarkApplicationLifecycle measures full startup and shutdown against
// a real bound UDP socket.
func BenchmarkApplicationLifecycle(b *testing.B) {
	if testing.Short() {
		b.Skip("Skipping lifecycle benchmark in short mode")
	}

	originalLogger := log.GetLogger()
	log.SetLogger(log.NewNoopLogger())
	defer log.SetLogger(originalLogger)

	clearDNSBenchEnv(b)
	defer clearDNSBenchEnv(b)

	l, err := net.Listen("tcp", ":0")
	require.NoError(b, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(b, l.Close())
	require.NoError(b, os.Setenv("DNS_LISTEN_PORT", fmt.Sprintf("%d", port)))

	cfg, err := config.Load()
	require.NoError(b, err)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		app, err := buildApplication(cfg)
		require.NoError(b, err)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- app.Run(ctx) }()
		cancel()
		<-done
	}
}

// benchTransport answers every Exchange call in-process with a fixed A
// record, letting the resolve-path benchmarks measure codec and loop
// overhead without real network I/O.
type benchTransport struct {
	ip [4]byte
}

func (t benchTransport) Exchange(ctx context.Context, server string, query []byte) ([]byte, error) {
	b, err := wire.FromBytes(query)
	if err != nil {
		return nil, err
	}
	req, err := wire.DecodePacket(b)
	if err != nil {
		return nil, err
	}
	reply := wire.Packet{
		Header:    wire.Header{ID: req.Header.ID, QR: true, RA: true, RCode: domain.RCodeNoError},
		Questions: req.Questions,
		Answers: []wire.Record{
			{Name: req.Questions[0].Name, RType: domain.RRTypeA, Class: domain.RRClassIN, TTL: 60, A: t.ip},
		},
	}
	out, err := reply.Encode()
	if err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func benchResolver() *resolver.Resolver {
	return resolver.New(resolver.Options{
		Upstream:     benchTransport{ip: [4]byte{192, 0, 2, 1}},
		RootHints:    resolver.NewStaticRootHints([]string{"198.41.0.4"}),
		Logger:       log.NewNoopLogger(),
		HopTimeout:   2 * time.Second,
		QueryBudget:  5 * time.Second,
		MaxReferrals: 16,
	})
}

// BenchmarkResolve_DirectAnswer measures one resolve call that resolves
// on the very first hop.
func BenchmarkResolve_DirectAnswer(b *testing.B) {
	r := benchResolver()
	question := wire.Question{Name: "bench.example.", QType: domain.RRTypeA, Class: domain.RRClassIN}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = r.Resolve(context.Background(), uint16(i), question)
	}
}

// BenchmarkPacket_EncodeDecode measures the wire codec roundtrip alone,
// isolating it from resolver and transport overhead.
func BenchmarkPacket_EncodeDecode(b *testing.B) {
	p := wire.Packet{
		Header:    wire.Header{ID: 1, RD: true},
		Questions: []wire.Question{{Name: "www.example.com.", QType: domain.RRTypeA, Class: domain.RRClassIN}},
		Answers: []wire.Record{
			{Name: "www.example.com.", RType: domain.RRTypeA, Class: domain.RRClassIN, TTL: 300, A: [4]byte{192, 0, 2, 1}},
		},
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		buf, err := p.Encode()
		if err != nil {
			b.Fatal(err)
		}
		if _, err := wire.DecodePacket(buf); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkUDPDialTransport_Exchange exercises a real dial-per-call
// upstream exchange against an in-process UDP echo responder.
func BenchmarkUDPDialTransport_Exchange(b *testing.B) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{})
	require.NoError(b, err)
	defer conn.Close()

	go func() {
		buf := make([]byte, 512)
		for {
			n, peer, err := conn.ReadFromUDP(buf)
			if err != nil {
				return
			}
			_, _ = conn.WriteToUDP(buf[:n], peer)
		}
	}()

	tr := transport.NewUDPDialTransport()
	addr := conn.LocalAddr().String()
	query := []byte("benchmark-query-payload")

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if _, err := tr.Exchange(ctx, addr, query); err != nil {
			b.Fatal(err)
		}
		cancel()
	}
}
