// Package resolver implements iterative DNS resolution: starting from a
// set of root name servers, it walks referrals via glue records in the
// additional section until an answer or a terminal failure is reached.
package resolver

import (
	"context"
	"crypto/rand"
	"fmt"
	"net"
	"time"

	"github.com/bits-and-blooms/bloom/v3"

	"github.com/haukened/rr-dns/internal/dns/common/clock"
	"github.com/haukened/rr-dns/internal/dns/common/log"
	"github.com/haukened/rr-dns/internal/dns/common/utils"
	"github.com/haukened/rr-dns/internal/dns/domain"
	"github.com/haukened/rr-dns/internal/dns/wire"
)

const (
	defaultHopTimeout   = 10 * time.Second
	defaultQueryBudget  = 30 * time.Second
	defaultMaxReferrals = 16
)

// Options configures a Resolver. Upstream and RootHints are required;
// Logger defaults to a no-op logger and Clock to a real clock.
type Options struct {
	Upstream  UpstreamTransport
	RootHints RootHintsProvider
	Logger    log.Logger
	Clock     clock.Clock

	// HopTimeout bounds each individual upstream exchange.
	HopTimeout time.Duration
	// QueryBudget bounds the wall-clock time spent on one client query
	// across every hop. Zero selects the 30-second default; a negative
	// value disables the ceiling.
	QueryBudget time.Duration
	// MaxReferrals bounds how many referral hops one client query may
	// take before giving up.
	MaxReferrals int
}

// Resolver performs iterative resolution of a single question per call.
// A Resolver is safe for concurrent use; each Resolve call owns its own
// frontier state and loop-guard filter.
type Resolver struct {
	upstream     UpstreamTransport
	rootHints    RootHintsProvider
	logger       log.Logger
	clock        clock.Clock
	hopTimeout   time.Duration
	queryBudget  time.Duration
	maxReferrals int
}

// New constructs a Resolver from opts, applying defaults for any zero-value
// timeout or depth fields.
func New(opts Options) *Resolver {
	r := &Resolver{
		upstream:     opts.Upstream,
		rootHints:    opts.RootHints,
		logger:       opts.Logger,
		clock:        opts.Clock,
		hopTimeout:   opts.HopTimeout,
		queryBudget:  opts.QueryBudget,
		maxReferrals: opts.MaxReferrals,
	}
	if r.logger == nil {
		r.logger = log.NewNoopLogger()
	}
	if r.clock == nil {
		r.clock = clock.RealClock{}
	}
	if r.hopTimeout <= 0 {
		r.hopTimeout = defaultHopTimeout
	}
	if r.maxReferrals <= 0 {
		r.maxReferrals = defaultMaxReferrals
	}
	if opts.QueryBudget == 0 {
		r.queryBudget = defaultQueryBudget
	}
	return r
}

// Resolve answers question on behalf of a client identified by clientID,
// walking the hierarchy iteratively from the configured root hints. It
// always returns a well-formed reply packet: a successful answer, or a
// ServFail reply with empty sections on terminal failure. It never panics
// and never returns a nil packet.
func (r *Resolver) Resolve(ctx context.Context, clientID uint16, question wire.Question) wire.Packet {
	start := r.clock.Now()
	apex := utils.GetApexDomain(question.Name)

	r.logger.Info(map[string]any{
		"qname":      question.Name,
		"qtype":      question.QType.String(),
		"apex_domain": apex,
	}, "query_received")

	var deadline time.Time
	if r.queryBudget > 0 {
		deadline = start.Add(r.queryBudget)
	}

	tried := bloom.New(1024, 4)
	frontier := r.rootHints.Roots()

	for depth := 0; depth < r.maxReferrals; depth++ {
		if !deadline.IsZero() && r.clock.Now().After(deadline) {
			break
		}

		reply, next, found := r.tryFrontier(ctx, question, frontier, tried, apex)
		if found {
			r.logger.Info(map[string]any{
				"qname":       question.Name,
				"apex_domain": apex,
				"hops":        depth + 1,
			}, "resolved")
			return finalReply(clientID, question, reply)
		}
		if len(next) == 0 {
			break
		}
		frontier = next
	}

	r.logger.Warn(map[string]any{
		"qname":       question.Name,
		"apex_domain": apex,
		"error":       ErrNoServersRemaining.Error(),
	}, "gave_up")
	return servfailReply(clientID, question)
}

// tryFrontier queries each server in frontier, in order, until one yields
// an answer (found=true) or a non-empty referral glue set (next). A
// server that errors or replies with neither is skipped in favor of the
// next one in the list.
//
// An rcode other than NoError is treated the same as an empty answer set
// rather than surfaced to the client immediately: the resolver moves on
// to the next server or referral, matching the source behavior this
// design preserves.
func (r *Resolver) tryFrontier(ctx context.Context, question wire.Question, frontier []string, tried *bloom.BloomFilter, apex string) (wire.Packet, []string, bool) {
	for _, server := range frontier {
		reply, err := r.lookup(ctx, server, question)
		if err != nil {
			r.logger.Warn(map[string]any{
				"qname":       question.Name,
				"apex_domain": apex,
				"server":      server,
				"error":       err.Error(),
			}, "upstream_failed")
			continue
		}
		tried.Add([]byte(server))

		if len(reply.Answers) > 0 {
			return reply, nil, true
		}

		next := referralGlue(reply.Additional, tried)
		if len(next) > 0 {
			return wire.Packet{}, next, false
		}
	}
	return wire.Packet{}, nil, false
}

// referralGlue extracts the IPv4 addresses of A records in additional,
// skipping any address already tried in this resolution to keep a
// referral loop from being retried endlessly within one client query.
func referralGlue(additional []wire.Record, tried *bloom.BloomFilter) []string {
	var out []string
	for _, rec := range additional {
		if rec.RType != domain.RRTypeA {
			continue
		}
		ip := net.IP(rec.A[:]).String()
		if tried.Test([]byte(ip)) {
			continue
		}
		out = append(out, ip)
	}
	return out
}

// lookup builds a fresh request for question, sends it to server:53, and
// decodes the response.
func (r *Resolver) lookup(ctx context.Context, server string, question wire.Question) (wire.Packet, error) {
	id, err := newQueryID()
	if err != nil {
		return wire.Packet{}, fmt.Errorf("%w: generating query id: %v", ErrNetwork, err)
	}

	req := wire.Packet{
		Header:    wire.Header{ID: id, RD: true},
		Questions: []wire.Question{question},
	}
	buf, err := req.Encode()
	if err != nil {
		return wire.Packet{}, fmt.Errorf("encoding request: %w", err)
	}

	hopCtx, cancel := context.WithTimeout(ctx, r.hopTimeout)
	defer cancel()

	respBytes, err := r.upstream.Exchange(hopCtx, net.JoinHostPort(server, "53"), buf.Bytes())
	if err != nil {
		return wire.Packet{}, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	respBuf, err := wire.FromBytes(respBytes)
	if err != nil {
		return wire.Packet{}, fmt.Errorf("response too large: %w", err)
	}
	reply, err := wire.DecodePacket(respBuf)
	if err != nil {
		return wire.Packet{}, fmt.Errorf("decoding response: %w", err)
	}
	return reply, nil
}

func newQueryID() (uint16, error) {
	var b [2]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

// finalReply copies the client's id, marks the message a response, and
// relays the upstream answer and authority sections. The additional
// section is always cleared so glue records never leak to the client.
func finalReply(clientID uint16, question wire.Question, upstream wire.Packet) wire.Packet {
	return wire.Packet{
		Header: wire.Header{
			ID:     clientID,
			QR:     true,
			RD:     true,
			RA:     true,
			RCode:  upstream.Header.RCode,
		},
		Questions: []wire.Question{question},
		Answers:   upstream.Answers,
		Authority: upstream.Authority,
	}
}

// servfailReply builds the terminal-failure reply: copied id, qr=Response,
// rcode=ServFail, every section empty.
func servfailReply(clientID uint16, question wire.Question) wire.Packet {
	return wire.Packet{
		Header: wire.Header{
			ID:    clientID,
			QR:    true,
			RCode: domain.RCodeServFail,
		},
		Questions: []wire.Question{question},
	}
}
