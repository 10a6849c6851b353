package resolver

import "context"

// UpstreamTransport sends one encoded query datagram to server:53 and
// returns the raw response datagram. Implementations dial a fresh
// connection per call; there is no connection reuse across lookups.
type UpstreamTransport interface {
	Exchange(ctx context.Context, server string, query []byte) ([]byte, error)
}

// RootHintsProvider returns the ordered list of IPv4 literals used to seed
// the initial frontier.
type RootHintsProvider interface {
	Roots() []string
}
