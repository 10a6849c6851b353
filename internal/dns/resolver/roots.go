package resolver

// ianaRoots is the full set of 13 IANA root server IPv4 addresses.
var ianaRoots = []string{
	"198.41.0.4",     // a.root-servers.net
	"199.9.14.201",   // b.root-servers.net
	"192.33.4.12",    // c.root-servers.net
	"199.7.91.13",    // d.root-servers.net
	"192.203.230.10", // e.root-servers.net
	"192.5.5.241",    // f.root-servers.net
	"192.112.36.4",   // g.root-servers.net
	"198.97.190.53",  // h.root-servers.net
	"192.36.148.17",  // i.root-servers.net
	"192.58.128.30",  // j.root-servers.net
	"193.0.14.129",   // k.root-servers.net
	"199.7.83.42",    // l.root-servers.net
	"202.12.27.33",   // m.root-servers.net
}

// StaticRootHints is a RootHintsProvider backed by a fixed, in-memory list
// of server addresses: either the full IANA root set or an operator-
// supplied override loaded from configuration.
type StaticRootHints struct {
	servers []string
}

// NewStaticRootHints returns a StaticRootHints serving servers, or the full
// IANA root set if servers is empty.
func NewStaticRootHints(servers []string) *StaticRootHints {
	if len(servers) == 0 {
		servers = ianaRoots
	}
	return &StaticRootHints{servers: servers}
}

// Roots returns the configured ordered list of root server addresses.
func (s *StaticRootHints) Roots() []string {
	return s.servers
}
