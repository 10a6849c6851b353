package resolver

import "errors"

var (
	// ErrNetwork wraps a send/recv failure or timeout against an upstream
	// server. It is local to a single lookup attempt; the resolver moves on
	// to the next server in the frontier.
	ErrNetwork = errors.New("resolver: upstream network error")

	// ErrNoServersRemaining is reported as the error field of the gave_up
	// log event when the frontier is exhausted, the referral depth limit is
	// reached, or the query budget elapses without producing an answer.
	// Resolve itself does not return it; the client gets a ServFail reply.
	ErrNoServersRemaining = errors.New("resolver: no servers remaining")
)
