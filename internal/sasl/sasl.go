// Package sasl provides the challenge/response plumbing spec.md §4.3 step 4
// names as an injected callback, modeled on the token-provider callback
// shape of github.com/Azure/azure-amqp-common-go's auth package: the core
// never implements a mechanism itself. A Responder sends the fixed initial
// response it was built with and defers to a host-supplied Callback for
// any Connection.Secure round.
package sasl

import "github.com/pkg/errors"

// ErrNoChallengeHandler is returned when a broker sends Connection.Secure
// but the Responder was built without a respond function.
var ErrNoChallengeHandler = errors.New("amqp: no SASL challenge handler configured")

// Callback lets a host implement a SASL mechanism the core doesn't know
// about (e.g. EXTERNAL, AMQPLAIN, or a broker-specific extension) without
// the core depending on any particular credential store.
type Callback func(challenge string) (response string, err error)

// Responder satisfies the connection package's Credentials interface
// (duck-typed; this package does not import connection to avoid a
// cycle) for any SASL mechanism beyond the built-in PLAIN.
type Responder struct {
	mechanism string
	initial   string
	respond   Callback
}

// New builds a Responder from a named mechanism, an initial response, and
// a challenge responder. Used when a host wants a mechanism other than
// connection.PlainCredentials.
func New(mechanism, initialResponse string, respond Callback) *Responder {
	return &Responder{mechanism: mechanism, initial: initialResponse, respond: respond}
}

func (n *Responder) Mechanism() string       { return n.mechanism }
func (n *Responder) InitialResponse() string { return n.initial }
func (n *Responder) Respond(challenge string) (string, error) {
	if n.respond == nil {
		return "", ErrNoChallengeHandler
	}
	return n.respond(challenge)
}

// AMQPPlainResponse builds the field-table-free AMQPLAIN-style response
// expected by brokers that accept plain LOGIN/PASSWORD fields encoded as
// a long-string rather than a field table variant some brokers require;
// most deployments should prefer connection.PlainCredentials instead.
func AMQPPlainResponse(login, password string) string {
	return "LOGIN\x00" + login + "PASSWORD\x00" + password
}
