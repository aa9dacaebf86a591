// Package amqp is the public surface of lapin-go: a Dial-style constructor
// (Open) plus Connection/Channel wrappers that present the internal
// connection/channel/rpcloop/ioloop machinery as a synchronous, goroutine-
// safe API. spec.md §6 enumerates the configuration surface this Config
// type implements.
package amqp

import (
	"github.com/go-logr/logr"

	"github.com/kornstar11/lapin-go/connection"
	"github.com/kornstar11/lapin-go/internal/metrics"
	"github.com/kornstar11/lapin-go/internal/wire"
	"github.com/kornstar11/lapin-go/reactor"
	"github.com/kornstar11/lapin-go/reactor/blocking"
)

// Credentials produces the SASL response for Connection.StartOk, and
// answers any Connection.Secure challenge. PlainCredentials and
// *sasl.Responder both satisfy it.
type Credentials = connection.Credentials

// PlainCredentials is the PLAIN SASL mechanism: username and password in
// the clear, per spec.md §4.3.
type PlainCredentials = connection.PlainCredentials

// Config carries every negotiable and pluggable option spec.md §6
// enumerates. Zero-valued fields fall back to sensible defaults in Open.
type Config struct {
	Credentials      Credentials
	VHost            string
	FrameMax         uint32
	ChannelMax       uint16
	Heartbeat        uint16
	ClientProperties wire.Table

	// Executor runs the reactor-driven heartbeat task. Defaults to a plain
	// `go` spawn. The I/O loop itself runs on a goroutine Open starts.
	Executor reactor.Executor
	// ReactorBuilder constructs the Reactor bound to Executor. Defaults to
	// reactor/blocking.Builder, the adapter this module ships, which marks
	// a socket ready as soon as it is polled and leaves the waiting to the
	// loop's own blocking Read/Write calls.
	ReactorBuilder reactor.Builder

	// Metrics, when non-nil, receives frame/heartbeat/channel counters.
	// Defaults to metrics.Nil(), a safe no-op sink.
	Metrics *metrics.Collector

	Logger logr.Logger
}

func (cfg Config) withDefaults() Config {
	if cfg.Executor == nil {
		cfg.Executor = goExecutor{}
	}
	if cfg.ReactorBuilder == nil {
		cfg.ReactorBuilder = blocking.Builder{}
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.Nil()
	}
	if cfg.Logger.GetSink() == nil {
		cfg.Logger = logr.Discard()
	}
	return cfg
}

// goExecutor is the default reactor.Executor: spawn onto a plain
// goroutine. Hosts that want a bounded worker pool or a custom scheduler
// supply their own Executor in Config.
type goExecutor struct{}

func (goExecutor) Spawn(task func()) error {
	go task()
	return nil
}
