// Package metrics provides optional Prometheus counters for frame and
// channel activity, grounded on keda's pkg/prommetrics package: counters
// are built unregistered, a host that wants them exported calls
// MustRegister, and the core never requires a prometheus.Registerer to
// function.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collector bundles the counters spec.md's DOMAIN STACK wiring names:
// frames sent/received, heartbeats missed, channels opened.
type Collector struct {
	FramesSent     *prometheus.CounterVec
	FramesReceived *prometheus.CounterVec
	HeartbeatsMissed prometheus.Counter
	ChannelsOpened prometheus.Counter
}

// NewCollector builds a Collector with the given namespace, unregistered.
func NewCollector(namespace string) *Collector {
	return &Collector{
		FramesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "frames_sent_total", Help: "AMQP frames written to the socket, by frame type.",
		}, []string{"type"}),
		FramesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "frames_received_total", Help: "AMQP frames read from the socket, by frame type.",
		}, []string{"type"}),
		HeartbeatsMissed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "heartbeats_missed_total", Help: "Heartbeat deadlines that elapsed with no inbound frame.",
		}),
		ChannelsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "channels_opened_total", Help: "Channels successfully opened on this connection.",
		}),
	}
}

// MustRegister registers every counter on reg. Panics on collision, same
// as prometheus.MustRegister, since a metrics misconfiguration should
// fail fast at startup rather than silently drop samples.
func (c *Collector) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(c.FramesSent, c.FramesReceived, c.HeartbeatsMissed, c.ChannelsOpened)
}

// noop is returned by Nil so call sites never need a nil check.
var noop = &Collector{
	FramesSent:       prometheus.NewCounterVec(prometheus.CounterOpts{Name: "noop_frames_sent"}, []string{"type"}),
	FramesReceived:   prometheus.NewCounterVec(prometheus.CounterOpts{Name: "noop_frames_received"}, []string{"type"}),
	HeartbeatsMissed: prometheus.NewCounter(prometheus.CounterOpts{Name: "noop_heartbeats_missed"}),
	ChannelsOpened:   prometheus.NewCounter(prometheus.CounterOpts{Name: "noop_channels_opened"}),
}

// Nil returns an unregistered Collector safe to use as a default when a
// host opts out of metrics (spec.md keeps "metrics" out of its core
// Non-goals list of excluded surfaces, but never requires them either).
func Nil() *Collector { return noop }
