// Package rpcloop implements the internal command queue spec.md §4.5
// describes: the single-consumer queue through which every Basic.Ack,
// Basic.Nack, Basic.Reject, consumer cancellation, and close/teardown
// mutation is serialized onto the I/O loop. External holders (the user
// API, the heartbeat task) only ever see a cloneable Handle; the Loop
// itself is owned exclusively by the ioloop package, grounded on
// original_source's InternalRPCHandle: a sender plus a wake function,
// never a back-reference to the owned connection/channel state.
package rpcloop

import (
	"github.com/kornstar11/lapin-go/channel"
	"github.com/kornstar11/lapin-go/connection"
)

// Command is the command set of spec.md §4.5's table minus a Close-Ok
// command: the Close-Ok answering a remote Connection.Close has no command
// here and is queued by connection.Connection when it handles that Close.
// Added to the set is RunOnLoop, the general-purpose escape hatch the top-level client package
// uses for the RPCs §4.5 doesn't itself enumerate (Channel.Open, content
// publish, consumer registration, and the declarative Exchange/Queue/Basic
// methods) while keeping the same single-consumer ownership discipline.
type Command interface{ isCommand() }

// RunOnLoop schedules fn to run on the I/O loop goroutine with exclusive
// access to conn and channels. Grounded in the same pattern as the other
// commands here: a closure captured on a calling goroutine, handed to the
// sole mutator of connection/channel state instead of touching it directly.
type RunOnLoop struct {
	Fn func(conn *connection.Connection, channels *channel.Table)
}

func (RunOnLoop) isCommand() {}

type BasicAck struct {
	Channel  uint16
	Tag      uint64
	Multiple bool
}

type BasicNack struct {
	Channel  uint16
	Tag      uint64
	Multiple bool
	Requeue  bool
}

type BasicReject struct {
	Channel uint16
	Tag     uint64
	Requeue bool
}

type CancelConsumer struct {
	Channel     uint16
	ConsumerTag string
}

type CloseChannel struct {
	Channel uint16
	Code    uint16
	Text    string
}

type CloseConnection struct {
	Code     uint16
	Text     string
	ClassID  uint16
	MethodID uint16
}

type RemoveChannel struct {
	Channel uint16
	Err     error
}

type SetConnectionClosing struct{}

type SetConnectionClosed struct{ Err error }

type SetConnectionError struct{ Err error }

func (BasicAck) isCommand()              {}
func (BasicNack) isCommand()             {}
func (BasicReject) isCommand()           {}
func (CancelConsumer) isCommand()        {}
func (CloseChannel) isCommand()          {}
func (CloseConnection) isCommand()       {}
func (RemoveChannel) isCommand()         {}
func (SetConnectionClosing) isCommand()  {}
func (SetConnectionClosed) isCommand()   {}
func (SetConnectionError) isCommand()    {}

var _ Command = BasicAck{}
