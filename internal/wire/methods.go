package wire

import "github.com/pkg/errors"

// Class ids for the seven method classes spec.md §6 names.
const (
	ClassConnection uint16 = 10
	ClassChannel    uint16 = 20
	ClassExchange   uint16 = 40
	ClassQueue      uint16 = 50
	ClassBasic      uint16 = 60
	ClassConfirm    uint16 = 85
	ClassTx         uint16 = 90
)

// MethodArgs is implemented by every decoded method's argument struct.
type MethodArgs interface {
	ClassID() uint16
	MethodID() uint16
	Encode(w *Writer) error
	Decode(r *Reader) error
}

// ReplyKey identifies a method by its (class, method) id pair.
type ReplyKey struct {
	ClassID, MethodID uint16
}

// Matches reports whether m is the method named by k.
func (k ReplyKey) Matches(m MethodArgs) bool {
	return k.ClassID == m.ClassID() && k.MethodID == m.MethodID()
}

var methodRegistry = map[ReplyKey]func() MethodArgs{}

func register(class, method uint16, ctor func() MethodArgs) {
	methodRegistry[ReplyKey{class, method}] = ctor
}

// DecodeMethodArgs looks up the argument struct for (classID, methodID) and
// decodes it from r. An unknown (class, method) pair is a protocol error:
// spec.md's method table is closed, unlike field tables which are open.
func DecodeMethodArgs(classID, methodID uint16, r *Reader) (MethodArgs, error) {
	ctor, ok := methodRegistry[ReplyKey{classID, methodID}]
	if !ok {
		return nil, errors.Wrapf(ErrProtocol, "unknown method class=%d method=%d", classID, methodID)
	}
	args := ctor()
	if err := args.Decode(r); err != nil {
		return nil, err
	}
	return args, nil
}

// ExpectedReply pairs an outgoing method's (class,method) id with the set
// of (class,method) ids that are a valid synchronous reply to it, per
// spec.md §4.4's RPC correlation rule. A nil/empty result means the method
// has no reply (e.g. Basic.Publish).
func ExpectedReply(classID, methodID uint16) []ReplyKey {
	return expectedReplies[ReplyKey{classID, methodID}]
}

var expectedReplies = map[ReplyKey][]ReplyKey{
	{ClassConnection, methodConnectionStartOk}: {{ClassConnection, methodConnectionTune}, {ClassConnection, methodConnectionSecure}},
	{ClassConnection, methodConnectionSecureOk}: {{ClassConnection, methodConnectionTune}, {ClassConnection, methodConnectionSecure}},
	{ClassConnection, methodConnectionOpen}:    {{ClassConnection, methodConnectionOpenOk}},
	{ClassConnection, methodConnectionClose}:   {{ClassConnection, methodConnectionCloseOk}},

	{ClassChannel, methodChannelOpen}:  {{ClassChannel, methodChannelOpenOk}},
	{ClassChannel, methodChannelFlow}:  {{ClassChannel, methodChannelFlowOk}},
	{ClassChannel, methodChannelClose}: {{ClassChannel, methodChannelCloseOk}},

	{ClassExchange, methodExchangeDeclare}: {{ClassExchange, methodExchangeDeclareOk}},
	{ClassExchange, methodExchangeDelete}:  {{ClassExchange, methodExchangeDeleteOk}},
	{ClassExchange, methodExchangeBind}:    {{ClassExchange, methodExchangeBindOk}},
	{ClassExchange, methodExchangeUnbind}:  {{ClassExchange, methodExchangeUnbindOk}},

	{ClassQueue, methodQueueDeclare}: {{ClassQueue, methodQueueDeclareOk}},
	{ClassQueue, methodQueueBind}:    {{ClassQueue, methodQueueBindOk}},
	{ClassQueue, methodQueueUnbind}:  {{ClassQueue, methodQueueUnbindOk}},
	{ClassQueue, methodQueuePurge}:   {{ClassQueue, methodQueuePurgeOk}},
	{ClassQueue, methodQueueDelete}:  {{ClassQueue, methodQueueDeleteOk}},

	{ClassBasic, methodBasicQos}:     {{ClassBasic, methodBasicQosOk}},
	{ClassBasic, methodBasicConsume}: {{ClassBasic, methodBasicConsumeOk}},
	{ClassBasic, methodBasicCancel}:  {{ClassBasic, methodBasicCancelOk}},
	{ClassBasic, methodBasicGet}:     {{ClassBasic, methodBasicGetOk}, {ClassBasic, methodBasicGetEmpty}},
	{ClassBasic, methodBasicRecover}: {{ClassBasic, methodBasicRecoverOk}},

	{ClassTx, methodTxSelect}:   {{ClassTx, methodTxSelectOk}},
	{ClassTx, methodTxCommit}:   {{ClassTx, methodTxCommitOk}},
	{ClassTx, methodTxRollback}: {{ClassTx, methodTxRollbackOk}},

	{ClassConfirm, methodConfirmSelect}: {{ClassConfirm, methodConfirmSelectOk}},
}
