package wire

const (
	methodBasicQos          uint16 = 10
	methodBasicQosOk        uint16 = 11
	methodBasicConsume      uint16 = 20
	methodBasicConsumeOk    uint16 = 21
	methodBasicCancel       uint16 = 30
	methodBasicCancelOk     uint16 = 31
	methodBasicPublish      uint16 = 40
	methodBasicReturn       uint16 = 50
	methodBasicDeliver      uint16 = 60
	methodBasicGet          uint16 = 70
	methodBasicGetOk        uint16 = 71
	methodBasicGetEmpty     uint16 = 72
	methodBasicAck          uint16 = 80
	methodBasicReject       uint16 = 90
	methodBasicRecoverAsync uint16 = 100
	methodBasicRecover      uint16 = 110
	methodBasicRecoverOk    uint16 = 111
	methodBasicNack         uint16 = 120
)

func init() {
	register(ClassBasic, methodBasicQos, func() MethodArgs { return &BasicQos{} })
	register(ClassBasic, methodBasicQosOk, func() MethodArgs { return &BasicQosOk{} })
	register(ClassBasic, methodBasicConsume, func() MethodArgs { return &BasicConsume{} })
	register(ClassBasic, methodBasicConsumeOk, func() MethodArgs { return &BasicConsumeOk{} })
	register(ClassBasic, methodBasicCancel, func() MethodArgs { return &BasicCancel{} })
	register(ClassBasic, methodBasicCancelOk, func() MethodArgs { return &BasicCancelOk{} })
	register(ClassBasic, methodBasicPublish, func() MethodArgs { return &BasicPublish{} })
	register(ClassBasic, methodBasicReturn, func() MethodArgs { return &BasicReturn{} })
	register(ClassBasic, methodBasicDeliver, func() MethodArgs { return &BasicDeliver{} })
	register(ClassBasic, methodBasicGet, func() MethodArgs { return &BasicGet{} })
	register(ClassBasic, methodBasicGetOk, func() MethodArgs { return &BasicGetOk{} })
	register(ClassBasic, methodBasicGetEmpty, func() MethodArgs { return &BasicGetEmpty{} })
	register(ClassBasic, methodBasicAck, func() MethodArgs { return &BasicAck{} })
	register(ClassBasic, methodBasicReject, func() MethodArgs { return &BasicReject{} })
	register(ClassBasic, methodBasicRecoverAsync, func() MethodArgs { return &BasicRecoverAsync{} })
	register(ClassBasic, methodBasicRecover, func() MethodArgs { return &BasicRecover{} })
	register(ClassBasic, methodBasicRecoverOk, func() MethodArgs { return &BasicRecoverOk{} })
	register(ClassBasic, methodBasicNack, func() MethodArgs { return &BasicNack{} })
}

type BasicQos struct {
	PrefetchSize  uint32
	PrefetchCount uint16
	Global        bool
}

func (BasicQos) ClassID() uint16  { return ClassBasic }
func (BasicQos) MethodID() uint16 { return methodBasicQos }
func (m *BasicQos) Encode(w *Writer) error {
	if err := w.WriteLong(m.PrefetchSize); err != nil {
		return err
	}
	if err := w.WriteShort(m.PrefetchCount); err != nil {
		return err
	}
	return w.WriteBits(m.Global)
}
func (m *BasicQos) Decode(r *Reader) (err error) {
	if m.PrefetchSize, err = r.ReadLong(); err != nil {
		return err
	}
	if m.PrefetchCount, err = r.ReadShort(); err != nil {
		return err
	}
	bits, err := r.ReadBits(1)
	if err != nil {
		return err
	}
	m.Global = bits[0]
	return nil
}

type BasicQosOk struct{}

func (BasicQosOk) ClassID() uint16       { return ClassBasic }
func (BasicQosOk) MethodID() uint16      { return methodBasicQosOk }
func (*BasicQosOk) Encode(*Writer) error { return nil }
func (*BasicQosOk) Decode(*Reader) error { return nil }

type BasicConsume struct {
	reserved1   uint16
	Queue       string
	ConsumerTag string
	NoLocal     bool
	NoAck       bool
	Exclusive   bool
	NoWait      bool
	Arguments   Table
}

func (BasicConsume) ClassID() uint16  { return ClassBasic }
func (BasicConsume) MethodID() uint16 { return methodBasicConsume }
func (m *BasicConsume) Encode(w *Writer) error {
	if err := w.WriteShort(m.reserved1); err != nil {
		return err
	}
	if err := w.WriteShortString(m.Queue); err != nil {
		return err
	}
	if err := w.WriteShortString(m.ConsumerTag); err != nil {
		return err
	}
	if err := w.WriteBits(m.NoLocal, m.NoAck, m.Exclusive, m.NoWait); err != nil {
		return err
	}
	return w.WriteTable(m.Arguments)
}
func (m *BasicConsume) Decode(r *Reader) (err error) {
	if m.reserved1, err = r.ReadShort(); err != nil {
		return err
	}
	if m.Queue, err = r.ReadShortString(); err != nil {
		return err
	}
	if m.ConsumerTag, err = r.ReadShortString(); err != nil {
		return err
	}
	bits, err := r.ReadBits(4)
	if err != nil {
		return err
	}
	m.NoLocal, m.NoAck, m.Exclusive, m.NoWait = bits[0], bits[1], bits[2], bits[3]
	m.Arguments, err = r.ReadTable()
	return err
}

type BasicConsumeOk struct{ ConsumerTag string }

func (BasicConsumeOk) ClassID() uint16  { return ClassBasic }
func (BasicConsumeOk) MethodID() uint16 { return methodBasicConsumeOk }
func (m *BasicConsumeOk) Encode(w *Writer) error {
	return w.WriteShortString(m.ConsumerTag)
}
func (m *BasicConsumeOk) Decode(r *Reader) (err error) {
	m.ConsumerTag, err = r.ReadShortString()
	return err
}

type BasicCancel struct {
	ConsumerTag string
	NoWait      bool
}

func (BasicCancel) ClassID() uint16  { return ClassBasic }
func (BasicCancel) MethodID() uint16 { return methodBasicCancel }
func (m *BasicCancel) Encode(w *Writer) error {
	if err := w.WriteShortString(m.ConsumerTag); err != nil {
		return err
	}
	return w.WriteBits(m.NoWait)
}
func (m *BasicCancel) Decode(r *Reader) (err error) {
	if m.ConsumerTag, err = r.ReadShortString(); err != nil {
		return err
	}
	bits, err := r.ReadBits(1)
	if err != nil {
		return err
	}
	m.NoWait = bits[0]
	return nil
}

type BasicCancelOk struct{ ConsumerTag string }

func (BasicCancelOk) ClassID() uint16  { return ClassBasic }
func (BasicCancelOk) MethodID() uint16 { return methodBasicCancelOk }
func (m *BasicCancelOk) Encode(w *Writer) error {
	return w.WriteShortString(m.ConsumerTag)
}
func (m *BasicCancelOk) Decode(r *Reader) (err error) {
	m.ConsumerTag, err = r.ReadShortString()
	return err
}

type BasicPublish struct {
	reserved1  uint16
	Exchange   string
	RoutingKey string
	Mandatory  bool
	Immediate  bool
}

func (BasicPublish) ClassID() uint16  { return ClassBasic }
func (BasicPublish) MethodID() uint16 { return methodBasicPublish }
func (m *BasicPublish) Encode(w *Writer) error {
	if err := w.WriteShort(m.reserved1); err != nil {
		return err
	}
	if err := w.WriteShortString(m.Exchange); err != nil {
		return err
	}
	if err := w.WriteShortString(m.RoutingKey); err != nil {
		return err
	}
	return w.WriteBits(m.Mandatory, m.Immediate)
}
func (m *BasicPublish) Decode(r *Reader) (err error) {
	if m.reserved1, err = r.ReadShort(); err != nil {
		return err
	}
	if m.Exchange, err = r.ReadShortString(); err != nil {
		return err
	}
	if m.RoutingKey, err = r.ReadShortString(); err != nil {
		return err
	}
	bits, err := r.ReadBits(2)
	if err != nil {
		return err
	}
	m.Mandatory, m.Immediate = bits[0], bits[1]
	return nil
}

type BasicReturn struct {
	ReplyCode  uint16
	ReplyText  string
	Exchange   string
	RoutingKey string
}

func (BasicReturn) ClassID() uint16  { return ClassBasic }
func (BasicReturn) MethodID() uint16 { return methodBasicReturn }
func (m *BasicReturn) Encode(w *Writer) error {
	if err := w.WriteShort(m.ReplyCode); err != nil {
		return err
	}
	if err := w.WriteShortString(m.ReplyText); err != nil {
		return err
	}
	if err := w.WriteShortString(m.Exchange); err != nil {
		return err
	}
	return w.WriteShortString(m.RoutingKey)
}
func (m *BasicReturn) Decode(r *Reader) (err error) {
	if m.ReplyCode, err = r.ReadShort(); err != nil {
		return err
	}
	if m.ReplyText, err = r.ReadShortString(); err != nil {
		return err
	}
	if m.Exchange, err = r.ReadShortString(); err != nil {
		return err
	}
	m.RoutingKey, err = r.ReadShortString()
	return err
}

type BasicDeliver struct {
	ConsumerTag string
	DeliveryTag uint64
	Redelivered bool
	Exchange    string
	RoutingKey  string
}

func (BasicDeliver) ClassID() uint16  { return ClassBasic }
func (BasicDeliver) MethodID() uint16 { return methodBasicDeliver }
func (m *BasicDeliver) Encode(w *Writer) error {
	if err := w.WriteShortString(m.ConsumerTag); err != nil {
		return err
	}
	if err := w.WriteLongLong(m.DeliveryTag); err != nil {
		return err
	}
	if err := w.WriteBits(m.Redelivered); err != nil {
		return err
	}
	if err := w.WriteShortString(m.Exchange); err != nil {
		return err
	}
	return w.WriteShortString(m.RoutingKey)
}
func (m *BasicDeliver) Decode(r *Reader) (err error) {
	if m.ConsumerTag, err = r.ReadShortString(); err != nil {
		return err
	}
	if m.DeliveryTag, err = r.ReadLongLong(); err != nil {
		return err
	}
	bits, err := r.ReadBits(1)
	if err != nil {
		return err
	}
	m.Redelivered = bits[0]
	if m.Exchange, err = r.ReadShortString(); err != nil {
		return err
	}
	m.RoutingKey, err = r.ReadShortString()
	return err
}

type BasicGet struct {
	reserved1 uint16
	Queue     string
	NoAck     bool
}

func (BasicGet) ClassID() uint16  { return ClassBasic }
func (BasicGet) MethodID() uint16 { return methodBasicGet }
func (m *BasicGet) Encode(w *Writer) error {
	if err := w.WriteShort(m.reserved1); err != nil {
		return err
	}
	if err := w.WriteShortString(m.Queue); err != nil {
		return err
	}
	return w.WriteBits(m.NoAck)
}
func (m *BasicGet) Decode(r *Reader) (err error) {
	if m.reserved1, err = r.ReadShort(); err != nil {
		return err
	}
	if m.Queue, err = r.ReadShortString(); err != nil {
		return err
	}
	bits, err := r.ReadBits(1)
	if err != nil {
		return err
	}
	m.NoAck = bits[0]
	return nil
}

type BasicGetOk struct {
	DeliveryTag  uint64
	Redelivered  bool
	Exchange     string
	RoutingKey   string
	MessageCount uint32
}

func (BasicGetOk) ClassID() uint16  { return ClassBasic }
func (BasicGetOk) MethodID() uint16 { return methodBasicGetOk }
func (m *BasicGetOk) Encode(w *Writer) error {
	if err := w.WriteLongLong(m.DeliveryTag); err != nil {
		return err
	}
	if err := w.WriteBits(m.Redelivered); err != nil {
		return err
	}
	if err := w.WriteShortString(m.Exchange); err != nil {
		return err
	}
	if err := w.WriteShortString(m.RoutingKey); err != nil {
		return err
	}
	return w.WriteLong(m.MessageCount)
}
func (m *BasicGetOk) Decode(r *Reader) (err error) {
	if m.DeliveryTag, err = r.ReadLongLong(); err != nil {
		return err
	}
	bits, err := r.ReadBits(1)
	if err != nil {
		return err
	}
	m.Redelivered = bits[0]
	if m.Exchange, err = r.ReadShortString(); err != nil {
		return err
	}
	if m.RoutingKey, err = r.ReadShortString(); err != nil {
		return err
	}
	m.MessageCount, err = r.ReadLong()
	return err
}

type BasicGetEmpty struct{ reserved1 string }

func (BasicGetEmpty) ClassID() uint16  { return ClassBasic }
func (BasicGetEmpty) MethodID() uint16 { return methodBasicGetEmpty }
func (m *BasicGetEmpty) Encode(w *Writer) error {
	return w.WriteShortString(m.reserved1)
}
func (m *BasicGetEmpty) Decode(r *Reader) (err error) {
	m.reserved1, err = r.ReadShortString()
	return err
}

type BasicAck struct {
	DeliveryTag uint64
	Multiple    bool
}

func (BasicAck) ClassID() uint16  { return ClassBasic }
func (BasicAck) MethodID() uint16 { return methodBasicAck }
func (m *BasicAck) Encode(w *Writer) error {
	if err := w.WriteLongLong(m.DeliveryTag); err != nil {
		return err
	}
	return w.WriteBits(m.Multiple)
}
func (m *BasicAck) Decode(r *Reader) (err error) {
	if m.DeliveryTag, err = r.ReadLongLong(); err != nil {
		return err
	}
	bits, err := r.ReadBits(1)
	if err != nil {
		return err
	}
	m.Multiple = bits[0]
	return nil
}

type BasicReject struct {
	DeliveryTag uint64
	Requeue     bool
}

func (BasicReject) ClassID() uint16  { return ClassBasic }
func (BasicReject) MethodID() uint16 { return methodBasicReject }
func (m *BasicReject) Encode(w *Writer) error {
	if err := w.WriteLongLong(m.DeliveryTag); err != nil {
		return err
	}
	return w.WriteBits(m.Requeue)
}
func (m *BasicReject) Decode(r *Reader) (err error) {
	if m.DeliveryTag, err = r.ReadLongLong(); err != nil {
		return err
	}
	bits, err := r.ReadBits(1)
	if err != nil {
		return err
	}
	m.Requeue = bits[0]
	return nil
}

type BasicRecoverAsync struct{ Requeue bool }

func (BasicRecoverAsync) ClassID() uint16  { return ClassBasic }
func (BasicRecoverAsync) MethodID() uint16 { return methodBasicRecoverAsync }
func (m *BasicRecoverAsync) Encode(w *Writer) error { return w.WriteBits(m.Requeue) }
func (m *BasicRecoverAsync) Decode(r *Reader) error {
	bits, err := r.ReadBits(1)
	if err != nil {
		return err
	}
	m.Requeue = bits[0]
	return nil
}

type BasicRecover BasicRecoverAsync

func (BasicRecover) ClassID() uint16           { return ClassBasic }
func (BasicRecover) MethodID() uint16          { return methodBasicRecover }
func (m *BasicRecover) Encode(w *Writer) error { return (*BasicRecoverAsync)(m).Encode(w) }
func (m *BasicRecover) Decode(r *Reader) error { return (*BasicRecoverAsync)(m).Decode(r) }

type BasicRecoverOk struct{}

func (BasicRecoverOk) ClassID() uint16       { return ClassBasic }
func (BasicRecoverOk) MethodID() uint16      { return methodBasicRecoverOk }
func (*BasicRecoverOk) Encode(*Writer) error { return nil }
func (*BasicRecoverOk) Decode(*Reader) error { return nil }

type BasicNack struct {
	DeliveryTag uint64
	Multiple    bool
	Requeue     bool
}

func (BasicNack) ClassID() uint16  { return ClassBasic }
func (BasicNack) MethodID() uint16 { return methodBasicNack }
func (m *BasicNack) Encode(w *Writer) error {
	if err := w.WriteLongLong(m.DeliveryTag); err != nil {
		return err
	}
	return w.WriteBits(m.Multiple, m.Requeue)
}
func (m *BasicNack) Decode(r *Reader) (err error) {
	if m.DeliveryTag, err = r.ReadLongLong(); err != nil {
		return err
	}
	bits, err := r.ReadBits(2)
	if err != nil {
		return err
	}
	m.Multiple, m.Requeue = bits[0], bits[1]
	return nil
}
