package wire

const (
	methodQueueDeclare   uint16 = 10
	methodQueueDeclareOk uint16 = 11
	methodQueueBind      uint16 = 20
	methodQueueBindOk    uint16 = 21
	methodQueuePurge     uint16 = 30
	methodQueuePurgeOk   uint16 = 31
	methodQueueDelete    uint16 = 40
	methodQueueDeleteOk  uint16 = 41
	methodQueueUnbind    uint16 = 50
	methodQueueUnbindOk  uint16 = 51
)

func init() {
	register(ClassQueue, methodQueueDeclare, func() MethodArgs { return &QueueDeclare{} })
	register(ClassQueue, methodQueueDeclareOk, func() MethodArgs { return &QueueDeclareOk{} })
	register(ClassQueue, methodQueueBind, func() MethodArgs { return &QueueBind{} })
	register(ClassQueue, methodQueueBindOk, func() MethodArgs { return &QueueBindOk{} })
	register(ClassQueue, methodQueuePurge, func() MethodArgs { return &QueuePurge{} })
	register(ClassQueue, methodQueuePurgeOk, func() MethodArgs { return &QueuePurgeOk{} })
	register(ClassQueue, methodQueueDelete, func() MethodArgs { return &QueueDelete{} })
	register(ClassQueue, methodQueueDeleteOk, func() MethodArgs { return &QueueDeleteOk{} })
	register(ClassQueue, methodQueueUnbind, func() MethodArgs { return &QueueUnbind{} })
	register(ClassQueue, methodQueueUnbindOk, func() MethodArgs { return &QueueUnbindOk{} })
}

type QueueDeclare struct {
	reserved1  uint16
	Queue      string
	Passive    bool
	Durable    bool
	Exclusive  bool
	AutoDelete bool
	NoWait     bool
	Arguments  Table
}

func (QueueDeclare) ClassID() uint16  { return ClassQueue }
func (QueueDeclare) MethodID() uint16 { return methodQueueDeclare }
func (m *QueueDeclare) Encode(w *Writer) error {
	if err := w.WriteShort(m.reserved1); err != nil {
		return err
	}
	if err := w.WriteShortString(m.Queue); err != nil {
		return err
	}
	if err := w.WriteBits(m.Passive, m.Durable, m.Exclusive, m.AutoDelete, m.NoWait); err != nil {
		return err
	}
	return w.WriteTable(m.Arguments)
}
func (m *QueueDeclare) Decode(r *Reader) (err error) {
	if m.reserved1, err = r.ReadShort(); err != nil {
		return err
	}
	if m.Queue, err = r.ReadShortString(); err != nil {
		return err
	}
	bits, err := r.ReadBits(5)
	if err != nil {
		return err
	}
	m.Passive, m.Durable, m.Exclusive, m.AutoDelete, m.NoWait = bits[0], bits[1], bits[2], bits[3], bits[4]
	m.Arguments, err = r.ReadTable()
	return err
}

type QueueDeclareOk struct {
	Queue         string
	MessageCount  uint32
	ConsumerCount uint32
}

func (QueueDeclareOk) ClassID() uint16  { return ClassQueue }
func (QueueDeclareOk) MethodID() uint16 { return methodQueueDeclareOk }
func (m *QueueDeclareOk) Encode(w *Writer) error {
	if err := w.WriteShortString(m.Queue); err != nil {
		return err
	}
	if err := w.WriteLong(m.MessageCount); err != nil {
		return err
	}
	return w.WriteLong(m.ConsumerCount)
}
func (m *QueueDeclareOk) Decode(r *Reader) (err error) {
	if m.Queue, err = r.ReadShortString(); err != nil {
		return err
	}
	if m.MessageCount, err = r.ReadLong(); err != nil {
		return err
	}
	m.ConsumerCount, err = r.ReadLong()
	return err
}

type QueueBind struct {
	reserved1  uint16
	Queue      string
	Exchange   string
	RoutingKey string
	NoWait     bool
	Arguments  Table
}

func (QueueBind) ClassID() uint16  { return ClassQueue }
func (QueueBind) MethodID() uint16 { return methodQueueBind }
func (m *QueueBind) Encode(w *Writer) error {
	if err := w.WriteShort(m.reserved1); err != nil {
		return err
	}
	if err := w.WriteShortString(m.Queue); err != nil {
		return err
	}
	if err := w.WriteShortString(m.Exchange); err != nil {
		return err
	}
	if err := w.WriteShortString(m.RoutingKey); err != nil {
		return err
	}
	if err := w.WriteBits(m.NoWait); err != nil {
		return err
	}
	return w.WriteTable(m.Arguments)
}
func (m *QueueBind) Decode(r *Reader) (err error) {
	if m.reserved1, err = r.ReadShort(); err != nil {
		return err
	}
	if m.Queue, err = r.ReadShortString(); err != nil {
		return err
	}
	if m.Exchange, err = r.ReadShortString(); err != nil {
		return err
	}
	if m.RoutingKey, err = r.ReadShortString(); err != nil {
		return err
	}
	bits, err := r.ReadBits(1)
	if err != nil {
		return err
	}
	m.NoWait = bits[0]
	m.Arguments, err = r.ReadTable()
	return err
}

type QueueBindOk struct{}

func (QueueBindOk) ClassID() uint16       { return ClassQueue }
func (QueueBindOk) MethodID() uint16      { return methodQueueBindOk }
func (*QueueBindOk) Encode(*Writer) error { return nil }
func (*QueueBindOk) Decode(*Reader) error { return nil }

type QueueUnbind struct {
	reserved1  uint16
	Queue      string
	Exchange   string
	RoutingKey string
	Arguments  Table
}

func (QueueUnbind) ClassID() uint16  { return ClassQueue }
func (QueueUnbind) MethodID() uint16 { return methodQueueUnbind }
func (m *QueueUnbind) Encode(w *Writer) error {
	if err := w.WriteShort(m.reserved1); err != nil {
		return err
	}
	if err := w.WriteShortString(m.Queue); err != nil {
		return err
	}
	if err := w.WriteShortString(m.Exchange); err != nil {
		return err
	}
	if err := w.WriteShortString(m.RoutingKey); err != nil {
		return err
	}
	return w.WriteTable(m.Arguments)
}
func (m *QueueUnbind) Decode(r *Reader) (err error) {
	if m.reserved1, err = r.ReadShort(); err != nil {
		return err
	}
	if m.Queue, err = r.ReadShortString(); err != nil {
		return err
	}
	if m.Exchange, err = r.ReadShortString(); err != nil {
		return err
	}
	if m.RoutingKey, err = r.ReadShortString(); err != nil {
		return err
	}
	m.Arguments, err = r.ReadTable()
	return err
}

type QueueUnbindOk struct{}

func (QueueUnbindOk) ClassID() uint16       { return ClassQueue }
func (QueueUnbindOk) MethodID() uint16      { return methodQueueUnbindOk }
func (*QueueUnbindOk) Encode(*Writer) error { return nil }
func (*QueueUnbindOk) Decode(*Reader) error { return nil }

type QueuePurge struct {
	reserved1 uint16
	Queue     string
	NoWait    bool
}

func (QueuePurge) ClassID() uint16  { return ClassQueue }
func (QueuePurge) MethodID() uint16 { return methodQueuePurge }
func (m *QueuePurge) Encode(w *Writer) error {
	if err := w.WriteShort(m.reserved1); err != nil {
		return err
	}
	if err := w.WriteShortString(m.Queue); err != nil {
		return err
	}
	return w.WriteBits(m.NoWait)
}
func (m *QueuePurge) Decode(r *Reader) (err error) {
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
	m.NoWait = bits[0]
	return nil
}

type QueuePurgeOk struct{ MessageCount uint32 }

func (QueuePurgeOk) ClassID() uint16  { return ClassQueue }
func (QueuePurgeOk) MethodID() uint16 { return methodQueuePurgeOk }
func (m *QueuePurgeOk) Encode(w *Writer) error {
	return w.WriteLong(m.MessageCount)
}
func (m *QueuePurgeOk) Decode(r *Reader) (err error) {
	m.MessageCount, err = r.ReadLong()
	return err
}

type QueueDelete struct {
	reserved1 uint16
	Queue     string
	IfUnused  bool
	IfEmpty   bool
	NoWait    bool
}

func (QueueDelete) ClassID() uint16  { return ClassQueue }
func (QueueDelete) MethodID() uint16 { return methodQueueDelete }
func (m *QueueDelete) Encode(w *Writer) error {
	if err := w.WriteShort(m.reserved1); err != nil {
		return err
	}
	if err := w.WriteShortString(m.Queue); err != nil {
		return err
	}
	return w.WriteBits(m.IfUnused, m.IfEmpty, m.NoWait)
}
func (m *QueueDelete) Decode(r *Reader) (err error) {
	if m.reserved1, err = r.ReadShort(); err != nil {
		return err
	}
	if m.Queue, err = r.ReadShortString(); err != nil {
		return err
	}
	bits, err := r.ReadBits(3)
	if err != nil {
		return err
	}
	m.IfUnused, m.IfEmpty, m.NoWait = bits[0], bits[1], bits[2]
	return nil
}

type QueueDeleteOk struct{ MessageCount uint32 }

func (QueueDeleteOk) ClassID() uint16  { return ClassQueue }
func (QueueDeleteOk) MethodID() uint16 { return methodQueueDeleteOk }
func (m *QueueDeleteOk) Encode(w *Writer) error {
	return w.WriteLong(m.MessageCount)
}
func (m *QueueDeleteOk) Decode(r *Reader) (err error) {
	m.MessageCount, err = r.ReadLong()
	return err
}
