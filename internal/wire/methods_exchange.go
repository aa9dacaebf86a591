package wire

const (
	methodExchangeDeclare   uint16 = 10
	methodExchangeDeclareOk uint16 = 11
	methodExchangeDelete    uint16 = 20
	methodExchangeDeleteOk  uint16 = 21
	methodExchangeBind      uint16 = 30
	methodExchangeBindOk    uint16 = 31
	methodExchangeUnbind    uint16 = 40
	methodExchangeUnbindOk  uint16 = 51
)

func init() {
	register(ClassExchange, methodExchangeDeclare, func() MethodArgs { return &ExchangeDeclare{} })
	register(ClassExchange, methodExchangeDeclareOk, func() MethodArgs { return &ExchangeDeclareOk{} })
	register(ClassExchange, methodExchangeDelete, func() MethodArgs { return &ExchangeDelete{} })
	register(ClassExchange, methodExchangeDeleteOk, func() MethodArgs { return &ExchangeDeleteOk{} })
	register(ClassExchange, methodExchangeBind, func() MethodArgs { return &ExchangeBind{} })
	register(ClassExchange, methodExchangeBindOk, func() MethodArgs { return &ExchangeBindOk{} })
	register(ClassExchange, methodExchangeUnbind, func() MethodArgs { return &ExchangeUnbind{} })
	register(ClassExchange, methodExchangeUnbindOk, func() MethodArgs { return &ExchangeUnbindOk{} })
}

type ExchangeDeclare struct {
	reserved1  uint16
	Exchange   string
	Type       string
	Passive    bool
	Durable    bool
	AutoDelete bool
	Internal   bool
	NoWait     bool
	Arguments  Table
}

func (ExchangeDeclare) ClassID() uint16  { return ClassExchange }
func (ExchangeDeclare) MethodID() uint16 { return methodExchangeDeclare }
func (m *ExchangeDeclare) Encode(w *Writer) error {
	if err := w.WriteShort(m.reserved1); err != nil {
		return err
	}
	if err := w.WriteShortString(m.Exchange); err != nil {
		return err
	}
	if err := w.WriteShortString(m.Type); err != nil {
		return err
	}
	if err := w.WriteBits(m.Passive, m.Durable, m.AutoDelete, m.Internal, m.NoWait); err != nil {
		return err
	}
	return w.WriteTable(m.Arguments)
}
func (m *ExchangeDeclare) Decode(r *Reader) (err error) {
	if m.reserved1, err = r.ReadShort(); err != nil {
		return err
	}
	if m.Exchange, err = r.ReadShortString(); err != nil {
		return err
	}
	if m.Type, err = r.ReadShortString(); err != nil {
		return err
	}
	bits, err := r.ReadBits(5)
	if err != nil {
		return err
	}
	m.Passive, m.Durable, m.AutoDelete, m.Internal, m.NoWait = bits[0], bits[1], bits[2], bits[3], bits[4]
	m.Arguments, err = r.ReadTable()
	return err
}

type ExchangeDeclareOk struct{}

func (ExchangeDeclareOk) ClassID() uint16       { return ClassExchange }
func (ExchangeDeclareOk) MethodID() uint16      { return methodExchangeDeclareOk }
func (*ExchangeDeclareOk) Encode(*Writer) error { return nil }
func (*ExchangeDeclareOk) Decode(*Reader) error { return nil }

type ExchangeDelete struct {
	reserved1 uint16
	Exchange  string
	IfUnused  bool
	NoWait    bool
}

func (ExchangeDelete) ClassID() uint16  { return ClassExchange }
func (ExchangeDelete) MethodID() uint16 { return methodExchangeDelete }
func (m *ExchangeDelete) Encode(w *Writer) error {
	if err := w.WriteShort(m.reserved1); err != nil {
		return err
	}
	if err := w.WriteShortString(m.Exchange); err != nil {
		return err
	}
	return w.WriteBits(m.IfUnused, m.NoWait)
}
func (m *ExchangeDelete) Decode(r *Reader) (err error) {
	if m.reserved1, err = r.ReadShort(); err != nil {
		return err
	}
	if m.Exchange, err = r.ReadShortString(); err != nil {
		return err
	}
	bits, err := r.ReadBits(2)
	if err != nil {
		return err
	}
	m.IfUnused, m.NoWait = bits[0], bits[1]
	return nil
}

type ExchangeDeleteOk struct{}

func (ExchangeDeleteOk) ClassID() uint16       { return ClassExchange }
func (ExchangeDeleteOk) MethodID() uint16      { return methodExchangeDeleteOk }
func (*ExchangeDeleteOk) Encode(*Writer) error { return nil }
func (*ExchangeDeleteOk) Decode(*Reader) error { return nil }

type ExchangeBind struct {
	reserved1   uint16
	Destination string
	Source      string
	RoutingKey  string
	NoWait      bool
	Arguments   Table
}

func (ExchangeBind) ClassID() uint16  { return ClassExchange }
func (ExchangeBind) MethodID() uint16 { return methodExchangeBind }
func (m *ExchangeBind) Encode(w *Writer) error {
	if err := w.WriteShort(m.reserved1); err != nil {
		return err
	}
	if err := w.WriteShortString(m.Destination); err != nil {
		return err
	}
	if err := w.WriteShortString(m.Source); err != nil {
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
func (m *ExchangeBind) Decode(r *Reader) (err error) {
	if m.reserved1, err = r.ReadShort(); err != nil {
		return err
	}
	if m.Destination, err = r.ReadShortString(); err != nil {
		return err
	}
	if m.Source, err = r.ReadShortString(); err != nil {
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

type ExchangeBindOk struct{}

func (ExchangeBindOk) ClassID() uint16       { return ClassExchange }
func (ExchangeBindOk) MethodID() uint16      { return methodExchangeBindOk }
func (*ExchangeBindOk) Encode(*Writer) error { return nil }
func (*ExchangeBindOk) Decode(*Reader) error { return nil }

type ExchangeUnbind ExchangeBind

func (ExchangeUnbind) ClassID() uint16           { return ClassExchange }
func (ExchangeUnbind) MethodID() uint16          { return methodExchangeUnbind }
func (m *ExchangeUnbind) Encode(w *Writer) error { return (*ExchangeBind)(m).Encode(w) }
func (m *ExchangeUnbind) Decode(r *Reader) error { return (*ExchangeBind)(m).Decode(r) }

type ExchangeUnbindOk struct{}

func (ExchangeUnbindOk) ClassID() uint16       { return ClassExchange }
func (ExchangeUnbindOk) MethodID() uint16      { return methodExchangeUnbindOk }
func (*ExchangeUnbindOk) Encode(*Writer) error { return nil }
func (*ExchangeUnbindOk) Decode(*Reader) error { return nil }
