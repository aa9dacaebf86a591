package wire

const (
	methodChannelOpen    uint16 = 10
	methodChannelOpenOk  uint16 = 11
	methodChannelFlow    uint16 = 20
	methodChannelFlowOk  uint16 = 21
	methodChannelClose   uint16 = 40
	methodChannelCloseOk uint16 = 41
)

func init() {
	register(ClassChannel, methodChannelOpen, func() MethodArgs { return &ChannelOpen{} })
	register(ClassChannel, methodChannelOpenOk, func() MethodArgs { return &ChannelOpenOk{} })
	register(ClassChannel, methodChannelFlow, func() MethodArgs { return &ChannelFlow{} })
	register(ClassChannel, methodChannelFlowOk, func() MethodArgs { return &ChannelFlowOk{} })
	register(ClassChannel, methodChannelClose, func() MethodArgs { return &ChannelClose{} })
	register(ClassChannel, methodChannelCloseOk, func() MethodArgs { return &ChannelCloseOk{} })
}

type ChannelOpen struct{ reserved1 string }

func (ChannelOpen) ClassID() uint16          { return ClassChannel }
func (ChannelOpen) MethodID() uint16         { return methodChannelOpen }
func (m *ChannelOpen) Encode(w *Writer) error { return w.WriteShortString(m.reserved1) }
func (m *ChannelOpen) Decode(r *Reader) (err error) {
	m.reserved1, err = r.ReadShortString()
	return err
}

type ChannelOpenOk struct{ reserved1 string }

func (ChannelOpenOk) ClassID() uint16  { return ClassChannel }
func (ChannelOpenOk) MethodID() uint16 { return methodChannelOpenOk }
func (m *ChannelOpenOk) Encode(w *Writer) error {
	return w.WriteLongString(m.reserved1)
}
func (m *ChannelOpenOk) Decode(r *Reader) (err error) {
	m.reserved1, err = r.ReadLongString()
	return err
}

type ChannelFlow struct{ Active bool }

func (ChannelFlow) ClassID() uint16           { return ClassChannel }
func (ChannelFlow) MethodID() uint16          { return methodChannelFlow }
func (m *ChannelFlow) Encode(w *Writer) error { return w.WriteBits(m.Active) }
func (m *ChannelFlow) Decode(r *Reader) error {
	bits, err := r.ReadBits(1)
	if err != nil {
		return err
	}
	m.Active = bits[0]
	return nil
}

type ChannelFlowOk ChannelFlow

func (ChannelFlowOk) ClassID() uint16           { return ClassChannel }
func (ChannelFlowOk) MethodID() uint16          { return methodChannelFlowOk }
func (m *ChannelFlowOk) Encode(w *Writer) error { return (*ChannelFlow)(m).Encode(w) }
func (m *ChannelFlowOk) Decode(r *Reader) error { return (*ChannelFlow)(m).Decode(r) }

type ChannelClose struct {
	ReplyCode uint16
	ReplyText string
	ClassID_  uint16
	MethodID_ uint16
}

func (ChannelClose) ClassID() uint16  { return ClassChannel }
func (ChannelClose) MethodID() uint16 { return methodChannelClose }
func (m *ChannelClose) Encode(w *Writer) error {
	if err := w.WriteShort(m.ReplyCode); err != nil {
		return err
	}
	if err := w.WriteShortString(m.ReplyText); err != nil {
		return err
	}
	if err := w.WriteShort(m.ClassID_); err != nil {
		return err
	}
	return w.WriteShort(m.MethodID_)
}
func (m *ChannelClose) Decode(r *Reader) (err error) {
	if m.ReplyCode, err = r.ReadShort(); err != nil {
		return err
	}
	if m.ReplyText, err = r.ReadShortString(); err != nil {
		return err
	}
	if m.ClassID_, err = r.ReadShort(); err != nil {
		return err
	}
	m.MethodID_, err = r.ReadShort()
	return err
}

type ChannelCloseOk struct{}

func (ChannelCloseOk) ClassID() uint16        { return ClassChannel }
func (ChannelCloseOk) MethodID() uint16       { return methodChannelCloseOk }
func (*ChannelCloseOk) Encode(*Writer) error  { return nil }
func (*ChannelCloseOk) Decode(*Reader) error  { return nil }
