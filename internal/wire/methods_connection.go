package wire

const (
	methodConnectionStart     uint16 = 10
	methodConnectionStartOk   uint16 = 11
	methodConnectionSecure    uint16 = 20
	methodConnectionSecureOk  uint16 = 21
	methodConnectionTune      uint16 = 30
	methodConnectionTuneOk    uint16 = 31
	methodConnectionOpen      uint16 = 40
	methodConnectionOpenOk    uint16 = 41
	methodConnectionClose     uint16 = 50
	methodConnectionCloseOk   uint16 = 51
	methodConnectionBlocked   uint16 = 60
	methodConnectionUnblocked uint16 = 61
)

func init() {
	register(ClassConnection, methodConnectionStart, func() MethodArgs { return &ConnectionStart{} })
	register(ClassConnection, methodConnectionStartOk, func() MethodArgs { return &ConnectionStartOk{} })
	register(ClassConnection, methodConnectionSecure, func() MethodArgs { return &ConnectionSecure{} })
	register(ClassConnection, methodConnectionSecureOk, func() MethodArgs { return &ConnectionSecureOk{} })
	register(ClassConnection, methodConnectionTune, func() MethodArgs { return &ConnectionTune{} })
	register(ClassConnection, methodConnectionTuneOk, func() MethodArgs { return &ConnectionTuneOk{} })
	register(ClassConnection, methodConnectionOpen, func() MethodArgs { return &ConnectionOpen{} })
	register(ClassConnection, methodConnectionOpenOk, func() MethodArgs { return &ConnectionOpenOk{} })
	register(ClassConnection, methodConnectionClose, func() MethodArgs { return &ConnectionClose{} })
	register(ClassConnection, methodConnectionCloseOk, func() MethodArgs { return &ConnectionCloseOk{} })
	register(ClassConnection, methodConnectionBlocked, func() MethodArgs { return &ConnectionBlocked{} })
	register(ClassConnection, methodConnectionUnblocked, func() MethodArgs { return &ConnectionUnblocked{} })
}

type ConnectionStart struct {
	VersionMajor     uint8
	VersionMinor     uint8
	ServerProperties Table
	Mechanisms       string
	Locales          string
}

func (ConnectionStart) ClassID() uint16  { return ClassConnection }
func (ConnectionStart) MethodID() uint16 { return methodConnectionStart }
func (m *ConnectionStart) Encode(w *Writer) error {
	if err := w.WriteOctet(m.VersionMajor); err != nil {
		return err
	}
	if err := w.WriteOctet(m.VersionMinor); err != nil {
		return err
	}
	if err := w.WriteTable(m.ServerProperties); err != nil {
		return err
	}
	if err := w.WriteLongString(m.Mechanisms); err != nil {
		return err
	}
	return w.WriteLongString(m.Locales)
}
func (m *ConnectionStart) Decode(r *Reader) (err error) {
	if m.VersionMajor, err = r.ReadOctet(); err != nil {
		return err
	}
	if m.VersionMinor, err = r.ReadOctet(); err != nil {
		return err
	}
	if m.ServerProperties, err = r.ReadTable(); err != nil {
		return err
	}
	if m.Mechanisms, err = r.ReadLongString(); err != nil {
		return err
	}
	m.Locales, err = r.ReadLongString()
	return err
}

type ConnectionStartOk struct {
	ClientProperties Table
	Mechanism        string
	Response         string
	Locale           string
}

func (ConnectionStartOk) ClassID() uint16  { return ClassConnection }
func (ConnectionStartOk) MethodID() uint16 { return methodConnectionStartOk }
func (m *ConnectionStartOk) Encode(w *Writer) error {
	if err := w.WriteTable(m.ClientProperties); err != nil {
		return err
	}
	if err := w.WriteShortString(m.Mechanism); err != nil {
		return err
	}
	if err := w.WriteLongString(m.Response); err != nil {
		return err
	}
	return w.WriteShortString(m.Locale)
}
func (m *ConnectionStartOk) Decode(r *Reader) (err error) {
	if m.ClientProperties, err = r.ReadTable(); err != nil {
		return err
	}
	if m.Mechanism, err = r.ReadShortString(); err != nil {
		return err
	}
	if m.Response, err = r.ReadLongString(); err != nil {
		return err
	}
	m.Locale, err = r.ReadShortString()
	return err
}

type ConnectionSecure struct{ Challenge string }

func (ConnectionSecure) ClassID() uint16              { return ClassConnection }
func (ConnectionSecure) MethodID() uint16             { return methodConnectionSecure }
func (m *ConnectionSecure) Encode(w *Writer) error    { return w.WriteLongString(m.Challenge) }
func (m *ConnectionSecure) Decode(r *Reader) (err error) {
	m.Challenge, err = r.ReadLongString()
	return err
}

type ConnectionSecureOk struct{ Response string }

func (ConnectionSecureOk) ClassID() uint16           { return ClassConnection }
func (ConnectionSecureOk) MethodID() uint16          { return methodConnectionSecureOk }
func (m *ConnectionSecureOk) Encode(w *Writer) error { return w.WriteLongString(m.Response) }
func (m *ConnectionSecureOk) Decode(r *Reader) (err error) {
	m.Response, err = r.ReadLongString()
	return err
}

type ConnectionTune struct {
	ChannelMax uint16
	FrameMax   uint32
	Heartbeat  uint16
}

func (ConnectionTune) ClassID() uint16  { return ClassConnection }
func (ConnectionTune) MethodID() uint16 { return methodConnectionTune }
func (m *ConnectionTune) Encode(w *Writer) error {
	if err := w.WriteShort(m.ChannelMax); err != nil {
		return err
	}
	if err := w.WriteLong(m.FrameMax); err != nil {
		return err
	}
	return w.WriteShort(m.Heartbeat)
}
func (m *ConnectionTune) Decode(r *Reader) (err error) {
	if m.ChannelMax, err = r.ReadShort(); err != nil {
		return err
	}
	if m.FrameMax, err = r.ReadLong(); err != nil {
		return err
	}
	m.Heartbeat, err = r.ReadShort()
	return err
}

type ConnectionTuneOk ConnectionTune

func (ConnectionTuneOk) ClassID() uint16  { return ClassConnection }
func (ConnectionTuneOk) MethodID() uint16 { return methodConnectionTuneOk }
func (m *ConnectionTuneOk) Encode(w *Writer) error { return (*ConnectionTune)(m).Encode(w) }
func (m *ConnectionTuneOk) Decode(r *Reader) error { return (*ConnectionTune)(m).Decode(r) }

type ConnectionOpen struct {
	VirtualHost string
	reserved1   string
	reserved2   bool
}

func (ConnectionOpen) ClassID() uint16  { return ClassConnection }
func (ConnectionOpen) MethodID() uint16 { return methodConnectionOpen }
func (m *ConnectionOpen) Encode(w *Writer) error {
	if err := w.WriteShortString(m.VirtualHost); err != nil {
		return err
	}
	if err := w.WriteShortString(m.reserved1); err != nil {
		return err
	}
	return w.WriteBits(m.reserved2)
}
func (m *ConnectionOpen) Decode(r *Reader) (err error) {
	if m.VirtualHost, err = r.ReadShortString(); err != nil {
		return err
	}
	if m.reserved1, err = r.ReadShortString(); err != nil {
		return err
	}
	bits, err := r.ReadBits(1)
	if err != nil {
		return err
	}
	m.reserved2 = bits[0]
	return nil
}

type ConnectionOpenOk struct{ reserved1 string }

func (ConnectionOpenOk) ClassID() uint16  { return ClassConnection }
func (ConnectionOpenOk) MethodID() uint16 { return methodConnectionOpenOk }
func (m *ConnectionOpenOk) Encode(w *Writer) error { return w.WriteShortString(m.reserved1) }
func (m *ConnectionOpenOk) Decode(r *Reader) (err error) {
	m.reserved1, err = r.ReadShortString()
	return err
}

type ConnectionClose struct {
	ReplyCode uint16
	ReplyText string
	ClassID_  uint16
	MethodID_ uint16
}

func (ConnectionClose) ClassID() uint16  { return ClassConnection }
func (ConnectionClose) MethodID() uint16 { return methodConnectionClose }
func (m *ConnectionClose) Encode(w *Writer) error {
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
func (m *ConnectionClose) Decode(r *Reader) (err error) {
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

type ConnectionCloseOk struct{}

func (ConnectionCloseOk) ClassID() uint16         { return ClassConnection }
func (ConnectionCloseOk) MethodID() uint16        { return methodConnectionCloseOk }
func (*ConnectionCloseOk) Encode(*Writer) error   { return nil }
func (*ConnectionCloseOk) Decode(*Reader) error   { return nil }

type ConnectionBlocked struct{ Reason string }

func (ConnectionBlocked) ClassID() uint16  { return ClassConnection }
func (ConnectionBlocked) MethodID() uint16 { return methodConnectionBlocked }
func (m *ConnectionBlocked) Encode(w *Writer) error { return w.WriteShortString(m.Reason) }
func (m *ConnectionBlocked) Decode(r *Reader) (err error) {
	m.Reason, err = r.ReadShortString()
	return err
}

type ConnectionUnblocked struct{}

func (ConnectionUnblocked) ClassID() uint16       { return ClassConnection }
func (ConnectionUnblocked) MethodID() uint16      { return methodConnectionUnblocked }
func (*ConnectionUnblocked) Encode(*Writer) error { return nil }
func (*ConnectionUnblocked) Decode(*Reader) error { return nil }
