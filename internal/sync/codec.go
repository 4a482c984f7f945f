package sync

// Opcode identifies the purpose of a wire message. It occupies exactly one
// byte at the start of every frame.
type Opcode byte

// The closed opcode enumeration. Values outside this set decode successfully
// (the codec passes them through as opaque numbers); rejecting them is the
// dispatcher's job.
const (
	OpAuth       Opcode = 0x01
	OpPing       Opcode = 0x02
	OpPong       Opcode = 0x03
	OpNoteCreate Opcode = 0x10
	OpNoteUpdate Opcode = 0x11
	OpNoteDelete Opcode = 0x12
	OpNoteList   Opcode = 0x13
	OpError      Opcode = 0x20
	OpAck        Opcode = 0x21
)

// Known reports whether the opcode belongs to the recognized set.
func (op Opcode) Known() bool {
	switch op {
	case OpAuth, OpPing, OpPong, OpNoteCreate, OpNoteUpdate, OpNoteDelete, OpNoteList, OpError, OpAck:
		return true
	default:
		return false
	}
}

// String returns the protocol name of the opcode, or "UNKNOWN(0xNN)" for
// values outside the recognized set.
func (op Opcode) String() string {
	switch op {
	case OpAuth:
		return "AUTH"
	case OpPing:
		return "PING"
	case OpPong:
		return "PONG"
	case OpNoteCreate:
		return "NOTE_CREATE"
	case OpNoteUpdate:
		return "NOTE_UPDATE"
	case OpNoteDelete:
		return "NOTE_DELETE"
	case OpNoteList:
		return "NOTE_LIST"
	case OpError:
		return "ERROR"
	case OpAck:
		return "ACK"
	default:
		const hexdigits = "0123456789abcdef"
		return "UNKNOWN(0x" + string(hexdigits[op>>4]) + string(hexdigits[op&0x0f]) + ")"
	}
}

// Encode produces a frame whose first byte is the opcode and whose remaining
// bytes are the payload copied verbatim. A nil payload yields a one-byte
// frame. The returned slice never aliases payload.
func Encode(op Opcode, payload []byte) []byte {
	frame := make([]byte, 1+len(payload))
	frame[0] = byte(op)
	copy(frame[1:], payload)
	return frame
}

// Decode splits a frame into its opcode and payload. The payload is nil when
// the frame is exactly one byte long. Decoding an empty frame fails with
// [ErrMalformedMessage].
//
// The returned payload aliases the input frame; callers that retain it past
// the lifetime of the frame must copy.
func Decode(frame []byte) (Opcode, []byte, error) {
	if len(frame) == 0 {
		return 0, nil, ErrMalformedMessage
	}

	if len(frame) == 1 {
		return Opcode(frame[0]), nil, nil
	}

	return Opcode(frame[0]), frame[1:], nil
}
