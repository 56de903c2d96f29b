package motionlink

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// FrameSize is the fixed length of every request and response on the wire.
// There is no length prefix and no delimiter.
const FrameSize = 8

// Opcode identifies the operation carried by a frame.
type Opcode uint8

const (
	// OpWriteSelect selects a register for a subsequent write commit.
	OpWriteSelect Opcode = 0x50
	// OpWriteSelectAck acknowledges a write select.
	OpWriteSelectAck Opcode = 0x51
	// OpWriteCommit carries the value for the previously selected register.
	OpWriteCommit Opcode = 0x52
	// OpWriteCommitAck acknowledges a write commit.
	OpWriteCommitAck Opcode = 0x53
	// OpRead requests the current value of a register.
	OpRead Opcode = 0x40
	// OpReadReply carries the value of a read register.
	OpReadReply Opcode = 0x41
	// OpReadRelease acknowledges a read reply and releases the register.
	OpReadRelease Opcode = 0x42
	// OpReadReleaseAck acknowledges a read release; the server closes the
	// session after sending it.
	OpReadReleaseAck Opcode = 0x43
)

var opcodeNames = map[Opcode]string{
	OpWriteSelect:    "WRITE_SELECT",
	OpWriteSelectAck: "WRITE_SELECT_ACK",
	OpWriteCommit:    "WRITE_COMMIT",
	OpWriteCommitAck: "WRITE_COMMIT_ACK",
	OpRead:           "READ",
	OpReadReply:      "READ_REPLY",
	OpReadRelease:    "READ_RELEASE",
	OpReadReleaseAck: "READ_RELEASE_ACK",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Opcode(0x%02x)", uint8(op))
}

// ErrValueRange is returned by EncodeValue for values outside the signed
// 32-bit domain.
var ErrValueRange = errors.New("motionlink: value outside signed 32-bit range")

// ErrShortFrame is returned when the wire yields fewer than FrameSize bytes.
var ErrShortFrame = errors.New("motionlink: short frame")

// Frame is one 8-byte protocol unit. Byte 0 is the opcode, byte 1 the
// register selector, bytes 2-3 are reserved and always zero, bytes 4-7 are
// the big-endian payload. The zero value is a valid empty frame; every
// session starts from a fresh one so no bytes leak between exchanges.
type Frame struct {
	Op      Opcode
	Arg     uint8
	Payload [4]byte
}

// EncodeValue packs v into the payload the way the motion device does:
// the value is reduced to its unsigned 32-bit two's-complement image and
// only the low three bytes are written, into Payload[1:4]. Payload[0] is
// never touched and stays zero, so values whose image needs the top byte
// silently lose it; the lossless round-trip range is 0..16777215.
// Values outside the signed 32-bit domain fail with ErrValueRange.
func (f *Frame) EncodeValue(v int64) error {
	if v < -1<<31 || v > 1<<31-1 {
		return fmt.Errorf("%w: %d", ErrValueRange, v)
	}
	u := uint32(v)
	f.Payload[1] = byte(u >> 16)
	f.Payload[2] = byte(u >> 8)
	f.Payload[3] = byte(u)
	return nil
}

// DecodeValue reads all four payload bytes as a big-endian unsigned 32-bit
// integer and reinterprets it as signed two's complement. This is not the
// inverse of EncodeValue: the decoder trusts the top byte, the device-side
// encoder never writes it. Peers that pack the full width (the register
// server does) round-trip the whole int32 range.
func (f *Frame) DecodeValue() int32 {
	return int32(binary.BigEndian.Uint32(f.Payload[:]))
}

// marshal renders the frame into its fixed wire image. Reserved bytes 2-3
// come out zero from the array's zero value.
func (f *Frame) marshal() [FrameSize]byte {
	var b [FrameSize]byte
	b[0] = byte(f.Op)
	b[1] = f.Arg
	copy(b[4:], f.Payload[:])
	return b
}

func unmarshalFrame(b []byte) (f Frame, err error) {
	if len(b) < FrameSize {
		err = fmt.Errorf("%w: got %d bytes", ErrShortFrame, len(b))
		return
	}
	f.Op = Opcode(b[0])
	f.Arg = b[1]
	copy(f.Payload[:], b[4:FrameSize])
	return
}

// replyFrame builds a server-side response carrying the full 32-bit value.
// Unlike the device encoder it writes all four payload bytes.
func replyFrame(op Opcode, arg uint8, v int32) (f Frame) {
	f.Op = op
	f.Arg = arg
	binary.BigEndian.PutUint32(f.Payload[:], uint32(v))
	return
}
