package wire

import "encoding/binary"

// NoType is the sentinel PeekType returns when b is too short to contain a
// message type.
const NoType int32 = -1

// PeekType reads the big-endian u16 message type at the start of b without
// mutating b or consuming it from any cursor. It is a pure, idempotent
// helper used to dispatch on message type before a full decode.
func PeekType(b []byte) int32 {
	if len(b) < 2 {
		return NoType
	}
	return int32(binary.BigEndian.Uint16(b[:2]))
}
