package wire

import "encoding/binary"

// U8 decodes a single byte. On short input it poisons the cursor and
// returns 0.
func (c *Cursor) U8() uint8 {
	b, ok := c.take(1)
	if !ok {
		return 0
	}
	return b[0]
}

// U16 decodes a big-endian 2-byte unsigned integer.
func (c *Cursor) U16() uint16 {
	b, ok := c.take(2)
	if !ok {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

// U32 decodes a big-endian 4-byte unsigned integer.
func (c *Cursor) U32() uint32 {
	b, ok := c.take(4)
	if !ok {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

// U64 decodes a big-endian 8-byte unsigned integer.
func (c *Cursor) U64() uint64 {
	b, ok := c.take(8)
	if !ok {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}

// Bool decodes a single byte constrained to {0,1}. Any other value poisons
// the cursor and reports false.
func (c *Cursor) Bool() bool {
	b, ok := c.take(1)
	if !ok {
		return false
	}
	switch b[0] {
	case 0:
		return false
	case 1:
		return true
	default:
		c.Fail()
		return false
	}
}

// PutU8 appends v as a single byte.
func PutU8(dst []byte, v uint8) []byte {
	return append(dst, v)
}

// PutU16 appends v as a big-endian 2-byte value.
func PutU16(dst []byte, v uint16) []byte {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	return append(dst, buf[:]...)
}

// PutU32 appends v as a big-endian 4-byte value.
func PutU32(dst []byte, v uint32) []byte {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	return append(dst, buf[:]...)
}

// PutU64 appends v as a big-endian 8-byte value.
func PutU64(dst []byte, v uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	return append(dst, buf[:]...)
}

// PutBool appends v encoded as a single {0,1} byte.
func PutBool(dst []byte, v bool) []byte {
	if v {
		return append(dst, 1)
	}
	return append(dst, 0)
}
