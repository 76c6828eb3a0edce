package wire

import "unsafe"

// ChannelID is the 32-byte opaque channel identifier derived from a
// funding transaction's txid and output index.
type ChannelID [32]byte

// sizeof(ChannelID) == sizeof(Txid) is a static invariant of the wire
// format (spec.md §4.1): both are exactly 32 bytes.
var _ [unsafe.Sizeof(ChannelID{})]byte = [unsafe.Sizeof(Txid{})]byte{}

// DeriveChannelID copies txid and XORs the big-endian encoding of txout
// into the final two bytes, per BOLT #2.
func DeriveChannelID(txid Txid, txout uint16) ChannelID {
	var id ChannelID
	copy(id[:], txid.Encode(nil))
	id[30] ^= byte(txout >> 8)
	id[31] ^= byte(txout)
	return id
}

// Decode reads 32 raw bytes into the channel id. ChannelID has no
// independent wire derivation rule on decode — it is read as an opaque
// token, the same as Txid; DeriveChannelID is used only when constructing
// one from a funding outpoint.
func (id *ChannelID) Decode(c *Cursor) {
	c.Array(id[:])
}

// Encode appends the channel id's 32 bytes to dst.
func (id ChannelID) Encode(dst []byte) []byte {
	return append(dst, id[:]...)
}
