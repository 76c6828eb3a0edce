package wire

// Sha256 is a raw 32-byte SHA-256 digest.
type Sha256 [32]byte

// Decode reads 32 bytes into the digest.
func (h *Sha256) Decode(c *Cursor) {
	c.Array(h[:])
}

// Encode appends the digest's 32 bytes to dst.
func (h Sha256) Encode(dst []byte) []byte {
	return append(dst, h[:]...)
}

// Sha256D wraps a single SHA-256 digest. The wire format carries only one
// hash application; by domain convention the second SHA-256 pass that makes
// this a "double hash" is the caller's responsibility — Decode does not
// hash, it only reads 32 bytes (spec.md §9, fromwire_sha256_double).
type Sha256D struct {
	Inner Sha256
}

// Decode reads the inner 32-byte digest.
func (h *Sha256D) Decode(c *Cursor) {
	h.Inner.Decode(c)
}

// Encode appends the inner digest's 32 bytes to dst.
func (h Sha256D) Encode(dst []byte) []byte {
	return h.Inner.Encode(dst)
}

// Txid is a Bitcoin transaction id: a SHA-256D newtype.
type Txid Sha256D

// Decode reads 32 bytes into the txid.
func (t *Txid) Decode(c *Cursor) {
	(*Sha256D)(t).Decode(c)
}

// Encode appends the txid's 32 bytes to dst.
func (t Txid) Encode(dst []byte) []byte {
	return Sha256D(t).Encode(dst)
}

// BlockID is a Bitcoin block id: a SHA-256D newtype.
type BlockID Sha256D

// Decode reads 32 bytes into the block id.
func (b *BlockID) Decode(c *Cursor) {
	(*Sha256D)(b).Decode(c)
}

// Encode appends the block id's 32 bytes to dst.
func (b BlockID) Encode(dst []byte) []byte {
	return Sha256D(b).Encode(dst)
}

// Preimage is a fixed-width 32-byte opaque payment preimage.
type Preimage [32]byte

// Decode reads 32 bytes into the preimage.
func (p *Preimage) Decode(c *Cursor) {
	c.Array(p[:])
}

// Encode appends the preimage's 32 bytes to dst.
func (p Preimage) Encode(dst []byte) []byte {
	return append(dst, p[:]...)
}

// Ripemd160 is a fixed-width 20-byte RIPEMD-160 digest.
type Ripemd160 [20]byte

// Decode reads 20 bytes into the digest.
func (r *Ripemd160) Decode(c *Cursor) {
	c.Array(r[:])
}

// Encode appends the digest's 20 bytes to dst.
func (r Ripemd160) Encode(dst []byte) []byte {
	return append(dst, r[:]...)
}
