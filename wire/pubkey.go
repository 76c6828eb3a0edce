package wire

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// PublicKey is a 33-byte compressed secp256k1 point.
type PublicKey struct {
	key *secp256k1.PublicKey
}

// Decode reads 33 bytes and parses them as a compressed secp256k1 point.
// Parsing failure (not on the curve, wrong prefix byte, short read) poisons
// the cursor.
func (p *PublicKey) Decode(c *Cursor) {
	raw, ok := c.take(33)
	if !ok {
		p.key = nil
		return
	}
	key, err := secp256k1.ParsePubKey(raw)
	if err != nil {
		c.Fail()
		p.key = nil
		return
	}
	p.key = key
}

// Encode appends the 33-byte compressed form to dst. Encoding a zero-value
// PublicKey appends 33 zero bytes.
func (p PublicKey) Encode(dst []byte) []byte {
	if p.key == nil {
		return append(dst, make([]byte, 33)...)
	}
	return append(dst, p.key.SerializeCompressed()...)
}

// Valid reports whether the public key was successfully parsed.
func (p PublicKey) Valid() bool {
	return p.key != nil
}

// Key returns the underlying parsed secp256k1 public key, or nil if Decode
// failed.
func (p PublicKey) Key() *secp256k1.PublicKey {
	return p.key
}

// PrivateKey is a 32-byte raw secret key. The wire format applies no
// validation on decode — any 32 bytes are accepted, matching spec.md §3
// ("no validation").
type PrivateKey [32]byte

// Decode reads 32 raw bytes into the secret.
func (k *PrivateKey) Decode(c *Cursor) {
	c.Array(k[:])
}

// Encode appends the secret's 32 bytes to dst.
func (k PrivateKey) Encode(dst []byte) []byte {
	return append(dst, k[:]...)
}
