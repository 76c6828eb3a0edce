package wire

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// Signature is a 64-byte compact (r||s) ECDSA signature, the form used
// throughout the Lightning wire protocol (as opposed to Bitcoin script's
// DER encoding).
type Signature struct {
	r, s secp256k1.ModNScalar
}

// Decode reads 64 compact bytes (r||s). Either scalar overflowing the
// curve order poisons the cursor, matching "parsing uses an external
// secp256k1 library context; failure poisons the cursor" (spec.md §4.1).
func (sig *Signature) Decode(c *Cursor) {
	raw, ok := c.take(64)
	if !ok {
		*sig = Signature{}
		return
	}
	if overflow := sig.r.SetByteSlice(raw[:32]); overflow {
		c.Fail()
		*sig = Signature{}
		return
	}
	if overflow := sig.s.SetByteSlice(raw[32:64]); overflow {
		c.Fail()
		*sig = Signature{}
		return
	}
}

// Encode appends the 64-byte compact form to dst.
func (sig Signature) Encode(dst []byte) []byte {
	rb := sig.r.Bytes()
	sb := sig.s.Bytes()
	dst = append(dst, rb[:]...)
	dst = append(dst, sb[:]...)
	return dst
}

// ECDSA returns the ecdsa.Signature form, suitable for verification against
// a message digest and a PublicKey.
func (sig Signature) ECDSA() *ecdsa.Signature {
	return ecdsa.NewSignature(&sig.r, &sig.s)
}

// RecoverableSignature is a 64-byte compact ECDSA signature followed by a
// single recovery-id byte in [0,3].
type RecoverableSignature struct {
	Signature
	RecID uint8
}

// Decode reads compact||recid in order. An out-of-range recovery id (>3)
// poisons the cursor.
func (sig *RecoverableSignature) Decode(c *Cursor) {
	sig.Signature.Decode(c)
	id := c.U8()
	if c.Failed() {
		*sig = RecoverableSignature{}
		return
	}
	if id > 3 {
		c.Fail()
		*sig = RecoverableSignature{}
		return
	}
	sig.RecID = id
}

// Encode appends the 65-byte compact||recid form to dst.
func (sig RecoverableSignature) Encode(dst []byte) []byte {
	dst = sig.Signature.Encode(dst)
	return PutU8(dst, sig.RecID)
}

// Recover recovers the signer's public key given the 32-byte digest that
// was signed, via the secp256k1 library's recoverable-compact parser.
func (sig RecoverableSignature) Recover(digest [32]byte) (PublicKey, error) {
	rb := sig.r.Bytes()
	sb := sig.s.Bytes()
	compact := make([]byte, 0, 65)
	compact = append(compact, 27+4+sig.RecID) // compressed-key recovery header
	compact = append(compact, rb[:]...)
	compact = append(compact, sb[:]...)

	key, _, err := ecdsa.RecoverCompact(compact, digest[:])
	if err != nil {
		return PublicKey{}, fmt.Errorf("wire: recover compact signature: %w", err)
	}
	return PublicKey{key: key}, nil
}
