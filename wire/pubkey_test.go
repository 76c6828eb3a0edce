package wire

import (
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

func TestPublicKeyRoundTrip(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	compressed := priv.PubKey().SerializeCompressed()

	c := NewCursor(compressed)
	var pk PublicKey
	pk.Decode(c)
	if c.Failed() {
		t.Fatalf("unexpected poison decoding a valid compressed point")
	}
	if !pk.Valid() {
		t.Fatalf("expected valid pubkey")
	}

	enc := pk.Encode(nil)
	if string(enc) != string(compressed) {
		t.Fatalf("round trip mismatch")
	}
}

func TestPublicKeyInvalidPointPoisons(t *testing.T) {
	raw := make([]byte, 33)
	raw[0] = 0x02 // well-formed prefix, but an all-zero x-coordinate is not on the curve
	c := NewCursor(raw)
	var pk PublicKey
	pk.Decode(c)
	if !c.Failed() {
		t.Fatalf("expected poison for an invalid curve point")
	}
	if pk.Valid() {
		t.Fatalf("expected invalid pubkey on failure")
	}
}

func TestPublicKeyShortInputPoisons(t *testing.T) {
	c := NewCursor(make([]byte, 10))
	var pk PublicKey
	pk.Decode(c)
	if !c.Failed() {
		t.Fatalf("expected poison on short input")
	}
}

func TestPrivateKeyRoundTripNoValidation(t *testing.T) {
	var raw [32]byte
	for i := range raw {
		raw[i] = 0xFF // overflows the curve order; private keys are not validated
	}
	enc := PrivateKey(raw).Encode(nil)
	c := NewCursor(enc)
	var got PrivateKey
	got.Decode(c)
	if c.Failed() {
		t.Fatalf("private key decode must not validate or poison")
	}
	if got != PrivateKey(raw) {
		t.Fatalf("round trip mismatch")
	}
}
