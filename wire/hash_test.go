package wire

import (
	"crypto/sha256"
	"testing"
)

func TestSha256DDecodesSingleDigestOnly(t *testing.T) {
	data := []byte("the quick brown fox")
	single := Sha256(sha256.Sum256(data))

	c := NewCursor(single.Encode(nil))
	var decoded Sha256D
	decoded.Decode(c)
	if c.Failed() {
		t.Fatalf("unexpected poison")
	}
	if decoded.Inner != single {
		t.Fatalf("Sha256D.Decode must populate only the inner digest, no extra hashing")
	}

	firstPass := sha256.Sum256(data)
	doubled := Sha256(sha256.Sum256(firstPass[:]))
	if decoded.Inner == doubled {
		t.Fatalf("decoding must not perform the second hash pass implicitly")
	}
}

func TestPreimageAndRipemd160RoundTrip(t *testing.T) {
	var pre Preimage
	for i := range pre {
		pre[i] = byte(i)
	}
	c := NewCursor(pre.Encode(nil))
	var got Preimage
	got.Decode(c)
	if c.Failed() || got != pre {
		t.Fatalf("preimage round trip failed")
	}

	var rip Ripemd160
	for i := range rip {
		rip[i] = byte(i + 1)
	}
	c2 := NewCursor(rip.Encode(nil))
	var got2 Ripemd160
	got2.Decode(c2)
	if c2.Failed() || got2 != rip {
		t.Fatalf("ripemd160 round trip failed")
	}
}
