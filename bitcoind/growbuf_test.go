package bitcoind

import "testing"

func TestGrowBufferAccumulates(t *testing.T) {
	g := newGrowBuffer()
	n, err := g.Write([]byte("hello "))
	if err != nil || n != 6 {
		t.Fatalf("Write() = %d, %v", n, err)
	}
	n, err = g.Write([]byte("world"))
	if err != nil || n != 5 {
		t.Fatalf("Write() = %d, %v", n, err)
	}
	if got := string(g.Bytes()); got != "hello world" {
		t.Fatalf("Bytes() = %q", got)
	}
}

func TestGrowBufferGrowsPastInitialCapacity(t *testing.T) {
	g := newGrowBuffer()
	big := make([]byte, growBufferInitialCap*3+7)
	for i := range big {
		big[i] = byte(i)
	}
	if _, err := g.Write(big); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if len(g.Bytes()) != len(big) {
		t.Fatalf("Bytes() len = %d, want %d", len(g.Bytes()), len(big))
	}
	for i := range big {
		if g.Bytes()[i] != big[i] {
			t.Fatalf("byte %d mismatch", i)
		}
	}
}
