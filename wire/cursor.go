// Package wire implements the BOLT-style binary codec used to encode and
// decode Lightning peer-to-peer messages: big-endian integer primitives,
// secp256k1 keys and signatures, and the channel identifiers derived from
// them.
//
// Every decode function takes a *Cursor. On success it advances the cursor
// by its declared width and returns the decoded value; on any failure it
// poisons the cursor (see Cursor.Fail) and returns the zero value. Once
// poisoned, a cursor never recovers: every further read is a no-op that
// reports failure, so a caller only needs to check Cursor.Failed once after
// a whole message has been decoded.
package wire

// Cursor is a read position into a byte buffer. It is poisoned — rather
// than returning a Go error — the first time a read fails, matching the
// source protocol's "poisoned cursor" decode discipline: no partial reads,
// no recovery, callers check Failed() once at the end of a message.
type Cursor struct {
	b        []byte
	poisoned bool
}

// NewCursor returns a Cursor reading from b. b is not copied; callers must
// not mutate it while the cursor is in use.
func NewCursor(b []byte) *Cursor {
	return &Cursor{b: b}
}

// Failed reports whether the cursor has been poisoned by a prior failed
// read.
func (c *Cursor) Failed() bool {
	return c.poisoned
}

// Remaining returns the number of unread bytes, or 0 if the cursor is
// poisoned.
func (c *Cursor) Remaining() int {
	if c.poisoned {
		return 0
	}
	return len(c.b)
}

// Fail poisons the cursor. It is idempotent and contagious: once poisoned,
// a cursor stays poisoned regardless of further calls.
func (c *Cursor) Fail() {
	c.b = nil
	c.poisoned = true
}

// take returns the next n bytes and advances the cursor, or poisons the
// cursor and returns (nil, false) if fewer than n bytes remain.
func (c *Cursor) take(n int) ([]byte, bool) {
	if c.poisoned || n < 0 || len(c.b) < n {
		c.Fail()
		return nil, false
	}
	out := c.b[:n]
	c.b = c.b[n:]
	return out, true
}

// Pad consumes n bytes without storing them — BOLT padding fields.
func (c *Cursor) Pad(n int) {
	c.take(n)
}

// Bytes reads n raw bytes into a freshly allocated slice. On failure it
// returns a nil slice and poisons the cursor.
func (c *Cursor) Bytes(n int) []byte {
	b, ok := c.take(n)
	if !ok {
		return nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

// Array reads exactly len(dst) bytes into dst. On failure dst is zeroed and
// the cursor is poisoned.
func (c *Cursor) Array(dst []byte) {
	b, ok := c.take(len(dst))
	if !ok {
		for i := range dst {
			dst[i] = 0
		}
		return
	}
	copy(dst, b)
}
