package bytecode

import "bytes"

// magic is the 5-byte prefix (spec.md §6.1) that, when present at
// offset 0, signals that loading this Chunk should open a session
// with the optimizer hook. The code stream proper begins after it.
var magic = []byte("AXION")

// Chunk is an immutable byte buffer loaded from raw bytecode. It is
// read-only after Load returns.
type Chunk struct {
	Code       []byte
	HookOpened bool
}

// Load parses raw bytes into a Chunk, stripping the optional AXION
// magic prefix and recording whether it was present.
func Load(raw []byte) *Chunk {
	if bytes.HasPrefix(raw, magic) {
		body := make([]byte, len(raw)-len(magic))
		copy(body, raw[len(magic):])
		return &Chunk{Code: body, HookOpened: true}
	}
	body := make([]byte, len(raw))
	copy(body, raw)
	return &Chunk{Code: body, HookOpened: false}
}

// Len returns the number of bytes in the code stream (excluding any
// stripped magic prefix).
func (c *Chunk) Len() int { return len(c.Code) }

// At returns the byte at offset ip. The caller must bounds-check.
func (c *Chunk) At(ip int) byte { return c.Code[ip] }
