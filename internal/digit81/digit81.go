// Package digit81 implements the fixed-width low tier of the Axion VM:
// an 81-valued "octa-trit" word realized as a triple of 32+32+8 bits.
package digit81

// Digit is a value conceptually in [0, 80], realized as three free
// bit-fields. Equality is bitwise; arithmetic wraps modulo each field
// independently rather than modulo 81, matching the "emulated over
// binary hosts" framing of the VM this package backs.
type Digit struct {
	A uint32
	B uint32
	C uint8
}

// Zero is the canonical zero value.
var Zero = Digit{}

// Ordering is the result of a three-way comparison.
type Ordering int

const (
	Less Ordering = iota - 1
	Equal
	Greater
)

// Add returns x+y with each field wrapping independently on overflow.
func Add(x, y Digit) Digit {
	return Digit{A: x.A + y.A, B: x.B + y.B, C: x.C + y.C}
}

// Sub returns x-y with each field wrapping independently on underflow.
func Sub(x, y Digit) Digit {
	return Digit{A: x.A - y.A, B: x.B - y.B, C: x.C - y.C}
}

// Mul returns x*y with each field wrapping independently on overflow.
func Mul(x, y Digit) Digit {
	return Digit{A: x.A * y.A, B: x.B * y.B, C: x.C * y.C}
}

// Neg returns -x. The canonical zero negates to the canonical zero;
// there is no negative-zero representation at this tier.
func Neg(x Digit) Digit {
	if x == Zero {
		return Zero
	}
	return Digit{A: -x.A, B: -x.B, C: -x.C}
}

// Abs returns the field-wise two's-complement absolute value.
func Abs(x Digit) Digit {
	abs32 := func(v uint32) uint32 {
		if int32(v) < 0 {
			return -v
		}
		return v
	}
	abs8 := func(v uint8) uint8 {
		if int8(v) < 0 {
			return -v
		}
		return v
	}
	return Digit{A: abs32(x.A), B: abs32(x.B), C: abs8(x.C)}
}

// ErrDivByZero is returned by Mod when the divisor's C field is zero.
// Division itself is not provided at this tier; any opcode requiring
// true division must promote to the mid tier.
var ErrDivByZero = divByZeroError{}

type divByZeroError struct{}

func (divByZeroError) Error() string { return "digit81: division by zero" }

// Mod computes x mod y over the C field (the only field this tier
// exposes modular reduction on; A and B carry no division semantics
// at this tier by design).
func Mod(x, y Digit) (Digit, error) {
	if y.C == 0 {
		return Zero, ErrDivByZero
	}
	return Digit{A: x.A, B: x.B, C: x.C % y.C}, nil
}

// Cmp3 returns a three-way comparison ordered by (A, B, C) lexically.
func Cmp3(x, y Digit) Ordering {
	switch {
	case x.A != y.A:
		return cmpU32(x.A, y.A)
	case x.B != y.B:
		return cmpU32(x.B, y.B)
	case x.C != y.C:
		return cmpU8(x.C, y.C)
	default:
		return Equal
	}
}

func cmpU32(a, b uint32) Ordering {
	if a < b {
		return Less
	}
	return Greater
}

func cmpU8(a, b uint8) Ordering {
	if a < b {
		return Less
	}
	return Greater
}

// Encode renders d as the 9-byte big-endian wire form spec'd for the
// PUSH opcode's inline operand: 4 bytes A, 4 bytes B, 1 byte C.
func Encode(d Digit) [9]byte {
	var out [9]byte
	out[0] = byte(d.A >> 24)
	out[1] = byte(d.A >> 16)
	out[2] = byte(d.A >> 8)
	out[3] = byte(d.A)
	out[4] = byte(d.B >> 24)
	out[5] = byte(d.B >> 16)
	out[6] = byte(d.B >> 8)
	out[7] = byte(d.B)
	out[8] = d.C
	return out
}

// Decode parses the 9-byte big-endian wire form produced by Encode.
func Decode(b []byte) Digit {
	_ = b[8]
	return Digit{
		A: uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]),
		B: uint32(b[4])<<24 | uint32(b[5])<<16 | uint32(b[6])<<8 | uint32(b[7]),
		C: b[8],
	}
}
