// Package bigint243 implements the VM's arbitrary-precision mid tier:
// a signed integer represented as a little-endian sequence of base-243
// digits, each in [0, 242].
package bigint243

import (
	"errors"
	"strings"
)

const base = 243

// ErrInvalidInput is returned by NewFromDecimal when the input string
// is not a valid decimal integer.
var ErrInvalidInput = errors.New("bigint243: invalid input")

// Int is a signed arbitrary-precision integer in base 243.
//
// Invariant: Digits carries no trailing zero digit unless it is the
// single digit [0], and the value zero always has Sign = +1.
type Int struct {
	Sign   int8 // +1 or -1
	Digits []byte
}

// Zero is the canonical zero value.
func Zero() Int { return Int{Sign: 1, Digits: []byte{0}} }

// NewFromInt64 constructs an Int from a signed 64-bit integer.
func NewFromInt64(v int64) Int {
	sign := int8(1)
	var mag uint64
	if v < 0 {
		sign = -1
		mag = uint64(-v)
	} else {
		mag = uint64(v)
	}
	if mag == 0 {
		return Zero()
	}
	var digits []byte
	for mag > 0 {
		digits = append(digits, byte(mag%base))
		mag /= base
	}
	return normalize(Int{Sign: sign, Digits: digits})
}

// NewFromDecimal parses a signed decimal string into an Int.
func NewFromDecimal(s string) (Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Int{}, ErrInvalidInput
	}
	sign := int8(1)
	if s[0] == '+' || s[0] == '-' {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}
	if s == "" {
		return Int{}, ErrInvalidInput
	}
	result := Zero()
	ten := NewFromInt64(10)
	for _, r := range s {
		if r < '0' || r > '9' {
			return Int{}, ErrInvalidInput
		}
		result = Mul(result, ten)
		result = Add(result, NewFromInt64(int64(r-'0')))
	}
	if isZero(result) {
		return Zero(), nil
	}
	result.Sign = sign
	return result, nil
}

func isZero(x Int) bool {
	return len(x.Digits) == 1 && x.Digits[0] == 0
}

// ErrOutOfRange is returned by ToInt64 when x does not fit in an
// int64.
var ErrOutOfRange = errors.New("bigint243: value out of int64 range")

// ToInt64 converts x to a native int64, failing if x is too large in
// magnitude to be represented.
func (x Int) ToInt64() (int64, error) {
	var mag uint64
	for i := len(x.Digits) - 1; i >= 0; i-- {
		if mag > (1<<63)/base {
			return 0, ErrOutOfRange
		}
		mag = mag*base + uint64(x.Digits[i])
	}
	if x.Sign < 0 {
		if mag > 1<<63 {
			return 0, ErrOutOfRange
		}
		return -int64(mag), nil
	}
	if mag > (1<<63)-1 {
		return 0, ErrOutOfRange
	}
	return int64(mag), nil
}

// normalize trims trailing (most-significant) zero digits and enforces
// the sign-of-zero invariant.
func normalize(x Int) Int {
	d := x.Digits
	for len(d) > 1 && d[len(d)-1] == 0 {
		d = d[:len(d)-1]
	}
	if len(d) == 0 {
		d = []byte{0}
	}
	x.Digits = d
	if len(d) == 1 && d[0] == 0 {
		x.Sign = 1
	}
	return x
}

func cmpMagnitude(a, b []byte) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func addMagnitude(a, b []byte) []byte {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]byte, 0, n+1)
	carry := 0
	for i := 0; i < n; i++ {
		var da, db int
		if i < len(a) {
			da = int(a[i])
		}
		if i < len(b) {
			db = int(b[i])
		}
		sum := da + db + carry
		out = append(out, byte(sum%base))
		carry = sum / base
	}
	if carry > 0 {
		out = append(out, byte(carry))
	}
	return out
}

// subMagnitude computes a-b assuming a >= b in magnitude.
func subMagnitude(a, b []byte) []byte {
	out := make([]byte, len(a))
	borrow := 0
	for i := range a {
		var db int
		if i < len(b) {
			db = int(b[i])
		}
		diff := int(a[i]) - db - borrow
		if diff < 0 {
			diff += base
			borrow = 1
		} else {
			borrow = 0
		}
		out[i] = byte(diff)
	}
	return out
}

// Add returns x+y, with ordinary signed ripple carry/borrow over the
// digit magnitudes (no XOR-of-sign shortcuts).
func Add(x, y Int) Int {
	if x.Sign == y.Sign {
		return normalize(Int{Sign: x.Sign, Digits: addMagnitude(x.Digits, y.Digits)})
	}
	// Opposite signs: subtract the smaller magnitude from the larger,
	// and take the sign of the larger-magnitude operand.
	c := cmpMagnitude(x.Digits, y.Digits)
	switch {
	case c == 0:
		return Zero()
	case c > 0:
		return normalize(Int{Sign: x.Sign, Digits: subMagnitude(x.Digits, y.Digits)})
	default:
		return normalize(Int{Sign: y.Sign, Digits: subMagnitude(y.Digits, x.Digits)})
	}
}

// Neg returns -x.
func Neg(x Int) Int {
	if isZero(x) {
		return x
	}
	return Int{Sign: -x.Sign, Digits: x.Digits}
}

// Sub returns x-y.
func Sub(x, y Int) Int {
	return Add(x, Neg(y))
}

// Mul returns x*y via schoolbook multiplication, O(n*m).
func Mul(x, y Int) Int {
	if isZero(x) || isZero(y) {
		return Zero()
	}
	out := make([]int, len(x.Digits)+len(y.Digits))
	for i, dx := range x.Digits {
		if dx == 0 {
			continue
		}
		carry := 0
		for j, dy := range y.Digits {
			out[i+j] += int(dx)*int(dy) + carry
			carry = out[i+j] / base
			out[i+j] %= base
		}
		k := i + len(y.Digits)
		for carry > 0 {
			out[k] += carry
			carry = out[k] / base
			out[k] %= base
			k++
		}
	}
	digits := make([]byte, len(out))
	for i, v := range out {
		digits[i] = byte(v)
	}
	sign := int8(1)
	if x.Sign != y.Sign {
		sign = -1
	}
	return normalize(Int{Sign: sign, Digits: digits})
}

// Cmp returns -1, 0, or 1 for x<y, x==y, x>y respectively.
func Cmp(x, y Int) int {
	if isZero(x) && isZero(y) {
		return 0
	}
	if x.Sign != y.Sign {
		if x.Sign < y.Sign {
			return -1
		}
		return 1
	}
	c := cmpMagnitude(x.Digits, y.Digits)
	if x.Sign < 0 {
		return -c
	}
	return c
}

// String renders x as a canonical decimal string.
func (x Int) String() string {
	if isZero(x) {
		return "0"
	}
	// Convert base-243 digits to decimal by repeated division by 10,
	// the reverse of the multiply-add construction in NewFromDecimal.
	var sb strings.Builder
	if x.Sign < 0 {
		sb.WriteByte('-')
	}
	digits := decimalDigits(x.Digits)
	sb.Write(digits)
	return sb.String()
}

// decimalDigits converts a base-243 little-endian magnitude into a
// decimal big-endian ASCII byte slice.
func decimalDigits(mag []byte) []byte {
	// Work on a mutable copy, repeatedly divide by 10.
	work := append([]byte(nil), mag...)
	var out []byte
	allZero := func(b []byte) bool {
		for _, v := range b {
			if v != 0 {
				return false
			}
		}
		return true
	}
	for !allZero(work) {
		rem := 0
		for i := len(work) - 1; i >= 0; i-- {
			cur := rem*base + int(work[i])
			work[i] = byte(cur / 10)
			rem = cur % 10
		}
		out = append(out, byte('0'+rem))
		for len(work) > 1 && work[len(work)-1] == 0 {
			work = work[:len(work)-1]
		}
	}
	if len(out) == 0 {
		return []byte{'0'}
	}
	// out was built least-significant decimal digit first; reverse it.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
