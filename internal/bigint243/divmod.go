package bigint243

import "errors"

// ErrDivByZero is returned by DivMod when y is zero. Spec.md's core
// BigIntMid operations (§4.2) don't enumerate division, but the VM's
// opcode table (§4.4) includes a DIV/MOD pair that must mean something
// once promoted past the Digit81 tier, where division is explicitly
// unavailable. DivMod fills that gap with ordinary schoolbook long
// division over the base-243 digits.
var ErrDivByZero = errors.New("bigint243: division by zero")

// DivMod returns (x/y, x%y) truncated toward zero, Euclidean-style on
// the magnitudes with the sign of x applied to the remainder.
func DivMod(x, y Int) (Int, Int, error) {
	if isZero(y) {
		return Int{}, Int{}, ErrDivByZero
	}
	if isZero(x) {
		return Zero(), Zero(), nil
	}
	// Long division on magnitudes, most-significant digit first.
	quotDigits := make([]byte, len(x.Digits))
	remainder := Zero()
	for i := len(x.Digits) - 1; i >= 0; i-- {
		remainder = shiftAndAdd(remainder, x.Digits[i])
		q := digitQuotient(remainder, Int{Sign: 1, Digits: y.Digits})
		quotDigits[i] = q
		remainder = Sub(remainder, Mul(NewFromInt64(int64(q)), Int{Sign: 1, Digits: y.Digits}))
	}
	quot := normalize(Int{Sign: 1, Digits: quotDigits})
	if x.Sign != y.Sign && !isZero(quot) {
		quot.Sign = -1
	}
	if !isZero(remainder) {
		remainder.Sign = x.Sign
	}
	return quot, remainder, nil
}

// shiftAndAdd computes acc*base + d.
func shiftAndAdd(acc Int, d byte) Int {
	shifted := Mul(acc, NewFromInt64(base))
	return Add(shifted, NewFromInt64(int64(d)))
}

// digitQuotient finds the largest q in [0, base) such that q*divisor
// <= remainder, by linear search (divisor magnitude is at most `base`
// wide relative to remainder at each step, so this stays cheap).
func digitQuotient(remainder, divisorMag Int) byte {
	var q byte
	for q < base-1 {
		next := Mul(NewFromInt64(int64(q+1)), divisorMag)
		if Cmp(next, remainder) > 0 {
			break
		}
		q++
	}
	return q
}
