package bigint243

import "testing"

func TestAddNegIsZero(t *testing.T) {
	x := NewFromInt64(123456789)
	got := Add(x, Neg(x))
	if Cmp(got, Zero()) != 0 {
		t.Fatalf("Add(x, Neg(x)) = %s, want 0", got.String())
	}
}

func TestNegNegIsX(t *testing.T) {
	x := NewFromInt64(-98765)
	if got := Neg(Neg(x)); Cmp(got, x) != 0 {
		t.Fatalf("Neg(Neg(x)) = %s, want %s", got.String(), x.String())
	}
}

func TestCommutativity(t *testing.T) {
	x := NewFromInt64(4096)
	y := NewFromInt64(-777)
	if Cmp(Add(x, y), Add(y, x)) != 0 {
		t.Fatal("addition not commutative")
	}
	if Cmp(Mul(x, y), Mul(y, x)) != 0 {
		t.Fatal("multiplication not commutative")
	}
}

func TestDecimalRoundTrip(t *testing.T) {
	tests := []string{"0", "1", "-1", "242", "243", "123456789012345", "-987654321"}
	for _, s := range tests {
		v, err := NewFromDecimal(s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		got := v.String()
		want := s
		if want == "-0" {
			want = "0"
		}
		if got != want {
			t.Fatalf("round trip %q = %q", s, got)
		}
	}
}

func TestInvalidInput(t *testing.T) {
	for _, s := range []string{"", "abc", "12a3", "-"} {
		if _, err := NewFromDecimal(s); err != ErrInvalidInput {
			t.Fatalf("NewFromDecimal(%q) err = %v, want ErrInvalidInput", s, err)
		}
	}
}

func TestNoTrailingZeroDigit(t *testing.T) {
	v := NewFromInt64(243) // 1*243 + 0, digits [0,1]
	if len(v.Digits) != 2 || v.Digits[0] != 0 || v.Digits[1] != 1 {
		t.Fatalf("unexpected digits %v", v.Digits)
	}
	zero := Zero()
	if len(zero.Digits) != 1 || zero.Digits[0] != 0 || zero.Sign != 1 {
		t.Fatalf("zero invariant violated: %+v", zero)
	}
}

func TestMulLarge(t *testing.T) {
	a := NewFromInt64(999999999)
	b := NewFromInt64(999999999)
	got := Mul(a, b)
	want, _ := NewFromDecimal("999999998000000001")
	if Cmp(got, want) != 0 {
		t.Fatalf("Mul = %s, want %s", got.String(), want.String())
	}
}

func TestSub(t *testing.T) {
	a := NewFromInt64(10)
	b := NewFromInt64(15)
	got := Sub(a, b)
	want := NewFromInt64(-5)
	if Cmp(got, want) != 0 {
		t.Fatalf("Sub(10,15) = %s, want -5", got.String())
	}
}
