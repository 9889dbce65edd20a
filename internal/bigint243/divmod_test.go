package bigint243

import "testing"

func TestDivMod(t *testing.T) {
	tests := []struct {
		x, y, q, r int64
	}{
		{100, 7, 14, 2},
		{-100, 7, -14, -2},
		{100, -7, -14, 2},
		{0, 5, 0, 0},
	}
	for _, tt := range tests {
		q, r, err := DivMod(NewFromInt64(tt.x), NewFromInt64(tt.y))
		if err != nil {
			t.Fatalf("DivMod(%d,%d): %v", tt.x, tt.y, err)
		}
		if Cmp(q, NewFromInt64(tt.q)) != 0 {
			t.Fatalf("DivMod(%d,%d) quot = %s, want %d", tt.x, tt.y, q.String(), tt.q)
		}
		if Cmp(r, NewFromInt64(tt.r)) != 0 {
			t.Fatalf("DivMod(%d,%d) rem = %s, want %d", tt.x, tt.y, r.String(), tt.r)
		}
	}
}

func TestDivModByZero(t *testing.T) {
	if _, _, err := DivMod(NewFromInt64(5), Zero()); err != ErrDivByZero {
		t.Fatalf("err = %v, want ErrDivByZero", err)
	}
}

func TestToInt64RoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 123456789, -987654321} {
		got, err := NewFromInt64(v).ToInt64()
		if err != nil {
			t.Fatalf("ToInt64(%d): %v", v, err)
		}
		if got != v {
			t.Fatalf("ToInt64 round trip = %d, want %d", got, v)
		}
	}
}
