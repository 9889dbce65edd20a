package tensor

import (
	"testing"

	"axion/internal/bigint243"
)

func ints(vs ...int64) []bigint243.Int {
	out := make([]bigint243.Int, len(vs))
	for i, v := range vs {
		out[i] = bigint243.NewFromInt64(v)
	}
	return out
}

func TestScalarSize(t *testing.T) {
	s := Scalar(bigint243.NewFromInt64(5))
	if s.Rank() != 0 || s.Size() != 1 {
		t.Fatalf("scalar rank/size = %d/%d, want 0/1", s.Rank(), s.Size())
	}
}

func TestReshapeRoundTrip(t *testing.T) {
	tn, err := New([]int{2, 3}, ints(1, 2, 3, 4, 5, 6))
	if err != nil {
		t.Fatal(err)
	}
	reshaped, err := Reshape(tn, []int{3, 2})
	if err != nil {
		t.Fatal(err)
	}
	back, err := Reshape(reshaped, tn.Shape)
	if err != nil {
		t.Fatal(err)
	}
	if len(back.Elems) != len(tn.Elems) {
		t.Fatal("round trip element count mismatch")
	}
	for i := range tn.Elems {
		if bigint243.Cmp(back.Elems[i], tn.Elems[i]) != 0 {
			t.Fatalf("element %d mismatch", i)
		}
	}
}

func TestReshapeShapeMismatch(t *testing.T) {
	tn, _ := New([]int{2, 3}, ints(1, 2, 3, 4, 5, 6))
	if _, err := Reshape(tn, []int{4, 2}); err != ErrShapeMismatch {
		t.Fatalf("err = %v, want ErrShapeMismatch", err)
	}
}

func TestTransposeInverse(t *testing.T) {
	tn, _ := New([]int{2, 3}, ints(1, 2, 3, 4, 5, 6))
	perm := []int{1, 0}
	inv := []int{1, 0} // self-inverse for rank 2 swap
	transposed, err := Transpose(tn, perm)
	if err != nil {
		t.Fatal(err)
	}
	back, err := Transpose(transposed, inv)
	if err != nil {
		t.Fatal(err)
	}
	for i := range tn.Elems {
		if bigint243.Cmp(back.Elems[i], tn.Elems[i]) != 0 {
			t.Fatalf("element %d mismatch after transpose round trip", i)
		}
	}
}

func TestDot(t *testing.T) {
	a, _ := New([]int{2, 2}, ints(1, 2, 3, 4))
	b, _ := New([]int{2, 2}, ints(5, 6, 7, 8))
	got, err := Dot(a, b)
	if err != nil {
		t.Fatal(err)
	}
	want := ints(19, 22, 43, 50)
	if got.Shape[0] != 2 || got.Shape[1] != 2 {
		t.Fatalf("shape = %v, want [2 2]", got.Shape)
	}
	for i := range want {
		if bigint243.Cmp(got.Elems[i], want[i]) != 0 {
			t.Fatalf("element %d = %s, want %s", i, got.Elems[i].String(), want[i].String())
		}
	}
}

func TestDotShapeMismatch(t *testing.T) {
	a, _ := New([]int{2, 3}, ints(1, 2, 3, 4, 5, 6))
	b, _ := New([]int{2, 2}, ints(1, 2, 3, 4))
	if _, err := Dot(a, b); err != ErrShapeMismatch {
		t.Fatalf("err = %v, want ErrShapeMismatch", err)
	}
}

func TestSlice(t *testing.T) {
	tn, _ := New([]int{3, 2}, ints(1, 2, 3, 4, 5, 6))
	sl, err := Slice(tn, 0, 1, 3)
	if err != nil {
		t.Fatal(err)
	}
	if sl.Shape[0] != 2 || sl.Shape[1] != 2 {
		t.Fatalf("shape = %v, want [2 2]", sl.Shape)
	}
	want := ints(3, 4, 5, 6)
	for i := range want {
		if bigint243.Cmp(sl.Elems[i], want[i]) != 0 {
			t.Fatalf("element %d mismatch", i)
		}
	}
}

func TestSliceOutOfRange(t *testing.T) {
	tn, _ := New([]int{3}, ints(1, 2, 3))
	if _, err := Slice(tn, 0, 1, 5); err != ErrIndexOutOfRange {
		t.Fatalf("err = %v, want ErrIndexOutOfRange", err)
	}
}
