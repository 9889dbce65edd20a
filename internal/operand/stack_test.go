package operand

import (
	"testing"

	"axion/internal/digit81"
)

func TestPushPopRoundTrip(t *testing.T) {
	s := NewStack(MinCapacity)
	op := FromLow(digit81.Digit{C: 7})
	if err := s.Push(op); err != nil {
		t.Fatal(err)
	}
	got, err := s.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if got.Tag != Low || got.Low.C != 7 {
		t.Fatalf("got %+v", got)
	}
}

func TestPopEmptyUnderflow(t *testing.T) {
	s := NewStack(MinCapacity)
	before := s.Len()
	if _, err := s.Pop(); err != ErrUnderflow {
		t.Fatalf("err = %v, want ErrUnderflow", err)
	}
	if s.Len() != before {
		t.Fatal("pop on empty stack must not alter the stack")
	}
}

func TestPushFullOverflow(t *testing.T) {
	// NewStack clamps capacity up to MinCapacity, so overflow can only
	// be exercised by filling all the way to it.
	op := FromLow(digit81.Zero)
	s := NewStack(MinCapacity)
	for i := 0; i < s.Cap(); i++ {
		if err := s.Push(op); err != nil {
			t.Fatalf("unexpected error at %d: %v", i, err)
		}
	}
	before := s.Len()
	if err := s.Push(op); err != ErrOverflow {
		t.Fatalf("err = %v, want ErrOverflow", err)
	}
	if s.Len() != before {
		t.Fatal("push on full stack must not alter the stack")
	}
}

func TestDupSwap(t *testing.T) {
	s := NewStack(MinCapacity)
	s.Push(FromLow(digit81.Digit{C: 1}))
	s.Push(FromLow(digit81.Digit{C: 2}))
	if err := s.Swap(); err != nil {
		t.Fatal(err)
	}
	top, _ := s.Peek()
	if top.Low.C != 1 {
		t.Fatalf("after swap top.C = %d, want 1", top.Low.C)
	}
	if err := s.Dup(); err != nil {
		t.Fatal(err)
	}
	if s.Len() != 3 {
		t.Fatalf("len after dup = %d, want 3", s.Len())
	}
}

func TestCloneRestore(t *testing.T) {
	s := NewStack(MinCapacity)
	s.Push(FromLow(digit81.Digit{C: 9}))
	saved := s.Clone()
	s.Push(FromLow(digit81.Digit{C: 10}))
	s.Restore(saved)
	if s.Len() != 1 {
		t.Fatalf("len after restore = %d, want 1", s.Len())
	}
}

func TestWidenToMid(t *testing.T) {
	op := FromLow(digit81.Digit{C: 42})
	widened := WidenToMid(op)
	if widened.Tag != Mid {
		t.Fatalf("tag = %v, want Mid", widened.Tag)
	}
}

func TestWidenToTop(t *testing.T) {
	op := FromLow(digit81.Digit{C: 5})
	widened := WidenToTop(op)
	if widened.Tag != Top || widened.Top.Rank() != 0 {
		t.Fatalf("widened = %+v, want rank-0 tensor", widened)
	}
}
