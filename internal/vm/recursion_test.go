package vm

import (
	"testing"

	"axion/internal/bigint243"
)

func TestFactorialBaseCases(t *testing.T) {
	if factorial(bigint243.NewFromInt64(0), 64).String() != "1" {
		t.Fatal("factorial(0) != 1")
	}
	if factorial(bigint243.NewFromInt64(1), 64).String() != "1" {
		t.Fatal("factorial(1) != 1")
	}
	if factorial(bigint243.NewFromInt64(-5), 64).String() != "1" {
		t.Fatal("factorial(-5) != 1")
	}
}

func TestFactorialRecursiveAndIterativeAgree(t *testing.T) {
	for n := int64(0); n <= 12; n++ {
		recursive := factorial(bigint243.NewFromInt64(n), 100)
		iterative := factorial(bigint243.NewFromInt64(n), 0)
		if bigint243.Cmp(recursive, iterative) != 0 {
			t.Fatalf("factorial(%d): recursive=%s iterative=%s disagree", n, recursive.String(), iterative.String())
		}
	}
}

func TestFactorialOf5Is120(t *testing.T) {
	got := factorial(bigint243.NewFromInt64(5), 64)
	if got.String() != "120" {
		t.Fatalf("factorial(5) = %s, want 120", got.String())
	}
}

func TestFibonacciBaseCases(t *testing.T) {
	cases := []struct{ n, want int64 }{{0, 0}, {1, 1}, {2, 1}}
	for _, c := range cases {
		got := fibonacci(bigint243.NewFromInt64(c.n), 64)
		want := bigint243.NewFromInt64(c.want)
		if bigint243.Cmp(got, want) != 0 {
			t.Fatalf("fibonacci(%d) = %s, want %d", c.n, got.String(), c.want)
		}
	}
}

func TestFibonacciNaiveAndTailAgree(t *testing.T) {
	for n := int64(0); n <= 15; n++ {
		naive := fibonacci(bigint243.NewFromInt64(n), 100)
		tail := fibonacci(bigint243.NewFromInt64(n), 0)
		if bigint243.Cmp(naive, tail) != 0 {
			t.Fatalf("fibonacci(%d): naive=%s tail=%s disagree", n, naive.String(), tail.String())
		}
	}
}
