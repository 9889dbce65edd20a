package vm

import (
	"axion/internal/bigint243"
	"axion/internal/operand"
)

// recurseFactorial pops one MID operand n and pushes Factorial(n): 1
// for n <= 0, otherwise n * Factorial(n-1). Below
// cfg.IterativeThreshold it recurses on the host call stack, the
// literal reading of "n · Factorial(n-1)"; at or above it, it falls
// back to an accumulator loop producing the identical result, per
// spec.md's depth-bounding requirement.
func (v *VM) recurseFactorial() *VMError {
	n, err := v.popMidOperand()
	if err != nil {
		return err
	}
	result := factorial(n, v.cfg.IterativeThreshold)
	return v.pushStack(operand.FromMid(result))
}

func factorial(n bigint243.Int, threshold int64) bigint243.Int {
	if bigint243.Cmp(n, bigint243.Zero()) <= 0 {
		return bigint243.NewFromInt64(1)
	}
	if nv, err := n.ToInt64(); err == nil && nv < threshold {
		return factorialRecursive(nv)
	}
	return factorialIterative(n)
}

func factorialRecursive(n int64) bigint243.Int {
	if n <= 0 {
		return bigint243.NewFromInt64(1)
	}
	return bigint243.Mul(bigint243.NewFromInt64(n), factorialRecursive(n-1))
}

func factorialIterative(n bigint243.Int) bigint243.Int {
	acc := bigint243.NewFromInt64(1)
	i := bigint243.NewFromInt64(1)
	one := bigint243.NewFromInt64(1)
	for bigint243.Cmp(i, n) <= 0 {
		acc = bigint243.Mul(acc, i)
		i = bigint243.Add(i, one)
	}
	return acc
}

// recurseFibonacci pops one MID operand n and pushes Fibonacci(n).
// Below cfg.IterativeThreshold it uses the naive double recursion
// spec.md names as the reference semantics; at or above it, the
// tail-recursive accumulator form (a, b, k) takes over, producing an
// identical result without the exponential call count or stack depth.
func (v *VM) recurseFibonacci() *VMError {
	n, err := v.popMidOperand()
	if err != nil {
		return err
	}
	result := fibonacci(n, v.cfg.IterativeThreshold)
	return v.pushStack(operand.FromMid(result))
}

func fibonacci(n bigint243.Int, threshold int64) bigint243.Int {
	zero := bigint243.Zero()
	if bigint243.Cmp(n, zero) <= 0 {
		return zero
	}
	if nv, err := n.ToInt64(); err == nil && nv < threshold {
		return fibonacciNaive(nv)
	}
	return fibonacciTail(n)
}

func fibonacciNaive(n int64) bigint243.Int {
	if n <= 0 {
		return bigint243.Zero()
	}
	if n == 1 {
		return bigint243.NewFromInt64(1)
	}
	return bigint243.Add(fibonacciNaive(n-1), fibonacciNaive(n-2))
}

func fibonacciTail(n bigint243.Int) bigint243.Int {
	a := bigint243.Zero()
	b := bigint243.NewFromInt64(1)
	k := bigint243.NewFromInt64(1)
	one := bigint243.NewFromInt64(1)
	for bigint243.Cmp(k, n) < 0 {
		a, b = b, bigint243.Add(a, b)
		k = bigint243.Add(k, one)
	}
	return b
}

// popMidOperand pops the top operand and widens it to MID, rejecting
// TOP operands — both recursion opcodes operate on scalar arguments
// per spec.md's "pop 1 MID, push 1 MID".
func (v *VM) popMidOperand() (bigint243.Int, *VMError) {
	top, err := v.popStack()
	if err != nil {
		return bigint243.Int{}, err
	}
	mid := operand.WidenToMid(top)
	if mid.Tag == operand.Top {
		v.pushStack(top)
		return bigint243.Int{}, newErr(ErrTypeError, "recursion opcodes require a LOW or MID operand")
	}
	return mid.Mid, nil
}
