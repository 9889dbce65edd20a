// Package tensor implements the VM's top tier: a row-major dense array
// of bigint243.Int elements with explicit rank and shape.
package tensor

import (
	"errors"
	"fmt"
	"strings"

	"axion/internal/bigint243"
)

var (
	// ErrShapeMismatch is returned when a reshape's element count
	// doesn't match, or when Dot's contraction axes disagree.
	ErrShapeMismatch = errors.New("tensor: shape mismatch")
	// ErrIndexOutOfRange is returned by Slice for an out-of-range axis
	// or bound.
	ErrIndexOutOfRange = errors.New("tensor: index out of range")
	// ErrRankError is returned when an operation requires a minimum
	// rank that the operand does not meet.
	ErrRankError = errors.New("tensor: rank error")
)

// Tensor is a dense, row-major array of BigIntMid elements.
type Tensor struct {
	Shape []int
	Elems []bigint243.Int
}

// Rank returns the tensor's rank (len(Shape)).
func (t Tensor) Rank() int { return len(t.Shape) }

// Size returns the product of Shape (the element count); a rank-0
// tensor (a scalar) has size 1.
func (t Tensor) Size() int {
	size := 1
	for _, s := range t.Shape {
		size *= s
	}
	return size
}

// Scalar builds a rank-0 tensor wrapping a single element.
func Scalar(v bigint243.Int) Tensor {
	return Tensor{Shape: nil, Elems: []bigint243.Int{v}}
}

// New builds a tensor from an explicit shape and row-major element
// buffer. It returns ErrShapeMismatch if any dimension is not positive
// or if len(elems) != product(shape).
func New(shape []int, elems []bigint243.Int) (Tensor, error) {
	size := 1
	for _, s := range shape {
		if s <= 0 {
			return Tensor{}, ErrShapeMismatch
		}
		size *= s
	}
	if len(elems) != size {
		return Tensor{}, ErrShapeMismatch
	}
	return Tensor{Shape: append([]int(nil), shape...), Elems: elems}, nil
}

// strides returns the row-major strides for shape: stride[k] = product
// of all dimensions after k.
func strides(shape []int) []int {
	s := make([]int, len(shape))
	acc := 1
	for i := len(shape) - 1; i >= 0; i-- {
		s[i] = acc
		acc *= shape[i]
	}
	return s
}

// Reshape returns a tensor with newShape over the same elements in the
// same order; valid iff product(newShape) == t.Size().
func Reshape(t Tensor, newShape []int) (Tensor, error) {
	size := 1
	for _, s := range newShape {
		if s <= 0 {
			return Tensor{}, ErrShapeMismatch
		}
		size *= s
	}
	if size != t.Size() {
		return Tensor{}, ErrShapeMismatch
	}
	return Tensor{Shape: append([]int(nil), newShape...), Elems: t.Elems}, nil
}

// Transpose returns a tensor whose shape and element order are
// permuted by perm, a permutation of [0, t.Rank()). The result is
// always materialized so subsequent ops behave as if fully copied.
func Transpose(t Tensor, perm []int) (Tensor, error) {
	r := t.Rank()
	if len(perm) != r {
		return Tensor{}, ErrShapeMismatch
	}
	seen := make([]bool, r)
	for _, p := range perm {
		if p < 0 || p >= r || seen[p] {
			return Tensor{}, ErrShapeMismatch
		}
		seen[p] = true
	}
	newShape := make([]int, r)
	for i, p := range perm {
		newShape[i] = t.Shape[p]
	}
	oldStrides := strides(t.Shape)
	size := t.Size()
	out := make([]bigint243.Int, size)
	idx := make([]int, r)
	for flat := 0; flat < size; flat++ {
		unravel(flat, newShape, idx)
		oldOffset := 0
		for i, p := range perm {
			oldOffset += idx[i] * oldStrides[p]
		}
		out[flat] = t.Elems[oldOffset]
	}
	return Tensor{Shape: newShape, Elems: out}, nil
}

// unravel writes into idx the multi-index of flat offset under shape.
func unravel(flat int, shape []int, idx []int) {
	for i := len(shape) - 1; i >= 0; i-- {
		idx[i] = flat % shape[i]
		flat /= shape[i]
	}
}

// Slice returns the tensor restricted to [lo, hi) along axis, with
// elements copied in order.
func Slice(t Tensor, axis, lo, hi int) (Tensor, error) {
	if axis < 0 || axis >= t.Rank() {
		return Tensor{}, ErrIndexOutOfRange
	}
	if lo < 0 || hi > t.Shape[axis] || lo > hi {
		return Tensor{}, ErrIndexOutOfRange
	}
	newShape := append([]int(nil), t.Shape...)
	newShape[axis] = hi - lo
	oldStrides := strides(t.Shape)
	size := 1
	for _, s := range newShape {
		size *= s
	}
	out := make([]bigint243.Int, size)
	idx := make([]int, t.Rank())
	for flat := 0; flat < size; flat++ {
		unravel(flat, newShape, idx)
		oldOffset := 0
		for i, s := range oldStrides {
			v := idx[i]
			if i == axis {
				v += lo
			}
			oldOffset += v * s
		}
		out[flat] = t.Elems[oldOffset]
	}
	return Tensor{Shape: newShape, Elems: out}, nil
}

// Dot contracts A's last axis against B's first axis:
// requires A.Rank()>=1, B.Rank()>=1, A.Shape[last] == B.Shape[0].
// Result rank = A.Rank()+B.Rank()-2; result element
// (i..., k...) = sum_j A[i...,j] * B[j,k...].
func Dot(a, b Tensor) (Tensor, error) {
	if a.Rank() < 1 || b.Rank() < 1 {
		return Tensor{}, ErrRankError
	}
	contractDim := a.Shape[a.Rank()-1]
	if contractDim != b.Shape[0] {
		return Tensor{}, ErrShapeMismatch
	}
	aOuter := a.Shape[:a.Rank()-1]
	bOuter := b.Shape[1:]
	resultShape := append(append([]int(nil), aOuter...), bOuter...)

	aStrides := strides(a.Shape)
	bStrides := strides(b.Shape)

	resultSize := 1
	for _, s := range resultShape {
		resultSize *= s
	}
	out := make([]bigint243.Int, resultSize)

	aOuterSize := 1
	for _, s := range aOuter {
		aOuterSize *= s
	}
	bOuterSize := 1
	for _, s := range bOuter {
		bOuterSize *= s
	}

	aIdx := make([]int, len(aOuter))
	bIdx := make([]int, len(bOuter))

	for ai := 0; ai < aOuterSize; ai++ {
		unravel(ai, aOuter, aIdx)
		aBase := 0
		for i, v := range aIdx {
			aBase += v * aStrides[i]
		}
		for bi := 0; bi < bOuterSize; bi++ {
			unravel(bi, bOuter, bIdx)
			bBase := 0
			for i, v := range bIdx {
				bBase += v * bStrides[i+1]
			}
			acc := bigint243.Zero()
			for j := 0; j < contractDim; j++ {
				av := a.Elems[aBase+j*aStrides[len(aStrides)-1]]
				bv := b.Elems[bBase+j*bStrides[0]]
				acc = bigint243.Add(acc, bigint243.Mul(av, bv))
			}
			out[ai*bOuterSize+bi] = acc
		}
	}
	return Tensor{Shape: resultShape, Elems: out}, nil
}

// String renders a canonical listing: rank, shape, and elements in
// row-major order.
func (t Tensor) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "rank=%d shape=%v elems=[", t.Rank(), t.Shape)
	for i, e := range t.Elems {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(e.String())
	}
	sb.WriteString("]")
	return sb.String()
}
