// Package operand implements the VM's tagged-union operand type and
// its bounded LIFO stack.
package operand

import (
	"axion/internal/bigint243"
	"axion/internal/digit81"
	"axion/internal/tensor"
)

// Tag selects which payload field of an Operand is active.
type Tag byte

const (
	Low Tag = iota
	Mid
	Top
)

func (t Tag) String() string {
	switch t {
	case Low:
		return "LOW"
	case Mid:
		return "MID"
	case Top:
		return "TOP"
	default:
		return "UNKNOWN"
	}
}

// Operand is a tagged union over the VM's three tiers. Exactly one of
// the payload fields is meaningful, selected by Tag — realized as a
// flat struct rather than interface{} boxing so the hot dispatch path
// avoids an allocation and a type assertion per push/pop.
type Operand struct {
	Tag Tag
	Low digit81.Digit
	Mid bigint243.Int
	Top tensor.Tensor
}

// FromLow wraps a Digit81 as a LOW operand.
func FromLow(d digit81.Digit) Operand { return Operand{Tag: Low, Low: d} }

// FromMid wraps a BigIntMid as a MID operand.
func FromMid(v bigint243.Int) Operand { return Operand{Tag: Mid, Mid: v} }

// FromTop wraps a Tensor as a TOP operand.
func FromTop(t tensor.Tensor) Operand { return Operand{Tag: Top, Top: t} }

// WidenToMid implicitly widens a LOW operand to MID (Digit81 maps to a
// single mid-tier digit, value < 243 by construction — only the C
// field, [0,80], is representable as a single base-243 digit, which is
// what the spec calls "a Digit81 maps to a single mid-tier digit").
// MID and TOP operands pass through unchanged.
func WidenToMid(op Operand) Operand {
	if op.Tag != Low {
		return op
	}
	return FromMid(bigint243.NewFromInt64(int64(op.Low.C)))
}

// WidenToTop wraps a MID scalar as a rank-0 Tensor. LOW operands are
// first widened to MID. TOP operands pass through unchanged.
func WidenToTop(op Operand) Operand {
	switch op.Tag {
	case Top:
		return op
	case Low:
		op = WidenToMid(op)
	}
	return FromTop(tensor.Scalar(op.Mid))
}
