package vm

import (
	"encoding/binary"

	"axion/internal/bigint243"
	"axion/internal/bytecode"
	"axion/internal/digit81"
	"axion/internal/operand"
	"axion/internal/tensor"
)

// dispatch executes a single decoded opcode against inline, its raw
// inline operand bytes (already bounds-checked and consumed from ip by
// the caller). It returns whether this opcode counts as a "tensor op"
// for the tier demotion window, and any error. On error the operand
// stack is left as it was before the opcode — every primitive below
// either checks its preconditions before popping or pushes the
// operands it popped back before returning the error.
func (v *VM) dispatch(op bytecode.Op, inline []byte) (isTensorOp bool, err *VMError) {
	switch op {
	case bytecode.OpNop:
		return false, nil

	case bytecode.OpPush:
		d := digit81.Decode(inline)
		return false, v.pushStack(operand.FromLow(d))

	case bytecode.OpAdd, bytecode.OpSub, bytecode.OpMul:
		return false, v.binaryArith(op)

	case bytecode.OpDiv:
		return false, v.divOp()

	case bytecode.OpMod:
		return false, v.modOp()

	case bytecode.OpNeg:
		return false, v.unaryArith(op)

	case bytecode.OpAbs:
		return false, v.unaryArith(op)

	case bytecode.OpCmp3:
		return false, v.cmp3Op()

	case bytecode.OpTNNAccum:
		return false, v.tnnAccum(inline)

	case bytecode.OpT81Matmul:
		return true, v.t81Matmul(inline)

	case bytecode.OpT243Add, bytecode.OpT243Mul:
		return false, v.t243BinOp(op)

	case bytecode.OpT243Print:
		return false, v.t243Print()

	case bytecode.OpJmp:
		target, err := v.validateJumpTarget(int(binary.BigEndian.Uint32(inline)))
		if err != nil {
			return false, err
		}
		v.ip = target
		return false, nil

	case bytecode.OpJz, bytecode.OpJnz:
		return false, v.condJump(op, inline)

	case bytecode.OpCall:
		target, err := v.validateJumpTarget(int(binary.BigEndian.Uint32(inline)))
		if err != nil {
			return false, err
		}
		v.callStack = append(v.callStack, v.ip)
		v.depth++
		v.ip = target
		return false, nil

	case bytecode.OpRet:
		return false, v.doReturn()

	case bytecode.OpT729Dot:
		return true, v.t729Dot()

	case bytecode.OpT729Print:
		return true, v.t729Print()

	case bytecode.OpRecurseFact:
		return false, v.recurseFactorial()

	case bytecode.OpRecurseFib:
		return false, v.recurseFibonacci()

	case bytecode.OpPromoteMid:
		v.setTierExplicit(TierMid)
		return false, nil
	case bytecode.OpPromoteTop:
		v.setTierExplicit(TierTop)
		return false, nil
	case bytecode.OpDemoteMid:
		v.setTierExplicit(TierMid)
		return false, nil
	case bytecode.OpDemoteLow:
		v.setTierExplicit(TierLow)
		return false, nil

	case bytecode.OpHalt:
		v.halted = true
		return false, nil

	default:
		return false, newErr(ErrUnknownOpcode, "unknown opcode")
	}
}

func (v *VM) pushStack(op operand.Operand) *VMError {
	if err := v.stack.Push(op); err != nil {
		return stackErr(err)
	}
	return nil
}

func (v *VM) popStack() (operand.Operand, *VMError) {
	op, err := v.stack.Pop()
	if err != nil {
		return operand.Operand{}, stackErr(err)
	}
	return op, nil
}

// requireNotTop rejects an opcode that expects LOW/MID operands but
// received a TOP one; per spec.md §4.4 this is TypeError, since only
// widening upward is implicit.
func requireNotTop(op operand.Operand) *VMError {
	if op.Tag == operand.Top {
		return newErr(ErrTypeError, "TOP operand not accepted by this opcode")
	}
	return nil
}

// binaryArith implements ADD/SUB/MUL, which pop two operands and push
// the result "at active tier" (spec.md §4.4). Since spec.md defines no
// generic tensor-tensor add/sub/mul (the tensor tier only exposes
// contraction and print through T729_*), TOP tier falls back to MID
// semantics for these generic ops and rejects TOP operands.
func (v *VM) binaryArith(op bytecode.Op) *VMError {
	b, err := v.popStack()
	if err != nil {
		return err
	}
	a, err := v.popStack()
	if err != nil {
		v.pushStack(b) // restore precondition: stack unchanged on error
		return err
	}

	if v.tier == TierLow {
		if aErr := requireNotTop(a); aErr != nil {
			v.restoreTwo(a, b)
			return aErr
		}
		if bErr := requireNotTop(b); bErr != nil {
			v.restoreTwo(a, b)
			return bErr
		}
		if a.Tag != operand.Low || b.Tag != operand.Low {
			v.restoreTwo(a, b)
			return newErr(ErrTypeError, "LOW-tier opcode refuses MID/TOP operands")
		}
		var res digit81.Digit
		switch op {
		case bytecode.OpAdd:
			res = digit81.Add(a.Low, b.Low)
		case bytecode.OpSub:
			res = digit81.Sub(a.Low, b.Low)
		case bytecode.OpMul:
			res = digit81.Mul(a.Low, b.Low)
		}
		return v.pushStack(operand.FromLow(res))
	}

	am := operand.WidenToMid(a)
	bm := operand.WidenToMid(b)
	if am.Tag == operand.Top || bm.Tag == operand.Top {
		v.restoreTwo(a, b)
		return newErr(ErrTypeError, "TOP operand not accepted by this opcode")
	}
	var res bigint243.Int
	switch op {
	case bytecode.OpAdd:
		res = bigint243.Add(am.Mid, bm.Mid)
	case bytecode.OpSub:
		res = bigint243.Sub(am.Mid, bm.Mid)
	case bytecode.OpMul:
		res = bigint243.Mul(am.Mid, bm.Mid)
	}
	return v.pushStack(operand.FromMid(res))
}

func (v *VM) restoreTwo(a, b operand.Operand) {
	v.pushStack(a)
	v.pushStack(b)
}

func (v *VM) divOp() *VMError {
	if v.tier == TierLow {
		return newErr(ErrTypeError, "division not provided at the LOW tier; promote first")
	}
	b, err := v.popStack()
	if err != nil {
		return err
	}
	a, err := v.popStack()
	if err != nil {
		v.pushStack(b)
		return err
	}
	am, bm := operand.WidenToMid(a), operand.WidenToMid(b)
	if am.Tag == operand.Top || bm.Tag == operand.Top {
		v.restoreTwo(a, b)
		return newErr(ErrTypeError, "TOP operand not accepted by DIV")
	}
	q, _, divErr := bigint243.DivMod(am.Mid, bm.Mid)
	if divErr != nil {
		v.restoreTwo(a, b)
		return newErr(ErrDivByZero, "division by zero")
	}
	return v.pushStack(operand.FromMid(q))
}

func (v *VM) modOp() *VMError {
	if v.tier == TierLow {
		b, err := v.popStack()
		if err != nil {
			return err
		}
		a, err := v.popStack()
		if err != nil {
			v.pushStack(b)
			return err
		}
		if a.Tag != operand.Low || b.Tag != operand.Low {
			v.restoreTwo(a, b)
			return newErr(ErrTypeError, "LOW-tier opcode refuses MID/TOP operands")
		}
		res, modErr := digit81.Mod(a.Low, b.Low)
		if modErr != nil {
			v.restoreTwo(a, b)
			return newErr(ErrDivByZero, "division by zero")
		}
		return v.pushStack(operand.FromLow(res))
	}
	b, err := v.popStack()
	if err != nil {
		return err
	}
	a, err := v.popStack()
	if err != nil {
		v.pushStack(b)
		return err
	}
	am, bm := operand.WidenToMid(a), operand.WidenToMid(b)
	if am.Tag == operand.Top || bm.Tag == operand.Top {
		v.restoreTwo(a, b)
		return newErr(ErrTypeError, "TOP operand not accepted by MOD")
	}
	_, r, divErr := bigint243.DivMod(am.Mid, bm.Mid)
	if divErr != nil {
		v.restoreTwo(a, b)
		return newErr(ErrDivByZero, "division by zero")
	}
	return v.pushStack(operand.FromMid(r))
}

func (v *VM) unaryArith(op bytecode.Op) *VMError {
	a, err := v.popStack()
	if err != nil {
		return err
	}
	switch a.Tag {
	case operand.Low:
		var res digit81.Digit
		if op == bytecode.OpNeg {
			res = digit81.Neg(a.Low)
		} else {
			res = digit81.Abs(a.Low)
		}
		return v.pushStack(operand.FromLow(res))
	case operand.Mid:
		var res bigint243.Int
		if op == bytecode.OpNeg {
			res = bigint243.Neg(a.Mid)
		} else {
			res = a.Mid
			if res.Sign < 0 {
				res = bigint243.Neg(res)
			}
		}
		return v.pushStack(operand.FromMid(res))
	default:
		v.pushStack(a)
		return newErr(ErrTypeError, "NEG/ABS not defined on TOP operands")
	}
}

func (v *VM) cmp3Op() *VMError {
	b, err := v.popStack()
	if err != nil {
		return err
	}
	a, err := v.popStack()
	if err != nil {
		v.pushStack(b)
		return err
	}
	if a.Tag == operand.Top || b.Tag == operand.Top {
		v.restoreTwo(a, b)
		return newErr(ErrTypeError, "CMP3 not defined on TOP operands")
	}
	var c int
	if a.Tag == operand.Low && b.Tag == operand.Low {
		switch digit81.Cmp3(a.Low, b.Low) {
		case digit81.Less:
			c = -1
		case digit81.Greater:
			c = 1
		}
	} else {
		am, bm := operand.WidenToMid(a), operand.WidenToMid(b)
		c = bigint243.Cmp(am.Mid, bm.Mid)
	}
	return v.pushStack(operand.FromLow(digit81.Digit{C: uint8(int8(c))}))
}

// tnnAccum decodes two inline Digit81 operands, widens them to MID,
// multiplies, and accumulates into the MID operand popped off the
// stack (auto-widened from LOW if needed).
func (v *VM) tnnAccum(inline []byte) *VMError {
	a := digit81.Decode(inline[0:9])
	b := digit81.Decode(inline[9:18])
	acc, err := v.popStack()
	if err != nil {
		return err
	}
	accMid := operand.WidenToMid(acc)
	if accMid.Tag == operand.Top {
		v.pushStack(acc)
		return newErr(ErrTypeError, "TNN_ACCUM accumulator must be LOW or MID")
	}
	prod := bigint243.Mul(
		bigint243.NewFromInt64(int64(a.C)),
		bigint243.NewFromInt64(int64(b.C)),
	)
	return v.pushStack(operand.FromMid(bigint243.Add(accMid.Mid, prod)))
}

// t81Matmul decodes two inline Digit81 operands and contracts them as
// 1x1 tensors, producing a TOP result — the smallest possible exercise
// of the tensor contraction machinery from a fixed-width operand pair.
func (v *VM) t81Matmul(inline []byte) *VMError {
	a := digit81.Decode(inline[0:9])
	b := digit81.Decode(inline[9:18])
	ta, _ := tensor.New([]int{1, 1}, []bigint243.Int{bigint243.NewFromInt64(int64(a.C))})
	tb, _ := tensor.New([]int{1, 1}, []bigint243.Int{bigint243.NewFromInt64(int64(b.C))})
	result, tErr := tensor.Dot(ta, tb)
	if tErr != nil {
		return tensorErr(tErr)
	}
	return v.pushStack(operand.FromTop(result))
}

func (v *VM) t243BinOp(op bytecode.Op) *VMError {
	b, err := v.popStack()
	if err != nil {
		return err
	}
	a, err := v.popStack()
	if err != nil {
		v.pushStack(b)
		return err
	}
	am, bm := operand.WidenToMid(a), operand.WidenToMid(b)
	if am.Tag == operand.Top || bm.Tag == operand.Top {
		v.restoreTwo(a, b)
		return newErr(ErrTypeError, "T243 op expects LOW/MID operands")
	}
	var res bigint243.Int
	if op == bytecode.OpT243Add {
		res = bigint243.Add(am.Mid, bm.Mid)
	} else {
		res = bigint243.Mul(am.Mid, bm.Mid)
	}
	return v.pushStack(operand.FromMid(res))
}

// t243Print peeks (does not pop) the top operand and logs its decimal
// rendering, leaving the stack unaffected — print is an observational
// opcode, not a consuming one.
func (v *VM) t243Print() *VMError {
	top, err := v.stack.Peek()
	if err != nil {
		return stackErr(err)
	}
	m := operand.WidenToMid(top)
	if m.Tag == operand.Top {
		return newErr(ErrTypeError, "T243_PRINT expects LOW/MID operands")
	}
	v.Logger.Printf("T243_PRINT: %s", m.Mid.String())
	return nil
}

func (v *VM) t729Dot() *VMError {
	b, err := v.popStack()
	if err != nil {
		return err
	}
	a, err := v.popStack()
	if err != nil {
		v.pushStack(b)
		return err
	}
	at, bt := operand.WidenToTop(a), operand.WidenToTop(b)
	result, tErr := tensor.Dot(at.Top, bt.Top)
	if tErr != nil {
		v.restoreTwo(a, b)
		return tensorErr(tErr)
	}
	return v.pushStack(operand.FromTop(result))
}

func (v *VM) t729Print() *VMError {
	top, err := v.stack.Peek()
	if err != nil {
		return stackErr(err)
	}
	t := operand.WidenToTop(top)
	v.Logger.Printf("T729_PRINT: %s", t.Top.String())
	return nil
}

func tensorErr(err error) *VMError {
	switch err {
	case tensor.ErrShapeMismatch:
		return newErr(ErrShapeMismatch, "tensor shape mismatch")
	case tensor.ErrIndexOutOfRange:
		return newErr(ErrIndexOutOfRange, "tensor index out of range")
	case tensor.ErrRankError:
		return newErr(ErrRankError, "tensor rank error")
	default:
		return wrapErr(ErrUnknown, "tensor operation failed", err)
	}
}

func (v *VM) condJump(op bytecode.Op, inline []byte) *VMError {
	addr := int(binary.BigEndian.Uint32(inline))
	target, verr := v.validateJumpTarget(addr)
	if verr != nil {
		return verr
	}
	top, err := v.popStack()
	if err != nil {
		return err
	}
	falsy := isFalsy(top)
	jump := (op == bytecode.OpJz && falsy) || (op == bytecode.OpJnz && !falsy)
	if jump {
		v.ip = target
	}
	return nil
}

// validateJumpTarget rejects any JMP/JZ/JNZ/CALL target outside
// [0, code length], keeping ip within spec.md §8's invariant range
// for every reachable state instead of stranding it past the end of
// the loaded chunk.
func (v *VM) validateJumpTarget(addr int) (int, *VMError) {
	if addr < 0 || addr > v.chunk.Len() {
		return 0, newErr(ErrIndexOutOfRange, "jump target out of bounds")
	}
	return addr, nil
}

func isFalsy(op operand.Operand) bool {
	switch op.Tag {
	case operand.Low:
		return op.Low == digit81.Zero
	case operand.Mid:
		return bigint243.Cmp(op.Mid, bigint243.Zero()) == 0
	default:
		return op.Top.Size() == 0
	}
}

func (v *VM) doReturn() *VMError {
	if len(v.callStack) == 0 {
		return newErr(ErrStackUnderflow, "RET with empty call stack")
	}
	addr := v.callStack[len(v.callStack)-1]
	v.callStack = v.callStack[:len(v.callStack)-1]
	v.depth--
	v.ip = addr
	return nil
}
