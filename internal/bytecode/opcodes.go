// Package bytecode defines the Axion VM's instruction encoding: a
// 1-byte opcode space with opcode-specific inline operand lengths, and
// the immutable Chunk that holds a loaded program.
package bytecode

// Op is a single 1-byte Axion opcode.
type Op byte

// Canonical opcode table (spec.md §4.4). The source material numbers a
// few control-flow opcodes twice — once inside the 0x10 arithmetic
// block, once as a standalone 0x10-0x14 control-flow group. This
// module adopts the arithmetic-block numbering (PUSH=0x10,
// ADD..ABS=0x11..0x17, CMP3=0x18, the 0x19-0x1D AI/mid-tier macros) as
// canonical and moves control flow to its own non-overlapping 0x20-0x24
// block; see DESIGN.md for the rationale. A Chunk is always decoded
// under this single table — there is no runtime table switch. Load
// does not scan the code: a byte outside this table is rejected with
// an UnknownOpcode error only when the dispatcher reaches it.
const (
	OpNop Op = 0x00

	OpPush Op = 0x10 // 9-byte inline Digit81 operand
	OpAdd  Op = 0x11
	OpSub  Op = 0x12
	OpMul  Op = 0x13
	OpDiv  Op = 0x14
	OpMod  Op = 0x15
	OpNeg  Op = 0x16
	OpAbs  Op = 0x17
	OpCmp3 Op = 0x18

	OpTNNAccum  Op = 0x19 // 18-byte inline operand (two Digit81)
	OpT81Matmul Op = 0x1A // 18-byte inline operand (two Digit81)

	OpT243Add   Op = 0x1B
	OpT243Mul   Op = 0x1C
	OpT243Print Op = 0x1D

	OpJmp  Op = 0x20 // 4-byte absolute address
	OpJz   Op = 0x21 // 4-byte absolute address
	OpJnz  Op = 0x22 // 4-byte absolute address
	OpCall Op = 0x23 // 4-byte absolute address
	OpRet  Op = 0x24

	OpT729Dot   Op = 0xE1
	OpT729Print Op = 0xE2

	OpRecurseFact Op = 0xF1
	OpRecurseFib  Op = 0xF2

	OpPromoteMid Op = 0xF0
	OpPromoteTop Op = 0xF3
	OpDemoteMid  Op = 0xF4
	OpDemoteLow  Op = 0xF5

	OpHalt Op = 0xFF
)

// OperandLen returns the number of inline operand bytes that follow
// op, or -1 if op is not part of the canonical table.
func OperandLen(op Op) int {
	switch op {
	case OpNop, OpAdd, OpSub, OpMul, OpDiv, OpMod, OpNeg, OpAbs, OpCmp3,
		OpT243Add, OpT243Mul, OpT243Print, OpRet, OpT729Dot, OpT729Print,
		OpRecurseFact, OpRecurseFib, OpPromoteMid, OpPromoteTop,
		OpDemoteMid, OpDemoteLow, OpHalt:
		return 0
	case OpPush:
		return 9
	case OpTNNAccum, OpT81Matmul:
		return 18
	case OpJmp, OpJz, OpJnz, OpCall:
		return 4
	default:
		return -1
	}
}

// Mnemonic returns the canonical textual name of op, or "" if unknown.
func Mnemonic(op Op) string {
	switch op {
	case OpNop:
		return "NOP"
	case OpPush:
		return "PUSH"
	case OpAdd:
		return "ADD"
	case OpSub:
		return "SUB"
	case OpMul:
		return "MUL"
	case OpDiv:
		return "DIV"
	case OpMod:
		return "MOD"
	case OpNeg:
		return "NEG"
	case OpAbs:
		return "ABS"
	case OpCmp3:
		return "CMP3"
	case OpTNNAccum:
		return "TNN_ACCUM"
	case OpT81Matmul:
		return "T81_MATMUL"
	case OpT243Add:
		return "T243_ADD"
	case OpT243Mul:
		return "T243_MUL"
	case OpT243Print:
		return "T243_PRINT"
	case OpJmp:
		return "JMP"
	case OpJz:
		return "JZ"
	case OpJnz:
		return "JNZ"
	case OpCall:
		return "CALL"
	case OpRet:
		return "RET"
	case OpT729Dot:
		return "T729_DOT"
	case OpT729Print:
		return "T729_PRINT"
	case OpRecurseFact:
		return "RECURSE_FACT"
	case OpRecurseFib:
		return "RECURSE_FIB"
	case OpPromoteMid:
		return "PROMOTE_MID"
	case OpPromoteTop:
		return "PROMOTE_TOP"
	case OpDemoteMid:
		return "DEMOTE_MID"
	case OpDemoteLow:
		return "DEMOTE_LOW"
	case OpHalt:
		return "HALT"
	default:
		return ""
	}
}
