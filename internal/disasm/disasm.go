// Package disasm implements a pure disassembler over Axion bytecode: it
// never touches a vm.VM, only the raw byte buffer. Grounded on the
// m68k disassembler's Instruction{Address, Mnemonic, Operands, Size}
// shape found in the retrieval pack, narrowed to this VM's much
// simpler fixed-length-per-opcode encoding (no control-flow-reachability
// pass is needed, since every opcode's size is known from its byte
// alone rather than decoded from variable-length extension words).
package disasm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"axion/internal/bytecode"
	"axion/internal/digit81"
)

// ErrTruncated is returned when the final instruction's inline operand
// runs past the end of the buffer.
var ErrTruncated = errors.New("disasm: truncated operand at end of buffer")

// Instruction is one decoded entry in a Listing.
type Instruction struct {
	Address  int
	Opcode   byte
	Mnemonic string
	Operands string
	Size     int
	Unknown  bool
}

// Listing is an ordered sequence of decoded instructions covering an
// entire bytecode buffer.
type Listing []Instruction

// Disassemble performs a linear sweep over code, decoding one
// instruction per iteration using bytecode.OperandLen to determine
// each opcode's inline width. An unknown opcode is recorded with
// Unknown set and treated as having zero-width operands so the sweep
// can continue past it; this mirrors the VM's own "reject the other
// table" posture without making a disassembly failure fatal to the
// whole listing.
func Disassemble(code []byte) (Listing, error) {
	var out Listing
	pc := 0
	for pc < len(code) {
		op := bytecode.Op(code[pc])
		mnemonic := bytecode.Mnemonic(op)
		operandLen := bytecode.OperandLen(op)

		if operandLen < 0 {
			out = append(out, Instruction{
				Address:  pc,
				Opcode:   byte(op),
				Mnemonic: fmt.Sprintf("DB 0x%02X", byte(op)),
				Size:     1,
				Unknown:  true,
			})
			pc++
			continue
		}

		if pc+1+operandLen > len(code) {
			out = append(out, Instruction{
				Address:  pc,
				Opcode:   byte(op),
				Mnemonic: mnemonic,
				Operands: "<truncated>",
				Size:     len(code) - pc,
				Unknown:  true,
			})
			return out, ErrTruncated
		}

		inline := code[pc+1 : pc+1+operandLen]
		out = append(out, Instruction{
			Address:  pc,
			Opcode:   byte(op),
			Mnemonic: mnemonic,
			Operands: formatOperands(op, inline),
			Size:     1 + operandLen,
		})
		pc += 1 + operandLen
	}
	return out, nil
}

// formatOperands renders an opcode's inline bytes in the representation
// most useful for a human reader: a decoded Digit81 value for PUSH, a
// pair of them for the two-operand AI macros, and a zero-padded
// hexadecimal address for jumps and calls.
func formatOperands(op bytecode.Op, inline []byte) string {
	switch op {
	case bytecode.OpPush:
		return digitString(digit81.Decode(inline))
	case bytecode.OpTNNAccum, bytecode.OpT81Matmul:
		return fmt.Sprintf("%s, %s", digitString(digit81.Decode(inline[0:9])), digitString(digit81.Decode(inline[9:18])))
	case bytecode.OpJmp, bytecode.OpJz, bytecode.OpJnz, bytecode.OpCall:
		return fmt.Sprintf("0x%08X", binary.BigEndian.Uint32(inline))
	default:
		return ""
	}
}

// digitString renders a Digit81's three fields for disassembly output.
// digit81 itself has no String method — wire encoding and human
// display are different concerns, so the formatting lives here.
func digitString(d digit81.Digit) string {
	return fmt.Sprintf("{A:%d B:%d C:%d}", d.A, d.B, d.C)
}

// String renders the full listing, one instruction per line, in the
// conventional "address: mnemonic operands" disassembly form.
func (l Listing) String() string {
	var sb strings.Builder
	for _, inst := range l {
		fmt.Fprintf(&sb, "%08x: %s", inst.Address, inst.Mnemonic)
		if inst.Operands != "" {
			fmt.Fprintf(&sb, " %s", inst.Operands)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
