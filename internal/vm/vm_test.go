package vm

import (
	"context"
	"testing"

	"axion/internal/bytecode"
	"axion/internal/digit81"
	"axion/internal/events"
	"axion/internal/operand"
)

func encode(op bytecode.Op, inline ...byte) []byte {
	return append([]byte{byte(op)}, inline...)
}

func program(chunks ...[]byte) []byte {
	var out []byte
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}

func pushLow(v uint8) []byte {
	d := digit81.Digit{C: v}
	enc := digit81.Encode(d)
	return encode(bytecode.OpPush, enc[:]...)
}

func TestArithmeticSeedScenario(t *testing.T) {
	// (i) push 2, push 3, ADD, halt -> LOW operand 5.
	code := program(pushLow(2), pushLow(3), encode(bytecode.OpAdd), encode(bytecode.OpHalt))
	v := New(DefaultConfig())
	if err := v.Load(code); err != nil {
		t.Fatal(err)
	}
	if _, err := v.Execute(context.Background(), 100); err != nil {
		t.Fatal(err)
	}
	if !v.Halted() {
		t.Fatal("expected VM to halt")
	}
	top, err := v.Peek()
	if err != nil {
		t.Fatal(err)
	}
	if top.Tag != operand.Low || top.Low.C != 5 {
		t.Fatalf("top = %+v, want LOW 5", top)
	}
}

func TestFactorialSeedScenario(t *testing.T) {
	// (iii) push LOW 5 (RECURSE_FACT widens it to MID); RECURSE_FACT; halt -> MID operand 120.
	code := program(pushLow(5), encode(bytecode.OpRecurseFact), encode(bytecode.OpHalt))
	v := New(DefaultConfig())
	if err := v.Load(code); err != nil {
		t.Fatal(err)
	}
	if _, err := v.Execute(context.Background(), 100); err != nil {
		t.Fatal(err)
	}
	top, err := v.Peek()
	if err != nil {
		t.Fatal(err)
	}
	mid := operand.WidenToMid(top)
	if mid.Mid.String() != "120" {
		t.Fatalf("factorial(5) = %s, want 120", mid.Mid.String())
	}
}

func TestUnknownOpcodeHalts(t *testing.T) {
	code := []byte{0xAB}
	v := New(DefaultConfig())
	if err := v.Load(code); err != nil {
		t.Fatal(err)
	}
	var haltEvents int
	v.SetEventCallback(events.CallbackFunc(func(e events.Event) {
		if e.Kind == events.Halted {
			haltEvents++
		}
	}))
	_, err := v.Execute(context.Background(), 10)
	if err == nil {
		t.Fatal("expected error on unknown opcode")
	}
	if !v.Halted() {
		t.Fatal("expected VM to halt on unknown opcode")
	}
	if haltEvents != 1 {
		t.Fatalf("haltEvents = %d, want 1", haltEvents)
	}
}

func TestStackUnderflowLeavesStackUntouched(t *testing.T) {
	code := program(encode(bytecode.OpAdd), encode(bytecode.OpHalt))
	v := New(DefaultConfig())
	if err := v.Push(operand.FromLow(digit81.Digit{C: 1})); err != nil {
		t.Fatal(err)
	}
	if err := v.Load(code); err != nil {
		t.Fatal(err)
	}
	_, err := v.Execute(context.Background(), 10)
	if err == nil {
		t.Fatal("expected underflow error")
	}
	if v.stack.Len() != 1 {
		t.Fatalf("stack len = %d, want 1 (operand popped by ADD restored)", v.stack.Len())
	}
	if v.IP() != 0 {
		t.Fatalf("IP = %d, want 0 (pre-opcode state preserved)", v.IP())
	}
}

func TestReentrantPushRejected(t *testing.T) {
	v := New(DefaultConfig())
	v.executing = true
	if err := v.Push(operand.FromLow(digit81.Zero)); err == nil {
		t.Fatal("expected Reentrant error")
	}
}

func TestReentrantMutatorsRejected(t *testing.T) {
	v := New(DefaultConfig())
	v.executing = true

	if err := v.Load([]byte{byte(bytecode.OpHalt)}); err == nil {
		t.Fatal("expected Reentrant error from Load")
	}
	if err := v.SetHook(nil); err == nil {
		t.Fatal("expected Reentrant error from SetHook")
	}
	if err := v.SetEventCallback(nil); err == nil {
		t.Fatal("expected Reentrant error from SetEventCallback")
	}
}

func TestEventCallbackCannotReenterLoad(t *testing.T) {
	code := program(pushLow(1), encode(bytecode.OpHalt))
	v := New(DefaultConfig())
	if err := v.Load(code); err != nil {
		t.Fatal(err)
	}

	var reenterErr error
	v.SetEventCallback(events.CallbackFunc(func(e events.Event) {
		if e.Kind == events.OpcodeExecuted && reenterErr == nil {
			reenterErr = v.Load([]byte{byte(bytecode.OpHalt)})
		}
	}))

	if _, err := v.Execute(context.Background(), 10); err != nil {
		t.Fatal(err)
	}
	if reenterErr == nil {
		t.Fatal("expected Load called from within Execute to fail")
	}
	if vmErr, ok := reenterErr.(*VMError); !ok || vmErr.Kind != ErrReentrant {
		t.Fatalf("reenterErr = %v, want ErrReentrant", reenterErr)
	}
}

func TestJumpTargetOutOfBoundsIsRejected(t *testing.T) {
	code := program(encode(bytecode.OpJmp, 0xFF, 0xFF, 0xFF, 0xFF))
	v := New(DefaultConfig())
	if err := v.Load(code); err != nil {
		t.Fatal(err)
	}
	_, err := v.Execute(context.Background(), 10)
	if err == nil {
		t.Fatal("expected error on out-of-bounds jump target")
	}
	if err.(*VMError).Kind != ErrIndexOutOfRange {
		t.Fatalf("err = %v, want ErrIndexOutOfRange", err)
	}
	if !v.Halted() {
		t.Fatal("expected VM to halt on out-of-bounds jump target")
	}
	if v.IP() > len(code) {
		t.Fatalf("IP = %d left beyond code length %d", v.IP(), len(code))
	}
}

func TestCallTargetOutOfBoundsIsRejected(t *testing.T) {
	code := program(encode(bytecode.OpCall, 0x00, 0x00, 0x10, 0x00))
	v := New(DefaultConfig())
	if err := v.Load(code); err != nil {
		t.Fatal(err)
	}
	if _, err := v.Execute(context.Background(), 10); err == nil {
		t.Fatal("expected error on out-of-bounds call target")
	}
	if len(v.callStack) != 0 {
		t.Fatalf("callStack = %v, want untouched on rejected CALL", v.callStack)
	}
}

func TestSnapshotRollback(t *testing.T) {
	v := New(DefaultConfig())
	code := program(pushLow(1), pushLow(2), encode(bytecode.OpHalt))
	if err := v.Load(code); err != nil {
		t.Fatal(err)
	}
	v.takeSnapshot()
	v.Push(operand.FromLow(digit81.Digit{C: 9}))
	if err := v.rollback(); err != nil {
		t.Fatal(err)
	}
	if v.stack.Len() != 0 {
		t.Fatalf("stack len after rollback = %d, want 0 (snapshot taken before any push)", v.stack.Len())
	}
}

func TestRollbackWithoutSnapshot(t *testing.T) {
	v := New(DefaultConfig())
	if err := v.rollback(); err == nil || err.Kind != ErrNoSnapshot {
		t.Fatalf("err = %v, want ErrNoSnapshot", err)
	}
}
