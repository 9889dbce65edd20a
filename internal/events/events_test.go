package events

import "testing"

func TestCallbackFunc(t *testing.T) {
	var got Event
	cb := CallbackFunc(func(e Event) { got = e })
	cb.OnEvent(Event{Kind: Halted, HaltReason: "opcode"})
	if got.Kind != Halted || got.HaltReason != "opcode" {
		t.Fatalf("got %+v", got)
	}
}

func TestKindString(t *testing.T) {
	if OpcodeExecuted.String() != "OpcodeExecuted" {
		t.Fatalf("unexpected string %q", OpcodeExecuted.String())
	}
	if Kind(99).String() != "Unknown" {
		t.Fatal("expected Unknown for out-of-range kind")
	}
}

func TestWebSocketSinkNoClientsDoesNotPanic(t *testing.T) {
	s := NewWebSocketSink()
	s.OnEvent(Event{Kind: OpcodeExecuted, IP: 1, Opcode: 0x11})
}
