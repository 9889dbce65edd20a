package axionvm

import (
	"context"

	"axion/internal/vm"
)

// VM is an opaque handle to one Axion VM instance. The zero value is
// not usable; construct one with New.
type VM struct {
	inner *vm.VM
}

// New constructs a VM with the given configuration. Passing the zero
// Config is equivalent to passing DefaultConfig().
func New(cfg Config) (*VM, error) {
	return &VM{inner: vm.New(cfg)}, nil
}

// Close releases any resources the VM holds. The current engine holds
// none beyond Go-managed memory, but Close exists so hosts following
// the create/destroy pairing from spec.md §6.2 have a symmetric call,
// and so a future resource (e.g. a held store.Store) has somewhere to
// be released without changing this method's signature.
func (v *VM) Close() error {
	return nil
}

// Load installs raw bytecode as the VM's program.
func (v *VM) Load(code []byte) error {
	return v.inner.Load(code)
}

// Push pushes op onto the operand stack. Must not be called while
// Execute is running on this VM.
func (v *VM) Push(op Operand) error {
	return v.inner.Push(op)
}

// Pop pops and returns the top operand.
func (v *VM) Pop() (Operand, error) {
	return v.inner.Pop()
}

// Peek returns the top operand without removing it.
func (v *VM) Peek() (Operand, error) {
	return v.inner.Peek()
}

// Execute dispatches up to maxSteps opcodes. ctx cancellation is
// observed at the next opcode boundary, never mid-opcode.
func (v *VM) Execute(ctx context.Context, maxSteps int) (int, error) {
	return v.inner.Execute(ctx, maxSteps)
}

// SetEventCallback installs the synchronous event listener. Pass nil
// to stop receiving events. Returns ErrReentrant if called from
// within a callback while Execute is running on this VM.
func (v *VM) SetEventCallback(cb EventCallback) error {
	return v.inner.SetEventCallback(cb)
}

// SetHook installs the optimizer collaborator. Returns ErrReentrant
// if called from within a callback while Execute is running on this
// VM.
func (v *VM) SetHook(h Hook) error {
	return v.inner.SetHook(h)
}

// Tier returns the VM's current operating tier.
func (v *VM) Tier() Tier { return v.inner.Tier() }

// Depth returns the VM's current recursion depth.
func (v *VM) Depth() int { return v.inner.Depth() }

// Halted reports whether the VM has halted.
func (v *VM) Halted() bool { return v.inner.Halted() }
