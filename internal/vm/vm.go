// Package vm implements the Axion VM's bytecode interpreter: operand
// stack, tier state machine, dispatcher loop, recursion primitives and
// snapshot/rollback store (spec.md §4.4, §4.6, components 6, 7, 12,
// 13). Its dispatch loop shape — fetch opcode, consult a debug/observer
// hook, switch over opcodes, apply post-effects — is grounded on the
// teacher project's internal/vm/vm.go Run() method.
package vm

import (
	"context"
	"io"
	"log"

	"github.com/google/uuid"

	"axion/internal/bytecode"
	"axion/internal/events"
	"axion/internal/hook"
	"axion/internal/operand"
)

// VM is the Axion VM's execution state. It exclusively owns its
// Stack, Code, and snapshot slot (spec.md §3 ownership rules).
type VM struct {
	chunk  *bytecode.Chunk
	ip     int
	halted bool

	stack *operand.Stack
	tier  Tier
	depth int

	entropy float64
	tm      *tierMachine

	hook     hook.Hook
	callback events.Callback

	snap *snapshotState

	sessionID string

	callStack []int

	cfg    Config
	Logger *log.Logger

	executing bool
}

// New constructs a VM with the given configuration. The default hook
// is hook.Default and no event callback is installed.
func New(cfg Config) *VM {
	if cfg.StackCapacity <= 0 {
		cfg = DefaultConfig()
	}
	return &VM{
		stack:  operand.NewStack(cfg.StackCapacity),
		tier:   TierLow,
		tm:     newTierMachine(cfg.Thresholds),
		hook:   hook.Default{},
		cfg:    cfg,
		Logger: log.New(io.Discard, "axionvm: ", 0),
	}
}

// Load installs raw bytecode as this VM's Code buffer. A Code buffer
// is installed once per VM; calling Load again resets execution state
// (ip, halted, call stack) but preserves the operand stack and tier,
// matching spec.md's "reset state" implementation choice. Load is
// rejected with ErrReentrant if called from within a hook/event
// callback while Execute is running on this VM.
func (v *VM) Load(raw []byte) error {
	if v.executing {
		return newErr(ErrReentrant, "Load called reentrantly from within Execute")
	}
	v.chunk = bytecode.Load(raw)
	v.ip = 0
	v.halted = false
	v.callStack = nil
	if v.chunk.HookOpened {
		v.sessionID = uuid.NewString()
	}
	return nil
}

// SetHook installs the optimizer collaborator. Rejected with
// ErrReentrant if called from within a hook/event callback while
// Execute is running on this VM.
func (v *VM) SetHook(h hook.Hook) error {
	if v.executing {
		return newErr(ErrReentrant, "SetHook called reentrantly from within Execute")
	}
	if h == nil {
		h = hook.Default{}
	}
	v.hook = h
	return nil
}

// SetEventCallback installs the synchronous event listener. Rejected
// with ErrReentrant if called from within a hook/event callback while
// Execute is running on this VM.
func (v *VM) SetEventCallback(cb events.Callback) error {
	if v.executing {
		return newErr(ErrReentrant, "SetEventCallback called reentrantly from within Execute")
	}
	v.callback = cb
	return nil
}

// Push pushes op onto the operand stack.
func (v *VM) Push(op operand.Operand) error {
	if v.executing {
		return newErr(ErrReentrant, "Push called reentrantly from within Execute")
	}
	if err := v.stack.Push(op); err != nil {
		return stackErr(err)
	}
	return nil
}

// Pop pops the top operand.
func (v *VM) Pop() (operand.Operand, error) {
	if v.executing {
		return operand.Operand{}, newErr(ErrReentrant, "Pop called reentrantly from within Execute")
	}
	op, err := v.stack.Pop()
	if err != nil {
		return operand.Operand{}, stackErr(err)
	}
	return op, nil
}

// Peek returns the top operand without removing it.
func (v *VM) Peek() (operand.Operand, error) {
	if v.executing {
		return operand.Operand{}, newErr(ErrReentrant, "Peek called reentrantly from within Execute")
	}
	op, err := v.stack.Peek()
	if err != nil {
		return operand.Operand{}, stackErr(err)
	}
	return op, nil
}

// Tier returns the VM's current operating tier.
func (v *VM) Tier() Tier { return v.tier }

// Depth returns the VM's current recursion depth.
func (v *VM) Depth() int { return v.depth }

// Halted reports whether the VM has halted.
func (v *VM) Halted() bool { return v.halted }

// IP returns the current instruction pointer.
func (v *VM) IP() int { return v.ip }

func stackErr(err error) *VMError {
	switch err {
	case operand.ErrUnderflow:
		return newErr(ErrStackUnderflow, "stack underflow")
	case operand.ErrOverflow:
		return newErr(ErrStackOverflow, "stack overflow")
	default:
		return wrapErr(ErrUnknown, "stack operation failed", err)
	}
}

// Execute dispatches up to maxSteps opcodes, returning the number of
// opcodes successfully dispatched. It stops early on HALT, on error,
// on reaching the end of the code buffer (leaving the VM suspended,
// not halted), or when ctx is done. Calling Execute on an already
// halted VM returns (0, nil).
func (v *VM) Execute(ctx context.Context, maxSteps int) (int, error) {
	if v.executing {
		return 0, newErr(ErrReentrant, "Execute called reentrantly from within Execute")
	}
	if v.halted {
		return 0, nil
	}
	if v.chunk == nil {
		return 0, newErr(ErrInvalidInput, "no code loaded")
	}

	v.executing = true
	defer func() { v.executing = false }()

	steps := 0
	for !v.halted && v.ip < v.chunk.Len() && steps < maxSteps {
		select {
		case <-ctx.Done():
			return steps, ctx.Err()
		default:
		}

		opIP := v.ip
		opcode := bytecode.Op(v.chunk.At(v.ip))
		v.ip++

		operandLen := bytecode.OperandLen(opcode)
		if operandLen < 0 {
			v.ip = opIP
			return steps, v.failAndHalt(opIP, opcode, newErr(ErrUnknownOpcode, "unknown opcode"))
		}
		if v.ip+operandLen > v.chunk.Len() {
			v.ip = opIP
			return steps, v.failAndHalt(opIP, opcode, newErr(ErrTruncatedOperand, "truncated operand"))
		}
		inline := v.chunk.Code[v.ip : v.ip+operandLen]
		v.ip += operandLen

		v.hook.Observe(byte(opcode))
		v.entropy = clamp01(v.hook.ReadEntropy())

		if v.hook.RequestSnapshot() {
			v.takeSnapshot()
		}

		isTensorOp, err := v.dispatch(opcode, inline)
		if err != nil {
			v.ip = opIP
			return steps, v.failAndHalt(opIP, opcode, err)
		}

		if v.hook.RequestRollback() {
			if rbErr := v.rollback(); rbErr != nil {
				v.ip = opIP
				return steps, v.failAndHalt(opIP, opcode, rbErr)
			}
		}

		v.tm.recordOp(isTensorOp)
		v.applyTierRules()

		v.emit(events.Event{
			Kind:      events.OpcodeExecuted,
			IP:        opIP,
			Opcode:    byte(opcode),
			TierAfter: v.tier.String(),
			Entropy:   v.entropy,
		})

		steps++

		if v.halted {
			v.emit(events.Event{
				Kind:       events.Halted,
				IP:         opIP,
				Opcode:     byte(opcode),
				HaltReason: events.HaltOpcode.String(),
			})
		}
	}
	return steps, nil
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func (v *VM) failAndHalt(ip int, opcode bytecode.Op, err *VMError) *VMError {
	v.halted = true
	v.emit(events.Event{
		Kind:       events.Halted,
		IP:         ip,
		Opcode:     byte(opcode),
		HaltReason: events.HaltError.String(),
		Err:        err,
	})
	return err
}

func (v *VM) emit(e events.Event) {
	if v.callback == nil {
		return
	}
	e.SessionID = v.sessionID
	v.callback.OnEvent(e)
}

func (v *VM) applyTierRules() {
	newTier, changed, reason := v.tm.evaluate(v.tier, v.depth, v.entropy)
	if !changed {
		return
	}
	from := v.tier
	v.tier = newTier
	v.emit(events.Event{
		Kind:     events.TierChanged,
		TierFrom: from.String(),
		TierTo:   newTier.String(),
		Reason:   reason.String(),
	})
}

// setTierExplicit forces the tier directly, as spec.md's explicit
// PROMOTE_*/DEMOTE_* opcodes require ("always applied", regardless of
// the promotion/demotion table).
func (v *VM) setTierExplicit(t Tier) {
	if v.tier == t {
		return
	}
	from := v.tier
	v.tier = t
	v.emit(events.Event{
		Kind:     events.TierChanged,
		TierFrom: from.String(),
		TierTo:   t.String(),
		Reason:   ReasonExplicit.String(),
	})
}
