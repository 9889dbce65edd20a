package axionvm

import (
	"axion/internal/events"
	"axion/internal/hook"
	"axion/internal/operand"
	"axion/internal/vm"
)

// Operand is the VM's tagged-union value type, re-exported unchanged
// so hosts can build and inspect values without reaching into internal/.
type Operand = operand.Operand

// Tag selects which payload field of an Operand is active.
type Tag = operand.Tag

const (
	Low = operand.Low
	Mid = operand.Mid
	Top = operand.Top
)

// NewLow, NewMid, and NewTop construct operands at each tier.
var (
	NewLow = operand.FromLow
	NewMid = operand.FromMid
	NewTop = operand.FromTop
)

// Hook is the pluggable optimizer collaborator a host may install with
// SetHook. hook.Default and hook.Adaptive satisfy it out of the box.
type Hook = hook.Hook

// Event is a single observation record delivered to an EventCallback.
type Event = events.Event

// EventCallback receives Events synchronously from the dispatch loop.
type EventCallback = events.Callback

// EventCallbackFunc adapts a plain function to EventCallback.
type EventCallbackFunc = events.CallbackFunc

// Config holds the VM's build-time-tunable constants: stack capacity,
// tier-transition thresholds, and the recursion iterative-fallback
// cutoff.
type Config = vm.Config

// DefaultConfig returns the spec-mandated defaults.
func DefaultConfig() Config { return vm.DefaultConfig() }

// Tier is the VM's current operating tier (LOW, MID, or TOP).
type Tier = vm.Tier

const (
	TierLow = vm.TierLow
	TierMid = vm.TierMid
	TierTop = vm.TierTop
)
