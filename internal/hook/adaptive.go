package hook

import "math"

const windowSize = 32

// Adaptive is a reference Hook implementation that derives its entropy
// signal from the Shannon entropy of opcode diversity over a sliding
// window of recently observed opcodes, normalized into [0, 1]. It
// requests a snapshot whenever a recursion or tensor opcode is
// observed while the caller-supplied depth exceeds depthThreshold.
//
// This is not part of the VM's required core (spec.md only specifies
// the Hook interface); it exists as a ready, non-default collaborator
// a host can install in place of Default.
type Adaptive struct {
	window      [windowSize]byte
	count       int
	cursor      int
	depth       func() int
	depthThresh int
	snapshotReq bool
	rollbackReq bool
}

// NewAdaptive builds an Adaptive hook. depth is a callback the hook
// uses to read the VM's current recursion depth when deciding whether
// to request a snapshot; it may be nil, in which case snapshot
// requests are never issued.
func NewAdaptive(depthThreshold int, depth func() int) *Adaptive {
	return &Adaptive{depthThresh: depthThreshold, depth: depth}
}

// recursionOrTensorOpcode mirrors the hex ranges of spec.md §4.4's
// recursion primitives and tensor opcodes.
func recursionOrTensorOpcode(op byte) bool {
	switch op {
	case 0xF1, 0xF2, 0xE1, 0xE2, 0x19, 0x1A:
		return true
	default:
		return false
	}
}

func (a *Adaptive) Observe(opcode byte) {
	a.window[a.cursor] = opcode
	a.cursor = (a.cursor + 1) % windowSize
	if a.count < windowSize {
		a.count++
	}

	a.snapshotReq = false
	if recursionOrTensorOpcode(opcode) && a.depth != nil && a.depth() > a.depthThresh {
		a.snapshotReq = true
	}
}

// ReadEntropy returns the Shannon entropy (base-2, normalized by
// log2(windowSize)) of the opcode frequency distribution currently
// held in the window.
func (a *Adaptive) ReadEntropy() float64 {
	if a.count == 0 {
		return 0
	}
	counts := make(map[byte]int, a.count)
	for i := 0; i < a.count; i++ {
		counts[a.window[i]]++
	}
	var h float64
	n := float64(a.count)
	for _, c := range counts {
		p := float64(c) / n
		h -= p * math.Log2(p)
	}
	maxH := math.Log2(float64(windowSize))
	if maxH == 0 {
		return 0
	}
	return clamp01(h / maxH)
}

func (a *Adaptive) RequestSnapshot() bool { return a.snapshotReq }

// RequestRollback never fires on its own; Adaptive only advises
// snapshots. A host wiring Adaptive into a policy that also rolls back
// can embed it and override this method.
func (a *Adaptive) RequestRollback() bool { return a.rollbackReq }

var _ Hook = (*Adaptive)(nil)
