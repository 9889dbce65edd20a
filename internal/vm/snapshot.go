package vm

import (
	"axion/internal/events"
	"axion/internal/operand"
)

// snapshotState holds the single rollback slot spec.md §4.6 describes:
// a deep copy of everything the hook's RequestRollback can unwind. A
// second RequestSnapshot overwrites the slot; there is no history.
type snapshotState struct {
	stack []operand.Operand
	tier  Tier
	depth int
	ip    int
}

// takeSnapshot captures the current execution state into the single
// snapshot slot, overwriting whatever was there, and emits
// SnapshotTaken.
func (v *VM) takeSnapshot() {
	v.snap = &snapshotState{
		stack: v.stack.Clone(),
		tier:  v.tier,
		depth: v.depth,
		ip:    v.ip,
	}
	v.emit(events.Event{
		Kind:      events.SnapshotTaken,
		IP:        v.ip,
		Depth:     v.depth,
		StackSize: v.stack.Len(),
	})
}

// rollback restores the most recent snapshot, or returns NoSnapshot if
// none was ever taken. A successful rollback emits RolledBack.
func (v *VM) rollback() *VMError {
	if v.snap == nil {
		return newErr(ErrNoSnapshot, "rollback requested with no prior snapshot")
	}
	v.stack.Restore(v.snap.stack)
	v.tier = v.snap.tier
	v.depth = v.snap.depth
	v.ip = v.snap.ip
	v.emit(events.Event{
		Kind:      events.RolledBack,
		IP:        v.ip,
		Depth:     v.depth,
		StackSize: v.stack.Len(),
	})
	return nil
}
