package gpu

import "fmt"

// Slot is a texture unit index.
type Slot uint8

// MaxSlots is the number of texture units every OpenGL 4.1 context exposes
// to the fragment stage.
const MaxSlots = 16

// SlotAllocator hands out texture slots once. Resources keep their slot for
// their whole lifetime; exhaustion is an error rather than a wrap-around.
type SlotAllocator struct {
	next  int
	limit int
}

// NewSlotAllocator returns an allocator for [0, limit). A non-positive limit
// selects MaxSlots.
func NewSlotAllocator(limit int) *SlotAllocator {
	if limit <= 0 || limit > 256 {
		limit = MaxSlots
	}
	return &SlotAllocator{limit: limit}
}

// Next reserves the next free slot.
func (a *SlotAllocator) Next() (Slot, error) {
	if a.next >= a.limit {
		return 0, fmt.Errorf("%w (limit %d)", ErrSlotsExhausted, a.limit)
	}
	s := Slot(a.next)
	a.next++
	return s, nil
}

// Remaining returns how many slots can still be handed out.
func (a *SlotAllocator) Remaining() int {
	return a.limit - a.next
}
