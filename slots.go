package motionlink

// SlotVariants is the number of motion variants a job rotates through.
const SlotVariants = 3

// SlotCounter rotates a per-job-index slot so repeated dispatches of the
// same job cycle through its variants: 0, 1, 2, 0, 1, 2, ...
//
// It is owned by the dispatcher's single control goroutine and is not safe
// for concurrent use.
type SlotCounter struct {
	next map[int]int
}

func NewSlotCounter() *SlotCounter {
	return &SlotCounter{next: make(map[int]int)}
}

// Advance returns the current slot for index and moves the counter to the
// next one, wrapping at SlotVariants. An unseen index starts at slot 0.
// Counters for different indices are independent.
func (c *SlotCounter) Advance(index int) int {
	slot := c.next[index]
	n := slot + 1
	if n == SlotVariants {
		n = 0
	}
	c.next[index] = n
	return slot
}
