package types

import "fmt"

// Partition is the half-open range [Lo, Hi) of combination indices owned by one worker
type Partition struct {
	Worker int
	Lo     uint64
	Hi     uint64
}

// Len returns the number of indices in the partition
func (p Partition) Len() uint64 {
	if p.Hi < p.Lo {
		return 0
	}
	return p.Hi - p.Lo
}

// Contains reports whether index falls inside the partition
func (p Partition) Contains(index uint64) bool {
	return index >= p.Lo && index < p.Hi
}

// String returns the partition as "worker:[lo,hi)"
func (p Partition) String() string {
	return fmt.Sprintf("%d:[%d,%d)", p.Worker, p.Lo, p.Hi)
}
