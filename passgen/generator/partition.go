package generator

import (
	"fmt"

	"github.com/arthur-debert/passgen/types"
)

// MaxWorkers caps parallelism regardless of the requested worker count
const MaxWorkers = 64

// EffectiveWorkers returns min(requested, total, MaxWorkers), treating requests below 1 as 1
func EffectiveWorkers(total uint64, requested int) int {
	if requested < 1 {
		requested = 1
	}
	w := uint64(requested)
	if total < w {
		w = total
	}
	if w > MaxWorkers {
		w = MaxWorkers
	}
	return int(w)
}

// Partitions splits [0, total) into workers contiguous ranges.
// Every range has total/workers indices except the last, which absorbs the remainder.
func Partitions(total uint64, workers int) []types.Partition {
	if workers < 1 || total == 0 {
		return nil
	}

	chunk := total / uint64(workers)
	if chunk < 1 {
		chunk = 1
	}

	parts := make([]types.Partition, 0, workers)
	for k := 0; k < workers; k++ {
		lo := min(uint64(k)*chunk, total)
		hi := min(uint64(k+1)*chunk, total)
		if k == workers-1 {
			hi = total
		}
		parts = append(parts, types.Partition{Worker: k, Lo: lo, Hi: hi})
	}
	return parts
}

// VerifyTiling checks that parts cover [0, total) exactly once, in worker order
func VerifyTiling(parts []types.Partition, total uint64) error {
	var next uint64
	for i, p := range parts {
		if p.Worker != i {
			return fmt.Errorf("partition %d belongs to worker %d", i, p.Worker)
		}
		if p.Lo != next {
			return fmt.Errorf("partition %s starts at %d, expected %d", p, p.Lo, next)
		}
		if p.Hi < p.Lo {
			return fmt.Errorf("partition %s is inverted", p)
		}
		next = p.Hi
	}
	if next != total {
		return fmt.Errorf("partitions end at %d, expected %d", next, total)
	}
	return nil
}
