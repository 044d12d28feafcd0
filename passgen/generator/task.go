package generator

import (
	"bufio"
	"context"
	"io"
	"iter"

	"github.com/arthur-debert/passgen/types"
)

// cancelCheckInterval is how many records a worker renders between context checks
const cancelCheckInterval = 4096

// Task is one worker's share of the combination space.
// It holds only its partition and a read-only reference to the rule set.
type Task struct {
	Partition types.Partition
	rules     *types.RuleSet
}

// Plan computes the worker tasks for rs. It fails with types.ErrSpaceTooLarge
// when the combination count does not fit in 64 bits.
func Plan(rs *types.RuleSet, requested int) ([]Task, error) {
	total, err := rs.TotalUint64()
	if err != nil {
		return nil, err
	}

	parts := Partitions(total, EffectiveWorkers(total, requested))
	if err := VerifyTiling(parts, total); err != nil {
		return nil, err
	}

	tasks := make([]Task, len(parts))
	for i, p := range parts {
		tasks[i] = Task{Partition: p, rules: rs}
	}
	return tasks, nil
}

// Records yields the task's combinations in ascending index order
func (t Task) Records() iter.Seq[string] {
	return func(yield func(string) bool) {
		if t.Partition.Len() == 0 {
			return
		}
		o := t.rules.OdometerAt(t.Partition.Lo)
		buf := make([]byte, 0, 64)
		for i := t.Partition.Lo; i < t.Partition.Hi; i++ {
			buf = t.rules.AppendCombination(buf[:0], o.Digits())
			if !yield(string(buf)) {
				return
			}
			o.Next()
		}
	}
}

// Generate renders every combination of the task to w, one per line, each
// followed by '\n'. It returns the number of records written.
func (t Task) Generate(ctx context.Context, w io.Writer) (int64, error) {
	if t.Partition.Len() == 0 {
		return 0, nil
	}

	bw := bufio.NewWriterSize(w, 64*1024)
	o := t.rules.OdometerAt(t.Partition.Lo)
	buf := make([]byte, 0, 64)

	var written int64
	for i := t.Partition.Lo; i < t.Partition.Hi; i++ {
		if written%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return written, err
			}
		}

		buf = t.rules.AppendCombination(buf[:0], o.Digits())
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return written, err
		}
		written++
		o.Next()
	}

	return written, bw.Flush()
}
