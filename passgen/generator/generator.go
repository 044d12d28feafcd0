// Package generator enumerates the Cartesian product of a types.RuleSet in parallel.
//
// The index space [0, total) is cut into contiguous partitions, one per worker.
// Each worker decodes its own starting index, walks its range in ascending
// order and writes to a private Sink. Workers share nothing but the read-only
// RuleSet, so no locking is needed and the concatenation of sinks in worker
// order is the full space in ascending index order.
package generator

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/arthur-debert/passgen/types"
)

// Generator runs tasks against sinks
type Generator struct {
	sinks  SinkFactory
	logger *slog.Logger
}

// Option configures a Generator
type Option func(*Generator)

// WithSinkFactory sets where worker output goes
func WithSinkFactory(f SinkFactory) Option {
	return func(g *Generator) {
		g.sinks = f
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// New creates a Generator using in-memory sinks unless configured otherwise
func New(opts ...Option) *Generator {
	g := &Generator{
		sinks:  MemorySinkFactory{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Output is the result of a generation run: sinks in worker order
type Output struct {
	Partitions []types.Partition
	Sinks      []Sink
	Records    []int64
}

// Workers returns the effective worker count
func (o *Output) Workers() int {
	return len(o.Sinks)
}

// Total returns the number of records written across workers
func (o *Output) Total() int64 {
	var n int64
	for _, r := range o.Records {
		n += r
	}
	return n
}

// Remove deletes every sink, returning the first error
func (o *Output) Remove() error {
	var first error
	for _, s := range o.Sinks {
		if err := s.Remove(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Run generates every combination of rs using up to requested workers and
// waits for all of them. On failure or cancellation every sink is removed and
// no Output is returned.
func (g *Generator) Run(ctx context.Context, rs *types.RuleSet, requested int) (*Output, error) {
	tasks, err := Plan(rs, requested)
	if err != nil {
		return nil, err
	}

	out := &Output{
		Partitions: make([]types.Partition, len(tasks)),
		Sinks:      make([]Sink, 0, len(tasks)),
		Records:    make([]int64, len(tasks)),
	}
	for i, task := range tasks {
		out.Partitions[i] = task.Partition
		sink, err := g.sinks.NewSink(i)
		if err != nil {
			_ = out.Remove()
			return nil, err
		}
		out.Sinks = append(out.Sinks, sink)
	}

	eg, egCtx := errgroup.WithContext(ctx)
	for i, task := range tasks {
		sink := out.Sinks[i]
		eg.Go(func() error {
			g.logger.Debug("worker started", "worker", i, "lo", task.Partition.Lo, "hi", task.Partition.Hi, "sink", sink.Name())

			n, err := task.Generate(egCtx, sink)
			if cerr := sink.Close(); err == nil && cerr != nil {
				err = cerr
			}
			out.Records[i] = n
			if err != nil {
				return fmt.Errorf("worker %d: %w", i, err)
			}

			g.logger.Debug("worker finished", "worker", i, "records", n)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		_ = out.Remove()
		return nil, err
	}

	return out, nil
}
