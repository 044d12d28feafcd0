// Package estimate predicts the size of a generation run before it starts.
//
// Small spaces (at most ExactLimit combinations) are enumerated exactly. Larger
// spaces are sampled: each position's digit is drawn independently and
// uniformly, which is a uniform draw over the whole product space. Estimates
// are advisory and never influence generation.
package estimate

import (
	"log/slog"
	"math/big"
	"math/rand/v2"
	"time"

	"github.com/arthur-debert/passgen/types"
)

const (
	// ExactLimit is the largest combination count that is enumerated exactly
	ExactLimit = 1000

	// MaxSamples caps the number of sampled combinations
	MaxSamples = 1000

	// SeparatorOverhead approximates the per-record separator bytes in sampled estimates
	SeparatorOverhead = 1.1
)

// Estimator computes types.Estimate values for rule sets
type Estimator struct {
	rand   *rand.Rand
	logger *slog.Logger
}

// Option configures an Estimator
type Option func(*Estimator)

// WithRand sets the random source used for sampling
func WithRand(r *rand.Rand) Option {
	return func(e *Estimator) {
		e.rand = r
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(e *Estimator) {
		e.logger = logger
	}
}

// New creates an Estimator seeded from the clock unless WithRand is given
func New(opts ...Option) *Estimator {
	now := time.Now()
	e := &Estimator{
		rand:   rand.New(rand.NewPCG(uint64(now.UnixNano()), uint64(now.Nanosecond()))),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Estimate returns the combination count, predicted byte size, and average record length of rs
func (e *Estimator) Estimate(rs *types.RuleSet) types.Estimate {
	total := rs.Total()

	var est types.Estimate
	if total.Cmp(big.NewInt(ExactLimit)) <= 0 {
		est = exact(rs, total)
	} else {
		est = e.sampled(rs, total)
	}

	e.logger.Debug("estimated output",
		"total", est.Total.String(),
		"bytes", est.Bytes.String(),
		"average_length", est.AverageLength,
		"exact", est.Exact,
		"samples", est.Samples)

	return est
}

// exact enumerates every combination; each record counts one separator byte,
// so Bytes equals the size of the generated output.
func exact(rs *types.RuleSet, total *big.Int) types.Estimate {
	n := total.Uint64()

	var size uint64
	buf := make([]byte, 0, 64)
	o := rs.OdometerAt(0)
	for i := uint64(0); i < n; i++ {
		buf = rs.AppendCombination(buf[:0], o.Digits())
		size += uint64(len(buf)) + 1
		o.Next()
	}

	return types.Estimate{
		Total:         new(big.Int).Set(total),
		Bytes:         new(big.Int).SetUint64(size),
		AverageLength: float64(size) / float64(n),
		Exact:         true,
		Samples:       int(n),
	}
}

func (e *Estimator) sampled(rs *types.RuleSet, total *big.Int) types.Estimate {
	samples := MaxSamples
	if root := new(big.Int).Sqrt(total); root.IsInt64() && root.Int64() < MaxSamples {
		samples = int(root.Int64())
	}

	cards := rs.Cardinalities()
	digits := make([]int, len(cards))
	buf := make([]byte, 0, 64)

	var sum int
	for range samples {
		for i, c := range cards {
			digits[i] = e.rand.IntN(c)
		}
		buf = rs.AppendCombination(buf[:0], digits)
		sum += len(buf)
	}
	avg := float64(sum) / float64(samples)

	perRecord := new(big.Float).SetFloat64(avg + SeparatorOverhead)
	size, _ := new(big.Float).Mul(new(big.Float).SetInt(total), perRecord).Int(nil)

	return types.Estimate{
		Total:         new(big.Int).Set(total),
		Bytes:         size,
		AverageLength: avg,
		Exact:         false,
		Samples:       samples,
	}
}
