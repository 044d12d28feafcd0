package types

import (
	"math"
	"math/big"
	"time"
)

// Estimate is the advisory size prediction made before generation
type Estimate struct {
	// Total is the exact number of combinations
	Total *big.Int

	// Bytes is the predicted output size, separators included
	Bytes *big.Int

	// AverageLength is the mean bytes per record. Exact estimates divide the
	// total size (separators included) by the count; sampled estimates average
	// the rendered lengths only.
	AverageLength float64

	// Exact is true when every combination was enumerated
	Exact bool

	// Samples is the number of combinations measured
	Samples int
}

// RoundedAverage returns the average length rounded to the nearest integer for display
func (e Estimate) RoundedAverage() int {
	return int(math.Round(e.AverageLength))
}

// Plan is what the pipeline intends to do, shown before confirmation
type Plan struct {
	RuleSet    *RuleSet
	Estimate   Estimate
	Workers    int
	OutputPath string
}

// Report summarises a finished generation run
type Report struct {
	RunID       string
	Count       int64
	Workers     int
	Elapsed     time.Duration
	OutputPath  string
	OutputBytes int64
	Warnings    []string
}
