package types

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"
)

// ErrSpaceTooLarge is returned when a combination space cannot be indexed with 64 bits
var ErrSpaceTooLarge = errors.New("combination space too large")

// Position is one bracketed group of a rule: the ordered options for one slot of the output
type Position struct {
	// Options are the literal strings this slot may take, in source order
	Options []string

	// Source is the raw bracket content the position was parsed from
	Source string
}

// Cardinality returns the number of options in the position
func (p Position) Cardinality() int {
	return len(p.Options)
}

// String returns a compact representation used for verbose output
func (p Position) String() string {
	return "[" + strings.Join(p.Options, " ") + "]"
}

// RuleSet is the ordered sequence of positions parsed from a rule string.
// A RuleSet is immutable once built and is shared read-only by the estimator
// and every generator worker.
type RuleSet struct {
	positions []Position
}

// NewRuleSet builds a RuleSet, rejecting empty rule sets and empty positions
func NewRuleSet(positions ...Position) (*RuleSet, error) {
	if len(positions) == 0 {
		return nil, fmt.Errorf("rule set must have at least one position")
	}

	owned := make([]Position, len(positions))
	for i, p := range positions {
		if len(p.Options) == 0 {
			return nil, fmt.Errorf("position %d has no options", i+1)
		}
		options := make([]string, len(p.Options))
		copy(options, p.Options)
		owned[i] = Position{Options: options, Source: p.Source}
	}

	return &RuleSet{positions: owned}, nil
}

// MustRuleSet is NewRuleSet for literals in tests and examples; it panics on error
func MustRuleSet(options ...[]string) *RuleSet {
	positions := make([]Position, len(options))
	for i, o := range options {
		positions[i] = Position{Options: o}
	}
	rs, err := NewRuleSet(positions...)
	if err != nil {
		panic(err)
	}
	return rs
}

// Len returns the number of positions
func (rs *RuleSet) Len() int {
	return len(rs.positions)
}

// Position returns the i-th position (0-based)
func (rs *RuleSet) Position(i int) Position {
	return rs.positions[i]
}

// Positions returns a copy of the positions slice
func (rs *RuleSet) Positions() []Position {
	out := make([]Position, len(rs.positions))
	copy(out, rs.positions)
	return out
}

// Cardinalities returns the option count of every position, in order
func (rs *RuleSet) Cardinalities() []int {
	out := make([]int, len(rs.positions))
	for i, p := range rs.positions {
		out[i] = len(p.Options)
	}
	return out
}

// Total returns the exact number of combinations (product of cardinalities)
func (rs *RuleSet) Total() *big.Int {
	total := big.NewInt(1)
	for _, p := range rs.positions {
		total.Mul(total, big.NewInt(int64(len(p.Options))))
	}
	return total
}

// TotalUint64 returns the combination count when it fits the generator's index type
func (rs *RuleSet) TotalUint64() (uint64, error) {
	var total uint64 = 1
	for _, p := range rs.positions {
		c := uint64(len(p.Options))
		if total > math.MaxUint64/c {
			return 0, fmt.Errorf("%w: %s combinations", ErrSpaceTooLarge, rs.Total().String())
		}
		total *= c
	}
	return total, nil
}

// Decode writes the mixed-radix digits of index into digits.
// Position 0 is the most significant digit. digits must have Len() entries.
func (rs *RuleSet) Decode(index uint64, digits []int) {
	for i := len(rs.positions) - 1; i >= 0; i-- {
		radix := uint64(len(rs.positions[i].Options))
		digits[i] = int(index % radix)
		index /= radix
	}
}

// AppendCombination appends the rendering of the given digits to dst
func (rs *RuleSet) AppendCombination(dst []byte, digits []int) []byte {
	for i, d := range digits {
		dst = append(dst, rs.positions[i].Options[d]...)
	}
	return dst
}

// Render returns the combination at index as a string
func (rs *RuleSet) Render(index uint64) string {
	digits := make([]int, len(rs.positions))
	rs.Decode(index, digits)
	return string(rs.AppendCombination(nil, digits))
}
