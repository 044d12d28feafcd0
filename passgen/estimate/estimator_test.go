package estimate

import (
	"math/big"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/passgen/types"
)

func seeded() Option {
	return WithRand(rand.New(rand.NewPCG(42, 1024)))
}

func digitsOptions(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = string(rune('a' + i%26))
	}
	return out
}

func TestExactMatchesRenderedBytes(t *testing.T) {
	rs := types.MustRuleSet(
		[]string{"pass", "word", "x"},
		[]string{"", "!", "!!"},
		[]string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"},
	)

	var sb strings.Builder
	total, err := rs.TotalUint64()
	require.NoError(t, err)
	for i := uint64(0); i < total; i++ {
		sb.WriteString(rs.Render(i))
		sb.WriteByte('\n')
	}

	est := New(seeded()).Estimate(rs)

	require.True(t, est.Exact)
	assert.Equal(t, int64(90), est.Total.Int64())
	assert.Equal(t, int64(sb.Len()), est.Bytes.Int64())
	assert.InDelta(t, float64(sb.Len())/90, est.AverageLength, 1e-9)
	assert.Equal(t, 90, est.Samples)
}

func TestExactAtLimit(t *testing.T) {
	rs := types.MustRuleSet(digitsOptions(10), digitsOptions(10), digitsOptions(10))

	est := New(seeded()).Estimate(rs)

	require.True(t, est.Exact)
	assert.Equal(t, int64(1000), est.Total.Int64())
	assert.Equal(t, int64(4000), est.Bytes.Int64())
	assert.Equal(t, 4, est.RoundedAverage())
}

func TestSampledFixedLength(t *testing.T) {
	rs := types.MustRuleSet(digitsOptions(11), digitsOptions(11), digitsOptions(11))

	est := New(seeded()).Estimate(rs)

	require.False(t, est.Exact)
	assert.Equal(t, int64(1331), est.Total.Int64())
	assert.Equal(t, 36, est.Samples)
	assert.InDelta(t, 3.0, est.AverageLength, 1e-9)
	// 1331 * (3 + 1.1) = 5457.1, truncated
	assert.Equal(t, int64(5457), est.Bytes.Int64())
}

func TestSampleSizeCapped(t *testing.T) {
	positions := make([][]string, 7)
	for i := range positions {
		positions[i] = digitsOptions(10)
	}
	rs := types.MustRuleSet(positions...)

	est := New(seeded()).Estimate(rs)

	assert.Equal(t, MaxSamples, est.Samples)
	assert.Equal(t, int64(10_000_000), est.Total.Int64())
}

func TestSampledVariableLengthWithinBounds(t *testing.T) {
	rs := types.MustRuleSet(
		[]string{"a", "bbbbbbbbbb"},
		digitsOptions(40),
		digitsOptions(40),
	)

	est := New(seeded()).Estimate(rs)

	require.False(t, est.Exact)
	assert.GreaterOrEqual(t, est.AverageLength, 3.0)
	assert.LessOrEqual(t, est.AverageLength, 12.0)
}

func TestSampledIsDeterministicForSeed(t *testing.T) {
	rs := types.MustRuleSet([]string{"a", "bbbb", "cc"}, digitsOptions(30), digitsOptions(30))

	first := New(seeded()).Estimate(rs)
	second := New(seeded()).Estimate(rs)

	assert.Equal(t, first.AverageLength, second.AverageLength)
	assert.Equal(t, 0, first.Bytes.Cmp(second.Bytes))
}

func TestHugeSpace(t *testing.T) {
	positions := make([][]string, 25)
	for i := range positions {
		positions[i] = digitsOptions(10)
	}
	rs := types.MustRuleSet(positions...)

	est := New(seeded()).Estimate(rs)

	want := new(big.Int).Exp(big.NewInt(10), big.NewInt(25), nil)
	assert.Equal(t, 0, est.Total.Cmp(want))
	assert.Equal(t, MaxSamples, est.Samples)
	assert.True(t, est.Bytes.Cmp(want) > 0)
}
