package formats

import (
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	kib = 1024
	mib = 1024 * kib
	gib = 1024 * mib
)

// LargeOutputThreshold is the estimated size above which the summary warns
const LargeOutputThreshold = gib

var printer = message.NewPrinter(language.English)

// FormatSize renders a byte count as bytes, KB, MB or GB with two decimals
func FormatSize(n int64) string {
	switch {
	case n < kib:
		return fmt.Sprintf("%d bytes", n)
	case n < mib:
		return fmt.Sprintf("%.2f KB", float64(n)/kib)
	case n < gib:
		return fmt.Sprintf("%.2f MB", float64(n)/mib)
	default:
		return fmt.Sprintf("%.2f GB", float64(n)/gib)
	}
}

// FormatBigSize is FormatSize for estimates that may exceed int64
func FormatBigSize(n *big.Int) string {
	if n.IsInt64() {
		return FormatSize(n.Int64())
	}
	gb := new(big.Float).Quo(new(big.Float).SetInt(n), big.NewFloat(gib))
	return gb.Text('f', 2) + " GB"
}

// FormatCount renders an integer with thousands separators
func FormatCount(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatBigCount is FormatCount for combination totals that may exceed int64
func FormatBigCount(n *big.Int) string {
	if n.IsInt64() {
		return FormatCount(n.Int64())
	}
	return groupDigits(n.String())
}

// groupDigits inserts commas into a plain decimal string
func groupDigits(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	var b strings.Builder
	b.WriteString(sign)
	head := len(s) % 3
	if head == 0 {
		head = 3
	}
	b.WriteString(s[:head])
	for i := head; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// exceedsThreshold reports whether an estimate is above LargeOutputThreshold
func exceedsThreshold(n *big.Int) bool {
	return n != nil && n.Cmp(big.NewInt(LargeOutputThreshold)) > 0
}
