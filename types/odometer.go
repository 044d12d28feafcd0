package types

// Odometer walks consecutive combination indices without re-decoding each one.
// It starts from a decoded index and increments the least significant digit
// (the last position), carrying towards position 0.
type Odometer struct {
	radices []int
	digits  []int
}

// OdometerAt returns an odometer positioned at index
func (rs *RuleSet) OdometerAt(index uint64) *Odometer {
	o := &Odometer{
		radices: rs.Cardinalities(),
		digits:  make([]int, len(rs.positions)),
	}
	rs.Decode(index, o.digits)
	return o
}

// Digits returns the current digits. The slice is reused by Next.
func (o *Odometer) Digits() []int {
	return o.digits
}

// Next advances to the following index. It reports false when it wraps past the last combination.
func (o *Odometer) Next() bool {
	for i := len(o.digits) - 1; i >= 0; i-- {
		o.digits[i]++
		if o.digits[i] < o.radices[i] {
			return true
		}
		o.digits[i] = 0
	}
	return false
}
