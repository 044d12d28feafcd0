package validation

import (
	"fmt"
	"unicode/utf8"
)

// RangeErrorKind classifies why a range endpoint pair was rejected
type RangeErrorKind int

const (
	// NonAlnumEndpoint means an endpoint is not a single ASCII letter or digit
	NonAlnumEndpoint RangeErrorKind = iota + 1
	// MixedEndpointType means one endpoint is a digit and the other a letter
	MixedEndpointType
	// CaseMismatch means both endpoints are letters of different case
	CaseMismatch
)

func (k RangeErrorKind) String() string {
	switch k {
	case NonAlnumEndpoint:
		return "NonAlnumEndpoint"
	case MixedEndpointType:
		return "MixedEndpointType"
	case CaseMismatch:
		return "CaseMismatch"
	default:
		return fmt.Sprintf("RangeErrorKind(%d)", int(k))
	}
}

// RangeError reports an invalid start..end range token
type RangeError struct {
	Start string
	End   string
	Kind  RangeErrorKind
}

func (e *RangeError) Error() string {
	var reason string
	switch e.Kind {
	case NonAlnumEndpoint:
		reason = "range notation only supports alphanumeric characters (a-z, A-Z, 0-9)"
	case MixedEndpointType:
		reason = "start and end must be same type (both digits or both letters)"
	case CaseMismatch:
		reason = "start and end characters must be the same case (both uppercase or both lowercase)"
	default:
		reason = e.Kind.String()
	}
	return fmt.Sprintf("invalid range %s..%s: %s", e.Start, e.End, reason)
}

// Is matches another *RangeError with the same Kind, so callers can test
// errors.Is(err, &RangeError{Kind: CaseMismatch})
func (e *RangeError) Is(target error) bool {
	t, ok := target.(*RangeError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Start == "" || t.Start == e.Start) && (t.End == "" || t.End == e.End)
}

// ValidateRange checks that start and end form a legal range: both single
// ASCII alphanumerics, both digits or both letters, and letters of the same case.
func ValidateRange(start, end string) error {
	s, okStart := singleRune(start)
	e, okEnd := singleRune(end)
	if !okStart || !okEnd || !IsAlnum(s) || !IsAlnum(e) {
		return &RangeError{Start: start, End: end, Kind: NonAlnumEndpoint}
	}

	switch {
	case IsDigit(s) && IsDigit(e):
		return nil
	case IsLetter(s) && IsLetter(e):
		if IsLower(s) != IsLower(e) {
			return &RangeError{Start: start, End: end, Kind: CaseMismatch}
		}
		return nil
	default:
		return &RangeError{Start: start, End: end, Kind: MixedEndpointType}
	}
}

// IsDigit reports whether r is an ASCII digit
func IsDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// IsLetter reports whether r is an ASCII letter
func IsLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// IsLower reports whether r is a lowercase ASCII letter
func IsLower(r rune) bool {
	return r >= 'a' && r <= 'z'
}

// IsAlnum reports whether r is an ASCII letter or digit
func IsAlnum(r rune) bool {
	return IsDigit(r) || IsLetter(r)
}

func singleRune(s string) (rune, bool) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, true
}
