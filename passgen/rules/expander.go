package rules

import (
	"strconv"
	"unicode/utf8"

	"github.com/arthur-debert/passgen/internal/validation"
)

// Expand returns the inclusive sequence of single characters from start to end.
//
// Digit ranges count as integers and letter ranges walk code points within one
// case. A range whose end precedes its start yields an empty slice, not an
// error; callers drop the resulting empty group.
func Expand(start, end string) ([]string, error) {
	if err := validation.ValidateRange(start, end); err != nil {
		return nil, err
	}

	s, _ := utf8.DecodeRuneInString(start)
	e, _ := utf8.DecodeRuneInString(end)
	if e < s {
		return []string{}, nil
	}

	out := make([]string, 0, e-s+1)
	if validation.IsDigit(s) {
		for i := int(s - '0'); i <= int(e-'0'); i++ {
			out = append(out, strconv.Itoa(i))
		}
		return out, nil
	}

	for r := s; r <= e; r++ {
		out = append(out, string(r))
	}
	return out, nil
}
