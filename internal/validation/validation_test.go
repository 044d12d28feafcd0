package validation

import (
	"errors"
	"testing"
)

func TestValidateRange(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		wantKind RangeErrorKind
	}{
		{name: "lowercase letters", start: "a", end: "z"},
		{name: "uppercase letters", start: "A", end: "F"},
		{name: "digits", start: "0", end: "9"},
		{name: "reversed is still valid", start: "c", end: "a"},
		{name: "case mismatch", start: "A", end: "z", wantKind: CaseMismatch},
		{name: "digit and letter", start: "1", end: "a", wantKind: MixedEndpointType},
		{name: "letter and digit", start: "b", end: "7", wantKind: MixedEndpointType},
		{name: "symbol", start: "!", end: "a", wantKind: NonAlnumEndpoint},
		{name: "multi-char endpoint", start: "ab", end: "c", wantKind: NonAlnumEndpoint},
		{name: "empty endpoint", start: "", end: "c", wantKind: NonAlnumEndpoint},
		{name: "non-ascii letter", start: "é", end: "z", wantKind: NonAlnumEndpoint},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRange(tt.start, tt.end)
			if tt.wantKind == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var rangeErr *RangeError
			if !errors.As(err, &rangeErr) {
				t.Fatalf("expected *RangeError, got %v", err)
			}
			if rangeErr.Kind != tt.wantKind {
				t.Errorf("kind: got %s, want %s", rangeErr.Kind, tt.wantKind)
			}
			if !errors.Is(err, &RangeError{Kind: tt.wantKind}) {
				t.Errorf("errors.Is did not match kind %s", tt.wantKind)
			}
		})
	}
}

func TestRangeErrorMessage(t *testing.T) {
	err := ValidateRange("A", "z")
	want := "invalid range A..z: start and end characters must be the same case (both uppercase or both lowercase)"
	if err == nil || err.Error() != want {
		t.Errorf("got %v, want %q", err, want)
	}
}
