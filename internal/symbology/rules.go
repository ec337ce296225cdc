package symbology

import (
	"fmt"
	"strings"
)

// code39Charset is the native Code 39 alphabet.
const code39Charset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ-. $/+%"

// Rule is a declarative validation rule for one format. The zero value
// accepts any non-empty payload. Empty payloads are rejected for every
// format before the rule is consulted.
type Rule struct {
	// ExactDigits requires a numeric payload of exactly this many digits
	// (check digit excluded; the service appends it). Zero disables.
	ExactDigits int

	// MinDigits/MaxDigits bound a numeric payload length. Zero disables.
	MinDigits int
	MaxDigits int

	// NumericOnly requires digits without a fixed length.
	NumericOnly bool

	// Charset restricts payloads to the given alphabet.
	Charset string

	// ASCIIOnly restricts payloads to printable ASCII.
	ASCIIOnly bool

	// Prefixes requires the payload to start with one of the given digit
	// prefixes (JAN country codes, ISBN-13 prefixes).
	Prefixes []string
}

func (r Rule) validate(f Format, data string) error {
	if strings.TrimSpace(data) == "" {
		return &InvalidPayloadError{Format: f, Constraint: "data cannot be empty"}
	}

	if r.ExactDigits > 0 {
		if !isDigits(data) {
			return &InvalidPayloadError{Format: f, Constraint: "data must be numeric"}
		}
		if len(data) != r.ExactDigits {
			return &InvalidPayloadError{
				Format:     f,
				Constraint: fmt.Sprintf("expected exactly %d digits, got %d", r.ExactDigits, len(data)),
			}
		}
	}

	if r.NumericOnly && !isDigits(data) {
		return &InvalidPayloadError{Format: f, Constraint: "data must be numeric"}
	}

	if r.MinDigits > 0 && len(data) < r.MinDigits {
		return &InvalidPayloadError{
			Format:     f,
			Constraint: fmt.Sprintf("expected at least %d digits, got %d", r.MinDigits, len(data)),
		}
	}
	if r.MaxDigits > 0 && len(data) > r.MaxDigits {
		return &InvalidPayloadError{
			Format:     f,
			Constraint: fmt.Sprintf("expected at most %d digits, got %d", r.MaxDigits, len(data)),
		}
	}

	if r.Charset != "" {
		for _, c := range data {
			if !strings.ContainsRune(r.Charset, c) {
				return &InvalidPayloadError{
					Format:     f,
					Constraint: fmt.Sprintf("character %q is not allowed (alphabet %q)", c, r.Charset),
				}
			}
		}
	}

	if r.ASCIIOnly {
		for _, c := range data {
			if c < 0x20 || c > 0x7e {
				return &InvalidPayloadError{Format: f, Constraint: "data must be printable ASCII"}
			}
		}
	}

	if len(r.Prefixes) > 0 {
		ok := false
		for _, p := range r.Prefixes {
			if strings.HasPrefix(data, p) {
				ok = true
				break
			}
		}
		if !ok {
			return &InvalidPayloadError{
				Format:     f,
				Constraint: fmt.Sprintf("data must start with one of %v", r.Prefixes),
			}
		}
	}

	return nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}
