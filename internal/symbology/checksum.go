package symbology

import "strconv"

// appendEANCheckDigit appends the GS1 mod-10 check digit used by EAN-8,
// EAN-13, EAN-14 and UPC-A. The rightmost payload digit always carries
// weight 3, alternating 3,1 leftwards, regardless of payload length.
func appendEANCheckDigit(digits string) string {
	return digits + gs1CheckDigit(digits)
}

func gs1CheckDigit(digits string) string {
	// Weight the rightmost payload digit with 3 and alternate leftwards.
	sum := 0
	weight := 3
	for i := len(digits) - 1; i >= 0; i-- {
		sum += int(digits[i]-'0') * weight
		if weight == 3 {
			weight = 1
		} else {
			weight = 3
		}
	}
	return strconv.Itoa((10 - sum%10) % 10)
}

// pznCheckDigit computes the PZN mod-11 check digit. Six-digit numbers (PZN7)
// are weighted 2..7, seven-digit numbers (PZN8) 1..7. Validation rejects
// numbers whose remainder is 10 before this is called; they have no check
// digit and cannot be encoded.
func pznCheckDigit(digits string) string {
	return strconv.Itoa(pznRemainder(digits))
}

func pznRemainder(digits string) int {
	start := 2
	if len(digits) == 7 {
		start = 1
	}
	sum := 0
	for i, c := range digits {
		sum += (start + i) * int(c-'0')
	}
	return sum % 11
}
