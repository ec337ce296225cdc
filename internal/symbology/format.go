// Package symbology defines the supported barcode formats, their validation
// rules and the payload normalization (check digits, carrier conversion)
// required before rendering.
package symbology

import (
	"sort"
	"strings"
)

// Format identifies a supported code format by its wire name.
type Format string

const (
	Code128 Format = "code128"
	Code39  Format = "code39"
	EAN8    Format = "ean8"
	EAN13   Format = "ean13"
	EAN14   Format = "ean14"
	JAN     Format = "jan"
	UPC     Format = "upc"
	ISBN10  Format = "isbn10"
	ISBN13  Format = "isbn13"
	ISSN    Format = "issn"
	ITF     Format = "itf"
	PZN     Format = "pzn"
	QR      Format = "qr"
)

// Carrier identifies the physical symbology a format is rendered with.
// Several formats (ISBN, ISSN, JAN, UPC) are number systems carried by EAN-13.
type Carrier int

const (
	CarrierCode128 Carrier = iota
	CarrierCode39
	CarrierEAN8
	CarrierEAN13
	CarrierITF
	CarrierQR
)

// Spec describes one registry entry: the human description shown by the
// formats endpoint, the validation rule applied to raw payloads, the carrier
// symbology and the normalization deriving the encode-ready payload.
type Spec struct {
	Format      Format
	Description string
	Rule        Rule
	Carrier     Carrier

	// normalize maps a validated raw payload to the string handed to the
	// renderer (check digits appended, prefixes added). Nil means identity.
	normalize func(data string) string

	// check runs format-specific constraints the declarative rule table
	// cannot express, after the rule has passed. Nil means none.
	check func(data string) error
}

// Normalize returns the encode-ready payload for a validated raw payload.
func (s *Spec) Normalize(data string) string {
	if s.normalize == nil {
		return data
	}
	return s.normalize(data)
}

// Validate checks the raw payload against the format's rule.
func (s *Spec) Validate(data string) error {
	if err := s.Rule.validate(s.Format, data); err != nil {
		return err
	}
	if s.check != nil {
		return s.check(data)
	}
	return nil
}

// registry is the static per-format table. Adding a format is a new entry
// here, not a new branch in control flow.
var registry = map[Format]*Spec{
	Code128: {
		Format:      Code128,
		Description: "Code 128 - Variable length, alphanumeric",
		Rule:        Rule{ASCIIOnly: true},
	},
	Code39: {
		Format:      Code39,
		Description: "Code 39 - Variable length, alphanumeric",
		Rule:        Rule{Charset: code39Charset},
		Carrier:     CarrierCode39,
	},
	EAN8: {
		Format:      EAN8,
		Description: "EAN-8 - 8 digits",
		Rule:        Rule{ExactDigits: 7},
		Carrier:     CarrierEAN8,
		normalize:   appendEANCheckDigit,
	},
	EAN13: {
		Format:      EAN13,
		Description: "EAN-13 - 13 digits",
		Rule:        Rule{ExactDigits: 12},
		Carrier:     CarrierEAN13,
		normalize:   appendEANCheckDigit,
	},
	EAN14: {
		Format:      EAN14,
		Description: "EAN-14 - 14 digits",
		Rule:        Rule{ExactDigits: 13},
		Carrier:     CarrierITF,
		normalize:   appendEANCheckDigit,
	},
	JAN: {
		Format:      JAN,
		Description: "JAN - Japanese Article Number",
		Rule:        Rule{ExactDigits: 12, Prefixes: []string{"45", "49"}},
		Carrier:     CarrierEAN13,
		normalize:   appendEANCheckDigit,
	},
	UPC: {
		Format:      UPC,
		Description: "UPC-A - 12 digits",
		Rule:        Rule{ExactDigits: 11},
		Carrier:     CarrierEAN13,
		normalize: func(data string) string {
			// UPC-A is EAN-13 with a leading zero number system.
			return appendEANCheckDigit("0" + data)
		},
	},
	ISBN10: {
		Format:      ISBN10,
		Description: "ISBN-10 - 10 digits",
		Rule:        Rule{ExactDigits: 9},
		Carrier:     CarrierEAN13,
		normalize: func(data string) string {
			return appendEANCheckDigit("978" + data)
		},
	},
	ISBN13: {
		Format:      ISBN13,
		Description: "ISBN-13 - 13 digits",
		Rule:        Rule{ExactDigits: 12, Prefixes: []string{"978", "979"}},
		Carrier:     CarrierEAN13,
		normalize:   appendEANCheckDigit,
	},
	ISSN: {
		Format:      ISSN,
		Description: "ISSN - International Standard Serial Number",
		Rule:        Rule{ExactDigits: 7},
		Carrier:     CarrierEAN13,
		normalize: func(data string) string {
			// ISSN is carried by EAN-13 under the 977 prefix with a "00"
			// price code variant.
			return appendEANCheckDigit("977" + data + "00")
		},
	},
	ITF: {
		Format:      ITF,
		Description: "ITF - Interleaved 2 of 5",
		Rule:        Rule{NumericOnly: true},
		Carrier:     CarrierITF,
		normalize: func(data string) string {
			// Interleaved 2 of 5 encodes digit pairs; odd lengths are
			// zero-padded on the left.
			if len(data)%2 != 0 {
				return "0" + data
			}
			return data
		},
	},
	PZN: {
		Format:      PZN,
		Description: "PZN - Pharmazentralnummer",
		Rule:        Rule{NumericOnly: true, MinDigits: 6, MaxDigits: 7},
		Carrier:     CarrierCode39,
		check: func(data string) error {
			// A mod-11 remainder of 10 has no check digit; such numbers
			// are not assignable PZNs.
			if pznRemainder(data) == 10 {
				return &InvalidPayloadError{Format: PZN, Constraint: "no valid check digit exists for this number"}
			}
			return nil
		},
		normalize: func(data string) string {
			return "PZN-" + data + pznCheckDigit(data)
		},
	},
	QR: {
		Format:      QR,
		Description: "QR Code - Variable length, any data",
		Rule:        Rule{},
		Carrier:     CarrierQR,
	},
}

// Parse resolves a wire-format name to a registry entry. Unknown names yield
// an UnknownFormatError.
func Parse(name string) (*Spec, error) {
	spec, ok := registry[Format(strings.ToLower(strings.TrimSpace(name)))]
	if !ok {
		return nil, &UnknownFormatError{Name: name}
	}
	return spec, nil
}

// Lookup returns the registry entry for a known format.
func Lookup(f Format) (*Spec, bool) {
	spec, ok := registry[f]
	return spec, ok
}

// Barcodes returns the 1D formats in stable order, excluding QR.
func Barcodes() []*Spec {
	specs := make([]*Spec, 0, len(registry)-1)
	for f, spec := range registry {
		if f != QR {
			specs = append(specs, spec)
		}
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Format < specs[j].Format })
	return specs
}

// SupportedNames returns the comma-separated format names for error messages.
func SupportedNames() string {
	names := make([]string, 0, len(registry))
	for f := range registry {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
