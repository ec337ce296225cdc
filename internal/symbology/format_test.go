package symbology

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Format
		wantErr bool
	}{
		{name: "code128", input: "code128", want: Code128},
		{name: "qr", input: "qr", want: QR},
		{name: "uppercase is accepted", input: "EAN13", want: EAN13},
		{name: "surrounding whitespace", input: " itf ", want: ITF},
		{name: "unknown format", input: "invalid_format", wantErr: true},
		{name: "empty name", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				var unknownErr *UnknownFormatError
				require.ErrorAs(t, err, &unknownErr)
				assert.Equal(t, tt.input, unknownErr.Name)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, spec.Format)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		format     Format
		data       string
		wantErr    bool
		constraint string
	}{
		{name: "code128 alphanumeric", format: Code128, data: "HELLO123"},
		{name: "code128 empty", format: Code128, data: "", wantErr: true, constraint: "data cannot be empty"},
		{name: "code128 non-ascii", format: Code128, data: "héllo", wantErr: true},
		{name: "code39 valid", format: Code39, data: "ABC-123"},
		{name: "code39 lowercase rejected", format: Code39, data: "abc", wantErr: true},
		{name: "ean8 valid", format: EAN8, data: "1234567"},
		{name: "ean8 too long", format: EAN8, data: "12345678", wantErr: true},
		{name: "ean13 valid", format: EAN13, data: "123456789012"},
		{name: "ean13 too short", format: EAN13, data: "12345", wantErr: true},
		{name: "ean13 non-numeric", format: EAN13, data: "12345678901a", wantErr: true},
		{name: "ean14 valid", format: EAN14, data: "1234567890123"},
		{name: "jan valid", format: JAN, data: "491234567890"},
		{name: "jan bad prefix", format: JAN, data: "123456789012", wantErr: true},
		{name: "upc valid", format: UPC, data: "12345678901"},
		{name: "upc wrong length", format: UPC, data: "123456789012", wantErr: true},
		{name: "isbn10 valid", format: ISBN10, data: "123456789"},
		{name: "isbn13 valid", format: ISBN13, data: "978123456789"},
		{name: "isbn13 bad prefix", format: ISBN13, data: "123456789012", wantErr: true},
		{name: "issn valid", format: ISSN, data: "1234567"},
		{name: "itf valid", format: ITF, data: "12345"},
		{name: "itf non-numeric", format: ITF, data: "12a45", wantErr: true},
		{name: "pzn six digits", format: PZN, data: "123456"},
		{name: "pzn seven digits", format: PZN, data: "1234567"},
		{name: "pzn too long", format: PZN, data: "12345678", wantErr: true},
		{name: "pzn remainder 10 has no check digit", format: PZN, data: "500000", wantErr: true, constraint: "no valid check digit"},
		{name: "qr anything", format: QR, data: "https://example.com"},
		{name: "qr empty", format: QR, data: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, ok := Lookup(tt.format)
			require.True(t, ok)

			err := spec.Validate(tt.data)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var payloadErr *InvalidPayloadError
			require.ErrorAs(t, err, &payloadErr)
			assert.Equal(t, tt.format, payloadErr.Format)
			if tt.constraint != "" {
				assert.Contains(t, payloadErr.Error(), tt.constraint)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		data   string
		want   string
	}{
		{name: "code128 passthrough", format: Code128, data: "HELLO123", want: "HELLO123"},
		{name: "ean13 check digit", format: EAN13, data: "123456789012", want: "1234567890128"},
		{name: "ean8 check digit", format: EAN8, data: "1234567", want: "12345670"},
		{name: "upc leading zero", format: UPC, data: "12345678901", want: "0123456789012"},
		{name: "isbn10 conversion", format: ISBN10, data: "030640615", want: "9780306406157"},
		{name: "isbn13 check digit", format: ISBN13, data: "978030640615", want: "9780306406157"},
		{name: "issn ean13 carrier", format: ISSN, data: "0317847", want: "9770317847001"},
		{name: "itf odd length padded", format: ITF, data: "12345", want: "012345"},
		{name: "itf even length untouched", format: ITF, data: "123456", want: "123456"},
		{name: "pzn prefix and check", format: PZN, data: "123456", want: "PZN-1234562"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, ok := Lookup(tt.format)
			require.True(t, ok)
			assert.Equal(t, tt.want, spec.Normalize(tt.data))
		})
	}
}

func TestErrorTypesAreDistinct(t *testing.T) {
	_, err := Parse("nope")
	var unknownErr *UnknownFormatError
	var payloadErr *InvalidPayloadError
	require.ErrorAs(t, err, &unknownErr)
	assert.False(t, errors.As(err, &payloadErr))

	spec, ok := Lookup(EAN13)
	require.True(t, ok)
	err = spec.Validate("12345")
	require.ErrorAs(t, err, &payloadErr)
	assert.False(t, errors.As(err, &unknownErr))
}

func TestBarcodesExcludesQR(t *testing.T) {
	for _, spec := range Barcodes() {
		assert.NotEqual(t, QR, spec.Format)
	}
	assert.Len(t, Barcodes(), 12)
}
