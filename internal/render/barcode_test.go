package render

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/barq/internal/symbology"
)

func mustSpec(t *testing.T, f symbology.Format) *symbology.Spec {
	t.Helper()
	spec, ok := symbology.Lookup(f)
	require.True(t, ok)
	return spec
}

func TestBarcode_AllFormats(t *testing.T) {
	tests := []struct {
		format symbology.Format
		data   string
	}{
		{symbology.Code128, "HELLO123"},
		{symbology.Code39, "ABC-123"},
		{symbology.EAN8, "1234567"},
		{symbology.EAN13, "123456789012"},
		{symbology.EAN14, "1234567890123"},
		{symbology.JAN, "491234567890"},
		{symbology.UPC, "12345678901"},
		{symbology.ISBN10, "030640615"},
		{symbology.ISBN13, "978030640615"},
		{symbology.ISSN, "0317847"},
		{symbology.ITF, "1234567890"},
		{symbology.PZN, "123456"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			data, err := Barcode(mustSpec(t, tt.format), tt.data, DefaultBarcodeOptions())
			require.NoError(t, err)
			require.NotEmpty(t, data)

			img, err := png.Decode(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Positive(t, img.Bounds().Dx())
			assert.Positive(t, img.Bounds().Dy())
		})
	}
}

func TestBarcode_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		format symbology.Format
		data   string
	}{
		{name: "empty payload", format: symbology.Code128, data: ""},
		{name: "ean13 wrong length", format: symbology.EAN13, data: "12345"},
		{name: "ean13 non numeric", format: symbology.EAN13, data: "abcdefghijkl"},
		{name: "code39 bad charset", format: symbology.Code39, data: "lower"},
		{name: "pzn without valid check digit", format: symbology.PZN, data: "500000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Barcode(mustSpec(t, tt.format), tt.data, DefaultBarcodeOptions())
			require.Error(t, err)
			var payloadErr *symbology.InvalidPayloadError
			require.ErrorAs(t, err, &payloadErr)
			assert.Equal(t, tt.format, payloadErr.Format)
		})
	}
}

func TestBarcode_StyleErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BarcodeOptions)
		field  string
	}{
		{name: "zero width", mutate: func(o *BarcodeOptions) { o.ModuleWidth = 0 }, field: "width"},
		{name: "negative height", mutate: func(o *BarcodeOptions) { o.Height = -1 }, field: "height"},
		{name: "zero quiet zone", mutate: func(o *BarcodeOptions) { o.QuietZone = 0 }, field: "quiet_zone"},
		{name: "oversized font", mutate: func(o *BarcodeOptions) { o.FontSize = 500 }, field: "font_size"},
		{name: "unknown foreground", mutate: func(o *BarcodeOptions) { o.Foreground = "mauve-ish" }, field: "foreground"},
		{name: "unknown background", mutate: func(o *BarcodeOptions) { o.Background = "nope" }, field: "background"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultBarcodeOptions()
			tt.mutate(&opts)
			_, err := Barcode(mustSpec(t, symbology.Code128), "HELLO", opts)
			require.Error(t, err)
			var styleErr *StyleError
			require.ErrorAs(t, err, &styleErr)
			assert.Equal(t, tt.field, styleErr.Field)
		})
	}
}

func TestBarcode_LabelChangesHeight(t *testing.T) {
	withLabel := DefaultBarcodeOptions()
	noLabel := DefaultBarcodeOptions()
	noLabel.FontSize = 0

	a, err := Barcode(mustSpec(t, symbology.Code128), "LABELED", withLabel)
	require.NoError(t, err)
	b, err := Barcode(mustSpec(t, symbology.Code128), "LABELED", noLabel)
	require.NoError(t, err)

	imgA, err := png.Decode(bytes.NewReader(a))
	require.NoError(t, err)
	imgB, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)

	assert.Greater(t, imgA.Bounds().Dy(), imgB.Bounds().Dy())
	assert.Equal(t, imgA.Bounds().Dx(), imgB.Bounds().Dx())
}

func TestBarcode_Deterministic(t *testing.T) {
	opts := DefaultBarcodeOptions()
	a, err := Barcode(mustSpec(t, symbology.Code128), "SAME", opts)
	require.NoError(t, err)
	b, err := Barcode(mustSpec(t, symbology.Code128), "SAME", opts)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestBarcode_QRRejected(t *testing.T) {
	_, err := Barcode(mustSpec(t, symbology.QR), "data", DefaultBarcodeOptions())
	require.Error(t, err)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
}

func TestParseColor(t *testing.T) {
	c, err := parseColor("foreground", "White")
	require.NoError(t, err)
	assert.Equal(t, uint8(255), c.R)

	c, err = parseColor("foreground", "#FF8000")
	require.NoError(t, err)
	assert.Equal(t, uint8(255), c.R)
	assert.Equal(t, uint8(0x80), c.G)
	assert.Equal(t, uint8(0), c.B)

	_, err = parseColor("foreground", "not-a-color")
	require.Error(t, err)
}
