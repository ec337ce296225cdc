package scan

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/barq/internal/render"
	"github.com/MeKo-Tech/barq/internal/symbology"
)

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func TestDecode_EmptyImage(t *testing.T) {
	blank := image.NewRGBA(image.Rect(0, 0, 200, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			blank.Set(x, y, color.White)
		}
	}

	d := NewDecoder(DefaultOptions())
	results, err := d.Decode(context.Background(), blank)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestDecode_QRRoundTrip(t *testing.T) {
	payload := "https://example.com"
	pngData, err := render.QR(payload, render.DefaultQROptions())
	require.NoError(t, err)

	d := NewDecoder(DefaultOptions())
	results, err := d.Decode(context.Background(), decodePNG(t, pngData))
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Equal(t, "QRCODE", results[0].Type)
	assert.Equal(t, payload, results[0].Data)
	assert.Nil(t, results[0].Quality)
	assert.NotEmpty(t, results[0].Polygon)
}

func TestDecode_BarcodeRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		format   symbology.Format
		payload  string
		wantType string
		wantData string
	}{
		{
			name:     "code128",
			format:   symbology.Code128,
			payload:  "HELLO123",
			wantType: "CODE128",
			wantData: "HELLO123",
		},
		{
			name:     "ean13 gains check digit",
			format:   symbology.EAN13,
			payload:  "123456789012",
			wantType: "EAN13",
			wantData: "1234567890128",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, ok := symbology.Lookup(tt.format)
			require.True(t, ok)

			opts := render.DefaultBarcodeOptions()
			opts.FontSize = 0 // keep the label out of the scanner's way
			pngData, err := render.Barcode(spec, tt.payload, opts)
			require.NoError(t, err)

			d := NewDecoder(DefaultOptions())
			results, err := d.Decode(context.Background(), decodePNG(t, pngData))
			require.NoError(t, err)
			require.NotEmpty(t, results)

			assert.Equal(t, tt.wantType, results[0].Type)
			assert.Equal(t, tt.wantData, results[0].Data)
		})
	}
}

func TestDecode_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := NewDecoder(DefaultOptions())
	_, err := d.Decode(ctx, image.NewRGBA(image.Rect(0, 0, 50, 50)))
	require.ErrorIs(t, err, context.Canceled)
}

func TestDownscale(t *testing.T) {
	big := image.NewRGBA(image.Rect(0, 0, 4000, 2000))
	small, factor := downscale(big, 2000)
	assert.Equal(t, 2000, small.Bounds().Dx())
	assert.InDelta(t, 2.0, factor, 0.01)

	tiny := image.NewRGBA(image.Rect(0, 0, 100, 100))
	same, factor := downscale(tiny, 2000)
	assert.Equal(t, tiny, same)
	assert.Equal(t, 1.0, factor)

	disabled, factor := downscale(big, 0)
	assert.Equal(t, big, disabled)
	assert.Equal(t, 1.0, factor)
}
