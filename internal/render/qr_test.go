package render

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/barq/internal/symbology"
)

func TestQR_Render(t *testing.T) {
	data, err := QR("https://example.com", DefaultQROptions())
	require.NoError(t, err)
	require.NotEmpty(t, data)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Positive(t, img.Bounds().Dx())
}

func TestQR_ErrorCorrectionLevels(t *testing.T) {
	for _, level := range []string{"L", "M", "Q", "H", "l", "m"} {
		opts := DefaultQROptions()
		opts.ErrorCorrection = level
		data, err := QR("payload", opts)
		require.NoError(t, err, "level %s", level)
		assert.NotEmpty(t, data)
	}
}

func TestQR_EmptyData(t *testing.T) {
	_, err := QR("", DefaultQROptions())
	require.Error(t, err)
	var payloadErr *symbology.InvalidPayloadError
	require.ErrorAs(t, err, &payloadErr)
	assert.Equal(t, symbology.QR, payloadErr.Format)
}

func TestQR_InvalidInputs(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		mutate func(*QROptions)
		field  string
	}{
		{name: "bad level", data: "x", mutate: func(o *QROptions) { o.ErrorCorrection = "Z" }, field: "error_correction"},
		{name: "zero box size", data: "x", mutate: func(o *QROptions) { o.BoxSize = 0 }, field: "box_size"},
		{name: "negative border", data: "x", mutate: func(o *QROptions) { o.Border = -1 }, field: "border"},
		{name: "bad fill color", data: "x", mutate: func(o *QROptions) { o.FillColor = "sparkle" }, field: "fill_color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultQROptions()
			tt.mutate(&opts)
			_, err := QR(tt.data, opts)
			require.Error(t, err)
			var styleErr *StyleError
			require.ErrorAs(t, err, &styleErr)
			assert.Equal(t, tt.field, styleErr.Field)
		})
	}
}

func TestQR_BorderGrowsImage(t *testing.T) {
	narrow := DefaultQROptions()
	narrow.Border = 0
	wide := DefaultQROptions()
	wide.Border = 4

	a, err := QR("same payload", narrow)
	require.NoError(t, err)
	b, err := QR("same payload", wide)
	require.NoError(t, err)

	imgA, err := png.Decode(bytes.NewReader(a))
	require.NoError(t, err)
	imgB, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)

	assert.Equal(t, imgA.Bounds().Dx()+2*4*wide.BoxSize, imgB.Bounds().Dx())
}
