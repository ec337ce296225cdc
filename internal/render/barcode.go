package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/code39"
	"github.com/boombuler/barcode/ean"
	"github.com/boombuler/barcode/twooffive"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/MeKo-Tech/barq/internal/symbology"
)

// Barcode renders a 1D barcode for the given format and raw payload. The
// payload is validated against the format rule, normalized (check digits,
// carrier conversion) and handed to exactly one encoder. The returned bytes
// are a complete PNG.
func Barcode(spec *symbology.Spec, data string, opts BarcodeOptions) ([]byte, error) {
	if spec.Carrier == symbology.CarrierQR {
		return nil, &RenderError{Format: string(spec.Format), Err: fmt.Errorf("not a 1D symbology")}
	}
	if err := spec.Validate(data); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	fg, err := parseColor("foreground", opts.Foreground)
	if err != nil {
		return nil, err
	}
	bg, err := parseColor("background", opts.Background)
	if err != nil {
		return nil, err
	}

	payload := spec.Normalize(data)

	bc, err := encode(spec.Carrier, payload)
	if err != nil {
		// The encoder may still reject payloads the rule table accepts
		// (symbology-specific charset and checksum edge cases).
		return nil, &RenderError{Format: string(spec.Format), Err: err}
	}

	scale := int(math.Round(opts.ModuleWidth))
	if scale < 1 {
		scale = 1
	}
	barW := bc.Bounds().Dx() * scale
	barH := int(math.Round(opts.Height * 10))
	if barH < 1 {
		barH = 1
	}

	scaled, err := barcode.Scale(bc, barW, barH)
	if err != nil {
		return nil, &RenderError{Format: string(spec.Format), Err: err}
	}

	img := compose(scaled, payload, opts, scale, fg, bg)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// encode invokes the boombuler encoder for the carrier symbology.
func encode(c symbology.Carrier, payload string) (barcode.Barcode, error) {
	switch c {
	case symbology.CarrierCode39:
		return code39.Encode(payload, false, false)
	case symbology.CarrierEAN8, symbology.CarrierEAN13:
		return ean.Encode(payload)
	case symbology.CarrierITF:
		return twooffive.Encode(payload, true)
	default:
		return code128.Encode(payload)
	}
}

// compose places the scaled bars on a background canvas with the quiet zone
// and, when enabled, the human-readable label underneath. The bar pixels are
// recolored from the encoder's black/white output to the requested colors.
func compose(bars barcode.Barcode, label string, opts BarcodeOptions, scale int, fg, bg color.RGBA) image.Image {
	quiet := int(math.Round(opts.QuietZone)) * scale
	if quiet < scale {
		quiet = scale
	}

	face := basicfont.Face7x13
	labelH := 0
	if opts.FontSize > 0 {
		labelH = int(math.Round(opts.TextDistance)) + face.Height
	}

	bw := bars.Bounds().Dx()
	bh := bars.Bounds().Dy()
	canvas := image.NewRGBA(image.Rect(0, 0, bw+2*quiet, bh+2*quiet+labelH))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	for y := 0; y < bh; y++ {
		for x := 0; x < bw; x++ {
			if isDark(bars.At(bars.Bounds().Min.X+x, bars.Bounds().Min.Y+y)) {
				canvas.SetRGBA(quiet+x, quiet+y, fg)
			}
		}
	}

	if labelH > 0 {
		d := font.Drawer{
			Dst:  canvas,
			Src:  image.NewUniform(fg),
			Face: face,
		}
		textW := d.MeasureString(label).Ceil()
		x := (canvas.Bounds().Dx() - textW) / 2
		if x < 0 {
			x = 0
		}
		y := quiet + bh + int(math.Round(opts.TextDistance)) + face.Ascent
		d.Dot = fixed.P(x, y)
		d.DrawString(label)
	}

	return canvas
}

func isDark(c color.Color) bool {
	return color.GrayModel.Convert(c).(color.Gray).Y < 0x80
}
