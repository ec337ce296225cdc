package scan

import (
	"context"
	"fmt"
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/aztec"
	"github.com/makiuchi-d/gozxing/datamatrix"
	"github.com/makiuchi-d/gozxing/multi"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// Decoder wraps the gozxing reader family. It is stateless and safe for
// concurrent use; readers are constructed per call because some keep
// internal decode state.
type Decoder struct {
	opts Options
}

// NewDecoder creates a decoder with the given options.
func NewDecoder(opts Options) *Decoder {
	return &Decoder{opts: opts}
}

// Decode scans the image and returns zero or more normalized detections.
// Finding no codes is not an error; the empty slice distinguishes it from a
// decode infrastructure failure.
func (d *Decoder) Decode(ctx context.Context, img image.Image) ([]Result, error) {
	img, rescale := downscale(img, d.opts.MaxDimension)

	source := gozxing.NewLuminanceSourceFromImage(img)
	bitmap, err := gozxing.NewBinaryBitmap(gozxing.NewHybridBinarizer(source))
	if err != nil {
		return nil, fmt.Errorf("preparing bitmap: %w", err)
	}

	hints := make(map[gozxing.DecodeHintType]interface{})
	if d.opts.TryHarder {
		hints[gozxing.DecodeHintType_TRY_HARDER] = true
	}

	results := make([]Result, 0, 4)
	seen := make(map[string]bool)

	for _, reader := range d.readers(hints) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for _, raw := range d.decodeWith(reader, bitmap, hints) {
			res := normalize(raw, rescale)
			key := res.Type + "\x00" + res.Data + polygonKey(res.Polygon)
			if seen[key] {
				continue
			}
			seen[key] = true
			results = append(results, res)
		}
	}

	return results, nil
}

// readers assembles one reader per symbology family. The 1D reader covers
// Code128/Code39/EAN/UPC/ITF/Codabar in a single pass.
func (d *Decoder) readers(hints map[gozxing.DecodeHintType]interface{}) []gozxing.Reader {
	return []gozxing.Reader{
		qrcode.NewQRCodeReader(),
		oned.NewMultiFormatOneDReader(hints),
		datamatrix.NewDataMatrixReader(),
		aztec.NewAztecReader(),
	}
}

// decodeWith runs one reader over the bitmap. Reader errors mean "this
// family found nothing here" and are deliberately swallowed; absence of
// codes is reported by the caller, not as a failure.
func (d *Decoder) decodeWith(
	reader gozxing.Reader,
	bitmap *gozxing.BinaryBitmap,
	hints map[gozxing.DecodeHintType]interface{},
) []*gozxing.Result {
	if d.opts.Multi {
		mr := multi.NewGenericMultipleBarcodeReader(reader)
		if found, err := mr.DecodeMultiple(bitmap, hints); err == nil {
			return found
		}
		return nil
	}

	if found, err := reader.Decode(bitmap, hints); err == nil && found != nil {
		return []*gozxing.Result{found}
	}
	return nil
}

// normalize maps a raw zxing result into the wire shape, rescaling polygon
// points back into source image coordinates when the image was downscaled.
func normalize(raw *gozxing.Result, rescale float64) Result {
	points := raw.GetResultPoints()
	polygon := make([]Point, 0, len(points))
	for _, p := range points {
		polygon = append(polygon, Point{
			X: int(p.GetX()*rescale + 0.5),
			Y: int(p.GetY()*rescale + 0.5),
		})
	}
	return Result{
		Type:    formatTag(raw.GetBarcodeFormat()),
		Data:    raw.GetText(),
		Polygon: polygon,
	}
}

func polygonKey(polygon []Point) string {
	if len(polygon) == 0 {
		return ""
	}
	return fmt.Sprintf("@%d,%d", polygon[0].X, polygon[0].Y)
}
