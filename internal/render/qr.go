package render

import (
	"bytes"
	"fmt"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/MeKo-Tech/barq/internal/symbology"
)

// QR renders a QR code PNG for the given payload. Border is applied as a
// quiet zone of Border*BoxSize pixels around the matrix so that custom border
// widths are honored exactly.
func QR(data string, opts QROptions) ([]byte, error) {
	if strings.TrimSpace(data) == "" {
		return nil, &symbology.InvalidPayloadError{Format: symbology.QR, Constraint: "data cannot be empty"}
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	level, err := recoveryLevel(opts.ErrorCorrection)
	if err != nil {
		return nil, err
	}

	fill, err := parseColor("fill_color", opts.FillColor)
	if err != nil {
		return nil, err
	}
	back, err := parseColor("back_color", opts.BackColor)
	if err != nil {
		return nil, err
	}

	q, err := qrcode.New(data, level)
	if err != nil {
		return nil, &RenderError{Format: "qr", Err: err}
	}
	q.ForegroundColor = fill
	q.BackgroundColor = back
	q.DisableBorder = true

	// Negative size renders at |size| pixels per module.
	matrix := q.Image(-opts.BoxSize)

	margin := opts.Border * opts.BoxSize
	canvas := imaging.New(
		matrix.Bounds().Dx()+2*margin,
		matrix.Bounds().Dy()+2*margin,
		back,
	)
	canvas = imaging.PasteCenter(canvas, matrix)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// recoveryLevel maps the L/M/Q/H wire names to skip2 recovery levels.
func recoveryLevel(name string) (qrcode.RecoveryLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "L":
		return qrcode.Low, nil
	case "M", "":
		return qrcode.Medium, nil
	case "Q":
		return qrcode.High, nil
	case "H":
		return qrcode.Highest, nil
	default:
		return 0, &StyleError{Field: "error_correction", Reason: fmt.Sprintf("unknown level %q (use L, M, Q or H)", name)}
	}
}
