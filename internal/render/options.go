// Package render turns validated generation requests into PNG images by
// delegating to the boombuler/barcode encoders for 1D symbologies and to
// skip2/go-qrcode for QR codes. It performs no symbology math of its own.
package render

import "fmt"

// BarcodeOptions carries the styling knobs for 1D barcode rendering.
// Dimensions follow the conventions of the classic writer options:
// ModuleWidth is a horizontal pixel scale per module, Height the bar height
// in writer units (rendered at 10px per unit), QuietZone the blank margin in
// modules. FontSize <= 0 disables the human-readable label.
type BarcodeOptions struct {
	ModuleWidth  float64
	Height       float64
	QuietZone    float64
	FontSize     int
	TextDistance float64
	Background   string
	Foreground   string
}

// DefaultBarcodeOptions mirrors the writer defaults of the classic barcode
// libraries: 2px modules, 15-unit bars, 6.5-module quiet zone.
func DefaultBarcodeOptions() BarcodeOptions {
	return BarcodeOptions{
		ModuleWidth:  2.0,
		Height:       15.0,
		QuietZone:    6.5,
		FontSize:     10,
		TextDistance: 5.0,
		Background:   "white",
		Foreground:   "black",
	}
}

// Validate rejects non-positive dimensions and out-of-range font sizes.
func (o BarcodeOptions) Validate() error {
	if o.ModuleWidth <= 0 {
		return &StyleError{Field: "width", Reason: "must be positive"}
	}
	if o.Height <= 0 {
		return &StyleError{Field: "height", Reason: "must be positive"}
	}
	if o.QuietZone <= 0 {
		return &StyleError{Field: "quiet_zone", Reason: "must be positive"}
	}
	if o.TextDistance <= 0 {
		return &StyleError{Field: "text_distance", Reason: "must be positive"}
	}
	if o.FontSize > 100 {
		return &StyleError{Field: "font_size", Reason: "must be between 1 and 100"}
	}
	return nil
}

// QROptions carries the styling knobs for QR rendering. BoxSize is the pixel
// size of one module, Border the quiet zone width in modules.
type QROptions struct {
	ErrorCorrection string
	BoxSize         int
	Border          int
	FillColor       string
	BackColor       string
}

// DefaultQROptions mirrors the defaults of the classic qrcode library.
func DefaultQROptions() QROptions {
	return QROptions{
		ErrorCorrection: "M",
		BoxSize:         10,
		Border:          4,
		FillColor:       "black",
		BackColor:       "white",
	}
}

// Validate rejects non-positive dimensions and unknown correction levels.
func (o QROptions) Validate() error {
	if o.BoxSize <= 0 {
		return &StyleError{Field: "box_size", Reason: "must be positive"}
	}
	if o.Border < 0 {
		return &StyleError{Field: "border", Reason: "must not be negative"}
	}
	if _, err := recoveryLevel(o.ErrorCorrection); err != nil {
		return err
	}
	return nil
}

// StyleError reports a styling field that cannot be applied. It is a client
// error, distinct from renderer failures on otherwise valid input.
type StyleError struct {
	Field  string
	Reason string
}

func (e *StyleError) Error() string {
	return fmt.Sprintf("invalid value for %s: %s", e.Field, e.Reason)
}

// RenderError wraps a rejection from an underlying encoding library. The
// validator cannot anticipate every symbology-specific edge case, so these
// surface as request-level failures naming the format.
type RenderError struct {
	Format string
	Err    error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering %s failed: %v", e.Format, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
