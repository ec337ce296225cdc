// Package scan decodes barcodes and QR codes from raster images by
// delegating to the gozxing reader family and normalizing the heterogeneous
// detections into one result shape.
package scan

import "github.com/makiuchi-d/gozxing"

// Point is an integer point in source image coordinates.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Result is one normalized detection.
type Result struct {
	// Type is the uppercase symbology tag, e.g. "QRCODE", "CODE128", "EAN13".
	Type string `json:"type"`

	// Data is the decoded payload text.
	Data string `json:"data"`

	// Quality is a decoder confidence metric. The zxing readers do not supply
	// one, so it stays nil unless a future backend provides it.
	Quality *int `json:"quality"`

	// Polygon outlines the detected code in source image coordinates.
	Polygon []Point `json:"polygon"`
}

// Options controls decoding behavior.
type Options struct {
	// TryHarder trades speed for a more exhaustive search.
	TryHarder bool

	// Multi scans for multiple codes per image instead of stopping at the
	// first hit per symbology family.
	Multi bool

	// MaxDimension downscales larger uploads before decoding. Zero disables.
	MaxDimension int
}

// DefaultOptions are the server defaults: exhaustive multi-code scanning
// with oversized uploads capped at 2048px.
func DefaultOptions() Options {
	return Options{
		TryHarder:    true,
		Multi:        true,
		MaxDimension: 2048,
	}
}

// formatTag maps a zxing format to the uppercase wire tag.
func formatTag(f gozxing.BarcodeFormat) string {
	switch f {
	case gozxing.BarcodeFormat_QR_CODE:
		return "QRCODE"
	case gozxing.BarcodeFormat_CODE_128:
		return "CODE128"
	case gozxing.BarcodeFormat_CODE_39:
		return "CODE39"
	case gozxing.BarcodeFormat_CODE_93:
		return "CODE93"
	case gozxing.BarcodeFormat_EAN_13:
		return "EAN13"
	case gozxing.BarcodeFormat_EAN_8:
		return "EAN8"
	case gozxing.BarcodeFormat_UPC_A:
		return "UPCA"
	case gozxing.BarcodeFormat_UPC_E:
		return "UPCE"
	case gozxing.BarcodeFormat_ITF:
		return "ITF"
	case gozxing.BarcodeFormat_CODABAR:
		return "CODABAR"
	case gozxing.BarcodeFormat_DATA_MATRIX:
		return "DATAMATRIX"
	case gozxing.BarcodeFormat_AZTEC:
		return "AZTEC"
	case gozxing.BarcodeFormat_PDF_417:
		return "PDF417"
	default:
		return "UNKNOWN"
	}
}
