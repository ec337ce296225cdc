package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MeKo-Tech/barq/internal/render"
	"github.com/MeKo-Tech/barq/internal/symbology"
)

// createBarcodeHandler generates a barcode from a JSON request body. Requests
// naming the "qr" format are rendered through the QR path with equivalent
// styling so the endpoint covers the full registry.
func (s *Server) createBarcodeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req BarcodeRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorResponse(w, "Invalid JSON body: "+err.Error(), "invalid_request", http.StatusBadRequest)
		return
	}

	s.generate(w, req)
}

// createQRCodeHandler generates a QR code from a JSON request body.
func (s *Server) createQRCodeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req QRRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorResponse(w, "Invalid JSON body: "+err.Error(), "invalid_request", http.StatusBadRequest)
		return
	}

	req.Data = strings.TrimSpace(req.Data)

	start := time.Now()
	pngData, err := render.QR(req.Data, s.qrOptions(req))
	if err != nil {
		generateRequests.WithLabelValues("qr", "error").Inc()
		s.writeGenerateError(w, err)
		return
	}
	generateRequests.WithLabelValues("qr", "ok").Inc()
	generateDuration.WithLabelValues("qr").Observe(time.Since(start).Seconds())

	s.writeGenerateResult(w, string(symbology.QR), req.Data, pngData, req.ReturnFormat)
}

// generateImageHandler is the binary-only variant of generation: the
// rendered PNG is always returned directly, regardless of return_format.
func (s *Server) generateImageHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req BarcodeRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorResponse(w, "Invalid JSON body: "+err.Error(), "invalid_request", http.StatusBadRequest)
		return
	}

	req.ReturnFormat = returnFormatImage
	s.generate(w, req)
}

// quickGenerateHandler is the query-parameter variant of generation with
// default styling: GET /generate/quick?data=...&format=...&return_image=true.
func (s *Server) quickGenerateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = string(symbology.Code128)
	}

	req := BarcodeRequest{
		Data:   q.Get("data"),
		Format: format,
	}
	if isTruthy(q.Get("return_image")) {
		req.ReturnFormat = returnFormatImage
	}

	s.generate(w, req)
}

// generate runs the shared validate, render, frame sequence for barcode
// requests. Rendering happens exactly once; the output mode only changes
// the framing of the same bytes.
func (s *Server) generate(w http.ResponseWriter, req BarcodeRequest) {
	req.Data = strings.TrimSpace(req.Data)

	if req.ReturnFormat != "" && req.ReturnFormat != returnFormatBase64 && req.ReturnFormat != returnFormatImage {
		s.writeErrorResponse(w,
			fmt.Sprintf("unknown return_format %q (use %q or %q)", req.ReturnFormat, returnFormatBase64, returnFormatImage),
			"invalid_request", http.StatusBadRequest)
		return
	}

	spec, err := symbology.Parse(req.Format)
	if err != nil {
		generateRequests.WithLabelValues("unknown", "error").Inc()
		s.writeGenerateError(w, err)
		return
	}

	start := time.Now()
	var pngData []byte
	if spec.Carrier == symbology.CarrierQR {
		opts := s.qrDefaults
		if req.Foreground != "" {
			opts.FillColor = req.Foreground
		}
		if req.Background != "" {
			opts.BackColor = req.Background
		}
		pngData, err = render.QR(req.Data, opts)
	} else {
		pngData, err = render.Barcode(spec, req.Data, s.barcodeOptions(req))
	}
	if err != nil {
		generateRequests.WithLabelValues(string(spec.Format), "error").Inc()
		s.writeGenerateError(w, err)
		return
	}
	generateRequests.WithLabelValues(string(spec.Format), "ok").Inc()
	generateDuration.WithLabelValues(string(spec.Format)).Observe(time.Since(start).Seconds())

	s.writeGenerateResult(w, string(spec.Format), req.Data, pngData, req.ReturnFormat)
}

// writeGenerateResult frames rendered PNG bytes per the requested output
// mode. No pixel data is transformed here.
func (s *Server) writeGenerateResult(w http.ResponseWriter, format, data string, pngData []byte, returnFormat string) {
	if returnFormat == returnFormatImage {
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=barcode_%s_%s.png", format, sanitizeFilename(data)))
		if _, err := w.Write(pngData); err != nil {
			return
		}
		return
	}

	writeJSON(w, http.StatusOK, GenerateResponse{
		Success:     true,
		Format:      format,
		Data:        data,
		ImageBase64: base64.StdEncoding.EncodeToString(pngData),
		Message:     "Code generated successfully",
	})
}

// writeGenerateError maps the typed generation errors onto the HTTP error
// taxonomy. Anything unrecognized is an internal error without detail.
func (s *Server) writeGenerateError(w http.ResponseWriter, err error) {
	var unknownErr *symbology.UnknownFormatError
	var payloadErr *symbology.InvalidPayloadError
	var styleErr *render.StyleError
	var renderErr *render.RenderError

	switch {
	case errors.As(err, &unknownErr):
		s.writeErrorResponse(w, err.Error(), "unknown_format", http.StatusBadRequest)
	case errors.As(err, &payloadErr):
		s.writeErrorResponse(w, err.Error(), "invalid_data", http.StatusBadRequest)
	case errors.As(err, &styleErr):
		s.writeErrorResponse(w, err.Error(), "invalid_style", http.StatusBadRequest)
	case errors.As(err, &renderErr):
		s.writeErrorResponse(w, err.Error(), "render_failed", http.StatusBadRequest)
	default:
		s.writeErrorResponse(w, "Internal server error", "internal", http.StatusInternalServerError)
	}
}

// barcodeOptions merges the request's styling fields over the server
// defaults. Omitted fields keep their defaults.
func (s *Server) barcodeOptions(req BarcodeRequest) render.BarcodeOptions {
	opts := s.barcodeDefaults
	if req.Width != nil {
		opts.ModuleWidth = *req.Width
	}
	if req.Height != nil {
		opts.Height = *req.Height
	}
	if req.QuietZone != nil {
		opts.QuietZone = *req.QuietZone
	}
	if req.FontSize != nil {
		opts.FontSize = *req.FontSize
	}
	if req.TextDistance != nil {
		opts.TextDistance = *req.TextDistance
	}
	if req.Background != "" {
		opts.Background = req.Background
	}
	if req.Foreground != "" {
		opts.Foreground = req.Foreground
	}
	return opts
}

// qrOptions merges the request's styling fields over the server defaults.
func (s *Server) qrOptions(req QRRequest) render.QROptions {
	opts := s.qrDefaults
	if req.ErrorCorrection != "" {
		opts.ErrorCorrection = req.ErrorCorrection
	}
	if req.BoxSize != nil {
		opts.BoxSize = *req.BoxSize
	}
	if req.Border != nil {
		opts.Border = *req.Border
	}
	if req.FillColor != "" {
		opts.FillColor = req.FillColor
	}
	if req.BackColor != "" {
		opts.BackColor = req.BackColor
	}
	return opts
}

func sanitizeFilename(s string) string {
	var b strings.Builder
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '.':
			b.WriteRune(c)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

func isTruthy(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
