package server

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"
	"time"

	_ "golang.org/x/image/bmp"

	"github.com/MeKo-Tech/barq/internal/scan"
)

// scanImageHandler decodes an uploaded image and reports every code found.
// Finding no codes is a success with codes_found=0; only malformed uploads
// and decode infrastructure failures are errors.
func (s *Server) scanImageHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	maxBytes := s.maxUploadMB * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "too large") {
			s.writeErrorResponse(w, "File too large", "invalid_request", http.StatusRequestEntityTooLarge)
		} else {
			s.writeErrorResponse(w, "Failed to parse form data", "invalid_request", http.StatusBadRequest)
		}
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		s.writeErrorResponse(w, "No image file provided", "invalid_request", http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > maxBytes {
		s.writeErrorResponse(w, "File too large", "invalid_request", http.StatusRequestEntityTooLarge)
		return
	}
	uploadSizeBytes.Observe(float64(header.Size))

	imageData, err := io.ReadAll(file)
	if err != nil {
		s.writeErrorResponse(w, "Failed to read image data", "internal", http.StatusInternalServerError)
		return
	}

	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		scanRequests.WithLabelValues("error").Inc()
		s.writeErrorResponse(w, "Invalid image format", "invalid_request", http.StatusBadRequest)
		return
	}

	start := time.Now()
	results, err := s.decoder.Decode(r.Context(), img)
	if err != nil {
		scanRequests.WithLabelValues("error").Inc()
		s.writeErrorResponse(w, fmt.Sprintf("Scanning failed: %v", err), "internal", http.StatusInternalServerError)
		return
	}
	scanRequests.WithLabelValues("ok").Inc()
	scanDuration.Observe(time.Since(start).Seconds())
	codesDetected.Observe(float64(len(results)))

	writeJSON(w, http.StatusOK, scanResponse(results))
}

// scanResponse builds the wire response for a set of detections.
func scanResponse(results []scan.Result) ScanResponse {
	message := fmt.Sprintf("Found %d code(s)", len(results))
	if len(results) == 0 {
		message = "No codes found"
	}
	return ScanResponse{
		Success:    true,
		CodesFound: len(results),
		Results:    results,
		Message:    message,
	}
}
