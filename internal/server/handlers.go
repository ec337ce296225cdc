package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/MeKo-Tech/barq/internal/symbology"
	"github.com/MeKo-Tech/barq/internal/version"
)

// indexHandler returns service metadata. As the ServeMux catch-all it also
// answers unknown paths with a JSON 404.
func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.writeErrorResponse(w, "Endpoint not found", "not_found", http.StatusNotFound)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := IndexResponse{
		Message:          "barq - barcode and QR code service",
		Version:          version.Version,
		SupportedFormats: formatNames(),
		Endpoints: map[string]string{
			"generate":       "/generate",
			"create_barcode": "/create-barcode",
			"create_qr_code": "/create-qr-code",
			"generate_image": "/generate/image",
			"quick_generate": "/generate/quick",
			"scan_image":     "/scan-image",
			"scan_socket":    "/ws/scan",
			"formats":        "/formats",
			"health":         "/health",
			"metrics":        "/metrics",
		},
	}

	writeJSON(w, http.StatusOK, response)
}

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:  "healthy",
		Service: "barq",
		Time:    time.Now().UTC().Format(time.RFC3339),
	}

	writeJSON(w, http.StatusOK, response)
}

// formatsHandler enumerates supported formats and QR capabilities.
func (s *Server) formatsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	details := make(map[string]string)
	for _, spec := range symbology.Barcodes() {
		details[string(spec.Format)] = spec.Description
	}
	if qr, ok := symbology.Lookup(symbology.QR); ok {
		details[string(qr.Format)] = qr.Description
	}

	response := FormatsResponse{
		SupportedFormats: formatNames(),
		FormatDetails:    details,
		QR: QRCapabilities{
			ErrorCorrectionLevels: []string{"L", "M", "Q", "H"},
			MaxBoxSize:            100,
		},
	}

	writeJSON(w, http.StatusOK, response)
}

// formatNames returns the 1D format names followed by "qr".
func formatNames() []string {
	barcodes := symbology.Barcodes()
	names := make([]string, 0, len(barcodes)+1)
	for _, spec := range barcodes {
		names = append(names, string(spec.Format))
	}
	return append(names, string(symbology.QR))
}

// writeJSON writes a JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding response: %v\n", err)
	}
}

// writeErrorResponse writes the shared JSON error envelope.
func (s *Server) writeErrorResponse(w http.ResponseWriter, message, kind string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{
		Success: false,
		Error:   message,
		Kind:    kind,
	})
}
