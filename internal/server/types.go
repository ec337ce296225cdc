package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MeKo-Tech/barq/internal/render"
	"github.com/MeKo-Tech/barq/internal/scan"
)

const (
	returnFormatBase64 = "base64"
	returnFormatImage  = "image"
)

// Server holds the HTTP server state and dependencies. Requests are
// stateless; the only shared mutable state is the optional rate limiter.
type Server struct {
	corsOrigin  string
	maxUploadMB int64
	timeoutSec  int

	barcodeDefaults render.BarcodeOptions
	qrDefaults      render.QROptions

	decoder     *scan.Decoder
	rateLimiter *RateLimiter
}

// Config holds server configuration, assembled once at startup.
type Config struct {
	Host        string
	Port        int
	CORSOrigin  string
	MaxUploadMB int64
	TimeoutSec  int

	BarcodeDefaults render.BarcodeOptions
	QRDefaults      render.QROptions
	Scan            scan.Options

	RateLimit RateLimitConfig
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
	RequestsPerHour   int
	MaxRequestsPerDay int
	MaxDataPerDay     int64
}

// BarcodeRequest is the generation request body for 1D formats. Styling
// fields are pointers so that omitted fields fall back to the server
// defaults rather than to zero.
type BarcodeRequest struct {
	Data         string   `json:"data"`
	Format       string   `json:"format"`
	Width        *float64 `json:"width,omitempty"`
	Height       *float64 `json:"height,omitempty"`
	QuietZone    *float64 `json:"quiet_zone,omitempty"`
	FontSize     *int     `json:"font_size,omitempty"`
	TextDistance *float64 `json:"text_distance,omitempty"`
	Background   string   `json:"background,omitempty"`
	Foreground   string   `json:"foreground,omitempty"`
	ReturnFormat string   `json:"return_format,omitempty"`
}

// QRRequest is the generation request body for QR codes.
type QRRequest struct {
	Data            string `json:"data"`
	ErrorCorrection string `json:"error_correction,omitempty"`
	BoxSize         *int   `json:"box_size,omitempty"`
	Border          *int   `json:"border,omitempty"`
	FillColor       string `json:"fill_color,omitempty"`
	BackColor       string `json:"back_color,omitempty"`
	ReturnFormat    string `json:"return_format,omitempty"`
}

// GenerateResponse is the JSON framing for base64 generation results.
type GenerateResponse struct {
	Success     bool   `json:"success"`
	Format      string `json:"format"`
	Data        string `json:"data"`
	ImageBase64 string `json:"image_base64,omitempty"`
	Message     string `json:"message,omitempty"`
}

// ScanResponse reports the detections of one uploaded image. Zero codes is
// a success with CodesFound == 0, not an error.
type ScanResponse struct {
	Success    bool          `json:"success"`
	CodesFound int           `json:"codes_found"`
	Results    []scan.Result `json:"results"`
	Message    string        `json:"message,omitempty"`
}

// ErrorResponse is the shared JSON error envelope. Kind distinguishes the
// error classes: "unknown_format", "invalid_data", "invalid_style",
// "render_failed" and "internal".
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
}

// HealthResponse is the liveness probe body.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Time    string `json:"time"`
}

// IndexResponse is the service metadata returned at the root.
type IndexResponse struct {
	Message          string            `json:"message"`
	Version          string            `json:"version"`
	SupportedFormats []string          `json:"supported_formats"`
	Endpoints        map[string]string `json:"endpoints"`
}

// FormatsResponse enumerates the supported formats and QR capabilities.
type FormatsResponse struct {
	SupportedFormats []string          `json:"supported_formats"`
	FormatDetails    map[string]string `json:"format_details"`
	QR               QRCapabilities    `json:"qr"`
}

// QRCapabilities describes the QR feature surface.
type QRCapabilities struct {
	ErrorCorrectionLevels []string `json:"error_correction_levels"`
	MaxBoxSize            int      `json:"max_box_size"`
}

// NewServer creates a new server instance from an immutable config.
func NewServer(cfg Config) (*Server, error) {
	s := &Server{
		corsOrigin:      cfg.CORSOrigin,
		maxUploadMB:     cfg.MaxUploadMB,
		timeoutSec:      cfg.TimeoutSec,
		barcodeDefaults: cfg.BarcodeDefaults,
		qrDefaults:      cfg.QRDefaults,
		decoder:         scan.NewDecoder(cfg.Scan),
	}

	if s.maxUploadMB <= 0 {
		s.maxUploadMB = 10
	}

	if cfg.RateLimit.Enabled {
		s.rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMinute,
			cfg.RateLimit.RequestsPerHour,
			cfg.RateLimit.MaxRequestsPerDay,
			cfg.RateLimit.MaxDataPerDay,
		)
	}

	return s, nil
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", s.corsMiddleware(s.indexHandler))
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/formats", s.corsMiddleware(s.formatsHandler))
	mux.HandleFunc("/supported-formats", s.corsMiddleware(s.formatsHandler))
	mux.HandleFunc("/generate", s.corsMiddleware(s.rateLimitMiddleware(s.createBarcodeHandler)))
	mux.HandleFunc("/create-barcode", s.corsMiddleware(s.rateLimitMiddleware(s.createBarcodeHandler)))
	mux.HandleFunc("/create-qr-code", s.corsMiddleware(s.rateLimitMiddleware(s.createQRCodeHandler)))
	mux.HandleFunc("/generate/image", s.corsMiddleware(s.rateLimitMiddleware(s.generateImageHandler)))
	mux.HandleFunc("/generate/quick", s.corsMiddleware(s.rateLimitMiddleware(s.quickGenerateHandler)))
	mux.HandleFunc("/scan-image", s.corsMiddleware(s.rateLimitMiddleware(s.scanImageHandler)))
	mux.HandleFunc("/ws/scan", s.scanSocketHandler)
	mux.Handle("/metrics", promhttp.Handler())
}
