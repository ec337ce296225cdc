package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MeKo-Tech/barq/internal/scan"
)

// WebSocket upgrader with reasonable defaults.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin is not restricted; the HTTP surface is already open via CORS
		return true
	},
}

// ScanSocketRequest is one scan submitted over the socket. Image carries the
// raw encoded image bytes, base64-encoded by encoding/json.
type ScanSocketRequest struct {
	Image []byte `json:"image"`
}

// ScanSocketResponse frames one scan result or error pushed to the client.
type ScanSocketResponse struct {
	Type       string        `json:"type"` // "scan_result" or "error"
	CodesFound int           `json:"codes_found"`
	Results    []scan.Result `json:"results,omitempty"`
	Error      string        `json:"error,omitempty"`
	ErrorType  string        `json:"error_type,omitempty"`
	RequestID  string        `json:"request_id,omitempty"`
}

// socketWriter is the subset of *websocket.Conn needed for sending frames.
type socketWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// scanSocketHandler upgrades the connection and scans each submitted image,
// pushing one result frame per request until the client disconnects.
func (s *Server) scanSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade connection to WebSocket", "error", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	websocketConnections.Inc()
	defer websocketConnections.Dec()

	slog.Info("WebSocket connection established", "remote_addr", r.RemoteAddr)

	s.serveScanSocket(r, conn)
}

// serveScanSocket runs the read loop for one connection.
func (s *Server) serveScanSocket(r *http.Request, conn *websocket.Conn) {
	// Read deadline prevents hanging connections; pongs extend it.
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
				return
			}
		}
	}()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", "error", err)
			}
			break
		}

		websocketMessagesTotal.WithLabelValues("received").Inc()

		if messageType == websocket.TextMessage {
			s.handleScanSocketMessage(r, conn, data)
		}
	}
}

// handleScanSocketMessage scans one submitted image and pushes the result.
func (s *Server) handleScanSocketMessage(r *http.Request, conn *websocket.Conn, data []byte) {
	var req ScanSocketRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.sendScanSocketError(conn, "invalid_request", fmt.Sprintf("Failed to parse request: %v", err))
		return
	}

	if len(req.Image) == 0 {
		s.sendScanSocketError(conn, "invalid_request", "No image data provided")
		return
	}

	if int64(len(req.Image)) > s.maxUploadMB*1024*1024 {
		s.sendScanSocketError(conn, "invalid_request", "Image too large")
		return
	}

	requestID := strconv.FormatInt(time.Now().UnixNano(), 10)

	img, _, err := image.Decode(bytes.NewReader(req.Image))
	if err != nil {
		s.sendScanSocketError(conn, "invalid_request", fmt.Sprintf("Failed to decode image: %v", err))
		return
	}
	uploadSizeBytes.Observe(float64(len(req.Image)))

	start := time.Now()
	results, err := s.decoder.Decode(r.Context(), img)
	if err != nil {
		scanRequests.WithLabelValues("error").Inc()
		s.sendScanSocketError(conn, "scan_failed", fmt.Sprintf("Scanning failed: %v", err))
		return
	}
	scanRequests.WithLabelValues("ok").Inc()
	scanDuration.Observe(time.Since(start).Seconds())
	codesDetected.Observe(float64(len(results)))

	s.sendScanSocketResponse(conn, ScanSocketResponse{
		Type:       "scan_result",
		CodesFound: len(results),
		Results:    results,
		RequestID:  requestID,
	})
}

// sendScanSocketResponse sends a response frame over the socket.
func (s *Server) sendScanSocketResponse(conn socketWriter, response ScanSocketResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		slog.Error("Failed to marshal WebSocket response", "error", err)
		return
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Error("Failed to send WebSocket message", "error", err)
		return
	}

	websocketMessagesTotal.WithLabelValues("sent").Inc()
}

// sendScanSocketError sends an error frame over the socket.
func (s *Server) sendScanSocketError(conn socketWriter, errorType, message string) {
	s.sendScanSocketResponse(conn, ScanSocketResponse{
		Type:      "error",
		Error:     message,
		ErrorType: errorType,
	})
}
