package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialScanSocket(t *testing.T) (*websocket.Conn, func()) {
	t.Helper()

	mux := http.NewServeMux()
	newTestServer(t).SetupRoutes(mux)
	srv := httptest.NewServer(mux)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/scan"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		_ = resp.Body.Close()
	}

	return conn, func() {
		_ = conn.Close()
		srv.Close()
	}
}

func readSocketResponse(t *testing.T, conn *websocket.Conn) ScanSocketResponse {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(10*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var resp ScanSocketResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	return resp
}

func TestScanSocketHandler(t *testing.T) {
	conn, cleanup := dialScanSocket(t)
	defer cleanup()

	payload, err := json.Marshal(ScanSocketRequest{Image: qrPNG(t, "ws-hello")})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, payload))

	resp := readSocketResponse(t, conn)
	assert.Equal(t, "scan_result", resp.Type)
	require.Equal(t, 1, resp.CodesFound)
	assert.Equal(t, "QRCODE", resp.Results[0].Type)
	assert.Equal(t, "ws-hello", resp.Results[0].Data)
	assert.NotEmpty(t, resp.RequestID)
}

func TestScanSocketHandlerNoCodes(t *testing.T) {
	conn, cleanup := dialScanSocket(t)
	defer cleanup()

	payload, err := json.Marshal(ScanSocketRequest{Image: blankPNG(t)})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, payload))

	resp := readSocketResponse(t, conn)
	assert.Equal(t, "scan_result", resp.Type)
	assert.Equal(t, 0, resp.CodesFound)
}

func TestScanSocketHandlerErrors(t *testing.T) {
	tests := []struct {
		name      string
		message   []byte
		errorType string
	}{
		{
			name:      "malformed json",
			message:   []byte("{not json"),
			errorType: "invalid_request",
		},
		{
			name:      "empty image",
			message:   []byte(`{"image":""}`),
			errorType: "invalid_request",
		},
		{
			name:      "undecodable image",
			message:   []byte(`{"image":"bm90IGFuIGltYWdl"}`),
			errorType: "invalid_request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, cleanup := dialScanSocket(t)
			defer cleanup()

			require.NoError(t, conn.WriteMessage(websocket.TextMessage, tt.message))

			resp := readSocketResponse(t, conn)
			assert.Equal(t, "error", resp.Type)
			assert.Equal(t, tt.errorType, resp.ErrorType)
			assert.NotEmpty(t, resp.Error)
		})
	}
}
