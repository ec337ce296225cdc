// Package support holds the shared scenario state and step definitions for
// the feature-driven API tests.
package support

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/MeKo-Tech/barq/internal/render"
	"github.com/MeKo-Tech/barq/internal/scan"
	"github.com/MeKo-Tech/barq/internal/server"
)

// TestContext holds the state for one scenario: an in-process HTTP server
// with default settings and the last response observed.
type TestContext struct {
	httpServer *httptest.Server

	// HTTP response state
	LastStatusCode int
	LastHeaders    http.Header
	LastBody       []byte

	// Generation state shared between steps
	LastGenerateRequest map[string]any
	LastImagePNG        []byte
	UploadPNG           []byte
}

// NewTestContext starts the API server in-process with default settings.
func NewTestContext() (*TestContext, error) {
	srv, err := server.NewServer(server.Config{
		Host:            "localhost",
		Port:            8080,
		CORSOrigin:      "*",
		MaxUploadMB:     10,
		TimeoutSec:      30,
		BarcodeDefaults: render.DefaultBarcodeOptions(),
		QRDefaults:      render.DefaultQROptions(),
		Scan:            scan.DefaultOptions(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	mux := http.NewServeMux()
	srv.SetupRoutes(mux)

	return &TestContext{httpServer: httptest.NewServer(mux)}, nil
}

// Cleanup shuts the in-process server down.
func (testCtx *TestContext) Cleanup() error {
	if testCtx.httpServer != nil {
		testCtx.httpServer.Close()
		testCtx.httpServer = nil
	}
	return nil
}

// ServerURL returns the base URL of the running server.
func (testCtx *TestContext) ServerURL() string {
	return testCtx.httpServer.URL
}

// record captures the response state for the assertion steps.
func (testCtx *TestContext) record(resp *http.Response) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	testCtx.LastStatusCode = resp.StatusCode
	testCtx.LastHeaders = resp.Header
	testCtx.LastBody = body
	return nil
}

// lastJSON unmarshals the last response body into a generic document.
func (testCtx *TestContext) lastJSON() (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal(testCtx.LastBody, &doc); err != nil {
		return nil, fmt.Errorf("response is not valid JSON: %w (body: %s)", err, testCtx.LastBody)
	}
	return doc, nil
}
