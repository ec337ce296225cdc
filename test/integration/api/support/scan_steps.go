package support

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"

	"github.com/cucumber/godog"
)

// RegisterScanSteps wires the image scanning steps.
func (testCtx *TestContext) RegisterScanSteps(sc *godog.ScenarioContext) {
	sc.Step(`^a generated "([^"]*)" image containing "([^"]*)"$`, testCtx.aGeneratedImageContaining)
	sc.Step(`^a blank white image$`, testCtx.aBlankWhiteImage)
	sc.Step(`^I scan the image$`, testCtx.iScanTheImage)
	sc.Step(`^the scan should find (\d+) codes?$`, testCtx.theScanShouldFindCodes)
	sc.Step(`^scan result (\d+) should have type "([^"]*)" and data "([^"]*)"$`, testCtx.scanResultShouldHave)
}

// aGeneratedImageContaining builds the upload fixture through the generation
// endpoint. The text label would sit inside the scanned area, so fixtures
// disable it.
func (testCtx *TestContext) aGeneratedImageContaining(format, data string) error {
	payload, err := json.Marshal(map[string]any{"data": data, "format": format, "font_size": 0})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := http.Post(testCtx.ServerURL()+"/generate", "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("generation request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("generation returned status %d", resp.StatusCode)
	}

	var body struct {
		Success     bool   `json:"success"`
		ImageBase64 string `json:"image_base64"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("failed to decode generation response: %w", err)
	}
	if !body.Success || body.ImageBase64 == "" {
		return fmt.Errorf("generation did not return an image")
	}

	pngData, err := base64.StdEncoding.DecodeString(body.ImageBase64)
	if err != nil {
		return fmt.Errorf("image_base64 is not valid base64: %w", err)
	}

	testCtx.UploadPNG = pngData
	return nil
}

func (testCtx *TestContext) aBlankWhiteImage() error {
	img := image.NewRGBA(image.Rect(0, 0, 120, 120))
	for y := 0; y < 120; y++ {
		for x := 0; x < 120; x++ {
			img.Set(x, y, color.White)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("failed to encode fixture image: %w", err)
	}
	testCtx.UploadPNG = buf.Bytes()
	return nil
}

// iScanTheImage uploads the prepared fixture as the multipart "image" field.
func (testCtx *TestContext) iScanTheImage() error {
	if testCtx.UploadPNG == nil {
		return fmt.Errorf("no image fixture prepared in this scenario")
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", "fixture.png")
	if err != nil {
		return fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(testCtx.UploadPNG); err != nil {
		return fmt.Errorf("failed to write multipart body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish multipart body: %w", err)
	}

	resp, err := http.Post(testCtx.ServerURL()+"/scan-image", writer.FormDataContentType(), &buf)
	if err != nil {
		return fmt.Errorf("scan request failed: %w", err)
	}
	return testCtx.record(resp)
}

func (testCtx *TestContext) theScanShouldFindCodes(count int) error {
	doc, err := testCtx.lastJSON()
	if err != nil {
		return err
	}

	if success, _ := doc["success"].(bool); !success {
		return fmt.Errorf("expected success=true, body: %s", testCtx.LastBody)
	}

	found, ok := doc["codes_found"].(float64)
	if !ok {
		return fmt.Errorf("codes_found missing in %s", testCtx.LastBody)
	}
	if int(found) != count {
		return fmt.Errorf("expected %d codes, got %d (body: %s)", count, int(found), testCtx.LastBody)
	}
	return nil
}

func (testCtx *TestContext) scanResultShouldHave(index int, wantType, wantData string) error {
	doc, err := testCtx.lastJSON()
	if err != nil {
		return err
	}

	results, ok := doc["results"].([]any)
	if !ok || index < 1 || index > len(results) {
		return fmt.Errorf("no scan result %d in %s", index, testCtx.LastBody)
	}

	entry, ok := results[index-1].(map[string]any)
	if !ok {
		return fmt.Errorf("scan result %d has unexpected shape: %v", index, results[index-1])
	}

	if got, _ := entry["type"].(string); got != wantType {
		return fmt.Errorf("expected result %d type %q, got %q", index, wantType, got)
	}
	if got, _ := entry["data"].(string); got != wantData {
		return fmt.Errorf("expected result %d data %q, got %q", index, wantData, got)
	}
	return nil
}
