package support

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cucumber/godog"
)

// RegisterGenerateSteps wires the code generation steps.
func (testCtx *TestContext) RegisterGenerateSteps(sc *godog.ScenarioContext) {
	sc.Step(`^I generate a "([^"]*)" code with data "([^"]*)"$`, testCtx.iGenerateACode)
	sc.Step(`^I request the same code as a binary image$`, testCtx.iRequestTheSameCodeAsABinaryImage)
	sc.Step(`^the generation should succeed$`, testCtx.theGenerationShouldSucceed)
	sc.Step(`^the generation should fail with kind "([^"]*)"$`, testCtx.theGenerationShouldFailWithKind)
	sc.Step(`^the echoed format should be "([^"]*)"$`, testCtx.theEchoedFormatShouldBe)
	sc.Step(`^the binary response should match the base64 image$`, testCtx.theBinaryResponseShouldMatchTheBase64Image)
}

// postGenerate posts a generation request body and records the response.
func (testCtx *TestContext) postGenerate(body map[string]any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := http.Post(testCtx.ServerURL()+"/generate", "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("generation request failed: %w", err)
	}
	return testCtx.record(resp)
}

func (testCtx *TestContext) iGenerateACode(format, data string) error {
	testCtx.LastGenerateRequest = map[string]any{"data": data, "format": format}
	return testCtx.postGenerate(testCtx.LastGenerateRequest)
}

// iRequestTheSameCodeAsABinaryImage repeats the previous generation request
// in binary output mode.
func (testCtx *TestContext) iRequestTheSameCodeAsABinaryImage() error {
	if testCtx.LastGenerateRequest == nil {
		return fmt.Errorf("no previous generation request in this scenario")
	}

	req := make(map[string]any, len(testCtx.LastGenerateRequest)+1)
	for k, v := range testCtx.LastGenerateRequest {
		req[k] = v
	}
	req["return_format"] = "image"
	return testCtx.postGenerate(req)
}

// theGenerationShouldSucceed checks the JSON envelope and keeps the decoded
// PNG for later comparison steps.
func (testCtx *TestContext) theGenerationShouldSucceed() error {
	if testCtx.LastStatusCode != http.StatusOK {
		return fmt.Errorf("expected status 200, got %d (body: %s)", testCtx.LastStatusCode, testCtx.LastBody)
	}

	doc, err := testCtx.lastJSON()
	if err != nil {
		return err
	}
	if success, _ := doc["success"].(bool); !success {
		return fmt.Errorf("expected success=true, body: %s", testCtx.LastBody)
	}

	encoded, _ := doc["image_base64"].(string)
	if encoded == "" {
		return fmt.Errorf("image_base64 is empty")
	}
	pngData, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("image_base64 is not valid base64: %w", err)
	}
	if !bytes.HasPrefix(pngData, []byte("\x89PNG")) {
		return fmt.Errorf("decoded image is not a PNG")
	}

	testCtx.LastImagePNG = pngData
	return nil
}

func (testCtx *TestContext) theGenerationShouldFailWithKind(kind string) error {
	if testCtx.LastStatusCode != http.StatusBadRequest {
		return fmt.Errorf("expected status 400, got %d (body: %s)", testCtx.LastStatusCode, testCtx.LastBody)
	}

	doc, err := testCtx.lastJSON()
	if err != nil {
		return err
	}
	if success, _ := doc["success"].(bool); success {
		return fmt.Errorf("expected success=false, body: %s", testCtx.LastBody)
	}
	if got, _ := doc["kind"].(string); got != kind {
		return fmt.Errorf("expected error kind %q, got %q (body: %s)", kind, got, testCtx.LastBody)
	}
	return nil
}

func (testCtx *TestContext) theEchoedFormatShouldBe(format string) error {
	doc, err := testCtx.lastJSON()
	if err != nil {
		return err
	}
	if got, _ := doc["format"].(string); got != format {
		return fmt.Errorf("expected echoed format %q, got %q", format, got)
	}
	return nil
}

// theBinaryResponseShouldMatchTheBase64Image verifies that both output modes
// frame the identical rendered bytes.
func (testCtx *TestContext) theBinaryResponseShouldMatchTheBase64Image() error {
	if ct := testCtx.LastHeaders.Get("Content-Type"); ct != "image/png" {
		return fmt.Errorf("expected Content-Type image/png, got %q", ct)
	}
	if testCtx.LastImagePNG == nil {
		return fmt.Errorf("no base64 image captured in this scenario")
	}
	if !bytes.Equal(testCtx.LastBody, testCtx.LastImagePNG) {
		return fmt.Errorf("binary response differs from the base64-decoded image (%d vs %d bytes)",
			len(testCtx.LastBody), len(testCtx.LastImagePNG))
	}
	return nil
}
