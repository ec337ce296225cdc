package support

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cucumber/godog"
)

// RegisterServiceSteps wires the discovery and shared response assertion steps.
func (testCtx *TestContext) RegisterServiceSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the server is running$`, testCtx.theServerIsRunning)
	sc.Step(`^I request "(GET|POST)" "([^"]*)"$`, testCtx.iRequest)
	sc.Step(`^the response status should be (\d+)$`, testCtx.theResponseStatusShouldBe)
	sc.Step(`^the JSON field "([^"]*)" should be "([^"]*)"$`, testCtx.theJSONFieldShouldBe)
	sc.Step(`^the supported formats should include "([^"]*)"$`, testCtx.theSupportedFormatsShouldInclude)
}

// theServerIsRunning verifies the in-process server answers its health probe.
func (testCtx *TestContext) theServerIsRunning() error {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(testCtx.ServerURL() + "/health")
	if err != nil {
		return fmt.Errorf("server is not reachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health probe returned status %d", resp.StatusCode)
	}
	return nil
}

// iRequest performs a bare request against the given path.
func (testCtx *TestContext) iRequest(method, path string) error {
	req, err := http.NewRequest(method, testCtx.ServerURL()+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	return testCtx.record(resp)
}

func (testCtx *TestContext) theResponseStatusShouldBe(status int) error {
	if testCtx.LastStatusCode != status {
		return fmt.Errorf("expected status %d, got %d (body: %s)",
			status, testCtx.LastStatusCode, testCtx.LastBody)
	}
	return nil
}

func (testCtx *TestContext) theJSONFieldShouldBe(field, want string) error {
	doc, err := testCtx.lastJSON()
	if err != nil {
		return err
	}

	got, ok := doc[field].(string)
	if !ok {
		return fmt.Errorf("field %q missing or not a string in %s", field, testCtx.LastBody)
	}
	if got != want {
		return fmt.Errorf("expected field %q to be %q, got %q", field, want, got)
	}
	return nil
}

func (testCtx *TestContext) theSupportedFormatsShouldInclude(format string) error {
	doc, err := testCtx.lastJSON()
	if err != nil {
		return err
	}

	raw, ok := doc["supported_formats"].([]any)
	if !ok {
		return fmt.Errorf("supported_formats missing in %s", testCtx.LastBody)
	}
	for _, entry := range raw {
		if name, ok := entry.(string); ok && name == format {
			return nil
		}
	}
	return fmt.Errorf("format %q not found in supported_formats %v", format, raw)
}
