package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestHealthEndpoint(t *testing.T) {
	app := NewApp()

	req := httptest.NewRequest("GET", "/api/health", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var result map[string]string
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if result["status"] != "ok" {
		t.Errorf("expected status=ok, got %q", result["status"])
	}

	if result["engine"] != "fiber" {
		t.Errorf("expected engine=fiber, got %q", result["engine"])
	}
}

func TestConvertEndpointRequiresFile(t *testing.T) {
	app := NewApp()

	req := httptest.NewRequest("POST", "/api/convert", nil)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=----test")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	// Should fail because no file in the body
	if resp.StatusCode == fiber.StatusOK {
		t.Error("expected non-200 for missing file")
	}
}

func TestConvertEndpointWithExtractedText(t *testing.T) {
	app := NewApp()

	statement := `Post Trans Description of Transaction Transaction Amount
01 JUN 01 JUN PAYMENT RECEIVED 150.00
07 JUN 07 JUN CR INTEREST
16.84 CR
SUB TOTAL 166.84`

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	if err := form.WriteField("extractedText", statement); err != nil {
		t.Fatal(err)
	}
	if err := form.WriteField("format", "uob"); err != nil {
		t.Fatal(err)
	}
	form.Close()

	req := httptest.NewRequest("POST", "/api/convert", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}

	var result ConvertResponse
	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if !result.Success || result.Format != "uob" || result.Count != 2 {
		t.Errorf("response = %+v", result)
	}
	if len(result.Rows) != 2 || result.Rows[1].Amount != "(16.84)" {
		t.Errorf("rows = %+v", result.Rows)
	}
	if result.CSV == "" {
		t.Error("expected CSV in response")
	}
}

func TestConvertEndpointUnknownFormat(t *testing.T) {
	app := NewApp()

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	form.WriteField("extractedText", "some statement text")
	form.WriteField("format", "dbs")
	form.Close()

	req := httptest.NewRequest("POST", "/api/convert", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", resp.StatusCode)
	}

	var result ConvertResponse
	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Success || result.Error == "" {
		t.Errorf("response = %+v", result)
	}
}
