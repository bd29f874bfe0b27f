// Package api exposes the statement pipeline over HTTP for the optional
// serve mode. The CLI batch path does not depend on it.
package api

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/chongming-koh/AutomationInvest/internal/driver"
	"github.com/chongming-koh/AutomationInvest/internal/extractor"
	"github.com/chongming-koh/AutomationInvest/internal/formats"
	"github.com/chongming-koh/AutomationInvest/internal/models"
	"github.com/chongming-koh/AutomationInvest/internal/report"
	"github.com/chongming-koh/AutomationInvest/internal/writer"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// pageBreak separates pages in client-side extracted text uploads.
const pageBreak = "\n---PAGE_BREAK---\n"

// ConvertResponse is the JSON body of /api/convert.
type ConvertResponse struct {
	Success bool         `json:"success"`
	Error   string       `json:"error,omitempty"`
	Format  string       `json:"format,omitempty"`
	Rows    []models.Row `json:"rows"`
	Summary []models.Row `json:"summary,omitempty"`
	CSV     string       `json:"csv,omitempty"`
	Count   int          `json:"count"`
}

// NewApp builds the fiber application with all routes registered.
func NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:             32 << 20,
		DisableStartupMessage: true,
	})
	app.Get("/api/health", HandleHealth)
	app.Post("/api/convert", HandleConvert)
	return app
}

// HandleHealth reports service liveness.
func HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": Version,
	})
}

// HandleConvert accepts a statement PDF (form field "file") or
// pre-extracted page text (form field "extractedText"), parses it with
// the requested or auto-detected format, and returns the rows plus a
// rendered CSV.
func HandleConvert(c *fiber.Ctx) error {
	pages, err := uploadedPages(c)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}

	format, err := pickFormat(c.FormValue("format"), pages)
	if err != nil {
		return writeError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	d := &driver.Driver{Format: format, Year: c.FormValue("year")}
	rows, err := d.ProcessText(pages, formats.Meta{Year: c.FormValue("year")})
	if err != nil {
		return writeError(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("parsing failed: %v", err))
	}
	if rows == nil {
		rows = []models.Row{} // nil marshals to JSON null, not []
	}

	var csvBuf bytes.Buffer
	cw := &writer.CSVWriter{Columns: format.Columns}
	if err := cw.Write(&csvBuf, rows); err != nil {
		return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("CSV generation failed: %v", err))
	}

	resp := ConvertResponse{
		Success: true,
		Format:  format.Name,
		Rows:    rows,
		CSV:     csvBuf.String(),
		Count:   len(rows),
	}
	if format.Summary {
		resp.Summary = report.Summarize(rows)
	}
	return c.JSON(resp)
}

// uploadedPages resolves the request's page text: client-side extracted
// text when provided, else server-side extraction of the uploaded PDF.
func uploadedPages(c *fiber.Ctx) ([]string, error) {
	if text := c.FormValue("extractedText"); text != "" {
		var pages []string
		for _, page := range strings.Split(text, pageBreak) {
			if page = strings.TrimSpace(page); page != "" {
				pages = append(pages, page)
			}
		}
		if len(pages) > 0 {
			return pages, nil
		}
	}

	header, err := c.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("no file uploaded; use form field %q", "file")
	}
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		return nil, fmt.Errorf("only PDF files are supported")
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to save upload: %w", err)
	}
	tmp.Close()

	pages, err := extractor.ExtractText(tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("PDF extraction failed: %w", err)
	}
	return pages, nil
}

func pickFormat(name string, pages []string) (*formats.Format, error) {
	if name == "" || strings.EqualFold(name, "auto") {
		return formats.AutoDetect(pages)
	}
	return formats.New(name)
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ConvertResponse{Success: false, Error: msg})
}
