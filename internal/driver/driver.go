// Package driver orchestrates the per-document pipeline and the batch
// run: extracted text, bounded section(s), noise filtering, stitching,
// field parsing, and row tagging.
package driver

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chongming-koh/AutomationInvest/internal/formats"
	"github.com/chongming-koh/AutomationInvest/internal/models"
	"github.com/chongming-koh/AutomationInvest/internal/section"
	"github.com/chongming-koh/AutomationInvest/internal/stitch"
)

// ExtractFunc produces the per-page text of one document. The driver
// treats extraction as an opaque collaborator so tests can feed text
// directly.
type ExtractFunc func(path string) ([]string, error)

// Driver runs one format's pipeline over documents. Single-threaded by
// design: documents are processed one at a time in lexicographic path
// order, and each record accumulator is owned exclusively by the
// in-progress pass.
type Driver struct {
	Format  *formats.Format
	Extract ExtractFunc
	// Year is the external year context for formats whose dates carry no
	// year (SRS). Optional; the folder-derived group is the fallback.
	Year string
	Log  *slog.Logger
}

func (d *Driver) logger() *slog.Logger {
	if d.Log != nil {
		return d.Log
	}
	return slog.Default()
}

// ProcessText runs the bounded-section pipeline over already-extracted
// page text. Returns the parsed rows in document order, or a marker
// error when the section cannot be bounded.
func (d *Driver) ProcessText(pages []string, meta formats.Meta) ([]models.Row, error) {
	segments, err := d.boundSegments(pages)
	if err != nil {
		return nil, err
	}

	var rows []models.Row
	for _, seg := range segments {
		lines := d.Format.Noise.Filter(seg)
		for _, p := range stitch.Stitch(lines, d.Format.Rules) {
			if row, ok := d.Format.Finalize(p, meta); ok {
				rows = append(rows, row)
			}
		}
	}
	return rows, nil
}

// boundSegments applies the format's sectioning mode: one independent
// section per page, repeated headers across a joined document, or a
// single bounded span.
func (d *Driver) boundSegments(pages []string) ([]string, error) {
	spec := d.Format.Section

	if spec.PerPage {
		var segs []string
		for _, page := range pages {
			b, err := section.Bound(page, spec)
			if err != nil {
				continue // pages without the section are normal
			}
			segs = append(segs, section.Slice(page, b))
		}
		if len(segs) == 0 {
			return nil, section.ErrStartMarkerMissing
		}
		return segs, nil
	}

	text := strings.Join(pages, "\n")

	if spec.Repeated {
		bounds, err := section.BoundAll(text, spec)
		if err != nil {
			return nil, err
		}
		segs := make([]string, 0, len(bounds))
		for _, b := range bounds {
			segs = append(segs, section.Slice(text, b))
		}
		return segs, nil
	}

	b, err := section.Bound(text, spec)
	if err != nil {
		return nil, err
	}
	return []string{section.Slice(text, b)}, nil
}

// ProcessDocument extracts and parses one document. Failures are
// reported in the result, never raised: one malformed statement must
// not abort the batch.
func (d *Driver) ProcessDocument(path, baseDir string) models.DocumentResult {
	res := models.DocumentResult{Path: path, Group: GroupTag(baseDir, path)}
	log := d.logger()

	pages, err := d.Extract(path)
	if err != nil {
		res.Skipped = true
		res.Reason = fmt.Sprintf("text extraction failed: %v", err)
		log.Warn("skipped", "path", path, "reason", res.Reason)
		return res
	}

	meta := formats.Meta{Group: res.Group, Year: d.Year}
	rows, err := d.ProcessText(pages, meta)
	if err != nil {
		res.Skipped = true
		res.Reason = err.Error()
		log.Warn("skipped", "path", path, "reason", res.Reason)
		return res
	}

	// Zero rows from a bounded section is not an error.
	res.Rows = rows
	log.Info("processed", "path", path, "rows", len(rows))
	return res
}

// Run discovers every PDF under sourceDir (recursively, lexicographic
// order) and processes them sequentially. Only a missing source
// directory is fatal; per-document failures are isolated.
func (d *Driver) Run(sourceDir string) (*models.BatchResult, error) {
	info, err := os.Stat(sourceDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("source directory not found: %s", sourceDir)
	}

	var paths []string
	err = filepath.WalkDir(sourceDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() && strings.EqualFold(filepath.Ext(path), ".pdf") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", sourceDir, err)
	}
	sort.Strings(paths)

	batch := &models.BatchResult{Scanned: len(paths)}
	for _, path := range paths {
		res := d.ProcessDocument(path, sourceDir)
		batch.Documents = append(batch.Documents, res)
		if res.Skipped {
			batch.Skipped++
			continue
		}
		batch.Rows = append(batch.Rows, res.Rows...)
	}
	return batch, nil
}

// GroupTag derives the grouping value for a document from its storage
// location: the first-level subfolder under baseDir (statement folders
// are usually named by year), else the base directory's own name.
func GroupTag(baseDir, path string) string {
	rel, err := filepath.Rel(baseDir, path)
	if err != nil {
		return filepath.Base(baseDir)
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) >= 2 {
		return parts[0]
	}
	return filepath.Base(baseDir)
}
