// Package output writes extraction results as JSON, CSV, HTML or Markdown.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/law-makers/boardid/internal/engine"
	"github.com/law-makers/boardid/pkg/models"
)

// Record is one flattened result row
type Record struct {
	URL        string           `json:"url"`
	Success    bool             `json:"success"`
	ID         string           `json:"id,omitempty"`
	Method     models.Method    `json:"method,omitempty"`
	Name       string           `json:"name,omitempty"`
	Thumbnail  string           `json:"thumbnail,omitempty"`
	Title      string           `json:"title,omitempty"`
	Error      string           `json:"error,omitempty"`
	Code       engine.ErrorCode `json:"code,omitempty"`
	DurationMS int64            `json:"duration_ms"`
}

// Records flattens results in order
func Records(results []models.ExtractResult) []Record {
	out := make([]Record, 0, len(results))
	for _, r := range results {
		rec := Record{URL: r.URL, DurationMS: r.Duration.Milliseconds()}
		if o := r.Outcome; o != nil {
			rec.Title = o.Meta.Title
			if o.Meta.URL != "" {
				rec.URL = o.Meta.URL
			}
		}
		if r.Error == nil && r.Outcome.OK() {
			b := r.Outcome.Board
			rec.Success = true
			rec.ID = b.ID
			rec.Method = r.Outcome.Method
			rec.Name = b.Name
			rec.Thumbnail = b.Thumbnail
			rec.URL = b.URL
		} else {
			err := r.Error
			if err == nil && r.Outcome != nil {
				err = r.Outcome.Err
			}
			rec.Error = r.ErrorText
			if rec.Error == "" {
				rec.Error = engine.UserMessage(err)
			}
			rec.Code = engine.CodeOf(err)
		}
		out = append(out, rec)
	}
	return out
}

// Summary counts successes and failures
func Summary(records []Record) (ok, failed int) {
	for _, r := range records {
		if r.Success {
			ok++
		} else {
			failed++
		}
	}
	return ok, failed
}

// Save writes results to path in the format named by its extension
func Save(results []models.ExtractResult, path string) error {
	var write func(*os.File, []Record) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		write = func(f *os.File, recs []Record) error { return WriteJSON(f, recs) }
	case ".csv":
		write = func(f *os.File, recs []Record) error { return WriteCSV(f, recs) }
	case ".html", ".htm":
		write = func(f *os.File, recs []Record) error { return WriteHTML(f, recs) }
	case ".md", ".markdown":
		write = func(f *os.File, recs []Record) error { return WriteMarkdown(f, recs) }
	default:
		return fmt.Errorf("unsupported output format %q (use .json, .csv, .html or .md)", filepath.Ext(path))
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(file, Records(results)); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
