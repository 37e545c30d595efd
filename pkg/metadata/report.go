// Package metadata records the outcome of a scrape run as a JSON report
// written next to the downloaded files.
package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ReportFilename is the name of the report written into the download directory
const ReportFilename = "scrape_report.json"

// ItemResult is the outcome of one processed media element
type ItemResult struct {
	Index       int       `json:"index"`
	SourceURL   string    `json:"source_url,omitempty"`
	Filename    string    `json:"filename,omitempty"`
	Success     bool      `json:"success"`
	Error       string    `json:"error,omitempty"`
	ProcessedAt time.Time `json:"processed_at"`
}

// Report is the download log for a whole scrape run
type Report struct {
	TargetURL  string       `json:"target_url"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Total      int          `json:"total"`
	Succeeded  int          `json:"succeeded"`
	Items      []ItemResult `json:"items"`
}

// NewReport starts a report for one target URL
func NewReport(targetURL string) *Report {
	return &Report{
		TargetURL: targetURL,
		StartedAt: time.Now(),
	}
}

// Record appends the outcome of one media element
func (r *Report) Record(index int, sourceURL, filename string, success bool, errMsg string) {
	r.Items = append(r.Items, ItemResult{
		Index:       index,
		SourceURL:   sourceURL,
		Filename:    filename,
		Success:     success,
		Error:       errMsg,
		ProcessedAt: time.Now(),
	})
	r.Total++
	if success {
		r.Succeeded++
	}
}

// Finish stamps the end time
func (r *Report) Finish() {
	r.FinishedAt = time.Now()
}

// Save writes the report as pretty-printed JSON into dir
func (r *Report) Save(dir string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	path := filepath.Join(dir, ReportFilename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}
