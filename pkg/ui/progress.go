package ui

import (
	"fmt"
	"strings"
	"time"
)

const (
	progressBar   = "█"
	progressEmpty = "░"
	barWidth      = 20
)

// Tracker renders per-item progress for a scrape run on one terminal
// line. It is fed from the scraper's progress callback.
type Tracker struct {
	processed int
	succeeded int
	total     int
	startTime time.Time
}

// NewTracker creates a tracker for a run of unknown size; the total
// arrives with the first progress callback.
func NewTracker() *Tracker {
	return &Tracker{
		startTime: time.Now(),
	}
}

// Report records one item outcome and redraws the progress line
func (t *Tracker) Report(index int, success bool, total int) {
	t.processed++
	t.total = total
	if success {
		t.succeeded++
	}

	fmt.Printf("\r%s %s %d ok, %d failed",
		Green("[SCRAPING]"),
		t.bar(),
		t.succeeded,
		t.processed-t.succeeded)
}

// Finish drops off the progress line and prints the summary
func (t *Tracker) Finish() {
	fmt.Println()
	elapsed := time.Since(t.startTime).Round(time.Second)
	PrintSuccess(fmt.Sprintf("Done: %d/%d items in %s", t.succeeded, t.total, elapsed))
}

// bar renders the progress bar portion
func (t *Tracker) bar() string {
	if t.total == 0 {
		return fmt.Sprintf("[%s] %d/?", strings.Repeat(progressEmpty, barWidth), t.processed)
	}

	filled := t.processed * barWidth / t.total
	if filled > barWidth {
		filled = barWidth
	}

	return fmt.Sprintf("[%s%s] %d/%d",
		strings.Repeat(progressBar, filled),
		strings.Repeat(progressEmpty, barWidth-filled),
		t.processed,
		t.total)
}

// Succeeded returns the number of successful items so far
func (t *Tracker) Succeeded() int {
	return t.succeeded
}

// Processed returns the number of processed items so far
func (t *Tracker) Processed() int {
	return t.processed
}
