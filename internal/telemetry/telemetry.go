// Package telemetry logs detection decisions and per-window feature
// summaries, following the bracketed-subsystem-tag convention used
// throughout this daemon's other packages.
package telemetry

import (
	"log"

	"gonum.org/v1/gonum/floats"
)

// Logger wraps the standard logger with the bracketed tags this daemon's
// other packages use ([DETECT], [SCHED], [REC], [PWR]).
type Logger struct {
	*log.Logger
}

// New returns a Logger writing through the standard library's default
// logger destination.
func New() *Logger {
	return &Logger{Logger: log.Default()}
}

// Detection logs a completed detection decision, matching spec.md §8
// scenario 2's requirement that implementers log the reference count for
// regression comparison.
func (l *Logger) Detection(detected bool, count int) {
	l.Printf("[DETECT] detected=%v count=%d", detected, count)
}

// Recording logs a recording written to disk as a result of a detection.
func (l *Logger) Recording(path string, detected bool) {
	l.Printf("[REC] wrote %s (detected=%v)", path, detected)
}

// RecordingSkipped logs a detection that was not persisted, e.g. because
// the per-hour recording cap had already been reached.
func (l *Logger) RecordingSkipped(reason string) {
	l.Printf("[REC] skipped recording: %s", reason)
}

// Battery logs the current battery band.
func (l *Logger) Battery(band string) {
	l.Printf("[PWR] battery %s", band)
}

// Schedule logs a listening-window transition.
func (l *Logger) Schedule(active bool, wait string) {
	l.Printf("[SCHED] active=%v next check in %s", active, wait)
}

// WindowSummary is a min/mean/max statistical summary of one band's
// feature values across a detection window, used for regression logging.
type WindowSummary struct {
	Min  float64
	Max  float64
	Mean float64
}

// Summarize reduces a band's per-frame feature values to a WindowSummary
// using gonum's floats package, the same reduction primitive this
// daemon's other numeric code already depends on.
func Summarize(values []float32) WindowSummary {
	if len(values) == 0 {
		return WindowSummary{}
	}

	asFloat64 := make([]float64, len(values))
	for i, v := range values {
		asFloat64[i] = float64(v)
	}

	return WindowSummary{
		Min:  floats.Min(asFloat64),
		Max:  floats.Max(asFloat64),
		Mean: floats.Sum(asFloat64) / float64(len(asFloat64)),
	}
}

// FeatureSummary logs the min/mean/max of one band's feature values for a
// single decoded window.
func (l *Logger) FeatureSummary(band string, summary WindowSummary) {
	l.Printf("[DETECT] band=%s min=%.6f mean=%.6f max=%.6f", band, summary.Min, summary.Mean, summary.Max)
}
