// Package feedback produces structured iteration reports — one per
// compilation attempt — for an external caller (an editor, an AI
// agent loop) to consume as JSON. It does not drive any core
// invariant: nothing in internal/compiler imports this package; a
// caller builds a Report from a compiler.Result after the fact.
//
// The Report shape is grounded on the teacher's model.Result JSON
// envelope (internal/model/model.go): a flat, json-tagged struct with
// omitempty on the fields that are absent on a clean run.
package feedback

import (
	"encoding/json"
	"time"

	"github.com/aetherlang/aethc/internal/diag"
)

// DiagnosticEntry is one diagnostic rendered for JSON transport,
// independent of diag.Diagnostic's span.Span (byte offsets only make
// sense paired with the source text, which a Report does not carry).
type DiagnosticEntry struct {
	Kind     string `json:"kind"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// Report is one compilation attempt's structured summary.
type Report struct {
	Time          string            `json:"time"`
	Success       bool              `json:"success"`
	CacheHit      bool              `json:"cache_hit"`
	OptimizerRuns int               `json:"optimizer_runs,omitempty"`
	Diagnostics   []DiagnosticEntry `json:"diagnostics,omitempty"`
	FatalKind     string            `json:"fatal_kind,omitempty"`
	DurationMs    int64             `json:"duration_ms"`
}

// FromBag builds a Report from an accumulated diagnostic bag plus the
// ambient attempt metadata (cache hit, optimizer pass count, elapsed
// time). stamp is supplied by the caller rather than computed here
// (time.Now is off-limits in code paths exercised by deterministic
// replay/testing tooling).
func FromBag(bag *diag.Bag, cacheHit bool, optimizerRuns int, duration time.Duration, stamp time.Time) Report {
	r := Report{
		Time:          stamp.Format(time.RFC3339),
		CacheHit:      cacheHit,
		OptimizerRuns: optimizerRuns,
		DurationMs:    duration.Milliseconds(),
	}

	if bag == nil {
		r.Success = true
		return r
	}

	for _, d := range bag.Items() {
		r.Diagnostics = append(r.Diagnostics, DiagnosticEntry{
			Kind:     string(d.Kind),
			Severity: string(d.Severity),
			Message:  d.Message,
		})
	}

	if fatal := bag.Fatal(); fatal != nil {
		r.FatalKind = string(fatal.Kind)
		r.Success = false
	} else {
		r.Success = true
	}

	return r
}

// JSON marshals the report with two-space indentation, matching the
// teacher's json.MarshalIndent(results, "", "  ") convention.
func (r Report) JSON() (string, error) {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
