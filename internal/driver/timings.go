package driver

import (
	"io"

	json "github.com/goccy/go-json"

	"cxxscope/internal/observ"
)

// TimingPayload is the machine-readable form of per-unit timings.
type TimingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// Timings collects the timing reports of analyzed (not cached) units,
// followed by a "total" payload summing every phase when more than one
// unit was timed.
func Timings(results []*UnitResult) []TimingPayload {
	out := make([]TimingPayload, 0, len(results)+1)
	var reports []observ.Report
	for _, r := range results {
		if r == nil || r.Timing == nil {
			continue
		}
		reports = append(reports, *r.Timing)
		out = append(out, TimingPayload{
			Kind:    "unit",
			Path:    r.Path,
			TotalMS: r.Timing.TotalMS,
			Phases:  r.Timing.Phases,
		})
	}
	if len(reports) > 1 {
		total := observ.Merge(reports...)
		out = append(out, TimingPayload{Kind: "total", TotalMS: total.TotalMS, Phases: total.Phases})
	}
	return out
}

// WriteTimingsJSON writes one JSON object per line.
func WriteTimingsJSON(w io.Writer, payloads []TimingPayload) error {
	enc := json.NewEncoder(w)
	for _, p := range payloads {
		if err := enc.Encode(p); err != nil {
			return err
		}
	}
	return nil
}
