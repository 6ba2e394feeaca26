// Package output serializes a single Matcher run's result. It is not a
// persistence layer — a run's matches are written once and read back by
// whatever consumed the report; the matcher never reloads its own output.
package output

import (
	"fmt"
	"os"
	"time"

	"github.com/eddiefleurent/stratmatch/internal/strategy"
	"github.com/goccy/go-json"
)

// Report is the materialized form of one Matcher.Run call.
type Report struct {
	RunID       string              `json:"run_id"`
	Underlying  string              `json:"underlying"`
	GeneratedAt time.Time           `json:"generated_at"`
	Strategies  []strategy.Strategy `json:"strategies"`
	HitBudget   bool                `json:"hit_budget"`
}

// Write marshals report as indented JSON and atomically replaces path.
func Write(path string, report Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("output: marshaling report: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil { // #nosec G306 -- report contains no secrets
		return fmt.Errorf("output: writing temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("output: renaming into place: %w", err)
	}
	return nil
}

// Read decodes a previously written Report from path.
func Read(path string) (Report, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is operator-supplied
	if err != nil {
		return Report{}, fmt.Errorf("output: reading report: %w", err)
	}
	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return Report{}, fmt.Errorf("output: parsing report: %w", err)
	}
	return report, nil
}
