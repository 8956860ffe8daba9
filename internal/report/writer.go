package report

import (
	"encoding/json"
	"os"
	"time"
)

// New creates an empty report with defaults.
func New(profileName string) *Report {
	return &Report{
		Version:     1,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Profile:     profileName,
	}
}

// ComputeStats recalculates aggregate statistics from the image runs.
func (r *Report) ComputeStats() {
	var s Stats
	s.TotalImages = len(r.Images)
	for _, run := range r.Images {
		s.TotalInputBytes += run.Input.Size
		s.TotalPixels += int64(run.Input.Width) * int64(run.Input.Height)
		s.TotalElapsedMS += run.ElapsedMS
	}
	r.Stats = s
}

// WriteJSON serializes the report to a JSON file with stable ordering.
func WriteJSON(r *Report, path string) error {
	r.ComputeStats()

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}
