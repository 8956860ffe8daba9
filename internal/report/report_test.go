package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestReportRoundtrip(t *testing.T) {
	r := New("test-profile")
	r.Engine = &Engine{Workers: 4, Radius: 8, SigmaS: 14, GammaR: 0.7, GammaF: 0.8, Threshold: 2}
	rmse := 3.25
	psnr := 37.9
	r.Images = append(r.Images, ImageRun{
		Input: InputInfo{
			Path: "frames/shot-001.png",
			Width: 800, Height: 600, Channels: 3,
			Format: "png", Size: 100000,
		},
		Output:    "frames/shot-001.denoised.png",
		Hash:      "abcd1234abcd1234",
		Sigma:     25,
		RMSE:      &rmse,
		PSNR:      &psnr,
		ElapsedMS: 412,
	})
	r.ComputeStats()

	// Write to temp file.
	dir := t.TempDir()
	path := filepath.Join(dir, "da3d.report.json")
	if err := WriteJSON(r, path); err != nil {
		t.Fatalf("write: %v", err)
	}

	// Read back and parse.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var r2 Report
	if err := json.Unmarshal(data, &r2); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	// Verify fields.
	if r2.Version != SupportedReportVersion {
		t.Errorf("version: got %d, want %d", r2.Version, SupportedReportVersion)
	}
	if r2.Profile != "test-profile" {
		t.Errorf("profile: got %q", r2.Profile)
	}
	if r2.Engine == nil {
		t.Fatal("engine missing")
	}
	if r2.Engine.Workers != 4 {
		t.Errorf("workers: got %d", r2.Engine.Workers)
	}
	if r2.Engine.Radius != 8 {
		t.Errorf("radius: got %d", r2.Engine.Radius)
	}

	if len(r2.Images) != 1 {
		t.Fatalf("images: got %d", len(r2.Images))
	}
	run := r2.Images[0]
	if run.Hash != "abcd1234abcd1234" {
		t.Errorf("hash: got %q", run.Hash)
	}
	if run.RMSE == nil || *run.RMSE != 3.25 {
		t.Error("rmse not preserved")
	}
	if run.GuidePath != "" {
		t.Errorf("guide: got %q, want empty", run.GuidePath)
	}

	// Stats.
	if r2.Stats.TotalImages != 1 {
		t.Errorf("total_images: got %d", r2.Stats.TotalImages)
	}
	if r2.Stats.TotalPixels != 800*600 {
		t.Errorf("total_pixels: got %d", r2.Stats.TotalPixels)
	}
	if r2.Stats.TotalElapsedMS != 412 {
		t.Errorf("total_elapsed_ms: got %d", r2.Stats.TotalElapsedMS)
	}
}

func TestReportVersion(t *testing.T) {
	r := New("v-test")
	if r.Version != SupportedReportVersion {
		t.Errorf("new report version: got %d, want %d", r.Version, SupportedReportVersion)
	}
}

func TestReportIgnoresUnknownFields(t *testing.T) {
	// Simulate a future report with extra fields.
	raw := `{
		"version": 1,
		"generated_at": "2025-01-01T00:00:00Z",
		"profile": "test",
		"future_field": "should be ignored",
		"engine": { "workers": 8, "radius": 8, "sigma_s": 14, "gamma_r": 0.7, "gamma_f": 0.8, "threshold": 2, "new_flag": true },
		"images": [],
		"stats": { "total_images": 0, "total_input_bytes": 0, "total_pixels": 0, "total_elapsed_ms": 0, "new_stat": 42 }
	}`

	var r Report
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("unmarshal with unknown fields: %v", err)
	}
	if r.Version != 1 {
		t.Errorf("version: got %d", r.Version)
	}
	if r.Engine == nil || r.Engine.Workers != 8 {
		t.Error("engine not parsed correctly")
	}
}
