package pipeline

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/AnyUserName/da3d-cli/internal/profile"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetNRGBA(x, y, color.NRGBA{
				R: uint8((x * 13) % 256),
				G: uint8((y * 29) % 256),
				B: uint8(((x + y) * 7) % 256),
				A: 255,
			})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, m); err != nil {
		t.Fatal(err)
	}
}

// ─── scanner ─────────────────────────────────────────────────

func TestScanImages(t *testing.T) {
	dir := t.TempDir()
	os.MkdirAll(filepath.Join(dir, "frames"), 0o755)
	os.MkdirAll(filepath.Join(dir, ".hidden"), 0o755)
	writePNG(t, filepath.Join(dir, "a.png"), 8, 8)
	writePNG(t, filepath.Join(dir, "frames", "b.png"), 8, 8)
	writePNG(t, filepath.Join(dir, ".hidden", "c.png"), 8, 8)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644)

	sources, err := ScanImages(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 2 {
		t.Fatalf("sources: got %d, want 2 (hidden dirs and non-images skipped)", len(sources))
	}

	keys := map[string]Source{}
	for _, s := range sources {
		keys[s.Key] = s
	}
	if _, ok := keys["a"]; !ok {
		t.Error("missing key a")
	}
	b, ok := keys["frames/b"]
	if !ok {
		t.Fatal("missing key frames/b")
	}
	if b.Format != "png" {
		t.Errorf("format: got %q", b.Format)
	}
	if b.Size <= 0 {
		t.Errorf("size: got %d", b.Size)
	}
}

func TestScanImagesNormalizesFormat(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "x.jpg"), 4, 4) // content is png, extension drives the name
	sources, err := ScanImages(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 1 || sources[0].Format != "jpeg" {
		t.Fatalf("jpg must normalize to jpeg, got %+v", sources)
	}
}

// ─── end to end ──────────────────────────────────────────────

func TestRunBatch(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	os.MkdirAll(filepath.Join(inDir, "frames"), 0o755)
	writePNG(t, filepath.Join(inDir, "one.png"), 16, 16)
	writePNG(t, filepath.Join(inDir, "frames", "two.png"), 16, 16)

	p := New(Config{
		InputDir:  inDir,
		OutputDir: outDir,
		Sigma:     10,
		Profile:   profile.Get("fast"),
		Workers:   2,
	})
	r, err := p.Run()
	if err != nil {
		t.Fatal(err)
	}

	if r.Stats.TotalImages != 2 {
		t.Fatalf("images: got %d, want 2", r.Stats.TotalImages)
	}
	if r.Engine == nil || r.Engine.Workers != 2 {
		t.Error("engine info missing or wrong worker count")
	}

	for _, run := range r.Images {
		out := filepath.Join(outDir, filepath.FromSlash(run.Output))
		if _, err := os.Stat(out); err != nil {
			t.Errorf("output %s missing: %v", run.Output, err)
		}
		if len(run.Hash) != 16 {
			t.Errorf("hash: got %q", run.Hash)
		}
		if run.Input.Width != 16 || run.Input.Height != 16 {
			t.Errorf("input dims: got %dx%d", run.Input.Width, run.Input.Height)
		}
		if run.Sigma != 10 {
			t.Errorf("sigma: got %g", run.Sigma)
		}
	}
}

func TestRunEmptyDir(t *testing.T) {
	p := New(Config{
		InputDir:  t.TempDir(),
		OutputDir: t.TempDir(),
		Sigma:     10,
		Profile:   profile.Get("fast"),
	})
	if _, err := p.Run(); err == nil {
		t.Fatal("expected error for directory without images")
	}
}

func TestRunAllFailed(t *testing.T) {
	inDir := t.TempDir()
	// An image-extension file with garbage content fails to decode.
	os.WriteFile(filepath.Join(inDir, "broken.png"), []byte("not a png"), 0o644)

	p := New(Config{
		InputDir:  inDir,
		OutputDir: t.TempDir(),
		Sigma:     10,
		Profile:   profile.Get("fast"),
	})
	if _, err := p.Run(); err == nil {
		t.Fatal("expected error when every image fails")
	}
}
