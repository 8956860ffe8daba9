package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"

	"github.com/AnyUserName/da3d-cli/internal/da3d"
	"github.com/AnyUserName/da3d-cli/internal/hasher"
	"github.com/AnyUserName/da3d-cli/internal/imgio"
	"github.com/AnyUserName/da3d-cli/internal/report"
)

// processResult holds the result of processing a single source image.
type processResult struct {
	run report.ImageRun
	err error
}

// processImage handles one source image: decode, synthesize the guide,
// denoise, encode, fingerprint.
func processImage(src Source, cfg Config) processResult {
	var result processResult
	start := time.Now()

	decoded, err := imaging.Open(src.AbsPath)
	if err != nil {
		result.err = fmt.Errorf("open %s: %w", src.RelPath, err)
		return result
	}

	noisy := imgio.FromImage(decoded)
	guide := imgio.SynthesizeGuide(decoded, cfg.Profile.GuideBlur)

	params := cfg.Profile.Params
	params.Threads = 1
	out, err := da3d.Denoise(noisy, guide, float32(cfg.Sigma), params)
	if err != nil {
		result.err = fmt.Errorf("denoise %s: %w", src.RelPath, err)
		return result
	}

	keyDir := filepath.Dir(src.Key)
	if keyDir != "." {
		if err := os.MkdirAll(filepath.Join(cfg.OutputDir, filepath.FromSlash(keyDir)), 0o755); err != nil {
			result.err = fmt.Errorf("create %s: %w", keyDir, err)
			return result
		}
	}

	relPath := src.Key + ".denoised.png"
	outPath := filepath.Join(cfg.OutputDir, filepath.FromSlash(relPath))
	if err := imgio.Save(outPath, out); err != nil {
		result.err = fmt.Errorf("write %s: %w", relPath, err)
		return result
	}

	rows, cols, chans := noisy.Shape()
	result.run = report.ImageRun{
		Input: report.InputInfo{
			Path:     src.RelPath,
			Width:    cols,
			Height:   rows,
			Channels: chans,
			Format:   src.Format,
			Size:     src.Size,
		},
		Output:    relPath,
		Hash:      hasher.Planes(out.Data(), 16),
		Sigma:     cfg.Sigma,
		ElapsedMS: time.Since(start).Milliseconds(),
	}
	return result
}
