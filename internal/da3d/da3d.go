// Package da3d implements the data-adaptive dual-domain denoising core:
// a priority-driven loop that repeatedly refines the least-covered patch
// of a tile with bilateral masking, regression-plane detrending and
// frequency-domain shrinkage guided by a pre-denoised image.
//
// The computation is a pure function of (noisy, guide, sigma, params).
// Tiles are processed independently on a worker per tile; the only
// cross-thread effect is that changing the worker count changes tile
// boundaries, which perturbs results in the padding-overlap regions.
package da3d

import (
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/AnyUserName/da3d-cli/internal/colorspace"
	"github.com/AnyUserName/da3d-cli/internal/img"
	"github.com/AnyUserName/da3d-cli/internal/tiling"
)

func expf(x float32) float32 {
	return float32(math.Exp(float64(x)))
}

// Denoise refines noisy using a pre-denoised guide of identical shape
// and a known noise standard deviation, returning a fresh image.  The
// inputs are not mutated.  All validation happens here, before any tile
// is launched.
func Denoise(noisy, guide *img.Image, sigma float32, p Params) (*img.Image, error) {
	s := NextPowerOf2(2*p.Radius + 1)

	if !noisy.SameShape(guide) {
		nr, nc, nch := noisy.Shape()
		gr, gc, gch := guide.Shape()
		return nil, fmt.Errorf("noisy shape %dx%dx%d does not match guide %dx%dx%d",
			nr, nc, nch, gr, gc, gch)
	}
	if ch := noisy.Channels(); ch != 1 && ch != 3 {
		return nil, fmt.Errorf("unsupported channel count %d (want 1 or 3)", ch)
	}
	if noisy.Rows() < s || noisy.Columns() < s {
		return nil, fmt.Errorf("image %dx%d smaller than patch side %d",
			noisy.Rows(), noisy.Columns(), s)
	}
	if sigma <= 0 {
		return nil, fmt.Errorf("sigma must be positive, got %g", sigma)
	}
	if p.Radius < 1 {
		return nil, fmt.Errorf("radius must be at least 1, got %d", p.Radius)
	}
	if p.SigmaS <= 0 || p.GammaR <= 0 || p.GammaF <= 0 || p.Threshold <= 0 {
		return nil, fmt.Errorf("sigma_s, gamma_r, gamma_f and threshold must be positive")
	}

	threads := p.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	grid := tiling.Compute(guide.Rows(), guide.Columns(), threads)
	padBefore, padAfter := p.Radius, s-p.Radius-1

	noisyT := noisy.Copy()
	guideT := guide.Copy()
	colorspace.Transform(noisyT)
	colorspace.Transform(guideT)
	noisyTiles := tiling.Split(noisyT, padBefore, padAfter, grid)
	guideTiles := tiling.Split(guideT, padBefore, padAfter, grid)

	values := make([]*img.Image, len(noisyTiles))
	covers := make([]*img.Image, len(noisyTiles))
	var eg errgroup.Group
	for i := range noisyTiles {
		i := i
		eg.Go(func() error {
			values[i], covers[i] = runBlock(noisyTiles[i], guideTiles[i], sigma, p)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := tiling.Merge(values, covers, guide.Rows(), guide.Columns(), padBefore, padAfter, grid)
	colorspace.TransformInverse(out)
	return out, nil
}
