package pipeline

import (
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/AnyUserName/da3d-cli/internal/profile"
	"github.com/AnyUserName/da3d-cli/internal/report"
)

// Config holds all parameters for a batch denoising run.
type Config struct {
	InputDir  string
	OutputDir string
	Sigma     float64 // noise standard deviation of the inputs
	Profile   profile.Profile
	Workers   int // images denoised concurrently; 0 = NumCPU
	Verbose   bool
}

// Pipeline orchestrates batch denoising.
type Pipeline struct {
	cfg Config
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &Pipeline{cfg: cfg}
}

// Run executes the full batch and returns the run report.  Individual
// image failures are reported but only fail the run when every image
// failed.
func (p *Pipeline) Run() (*report.Report, error) {
	sources, err := ScanImages(p.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images found in %s", p.cfg.InputDir)
	}

	if p.cfg.Verbose {
		fmt.Fprintf(os.Stderr, "[da3d] found %d images\n", len(sources))
	}

	// Each image gets a single denoiser thread; parallelism comes from
	// running images concurrently, which keeps tile grids, and therefore
	// outputs, independent of the worker count.
	results := make([]processResult, len(sources))
	var eg errgroup.Group
	eg.SetLimit(p.cfg.Workers)

	for i, src := range sources {
		i, src := i, src
		eg.Go(func() error {
			if p.cfg.Verbose {
				fmt.Fprintf(os.Stderr, "[da3d] processing: %s\n", src.Key)
			}
			results[i] = processImage(src, p.cfg)
			if p.cfg.Verbose && results[i].err == nil {
				fmt.Fprintf(os.Stderr, "[da3d] done: %s (%d ms)\n",
					src.Key, results[i].run.ElapsedMS)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	r := report.New(p.cfg.Profile.Name)

	var errs []error
	for _, res := range results {
		if res.err != nil {
			errs = append(errs, res.err)
			continue
		}
		r.Images = append(r.Images, res.run)
	}

	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "[da3d] error: %v\n", e)
		}
		if len(errs) == len(sources) {
			return nil, fmt.Errorf("all %d images failed to process", len(errs))
		}
		fmt.Fprintf(os.Stderr, "[da3d] warning: %d of %d images had errors\n",
			len(errs), len(sources))
	}

	params := p.cfg.Profile.Params
	r.Engine = &report.Engine{
		Workers:   p.cfg.Workers,
		Radius:    params.Radius,
		SigmaS:    params.SigmaS,
		GammaR:    params.GammaR,
		GammaF:    params.GammaF,
		Threshold: params.Threshold,
	}
	r.ComputeStats()
	return r, nil
}
