package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/da3d-cli/internal/pipeline"
	"github.com/AnyUserName/da3d-cli/internal/profile"
	"github.com/AnyUserName/da3d-cli/internal/report"
)

var (
	batchOutDir  string
	batchProfile string
	batchSigma   float64
	batchWorkers int
)

var batchCmd = &cobra.Command{
	Use:   "batch <input_dir>",
	Short: "Denoise every image in a directory",
	Long: `Scans a directory for images (png, jpg, jpeg, webp, gif, bmp,
tiff), denoises each with a synthesized guide, and writes the results
plus a JSON run report to the output directory.

All inputs share one --sigma; batch mode is meant for frames captured
under the same conditions.  Each image runs single-threaded, so the
outputs do not depend on the worker count.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchOutDir, "out", "o", "./da3d_out", "output directory")
	batchCmd.Flags().StringVarP(&batchProfile, "profile", "p", "default", "parameter profile: "+strings.Join(profile.Names(), ", "))
	batchCmd.Flags().Float64VarP(&batchSigma, "sigma", "s", 0, "noise standard deviation (required)")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "images denoised concurrently (0 = NumCPU)")
	batchCmd.MarkFlagRequired("sigma")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(_ *cobra.Command, args []string) error {
	inputDir := args[0]
	start := time.Now()

	absInput, err := filepath.Abs(inputDir)
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(batchOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	prof := profile.Get(batchProfile)

	logVerbose("input:   %s", absInput)
	logVerbose("output:  %s", absOutput)
	logVerbose("profile: %s (r=%d threshold=%g)", prof.Name, prof.Params.Radius, prof.Params.Threshold)

	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	p := pipeline.New(pipeline.Config{
		InputDir:  absInput,
		OutputDir: absOutput,
		Sigma:     batchSigma,
		Profile:   prof,
		Workers:   batchWorkers,
		Verbose:   verbose,
	})

	r, err := p.Run()
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	reportPath := filepath.Join(absOutput, "da3d.report.json")
	if err := report.WriteJSON(r, reportPath); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	printBatchReport(r, time.Since(start))
	return nil
}

func printBatchReport(r *report.Report, elapsed time.Duration) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════╗")
	fmt.Println("║               da3d batch complete                ║")
	fmt.Println("╚══════════════════════════════════════════════════╝")
	fmt.Println()

	s := r.Stats
	fmt.Printf("  Images:      %d\n", s.TotalImages)
	fmt.Printf("  Input size:  %s\n", formatBytes(s.TotalInputBytes))
	fmt.Printf("  Pixels:      %.1f MP\n", float64(s.TotalPixels)/1e6)
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))
	if r.Engine != nil {
		fmt.Printf("  Workers:     %d\n", r.Engine.Workers)
	}
	fmt.Println()

	// Top 10 slowest images.
	if len(r.Images) > 0 {
		items := make([]report.ImageRun, len(r.Images))
		copy(items, r.Images)
		sort.Slice(items, func(i, j int) bool {
			return items[i].ElapsedMS > items[j].ElapsedMS
		})
		n := len(items)
		if n > 10 {
			n = 10
		}
		fmt.Printf("  Top %d slowest:\n", n)
		for _, it := range items[:n] {
			fmt.Printf("    %-40s %5dx%-5d %6d ms\n",
				truncKey(it.Input.Path, 40), it.Input.Width, it.Input.Height, it.ElapsedMS)
		}
		fmt.Println()
	}

	fmt.Printf("  Report:      da3d.report.json\n")
	fmt.Println()
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
