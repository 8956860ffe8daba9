package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "da3d",
	Short: "Data-adaptive dual-domain image denoiser",
	Long: `da3d is a second-stage denoiser that sharpens the output of any
first-stage method by re-estimating every pixel in a frequency domain
shaped by a pre-denoised guide image.

Works on grayscale and color images with known Gaussian noise level.
Supply the guide produced by your first-stage denoiser for best
results; without one a Gaussian pre-blur of the input stands in.`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"da3d %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[da3d] "+format+"\n", args...)
	}
}
