package cmd

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/da3d-cli/internal/img"
	"github.com/AnyUserName/da3d-cli/internal/imgio"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics <image_a> <image_b>",
	Short: "Compare two images with RMSE and PSNR",
	Args:  cobra.ExactArgs(2),
	RunE:  runMetrics,
}

func init() {
	rootCmd.AddCommand(metricsCmd)
}

func runMetrics(_ *cobra.Command, args []string) error {
	a, err := imgio.Load(args[0])
	if err != nil {
		return err
	}
	b, err := imgio.Load(args[1])
	if err != nil {
		return err
	}

	rmse, err := img.RMSE(a, b)
	if err != nil {
		return err
	}
	psnr, _ := img.PSNR(a, b)

	fmt.Println()
	fmt.Printf("  Size:  %dx%d, %d channels\n", a.Columns(), a.Rows(), a.Channels())
	fmt.Printf("  RMSE:  %.4f\n", rmse)
	if math.IsInf(psnr, 1) {
		fmt.Println("  PSNR:  inf (identical)")
	} else {
		fmt.Printf("  PSNR:  %.2f dB\n", psnr)
	}

	// Per-channel breakdown for color pairs.
	if a.Channels() == 3 {
		names := [3]string{"R", "G", "B"}
		ad, bd := a.Data(), b.Data()
		for ch := 0; ch < 3; ch++ {
			var sum float64
			for i := ch; i < len(ad); i += 3 {
				d := float64(ad[i]) - float64(bd[i])
				sum += d * d
			}
			chRMSE := math.Sqrt(sum / float64(len(ad)/3))
			fmt.Printf("    %s:   %.4f\n", names[ch], chRMSE)
		}
	}
	fmt.Println()
	return nil
}
