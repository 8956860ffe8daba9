package img

import (
	"fmt"
	"math"
)

// RMSE returns the root mean squared error between two images of the
// same shape, in image units.
func RMSE(a, b *Image) (float64, error) {
	if !a.SameShape(b) {
		ar, ac, ach := a.Shape()
		br, bc, bch := b.Shape()
		return 0, fmt.Errorf("shape %dx%dx%d does not match %dx%dx%d",
			ar, ac, ach, br, bc, bch)
	}
	if a.Size() == 0 {
		return 0, fmt.Errorf("empty image")
	}
	var sum float64
	ad, bd := a.Data(), b.Data()
	for i := range ad {
		d := float64(ad[i]) - float64(bd[i])
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(ad))), nil
}

// PSNR returns the peak signal-to-noise ratio in dB for a 255 peak.
// Identical images give +Inf.
func PSNR(a, b *Image) (float64, error) {
	rmse, err := RMSE(a, b)
	if err != nil {
		return 0, err
	}
	if rmse == 0 {
		return math.Inf(1), nil
	}
	return 20 * math.Log10(255/rmse), nil
}
