package da3d

import (
	"github.com/AnyUserName/da3d-cli/internal/dft"
	"github.com/AnyUserName/da3d-cli/internal/img"
	"github.com/AnyUserName/da3d-cli/internal/patch"
	"github.com/AnyUserName/da3d-cli/internal/weightmap"
)

// runBlock denoises a single padded tile.  noisy and guide carry the
// color transform already.  It returns the accumulated output and the
// per-pixel kernel weights; dividing one by the other downstream yields
// the estimate.
//
// The loop always refines the least-covered patch anchor, so the
// coverage minimum is non-decreasing and the loop terminates once it
// reaches the threshold.
func runBlock(noisy, guide *img.Image, sigma float32, p Params) (*img.Image, *img.Image) {
	s := NextPowerOf2(2*p.Radius + 1)
	r := p.Radius
	chans := guide.Channels()

	sigma2 := sigma * sigma
	gammaRSigma2 := p.GammaR * sigma2
	sigmaS2 := p.SigmaS * p.SigmaS

	// The detrending fit uses a wider, flatter kernel than the mask.
	gammaRRSigma2 := gammaRSigma2 * 10
	sigmaSR2 := sigmaS2 * 2

	y := img.New(s, s, chans)
	g := img.New(s, s, chans)
	kReg := img.New(s, s, 1)
	k := img.New(s, s, 1)
	ym := dft.NewPatch(s, chans)
	gm := dft.NewPatch(s, chans)
	plane := make([][2]float32, chans)
	avg := make([]float32, chans)
	aggWeights := weightmap.New(guide.Rows()-s+1, guide.Columns()-s+1)

	output := img.New(guide.Rows(), guide.Columns(), chans)
	weights := img.New(guide.Rows(), guide.Columns(), 1)

	for aggWeights.Minimum() < p.Threshold {
		pr, pc := aggWeights.FindMinimum()
		patch.Extract(noisy, pr, pc, y)
		patch.Extract(guide, pr, pc, g)

		patch.BilateralWeight(g, kReg, r, gammaRRSigma2, sigmaSR2)
		patch.RegressionPlane(y, g, kReg, r, plane)
		patch.SubtractPlane(r, plane, y)
		patch.SubtractPlane(r, plane, g)

		patch.BilateralWeight(g, k, r, gammaRSigma2, sigmaS2)
		patch.Modify(y, k, ym, avg)
		patch.Modify(g, k, gm, nil)
		ym.ToFreq()
		gm.ToFreq()

		var sigmaF2 float32
		for _, w := range k.Data() {
			sigmaF2 += w * w
		}
		sigmaF2 *= sigma2

		// Wiener-style shrinkage guided by the clean spectrum; the DC
		// bin is preserved exactly.
		for row := 0; row < s; row++ {
			for col := 0; col < s; col++ {
				if row == 0 && col == 0 {
					continue
				}
				for ch := 0; ch < chans; ch++ {
					g2 := gm.FreqPower(col, row, ch)
					ym.ScaleFreq(col, row, ch, expf(-p.GammaF*sigmaF2/g2))
				}
			}
		}
		ym.ToSpace()

		// Write-back: restore the trend under the mask, remove the DC
		// replacement, and weight everything by the kernel.
		for row := 0; row < s; row++ {
			for col := 0; col < s; col++ {
				kv := k.Val(col, row, 0)
				for ch := 0; ch < chans; ch++ {
					trend := plane[ch][0]*float32(row-r) + plane[ch][1]*float32(col-r)
					output.Add(col+pc, row+pr, ch,
						(ym.Space(col, row, ch)+trend*kv-(1-kv)*avg[ch])*kv)
				}
				k.SetVal(col, row, 0, kv*kv)
				weights.Add(col+pc, row+pr, 0, kv*kv)
			}
		}
		aggWeights.IncreaseWeights(k, pr-r, pc-r)
	}

	return output, weights
}
