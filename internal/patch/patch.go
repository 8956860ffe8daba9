// Package patch holds the per-iteration operations of the denoising
// loop: patch extraction, bilateral weighting, regression-plane
// detrending and the masked windowing that prepares a patch for the
// frequency domain.
//
// All kernels here are strictly positive Gaussians, so weight sums never
// vanish and the masked average is always defined.
package patch

import (
	"math"

	"github.com/AnyUserName/da3d-cli/internal/dft"
	"github.com/AnyUserName/da3d-cli/internal/img"
)

func expf(x float32) float32 {
	return float32(math.Exp(float64(x)))
}

// Extract copies the dst-shaped block anchored at (pr, pc) out of a
// padded source.  Walks linear indices; dst must not be wider than src.
func Extract(src *img.Image, pr, pc int, dst *img.Image) {
	srcData, dstData := src.Data(), dst.Data()
	rowLen := dst.Columns() * dst.Channels()
	skip := (src.Columns() - dst.Columns()) * src.Channels()
	j := (pr*src.Columns() + pc) * src.Channels()
	i := 0
	for row := 0; row < dst.Rows(); row++ {
		copy(dstData[i:i+rowLen], srcData[j:j+rowLen])
		i += rowLen
		j += rowLen + skip
	}
}

// BilateralWeight fills k with the bilateral kernel of g around its
// central pixel (r, r): color distance scaled by gammaRSigma2 plus
// spatial distance scaled by 2·sigmaS2, through a negative exponential.
func BilateralWeight(g, k *img.Image, r int, gammaRSigma2, sigmaS2 float32) {
	chans := g.Channels()
	for row := 0; row < g.Rows(); row++ {
		for col := 0; col < g.Columns(); col++ {
			var x float32
			for ch := 0; ch < chans; ch++ {
				d := g.Val(col, row, ch) - g.Val(r, r, ch)
				x += d * d
			}
			x /= gammaRSigma2
			x += float32((row-r)*(row-r)+(col-r)*(col-r)) / (2 * sigmaS2)
			k.SetVal(col, row, 0, expf(-x))
		}
	}
}

// RegressionPlane fits, per channel, the affine trend
// β_row·(row−r) + β_col·(col−r) to y by weighted least squares with
// weights k, measured against the guide's central value.  A singular
// normal system yields the zero plane.
func RegressionPlane(y, g, k *img.Image, r int, plane [][2]float32) {
	var a, b, c float32
	for row := 0; row < y.Rows(); row++ {
		for col := 0; col < y.Columns(); col++ {
			w := k.Val(col, row, 0)
			a += float32((row-r)*(row-r)) * w
			b += float32((row-r)*(col-r)) * w
			c += float32((col-r)*(col-r)) * w
		}
	}
	det := a*c - b*b
	if det == 0 {
		for ch := range plane {
			plane[ch][0] = 0
			plane[ch][1] = 0
		}
		return
	}
	for ch := range plane {
		var d, e float32
		central := g.Val(r, r, ch)
		for row := 0; row < y.Rows(); row++ {
			for col := 0; col < y.Columns(); col++ {
				w := k.Val(col, row, 0)
				dy := y.Val(col, row, ch) - central
				d += float32(row-r) * dy * w
				e += float32(col-r) * dy * w
			}
		}
		// Cramer on [[a b][b c]]·β = [d e].
		plane[ch][0] = (c*d - b*e) / det
		plane[ch][1] = (a*e - b*d) / det
	}
}

// SubtractPlane removes the fitted trend from m in place.
func SubtractPlane(r int, plane [][2]float32, m *img.Image) {
	for row := 0; row < m.Rows(); row++ {
		for col := 0; col < m.Columns(); col++ {
			for ch := 0; ch < m.Channels(); ch++ {
				m.Add(col, row, ch, -(plane[ch][0]*float32(row-r) + plane[ch][1]*float32(col-r)))
			}
		}
	}
}

// AddPlane restores the fitted trend to m in place.
func AddPlane(r int, plane [][2]float32, m *img.Image) {
	for row := 0; row < m.Rows(); row++ {
		for col := 0; col < m.Columns(); col++ {
			for ch := 0; ch < m.Channels(); ch++ {
				m.Add(col, row, ch, plane[ch][0]*float32(row-r)+plane[ch][1]*float32(col-r))
			}
		}
	}
}

// Modify windows p by the kernel k into the space view of dst, replacing
// the masked-out content with the kernel-weighted channel average:
//
//	dst = k·p + (1−k)·avg
//
// When avg is non-nil the per-channel averages are written there.
func Modify(p, k *img.Image, dst *dft.Patch, avg []float32) {
	var weight float32
	kData := k.Data()
	for _, w := range kData {
		weight += w
	}

	for ch := 0; ch < p.Channels(); ch++ {
		var a float32
		for row := 0; row < p.Rows(); row++ {
			for col := 0; col < p.Columns(); col++ {
				a += k.Val(col, row, 0) * p.Val(col, row, ch)
			}
		}
		a /= weight
		for row := 0; row < p.Rows(); row++ {
			for col := 0; col < p.Columns(); col++ {
				w := k.Val(col, row, 0)
				dst.SetSpace(col, row, ch, w*p.Val(col, row, ch)+(1-w)*a)
			}
		}
		if avg != nil {
			avg[ch] = a
		}
	}
}
