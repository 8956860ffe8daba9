// Package colorspace applies the orthonormal luminance/chrominance
// decorrelation used around the denoising core.  The forward map sends
// (r, g, b) to
//
//	y = (r + g + b)/√3
//	u = (r − b)/√2
//	v = (r − 2g + b)/√6
//
// and the inverse is its transpose, so a forward/inverse round trip is
// the identity up to rounding.  One-channel images pass through untouched.
package colorspace

import (
	"math"

	"github.com/AnyUserName/da3d-cli/internal/img"
)

var (
	inv2 = float32(1 / math.Sqrt2)
	inv3 = float32(1 / math.Sqrt(3))
	inv6 = float32(1 / math.Sqrt(6))
)

// Transform decorrelates a 3-channel image in place.
func Transform(m *img.Image) {
	if m.Channels() != 3 {
		return
	}
	data := m.Data()
	for i := 0; i < len(data); i += 3 {
		r, g, b := data[i], data[i+1], data[i+2]
		data[i] = (r + g + b) * inv3
		data[i+1] = (r - b) * inv2
		data[i+2] = (r - 2*g + b) * inv6
	}
}

// TransformInverse undoes Transform in place.
func TransformInverse(m *img.Image) {
	if m.Channels() != 3 {
		return
	}
	data := m.Data()
	for i := 0; i < len(data); i += 3 {
		y, u, v := data[i], data[i+1], data[i+2]
		data[i] = y*inv3 + u*inv2 + v*inv6
		data[i+1] = y*inv3 - 2*v*inv6
		data[i+2] = y*inv3 - u*inv2 + v*inv6
	}
}
