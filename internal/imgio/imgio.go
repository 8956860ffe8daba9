// Package imgio bridges the engine's float32 buffers to Go images.
// Pixel values are kept in image units [0, 255].
//
// Fast paths: NRGBA and Gray avoid image.At entirely.  Gray sources map to
// 1-channel buffers so grayscale inputs bypass the color transform.
package imgio

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/AnyUserName/da3d-cli/internal/img"
)

// FromImage converts a decoded image into a float32 buffer: Gray sources
// become 1-channel, everything else 3-channel RGB.
func FromImage(src image.Image) *img.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	switch s := src.(type) {
	case *image.Gray:
		m := img.New(h, w, 1)
		data := m.Data()
		di := 0
		for y := 0; y < h; y++ {
			off := (y+bounds.Min.Y-s.Rect.Min.Y)*s.Stride + bounds.Min.X - s.Rect.Min.X
			for x := 0; x < w; x++ {
				data[di] = float32(s.Pix[off+x])
				di++
			}
		}
		return m
	case *image.NRGBA:
		m := img.New(h, w, 3)
		data := m.Data()
		di := 0
		for y := 0; y < h; y++ {
			off := (y+bounds.Min.Y-s.Rect.Min.Y)*s.Stride + (bounds.Min.X-s.Rect.Min.X)*4
			for x := 0; x < w; x++ {
				data[di] = float32(s.Pix[off])
				data[di+1] = float32(s.Pix[off+1])
				data[di+2] = float32(s.Pix[off+2])
				off += 4
				di += 3
			}
		}
		return m
	default:
		m := img.New(h, w, 3)
		data := m.Data()
		di := 0
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				r, g, b, _ := src.At(x, y).RGBA()
				data[di] = float32(r >> 8)
				data[di+1] = float32(g >> 8)
				data[di+2] = float32(b >> 8)
				di += 3
			}
		}
		return m
	}
}

// ToImage converts a float32 buffer back to a Go image, clamping to
// [0, 255] and rounding.  1-channel buffers become Gray, 3-channel NRGBA.
func ToImage(m *img.Image) image.Image {
	rows, cols, chans := m.Shape()
	switch chans {
	case 1:
		out := image.NewGray(image.Rect(0, 0, cols, rows))
		data := m.Data()
		for i, v := range data {
			out.Pix[i] = clampByte(v)
		}
		return out
	default:
		out := image.NewNRGBA(image.Rect(0, 0, cols, rows))
		data := m.Data()
		di := 0
		for i := 0; i < len(data); i += 3 {
			out.Pix[di] = clampByte(data[i])
			out.Pix[di+1] = clampByte(data[i+1])
			out.Pix[di+2] = clampByte(data[i+2])
			out.Pix[di+3] = 255
			di += 4
		}
		return out
	}
}

// Load decodes an image file into a float32 buffer.
func Load(path string) (*img.Image, error) {
	src, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return FromImage(src), nil
}

// Save clamps, converts and writes a buffer; the format follows the file
// extension.
func Save(path string, m *img.Image) error {
	if err := imaging.Save(ToImage(m), path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// SynthesizeGuide builds a stand-in guide by Gaussian pre-blurring the
// decoded noisy image.  A real first-stage denoiser is better; this keeps
// the tool usable on its own.
func SynthesizeGuide(src image.Image, blurSigma float64) *img.Image {
	if g, ok := src.(*image.Gray); ok {
		// imaging promotes everything to NRGBA; keep grayscale 1-channel.
		blurred := imaging.Blur(g, blurSigma)
		m := FromImage(blurred)
		gray := img.New(m.Rows(), m.Columns(), 1)
		for row := 0; row < m.Rows(); row++ {
			for col := 0; col < m.Columns(); col++ {
				gray.SetVal(col, row, 0, m.Val(col, row, 0))
			}
		}
		return gray
	}
	return FromImage(imaging.Blur(src, blurSigma))
}

func clampByte(v float32) uint8 {
	r := math.Round(float64(v))
	if r < 0 {
		return 0
	}
	if r > 255 {
		return 255
	}
	return uint8(r)
}
