// Package dft implements the square frequency-domain patch used by the
// denoising loop.  A Patch holds one complex buffer per channel with two
// views of the same storage: a "space" view (real part, imaginary zeroed
// by writers) and a "frequency" view after ToFreq.
//
// The 2-D transform is separable: rows then columns through a single
// gonum complex FFT plan.  The forward pass is unnormalized and the
// inverse divides by side², so a round trip is the identity.
package dft

import (
	"gonum.org/v1/gonum/dsp/fourier"
)

// Patch is a side×side×chans complex buffer with an FFT plan.
type Patch struct {
	side  int
	chans int
	data  []complex128 // channel-major: (ch*side+row)*side+col
	col   []complex128 // column gather scratch
	fft   *fourier.CmplxFFT
}

// NewPatch allocates a zeroed patch with its own transform plan.
// Plans are not shared, so patches are safe to use from separate
// goroutines.
func NewPatch(side, chans int) *Patch {
	return &Patch{
		side:  side,
		chans: chans,
		data:  make([]complex128, side*side*chans),
		col:   make([]complex128, side),
		fft:   fourier.NewCmplxFFT(side),
	}
}

func (p *Patch) Side() int     { return p.side }
func (p *Patch) Channels() int { return p.chans }

func (p *Patch) idx(col, row, ch int) int {
	return (ch*p.side+row)*p.side + col
}

// Space reads the real part at (col, row, ch).
func (p *Patch) Space(col, row, ch int) float32 {
	return float32(real(p.data[p.idx(col, row, ch)]))
}

// SetSpace writes a real value at (col, row, ch), zeroing the imaginary
// slot.
func (p *Patch) SetSpace(col, row, ch int, v float32) {
	p.data[p.idx(col, row, ch)] = complex(float64(v), 0)
}

// Freq reads the coefficient at (col, row, ch).
func (p *Patch) Freq(col, row, ch int) complex128 {
	return p.data[p.idx(col, row, ch)]
}

// FreqPower returns the squared magnitude of the coefficient at
// (col, row, ch).
func (p *Patch) FreqPower(col, row, ch int) float32 {
	c := p.data[p.idx(col, row, ch)]
	return float32(real(c)*real(c) + imag(c)*imag(c))
}

// ScaleFreq multiplies the coefficient at (col, row, ch) by k.
func (p *Patch) ScaleFreq(col, row, ch int, k float32) {
	p.data[p.idx(col, row, ch)] *= complex(float64(k), 0)
}

// ToFreq applies the forward 2-D DFT per channel in place.
func (p *Patch) ToFreq() {
	for ch := 0; ch < p.chans; ch++ {
		base := ch * p.side * p.side
		for row := 0; row < p.side; row++ {
			r := p.data[base+row*p.side : base+(row+1)*p.side]
			p.fft.Coefficients(r, r)
		}
		for col := 0; col < p.side; col++ {
			for row := 0; row < p.side; row++ {
				p.col[row] = p.data[base+row*p.side+col]
			}
			p.fft.Coefficients(p.col, p.col)
			for row := 0; row < p.side; row++ {
				p.data[base+row*p.side+col] = p.col[row]
			}
		}
	}
}

// ToSpace applies the inverse 2-D DFT per channel in place and divides
// by side² so that ToFreq followed by ToSpace is the identity.
func (p *Patch) ToSpace() {
	inv := complex(1/float64(p.side*p.side), 0)
	for ch := 0; ch < p.chans; ch++ {
		base := ch * p.side * p.side
		for row := 0; row < p.side; row++ {
			r := p.data[base+row*p.side : base+(row+1)*p.side]
			p.fft.Sequence(r, r)
		}
		for col := 0; col < p.side; col++ {
			for row := 0; row < p.side; row++ {
				p.col[row] = p.data[base+row*p.side+col]
			}
			p.fft.Sequence(p.col, p.col)
			for row := 0; row < p.side; row++ {
				p.data[base+row*p.side+col] = p.col[row] * inv
			}
		}
	}
}
