package dft

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	p := NewPatch(16, 3)
	want := make([]float32, 16*16*3)
	i := 0
	for ch := 0; ch < 3; ch++ {
		for row := 0; row < 16; row++ {
			for col := 0; col < 16; col++ {
				v := float32((i*73)%251) / 3
				want[i] = v
				p.SetSpace(col, row, ch, v)
				i++
			}
		}
	}

	p.ToFreq()
	p.ToSpace()

	i = 0
	for ch := 0; ch < 3; ch++ {
		for row := 0; row < 16; row++ {
			for col := 0; col < 16; col++ {
				if diff := math.Abs(float64(p.Space(col, row, ch) - want[i])); diff > 1e-4 {
					t.Fatalf("(%d,%d,%d): drift %g after round trip", col, row, ch, diff)
				}
				i++
			}
		}
	}
}

func TestConstantPatchDC(t *testing.T) {
	// A constant patch concentrates everything in the DC bin:
	// side² times the constant, all other coefficients zero.
	const side = 8
	p := NewPatch(side, 1)
	for row := 0; row < side; row++ {
		for col := 0; col < side; col++ {
			p.SetSpace(col, row, 0, 3)
		}
	}
	p.ToFreq()

	dc := p.Freq(0, 0, 0)
	if math.Abs(real(dc)-3*side*side) > 1e-6 || math.Abs(imag(dc)) > 1e-6 {
		t.Errorf("DC: got %v, want %v", dc, complex(3*side*side, 0))
	}
	for row := 0; row < side; row++ {
		for col := 0; col < side; col++ {
			if row == 0 && col == 0 {
				continue
			}
			if cmplx.Abs(p.Freq(col, row, 0)) > 1e-6 {
				t.Fatalf("(%d,%d): non-zero AC coefficient %v", col, row, p.Freq(col, row, 0))
			}
		}
	}
}

func TestImpulseFlatSpectrum(t *testing.T) {
	// A unit impulse at the origin has unit magnitude everywhere.
	const side = 8
	p := NewPatch(side, 1)
	p.SetSpace(0, 0, 0, 1)
	p.ToFreq()
	for row := 0; row < side; row++ {
		for col := 0; col < side; col++ {
			if got := p.FreqPower(col, row, 0); math.Abs(float64(got)-1) > 1e-6 {
				t.Fatalf("(%d,%d): power %g, want 1", col, row, got)
			}
		}
	}
}

func TestScaleFreq(t *testing.T) {
	p := NewPatch(4, 1)
	p.SetSpace(1, 2, 0, 10)
	p.ToFreq()
	before := p.Freq(3, 1, 0)
	p.ScaleFreq(3, 1, 0, 0.5)
	after := p.Freq(3, 1, 0)
	if cmplx.Abs(after-before*complex(0.5, 0)) > 1e-12 {
		t.Errorf("scale: got %v, want %v", after, before*complex(0.5, 0))
	}
}

func TestChannelsIndependent(t *testing.T) {
	p := NewPatch(4, 2)
	p.SetSpace(1, 1, 0, 5)
	p.ToFreq()
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			if p.FreqPower(col, row, 1) != 0 {
				t.Fatal("transforming leaked into an untouched channel")
			}
		}
	}
}

func BenchmarkToFreq_16x3(b *testing.B) {
	p := NewPatch(16, 3)
	for row := 0; row < 16; row++ {
		for col := 0; col < 16; col++ {
			for ch := 0; ch < 3; ch++ {
				p.SetSpace(col, row, ch, float32((row*16+col)%97))
			}
		}
	}
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p.ToFreq()
		p.ToSpace()
	}
}
