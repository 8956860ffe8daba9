// Package img provides the float32 image buffer shared by every stage of
// the denoising engine.
//
// Layout is channel-interleaved row-major:
//
//	data[(row*cols+col)*chans+ch]
//
// Performance design:
//   - float32 throughout (matches the single-precision engine contract)
//   - linear-index access for the hot patch-copy loops (no triple index math)
//   - shape is fixed at construction; values are mutable
package img

// Image is a rows×cols×chans buffer of 32-bit floats.
type Image struct {
	rows, cols, chans int
	data              []float32
}

// New allocates a zeroed image of the given shape.
func New(rows, cols, chans int) *Image {
	return &Image{
		rows:  rows,
		cols:  cols,
		chans: chans,
		data:  make([]float32, rows*cols*chans),
	}
}

// FromData adopts an externally supplied buffer without copying.
// The slice must hold rows*cols*chans values laid out channel-interleaved
// row-major: data[(row*cols+col)*chans+ch].
func FromData(data []float32, rows, cols, chans int) *Image {
	return &Image{rows: rows, cols: cols, chans: chans, data: data}
}

func (m *Image) Rows() int     { return m.rows }
func (m *Image) Columns() int  { return m.cols }
func (m *Image) Channels() int { return m.chans }

// Shape returns (rows, cols, chans).
func (m *Image) Shape() (int, int, int) { return m.rows, m.cols, m.chans }

// Size is the number of float32 elements.
func (m *Image) Size() int { return len(m.data) }

// Data exposes the backing slice for bulk copies.
func (m *Image) Data() []float32 { return m.data }

// Val reads the element at (col, row, ch).
func (m *Image) Val(col, row, ch int) float32 {
	return m.data[(row*m.cols+col)*m.chans+ch]
}

// SetVal writes the element at (col, row, ch).
func (m *Image) SetVal(col, row, ch int, v float32) {
	m.data[(row*m.cols+col)*m.chans+ch] = v
}

// Add accumulates into the element at (col, row, ch).
func (m *Image) Add(col, row, ch int, v float32) {
	m.data[(row*m.cols+col)*m.chans+ch] += v
}

// At reads by linear index.
func (m *Image) At(i int) float32 { return m.data[i] }

// SetAt writes by linear index.
func (m *Image) SetAt(i int, v float32) { m.data[i] = v }

// Copy returns an independent deep duplicate.
func (m *Image) Copy() *Image {
	dup := &Image{
		rows:  m.rows,
		cols:  m.cols,
		chans: m.chans,
		data:  make([]float32, len(m.data)),
	}
	copy(dup.data, m.data)
	return dup
}

// SameShape reports whether two images have identical geometry.
func (m *Image) SameShape(o *Image) bool {
	return m.rows == o.rows && m.cols == o.cols && m.chans == o.chans
}

// Fill sets every element to v.
func (m *Image) Fill(v float32) {
	for i := range m.data {
		m.data[i] = v
	}
}
