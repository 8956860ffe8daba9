// Package weightmap tracks the cumulative coverage of every valid patch
// anchor in a tile.  The map drives patch selection (always the least
// covered anchor) and terminates the loop once the minimum reaches the
// aggregation threshold.
package weightmap

import (
	"math"

	"github.com/AnyUserName/da3d-cli/internal/img"
)

// Map is a rows×cols field of per-anchor coverage, initialized to zero.
type Map struct {
	rows, cols int
	data       []float32
}

// New allocates a zeroed map.
func New(rows, cols int) *Map {
	return &Map{rows: rows, cols: cols, data: make([]float32, rows*cols)}
}

func (m *Map) Rows() int    { return m.rows }
func (m *Map) Columns() int { return m.cols }

// Minimum returns the smallest coverage value.
func (m *Map) Minimum() float32 {
	min := float32(math.Inf(1))
	for _, v := range m.data {
		if v < min {
			min = v
		}
	}
	return min
}

// FindMinimum returns the coordinates of the smallest value.  Ties go to
// the first cell in row-major order, which the linear scan yields for
// free.
func (m *Map) FindMinimum() (pr, pc int) {
	min := float32(math.Inf(1))
	for row := 0; row < m.rows; row++ {
		for col := 0; col < m.cols; col++ {
			if v := m.data[row*m.cols+col]; v < min {
				min = v
				pr, pc = row, col
			}
		}
	}
	return pr, pc
}

// IncreaseWeights adds the kernel k, anchored at (rowOff, colOff) in map
// coordinates, to every overlapped cell.  Contributions outside the map
// are discarded.
func (m *Map) IncreaseWeights(k *img.Image, rowOff, colOff int) {
	for i := max(0, rowOff); i < min(m.rows, rowOff+k.Rows()); i++ {
		for j := max(0, colOff); j < min(m.cols, colOff+k.Columns()); j++ {
			m.data[i*m.cols+j] += k.Val(j-colOff, i-rowOff, 0)
		}
	}
}
