// Package tiling partitions an image into a rectangular grid of padded
// tiles for data-parallel processing and merges the partial results back
// together.  Out-of-range reads use half-pixel mirror reflection, so a
// split never touches memory outside the source.
package tiling

import (
	"math"

	"github.com/AnyUserName/da3d-cli/internal/img"
)

// Grid is a tile layout: Rows*Cols tiles covering the image.
type Grid struct {
	Rows, Cols int
}

// Compute picks the factor pair (tr, tc) with tr*tc == n whose tile
// aspect ratio is closest to the image aspect ratio.
func Compute(rows, cols, n int) Grid {
	best := math.Sqrt(float64(n*rows) / float64(cols))
	lo := int(best)
	up := lo + 1
	if lo < 1 {
		return Grid{1, n}
	}
	if up > n {
		return Grid{n, 1}
	}
	for n%lo != 0 {
		lo--
	}
	for n%up != 0 {
		up++
	}
	if up*lo*cols >= n*rows {
		return Grid{lo, n / lo}
	}
	return Grid{up, n / up}
}

// SymmetricCoordinate reflects an out-of-range position back into
// [0, size) with the half-pixel mirror rule.
func SymmetricCoordinate(pos, size int) int {
	if pos < 0 {
		pos = -pos - 1
	}
	if pos >= 2*size {
		pos %= 2 * size
	}
	if pos >= size {
		pos = 2*size - 1 - pos
	}
	return pos
}

// Split cuts src into g.Rows*g.Cols tiles, each extended by padBefore
// rows/columns before its interior and padAfter rows/columns after.
// Tiles are returned in row-major grid order.
func Split(src *img.Image, padBefore, padAfter int, g Grid) []*img.Image {
	rows, cols, chans := src.Shape()
	tiles := make([]*img.Image, 0, g.Rows*g.Cols)
	for tr := 0; tr < g.Rows; tr++ {
		rstart := rows*tr/g.Rows - padBefore
		rend := rows*(tr+1)/g.Rows + padAfter
		for tc := 0; tc < g.Cols; tc++ {
			cstart := cols*tc/g.Cols - padBefore
			cend := cols*(tc+1)/g.Cols + padAfter
			tile := img.New(rend-rstart, cend-cstart, chans)
			for row := rstart; row < rend; row++ {
				srow := SymmetricCoordinate(row, rows)
				for col := cstart; col < cend; col++ {
					scol := SymmetricCoordinate(col, cols)
					for ch := 0; ch < chans; ch++ {
						tile.SetVal(col-cstart, row-rstart, ch, src.Val(scol, srow, ch))
					}
				}
			}
			tiles = append(tiles, tile)
		}
	}
	return tiles
}

// Merge recombines per-tile (value, coverage) pairs of the same padded
// geometry as Split produced.  Values and coverages are summed where
// tiles overlap and the sum is divided through by the total coverage.
// Every destination pixel must be covered by at least one tile.
func Merge(values, coverages []*img.Image, rows, cols, padBefore, padAfter int, g Grid) *img.Image {
	chans := values[0].Channels()
	result := img.New(rows, cols, chans)
	weight := img.New(rows, cols, 1)
	i := 0
	for tr := 0; tr < g.Rows; tr++ {
		rstart := rows*tr/g.Rows - padBefore
		rend := rows*(tr+1)/g.Rows + padAfter
		for tc := 0; tc < g.Cols; tc++ {
			cstart := cols*tc/g.Cols - padBefore
			cend := cols*(tc+1)/g.Cols + padAfter
			value, cover := values[i], coverages[i]
			i++
			for row := max(0, rstart); row < min(rows, rend); row++ {
				for col := max(0, cstart); col < min(cols, cend); col++ {
					for ch := 0; ch < chans; ch++ {
						result.Add(col, row, ch, value.Val(col-cstart, row-rstart, ch))
					}
					weight.Add(col, row, 0, cover.Val(col-cstart, row-rstart, 0))
				}
			}
		}
	}
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			w := weight.Val(col, row, 0)
			for ch := 0; ch < chans; ch++ {
				result.SetVal(col, row, ch, result.Val(col, row, ch)/w)
			}
		}
	}
	return result
}
