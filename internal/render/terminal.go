package render

import (
	"image"
	"image/color"
)

// Cell is one terminal character cell drawn as an upper half block: Top is
// the foreground colour and Bottom the background.
type Cell struct {
	Top    color.RGBA
	Bottom color.RGBA
}

// HalfBlocks downsamples img to cols×rows cells, each covering two vertically
// stacked samples. Cells are returned row-major. Each sample is the average of
// the pixels it covers.
func HalfBlocks(img *image.RGBA, cols, rows int) []Cell {
	if img == nil || cols <= 0 || rows <= 0 {
		return nil
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	cells := make([]Cell, cols*rows)
	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			x0, x1 := span(cx, cols, w)
			ty0, ty1 := span(2*cy, 2*rows, h)
			by0, by1 := span(2*cy+1, 2*rows, h)
			cells[cy*cols+cx] = Cell{
				Top:    average(img, b.Min.X+x0, b.Min.Y+ty0, b.Min.X+x1, b.Min.Y+ty1),
				Bottom: average(img, b.Min.X+x0, b.Min.Y+by0, b.Min.X+x1, b.Min.Y+by1),
			}
		}
	}
	return cells
}

// span returns the pixel range covered by sample i of n over size pixels.
// The range always holds at least one pixel.
func span(i, n, size int) (int, int) {
	lo := i * size / n
	hi := (i + 1) * size / n
	if hi <= lo {
		hi = lo + 1
	}
	if hi > size {
		hi = size
		lo = min(lo, size-1)
	}
	return lo, hi
}

func average(img *image.RGBA, x0, y0, x1, y1 int) color.RGBA {
	var r, g, b, n int
	for y := y0; y < y1; y++ {
		i := img.PixOffset(x0, y)
		for x := x0; x < x1; x++ {
			r += int(img.Pix[i])
			g += int(img.Pix[i+1])
			b += int(img.Pix[i+2])
			i += 4
			n++
		}
	}
	if n == 0 {
		return color.RGBA{A: 0xff}
	}
	return color.RGBA{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n), A: 0xff}
}
