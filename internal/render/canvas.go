package render

import (
	"image"
	"image/color"
	"math"
)

// Canvas is a software Surface backed by an RGBA image. Its pixels persist
// between frames so Fade produces exponentially decaying trails.
type Canvas struct {
	img   *image.RGBA
	blend BlendMode
}

// NewCanvas creates a black canvas of the given size.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{}
	c.Resize(width, height)
	return c
}

// Resize reallocates the canvas, clearing it to opaque black.
// Non-positive dimensions produce an empty canvas.
func (c *Canvas) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	c.img = image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 3; i < len(c.img.Pix); i += 4 {
		c.img.Pix[i] = 0xff
	}
}

// Size returns the canvas dimensions.
func (c *Canvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

// Image returns the backing image. It is overwritten by later draws.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Snapshot returns a copy of the current pixels.
func (c *Canvas) Snapshot() *image.RGBA {
	out := image.NewRGBA(c.img.Rect)
	copy(out.Pix, c.img.Pix)
	return out
}

// Fade scales every colour channel by 1-alpha, the result of painting black
// over the canvas at the given opacity. Alpha stays opaque.
func (c *Canvas) Fade(alpha float64) {
	keep := 1 - clampUnit(alpha)
	pix := c.img.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i] = uint8(float64(pix[i]) * keep)
		pix[i+1] = uint8(float64(pix[i+1]) * keep)
		pix[i+2] = uint8(float64(pix[i+2]) * keep)
	}
}

// SetBlend switches the compositing mode.
func (c *Canvas) SetBlend(mode BlendMode) {
	c.blend = mode
}

// FillCircle paints an antialiased disc. Pixel coverage is approximated by the
// distance from the pixel centre to the rim, which keeps sub-pixel particles visible.
func (c *Canvas) FillCircle(x, y, r float64, col color.RGBA, alpha float64) {
	alpha = clampUnit(alpha)
	if r <= 0 || alpha == 0 || math.IsNaN(x) || math.IsNaN(y) {
		return
	}

	b := c.img.Bounds()
	x0 := max(int(math.Floor(x-r-1)), b.Min.X)
	y0 := max(int(math.Floor(y-r-1)), b.Min.Y)
	x1 := min(int(math.Ceil(x+r+1)), b.Max.X)
	y1 := min(int(math.Ceil(y+r+1)), b.Max.Y)
	if x0 >= x1 || y0 >= y1 {
		return
	}

	for py := y0; py < y1; py++ {
		dy := float64(py) + 0.5 - y
		for px := x0; px < x1; px++ {
			dx := float64(px) + 0.5 - x
			cover := r + 0.5 - math.Sqrt(dx*dx+dy*dy)
			if cover <= 0 {
				continue
			}
			if cover > 1 {
				cover = 1
			}
			c.blendPixel(px, py, col, alpha*cover)
		}
	}
}

func (c *Canvas) blendPixel(x, y int, col color.RGBA, a float64) {
	i := c.img.PixOffset(x, y)
	pix := c.img.Pix[i : i+3 : i+3]
	src := [3]uint8{col.R, col.G, col.B}
	for ch := 0; ch < 3; ch++ {
		d := float64(pix[ch])
		s := float64(src[ch])
		var v float64
		switch c.blend {
		case BlendLighter:
			v = d + s*a
		default:
			v = d*(1-a) + s*a
		}
		pix[ch] = clampByte(v)
	}
}

func clampUnit(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampByte(v float64) uint8 {
	if v >= 255 {
		return 255
	}
	if v <= 0 {
		return 0
	}
	return uint8(v + 0.5)
}
