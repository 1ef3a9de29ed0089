// Package glyph turns captcha strips into fixed-size monochrome grids and
// recentres each grid on its ink.
package glyph

// Grid is a square, row-major matrix of 0 (background) and 1 (ink).
type Grid struct {
	Size int
	Pix  []byte
}

// NewGrid returns an all-background grid of side size.
func NewGrid(size int) Grid {
	return Grid{Size: size, Pix: make([]byte, size*size)}
}

// At reports the value at (x, y); positions outside the grid are background.
func (g Grid) At(x, y int) byte {
	if x < 0 || y < 0 || x >= g.Size || y >= g.Size {
		return 0
	}
	return g.Pix[g.Size*y+x]
}

// Ink counts the set pixels.
func (g Grid) Ink() int {
	n := 0
	for _, v := range g.Pix {
		n += int(v)
	}
	return n
}

// Floats flattens the grid into network input.
func (g Grid) Floats() []float64 {
	out := make([]float64, len(g.Pix))
	for i, v := range g.Pix {
		out[i] = float64(v)
	}
	return out
}

// String renders the grid with '#' for ink, one row per line.
func (g Grid) String() string {
	buf := make([]byte, 0, g.Size*(g.Size+1))
	for y := 0; y < g.Size; y++ {
		for x := 0; x < g.Size; x++ {
			if g.At(x, y) != 0 {
				buf = append(buf, '#')
			} else {
				buf = append(buf, '.')
			}
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}
