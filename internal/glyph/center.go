package glyph

import "math"

// Box is an inclusive ink bounding box.
type Box struct {
	MinX, MinY, MaxX, MaxY int
}

// Bounds returns the ink bounding box. When the grid holds no ink, ok is
// false and the box is the degenerate {Size, Size, 0, 0}.
func Bounds(g Grid) (box Box, ok bool) {
	box = Box{MinX: g.Size, MinY: g.Size}
	for y := 0; y < g.Size; y++ {
		for x := 0; x < g.Size; x++ {
			if g.Pix[g.Size*y+x] == 0 {
				continue
			}
			ok = true
			if x < box.MinX {
				box.MinX = x
			}
			if y < box.MinY {
				box.MinY = y
			}
			if x > box.MaxX {
				box.MaxX = x
			}
			if y > box.MaxY {
				box.MaxY = y
			}
		}
	}
	return box, ok
}

// Offset is the translation that moves the midpoint of box onto the
// midpoint of a grid of side size, rounded down.
func Offset(box Box, size int) (dx, dy int) {
	half := float64(size) / 2
	dx = int(math.Floor(half - (float64(box.MinX) + float64(box.MaxX-box.MinX)/2)))
	dy = int(math.Floor(half - (float64(box.MinY) + float64(box.MaxY-box.MinY)/2)))
	return dx, dy
}

// Center returns a new grid with the ink of g translated so its bounding
// box is centred. Ink pushed off the grid is dropped. A grid without ink
// yields an empty grid.
func Center(g Grid) Grid {
	out := NewGrid(g.Size)
	box, ok := Bounds(g)
	if !ok {
		return out
	}
	dx, dy := Offset(box, g.Size)
	for y := box.MinY; y <= box.MaxY; y++ {
		ty := y + dy
		if ty < 0 || ty >= g.Size {
			continue
		}
		for x := box.MinX; x <= box.MaxX; x++ {
			tx := x + dx
			if tx < 0 || tx >= g.Size {
				continue
			}
			if g.Pix[g.Size*y+x] != 0 {
				out.Pix[g.Size*ty+tx] = 1
			}
		}
	}
	return out
}
