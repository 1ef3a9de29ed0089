package glyph

import "glyphnet/internal/captcha"

// Binarize slices raw into chars square cells of side size, left to
// right, and classifies each pixel: R+G+B above threshold is background,
// anything else is ink. Alpha is ignored and pixels the buffer does not
// cover are background.
func Binarize(raw *captcha.Raw, chars, size, threshold int) []Grid {
	grids := make([]Grid, chars)
	for i := 0; i < chars; i++ {
		g := NewGrid(size)
		for y := 0; y < size; y++ {
			if y >= raw.Height {
				break
			}
			for x := 0; x < size; x++ {
				sx := i*size + x
				if sx >= raw.Width {
					break
				}
				idx := (raw.Width*y + sx) * 4
				sum := int(raw.Data[idx]) + int(raw.Data[idx+1]) + int(raw.Data[idx+2])
				if sum <= threshold {
					g.Pix[size*y+x] = 1
				}
			}
		}
		grids[i] = g
	}
	return grids
}
