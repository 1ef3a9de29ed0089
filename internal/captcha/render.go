// Package captcha renders labelled captcha strips and decodes them back
// into raw RGBA pixel buffers.
package captcha

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math/rand"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Params describes one captcha to generate.
type Params struct {
	Count    int
	Height   int
	Alphabet string
	Fonts    []string
	Seed     int64
}

// Generator produces a captcha and the text drawn on it.
type Generator interface {
	Generate(ctx context.Context, p Params) (text string, encoded []byte, err error)
}

// Renderer draws Count characters from the alphabet into square cells
// of side Height, dark ink on a light background, and encodes the strip
// as PNG.
type Renderer struct {
	fonts map[string][]Font
	order []string
}

// NewRenderer loads every font descriptor up front.
func NewRenderer(descriptors []string) (*Renderer, error) {
	if len(descriptors) == 0 {
		return nil, errors.New("captcha: no fonts configured")
	}
	fonts, err := LoadFonts(descriptors)
	if err != nil {
		return nil, err
	}
	return &Renderer{fonts: fonts, order: append([]string(nil), descriptors...)}, nil
}

// Generate implements Generator. Output depends only on p.
func (r *Renderer) Generate(ctx context.Context, p Params) (string, []byte, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	if p.Count <= 0 || p.Height <= 0 {
		return "", nil, fmt.Errorf("captcha: invalid geometry count=%d height=%d", p.Count, p.Height)
	}
	if p.Alphabet == "" {
		return "", nil, errors.New("captcha: empty alphabet")
	}
	pool, err := r.pool(p.Fonts)
	if err != nil {
		return "", nil, err
	}

	rng := rand.New(rand.NewSource(p.Seed))
	img := image.NewNRGBA(image.Rect(0, 0, p.Count*p.Height, p.Height))
	bg := uint8(215 + rng.Intn(41))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.NRGBA{R: bg, G: bg, B: bg, A: 0xff}), image.Point{}, draw.Src)

	text := make([]byte, p.Count)
	faceSize := float64(p.Height) * 0.8
	for i := 0; i < p.Count; i++ {
		text[i] = p.Alphabet[rng.Intn(len(p.Alphabet))]
		face := pool[rng.Intn(len(pool))].Face(faceSize)
		ink := uint8(rng.Intn(64))
		cell := img.SubImage(image.Rect(i*p.Height, 0, (i+1)*p.Height, p.Height)).(*image.NRGBA)
		drawGlyph(cell, face, text[i], color.NRGBA{R: ink, G: ink, B: ink, A: 0xff}, rng)
		face.Close()
	}

	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		return "", nil, fmt.Errorf("encode captcha: %w", err)
	}
	return string(text), buf.Bytes(), nil
}

func (r *Renderer) pool(names []string) ([]Font, error) {
	if len(names) == 0 {
		names = r.order
	}
	var pool []Font
	for _, name := range names {
		fonts, ok := r.fonts[name]
		if !ok {
			return nil, fmt.Errorf("captcha: font %q was not loaded", name)
		}
		pool = append(pool, fonts...)
	}
	return pool, nil
}

// drawGlyph places c at a random position inside cell such that its ink
// bounds stay inside the cell whenever the glyph fits.
func drawGlyph(cell *image.NRGBA, face font.Face, c byte, ink color.Color, rng *rand.Rand) {
	s := string(c)
	bounds, _ := font.BoundString(face, s)
	side := cell.Bounds().Dx()
	w := (bounds.Max.X - bounds.Min.X).Ceil()
	h := (bounds.Max.Y - bounds.Min.Y).Ceil()

	x0, y0 := 0, 0
	if slack := side - w; slack > 0 {
		x0 = rng.Intn(slack + 1)
	}
	if slack := side - h; slack > 0 {
		y0 = rng.Intn(slack + 1)
	}

	d := &font.Drawer{
		Dst:  cell,
		Src:  image.NewUniform(ink),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(cell.Bounds().Min.X+x0) - bounds.Min.X,
			Y: fixed.I(cell.Bounds().Min.Y+y0) - bounds.Min.Y,
		},
	}
	d.DrawString(s)
}
