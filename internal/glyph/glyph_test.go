package glyph

import (
	"bytes"
	"math/rand"
	"testing"

	"glyphnet/internal/captcha"
)

func rawFromSums(width, height int, sums []int) *captcha.Raw {
	raw := &captcha.Raw{Width: width, Height: height, Data: make([]byte, width*height*4)}
	for i, s := range sums {
		// spread the sum across the three colour channels
		r := s / 3
		g := s / 3
		b := s - r - g
		raw.Data[i*4] = byte(r)
		raw.Data[i*4+1] = byte(g)
		raw.Data[i*4+2] = byte(b)
		raw.Data[i*4+3] = 0
	}
	return raw
}

func TestBinarizeThresholdBoundary(t *testing.T) {
	raw := rawFromSums(2, 1, []int{300, 301})
	grids := Binarize(raw, 2, 1, 300)
	if len(grids) != 2 {
		t.Fatalf("expected 2 grids, got %d", len(grids))
	}
	if grids[0].Pix[0] != 1 {
		t.Fatal("sum equal to threshold must be ink")
	}
	if grids[1].Pix[0] != 0 {
		t.Fatal("sum above threshold must be background")
	}
}

func TestBinarizeSlicesRowMajor(t *testing.T) {
	// two 2x2 cells side by side in a 4x2 strip
	sums := []int{
		0, 765, 765, 765,
		765, 765, 765, 0,
	}
	grids := Binarize(rawFromSums(4, 2, sums), 2, 2, 400)
	if !bytes.Equal(grids[0].Pix, []byte{1, 0, 0, 0}) {
		t.Fatalf("first glyph %v", grids[0].Pix)
	}
	if !bytes.Equal(grids[1].Pix, []byte{0, 0, 0, 1}) {
		t.Fatalf("second glyph %v", grids[1].Pix)
	}
}

func TestBinarizeIgnoresAlpha(t *testing.T) {
	raw := rawFromSums(1, 1, []int{765})
	raw.Data[3] = 0
	if Binarize(raw, 1, 1, 400)[0].Pix[0] != 0 {
		t.Fatal("transparent white pixel must still be background")
	}
}

func TestCenterEmpty(t *testing.T) {
	g := NewGrid(5)
	if _, ok := Bounds(g); ok {
		t.Fatal("empty grid must not report ink")
	}
	out := Center(g)
	if out.Size != 5 || len(out.Pix) != 25 || out.Ink() != 0 {
		t.Fatalf("expected empty 5x5 grid, got %v", out.Pix)
	}
}

func TestCenterSinglePixel(t *testing.T) {
	g := NewGrid(4)
	g.Pix[0] = 1
	out := Center(g)
	if out.At(2, 2) != 1 || out.Ink() != 1 {
		t.Fatalf("expected pixel moved to (2,2):\n%s", out)
	}
}

func TestCenterRoundsDown(t *testing.T) {
	// box x in [0,1], midpoint 0.5; S/2 - 0.5 = 2.5 -> 2
	g := NewGrid(5)
	g.Pix[0] = 1
	g.Pix[1] = 1
	box, _ := Bounds(g)
	dx, dy := Offset(box, 5)
	if dx != 2 || dy != 2 {
		t.Fatalf("expected offset (2,2), got (%d,%d)", dx, dy)
	}
	out := Center(g)
	if out.At(2, 2) != 1 || out.At(3, 2) != 1 {
		t.Fatalf("unexpected centred grid:\n%s", out)
	}
}

func TestCenterIdempotentAndPreservesInk(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 200; trial++ {
		size := 3 + rng.Intn(18)
		g := NewGrid(size)
		density := rng.Float64()
		for i := range g.Pix {
			if rng.Float64() < density*0.3 {
				g.Pix[i] = 1
			}
		}
		once := Center(g)
		if once.Ink() != g.Ink() {
			t.Fatalf("trial %d: ink changed %d -> %d", trial, g.Ink(), once.Ink())
		}
		twice := Center(once)
		if !bytes.Equal(once.Pix, twice.Pix) {
			t.Fatalf("trial %d: centring is not idempotent\n%s\n%s", trial, once, twice)
		}
		for _, v := range once.Pix {
			if v > 1 {
				t.Fatalf("trial %d: non-binary value %d", trial, v)
			}
		}
	}
}

func TestCenterDoesNotMutateInput(t *testing.T) {
	g := NewGrid(3)
	g.Pix[8] = 1
	before := append([]byte(nil), g.Pix...)
	Center(g)
	if !bytes.Equal(before, g.Pix) {
		t.Fatal("Center modified its input")
	}
}
