package captcha

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRendererGeometryAndText(t *testing.T) {
	r, err := NewRenderer([]string{"go", "gomono"})
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	p := Params{Count: 4, Height: 20, Alphabet: "0123456789", Seed: 9}
	text, encoded, err := r.Generate(context.Background(), p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(text) != 4 {
		t.Fatalf("expected 4 characters, got %q", text)
	}
	for _, c := range text {
		if !strings.ContainsRune(p.Alphabet, c) {
			t.Fatalf("character %q outside alphabet", c)
		}
	}
	raw, err := ImageDecoder{}.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if raw.Width != 80 || raw.Height != 20 || len(raw.Data) != 80*20*4 {
		t.Fatalf("unexpected raw geometry %dx%d len=%d", raw.Width, raw.Height, len(raw.Data))
	}

	dark := 0
	for i := 0; i < len(raw.Data); i += 4 {
		if int(raw.Data[i])+int(raw.Data[i+1])+int(raw.Data[i+2]) <= 400 {
			dark++
		}
	}
	if dark == 0 {
		t.Fatal("expected some ink pixels")
	}
}

func TestRendererDeterministic(t *testing.T) {
	r, err := NewRenderer([]string{"go", "basic"})
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	p := Params{Count: 3, Height: 16, Alphabet: "abc", Seed: 77}
	text1, img1, err := r.Generate(context.Background(), p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	text2, img2, err := r.Generate(context.Background(), p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text1 != text2 || !bytes.Equal(img1, img2) {
		t.Fatal("renderer output differs for identical params")
	}
}

func TestRendererRejectsUnknownFont(t *testing.T) {
	r, err := NewRenderer([]string{"go"})
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	_, _, err = r.Generate(context.Background(), Params{Count: 1, Height: 10, Alphabet: "a", Fonts: []string{"gobold"}})
	if err == nil {
		t.Fatal("expected error for font that was not loaded")
	}
	if _, err := NewRenderer([]string{filepath.Join(t.TempDir(), "nope.ttf")}); err == nil {
		t.Fatal("expected error for missing font file")
	}
}

func TestRendererHonoursCancellation(t *testing.T) {
	r, err := NewRenderer([]string{"basic"})
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := r.Generate(ctx, Params{Count: 1, Height: 10, Alphabet: "a"}); err == nil {
		t.Fatal("expected context error")
	}
}

func TestDecodeGray(t *testing.T) {
	img := image.NewGray(image.Rect(2, 3, 5, 5))
	img.SetGray(2, 3, color.Gray{Y: 10})
	img.SetGray(4, 4, color.Gray{Y: 200})
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	raw, err := ImageDecoder{}.Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if raw.Width != 3 || raw.Height != 2 {
		t.Fatalf("unexpected geometry %dx%d", raw.Width, raw.Height)
	}
	if raw.Data[0] != 10 || raw.Data[3] != 0xff {
		t.Fatalf("unexpected first pixel %v", raw.Data[:4])
	}
	last := (raw.Width*raw.Height - 1) * 4
	if raw.Data[last] != 200 {
		t.Fatalf("unexpected last pixel %v", raw.Data[last:last+4])
	}
}

func TestDecodeCorrupt(t *testing.T) {
	if _, err := (ImageDecoder{}).Decode([]byte("not an image")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestSaveExample(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "examples")
	raw := &Raw{Width: 2, Height: 1, Data: []byte{0, 0, 0, 255, 255, 255, 255, 255}}
	path, err := SaveExample(dir, "a/b", raw)
	if err != nil {
		t.Fatalf("SaveExample: %v", err)
	}
	if filepath.Base(path) != "a_b.png" {
		t.Fatalf("unexpected path %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	back, err := ImageDecoder{}.Decode(data)
	if err != nil {
		t.Fatalf("decode saved example: %v", err)
	}
	if !bytes.Equal(back.Data, raw.Data) {
		t.Fatalf("saved pixels differ: %v", back.Data)
	}
}
