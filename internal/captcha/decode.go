package captcha

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// Raw is a decoded, non-premultiplied RGBA pixel buffer with 4 bytes per
// pixel in row-major order.
type Raw struct {
	Width  int
	Height int
	Data   []byte
}

// Decoder turns an encoded image container into a Raw buffer.
type Decoder interface {
	Decode(encoded []byte) (*Raw, error)
}

// ImageDecoder decodes any container registered with the image package.
type ImageDecoder struct{}

// Decode implements Decoder.
func (ImageDecoder) Decode(encoded []byte) (*Raw, error) {
	img, _, err := image.Decode(bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	b := img.Bounds()
	dst, ok := img.(*image.NRGBA)
	if !ok || b.Min != (image.Point{}) || dst.Stride != 4*b.Dx() {
		dst = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	}
	return &Raw{Width: b.Dx(), Height: b.Dy(), Data: dst.Pix}, nil
}

// Image wraps the buffer as an image without copying.
func (r *Raw) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    r.Data,
		Stride: 4 * r.Width,
		Rect:   image.Rect(0, 0, r.Width, r.Height),
	}
}
