package captcha

import (
	"fmt"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// Font is a parsed typeface that can produce faces at any pixel size.
// A nil ttf means the fixed 7x13 bitmap face.
type Font struct {
	Name string
	ttf  *truetype.Font
}

// Face returns a new face of the given pixel height. TrueType faces keep
// a glyph cache and must not be shared between goroutines.
func (f Font) Face(size float64) font.Face {
	if f.ttf == nil {
		return basicfont.Face7x13
	}
	return truetype.NewFace(f.ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

var embedded = map[string][]byte{
	"go":     goregular.TTF,
	"gomono": gomono.TTF,
	"gobold": gobold.TTF,
}

// LoadFonts resolves font descriptors. A descriptor is the name of an
// embedded Go font, "basic", a .ttf file or a directory of .ttf files.
// The result maps each descriptor to the fonts it expands to.
func LoadFonts(descriptors []string) (map[string][]Font, error) {
	out := make(map[string][]Font, len(descriptors))
	for _, desc := range descriptors {
		if _, ok := out[desc]; ok {
			continue
		}
		fonts, err := loadDescriptor(desc)
		if err != nil {
			return nil, err
		}
		out[desc] = fonts
	}
	return out, nil
}

func loadDescriptor(desc string) ([]Font, error) {
	if desc == "basic" {
		return []Font{{Name: desc}}, nil
	}
	if data, ok := embedded[desc]; ok {
		f, err := parseFont(desc, data)
		if err != nil {
			return nil, err
		}
		return []Font{f}, nil
	}

	info, err := os.Stat(desc)
	if err != nil {
		return nil, fmt.Errorf("font %q: %w", desc, err)
	}
	paths := []string{desc}
	if info.IsDir() {
		paths, err = DiscoverFonts(desc)
		if err != nil {
			return nil, err
		}
		if len(paths) == 0 {
			return nil, fmt.Errorf("font %q: no .ttf files found", desc)
		}
	}
	fonts := make([]Font, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read font: %w", err)
		}
		f, err := parseFont(path, data)
		if err != nil {
			return nil, err
		}
		fonts = append(fonts, f)
	}
	return fonts, nil
}

func parseFont(name string, data []byte) (Font, error) {
	ttf, err := truetype.Parse(data)
	if err != nil {
		return Font{}, fmt.Errorf("parse font %s: %w", name, err)
	}
	return Font{Name: name, ttf: ttf}, nil
}
