package captcha

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// SaveExample writes raw to dir as <text>.png for manual inspection.
func SaveExample(dir, text string, raw *Raw) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create examples dir: %w", err)
	}
	name := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == 0 {
			return '_'
		}
		return r
	}, text)
	path := filepath.Join(dir, name+".png")
	if err := imaging.Save(raw.Image(), path); err != nil {
		return "", fmt.Errorf("save example: %w", err)
	}
	return path, nil
}
