package captcha

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
)

var fontFileRegexp = regexp.MustCompile(`(?i)^[^.].*\.ttf$`)

// DiscoverFonts returns the paths of TrueType font files beneath root.
func DiscoverFonts(root string) ([]string, error) {
	entries := make([]string, 0)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if fontFileRegexp.MatchString(d.Name()) {
			entries = append(entries, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover fonts: %w", err)
	}
	sort.Strings(entries)
	return entries, nil
}
