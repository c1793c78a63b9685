package images

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".heic": true,
}

// ExpandPaths replaces every directory in refs with the image files it
// contains, in name order. URLs and plain files pass through unchanged.
func ExpandPaths(refs []string) ([]string, error) {
	var out []string
	for _, ref := range refs {
		if IsURL(ref) {
			out = append(out, ref)
			continue
		}

		info, err := os.Stat(ref)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", ref, err)
		}
		if !info.IsDir() {
			out = append(out, ref)
			continue
		}

		entries, err := os.ReadDir(ref)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", ref, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
				continue
			}
			if imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
				out = append(out, filepath.Join(ref, entry.Name()))
			}
		}
	}
	return out, nil
}
