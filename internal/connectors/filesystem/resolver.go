package filesystem

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolvePath converts a folder argument to a local path.
// Handles file:// URIs and a leading ~.
func ResolvePath(uri string) string {
	// Strip file:// prefix for local paths
	p := strings.TrimPrefix(uri, "file://")

	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
