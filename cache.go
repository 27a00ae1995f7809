package slider

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// FileCache stores generated artifacts under content-addressed names:
// <Dir>/<filter>/<sha256(content)>.<ext>. Identical content always maps
// to the same name, so the presence of a file means the expensive
// rendering step can be skipped. Entries are never invalidated here;
// cleanup is an external concern.
type FileCache struct {
	Dir  string // filesystem directory holding per-filter subdirectories
	Link string // site-relative URL prefix mapped onto Dir
}

// Name returns the full path and the Dir-relative path of the cache
// entry for content under the given filter subdirectory. The
// subdirectory is created lazily; an already existing directory is not
// an error.
func (c FileCache) Name(filter, content, extension string) (full, rel string, err error) {
	dir := filepath.Join(c.Dir, filter)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", "", fmt.Errorf("creating cache directory: %w", err)
	}
	digest := sha256.Sum256([]byte(content))
	name := hex.EncodeToString(digest[:]) + "." + extension
	return filepath.Join(dir, name), filter + "/" + name, nil
}

// URL returns the site-relative URL for a Dir-relative cache path.
func (c FileCache) URL(rel string) string {
	return c.Link + rel
}
