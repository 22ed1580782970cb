//go:build !unix

package files_manager

import (
	"os"
	"path/filepath"
)

type fileID struct {
	path string
}

// Without inode numbers the resolved path stands in for file identity.
func identify(path string, _ os.FileInfo) (fileID, bool) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return fileID{}, false
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return fileID{}, false
	}
	return fileID{path: abs}, true
}
