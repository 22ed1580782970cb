package files_manager

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
)

const (
	SourceFormat    = "heic"
	TargetExtension = ".jpg"
)

// IsCandidate reports whether the file extension names the source format.
func IsCandidate(path string) bool {
	return strings.Contains(strings.ToLower(filepath.Ext(path)), SourceFormat)
}

// OutputPath replaces the source extension with the target one, keeping
// directory and base name.
func OutputPath(inputPath string) string {
	return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + TargetExtension
}

// ListCandidates enumerates every source-format file under root in
// directory-listing order. root may be a single file. Symlinks are
// followed; every directory and file is visited at most once, so link
// cycles terminate. Directories that cannot be read are skipped and
// reported through the returned error, the listing is still usable.
func ListCandidates(root string) ([]string, error) {
	var (
		files []string
		errs  error
	)
	visited := make(map[fileID]struct{})

	stack := []string{root}
	for len(stack) > 0 {
		path := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		info, err := os.Stat(path)
		if err != nil {
			if path == root && !os.IsNotExist(err) {
				errs = multierr.Append(errs, err)
			}
			continue
		}
		if !info.Mode().IsRegular() && !info.IsDir() {
			continue
		}

		id, ok := identify(path, info)
		if ok {
			if _, seen := visited[id]; seen {
				continue
			}
			visited[id] = struct{}{}
		}

		if info.Mode().IsRegular() {
			if IsCandidate(path) {
				files = append(files, path)
			}
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("read directory %s: %w", path, err))
			continue
		}
		// pushed in reverse so entries pop in listing order
		for i := len(entries) - 1; i >= 0; i-- {
			stack = append(stack, filepath.Join(path, entries[i].Name()))
		}
	}

	return files, errs
}
