// Package assets locates downloaded asset files and derives rendition names.
package assets

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
)

// errStop ends a walk once the file has been found.
var errStop = errors.New("stop walk")

// Result is the outcome of a Locate call: either a found path or not found.
type Result struct {
	path  string
	found bool
}

// Found returns a Result for an existing file.
func Found(path string) Result {
	return Result{path: path, found: true}
}

// NotFound returns a Result for a missing file.
func NotFound() Result {
	return Result{}
}

// Path returns the located path and whether the file was found.
func (r Result) Path() (string, bool) {
	return r.path, r.found
}

// Found reports whether the file was located.
func (r Result) Found() bool {
	return r.found
}

// DiskName converts an export file name to the name the transfer tool stores
// on disk: spaces become underscores.
func DiskName(fileName string) string {
	return strings.ReplaceAll(fileName, " ", "_")
}

// Locate searches root depth-first, in lexical order, for the first regular file
// whose base name equals DiskName(fileName). Unreadable directories are skipped.
func Locate(root, fileName string) Result {
	target := DiskName(fileName)
	if target == "" {
		return NotFound()
	}

	var match string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}

			return nil
		}

		if d.Type().IsRegular() && d.Name() == target {
			match = path
			return errStop
		}

		return nil
	})
	if err != nil && !errors.Is(err, errStop) {
		return NotFound()
	}

	if match == "" {
		return NotFound()
	}

	return Found(match)
}
