package build

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileAsset is an emitted file read lazily from disk
type FileAsset struct {
	Path string
}

// Source reads the file content
func (a FileAsset) Source() ([]byte, error) {
	return os.ReadFile(a.Path)
}

// RawSource is an in-memory asset
type RawSource []byte

// Source returns the content
func (r RawSource) Source() ([]byte, error) {
	return r, nil
}

// ScanDir collects every regular file under root as an asset. Asset names are
// slash-separated paths relative to root, as a bundler reports them. Symlinks
// to files are followed; symlinked directories are not descended into.
func ScanDir(root string) (map[string]any, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat output dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("output path %s is not a directory", root)
	}

	assets := make(map[string]any)
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type()&fs.ModeSymlink != 0 {
			target, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("failed to follow symlink %s: %w", path, err)
			}
			if !target.Mode().IsRegular() {
				return nil
			}
		} else if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if strings.HasPrefix(name, "../") {
			return nil
		}
		assets[name] = FileAsset{Path: path}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan output dir: %w", err)
	}

	return assets, nil
}
