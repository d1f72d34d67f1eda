// Package dataset resolves the on-disk layout of a YOLO dataset directory
// and scans it for images.
package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// A source directory must contain one of these sibling subfolder pairs.
var layouts = []struct {
	images string
	labels string
}{
	{"images", "labels"},
	{"original_snaps", "original_snaps_labels"},
}

// ErrNoLayout is returned when a directory matches neither supported layout.
var ErrNoLayout = errors.New(
	"source directory must contain images/+labels/ or original_snaps/+original_snaps_labels/")

// imageExts is the image-extension allow-list, lower case.
var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
}

// Source describes a resolved dataset directory.
type Source struct {
	Root      string
	ImagesDir string
	LabelsDir string
}

// Resolve validates root against the supported layouts. Absence of both
// patterns is a user-facing validation error, not a crash.
func Resolve(root string) (*Source, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, err
	}
	for _, l := range layouts {
		imgDir := filepath.Join(root, l.images)
		lblDir := filepath.Join(root, l.labels)
		if isDir(imgDir) && isDir(lblDir) {
			return &Source{Root: root, ImagesDir: imgDir, LabelsDir: lblDir}, nil
		}
	}
	return nil, ErrNoLayout
}

// ListImages returns the image files directly inside dir, sorted
// lexicographically. Subdirectories and non-image files are skipped.
func ListImages(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !IsImageFile(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files
}

// IsImageFile reports whether name has an allowed image extension.
func IsImageFile(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
