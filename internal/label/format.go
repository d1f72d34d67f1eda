package label

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Ext is the label file extension.
const Ext = ".txt"

var errNoLabelPath = errors.New("label path not set")

// PathFor returns the label file path matching an image file: same base
// name, Ext extension, inside labelDir.
func PathFor(imagePath, labelDir string) string {
	base := strings.TrimSuffix(filepath.Base(imagePath), filepath.Ext(imagePath))
	return filepath.Join(labelDir, base+Ext)
}

// ReadFile parses a YOLO label file. Each valid line holds five
// whitespace-separated fields: class_id cx cy w h. Lines with any other
// field count, or unparseable numbers, are silently skipped. A missing or
// unreadable file yields an empty slice.
func ReadFile(path string) []Row {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var rows []Row
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) != 5 {
			continue
		}
		row, err := parseRow(fields)
		if err != nil {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

func parseRow(fields []string) (Row, error) {
	// Class IDs are sometimes written as floats by upstream exporters.
	cls, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Row{}, err
	}
	vals := make([]float64, 4)
	for i, f := range fields[1:] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Row{}, err
		}
		vals[i] = v
	}
	return Row{Class: int(cls), CX: vals[0], CY: vals[1], W: vals[2], H: vals[3]}, nil
}

// WriteFile writes rows in the five-field YOLO format, one per line,
// newline-terminated. The parent directory is created if needed, and the
// write is confirmed with a post-write existence check so a reported
// success always corresponds to a file on disk.
func WriteFile(path string, rows []Row) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create label directory %s: %w", dir, err)
	}

	var b strings.Builder
	for _, row := range rows {
		b.WriteString(FormatRow(row))
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write label file %s: %w", path, err)
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("label file missing after write: %s", path)
	}
	return nil
}

// FormatRow renders one row in the on-disk format. Floats use the shortest
// representation that round-trips exactly, so read-write cycles preserve
// values bit for bit.
func FormatRow(row Row) string {
	return fmt.Sprintf("%d %s %s %s %s",
		row.Class,
		formatFloat(row.CX),
		formatFloat(row.CY),
		formatFloat(row.W),
		formatFloat(row.H))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
