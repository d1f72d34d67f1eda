// Package label implements the YOLO label data model: per-image bounding-box
// records, the on-disk label file format, and the copy-to-target operation
// used when classifying images.
package label

// Row is one YOLO annotation: a class ID and a normalized axis-aligned box.
// CX/CY are the box center, W/H the box size, all as fractions of the image
// dimensions.
type Row struct {
	Class int
	CX    float64
	CY    float64
	W     float64
	H     float64
}

const (
	// MinBoxSize is the smallest normalized width or height a row may hold.
	MinBoxSize = 0.001
)

// clamp enforces the row coordinate invariant: center in [0,1], size in
// [MinBoxSize,1]. Clamping is total and never fails.
func clamp(cx, cy, w, h float64) (float64, float64, float64, float64) {
	return clamp01(cx, 0), clamp01(cy, 0), clamp01(w, MinBoxSize), clamp01(h, MinBoxSize)
}

func clamp01(v, min float64) float64 {
	if v < min {
		return min
	}
	if v > 1 {
		return 1
	}
	return v
}

// Record holds the ordered label rows for exactly one image, plus a dirty
// flag tracking unsaved mutations. A Record is created when an image is
// selected and discarded when the viewer switches images.
type Record struct {
	ImagePath string
	LabelPath string

	rows     []Row
	modified bool
}

// NewRecord creates a record for an image/label file pair and loads any
// existing rows. A missing or empty label file yields an empty record.
func NewRecord(imagePath, labelPath string) *Record {
	r := &Record{ImagePath: imagePath, LabelPath: labelPath}
	r.Load()
	return r
}

// Load re-reads the label file. Missing files and malformed lines are not
// errors: the former yields an empty row set, the latter are skipped.
func (r *Record) Load() {
	r.rows = ReadFile(r.LabelPath)
	r.modified = false
}

// Save writes the current rows back to the label file. It fails if the
// directory cannot be created or the write does not survive a post-write
// existence check. A successful save clears the dirty flag.
func (r *Record) Save() error {
	if r.LabelPath == "" {
		return errNoLabelPath
	}
	if err := WriteFile(r.LabelPath, r.rows); err != nil {
		return err
	}
	r.modified = false
	return nil
}

// Rows returns the current rows. The slice is shared; callers must not
// mutate it directly.
func (r *Record) Rows() []Row {
	return r.rows
}

// Len returns the number of rows.
func (r *Record) Len() int {
	return len(r.rows)
}

// Row returns the row at index i.
func (r *Record) Row(i int) (Row, bool) {
	if i < 0 || i >= len(r.rows) {
		return Row{}, false
	}
	return r.rows[i], true
}

// Modified reports whether the record has unsaved mutations.
func (r *Record) Modified() bool {
	return r.modified
}

// Add appends a new row with clamped coordinates.
func (r *Record) Add(class int, cx, cy, w, h float64) {
	cx, cy, w, h = clamp(cx, cy, w, h)
	r.rows = append(r.rows, Row{Class: class, CX: cx, CY: cy, W: w, H: h})
	r.modified = true
}

// Remove deletes the row at index i. Out-of-range indices are a no-op.
func (r *Record) Remove(i int) bool {
	if i < 0 || i >= len(r.rows) {
		return false
	}
	r.rows = append(r.rows[:i], r.rows[i+1:]...)
	r.modified = true
	return true
}

// UpdateClass changes the class ID of the row at index i.
func (r *Record) UpdateClass(i, class int) bool {
	if i < 0 || i >= len(r.rows) {
		return false
	}
	r.rows[i].Class = class
	r.modified = true
	return true
}

// UpdateCoords replaces the box of the row at index i with clamped values.
func (r *Record) UpdateCoords(i int, cx, cy, w, h float64) bool {
	if i < 0 || i >= len(r.rows) {
		return false
	}
	cx, cy, w, h = clamp(cx, cy, w, h)
	r.rows[i].CX = cx
	r.rows[i].CY = cy
	r.rows[i].W = w
	r.rows[i].H = h
	r.modified = true
	return true
}

// Clear removes all rows.
func (r *Record) Clear() {
	if len(r.rows) == 0 {
		return
	}
	r.rows = r.rows[:0]
	r.modified = true
}

// ClassIDs returns the distinct class IDs present, in first-seen order.
func (r *Record) ClassIDs() []int {
	seen := make(map[int]bool, len(r.rows))
	var ids []int
	for _, row := range r.rows {
		if !seen[row.Class] {
			seen[row.Class] = true
			ids = append(ids, row.Class)
		}
	}
	return ids
}
