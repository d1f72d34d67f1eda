package classify

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/1049861657/yolo-draw/internal/label"
)

// Fixed bucket names for records that cannot be filed under a single class.
const (
	CategoryBackground = "background" // no label rows
	CategoryMixed      = "mixed"      // multiple distinct class IDs
)

// Outcome describes where a record ended up.
type Outcome struct {
	Bucket string // class name or fixed category
	Mixed  bool
	Empty  bool
}

// BatchResult accumulates a bulk classification pass.
type BatchResult struct {
	Succeeded  int
	Mixed      int
	Background int
	Moved      []string // image paths that were filed, in input order
	Errors     []error
}

// Classifier routes label records into <target>/<bucket>/images|labels
// according to their class content.
type Classifier struct {
	Taxonomy  *Taxonomy
	TargetDir string

	// ReviewMode deletes the source image and label after a successful copy.
	ReviewMode bool
}

// Auto files a record by its label content: no rows go to the background
// category, multiple distinct classes to the mixed category, and a single
// class to that class's named bucket via the verified copy path.
func (c *Classifier) Auto(rec *label.Record) (Outcome, error) {
	ids := rec.ClassIDs()
	var out Outcome
	var err error
	switch {
	case len(ids) == 0:
		out = Outcome{Bucket: CategoryBackground, Empty: true}
		err = rec.CopyToCategory(c.TargetDir, CategoryBackground)
	case len(ids) > 1:
		out = Outcome{Bucket: CategoryMixed, Mixed: true}
		err = rec.CopyToCategory(c.TargetDir, CategoryMixed)
	default:
		out = Outcome{Bucket: c.Taxonomy.Name(ids[0])}
		err = rec.MoveToTarget(c.TargetDir, out.Bucket)
	}
	if err != nil {
		return out, err
	}
	return out, c.finish(rec)
}

// AsClass re-tags every row of the record to classID and files it under that
// class's bucket. Records with no rows are rejected.
func (c *Classifier) AsClass(rec *label.Record, classID int) (Outcome, error) {
	if rec.Len() == 0 {
		return Outcome{}, fmt.Errorf("image %s has no label rows", filepath.Base(rec.ImagePath))
	}
	for i := 0; i < rec.Len(); i++ {
		rec.UpdateClass(i, classID)
	}
	out := Outcome{Bucket: c.Taxonomy.Name(classID)}
	if err := rec.MoveToTarget(c.TargetDir, out.Bucket); err != nil {
		return out, err
	}
	return out, c.finish(rec)
}

// AutoBatch runs Auto over a set of image paths, resolving each label path
// against labelsDir. Per-file failures are collected, not fatal.
func (c *Classifier) AutoBatch(imagePaths []string, labelsDir string) BatchResult {
	var res BatchResult
	for _, img := range imagePaths {
		rec := label.NewRecord(img, label.PathFor(img, labelsDir))
		out, err := c.Auto(rec)
		if err != nil {
			res.Errors = append(res.Errors,
				fmt.Errorf("classify %s: %w", filepath.Base(img), err))
			continue
		}
		res.Succeeded++
		res.Moved = append(res.Moved, img)
		if out.Mixed {
			res.Mixed++
		}
		if out.Empty {
			res.Background++
		}
	}
	return res
}

// finish applies review-mode source deletion after a successful copy.
func (c *Classifier) finish(rec *label.Record) error {
	if !c.ReviewMode {
		return nil
	}
	if err := removeIfExists(rec.ImagePath); err != nil {
		return fmt.Errorf("delete source image: %w", err)
	}
	if err := removeIfExists(rec.LabelPath); err != nil {
		return fmt.Errorf("delete source label: %w", err)
	}
	return nil
}

func removeIfExists(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return os.Remove(path)
}
