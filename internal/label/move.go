package label

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	scratchDirName = "yolo-draw-tmp"

	imagesSubdir = "images"
	labelsSubdir = "labels"
)

// MoveToTarget copies the record's image and label content into
// targetDir/<bucket>/images and targetDir/<bucket>/labels, then verifies the
// copied label row-for-row against the source. The source files are never
// deleted here; review-mode deletion is a separate caller-controlled step.
//
// If the record is dirty, the rows are first serialized to a scratch file in
// the process temp directory so the copy never reads a half-written in-place
// label file. The scratch file is always removed, including on failure.
func (r *Record) MoveToTarget(targetDir, bucket string) error {
	if r.ImagePath == "" || r.LabelPath == "" {
		return errors.New("image or label path not set")
	}

	if _, err := os.Stat(r.ImagePath); err != nil {
		return fmt.Errorf("source image missing: %s", filepath.Base(r.ImagePath))
	}
	if _, err := os.Stat(r.LabelPath); err != nil {
		return fmt.Errorf("source label missing: %s", filepath.Base(r.LabelPath))
	}

	sourceLabel := r.LabelPath
	fromScratch := false
	if r.modified {
		scratchDir := filepath.Join(os.TempDir(), scratchDirName)
		if err := os.MkdirAll(scratchDir, 0o755); err != nil {
			return fmt.Errorf("create scratch directory: %w", err)
		}
		scratch := filepath.Join(scratchDir, r.baseName()+"_tmp"+Ext)
		// Removal is registered before the write so a partial scratch file
		// never outlives a failed write.
		defer os.Remove(scratch)
		if err := WriteFile(scratch, r.rows); err != nil {
			return fmt.Errorf("write scratch label: %w", err)
		}
		sourceLabel = scratch
		fromScratch = true
	}

	return copyPair(r.ImagePath, sourceLabel, targetDir, bucket, fromScratch)
}

// CopyToCategory copies the image and label into targetDir/<category>
// without row verification. This is the bulk-classify path for the fixed
// non-class buckets, where an empty label file is legitimate. Pending
// mutations are saved in place first.
func (r *Record) CopyToCategory(targetDir, category string) error {
	if r.ImagePath == "" || r.LabelPath == "" {
		return errors.New("image or label path not set")
	}
	if r.modified {
		if err := r.Save(); err != nil {
			return fmt.Errorf("save pending edits: %w", err)
		}
	}

	dir := filepath.Join(targetDir, category)
	imgDir := filepath.Join(dir, imagesSubdir)
	lblDir := filepath.Join(dir, labelsSubdir)
	for _, d := range []string{imgDir, lblDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("create target directory %s: %w", d, err)
		}
	}

	targetImg := filepath.Join(imgDir, filepath.Base(r.ImagePath))
	targetLbl := filepath.Join(lblDir, r.baseName()+Ext)

	if err := copyFile(r.ImagePath, targetImg); err != nil {
		return fmt.Errorf("copy image: %w", err)
	}
	if err := copyLabelContent(r.LabelPath, targetLbl); err != nil {
		return fmt.Errorf("copy label: %w", err)
	}
	if !exists(targetImg) || !exists(targetLbl) {
		return errors.New("copied files missing in target directory")
	}
	return nil
}

func (r *Record) baseName() string {
	base := filepath.Base(r.ImagePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// copyPair performs the verified copy used by class moves. fromScratch marks
// that labelPath is a scratch serialization of edited rows; only then is a
// failed label write rolled back by removing the already-copied image.
func copyPair(imagePath, labelPath, targetDir, bucket string, fromScratch bool) error {
	if bucket != "" {
		targetDir = filepath.Join(targetDir, bucket)
	}
	imgDir := filepath.Join(targetDir, imagesSubdir)
	lblDir := filepath.Join(targetDir, labelsSubdir)
	for _, d := range []string{imgDir, lblDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("create target directory %s: %w", d, err)
		}
	}

	sourceRows := ReadFile(labelPath)
	if len(sourceRows) == 0 {
		return errors.New("source label file empty or unreadable")
	}

	imageBase := filepath.Base(imagePath)
	baseName := strings.TrimSuffix(imageBase, filepath.Ext(imageBase))
	targetImg := filepath.Join(imgDir, imageBase)
	// The label name is derived from the image base so scratch files never
	// leak their temp name into the target tree.
	targetLbl := filepath.Join(lblDir, baseName+Ext)

	if err := copyFile(imagePath, targetImg); err != nil {
		return fmt.Errorf("copy image: %w", err)
	}
	if !exists(targetImg) {
		return errors.New("image missing in target after copy")
	}

	var labelErr error
	if fromScratch {
		labelErr = WriteFile(targetLbl, sourceRows)
	} else {
		labelErr = copyLabelContent(labelPath, targetLbl)
	}
	if labelErr != nil {
		if fromScratch {
			os.Remove(targetImg)
		}
		return fmt.Errorf("write target label: %w", labelErr)
	}
	if !exists(targetLbl) {
		return errors.New("label missing in target after copy")
	}

	// The target must hold the same row count and the same class ID per row
	// as the source, or the copy is treated as failed.
	targetRows := ReadFile(targetLbl)
	if len(targetRows) != len(sourceRows) {
		return fmt.Errorf("target label verification failed: %d rows copied, %d expected",
			len(targetRows), len(sourceRows))
	}
	for i := range sourceRows {
		if targetRows[i].Class != sourceRows[i].Class {
			return fmt.Errorf("target label row %d class mismatch: source=%d target=%d",
				i, sourceRows[i].Class, targetRows[i].Class)
		}
	}
	return nil
}

func copyLabelContent(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
