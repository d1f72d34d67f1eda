// Package imagelist provides the catalog-backed file list with group
// headers, label statistics, and keyboard navigation.
package imagelist

import (
	"fmt"
	"image"
	"path/filepath"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/1049861657/yolo-draw/internal/catalog"
	"github.com/1049861657/yolo-draw/internal/dataset"
	"github.com/1049861657/yolo-draw/internal/label"
)

// thumbEdge is the on-screen size of the per-row thumbnail.
const thumbEdge = 40

// ImageList displays the catalog and keeps its cursor in sync with the
// list widget's selection.
type ImageList struct {
	widget.BaseWidget

	cat       *catalog.Catalog
	list      *widget.List
	labelsDir string
	showStats bool

	// suppress guards against selection feedback loops when the list
	// selection is driven programmatically.
	suppress bool

	// batchAnchor is the path selected before the batch range started.
	batchAnchor string

	// thumbs caches decoded thumbnails by image path.
	thumbs map[string]image.Image

	onSelect func(path string)
	onBatch  func(paths []string)
}

// NewImageList creates an empty list in grouped mode.
func NewImageList(grouped bool) *ImageList {
	il := &ImageList{cat: catalog.New(grouped), thumbs: make(map[string]image.Image)}

	il.list = widget.NewList(
		func() int { return il.cat.Len() },
		func() fyne.CanvasObject {
			thumb := &fynecanvas.Image{FillMode: fynecanvas.ImageFillContain}
			thumb.SetMinSize(fyne.NewSize(thumbEdge, thumbEdge))
			return container.NewBorder(nil, nil, thumb, nil, widget.NewLabel(""))
		},
		func(i widget.ListItemID, o fyne.CanvasObject) {
			row := o.(*fyne.Container)
			thumb := row.Objects[0].(*fynecanvas.Image)
			thumb.Image = il.thumbnail(i)
			thumb.Refresh()
			row.Objects[1].(*widget.Label).SetText(il.itemText(i))
		},
	)
	il.list.OnSelected = func(i widget.ListItemID) {
		if il.suppress {
			return
		}
		if path, ok := il.cat.SelectIndex(i); ok {
			il.clearBatch()
			il.batchAnchor = path
			if il.onSelect != nil {
				il.onSelect(path)
			}
		}
	}

	il.ExtendBaseWidget(il)
	return il
}

// thumbnail returns the cached thumbnail for row i, decoding on first use.
// A nil return leaves the row's image slot blank.
func (il *ImageList) thumbnail(i int) image.Image {
	files := il.cat.Files()
	if i < 0 || i >= len(files) {
		return nil
	}
	path := files[i]
	if thumb, ok := il.thumbs[path]; ok {
		return thumb
	}
	thumb, err := dataset.Thumbnail(path)
	if err != nil {
		thumb = nil
	}
	il.thumbs[path] = thumb
	return thumb
}

// itemText formats one row: group-prefixed name plus optional label stats.
func (il *ImageList) itemText(i int) string {
	files := il.cat.Files()
	if i < 0 || i >= len(files) {
		return ""
	}
	path := files[i]
	name := filepath.Base(path)

	text := name
	if il.cat.Grouped() {
		e := catalog.ParseEntry(path)
		if e.GroupKey != "" {
			text = fmt.Sprintf("%s · v%d", e.GroupKey, e.Version)
		}
	}
	if il.showStats && il.labelsDir != "" {
		st := label.StatsFor(label.PathFor(path, il.labelsDir))
		if st.Count > 0 {
			text = fmt.Sprintf("%s  [%d boxes, %.1f%%]", text, st.Count, st.MeanAreaFrac*100)
		}
	}
	return text
}

// CreateRenderer implements fyne.Widget.
func (il *ImageList) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(il.list)
}

// Catalog exposes the backing catalog.
func (il *ImageList) Catalog() *catalog.Catalog { return il.cat }

// SetFiles loads a new file set and resets the selection.
func (il *ImageList) SetFiles(files []string, labelsDir string) {
	il.labelsDir = labelsDir
	il.thumbs = make(map[string]image.Image)
	il.cat.Load(files)
	il.list.UnselectAll()
	il.list.Refresh()
}

// SetGrouped switches grouping mode.
func (il *ImageList) SetGrouped(grouped bool) {
	il.cat.SetGrouped(grouped)
	il.list.Refresh()
}

// SetShowStats toggles the per-row label statistics suffix.
func (il *ImageList) SetShowStats(show bool) {
	il.showStats = show
	il.list.Refresh()
}

// OnSelect registers the selection callback.
func (il *ImageList) OnSelect(fn func(path string)) { il.onSelect = fn }

// Current returns the selected path.
func (il *ImageList) Current() (string, bool) { return il.cat.Current() }

// SelectFirst selects the first file, if any.
func (il *ImageList) SelectFirst() {
	if path, ok := il.cat.SelectIndex(0); ok {
		il.syncSelection()
		if il.onSelect != nil {
			il.onSelect(path)
		}
	}
}

// NavigateUp moves the selection one file backward.
func (il *ImageList) NavigateUp() { il.navigate(il.cat.Up) }

// NavigateDown moves the selection one file forward.
func (il *ImageList) NavigateDown() { il.navigate(il.cat.Down) }

func (il *ImageList) navigate(step func() (string, bool)) {
	if path, ok := step(); ok {
		il.clearBatch()
		il.syncSelection()
		if il.onSelect != nil {
			il.onSelect(path)
		}
	}
}

// OnBatch registers the batch-selection callback, fired with the selected
// paths whenever the batch range changes and with nil when it clears.
func (il *ImageList) OnBatch(fn func(paths []string)) { il.onBatch = fn }

// ExtendBatchToCurrent selects every file between the anchor (the last
// plainly selected file) and the current selection as a batch. Only
// available in flat mode.
func (il *ImageList) ExtendBatchToCurrent() bool {
	if il.cat.Grouped() {
		return false
	}
	current, ok := il.cat.Current()
	if !ok || il.batchAnchor == "" {
		return false
	}
	files := il.cat.Files()
	a, b := -1, -1
	for i, f := range files {
		if f == il.batchAnchor {
			a = i
		}
		if f == current {
			b = i
		}
	}
	if a < 0 || b < 0 || a == b {
		return false
	}
	if a > b {
		a, b = b, a
	}
	paths := append([]string(nil), files[a:b+1]...)
	il.cat.SetBatch(paths)
	if il.onBatch != nil {
		il.onBatch(il.cat.Batch())
	}
	return il.cat.InBatch()
}

func (il *ImageList) clearBatch() {
	if !il.cat.InBatch() {
		return
	}
	il.cat.ClearBatch()
	if il.onBatch != nil {
		il.onBatch(nil)
	}
}

// RemoveCurrent drops the selected file from the catalog and fires the
// selection callback for the auto-selected successor.
func (il *ImageList) RemoveCurrent() {
	current, ok := il.cat.Current()
	if !ok {
		return
	}
	il.removeAndAdvance(func() (string, bool) { return il.cat.Remove(current) })
}

// RemoveGroup drops the selected file's whole group.
func (il *ImageList) RemoveGroup() {
	il.removeAndAdvance(il.cat.RemoveGroup)
}

// RemoveBatch discards every batch-selected file, falling back to the
// current file when no batch is active.
func (il *ImageList) RemoveBatch() {
	if !il.cat.InBatch() {
		il.RemoveCurrent()
		return
	}
	il.removeAndAdvance(il.cat.RemoveBatch)
	if il.onBatch != nil {
		il.onBatch(nil)
	}
}

// RemovePaths drops a set of files, used after batch operations.
func (il *ImageList) RemovePaths(paths []string) {
	if len(paths) == 0 {
		return
	}
	il.removeAndAdvance(func() (string, bool) {
		var next string
		var ok bool
		for _, p := range paths {
			next, ok = il.cat.Remove(p)
		}
		return next, ok
	})
}

func (il *ImageList) removeAndAdvance(remove func() (string, bool)) {
	next, ok := remove()
	il.list.Refresh()
	if !ok {
		il.list.UnselectAll()
		if il.onSelect != nil {
			il.onSelect("")
		}
		return
	}
	il.syncSelection()
	if il.onSelect != nil {
		il.onSelect(next)
	}
}

// UpToCurrent returns the flat-mode files from the top through the current
// selection, used by batch discard.
func (il *ImageList) UpToCurrent() []string { return il.cat.UpToCurrent() }

// syncSelection mirrors the catalog cursor into the list widget without
// re-entering the selection callback.
func (il *ImageList) syncSelection() {
	current, ok := il.cat.Current()
	if !ok {
		return
	}
	for i, f := range il.cat.Files() {
		if f == current {
			il.suppress = true
			il.list.Select(i)
			il.suppress = false
			return
		}
	}
}
