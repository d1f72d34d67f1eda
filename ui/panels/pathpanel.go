package panels

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/1049861657/yolo-draw/internal/settings"
)

// PathPanel selects the source and target directories, with per-field
// most-recently-used history, and carries the view-mode toggles.
type PathPanel struct {
	widget.BaseWidget

	window   fyne.Window
	settings *settings.Settings
	box      *fyne.Container

	sourceSelect *widget.SelectEntry
	targetSelect *widget.SelectEntry

	onLoad       func(sourceDir, targetDir string)
	onGrouped    func(grouped bool)
	onReviewMode func(review bool)
}

// NewPathPanel builds the panel, seeding both fields from the directory
// history.
func NewPathPanel(win fyne.Window, s *settings.Settings) *PathPanel {
	pp := &PathPanel{window: win, settings: s}

	pp.sourceSelect = widget.NewSelectEntry(s.SourceDirs)
	pp.sourceSelect.SetPlaceHolder("Source dataset directory")
	pp.sourceSelect.SetText(s.LastSourceDir())

	pp.targetSelect = widget.NewSelectEntry(s.TargetDirs)
	pp.targetSelect.SetPlaceHolder("Target directory")
	pp.targetSelect.SetText(s.LastTargetDir())

	browseSource := widget.NewButton("...", func() {
		pp.browseInto(pp.sourceSelect)
	})
	browseTarget := widget.NewButton("...", func() {
		pp.browseInto(pp.targetSelect)
	})

	load := widget.NewButton("Load", func() {
		if pp.onLoad != nil {
			pp.onLoad(pp.sourceSelect.Text, pp.targetSelect.Text)
		}
	})

	grouped := widget.NewCheck("Group by ID", func(on bool) {
		if pp.onGrouped != nil {
			pp.onGrouped(on)
		}
	})
	grouped.SetChecked(s.GroupByID)

	review := widget.NewCheck("Review mode (delete sources)", func(on bool) {
		if pp.onReviewMode != nil {
			pp.onReviewMode(on)
		}
	})
	review.SetChecked(s.ReviewMode)

	pp.box = container.NewVBox(
		container.NewBorder(nil, nil, widget.NewLabel("Source:"), browseSource, pp.sourceSelect),
		container.NewBorder(nil, nil, widget.NewLabel("Target:"), browseTarget, pp.targetSelect),
		container.NewHBox(load, grouped, review),
	)

	pp.ExtendBaseWidget(pp)
	return pp
}

// CreateRenderer implements fyne.Widget.
func (pp *PathPanel) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(pp.box)
}

// browseInto opens a folder picker and writes the result into the field.
func (pp *PathPanel) browseInto(entry *widget.SelectEntry) {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		entry.SetText(uri.Path())
	}, pp.window)
}

// RememberCurrent pushes the current field values into the history and
// refreshes the dropdowns. Called after a successful load.
func (pp *PathPanel) RememberCurrent() {
	pp.settings.RememberSourceDir(pp.sourceSelect.Text)
	pp.settings.RememberTargetDir(pp.targetSelect.Text)
	pp.sourceSelect.SetOptions(pp.settings.SourceDirs)
	pp.targetSelect.SetOptions(pp.settings.TargetDirs)
}

// SourceDir returns the source field text.
func (pp *PathPanel) SourceDir() string { return pp.sourceSelect.Text }

// TargetDir returns the target field text.
func (pp *PathPanel) TargetDir() string { return pp.targetSelect.Text }

// OnLoad registers the load-button callback.
func (pp *PathPanel) OnLoad(fn func(sourceDir, targetDir string)) { pp.onLoad = fn }

// OnGrouped registers the grouping-toggle callback.
func (pp *PathPanel) OnGrouped(fn func(grouped bool)) { pp.onGrouped = fn }

// OnReviewMode registers the review-mode-toggle callback.
func (pp *PathPanel) OnReviewMode(fn func(review bool)) { pp.onReviewMode = fn }
