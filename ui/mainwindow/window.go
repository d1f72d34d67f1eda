// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/1049861657/yolo-draw/internal/classify"
	"github.com/1049861657/yolo-draw/internal/dataset"
	"github.com/1049861657/yolo-draw/internal/detect"
	"github.com/1049861657/yolo-draw/internal/label"
	"github.com/1049861657/yolo-draw/internal/settings"
	"github.com/1049861657/yolo-draw/internal/stats"
	"github.com/1049861657/yolo-draw/internal/version"
	"github.com/1049861657/yolo-draw/ui/dialogs"
	"github.com/1049861657/yolo-draw/ui/imagelist"
	"github.com/1049861657/yolo-draw/ui/panels"
	"github.com/1049861657/yolo-draw/ui/viewer"
)

// MainWindow wires the viewer, image list, and panels together and owns
// the application state: the loaded source, the current record, the
// detector, and the throughput tracker.
type MainWindow struct {
	fyne.Window
	app fyne.App

	settings *settings.Settings
	taxonomy *classify.Taxonomy
	models   *detect.ModelManager
	tracker  *stats.Tracker

	viewer        *viewer.Viewer
	imageList     *imagelist.ImageList
	classifyPanel *panels.ClassifyPanel
	pathPanel     *panels.PathPanel
	statusBar     *widget.Label
	speedLabel    *widget.Label

	source     *dataset.Source
	targetDir  string
	reviewMode bool

	record   *label.Record
	detector *detect.Detector

	speedAnim *fyne.Animation
	lastSpeed string
}

// predictPollInterval paces the animation loop that polls an in-flight
// inference task.
const predictPollInterval = 100 * time.Millisecond

// New creates the main window.
func New(fyneApp fyne.App, s *settings.Settings, taxonomy *classify.Taxonomy,
	models *detect.ModelManager) *MainWindow {

	win := fyneApp.NewWindow("YOLO Draw")

	mw := &MainWindow{
		Window:     win,
		app:        fyneApp,
		settings:   s,
		taxonomy:   taxonomy,
		models:     models,
		tracker:    stats.NewTracker(),
		reviewMode: s.ReviewMode,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupShortcuts()
	mw.startSpeedTicker()

	win.SetOnClosed(mw.onClosed)
	win.Resize(fyne.NewSize(1200, 800))
	return mw
}

// setupUI lays out the window: path panel on top, image list on the left,
// viewer in the center, class buttons on the right, status bar below.
func (mw *MainWindow) setupUI() {
	mw.viewer = viewer.NewViewer()
	mw.imageList = imagelist.NewImageList(mw.settings.GroupByID)
	mw.classifyPanel = panels.NewClassifyPanel(mw.taxonomy)
	mw.pathPanel = panels.NewPathPanel(mw.Window, mw.settings)
	mw.statusBar = widget.NewLabel("Ready")
	mw.speedLabel = widget.NewLabel("Speed: 0.0 images/sec")

	mw.pathPanel.OnLoad(mw.onLoad)
	mw.pathPanel.OnGrouped(mw.onGroupedChanged)
	mw.pathPanel.OnReviewMode(func(on bool) {
		mw.reviewMode = on
		mw.settings.ReviewMode = on
	})

	mw.imageList.OnSelect(mw.onImageSelected)
	mw.imageList.OnBatch(func(paths []string) {
		mw.classifyPanel.SetBatchCount(len(paths))
	})
	mw.classifyPanel.OnAction(mw.handleAction)
	mw.classifyPanel.SetGrouped(mw.settings.GroupByID)

	mw.viewer.OnRowsChanged(func() {
		mw.imageList.Refresh()
	})
	mw.viewer.OnBoxSelected(func(box int) {
		mw.updateStatus(fmt.Sprintf("Box %d selected", box+1))
	})
	mw.viewer.OnClassMenu(mw.showClassMenu)
	mw.viewer.OnPredictionMenu(mw.showPredictionMenu)
	mw.viewer.OnNewBox(mw.showClassPickerForNewBox)
	mw.viewer.OnZoomChange(func(zoom float64) {
		mw.updateStatus(fmt.Sprintf("Zoom: %.0f%%", zoom*100))
	})

	canvasArea := container.NewBorder(mw.createToolbar(), nil, nil, nil, mw.viewer.Container())
	split := container.NewHSplit(mw.imageList, canvasArea)
	split.SetOffset(0.22)
	outer := container.NewHSplit(split, mw.classifyPanel)
	outer.SetOffset(0.78)

	statusRow := container.NewBorder(nil, nil, nil, mw.speedLabel, mw.statusBar)
	mw.SetContent(container.NewBorder(mw.pathPanel, statusRow, nil, nil, outer))
}

func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	return container.NewHBox(
		widget.NewLabel("Zoom:"),
		widget.NewButton("-", mw.viewer.ZoomOut),
		widget.NewButton("+", mw.viewer.ZoomIn),
		widget.NewButton("Fit", mw.viewer.FitToWindow),
		widget.NewButton("1:1", func() { mw.viewer.SetZoom(1.0) }),
		widget.NewSeparator(),
		widget.NewButton("Draw Box (Q)", func() { mw.viewer.Editor().ArmDraw() }),
		widget.NewButton("Predict (*)", mw.onPredict),
	)
}

func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Reload Source Directory", func() {
			mw.onLoad(mw.pathPanel.SourceDir(), mw.pathPanel.TargetDir())
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	showStats := fyne.NewMenuItem("Show Label Statistics", nil)
	showStats.Action = func() {
		showStats.Checked = !showStats.Checked
		mw.imageList.SetShowStats(showStats.Checked)
	}
	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.viewer.ZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.viewer.ZoomOut),
		fyne.NewMenuItem("Fit to Window", mw.viewer.FitToWindow),
		fyne.NewMenuItem("Actual Size", func() { mw.viewer.SetZoom(1.0) }),
		fyne.NewMenuItemSeparator(),
		showStats,
	)

	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Predict Current Image", mw.onPredict),
		fyne.NewMenuItem("Model Settings...", mw.onModelSettings),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Reset Speed Statistics", func() {
			mw.tracker.Reset()
			mw.updateSpeed(0, 0)
		}),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			dialog.ShowInformation("About",
				"YOLO Draw "+version.String()+
					"\nDataset review and bulk classification for ship detection.",
				mw.Window)
		}),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, toolsMenu, helpMenu))
}

// setupShortcuts maps the single-key commands onto the window canvas.
func (mw *MainWindow) setupShortcuts() {
	mw.Canvas().SetOnTypedRune(func(r rune) {
		switch r {
		case 'q', 'Q':
			mw.viewer.Editor().ArmDraw()
			mw.updateStatus("Draw mode: drag to create a box")
		case 'w', 'W':
			mw.imageList.NavigateUp()
		case 's', 'S':
			mw.imageList.NavigateDown()
		case 'b', 'B':
			if mw.imageList.ExtendBatchToCurrent() {
				mw.updateStatus("Batch selection extended")
			}
		case 't', 'T':
			mw.onClearBoxes()
		case 'u', 'U':
			mw.onBatchDiscardToCurrent()
		case '*':
			mw.onPredict()
		case '+':
			if n := mw.viewer.AcceptAllPredictions(); n > 0 {
				mw.saveRecord()
				mw.updateStatus(fmt.Sprintf("Accepted %d predictions", n))
			}
		case '-':
			mw.viewer.ClearPredictions()
		case '1', '2', '3', '4', '5', '6', '7', '8', '9':
			mw.viewer.Editor().Select(int(r - '1'))
			mw.viewer.Refresh()
		}
	})
}

// onLoad validates the source layout and fills the image list.
func (mw *MainWindow) onLoad(sourceDir, targetDir string) {
	if sourceDir == "" {
		dialog.ShowInformation("Load", "Choose a source directory first.", mw.Window)
		return
	}
	src, err := dataset.Resolve(sourceDir)
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}

	mw.saveRecord()
	mw.source = src
	mw.targetDir = targetDir

	files := dataset.ListImages(src.ImagesDir)
	mw.imageList.SetFiles(files, src.LabelsDir)
	mw.pathPanel.RememberCurrent()
	if err := mw.settings.Save(); err != nil {
		log.Printf("save settings: %v", err)
	}

	mw.updateStatus(fmt.Sprintf("Loaded %d images from %s", len(files), sourceDir))
	mw.imageList.SelectFirst()
}

func (mw *MainWindow) onGroupedChanged(grouped bool) {
	mw.settings.GroupByID = grouped
	mw.imageList.SetGrouped(grouped)
	mw.classifyPanel.SetGrouped(grouped)
}

// onImageSelected persists the outgoing record and shows the new image.
// An empty path means the list ran out.
func (mw *MainWindow) onImageSelected(path string) {
	mw.saveRecord()

	if path == "" {
		mw.record = nil
		mw.viewer.Clear()
		mw.updateStatus("No images left")
		return
	}

	rec := label.NewRecord(path, label.PathFor(path, mw.source.LabelsDir))
	if err := mw.viewer.ShowImage(path, rec); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.record = rec
	mw.updateStatus(filepath.Base(path))
}

// saveRecord persists pending edits on the current record.
func (mw *MainWindow) saveRecord() {
	if mw.record == nil || !mw.record.Modified() {
		return
	}
	if err := mw.record.Save(); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

// classifier builds a classifier for the current target directory.
func (mw *MainWindow) classifier() (*classify.Classifier, bool) {
	if mw.targetDir == "" {
		dialog.ShowInformation("Classify", "Choose a target directory first.", mw.Window)
		return nil, false
	}
	return &classify.Classifier{
		Taxonomy:   mw.taxonomy,
		TargetDir:  mw.targetDir,
		ReviewMode: mw.reviewMode,
	}, true
}

// handleAction is the single dispatch point for panel, menu, and shortcut
// commands.
func (mw *MainWindow) handleAction(a panels.Action) {
	switch a.Kind {
	case panels.ActionClassifyAs:
		mw.onClassifyAs(a.ClassID)
	case panels.ActionAutoClassify:
		mw.onAutoClassify()
	case panels.ActionDiscardSingle:
		// With a batch selection active, discard applies to the whole batch.
		mw.record = nil
		mw.imageList.RemoveBatch()
	case panels.ActionDiscardGroup:
		mw.record = nil
		mw.imageList.RemoveGroup()
	case panels.ActionSetBoxClass:
		mw.viewer.Editor().Select(a.Row)
		if mw.viewer.Editor().SetSelectedClass(a.ClassID) {
			mw.saveRecord()
			mw.viewer.Refresh()
			mw.imageList.Refresh()
		}
	case panels.ActionDeleteBox:
		mw.viewer.Editor().Select(a.Row)
		if mw.viewer.Editor().RemoveSelected() {
			mw.saveRecord()
			mw.viewer.Refresh()
			mw.imageList.Refresh()
		}
	case panels.ActionAcceptPrediction:
		if mw.viewer.AcceptPrediction(a.Row) {
			mw.saveRecord()
		}
	case panels.ActionRejectPrediction:
		mw.viewer.RejectPrediction(a.Row)
	}
}

// onClassifyAs files the current image, group, or batch under one class.
func (mw *MainWindow) onClassifyAs(classID int) {
	c, ok := mw.classifier()
	if !ok {
		return
	}
	cat := mw.imageList.Catalog()

	if cat.InBatch() {
		paths := append([]string(nil), cat.Batch()...)
		moved := mw.classifyEach(c, paths, classID)
		mw.afterBatch(len(moved), moved)
		mw.updateStatus(fmt.Sprintf("Moved %d images to %s", len(moved), mw.taxonomy.Name(classID)))
		return
	}

	// Grouped mode: all versions of the group share its fate.
	if cat.Grouped() && cat.CurrentGroup() != "" {
		paths := append([]string(nil), cat.CurrentGroupFiles()...)
		moved := mw.classifyEach(c, paths, classID)
		mw.record = nil
		if len(moved) > 0 {
			mw.tracker.Record(len(moved))
		}
		mw.imageList.RemoveGroup()
		mw.updateStatus(fmt.Sprintf("Moved %d images to %s", len(moved), mw.taxonomy.Name(classID)))
		return
	}

	if mw.record == nil {
		dialog.ShowInformation("Classify", "Select an image first.", mw.Window)
		return
	}
	out, err := c.AsClass(mw.record, classID)
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.record = nil
	mw.tracker.Record(1)
	mw.imageList.RemoveCurrent()
	mw.updateStatus("Moved to " + out.Bucket)
}

// classifyEach re-tags and moves each file, logging per-file failures and
// returning the paths that actually moved.
func (mw *MainWindow) classifyEach(c *classify.Classifier, paths []string, classID int) []string {
	moved := make([]string, 0, len(paths))
	for _, img := range paths {
		rec := mw.recordFor(img)
		if _, err := c.AsClass(rec, classID); err != nil {
			log.Printf("classify %s: %v", filepath.Base(img), err)
			continue
		}
		moved = append(moved, img)
	}
	return moved
}

// onAutoClassify files by label content: background, mixed, or the single
// class present.
func (mw *MainWindow) onAutoClassify() {
	c, ok := mw.classifier()
	if !ok {
		return
	}
	cat := mw.imageList.Catalog()

	if cat.InBatch() {
		paths := append([]string(nil), cat.Batch()...)
		res := c.AutoBatch(paths, mw.source.LabelsDir)
		for _, err := range res.Errors {
			log.Printf("auto classify: %v", err)
		}
		mw.afterBatch(res.Succeeded, res.Moved)
		mw.updateStatus(fmt.Sprintf("Classified %d images (%d mixed, %d background, %d failed)",
			res.Succeeded, res.Mixed, res.Background, len(res.Errors)))
		return
	}

	if mw.record == nil {
		dialog.ShowInformation("Classify", "Select an image first.", mw.Window)
		return
	}
	out, err := c.Auto(mw.record)
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.record = nil
	mw.tracker.Record(1)
	mw.imageList.RemoveCurrent()
	mw.updateStatus("Moved to " + out.Bucket)
}

// recordFor resolves the record for any catalog path, reusing the loaded
// one so pending edits are not lost.
func (mw *MainWindow) recordFor(imagePath string) *label.Record {
	if mw.record != nil && mw.record.ImagePath == imagePath {
		return mw.record
	}
	return label.NewRecord(imagePath, label.PathFor(imagePath, mw.source.LabelsDir))
}

// afterBatch records throughput and drops the processed files.
func (mw *MainWindow) afterBatch(moved int, paths []string) {
	if moved > 0 {
		mw.tracker.Record(moved)
	}
	if len(paths) > 0 {
		mw.record = nil
		mw.imageList.RemovePaths(paths)
	}
	mw.classifyPanel.SetBatchCount(0)
}

// onClearBoxes deletes every row of the current record.
func (mw *MainWindow) onClearBoxes() {
	if mw.record == nil {
		return
	}
	mw.record.Clear()
	mw.saveRecord()
	mw.viewer.Refresh()
	mw.imageList.Refresh()
	mw.updateStatus("Cleared all boxes")
}

// onBatchDiscardToCurrent removes every file from the top of the flat
// list through the current selection.
func (mw *MainWindow) onBatchDiscardToCurrent() {
	if mw.imageList.Catalog().Grouped() {
		dialog.ShowInformation("Discard",
			"Batch discard is only available in ungrouped mode.", mw.Window)
		return
	}
	paths := mw.imageList.UpToCurrent()
	if len(paths) == 0 {
		return
	}
	mw.record = nil
	mw.imageList.RemovePaths(paths)
	mw.updateStatus(fmt.Sprintf("Discarded %d images", len(paths)))
}

// onPredict runs the detection model on the current image in the
// background and shows the result boxes.
func (mw *MainWindow) onPredict() {
	if mw.record == nil {
		dialog.ShowInformation("Predict", "Select an image first.", mw.Window)
		return
	}
	det, err := mw.loadDetector()
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}

	imagePath := mw.record.ImagePath
	mw.updateStatus("Predicting...")
	mw.watchPrediction(det.PredictAsync(imagePath), imagePath)
}

// watchPrediction polls the inference task from the driver's animation
// loop, so the result lands on the UI thread and window state is only
// touched there.
func (mw *MainWindow) watchPrediction(task *detect.Task, imagePath string) {
	delivered := false
	var poll *fyne.Animation
	poll = fyne.NewAnimation(predictPollInterval, func(float32) {
		if delivered {
			return
		}
		preds, ok, err := task.Poll()
		if !ok {
			return
		}
		delivered = true
		poll.Stop()

		if err != nil {
			log.Printf("predict %s: %v", filepath.Base(imagePath), err)
			mw.updateStatus("Prediction failed: " + err.Error())
			return
		}
		// Drop results that arrive after the user moved on.
		if mw.record == nil || mw.record.ImagePath != imagePath {
			return
		}
		mw.viewer.SetPredictions(preds)
		mw.updateStatus(fmt.Sprintf("%d predictions", len(preds)))
	})
	poll.RepeatCount = fyne.AnimationRepeatForever
	poll.Start()
}

// loadDetector lazily loads the selected model, reloading when the
// selection changed.
func (mw *MainWindow) loadDetector() (*detect.Detector, error) {
	path := mw.models.SelectedPath()
	if path == "" {
		return nil, fmt.Errorf("no model weight files available")
	}
	if mw.detector != nil && mw.detector.ModelPath() == path {
		return mw.detector, nil
	}
	if mw.detector != nil {
		mw.detector.Close()
		mw.detector = nil
	}
	det, err := detect.NewDetector(path)
	if err != nil {
		return nil, err
	}
	mw.detector = det
	return det, nil
}

func (mw *MainWindow) onModelSettings() {
	dialogs.ShowModelSettings(mw.Window, mw.models, func(name string) {
		mw.updateStatus("Model: " + name)
	})
}

// showClassMenu opens the right-click menu for a label row.
func (mw *MainWindow) showClassMenu(box int, pos fyne.Position) {
	items := make([]*fyne.MenuItem, 0, mw.taxonomy.Len()+2)
	for _, id := range mw.taxonomy.IDs() {
		classID := id
		items = append(items, fyne.NewMenuItem(
			fmt.Sprintf("%d: %s", classID, mw.taxonomy.Name(classID)),
			func() {
				mw.handleAction(panels.Action{
					Kind: panels.ActionSetBoxClass, Row: box, ClassID: classID,
				})
			}))
	}
	items = append(items, fyne.NewMenuItemSeparator())
	items = append(items, fyne.NewMenuItem("Delete Box", func() {
		mw.handleAction(panels.Action{Kind: panels.ActionDeleteBox, Row: box})
	}))

	widget.ShowPopUpMenuAtPosition(fyne.NewMenu("", items...), mw.Canvas(), pos)
}

// showClassPickerForNewBox asks for the class of a freshly drawn box,
// which defaults to class 0.
func (mw *MainWindow) showClassPickerForNewBox(box int) {
	ids := mw.taxonomy.IDs()
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, fmt.Sprintf("%d: %s", id, mw.taxonomy.Name(id)))
	}
	sel := widget.NewSelect(names, nil)

	dialog.ShowCustomConfirm("New Box", "Assign", "Keep 0", sel, func(ok bool) {
		if ok && sel.SelectedIndex() >= 0 {
			mw.handleAction(panels.Action{
				Kind: panels.ActionSetBoxClass, Row: box, ClassID: ids[sel.SelectedIndex()],
			})
		}
		mw.saveRecord()
	}, mw.Window)
}

// showPredictionMenu opens the right-click menu for a prediction row.
func (mw *MainWindow) showPredictionMenu(pred int, pos fyne.Position) {
	menu := fyne.NewMenu("",
		fyne.NewMenuItem("Accept Prediction", func() {
			mw.handleAction(panels.Action{Kind: panels.ActionAcceptPrediction, Row: pred})
		}),
		fyne.NewMenuItem("Reject Prediction", func() {
			mw.handleAction(panels.Action{Kind: panels.ActionRejectPrediction, Row: pred})
		}),
	)
	widget.ShowPopUpMenuAtPosition(menu, mw.Canvas(), pos)
}

// startSpeedTicker refreshes the throughput display once per second on the
// driver's animation loop.
func (mw *MainWindow) startSpeedTicker() {
	mw.speedAnim = fyne.NewAnimation(time.Second, func(float32) {
		rate, total := mw.tracker.Rate()
		mw.updateSpeed(rate, total)
	})
	mw.speedAnim.RepeatCount = fyne.AnimationRepeatForever
	mw.speedAnim.Start()
}

func (mw *MainWindow) updateSpeed(rate float64, total int) {
	text := fmt.Sprintf("Speed: %.1f images/sec (%d total)", rate, total)
	if text == mw.lastSpeed {
		return
	}
	mw.lastSpeed = text
	mw.speedLabel.SetText(text)
}

func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// onClosed flushes pending state on exit.
func (mw *MainWindow) onClosed() {
	mw.speedAnim.Stop()
	mw.saveRecord()
	if err := mw.settings.Save(); err != nil {
		log.Printf("save settings: %v", err)
	}
	if mw.detector != nil {
		mw.detector.Close()
	}
}
