package panels

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/1049861657/yolo-draw/internal/classify"
)

// buttonsPerRow controls the class-button grid width.
const buttonsPerRow = 4

// ClassifyPanel holds the class-button grid and the discard/send actions.
// Every control dispatches through the single action handler.
type ClassifyPanel struct {
	widget.BaseWidget

	taxonomy *classify.Taxonomy
	box      *fyne.Container

	batchLabel   *widget.Label
	discardGroup *widget.Button

	onAction func(Action)
}

// NewClassifyPanel builds the panel from the loaded taxonomy.
func NewClassifyPanel(taxonomy *classify.Taxonomy) *ClassifyPanel {
	cp := &ClassifyPanel{taxonomy: taxonomy}

	grid := container.NewGridWithColumns(buttonsPerRow)
	for _, id := range taxonomy.IDs() {
		classID := id
		grid.Add(widget.NewButton(
			fmt.Sprintf("%d: %s", classID, taxonomy.Name(classID)),
			func() {
				cp.dispatch(Action{Kind: ActionClassifyAs, Row: -1, ClassID: classID})
			}))
	}

	discardSingle := widget.NewButton("Discard", func() {
		cp.dispatch(Action{Kind: ActionDiscardSingle, Row: -1})
	})
	cp.discardGroup = widget.NewButton("Discard Group", func() {
		cp.dispatch(Action{Kind: ActionDiscardGroup, Row: -1})
	})
	send := widget.NewButton("Send", func() {
		cp.dispatch(Action{Kind: ActionAutoClassify, Row: -1})
	})

	cp.batchLabel = widget.NewLabel("")
	cp.batchLabel.Hide()

	cp.box = container.NewVBox(
		widget.NewLabel("Click a class to file and move the image:"),
		grid,
		widget.NewSeparator(),
		container.NewHBox(discardSingle, cp.discardGroup, send),
		cp.batchLabel,
	)

	cp.ExtendBaseWidget(cp)
	return cp
}

// CreateRenderer implements fyne.Widget.
func (cp *ClassifyPanel) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(cp.box)
}

// OnAction registers the command handler.
func (cp *ClassifyPanel) OnAction(fn func(Action)) { cp.onAction = fn }

func (cp *ClassifyPanel) dispatch(a Action) {
	if cp.onAction != nil {
		cp.onAction(a)
	}
}

// SetBatchCount shows or hides the batch-mode indicator.
func (cp *ClassifyPanel) SetBatchCount(n int) {
	if n > 1 {
		cp.batchLabel.SetText(fmt.Sprintf("Batch mode: %d images selected", n))
		cp.batchLabel.Show()
		return
	}
	cp.batchLabel.Hide()
}

// SetGrouped enables the group-discard button only in grouped mode.
func (cp *ClassifyPanel) SetGrouped(grouped bool) {
	if grouped {
		cp.discardGroup.Enable()
		return
	}
	cp.discardGroup.Disable()
}
