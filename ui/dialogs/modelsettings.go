// Package dialogs provides modal dialogs for the main window.
package dialogs

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/1049861657/yolo-draw/internal/detect"
)

// ShowModelSettings opens the detection-model picker. onSelected fires
// after a choice has been persisted through the model manager.
func ShowModelSettings(win fyne.Window, mgr *detect.ModelManager, onSelected func(name string)) {
	models := mgr.Available()
	if len(models) == 0 {
		dialog.ShowInformation("Model Settings",
			"No model weight files found in the models directory.", win)
		return
	}

	current := mgr.Selected()
	choice := current

	radio := widget.NewRadioGroup(models, func(name string) {
		choice = name
	})
	radio.SetSelected(current)

	info := widget.NewLabel("")
	updateInfo := func(name string) {
		if mi, err := mgr.Info(name); err == nil {
			info.SetText(fmt.Sprintf("%s (%.1f MB)", mi.Name, mi.SizeMB))
		}
	}
	updateInfo(current)
	radio.OnChanged = func(name string) {
		choice = name
		updateInfo(name)
	}

	content := container.NewVBox(
		widget.NewLabel("Detection model:"),
		radio,
		info,
	)

	dialog.ShowCustomConfirm("Model Settings", "Select", "Cancel", content,
		func(ok bool) {
			if !ok || choice == "" || choice == current {
				return
			}
			if err := mgr.Select(choice); err != nil {
				dialog.ShowError(err, win)
				return
			}
			if onSelected != nil {
				onSelected(choice)
			}
		}, win)
}
