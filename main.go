// Package main provides the entry point for the YOLO Draw application.
package main

import (
	"flag"
	"log"

	"fyne.io/fyne/v2/app"

	"github.com/1049861657/yolo-draw/internal/classify"
	"github.com/1049861657/yolo-draw/internal/detect"
	"github.com/1049861657/yolo-draw/internal/settings"
	"github.com/1049861657/yolo-draw/internal/version"
	"github.com/1049861657/yolo-draw/ui/mainwindow"
)

const appTitle = "YOLO Draw"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	taxonomyPath := flag.String("taxonomy", "resources/ship_types.json", "class id to name mapping file")
	modelsDir := flag.String("models", "models", "directory holding ONNX model weights")
	flag.Parse()

	log.Printf("Starting %s %s", appTitle, version.String())

	taxonomy, err := classify.LoadTaxonomy(*taxonomyPath)
	if err != nil {
		log.Fatalf("load taxonomy %s: %v", *taxonomyPath, err)
	}

	s := settings.Load()
	models := detect.NewModelManager(*modelsDir, s)

	fyneApp := app.New()
	win := mainwindow.New(fyneApp, s, taxonomy, models)
	win.SetTitle(appTitle)

	win.ShowAndRun()
}
