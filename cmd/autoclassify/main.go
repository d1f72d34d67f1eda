// Command autoclassify files every image of a dataset into per-class
// buckets without opening the GUI. Images whose labels hold a single
// class go to that class, empty labels go to background, and labels with
// several classes go to mixed.
package main

import (
	"flag"
	"log"

	"github.com/1049861657/yolo-draw/internal/classify"
	"github.com/1049861657/yolo-draw/internal/dataset"
	"github.com/1049861657/yolo-draw/internal/label"
	"github.com/1049861657/yolo-draw/internal/stats"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	sourceDir := flag.String("source", "", "dataset directory holding images and labels")
	targetDir := flag.String("target", "", "directory receiving the class buckets")
	taxonomyPath := flag.String("taxonomy", "resources/ship_types.json", "class id to name mapping file")
	review := flag.Bool("review", false, "delete source files after a verified copy")
	flag.Parse()

	if *sourceDir == "" || *targetDir == "" {
		flag.Usage()
		log.Fatal("both -source and -target are required")
	}

	taxonomy, err := classify.LoadTaxonomy(*taxonomyPath)
	if err != nil {
		log.Fatalf("load taxonomy %s: %v", *taxonomyPath, err)
	}

	src, err := dataset.Resolve(*sourceDir)
	if err != nil {
		log.Fatalf("resolve %s: %v", *sourceDir, err)
	}
	images := dataset.ListImages(src.ImagesDir)
	if len(images) == 0 {
		log.Fatalf("no images found in %s", src.ImagesDir)
	}
	log.Printf("Classifying %d images from %s", len(images), src.ImagesDir)

	c := &classify.Classifier{
		Taxonomy:   taxonomy,
		TargetDir:  *targetDir,
		ReviewMode: *review,
	}

	tracker := stats.NewTracker()
	stop := make(chan struct{})
	go tracker.Tick(stop, func(rate float64, total int) {
		if rate > 0 {
			log.Printf("progress: %d/%d images, %.1f images/sec", total, len(images), rate)
		}
	})

	var mixed, background, failed int
	for _, img := range images {
		rec := label.NewRecord(img, label.PathFor(img, src.LabelsDir))
		out, err := c.Auto(rec)
		if err != nil {
			failed++
			log.Printf("error: classify %s: %v", img, err)
			continue
		}
		tracker.Record(1)
		if out.Mixed {
			mixed++
		}
		if out.Empty {
			background++
		}
	}
	close(stop)

	log.Printf("Done: %d classified, %d mixed, %d background, %d failed",
		tracker.Total(), mixed, background, failed)
}
