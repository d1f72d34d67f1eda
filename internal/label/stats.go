package label

import "gonum.org/v1/gonum/stat"

// Stats summarizes one image's label file for list display.
type Stats struct {
	Count        int
	ClassIDs     []int   // per-row class IDs, in row order
	MeanAreaFrac float64 // mean box area as a fraction of the image area
}

// StatsFor reads a label file and summarizes it. A missing or empty file
// yields zero stats.
func StatsFor(labelPath string) Stats {
	rows := ReadFile(labelPath)
	if len(rows) == 0 {
		return Stats{}
	}

	ids := make([]int, len(rows))
	areas := make([]float64, len(rows))
	for i, row := range rows {
		ids[i] = row.Class
		areas[i] = row.W * row.H
	}

	return Stats{
		Count:        len(rows),
		ClassIDs:     ids,
		MeanAreaFrac: stat.Mean(areas, nil),
	}
}
