// Package classify maps class IDs to display names and routes records into
// per-class target buckets.
package classify

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"sort"
	"strconv"
)

// UnknownClassName is the bucket used for class IDs absent from the taxonomy.
const UnknownClassName = "unclassified"

// Taxonomy is the read-only class-ID to display-name mapping, loaded once at
// startup from a JSON object with string-typed numeric keys.
type Taxonomy struct {
	names map[int]string
	ids   []int
}

// LoadTaxonomy reads a taxonomy JSON file, e.g. {"0": "Tanker", "1": "Cargo"}.
func LoadTaxonomy(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy: %w", err)
	}
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse taxonomy %s: %w", path, err)
	}

	t := &Taxonomy{names: make(map[int]string, len(raw))}
	for key, name := range raw {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("taxonomy key %q is not a numeric ID", key)
		}
		t.names[id] = name
		t.ids = append(t.ids, id)
	}
	sort.Ints(t.ids)
	return t, nil
}

// Name returns the display name for a class ID, or UnknownClassName when the
// ID is not in the taxonomy.
func (t *Taxonomy) Name(id int) string {
	if name, ok := t.names[id]; ok {
		return name
	}
	return UnknownClassName
}

// Has reports whether the taxonomy defines the class ID.
func (t *Taxonomy) Has(id int) bool {
	_, ok := t.names[id]
	return ok
}

// IDs returns the defined class IDs in ascending order.
func (t *Taxonomy) IDs() []int { return t.ids }

// Len returns the number of defined classes.
func (t *Taxonomy) Len() int { return len(t.ids) }

// boxPalette assigns each class a stable display color; IDs past the end
// wrap around.
var boxPalette = []color.RGBA{
	{R: 0xFF, A: 0xFF},                   // red
	{G: 0xFF, A: 0xFF},                   // green
	{B: 0xFF, A: 0xFF},                   // blue
	{R: 0xFF, G: 0xFF, A: 0xFF},          // yellow
	{R: 0xFF, B: 0xFF, A: 0xFF},          // magenta
	{G: 0xFF, B: 0xFF, A: 0xFF},          // cyan
	{R: 0xFF, G: 0xA5, A: 0xFF},          // orange
	{R: 0x80, B: 0x80, A: 0xFF},          // violet
	{G: 0x80, A: 0xFF},                   // dark green
	{R: 0x80, A: 0xFF},                   // dark red
	{G: 0x80, B: 0x80, A: 0xFF},          // teal
	{R: 0xC0, G: 0xC0, B: 0xC0, A: 0xFF}, // silver
}

// BoxColor returns the display color for a class ID.
func BoxColor(id int) color.RGBA {
	if id < 0 {
		id = -id
	}
	return boxPalette[id%len(boxPalette)]
}
