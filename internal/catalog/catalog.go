// Package catalog maintains the image list: grouping by ID prefix,
// version ordering within groups, a navigation cursor, and removal with
// deterministic next-selection so the UI is never stranded.
package catalog

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// versionSep splits a filename into its group key and version suffix.
const versionSep = "_v"

// Entry is one catalog item: an image path plus its derived group key and
// version number. Files without a version suffix have an empty GroupKey and
// Version -1, which sorts them before any versioned sibling.
type Entry struct {
	Path     string
	GroupKey string
	Version  int
}

// ParseEntry derives the group key and version from an image filename.
// The key is the substring before the first "_v"; the version is the integer
// between "_v" and the next ".".
func ParseEntry(path string) Entry {
	e := Entry{Path: path, Version: -1}
	name := filepath.Base(path)
	idx := strings.Index(name, versionSep)
	if idx < 0 {
		return e
	}
	e.GroupKey = name[:idx]

	rest := name[idx+len(versionSep):]
	if dot := strings.Index(rest, "."); dot >= 0 {
		rest = rest[:dot]
	}
	if v, err := strconv.Atoi(rest); err == nil {
		e.Version = v
	}
	return e
}

// Catalog tracks the image files under review and the selection cursor.
// In grouped mode, files sharing a group key are displayed together and
// share fate during discard/classify-group operations.
type Catalog struct {
	files     []string            // display order
	groups    map[string][]string // group key -> member paths, version-sorted
	groupKeys []string            // sorted group keys
	grouped   bool

	current      int    // index into files, -1 when nothing is selected
	currentGroup string // group key of the current selection, grouped mode

	batch []string // batch selection, ungrouped mode only
}

// New creates an empty catalog.
func New(grouped bool) *Catalog {
	return &Catalog{grouped: grouped, current: -1}
}

// Load replaces the catalog contents. Files are expected pre-scanned; they
// are re-sorted into display order according to the grouping mode.
func (c *Catalog) Load(files []string) {
	c.files = append([]string(nil), files...)
	c.current = -1
	c.currentGroup = ""
	c.batch = nil
	c.rebuild()
}

// SetGrouped switches between grouped and flat display, regrouping the
// current file set.
func (c *Catalog) SetGrouped(grouped bool) {
	if c.grouped == grouped {
		return
	}
	c.grouped = grouped
	c.currentGroup = ""
	c.batch = nil
	c.rebuild()
	if c.current >= len(c.files) {
		c.current = len(c.files) - 1
	}
}

// Grouped reports the current grouping mode.
func (c *Catalog) Grouped() bool { return c.grouped }

// rebuild recomputes display order and group structures.
func (c *Catalog) rebuild() {
	sort.Strings(c.files)
	c.groups = make(map[string][]string)
	c.groupKeys = nil

	if !c.grouped {
		return
	}

	for _, f := range c.files {
		e := ParseEntry(f)
		if e.GroupKey == "" {
			continue
		}
		c.groups[e.GroupKey] = append(c.groups[e.GroupKey], f)
	}
	for key := range c.groups {
		c.groupKeys = append(c.groupKeys, key)
		members := c.groups[key]
		sort.SliceStable(members, func(i, j int) bool {
			return ParseEntry(members[i]).Version < ParseEntry(members[j]).Version
		})
	}
	sort.Strings(c.groupKeys)

	// In grouped mode the display order is group order; files without a
	// group key are not shown, matching the grouped tree view.
	c.files = c.files[:0]
	for _, key := range c.groupKeys {
		c.files = append(c.files, c.groups[key]...)
	}
}

// Files returns the display-ordered file list.
func (c *Catalog) Files() []string { return c.files }

// Len returns the number of files in display order.
func (c *Catalog) Len() int { return len(c.files) }

// GroupKeys returns the sorted group keys.
func (c *Catalog) GroupKeys() []string { return c.groupKeys }

// GroupFiles returns the version-sorted members of a group.
func (c *Catalog) GroupFiles(key string) []string { return c.groups[key] }

// Current returns the selected path, if any.
func (c *Catalog) Current() (string, bool) {
	if c.current < 0 || c.current >= len(c.files) {
		return "", false
	}
	return c.files[c.current], true
}

// CurrentGroup returns the group key of the current selection.
func (c *Catalog) CurrentGroup() string { return c.currentGroup }

// CurrentGroupFiles returns the members of the current selection's group.
func (c *Catalog) CurrentGroupFiles() []string {
	if c.currentGroup == "" {
		return nil
	}
	return c.groups[c.currentGroup]
}

// Select moves the cursor to the given path.
func (c *Catalog) Select(path string) bool {
	for i, f := range c.files {
		if f == path {
			c.current = i
			if c.grouped {
				c.currentGroup = ParseEntry(path).GroupKey
			}
			return true
		}
	}
	return false
}

// SelectIndex moves the cursor to the display-order index, clamped into
// range. Returns the newly selected path.
func (c *Catalog) SelectIndex(i int) (string, bool) {
	if len(c.files) == 0 {
		c.current = -1
		return "", false
	}
	if i < 0 {
		i = 0
	}
	if i >= len(c.files) {
		i = len(c.files) - 1
	}
	c.current = i
	path := c.files[i]
	if c.grouped {
		c.currentGroup = ParseEntry(path).GroupKey
	}
	return path, true
}

// Up moves the selection one file backward. In grouped mode it moves within
// the current group, wrapping to the previous group's last file at a group
// edge. Returns the newly selected path.
func (c *Catalog) Up() (string, bool) {
	return c.step(-1)
}

// Down moves the selection one file forward, wrapping to the next group's
// first file at a group edge in grouped mode.
func (c *Catalog) Down() (string, bool) {
	return c.step(+1)
}

func (c *Catalog) step(delta int) (string, bool) {
	if len(c.files) == 0 {
		return "", false
	}
	if c.current < 0 {
		return c.SelectIndex(0)
	}
	next := c.current + delta
	if next < 0 || next >= len(c.files) {
		// Boundary of the whole list: stay put. Display order already
		// concatenates groups, so stepping across a group edge lands on the
		// adjacent group's boundary file.
		return c.files[c.current], true
	}
	return c.SelectIndex(next)
}

// Remove deletes a path from the catalog and auto-selects a deterministic
// next item: the same display index in flat mode (clamped to the new tail),
// or the same in-group position falling back to the next group's first file
// in grouped mode. Removing a group's sole member deletes the group.
// Returns the newly selected path, or ok=false when the catalog is empty.
func (c *Catalog) Remove(path string) (string, bool) {
	idx := -1
	for i, f := range c.files {
		if f == path {
			idx = i
			break
		}
	}
	if idx < 0 {
		return c.Current()
	}

	e := ParseEntry(path)
	inGroupIdx := -1
	if c.grouped && e.GroupKey != "" {
		for i, f := range c.groups[e.GroupKey] {
			if f == path {
				inGroupIdx = i
				break
			}
		}
	}

	c.files = append(c.files[:idx], c.files[idx+1:]...)
	c.batch = removePath(c.batch, path)

	if c.grouped && e.GroupKey != "" {
		members := removePath(c.groups[e.GroupKey], path)
		if len(members) == 0 {
			delete(c.groups, e.GroupKey)
			c.groupKeys = removePath(c.groupKeys, e.GroupKey)
			if c.currentGroup == e.GroupKey {
				c.currentGroup = ""
			}
			return c.selectNextGroupFirst(e.GroupKey)
		}
		c.groups[e.GroupKey] = members
		if inGroupIdx >= len(members) {
			inGroupIdx = len(members) - 1
		}
		if ok := c.Select(members[inGroupIdx]); ok {
			return members[inGroupIdx], true
		}
	}

	return c.SelectIndex(idx)
}

// RemoveGroup deletes every member of the current group and selects the
// next group's first file (wrapping to the first group at the end).
func (c *Catalog) RemoveGroup() (string, bool) {
	key := c.currentGroup
	if !c.grouped || key == "" {
		return c.Current()
	}
	for _, f := range c.groups[key] {
		c.files = removePath(c.files, f)
	}
	delete(c.groups, key)
	c.groupKeys = removePath(c.groupKeys, key)
	c.currentGroup = ""
	return c.selectNextGroupFirst(key)
}

// selectNextGroupFirst selects the first file of the group that follows the
// removed key in sort order, or the last group when the removed key was at
// the end. Returns ok=false when no groups remain.
func (c *Catalog) selectNextGroupFirst(removedKey string) (string, bool) {
	if len(c.groupKeys) == 0 {
		c.current = -1
		return "", false
	}
	next := sort.SearchStrings(c.groupKeys, removedKey)
	if next >= len(c.groupKeys) {
		next = len(c.groupKeys) - 1
	}
	key := c.groupKeys[next]
	members := c.groups[key]
	if len(members) == 0 {
		c.current = -1
		return "", false
	}
	c.Select(members[0])
	return members[0], true
}

// SetBatch records a multi-selection. Batch mode only exists in flat mode;
// a single-item selection exits it.
func (c *Catalog) SetBatch(paths []string) {
	if c.grouped || len(paths) < 2 {
		c.batch = nil
		return
	}
	c.batch = append([]string(nil), paths...)
}

// Batch returns the batch-selected paths.
func (c *Catalog) Batch() []string { return c.batch }

// InBatch reports whether a batch selection is active.
func (c *Catalog) InBatch() bool { return len(c.batch) > 1 }

// ClearBatch drops the batch selection.
func (c *Catalog) ClearBatch() { c.batch = nil }

// RemoveBatch removes every batch-selected file and clears the batch,
// selecting the file now occupying the first removed slot.
func (c *Catalog) RemoveBatch() (string, bool) {
	if !c.InBatch() {
		return c.Current()
	}
	firstIdx := len(c.files)
	for _, p := range c.batch {
		for i, f := range c.files {
			if f == p && i < firstIdx {
				firstIdx = i
			}
		}
	}
	for _, p := range c.batch {
		c.files = removePath(c.files, p)
	}
	c.batch = nil
	return c.SelectIndex(firstIdx)
}

// UpToCurrent returns every file from the start of the flat list through
// the current selection, inclusive. Only meaningful in flat mode.
func (c *Catalog) UpToCurrent() []string {
	if c.grouped || c.current < 0 || c.current >= len(c.files) {
		return nil
	}
	return append([]string(nil), c.files[:c.current+1]...)
}

func removePath(list []string, path string) []string {
	for i, f := range list {
		if f == path {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
