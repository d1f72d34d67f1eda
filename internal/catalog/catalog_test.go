package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntry(t *testing.T) {
	e := ParseEntry("/data/images/ship123_v2.jpg")
	assert.Equal(t, "ship123", e.GroupKey)
	assert.Equal(t, 2, e.Version)

	e = ParseEntry("ship123_v10.png")
	assert.Equal(t, "ship123", e.GroupKey)
	assert.Equal(t, 10, e.Version)

	// No version suffix: no group, version -1.
	e = ParseEntry("plain.jpg")
	assert.Equal(t, "", e.GroupKey)
	assert.Equal(t, -1, e.Version)

	// Unparseable version keeps the group key.
	e = ParseEntry("ship_vx.jpg")
	assert.Equal(t, "ship", e.GroupKey)
	assert.Equal(t, -1, e.Version)
}

func TestGroupedLoadOrdersByGroupThenVersion(t *testing.T) {
	c := New(true)
	c.Load([]string{"B_v1.jpg", "A_v2.jpg", "A_v1.jpg", "loose.jpg"})

	assert.Equal(t, []string{"A", "B"}, c.GroupKeys())
	assert.Equal(t, []string{"A_v1.jpg", "A_v2.jpg"}, c.GroupFiles("A"))
	// Files without a version suffix are dropped from the grouped view.
	assert.Equal(t, []string{"A_v1.jpg", "A_v2.jpg", "B_v1.jpg"}, c.Files())
}

func TestFlatLoadKeepsEverything(t *testing.T) {
	c := New(false)
	c.Load([]string{"B_v1.jpg", "A_v2.jpg", "loose.jpg"})
	assert.Equal(t, []string{"A_v2.jpg", "B_v1.jpg", "loose.jpg"}, c.Files())
	assert.Empty(t, c.GroupKeys())
}

func TestNavigationCrossesGroupBoundaries(t *testing.T) {
	c := New(true)
	c.Load([]string{"A_v1.jpg", "A_v2.jpg", "B_v1.jpg"})
	require.True(t, c.Select("A_v2.jpg"))

	got, ok := c.Down()
	require.True(t, ok)
	assert.Equal(t, "B_v1.jpg", got)
	assert.Equal(t, "B", c.CurrentGroup())

	got, _ = c.Up()
	assert.Equal(t, "A_v2.jpg", got)
	assert.Equal(t, "A", c.CurrentGroup())

	// Stepping past either end of the whole list stays put.
	c.Select("A_v1.jpg")
	got, _ = c.Up()
	assert.Equal(t, "A_v1.jpg", got)
	c.Select("B_v1.jpg")
	got, _ = c.Down()
	assert.Equal(t, "B_v1.jpg", got)
}

func TestDownFromEmptySelectionPicksFirst(t *testing.T) {
	c := New(false)
	c.Load([]string{"a.jpg", "b.jpg"})

	got, ok := c.Down()
	require.True(t, ok)
	assert.Equal(t, "a.jpg", got)
}

func TestRemoveWithinGroupKeepsGroupAndPosition(t *testing.T) {
	c := New(true)
	c.Load([]string{"A_v1.jpg", "A_v2.jpg", "B_v1.jpg"})
	require.True(t, c.Select("A_v2.jpg"))

	got, ok := c.Remove("A_v2.jpg")
	require.True(t, ok)
	assert.Equal(t, "A_v1.jpg", got)
	assert.Equal(t, []string{"A_v1.jpg"}, c.GroupFiles("A"))
	assert.Equal(t, []string{"A", "B"}, c.GroupKeys())
}

func TestRemoveLastGroupMemberAdvancesToNextGroup(t *testing.T) {
	c := New(true)
	c.Load([]string{"A_v1.jpg", "A_v2.jpg", "B_v1.jpg"})

	_, ok := c.Remove("A_v2.jpg")
	require.True(t, ok)
	got, ok := c.Remove("A_v1.jpg")
	require.True(t, ok)

	assert.Equal(t, "B_v1.jpg", got)
	assert.Equal(t, []string{"B"}, c.GroupKeys())
	assert.Equal(t, "B", c.CurrentGroup())
}

func TestRemoveLastFileEmptiesCatalog(t *testing.T) {
	c := New(true)
	c.Load([]string{"A_v1.jpg"})
	_, ok := c.Remove("A_v1.jpg")
	assert.False(t, ok)
	_, ok = c.Current()
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestRemoveGroup(t *testing.T) {
	c := New(true)
	c.Load([]string{"A_v1.jpg", "A_v2.jpg", "B_v1.jpg", "C_v1.jpg"})
	require.True(t, c.Select("A_v1.jpg"))

	got, ok := c.RemoveGroup()
	require.True(t, ok)
	assert.Equal(t, "B_v1.jpg", got)
	assert.Equal(t, []string{"B", "C"}, c.GroupKeys())

	// Removing the trailing group selects the new last group.
	require.True(t, c.Select("C_v1.jpg"))
	got, ok = c.RemoveGroup()
	require.True(t, ok)
	assert.Equal(t, "B_v1.jpg", got)
}

func TestRemoveFlatClampsIndex(t *testing.T) {
	c := New(false)
	c.Load([]string{"a.jpg", "b.jpg", "c.jpg"})
	require.True(t, c.Select("c.jpg"))

	got, ok := c.Remove("c.jpg")
	require.True(t, ok)
	assert.Equal(t, "b.jpg", got)

	c.Select("a.jpg")
	got, ok = c.Remove("a.jpg")
	require.True(t, ok)
	assert.Equal(t, "b.jpg", got)
}

func TestBatchSelection(t *testing.T) {
	c := New(false)
	c.Load([]string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"})

	c.SetBatch([]string{"b.jpg", "c.jpg"})
	assert.True(t, c.InBatch())

	// Single-item selections never form a batch.
	c.SetBatch([]string{"b.jpg"})
	assert.False(t, c.InBatch())

	c.SetBatch([]string{"b.jpg", "c.jpg"})
	got, ok := c.RemoveBatch()
	require.True(t, ok)
	assert.Equal(t, "d.jpg", got)
	assert.False(t, c.InBatch())
	assert.Equal(t, []string{"a.jpg", "d.jpg"}, c.Files())
}

func TestBatchIgnoredInGroupedMode(t *testing.T) {
	c := New(true)
	c.Load([]string{"A_v1.jpg", "B_v1.jpg"})
	c.SetBatch([]string{"A_v1.jpg", "B_v1.jpg"})
	assert.False(t, c.InBatch())
}

func TestUpToCurrent(t *testing.T) {
	c := New(false)
	c.Load([]string{"a.jpg", "b.jpg", "c.jpg"})
	require.True(t, c.Select("b.jpg"))

	assert.Equal(t, []string{"a.jpg", "b.jpg"}, c.UpToCurrent())

	g := New(true)
	g.Load([]string{"A_v1.jpg"})
	g.Select("A_v1.jpg")
	assert.Nil(t, g.UpToCurrent())
}

func TestSetGroupedRebuilds(t *testing.T) {
	c := New(false)
	c.Load([]string{"A_v2.jpg", "A_v1.jpg", "loose.jpg"})
	assert.Equal(t, 3, c.Len())

	c.SetGrouped(true)
	assert.Equal(t, []string{"A_v1.jpg", "A_v2.jpg"}, c.Files())

	c.SetGrouped(false)
	assert.Equal(t, 2, c.Len())
}
