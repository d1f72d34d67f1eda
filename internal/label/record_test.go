package label

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLabelFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadFileSkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	path := writeLabelFile(t, dir, "a.txt",
		"0 0.5 0.5 0.2 0.2\n"+
			"1 0.5 0.5\n"+ // three fields, skipped
			"not a number at all here\n"+
			"2 0.1 0.2 0.3 0.4\n")

	rows := ReadFile(path)
	require.Len(t, rows, 2)
	assert.Equal(t, Row{Class: 0, CX: 0.5, CY: 0.5, W: 0.2, H: 0.2}, rows[0])
	assert.Equal(t, Row{Class: 2, CX: 0.1, CY: 0.2, W: 0.3, H: 0.4}, rows[1])
}

func TestReadFileMissing(t *testing.T) {
	assert.Empty(t, ReadFile(filepath.Join(t.TempDir(), "nope.txt")))
	assert.Empty(t, ReadFile(""))
}

func TestRoundTripExact(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "labels", "r.txt")

	in := []Row{
		{Class: 0, CX: 0.5, CY: 0.5, W: 0.2, H: 0.2},
		{Class: 7, CX: 0.123456789012345, CY: 0.001, W: 0.33333333333333331, H: 1},
	}
	require.NoError(t, WriteFile(path, in))

	out := ReadFile(path)
	assert.Equal(t, in, out, "values must survive a write/read cycle exactly")
}

func TestSaveIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s.txt")

	rec := NewRecord(filepath.Join(dir, "s.jpg"), path)
	rec.Add(0, 0.5, 0.5, 0.2, 0.2)
	rec.Add(3, 0.25, 0.75, 0.1, 0.4)
	require.NoError(t, rec.Save())

	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, rec.Save())
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "0 0.5 0.5 0.2 0.2\n3 0.25 0.75 0.1 0.4\n", string(first))
}

func TestClampTotal(t *testing.T) {
	rec := &Record{}
	rec.Add(0, -0.5, 1.7, 0, 2.5)

	row, ok := rec.Row(0)
	require.True(t, ok)
	assert.Equal(t, 0.0, row.CX)
	assert.Equal(t, 1.0, row.CY)
	assert.Equal(t, MinBoxSize, row.W)
	assert.Equal(t, 1.0, row.H)

	ok = rec.UpdateCoords(0, 0.5, 0.5, 0.0005, 1.2)
	require.True(t, ok)
	row, _ = rec.Row(0)
	assert.Equal(t, MinBoxSize, row.W)
	assert.Equal(t, 1.0, row.H)
}

func TestIndexValidation(t *testing.T) {
	rec := &Record{}
	rec.Add(1, 0.5, 0.5, 0.2, 0.2)

	assert.False(t, rec.UpdateClass(-1, 2))
	assert.False(t, rec.UpdateClass(1, 2))
	assert.False(t, rec.UpdateCoords(5, 0.5, 0.5, 0.5, 0.5))
	assert.False(t, rec.Remove(1))

	assert.True(t, rec.UpdateClass(0, 2))
	row, _ := rec.Row(0)
	assert.Equal(t, 2, row.Class)

	assert.True(t, rec.Remove(0))
	assert.Equal(t, 0, rec.Len())
}

func TestModifiedFlag(t *testing.T) {
	dir := t.TempDir()
	path := writeLabelFile(t, dir, "m.txt", "0 0.5 0.5 0.2 0.2\n")

	rec := NewRecord(filepath.Join(dir, "m.jpg"), path)
	assert.False(t, rec.Modified(), "freshly loaded record is clean")

	rec.UpdateClass(0, 4)
	assert.True(t, rec.Modified())

	require.NoError(t, rec.Save())
	assert.False(t, rec.Modified(), "save clears the dirty flag")

	rec.Load()
	assert.False(t, rec.Modified())
}

func TestClassIDs(t *testing.T) {
	rec := &Record{}
	rec.Add(2, 0.5, 0.5, 0.2, 0.2)
	rec.Add(0, 0.5, 0.5, 0.2, 0.2)
	rec.Add(2, 0.5, 0.5, 0.2, 0.2)

	assert.Equal(t, []int{2, 0}, rec.ClassIDs())
}

func TestPathFor(t *testing.T) {
	got := PathFor("/data/images/ship_v1.jpg", "/data/labels")
	assert.Equal(t, filepath.Join("/data/labels", "ship_v1.txt"), got)
}

func TestStatsFor(t *testing.T) {
	dir := t.TempDir()
	path := writeLabelFile(t, dir, "st.txt",
		"0 0.5 0.5 0.2 0.2\n"+ // area 0.04
			"1 0.5 0.5 0.4 0.3\n") // area 0.12

	st := StatsFor(path)
	assert.Equal(t, 2, st.Count)
	assert.Equal(t, []int{0, 1}, st.ClassIDs)
	assert.InDelta(t, 0.08, st.MeanAreaFrac, 1e-12)

	assert.Equal(t, Stats{}, StatsFor(filepath.Join(dir, "missing.txt")))
}
