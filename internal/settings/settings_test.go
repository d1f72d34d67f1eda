package settings

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	s := LoadFrom(filepath.Join(t.TempDir(), "nope", "settings.json"))
	assert.True(t, s.GroupByID, "grouping defaults on")
	assert.False(t, s.ReviewMode)
	assert.Empty(t, s.SelectedModel)
	assert.Empty(t, s.LastSourceDir())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "settings.json")

	s := LoadFrom(path)
	s.SelectedModel = "ships_v8.onnx"
	s.ReviewMode = true
	s.GroupByID = false
	s.RememberSourceDir("/data/src")
	s.RememberTargetDir("/data/out")
	require.NoError(t, s.Save())

	got := LoadFrom(path)
	assert.Equal(t, "ships_v8.onnx", got.SelectedModel)
	assert.True(t, got.ReviewMode)
	assert.False(t, got.GroupByID)
	assert.Equal(t, "/data/src", got.LastSourceDir())
	assert.Equal(t, "/data/out", got.LastTargetDir())
}

func TestDirHistoryMRU(t *testing.T) {
	s := &Settings{}
	for _, d := range []string{"/a", "/b", "/c"} {
		s.RememberSourceDir(d)
	}
	assert.Equal(t, []string{"/c", "/b", "/a"}, s.SourceDirs)

	// Revisiting moves to the front without duplicating.
	s.RememberSourceDir("/a")
	assert.Equal(t, []string{"/a", "/c", "/b"}, s.SourceDirs)

	for _, d := range []string{"/d", "/e", "/f"} {
		s.RememberSourceDir(d)
	}
	assert.Len(t, s.SourceDirs, 5)
	assert.Equal(t, "/f", s.LastSourceDir())
	assert.NotContains(t, s.SourceDirs, "/b")
}

func TestRememberIgnoresEmpty(t *testing.T) {
	s := &Settings{}
	s.RememberTargetDir("")
	assert.Empty(t, s.TargetDirs)
}
