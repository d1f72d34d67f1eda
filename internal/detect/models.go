package detect

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/1049861657/yolo-draw/internal/settings"
)

// modelExt is the weight-file extension the manager scans for.
const modelExt = ".onnx"

// ModelManager tracks the weight files available in the models directory
// and which one the user has selected. The selection is persisted through
// the settings object.
type ModelManager struct {
	dir      string
	settings *settings.Settings
}

// ModelInfo describes one weight file.
type ModelInfo struct {
	Name   string
	Path   string
	SizeMB float64
}

// NewModelManager creates a manager over a flat directory of weight files.
func NewModelManager(dir string, s *settings.Settings) *ModelManager {
	return &ModelManager{dir: dir, settings: s}
}

// Available lists the weight files in the models directory, sorted by name.
func (m *ModelManager) Available() []string {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil
	}
	var models []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), modelExt) {
			continue
		}
		models = append(models, e.Name())
	}
	sort.Strings(models)
	return models
}

// Selected returns the persisted model choice. When the persisted model no
// longer exists on disk, it falls back to the first available model and
// persists that fallback.
func (m *ModelManager) Selected() string {
	name := m.settings.SelectedModel
	if name != "" && m.Exists(name) {
		return name
	}
	available := m.Available()
	if len(available) == 0 {
		return ""
	}
	m.settings.SelectedModel = available[0]
	_ = m.settings.Save()
	return available[0]
}

// Select persists a model choice. The model must exist in the directory.
func (m *ModelManager) Select(name string) error {
	if !m.Exists(name) {
		return fmt.Errorf("model %s not found in %s", name, m.dir)
	}
	m.settings.SelectedModel = name
	return m.settings.Save()
}

// Path returns the full path of a weight file.
func (m *ModelManager) Path(name string) string {
	return filepath.Join(m.dir, name)
}

// SelectedPath returns the full path of the selected model, or "" when no
// model is available.
func (m *ModelManager) SelectedPath() string {
	name := m.Selected()
	if name == "" {
		return ""
	}
	return m.Path(name)
}

// Exists reports whether a weight file is present.
func (m *ModelManager) Exists(name string) bool {
	if name == "" {
		return false
	}
	info, err := os.Stat(m.Path(name))
	return err == nil && !info.IsDir()
}

// Info returns the name, path and size of a weight file.
func (m *ModelManager) Info(name string) (ModelInfo, error) {
	info, err := os.Stat(m.Path(name))
	if err != nil {
		return ModelInfo{}, err
	}
	return ModelInfo{
		Name:   name,
		Path:   m.Path(name),
		SizeMB: float64(info.Size()) / (1024 * 1024),
	}, nil
}
