// Package settings persists user-facing application state between sessions:
// the selected detection model, directory history, and view modes.
package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const (
	settingsFile = "settings.json"

	// maxDirHistory caps each most-recently-used directory list.
	maxDirHistory = 5
)

// Settings is an explicit settings object handed to the components that need
// it, loaded and saved at defined lifecycle points rather than living as
// ambient global state.
type Settings struct {
	path string

	SelectedModel string   `json:"selected_model,omitempty"`
	SourceDirs    []string `json:"source_dirs,omitempty"`
	TargetDirs    []string `json:"target_dirs,omitempty"`
	GroupByID     bool     `json:"group_by_id"`
	ReviewMode    bool     `json:"review_mode"`
}

// Load reads settings from ~/.config/yolo-draw/settings.json, returning
// defaults when the file doesn't exist or doesn't parse.
func Load() *Settings {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return LoadFrom(filepath.Join(configDir, "yolo-draw", settingsFile))
}

// LoadFrom reads settings from an explicit path.
func LoadFrom(path string) *Settings {
	s := &Settings{path: path, GroupByID: true}
	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	_ = json.Unmarshal(data, s)
	return s
}

// Save writes the settings back to the path they were loaded from.
func (s *Settings) Save() error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

// Path returns the on-disk location of the settings file.
func (s *Settings) Path() string { return s.path }

// RememberSourceDir inserts dir at the front of the source history,
// deduplicating and truncating to the history cap.
func (s *Settings) RememberSourceDir(dir string) {
	s.SourceDirs = remember(s.SourceDirs, dir)
}

// RememberTargetDir inserts dir at the front of the target history.
func (s *Settings) RememberTargetDir(dir string) {
	s.TargetDirs = remember(s.TargetDirs, dir)
}

// LastSourceDir returns the most recent source directory, or "".
func (s *Settings) LastSourceDir() string { return first(s.SourceDirs) }

// LastTargetDir returns the most recent target directory, or "".
func (s *Settings) LastTargetDir() string { return first(s.TargetDirs) }

func remember(history []string, dir string) []string {
	if dir == "" {
		return history
	}
	out := make([]string, 0, maxDirHistory)
	out = append(out, dir)
	for _, h := range history {
		if h == dir {
			continue
		}
		out = append(out, h)
		if len(out) == maxDirHistory {
			break
		}
	}
	return out
}

func first(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[0]
}
