// Package config loads and persists revpane settings from global and
// project-level JSON files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds all configurable revpane settings.
type Config struct {
	DefaultBase   string `json:"default_base"`   // base ref when none is given
	InlineEditing bool   `json:"inline_editing"` // allow saving line edits from the panel
	Watch         bool   `json:"watch"`          // auto-refresh on working-tree changes
}

// FileConfig mirrors Config with optional booleans so Merge can tell
// "absent" from "false".
type FileConfig struct {
	DefaultBase   string `json:"default_base"`
	InlineEditing *bool  `json:"inline_editing"`
	Watch         *bool  `json:"watch"`
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		DefaultBase:   "main",
		InlineEditing: true,
		Watch:         true,
	}
}

// globalPath returns ~/.config/revpane/config.json.
func globalPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "revpane", "config.json"), nil
}

// LoadGlobal reads the global config file. Returns nil (no error) if
// the file is absent.
func LoadGlobal() (*FileConfig, error) {
	path, err := globalPath()
	if err != nil {
		return nil, err
	}
	return loadFile(path)
}

// LoadProject reads .revpaneconfig in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*FileConfig, error) {
	return loadFile(".revpaneconfig")
}

// loadFile reads and parses a JSON config file at path, returning nil
// when the file does not exist.
func loadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var fc FileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &fc, nil
}

// Merge combines global and project configs, with project taking
// precedence. Missing keys fall back to global, then defaults.
func Merge(global, project *FileConfig) Config {
	result := Defaults()
	for _, fc := range []*FileConfig{global, project} {
		if fc == nil {
			continue
		}
		if fc.DefaultBase != "" {
			result.DefaultBase = fc.DefaultBase
		}
		if fc.InlineEditing != nil {
			result.InlineEditing = *fc.InlineEditing
		}
		if fc.Watch != nil {
			result.Watch = *fc.Watch
		}
	}
	return result
}

// SetsInlineEditing reports whether any of the given file configs set
// inline_editing explicitly. When none do, the host may fall back to a
// profile-level preference instead of the built-in default.
func SetsInlineEditing(fcs ...*FileConfig) bool {
	for _, fc := range fcs {
		if fc != nil && fc.InlineEditing != nil {
			return true
		}
	}
	return false
}

// SaveGlobal persists cfg as the global config, creating the directory
// if needed. The panel calls this when inline editing is toggled so the
// setting survives restarts. The write goes through a temp file +
// os.Rename so a crash cannot leave a truncated config behind.
func SaveGlobal(cfg Config) error {
	path, err := globalPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to persist settings: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "config-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to persist settings: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to persist settings: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to persist settings: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to persist settings: %w", err)
	}
	return nil
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
