// Package docedit applies validated single-line edits back to files on
// disk.
package docedit

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrLineOutOfRange is returned when the target line does not exist in
// the file.
var ErrLineOutOfRange = errors.New("line out of range")

// Editor persists single-line replacements. The interface exists so the
// orchestrator can be tested without touching disk.
type Editor interface {
	// ReplaceLine replaces the full text of 1-based line N in the file
	// at path with content, then persists the file.
	ReplaceLine(path string, line int, content string) error
}

// FileEditor is the Editor that writes to the local filesystem.
type FileEditor struct{}

// ReplaceLine rewrites one line in place. The write goes through a temp
// file in the same directory so os.Rename is atomic, and the file's
// trailing-newline shape is preserved.
func (FileEditor) ReplaceLine(path string, line int, content string) error {
	if line < 1 {
		return fmt.Errorf("%w: %d", ErrLineOutOfRange, line)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	text := string(data)
	hadTrailingNewline := strings.HasSuffix(text, "\n")
	if hadTrailingNewline {
		text = strings.TrimSuffix(text, "\n")
	}

	lines := strings.Split(text, "\n")
	if line > len(lines) {
		return fmt.Errorf("%w: %d (file has %d lines)", ErrLineOutOfRange, line, len(lines))
	}
	lines[line-1] = content

	out := strings.Join(lines, "\n")
	if hadTrailingNewline {
		out += "\n"
	}
	return writeAtomic(path, []byte(out))
}

// writeAtomic writes data via a temp file + rename in the target's
// directory, carrying the target's permission bits over to the
// replacement so an edited script stays executable.
func writeAtomic(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("saving %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	if err = os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
