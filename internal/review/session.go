// Package review orchestrates the diff summary, per-file rendering,
// and edit round-trips behind a single session handle.
package review

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/fakeyudi/revpane/internal/config"
	"github.com/fakeyudi/revpane/internal/diffview"
	"github.com/fakeyudi/revpane/internal/docedit"
	"github.com/fakeyudi/revpane/internal/gitx"
	"github.com/fakeyudi/revpane/internal/summary"
)

// ErrNotEditable is returned when a save targets a line the current
// diff does not offer as an edit target.
var ErrNotEditable = errors.New("line is not an edit target")

// ErrEditingDisabled is returned when inline editing is switched off.
var ErrEditingDisabled = errors.New("inline editing is disabled")

// FileReview pairs one file's change record with its rendered diff.
type FileReview struct {
	Record summary.ChangeRecord
	Diff   diffview.FileDiff
}

// EditIntent is a validated single-line edit bound for disk.
type EditIntent struct {
	File    string
	Line    int // 1-based, new-revision numbering
	Content string
}

// Session owns one review panel's state: the base reference, the
// provider, and the most recent snapshot of rendered files. A host
// keeps at most one session per panel (reuse-or-create); Session itself
// carries no global state.
//
// Methods are safe for concurrent use: the TUI runs refreshes and
// saves on separate command goroutines. A refresh that is superseded
// by a newer one discards its results (last-write-wins on the
// snapshot), so a stale in-flight refresh can never corrupt the
// displayed state.
type Session struct {
	ID   string
	Base string

	Provider  *gitx.Provider
	Collector *summary.Collector
	Editor    docedit.Editor

	// OpenFile is the host hook for OpenFileCmd. Nil means opening is
	// unsupported.
	OpenFile func(path string) error

	mu    sync.Mutex // guards cfg, files, gen
	cfg   config.Config
	files []FileReview
	gen   int
}

// NewSession creates a session for the given working directory and base
// reference.
func NewSession(workDir, base string, cfg config.Config) *Session {
	provider := &gitx.Provider{WorkDir: workDir}
	return &Session{
		ID:        uuid.New().String(),
		Base:      base,
		Provider:  provider,
		Collector: &summary.Collector{Provider: provider},
		Editor:    docedit.FileEditor{},
		cfg:       cfg,
	}
}

// Files returns the current snapshot in summary order.
func (s *Session) Files() []FileReview {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.files
}

// InlineEditing reports whether line saves are currently allowed.
func (s *Session) InlineEditing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.InlineEditing
}

// Refresh recomputes the full snapshot: collect the change summary,
// then fetch and render each file's diff sequentially in summary
// order. Everything is recomputed; nothing persists across refreshes.
func (s *Session) Refresh(ctx context.Context) []FileReview {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	records := s.Collector.Collect(ctx, s.Base)
	files := make([]FileReview, 0, len(records))
	for _, rec := range records {
		text := s.Provider.DiffText(ctx, s.Base, rec.Path)
		files = append(files, FileReview{
			Record: rec,
			Diff:   diffview.Render(text, rec.Path),
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// A newer refresh has started meanwhile: drop this result.
	if gen != s.gen {
		return s.files
	}
	s.files = files
	return files
}

// Handle dispatches one command. Returned errors are user-visible
// warnings, not fatal conditions.
func (s *Session) Handle(ctx context.Context, cmd Command) error {
	switch c := cmd.(type) {
	case RefreshCmd:
		s.Refresh(ctx)
		return nil

	case OpenFileCmd:
		if s.OpenFile == nil {
			return fmt.Errorf("opening files is not supported here")
		}
		return s.OpenFile(c.Path)

	case SaveLineCmd:
		intent, err := s.validateEdit(c)
		if err != nil {
			return err
		}
		if intent == nil {
			return nil // no-op write suppressed
		}
		if err := s.Editor.ReplaceLine(intent.File, intent.Line, intent.Content); err != nil {
			return fmt.Errorf("saving line %d of %s: %w", intent.Line, intent.File, err)
		}
		s.Refresh(ctx)
		return nil

	case ToggleEditingCmd:
		s.mu.Lock()
		s.cfg.InlineEditing = !s.cfg.InlineEditing
		cfg := s.cfg
		s.mu.Unlock()
		if err := config.SaveGlobal(cfg); err != nil {
			return fmt.Errorf("persisting inline-editing setting: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unknown command %T", cmd)
}

// validateEdit turns a SaveLineCmd into an EditIntent, or nil when the
// content is unchanged from the rendered line. Only rows the renderer
// marked editable qualify: a deletion has no current-side location and
// saving to it would overwrite an unrelated line.
func (s *Session) validateEdit(c SaveLineCmd) (*EditIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cfg.InlineEditing {
		return nil, ErrEditingDisabled
	}

	for fi := range s.files {
		if s.files[fi].Record.Path != c.Path {
			continue
		}
		for _, row := range s.files[fi].Diff.Inline {
			if row.NewLine != c.Line {
				continue
			}
			if !row.Editable {
				return nil, fmt.Errorf("%w: %s:%d", ErrNotEditable, c.Path, c.Line)
			}
			if row.Text == c.Content {
				return nil, nil
			}
			return &EditIntent{File: c.Path, Line: c.Line, Content: c.Content}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s:%d", ErrNotEditable, c.Path, c.Line)
}
