package review_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/fakeyudi/revpane/internal/config"
	"github.com/fakeyudi/revpane/internal/review"
	"github.com/fakeyudi/revpane/internal/summary"
)

// fakeEditor records ReplaceLine calls instead of touching disk.
type fakeEditor struct {
	calls []string
	err   error
}

func (f *fakeEditor) ReplaceLine(path string, line int, content string) error {
	f.calls = append(f.calls, path)
	return f.err
}

// newTestSession builds a session whose provider serves one modified
// file with a small two-hunk-free diff.
func newTestSession(t *testing.T) (*review.Session, *fakeEditor) {
	t.Helper()
	runner := func(workDir string, args ...string) (string, error) {
		joined := strings.Join(args, " ")
		switch {
		case strings.Contains(joined, "--numstat"):
			return "1\t1\tmain.go\n", nil
		case strings.Contains(joined, "--name-status"):
			return "M\tmain.go\n", nil
		case strings.HasPrefix(joined, "diff main -- main.go"):
			return "@@ -1,2 +1,2 @@\n-old\n+new\n keep\n", nil
		}
		return "", nil
	}

	s := review.NewSession("/repo", "main", config.Defaults())
	s.Provider.Runner = runner
	s.Collector = &summary.Collector{Provider: s.Provider}
	ed := &fakeEditor{}
	s.Editor = ed
	return s, ed
}

// TestRefreshBuildsSnapshot verifies the summary→render aggregation.
func TestRefreshBuildsSnapshot(t *testing.T) {
	s, _ := newTestSession(t)

	files := s.Refresh(context.Background())
	if len(files) != 1 {
		t.Fatalf("expected 1 file review, got %d", len(files))
	}
	fr := files[0]
	if fr.Record.Path != "main.go" || fr.Record.Status != summary.StatusModified {
		t.Errorf("unexpected record: %+v", fr.Record)
	}
	if len(fr.Diff.Inline) != 4 {
		t.Errorf("expected 4 rendered rows, got %d", len(fr.Diff.Inline))
	}
	if len(s.Files()) != 1 {
		t.Errorf("snapshot not retained on the session")
	}
}

// TestRefreshConcurrent overlaps refreshes and saves the way the panel
// does (watcher events racing manual refreshes and line saves). Run
// with -race; the snapshot must land intact either way.
func TestRefreshConcurrent(t *testing.T) {
	s, _ := newTestSession(t)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				s.Refresh(context.Background())
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 25; j++ {
			s.Handle(context.Background(), review.SaveLineCmd{Path: "main.go", Line: 1, Content: "new"})
			s.InlineEditing()
			s.Files()
		}
	}()
	wg.Wait()

	files := s.Files()
	if len(files) != 1 {
		t.Fatalf("expected an intact 1-file snapshot, got %d", len(files))
	}
	if len(files[0].Diff.Inline) != 4 {
		t.Errorf("expected 4 rendered rows, got %d", len(files[0].Diff.Inline))
	}
}

// TestRefreshProviderFailure verifies the empty-state degradation: a
// dead provider yields an empty snapshot, no error, no panic.
func TestRefreshProviderFailure(t *testing.T) {
	s := review.NewSession("/repo", "main", config.Defaults())
	s.Provider.Runner = func(workDir string, args ...string) (string, error) {
		return "", context.DeadlineExceeded
	}
	s.Collector = &summary.Collector{Provider: s.Provider}

	files := s.Refresh(context.Background())
	if len(files) != 0 {
		t.Errorf("expected empty snapshot, got %d files", len(files))
	}
}

// TestSaveLineValidEdit saves an editable line and triggers a refresh.
func TestSaveLineValidEdit(t *testing.T) {
	s, ed := newTestSession(t)
	s.Refresh(context.Background())

	// "new" is NewLine 1 and editable
	err := s.Handle(context.Background(), review.SaveLineCmd{Path: "main.go", Line: 1, Content: "changed"})
	if err != nil {
		t.Fatalf("Handle(SaveLineCmd): %v", err)
	}
	if len(ed.calls) != 1 || ed.calls[0] != "main.go" {
		t.Errorf("expected one ReplaceLine call for main.go, got %v", ed.calls)
	}
}

// TestSaveLineNoOpSuppressed verifies unchanged content never reaches
// the editor.
func TestSaveLineNoOpSuppressed(t *testing.T) {
	s, ed := newTestSession(t)
	s.Refresh(context.Background())

	err := s.Handle(context.Background(), review.SaveLineCmd{Path: "main.go", Line: 1, Content: "new"})
	if err != nil {
		t.Fatalf("Handle(SaveLineCmd): %v", err)
	}
	if len(ed.calls) != 0 {
		t.Errorf("no-op write must be suppressed, got calls %v", ed.calls)
	}
}

// TestSaveLineRejectsUnknownTarget verifies saves to lines outside the
// rendered diff are refused.
func TestSaveLineRejectsUnknownTarget(t *testing.T) {
	s, ed := newTestSession(t)
	s.Refresh(context.Background())

	err := s.Handle(context.Background(), review.SaveLineCmd{Path: "main.go", Line: 99, Content: "x"})
	if err == nil {
		t.Fatal("expected rejection for unknown line")
	}
	err = s.Handle(context.Background(), review.SaveLineCmd{Path: "other.go", Line: 1, Content: "x"})
	if err == nil {
		t.Fatal("expected rejection for unknown file")
	}
	if len(ed.calls) != 0 {
		t.Errorf("rejected edits must not reach the editor, got %v", ed.calls)
	}
}

// TestSaveLineRespectsEditingToggle verifies saves fail once inline
// editing is disabled.
func TestSaveLineRespectsEditingToggle(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp) // config.SaveGlobal writes under $HOME

	s, ed := newTestSession(t)
	s.Refresh(context.Background())

	if err := s.Handle(context.Background(), review.ToggleEditingCmd{}); err != nil {
		t.Fatalf("Handle(ToggleEditingCmd): %v", err)
	}
	if s.InlineEditing() {
		t.Fatal("expected inline editing to be off after toggle")
	}

	err := s.Handle(context.Background(), review.SaveLineCmd{Path: "main.go", Line: 1, Content: "changed"})
	if err == nil {
		t.Fatal("expected save to fail while editing is disabled")
	}
	if len(ed.calls) != 0 {
		t.Errorf("no editor call expected, got %v", ed.calls)
	}
}

// TestOpenFileHook verifies OpenFileCmd routes through the host hook.
func TestOpenFileHook(t *testing.T) {
	s, _ := newTestSession(t)

	var opened string
	s.OpenFile = func(path string) error {
		opened = path
		return nil
	}
	if err := s.Handle(context.Background(), review.OpenFileCmd{Path: "main.go"}); err != nil {
		t.Fatalf("Handle(OpenFileCmd): %v", err)
	}
	if opened != "main.go" {
		t.Errorf("expected hook to receive main.go, got %q", opened)
	}
}
