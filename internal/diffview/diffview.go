// Package diffview converts raw unified-diff text into structured,
// line-level models suitable for inline and split (two-pane) display.
// It performs no I/O and holds no state: Render is a pure function.
package diffview

// LineKind classifies a single rendered diff row.
type LineKind int

const (
	// Context is a line present in both revisions.
	Context LineKind = iota
	// Addition is a line present only in the new revision.
	Addition
	// Deletion is a line present only in the old revision.
	Deletion
	// HunkHeader is an @@ -a,b +c,d @@ marker row.
	HunkHeader
)

// String returns the lowercase name of the kind, for display and tests.
func (k LineKind) String() string {
	switch k {
	case Context:
		return "context"
	case Addition:
		return "addition"
	case Deletion:
		return "deletion"
	case HunkHeader:
		return "hunk"
	}
	return "unknown"
}

// DiffLine is one rendered row of a file diff.
//
// OldLine and NewLine are 1-based line numbers in the old and new
// revision respectively; 0 means the line has no position on that side
// (additions have no old position, deletions no new position, hunk
// headers neither). Text holds the line content with the leading
// +/-/space marker stripped, except hunk headers which keep the raw
// header text.
type DiffLine struct {
	Kind    LineKind
	OldLine int
	NewLine int
	Text    string
	// Editable reports whether the line has a location in the new
	// revision and is therefore a safe single-line edit target.
	// Deletions are never editable: they have no current-side location
	// and writing to one would clobber an unrelated line.
	Editable bool
}

// SplitRow is one row of the two-pane view. A nil side is an empty
// padding cell: additions pad the left, deletions pad the right,
// context and hunk headers populate both.
type SplitRow struct {
	Left  *DiffLine
	Right *DiffLine
}

// FileDiff is the rendered diff of a single file in both views.
//
// Inline and Split always have the same length, and Split[i] is derived
// from Inline[i]. That 1:1 row alignment is what keeps the two views
// scroll-synchronized.
type FileDiff struct {
	Path   string
	Inline []DiffLine
	Split  []SplitRow
}

// Empty reports whether the diff produced no rows.
func (d FileDiff) Empty() bool {
	return len(d.Inline) == 0
}

// EditableAt returns the inline row at index i if it is a valid edit
// target, or nil otherwise.
func (d FileDiff) EditableAt(i int) *DiffLine {
	if i < 0 || i >= len(d.Inline) {
		return nil
	}
	if !d.Inline[i].Editable || d.Inline[i].NewLine == 0 {
		return nil
	}
	return &d.Inline[i]
}
