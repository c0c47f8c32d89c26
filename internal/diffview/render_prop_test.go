package diffview_test

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/fakeyudi/revpane/internal/diffview"
)

// generateDiffText produces arbitrary well-formed unified-diff text:
// one or more hunks, each with a valid header and a mix of addition,
// deletion, and context lines. Content avoids newlines so line-splits
// stay faithful.
func generateDiffText(t *rapid.T) string {
	content := rapid.StringMatching(`[a-zA-Z0-9 .,;(){}<>&"'=+_-]{0,40}`)

	var sb strings.Builder
	numHunks := rapid.IntRange(1, 4).Draw(t, "num_hunks")
	for h := 0; h < numHunks; h++ {
		oldStart := rapid.IntRange(1, 500).Draw(t, "old_start")
		newStart := rapid.IntRange(1, 500).Draw(t, "new_start")
		oldCount := rapid.IntRange(0, 20).Draw(t, "old_count")
		newCount := rapid.IntRange(0, 20).Draw(t, "new_count")
		fmt.Fprintf(&sb, "@@ -%d,%d +%d,%d @@\n", oldStart, oldCount, newStart, newCount)

		numLines := rapid.IntRange(1, 12).Draw(t, "num_lines")
		for i := 0; i < numLines; i++ {
			marker := rapid.SampledFrom([]string{"+", "-", " "}).Draw(t, "marker")
			sb.WriteString(marker)
			sb.WriteString(content.Draw(t, "line"))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Property: inline and split views always agree on row count, and each
// split row is populated according to its inline row's kind.
func TestRenderRowAlignmentProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		diff := generateDiffText(t)
		d := diffview.Render(diff, "prop.txt")

		if len(d.Inline) != len(d.Split) {
			t.Fatalf("row alignment broken: %d inline vs %d split", len(d.Inline), len(d.Split))
		}

		for i, row := range d.Inline {
			sr := d.Split[i]
			switch row.Kind {
			case diffview.Addition:
				if sr.Left != nil || sr.Right == nil {
					t.Fatalf("row %d: addition must be (empty, populated)", i)
				}
				if !sr.Right.Editable {
					t.Fatalf("row %d: addition must be editable", i)
				}
				if row.OldLine != 0 || row.NewLine == 0 {
					t.Fatalf("row %d: addition numbering wrong: %+v", i, row)
				}
			case diffview.Deletion:
				if sr.Left == nil || sr.Right != nil {
					t.Fatalf("row %d: deletion must be (populated, empty)", i)
				}
				if sr.Left.Editable {
					t.Fatalf("row %d: deletion must not be editable", i)
				}
				if row.NewLine != 0 || row.OldLine == 0 {
					t.Fatalf("row %d: deletion numbering wrong: %+v", i, row)
				}
			case diffview.Context:
				if sr.Left == nil || sr.Right == nil {
					t.Fatalf("row %d: context must populate both panes", i)
				}
				if row.OldLine == 0 || row.NewLine == 0 {
					t.Fatalf("row %d: context numbering wrong: %+v", i, row)
				}
			case diffview.HunkHeader:
				if sr.Left == nil || sr.Right == nil {
					t.Fatalf("row %d: hunk header must populate both panes", i)
				}
			}
		}
	})
}

// Property: within each hunk, addition/context rows carry strictly
// increasing new-revision numbers and deletion/context rows strictly
// increasing old-revision numbers.
func TestRenderMonotonicNumberingProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		diff := generateDiffText(t)
		d := diffview.Render(diff, "prop.txt")

		lastOld, lastNew := 0, 0
		for i, row := range d.Inline {
			if row.Kind == diffview.HunkHeader {
				lastOld, lastNew = 0, 0
				continue
			}
			if row.OldLine != 0 {
				if lastOld != 0 && row.OldLine != lastOld+1 {
					t.Fatalf("row %d: old numbering jumped from %d to %d", i, lastOld, row.OldLine)
				}
				lastOld = row.OldLine
			}
			if row.NewLine != 0 {
				if lastNew != 0 && row.NewLine != lastNew+1 {
					t.Fatalf("row %d: new numbering jumped from %d to %d", i, lastNew, row.NewLine)
				}
				lastNew = row.NewLine
			}
		}
	})
}

// Property: Render is a pure function — two calls with identical input
// produce deeply equal output.
func TestRenderIdempotenceProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		diff := generateDiffText(t)
		first := diffview.Render(diff, "same.txt")
		second := diffview.Render(diff, "same.txt")
		if !reflect.DeepEqual(first, second) {
			t.Fatal("Render is not deterministic for identical input")
		}
	})
}

// Property: arbitrary garbage input never panics and never produces
// misaligned views.
func TestRenderGarbageToleranceProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		garbage := rapid.String().Draw(t, "garbage")
		d := diffview.Render(garbage, "junk.bin")
		if len(d.Inline) != len(d.Split) {
			t.Fatalf("alignment broken on garbage input: %d vs %d", len(d.Inline), len(d.Split))
		}
	})
}

// Property: escaped text never contains raw markup-significant
// characters, and escaping plain text is the identity.
func TestEscapeTextProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.String().Draw(t, "text")
		escaped := diffview.EscapeText(s)
		for _, c := range []string{"<", ">", `"`, "'"} {
			if strings.Contains(escaped, c) {
				t.Fatalf("escaped text still contains %q: %q", c, escaped)
			}
		}
	})
}
