// Package htmlview renders review snapshots to host-independent output
// formats. The line models stay presentation-free; this package is the
// swappable layer that turns them into a document.
package htmlview

import (
	"fmt"
	"strings"

	"github.com/fakeyudi/revpane/internal/diffview"
	"github.com/fakeyudi/revpane/internal/review"
)

// Renderer serializes a review snapshot to bytes.
type Renderer interface {
	Render(base string, files []review.FileReview) ([]byte, error)
}

// HTMLRenderer renders the snapshot as a standalone HTML report with a
// split (two-pane) table per file. Every piece of diff text passes
// through diffview.EscapeText before being embedded.
type HTMLRenderer struct {
	// Author, when set, appears in the report footer.
	Author string
}

func (r HTMLRenderer) Render(base string, files []review.FileReview) ([]byte, error) {
	var sb strings.Builder

	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&sb, "<title>revpane — changes against %s</title>\n", diffview.EscapeText(base))
	sb.WriteString(styleBlock)
	sb.WriteString("</head>\n<body>\n")
	fmt.Fprintf(&sb, "<h1>Changes against <code>%s</code></h1>\n", diffview.EscapeText(base))

	if len(files) == 0 {
		sb.WriteString("<p class=\"empty\">No changes.</p>\n")
	}

	for _, fr := range files {
		fmt.Fprintf(&sb, "<h2><code>%s</code> <span class=\"status %s\">%s</span> <span class=\"add\">+%d</span> <span class=\"del\">-%d</span></h2>\n",
			diffview.EscapeText(fr.Record.Path),
			fr.Record.Status, fr.Record.Status,
			fr.Record.Additions, fr.Record.Deletions,
		)

		if fr.Diff.Empty() {
			sb.WriteString("<p class=\"empty\">No diff available.</p>\n")
			continue
		}

		sb.WriteString("<table class=\"split\">\n")
		for _, row := range fr.Diff.Split {
			if row.Left != nil && row.Left.Kind == diffview.HunkHeader {
				fmt.Fprintf(&sb, "<tr class=\"hunk\"><td colspan=\"4\">%s</td></tr>\n",
					diffview.EscapeText(row.Left.Text))
				continue
			}
			sb.WriteString("<tr>")
			writeCell(&sb, row.Left, true)
			writeCell(&sb, row.Right, false)
			sb.WriteString("</tr>\n")
		}
		sb.WriteString("</table>\n")
	}

	if r.Author != "" {
		fmt.Fprintf(&sb, "<p class=\"empty\">Reviewed by %s</p>\n", diffview.EscapeText(r.Author))
	}
	sb.WriteString("</body>\n</html>\n")
	return []byte(sb.String()), nil
}

// writeCell emits a line-number cell and a content cell for one pane.
// A nil line is empty padding.
func writeCell(sb *strings.Builder, line *diffview.DiffLine, left bool) {
	if line == nil {
		sb.WriteString("<td class=\"num\"></td><td class=\"pad\"></td>")
		return
	}

	num := line.NewLine
	if left {
		num = line.OldLine
	}
	class := "ctx"
	switch line.Kind {
	case diffview.Addition:
		class = "add"
	case diffview.Deletion:
		class = "del"
	}

	fmt.Fprintf(sb, "<td class=\"num\">%d</td><td class=\"%s\">%s</td>",
		num, class, diffview.EscapeText(line.Text))
}

const styleBlock = `<style>
body { font-family: sans-serif; margin: 1.5rem; }
table.split { border-collapse: collapse; width: 100%; font-family: monospace; }
td { padding: 0 .4rem; white-space: pre-wrap; }
td.num { color: #888; text-align: right; width: 3rem; user-select: none; }
td.add { background: #e6ffec; }
td.del { background: #ffebe9; }
td.pad { background: #fafafa; }
tr.hunk td { background: #ddf4ff; color: #57606a; }
.status { font-size: .7em; text-transform: uppercase; color: #57606a; }
.add { color: #1a7f37; } .del { color: #cf222e; }
.empty { color: #888; }
</style>
`

// TextRenderer renders the snapshot as a plain-text inline diff, one
// row per line, for piping and tests.
type TextRenderer struct{}

func (TextRenderer) Render(base string, files []review.FileReview) ([]byte, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Changes against %s\n", base)

	for _, fr := range files {
		fmt.Fprintf(&sb, "\n%s (%s) +%d -%d\n",
			fr.Record.Path, fr.Record.Status, fr.Record.Additions, fr.Record.Deletions)
		for _, row := range fr.Diff.Inline {
			switch row.Kind {
			case diffview.HunkHeader:
				fmt.Fprintf(&sb, "  %s\n", row.Text)
			case diffview.Addition:
				fmt.Fprintf(&sb, "  %4s %4d +%s\n", "", row.NewLine, row.Text)
			case diffview.Deletion:
				fmt.Fprintf(&sb, "  %4d %4s -%s\n", row.OldLine, "", row.Text)
			default:
				fmt.Fprintf(&sb, "  %4d %4d  %s\n", row.OldLine, row.NewLine, row.Text)
			}
		}
	}
	return []byte(sb.String()), nil
}
