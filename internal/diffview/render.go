package diffview

import (
	"regexp"
	"strconv"
	"strings"
)

// hunkHeaderRe matches @@ -oldStart[,oldCount] +newStart[,newCount] @@ <section>.
// Counts are captured but the renderer only needs the two start positions.
var hunkHeaderRe = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// Render parses one file's unified-diff text into a FileDiff.
//
// It is total: malformed input degrades to a partial or empty result,
// never an error. A single left-to-right scan maintains old/new line
// counters, reset by each hunk header. Metadata lines (diff --git,
// index, ---, +++, mode and rename headers), binary-file markers, the
// "\ No newline at end of file" marker, and blank lines between hunks
// emit nothing; every other line emits exactly one row in both views.
func Render(diffText, path string) FileDiff {
	d := FileDiff{Path: path}
	if diffText == "" {
		return d
	}

	oldLine, newLine := 0, 0

	for _, raw := range strings.Split(diffText, "\n") {
		switch {
		case raw == "":
			// blank separator between hunks

		case strings.HasPrefix(raw, "diff --git"),
			strings.HasPrefix(raw, "index "),
			strings.HasPrefix(raw, "---"),
			strings.HasPrefix(raw, "+++"),
			strings.HasPrefix(raw, "old mode"),
			strings.HasPrefix(raw, "new mode"),
			strings.HasPrefix(raw, "new file mode"),
			strings.HasPrefix(raw, "deleted file mode"),
			strings.HasPrefix(raw, "similarity index"),
			strings.HasPrefix(raw, "rename from"),
			strings.HasPrefix(raw, "rename to"),
			strings.HasPrefix(raw, "Binary files"),
			strings.HasPrefix(raw, `\`):
			// file metadata, binary marker, or "\ No newline at end of
			// file": no row

		case strings.HasPrefix(raw, "@@"):
			m := hunkHeaderRe.FindStringSubmatch(raw)
			if m == nil {
				// Unparseable header: skip it rather than blanking the
				// whole file's diff.
				continue
			}
			oldStart, err1 := strconv.Atoi(m[1])
			newStart, err2 := strconv.Atoi(m[3])
			if err1 != nil || err2 != nil {
				continue
			}
			oldLine, newLine = oldStart, newStart
			row := DiffLine{Kind: HunkHeader, Text: raw}
			d.append(row, &row, &row)

		case strings.HasPrefix(raw, "+"):
			row := DiffLine{
				Kind:     Addition,
				NewLine:  newLine,
				Text:     raw[1:],
				Editable: true,
			}
			d.append(row, nil, &row)
			newLine++

		case strings.HasPrefix(raw, "-"):
			row := DiffLine{
				Kind:    Deletion,
				OldLine: oldLine,
				Text:    raw[1:],
			}
			d.append(row, &row, nil)
			oldLine++

		default:
			// Context. Unified diffs prefix these with one space; some
			// providers omit it, so strip at most one.
			text := strings.TrimPrefix(raw, " ")
			row := DiffLine{
				Kind:     Context,
				OldLine:  oldLine,
				NewLine:  newLine,
				Text:     text,
				Editable: true,
			}
			d.append(row, &row, &row)
			oldLine++
			newLine++
		}
	}

	return d
}

// append adds one row to both views, keeping them the same length.
// left and right alias copies of the inline row, not the slice element,
// so later appends cannot move them.
func (d *FileDiff) append(inline DiffLine, left, right *DiffLine) {
	d.Inline = append(d.Inline, inline)

	var sr SplitRow
	if left != nil {
		l := *left
		sr.Left = &l
	}
	if right != nil {
		r := *right
		sr.Right = &r
	}
	d.Split = append(d.Split, sr)
}

// escaper rewrites the characters that are unsafe to embed in markup.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeText escapes diff line text for embedding in an HTML document.
// The structured model keeps raw text so line edits round-trip
// unmangled; presentation layers call this on every Text field they
// interpolate into markup.
func EscapeText(s string) string {
	return escaper.Replace(s)
}
