// Package highlight applies terminal syntax highlighting to diff line
// text using chroma lexers matched by filename.
package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// style is the terminal color theme for highlighted code.
var style = styles.Get("monokai")

// Line highlights one line of source from the named file with ANSI
// escapes. It degrades to the raw text whenever the file has no lexer
// or tokenization fails, so callers can use it unconditionally.
func Line(filename, source string) string {
	if source == "" {
		return source
	}

	lexer := lexers.Match(filename)
	if lexer == nil {
		return source
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return source
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		return source
	}

	var sb strings.Builder
	if err := formatter.Format(&sb, style, iterator); err != nil {
		return source
	}
	// Chroma appends a reset-and-newline for a bare trailing newline;
	// the panel manages its own line breaks.
	return strings.TrimRight(sb.String(), "\n")
}
