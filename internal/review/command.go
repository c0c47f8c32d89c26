package review

// Command is the closed set of requests a host can dispatch to a
// review session. The panel's message handling is a single switch over
// these variants; no dynamic dispatch is involved.
type Command interface {
	isCommand()
}

// RefreshCmd recomputes the summary and every file diff.
type RefreshCmd struct{}

// OpenFileCmd asks the host to open a changed file.
type OpenFileCmd struct {
	Path string
}

// SaveLineCmd persists an edited line back to disk.
type SaveLineCmd struct {
	Path    string
	Line    int // 1-based, new-revision numbering
	Content string
}

// ToggleEditingCmd flips the inline-editing setting and persists it.
type ToggleEditingCmd struct{}

func (RefreshCmd) isCommand()       {}
func (OpenFileCmd) isCommand()      {}
func (SaveLineCmd) isCommand()      {}
func (ToggleEditingCmd) isCommand() {}
