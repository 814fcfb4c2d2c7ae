// Package bladeast provides the syntax tree for Blade templates.
// It defines:
// - Template: the source text plus its line index and tree root
// - Node: a tagged-variant tree node for directives, echoes and HTML elements
package bladeast

// Template is a parsed view of a Blade source file.
type Template struct {
	// Path is the file path (may be empty for in-memory content).
	Path string

	// Content is the full file bytes.
	Content []byte

	// Lines contains metadata for each line in the file.
	Lines []LineInfo

	// Root is the tree root (KindDocument).
	Root *Node
}

// LineInfo holds metadata for a single line in a file.
type LineInfo struct {
	// StartOffset is the byte index of the line start.
	StartOffset int

	// IndentEnd is the byte index of the first byte that is not a space or tab.
	// For blank lines it equals NewlineStart.
	IndentEnd int

	// NewlineStart is the byte index where newline characters begin.
	// For lines without a trailing newline (e.g., last line), this equals EndOffset.
	NewlineStart int

	// EndOffset is the byte index just after the newline (or end of file).
	EndOffset int

	// Frozen is true when the line starts inside a multi-line construct
	// (a tag, echo, comment, raw block or <pre> body). Its leading
	// whitespace belongs to that construct.
	Frozen bool
}

// Blank reports whether the line holds nothing but spaces and tabs.
func (l LineInfo) Blank() bool {
	return l.IndentEnd == l.NewlineStart
}

// IndentLen returns the length of the leading whitespace in bytes.
func (l LineInfo) IndentLen() int {
	return l.IndentEnd - l.StartOffset
}

// NewTemplate creates a Template from content with its line index built.
// The tree is attached by the parser.
func NewTemplate(path string, content []byte) *Template {
	return &Template{
		Path:    path,
		Content: content,
		Lines:   BuildLines(content),
	}
}
