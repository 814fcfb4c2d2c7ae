// Package fix provides text edits and the logic to apply and diff them.
package fix

// TextEdit represents a single text replacement in a file.
type TextEdit struct {
	// StartOffset is the byte index where the edit begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the edit ends (exclusive).
	EndOffset int

	// NewText is the replacement text.
	NewText string

	// Line is the 1-based line the edit re-indents, or 0 when not tied to a line.
	Line int
}

// Len returns the number of bytes the edit replaces.
func (e TextEdit) Len() int {
	return e.EndOffset - e.StartOffset
}

// Delta returns the change in content length caused by the edit.
func (e TextEdit) Delta() int {
	return len(e.NewText) - e.Len()
}

// IsNoop reports whether applying the edit to content would change nothing.
func (e TextEdit) IsNoop(content []byte) bool {
	if e.StartOffset < 0 || e.EndOffset > len(content) || e.EndOffset < e.StartOffset {
		return false
	}
	return string(content[e.StartOffset:e.EndOffset]) == e.NewText
}

// Shift returns the edit moved by delta bytes.
func (e TextEdit) Shift(delta int) TextEdit {
	e.StartOffset += delta
	e.EndOffset += delta
	return e
}
