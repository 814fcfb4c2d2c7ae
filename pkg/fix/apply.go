package fix

import "bytes"

// ApplyEdits applies a sorted, validated slice of edits to content.
// Edits must be prepared with PrepareEdits before calling.
// Returns the modified content; content itself is not mutated.
func ApplyEdits(content []byte, edits []TextEdit) []byte {
	if len(edits) == 0 {
		return content
	}

	delta := 0
	for _, e := range edits {
		delta += e.Delta()
	}

	var out bytes.Buffer
	out.Grow(len(content) + delta)

	cursor := 0
	for _, e := range edits {
		out.Write(content[cursor:e.StartOffset])
		out.WriteString(e.NewText)
		cursor = e.EndOffset
	}
	out.Write(content[cursor:])

	return out.Bytes()
}

// Apply validates, sorts and applies indentation edits in one step. Edits
// that would change anything but blanks are rejected with ErrNotWhitespace.
func Apply(content []byte, edits []TextEdit) ([]byte, error) {
	prepared, err := PrepareEdits(edits, len(content))
	if err != nil {
		return nil, err
	}
	if err := ValidateWhitespace(content, prepared); err != nil {
		return nil, err
	}
	return ApplyEdits(content, prepared), nil
}
