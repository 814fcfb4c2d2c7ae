package bladeast

import "sort"

// BuildLines constructs line metadata from file content.
// It handles both LF (\n) and CRLF (\r\n) line endings.
func BuildLines(content []byte) []LineInfo {
	if len(content) == 0 {
		return []LineInfo{}
	}

	var lines []LineInfo
	lineStart := 0

	for idx, char := range content {
		if char == '\n' {
			newlineStart := idx
			if idx > 0 && content[idx-1] == '\r' {
				newlineStart = idx - 1
			}

			lines = append(lines, LineInfo{
				StartOffset:  lineStart,
				IndentEnd:    indentEnd(content, lineStart, newlineStart),
				NewlineStart: newlineStart,
				EndOffset:    idx + 1,
			})
			lineStart = idx + 1
		}
	}

	// Last line (may not have trailing newline).
	lines = append(lines, LineInfo{
		StartOffset:  lineStart,
		IndentEnd:    indentEnd(content, lineStart, len(content)),
		NewlineStart: len(content),
		EndOffset:    len(content),
	})

	return lines
}

func indentEnd(content []byte, start, limit int) int {
	pos := start
	for pos < limit && (content[pos] == ' ' || content[pos] == '\t') {
		pos++
	}
	return pos
}

// LineCount returns the number of lines in the template.
func (t *Template) LineCount() int {
	return len(t.Lines)
}

// LineAt converts a byte offset to a 1-based line number.
// Offsets past the end map to the last line. Returns 0 for negative offsets
// or empty content.
func (t *Template) LineAt(offset int) int {
	if offset < 0 || len(t.Lines) == 0 {
		return 0
	}
	if offset >= len(t.Content) {
		return len(t.Lines)
	}

	lineIdx := sort.Search(len(t.Lines), func(i int) bool {
		return t.Lines[i].EndOffset > offset
	})
	if lineIdx >= len(t.Lines) {
		lineIdx = len(t.Lines) - 1
	}

	return lineIdx + 1
}

// Line returns metadata for a 1-based line number.
// The boolean is false when the line is out of range.
func (t *Template) Line(line int) (LineInfo, bool) {
	if line < 1 || line > len(t.Lines) {
		return LineInfo{}, false
	}
	return t.Lines[line-1], true
}

// LineContent returns the content of a 1-based line number, excluding the newline.
// Returns nil if the line number is out of range.
func (t *Template) LineContent(line int) []byte {
	info, ok := t.Line(line)
	if !ok {
		return nil
	}
	return t.Content[info.StartOffset:info.NewlineStart]
}
