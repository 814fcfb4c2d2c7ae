package lsp

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// OffsetAt converts an LSP position (zero-based line, UTF-16 code units) to
// a byte offset into text. Positions past the end of a line clamp to the
// line's end; lines past the end of text clamp to len(text).
func OffsetAt(text string, pos protocol.Position) int {
	line := int(pos.Line)
	offset := 0
	for line > 0 {
		i := strings.IndexByte(text[offset:], '\n')
		if i < 0 {
			return len(text)
		}
		offset += i + 1
		line--
	}

	units := int(pos.Character)
	for offset < len(text) && units > 0 {
		r, size := utf8.DecodeRuneInString(text[offset:])
		if r == '\n' {
			break
		}
		n := utf16.RuneLen(r)
		if n < 1 {
			n = 1
		}
		if n > units {
			break
		}
		units -= n
		offset += size
	}
	return offset
}

// PositionAt converts a byte offset into text to an LSP position.
func PositionAt(text string, offset int) protocol.Position {
	offset = max(0, min(offset, len(text)))

	var line, lineStart int
	for i := 0; i < offset; i++ {
		if text[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}

	var units int
	for _, r := range text[lineStart:offset] {
		n := utf16.RuneLen(r)
		if n < 1 {
			n = 1
		}
		units += n
	}

	return protocol.Position{
		Line:      protocol.UInteger(line),  //nolint:gosec // Line counts fit in uint32.
		Character: protocol.UInteger(units), //nolint:gosec // Column widths fit in uint32.
	}
}
