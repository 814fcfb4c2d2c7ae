package blade

import (
	"bytes"

	"github.com/yaklabco/bladefmt/pkg/bladeast"
)

var (
	commentOpen  = []byte("{{--")
	commentClose = []byte("--}}")
	rawEchoOpen  = []byte("{!!")
	rawEchoClose = []byte("!!}")
	echoOpen     = []byte("{{")
	echoClose    = []byte("}}")
	phpOpen      = []byte("<?php")
	phpShortOpen = []byte("<?=")
	phpClose     = []byte("?>")
	endPHP       = []byte("@endphp")
	endVerbatim  = []byte("@endverbatim")
)

// scanBlade finds Blade constructs in src and returns them together with a
// copy of src in which every construct is blanked with spaces. Newlines are
// kept so byte offsets and line numbers in the masked copy match src.
func scanBlade(src []byte) ([]token, []byte) {
	masked := make([]byte, len(src))
	copy(masked, src)

	var tokens []token
	emit := func(tok token) {
		tokens = append(tokens, tok)
		mask(masked, tok.span)
	}

	for pos := 0; pos < len(src); {
		rest := src[pos:]

		switch {
		case bytes.HasPrefix(rest, commentOpen):
			if end, ok := closeAfter(src, pos+len(commentOpen), commentClose); ok {
				emit(token{kind: tokComment, span: span(pos, end)})
				pos = end
				continue
			}

		case bytes.HasPrefix(rest, rawEchoOpen):
			if end, ok := closeAfter(src, pos+len(rawEchoOpen), rawEchoClose); ok {
				emit(token{kind: tokEcho, span: span(pos, end)})
				pos = end
				continue
			}

		case bytes.HasPrefix(rest, echoOpen):
			if end, ok := closeAfter(src, pos+len(echoOpen), echoClose); ok {
				emit(token{kind: tokEcho, span: span(pos, end)})
				pos = end
				continue
			}

		case bytes.HasPrefix(rest, phpOpen), bytes.HasPrefix(rest, phpShortOpen):
			end, ok := closeAfter(src, pos+len(phpShortOpen), phpClose)
			if !ok {
				end = len(src)
			}
			emit(token{kind: tokRaw, name: "php", span: span(pos, end)})
			pos = end
			continue

		case src[pos] == '@':
			if tok, ok := scanAt(src, pos); ok {
				emit(tok)
				pos = tok.span.EndOffset
				continue
			}
		}

		pos++
	}

	return tokens, masked
}

// scanAt lexes the construct starting with '@' at pos.
func scanAt(src []byte, pos int) (token, bool) {
	next := pos + 1

	// @{{ ... }} prints the braces literally.
	if bytes.HasPrefix(src[next:], echoOpen) {
		end, ok := closeAfter(src, next+len(echoOpen), echoClose)
		if !ok {
			end = next + len(echoOpen)
		}
		return token{kind: tokText, span: span(pos, end)}, true
	}

	// @@name prints "@name".
	if next < len(src) && src[next] == '@' {
		end := next + 1
		for end < len(src) && isWordByte(src[end]) {
			end++
		}
		return token{kind: tokText, span: span(pos, end)}, true
	}

	// An '@' glued to a word (an e-mail address, for example) is text.
	if pos > 0 && isWordByte(src[pos-1]) {
		return token{}, false
	}

	end := next
	for end < len(src) && isWordByte(src[end]) {
		end++
	}
	if end == next {
		return token{}, false
	}
	name := string(src[next:end])

	var args string
	argStart := end
	for argStart < len(src) && (src[argStart] == ' ' || src[argStart] == '\t') {
		argStart++
	}
	if argStart < len(src) && src[argStart] == '(' {
		if argEnd := matchParen(src, argStart); argEnd > 0 {
			args = string(src[argStart:argEnd])
			end = argEnd
		}
	}

	switch {
	case name == "php" && args == "":
		if stop, ok := closeAfter(src, end, endPHP); ok {
			return token{kind: tokRaw, name: name, span: span(pos, stop), freezeEnd: indentStart(src, stop-len(endPHP))}, true
		}
	case name == "verbatim":
		if stop, ok := closeAfter(src, end, endVerbatim); ok {
			return token{kind: tokRaw, name: name, span: span(pos, stop), freezeEnd: indentStart(src, stop-len(endVerbatim))}, true
		}
	}

	return token{kind: tokDirective, name: name, args: args, span: span(pos, end)}, true
}

// matchParen returns the offset just past the parenthesis matching the one
// at open, skipping quoted strings. Returns -1 when unbalanced.
func matchParen(src []byte, open int) int {
	depth := 0
	var quote byte

	for pos := open; pos < len(src); pos++ {
		c := src[pos]
		if quote != 0 {
			switch c {
			case '\\':
				pos++
			case quote:
				quote = 0
			}
			continue
		}

		switch c {
		case '\'', '"':
			quote = c
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return pos + 1
			}
		}
	}

	return -1
}

// closeAfter finds delim at or after from and returns the offset just past it.
func closeAfter(src []byte, from int, delim []byte) (int, bool) {
	if from > len(src) {
		return 0, false
	}
	idx := bytes.Index(src[from:], delim)
	if idx < 0 {
		return 0, false
	}
	return from + idx + len(delim), true
}

// indentStart steps back from pos over spaces and tabs.
func indentStart(src []byte, pos int) int {
	for pos > 0 && (src[pos-1] == ' ' || src[pos-1] == '\t') {
		pos--
	}
	return pos
}

func mask(buf []byte, r bladeast.SourceRange) {
	for i := r.StartOffset; i < r.EndOffset; i++ {
		if buf[i] != '\n' && buf[i] != '\r' {
			buf[i] = ' '
		}
	}
}

func span(start, end int) bladeast.SourceRange {
	return bladeast.SourceRange{StartOffset: start, EndOffset: end}
}

func isWordByte(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}
