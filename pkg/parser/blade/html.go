package blade

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"

	"github.com/yaklabco/bladefmt/pkg/bladeast"
)

// htmlPass holds the result of tokenizing the masked source as HTML.
type htmlPass struct {
	tokens []token

	// markup covers tags, HTML comments, doctypes and raw-text bodies.
	// Blade tokens starting inside markup are ignored.
	markup spanSet

	// frozen covers bodies whose lines must keep their whitespace
	// (raw-text elements and <pre>), including markup spans.
	frozen []bladeast.SourceRange
}

// scanHTML tokenizes masked with the x/net/html tokenizer. Offsets are
// recovered by summing the raw length of every token.
func scanHTML(masked []byte) htmlPass {
	var pass htmlPass

	z := html.NewTokenizer(bytes.NewReader(masked))
	offset := 0
	rawBody := false
	var preStarts []int

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}

		start := offset
		offset += len(z.Raw())
		tokSpan := span(start, offset)

		expectRaw := rawBody
		rawBody = false

		switch tt {
		case html.StartTagToken:
			name := tagName(z)
			pass.addMarkup(tokSpan)
			pass.tokens = append(pass.tokens, token{kind: tokStartTag, name: name, span: tokSpan})
			rawBody = rawTextElements[name]
			if name == "pre" {
				preStarts = append(preStarts, offset)
			}

		case html.SelfClosingTagToken:
			pass.addMarkup(tokSpan)
			pass.tokens = append(pass.tokens, token{kind: tokSelfClose, name: tagName(z), span: tokSpan})

		case html.EndTagToken:
			name := tagName(z)
			pass.addMarkup(tokSpan)
			pass.tokens = append(pass.tokens, token{kind: tokEndTag, name: name, span: tokSpan})
			if name == "pre" && len(preStarts) > 0 {
				last := len(preStarts) - 1
				pass.frozen = append(pass.frozen, span(preStarts[last], indentStart(masked, start)))
				preStarts = preStarts[:last]
			}

		case html.CommentToken:
			pass.addMarkup(tokSpan)
			pass.tokens = append(pass.tokens, token{kind: tokComment, span: tokSpan})

		case html.DoctypeToken:
			pass.addMarkup(tokSpan)
			pass.tokens = append(pass.tokens, token{kind: tokText, name: "doctype", span: tokSpan})

		case html.TextToken:
			if expectRaw {
				pass.markup = append(pass.markup, tokSpan)
				pass.frozen = append(pass.frozen, span(start, indentStart(masked, offset)))
				pass.tokens = append(pass.tokens, token{kind: tokRaw, span: tokSpan})
				continue
			}
			pass.tokens = append(pass.tokens, splitText(masked, tokSpan)...)
		}
	}

	return pass
}

func (p *htmlPass) addMarkup(r bladeast.SourceRange) {
	p.markup = append(p.markup, r)
	p.frozen = append(p.frozen, r)
}

func tagName(z *html.Tokenizer) string {
	name, _ := z.TagName()
	return strings.ToLower(string(name))
}

// splitText turns a text run into one token per line holding its
// non-blank part.
func splitText(src []byte, r bladeast.SourceRange) []token {
	var out []token

	lineStart := r.StartOffset
	for lineStart < r.EndOffset {
		lineEnd := lineStart
		for lineEnd < r.EndOffset && src[lineEnd] != '\n' {
			lineEnd++
		}

		first, last := lineStart, lineEnd
		for first < last && isSpace(src[first]) {
			first++
		}
		for last > first && isSpace(src[last-1]) {
			last--
		}
		if first < last {
			out = append(out, token{kind: tokText, span: span(first, last)})
		}

		lineStart = lineEnd + 1
	}

	return out
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == '\v'
}
