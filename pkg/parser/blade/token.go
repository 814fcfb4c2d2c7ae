package blade

import (
	"sort"

	"github.com/yaklabco/bladefmt/pkg/bladeast"
)

// tokenKind classifies a lexical token from either the Blade or HTML pass.
type tokenKind uint8

const (
	tokWhitespace tokenKind = iota
	tokText
	tokDirective
	tokEcho
	tokComment
	tokRaw
	tokStartTag
	tokEndTag
	tokSelfClose
)

// token is a single lexical unit with its byte span in the source.
type token struct {
	kind tokenKind
	name string
	args string
	span bladeast.SourceRange

	// freezeEnd, when set, ends the frozen part of span early so the line
	// holding a closing delimiter stays indentable.
	freezeEnd int
}

// frozen returns the part of the token whose inner lines keep their
// whitespace.
func (t token) frozen() bladeast.SourceRange {
	if t.freezeEnd > 0 {
		return span(t.span.StartOffset, t.freezeEnd)
	}
	return t.span
}

// priority orders tokens that start at the same offset.
// Line-leading whitespace always comes first.
func (t token) priority() int {
	if t.kind == tokWhitespace {
		return 0
	}
	return 1
}

// spanSet is a list of non-overlapping ranges sorted by start offset.
type spanSet []bladeast.SourceRange

// contains reports whether any range in the set contains offset.
func (s spanSet) contains(offset int) bool {
	idx := sort.Search(len(s), func(i int) bool {
		return s[i].EndOffset > offset
	})
	return idx < len(s) && s[idx].Contains(offset)
}
