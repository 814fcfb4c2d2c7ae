// Package indent computes per-line indentation targets for Blade templates.
//
// A single pre-order walk over the bladeast tree maintains directive and
// HTML nesting counters and claims lines as it meets block starts, block
// ends, tags and content. The result is one Record per claimed line.
package indent

import "fmt"

// Claim names the event that claimed a line.
type Claim uint8

const (
	// ClaimNone means the line is unclaimed.
	ClaimNone Claim = iota
	// ClaimWhitespace is a provisional claim from line-leading whitespace.
	// Any later event on the same line replaces it.
	ClaimWhitespace
	ClaimBlockStart
	ClaimBlockEnd
	ClaimContent
	ClaimOpen
	ClaimClose
	ClaimSelfClose
	ClaimMarker
	ClaimAligned
)

var claimNames = [...]string{
	ClaimNone:       "none",
	ClaimWhitespace: "whitespace",
	ClaimBlockStart: "block-start",
	ClaimBlockEnd:   "block-end",
	ClaimContent:    "content",
	ClaimOpen:       "html-open",
	ClaimClose:      "html-close",
	ClaimSelfClose:  "html-self-close",
	ClaimMarker:     "html-marker",
	ClaimAligned:    "aligned",
}

func (c Claim) String() string {
	if int(c) < len(claimNames) {
		return claimNames[c]
	}
	return fmt.Sprintf("claim(%d)", c)
}

// Record is the indentation target for one line.
type Record struct {
	// Line is the 1-based line number.
	Line int

	// Offset is the byte offset of the first non-whitespace byte on the line.
	// For blank lines it is the offset of the line ending.
	Offset int

	// Indent is the directive and section nesting level.
	Indent int

	// HTMLIndent is the HTML element nesting level.
	HTMLIndent int

	// Claim is the event that produced this record.
	Claim Claim

	// Label describes the claiming construct for debugging, e.g. "@if" or "<div>".
	Label string
}

// Level returns the combined nesting level.
func (r Record) Level() int {
	return r.Indent + r.HTMLIndent
}

// Column returns the target column for the given indent width.
func (r Record) Column(width int) int {
	return r.Level() * width
}
