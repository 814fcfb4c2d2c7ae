package indent

import (
	"sort"
	"strings"

	"github.com/yaklabco/bladefmt/pkg/bladeast"
	"github.com/yaklabco/bladefmt/pkg/parser/blade"
)

// Calculate walks tpl and returns its line records ordered by line.
func Calculate(tpl *bladeast.Template) []Record {
	if tpl == nil || tpl.Root == nil {
		return nil
	}

	calc := &calculator{
		tpl:     tpl,
		records: make(map[int]*Record),
	}

	//nolint:errcheck // callbacks never fail
	bladeast.WalkWithContext(tpl.Root, calc.enter, calc.leave)

	return calc.sorted()
}

// CalculateSource parses src and calculates its records. In live mode every
// line start can be claimed, which suits auto-indent of a freshly typed line.
func CalculateSource(src []byte, live bool) []Record {
	return Calculate(blade.ParseBytes(src, live))
}

// calculator holds the run-scoped nesting counters and line records.
type calculator struct {
	tpl     *bladeast.Template
	records map[int]*Record

	blockBalance     int
	htmlBlockBalance int
	indent           int

	// lastClosedLine is the line on which a close tag last lowered the
	// HTML depth. Further closes on that line leave the depth alone.
	lastClosedLine int
}

func (c *calculator) enter(n *bladeast.Node) error {
	switch n.Kind {
	case bladeast.KindBlock, bladeast.KindSection:
		c.claim(n.Span.StartOffset, c.indent, c.htmlBlockBalance, ClaimBlockStart, "@"+n.Name)
		c.indent++
		c.blockBalance++

	case bladeast.KindBlockEnd:
		c.blockEnd(n.Span.StartOffset, n.Name)

	case bladeast.KindAligned:
		if c.nested() {
			c.claim(n.Span.StartOffset, max(c.indent-1, 0), c.htmlBlockBalance, ClaimAligned, "@"+n.Name)
		}

	case bladeast.KindText, bladeast.KindEcho, bladeast.KindComment,
		bladeast.KindDirective, bladeast.KindRaw:
		if c.nested() {
			c.claim(n.Span.StartOffset, c.indent, c.htmlBlockBalance, ClaimContent, contentLabel(n))
		}

	case bladeast.KindWhitespace:
		c.claim(n.Span.StartOffset, c.indent, c.htmlBlockBalance, ClaimWhitespace, "")

	case bladeast.KindElement:
		if c.nested() {
			c.claim(n.Span.StartOffset, c.indent, c.htmlBlockBalance, ClaimOpen, "<"+n.Name+">")
		}
		c.htmlBlockBalance++

	case bladeast.KindMarker:
		c.claim(n.Span.StartOffset, c.indent, c.htmlBlockBalance, ClaimMarker, "<"+n.Name+">")
		c.htmlBlockBalance++

	case bladeast.KindSelfClose:
		if c.nested() {
			c.claim(n.Span.StartOffset, c.indent, c.htmlBlockBalance, ClaimSelfClose, "<"+n.Name+"/>")
		}

	case bladeast.KindCloseTag:
		c.htmlClose(n.Span.StartOffset, n.Name)
	}

	return nil
}

func (c *calculator) leave(n *bladeast.Node) error {
	if !n.Closed {
		return nil
	}

	switch n.Kind {
	case bladeast.KindBlock, bladeast.KindSection:
		c.blockEnd(n.End.StartOffset, c.endName(n))
	case bladeast.KindElement, bladeast.KindMarker:
		c.htmlClose(n.End.StartOffset, n.Name)
	}

	return nil
}

func (c *calculator) nested() bool {
	return c.htmlBlockBalance > 0 || c.blockBalance > 0
}

// blockEnd lowers the directive depth and records the end line. A block
// that opened on the same line leaves no record.
func (c *calculator) blockEnd(offset int, name string) {
	c.indent = max(c.indent-1, 0)
	c.blockBalance = max(c.blockBalance-1, 0)

	line := c.tpl.LineAt(offset)
	rec := c.records[line]

	switch {
	case rec == nil || rec.Claim == ClaimWhitespace:
		c.set(line, c.indent, c.htmlBlockBalance, ClaimBlockEnd, "@"+name)
	case rec.Claim == ClaimBlockStart:
		delete(c.records, line)
	case rec.Claim == ClaimBlockEnd:
		rec.Indent = c.indent
		rec.HTMLIndent = c.htmlBlockBalance
	}
}

// htmlClose lowers the HTML depth once per physical line and records the
// close line if nothing claimed it yet.
func (c *calculator) htmlClose(offset int, name string) {
	line := c.tpl.LineAt(offset)
	if line != c.lastClosedLine {
		c.htmlBlockBalance = max(c.htmlBlockBalance-1, 0)
		c.lastClosedLine = line
	}

	if rec := c.records[line]; rec == nil || rec.Claim == ClaimWhitespace {
		c.set(line, c.indent, c.htmlBlockBalance, ClaimClose, "</"+name+">")
	}
}

// claim records the line holding offset unless a non-provisional record
// already exists.
func (c *calculator) claim(offset, indent, html int, claim Claim, label string) {
	line := c.tpl.LineAt(offset)
	if rec := c.records[line]; rec != nil && rec.Claim != ClaimWhitespace {
		return
	}
	c.set(line, indent, html, claim, label)
}

func (c *calculator) set(line, indent, html int, claim Claim, label string) {
	info, ok := c.tpl.Line(line)
	if !ok || info.Frozen {
		return
	}
	c.records[line] = &Record{
		Line:       line,
		Offset:     info.IndentEnd,
		Indent:     indent,
		HTMLIndent: html,
		Claim:      claim,
		Label:      label,
	}
}

func (c *calculator) endName(n *bladeast.Node) string {
	end := string(c.tpl.Content[n.End.StartOffset:n.End.EndOffset])
	if idx := strings.IndexAny(end, " \t("); idx > 0 {
		end = end[:idx]
	}
	return strings.TrimPrefix(end, "@")
}

func (c *calculator) sorted() []Record {
	out := make([]Record, 0, len(c.records))
	for _, rec := range c.records {
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Line < out[j].Line
	})
	return out
}

func contentLabel(n *bladeast.Node) string {
	switch n.Kind {
	case bladeast.KindDirective:
		return "@" + n.Name
	case bladeast.KindEcho:
		return "{{ }}"
	case bladeast.KindComment:
		return "comment"
	case bladeast.KindRaw:
		return "raw"
	default:
		return "text"
	}
}
