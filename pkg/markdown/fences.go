// Package markdown re-indents Blade code fences embedded in Markdown
// documents, leaving the surrounding prose untouched.
package markdown

import (
	"bytes"
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/bladefmt/pkg/bladeast"
	"github.com/yaklabco/bladefmt/pkg/fix"
	"github.com/yaklabco/bladefmt/pkg/format"
	"github.com/yaklabco/bladefmt/pkg/langdetect"
)

// Fence is a fenced code block whose info string selects Blade.
type Fence struct {
	// Info is the raw info string after the opening fence.
	Info string

	// Segments are the content lines in source coordinates, one per line,
	// each including its newline.
	Segments []text.Segment

	source []byte
}

// Body returns the fence content as a standalone template.
func (f Fence) Body() []byte {
	var buf bytes.Buffer
	for _, seg := range f.Segments {
		buf.Write(seg.Value(f.source))
	}
	return buf.Bytes()
}

// Fences returns the Blade fences in content in document order. Fences whose
// lines carry container padding (tabs split by list indentation) are skipped
// since their leading whitespace is not addressable byte for byte.
func Fences(ctx context.Context, content []byte) ([]Fence, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	doc := md.Parser().Parse(text.NewReader(content), parser.WithContext(parser.NewContext()))

	var fences []Fence
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		block, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		info := ""
		if block.Info != nil {
			info = string(block.Info.Segment.Value(content))
		}
		if !langdetect.IsBladeFence(info) {
			return ast.WalkSkipChildren, nil
		}

		lines := block.Lines()
		fence := Fence{Info: info, source: content}
		for i := range lines.Len() {
			seg := lines.At(i)
			if seg.Padding > 0 {
				return ast.WalkSkipChildren, nil
			}
			fence.Segments = append(fence.Segments, seg)
		}
		if len(fence.Segments) > 0 {
			fences = append(fences, fence)
		}
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk markdown: %w", err)
	}
	return fences, nil
}

// Output is the outcome of formatting the fences of one document.
type Output struct {
	Fences    int
	Edits     []fix.TextEdit
	Formatted []byte
}

// Changed reports whether any fence was re-indented.
func (o *Output) Changed() bool {
	return o != nil && len(o.Edits) > 0
}

// FormatFences re-indents every Blade fence in content. Edits are returned
// in document coordinates. opts.Region is ignored.
func FormatFences(ctx context.Context, content []byte, opts format.Options) (*Output, error) {
	fences, err := Fences(ctx, content)
	if err != nil {
		return nil, err
	}

	opts.Region = nil
	doc := &bladeast.Template{Content: content, Lines: bladeast.BuildLines(content)}

	var edits []fix.TextEdit
	for _, fence := range fences {
		out, err := format.Source(ctx, "", fence.Body(), opts)
		if err != nil {
			return nil, err
		}
		for _, e := range out.Edits {
			if e.Line < 1 || e.Line > len(fence.Segments) {
				continue
			}
			start := fence.Segments[e.Line-1].Start
			edits = append(edits, fix.TextEdit{
				StartOffset: start,
				EndOffset:   start + e.Len(),
				NewText:     e.NewText,
				Line:        doc.LineAt(start),
			})
		}
	}

	formatted, err := fix.Apply(content, edits)
	if err != nil {
		return nil, fmt.Errorf("apply fence edits: %w", err)
	}

	return &Output{Fences: len(fences), Edits: edits, Formatted: formatted}, nil
}
