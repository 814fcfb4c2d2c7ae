// Package blade parses Blade templates into a bladeast tree.
//
// Parsing never fails on malformed input. Unmatched end directives and
// close tags become leaf nodes; unclosed blocks and elements stay open
// until the end of the file.
package blade

import (
	"context"
	"fmt"
	"sort"

	"github.com/yaklabco/bladefmt/pkg/bladeast"
)

// Options configures a Parser.
type Options struct {
	// Live emits a whitespace node at every line start, including lines with
	// no leading whitespace. Used for single-line auto-indent while typing.
	Live bool
}

// Parser converts Blade source into a bladeast.Template.
// A Parser holds no per-parse state and is safe for concurrent use.
type Parser struct {
	opts Options
}

// New creates a parser with the given options.
func New(opts Options) *Parser {
	return &Parser{opts: opts}
}

// Parse builds the line index and tree for content.
// The only error returned is a cancelled context.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*bladeast.Template, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	tpl := bladeast.NewTemplate(path, content)
	tpl.Root = p.build(tpl)

	return tpl, nil
}

// ParseBytes parses content with default options, without a context.
func ParseBytes(content []byte, live bool) *bladeast.Template {
	tpl := bladeast.NewTemplate("", content)
	tpl.Root = New(Options{Live: live}).build(tpl)
	return tpl
}

func (p *Parser) build(tpl *bladeast.Template) *bladeast.Node {
	bladeTokens, masked := scanBlade(tpl.Content)
	markup := scanHTML(masked)

	tokens := make([]token, 0, len(bladeTokens)+len(markup.tokens)+len(tpl.Lines))
	frozen := markup.frozen

	for _, tok := range bladeTokens {
		if markup.markup.contains(tok.span.StartOffset) {
			continue
		}
		tokens = append(tokens, tok)
		frozen = append(frozen, tok.frozen())
	}
	tokens = append(tokens, markup.tokens...)
	tokens = append(tokens, p.whitespace(tpl, frozen)...)

	sort.SliceStable(tokens, func(i, j int) bool {
		if tokens[i].span.StartOffset != tokens[j].span.StartOffset {
			return tokens[i].span.StartOffset < tokens[j].span.StartOffset
		}
		return tokens[i].priority() < tokens[j].priority()
	})

	b := newTreeBuilder(len(tpl.Content))
	for _, tok := range tokens {
		b.add(tok)
	}
	return b.root
}

// whitespace returns one token per line start that may be re-indented.
// Lines starting inside a frozen range (multi-line tags, echoes, comments,
// raw-text bodies, <pre>) are marked Frozen and skipped.
func (p *Parser) whitespace(tpl *bladeast.Template, frozen []bladeast.SourceRange) []token {
	for _, r := range frozen {
		for line := tpl.LineAt(r.StartOffset) + 1; line <= len(tpl.Lines); line++ {
			if !r.Encloses(tpl.Lines[line-1].StartOffset) {
				break
			}
			tpl.Lines[line-1].Frozen = true
		}
	}

	var out []token
	for _, info := range tpl.Lines {
		if info.Frozen {
			continue
		}
		if !p.opts.Live && info.IndentLen() == 0 {
			continue
		}
		out = append(out, token{
			kind: tokWhitespace,
			span: span(info.StartOffset, info.IndentEnd),
		})
	}
	return out
}
