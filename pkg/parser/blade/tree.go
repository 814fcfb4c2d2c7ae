package blade

import "github.com/yaklabco/bladefmt/pkg/bladeast"

// treeBuilder turns an ordered token stream into a tree using a stack of
// open paired nodes.
type treeBuilder struct {
	root  *bladeast.Node
	stack []*bladeast.Node
}

func newTreeBuilder(length int) *treeBuilder {
	root := bladeast.NewDocument(length)
	return &treeBuilder{
		root:  root,
		stack: []*bladeast.Node{root},
	}
}

func (b *treeBuilder) top() *bladeast.Node {
	return b.stack[len(b.stack)-1]
}

func (b *treeBuilder) leaf(kind bladeast.NodeKind, tok token) {
	bladeast.AppendChild(b.top(), bladeast.NewNode(kind, tok.name, tok.span))
}

func (b *treeBuilder) open(kind bladeast.NodeKind, tok token) {
	node := bladeast.NewNode(kind, tok.name, tok.span)
	bladeast.AppendChild(b.top(), node)
	b.stack = append(b.stack, node)
}

func (b *treeBuilder) add(tok token) {
	switch tok.kind {
	case tokWhitespace:
		b.leaf(bladeast.KindWhitespace, tok)
	case tokText:
		b.leaf(bladeast.KindText, tok)
	case tokEcho:
		b.leaf(bladeast.KindEcho, tok)
	case tokComment:
		b.leaf(bladeast.KindComment, tok)
	case tokRaw:
		b.leaf(bladeast.KindRaw, tok)
	case tokDirective:
		b.directive(tok)
	case tokStartTag:
		switch {
		case voidElements[tok.name]:
			b.leaf(bladeast.KindSelfClose, tok)
		case markerElements[tok.name]:
			b.open(bladeast.KindMarker, tok)
		default:
			b.open(bladeast.KindElement, tok)
		}
	case tokSelfClose:
		b.leaf(bladeast.KindSelfClose, tok)
	case tokEndTag:
		if voidElements[tok.name] {
			return
		}
		b.closeWhere(tok, bladeast.KindCloseTag, func(n *bladeast.Node) bool {
			return n.IsHTML() && n.Name == tok.name
		})
	}
}

func (b *treeBuilder) directive(tok token) {
	switch classify(tok.name, tok.args) {
	case classBlockStart:
		b.open(bladeast.KindBlock, tok)
	case classSectionStart:
		b.open(bladeast.KindSection, tok)
	case classAligned:
		b.leaf(bladeast.KindAligned, tok)
	case classEnd:
		b.closeWhere(tok, bladeast.KindBlockEnd, func(n *bladeast.Node) bool {
			return n.IsBlade() && closes(tok.name, n.Name)
		})
	default:
		b.leaf(bladeast.KindDirective, tok)
	}
}

// closeWhere closes the innermost open node matching match, dropping any
// nodes opened above it. They stay unclosed. When nothing matches, the
// closing construct becomes an orphan leaf of kind orphan.
func (b *treeBuilder) closeWhere(tok token, orphan bladeast.NodeKind, match func(*bladeast.Node) bool) {
	for idx := len(b.stack) - 1; idx > 0; idx-- {
		if match(b.stack[idx]) {
			bladeast.Close(b.stack[idx], tok.span)
			b.stack = b.stack[:idx]
			return
		}
	}
	b.leaf(orphan, tok)
}
