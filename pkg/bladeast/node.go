package bladeast

// NodeKind classifies the type of a tree node.
type NodeKind uint8

// Node kinds for Blade and HTML constructs.
const (
	KindDocument NodeKind = iota

	// Leading whitespace at the start of a line.
	KindWhitespace

	// Blade constructs.
	KindBlock
	KindSection
	KindBlockEnd
	KindAligned
	KindDirective
	KindEcho
	KindComment
	KindRaw
	KindText

	// HTML constructs.
	KindElement
	KindMarker
	KindSelfClose
	KindCloseTag
)

var kindNames = [...]string{
	KindDocument:   "Document",
	KindWhitespace: "Whitespace",
	KindBlock:      "Block",
	KindSection:    "Section",
	KindBlockEnd:   "BlockEnd",
	KindAligned:    "Aligned",
	KindDirective:  "Directive",
	KindEcho:       "Echo",
	KindComment:    "Comment",
	KindRaw:        "Raw",
	KindText:       "Text",
	KindElement:    "Element",
	KindMarker:     "Marker",
	KindSelfClose:  "SelfClose",
	KindCloseTag:   "CloseTag",
}

func (k NodeKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Node represents a single node in the Blade tree.
// Nodes form a tree structure with parent/child/sibling relationships.
type Node struct {
	// Kind identifies what type of node this is.
	Kind NodeKind

	// Name is the directive name without "@" or the lower-cased tag name.
	Name string

	// Tree structure pointers.
	Parent     *Node
	FirstChild *Node
	LastChild  *Node
	Prev       *Node
	Next       *Node

	// Span covers the opening construct: the directive with its arguments,
	// the start tag, or the whole token for leaf nodes.
	Span SourceRange

	// End covers the closing construct of a paired node.
	// It is only meaningful when Closed is true.
	End SourceRange

	// Closed is true when a paired node found its closing construct.
	Closed bool
}

// IsPaired returns true for nodes that open a nesting level.
func (n *Node) IsPaired() bool {
	switch n.Kind {
	case KindDocument, KindBlock, KindSection, KindElement, KindMarker:
		return true
	default:
		return false
	}
}

// IsBlade returns true for Blade directive blocks and sections.
func (n *Node) IsBlade() bool {
	return n.Kind == KindBlock || n.Kind == KindSection
}

// IsHTML returns true for HTML elements that hold children.
func (n *Node) IsHTML() bool {
	return n.Kind == KindElement || n.Kind == KindMarker
}

// HasChildren returns true if this node has any children.
func (n *Node) HasChildren() bool {
	return n.FirstChild != nil
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	count := 0
	for child := n.FirstChild; child != nil; child = child.Next {
		count++
	}
	return count
}

// Children returns a slice of all direct children.
func (n *Node) Children() []*Node {
	var children []*Node
	for child := n.FirstChild; child != nil; child = child.Next {
		children = append(children, child)
	}
	return children
}
