package bladeast

// NewNode creates a new node with the given kind, name and span.
func NewNode(kind NodeKind, name string, span SourceRange) *Node {
	return &Node{
		Kind: kind,
		Name: name,
		Span: span,
	}
}

// NewDocument creates a document root covering length bytes.
func NewDocument(length int) *Node {
	return NewNode(KindDocument, "", SourceRange{StartOffset: 0, EndOffset: length})
}

// AppendChild appends a child node to a parent.
// It maintains the parent/child/sibling relationships correctly.
func AppendChild(parent, child *Node) {
	if parent == nil || child == nil {
		return
	}

	if child.Parent != nil {
		RemoveChild(child.Parent, child)
	}

	child.Parent = parent
	child.Prev = parent.LastChild
	child.Next = nil

	if parent.LastChild != nil {
		parent.LastChild.Next = child
	} else {
		parent.FirstChild = child
	}

	parent.LastChild = child
}

// RemoveChild removes a child node from its parent.
func RemoveChild(parent, child *Node) {
	if parent == nil || child == nil || child.Parent != parent {
		return
	}

	if child.Prev != nil {
		child.Prev.Next = child.Next
	} else {
		parent.FirstChild = child.Next
	}

	if child.Next != nil {
		child.Next.Prev = child.Prev
	} else {
		parent.LastChild = child.Prev
	}

	child.Parent = nil
	child.Prev = nil
	child.Next = nil
}

// Close marks a paired node as closed by the construct at span.
func Close(node *Node, span SourceRange) {
	if node == nil {
		return
	}
	node.End = span
	node.Closed = true
}
