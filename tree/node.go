package tree

import (
	"fmt"

	"github.com/npillmayer/formula/charclass"
)

// Kind is the variant of a node.
type Kind int8

// Nodes are of one of four kinds.
const (
	Root      Kind = iota // spans the whole text
	Text                  // literal text
	Enclosure             // opener, children, closer
	Operator              // left operands, symbol, right operands
)

func (k Kind) String() string {
	switch k {
	case Root:
		return "Root"
	case Text:
		return "Text"
	case Enclosure:
		return "Enclosure"
	case Operator:
		return "Operator"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// NodeID identifies a node within its tree.
type NodeID int32

// NoNode is the ID of no node, e.g. the parent of the root.
const NoNode NodeID = -1

// node is an entry in the arena of a tree.
type node struct {
	kind       Kind
	class      *charclass.Class // nil for root and text
	span       Span
	parent     NodeID
	children   []NodeID // for operators: left operands, then right operands
	nleft      int      // operators: number of left operands
	symbol     int      // operators: offset of the operator symbol
	unresolved []int    // offsets of unmatched delimiters seen while scanning
	ordinal    int      // position within parent's children
	depth      int      // enclosures: nesting depth, outermost = 1
	level      int      // enclosures: ordinal among enclosures of same depth
}

// Node is a handle for a node of a tree. The zero value is no node.
// Nodes are small values and may be copied freely.
type Node struct {
	tree *Tree
	id   NodeID
}

// IsNil is true for the zero Node.
func (n Node) IsNil() bool {
	return n.tree == nil || n.id == NoNode
}

func (n Node) get() *node {
	return &n.tree.nodes[n.id]
}

func (n Node) wrap(ids []NodeID) []Node {
	nodes := make([]Node, len(ids))
	for i, id := range ids {
		nodes[i] = Node{tree: n.tree, id: id}
	}
	return nodes
}

// ID returns the arena index of n.
func (n Node) ID() NodeID {
	return n.id
}

// Kind returns the variant of n.
func (n Node) Kind() Kind {
	return n.get().kind
}

// Span returns the span of n. For an operator, the span reaches from its
// first left operand (or first right operand, if there is no left one) to its
// last right operand.
func (n Node) Span() Span {
	return n.get().span
}

// Class returns the character class of an enclosure or operator, nil otherwise.
func (n Node) Class() *charclass.Class {
	return n.get().class
}

// Parent returns the parent of n, if any.
func (n Node) Parent() (Node, bool) {
	p := n.get().parent
	if p == NoNode {
		return Node{}, false
	}
	return Node{tree: n.tree, id: p}, true
}

// Children returns the children of n in source order. For operators this is
// the left operands followed by the right operands.
func (n Node) Children() []Node {
	return n.wrap(n.get().children)
}

// Left returns the left operands of an operator.
func (n Node) Left() []Node {
	nd := n.get()
	if nd.kind != Operator {
		return nil
	}
	return n.wrap(nd.children[:nd.nleft])
}

// Right returns the right operands of an operator.
func (n Node) Right() []Node {
	nd := n.get()
	if nd.kind != Operator {
		return nil
	}
	return n.wrap(nd.children[nd.nleft:])
}

// Symbol returns the offset of an operator's symbol, or -1 for other nodes.
func (n Node) Symbol() int {
	nd := n.get()
	if nd.kind != Operator {
		return -1
	}
	return nd.symbol
}

// Ordinal returns the position of n within the children of its parent.
func (n Node) Ordinal() int {
	return n.get().ordinal
}

// Depth returns the enclosure nesting depth of an enclosure (outermost
// enclosures have depth 1), and 0 for all other nodes.
func (n Node) Depth() int {
	return n.get().depth
}

// Label returns a short name for an enclosure, unique among the enclosures
// of the same depth: "a", "b", … "z", "aa", "ab", …
// For all other nodes Label returns "".
func (n Node) Label() string {
	nd := n.get()
	if nd.kind != Enclosure {
		return ""
	}
	return Label(nd.level)
}

// Text returns the source text covered by n, including delimiters, operator
// symbols and any whitespace between operands.
func (n Node) Text() string {
	lo, hi := n.tree.extent(n.id)
	return n.tree.text[lo:hi]
}

// Resolved is false for an enclosure without a closer.
// Enclosures in a parsed tree are always resolved.
func (n Node) Resolved() bool {
	nd := n.get()
	return nd.kind != Enclosure || !nd.span.IsOpen()
}

// Unresolved returns the offsets of unmatched delimiters found while
// scanning the content of n, not including those of its descendants.
func (n Node) Unresolved() []int {
	return append([]int(nil), n.get().unresolved...)
}

func (n Node) String() string {
	if n.IsNil() {
		return "<nil node>"
	}
	nd := n.get()
	switch nd.kind {
	case Root:
		return fmt.Sprintf("Root%s", nd.span)
	case Text:
		return fmt.Sprintf("Text%s%q", nd.span, n.Text())
	case Enclosure:
		return fmt.Sprintf("%c%s%c%s", nd.class.Opener, n.Label(), nd.class.Closer, nd.span)
	case Operator:
		return fmt.Sprintf("%c@%d%s", nd.class.Symbol, nd.symbol, nd.span)
	}
	return fmt.Sprintf("%s%s", nd.kind, nd.span)
}
