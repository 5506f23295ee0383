package tree

import (
	"fmt"
	"strings"
)

// Reconstruct returns the source text covered by n, rebuilt from the tree.
// Text between children which did not make it into the tree, i.e. whitespace
// dropped from operands, is copied from the source. For the root, the result
// is always identical to the input text. Unmatched delimiters have already
// been turned into text during the parse and come out unchanged.
func (n Node) Reconstruct() string {
	var sb strings.Builder
	n.tree.write(&sb, n.id, func(NodeID) bool { return false })
	return sb.String()
}

// Signature returns a structural fingerprint of n. Every enclosure below n is
// replaced by a placeholder ⟨dl⟩, where d is the enclosure's nesting depth and
// l its label (see Label). Placeholders are never looked into. Operators are
// not replaced: their symbols and operands stay visible, and only enclosures
// within the operands become placeholders, thus
//
//    "Broadsword" (Tricky) - 2   ⇒   ⟨1a⟩ ⟨1b⟩ - 2
//
// Signature is not reversible; use Reconstruct to get the text back.
func (n Node) Signature() string {
	var sb strings.Builder
	top := n.id
	n.tree.write(&sb, n.id, func(id NodeID) bool {
		return id != top && n.tree.nodes[id].kind == Enclosure
	})
	return sb.String()
}

// Reconstruct returns the text of t, rebuilt from the tree.
func (t *Tree) Reconstruct() string {
	return t.Root().Reconstruct()
}

// Signature returns the structural fingerprint of the whole tree.
func (t *Tree) Signature() string {
	return t.Root().Signature()
}

// Placeholder returns the placeholder Signature uses for an enclosure.
func (n Node) Placeholder() string {
	nd := n.get()
	if nd.kind != Enclosure {
		return ""
	}
	return fmt.Sprintf("⟨%d%s⟩", nd.depth, Label(nd.level))
}

// Label returns a bijective base-26 name for an ordinal n ≥ 0:
// 0 → "a", 25 → "z", 26 → "aa", 27 → "ab", 701 → "zz", 702 → "aaa".
func Label(n int) string {
	if n < 0 {
		return ""
	}
	var buf [16]byte
	i := len(buf)
	for n++; n > 0; n = (n - 1) / 26 {
		i--
		buf[i] = byte('a' + (n-1)%26)
	}
	return string(buf[i:])
}

// write appends the text of node id to sb. Nodes for which opaque returns true
// are written as placeholders.
func (t *Tree) write(sb *strings.Builder, id NodeID, opaque func(NodeID) bool) {
	nd := &t.nodes[id]
	switch nd.kind {
	case Root:
		t.writeSeq(sb, nd.children, 0, len(t.text), opaque)
	case Text:
		sb.WriteString(t.sourceOf(id))
	case Enclosure:
		if opaque(id) {
			sb.WriteString(Node{tree: t, id: id}.Placeholder())
			return
		}
		content := t.after(nd.span.Start)
		sb.WriteString(t.text[nd.span.Start:content])
		if nd.span.IsOpen() {
			t.writeSeq(sb, nd.children, content, len(t.text), opaque)
			return
		}
		t.writeSeq(sb, nd.children, content, nd.span.End, opaque)
		sb.WriteString(t.text[nd.span.End:t.after(nd.span.End)])
	case Operator:
		lo, hi := t.extent(id)
		t.writeSeq(sb, nd.children[:nd.nleft], lo, nd.symbol, opaque)
		sb.WriteString(t.text[nd.symbol:t.after(nd.symbol)])
		t.writeSeq(sb, nd.children[nd.nleft:], t.after(nd.symbol), hi, opaque)
	}
}

// writeSeq writes a sequence of sibling nodes covering the text from offset
// from up to (not including) offset to. Gaps between the nodes are copied
// from the source.
func (t *Tree) writeSeq(sb *strings.Builder, ids []NodeID, from, to int, opaque func(NodeID) bool) {
	pos := from
	for _, id := range ids {
		lo, hi := t.extent(id)
		if lo > pos {
			sb.WriteString(t.text[pos:lo])
		}
		t.write(sb, id, opaque)
		pos = hi
	}
	if to > pos {
		sb.WriteString(t.text[pos:to])
	}
}

// extent returns the source range [lo, hi) covered by a node. Other than the
// span of an operator, the extent includes the operator symbol even if there
// is no left or right operand, and the symbols of operators nested as its
// first or last operand.
func (t *Tree) extent(id NodeID) (int, int) {
	nd := &t.nodes[id]
	switch nd.kind {
	case Root:
		return 0, len(t.text)
	case Operator:
		lo, hi := nd.span.Start, t.after(nd.span.End)
		if nd.symbol < lo {
			lo = nd.symbol
		}
		if s := t.after(nd.symbol); s > hi {
			hi = s
		}
		if n := len(nd.children); n > 0 {
			if l, _ := t.extent(nd.children[0]); l < lo {
				lo = l
			}
			if _, h := t.extent(nd.children[n-1]); h > hi {
				hi = h
			}
		}
		return lo, hi
	}
	if nd.span.IsOpen() {
		return nd.span.Start, len(t.text)
	}
	return nd.span.Start, t.after(nd.span.End)
}
