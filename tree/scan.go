package tree

import (
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/formula/charclass"
)

const hyphen = '-'

// scan reads the content of node id, starting at offset from, until the
// node's closer is found or the text ends. The root has no closer and reads
// to the end of the text.
//
// inherited is the escape set in effect for the parent. depth is the number of
// enclosures currently open.
//
// scan returns the offset following the node's closer and true if the closer
// has been found, with the children of id set. Otherwise it returns false and
// the caller is expected to discard the node.
func (t *Tree) scan(id NodeID, from int, inherited charclass.ClassSet, depth int) (int, bool) {
	own := t.nodes[id].class
	esc := inherited
	if own != nil {
		esc |= own.Escapes
	}
	var flat []NodeID // text, enclosures and operator placeholders
	pending := -1     // start of text not yet flushed to flat
	extend := func(at int) {
		if pending < 0 {
			pending = at
		}
	}
	flush := func(end int) {
		if pending >= 0 && end > pending {
			flat = append(flat, t.newText(pending, end-1))
		}
		pending = -1
	}
	i := from
	for i < len(t.text) {
		r, w := utf8.DecodeRuneInString(t.text[i:])
		c := t.cfg.ClassOf(r)
		switch {
		case c == nil: // inert
			extend(i)
		case r == hyphen && c.Family == charclass.Operator && t.isHyphen(i, w):
			extend(i)
		case esc.Has(c.ID) && !(own != nil && own.IsCloser(r)):
			extend(i)
		case c.Family == charclass.Operator:
			flush(i)
			flat = append(flat, t.newOperator(c, i))
		case own != nil && own.IsCloser(r):
			flush(i)
			t.nodes[id].span.End = i
			t.adopt(id, t.reduce(flat))
			return i + w, true
		case c.IsOpener(r):
			if child, next, ok := t.open(c, i, esc, depth); ok {
				flush(i)
				flat = append(flat, child)
				i = next
				continue
			}
			t.markUnresolved(id, i)
			extend(i)
		default: // closer of a class other than our own
			t.markUnresolved(id, i)
			extend(i)
		}
		i += w
	}
	if own != nil { // ran out of text before finding the closer
		return len(t.text), false
	}
	flush(len(t.text))
	t.adopt(id, t.reduce(flat))
	return len(t.text), true
}

// open tries to scan an enclosure of class c starting at offset at.
// If the enclosure does not find its closer, all nodes created for it are
// dropped from the arena and open returns false.
func (t *Tree) open(c *charclass.Class, at int, esc charclass.ClassSet, depth int) (NodeID, int, bool) {
	if depth >= MaxNesting {
		CT().P("offset", at).Infof("enclosures nested deeper than %d", MaxNesting)
		return NoNode, 0, false
	}
	try := attempt{at: at, esc: esc}
	if t.failed[try] {
		return NoNode, 0, false
	}
	mark := len(t.nodes)
	child := t.newNode(Enclosure, c, at)
	next, ok := t.scan(child, t.after(at), esc, depth+1)
	if !ok {
		t.nodes = t.nodes[:mark]
		t.failed[try] = true
		return NoNode, 0, false
	}
	return child, next, true
}

// isHyphen is true if the '-' at offset i is enclosed by word-like
// characters, e.g. in "Two-Handed".
func (t *Tree) isHyphen(i, w int) bool {
	if i == 0 || i+w >= len(t.text) {
		return false
	}
	prev, _ := utf8.DecodeLastRuneInString(t.text[:i])
	next, _ := utf8.DecodeRuneInString(t.text[i+w:])
	return wordlike(prev) && wordlike(next)
}

func wordlike(r rune) bool {
	return !unicode.IsSpace(r) && !unicode.IsDigit(r)
}

func isBlank(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
