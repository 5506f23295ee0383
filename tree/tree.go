package tree

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/npillmayer/formula/charclass"
	"github.com/npillmayer/formula/internal/tracing"
)

// Tree is the parse tree of a formula string.
//
// A tree owns its source text and a configuration of active character classes.
// Trees are not safe for concurrent use during Parse; after parsing they are
// read-only. Independent trees may be parsed concurrently.
type Tree struct {
	text   string
	cfg    *charclass.Config
	nodes  []node           // arena; nodes[0] is the root
	failed map[attempt]bool // openers known not to find their closer
	levels map[int]int      // number of enclosures per depth
	parsed bool
}

// attempt identifies a try to scan an enclosure. Whether the try succeeds
// does not depend on anything but the opener's position and the escapes in
// effect.
type attempt struct {
	at  int
	esc charclass.ClassSet
}

// New creates an unparsed tree for a text. If cfg is nil, the default
// configuration with all character classes is used.
func New(text string, cfg *charclass.Config) *Tree {
	if cfg == nil {
		cfg = charclass.DefaultConfig()
	}
	return &Tree{
		text: text,
		cfg:  cfg,
	}
}

// Parse creates a tree for text and parses it.
func Parse(text string, cfg *charclass.Config) *Tree {
	return New(text, cfg).Parse()
}

// Parse builds the tree. Parsing a tree a second time is a no-op.
func (t *Tree) Parse() *Tree {
	if t.parsed {
		return t
	}
	t.nodes = make([]node, 0, 16)
	t.failed = make(map[attempt]bool)
	t.levels = make(map[int]int)
	root := t.newNode(Root, nil, 0)
	t.scan(root, 0, 0, 0)
	t.nodes[root].span.End = len(t.text) - 1
	t.numberEnclosures(root, 0)
	t.parsed = true
	CT().P("length", len(t.text)).Debugf("parsed formula into %d nodes", len(t.nodes))
	if tracing.IsDebugging() {
		if l := t.Root().Sexpr(); l != nil {
			tracing.Debugf("tree = %s", l.ListString())
		}
	}
	return t
}

// Text returns the source text of t.
func (t *Tree) Text() string {
	return t.text
}

// Config returns the configuration t has been created with.
func (t *Tree) Config() *charclass.Config {
	return t.cfg
}

// Root returns the root node. t will be parsed if necessary.
func (t *Tree) Root() Node {
	t.Parse()
	return Node{tree: t, id: 0}
}

// Node returns the node with a given ID.
func (t *Tree) Node(id NodeID) Node {
	if id < 0 || int(id) >= len(t.nodes) {
		return Node{}
	}
	return Node{tree: t, id: id}
}

// Walk visits every node reachable from the root in pre-order, i.e. in
// source order. Walk stops descending into a node if f returns false.
func (t *Tree) Walk(f func(Node) bool) {
	t.Parse()
	t.walk(0, func(id NodeID) bool {
		return f(Node{tree: t, id: id})
	})
}

func (t *Tree) walk(id NodeID, f func(NodeID) bool) {
	if !f(id) {
		return
	}
	for _, ch := range t.nodes[id].children {
		t.walk(ch, f)
	}
}

// UnresolvedIndices returns the offsets of all unmatched openers and stray
// closers of the tree, in ascending order.
func (t *Tree) UnresolvedIndices() []int {
	set := treeset.NewWithIntComparator()
	t.walk(0, func(id NodeID) bool {
		for _, i := range t.nodes[id].unresolved {
			set.Add(i)
		}
		return true
	})
	indices := make([]int, 0, set.Size())
	for _, v := range set.Values() {
		indices = append(indices, v.(int))
	}
	return indices
}

// Pairing is a matched pair of delimiters.
type Pairing struct {
	Class *charclass.Class
	Open  int // offset of the opener
	Close int // offset of the closer
}

func (p Pairing) String() string {
	return fmt.Sprintf("[%c,%c] at %d → %d", p.Class.Opener, p.Class.Closer, p.Open, p.Close)
}

// Pairings returns the matched delimiter pairs of t, ordered by the position
// of the opener.
func (t *Tree) Pairings() []Pairing {
	var pairings []Pairing
	t.Walk(func(n Node) bool {
		if n.Kind() == Enclosure {
			pairings = append(pairings, Pairing{
				Class: n.Class(),
				Open:  n.Span().Start,
				Close: n.Span().End,
			})
		}
		return true
	})
	return pairings
}

// RemoveUnbalanced parses text with all character classes active and returns
// text with every unmatched opener and every stray closer deleted.
// RemoveUnbalanced(RemoveUnbalanced(s)) == RemoveUnbalanced(s).
func RemoveUnbalanced(text string) string {
	t := Parse(text, charclass.DefaultConfig())
	drop := t.UnresolvedIndices()
	if len(drop) == 0 {
		return text
	}
	CT().Debugf("removing %d unbalanced delimiters at %v", len(drop), drop)
	var sb strings.Builder
	sb.Grow(len(text))
	pos := 0
	for _, i := range drop {
		sb.WriteString(text[pos:i])
		_, w := utf8.DecodeRuneInString(text[i:])
		pos = i + w
	}
	sb.WriteString(text[pos:])
	return sb.String()
}

// --- Arena -----------------------------------------------------------------

func (t *Tree) newNode(kind Kind, class *charclass.Class, at int) NodeID {
	t.nodes = append(t.nodes, node{
		kind:   kind,
		class:  class,
		span:   Span{Start: at, End: openEnd},
		parent: NoNode,
	})
	return NodeID(len(t.nodes) - 1)
}

func (t *Tree) newText(from, to int) NodeID {
	id := t.newNode(Text, nil, from)
	t.nodes[id].span.End = to
	return id
}

func (t *Tree) newOperator(class *charclass.Class, at int) NodeID {
	id := t.newNode(Operator, class, at)
	t.nodes[id].span.End = at
	t.nodes[id].symbol = at
	return id
}

// adopt makes children the children of parent, in this order.
func (t *Tree) adopt(parent NodeID, children []NodeID) {
	t.nodes[parent].children = children
	for i, ch := range children {
		t.nodes[ch].parent = parent
		t.nodes[ch].ordinal = i
	}
}

func (t *Tree) markUnresolved(id NodeID, at int) {
	t.nodes[id].unresolved = append(t.nodes[id].unresolved, at)
	CT().P("offset", at).Debugf("unbalanced %q", t.text[at:t.after(at)])
}

// numberEnclosures sets depth and per-depth ordinal for all enclosures
// below id.
func (t *Tree) numberEnclosures(id NodeID, depth int) {
	nd := &t.nodes[id]
	if nd.kind == Enclosure {
		depth++
		nd.depth = depth
		nd.level = t.levels[depth]
		t.levels[depth]++
	}
	for _, ch := range t.nodes[id].children {
		t.numberEnclosures(ch, depth)
	}
}

// after returns the offset following the character at offset i.
func (t *Tree) after(i int) int {
	if i < 0 {
		return 0
	}
	if i >= len(t.text) {
		return len(t.text)
	}
	_, w := utf8.DecodeRuneInString(t.text[i:])
	return i + w
}
