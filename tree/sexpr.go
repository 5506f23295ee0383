package tree

import (
	"strings"

	"github.com/npillmayer/gorgo/terex"
)

// Sexpr exports the subtree at n as a TeREx list, suitable for term rewriting
// by downstream consumers. The mapping is
//
//    root          →  (child …)
//    text          →  "text"                       (trimmed)
//    enclosure     →  ("()" child …)               (opener and closer)
//    operator      →  ("-" (left …) (right …))
//
// Whitespace-only text is left out. Called on a text node, Sexpr returns a
// list with the trimmed text as its only element.
func (n Node) Sexpr() *terex.GCons {
	nd := n.get()
	switch nd.kind {
	case Text:
		return terex.List(strings.TrimSpace(n.Text()))
	case Enclosure:
		items := []interface{}{string([]rune{nd.class.Opener, nd.class.Closer})}
		return terex.List(append(items, sexprItems(n.Children())...)...)
	case Operator:
		return terex.List(
			string(nd.class.Symbol),
			terex.List(sexprItems(n.Left())...),
			terex.List(sexprItems(n.Right())...),
		)
	}
	return terex.List(sexprItems(n.Children())...)
}

func sexprItems(nodes []Node) []interface{} {
	items := make([]interface{}, 0, len(nodes))
	for _, ch := range nodes {
		if ch.Kind() == Text {
			if s := strings.TrimSpace(ch.Text()); s != "" {
				items = append(items, s)
			}
			continue
		}
		items = append(items, ch.Sexpr())
	}
	return items
}
