package formula

import (
	"github.com/npillmayer/formula/charclass"
	"github.com/npillmayer/formula/tree"
)

// Parse parses a formula string. The classes to recognize are selected from the
// default class table by sel; without any selection, all classes are active.
//
// Parse returns an error only for an invalid selection. Malformed text never
// is an error, check the tree's UnresolvedIndices instead.
func Parse(text string, sel ...charclass.Selection) (*tree.Tree, error) {
	cfg := charclass.DefaultConfig()
	if len(sel) > 0 {
		var err error
		if cfg, err = charclass.Configure(sel...); err != nil {
			CT().Errorf("cannot parse formula: %v", err)
			return nil, err
		}
	}
	t := tree.Parse(text, cfg)
	if u := t.UnresolvedIndices(); len(u) > 0 {
		CT().P("unresolved", u).Infof("formula %q is unbalanced", text)
	}
	return t, nil
}

// RemoveUnbalanced deletes every unmatched opener and every stray closer from
// text, with all classes of the default table active.
//
// The result parses without unresolved delimiters, and
// RemoveUnbalanced(RemoveUnbalanced(s)) == RemoveUnbalanced(s).
func RemoveUnbalanced(text string) string {
	return tree.RemoveUnbalanced(text)
}
