/*
Package tree parses formula strings into trees of nested enclosures and
infix operator applications.

Formula strings come from legacy character-sheet data and are frequently
malformed. The parser therefore never fails: an enclosure whose closer cannot
be found, or a closer without a matching opener, is recorded as unresolved and
re-read as plain text. Clients needing well-formed input check
Tree.UnresolvedIndices or sanitize with RemoveUnbalanced first.

Typical usage:

   cfg := charclass.MustConfigure(
       charclass.Selection{Family: charclass.Enclosure, Classes: []string{charclass.Quote}},
       charclass.Selection{Family: charclass.Operator},
   )
   t := tree.Parse(`"Two-Handed Flail" - 3`, cfg)
   op := t.Root().Children()[0]     // the '-' operator
   skill := op.Left()[0]            // the quoted enclosure

How it works

Each node (the root or an enclosure) is scanned once, left to right. The scan
produces a flat list of text spans, child enclosures and operator
placeholders. Child enclosures are scanned recursively; if a child runs out of
input before finding its closer, it is discarded and its opener is taken as
text, so its would-be content is scanned again as content of the parent.

At the end of a scan the flat list is reduced: operators are folded by
descending precedence (ties left to right) with their current neighbors in the
list. An operand is a list of sibling nodes, not a single node, which allows
operands like `"Skill" (Hard)` to stay together.

Hyphens between two word-like characters (neither space nor digit) are taken
literally, thus "Two-Handed Flail - 3" subtracts 3 from "Two-Handed Flail".

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package tree

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// CT traces to the core-tracer.
func CT() tracing.Trace {
	return gtrace.CoreTracer
}

// MaxNesting is the maximum depth of nested enclosures. Openers nested deeper
// are treated as unmatched.
const MaxNesting = 256
