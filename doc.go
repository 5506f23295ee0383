/*
Package formula parses formula strings of character-sheet data into expression
trees.

Description

Formula strings are what game-system data files use to describe derived
values, like

   "SK:Two-Handed Flail" -3
   {ST:DX} / 2 + 3 * (ST - 1)

They mix free text, quoted references, a handful of delimiter pairs and the
four arithmetic operators. Data of this kind has been edited by hand for
decades and is frequently malformed: quotes are left open, brackets are
crossed, parentheses are missing. The parser in this module therefore never
fails. It recovers from every unmatched delimiter by re-reading it as text
and records where it did so.

BSD License

Copyright (c) 2021, Norbert Pillmayer

All rights reserved.
Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.

Contents

Character classes, i.e. which characters act as delimiters or operators, live
in sub-package charclass. A parse is always run against a configuration, a
selection of classes from a class table. Characters of classes not selected
are plain text.

Sub-package tree holds the parser and the resulting tree. Each tree consists of
four kinds of nodes: the root, runs of text, enclosures (a pair of matching
delimiters and everything in between) and operators with their left and right
operands. Operands are lists of nodes, not single nodes, as formula data
regularly has things like

   "Broadsword" (Tricky) - 2

where the quote and the parenthesis together are the left operand of '-'.

Base package formula offers the one-call API most clients will need: Parse
with a selection of classes by name, and RemoveUnbalanced to sanitize text
before handing it to strict consumers.

Recovery

An opener starts an enclosure. If the text ends before the matching closer is
found, the enclosure is dropped, the opener is taken as text and everything
after it is read again as content of the surrounding node. A closer not
belonging to the innermost open enclosure is text as well. Both cases are
recorded as unresolved; clients get the offsets from Tree.UnresolvedIndices.

Inside quotes the operators lose their meaning, thus

   "X - Y" + 1

adds 1 to the quoted text. A minus between two word-like characters is a
hyphen, not an operator.
*/
package formula

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// CT traces to the core-tracer.
func CT() tracing.Trace {
	return gtrace.CoreTracer
}
