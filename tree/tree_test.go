package tree

import (
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/npillmayer/formula/charclass"
	"github.com/npillmayer/formula/internal/tracing"
	"github.com/npillmayer/schuko/gtrace"
	schuko "github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func operators() *charclass.Config {
	return charclass.MustConfigure(
		charclass.Selection{Family: charclass.Operator},
	)
}

func quotesAndMinus() *charclass.Config {
	return charclass.MustConfigure(
		charclass.Selection{Family: charclass.Enclosure, Classes: []string{charclass.Quote}},
		charclass.Selection{Family: charclass.Operator, Classes: []string{charclass.Minus}},
	)
}

func quotesAndAdditive() *charclass.Config {
	return charclass.MustConfigure(
		charclass.Selection{Family: charclass.Enclosure, Classes: []string{charclass.Quote}},
		charclass.Selection{Family: charclass.Operator, Classes: []string{charclass.Plus, charclass.Minus}},
	)
}

func parens() *charclass.Config {
	return charclass.MustConfigure(
		charclass.Selection{Family: charclass.Enclosure, Classes: []string{charclass.Parenthesis}},
	)
}

// single returns the only child of the root.
func single(t *testing.T, tree *Tree) Node {
	t.Helper()
	children := tree.Root().Children()
	if len(children) != 1 {
		t.Fatalf("expected root to have 1 child, has %d: %v", len(children), children)
	}
	return children[0]
}

func trimmed(nodes []Node) []string {
	s := make([]string, len(nodes))
	for i, n := range nodes {
		s[i] = strings.TrimSpace(n.Text())
	}
	return s
}

func TestPlainText(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	//
	tree := Parse("Broadsword", operators())
	n := single(t, tree)
	if n.Kind() != Text {
		t.Errorf("expected single text node, have %s", n)
	}
	if n.Span() != (Span{0, 9}) {
		t.Errorf("expected span [0-9], have %s", n.Span())
	}
	if p, ok := n.Parent(); !ok || p.Kind() != Root {
		t.Errorf("expected text to be child of root")
	}
}

func TestEmptyText(t *testing.T) {
	teardown := tracing.SetTestingLog(t)
	defer teardown()
	//
	tree := Parse("", nil)
	if len(tree.Root().Children()) != 0 {
		t.Errorf("expected empty root, have %v", tree.Root().Children())
	}
	if tree.Reconstruct() != "" {
		t.Errorf("expected empty reconstruction, have %q", tree.Reconstruct())
	}
	if !tree.Root().Resolved() {
		t.Errorf("expected root to be resolved")
	}
}

func TestPrecedence1(t *testing.T) {
	teardown := tracing.SetTestingLog(t)
	defer teardown()
	//
	tree := Parse("A - B * C", operators())
	minus := single(t, tree)
	if minus.Kind() != Operator || minus.Class().Name != charclass.Minus {
		t.Fatalf("expected '-' at top level, have %s", minus)
	}
	if l := trimmed(minus.Left()); !reflect.DeepEqual(l, []string{"A"}) {
		t.Errorf("expected left operand A, have %v", l)
	}
	right := minus.Right()
	if len(right) != 1 || right[0].Kind() != Operator || right[0].Class().Name != charclass.Product {
		t.Fatalf("expected right operand to be '*', is %v", right)
	}
	product := right[0]
	if l, r := trimmed(product.Left()), trimmed(product.Right()); l[0] != "B" || r[0] != "C" {
		t.Errorf("expected B * C, have %v * %v", l, r)
	}
	if minus.Span() != (Span{0, 8}) {
		t.Errorf("expected '-' to span [0-8], spans %s", minus.Span())
	}
	if product.Span() != (Span{3, 8}) {
		t.Errorf("expected '*' to span [3-8], spans %s", product.Span())
	}
	if p, _ := product.Parent(); p.ID() != minus.ID() {
		t.Errorf("expected parent of '*' to be '-', is %s", p)
	}
}

func TestPrecedence2(t *testing.T) {
	teardown := tracing.SetTestingLog(t)
	defer teardown()
	//
	tree := Parse("A * B - C", operators())
	minus := single(t, tree)
	if minus.Class().Name != charclass.Minus {
		t.Fatalf("expected '-' at top level, have %s", minus)
	}
	left := minus.Left()
	if len(left) != 1 || left[0].Class() == nil || left[0].Class().Name != charclass.Product {
		t.Fatalf("expected left operand to be '*', is %v", left)
	}
	if r := trimmed(minus.Right()); r[0] != "C" {
		t.Errorf("expected right operand C, have %v", r)
	}
}

func TestPrecedenceTiesLeftToRight(t *testing.T) {
	teardown := tracing.SetTestingLog(t)
	defer teardown()
	//
	tree := Parse("A - B + C", operators())
	plus := single(t, tree)
	if plus.Class().Name != charclass.Plus {
		t.Fatalf("expected '+' at top level, have %s", plus)
	}
	if left := plus.Left(); len(left) != 1 || left[0].Class().Name != charclass.Minus {
		t.Errorf("expected (A - B) + C, have %v", left)
	}
}

func TestQuoteEscapes(t *testing.T) {
	teardown := tracing.SetTestingLog(t)
	defer teardown()
	//
	tree := Parse(`"X - Y" + 1`, quotesAndAdditive())
	plus := single(t, tree)
	if plus.Kind() != Operator || plus.Class().Name != charclass.Plus {
		t.Fatalf("expected '+' at top level, have %s", plus)
	}
	left := plus.Left()
	if len(left) != 1 || left[0].Kind() != Enclosure {
		t.Fatalf("expected quoted enclosure as left operand, have %v", left)
	}
	inner := left[0].Children()
	if len(inner) != 1 || inner[0].Kind() != Text || inner[0].Text() != "X - Y" {
		t.Errorf("expected quote to contain text 'X - Y', has %v", inner)
	}
	if r := trimmed(plus.Right()); len(r) != 1 || r[0] != "1" {
		t.Errorf("expected right operand 1, have %v", r)
	}
}

func TestHyphen(t *testing.T) {
	teardown := tracing.SetTestingLog(t)
	defer teardown()
	//
	tree := Parse("Two-Handed Flail - 3", operators())
	minus := single(t, tree)
	if minus.Kind() != Operator || minus.Symbol() != 17 {
		t.Fatalf("expected '-' at 17 at top level, have %s", minus)
	}
	if l := trimmed(minus.Left()); len(l) != 1 || l[0] != "Two-Handed Flail" {
		t.Errorf("expected left operand 'Two-Handed Flail', have %v", l)
	}
	if r := trimmed(minus.Right()); len(r) != 1 || r[0] != "3" {
		t.Errorf("expected right operand 3, have %v", r)
	}
}

func TestHyphenNeedsWordCharacters(t *testing.T) {
	teardown := tracing.SetTestingLog(t)
	defer teardown()
	//
	for _, input := range []string{"A-3", "3-A", "A -B", "-A"} {
		tree := Parse(input, operators())
		if n := single(t, tree); n.Kind() != Operator {
			t.Errorf("expected '-' in %q to be an operator, have %s", input, n)
		}
	}
}

func TestUnaryMinus(t *testing.T) {
	teardown := tracing.SetTestingLog(t)
	defer teardown()
	//
	tree := Parse("-3", operators())
	minus := single(t, tree)
	if len(minus.Left()) != 0 {
		t.Errorf("expected no left operand, have %v", minus.Left())
	}
	if minus.Span() != (Span{1, 1}) {
		t.Errorf("expected span to start at first right operand, is %s", minus.Span())
	}
	if tree.Reconstruct() != "-3" {
		t.Errorf("expected reconstruction '-3', have %q", tree.Reconstruct())
	}
}

func TestDanglingOperator(t *testing.T) {
	teardown := tracing.SetTestingLog(t)
	defer teardown()
	//
	tree := Parse("A +", operators())
	plus := single(t, tree)
	if len(plus.Right()) != 0 {
		t.Errorf("expected no right operand, have %v", plus.Right())
	}
	if plus.Span() != (Span{0, 2}) {
		t.Errorf("expected span [0-2], have %s", plus.Span())
	}
	tree = Parse("+", operators())
	plus = single(t, tree)
	if len(plus.Children()) != 0 || plus.Span() != (Span{0, 0}) {
		t.Errorf("expected lone operator at [0], have %s with %v", plus, plus.Children())
	}
}

func TestMultiNodeOperand(t *testing.T) {
	teardown := tracing.SetTestingLog(t)
	defer teardown()
	//
	cfg := charclass.MustConfigure(
		charclass.Selection{Family: charclass.Enclosure, Classes: []string{charclass.Quote, charclass.Parenthesis}},
		charclass.Selection{Family: charclass.Operator, Classes: []string{charclass.Minus}},
	)
	tree := Parse(`"Broadsword" (Tricky) - 2`, cfg)
	minus := single(t, tree)
	left := minus.Left()
	if len(left) != 2 {
		t.Fatalf("expected 2 left operands, have %v", left)
	}
	if left[0].Class().Name != charclass.Quote || left[1].Class().Name != charclass.Parenthesis {
		t.Errorf("expected quote and parenthesis as left operands, have %v", left)
	}
	if left[1].Ordinal() != 1 {
		t.Errorf("expected ordinal of second operand to be 1, is %d", left[1].Ordinal())
	}
}

func TestUnmatchedOpener(t *testing.T) {
	teardown := tracing.SetTestingLog(t)
	defer teardown()
	//
	tree := Parse("(A, B", parens())
	tree.Walk(func(n Node) bool {
		if n.Kind() == Enclosure {
			t.Errorf("expected no enclosure, have %s", n)
		}
		return true
	})
	n := single(t, tree)
	if n.Kind() != Text || n.Text() != "(A, B" || n.Span().Start != 0 {
		t.Errorf("expected '(' to be literal text at 0, have %s", n)
	}
	if u := tree.UnresolvedIndices(); !reflect.DeepEqual(u, []int{0}) {
		t.Errorf("expected unresolved indices [0], have %v", u)
	}
	if u := tree.Root().Unresolved(); !reflect.DeepEqual(u, []int{0}) {
		t.Errorf("expected root to hold the unresolved index, holds %v", u)
	}
}

func TestStrayCloser(t *testing.T) {
	teardown := tracing.SetTestingLog(t)
	defer teardown()
	//
	tree := Parse("A)B", parens())
	n := single(t, tree)
	if n.Kind() != Text || n.Text() != "A)B" {
		t.Errorf("expected a single text 'A)B', have %s", n)
	}
	if u := tree.UnresolvedIndices(); !reflect.DeepEqual(u, []int{1}) {
		t.Errorf("expected unresolved indices [1], have %v", u)
	}
}

func TestNestedRecovery(t *testing.T) {
	teardown := tracing.SetTestingLog(t)
	defer teardown()
	//
	tree := Parse("((a) [b", nil)
	// outer '(' and '[' never close; "(a)" does
	if u := tree.UnresolvedIndices(); !reflect.DeepEqual(u, []int{0, 5}) {
		t.Errorf("expected unresolved indices [0 5], have %v", u)
	}
	pairs := tree.Pairings()
	if len(pairs) != 1 || pairs[0].Open != 1 || pairs[0].Close != 3 {
		t.Errorf("expected single pairing 1 → 3, have %v", pairs)
	}
	if tree.Reconstruct() != "((a) [b" {
		t.Errorf("expected exact reconstruction, have %q", tree.Reconstruct())
	}
}

func TestCrossedDelimiters(t *testing.T) {
	teardown := tracing.SetTestingLog(t)
	defer teardown()
	//
	tree := Parse("(a [b) c]", nil)
	// ')' is stray inside the brackets, which leaves '(' without a closer
	pairs := tree.Pairings()
	if len(pairs) != 1 || pairs[0].Class.Name != charclass.Bracket {
		t.Fatalf("expected brackets to be the only pairing, have %v", pairs)
	}
	if pairs[0].Open != 3 || pairs[0].Close != 8 {
		t.Errorf("expected brackets to pair 3 → 8, have %v", pairs[0])
	}
	if u := tree.UnresolvedIndices(); !reflect.DeepEqual(u, []int{0, 5}) {
		t.Errorf("expected unresolved indices [0 5], have %v", u)
	}
}

func TestConcreteScenario(t *testing.T) {
	teardown := tracing.SetTestingLog(t)
	defer teardown()
	//
	input := `"SK:Two-Handed Flail" -3`
	tree := Parse(input, quotesAndMinus())
	minus := single(t, tree)
	if minus.Kind() != Operator || minus.Class().Name != charclass.Minus {
		t.Fatalf("expected '-' at top level, have %s", minus)
	}
	left := minus.Left()
	if len(left) != 1 || left[0].Kind() != Enclosure {
		t.Fatalf("expected quote as single left operand, have %v", left)
	}
	if left[0].Span() != (Span{0, 20}) {
		t.Errorf("expected quote to span [0-20], spans %s", left[0].Span())
	}
	if r := trimmed(minus.Right()); len(r) != 1 || r[0] != "3" {
		t.Errorf("expected right operand 3, have %v", r)
	}
	if u := tree.UnresolvedIndices(); len(u) != 0 {
		t.Errorf("expected no unresolved indices, have %v", u)
	}
}

func TestOperatorsInsideEnclosure(t *testing.T) {
	teardown := tracing.SetTestingLog(t)
	defer teardown()
	//
	tree := Parse("(A + B) * 2", nil)
	product := single(t, tree)
	if product.Class().Name != charclass.Product {
		t.Fatalf("expected '*' at top level, have %s", product)
	}
	paren := product.Left()[0]
	if paren.Kind() != Enclosure {
		t.Fatalf("expected parenthesis as left operand, have %s", paren)
	}
	inner := paren.Children()
	if len(inner) != 1 || inner[0].Class().Name != charclass.Plus {
		t.Errorf("expected '+' inside parenthesis, have %v", inner)
	}
	if p, _ := paren.Parent(); p.ID() != product.ID() {
		t.Errorf("expected parenthesis to be operand of '*'")
	}
}

func TestDeepNesting(t *testing.T) {
	teardown := tracing.SetTestingLog(t)
	defer teardown()
	//
	input := strings.Repeat("(", MaxNesting+10) + "x" + strings.Repeat(")", MaxNesting+10)
	tree := Parse(input, parens())
	if tree.Reconstruct() != input {
		t.Errorf("expected exact reconstruction of deeply nested input")
	}
	t.Logf("%d unresolved for nesting depth %d", len(tree.UnresolvedIndices()), MaxNesting+10)
}

func TestManyUnmatchedOpeners(t *testing.T) {
	teardown := tracing.SetTestingLog(t)
	defer teardown()
	//
	input := strings.Repeat("([{", 200)
	tree := Parse(input, nil)
	if len(tree.UnresolvedIndices()) != len(input) {
		t.Errorf("expected all %d openers to be unresolved, have %d",
			len(input), len(tree.UnresolvedIndices()))
	}
	if len(tree.Pairings()) != 0 {
		t.Errorf("expected no pairings")
	}
}

func TestParseConcurrently(t *testing.T) {
	teardown := tracing.SetTestingLog(t)
	defer teardown()
	gtrace.CoreTracer.SetTraceLevel(schuko.LevelError)
	//
	inputs := []string{
		"A - B * C",
		`"SK:Two-Handed Flail" -3`,
		"{ST:DX} / 2 + 3 * (ST - 1)",
		"-1 + 2",
		`"X (Y" + [Z}`,
	}
	expected := make([]string, len(inputs))
	for i, input := range inputs {
		expected[i] = Parse(input, nil).Signature()
	}
	var wg sync.WaitGroup
	errs := make(chan string, 2*8*len(inputs))
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, input := range inputs {
				tree := Parse(input, nil)
				if s := tree.Reconstruct(); s != input {
					errs <- "reconstruction of " + input + " is " + s
				}
				if s := tree.Signature(); s != expected[i] {
					errs <- "signature of " + input + " is " + s
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Errorf("expected concurrent parses to agree: %s", e)
	}
}
