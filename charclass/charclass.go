/*
Package charclass holds the character classes recognized by the formula parser.

A character class describes one family of lexical symbols: either an enclosure,
i.e. a pair of opening and closing delimiters, or an infix operator. Operators
carry a precedence; enclosures may carry an escape set, which voids the meaning
of other classes while the scanner is inside the enclosure. Quotes use this to
let quoted text contain '+', '-', '*' and '/' as plain characters.

The default table holds

   enclosures:  parenthesis ( )   brace { }   bracket [ ]   quote " "   percent % %
   operators:   plus +  minus -   (precedence 0)
                division /  product *   (precedence 1)

Clients select a subset of classes with Configure. Only characters of selected
classes are active during a parse; all other characters are inert text,
regardless of what they look like.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package charclass

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// CT traces to the core-tracer.
func CT() tracing.Trace {
	return gtrace.CoreTracer
}

// Family is the kind of a character class.
type Family int8

// There are two families of character classes.
const (
	Enclosure Family = iota // pair of opener and closer
	Operator                // infix operator
)

func (f Family) String() string {
	switch f {
	case Enclosure:
		return "enclosure"
	case Operator:
		return "operator"
	}
	return fmt.Sprintf("family(%d)", int(f))
}

// FamilyFromString returns the family for a name as returned by Family.String.
func FamilyFromString(name string) (Family, bool) {
	switch strings.ToLower(name) {
	case "enclosure":
		return Enclosure, true
	case "operator":
		return Operator, true
	}
	return 0, false
}

// MaxClasses is the maximum number of classes a table may hold.
const MaxClasses = 32

// ClassSet is a set of class IDs of a single table.
type ClassSet uint32

// Has is true if the class with ID id is a member of s.
func (s ClassSet) Has(id int) bool {
	return id >= 0 && id < MaxClasses && s&(1<<uint(id)) != 0
}

// With returns s plus the class with ID id.
func (s ClassSet) With(id int) ClassSet {
	return s | 1<<uint(id)
}

// Class is an immutable descriptor of a family of lexical symbols.
//
// For enclosures, Opener and Closer are set (they may be identical, as for
// quotes). For operators, Symbol is set and Precedence is significant.
// EscapeNames is used to declare escapes when creating a table; after table
// creation, Escapes holds the resolved set.
type Class struct {
	ID          int      // position within its table, set by NewTable
	Name        string   // unique within its table
	Family      Family   // enclosure or operator
	Opener      rune     // opening delimiter of an enclosure
	Closer      rune     // closing delimiter of an enclosure
	Symbol      rune     // operator symbol
	Precedence  int      // operators only; higher binds tighter
	EscapeNames []string // names of classes void inside this enclosure
	Escapes     ClassSet // resolved from EscapeNames
}

func (c *Class) String() string {
	if c == nil {
		return "<no class>"
	}
	if c.Family == Operator {
		return fmt.Sprintf("%s[%c]/%d", c.Name, c.Symbol, c.Precedence)
	}
	return fmt.Sprintf("%s[%c%c]", c.Name, c.Opener, c.Closer)
}

// Runes returns all the characters claimed by c.
func (c *Class) Runes() []rune {
	if c.Family == Operator {
		return []rune{c.Symbol}
	}
	if c.Opener == c.Closer {
		return []rune{c.Opener}
	}
	return []rune{c.Opener, c.Closer}
}

// IsOpener is true if r opens an enclosure of class c.
func (c *Class) IsOpener(r rune) bool {
	return c.Family == Enclosure && c.Opener == r
}

// IsCloser is true if r closes an enclosure of class c.
func (c *Class) IsCloser(r rune) bool {
	return c.Family == Enclosure && c.Closer == r
}

// Errors returned when creating tables or configurations.
var (
	ErrTooManyClasses  = errors.New("too many character classes")
	ErrDuplicateClass  = errors.New("duplicate character class")
	ErrDuplicateSymbol = errors.New("character claimed by more than one class")
	ErrIncompleteClass = errors.New("character class is incomplete")
	ErrUnknownEscape   = errors.New("escape references unknown character class")
	ErrUnknownFamily   = errors.New("unknown character class family")
	ErrUnknownClass    = errors.New("unknown character class")
	ErrWrongFamily     = errors.New("character class selected for wrong family")
	ErrEmptySelection  = errors.New("no character class selected")
)

// Table is an immutable collection of character classes.
type Table struct {
	classes []*Class
	byName  map[string]*Class
	byRune  map[rune]*Class
}

// NewTable creates a table from class descriptors. The descriptors are copied.
// NewTable fails if class names or characters are not unique, if an escape
// set references an unknown class, or if a class is missing its delimiters
// or symbol.
func NewTable(classes ...Class) (*Table, error) {
	if len(classes) > MaxClasses {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyClasses, len(classes), MaxClasses)
	}
	t := &Table{
		classes: make([]*Class, len(classes)),
		byName:  make(map[string]*Class, len(classes)),
		byRune:  make(map[rune]*Class, 2*len(classes)),
	}
	for i := range classes {
		c := classes[i]
		c.ID = i
		c.EscapeNames = append([]string(nil), classes[i].EscapeNames...)
		if err := checkComplete(&c); err != nil {
			return nil, err
		}
		if _, dup := t.byName[c.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateClass, c.Name)
		}
		t.classes[i] = &c
		t.byName[c.Name] = &c
		for _, r := range c.Runes() {
			if other, dup := t.byRune[r]; dup {
				return nil, fmt.Errorf("%w: %q by %s and %s", ErrDuplicateSymbol, r, other.Name, c.Name)
			}
			t.byRune[r] = &c
		}
	}
	for _, c := range t.classes {
		for _, name := range c.EscapeNames {
			esc, ok := t.byName[name]
			if !ok {
				return nil, fmt.Errorf("%w: %s escapes %q", ErrUnknownEscape, c.Name, name)
			}
			c.Escapes = c.Escapes.With(esc.ID)
		}
	}
	return t, nil
}

func checkComplete(c *Class) error {
	if c.Name == "" {
		return fmt.Errorf("%w: class #%d has no name", ErrIncompleteClass, c.ID)
	}
	switch c.Family {
	case Enclosure:
		if c.Opener == 0 || c.Closer == 0 {
			return fmt.Errorf("%w: enclosure %s needs opener and closer", ErrIncompleteClass, c.Name)
		}
	case Operator:
		if c.Symbol == 0 {
			return fmt.Errorf("%w: operator %s needs a symbol", ErrIncompleteClass, c.Name)
		}
		if len(c.EscapeNames) > 0 {
			return fmt.Errorf("%w: operator %s cannot escape", ErrIncompleteClass, c.Name)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFamily, c.Family)
	}
	return nil
}

// MustNewTable is like NewTable, but panics on error. It is intended for
// tables set up at initialization time.
func MustNewTable(classes ...Class) *Table {
	t, err := NewTable(classes...)
	if err != nil {
		panic(err)
	}
	return t
}

// ClassFor returns the class a character belongs to, if any.
func (t *Table) ClassFor(r rune) (*Class, bool) {
	c, ok := t.byRune[r]
	return c, ok
}

// Class returns the class with a given name, if any.
func (t *Table) Class(name string) (*Class, bool) {
	c, ok := t.byName[name]
	return c, ok
}

// ByID returns the class with a given ID, or nil.
func (t *Table) ByID(id int) *Class {
	if id < 0 || id >= len(t.classes) {
		return nil
	}
	return t.classes[id]
}

// Classes returns the classes of a family, in table order.
func (t *Table) Classes(f Family) []*Class {
	var cs []*Class
	for _, c := range t.classes {
		if c.Family == f {
			cs = append(cs, c)
		}
	}
	return cs
}

// Len is the number of classes in t.
func (t *Table) Len() int {
	return len(t.classes)
}

// --- Default table ---------------------------------------------------------

// Names of the classes of the default table.
const (
	Parenthesis = "parenthesis"
	Brace       = "brace"
	Bracket     = "bracket"
	Quote       = "quote"
	Percent     = "percent"
	Plus        = "plus"
	Minus       = "minus"
	Division    = "division"
	Product     = "product"
)

// Additive and multiplicative precedence of the default operators.
const (
	AdditivePrecedence       = 0
	MultiplicativePrecedence = 1
)

var defaultTable = MustNewTable(
	Class{Name: Parenthesis, Family: Enclosure, Opener: '(', Closer: ')'},
	Class{Name: Brace, Family: Enclosure, Opener: '{', Closer: '}'},
	Class{Name: Bracket, Family: Enclosure, Opener: '[', Closer: ']'},
	Class{Name: Quote, Family: Enclosure, Opener: '"', Closer: '"',
		EscapeNames: []string{Plus, Minus, Division, Product}},
	Class{Name: Percent, Family: Enclosure, Opener: '%', Closer: '%'},
	Class{Name: Plus, Family: Operator, Symbol: '+', Precedence: AdditivePrecedence},
	Class{Name: Minus, Family: Operator, Symbol: '-', Precedence: AdditivePrecedence},
	Class{Name: Division, Family: Operator, Symbol: '/', Precedence: MultiplicativePrecedence},
	Class{Name: Product, Family: Operator, Symbol: '*', Precedence: MultiplicativePrecedence},
)

// Default returns the built-in table. It must not be modified.
func Default() *Table {
	return defaultTable
}
