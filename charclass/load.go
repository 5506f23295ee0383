package charclass

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrSyntax is returned by ReadTable for malformed table definitions.
var ErrSyntax = errors.New("syntax error in character class definition")

// ReadTable reads a table definition in the line format of the Unicode
// Character Database data files: one class per line, fields separated by ';',
// comments starting with '#'. Fields are
//
//    name ; family ; characters [; precedence | escapes]
//
// Characters are given literally or as code points (U+0028), separated by
// spaces; '#' and ';' have to be given as code points. Enclosures list opener
// and closer, or a single character if both are the same. Operators list
// their symbol and may carry an integer precedence; enclosures may list the
// names of the classes they escape.
//
//    # formula classes
//    parenthesis ; enclosure ; ( )
//    quote       ; enclosure ; U+0022 ; plus minus
//    plus        ; operator  ; +      ; 0
//    minus       ; operator  ; -      ; 0
//
// The classes are validated as by NewTable.
func ReadTable(r io.Reader) (*Table, error) {
	var classes []Class
	sc := bufio.NewScanner(r)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		c, err := parseClass(strings.Split(line, ";"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno, err)
		}
		classes = append(classes, c)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	CT().Debugf("read %d character class definitions", len(classes))
	return NewTable(classes...)
}

func parseClass(fields []string) (Class, error) {
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	if len(fields) < 3 || len(fields) > 4 {
		return Class{}, fmt.Errorf("%w: expected 3 or 4 fields, have %d", ErrSyntax, len(fields))
	}
	c := Class{Name: fields[0]}
	var ok bool
	if c.Family, ok = FamilyFromString(fields[1]); !ok {
		return c, fmt.Errorf("%w: %q", ErrUnknownFamily, fields[1])
	}
	runes, err := parseRunes(fields[2])
	if err != nil {
		return c, err
	}
	switch c.Family {
	case Enclosure:
		switch len(runes) {
		case 1:
			c.Opener, c.Closer = runes[0], runes[0]
		case 2:
			c.Opener, c.Closer = runes[0], runes[1]
		default:
			return c, fmt.Errorf("%w: enclosure %s needs 1 or 2 characters", ErrSyntax, c.Name)
		}
		if len(fields) == 4 {
			c.EscapeNames = strings.Fields(fields[3])
		}
	case Operator:
		if len(runes) != 1 {
			return c, fmt.Errorf("%w: operator %s needs exactly 1 character", ErrSyntax, c.Name)
		}
		c.Symbol = runes[0]
		if len(fields) == 4 && fields[3] != "" {
			if c.Precedence, err = strconv.Atoi(fields[3]); err != nil {
				return c, fmt.Errorf("%w: precedence of %s: %v", ErrSyntax, c.Name, err)
			}
		}
	}
	return c, nil
}

func parseRunes(field string) ([]rune, error) {
	var runes []rune
	for _, tok := range strings.Fields(field) {
		if strings.HasPrefix(tok, "U+") && len(tok) > 2 {
			n, err := strconv.ParseUint(tok[2:], 16, 32)
			if err != nil {
				return nil, fmt.Errorf("%w: code point %s: %v", ErrSyntax, tok, err)
			}
			runes = append(runes, rune(n))
			continue
		}
		if utf8.RuneCountInString(tok) != 1 {
			return nil, fmt.Errorf("%w: %q is not a single character", ErrSyntax, tok)
		}
		r, _ := utf8.DecodeRuneInString(tok)
		runes = append(runes, r)
	}
	return runes, nil
}
