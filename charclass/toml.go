package charclass

import (
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
)

// tomlClass is the TOML form of a class definition.
type tomlClass struct {
	Name       string   `toml:"name"`
	Family     string   `toml:"family"`
	Opener     string   `toml:"opener"`
	Closer     string   `toml:"closer"`
	Symbol     string   `toml:"symbol"`
	Precedence int      `toml:"precedence"`
	Escapes    []string `toml:"escapes"`
}

type tomlTable struct {
	Classes []tomlClass `toml:"class"`
}

// ReadTableTOML reads a table definition from TOML, one [[class]] entry
// per class:
//
//    [[class]]
//    name    = "quote"
//    family  = "enclosure"
//    opener  = '"'
//    closer  = '"'
//    escapes = ["plus", "minus"]
//
//    [[class]]
//    name       = "caret"
//    family     = "operator"
//    symbol     = "^"
//    precedence = 2
//
// Unknown keys are an error. The classes are validated as by NewTable.
func ReadTableTOML(r io.Reader) (*Table, error) {
	var def tomlTable
	md, err := toml.NewDecoder(r).Decode(&def)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: unknown keys %s", ErrSyntax, strings.Join(keys, ", "))
	}
	classes := make([]Class, len(def.Classes))
	for i, tc := range def.Classes {
		c, err := tc.class()
		if err != nil {
			return nil, fmt.Errorf("class #%d: %w", i, err)
		}
		classes[i] = c
	}
	CT().Debugf("read %d character class definitions from TOML", len(classes))
	return NewTable(classes...)
}

func (tc tomlClass) class() (Class, error) {
	c := Class{Name: tc.Name, Precedence: tc.Precedence, EscapeNames: tc.Escapes}
	var ok bool
	if c.Family, ok = FamilyFromString(tc.Family); !ok {
		return c, fmt.Errorf("%w: %q", ErrUnknownFamily, tc.Family)
	}
	var err error
	if c.Opener, err = single(tc.Opener); err != nil {
		return c, err
	}
	if c.Closer, err = single(tc.Closer); err != nil {
		return c, err
	}
	if c.Symbol, err = single(tc.Symbol); err != nil {
		return c, err
	}
	if c.Family == Enclosure && c.Closer == 0 {
		c.Closer = c.Opener
	}
	return c, nil
}

// single converts a one-character string to a rune. The empty string
// yields 0.
func single(s string) (rune, error) {
	if s == "" {
		return 0, nil
	}
	runes, err := parseRunes(s)
	if err != nil {
		return 0, err
	}
	if len(runes) != 1 {
		return 0, fmt.Errorf("%w: %q is not a single character", ErrSyntax, s)
	}
	return runes[0], nil
}
