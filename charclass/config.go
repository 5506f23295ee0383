package charclass

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

// Selection chooses classes of one family for a parse.
type Selection struct {
	Family  Family
	Classes []string // class names; empty means every class of the family
}

// Config is the set of active character classes for a parse.
// A Config is immutable and may be shared between parses.
type Config struct {
	table   *Table
	active  ClassSet
	classes []*Class
	runes   *unicode.RangeTable
}

// Configure builds a configuration on the default table.
func Configure(selections ...Selection) (*Config, error) {
	return defaultTable.Configure(selections...)
}

// MustConfigure is like Configure, but panics on error.
func MustConfigure(selections ...Selection) *Config {
	cfg, err := Configure(selections...)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Configure builds a configuration from an ordered list of selections.
// Selecting a class twice is harmless. An unknown class name, or a class
// selected under the wrong family, is an error.
func (t *Table) Configure(selections ...Selection) (*Config, error) {
	cfg := &Config{table: t}
	for _, sel := range selections {
		if sel.Family != Enclosure && sel.Family != Operator {
			return nil, fmt.Errorf("%w: %s", ErrUnknownFamily, sel.Family)
		}
		names := sel.Classes
		if len(names) == 0 {
			for _, c := range t.Classes(sel.Family) {
				names = append(names, c.Name)
			}
		}
		for _, name := range names {
			c, ok := t.byName[name]
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownClass, name)
			}
			if c.Family != sel.Family {
				return nil, fmt.Errorf("%w: %s is an %s", ErrWrongFamily, name, c.Family)
			}
			if cfg.active.Has(c.ID) {
				continue
			}
			cfg.active = cfg.active.With(c.ID)
			cfg.classes = append(cfg.classes, c)
		}
	}
	if len(cfg.classes) == 0 {
		return nil, ErrEmptySelection
	}
	var runes []rune
	for _, c := range cfg.classes {
		runes = append(runes, c.Runes()...)
	}
	cfg.runes = rangetable.New(runes...)
	CT().Debugf("configured active classes %s", cfg)
	return cfg, nil
}

var (
	setupOnce     sync.Once
	defaultConfig *Config
)

// DefaultConfig activates every class of the default table.
// (Concurrency-safe).
func DefaultConfig() *Config {
	setupOnce.Do(func() {
		defaultConfig = MustConfigure(
			Selection{Family: Enclosure},
			Selection{Family: Operator},
		)
	})
	return defaultConfig
}

// Table returns the table cfg has been configured from.
func (cfg *Config) Table() *Table {
	return cfg.table
}

// IsActive is true if r belongs to a selected class.
func (cfg *Config) IsActive(r rune) bool {
	return unicode.Is(cfg.runes, r)
}

// ClassOf returns the class of r if r is active, and nil otherwise.
func (cfg *Config) ClassOf(r rune) *Class {
	if !cfg.IsActive(r) {
		return nil
	}
	c, _ := cfg.table.ClassFor(r)
	return c
}

// Active is the set of selected class IDs.
func (cfg *Config) Active() ClassSet {
	return cfg.active
}

// Classes returns the selected classes in selection order.
func (cfg *Config) Classes() []*Class {
	return append([]*Class(nil), cfg.classes...)
}

// RangeTable returns the active character set.
func (cfg *Config) RangeTable() *unicode.RangeTable {
	return cfg.runes
}

func (cfg *Config) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, c := range cfg.classes {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(c.String())
	}
	sb.WriteString("}")
	return sb.String()
}
