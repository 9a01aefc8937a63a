// Package spell compiles a ruleset's spell table into gesture signatures and
// matches participants' gesture histories against them.
package spell

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/ruleset"
)

// ErrUnknownSpell is returned for spell ids or codes missing from the catalog.
var ErrUnknownSpell = errors.New("unknown spell")

// Wildcard matches any gesture in a signature.
const Wildcard = '.'

// Pattern is a spell pattern preprocessed for matching against reversed
// gesture histories.
type Pattern struct {
	Raw string
	// Main is the main-hand signature, most recent gesture first.
	Main string
	// Off is the off-hand signature, most recent gesture first, with
	// trailing wildcards trimmed.
	Off string
	// Hands is 2 when the last gesture needs both hands.
	Hands int
}

// Len is the number of gestures in the pattern.
func (p Pattern) Len() int { return len(p.Main) }

// CompilePattern builds the signatures of a raw pattern. A lowercase gesture
// means both hands must show it.
func CompilePattern(raw string, offhand map[string]string) Pattern {
	rev := reverse(raw)

	var off strings.Builder
	for _, r := range rev {
		if t, ok := offhand[string(r)]; ok {
			off.WriteString(t)
			continue
		}
		off.WriteRune(r)
	}

	hands := 1
	if raw != "" {
		last := rune(raw[len(raw)-1])
		if last >= 'a' && last <= 'z' {
			hands = 2
		}
	}

	return Pattern{
		Raw:   raw,
		Main:  strings.ToUpper(rev),
		Off:   strings.TrimRight(strings.ToUpper(off.String()), string(Wildcard)),
		Hands: hands,
	}
}

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

// Definition is a spell together with its compiled patterns.
type Definition struct {
	ruleset.SpellDef
	Compiled []Pattern
}

// Summon reports whether the spell creates a monster.
func (d *Definition) Summon() bool { return strings.HasPrefix(d.Code, "summon_") }

// MonsterType is the monster created by a summon spell.
func (d *Definition) MonsterType() string { return strings.TrimPrefix(d.Code, "summon_") }

// Catalog is the compiled spell table of a ruleset, kept in table order.
type Catalog struct {
	defs   []*Definition
	byID   map[int]*Definition
	byCode map[string]*Definition
}

// NewCatalog compiles every spell of the ruleset.
func NewCatalog(rules *ruleset.Config) *Catalog {
	c := &Catalog{
		byID:   make(map[int]*Definition, len(rules.Spells)),
		byCode: make(map[string]*Definition, len(rules.Spells)),
	}
	for _, s := range rules.Spells {
		d := &Definition{SpellDef: s}
		for _, raw := range s.Patterns {
			d.Compiled = append(d.Compiled, CompilePattern(raw, rules.Offhand))
		}
		c.defs = append(c.defs, d)
		c.byID[s.ID] = d
		c.byCode[s.Code] = d
	}
	return c
}

// All returns the definitions in catalog order.
func (c *Catalog) All() []*Definition { return c.defs }

// Definition looks up a spell by id.
func (c *Catalog) Definition(id int) (*Definition, error) {
	d, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("spell %d: %w", id, ErrUnknownSpell)
	}
	return d, nil
}

// ByCode looks up a spell by code.
func (c *Catalog) ByCode(code string) (*Definition, error) {
	d, ok := c.byCode[code]
	if !ok {
		return nil, fmt.Errorf("spell %s: %w", code, ErrUnknownSpell)
	}
	return d, nil
}
