// Package ruleset holds the data-driven configuration of a game variant:
// the spell catalog, gesture substitution tables, monster table and the
// effect names with their decay classification. Swapping the table is how
// a new variant is supported without touching the engine.
package ruleset

import "fmt"

// Permanent is the countdown sentinel for effects that never decay on their own.
const Permanent = 9999

// Gestures understood by the engine.
const (
	GestureFingers = "F"
	GesturePalm    = "P"
	GestureSnap    = "S"
	GestureWave    = "W"
	GestureDigit   = "D"
	GestureClap    = "C"
	GestureStab    = ">"
	GestureNone    = "-"
)

// Effect names the engine handlers read and write. A ruleset must declare
// every one of them in its effects table.
const (
	EffectAmnesia      = "Amnesia"
	EffectConfusion    = "Confusion"
	EffectCharmPerson  = "CharmPerson"
	EffectCharmMonster = "CharmMonster"
	EffectParalysis    = "Paralysis"
	EffectFear         = "Fear"
	EffectProtection   = "Protection"
	EffectPShield      = "PShield"
	EffectResistHeat   = "ResistHeat"
	EffectResistCold   = "ResistCold"
	EffectDisease      = "Disease"
	EffectPoison       = "Poison"
	EffectBlindness    = "Blindness"
	EffectInvisibility = "Invisibility"
	EffectHaste        = "Haste"
	EffectTimeStop     = "TimeStop"
	EffectDelayEffect  = "DelayEffect"
	EffectPermanency   = "Permanency"
)

// RequiredEffects lists the effect names the engine depends on.
var RequiredEffects = []string{
	EffectAmnesia, EffectConfusion, EffectCharmPerson, EffectCharmMonster,
	EffectParalysis, EffectFear, EffectProtection, EffectPShield,
	EffectResistHeat, EffectResistCold, EffectDisease, EffectPoison,
	EffectBlindness, EffectInvisibility, EffectHaste, EffectTimeStop,
	EffectDelayEffect, EffectPermanency,
}

// TurnType governs which participants act on a turn and whether combat happens.
type TurnType string

const (
	TurnNormal      TurnType = "normal"
	TurnHasted      TurnType = "hasted"
	TurnTimestopped TurnType = "timestopped"
)

// DecayPolicy decides on which turns an effect countdown ticks down.
type DecayPolicy string

const (
	DecaysOnCurrentNormal      DecayPolicy = "current_normal"
	DecaysOnNextNormal         DecayPolicy = "next_normal"
	DecaysOnCurrentHasted      DecayPolicy = "current_hasted"
	DecaysOnCurrentTimestopped DecayPolicy = "current_timestopped"
	DecaysAlways               DecayPolicy = "always"
	NeverDecays                DecayPolicy = "never"
)

// Decays reports whether an effect with this policy loses one point at the
// end of a turn of type current followed by a turn of type next.
func (p DecayPolicy) Decays(current, next TurnType) bool {
	switch p {
	case DecaysOnCurrentNormal:
		return current == TurnNormal
	case DecaysOnNextNormal:
		return next == TurnNormal
	case DecaysOnCurrentHasted:
		return current == TurnHasted
	case DecaysOnCurrentTimestopped:
		return current == TurnTimestopped
	case DecaysAlways:
		return true
	}
	return false
}

// DependsOnNext reports whether the policy needs the next turn's type.
func (p DecayPolicy) DependsOnNext() bool { return p == DecaysOnNextNormal }

func (p DecayPolicy) valid() bool {
	switch p {
	case DecaysOnCurrentNormal, DecaysOnNextNormal, DecaysOnCurrentHasted,
		DecaysOnCurrentTimestopped, DecaysAlways, NeverDecays:
		return true
	}
	return false
}

// EffectDef declares a ledger effect and how it behaves over time.
type EffectDef struct {
	Name  string      `yaml:"name"`
	Decay DecayPolicy `yaml:"decay"`
	// MaxActive is the highest countdown value that still counts as active.
	// Values above it are present in the ledger but behaviourally inert.
	MaxActive   int  `yaml:"max_active"`
	Mind        bool `yaml:"mind"`
	Enchantment bool `yaml:"enchantment"`
}

// ActiveValue reports whether a countdown value makes the effect active.
func (d EffectDef) ActiveValue(v int) bool {
	return v == Permanent || (v >= 1 && v <= d.MaxActive)
}

// TargetPolicy is the default target of a spell when no valid order is given.
type TargetPolicy string

const (
	TargetSelf     TargetPolicy = "self"
	TargetOpponent TargetPolicy = "opponent"
	TargetNobody   TargetPolicy = "nobody"
)

// SpellDef is the immutable definition of a spell.
type SpellDef struct {
	ID       int          `yaml:"id"`
	Code     string       `yaml:"code"`
	Name     string       `yaml:"name"`
	Priority int          `yaml:"priority"`
	Patterns []string     `yaml:"patterns"`
	Target   TargetPolicy `yaml:"target"`
	Duration int          `yaml:"duration"`

	Uncounterable bool `yaml:"uncounterable"`
	Unreflectable bool `yaml:"unreflectable"`
	Permanentable bool `yaml:"permanentable"`
	Mind          bool `yaml:"mind"`
	// TargetDead lets the spell target actors that are no longer alive.
	TargetDead bool `yaml:"target_dead"`
	// Untargeted spells act on the whole field and never need a target.
	Untargeted bool `yaml:"untargeted"`
}

// DamageType of a monster attack.
type DamageType string

const (
	DamagePhysical DamageType = "physical"
	DamageFire     DamageType = "fire"
	DamageCold     DamageType = "cold"
)

// MonsterDef declares a summonable monster type.
type MonsterDef struct {
	Type       string     `yaml:"type"`
	Name       string     `yaml:"name"`
	HP         int        `yaml:"hp"`
	Damage     string     `yaml:"damage"`
	DamageType DamageType `yaml:"damage_type"`
	// Uncontrolled monsters attack every other living actor each turn.
	Uncontrolled bool           `yaml:"uncontrolled"`
	Element      string         `yaml:"element"`
	Effects      map[string]int `yaml:"effects"`
}

// Hooks are the named special cases that distinguish rulesets.
type Hooks struct {
	// ConfusionAtCast rolls the confused hand and gesture when Confusion
	// resolves instead of when gestures are determined.
	ConfusionAtCast bool `yaml:"confusion_at_cast"`
	// RisenKeepEffects keeps a revived actor's effects instead of wiping them.
	RisenKeepEffects bool `yaml:"risen_keep_effects"`
}

// Config is a complete ruleset.
type Config struct {
	Name            string            `yaml:"name"`
	MaxSpellLength  int               `yaml:"max_spell_length"`
	Lookahead       int               `yaml:"lookahead"`
	MaxHP           int               `yaml:"max_hp"`
	MaxParticipants int               `yaml:"max_participants"`
	Offhand         map[string]string `yaml:"offhand"`
	Paralysis       map[string]string `yaml:"paralysis"`
	FearBlocked     string            `yaml:"fear_blocked"`
	Effects         []EffectDef       `yaml:"effects"`
	Monsters        []MonsterDef      `yaml:"monsters"`
	Spells          []SpellDef        `yaml:"spells"`
	Hooks           Hooks             `yaml:"hooks"`

	effects  map[string]*EffectDef
	monsters map[string]*MonsterDef
	spells   map[int]*SpellDef
	codes    map[string]*SpellDef
	damage   map[string]*Formula
}

// Effect looks up an effect definition by name.
func (c *Config) Effect(name string) (EffectDef, bool) {
	d, ok := c.effects[name]
	if !ok {
		return EffectDef{}, false
	}
	return *d, true
}

// EffectNames returns the declared effect names in table order.
func (c *Config) EffectNames() []string {
	names := make([]string, 0, len(c.Effects))
	for _, e := range c.Effects {
		names = append(names, e.Name)
	}
	return names
}

// MindEffects returns the names of effects flagged as mind spells.
func (c *Config) MindEffects() []string {
	var names []string
	for _, e := range c.Effects {
		if e.Mind {
			names = append(names, e.Name)
		}
	}
	return names
}

// Enchantments returns the names of effects removed by Remove Enchantment.
func (c *Config) Enchantments() []string {
	var names []string
	for _, e := range c.Effects {
		if e.Enchantment {
			names = append(names, e.Name)
		}
	}
	return names
}

// Spell looks up a spell definition by id.
func (c *Config) Spell(id int) (SpellDef, bool) {
	d, ok := c.spells[id]
	if !ok {
		return SpellDef{}, false
	}
	return *d, true
}

// SpellByCode looks up a spell definition by its code.
func (c *Config) SpellByCode(code string) (SpellDef, bool) {
	d, ok := c.codes[code]
	if !ok {
		return SpellDef{}, false
	}
	return *d, true
}

// Monster looks up a monster definition by type.
func (c *Config) Monster(typ string) (MonsterDef, bool) {
	d, ok := c.monsters[typ]
	if !ok {
		return MonsterDef{}, false
	}
	return *d, true
}

// MonsterDamage evaluates the damage formula of a monster type.
func (c *Config) MonsterDamage(typ string, vars map[string]any) (int, error) {
	f, ok := c.damage[typ]
	if !ok {
		return 0, fmt.Errorf("monster %s: %w", typ, ErrUnknownMonster)
	}
	return f.Int(vars)
}

// ParalysisGesture transforms the gesture a paralysed hand repeats.
func (c *Config) ParalysisGesture(g string) string {
	if t, ok := c.Paralysis[g]; ok {
		return t
	}
	return g
}

// FearBlocks reports whether Fear prevents the gesture.
func (c *Config) FearBlocks(g string) bool {
	for _, r := range c.FearBlocked {
		if string(r) == g {
			return true
		}
	}
	return false
}
