// Package ledger keeps an actor's effects and one-shot states indexed by
// turn. Effects are countdowns that decay between turns; states are flags
// and counters that only describe the turn they are written for.
package ledger

import (
	"fmt"

	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/ruleset"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/spell"
)

// Control records which participant steers a mind-controlled actor.
type Control struct {
	By      int        `json:"by,omitempty"`
	Hand    spell.Hand `json:"hand,omitempty"`
	Gesture string     `json:"gesture,omitempty"`
}

// State holds the per-turn flags of an actor.
type State struct {
	// HP and Alive are snapshots taken when the turn starts.
	HP    int  `json:"hp"`
	Alive bool `json:"alive"`

	// Visibility snapshots.
	Blind     bool `json:"blind,omitempty"`
	Invisible bool `json:"invisible,omitempty"`
	OutOfTime bool `json:"out_of_time,omitempty"`

	Paralyzed Control `json:"paralyzed,omitempty"`
	Charmed   Control `json:"charmed,omitempty"`
	Confused  Control `json:"confused,omitempty"`

	MindspellsThisTurn int  `json:"mindspells_this_turn,omitempty"`
	AntiSpelled        bool `json:"anti_spelled,omitempty"`
	CounterSpell       bool `json:"counter_spell,omitempty"`
	MagicMirror        bool `json:"magic_mirror,omitempty"`
	RisenFromDead      bool `json:"risen_from_dead,omitempty"`

	// ClapOfLightning counts how often the actor has cast the spell.
	ClapOfLightning int `json:"clap_of_lightning,omitempty"`
	// Delayed is the spell banked by Delay Effect.
	Delayed *spell.Instance `json:"delayed,omitempty"`
}

// Entry is the ledger content for one turn.
type Entry struct {
	Effects map[string]int `json:"effects"`
	State   State          `json:"state"`
}

// Ledger is a dense, turn-indexed history of one actor's effects and states.
type Ledger struct {
	rules   *ruleset.Config
	start   int
	entries []*Entry
}

// New creates a ledger whose first entry is for turn start.
func New(rules *ruleset.Config, start int) *Ledger {
	return &Ledger{rules: rules, start: start}
}

// Start is the first turn the ledger holds.
func (l *Ledger) Start() int { return l.start }

// Last is the latest allocated turn, or Start()-1 when nothing is allocated.
func (l *Ledger) Last() int { return l.start + len(l.entries) - 1 }

// Has reports whether turn is allocated.
func (l *Ledger) Has(turn int) bool { return turn >= l.start && turn <= l.Last() }

// Ensure allocates empty entries through turn.
func (l *Ledger) Ensure(turn int) {
	for l.Last() < turn {
		l.entries = append(l.entries, &Entry{Effects: make(map[string]int)})
	}
}

// At returns the entry for turn. Turns must have been allocated with Ensure;
// anything else is a caller bug and panics.
func (l *Ledger) At(turn int) *Entry {
	if !l.Has(turn) {
		panic(fmt.Sprintf("ledger: turn %d not allocated (have %d..%d)", turn, l.start, l.Last()))
	}
	return l.entries[turn-l.start]
}

// State returns the mutable state for turn.
func (l *Ledger) State(turn int) *State { return &l.At(turn).State }

// Effect returns the raw countdown of an effect on turn.
func (l *Ledger) Effect(name string, turn int) int {
	if !l.Has(turn) {
		return 0
	}
	return l.entries[turn-l.start].Effects[name]
}

// SetEffect writes a countdown value.
func (l *Ledger) SetEffect(name string, turn, value int) {
	l.At(turn).Effects[name] = value
}

// RaiseEffect writes value unless the existing countdown is already higher.
func (l *Ledger) RaiseEffect(name string, turn, value int) {
	e := l.At(turn)
	if value > e.Effects[name] {
		e.Effects[name] = value
	}
}

// InitEffectsAndStates resets an entry. Visibility snapshots and the hp/alive
// snapshot survive when keepSnapshots is set. The Clap of Lightning counter
// always survives.
func (l *Ledger) InitEffectsAndStates(turn int, keepSnapshots bool) {
	e := l.At(turn)
	prev := e.State
	e.Effects = make(map[string]int)
	e.State = State{ClapOfLightning: prev.ClapOfLightning}
	if keepSnapshots {
		e.State.HP = prev.HP
		e.State.Alive = prev.Alive
		e.State.Blind = prev.Blind
		e.State.Invisible = prev.Invisible
		e.State.OutOfTime = prev.OutOfTime
	}
}

// DecreaseEffect lowers a countdown by one, never below zero. Permanent
// effects are left alone.
func (l *Ledger) DecreaseEffect(name string, turn int) {
	e := l.At(turn)
	v := e.Effects[name]
	if v > 0 && v != ruleset.Permanent {
		e.Effects[name] = v - 1
	}
}

// RemoveEnchantments clears every enchantment on turn together with the
// controller bookkeeping they carry.
func (l *Ledger) RemoveEnchantments(turn int) {
	e := l.At(turn)
	for _, name := range l.rules.Enchantments() {
		delete(e.Effects, name)
	}
	e.State.Paralyzed = Control{}
	e.State.Charmed = Control{}
	e.State.Confused = Control{}
	e.State.Delayed = nil
}

// RemoveMindspellEffects clears every mind effect on turn.
func (l *Ledger) RemoveMindspellEffects(turn int) {
	e := l.At(turn)
	for _, name := range l.rules.MindEffects() {
		delete(e.Effects, name)
	}
	e.State.Paralyzed = Control{}
	e.State.Charmed = Control{}
	e.State.Confused = Control{}
}

// Affected reports whether the effect is active on turn.
func (l *Ledger) Affected(name string, turn int) bool {
	def, ok := l.rules.Effect(name)
	if !ok {
		return false
	}
	return def.ActiveValue(l.Effect(name, turn))
}

// AffectedPermanent reports whether the effect is permanent on turn.
func (l *Ledger) AffectedPermanent(name string, turn int) bool {
	return l.Effect(name, turn) == ruleset.Permanent
}

// AffectedByPShield is the shield gate: physical damage is blocked when a
// shield is up, or Protection is up and counts for this attack.
func (l *Ledger) AffectedByPShield(turn int, checkPShield, checkProtection bool) bool {
	if checkPShield && l.Affected(ruleset.EffectPShield, turn) {
		return true
	}
	return checkProtection && l.Affected(ruleset.EffectProtection, turn)
}

// AffectedByMind reports whether any mind effect is active on turn.
func (l *Ledger) AffectedByMind(turn int) bool {
	for _, name := range l.rules.MindEffects() {
		if l.Affected(name, turn) {
			return true
		}
	}
	return false
}

// PermanentlyMindControlled reports whether a mind effect is permanent on turn.
func (l *Ledger) PermanentlyMindControlled(turn int) bool {
	for _, name := range l.rules.MindEffects() {
		if l.AffectedPermanent(name, turn) {
			return true
		}
	}
	return false
}

// Projected is the countdown an effect would carry into turn+1 after a turn
// of type current. It is only defined for effects whose decay does not
// depend on the type of the next turn.
func (l *Ledger) Projected(name string, turn int, current ruleset.TurnType) (int, error) {
	def, ok := l.rules.Effect(name)
	if !ok {
		return 0, fmt.Errorf("effect %s not declared", name)
	}
	if def.Decay.DependsOnNext() {
		return 0, fmt.Errorf("effect %s decays by next turn type", name)
	}
	v := l.Effect(name, turn)
	if v > 0 && v != ruleset.Permanent && def.Decay.Decays(current, "") {
		v--
	}
	if nv := l.Effect(name, turn+1); nv > v {
		v = nv
	}
	return v, nil
}

// Tick carries every effect of turn into turn+1, decaying it first when its
// policy says so. Values already written for turn+1 win when higher.
func (l *Ledger) Tick(turn int, current, next ruleset.TurnType) {
	cur := l.At(turn)
	nxt := l.At(turn + 1)
	for _, def := range l.rules.Effects {
		v := cur.Effects[def.Name]
		if v <= 0 {
			continue
		}
		if v != ruleset.Permanent && def.Decay.Decays(current, next) {
			v--
		}
		if v > nxt.Effects[def.Name] {
			nxt.Effects[def.Name] = v
		}
	}
}
