package match

import (
	"strings"

	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/spell"
)

// CharmOrder is what a charmer makes the charmed participant's hand do.
type CharmOrder struct {
	Hand    spell.Hand `json:"hand" yaml:"hand"`
	Gesture string     `json:"gesture" yaml:"gesture"`
}

// Orders are one participant's instructions for a single turn.
type Orders struct {
	LeftGesture  string `json:"left_gesture" yaml:"left_gesture"`
	RightGesture string `json:"right_gesture" yaml:"right_gesture"`
	// LeftSpell and RightSpell pick among completed spells; 0 lets the
	// engine choose.
	LeftSpell   int `json:"left_spell,omitempty" yaml:"left_spell"`
	RightSpell  int `json:"right_spell,omitempty" yaml:"right_spell"`
	LeftTarget  int `json:"left_target,omitempty" yaml:"left_target"`
	RightTarget int `json:"right_target,omitempty" yaml:"right_target"`

	// Attacks maps a monster id, or the hand id summoning a monster this
	// turn, to the attack target.
	Attacks map[int]int `json:"attacks,omitempty" yaml:"attacks"`
	// Paralyze maps a target paralysed by this participant to the hand to freeze.
	Paralyze map[int]spell.Hand `json:"paralyze,omitempty" yaml:"paralyze"`
	// Charm maps a target charmed by this participant to the forced gesture.
	Charm map[int]CharmOrder `json:"charm,omitempty" yaml:"charm"`

	PermanentLeft  bool `json:"permanent_left,omitempty" yaml:"permanent_left"`
	PermanentRight bool `json:"permanent_right,omitempty" yaml:"permanent_right"`
	DelayLeft      bool `json:"delay_left,omitempty" yaml:"delay_left"`
	DelayRight     bool `json:"delay_right,omitempty" yaml:"delay_right"`

	CastDelayed   bool `json:"cast_delayed,omitempty" yaml:"cast_delayed"`
	DelayedTarget int  `json:"delayed_target,omitempty" yaml:"delayed_target"`
	Suicide       bool `json:"suicide,omitempty" yaml:"suicide"`
}

// Gesture returns the ordered gesture for a hand, normalised to the
// gesture alphabet. Anything unknown becomes "-".
func (o *Orders) Gesture(h spell.Hand) string {
	if o == nil {
		return "-"
	}
	g := o.LeftGesture
	if h == spell.Right {
		g = o.RightGesture
	}
	return NormalizeGesture(g)
}

// Spell returns the ordered spell id for a hand.
func (o *Orders) Spell(h spell.Hand) int {
	if o == nil {
		return 0
	}
	if h == spell.Right {
		return o.RightSpell
	}
	return o.LeftSpell
}

// Target returns the ordered target for a hand.
func (o *Orders) Target(h spell.Hand) int {
	if o == nil {
		return 0
	}
	if h == spell.Right {
		return o.RightTarget
	}
	return o.LeftTarget
}

// Permanent reports whether Permanency should be spent on the hand's spell.
func (o *Orders) Permanent(h spell.Hand) bool {
	if o == nil {
		return false
	}
	if h == spell.Right {
		return o.PermanentRight
	}
	return o.PermanentLeft
}

// Delay reports whether the hand's spell should be banked.
func (o *Orders) Delay(h spell.Hand) bool {
	if o == nil {
		return false
	}
	if h == spell.Right {
		return o.DelayRight
	}
	return o.DelayLeft
}

// NormalizeGesture maps user input to a gesture symbol.
func NormalizeGesture(g string) string {
	g = strings.ToUpper(strings.TrimSpace(g))
	if len(g) == 1 && strings.Contains("FPSWDC>-", g) {
		return g
	}
	return "-"
}
