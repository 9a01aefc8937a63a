package engine

import (
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/match"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/ruleset"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/spell"
)

// confusionGestures are the gestures a confused hand may produce.
const confusionGestures = "FPSWDC"

// determineGestures turns ordered gestures into the gestures actually shown,
// applying Amnesia, Confusion, Charm Person, Paralysis and Fear in that order.
func (tc *turnContext) determineGestures(p *match.Actor) (string, string) {
	o := tc.orders[p.ID]
	g := [2]string{o.Gesture(spell.Left), o.Gesture(spell.Right)}
	led := p.Ledger
	st := led.State(tc.turn)
	rules := tc.e.rules

	set := func(h spell.Hand, gesture string) { g[h-1] = gesture }
	get := func(h spell.Hand) string { return g[h-1] }

	if led.Affected(ruleset.EffectAmnesia, tc.turn) {
		if l, ok := tc.previousGesture(p.ID, spell.Left); ok {
			set(spell.Left, l)
		}
		if r, ok := tc.previousGesture(p.ID, spell.Right); ok {
			set(spell.Right, r)
		}
		tc.log(match.Entry{Category: match.CategoryGesture, Code: match.CodeGestureAmnesia, Actor: p.ID})
	}

	if led.Affected(ruleset.EffectConfusion, tc.turn) {
		hand, gesture := st.Confused.Hand, st.Confused.Gesture
		if !rules.Hooks.ConfusionAtCast || hand == 0 {
			hand, gesture = tc.rollConfusion(p.ID)
		}
		set(hand, gesture)
		tc.log(match.Entry{Category: match.CategoryGesture, Code: match.CodeGestureConfused, Actor: p.ID, Hand: int(hand), Text: gesture})
	}

	if led.Affected(ruleset.EffectCharmPerson, tc.turn) && st.Charmed.By != 0 {
		if co, ok := charmOrder(tc.orders[st.Charmed.By], p.ID); ok {
			st.Charmed.Hand, st.Charmed.Gesture = co.Hand, match.NormalizeGesture(co.Gesture)
		}
		if st.Charmed.Hand != 0 {
			set(st.Charmed.Hand, st.Charmed.Gesture)
			tc.log(match.Entry{Category: match.CategoryGesture, Code: match.CodeGestureCharmed, Actor: p.ID, Target: st.Charmed.By, Hand: int(st.Charmed.Hand), Text: st.Charmed.Gesture})
		}
	}

	if led.Affected(ruleset.EffectParalysis, tc.turn) {
		if st.Paralyzed.Hand == 0 {
			if h, ok := paralyzeOrder(tc.orders[st.Paralyzed.By], p.ID); ok {
				st.Paralyzed.Hand = h
			} else {
				st.Paralyzed.Hand = spell.Hand(tc.m.Rand(p.ID, "paralysis").Intn(2) + 1)
			}
		}
		h := st.Paralyzed.Hand
		prev, ok := tc.previousGesture(p.ID, h)
		if !ok {
			prev = ruleset.GestureNone
		}
		set(h, rules.ParalysisGesture(prev))
		tc.log(match.Entry{Category: match.CategoryGesture, Code: match.CodeGestureParalyzed, Actor: p.ID, Target: st.Paralyzed.By, Hand: int(h), Text: get(h)})
	}

	if led.Affected(ruleset.EffectFear, tc.turn) {
		for _, h := range []spell.Hand{spell.Left, spell.Right} {
			if rules.FearBlocks(get(h)) {
				set(h, ruleset.GestureNone)
				tc.log(match.Entry{Category: match.CategoryGesture, Code: match.CodeGestureFear, Actor: p.ID, Hand: int(h)})
			}
		}
	}

	return g[0], g[1]
}

func (tc *turnContext) rollConfusion(id int) (spell.Hand, string) {
	rng := tc.m.Rand(id, "confusion")
	hand := spell.Hand(rng.Intn(2) + 1)
	gesture := string(confusionGestures[rng.Intn(len(confusionGestures))])
	return hand, gesture
}

// previousGesture finds the most recent gesture shown with hand before
// this turn.
func (tc *turnContext) previousGesture(id int, h spell.Hand) (string, bool) {
	for t := tc.turn - 1; t >= 1; t-- {
		if g, ok := tc.m.Gesture(t, id, h); ok {
			return g, true
		}
	}
	return "", false
}

// charmOrder is the gesture the charmer ordered for target, if any.
func charmOrder(o *match.Orders, target int) (match.CharmOrder, bool) {
	if o == nil {
		return match.CharmOrder{}, false
	}
	co, ok := o.Charm[target]
	if !ok || (co.Hand != spell.Left && co.Hand != spell.Right) {
		return match.CharmOrder{}, false
	}
	return co, true
}

func paralyzeOrder(o *match.Orders, target int) (spell.Hand, bool) {
	if o == nil {
		return 0, false
	}
	h, ok := o.Paralyze[target]
	if !ok || (h != spell.Left && h != spell.Right) {
		return 0, false
	}
	return h, true
}
