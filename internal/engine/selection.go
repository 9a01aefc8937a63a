package engine

import (
	"sort"

	"go.uber.org/zap"

	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/match"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/ruleset"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/spell"
)

// matchSpells fills the candidate lists of every active participant.
func (tc *turnContext) matchSpells() {
	for _, p := range tc.active {
		left, right := tc.e.catalog.Match(p.ID, tc.m.History(p.ID))
		tc.candidates[p.ID] = &handCandidates{left: left, right: right}
	}
}

// checkDelayedSpellCast pushes banked spells whose owners release them this turn.
func (tc *turnContext) checkDelayedSpellCast() {
	for _, p := range tc.active {
		o := tc.orders[p.ID]
		if o == nil || !o.CastDelayed {
			continue
		}
		st := p.Ledger.State(tc.turn)
		if st.Delayed == nil {
			continue
		}
		s := st.Delayed.Clone()
		s.Turn = tc.turn
		s.Delayed = true
		s.Resolve = true
		s.State = spell.StateCreated

		d := tc.def(s)
		switch {
		case d.Untargeted:
			s.Target = 0
		case o.DelayedTarget != 0 && tc.targetable(d, o.DelayedTarget):
			s.Target = o.DelayedTarget
		case !tc.targetable(d, s.Target):
			s.Target = 0
		}

		tc.forEachFuture(p, tc.turn, func(t int) { p.Ledger.State(t).Delayed = nil })
		tc.log(match.Entry{Category: match.CategorySpell, Code: match.CodeCastDelayed, Actor: p.ID, Target: s.Target, Spell: s.SpellID})
		tc.stack = append(tc.stack, s)
	}
}

// targetable reports whether id is a valid target for d right now. Hand ids
// are accepted when the hand summons something this turn, which is only
// known after the cast stage.
func (tc *turnContext) targetable(d *spell.Definition, id int) bool {
	if id == 0 {
		return false
	}
	if _, _, ok := spell.SplitHandID(id); ok {
		return true
	}
	_, ok := tc.m.Actor(id, !d.TargetDead)
	return ok
}

// selectSpells picks at most one spell per hand for every active participant.
func (tc *turnContext) selectSpells() {
	for _, p := range tc.active {
		cands := tc.candidates[p.ID]
		if cands == nil {
			continue
		}
		o := tc.orders[p.ID]
		var chosen [2]*spell.Candidate

		for _, h := range []spell.Hand{spell.Left, spell.Right} {
			if chosen[h-1] != nil {
				continue
			}
			id := o.Spell(h)
			if id == 0 {
				continue
			}
			for i := range cands.hand(h) {
				c := cands.hand(h)[i]
				if c.SpellID != id || c.Caster != p.ID {
					continue
				}
				if c.Hands == 2 && chosen[h.Other()-1] != nil {
					continue
				}
				chosen[h-1] = &c
				if c.Hands == 2 {
					chosen[h.Other()-1] = &c
				}
				break
			}
		}

		if chosen[0] == nil && chosen[1] == nil {
			if c := bestCandidate(cands.left, cands.right, 2); c != nil {
				chosen[0], chosen[1] = c, c
			}
		}
		for _, h := range []spell.Hand{spell.Left, spell.Right} {
			if chosen[h-1] == nil {
				chosen[h-1] = bestCandidate(cands.hand(h), nil, 1)
			}
		}

		tc.pushCandidate(p, chosen[0])
		if chosen[1] != chosen[0] {
			tc.pushCandidate(p, chosen[1])
		}
	}
}

// bestCandidate returns the longest candidate needing exactly hands hands,
// searching first then second. Ties keep catalog order.
func bestCandidate(first, second []spell.Candidate, hands int) *spell.Candidate {
	var best *spell.Candidate
	for _, list := range [][]spell.Candidate{first, second} {
		for i := range list {
			c := list[i]
			if c.Hands != hands {
				continue
			}
			if best == nil || c.Length > best.Length {
				best = &c
			}
		}
	}
	return best
}

// pushCandidate resolves the target, applies Permanency and Delay Effect,
// and puts the spell on the stack.
func (tc *turnContext) pushCandidate(p *match.Actor, c *spell.Candidate) {
	if c == nil {
		return
	}
	d, err := tc.e.catalog.Definition(c.SpellID)
	if err != nil {
		return
	}
	o := tc.orders[p.ID]
	s := spell.NewInstance(d, p.ID, c.Hand, tc.turn)
	s.Resolve = true
	s.Target = tc.resolveTarget(p, d, c.Hand, o.Target(c.Hand))

	if d.Permanentable && o.Permanent(c.Hand) && p.Ledger.Affected(ruleset.EffectPermanency, tc.turn) {
		s.Duration = ruleset.Permanent
		tc.clearEffect(p, ruleset.EffectPermanency, tc.turn)
		tc.log(match.Entry{Category: match.CategorySpell, Code: match.CodeSpellPermanent, Actor: p.ID, Spell: s.SpellID, Hand: int(s.Hand)})
	}

	if o.Delay(c.Hand) && p.Ledger.Affected(ruleset.EffectDelayEffect, tc.turn) {
		s.State = spell.StateDelayed
		s.Resolve = false
		p.Ledger.State(tc.turn).Delayed = s
		tc.clearEffect(p, ruleset.EffectDelayEffect, tc.turn)
		tc.log(match.Entry{Category: match.CategorySpell, Code: match.CodeSpellDelayed, Actor: p.ID, Spell: s.SpellID, Hand: int(s.Hand)})
		return
	}

	tc.stack = append(tc.stack, s)
}

// resolveTarget applies an ordered target when valid, else the spell's
// default target policy.
func (tc *turnContext) resolveTarget(p *match.Actor, d *spell.Definition, h spell.Hand, ordered int) int {
	if d.Untargeted {
		return 0
	}
	if tc.targetable(d, ordered) {
		return ordered
	}
	switch d.Target {
	case ruleset.TargetSelf:
		return p.ID
	case ruleset.TargetOpponent:
		return tc.m.RandomOpponentID(p.ID, "target:"+d.Code+":"+h.String())
	}
	return 0
}

// sortStack orders the stack by priority, keeping insertion order on ties.
func (tc *turnContext) sortStack() {
	sort.SliceStable(tc.stack, func(i, j int) bool {
		return tc.stack[i].Priority < tc.stack[j].Priority
	})
	if ce := tc.logger.Check(zap.DebugLevel, "stack sorted"); ce != nil {
		codes := make([]string, 0, len(tc.stack))
		for _, s := range tc.stack {
			codes = append(codes, s.Code)
		}
		ce.Write(zap.Strings("stack", codes))
	}
}
