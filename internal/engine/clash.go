package engine

import (
	"go.uber.org/zap"

	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/match"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/ruleset"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/spell"
)

const (
	elementFire = "fire"
	elementIce  = "ice"
)

// checkElementalSpellsClash settles storms and elementals against each
// other after every spell has been cast.
func (tc *turnContext) checkElementalSpellsClash() {
	info := tc.m.TurnInfo(tc.turn)

	if info.FireStorms > 0 && info.IceStorms > 0 {
		tc.fizzleStorms("fire_storm", "ice_storm")
		info.FireStorms, info.IceStorms = 0, 0
		tc.log(match.Entry{Category: match.CategorySpell, Code: match.CodeStormsCancel})
	}

	tc.mergeElementals(elementFire)
	tc.mergeElementals(elementIce)

	fire := tc.elemental(elementFire)
	ice := tc.elemental(elementIce)
	if fire != nil && ice != nil {
		tc.m.SetDestroyMonsterBeforeAttack(fire.ID)
		tc.m.SetDestroyMonsterBeforeAttack(ice.ID)
		tc.log(match.Entry{Category: match.CategorySpell, Code: match.CodeElementalsCancel, Actor: fire.ID, Target: ice.ID})
		tc.logger.Debug("elementals cancel", zap.Int("fire", fire.ID), zap.Int("ice", ice.ID))
		return
	}

	if info.FireStorms > 0 {
		tc.stormMeetsElemental("fire_storm", fire, ice)
	}
	if info.IceStorms > 0 {
		tc.stormMeetsElemental("ice_storm", ice, fire)
	}
}

// stormMeetsElemental absorbs a same-element elemental into the storm, or
// lets the storm and an opposing elemental destroy each other.
func (tc *turnContext) stormMeetsElemental(storm string, same, opposite *match.Actor) {
	switch {
	case opposite != nil:
		tc.m.SetDestroyMonsterNow(opposite.ID, storm)
		tc.fizzleStorms(storm)
		tc.log(match.Entry{Category: match.CategorySpell, Code: match.CodeStormElementalCancel, Target: opposite.ID, Text: storm})
	case same != nil:
		tc.m.SetDestroyMonsterNow(same.ID, storm)
		tc.log(match.Entry{Category: match.CategorySpell, Code: match.CodeElementalAbsorbed, Target: same.ID, Text: storm})
	}
}

// mergeElementals keeps only the newest living elemental of an element.
func (tc *turnContext) mergeElementals(element string) {
	var all []*match.Actor
	for _, mon := range tc.m.Monsters(true) {
		if mon.Monster.Element == element && !mon.Monster.DestroyBeforeAttack {
			all = append(all, mon)
		}
	}
	if len(all) < 2 {
		return
	}
	newest := all[len(all)-1]
	for _, old := range all[:len(all)-1] {
		tc.m.SetDestroyMonsterNow(old.ID, "merge")
		tc.log(match.Entry{Category: match.CategorySpell, Code: match.CodeElementalMerge, Actor: newest.ID, Target: old.ID})
	}
}

func (tc *turnContext) elemental(element string) *match.Actor {
	for _, mon := range tc.m.Monsters(true) {
		if mon.Monster.Element == element && !mon.Monster.DestroyBeforeAttack {
			return mon
		}
	}
	return nil
}

func (tc *turnContext) fizzleStorms(codes ...string) {
	for _, s := range tc.stack {
		for _, c := range codes {
			if s.Code == c && s.Resolve {
				s.Fizzle(spell.StateFizzled)
			}
		}
	}
}

// checkMindspellsClash strips mind effects from anyone hit by more than one
// mind spell this turn, including ones they already carried, then hands
// charmed monsters to their new masters.
func (tc *turnContext) checkMindspellsClash() {
	for _, a := range tc.m.Actors(true) {
		if a.Ledger.State(tc.turn).MindspellsThisTurn < 2 {
			continue
		}
		tc.forEachFuture(a, tc.turn, a.Ledger.RemoveMindspellEffects)
		tc.log(match.Entry{Category: match.CategoryEffect, Code: match.CodeMindClash, Target: a.ID})
	}

	for _, ct := range tc.charmMonster {
		mon, ok := tc.m.Monster(ct.monster, true)
		if !ok || mon.Monster.Uncontrolled || !mon.Ledger.Affected(ruleset.EffectCharmMonster, tc.turn+1) {
			continue
		}
		mon.Monster.Controller = ct.controller
		mon.Monster.AttackTarget = 0
		tc.log(match.Entry{Category: match.CategoryEffect, Code: match.CodeControlTransfer, Actor: ct.controller, Target: mon.ID})
	}
}
