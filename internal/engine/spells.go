package engine

import (
	"go.uber.org/zap"

	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/ledger"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/match"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/ruleset"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/spell"
)

// handler is the dispatch entry of one spell code.
type handler struct {
	// immediate spells resolve during the cast stage so the clash checks
	// can see them.
	immediate bool
	// cast runs once the precast checks pass. origin is the caster before
	// any reflection.
	cast    func(tc *turnContext, s *spell.Instance, origin int)
	resolve func(tc *turnContext, s *spell.Instance, target *match.Actor)
}

func spellHandlers() map[string]handler {
	h := map[string]handler{
		"dispel_magic":  {immediate: true, resolve: resolveDispelMagic},
		"counter_spell": {immediate: true, resolve: resolveCounterSpell},
		"magic_mirror":  {immediate: true, resolve: resolveMagicMirror},

		"remove_enchantment": {resolve: resolveRemoveEnchantment},
		"shield":             {resolve: resolveShield},
		"protection":         {resolve: resolveNow(ruleset.EffectProtection)},
		"resist_heat":        {resolve: resolveNow(ruleset.EffectResistHeat)},
		"resist_cold":        {resolve: resolveNow(ruleset.EffectResistCold)},
		"cure_light_wounds":  {resolve: resolveCure(1, false)},
		"cure_heavy_wounds":  {resolve: resolveCure(2, true)},
		"raise_dead":         {resolve: resolveRaiseDead},

		"amnesia":       {resolve: resolveMind(ruleset.EffectAmnesia)},
		"confusion":     {resolve: resolveMind(ruleset.EffectConfusion)},
		"charm_person":  {resolve: resolveMind(ruleset.EffectCharmPerson)},
		"charm_monster": {resolve: resolveMind(ruleset.EffectCharmMonster)},
		"paralysis":     {resolve: resolveMind(ruleset.EffectParalysis)},
		"fear":          {resolve: resolveMind(ruleset.EffectFear)},

		"anti_spell":   {resolve: resolveAntiSpell},
		"disease":      {resolve: resolveNow(ruleset.EffectDisease)},
		"poison":       {resolve: resolveNow(ruleset.EffectPoison)},
		"blindness":    {resolve: resolveNext(ruleset.EffectBlindness)},
		"invisibility": {resolve: resolveNext(ruleset.EffectInvisibility)},
		"haste":        {resolve: resolveNext(ruleset.EffectHaste)},
		"time_stop":    {resolve: resolveNext(ruleset.EffectTimeStop)},
		"delay_effect": {resolve: resolveNext(ruleset.EffectDelayEffect)},
		"permanency":   {resolve: resolveNext(ruleset.EffectPermanency)},

		"magic_missile":      {resolve: resolveDamage(1, ruleset.DamagePhysical, true)},
		"cause_light_wounds": {resolve: resolveDamage(2, ruleset.DamagePhysical, false)},
		"cause_heavy_wounds": {resolve: resolveDamage(3, ruleset.DamagePhysical, false)},
		"lightning_bolt":     {resolve: resolveDamage(5, ruleset.DamagePhysical, false)},
		"clap_of_lightning":  {resolve: resolveClapOfLightning},
		"fireball":           {resolve: resolveDamage(5, ruleset.DamageFire, false)},
		"fire_storm":         {cast: castStorm, resolve: resolveStorm(ruleset.DamageFire)},
		"ice_storm":          {cast: castStorm, resolve: resolveStorm(ruleset.DamageCold)},
		"finger_of_death":    {resolve: resolveFingerOfDeath},
	}
	for _, typ := range []string{"goblin", "ogre", "troll", "giant", "fire_elemental", "ice_elemental"} {
		h["summon_"+typ] = handler{immediate: true, cast: castSummon}
	}
	return h
}

func resolveDispelMagic(tc *turnContext, s *spell.Instance, _ *match.Actor) {
	if !tc.dispelled {
		tc.dispelled = true
		for _, a := range tc.m.Actors(true) {
			a.Ledger.InitEffectsAndStates(tc.turn, true)
			a.Ledger.InitEffectsAndStates(tc.turn+1, true)
		}
	}
	if caster, ok := tc.m.Actor(s.Caster, true); ok {
		caster.Ledger.RaiseEffect(ruleset.EffectPShield, tc.turn, 1)
	}
	for _, other := range tc.stack {
		if other == s || other.Code == s.Code || !other.Resolve {
			continue
		}
		other.Fizzle(spell.StateFizzled)
		tc.log(match.Entry{Category: match.CategorySpell, Code: match.CodeDispelled, Actor: other.Caster, Target: other.Target, Spell: other.SpellID})
	}
	for _, mon := range tc.m.Monsters(true) {
		tc.m.SetDestroyActorEOT(mon.ID)
	}
}

func resolveCounterSpell(tc *turnContext, s *spell.Instance, target *match.Actor) {
	target.Ledger.State(tc.turn).CounterSpell = true
	target.Ledger.RaiseEffect(ruleset.EffectPShield, tc.turn, 1)
	tc.applied(s, target, ruleset.EffectPShield)
}

func resolveMagicMirror(tc *turnContext, s *spell.Instance, target *match.Actor) {
	target.Ledger.State(tc.turn).MagicMirror = true
	tc.log(match.Entry{Category: match.CategoryEffect, Code: match.CodeEffectApplied, Actor: s.Caster, Target: target.ID, Spell: s.SpellID})
}

// castSummon creates the monster at cast time so later spells this turn
// can aim at it through the summoning hand's id.
func castSummon(tc *turnContext, s *spell.Instance, origin int) {
	d := tc.def(s)
	mdef, ok := tc.e.rules.Monster(d.MonsterType())
	if !ok {
		s.Fizzle(spell.StateFizzled)
		return
	}
	controller := 0
	if !mdef.Uncontrolled {
		controller = s.Caster
		if t, ok := tc.m.Actor(s.Target, true); ok {
			if c := t.Controller(); c != 0 {
				controller = c
			}
		}
	}
	handID := spell.HandID(origin, s.Hand)
	mon, err := tc.m.CreateMonster(mdef.Type, controller, handID)
	if err != nil {
		tc.logger.Warn("summon failed", zap.String("monster", mdef.Type), zap.Error(err))
		s.Fizzle(spell.StateFizzled)
		return
	}
	tc.log(match.Entry{Category: match.CategorySpell, Code: match.CodeSummon, Actor: s.Caster, Target: mon.ID, Spell: s.SpellID, Hand: int(s.Hand), Text: mdef.Type})
}

func resolveRemoveEnchantment(tc *turnContext, s *spell.Instance, target *match.Actor) {
	if target.IsMonster() {
		tc.m.SetDestroyActorEOT(target.ID)
		tc.log(match.Entry{Category: match.CategoryEffect, Code: match.CodeEffectRemoved, Actor: s.Caster, Target: target.ID, Spell: s.SpellID})
		return
	}
	tc.forEachFuture(target, tc.turn, target.Ledger.RemoveEnchantments)
	tc.log(match.Entry{Category: match.CategoryEffect, Code: match.CodeEffectRemoved, Actor: s.Caster, Target: target.ID, Spell: s.SpellID})
}

func resolveShield(tc *turnContext, s *spell.Instance, target *match.Actor) {
	target.Ledger.RaiseEffect(ruleset.EffectPShield, tc.turn, 1)
	tc.applied(s, target, ruleset.EffectPShield)
}

// resolveNow returns a handler writing the spell's duration on the current turn.
func resolveNow(effect string) func(*turnContext, *spell.Instance, *match.Actor) {
	return func(tc *turnContext, s *spell.Instance, target *match.Actor) {
		target.Ledger.RaiseEffect(effect, tc.turn, s.Duration)
		tc.applied(s, target, effect)
	}
}

// resolveNext returns a handler writing the spell's duration on the next turn.
func resolveNext(effect string) func(*turnContext, *spell.Instance, *match.Actor) {
	return func(tc *turnContext, s *spell.Instance, target *match.Actor) {
		target.Ledger.RaiseEffect(effect, tc.turn+1, s.Duration)
		tc.applied(s, target, effect)
	}
}

func resolveCure(hp int, cureDisease bool) func(*turnContext, *spell.Instance, *match.Actor) {
	return func(tc *turnContext, s *spell.Instance, target *match.Actor) {
		target.IncreaseHP(hp)
		if cureDisease {
			tc.clearEffect(target, ruleset.EffectDisease, tc.turn)
		}
		tc.log(match.Entry{Category: match.CategoryEffect, Code: match.CodeHeal, Actor: s.Caster, Target: target.ID, Spell: s.SpellID, Damage: hp})
	}
}

func resolveRaiseDead(tc *turnContext, s *spell.Instance, target *match.Actor) {
	if target.Alive {
		target.IncreaseHP(5)
		tc.log(match.Entry{Category: match.CategoryEffect, Code: match.CodeHeal, Actor: s.Caster, Target: target.ID, Spell: s.SpellID, Damage: 5})
		return
	}
	if target.Surrendered() {
		tc.log(match.Entry{Category: match.CategoryEffect, Code: match.CodeNoEffect, Actor: s.Caster, Target: target.ID, Spell: s.SpellID})
		return
	}
	target.Ledger.State(tc.turn).RisenFromDead = true
	tc.log(match.Entry{Category: match.CategoryEffect, Code: match.CodeEffectApplied, Actor: s.Caster, Target: target.ID, Spell: s.SpellID})
}

// resolveMind returns the handler of a mind spell. The effect starts next
// turn; controls are written alongside it and the clash check may still
// strip everything.
func resolveMind(effect string) func(*turnContext, *spell.Instance, *match.Actor) {
	return func(tc *turnContext, s *spell.Instance, target *match.Actor) {
		switch effect {
		case ruleset.EffectCharmPerson:
			if !target.IsParticipant() {
				tc.log(match.Entry{Category: match.CategoryEffect, Code: match.CodeNoEffect, Actor: s.Caster, Target: target.ID, Spell: s.SpellID})
				return
			}
		case ruleset.EffectCharmMonster:
			if !target.IsMonster() {
				tc.log(match.Entry{Category: match.CategoryEffect, Code: match.CodeNoEffect, Actor: s.Caster, Target: target.ID, Spell: s.SpellID})
				return
			}
		}

		next := tc.turn + 1
		target.Ledger.State(tc.turn).MindspellsThisTurn++
		target.Ledger.RaiseEffect(effect, next, s.Duration)
		st := target.Ledger.State(next)
		switch effect {
		case ruleset.EffectParalysis:
			st.Paralyzed = ledger.Control{By: s.Caster}
		case ruleset.EffectCharmPerson:
			st.Charmed = ledger.Control{By: s.Caster}
		case ruleset.EffectConfusion:
			st.Confused = ledger.Control{By: s.Caster}
			if tc.e.rules.Hooks.ConfusionAtCast {
				st.Confused.Hand, st.Confused.Gesture = tc.rollConfusion(target.ID)
			}
		case ruleset.EffectCharmMonster:
			tc.charmMonster = append(tc.charmMonster, charmTransfer{monster: target.ID, controller: s.Caster})
		}
		tc.applied(s, target, effect)
	}
}

func resolveAntiSpell(tc *turnContext, s *spell.Instance, target *match.Actor) {
	target.Ledger.State(tc.turn).AntiSpelled = true
	tc.log(match.Entry{Category: match.CategoryEffect, Code: match.CodeEffectApplied, Actor: s.Caster, Target: target.ID, Spell: s.SpellID})
}

func resolveDamage(n int, kind ruleset.DamageType, shieldGated bool) func(*turnContext, *spell.Instance, *match.Actor) {
	return func(tc *turnContext, s *spell.Instance, target *match.Actor) {
		tc.damage(s.Caster, target, n, kind, shieldGated, true, s.SpellID)
	}
}

func resolveClapOfLightning(tc *turnContext, s *spell.Instance, target *match.Actor) {
	caster, ok := tc.m.Actor(s.Caster, false)
	if !ok {
		return
	}
	st := caster.Ledger.State(tc.turn)
	if st.ClapOfLightning > 0 {
		tc.log(match.Entry{Category: match.CategoryEffect, Code: match.CodeNoEffect, Actor: s.Caster, Target: target.ID, Spell: s.SpellID})
		return
	}
	st.ClapOfLightning++
	tc.damage(s.Caster, target, 5, ruleset.DamagePhysical, false, true, s.SpellID)
}

func castStorm(tc *turnContext, s *spell.Instance, _ int) {
	info := tc.m.TurnInfo(tc.turn)
	if s.Code == "fire_storm" {
		info.FireStorms++
	} else {
		info.IceStorms++
	}
}

// resolveStorm hits every living actor once per storm type per turn.
func resolveStorm(kind ruleset.DamageType) func(*turnContext, *spell.Instance, *match.Actor) {
	return func(tc *turnContext, s *spell.Instance, _ *match.Actor) {
		info := tc.m.TurnInfo(tc.turn)
		if info.StormsDone[s.Code] {
			return
		}
		info.StormsDone[s.Code] = true
		for _, a := range tc.m.Actors(true) {
			if a.Ledger.State(tc.turn).CounterSpell {
				tc.log(match.Entry{Category: match.CategorySpell, Code: match.CodeCountered, Actor: s.Caster, Target: a.ID, Spell: s.SpellID})
				continue
			}
			tc.damage(s.Caster, a, 5, kind, false, true, s.SpellID)
		}
	}
}

func resolveFingerOfDeath(tc *turnContext, s *spell.Instance, target *match.Actor) {
	tc.m.SetDestroyActorEOT(target.ID)
	tc.log(match.Entry{Category: match.CategoryEffect, Code: match.CodeEffectApplied, Actor: s.Caster, Target: target.ID, Spell: s.SpellID})
}

func (tc *turnContext) applied(s *spell.Instance, target *match.Actor, effect string) {
	tc.log(match.Entry{Category: match.CategoryEffect, Code: match.CodeEffectApplied, Actor: s.Caster, Target: target.ID, Spell: s.SpellID, Text: effect})
}

// damage applies n points of kind to target. Resistances block elemental
// damage; the shield gate blocks physical damage when shieldGated is set.
func (tc *turnContext) damage(source int, target *match.Actor, n int, kind ruleset.DamageType, shieldGated, checkProtection bool, spellID int) {
	entry := match.Entry{Category: match.CategoryEffect, Actor: source, Target: target.ID, Spell: spellID}
	switch kind {
	case ruleset.DamageFire:
		if target.Ledger.Affected(ruleset.EffectResistHeat, tc.turn) {
			entry.Code = match.CodeResisted
			tc.log(entry)
			return
		}
	case ruleset.DamageCold:
		if target.Ledger.Affected(ruleset.EffectResistCold, tc.turn) {
			entry.Code = match.CodeResisted
			tc.log(entry)
			return
		}
	default:
		if shieldGated && target.Ledger.AffectedByPShield(tc.turn, true, checkProtection) {
			entry.Code = match.CodeShielded
			tc.log(entry)
			return
		}
	}
	target.DecreaseHP(n)
	entry.Code = match.CodeDamage
	entry.Damage = n
	tc.log(entry)
}
