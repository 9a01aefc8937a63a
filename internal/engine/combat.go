package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/match"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/ruleset"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/spell"
)

// phaseAttack runs monster attacks and stabs. Only normal turns have a full
// combat exchange; on hasted and timestopped turns just the monsters of the
// acting participants attack.
func (tc *turnContext) phaseAttack() error {
	tc.m.KillMonstersBeforeAttack()
	tc.m.GiveAttackOrders(tc.orders)

	switch tc.typ {
	case ruleset.TurnNormal:
		if err := tc.monsterAttacks(func(*match.Actor) bool { return true }, true); err != nil {
			return err
		}
		tc.stabs()
	case ruleset.TurnHasted:
		return tc.monsterAttacks(tc.controlledByActive, true)
	case ruleset.TurnTimestopped:
		return tc.monsterAttacks(tc.controlledByActive, false)
	}
	return nil
}

func (tc *turnContext) controlledByActive(mon *match.Actor) bool {
	c := mon.Controller()
	return c != 0 && tc.isActive(c)
}

// monsterAttacks lets every living monster accepted by include attack once.
func (tc *turnContext) monsterAttacks(include func(*match.Actor) bool, checkProtection bool) error {
	for _, mon := range tc.m.Monsters(true) {
		if !include(mon) {
			continue
		}
		if mon.Ledger.Affected(ruleset.EffectParalysis, tc.turn) {
			tc.log(match.Entry{Category: match.CategoryAttack, Code: match.CodeMonsterParalyzed, Actor: mon.ID})
			continue
		}
		def, ok := tc.e.rules.Monster(mon.Monster.Type)
		if !ok {
			return fmt.Errorf("monster %d: %s: %w", mon.ID, mon.Monster.Type, ruleset.ErrUnknownMonster)
		}
		n, err := tc.e.rules.MonsterDamage(def.Type, ruleset.MonsterVars(def.Type, mon.HP, mon.MaxHP, tc.turn))
		if err != nil {
			return fmt.Errorf("monster %d damage: %w", mon.ID, err)
		}

		if mon.Monster.Uncontrolled {
			for _, victim := range tc.m.Actors(true) {
				if victim.ID == mon.ID {
					continue
				}
				tc.monsterHit(mon, victim, n, def.DamageType, checkProtection)
			}
			continue
		}

		victim, ok := tc.m.Actor(mon.Monster.AttackTarget, true)
		if !ok {
			tc.log(match.Entry{Category: match.CategoryAttack, Code: match.CodeMonsterNoTarget, Actor: mon.ID})
			continue
		}
		if victim.ID != mon.Controller() && victim.Ledger.Affected(ruleset.EffectInvisibility, tc.turn) {
			tc.log(match.Entry{Category: match.CategoryAttack, Code: match.CodeInvisibleMiss, Actor: mon.ID, Target: victim.ID})
			continue
		}
		tc.monsterHit(mon, victim, n, def.DamageType, checkProtection)
	}
	return nil
}

func (tc *turnContext) monsterHit(mon, victim *match.Actor, n int, kind ruleset.DamageType, checkProtection bool) {
	tc.log(match.Entry{Category: match.CategoryAttack, Code: match.CodeMonsterAttack, Actor: mon.ID, AttackTarget: victim.ID, Damage: n})
	tc.damage(mon.ID, victim, n, kind, true, checkProtection, 0)
	tc.logger.Debug("monster attack",
		zap.Int("monster", mon.ID),
		zap.Int("victim", victim.ID),
		zap.Int("hp", victim.HP),
	)
}

// stabs resolves the stab gesture of every active participant.
func (tc *turnContext) stabs() {
	for _, p := range tc.active {
		g := tc.gestures[p.ID]
		for _, h := range []spell.Hand{spell.Left, spell.Right} {
			if g[h-1] != ruleset.GestureStab {
				continue
			}
			target := tc.m.HandTarget(tc.orders[p.ID].Target(h))
			victim, ok := tc.m.Actor(target, true)
			if !ok || victim.ID == p.ID {
				id := tc.m.RandomOpponentID(p.ID, "stab:"+h.String())
				if victim, ok = tc.m.Actor(id, true); !ok {
					tc.log(match.Entry{Category: match.CategoryAttack, Code: match.CodeStab, Actor: p.ID, Hand: int(h)})
					continue
				}
			}
			if victim.Ledger.Affected(ruleset.EffectInvisibility, tc.turn) {
				tc.log(match.Entry{Category: match.CategoryAttack, Code: match.CodeInvisibleMiss, Actor: p.ID, Target: victim.ID, Hand: int(h)})
				continue
			}
			tc.log(match.Entry{Category: match.CategoryAttack, Code: match.CodeStab, Actor: p.ID, AttackTarget: victim.ID, Hand: int(h)})
			tc.damage(p.ID, victim, 1, ruleset.DamagePhysical, true, true, 0)
		}
	}
}
