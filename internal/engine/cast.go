package engine

import (
	"go.uber.org/zap"

	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/match"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/ruleset"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/spell"
)

// castStack runs the cast stage for every spell still waiting on the stack.
// Immediate spells finish here; the rest wait for resolveStack.
func (tc *turnContext) castStack() {
	for _, s := range tc.stack {
		if s.State != spell.StateCreated || !s.Resolve {
			continue
		}
		s.State = spell.StateCast
		h := tc.e.handlers[s.Code]
		origin := s.Caster
		if !tc.precastTargetChecks(s) {
			tc.logger.Debug("spell stopped at cast",
				zap.String("spell", s.Code),
				zap.Int("caster", origin),
				zap.String("state", string(s.State)),
			)
			continue
		}
		if h.cast != nil {
			h.cast(tc, s, origin)
		}
		if h.immediate {
			tc.apply(h, s)
		}
	}
}

// resolveStack applies every deferred spell that survived casting and the
// clash checks.
func (tc *turnContext) resolveStack() {
	for _, s := range tc.stack {
		if !s.Resolve {
			continue
		}
		h := tc.e.handlers[s.Code]
		if h.immediate {
			continue
		}
		tc.apply(h, s)
	}
}

func (tc *turnContext) apply(h handler, s *spell.Instance) {
	var target *match.Actor
	if !tc.def(s).Untargeted {
		a, ok := tc.m.Actor(s.Target, !tc.def(s).TargetDead)
		if !ok {
			s.Fizzle(spell.StateFizzled)
			tc.log(match.Entry{Category: match.CategorySpell, Code: match.CodeNoEffect, Actor: s.Caster, Target: s.Target, Spell: s.SpellID})
			return
		}
		target = a
	}
	if h.resolve != nil {
		h.resolve(tc, s, target)
	}
	s.Resolve = false
	if s.State != spell.StateReflected && s.State != spell.StateFizzled {
		s.State = spell.StateResolved
	}
}

// precastTargetChecks resolves the target and applies blindness,
// invisibility, magic mirror and counter spell in that order. It reports
// whether the spell goes on.
func (tc *turnContext) precastTargetChecks(s *spell.Instance) bool {
	d := tc.def(s)
	if d.Untargeted {
		tc.log(match.Entry{Category: match.CategorySpell, Code: match.CodeCastSpell, Actor: s.Caster, Spell: s.SpellID, Hand: int(s.Hand)})
		return true
	}

	s.Target = tc.m.HandTarget(s.Target)
	target, ok := tc.m.Actor(s.Target, !d.TargetDead)
	if s.Target == 0 || !ok {
		tc.log(match.Entry{Category: match.CategorySpell, Code: match.CodeTargetedNobody, Actor: s.Caster, Spell: s.SpellID, Hand: int(s.Hand)})
		s.Target = 0
		s.Fizzle(spell.StateFizzled)
		return false
	}
	tc.log(match.Entry{Category: match.CategorySpell, Code: match.CodeCastSpell, Actor: s.Caster, Target: s.Target, Spell: s.SpellID, Hand: int(s.Hand)})

	caster, ok := tc.m.Actor(s.Caster, false)
	if !ok {
		s.Fizzle(spell.StateFizzled)
		return false
	}

	if target.ID != caster.ID {
		if caster.Ledger.Affected(ruleset.EffectBlindness, tc.turn) {
			tc.log(match.Entry{Category: match.CategorySpell, Code: match.CodeBlindMiss, Actor: caster.ID, Target: target.ID, Spell: s.SpellID})
			s.Fizzle(spell.StateFizzled)
			return false
		}
		if target.Ledger.Affected(ruleset.EffectInvisibility, tc.turn) {
			tc.log(match.Entry{Category: match.CategorySpell, Code: match.CodeInvisibleMiss, Actor: caster.ID, Target: target.ID, Spell: s.SpellID})
			s.Fizzle(spell.StateFizzled)
			return false
		}
		if !d.Unreflectable && target.Ledger.State(tc.turn).MagicMirror {
			if caster.Ledger.State(tc.turn).MagicMirror {
				tc.log(match.Entry{Category: match.CategorySpell, Code: match.CodeInfiniteReflection, Actor: caster.ID, Target: target.ID, Spell: s.SpellID})
				s.Fizzle(spell.StateFizzled)
				return false
			}
			reflector := target.Controller()
			if reflector == 0 {
				reflector = target.ID
			}
			tc.log(match.Entry{Category: match.CategorySpell, Code: match.CodeReflected, Actor: target.ID, Target: caster.ID, Spell: s.SpellID})
			s.Caster = reflector
			s.Target = caster.ID
			s.Mirrored = true
			s.State = spell.StateReflected
			s.Resolve = true
			target = caster
		}
	}

	if !d.Uncounterable && target.Ledger.State(tc.turn).CounterSpell {
		tc.log(match.Entry{Category: match.CategorySpell, Code: match.CodeCountered, Actor: s.Caster, Target: target.ID, Spell: s.SpellID})
		s.Fizzle(spell.StateCountered)
		return false
	}
	return true
}
