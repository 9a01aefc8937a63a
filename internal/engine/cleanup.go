package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/match"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/ruleset"
)

// phaseCleanup settles deaths, surrender and revival, checks for the end of
// the match, ticks every ledger and moves the match to the next turn.
func (tc *turnContext) phaseCleanup() error {
	tc.m.KillMonstersEOT()
	tc.checkDiseaseAndPoison()
	tc.m.KillParticipantsEOT()
	tc.resolveSuicide()
	tc.resolveSurrender()
	tc.reviveRisen()

	over, err := tc.m.CheckMatchEndEOT(tc.ctx)
	if err != nil {
		return err
	}

	next, err := tc.nextTurnType()
	if err != nil {
		return err
	}
	for _, a := range tc.m.Actors(false) {
		a.Ledger.Tick(tc.turn, tc.typ, next)
		tc.carryForward(a)
		a.Ledger.Ensure(tc.turn + 1 + tc.e.rules.Lookahead)
	}

	tc.logger.Debug("turn done",
		zap.String("next", string(next)),
		zap.Bool("over", over),
	)
	if over {
		return nil
	}
	if next != ruleset.TurnNormal {
		tc.log(match.Entry{Category: match.CategoryInfo, Code: match.CodeTurnType, Text: string(next)})
	}
	return tc.m.AdvanceTurn(tc.ctx, next)
}

// checkDiseaseAndPoison kills participants whose countdown runs out this turn.
func (tc *turnContext) checkDiseaseAndPoison() {
	if tc.typ != ruleset.TurnNormal {
		return
	}
	for _, p := range tc.m.Participants(true) {
		for _, name := range []string{ruleset.EffectDisease, ruleset.EffectPoison} {
			if p.Ledger.Effect(name, tc.turn) == 1 {
				tc.m.SetDestroyActorEOT(p.ID)
				tc.log(match.Entry{Category: match.CategoryEffect, Code: match.CodeEffectActive, Actor: p.ID, Text: name})
			}
		}
	}
}

// resolveSuicide honours suicide orders of permanently mind-controlled participants.
func (tc *turnContext) resolveSuicide() {
	for _, p := range tc.active {
		o := tc.orders[p.ID]
		if !p.Alive || o == nil || !o.Suicide {
			continue
		}
		if !p.Ledger.PermanentlyMindControlled(tc.turn) {
			continue
		}
		tc.m.Kill(p)
		tc.log(match.Entry{Category: match.CategoryDeath, Code: match.CodeSuicide, Actor: p.ID})
	}
}

// resolveSurrender ends the match for anyone showing P with both hands.
func (tc *turnContext) resolveSurrender() {
	for _, p := range tc.active {
		if !p.Alive || p.Surrendered() {
			continue
		}
		g := tc.gestures[p.ID]
		if g[0] != ruleset.GesturePalm || g[1] != ruleset.GesturePalm {
			continue
		}
		p.Participant.TurnSurrendered = tc.turn
		tc.m.Kill(p)
		tc.log(match.Entry{Category: match.CategoryDeath, Code: match.CodeSurrender, Actor: p.ID})
	}
}

// reviveRisen brings back actors raised from the dead this turn.
func (tc *turnContext) reviveRisen() {
	for _, a := range tc.m.Actors(false) {
		if a.Alive || a.Surrendered() || !a.Ledger.State(tc.turn).RisenFromDead {
			continue
		}
		tc.m.Revive(a)
		if !tc.e.rules.Hooks.RisenKeepEffects {
			// The current entry is cleared too, or the tick would carry it over.
			a.Ledger.InitEffectsAndStates(tc.turn, true)
			tc.forEachFuture(a, tc.turn+1, func(t int) { a.Ledger.InitEffectsAndStates(t, false) })
		}
		tc.log(match.Entry{Category: match.CategoryDeath, Code: match.CodeRevived, Actor: a.ID})
	}
}

// nextTurnType picks the type of the following turn: timestopped when any
// living actor carries Time Stop into it, else hasted when a living
// participant carries Haste and this turn was not hasted, else normal.
func (tc *turnContext) nextTurnType() (ruleset.TurnType, error) {
	timestop, haste := false, false
	for _, a := range tc.m.Actors(true) {
		ts, err := tc.projectedActive(a, ruleset.EffectTimeStop)
		if err != nil {
			return "", err
		}
		timestop = timestop || ts
		if !a.IsParticipant() {
			continue
		}
		h, err := tc.projectedActive(a, ruleset.EffectHaste)
		if err != nil {
			return "", err
		}
		haste = haste || h
	}
	switch {
	case timestop:
		return ruleset.TurnTimestopped, nil
	case haste && tc.typ != ruleset.TurnHasted:
		return ruleset.TurnHasted, nil
	}
	return ruleset.TurnNormal, nil
}

func (tc *turnContext) projectedActive(a *match.Actor, name string) (bool, error) {
	def, ok := tc.e.rules.Effect(name)
	if !ok {
		return false, fmt.Errorf("effect %s: %w", name, ruleset.ErrInvalidRuleset)
	}
	v, err := a.Ledger.Projected(name, tc.turn, tc.typ)
	if err != nil {
		return false, err
	}
	return def.ActiveValue(v), nil
}

// carryForward copies the per-turn bookkeeping that outlives the turn.
func (tc *turnContext) carryForward(a *match.Actor) {
	cur := a.Ledger.State(tc.turn)
	next := a.Ledger.State(tc.turn + 1)
	if cur.ClapOfLightning > next.ClapOfLightning {
		next.ClapOfLightning = cur.ClapOfLightning
	}
	if next.Delayed == nil && cur.Delayed != nil {
		next.Delayed = cur.Delayed
	}
	if next.Paralyzed.By == 0 && a.Ledger.Affected(ruleset.EffectParalysis, tc.turn+1) {
		next.Paralyzed = cur.Paralyzed
	}
	if next.Charmed.By == 0 && a.Ledger.Affected(ruleset.EffectCharmPerson, tc.turn+1) {
		next.Charmed = cur.Charmed
		next.Charmed.Hand, next.Charmed.Gesture = 0, ""
	}
	if next.Confused.By == 0 && a.Ledger.Affected(ruleset.EffectConfusion, tc.turn+1) {
		next.Confused = cur.Confused
	}
}
