package engine

import (
	"go.uber.org/zap"

	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/match"
)

// phaseCast determines gestures, builds the stack and runs the cast and
// resolve stages with the clash checks between them.
func (tc *turnContext) phaseCast() error {
	tc.stack = nil
	tc.charmMonster = nil

	for _, p := range tc.active {
		l, r := tc.determineGestures(p)
		tc.gestures[p.ID] = [2]string{l, r}
		tc.m.SetGestures(tc.turn, p.ID, l, r)
		tc.log(match.Entry{Category: match.CategoryInfo, Code: match.CodeGestures, Actor: p.ID, Text: l + " " + r})
	}
	tc.logActiveEffects()

	tc.matchSpells()
	tc.checkDelayedSpellCast()
	tc.selectSpells()
	tc.sortStack()

	tc.castStack()
	tc.checkElementalSpellsClash()
	tc.resolveStack()
	tc.checkMindspellsClash()

	tc.logger.Debug("cast phase done", zap.Int("spells", len(tc.stack)))
	return tc.ctx.Err()
}

// logActiveEffects records the effects each participant starts the turn with.
func (tc *turnContext) logActiveEffects() {
	for _, p := range tc.m.Participants(true) {
		for _, name := range tc.e.rules.EffectNames() {
			if p.Ledger.Affected(name, tc.turn) {
				tc.log(match.Entry{Category: match.CategoryInfo, Code: match.CodeEffectActive, Actor: p.ID, Text: name})
			}
		}
	}
}
