package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/match"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/ruleset"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/spell"
)

// turnContext carries everything one turn needs between phases.
type turnContext struct {
	ctx    context.Context
	e      *Engine
	m      *match.Match
	turn   int
	typ    ruleset.TurnType
	orders map[int]*match.Orders
	active []*match.Actor
	logger *zap.Logger

	// gestures are the final gestures of active participants.
	gestures   map[int][2]string
	candidates map[int]*handCandidates
	stack      []*spell.Instance

	dispelled    bool
	charmMonster []charmTransfer
}

type handCandidates struct {
	left  []spell.Candidate
	right []spell.Candidate
}

func (h *handCandidates) hand(which spell.Hand) []spell.Candidate {
	if which == spell.Right {
		return h.right
	}
	return h.left
}

type charmTransfer struct {
	monster    int
	controller int
}

func (tc *turnContext) log(e match.Entry) { tc.m.Log(e) }

func (tc *turnContext) def(s *spell.Instance) *spell.Definition {
	d, err := tc.e.catalog.Definition(s.SpellID)
	if err != nil {
		// Instances are only ever built from catalog definitions.
		panic(err)
	}
	return d
}

func (tc *turnContext) isActive(id int) bool {
	for _, p := range tc.active {
		if p.ID == id {
			return true
		}
	}
	return false
}

// lookahead is the last turn effects may be written for.
func (tc *turnContext) lookahead() int { return tc.turn + tc.e.rules.Lookahead }

// phaseStartup allocates ledger entries and takes the start-of-turn
// snapshots used for visibility and history.
func (tc *turnContext) phaseStartup() {
	tc.gestures = make(map[int][2]string)
	tc.candidates = make(map[int]*handCandidates)
	tc.stack = nil

	for _, a := range tc.m.Actors(false) {
		a.Ledger.Ensure(tc.lookahead())
		st := a.Ledger.State(tc.turn)
		st.Alive = a.Alive
		st.HP = a.HP
		if !a.Alive {
			continue
		}
		st.Blind = a.Ledger.Affected(ruleset.EffectBlindness, tc.turn)
		st.Invisible = a.Ledger.Affected(ruleset.EffectInvisibility, tc.turn)
		st.OutOfTime = tc.typ == ruleset.TurnTimestopped && a.Ledger.Affected(ruleset.EffectTimeStop, tc.turn)
	}
	tc.logger.Debug("turn started",
		zap.String("type", string(tc.typ)),
		zap.Int("active", len(tc.active)),
	)
}

// forEachFuture applies fn to turn and every allocated lookahead turn.
func (tc *turnContext) forEachFuture(a *match.Actor, from int, fn func(turn int)) {
	if from < a.Ledger.Start() {
		from = a.Ledger.Start()
	}
	for t := from; t <= a.Ledger.Last(); t++ {
		fn(t)
	}
}

// clearEffect zeroes an effect from turn onwards.
func (tc *turnContext) clearEffect(a *match.Actor, name string, from int) {
	tc.forEachFuture(a, from, func(t int) { a.Ledger.SetEffect(name, t, 0) })
}
