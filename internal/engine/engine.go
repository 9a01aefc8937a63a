// Package engine resolves one turn of a match: gestures, spell matching and
// selection, the cast and resolve stages, combat and end-of-turn cleanup.
package engine

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/match"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/ruleset"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/spell"
)

// ErrMissingOrders is returned when a participant who acts this turn has
// not submitted orders.
var ErrMissingOrders = errors.New("missing orders")

// Engine applies a ruleset to matches. It holds no match state and can be
// shared between matches.
type Engine struct {
	rules    *ruleset.Config
	catalog  *spell.Catalog
	handlers map[string]handler
	logger   *zap.Logger
}

// New builds an engine and checks that every spell of the ruleset has a handler.
func New(rules *ruleset.Config, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		rules:    rules,
		catalog:  spell.NewCatalog(rules),
		handlers: spellHandlers(),
		logger:   logger.Named("engine"),
	}
	for _, d := range e.catalog.All() {
		if _, ok := e.handlers[d.Code]; !ok {
			return nil, fmt.Errorf("ruleset %s: no handler for %s: %w", rules.Name, d.Code, spell.ErrUnknownSpell)
		}
		if d.Summon() {
			if _, ok := rules.Monster(d.MonsterType()); !ok {
				return nil, fmt.Errorf("ruleset %s: %s summons %s: %w", rules.Name, d.Code, d.MonsterType(), ruleset.ErrUnknownMonster)
			}
		}
	}
	return e, nil
}

// Rules returns the ruleset the engine was built for.
func (e *Engine) Rules() *ruleset.Config { return e.rules }

// Catalog returns the compiled spell catalog.
func (e *Engine) Catalog() *spell.Catalog { return e.catalog }

// ActiveParticipants returns the living participants who act on the
// current turn of m.
func (e *Engine) ActiveParticipants(m *match.Match) []*match.Actor {
	var out []*match.Actor
	for _, p := range m.Participants(true) {
		switch m.TurnType() {
		case ruleset.TurnHasted:
			if !p.Ledger.Affected(ruleset.EffectHaste, m.Turn) {
				continue
			}
		case ruleset.TurnTimestopped:
			if !p.Ledger.Affected(ruleset.EffectTimeStop, m.Turn) {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

// ProcessTurn runs the four phases of the current turn. Orders are keyed by
// participant id; every active participant must have an entry. On success
// the match has advanced to the next turn unless it finished.
func (e *Engine) ProcessTurn(ctx context.Context, m *match.Match, orders map[int]*match.Orders) error {
	if m.Status() != match.StatusOngoing {
		return fmt.Errorf("match %d: %w", m.ID, match.ErrMatchFinished)
	}
	active := e.ActiveParticipants(m)
	for _, p := range active {
		if orders[p.ID] == nil {
			return fmt.Errorf("match %d turn %d participant %d: %w", m.ID, m.Turn, p.ID, ErrMissingOrders)
		}
	}

	tc := &turnContext{
		ctx:    ctx,
		e:      e,
		m:      m,
		turn:   m.Turn,
		typ:    m.TurnType(),
		orders: orders,
		active: active,
		logger: e.logger.With(zap.Int("match", m.ID), zap.Int("turn", m.Turn)),
	}

	tc.phaseStartup()
	if err := tc.phaseCast(); err != nil {
		return fmt.Errorf("cast phase: %w", err)
	}
	if err := tc.phaseAttack(); err != nil {
		return fmt.Errorf("attack phase: %w", err)
	}
	if err := tc.phaseCleanup(); err != nil {
		return fmt.Errorf("cleanup phase: %w", err)
	}
	return nil
}
