// Package session ties a ruleset, an engine, one match and its journal
// together. Every processed turn is journaled, and a journal can be replayed
// into a fresh session with a determinism check.
package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/engine"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/match"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/persistence"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/ruleset"
)

// ErrNonDeterministic is returned by Rebuild when a replayed turn logs
// something other than what the journal recorded.
var ErrNonDeterministic = errors.New("replay diverged from journal")

// Store defines the dependency required by Session to persist records.
type Store interface {
	Append(rec persistence.Record) error
	Load() ([]persistence.Record, error)
	Close() error
}

// Config describes a new match.
type Config struct {
	MatchID      int
	Ruleset      string
	DataDirs     []string
	Participants []match.ParticipantSpec
	Logger       *zap.Logger
}

// Session manages the loop of taking orders, running turns and journaling them.
type Session struct {
	rules  *ruleset.Config
	engine *engine.Engine
	match  *match.Match
	store  Store
	logger *zap.Logger
}

// New loads the ruleset, starts the match and writes the journal header.
// store may be nil for a session that is not journaled.
func New(ctx context.Context, cfg Config, store Store) (*Session, error) {
	s, err := build(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s.store = store
	if store != nil {
		err := store.Append(&persistence.HeaderRecord{
			ID:           ulid.Make(),
			Created:      time.Now().UTC(),
			MatchID:      cfg.MatchID,
			Ruleset:      s.rules.Name,
			Participants: cfg.Participants,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to write journal header: %w", err)
		}
	}
	return s, nil
}

func build(ctx context.Context, cfg Config) (*Session, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	rules, err := ruleset.Load(cfg.Ruleset, cfg.DataDirs...)
	if err != nil {
		return nil, err
	}
	eng, err := engine.New(rules, logger)
	if err != nil {
		return nil, err
	}
	m, err := match.New(cfg.MatchID, rules, cfg.Participants)
	if err != nil {
		return nil, err
	}
	if err := m.Start(ctx); err != nil {
		return nil, err
	}
	return &Session{
		rules:  rules,
		engine: eng,
		match:  m,
		logger: logger.Named("session").With(zap.Int("match", cfg.MatchID)),
	}, nil
}

// Rebuild replays a journal into a fresh session. Each turn's orders are run
// through the engine again and the produced log must equal the journaled
// one. The returned session keeps appending to store.
func Rebuild(ctx context.Context, store Store, dataDirs []string, logger *zap.Logger) (*Session, error) {
	records, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load journal: %w", err)
	}
	header, err := persistence.Header(records)
	if err != nil {
		return nil, err
	}

	s, err := build(ctx, Config{
		MatchID:      header.MatchID,
		Ruleset:      header.Ruleset,
		DataDirs:     dataDirs,
		Participants: header.Participants,
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}

	for _, rec := range records[1:] {
		switch r := rec.(type) {
		case *persistence.TurnRecord:
			if err := s.replayTurn(ctx, r); err != nil {
				return nil, err
			}
		case *persistence.EndRecord:
			if r.Status == string(match.StatusCancelled) {
				if err := s.match.Cancel(ctx); err != nil {
					return nil, err
				}
				continue
			}
			if string(s.match.Status()) != r.Status || s.match.Winners != r.Winners {
				return nil, fmt.Errorf("match end %s/%d: %w", r.Status, r.Winners, ErrNonDeterministic)
			}
		}
	}
	s.logger.Debug("journal replayed", zap.Int("records", len(records)), zap.Int("turn", s.match.Turn))
	s.store = store
	return s, nil
}

func (s *Session) replayTurn(ctx context.Context, tr *persistence.TurnRecord) error {
	if tr.Turn != s.match.Turn {
		return fmt.Errorf("journal turn %d, match at turn %d: %w", tr.Turn, s.match.Turn, ErrNonDeterministic)
	}
	entries, err := s.run(ctx, tr.Orders)
	if err != nil {
		return fmt.Errorf("replaying turn %d: %w", tr.Turn, err)
	}
	if !slices.Equal(entries, tr.Entries) {
		return fmt.Errorf("turn %d: %w", tr.Turn, ErrNonDeterministic)
	}
	return nil
}

// Match returns the match being played.
func (s *Session) Match() *match.Match { return s.match }

// Engine returns the engine running the match.
func (s *Session) Engine() *engine.Engine { return s.engine }

// Active returns the ids of the participants expected to give orders now.
func (s *Session) Active() []int {
	var ids []int
	for _, p := range s.engine.ActiveParticipants(s.match) {
		ids = append(ids, p.ID)
	}
	return ids
}

// Submit runs the current turn with the given orders and journals it. It
// returns the log entries the turn produced.
func (s *Session) Submit(ctx context.Context, orders map[int]*match.Orders) ([]match.Entry, error) {
	turn, typ := s.match.Turn, s.match.TurnType()
	entries, err := s.run(ctx, orders)
	if err != nil {
		return nil, err
	}
	if s.store == nil {
		return entries, nil
	}

	rec := &persistence.TurnRecord{
		ID:       ulid.Make(),
		Turn:     turn,
		TurnType: string(typ),
		Orders:   orders,
		Entries:  entries,
	}
	if err := s.store.Append(rec); err != nil {
		return nil, fmt.Errorf("failed to journal turn %d: %w", turn, err)
	}
	if s.match.Status() != match.StatusOngoing {
		if err := s.journalEnd(); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

func (s *Session) journalEnd() error {
	if s.store == nil {
		return nil
	}
	end := &persistence.EndRecord{ID: ulid.Make(), Status: string(s.match.Status()), Winners: s.match.Winners}
	if err := s.store.Append(end); err != nil {
		return fmt.Errorf("failed to journal match end: %w", err)
	}
	return nil
}

func (s *Session) run(ctx context.Context, orders map[int]*match.Orders) ([]match.Entry, error) {
	turn := s.match.Turn
	if err := s.engine.ProcessTurn(ctx, s.match, orders); err != nil {
		return nil, err
	}
	entries := s.match.EntriesFor(turn)
	s.logger.Debug("turn processed", zap.Int("turn", turn), zap.Int("entries", len(entries)))
	return entries, nil
}

// Autoplay feeds random orders from rng until the match ends or maxTurns
// turns have been played, in which case the match is cancelled.
func (s *Session) Autoplay(ctx context.Context, rng *rand.Rand, maxTurns int) error {
	for i := 0; i < maxTurns; i++ {
		if s.match.Status() != match.StatusOngoing {
			return nil
		}
		if _, err := s.Submit(ctx, RandomOrders(rng, s.Active())); err != nil {
			return err
		}
	}
	if s.match.Status() != match.StatusOngoing {
		return nil
	}
	if err := s.match.Cancel(ctx); err != nil {
		return err
	}
	return s.journalEnd()
}

// Close closes the journal, if any.
func (s *Session) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}
