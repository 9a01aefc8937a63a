// Package match holds the full state of one match: actors and their ledgers,
// recorded gestures, per-turn bookkeeping and the structured event log.
package match

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/looplab/fsm"

	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/ledger"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/ruleset"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/spell"
)

var (
	// ErrMatchFinished is returned when a turn is processed on a match that
	// is no longer ongoing.
	ErrMatchFinished = errors.New("match is not ongoing")
	// ErrInvalidSetup is returned for bad participant lists.
	ErrInvalidSetup = errors.New("invalid match setup")
)

// Status of a match.
type Status string

const (
	StatusCreated   Status = "created"
	StatusOngoing   Status = "ongoing"
	StatusCancelled Status = "cancelled"
	StatusFinished  Status = "finished"
)

// ParticipantSpec describes a participant at match creation.
type ParticipantSpec struct {
	ID     int    `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Team   int    `json:"team" yaml:"team"`
	Gender Gender `json:"gender" yaml:"gender"`
}

// TurnInfo is the match-wide bookkeeping of a single turn.
type TurnInfo struct {
	Type       ruleset.TurnType
	FireStorms int
	IceStorms  int
	// StormsDone records which storm types already dealt damage this turn.
	StormsDone map[string]bool
	// Summoned maps the hand ids that summoned a monster this turn to it.
	Summoned map[int]int
}

// Match is the single owner of all mutable match state.
type Match struct {
	ID    int
	Rules *ruleset.Config
	Turn  int

	status   *fsm.FSM
	turnType *fsm.FSM

	participants []*Actor
	monsters     []*Actor
	actors       map[int]*Actor
	nextMonster  int

	gestures map[int]map[int][2]string
	turns    map[int]*TurnInfo
	log      []Entry

	// Winners is the winning team, 0 for a draw or an unfinished match.
	Winners int
}

// New creates a match in the created state.
func New(id int, rules *ruleset.Config, specs []ParticipantSpec) (*Match, error) {
	if len(specs) < 2 {
		return nil, fmt.Errorf("%w: need at least two participants", ErrInvalidSetup)
	}
	if len(specs) > rules.MaxParticipants {
		return nil, fmt.Errorf("%w: at most %d participants", ErrInvalidSetup, rules.MaxParticipants)
	}

	m := &Match{
		ID:          id,
		Rules:       rules,
		actors:      make(map[int]*Actor),
		nextMonster: FirstMonsterID,
		gestures:    make(map[int]map[int][2]string),
		turns:       make(map[int]*TurnInfo),
	}
	m.status = fsm.NewFSM(
		string(StatusCreated),
		fsm.Events{
			{Name: "start", Src: []string{string(StatusCreated)}, Dst: string(StatusOngoing)},
			{Name: "finish", Src: []string{string(StatusOngoing)}, Dst: string(StatusFinished)},
			{Name: "cancel", Src: []string{string(StatusCreated), string(StatusOngoing)}, Dst: string(StatusCancelled)},
		},
		fsm.Callbacks{},
	)
	m.turnType = fsm.NewFSM(
		string(ruleset.TurnNormal),
		fsm.Events{
			{Name: "haste", Src: []string{string(ruleset.TurnNormal), string(ruleset.TurnTimestopped)}, Dst: string(ruleset.TurnHasted)},
			{Name: "timestop", Src: []string{string(ruleset.TurnNormal), string(ruleset.TurnHasted)}, Dst: string(ruleset.TurnTimestopped)},
			{Name: "resume", Src: []string{string(ruleset.TurnHasted), string(ruleset.TurnTimestopped)}, Dst: string(ruleset.TurnNormal)},
		},
		fsm.Callbacks{},
	)

	teams := map[int]bool{}
	for _, s := range specs {
		if s.ID < 1 || s.ID > 8 {
			return nil, fmt.Errorf("%w: participant id %d out of range", ErrInvalidSetup, s.ID)
		}
		if _, dup := m.actors[s.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate participant %d", ErrInvalidSetup, s.ID)
		}
		team := s.Team
		if team == 0 {
			team = s.ID
		}
		teams[team] = true
		gender := s.Gender
		if gender == "" {
			gender = GenderEpicene
		}
		a := &Actor{
			ID:          s.ID,
			Name:        s.Name,
			Gender:      gender,
			HP:          rules.MaxHP,
			MaxHP:       rules.MaxHP,
			Alive:       true,
			TurnCreated: 1,
			Participant: &ParticipantInfo{Team: team},
			Ledger:      ledger.New(rules, 1),
		}
		m.participants = append(m.participants, a)
		m.actors[a.ID] = a
	}
	if len(teams) < 2 {
		return nil, fmt.Errorf("%w: need at least two teams", ErrInvalidSetup)
	}
	sort.Slice(m.participants, func(i, j int) bool { return m.participants[i].ID < m.participants[j].ID })
	return m, nil
}

// Status returns the lifecycle state.
func (m *Match) Status() Status { return Status(m.status.Current()) }

// Start moves a created match to ongoing on turn 1.
func (m *Match) Start(ctx context.Context) error {
	if err := m.status.Event(ctx, "start"); err != nil {
		return fmt.Errorf("start match %d: %w", m.ID, err)
	}
	m.Turn = 1
	m.TurnInfo(1).Type = ruleset.TurnNormal
	for _, p := range m.participants {
		p.Ledger.Ensure(1 + m.Rules.Lookahead)
	}
	m.Log(Entry{Category: CategoryMatch, Code: "matchStarted"})
	return nil
}

// Cancel stops the match without a result.
func (m *Match) Cancel(ctx context.Context) error {
	if err := m.status.Event(ctx, "cancel"); err != nil {
		return fmt.Errorf("cancel match %d: %w", m.ID, err)
	}
	return nil
}

func (m *Match) finish(ctx context.Context) error {
	if err := m.status.Event(ctx, "finish"); err != nil {
		return fmt.Errorf("finish match %d: %w", m.ID, err)
	}
	return nil
}

// TurnType returns the type of the current turn.
func (m *Match) TurnType() ruleset.TurnType { return ruleset.TurnType(m.turnType.Current()) }

// AdvanceTurn closes the current turn and enters the next one with the
// given type.
func (m *Match) AdvanceTurn(ctx context.Context, next ruleset.TurnType) error {
	cur := m.TurnType()
	if cur == ruleset.TurnHasted && next == ruleset.TurnHasted {
		return fmt.Errorf("turn %d: hasted turn cannot follow a hasted turn", m.Turn)
	}
	if cur != next {
		event := "resume"
		switch next {
		case ruleset.TurnHasted:
			event = "haste"
		case ruleset.TurnTimestopped:
			event = "timestop"
		}
		if err := m.turnType.Event(ctx, event); err != nil {
			return fmt.Errorf("turn %d: %s to %s: %w", m.Turn, cur, next, err)
		}
	}
	m.Turn++
	m.TurnInfo(m.Turn).Type = next
	for _, a := range m.Actors(false) {
		a.Ledger.Ensure(m.Turn + m.Rules.Lookahead)
	}
	return nil
}

// TurnInfo returns the bookkeeping of a turn, creating it when needed.
func (m *Match) TurnInfo(turn int) *TurnInfo {
	ti, ok := m.turns[turn]
	if !ok {
		ti = &TurnInfo{Type: ruleset.TurnNormal, StormsDone: map[string]bool{}, Summoned: map[int]int{}}
		m.turns[turn] = ti
	}
	return ti
}

// SetGestures records a participant's final gestures for turn.
func (m *Match) SetGestures(turn, participant int, left, right string) {
	g, ok := m.gestures[participant]
	if !ok {
		g = make(map[int][2]string)
		m.gestures[participant] = g
	}
	g[turn] = [2]string{left, right}
}

// Gesture returns the gesture a participant showed with hand on turn.
func (m *Match) Gesture(turn, participant int, h spell.Hand) (string, bool) {
	g, ok := m.gestures[participant][turn]
	if !ok {
		return "", false
	}
	if h == spell.Right {
		return g[1], true
	}
	return g[0], true
}

// History builds the reversed gesture history usable for spell matching.
// Turns without recorded gestures are skipped; the history stops at the
// first turn the participant started dead or was hit by Anti-spell, and at
// max_spell_length gestures.
func (m *Match) History(participant int) spell.History {
	a, ok := m.actors[participant]
	if !ok {
		return spell.History{}
	}
	var left, right []byte
	for t := m.Turn; t >= 1 && len(left) < m.Rules.MaxSpellLength; t-- {
		if a.Ledger.Has(t) && t < m.Turn {
			st := a.Ledger.State(t)
			if !st.Alive || st.AntiSpelled {
				break
			}
		}
		g, ok := m.gestures[participant][t]
		if !ok {
			continue
		}
		left = append(left, g[0]...)
		right = append(right, g[1]...)
	}
	return spell.History{Left: string(left), Right: string(right)}
}
