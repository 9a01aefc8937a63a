// Package script parses match scripts: a header, the participant list and
// the orders of every turn, one line per participant.
//
//	match 7 ruleset warlocks
//	participant 1 "Alice" team 1 gender feminine
//	participant 2 "Bob"
//	turn 1
//	1: left S right F target right 2
//	2: left P right P
package script

import (
	"fmt"

	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/match"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/spell"
)

// Script is a whole parsed match script.
type Script struct {
	Header       *Header        `parser:"EOL* @@"`
	Participants []*Participant `parser:"@@*"`
	Turns        []*Turn        `parser:"@@*"`
}

// Header names the match and its ruleset.
type Header struct {
	MatchID int    `parser:"\"match\" @Int"`
	Ruleset string `parser:"( \"ruleset\" @Ident )? EOL+"`
}

// Participant declares one participant.
type Participant struct {
	ID     int    `parser:"\"participant\" @Int"`
	Name   string `parser:"@String"`
	Team   int    `parser:"( \"team\" @Int )?"`
	Gender string `parser:"( \"gender\" @Ident )? EOL+"`
}

// Turn groups the order lines of one turn.
type Turn struct {
	Number int     `parser:"\"turn\" @Int EOL+"`
	Lines  []*Line `parser:"@@*"`
}

// Line is one participant's orders within a turn.
type Line struct {
	Participant int       `parser:"@Int \":\""`
	Clauses     []*Clause `parser:"@@* EOL+"`
}

// Clause is a single instruction of an order line.
type Clause struct {
	Gesture   *GestureClause  `parser:"( @@"`
	Cast      *CastClause     `parser:"| @@"`
	Target    *TargetClause   `parser:"| @@"`
	Attack    *AttackClause   `parser:"| @@"`
	Paralyze  *ParalyzeClause `parser:"| @@"`
	Charm     *CharmClause    `parser:"| @@"`
	Permanent *HandClause     `parser:"| \"permanent\" @@"`
	Delay     *HandClause     `parser:"| \"delay\" @@"`
	Release   *ReleaseClause  `parser:"| @@"`
	Suicide   bool            `parser:"| @\"suicide\" )"`
}

// GestureClause sets the gesture of a hand: left S.
type GestureClause struct {
	Hand    string `parser:"@(\"left\"|\"right\")"`
	Gesture string `parser:"@Gesture"`
}

// CastClause picks a completed spell by id, optionally aiming it: cast right 17 at 2.
type CastClause struct {
	Hand   string `parser:"\"cast\" @(\"left\"|\"right\")"`
	Spell  int    `parser:"@Int"`
	Target int    `parser:"( \"at\" @Int )?"`
}

// TargetClause aims whatever a hand completes: target left 2.
type TargetClause struct {
	Hand   string `parser:"\"target\" @(\"left\"|\"right\")"`
	Target int    `parser:"@Int"`
}

// AttackClause orders a monster, or the hand summoning one, to attack.
type AttackClause struct {
	Monster int `parser:"\"attack\" @Int"`
	Target  int `parser:"\"at\" @Int"`
}

// ParalyzeClause picks the hand to freeze on a paralysed target.
type ParalyzeClause struct {
	Target int    `parser:"\"paralyze\" @Int"`
	Hand   string `parser:"@(\"left\"|\"right\")"`
}

// CharmClause forces a gesture on a charmed target's hand.
type CharmClause struct {
	Target  int    `parser:"\"charm\" @Int"`
	Hand    string `parser:"@(\"left\"|\"right\")"`
	Gesture string `parser:"@Gesture"`
}

// HandClause names a hand.
type HandClause struct {
	Hand string `parser:"@(\"left\"|\"right\")"`
}

// ReleaseClause fires the banked spell.
type ReleaseClause struct {
	Keyword string `parser:"@\"release\""`
	Target  int    `parser:"( \"at\" @Int )?"`
}

func hand(s string) spell.Hand {
	if s == "right" {
		return spell.Right
	}
	return spell.Left
}

// Specs returns the participant list for match.New.
func (s *Script) Specs() []match.ParticipantSpec {
	out := make([]match.ParticipantSpec, 0, len(s.Participants))
	for _, p := range s.Participants {
		out = append(out, match.ParticipantSpec{
			ID:     p.ID,
			Name:   p.Name,
			Team:   p.Team,
			Gender: match.Gender(p.Gender),
		})
	}
	return out
}

// Orders converts the turn's lines into the engine's orders, keyed by
// participant. A participant may appear only once per turn.
func (t *Turn) Orders() (map[int]*match.Orders, error) {
	out := make(map[int]*match.Orders, len(t.Lines))
	for _, line := range t.Lines {
		if _, dup := out[line.Participant]; dup {
			return nil, fmt.Errorf("turn %d: participant %d: %w", t.Number, line.Participant, ErrDuplicateOrders)
		}
		out[line.Participant] = line.toOrders()
	}
	return out, nil
}

func (o *Line) toOrders() *match.Orders {
	out := &match.Orders{LeftGesture: "-", RightGesture: "-"}
	for _, c := range o.Clauses {
		switch {
		case c.Gesture != nil:
			if hand(c.Gesture.Hand) == spell.Right {
				out.RightGesture = c.Gesture.Gesture
			} else {
				out.LeftGesture = c.Gesture.Gesture
			}
		case c.Cast != nil:
			if hand(c.Cast.Hand) == spell.Right {
				out.RightSpell = c.Cast.Spell
				if c.Cast.Target != 0 {
					out.RightTarget = c.Cast.Target
				}
			} else {
				out.LeftSpell = c.Cast.Spell
				if c.Cast.Target != 0 {
					out.LeftTarget = c.Cast.Target
				}
			}
		case c.Target != nil:
			if hand(c.Target.Hand) == spell.Right {
				out.RightTarget = c.Target.Target
			} else {
				out.LeftTarget = c.Target.Target
			}
		case c.Attack != nil:
			if out.Attacks == nil {
				out.Attacks = map[int]int{}
			}
			out.Attacks[c.Attack.Monster] = c.Attack.Target
		case c.Paralyze != nil:
			if out.Paralyze == nil {
				out.Paralyze = map[int]spell.Hand{}
			}
			out.Paralyze[c.Paralyze.Target] = hand(c.Paralyze.Hand)
		case c.Charm != nil:
			if out.Charm == nil {
				out.Charm = map[int]match.CharmOrder{}
			}
			out.Charm[c.Charm.Target] = match.CharmOrder{Hand: hand(c.Charm.Hand), Gesture: c.Charm.Gesture}
		case c.Permanent != nil:
			if hand(c.Permanent.Hand) == spell.Right {
				out.PermanentRight = true
			} else {
				out.PermanentLeft = true
			}
		case c.Delay != nil:
			if hand(c.Delay.Hand) == spell.Right {
				out.DelayRight = true
			} else {
				out.DelayLeft = true
			}
		case c.Release != nil:
			out.CastDelayed = true
			out.DelayedTarget = c.Release.Target
		case c.Suicide:
			out.Suicide = true
		}
	}
	return out
}
