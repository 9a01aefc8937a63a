package persistence

import (
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/match"
)

// RecordType tags a journal line.
type RecordType string

const (
	RecordHeader RecordType = "header"
	RecordTurn   RecordType = "turn"
	RecordEnd    RecordType = "end"
)

// Record is one journal entry.
type Record interface {
	Type() RecordType
	RecordID() ulid.ULID
}

// HeaderRecord opens a journal and describes the match it belongs to.
type HeaderRecord struct {
	ID           ulid.ULID               `json:"id"`
	Created      time.Time               `json:"created"`
	MatchID      int                     `json:"match_id"`
	Ruleset      string                  `json:"ruleset"`
	Participants []match.ParticipantSpec `json:"participants"`
}

func (r *HeaderRecord) Type() RecordType    { return RecordHeader }
func (r *HeaderRecord) RecordID() ulid.ULID { return r.ID }

// TurnRecord holds the orders one turn consumed and the log entries it produced.
type TurnRecord struct {
	ID       ulid.ULID             `json:"id"`
	Turn     int                   `json:"turn"`
	TurnType string                `json:"turn_type"`
	Orders   map[int]*match.Orders `json:"orders"`
	Entries  []match.Entry         `json:"entries"`
}

func (r *TurnRecord) Type() RecordType    { return RecordTurn }
func (r *TurnRecord) RecordID() ulid.ULID { return r.ID }

// EndRecord closes the journal of a finished or cancelled match.
type EndRecord struct {
	ID      ulid.ULID `json:"id"`
	Status  string    `json:"status"`
	Winners int       `json:"winners"`
}

func (r *EndRecord) Type() RecordType    { return RecordEnd }
func (r *EndRecord) RecordID() ulid.ULID { return r.ID }
