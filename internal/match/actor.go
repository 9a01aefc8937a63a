package match

import "github.com/BioLogIn001/spellweavers-engine-sub001/internal/ledger"

// Actor ids: participants use 1..8, hand ids 11..82, monsters start here.
const FirstMonsterID = 101

// Kind distinguishes the two actor variants.
type Kind string

const (
	KindParticipant Kind = "participant"
	KindMonster     Kind = "monster"
)

// Gender is used for log phrasing only.
type Gender string

const (
	GenderEpicene   Gender = "epicene"
	GenderFeminine  Gender = "feminine"
	GenderMasculine Gender = "masculine"
	GenderNeuter    Gender = "neuter"
)

// ParticipantInfo is the part of an actor only participants have.
type ParticipantInfo struct {
	Team            int `json:"team"`
	TurnSurrendered int `json:"turn_surrendered,omitempty"`
}

// MonsterInfo is the part of an actor only monsters have.
type MonsterInfo struct {
	Type         string `json:"type"`
	Controller   int    `json:"controller"`
	SummonedBy   int    `json:"summoned_by"`
	Uncontrolled bool   `json:"uncontrolled,omitempty"`
	Element      string `json:"element,omitempty"`
	AttackTarget int    `json:"attack_target"`

	DestroyBeforeAttack bool `json:"-"`
	DestroyEOT          bool `json:"-"`
}

// Actor is a participant or a monster. Exactly one of Participant and
// Monster is set.
type Actor struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Gender        Gender `json:"gender"`
	HP            int    `json:"hp"`
	MaxHP         int    `json:"max_hp"`
	Alive         bool   `json:"alive"`
	TurnCreated   int    `json:"turn_created"`
	TurnDestroyed int    `json:"turn_destroyed,omitempty"`

	Participant *ParticipantInfo `json:"participant,omitempty"`
	Monster     *MonsterInfo     `json:"monster,omitempty"`

	// DestroyEOT marks a participant for death at the end of the turn.
	DestroyEOT bool `json:"-"`

	Ledger *ledger.Ledger `json:"-"`
}

// Kind returns the actor variant.
func (a *Actor) Kind() Kind {
	if a.Monster != nil {
		return KindMonster
	}
	return KindParticipant
}

// IsParticipant reports whether the actor is a participant.
func (a *Actor) IsParticipant() bool { return a.Participant != nil }

// IsMonster reports whether the actor is a monster.
func (a *Actor) IsMonster() bool { return a.Monster != nil }

// DecreaseHP applies damage. Death is decided at the end of the turn.
func (a *Actor) DecreaseHP(n int) {
	if n <= 0 {
		return
	}
	a.HP -= n
}

// IncreaseHP heals up to MaxHP.
func (a *Actor) IncreaseHP(n int) {
	if n <= 0 {
		return
	}
	a.HP += n
	if a.HP > a.MaxHP {
		a.HP = a.MaxHP
	}
}

// Controller is the participant steering the actor: itself for participants,
// the controller for monsters, 0 for uncontrolled monsters.
func (a *Actor) Controller() int {
	if a.Monster != nil {
		if a.Monster.Uncontrolled {
			return 0
		}
		return a.Monster.Controller
	}
	return a.ID
}

// Surrendered reports whether the participant gave up.
func (a *Actor) Surrendered() bool {
	return a.Participant != nil && a.Participant.TurnSurrendered > 0
}

// kill marks the actor dead on turn.
func (a *Actor) kill(turn int) {
	a.Alive = false
	a.TurnDestroyed = turn
	a.DestroyEOT = false
	if a.Monster != nil {
		a.Monster.DestroyBeforeAttack = false
		a.Monster.DestroyEOT = false
	}
}
