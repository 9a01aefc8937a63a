package match

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"sort"

	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/ledger"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/ruleset"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/spell"
)

// Actor looks up a participant or monster. Hand ids resolve to the monster
// that hand summoned this turn.
func (m *Match) Actor(id int, aliveOnly bool) (*Actor, bool) {
	if _, _, ok := spell.SplitHandID(id); ok {
		mid, found := m.TurnInfo(m.Turn).Summoned[id]
		if !found {
			return nil, false
		}
		id = mid
	}
	a, ok := m.actors[id]
	if !ok || (aliveOnly && !a.Alive) {
		return nil, false
	}
	return a, true
}

// Participant looks up a participant.
func (m *Match) Participant(id int, aliveOnly bool) (*Actor, bool) {
	a, ok := m.Actor(id, aliveOnly)
	if !ok || !a.IsParticipant() {
		return nil, false
	}
	return a, true
}

// Monster looks up a monster.
func (m *Match) Monster(id int, aliveOnly bool) (*Actor, bool) {
	a, ok := m.Actor(id, aliveOnly)
	if !ok || !a.IsMonster() {
		return nil, false
	}
	return a, true
}

// HandTarget resolves a target id that may be a hand id. It returns 0 when
// a hand id names a hand that summoned nothing this turn.
func (m *Match) HandTarget(id int) int {
	if _, _, ok := spell.SplitHandID(id); !ok {
		return id
	}
	return m.TurnInfo(m.Turn).Summoned[id]
}

// Participants returns participants in id order.
func (m *Match) Participants(aliveOnly bool) []*Actor {
	return filter(m.participants, aliveOnly)
}

// Monsters returns monsters in creation order.
func (m *Match) Monsters(aliveOnly bool) []*Actor {
	return filter(m.monsters, aliveOnly)
}

// Actors returns participants then monsters.
func (m *Match) Actors(aliveOnly bool) []*Actor {
	return append(m.Participants(aliveOnly), m.Monsters(aliveOnly)...)
}

func filter(in []*Actor, aliveOnly bool) []*Actor {
	out := make([]*Actor, 0, len(in))
	for _, a := range in {
		if aliveOnly && !a.Alive {
			continue
		}
		out = append(out, a)
	}
	return out
}

// IDsParticipants returns the ids of living participants.
func (m *Match) IDsParticipants() []int {
	var ids []int
	for _, p := range m.Participants(true) {
		ids = append(ids, p.ID)
	}
	return ids
}

// Team is the team an actor fights for; uncontrolled monsters have none.
func (m *Match) Team(a *Actor) int {
	if a.IsParticipant() {
		return a.Participant.Team
	}
	if c, ok := m.actors[a.Controller()]; ok && c.IsParticipant() {
		return c.Participant.Team
	}
	return 0
}

// IDsOpponents returns the ids of living actors not on id's team, sorted.
func (m *Match) IDsOpponents(id int) []int {
	self, ok := m.actors[id]
	if !ok {
		return nil
	}
	team := m.Team(self)
	var ids []int
	for _, a := range m.Actors(true) {
		if a.ID == id {
			continue
		}
		if t := m.Team(a); t == 0 || t != team {
			ids = append(ids, a.ID)
		}
	}
	sort.Ints(ids)
	return ids
}

// Rand returns a generator seeded from the match, the turn, an actor and a
// purpose, so every random choice is reproducible on replay.
func (m *Match) Rand(actor int, purpose string) *rand.Rand {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d:%d:%d:%s", m.ID, m.Turn, actor, purpose)
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

// RandomOpponentID picks a living opponent of id, preferring participants.
// It returns 0 when there is none.
func (m *Match) RandomOpponentID(id int, purpose string) int {
	var pool []int
	for _, o := range m.IDsOpponents(id) {
		if a := m.actors[o]; a.IsParticipant() {
			pool = append(pool, o)
		}
	}
	if len(pool) == 0 {
		pool = m.IDsOpponents(id)
	}
	if len(pool) == 0 {
		return 0
	}
	return pool[m.Rand(id, purpose).Intn(len(pool))]
}

// RandomActorID picks any living actor other than id, or 0.
func (m *Match) RandomActorID(id int, purpose string) int {
	var pool []int
	for _, a := range m.Actors(true) {
		if a.ID != id {
			pool = append(pool, a.ID)
		}
	}
	if len(pool) == 0 {
		return 0
	}
	sort.Ints(pool)
	return pool[m.Rand(id, purpose).Intn(len(pool))]
}

// CreateMonster summons a monster controlled by controller, remembering the
// summoning hand for this turn's hand-id targeting.
func (m *Match) CreateMonster(typ string, controller, handID int) (*Actor, error) {
	def, ok := m.Rules.Monster(typ)
	if !ok {
		return nil, fmt.Errorf("monster %s: %w", typ, ruleset.ErrUnknownMonster)
	}
	a := &Actor{
		ID:          m.nextMonster,
		Name:        def.Name,
		Gender:      GenderNeuter,
		HP:          def.HP,
		MaxHP:       def.HP,
		Alive:       true,
		TurnCreated: m.Turn,
		Monster: &MonsterInfo{
			Type:         typ,
			Controller:   controller,
			SummonedBy:   handID,
			Uncontrolled: def.Uncontrolled,
			Element:      def.Element,
		},
		Ledger: ledger.New(m.Rules, m.Turn),
	}
	if def.Uncontrolled {
		a.Monster.Controller = 0
	}
	a.Ledger.Ensure(m.Turn + m.Rules.Lookahead)
	st := a.Ledger.State(m.Turn)
	st.Alive = true
	st.HP = a.HP
	for name, v := range def.Effects {
		for t := m.Turn; t <= a.Ledger.Last(); t++ {
			a.Ledger.SetEffect(name, t, v)
		}
	}
	m.nextMonster++
	m.monsters = append(m.monsters, a)
	m.actors[a.ID] = a
	if handID != 0 {
		m.TurnInfo(m.Turn).Summoned[handID] = a.ID
	}
	return a, nil
}

// SetDestroyMonsterNow kills a monster immediately.
func (m *Match) SetDestroyMonsterNow(id int, reason string) {
	a, ok := m.Monster(id, true)
	if !ok {
		return
	}
	a.kill(m.Turn)
	m.Log(Entry{Category: CategoryDeath, Code: CodeMonsterDestroyed, Actor: a.ID, Text: reason})
}

// SetDestroyMonsterBeforeAttack flags a monster to die before combat.
func (m *Match) SetDestroyMonsterBeforeAttack(id int) {
	if a, ok := m.Monster(id, true); ok {
		a.Monster.DestroyBeforeAttack = true
	}
}

// SetDestroyActorEOT flags an actor to die at the end of the turn.
func (m *Match) SetDestroyActorEOT(id int) {
	a, ok := m.Actor(id, true)
	if !ok {
		return
	}
	if a.IsMonster() {
		a.Monster.DestroyEOT = true
		return
	}
	a.DestroyEOT = true
}

// KillMonstersBeforeAttack removes monsters flagged to die before combat.
func (m *Match) KillMonstersBeforeAttack() {
	for _, a := range m.Monsters(true) {
		if a.Monster.DestroyBeforeAttack {
			a.kill(m.Turn)
			m.Log(Entry{Category: CategoryDeath, Code: CodeMonsterDestroyed, Actor: a.ID})
		}
	}
}

// KillMonstersEOT removes monsters flagged for the end of turn or out of hp.
func (m *Match) KillMonstersEOT() {
	for _, a := range m.Monsters(true) {
		if a.Monster.DestroyEOT || a.Monster.DestroyBeforeAttack || a.HP <= 0 {
			a.kill(m.Turn)
			m.Log(Entry{Category: CategoryDeath, Code: CodeMonsterDestroyed, Actor: a.ID})
		}
	}
}

// KillParticipantsEOT removes participants flagged to die or out of hp.
func (m *Match) KillParticipantsEOT() {
	for _, a := range m.Participants(true) {
		if a.DestroyEOT || a.HP <= 0 {
			a.kill(m.Turn)
			m.Log(Entry{Category: CategoryDeath, Code: CodeDeath, Actor: a.ID})
		}
	}
}

// Kill marks an actor dead right away, e.g. for surrender or suicide.
func (m *Match) Kill(a *Actor) { a.kill(m.Turn) }

// Revive brings a dead actor back with full hp.
func (m *Match) Revive(a *Actor) {
	a.Alive = true
	a.HP = a.MaxHP
	a.TurnDestroyed = 0
}

// CheckMatchEndEOT finishes the match once at most one team still has a
// living participant. Victory is logged for every member of the winning
// team, dead or alive.
func (m *Match) CheckMatchEndEOT(ctx context.Context) (bool, error) {
	alive := map[int]bool{}
	for _, p := range m.Participants(true) {
		alive[p.Participant.Team] = true
	}
	if len(alive) > 1 {
		return false, nil
	}
	if err := m.finish(ctx); err != nil {
		return false, err
	}
	if len(alive) == 0 {
		m.Log(Entry{Category: CategoryMatch, Code: CodeDraw})
		return true, nil
	}
	for team := range alive {
		m.Winners = team
	}
	for _, p := range m.participants {
		if p.Participant.Team == m.Winners {
			m.Log(Entry{Category: CategoryMatch, Code: CodeVictory, Actor: p.ID})
		}
	}
	return true, nil
}

// GiveAttackOrders sets each living controlled monster's attack target for
// the turn. Orders may name the monster or the hand that summoned it this
// turn. Without an order a monster keeps its previous target, or picks a
// random opponent when it never had one. Invalid targets leave the monster
// idle.
func (m *Match) GiveAttackOrders(orders map[int]*Orders) {
	summonedBy := map[int]int{}
	for hand, mid := range m.TurnInfo(m.Turn).Summoned {
		summonedBy[mid] = hand
	}
	for _, a := range m.Monsters(true) {
		if a.Monster.Uncontrolled {
			continue
		}
		o := orders[a.Monster.Controller]
		target, given := 0, false
		if o != nil {
			if t, ok := o.Attacks[a.ID]; ok {
				target, given = t, true
			} else if hand, ok := summonedBy[a.ID]; ok {
				if t, ok := o.Attacks[hand]; ok {
					target, given = t, true
				}
			}
		}
		m.GiveSingleAttackOrder(a, target, given)
	}
}

// GiveSingleAttackOrder applies one attack order to a monster.
func (m *Match) GiveSingleAttackOrder(a *Actor, target int, given bool) {
	if !given {
		if a.Monster.AttackTarget != 0 {
			if _, ok := m.Actor(a.Monster.AttackTarget, true); ok {
				return
			}
		}
		a.Monster.AttackTarget = m.RandomOpponentID(a.ID, "attack")
		return
	}
	target = m.HandTarget(target)
	if target == 0 {
		a.Monster.AttackTarget = 0
		return
	}
	if _, ok := m.Actor(target, true); !ok || target == a.ID {
		m.Log(Entry{Category: CategoryAttack, Code: CodeMonsterInvalid, Actor: a.ID, AttackTarget: target})
		a.Monster.AttackTarget = 0
		return
	}
	a.Monster.AttackTarget = target
}
