package engine

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/ledger"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/match"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/ruleset"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/spell"
)

func setup(t *testing.T, specs ...match.ParticipantSpec) (*Engine, *match.Match) {
	t.Helper()
	return setupRules(t, "warlocks", specs...)
}

func setupRules(t *testing.T, name string, specs ...match.ParticipantSpec) (*Engine, *match.Match) {
	t.Helper()
	rules, err := ruleset.Load(name)
	require.NoError(t, err)
	e, err := New(rules, zap.NewNop())
	require.NoError(t, err)
	if len(specs) == 0 {
		specs = []match.ParticipantSpec{{ID: 1, Name: "Alice"}, {ID: 2, Name: "Bob"}}
	}
	m, err := match.New(7, rules, specs)
	require.NoError(t, err)
	require.NoError(t, m.Start(context.Background()))
	return e, m
}

func hands(l, r string) *match.Orders {
	return &match.Orders{LeftGesture: l, RightGesture: r}
}

func idle() *match.Orders { return hands("-", "-") }

func turn(t *testing.T, e *Engine, m *match.Match, orders map[int]*match.Orders) {
	t.Helper()
	require.NoError(t, e.ProcessTurn(context.Background(), m, orders))
}

func codes(entries []match.Entry) map[string]int {
	out := map[string]int{}
	for _, en := range entries {
		out[en.Code]++
	}
	return out
}

func actor(t *testing.T, m *match.Match, id int) *match.Actor {
	t.Helper()
	a, ok := m.Actor(id, false)
	require.True(t, ok)
	return a
}

func TestNewRejectsUnhandledSpell(t *testing.T) {
	rules, err := ruleset.Load("warlocks")
	require.NoError(t, err)
	bad := *rules
	bad.Spells = append(append([]ruleset.SpellDef{}, rules.Spells...),
		ruleset.SpellDef{ID: 99, Code: "wish", Priority: 1, Patterns: []string{"WWW"}, Target: ruleset.TargetSelf})
	_, err = New(&bad, nil)
	assert.ErrorIs(t, err, spell.ErrUnknownSpell)
}

func TestProcessTurnPreconditions(t *testing.T) {
	e, m := setup(t)
	err := e.ProcessTurn(context.Background(), m, map[int]*match.Orders{1: idle()})
	assert.ErrorIs(t, err, ErrMissingOrders)
	assert.Equal(t, 1, m.Turn)

	require.NoError(t, m.Cancel(context.Background()))
	err = e.ProcessTurn(context.Background(), m, map[int]*match.Orders{1: idle(), 2: idle()})
	assert.ErrorIs(t, err, match.ErrMatchFinished)
}

func TestSummonGoblin(t *testing.T) {
	e, m := setup(t)
	turn(t, e, m, map[int]*match.Orders{1: hands("-", "S"), 2: idle()})
	turn(t, e, m, map[int]*match.Orders{1: hands("-", "F"), 2: idle()})
	turn(t, e, m, map[int]*match.Orders{1: hands("-", "W"), 2: idle()})

	gob, ok := m.Monster(match.FirstMonsterID, true)
	require.True(t, ok)
	assert.Equal(t, "goblin", gob.Monster.Type)
	assert.Equal(t, 1, gob.Monster.Controller)
	assert.Equal(t, spell.HandID(1, spell.Right), gob.Monster.SummonedBy)
	assert.Equal(t, 2, gob.Monster.AttackTarget)
	assert.Equal(t, 14, actor(t, m, 2).HP, "goblin hits for one")
	assert.Equal(t, 4, m.Turn)
}

func TestSortStackIsStableByPriority(t *testing.T) {
	tc := &turnContext{logger: zap.NewNop()}
	tc.stack = []*spell.Instance{
		{Code: "a", Priority: 5},
		{Code: "b", Priority: 1},
		{Code: "c", Priority: 3},
		{Code: "d", Priority: 1},
	}
	tc.sortStack()
	var got []string
	for _, s := range tc.stack {
		got = append(got, s.Code)
	}
	assert.Equal(t, []string{"b", "d", "c", "a"}, got)
}

func TestSelectionPrefersLongestAndExplicit(t *testing.T) {
	left := []spell.Candidate{
		{SpellID: 11, Code: "shield", Caster: 1, Hands: 1, Length: 1, Hand: spell.Left},
		{SpellID: 2, Code: "counter_spell", Caster: 1, Hands: 1, Length: 3, Hand: spell.Left},
	}
	best := bestCandidate(left, nil, 1)
	require.NotNil(t, best)
	assert.Equal(t, "counter_spell", best.Code)
	assert.Nil(t, bestCandidate(left, nil, 2))

	e, m := setup(t)
	tc := &turnContext{
		e: e, m: m, turn: 1, logger: zap.NewNop(),
		orders:     map[int]*match.Orders{1: {LeftSpell: 11}, 2: idle()},
		active:     m.Participants(true),
		candidates: map[int]*handCandidates{1: {left: left}},
	}
	tc.selectSpells()
	require.Len(t, tc.stack, 1)
	assert.Equal(t, "shield", tc.stack[0].Code, "explicit order wins over the longer pattern")
	assert.Equal(t, 1, tc.stack[0].Target)
}

func TestDispelMagicResetsEverything(t *testing.T) {
	e, m := setup(t)
	turn(t, e, m, map[int]*match.Orders{1: hands("C", "C"), 2: idle()})
	turn(t, e, m, map[int]*match.Orders{1: hands("D", "-"), 2: idle()})
	turn(t, e, m, map[int]*match.Orders{1: hands("P", "-"), 2: hands("-", "S")})

	a := actor(t, m, 1)
	a.Ledger.SetEffect(ruleset.EffectProtection, 4, 3)
	a.Ledger.SetEffect(ruleset.EffectHaste, 4, 2)
	gob, err := m.CreateMonster("goblin", 2, 0)
	require.NoError(t, err)

	missile := hands("-", "D")
	missile.RightTarget = 1
	turn(t, e, m, map[int]*match.Orders{1: hands("W", "-"), 2: missile})

	for _, turnNo := range []int{4, 5} {
		for _, name := range e.Rules().EffectNames() {
			want := 0
			if name == ruleset.EffectPShield && turnNo == 4 {
				want = 1
			}
			assert.Equal(t, want, a.Ledger.Effect(name, turnNo), "%s on turn %d", name, turnNo)
		}
	}
	seen := codes(m.EntriesFor(4))
	assert.Equal(t, 1, seen[match.CodeDispelled], "the missile is dropped")
	assert.False(t, gob.Alive)
	assert.Equal(t, 15, a.HP)
}

func TestElementalsCancel(t *testing.T) {
	e, m := setup(t)
	old, err := m.CreateMonster("fire_elemental", 0, 0)
	require.NoError(t, err)
	ice, err := m.CreateMonster("ice_elemental", 0, 0)
	require.NoError(t, err)
	fresh, err := m.CreateMonster("fire_elemental", 0, 0)
	require.NoError(t, err)

	turn(t, e, m, map[int]*match.Orders{1: idle(), 2: idle()})

	seen := codes(m.EntriesFor(1))
	assert.Equal(t, 1, seen[match.CodeElementalMerge])
	assert.Equal(t, 1, seen[match.CodeElementalsCancel])
	assert.Zero(t, seen[match.CodeMonsterAttack])
	for _, mon := range []*match.Actor{old, ice, fresh} {
		assert.False(t, mon.Alive, mon.Name)
	}
	assert.Equal(t, 15, actor(t, m, 1).HP)
}

func TestElementalAttacksEveryone(t *testing.T) {
	e, m := setup(t)
	_, err := m.CreateMonster("fire_elemental", 0, 0)
	require.NoError(t, err)
	actor(t, m, 2).Ledger.SetEffect(ruleset.EffectResistHeat, 1, ruleset.Permanent)

	turn(t, e, m, map[int]*match.Orders{1: idle(), 2: idle()})
	assert.Equal(t, 12, actor(t, m, 1).HP)
	assert.Equal(t, 15, actor(t, m, 2).HP)
	assert.Equal(t, 1, codes(m.EntriesFor(1))[match.CodeResisted])
}

func TestStormAbsorbsSameElemental(t *testing.T) {
	e, m := setup(t)
	fire, err := m.CreateMonster("fire_elemental", 0, 0)
	require.NoError(t, err)
	tc := &turnContext{e: e, m: m, turn: 1, logger: zap.NewNop()}
	m.TurnInfo(1).FireStorms = 1
	tc.checkElementalSpellsClash()
	assert.False(t, fire.Alive)
	assert.Equal(t, 1, codes(m.Entries())[match.CodeElementalAbsorbed])
}

func TestMindspellsClash(t *testing.T) {
	e, m := setup(t,
		match.ParticipantSpec{ID: 1, Team: 1},
		match.ParticipantSpec{ID: 2, Team: 1},
		match.ParticipantSpec{ID: 3, Team: 2},
	)
	gestures := [][2]string{{"F", "S"}, {"F", "W"}, {"F", "D"}}
	for i, g := range gestures {
		o1, o2 := hands("-", g[0]), hands("-", g[1])
		if i == len(gestures)-1 {
			o1.RightTarget, o2.RightTarget = 3, 3
		}
		turn(t, e, m, map[int]*match.Orders{1: o1, 2: o2, 3: idle()})
	}

	p := actor(t, m, 3)
	assert.Equal(t, 2, p.Ledger.State(3).MindspellsThisTurn)
	assert.False(t, p.Ledger.Affected(ruleset.EffectParalysis, 4))
	assert.False(t, p.Ledger.Affected(ruleset.EffectFear, 4))
	assert.Equal(t, 1, codes(m.EntriesFor(3))[match.CodeMindClash])
}

func TestMindspellsClashStripsCarriedEffects(t *testing.T) {
	e, m := setup(t,
		match.ParticipantSpec{ID: 1, Team: 1},
		match.ParticipantSpec{ID: 2, Team: 1},
		match.ParticipantSpec{ID: 3, Team: 2},
	)
	carol := actor(t, m, 3)
	carol.Ledger.SetEffect(ruleset.EffectAmnesia, 1, ruleset.Permanent)
	carol.Ledger.SetEffect(ruleset.EffectAmnesia, 2, ruleset.Permanent)

	gestures := [][2]string{{"F", "S"}, {"F", "W"}, {"F", "D"}}
	for i, g := range gestures {
		o1, o2 := hands("-", g[0]), hands("-", g[1])
		if i == len(gestures)-1 {
			o1.RightTarget, o2.RightTarget = 3, 3
		}
		turn(t, e, m, map[int]*match.Orders{1: o1, 2: o2, 3: idle()})
	}

	assert.Equal(t, 1, codes(m.EntriesFor(3))[match.CodeMindClash])
	assert.Zero(t, carol.Ledger.Effect(ruleset.EffectAmnesia, 3))
	for _, name := range []string{ruleset.EffectAmnesia, ruleset.EffectParalysis, ruleset.EffectFear} {
		assert.False(t, carol.Ledger.Affected(name, 4), name)
	}
	assert.False(t, carol.Ledger.PermanentlyMindControlled(4))
}

func TestParalysisAndFearAlterGestures(t *testing.T) {
	e, m := setup(t)
	turn(t, e, m, map[int]*match.Orders{1: idle(), 2: hands("-", "W")})

	bob := actor(t, m, 2)
	bob.Ledger.SetEffect(ruleset.EffectParalysis, 2, 1)
	bob.Ledger.State(2).Paralyzed = ledger.Control{By: 1, Hand: spell.Right}
	bob.Ledger.SetEffect(ruleset.EffectFear, 2, 1)
	turn(t, e, m, map[int]*match.Orders{1: idle(), 2: hands("C", "S")})

	l, _ := m.Gesture(2, 2, spell.Left)
	r, _ := m.Gesture(2, 2, spell.Right)
	assert.Equal(t, "-", l, "fear blocks C")
	assert.Equal(t, "P", r, "paralysed W becomes P")
	assert.Equal(t, 1, codes(m.EntriesFor(2))[match.CodeGestureParalyzed])
}

func TestMagicMirror(t *testing.T) {
	tests := []struct {
		name        string
		bothMirrors bool
		aliceHP     int
		code        string
	}{
		{"reflects to caster", false, 14, match.CodeReflected},
		{"double mirror fizzles", true, 15, match.CodeInfiniteReflection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, m := setup(t)
			turn(t, e, m, map[int]*match.Orders{1: hands("-", "S"), 2: idle()})

			actor(t, m, 2).Ledger.State(2).MagicMirror = true
			if tt.bothMirrors {
				actor(t, m, 1).Ledger.State(2).MagicMirror = true
			}
			missile := hands("-", "D")
			missile.RightTarget = 2
			turn(t, e, m, map[int]*match.Orders{1: missile, 2: idle()})

			assert.Equal(t, tt.aliceHP, actor(t, m, 1).HP)
			assert.Equal(t, 15, actor(t, m, 2).HP)
			assert.Equal(t, 1, codes(m.EntriesFor(2))[tt.code])
		})
	}
}

func TestSurrender(t *testing.T) {
	e, m := setup(t)
	turn(t, e, m, map[int]*match.Orders{1: hands("P", "P"), 2: idle()})

	alice := actor(t, m, 1)
	assert.False(t, alice.Alive)
	assert.Equal(t, 1, alice.Participant.TurnSurrendered)
	seen := codes(m.Entries())
	assert.Equal(t, 1, seen[match.CodeSurrender])
	assert.Equal(t, 1, seen[match.CodeVictory])
	assert.Equal(t, match.StatusFinished, m.Status())
	assert.Equal(t, 2, m.Winners)

	err := e.ProcessTurn(context.Background(), m, map[int]*match.Orders{2: idle()})
	assert.ErrorIs(t, err, match.ErrMatchFinished)
}

func TestHastedTurn(t *testing.T) {
	e, m := setup(t)
	actor(t, m, 1).Ledger.SetEffect(ruleset.EffectHaste, 2, 3)
	turn(t, e, m, map[int]*match.Orders{1: idle(), 2: idle()})

	require.Equal(t, ruleset.TurnHasted, m.TurnType())
	active := e.ActiveParticipants(m)
	require.Len(t, active, 1)
	assert.Equal(t, 1, active[0].ID)

	turn(t, e, m, map[int]*match.Orders{1: hands("S", "-")})
	_, ok := m.Gesture(2, 2, spell.Left)
	assert.False(t, ok, "inactive participants record no gestures")
	assert.Equal(t, ruleset.TurnNormal, m.TurnType(), "hasted turns never chain")
}

func TestDiseaseIsFatal(t *testing.T) {
	e, m := setup(t)
	bob := actor(t, m, 2)
	bob.Ledger.SetEffect(ruleset.EffectDisease, 1, 2)
	turn(t, e, m, map[int]*match.Orders{1: idle(), 2: idle()})
	assert.True(t, bob.Alive)
	turn(t, e, m, map[int]*match.Orders{1: idle(), 2: idle()})
	assert.False(t, bob.Alive)
	assert.Equal(t, match.StatusFinished, m.Status())
}

func randomOrders(rng *rand.Rand, e *Engine, m *match.Match) map[int]*match.Orders {
	const alphabet = "FPSWDC>-"
	orders := map[int]*match.Orders{}
	for _, p := range e.ActiveParticipants(m) {
		o := hands(string(alphabet[rng.Intn(len(alphabet))]), string(alphabet[rng.Intn(len(alphabet))]))
		o.LeftTarget = rng.Intn(3)
		o.RightTarget = rng.Intn(3)
		orders[p.ID] = o
	}
	return orders
}

func playRandom(t *testing.T, seed int64) *match.Match {
	t.Helper()
	e, m := setup(t)
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < 40 && m.Status() == match.StatusOngoing; i++ {
		turn(t, e, m, randomOrders(rng, e, m))
	}
	return m
}

func TestDeterministicReplay(t *testing.T) {
	for _, seed := range []int64{1, 2, 3} {
		a := playRandom(t, seed)
		b := playRandom(t, seed)
		assert.Equal(t, a.Entries(), b.Entries())
		assert.Equal(t, a.Turn, b.Turn)
		for _, x := range a.Actors(false) {
			y := actor(t, b, x.ID)
			assert.Equal(t, x.HP, y.HP)
			assert.Equal(t, x.Alive, y.Alive)
			for _, name := range a.Rules.EffectNames() {
				assert.Equal(t, x.Ledger.Effect(name, a.Turn), y.Ledger.Effect(name, a.Turn))
			}
		}
	}
}

func TestPermanency(t *testing.T) {
	e, m := setup(t)
	alice := actor(t, m, 1)
	turn(t, e, m, map[int]*match.Orders{1: hands("-", "W"), 2: idle()})
	turn(t, e, m, map[int]*match.Orders{1: hands("-", "W"), 2: idle()})

	alice.Ledger.SetEffect(ruleset.EffectPermanency, 3, 1)
	o := hands("-", "P")
	o.PermanentRight = true
	turn(t, e, m, map[int]*match.Orders{1: o, 2: idle()})

	assert.Equal(t, 1, codes(m.EntriesFor(3))[match.CodeSpellPermanent])
	assert.Zero(t, alice.Ledger.Effect(ruleset.EffectPermanency, 3), "permanency is spent")
	assert.True(t, alice.Ledger.AffectedPermanent(ruleset.EffectProtection, 4))

	turn(t, e, m, map[int]*match.Orders{1: idle(), 2: idle()})
	turn(t, e, m, map[int]*match.Orders{1: idle(), 2: idle()})
	assert.True(t, alice.Ledger.AffectedPermanent(ruleset.EffectProtection, 6))
}

func TestDelayEffectBanksAndReleases(t *testing.T) {
	e, m := setup(t)
	alice, bob := actor(t, m, 1), actor(t, m, 2)
	turn(t, e, m, map[int]*match.Orders{1: hands("-", "S"), 2: idle()})

	alice.Ledger.SetEffect(ruleset.EffectDelayEffect, 2, 1)
	o := hands("-", "D")
	o.RightTarget = 2
	o.DelayRight = true
	turn(t, e, m, map[int]*match.Orders{1: o, 2: idle()})

	assert.Equal(t, 15, bob.HP, "banked missile does not fire")
	assert.Equal(t, 1, codes(m.EntriesFor(2))[match.CodeSpellDelayed])
	assert.Zero(t, alice.Ledger.Effect(ruleset.EffectDelayEffect, 2))
	banked := alice.Ledger.State(3).Delayed
	require.NotNil(t, banked, "the banked spell carries into the next turn")
	assert.Equal(t, "magic_missile", banked.Code)

	release := idle()
	release.CastDelayed = true
	release.DelayedTarget = 2
	turn(t, e, m, map[int]*match.Orders{1: release, 2: idle()})

	assert.Equal(t, 14, bob.HP)
	assert.Equal(t, 1, codes(m.EntriesFor(3))[match.CodeCastDelayed])
	assert.Nil(t, alice.Ledger.State(3).Delayed)
	assert.Nil(t, alice.Ledger.State(4).Delayed)
}

func TestCounterSpellBlocksMissile(t *testing.T) {
	e, m := setup(t)
	bob := actor(t, m, 2)
	missile := [3]string{"-", "S", "D"}
	counter := [3]string{"W", "W", "S"}
	for i := range missile {
		o := hands("-", missile[i])
		o.RightTarget = 2
		turn(t, e, m, map[int]*match.Orders{1: o, 2: hands("-", counter[i])})
	}

	assert.Equal(t, 15, bob.HP)
	assert.Equal(t, 1, codes(m.EntriesFor(3))[match.CodeCountered])
	assert.True(t, bob.Ledger.State(3).CounterSpell)
}

func TestStormSparesCounteredActor(t *testing.T) {
	e, m := setup(t)
	alice, bob := actor(t, m, 1), actor(t, m, 2)
	storm := [4][2]string{{"-", "S"}, {"-", "W"}, {"-", "W"}, {"C", "C"}}
	counter := [4]string{"-", "W", "W", "S"}
	for i := range storm {
		turn(t, e, m, map[int]*match.Orders{1: hands(storm[i][0], storm[i][1]), 2: hands("-", counter[i])})
	}

	seen := codes(m.EntriesFor(4))
	assert.Equal(t, 1, seen[match.CodeCountered])
	assert.Equal(t, 10, alice.HP, "the caster is caught by the storm")
	assert.Equal(t, 15, bob.HP)
}

func TestTimestoppedAttackIgnoresProtection(t *testing.T) {
	e, m := setup(t)
	bob := actor(t, m, 2)
	gob, err := m.CreateMonster("goblin", 1, 0)
	require.NoError(t, err)
	bob.Ledger.SetEffect(ruleset.EffectProtection, 1, 4)
	actor(t, m, 1).Ledger.SetEffect(ruleset.EffectTimeStop, 2, 1)

	turn(t, e, m, map[int]*match.Orders{1: idle(), 2: idle()})
	assert.Equal(t, 15, bob.HP)
	assert.Equal(t, 1, codes(m.EntriesFor(1))[match.CodeShielded])

	require.Equal(t, ruleset.TurnTimestopped, m.TurnType())
	active := e.ActiveParticipants(m)
	require.Len(t, active, 1)
	assert.Equal(t, 1, active[0].ID)
	assert.True(t, bob.Ledger.Affected(ruleset.EffectProtection, 2))

	turn(t, e, m, map[int]*match.Orders{1: idle()})
	assert.Equal(t, 2, gob.Monster.AttackTarget)
	assert.Equal(t, 14, bob.HP, "protection does not hold outside of time")
	assert.Equal(t, ruleset.TurnNormal, m.TurnType())
}

func TestMonsterTimeStopSetsTurnType(t *testing.T) {
	tests := []struct {
		name   string
		effect string
		want   ruleset.TurnType
	}{
		{"time stop", ruleset.EffectTimeStop, ruleset.TurnTimestopped},
		{"haste counts for participants only", ruleset.EffectHaste, ruleset.TurnNormal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, m := setup(t)
			gob, err := m.CreateMonster("goblin", 1, 0)
			require.NoError(t, err)
			gob.Ledger.SetEffect(tt.effect, 2, 1)

			turn(t, e, m, map[int]*match.Orders{1: idle(), 2: idle()})
			assert.Equal(t, tt.want, m.TurnType())
		})
	}
}

func TestCharmPerson(t *testing.T) {
	e, m := setup(t)
	bob := actor(t, m, 2)
	for _, g := range []string{"P", "S", "D", "F"} {
		o := hands("-", g)
		o.RightTarget = 2
		turn(t, e, m, map[int]*match.Orders{1: o, 2: idle()})
	}
	require.True(t, bob.Ledger.Affected(ruleset.EffectCharmPerson, 5))
	assert.Equal(t, 1, bob.Ledger.State(5).Charmed.By)

	o := idle()
	o.Charm = map[int]match.CharmOrder{2: {Hand: spell.Right, Gesture: "P"}}
	turn(t, e, m, map[int]*match.Orders{1: o, 2: hands("-", "W")})

	r, _ := m.Gesture(5, 2, spell.Right)
	assert.Equal(t, "P", r, "the charmer picks the gesture")
	assert.Equal(t, 1, codes(m.EntriesFor(5))[match.CodeGestureCharmed])
}

func TestCharmMonsterTransfersControl(t *testing.T) {
	e, m := setup(t)
	bob := actor(t, m, 2)
	gob, err := m.CreateMonster("goblin", 2, 0)
	require.NoError(t, err)

	targets := []int{gob.ID, gob.ID, 2, gob.ID}
	for i, g := range []string{"P", "S", "D", "D"} {
		o := hands("-", g)
		o.RightTarget = targets[i]
		turn(t, e, m, map[int]*match.Orders{1: o, 2: idle()})
	}

	assert.Equal(t, 1, codes(m.EntriesFor(4))[match.CodeControlTransfer])
	assert.Equal(t, 1, gob.Monster.Controller)
	assert.Equal(t, 2, gob.Monster.AttackTarget, "the new master's opponent")
	assert.Equal(t, 13, bob.HP, "missile on turn 3, goblin on turn 4")
}

func TestConfusionReplacesOneGesture(t *testing.T) {
	e, m := setup(t)
	bob := actor(t, m, 2)
	turn(t, e, m, map[int]*match.Orders{1: idle(), 2: idle()})

	bob.Ledger.SetEffect(ruleset.EffectConfusion, 2, 1)
	bob.Ledger.State(2).Confused = ledger.Control{By: 1}
	turn(t, e, m, map[int]*match.Orders{1: idle(), 2: idle()})

	var confused []match.Entry
	for _, en := range m.EntriesFor(2) {
		if en.Code == match.CodeGestureConfused {
			confused = append(confused, en)
		}
	}
	require.Len(t, confused, 1)
	g, ok := m.Gesture(2, 2, spell.Hand(confused[0].Hand))
	require.True(t, ok)
	assert.Equal(t, confused[0].Text, g)
	assert.Contains(t, "FPSWDC", g)
}

func TestRaiseDead(t *testing.T) {
	e, m := setup(t,
		match.ParticipantSpec{ID: 1, Team: 1},
		match.ParticipantSpec{ID: 2, Team: 2},
		match.ParticipantSpec{ID: 3, Team: 1},
	)
	carol := actor(t, m, 3)
	carol.Ledger.SetEffect(ruleset.EffectResistHeat, 1, ruleset.Permanent)
	m.Kill(carol)

	spellHands := [6][2]string{{"-", "D"}, {"-", "W"}, {"-", "W"}, {"-", "F"}, {"-", "W"}, {"C", "C"}}
	for _, g := range spellHands {
		o := hands(g[0], g[1])
		o.RightTarget = 3
		turn(t, e, m, map[int]*match.Orders{1: o, 2: idle()})
	}

	assert.True(t, carol.Alive)
	assert.Equal(t, 15, carol.HP)
	assert.Equal(t, 1, codes(m.EntriesFor(6))[match.CodeRevived])
	assert.Zero(t, carol.Ledger.Effect(ruleset.EffectResistHeat, 7), "the risen lose their effects")
	assert.Len(t, e.ActiveParticipants(m), 3)
}

func TestRevivalHonoursKeepEffects(t *testing.T) {
	tests := []struct {
		rules string
		want  int
	}{
		{"warlocks", 0},
		{"spellbinder", ruleset.Permanent},
	}
	for _, tt := range tests {
		t.Run(tt.rules, func(t *testing.T) {
			e, m := setupRules(t, tt.rules,
				match.ParticipantSpec{ID: 1, Team: 1},
				match.ParticipantSpec{ID: 2, Team: 2},
				match.ParticipantSpec{ID: 3, Team: 1},
			)
			carol := actor(t, m, 3)
			for turnNo := 1; turnNo <= carol.Ledger.Last(); turnNo++ {
				carol.Ledger.SetEffect(ruleset.EffectResistHeat, turnNo, ruleset.Permanent)
			}
			m.Kill(carol)
			carol.Ledger.State(1).RisenFromDead = true

			turn(t, e, m, map[int]*match.Orders{1: idle(), 2: idle()})
			assert.True(t, carol.Alive)
			assert.Equal(t, tt.want, carol.Ledger.Effect(ruleset.EffectResistHeat, 2))
		})
	}
}

func TestRemoveEnchantmentDestroysMonster(t *testing.T) {
	e, m := setup(t)
	bob := actor(t, m, 2)
	gob, err := m.CreateMonster("goblin", 2, 0)
	require.NoError(t, err)

	for _, g := range []string{"P", "D", "W", "P"} {
		o := hands("-", g)
		o.RightTarget = gob.ID
		turn(t, e, m, map[int]*match.Orders{1: o, 2: idle()})
	}

	assert.False(t, gob.Alive)
	seen := codes(m.EntriesFor(4))
	assert.Equal(t, 1, seen[match.CodeEffectRemoved])
	assert.Equal(t, 1, seen[match.CodeMonsterDestroyed])
	assert.Equal(t, 15, bob.HP)
}

func TestSpellbinderTurn(t *testing.T) {
	e, m := setupRules(t, "spellbinder")
	require.Equal(t, 2, e.Rules().Lookahead)
	bob := actor(t, m, 2)
	assert.Equal(t, 3, bob.Ledger.Last(), "two turns of lookahead from the start")

	for _, g := range []string{"D", "S", "F"} {
		o := hands("-", g)
		o.RightTarget = 2
		turn(t, e, m, map[int]*match.Orders{1: o, 2: idle()})
	}
	assert.Equal(t, 4, m.Turn)
	assert.Equal(t, 6, bob.Ledger.Last())
	require.True(t, bob.Ledger.Affected(ruleset.EffectConfusion, 4))

	rolled := bob.Ledger.State(4).Confused
	require.NotZero(t, rolled.Hand, "confusion is rolled when cast")
	assert.Contains(t, "FPSWDC", rolled.Gesture)

	turn(t, e, m, map[int]*match.Orders{1: idle(), 2: idle()})
	g, ok := m.Gesture(4, 2, rolled.Hand)
	require.True(t, ok)
	assert.Equal(t, rolled.Gesture, g)
	assert.Equal(t, 14, bob.HP)
}
