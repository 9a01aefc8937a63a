package session

import (
	"context"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/engine"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/match"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/persistence"
)

type memStore struct {
	records []persistence.Record
}

func (m *memStore) Append(rec persistence.Record) error {
	m.records = append(m.records, rec)
	return nil
}

func (m *memStore) Load() ([]persistence.Record, error) { return m.records, nil }
func (m *memStore) Close() error                        { return nil }

func testConfig(id int) Config {
	return Config{
		MatchID: id,
		Ruleset: "warlocks",
		Participants: []match.ParticipantSpec{
			{ID: 1, Name: "Alice", Team: 1},
			{ID: 2, Name: "Bob", Team: 2},
		},
	}
}

func orders(left1, right1, left2, right2 string) map[int]*match.Orders {
	return map[int]*match.Orders{
		1: {LeftGesture: left1, RightGesture: right1},
		2: {LeftGesture: left2, RightGesture: right2},
	}
}

func TestSubmitAndRebuild(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	store, err := persistence.NewStore(path)
	require.NoError(t, err)

	s, err := New(ctx, testConfig(5), store)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, s.Active())

	for _, g := range []string{"S", "F", "W"} {
		_, err := s.Submit(ctx, orders("-", g, "-", "-"))
		require.NoError(t, err)
	}
	require.Len(t, s.Match().Monsters(true), 1)
	want := s.Match().Entries()
	require.NoError(t, s.Close())

	store, err = persistence.NewStore(path)
	require.NoError(t, err)
	rebuilt, err := Rebuild(ctx, store, nil, nil)
	require.NoError(t, err)
	defer rebuilt.Close()

	assert.Equal(t, want, rebuilt.Match().Entries())
	assert.Equal(t, 4, rebuilt.Match().Turn)
	bob, ok := rebuilt.Match().Participant(2, true)
	require.True(t, ok)
	orig, ok := s.Match().Participant(2, true)
	require.True(t, ok)
	assert.Equal(t, orig.HP, bob.HP)

	_, err = rebuilt.Submit(ctx, orders("-", "-", "-", "-"))
	require.NoError(t, err)
	records, err := store.Load()
	require.NoError(t, err)
	assert.Len(t, records, 5)
}

func TestSubmitRequiresOrders(t *testing.T) {
	s, err := New(context.Background(), testConfig(1), nil)
	require.NoError(t, err)

	_, err = s.Submit(context.Background(), map[int]*match.Orders{1: {}})
	assert.ErrorIs(t, err, engine.ErrMissingOrders)
	assert.Equal(t, 1, s.Match().Turn)
}

func TestRebuildDetectsDivergence(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	s, err := New(ctx, testConfig(2), store)
	require.NoError(t, err)
	_, err = s.Submit(ctx, orders("S", "D", "-", "-"))
	require.NoError(t, err)

	tr, ok := store.records[1].(*persistence.TurnRecord)
	require.True(t, ok)
	require.NotEmpty(t, tr.Entries)
	tr.Entries[0].Text = "tampered"

	_, err = Rebuild(ctx, store, nil, nil)
	assert.ErrorIs(t, err, ErrNonDeterministic)
}

func TestRebuildEmptyJournal(t *testing.T) {
	_, err := Rebuild(context.Background(), &memStore{}, nil, nil)
	assert.ErrorIs(t, err, persistence.ErrEmptyJournal)
}

func TestAutoplayIsDeterministic(t *testing.T) {
	ctx := context.Background()
	play := func() (*Session, *memStore) {
		store := &memStore{}
		s, err := New(ctx, testConfig(11), store)
		require.NoError(t, err)
		require.NoError(t, s.Autoplay(ctx, rand.New(rand.NewSource(99)), 60))
		return s, store
	}

	a, store := play()
	b, _ := play()
	assert.Equal(t, a.Match().Entries(), b.Match().Entries())
	assert.NotEqual(t, match.StatusOngoing, a.Match().Status())

	last := store.records[len(store.records)-1]
	assert.Equal(t, persistence.RecordEnd, last.Type())

	rebuilt, err := Rebuild(ctx, store, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, a.Match().Status(), rebuilt.Match().Status())
	assert.Equal(t, a.Match().Entries(), rebuilt.Match().Entries())
}
