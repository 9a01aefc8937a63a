package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/match"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/persistence"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/script"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/session"
)

type closingStore struct {
	records []persistence.Record
	closed  bool
}

func (c *closingStore) Append(rec persistence.Record) error {
	c.records = append(c.records, rec)
	return nil
}

func (c *closingStore) Load() ([]persistence.Record, error) { return c.records, nil }

func (c *closingStore) Close() error {
	c.closed = true
	return nil
}

const scriptHeader = `match 9 ruleset warlocks
participant 1 "Alice" team 1
participant 2 "Bob" team 2
`

func startScript(t *testing.T, src string) (*session.Session, *script.Script, *closingStore) {
	t.Helper()
	sc, err := script.Parse("test.sw", scriptHeader+src)
	require.NoError(t, err)
	store := &closingStore{}
	s, err := session.New(context.Background(), session.Config{
		MatchID:      sc.Header.MatchID,
		Ruleset:      sc.Header.Ruleset,
		Participants: sc.Specs(),
	}, store)
	require.NoError(t, err)
	return s, sc, store
}

func TestRunScript(t *testing.T) {
	s, sc, store := startScript(t, `
turn 1
1: left - right S
2: left - right -
turn 2
1: left - right F
2: left - right -
turn 3
1: left - right W
2: left - right -
`)
	require.NoError(t, runScript(context.Background(), s, sc))
	assert.True(t, store.closed)
	assert.Equal(t, 4, s.Match().Turn)
	_, ok := s.Match().Monster(match.FirstMonsterID, true)
	assert.True(t, ok)
}

func TestRunScriptClosesOnError(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"turn out of step", "turn 2\n1: left - right -\n2: left - right -\n", "match is at turn 1"},
		{"missing orders", "turn 1\n1: left - right -\n", "processing turn 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, sc, store := startScript(t, tt.src)
			err := runScript(context.Background(), s, sc)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.True(t, store.closed, "the journal is closed before exiting")
		})
	}
}

func TestRunScriptIgnoresTurnsAfterTheEnd(t *testing.T) {
	s, sc, store := startScript(t, `
turn 1
1: left P right P
2: left - right -
turn 2
1: left - right -
2: left - right -
`)
	require.NoError(t, runScript(context.Background(), s, sc))
	assert.Equal(t, match.StatusFinished, s.Match().Status())
	assert.True(t, store.closed)
}
