package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/match"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/ruleset"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/spell"
)

func TestParsePOV(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"global", match.POVGlobal, false},
		{"", match.POVGlobal, false},
		{"public", match.POVPublic, false},
		{"2", 2, false},
		{"0", 0, true},
		{"bob", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parsePOV(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranscriptDescribe(t *testing.T) {
	rules, err := ruleset.Load("warlocks")
	require.NoError(t, err)
	m, err := match.New(3, rules, []match.ParticipantSpec{
		{ID: 1, Name: "Alice", Team: 1},
		{ID: 2, Name: "Bob", Team: 2},
	})
	require.NoError(t, err)
	catalog := spell.NewCatalog(rules)
	missile, err := catalog.ByCode("magic_missile")
	require.NoError(t, err)

	tr := transcript{m: m, catalog: catalog}
	assert.Equal(t, "Alice casts "+missile.Name+" Bob",
		tr.describe(match.Entry{Code: match.CodeCastSpell, Actor: 1, Target: 2, Spell: missile.ID}))
	assert.Equal(t, "Bob's left hand", tr.name(spell.HandID(2, spell.Left)))
	assert.Equal(t, "Bob surrenders", tr.describe(match.Entry{Code: match.CodeSurrender, Actor: 2}))

	m.Log(match.Entry{Turn: 1, Category: match.CategorySpell, Code: match.CodeCastSpell, Actor: 1, Target: 2, Spell: missile.ID})
	var buf bytes.Buffer
	tr.render(&buf, match.POVGlobal)
	assert.Contains(t, buf.String(), "Turn 1")
	assert.Contains(t, buf.String(), "Alice casts")
}

func TestWriteVersion(t *testing.T) {
	var buf bytes.Buffer
	writeVersion(&buf, true)
	assert.Equal(t, Version+"\n", buf.String())

	buf.Reset()
	writeVersion(&buf, false)
	out := buf.String()
	assert.Contains(t, out, "spellweavers "+Version)
	assert.Contains(t, out, "rulesets: spellbinder, warlocks")
}
