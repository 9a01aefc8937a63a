package spell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/ruleset"
)

func warlocks(t *testing.T) (*ruleset.Config, *Catalog) {
	t.Helper()
	rules, err := ruleset.Load("warlocks")
	require.NoError(t, err)
	return rules, NewCatalog(rules)
}

func TestCompilePattern(t *testing.T) {
	rules, _ := warlocks(t)

	p := CompilePattern("SFW", rules.Offhand)
	assert.Equal(t, "WFS", p.Main)
	assert.Equal(t, "", p.Off)
	assert.Equal(t, 1, p.Hands)

	p = CompilePattern("cDPW", rules.Offhand)
	assert.Equal(t, "WPDC", p.Main)
	assert.Equal(t, "...C", p.Off)
	assert.Equal(t, 1, p.Hands)

	p = CompilePattern("PPws", rules.Offhand)
	assert.Equal(t, "SWPP", p.Main)
	assert.Equal(t, "SW", p.Off)
	assert.Equal(t, 2, p.Hands)
}

func TestMatchGoblin(t *testing.T) {
	_, cat := warlocks(t)

	// Right hand showed S, F, W over three turns.
	left, right := cat.Match(1, History{Left: "---", Right: "WFS"})
	assert.Empty(t, left)
	require.Len(t, right, 1)
	assert.Equal(t, "summon_goblin", right[0].Code)
	assert.Equal(t, Right, right[0].Hand)
	assert.Equal(t, 3, right[0].Length)
	assert.Equal(t, 1, right[0].Caster)
}

func TestMatchIsPrefixSound(t *testing.T) {
	_, cat := warlocks(t)
	histories := []History{
		{Left: "PFSW", Right: "DPS"},
		{Left: "WFSP", Right: "WFSP"},
		{Left: "CWPP", Right: "CWDD"},
		{Left: "SD", Right: "P"},
	}
	for _, h := range histories {
		left, right := cat.Match(2, h)
		for _, c := range append(left, right...) {
			d, err := cat.Definition(c.SpellID)
			require.NoError(t, err)
			found := false
			for _, p := range d.Compiled {
				if p.Len() != c.Length {
					continue
				}
				if prefixMatch(p.Main, h.hand(c.Hand)) && prefixMatch(p.Off, h.hand(c.Hand.Other())) {
					found = true
				}
			}
			assert.True(t, found, "%s on %s", c.Code, c.Hand)
		}
	}
}

func TestMatchTwoHanded(t *testing.T) {
	_, cat := warlocks(t)

	// Magic mirror needs C then W on both hands.
	left, right := cat.Match(1, History{Left: "WC", Right: "WC"})
	assert.Contains(t, codes(left), "magic_mirror")
	assert.Contains(t, codes(right), "magic_mirror")

	left, right = cat.Match(1, History{Left: "WC", Right: "PC"})
	assert.NotContains(t, codes(left), "magic_mirror")
	assert.NotContains(t, codes(right), "magic_mirror")
}

func TestMatchLongestPatternAndOrder(t *testing.T) {
	_, cat := warlocks(t)

	// WPP completes counter spell and shield on the same hand.
	left, _ := cat.Match(1, History{Left: "PPW", Right: "-"})
	assert.Equal(t, []string{"counter_spell", "shield"}, codes(left))
}

func TestMatchIgnoresStabsAndNothing(t *testing.T) {
	_, cat := warlocks(t)
	left, right := cat.Match(1, History{Left: ">>", Right: "--"})
	assert.Empty(t, left)
	assert.Empty(t, right)
}

func TestMatchMonsterSummons(t *testing.T) {
	_, cat := warlocks(t)
	got := cat.MatchMonsterSummons(3, History{Left: "FS", Right: "SP"})
	require.NotEmpty(t, got)
	assert.Equal(t, "summon_goblin", got[0].Code)
	assert.Equal(t, Left, got[0].Hand)
}

func TestHandID(t *testing.T) {
	assert.Equal(t, 32, HandID(3, Right))
	p, h, ok := SplitHandID(32)
	assert.True(t, ok)
	assert.Equal(t, 3, p)
	assert.Equal(t, Right, h)
	_, _, ok = SplitHandID(101)
	assert.False(t, ok)
	_, _, ok = SplitHandID(5)
	assert.False(t, ok)
}

func TestCatalogLookup(t *testing.T) {
	_, cat := warlocks(t)
	_, err := cat.Definition(999)
	assert.ErrorIs(t, err, ErrUnknownSpell)
	d, err := cat.ByCode("summon_troll")
	require.NoError(t, err)
	assert.True(t, d.Summon())
	assert.Equal(t, "troll", d.MonsterType())
}

func codes(cs []Candidate) []string {
	var out []string
	for _, c := range cs {
		out = append(out, c.Code)
	}
	return out
}
