package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/match"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/spell"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999"))

	turnBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(0, 1)

	damageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F25D94"))

	resultStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#04B575"))
)

// phrases maps log codes to the verb shown between actor and target.
var phrases = map[string]string{
	match.CodeGestures:             "shows",
	match.CodeGestureAmnesia:       "repeats the last gestures",
	match.CodeGestureConfused:      "is confused and shows",
	match.CodeGestureCharmed:       "is charmed and shows",
	match.CodeGestureParalyzed:     "is paralysed and shows",
	match.CodeGestureFear:          "is too afraid and shows",
	match.CodeEffectActive:         "is under",
	match.CodeCastSpell:            "casts",
	match.CodeCastDelayed:          "releases",
	match.CodeSpellDelayed:         "banks",
	match.CodeSpellPermanent:       "makes permanent",
	match.CodeTargetedNobody:       "aims at nobody with",
	match.CodeBlindMiss:            "cannot see",
	match.CodeInvisibleMiss:        "cannot find",
	match.CodeReflected:            "reflects onto",
	match.CodeInfiniteReflection:   "is caught between mirrors with",
	match.CodeCountered:            "is countered on",
	match.CodeDispelled:            "is dispelled on",
	match.CodeSummon:               "summons",
	match.CodeElementalMerge:       "merges with",
	match.CodeElementalsCancel:     "cancels out",
	match.CodeStormsCancel:         "storms cancel each other",
	match.CodeStormElementalCancel: "storm and elemental destroy each other:",
	match.CodeElementalAbsorbed:    "storm absorbs",
	match.CodeMindClash:            "mind spells cancel on",
	match.CodeEffectApplied:        "enchants",
	match.CodeEffectRemoved:        "removes enchantments from",
	match.CodeNoEffect:             "has no effect on",
	match.CodeDamage:               "hurts",
	match.CodeHeal:                 "heals",
	match.CodeResisted:             "is resisted by",
	match.CodeShielded:             "is shielded by",
	match.CodeControlTransfer:      "takes control of",
	match.CodeMonsterAttack:        "attacks",
	match.CodeMonsterNoTarget:      "has nobody to attack",
	match.CodeMonsterInvalid:       "cannot attack",
	match.CodeMonsterParalyzed:     "is paralysed",
	match.CodeStab:                 "stabs",
	match.CodeDeath:                "dies",
	match.CodeMonsterDestroyed:     "is destroyed",
	match.CodeSurrender:            "surrenders",
	match.CodeSuicide:              "takes their own life",
	match.CodeRevived:              "rises from the dead",
	match.CodeVictory:              "is victorious",
	match.CodeDraw:                 "the match is a draw",
	match.CodeTurnType:             "next turn is",
}

// transcript renders log entries for one point of view.
type transcript struct {
	m       *match.Match
	catalog *spell.Catalog
}

func (t transcript) name(id int) string {
	if a, ok := t.m.Actor(id, false); ok {
		if a.IsMonster() {
			return fmt.Sprintf("%s #%d", a.Name, a.ID)
		}
		return a.Name
	}
	if p, h, ok := spell.SplitHandID(id); ok {
		return fmt.Sprintf("%s's %s hand", t.name(p), h)
	}
	return "#" + strconv.Itoa(id)
}

func (t transcript) describe(e match.Entry) string {
	var b strings.Builder
	if e.Actor != 0 {
		b.WriteString(t.name(e.Actor) + " ")
	}
	phrase, ok := phrases[e.Code]
	if !ok {
		phrase = e.Code
	}
	b.WriteString(phrase)
	if e.Spell != 0 {
		if d, err := t.catalog.Definition(e.Spell); err == nil {
			b.WriteString(" " + d.Name)
		}
	}
	if e.Target != 0 {
		b.WriteString(" " + t.name(e.Target))
	}
	if e.AttackTarget != 0 {
		b.WriteString(" " + t.name(e.AttackTarget))
	}
	if e.Text != "" {
		b.WriteString(" " + e.Text)
	}
	if e.Damage != 0 {
		b.WriteString(damageStyle.Render(fmt.Sprintf(" (%d)", e.Damage)))
	}
	return b.String()
}

// render writes every visible entry grouped into one box per turn.
func (t transcript) render(w io.Writer, pov int) {
	byTurn := map[int][]string{}
	var turns []int
	for _, e := range t.m.LogFor(pov) {
		if _, seen := byTurn[e.Turn]; !seen {
			turns = append(turns, e.Turn)
		}
		byTurn[e.Turn] = append(byTurn[e.Turn], t.describe(e))
	}
	for _, turn := range turns {
		title := titleStyle.Render(fmt.Sprintf("Turn %d", turn))
		fmt.Fprintln(w, turnBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(byTurn[turn], "\n"))))
	}
	fmt.Fprintln(w, t.summary())
}

func (t transcript) summary() string {
	var lines []string
	for _, a := range t.m.Actors(false) {
		state := "dead"
		if a.Alive {
			state = fmt.Sprintf("%d/%d HP", a.HP, a.MaxHP)
		}
		lines = append(lines, infoStyle.Render(fmt.Sprintf("%-20s %s", t.name(a.ID), state)))
	}
	status := fmt.Sprintf("Match %d: %s", t.m.ID, t.m.Status())
	if t.m.Winners != 0 {
		status += fmt.Sprintf(", team %d wins", t.m.Winners)
	}
	return lipgloss.JoinVertical(lipgloss.Left, append([]string{resultStyle.Render(status)}, lines...)...)
}

// parsePOV accepts "global", "public" or a participant id.
func parsePOV(s string) (int, error) {
	switch s {
	case "", "global":
		return match.POVGlobal, nil
	case "public":
		return match.POVPublic, nil
	}
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid point of view %q", s)
	}
	return id, nil
}
