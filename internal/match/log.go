package match

// Category groups log entries; gesture entries are private to their actor.
type Category string

const (
	CategoryGesture Category = "gesture"
	CategorySpell   Category = "spell"
	CategoryAttack  Category = "attack"
	CategoryEffect  Category = "effect"
	CategoryDeath   Category = "death"
	CategoryMatch   Category = "match"
	CategoryInfo    Category = "info"
)

// Log codes. Presentation layers map them to text.
const (
	CodeGestures             = "gestures"
	CodeGestureAmnesia       = "gestureAmnesia"
	CodeGestureConfused      = "gestureConfused"
	CodeGestureCharmed       = "gestureCharmed"
	CodeGestureParalyzed     = "gestureParalyzed"
	CodeGestureFear          = "gestureFear"
	CodeEffectActive         = "effectActive"
	CodeCastSpell            = "castSpell"
	CodeCastDelayed          = "castDelayedSpell"
	CodeSpellDelayed         = "spellDelayed"
	CodeSpellPermanent       = "spellPermanent"
	CodeTargetedNobody       = "targetedNobody"
	CodeBlindMiss            = "blindMiss"
	CodeInvisibleMiss        = "invisibleMiss"
	CodeReflected            = "effectReflected"
	CodeInfiniteReflection   = "effectInfiniteReflection"
	CodeCountered            = "effectCountered"
	CodeDispelled            = "effectDispelled"
	CodeSummon               = "summonMonster"
	CodeElementalMerge       = "effectElementalMerge"
	CodeElementalsCancel     = "effectFireElementalIceElementalCancel"
	CodeStormsCancel         = "effectFireStormIceStormCancel"
	CodeStormElementalCancel = "effectStormElementalCancel"
	CodeElementalAbsorbed    = "effectElementalAbsorbed"
	CodeMindClash            = "effectMindspellsCancel"
	CodeEffectApplied        = "effectApplied"
	CodeEffectRemoved        = "effectRemoved"
	CodeNoEffect             = "effectNone"
	CodeDamage               = "damage"
	CodeHeal                 = "heal"
	CodeResisted             = "resisted"
	CodeShielded             = "shielded"
	CodeControlTransfer      = "controlTransfer"
	CodeMonsterAttack        = "monsterAttack"
	CodeMonsterNoTarget      = "monsterAttackNobody"
	CodeMonsterInvalid       = "monsterAttackInvalid"
	CodeMonsterParalyzed     = "monsterParalyzed"
	CodeStab                 = "stab"
	CodeDeath                = "death"
	CodeMonsterDestroyed     = "monsterDestroyed"
	CodeSurrender            = "surrender"
	CodeSuicide              = "suicide"
	CodeRevived              = "revived"
	CodeVictory              = "victory"
	CodeDraw                 = "draw"
	CodeTurnType             = "turnType"
)

// Entry is one structured event of the match log. Entries are never mutated
// once written.
type Entry struct {
	Turn         int      `json:"turn"`
	Category     Category `json:"category"`
	Code         string   `json:"code"`
	Actor        int      `json:"actor,omitempty"`
	Target       int      `json:"target,omitempty"`
	AttackTarget int      `json:"attack_target,omitempty"`
	Spell        int      `json:"spell,omitempty"`
	Damage       int      `json:"damage,omitempty"`
	Hand         int      `json:"hand,omitempty"`
	Text         string   `json:"text,omitempty"`
}

// Points of view for visibility filtering.
const (
	POVGlobal = -1
	POVPublic = 0
)

// Log appends an entry stamped with the current turn.
func (m *Match) Log(e Entry) {
	if e.Turn == 0 {
		e.Turn = m.Turn
	}
	m.log = append(m.log, e)
}

// Entries returns the full log.
func (m *Match) Entries() []Entry {
	out := make([]Entry, len(m.log))
	copy(out, m.log)
	return out
}

// EntriesFor returns the log entries of one turn.
func (m *Match) EntriesFor(turn int) []Entry {
	var out []Entry
	for _, e := range m.log {
		if e.Turn == turn {
			out = append(out, e)
		}
	}
	return out
}

// LogFor returns the entries visible from pov.
func (m *Match) LogFor(pov int) []Entry {
	var out []Entry
	for _, e := range m.log {
		if m.Visible(e, pov) {
			out = append(out, e)
		}
	}
	return out
}

// Visible decides whether pov can see e, using the visibility snapshots
// taken at the start of the entry's turn.
func (m *Match) Visible(e Entry, pov int) bool {
	if pov == POVGlobal {
		return true
	}
	if e.Category == CategoryGesture {
		return pov != POVPublic && e.Actor == pov
	}
	var invisible, outOfTime bool
	if a, ok := m.actors[e.Actor]; ok && a.Ledger.Has(e.Turn) {
		st := a.Ledger.State(e.Turn)
		invisible, outOfTime = st.Invisible, st.OutOfTime
	}
	if pov == POVPublic {
		if invisible || outOfTime {
			return false
		}
		for _, p := range m.participants {
			if !p.Ledger.Has(e.Turn) {
				continue
			}
			st := p.Ledger.State(e.Turn)
			if st.Alive && st.Blind {
				return false
			}
		}
		return true
	}
	if e.Actor == pov {
		return true
	}
	viewer, ok := m.actors[pov]
	if !ok || !viewer.Ledger.Has(e.Turn) {
		return !invisible && !outOfTime
	}
	vs := viewer.Ledger.State(e.Turn)
	if vs.Blind {
		return false
	}
	// Outside of time nothing is hidden.
	if vs.OutOfTime {
		return true
	}
	return !invisible && !outOfTime
}
