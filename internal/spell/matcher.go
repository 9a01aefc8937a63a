package spell

// Hand identifies one of a participant's hands.
type Hand int

const (
	Left  Hand = 1
	Right Hand = 2
)

// Other returns the opposite hand.
func (h Hand) Other() Hand {
	if h == Left {
		return Right
	}
	return Left
}

func (h Hand) String() string {
	switch h {
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "none"
}

// HandID is the actor-like id of a participant's hand, used to aim at the
// monster that hand is summoning this turn.
func HandID(participant int, h Hand) int { return participant*10 + int(h) }

// SplitHandID reverses HandID. ok is false when id is not a hand id.
func SplitHandID(id int) (participant int, h Hand, ok bool) {
	if id < 11 || id > 99 {
		return 0, 0, false
	}
	h = Hand(id % 10)
	if h != Left && h != Right {
		return 0, 0, false
	}
	return id / 10, h, true
}

// History is a participant's usable gesture history per hand, most recent
// gesture first.
type History struct {
	Left  string
	Right string
}

func (h History) hand(which Hand) string {
	if which == Left {
		return h.Left
	}
	return h.Right
}

// Candidate is a spell whose pattern is completed by a hand this turn.
type Candidate struct {
	SpellID  int
	Code     string
	Priority int
	Caster   int
	// Hand is the main hand completing the pattern.
	Hand   Hand
	Hands  int
	Length int
}

// Match returns the spells completed this turn by each hand as main hand,
// in catalog order. A spell appears at most once per hand, with its longest
// matching pattern.
func (c *Catalog) Match(caster int, h History) (left, right []Candidate) {
	for _, d := range c.defs {
		if cand, ok := matchHand(d, caster, h, Left, 0); ok {
			left = append(left, cand)
		}
		if cand, ok := matchHand(d, caster, h, Right, 0); ok {
			right = append(right, cand)
		}
	}
	return left, right
}

// MatchMonsterSummons returns the summon spells each hand would complete
// with one more gesture.
func (c *Catalog) MatchMonsterSummons(caster int, h History) []Candidate {
	var out []Candidate
	for _, d := range c.defs {
		if !d.Summon() {
			continue
		}
		for _, which := range []Hand{Left, Right} {
			if cand, ok := matchHand(d, caster, h, which, 1); ok {
				out = append(out, cand)
			}
		}
	}
	return out
}

func matchHand(d *Definition, caster int, h History, main Hand, skip int) (Candidate, bool) {
	best := -1
	for i, p := range d.Compiled {
		if p.Len() <= skip {
			continue
		}
		if !prefixMatch(p.Main[skip:], h.hand(main)) {
			continue
		}
		off := ""
		if len(p.Off) > skip {
			off = p.Off[skip:]
		}
		if !prefixMatch(off, h.hand(main.Other())) {
			continue
		}
		if best < 0 || p.Len() > d.Compiled[best].Len() {
			best = i
		}
	}
	if best < 0 {
		return Candidate{}, false
	}
	p := d.Compiled[best]
	return Candidate{
		SpellID:  d.ID,
		Code:     d.Code,
		Priority: d.Priority,
		Caster:   caster,
		Hand:     main,
		Hands:    p.Hands,
		Length:   p.Len(),
	}, true
}

func prefixMatch(sig, hist string) bool {
	if len(sig) > len(hist) {
		return false
	}
	for i := 0; i < len(sig); i++ {
		if sig[i] != Wildcard && sig[i] != hist[i] {
			return false
		}
	}
	return true
}
