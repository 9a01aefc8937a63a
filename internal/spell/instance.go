package spell

// State of a spell instance as it moves through a turn.
type State string

const (
	StateCreated   State = "created"
	StateCast      State = "cast"
	StateResolved  State = "resolved"
	StateCountered State = "countered"
	StateReflected State = "reflected"
	StateFizzled   State = "fizzled"
	StateDelayed   State = "delayed"
)

// Instance is one cast occurrence of a spell.
type Instance struct {
	SpellID  int    `json:"spell_id"`
	Code     string `json:"code"`
	Priority int    `json:"priority"`
	Caster   int    `json:"caster"`
	Target   int    `json:"target"`
	Hand     Hand   `json:"hand"`
	Turn     int    `json:"turn"`
	Duration int    `json:"duration"`

	// Resolve is false once the instance has been removed from
	// consideration, e.g. countered, clashed or dispelled.
	Resolve  bool  `json:"resolve"`
	Delayed  bool  `json:"delayed,omitempty"`
	Mirrored bool  `json:"mirrored,omitempty"`
	State    State `json:"state"`
}

// NewInstance creates a fresh instance of d cast by caster with hand.
func NewInstance(d *Definition, caster int, hand Hand, turn int) *Instance {
	return &Instance{
		SpellID:  d.ID,
		Code:     d.Code,
		Priority: d.Priority,
		Caster:   caster,
		Hand:     hand,
		Turn:     turn,
		Duration: d.Duration,
		State:    StateCreated,
	}
}

// Fizzle removes the instance from resolution with the given final state.
func (s *Instance) Fizzle(st State) {
	s.Resolve = false
	s.State = st
}

// Clone returns a copy detached from the original.
func (s *Instance) Clone() *Instance {
	cp := *s
	return &cp
}
