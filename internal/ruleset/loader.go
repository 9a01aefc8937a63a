package ruleset

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed rulesets/*.yaml
var builtin embed.FS

var (
	// ErrUnknownRuleset is returned when no data directory nor the built-in
	// tables provide the requested ruleset.
	ErrUnknownRuleset = errors.New("unknown ruleset")
	// ErrUnknownMonster is returned for monster types missing from the table.
	ErrUnknownMonster = errors.New("unknown monster type")
	// ErrInvalidRuleset wraps every validation failure of a loaded table.
	ErrInvalidRuleset = errors.New("invalid ruleset")
)

// Loader resolves rulesets by name through a directory fallback chain, then
// the tables compiled into the binary.
type Loader struct {
	dataDirs []string
}

// NewLoader creates a loader searching dataDirs in order.
func NewLoader(dataDirs []string) *Loader {
	return &Loader{dataDirs: dataDirs}
}

// Load finds, decodes and validates the named ruleset.
func (l *Loader) Load(name string) (*Config, error) {
	ref := fmt.Sprintf("%s.yaml", strings.ToLower(name))
	for _, dir := range l.dataDirs {
		raw, err := os.ReadFile(filepath.Join(dir, "rulesets", ref))
		if err == nil {
			return Parse(raw)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read ruleset %s: %w", ref, err)
		}
	}
	raw, err := builtin.ReadFile("rulesets/" + ref)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, ErrUnknownRuleset)
	}
	return Parse(raw)
}

// Load resolves a ruleset with the given data directory chain.
func Load(name string, dataDirs ...string) (*Config, error) {
	return NewLoader(dataDirs).Load(name)
}

// Builtin lists the rulesets compiled into the binary.
func Builtin() []string {
	entries, err := builtin.ReadDir("rulesets")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// Parse decodes a YAML ruleset and prepares its lookup tables.
func Parse(raw []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	var c Config
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to decode ruleset: %w", err)
	}
	if err := c.prepare(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) prepare() error {
	if c.MaxSpellLength <= 0 {
		return fmt.Errorf("%w: max_spell_length must be positive", ErrInvalidRuleset)
	}
	if c.Lookahead <= 0 {
		c.Lookahead = 1
	}
	if c.MaxHP <= 0 {
		return fmt.Errorf("%w: max_hp must be positive", ErrInvalidRuleset)
	}
	if c.MaxParticipants <= 0 || c.MaxParticipants > 8 {
		c.MaxParticipants = 8
	}

	c.effects = make(map[string]*EffectDef, len(c.Effects))
	for i := range c.Effects {
		e := &c.Effects[i]
		if !e.Decay.valid() {
			return fmt.Errorf("%w: effect %s has unknown decay %q", ErrInvalidRuleset, e.Name, e.Decay)
		}
		if e.MaxActive <= 0 {
			return fmt.Errorf("%w: effect %s needs max_active", ErrInvalidRuleset, e.Name)
		}
		if _, dup := c.effects[e.Name]; dup {
			return fmt.Errorf("%w: duplicate effect %s", ErrInvalidRuleset, e.Name)
		}
		c.effects[e.Name] = e
	}
	for _, name := range RequiredEffects {
		if _, ok := c.effects[name]; !ok {
			return fmt.Errorf("%w: missing effect %s", ErrInvalidRuleset, name)
		}
	}

	c.monsters = make(map[string]*MonsterDef, len(c.Monsters))
	c.damage = make(map[string]*Formula, len(c.Monsters))
	for i := range c.Monsters {
		m := &c.Monsters[i]
		if m.HP <= 0 {
			return fmt.Errorf("%w: monster %s needs hp", ErrInvalidRuleset, m.Type)
		}
		if m.DamageType == "" {
			m.DamageType = DamagePhysical
		}
		f, err := CompileFormula(m.Damage)
		if err != nil {
			return fmt.Errorf("%w: monster %s: %v", ErrInvalidRuleset, m.Type, err)
		}
		for name := range m.Effects {
			if _, ok := c.effects[name]; !ok {
				return fmt.Errorf("%w: monster %s has unknown effect %s", ErrInvalidRuleset, m.Type, name)
			}
		}
		c.monsters[m.Type] = m
		c.damage[m.Type] = f
	}

	c.spells = make(map[int]*SpellDef, len(c.Spells))
	c.codes = make(map[string]*SpellDef, len(c.Spells))
	for i := range c.Spells {
		s := &c.Spells[i]
		if s.ID <= 0 {
			return fmt.Errorf("%w: spell %s needs a positive id", ErrInvalidRuleset, s.Code)
		}
		if _, dup := c.spells[s.ID]; dup {
			return fmt.Errorf("%w: duplicate spell id %d", ErrInvalidRuleset, s.ID)
		}
		if len(s.Patterns) == 0 {
			return fmt.Errorf("%w: spell %s has no pattern", ErrInvalidRuleset, s.Code)
		}
		for _, p := range s.Patterns {
			if len(p) > c.MaxSpellLength {
				return fmt.Errorf("%w: spell %s pattern %s exceeds max_spell_length", ErrInvalidRuleset, s.Code, p)
			}
			if err := c.validPattern(p); err != nil {
				return fmt.Errorf("%w: spell %s: %v", ErrInvalidRuleset, s.Code, err)
			}
		}
		switch s.Target {
		case TargetSelf, TargetOpponent, TargetNobody:
		case "":
			s.Target = TargetNobody
		default:
			return fmt.Errorf("%w: spell %s has unknown target %q", ErrInvalidRuleset, s.Code, s.Target)
		}
		c.spells[s.ID] = s
		c.codes[s.Code] = s
	}
	return nil
}

func (c *Config) validPattern(p string) error {
	for _, r := range p {
		g := strings.ToUpper(string(r))
		if !strings.Contains("FPSWDC", g) {
			return fmt.Errorf("pattern %s has unknown gesture %q", p, r)
		}
	}
	return nil
}
