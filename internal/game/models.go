package game

import (
	"math"
	"strings"
)

// Element is one of the fixed affiliation tags a combatant or a spell
// requirement can carry.
type Element string

const (
	ElementNone     Element = ""
	ElementFire     Element = "fire"
	ElementWater    Element = "water"
	ElementEarth    Element = "earth"
	ElementAir      Element = "air"
	ElementNature   Element = "nature"
	ElementElectric Element = "electric"
	ElementLight    Element = "light"
	ElementDark     Element = "dark"
)

// Elements lists every valid element in declaration order.
var Elements = []Element{
	ElementFire,
	ElementWater,
	ElementEarth,
	ElementAir,
	ElementNature,
	ElementElectric,
	ElementLight,
	ElementDark,
}

// ParseElement normalizes a textual element tag. The empty string parses to
// ElementNone and is valid only where an element is optional.
func ParseElement(s string) (Element, bool) {
	e := Element(strings.ToLower(strings.TrimSpace(s)))
	if e == ElementNone {
		return ElementNone, true
	}
	for _, known := range Elements {
		if e == known {
			return e, true
		}
	}
	return ElementNone, false
}

// TargetShape describes which participants an effect lands on.
type TargetShape string

const (
	TargetSelf       TargetShape = "self"
	TargetAlly       TargetShape = "ally"
	TargetAllAllies  TargetShape = "all_allies"
	TargetEnemy      TargetShape = "enemy"
	TargetAllEnemies TargetShape = "all_enemies"
)

func (s TargetShape) Valid() bool {
	switch s {
	case TargetSelf, TargetAlly, TargetAllAllies, TargetEnemy, TargetAllEnemies:
		return true
	}
	return false
}

// SingleTarget reports whether an explicit target choice is meaningful for
// the shape.
func (s TargetShape) SingleTarget() bool {
	return s == TargetAlly || s == TargetEnemy
}

// EffectKind is the atomic outcome an effect produces.
type EffectKind string

const (
	EffectDamage         EffectKind = "damage"
	EffectHeal           EffectKind = "heal"
	EffectInitiativeBuff EffectKind = "initiative_buff"
	EffectDamageBuff     EffectKind = "damage_buff"
)

func (k EffectKind) Valid() bool {
	switch k {
	case EffectDamage, EffectHeal, EffectInitiativeBuff, EffectDamageBuff:
		return true
	}
	return false
}

// Effect is one step of a spell. Magnitudes are authored constants.
type Effect struct {
	Target    TargetShape `json:"target" yaml:"target"`
	Kind      EffectKind  `json:"kind" yaml:"kind"`
	Magnitude int         `json:"magnitude" yaml:"magnitude"`
}

// ElementRequirement is one alternative a combatant may satisfy to learn a
// spell. A nil tag means "any".
type ElementRequirement struct {
	Primary   *Element `json:"primary,omitempty"`
	Secondary *Element `json:"secondary,omitempty"`
}

// SatisfiedBy reports whether the combatant's tags match this alternative.
func (r ElementRequirement) SatisfiedBy(c *Combatant) bool {
	if r.Primary != nil && c.Primary != *r.Primary {
		return false
	}
	if r.Secondary != nil && (c.Secondary == ElementNone || c.Secondary != *r.Secondary) {
		return false
	}
	return true
}

// Spell is an action definition: an ordered list of effects plus the rules
// deciding who may learn it.
type Spell struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Description  string               `json:"description"`
	MinLevel     int                  `json:"min_level"`
	Requirements []ElementRequirement `json:"requirements"`
	Effects      []Effect             `json:"effects"`
}

// CanBeLearnedBy reports whether c meets the level gate and at least one
// element alternative (or the spell declares none).
func (s *Spell) CanBeLearnedBy(c *Combatant) bool {
	if c.Level() < s.MinLevel {
		return false
	}
	if len(s.Requirements) == 0 {
		return true
	}
	for _, r := range s.Requirements {
		if r.SatisfiedBy(c) {
			return true
		}
	}
	return false
}

// SingleTargetShapes returns the distinct single-target shapes used by the
// spell's effects, in declaration order.
func (s *Spell) SingleTargetShapes() []TargetShape {
	var out []TargetShape
	for _, e := range s.Effects {
		if !e.Target.SingleTarget() {
			continue
		}
		seen := false
		for _, o := range out {
			if o == e.Target {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, e.Target)
		}
	}
	return out
}

func (s *Spell) clone() *Spell {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Requirements = append([]ElementRequirement(nil), s.Requirements...)
	cp.Effects = append([]Effect(nil), s.Effects...)
	return &cp
}

// Combatant is the immutable definition of a creature for one battle.
type Combatant struct {
	Name           string   `json:"name"`
	Primary        Element  `json:"primary"`
	Secondary      Element  `json:"secondary,omitempty"`
	MaxHealth      int      `json:"max_health"`
	MaxMana        int      `json:"max_mana"`
	BaseDamage     int      `json:"base_damage"`
	BaseInitiative int      `json:"base_initiative"`
	Experience     int      `json:"experience"`
	Spells         []*Spell `json:"spells"`
}

// Level derives the combatant level from its experience.
func (c *Combatant) Level() int {
	return Level(c.Experience)
}

// KnownSpell returns the known spell with the given id, or nil.
func (c *Combatant) KnownSpell(id string) *Spell {
	for _, s := range c.Spells {
		if s != nil && s.ID == id {
			return s
		}
	}
	return nil
}

// Clone returns a deep copy so a battle never aliases catalog data.
func (c *Combatant) Clone() *Combatant {
	cp := *c
	cp.Spells = make([]*Spell, 0, len(c.Spells))
	for _, s := range c.Spells {
		cp.Spells = append(cp.Spells, s.clone())
	}
	return &cp
}

// experiencePerLevelStep scales the square-root level curve.
const experiencePerLevelStep = 50

// Level maps experience to a level: 1 + floor(sqrt(experience/50)).
// Negative experience is treated as zero. Higher experience never yields a
// lower level.
func Level(experience int) int {
	if experience <= 0 {
		return 1
	}
	steps := experience / experiencePerLevelStep
	root := int(math.Sqrt(float64(steps)))
	for root*root > steps {
		root--
	}
	for (root+1)*(root+1) <= steps {
		root++
	}
	return 1 + root
}

// ExperienceForLevel returns the minimum experience that yields level.
func ExperienceForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	n := level - 1
	return n * n * experiencePerLevelStep
}
