package storage

import (
	"time"

	"github.com/zawodev/zawomons/internal/game"
)

// SpellRecord is the persisted form of a spell. The id is the spell slug.
type SpellRecord struct {
	ID           string `gorm:"primaryKey"`
	Name         string `gorm:"not null"`
	Description  string
	MinLevel     int
	Requirements []RequirementRecord `gorm:"foreignKey:SpellID;constraint:OnDelete:CASCADE"`
	Effects      []EffectRecord      `gorm:"foreignKey:SpellID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (SpellRecord) TableName() string { return "spells" }

// RequirementRecord is one element alternative of a spell.
type RequirementRecord struct {
	ID               uint   `gorm:"primaryKey"`
	SpellID          string `gorm:"index;not null"`
	Position         int
	PrimaryElement   string
	SecondaryElement string
}

func (RequirementRecord) TableName() string { return "spell_requirements" }

// EffectRecord is one step of a spell; Position keeps declaration order.
type EffectRecord struct {
	ID        uint   `gorm:"primaryKey"`
	SpellID   string `gorm:"index;not null"`
	Position  int
	Target    string `gorm:"not null"`
	Kind      string `gorm:"not null"`
	Magnitude int
}

func (EffectRecord) TableName() string { return "spell_effects" }

// CombatantRecord is a catalog creature keyed by its name slug.
type CombatantRecord struct {
	NameKey          string `gorm:"primaryKey"`
	Name             string `gorm:"not null"`
	PrimaryElement   string `gorm:"not null"`
	SecondaryElement string
	MaxHealth        int
	MaxMana          int
	BaseDamage       int
	BaseInitiative   int
	Experience       int
	Spells           []CombatantSpellRecord `gorm:"foreignKey:CombatantKey;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (CombatantRecord) TableName() string { return "combatants" }

// CombatantSpellRecord links a combatant to a known spell in order.
type CombatantSpellRecord struct {
	CombatantKey string `gorm:"primaryKey"`
	SpellID      string `gorm:"primaryKey"`
	Position     int
}

func (CombatantSpellRecord) TableName() string { return "combatant_spells" }

func spellToRecord(s *game.Spell) SpellRecord {
	r := SpellRecord{ID: s.ID, Name: s.Name, Description: s.Description, MinLevel: s.MinLevel}
	for i, req := range s.Requirements {
		rr := RequirementRecord{SpellID: s.ID, Position: i}
		if req.Primary != nil {
			rr.PrimaryElement = string(*req.Primary)
		}
		if req.Secondary != nil {
			rr.SecondaryElement = string(*req.Secondary)
		}
		r.Requirements = append(r.Requirements, rr)
	}
	for i, e := range s.Effects {
		r.Effects = append(r.Effects, EffectRecord{
			SpellID:   s.ID,
			Position:  i,
			Target:    string(e.Target),
			Kind:      string(e.Kind),
			Magnitude: e.Magnitude,
		})
	}
	return r
}

func spellFromRecord(r SpellRecord) *game.Spell {
	s := &game.Spell{ID: r.ID, Name: r.Name, Description: r.Description, MinLevel: r.MinLevel}
	for _, rr := range r.Requirements {
		var req game.ElementRequirement
		if rr.PrimaryElement != "" {
			e := game.Element(rr.PrimaryElement)
			req.Primary = &e
		}
		if rr.SecondaryElement != "" {
			e := game.Element(rr.SecondaryElement)
			req.Secondary = &e
		}
		s.Requirements = append(s.Requirements, req)
	}
	for _, er := range r.Effects {
		s.Effects = append(s.Effects, game.Effect{
			Target:    game.TargetShape(er.Target),
			Kind:      game.EffectKind(er.Kind),
			Magnitude: er.Magnitude,
		})
	}
	return s
}

func combatantToRecord(key string, c *game.Combatant) CombatantRecord {
	r := CombatantRecord{
		NameKey:          key,
		Name:             c.Name,
		PrimaryElement:   string(c.Primary),
		SecondaryElement: string(c.Secondary),
		MaxHealth:        c.MaxHealth,
		MaxMana:          c.MaxMana,
		BaseDamage:       c.BaseDamage,
		BaseInitiative:   c.BaseInitiative,
		Experience:       c.Experience,
	}
	for i, s := range c.Spells {
		r.Spells = append(r.Spells, CombatantSpellRecord{CombatantKey: key, SpellID: s.ID, Position: i})
	}
	return r
}

// combatantFromRecord resolves known spell ids through spells. Ids missing
// from the map are dropped.
func combatantFromRecord(r CombatantRecord, spells map[string]*game.Spell) *game.Combatant {
	c := &game.Combatant{
		Name:           r.Name,
		Primary:        game.Element(r.PrimaryElement),
		Secondary:      game.Element(r.SecondaryElement),
		MaxHealth:      r.MaxHealth,
		MaxMana:        r.MaxMana,
		BaseDamage:     r.BaseDamage,
		BaseInitiative: r.BaseInitiative,
		Experience:     r.Experience,
	}
	for _, link := range r.Spells {
		if s, ok := spells[link.SpellID]; ok {
			c.Spells = append(c.Spells, s)
		}
	}
	return c
}
