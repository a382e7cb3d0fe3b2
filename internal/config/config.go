package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zawodev/zawomons/internal/game"
	"github.com/zawodev/zawomons/internal/keys"
)

type effectEntry struct {
	Target    string `yaml:"target"`
	Kind      string `yaml:"kind"`
	Magnitude int    `yaml:"magnitude"`
}

type requirementEntry struct {
	Primary   string `yaml:"primary"`
	Secondary string `yaml:"secondary"`
}

type spellEntry struct {
	ID           string             `yaml:"id"`
	Name         string             `yaml:"name"`
	Description  string             `yaml:"description"`
	MinLevel     int                `yaml:"min_level"`
	Requirements []requirementEntry `yaml:"requirements"`
	Effects      []effectEntry      `yaml:"effects"`
}

type combatantEntry struct {
	Name           string   `yaml:"name"`
	Primary        string   `yaml:"primary"`
	Secondary      string   `yaml:"secondary"`
	MaxHealth      int      `yaml:"max_health"`
	MaxMana        int      `yaml:"max_mana"`
	BaseDamage     int      `yaml:"base_damage"`
	BaseInitiative int      `yaml:"base_initiative"`
	Experience     int      `yaml:"experience"`
	Spells         []string `yaml:"spells"`
}

type rawCatalog struct {
	Spells     []spellEntry     `yaml:"spells"`
	Combatants []combatantEntry `yaml:"combatants"`
}

// Catalog is the validated content of a catalog file. Combatants reference
// the spell pointers in Spells.
type Catalog struct {
	Spells     []*game.Spell
	Combatants []*game.Combatant
}

// LoadCatalog reads and validates the catalog file at path.
func LoadCatalog(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	c, err := ParseCatalog(b)
	if err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog decodes catalog YAML. It requires non-empty `spells` and
// `combatants` lists.
func ParseCatalog(data []byte) (*Catalog, error) {
	var rc rawCatalog
	if err := yaml.Unmarshal(data, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(rc.Spells) == 0 {
		return nil, fmt.Errorf("spells is empty (provide a 'spells' list)")
	}
	if len(rc.Combatants) == 0 {
		return nil, fmt.Errorf("combatants is empty (provide a 'combatants' list)")
	}

	spells := make([]*game.Spell, 0, len(rc.Spells))
	byID := make(map[string]*game.Spell, len(rc.Spells))
	for _, se := range rc.Spells {
		s, err := buildSpell(se)
		if err != nil {
			return nil, err
		}
		if _, exists := byID[s.ID]; exists {
			return nil, fmt.Errorf("duplicate spell id '%s'", s.ID)
		}
		byID[s.ID] = s
		spells = append(spells, s)
	}

	combatants := make([]*game.Combatant, 0, len(rc.Combatants))
	nameSet := make(map[string]struct{}, len(rc.Combatants))
	for _, ce := range rc.Combatants {
		c, err := buildCombatant(ce, byID)
		if err != nil {
			return nil, err
		}
		ln := strings.ToLower(c.Name)
		if _, exists := nameSet[ln]; exists {
			return nil, fmt.Errorf("duplicate combatant name '%s'", c.Name)
		}
		nameSet[ln] = struct{}{}
		combatants = append(combatants, c)
	}
	return &Catalog{Spells: spells, Combatants: combatants}, nil
}

func buildSpell(se spellEntry) (*game.Spell, error) {
	name := strings.TrimSpace(se.Name)
	if name == "" {
		return nil, fmt.Errorf("spell entry missing 'name'")
	}
	id := keys.Slug(se.ID)
	if id == "" {
		id = keys.Slug(name)
	}
	if len(se.Effects) == 0 {
		return nil, fmt.Errorf("spell '%s' has no effects", id)
	}
	s := &game.Spell{
		ID:          id,
		Name:        name,
		Description: strings.TrimSpace(se.Description),
		MinLevel:    se.MinLevel,
	}
	for _, re := range se.Requirements {
		var r game.ElementRequirement
		if re.Primary != "" {
			e, ok := game.ParseElement(re.Primary)
			if !ok {
				return nil, fmt.Errorf("spell '%s': unknown element '%s'", id, re.Primary)
			}
			r.Primary = &e
		}
		if re.Secondary != "" {
			e, ok := game.ParseElement(re.Secondary)
			if !ok {
				return nil, fmt.Errorf("spell '%s': unknown element '%s'", id, re.Secondary)
			}
			r.Secondary = &e
		}
		s.Requirements = append(s.Requirements, r)
	}
	for i, ee := range se.Effects {
		e := game.Effect{
			Target:    game.TargetShape(strings.ToLower(strings.TrimSpace(ee.Target))),
			Kind:      game.EffectKind(strings.ToLower(strings.TrimSpace(ee.Kind))),
			Magnitude: ee.Magnitude,
		}
		if !e.Target.Valid() {
			return nil, fmt.Errorf("spell '%s' effect %d: unknown target '%s'", id, i, ee.Target)
		}
		if !e.Kind.Valid() {
			return nil, fmt.Errorf("spell '%s' effect %d: unknown kind '%s'", id, i, ee.Kind)
		}
		s.Effects = append(s.Effects, e)
	}
	return s, nil
}

func buildCombatant(ce combatantEntry, spells map[string]*game.Spell) (*game.Combatant, error) {
	name := strings.TrimSpace(ce.Name)
	if name == "" {
		return nil, fmt.Errorf("combatant entry missing 'name'")
	}
	primary, ok := game.ParseElement(ce.Primary)
	if !ok || primary == game.ElementNone {
		return nil, fmt.Errorf("combatant '%s': invalid primary element '%s'", name, ce.Primary)
	}
	secondary, ok := game.ParseElement(ce.Secondary)
	if !ok {
		return nil, fmt.Errorf("combatant '%s': invalid secondary element '%s'", name, ce.Secondary)
	}
	if ce.MaxHealth <= 0 {
		return nil, fmt.Errorf("combatant '%s': max_health must be positive", name)
	}
	c := &game.Combatant{
		Name:           name,
		Primary:        primary,
		Secondary:      secondary,
		MaxHealth:      ce.MaxHealth,
		MaxMana:        ce.MaxMana,
		BaseDamage:     ce.BaseDamage,
		BaseInitiative: ce.BaseInitiative,
		Experience:     ce.Experience,
	}
	for _, ref := range ce.Spells {
		s, ok := spells[keys.Slug(ref)]
		if !ok {
			return nil, fmt.Errorf("combatant '%s': unknown spell '%s'", name, ref)
		}
		if c.KnownSpell(s.ID) != nil {
			continue
		}
		c.Spells = append(c.Spells, s)
	}
	return c, nil
}
