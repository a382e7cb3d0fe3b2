package storage

import (
	"fmt"
	"strings"

	"github.com/zawodev/zawomons/internal/dedupe"
	"github.com/zawodev/zawomons/internal/game"
	"github.com/zawodev/zawomons/internal/keys"
	"gorm.io/gorm"
)

type sqliteCatalog struct {
	db *gorm.DB
}

func NewSQLiteCatalog(db *gorm.DB) CatalogRepository {
	return &sqliteCatalog{db: db}
}

func orderByPosition(db *gorm.DB) *gorm.DB { return db.Order("position") }

func (r *sqliteCatalog) loadSpells(ids []string) (map[string]*game.Spell, []*game.Spell, error) {
	var records []SpellRecord
	q := r.db.Preload("Requirements", orderByPosition).Preload("Effects", orderByPosition).Order("id")
	if ids != nil {
		q = q.Where("id IN ?", ids)
	}
	if err := q.Find(&records).Error; err != nil {
		return nil, nil, err
	}
	byID := make(map[string]*game.Spell, len(records))
	list := make([]*game.Spell, 0, len(records))
	for _, rec := range records {
		s := spellFromRecord(rec)
		byID[s.ID] = s
		list = append(list, s)
	}
	return byID, list, nil
}

func (r *sqliteCatalog) ListSpells() ([]*game.Spell, error) {
	v, err, _ := dedupe.SpellGroup.Do("all", func() (interface{}, error) {
		_, list, err := r.loadSpells(nil)
		return list, err
	})
	if err != nil {
		return nil, err
	}
	return v.([]*game.Spell), nil
}

func (r *sqliteCatalog) GetSpellsByIDs(ids []string) ([]*game.Spell, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	norm := make([]string, 0, len(ids))
	for _, id := range ids {
		norm = append(norm, keys.Slug(id))
	}
	byID, _, err := r.loadSpells(norm)
	if err != nil {
		return nil, err
	}
	out := make([]*game.Spell, 0, len(norm))
	for _, id := range norm {
		s, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("spell %q: %w", id, ErrNotFound)
		}
		out = append(out, s)
	}
	return out, nil
}

// combatants loads combatant records (all when nameKeys is nil) and
// resolves their spells.
func (r *sqliteCatalog) combatants(nameKeys []string) ([]*game.Combatant, error) {
	var records []CombatantRecord
	q := r.db.Preload("Spells", orderByPosition).Order("name")
	if nameKeys != nil {
		q = q.Where("name_key IN ?", nameKeys)
	}
	if err := q.Find(&records).Error; err != nil {
		return nil, err
	}
	var spellIDs []string
	seen := map[string]struct{}{}
	for _, rec := range records {
		for _, link := range rec.Spells {
			if _, ok := seen[link.SpellID]; !ok {
				seen[link.SpellID] = struct{}{}
				spellIDs = append(spellIDs, link.SpellID)
			}
		}
	}
	spells := map[string]*game.Spell{}
	if len(spellIDs) > 0 {
		var err error
		if spells, _, err = r.loadSpells(spellIDs); err != nil {
			return nil, err
		}
	}
	out := make([]*game.Combatant, 0, len(records))
	for _, rec := range records {
		out = append(out, combatantFromRecord(rec, spells))
	}
	return out, nil
}

func (r *sqliteCatalog) ListCombatants() ([]*game.Combatant, error) {
	return r.combatants(nil)
}

func (r *sqliteCatalog) GetCombatantsByNames(names []string) ([]*game.Combatant, error) {
	if len(names) == 0 {
		return nil, nil
	}
	rosterKey := keys.RosterKey(names)
	v, err, _ := dedupe.CombatantGroup.Do(rosterKey, func() (interface{}, error) {
		return r.combatants(strings.Split(rosterKey, ","))
	})
	if err != nil {
		return nil, err
	}
	found := v.([]*game.Combatant)
	byKey := make(map[string]*game.Combatant, len(found))
	for _, c := range found {
		byKey[keys.Slug(c.Name)] = c
	}
	out := make([]*game.Combatant, 0, len(names))
	for _, n := range names {
		c, ok := byKey[keys.Slug(n)]
		if !ok {
			return nil, fmt.Errorf("combatant %q: %w", n, ErrNotFound)
		}
		out = append(out, c)
	}
	return out, nil
}
