package storage

import (
	"github.com/zawodev/zawomons/internal/config"
	"github.com/zawodev/zawomons/internal/constants"
	"github.com/zawodev/zawomons/internal/keys"
	"github.com/zawodev/zawomons/internal/logging"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

func OpenAndMigrate(dataSourceName string, catalog *config.Catalog) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&SpellRecord{}, &RequirementRecord{}, &EffectRecord{}, &CombatantRecord{}, &CombatantSpellRecord{})
	if err != nil {
		return nil, err
	}
	if catalog != nil {
		if err := seedCatalog(db, catalog); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// seedCatalog writes the catalog file into the database. The file is the
// source of truth: existing rows with the same keys are replaced, and
// their child rows are rebuilt so removed effects do not linger.
func seedCatalog(db *gorm.DB, catalog *config.Catalog) error {
	return db.Transaction(func(tx *gorm.DB) error {
		spellIDs := make([]string, 0, len(catalog.Spells))
		spells := make([]SpellRecord, 0, len(catalog.Spells))
		for _, s := range catalog.Spells {
			spellIDs = append(spellIDs, s.ID)
			spells = append(spells, spellToRecord(s))
		}
		if err := tx.Where("spell_id IN ?", spellIDs).Delete(&RequirementRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("spell_id IN ?", spellIDs).Delete(&EffectRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&spells).Error; err != nil {
			return err
		}

		nameKeys := make([]string, 0, len(catalog.Combatants))
		combatants := make([]CombatantRecord, 0, len(catalog.Combatants))
		for _, c := range catalog.Combatants {
			key := keys.Slug(c.Name)
			nameKeys = append(nameKeys, key)
			combatants = append(combatants, combatantToRecord(key, c))
		}
		if err := tx.Where("combatant_key IN ?", nameKeys).Delete(&CombatantSpellRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&combatants).Error; err != nil {
			return err
		}
		logging.Info("catalog seeded", logging.Fields{
			constants.LogFieldSource: "catalog",
			constants.LogFieldCount:  len(combatants),
		})
		return nil
	})
}
