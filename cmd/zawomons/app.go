package main

import (
	"os"
	"path/filepath"

	"github.com/zawodev/zawomons/internal/config"
	"github.com/zawodev/zawomons/internal/constants"
	"github.com/zawodev/zawomons/internal/logging"
	"github.com/zawodev/zawomons/internal/storage"
)

func loadEnvOrExit() *config.Env {
	cfg, err := config.LoadEnv()
	if err != nil {
		logging.Fatal("Invalid environment configuration", err, nil)
	}
	return cfg
}

func loadCatalogOrExit(path string) *config.Catalog {
	catalog, err := config.LoadCatalog(path)
	if err != nil {
		logging.Fatal("Missing or invalid catalog", err, logging.Fields{
			"catalog_path": path,
			"hint":         "create a YAML file with 'spells' and 'combatants' lists or set " + constants.EnvCatalog,
		})
	}
	return catalog
}

func createCatalogOrExit(dbPath string, catalog *config.Catalog) storage.CatalogRepository {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logging.Fatal("Failed to create database directory", err, logging.Fields{"dir": dir})
		}
	}
	db, err := storage.OpenAndMigrate(dbPath, catalog)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}
	return storage.NewSQLiteCatalog(db)
}
