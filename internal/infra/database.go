package infra

import (
	"fmt"

	"auditex/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that
// AutoMigrate cannot express (partial indexes, check constraints).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := db.AutoMigrate(
		&model.Collaborateur{},
		&model.Client{},
		&model.Declaration{},
		&model.Facture{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}

	return db, nil
}

// applySchemaPatches runs idempotent DDL statements that GORM AutoMigrate cannot
// fully handle on its own.  Each statement uses IF NOT EXISTS semantics so
// re-running on an already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// Partial index driving the admin "pending registrations" screen.
		{"partial index on pending registrations", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_collaborateurs_en_attente') THEN
    CREATE INDEX idx_collaborateurs_en_attente
        ON collaborateurs (created_at)
        WHERE statut_inscription = 'EN_ATTENTE';
  END IF;
END $$`},
		// A declaration slot is unique per client; periode is NULL for annual
		// declarations, and Postgres unique indexes treat NULLs as distinct,
		// so the annual case needs its own partial unique index.
		{"unique annual declaration per client and year", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_declaration_annuelle_unique') THEN
    CREATE UNIQUE INDEX idx_declaration_annuelle_unique
        ON declarations (client_id, annee)
        WHERE type_declaration = 'ANNUEL';
  END IF;
END $$`},
		// Guard rail: trimestrial periods stay within 1..4.
		{"check constraint on periode range", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_declarations_periode') THEN
    ALTER TABLE declarations
      ADD CONSTRAINT chk_declarations_periode
      CHECK (periode IS NULL OR periode BETWEEN 1 AND 4);
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
