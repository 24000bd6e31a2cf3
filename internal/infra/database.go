package infra

import (
	"fmt"

	"minakistock/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate,
// then applies the idempotent SQL patches GORM cannot express (CHECK
// constraints, composite covering indexes).
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

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates/updates all tables and applies schema patches. Also
// used by integration tests against throwaway databases.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Location{},
		&model.StorageType{},
		&model.StorageObject{},
		&model.ProductEntry{},
		&model.Movement{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot handle.
// The quantity CHECK is the database-level backstop for the ledger's
// non-negativity invariant: even a buggy code path cannot commit a negative
// quantity.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_product_entries_quantity') THEN
		    ALTER TABLE product_entries
		      ADD CONSTRAINT chk_product_entries_quantity CHECK (quantity >= 0);
		  END IF;
		END $$`,
		// Covering index for the search endpoint's sku substring filter.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_product_entries_sku_lower') THEN
		    CREATE INDEX idx_product_entries_sku_lower ON product_entries (lower(sku));
		  END IF;
		END $$`,
		// Movement history is always read most-recent-first per product.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_movements_product_recent') THEN
		    CREATE INDEX idx_movements_product_recent
		        ON movements (product_type, product_id, created_at DESC);
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("schema patch: %w", err)
		}
	}
	return nil
}
