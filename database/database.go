package database

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/atalvarez9/events-directory-backend/config"
)

// Connect opens the Postgres connection used by every repository.
func Connect(cfg *config.Config) *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}

	log.Println("✅ Connected to Postgres")
	return db
}

// MigrateSearchVector adds the weighted tsvector column and its GIN index.
// gorm tags cannot express either, so this runs as raw SQL after AutoMigrate,
// mirroring how column-level fixups are handled at startup.
func MigrateSearchVector(db *gorm.DB) error {
	stmts := []string{
		`ALTER TABLE events ADD COLUMN IF NOT EXISTS search_vector tsvector;`,
		`CREATE INDEX IF NOT EXISTS idx_events_search_vector ON events USING GIN (search_vector);`,
		`CREATE INDEX IF NOT EXISTS idx_events_next_start_at ON events (next_start_at);`,
	}
	for _, sql := range stmts {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("search vector migration failed: %v", err)
		}
	}
	return nil
}
