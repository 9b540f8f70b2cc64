package database

import (
	"log"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	// registers the cgo-free "sqlite" database/sql driver
	_ "modernc.org/sqlite"

	"rentflow/internal/domain"
)

// Connect opens the reservation ledger database. Postgres DSNs go through
// the pgx-backed driver; anything else is treated as a SQLite path for
// local development and tests.
func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Println("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	log.Println("Using SQLite:", dsn)

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{},
	)
}

// Migrate brings the ledger schema up to date.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.UnitType{},
		&domain.Asset{},
		&domain.Reservation{},
		&domain.ReservationAssignment{},
	)
}
