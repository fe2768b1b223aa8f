package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the Postgres connection pool. Pool sizing and connection
// lifetime are left to the driver defaults; request handlers block on
// acquisition when the pool is exhausted.
func Connect(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}
