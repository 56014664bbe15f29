// Package gamedb persists played games to a relational store through
// gorm. Two writer disciplines are provided: StreamingWriter inserts
// every action as it happens, BulkWriter collects a whole game in memory
// and commits it in a single transaction when the game finishes.
package gamedb

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the sqlite database at path. ":memory:" gives an
// in-memory store.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open game database %q: %w", path, err)
	}
	return db, nil
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&PlayerRow{},
		&GameRow{},
		&ActionRow{},
		&GameResultRow{},
		&FailedWriteRow{},
	)
}
